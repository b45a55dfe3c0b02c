package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/model"
)

type optionRequest struct {
	Label        string `json:"label"`
	DisplayOrder int    `json:"display_order"`
}

type frameworkSummary struct {
	ID       string `json:"id"`
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	Version  string `json:"version"`
	IsSystem bool   `json:"is_system"`
	Sections int    `json:"sections"`
}

func (s *Server) listFrameworks(w http.ResponseWriter, r *http.Request) {
	frameworks, err := s.uc.Framework.ListFrameworks(r.Context())
	if err != nil {
		writeError(r, w, err)
		return
	}

	resp := make([]frameworkSummary, len(frameworks))
	for i, fw := range frameworks {
		resp[i] = frameworkSummary{
			ID:       fw.ID,
			Slug:     string(fw.Slug),
			Name:     fw.Name,
			Version:  fw.Version,
			IsSystem: fw.IsSystem,
			Sections: len(fw.Sections),
		}
	}
	writeJSON(r.Context(), w, http.StatusOK, resp)
}

func (s *Server) getFramework(w http.ResponseWriter, r *http.Request) {
	fw, err := s.uc.Framework.GetFramework(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(r, w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, fw)
}

func (s *Server) listOptions(w http.ResponseWriter, r *http.Request) {
	list, err := s.uc.Framework.GetOptionList(r.Context(), chi.URLParam(r, "questionID"))
	if err != nil {
		writeError(r, w, err)
		return
	}
	if list == nil {
		list = []*model.OptionListEntry{}
	}
	writeJSON(r.Context(), w, http.StatusOK, list)
}

func (s *Server) addOption(w http.ResponseWriter, r *http.Request) {
	var req optionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(r, w, err)
		return
	}

	entry, err := s.uc.Framework.AddOption(r.Context(), chi.URLParam(r, "questionID"), req.Label)
	if err != nil {
		writeError(r, w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusCreated, entry)
}

func (s *Server) updateOption(w http.ResponseWriter, r *http.Request) {
	var req optionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(r, w, err)
		return
	}

	entry, err := s.uc.Framework.UpdateOption(r.Context(), &model.OptionListEntry{
		ID:           chi.URLParam(r, "id"),
		QuestionID:   chi.URLParam(r, "questionID"),
		Label:        req.Label,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		writeError(r, w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, entry)
}

func (s *Server) deleteOption(w http.ResponseWriter, r *http.Request) {
	if err := s.uc.Framework.DeleteOption(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(r, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
