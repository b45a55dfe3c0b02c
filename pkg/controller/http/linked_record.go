package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/model"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/types"
)

type createActionItemRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
}

type updateActionItemRequest struct {
	Status string `json:"status"`
}

type createSystemRequest struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Vendor       string   `json:"vendor"`
	PersonalData bool     `json:"personal_data"`
	DataTypes    []string `json:"data_types"`
}

type createProcessingActivityRequest struct {
	Activity       string   `json:"activity"`
	Purpose        string   `json:"purpose"`
	LegalBasis     []string `json:"legal_basis"`
	DataCategories []string `json:"data_categories"`
}

func (s *Server) listLinkedRecords(w http.ResponseWriter, r *http.Request) {
	records, err := s.uc.Assessment.ListLinkedRecords(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(r, w, err)
		return
	}
	if records == nil {
		records = []*model.LinkedRecord{}
	}
	writeJSON(r.Context(), w, http.StatusOK, records)
}

func (s *Server) listActionItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.uc.Assessment.ListActionItems(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(r, w, err)
		return
	}
	if items == nil {
		items = []*model.ActionItem{}
	}
	writeJSON(r.Context(), w, http.StatusOK, items)
}

func (s *Server) createActionItem(w http.ResponseWriter, r *http.Request) {
	var req createActionItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(r, w, err)
		return
	}

	item, err := s.uc.Assessment.CreateActionItem(r.Context(), chi.URLParam(r, "id"), &model.ActionItem{
		Title:       req.Title,
		Description: req.Description,
		Priority:    types.Priority(req.Priority),
		DueDate:     req.DueDate,
	})
	if err != nil {
		writeError(r, w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusCreated, item)
}

func (s *Server) updateActionItem(w http.ResponseWriter, r *http.Request) {
	var req updateActionItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(r, w, err)
		return
	}
	status, err := types.ParseActionItemStatus(req.Status)
	if err != nil {
		writeError(r, w, goerr.Wrap(errBadRequest, "invalid action item status", goerr.V("status", req.Status)))
		return
	}

	item, err := s.uc.Assessment.UpdateActionItemStatus(r.Context(), chi.URLParam(r, "id"), status)
	if err != nil {
		writeError(r, w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, item)
}

func (s *Server) suggestSystemRecord(w http.ResponseWriter, r *http.Request) {
	suggestion, err := s.uc.Assessment.SuggestSystemRecord(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(r, w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, suggestion)
}

func (s *Server) createSystemRecord(w http.ResponseWriter, r *http.Request) {
	var req createSystemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(r, w, err)
		return
	}

	system, err := s.uc.Assessment.CreateSystemRecord(r.Context(), chi.URLParam(r, "id"), &model.SystemRecord{
		Name:         req.Name,
		Description:  req.Description,
		Vendor:       req.Vendor,
		PersonalData: req.PersonalData,
		DataTypes:    req.DataTypes,
	})
	if err != nil {
		writeError(r, w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusCreated, system)
}

func (s *Server) suggestProcessingActivity(w http.ResponseWriter, r *http.Request) {
	suggestion, err := s.uc.Assessment.SuggestProcessingActivity(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(r, w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, suggestion)
}

func (s *Server) createProcessingActivity(w http.ResponseWriter, r *http.Request) {
	var req createProcessingActivityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(r, w, err)
		return
	}

	activity, err := s.uc.Assessment.CreateProcessingActivity(r.Context(), chi.URLParam(r, "id"), &model.ProcessingActivity{
		Activity:       req.Activity,
		Purpose:        req.Purpose,
		LegalBasis:     req.LegalBasis,
		DataCategories: req.DataCategories,
	})
	if err != nil {
		writeError(r, w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusCreated, activity)
}
