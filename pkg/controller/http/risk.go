package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/model"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/types"
)

type thresholdsRequest struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
}

type resolveModulesResponse struct {
	Modules []types.ModuleID `json:"modules"`
}

func (s *Server) previewRisk(w http.ResponseWriter, r *http.Request) {
	var req responsesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(r, w, err)
		return
	}

	breakdown, err := s.uc.Assessment.PreviewRisk(r.Context(), req.Responses)
	if err != nil {
		writeError(r, w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, breakdown)
}

func (s *Server) resolveModules(w http.ResponseWriter, r *http.Request) {
	var req responsesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(r, w, err)
		return
	}

	modules := s.uc.Assessment.ResolveModules(req.Responses)
	writeJSON(r.Context(), w, http.StatusOK, resolveModulesResponse{Modules: modules.IDs()})
}

func (s *Server) getRiskConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.uc.Risk.GetConfig(r.Context())
	if err != nil {
		writeError(r, w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, cfg)
}

func (s *Server) updateRiskFactor(w http.ResponseWriter, r *http.Request) {
	var req model.RiskFactorUpdate
	if err := decodeJSON(r, &req); err != nil {
		writeError(r, w, err)
		return
	}

	factor, err := s.uc.Risk.UpdateRiskFactor(r.Context(), types.FactorID(chi.URLParam(r, "id")), req)
	if err != nil {
		writeError(r, w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, factor)
}

func (s *Server) updateThresholds(w http.ResponseWriter, r *http.Request) {
	var req thresholdsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(r, w, err)
		return
	}

	thresholds, err := s.uc.Risk.UpdateThresholds(r.Context(), req.High, req.Medium)
	if err != nil {
		writeError(r, w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, thresholds)
}
