package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/interfaces"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/model"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/types"
	"github.com/paulmccormack00/risk-assessments/pkg/service/report"
	"github.com/paulmccormack00/risk-assessments/pkg/usecase"
	"github.com/paulmccormack00/risk-assessments/pkg/utils/safe"
)

type createAssessmentRequest struct {
	FrameworkID string                `json:"framework_id"`
	Title       string                `json:"title"`
	Links       model.AssessmentLinks `json:"links"`
}

type updateAssessmentRequest struct {
	Title string                `json:"title"`
	Links model.AssessmentLinks `json:"links"`
}

type responsesRequest struct {
	Responses model.Responses `json:"responses"`
}

// answersRequest tells an omitted responses field apart from an empty one
type answersRequest struct {
	Responses *model.Responses `json:"responses"`
}

type reorderRequest struct {
	IDs []string `json:"ids"`
}

type assessmentResponse struct {
	*model.Assessment
	Progress *model.Progress `json:"progress,omitempty"`
}

type autosaveResponse struct {
	AssessmentID string `json:"assessment_id"`
	Scheduled    bool   `json:"scheduled"`
}

func (s *Server) listAssessments(w http.ResponseWriter, r *http.Request) {
	var opts []interfaces.ListAssessmentOption
	query := r.URL.Query()
	for _, raw := range query["status"] {
		for _, v := range strings.Split(raw, ",") {
			status, err := types.ParseAssessmentStatus(strings.TrimSpace(v))
			if err != nil {
				writeError(r, w, goerr.Wrap(errBadRequest, "invalid status filter", goerr.V("status", v)))
				return
			}
			opts = append(opts, interfaces.WithStatus(status))
		}
	}
	if archived, _ := strconv.ParseBool(query.Get("include_archived")); archived {
		opts = append(opts, interfaces.WithIncludeArchived())
	}

	list, err := s.uc.Assessment.ListAssessments(r.Context(), opts...)
	if err != nil {
		writeError(r, w, err)
		return
	}
	if list == nil {
		list = []*model.Assessment{}
	}
	writeJSON(r.Context(), w, http.StatusOK, list)
}

func (s *Server) createAssessment(w http.ResponseWriter, r *http.Request) {
	var req createAssessmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(r, w, err)
		return
	}

	a, err := s.uc.Assessment.CreateAssessment(r.Context(), req.FrameworkID, req.Title, req.Links)
	if err != nil {
		writeError(r, w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusCreated, a)
}

func (s *Server) getAssessment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	a, err := s.uc.Assessment.GetAssessment(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(r, w, err)
		return
	}

	progress, err := s.uc.Assessment.Progress(ctx, a)
	if err != nil {
		writeError(r, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, assessmentResponse{Assessment: a, Progress: &progress})
}

func (s *Server) updateAssessmentDetails(w http.ResponseWriter, r *http.Request) {
	var req updateAssessmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(r, w, err)
		return
	}

	a, err := s.uc.Assessment.UpdateAssessmentDetails(r.Context(), chi.URLParam(r, "id"), req.Title, req.Links)
	if err != nil {
		writeError(r, w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, a)
}

// saveResponses stores answers immediately, or debounces them when the
// autosave query flag is set and a Saver is configured
func (s *Server) saveResponses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var req answersRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(r, w, err)
		return
	}
	if req.Responses == nil {
		writeError(r, w, goerr.Wrap(errBadRequest, "responses is required"))
		return
	}
	responses := *req.Responses

	if debounce, _ := strconv.ParseBool(r.URL.Query().Get("autosave")); debounce && s.saver != nil {
		a, err := s.uc.Assessment.GetAssessment(ctx, id)
		if err != nil {
			writeError(r, w, err)
			return
		}
		if !a.Status.IsEditable() {
			writeError(r, w, goerr.Wrap(usecase.ErrInvalidTransition, "assessment is not editable",
				goerr.V(usecase.AssessmentIDKey, id),
				goerr.V(usecase.StatusKey, a.Status)))
			return
		}
		if err := s.saver.Schedule(ctx, id, responses); err != nil {
			writeError(r, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusAccepted, autosaveResponse{AssessmentID: id, Scheduled: true})
		return
	}

	if s.saver != nil {
		if err := s.saver.Settle(ctx, id); err != nil {
			writeError(r, w, err)
			return
		}
	}
	a, err := s.uc.Assessment.SaveResponses(ctx, id, responses)
	if err != nil {
		writeError(r, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, a)
}

// completeAssessment completes with the answers in the body, or with the
// stored answers when the body has no responses field
func (s *Server) completeAssessment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var req answersRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(r, w, err)
		return
	}
	var responses model.Responses
	if req.Responses != nil {
		responses = *req.Responses
		if responses == nil {
			responses = model.Responses{}
		}
	}

	// A debounced save must not overwrite the completed answers
	if s.saver != nil {
		if err := s.saver.Settle(ctx, id); err != nil {
			writeError(r, w, err)
			return
		}
	}
	a, err := s.uc.Assessment.CompleteAssessment(ctx, id, responses)
	if err != nil {
		writeError(r, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, a)
}

// transition wraps a lifecycle action that returns the updated assessment
func (s *Server) transition(action func(context.Context, string) (*model.Assessment, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := action(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(r, w, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, a)
	}
}

// create wraps a lifecycle action that derives a new assessment
func (s *Server) create(action func(context.Context, string) (*model.Assessment, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := action(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(r, w, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusCreated, a)
	}
}

func (s *Server) reorderAssessments(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(r, w, err)
		return
	}
	if err := s.uc.Assessment.ReorderAssessments(r.Context(), req.IDs); err != nil {
		writeError(r, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) compareAssessments(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	base, target := query.Get("base"), query.Get("target")
	if base == "" || target == "" {
		writeError(r, w, goerr.Wrap(errBadRequest, "base and target are required"))
		return
	}

	cmp, err := s.uc.Assessment.CompareAssessments(r.Context(), base, target)
	if err != nil {
		writeError(r, w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, cmp)
}

func (s *Server) getReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	format := report.Format(r.URL.Query().Get("format"))
	if format == "" {
		format = report.FormatMarkdown
	}

	doc, err := s.uc.Assessment.BuildReport(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(r, w, err)
		return
	}
	data, err := report.Render(doc, format)
	if err != nil {
		writeError(r, w, goerr.Wrap(errBadRequest, "failed to render report", goerr.V("format", format), goerr.V("cause", err.Error())))
		return
	}

	switch format {
	case report.FormatHTML:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	case report.FormatJSON:
		w.Header().Set("Content-Type", "application/json")
	default:
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	}
	w.WriteHeader(http.StatusOK)
	safe.Write(ctx, w, data)
}
