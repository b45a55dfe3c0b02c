package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/paulmccormack00/risk-assessments/pkg/service/autosave"
	"github.com/paulmccormack00/risk-assessments/pkg/usecase"
	"github.com/paulmccormack00/risk-assessments/pkg/utils/logging"
)

type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
	saver  *autosave.Saver
	actor  ActorFunc
}

type Options func(*Server)

// WithAutosave enables debounced answer saves on PUT .../responses?autosave=true
func WithAutosave(saver *autosave.Saver) Options {
	return func(s *Server) {
		s.saver = saver
	}
}

// WithActor sets how the acting user is derived from a request
func WithActor(actor ActorFunc) Options {
	return func(s *Server) {
		s.actor = actor
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
		actor:  AnonymousActor,
	}
	for _, opt := range opts {
		opt(s)
	}

	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(actorMiddleware(s.actor))

		r.Route("/assessments", func(r chi.Router) {
			r.Get("/", s.listAssessments)
			r.Post("/", s.createAssessment)
			r.Put("/order", s.reorderAssessments)
			r.Get("/compare", s.compareAssessments)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.getAssessment)
				r.Patch("/", s.updateAssessmentDetails)
				r.Put("/responses", s.saveResponses)
				r.Post("/complete", s.completeAssessment)
				r.Post("/validate", s.transition(s.uc.Assessment.ValidateAssessment))
				r.Post("/reopen", s.transition(s.uc.Assessment.ReopenAssessment))
				r.Post("/redo", s.create(s.uc.Assessment.RedoAssessment))
				r.Post("/archive", s.transition(s.uc.Assessment.ArchiveAssessment))
				r.Post("/copy", s.create(s.uc.Assessment.CopyAssessment))
				r.Get("/report", s.getReport)

				r.Get("/linked-records", s.listLinkedRecords)
				r.Get("/action-items", s.listActionItems)
				r.Post("/action-items", s.createActionItem)
				r.Get("/system/suggestion", s.suggestSystemRecord)
				r.Post("/system", s.createSystemRecord)
				r.Get("/processing-activity/suggestion", s.suggestProcessingActivity)
				r.Post("/processing-activity", s.createProcessingActivity)
			})
		})

		r.Patch("/action-items/{id}", s.updateActionItem)

		r.Post("/risk/preview", s.previewRisk)
		r.Post("/modules/resolve", s.resolveModules)

		r.Route("/risk-scoring", func(r chi.Router) {
			r.Get("/", s.getRiskConfig)
			r.Patch("/factors/{id}", s.updateRiskFactor)
			r.Put("/thresholds", s.updateThresholds)
		})

		r.Get("/frameworks", s.listFrameworks)
		r.Get("/frameworks/{id}", s.getFramework)

		r.Route("/option-lists/{questionID}", func(r chi.Router) {
			r.Get("/", s.listOptions)
			r.Post("/", s.addOption)
			r.Put("/{id}", s.updateOption)
			r.Delete("/{id}", s.deleteOption)
		})
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
