package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/paulmccormack00/risk-assessments/pkg/usecase"
	"github.com/paulmccormack00/risk-assessments/pkg/utils/errutil"
	"github.com/paulmccormack00/risk-assessments/pkg/utils/logging"
)

const maxBodyBytes = 4 << 20

var errBadRequest = errors.New("bad request")

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.From(ctx).Error("failed to write response", slog.Any("error", err))
	}
}

func decodeJSON(r *http.Request, v any) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return goerr.Wrap(errBadRequest, "invalid request body", goerr.V("cause", err.Error()))
	}
	return nil
}

// statusOf maps use case errors to HTTP status codes
func statusOf(err error) int {
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, usecase.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, usecase.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, usecase.ErrAssessmentNotFound),
		errors.Is(err, usecase.ErrFrameworkNotFound),
		errors.Is(err, usecase.ErrActionItemNotFound),
		errors.Is(err, usecase.ErrRiskFactorNotFound),
		errors.Is(err, usecase.ErrOptionNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrInvalidTransition), errors.Is(err, usecase.ErrAlreadyLinked):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(r *http.Request, w http.ResponseWriter, err error) {
	errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
}
