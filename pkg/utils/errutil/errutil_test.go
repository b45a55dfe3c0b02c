package errutil_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/paulmccormack00/risk-assessments/pkg/utils/errutil"
)

func TestHandle(t *testing.T) {
	err := goerr.New("boom", goerr.V("assessment_id", "a-1"))
	gt.Error(t, errutil.Handle(context.Background(), err, "failed")).Is(err)
	gt.NoError(t, errutil.Handle(context.Background(), nil, "nothing"))
}

func TestHandleHTTP(t *testing.T) {
	t.Run("client error exposes message", func(t *testing.T) {
		w := httptest.NewRecorder()
		errutil.HandleHTTP(context.Background(), w, goerr.New("title is required"), http.StatusBadRequest)

		gt.Number(t, w.Code).Equal(http.StatusBadRequest)
		var body map[string]string
		gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &body)).Required()
		gt.Value(t, body["error"]).Equal("title is required")
	})

	t.Run("server error hides message", func(t *testing.T) {
		w := httptest.NewRecorder()
		errutil.HandleHTTP(context.Background(), w, goerr.New("dsn=secret"), http.StatusInternalServerError)

		gt.Number(t, w.Code).Equal(http.StatusInternalServerError)
		gt.String(t, w.Body.String()).NotContains("secret")
	})
}

func TestHandleReportsValuesToSentry(t *testing.T) {
	var captured *sentry.Event
	client, err := sentry.NewClient(sentry.ClientOptions{
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			captured = event
			return nil
		},
	})
	gt.NoError(t, err).Required()
	ctx := sentry.SetHubOnContext(context.Background(), sentry.NewHub(client, sentry.NewScope()))

	_ = errutil.Handle(ctx, goerr.New("save failed", goerr.V("assessment_id", "a-1")), "autosave")

	gt.Value(t, captured).NotNil().Required()
	gt.Value(t, captured.Tags["message"]).Equal("autosave")
	gt.Value(t, captured.Contexts["goerr"]["assessment_id"]).Equal(any("a-1"))
}
