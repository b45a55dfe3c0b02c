package slack_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/types"
	"github.com/paulmccormack00/risk-assessments/pkg/service/slack"
	slackgo "github.com/slack-go/slack"
)

func TestNew(t *testing.T) {
	t.Run("returns error when token is empty", func(t *testing.T) {
		_, err := slack.New("", "C001")
		gt.Value(t, err).NotNil()
	})

	t.Run("returns error when channel is empty", func(t *testing.T) {
		_, err := slack.New("xoxb-test", "")
		gt.Value(t, err).NotNil()
	})

	t.Run("creates service when token and channel are provided", func(t *testing.T) {
		svc, err := slack.New("xoxb-test", "C001")
		gt.NoError(t, err).Required()
		gt.Value(t, svc).NotNil()
	})
}

func TestBuildBlocks(t *testing.T) {
	score := 40
	n := &slack.Notification{
		Event:          slack.EventCompleted,
		AssessmentID:   "a-1",
		Title:          "Vendor review",
		Score:          &score,
		Classification: types.RiskClassificationMedium,
		Actor:          "dpo@example.com",
	}

	t.Run("links to the assessment when a base URL is set", func(t *testing.T) {
		blocks := slack.BuildBlocks(n, "https://complio.example.com")
		gt.Array(t, blocks).Length(2).Required()

		section, ok := blocks[0].(*slackgo.SectionBlock)
		gt.Bool(t, ok).True()
		gt.String(t, section.Text.Text).Contains("<https://complio.example.com/assessments/a-1|Vendor review>")
		gt.Array(t, section.Fields).Length(2).Required()
		gt.String(t, section.Fields[0].Text).Contains("40 (medium)")
		gt.String(t, section.Fields[1].Text).Contains("dpo@example.com")
	})

	t.Run("plain title without base URL and without score", func(t *testing.T) {
		blocks := slack.BuildBlocks(&slack.Notification{Event: slack.EventValidated, AssessmentID: "a-2", Title: "TIA"}, "")
		section := blocks[0].(*slackgo.SectionBlock)
		gt.String(t, section.Text.Text).Equal("*Assessment validated:* TIA")
		gt.Array(t, section.Fields).Length(0)
	})
}

func TestTruncateToMaxBytes(t *testing.T) {
	gt.Value(t, slack.TruncateToMaxBytes("abc", 10)).Equal("abc")
	gt.Value(t, slack.TruncateToMaxBytes("abcdef", 3)).Equal("abc")
	// "é" is two bytes; cutting inside it drops the whole rune
	gt.Value(t, slack.TruncateToMaxBytes("aé", 2)).Equal("a")
}

func TestNotify(t *testing.T) {
	var posted map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.Bool(t, strings.HasSuffix(r.URL.Path, "chat.postMessage")).True()
		gt.NoError(t, r.ParseForm()).Required()
		posted = map[string]string{
			"channel": r.PostForm.Get("channel"),
			"text":    r.PostForm.Get("text"),
			"blocks":  r.PostForm.Get("blocks"),
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "channel": "C001", "ts": "1.0"})
	}))
	defer srv.Close()

	svc, err := slack.New("xoxb-test", "C001", slack.WithAPIURL(srv.URL+"/"))
	gt.NoError(t, err).Required()

	err = svc.Notify(context.Background(), &slack.Notification{
		Event:        slack.EventCompleted,
		AssessmentID: "a-1",
		Title:        "Vendor review",
	})
	gt.NoError(t, err).Required()
	gt.Value(t, posted["channel"]).Equal("C001")
	gt.Value(t, posted["text"]).Equal("Assessment completed: Vendor review")
	gt.String(t, posted["blocks"]).Contains("Vendor review")
}

func TestIntegration(t *testing.T) {
	token := os.Getenv("TEST_SLACK_BOT_TOKEN")
	channel := os.Getenv("TEST_SLACK_CHANNEL_ID")
	if token == "" || channel == "" {
		t.Skip("TEST_SLACK_BOT_TOKEN or TEST_SLACK_CHANNEL_ID is not set")
	}

	svc, err := slack.New(token, channel)
	gt.NoError(t, err).Required()

	score := 20
	err = svc.Notify(context.Background(), &slack.Notification{
		Event:          slack.EventCompleted,
		AssessmentID:   "integration-test",
		Title:          "Integration test assessment",
		Score:          &score,
		Classification: types.RiskClassificationLow,
	})
	gt.NoError(t, err)
}
