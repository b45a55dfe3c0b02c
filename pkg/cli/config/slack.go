package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/paulmccormack00/risk-assessments/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds CLI flags for lifecycle notifications
type Slack struct {
	botToken  string
	channelID string
	baseURL   string
	apiURL    string
}

// Flags returns CLI flags for Slack configuration
func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Category:    "Slack",
			Usage:       "Slack Bot User OAuth Token used to post notifications",
			Sources:     cli.EnvVars("COMPLIO_SLACK_BOT_TOKEN"),
			Destination: &x.botToken,
		},
		&cli.StringFlag{
			Name:        "slack-channel-id",
			Category:    "Slack",
			Usage:       "Channel that receives completion and validation notifications",
			Sources:     cli.EnvVars("COMPLIO_SLACK_CHANNEL_ID"),
			Destination: &x.channelID,
		},
		&cli.StringFlag{
			Name:        "base-url",
			Category:    "Slack",
			Usage:       "Public URL of the web UI, used for links in notifications",
			Sources:     cli.EnvVars("COMPLIO_BASE_URL"),
			Destination: &x.baseURL,
		},
		&cli.StringFlag{
			Name:        "slack-api-url",
			Category:    "Slack",
			Usage:       "Override the Slack API endpoint",
			Hidden:      true,
			Sources:     cli.EnvVars("COMPLIO_SLACK_API_URL"),
			Destination: &x.apiURL,
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("configured", x.IsConfigured()),
		slog.String("channel_id", x.channelID),
		slog.String("base_url", x.baseURL),
	)
}

// IsConfigured reports whether notifications are enabled
func (x *Slack) IsConfigured() bool {
	return x.botToken != "" && x.channelID != ""
}

// Validate rejects a half-configured Slack integration
func (x *Slack) Validate() error {
	if (x.botToken == "") != (x.channelID == "") {
		return goerr.Wrap(ErrInvalidConfig, "slack-bot-token and slack-channel-id must be set together")
	}
	return nil
}

// Configure returns the notification service, or nil when Slack is not configured
func (x *Slack) Configure() (slack.Service, error) {
	if err := x.Validate(); err != nil {
		return nil, err
	}
	if !x.IsConfigured() {
		return nil, nil
	}

	var opts []slack.Option
	if x.baseURL != "" {
		opts = append(opts, slack.WithBaseURL(x.baseURL))
	}
	if x.apiURL != "" {
		opts = append(opts, slack.WithAPIURL(x.apiURL))
	}
	svc, err := slack.New(x.botToken, x.channelID, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize slack service")
	}
	return svc, nil
}
