package slack

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
)

// maxTextBytes is the limit Slack applies to a section block's text
const maxTextBytes = 3000

// client implements Service interface
type client struct {
	api       *slack.Client
	channelID string
	baseURL   string
	apiOpts   []slack.Option
}

// Option is a functional option for client configuration
type Option func(*client)

// WithBaseURL sets the web UI base URL used to link to assessments
func WithBaseURL(url string) Option {
	return func(c *client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithAPIURL points the client at a different Slack API endpoint
func WithAPIURL(url string) Option {
	return func(c *client) {
		c.apiOpts = append(c.apiOpts, slack.OptionAPIURL(url))
	}
}

// New creates a new Slack service posting to channelID with the provided bot token
func New(token, channelID string, opts ...Option) (Service, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}
	if channelID == "" {
		return nil, goerr.New("Slack channel ID is required")
	}

	c := &client{
		channelID: channelID,
	}

	for _, opt := range opts {
		opt(c)
	}
	c.api = slack.New(token, c.apiOpts...)

	return c, nil
}

// Notify posts a block message for the transition
func (c *client) Notify(ctx context.Context, n *Notification) error {
	blocks := buildBlocks(n, c.baseURL)
	_, _, err := c.api.PostMessageContext(ctx, c.channelID,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText(fallbackText(n), false),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post Slack message",
			goerr.V("channel_id", c.channelID),
			goerr.V("assessment_id", n.AssessmentID),
			goerr.V("event", n.Event))
	}
	return nil
}

func fallbackText(n *Notification) string {
	return fmt.Sprintf("Assessment %s: %s", n.Event, n.Title)
}

func buildBlocks(n *Notification, baseURL string) []slack.Block {
	headline := fmt.Sprintf("*Assessment %s:* %s", n.Event, n.Title)
	if baseURL != "" {
		headline = fmt.Sprintf("*Assessment %s:* <%s/assessments/%s|%s>", n.Event, baseURL, n.AssessmentID, n.Title)
	}

	var fields []*slack.TextBlockObject
	if n.Score != nil {
		fields = append(fields, slack.NewTextBlockObject(slack.MarkdownType,
			fmt.Sprintf("*Risk score*\n%d (%s)", *n.Score, n.Classification), false, false))
	}
	if n.Actor != "" {
		fields = append(fields, slack.NewTextBlockObject(slack.MarkdownType,
			fmt.Sprintf("*By*\n%s", n.Actor), false, false))
	}

	section := slack.NewSectionBlock(
		slack.NewTextBlockObject(slack.MarkdownType, truncateToMaxBytes(headline, maxTextBytes), false, false),
		fields, nil,
	)
	footer := slack.NewContextBlock("",
		slack.NewTextBlockObject(slack.MarkdownType, "ID: `"+n.AssessmentID+"`", false, false),
	)
	return []slack.Block{section, footer}
}

// truncateToMaxBytes cuts s to at most max bytes without splitting a rune
func truncateToMaxBytes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
