package slack

import (
	"context"

	"github.com/paulmccormack00/risk-assessments/pkg/domain/types"
)

// Service posts assessment lifecycle notifications to Slack
type Service interface {
	Notify(ctx context.Context, n *Notification) error
}

// Event is the lifecycle transition a notification reports
type Event string

const (
	EventCompleted Event = "completed"
	EventValidated Event = "validated"
)

// Notification describes one lifecycle transition of an assessment
type Notification struct {
	Event          Event
	AssessmentID   string
	Title          string
	Score          *int
	Classification types.RiskClassification
	Actor          string
}
