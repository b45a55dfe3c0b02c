package interfaces

import (
	"context"

	"github.com/paulmccormack00/risk-assessments/pkg/domain/model"
)

// ActionItemRepository defines the interface for remediation action items
type ActionItemRepository interface {
	Create(ctx context.Context, item *model.ActionItem) (*model.ActionItem, error)
	Get(ctx context.Context, id string) (*model.ActionItem, error)

	// ListByAssessment returns the action items of an assessment in creation order
	ListByAssessment(ctx context.Context, assessmentID string) ([]*model.ActionItem, error)

	Update(ctx context.Context, item *model.ActionItem) (*model.ActionItem, error)
}

// SystemRepository stores system inventory records
type SystemRepository interface {
	Create(ctx context.Context, system *model.SystemRecord) (*model.SystemRecord, error)
	Get(ctx context.Context, id string) (*model.SystemRecord, error)
}

// ProcessingActivityRepository stores record-of-processing entries
type ProcessingActivityRepository interface {
	Create(ctx context.Context, activity *model.ProcessingActivity) (*model.ProcessingActivity, error)
	Get(ctx context.Context, id string) (*model.ProcessingActivity, error)
}
