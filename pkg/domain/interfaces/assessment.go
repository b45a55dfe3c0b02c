package interfaces

import (
	"context"
	"time"

	"github.com/paulmccormack00/risk-assessments/pkg/domain/model"
)

// AssessmentRepository persists assessment instances. Records are never
// deleted; archiving is a status change made through Update.
type AssessmentRepository interface {
	// Create stores a new assessment. An empty ID is replaced with a generated one.
	Create(ctx context.Context, assessment *model.Assessment) (*model.Assessment, error)

	// Get retrieves an assessment by ID
	Get(ctx context.Context, id string) (*model.Assessment, error)

	// List retrieves assessments ordered by sort order, newest first within
	// the same sort order. Archived assessments are excluded unless requested.
	List(ctx context.Context, opts ...ListAssessmentOption) ([]*model.Assessment, error)

	// Update replaces the mutable fields of an existing assessment (last write wins)
	Update(ctx context.Context, assessment *model.Assessment) (*model.Assessment, error)

	// MarkValidated sets the validated status together with the validator and
	// timestamp. Stores without dedicated validation fields return
	// ErrValidationColumnsUnsupported and change nothing.
	MarkValidated(ctx context.Context, id, validatedBy string, validatedAt time.Time) (*model.Assessment, error)
}
