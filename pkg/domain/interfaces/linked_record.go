package interfaces

import (
	"context"

	"github.com/paulmccormack00/risk-assessments/pkg/domain/model"
)

// LinkedRecordRepository is the append-only ledger of records spawned from assessments
type LinkedRecordRepository interface {
	// Append adds an entry to the assessment's ledger
	Append(ctx context.Context, record *model.LinkedRecord) error

	// List returns an assessment's ledger in creation order
	List(ctx context.Context, assessmentID string) ([]*model.LinkedRecord, error)
}
