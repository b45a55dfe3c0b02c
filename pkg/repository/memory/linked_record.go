package memory

import (
	"context"
	"sync"
	"time"

	"github.com/paulmccormack00/risk-assessments/pkg/domain/model"
)

type linkedRecordRepository struct {
	mu      sync.RWMutex
	records map[string][]*model.LinkedRecord
}

func newLinkedRecordRepository() *linkedRecordRepository {
	return &linkedRecordRepository{
		records: make(map[string][]*model.LinkedRecord),
	}
}

func (r *linkedRecordRepository) Append(ctx context.Context, record *model.LinkedRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := *record
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	r.records[entry.AssessmentID] = append(r.records[entry.AssessmentID], &entry)
	return nil
}

func (r *linkedRecordRepository) List(ctx context.Context, assessmentID string) ([]*model.LinkedRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.records[assessmentID]
	result := make([]*model.LinkedRecord, len(entries))
	for i, e := range entries {
		copied := *e
		result[i] = &copied
	}
	return result, nil
}
