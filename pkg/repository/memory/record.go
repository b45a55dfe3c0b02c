package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/interfaces"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/model"
)

type systemRepository struct {
	mu      sync.RWMutex
	systems map[string]*model.SystemRecord
}

func newSystemRepository() *systemRepository {
	return &systemRepository{systems: make(map[string]*model.SystemRecord)}
}

func copySystem(s *model.SystemRecord) *model.SystemRecord {
	copied := *s
	copied.DataTypes = slices.Clone(s.DataTypes)
	return &copied
}

func (r *systemRepository) Create(ctx context.Context, system *model.SystemRecord) (*model.SystemRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copySystem(system)
	if created.ID == "" {
		created.ID = model.NewRecordID()
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	r.systems[created.ID] = created
	return copySystem(created), nil
}

func (r *systemRepository) Get(ctx context.Context, id string) (*model.SystemRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, exists := r.systems[id]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "system not found", goerr.V("id", id))
	}
	return copySystem(s), nil
}

type processingActivityRepository struct {
	mu         sync.RWMutex
	activities map[string]*model.ProcessingActivity
}

func newProcessingActivityRepository() *processingActivityRepository {
	return &processingActivityRepository{activities: make(map[string]*model.ProcessingActivity)}
}

func copyProcessingActivity(pa *model.ProcessingActivity) *model.ProcessingActivity {
	copied := *pa
	copied.LegalBasis = slices.Clone(pa.LegalBasis)
	copied.DataCategories = slices.Clone(pa.DataCategories)
	return &copied
}

func (r *processingActivityRepository) Create(ctx context.Context, activity *model.ProcessingActivity) (*model.ProcessingActivity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyProcessingActivity(activity)
	if created.ID == "" {
		created.ID = model.NewRecordID()
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	r.activities[created.ID] = created
	return copyProcessingActivity(created), nil
}

func (r *processingActivityRepository) Get(ctx context.Context, id string) (*model.ProcessingActivity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pa, exists := r.activities[id]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "processing activity not found", goerr.V("id", id))
	}
	return copyProcessingActivity(pa), nil
}
