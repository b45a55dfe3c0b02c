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

type actionItemRepository struct {
	mu    sync.RWMutex
	items map[string]*model.ActionItem
	seq   int64
	order map[string]int64
}

func newActionItemRepository() *actionItemRepository {
	return &actionItemRepository{
		items: make(map[string]*model.ActionItem),
		order: make(map[string]int64),
	}
}

func copyActionItem(item *model.ActionItem) *model.ActionItem {
	copied := *item
	if item.DueDate != nil {
		t := *item.DueDate
		copied.DueDate = &t
	}
	if item.CompletedAt != nil {
		t := *item.CompletedAt
		copied.CompletedAt = &t
	}
	return &copied
}

func (r *actionItemRepository) Create(ctx context.Context, item *model.ActionItem) (*model.ActionItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyActionItem(item)
	if created.ID == "" {
		created.ID = model.NewRecordID()
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	r.seq++
	r.items[created.ID] = created
	r.order[created.ID] = r.seq
	return copyActionItem(created), nil
}

func (r *actionItemRepository) Get(ctx context.Context, id string) (*model.ActionItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, exists := r.items[id]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "action item not found", goerr.V("id", id))
	}
	return copyActionItem(item), nil
}

func (r *actionItemRepository) ListByAssessment(ctx context.Context, assessmentID string) ([]*model.ActionItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.ActionItem
	for _, item := range r.items {
		if item.AssessmentID == assessmentID {
			result = append(result, copyActionItem(item))
		}
	}
	slices.SortFunc(result, func(a, b *model.ActionItem) int {
		return int(r.order[a.ID] - r.order[b.ID])
	})
	return result, nil
}

func (r *actionItemRepository) Update(ctx context.Context, item *model.ActionItem) (*model.ActionItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.items[item.ID]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "action item not found", goerr.V("id", item.ID))
	}

	updated := copyActionItem(item)
	updated.AssessmentID = existing.AssessmentID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.items[updated.ID] = updated
	return copyActionItem(updated), nil
}
