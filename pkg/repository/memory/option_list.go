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

type optionListRepository struct {
	mu      sync.RWMutex
	entries map[string]*model.OptionListEntry
}

func newOptionListRepository() *optionListRepository {
	return &optionListRepository{entries: make(map[string]*model.OptionListEntry)}
}

func (r *optionListRepository) List(ctx context.Context, questionID string) ([]*model.OptionListEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.OptionListEntry
	for _, e := range r.entries {
		if e.QuestionID == questionID {
			copied := *e
			result = append(result, &copied)
		}
	}
	slices.SortFunc(result, func(a, b *model.OptionListEntry) int {
		return a.DisplayOrder - b.DisplayOrder
	})
	return result, nil
}

func (r *optionListRepository) Create(ctx context.Context, entry *model.OptionListEntry) (*model.OptionListEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := *entry
	if created.ID == "" {
		created.ID = model.NewOptionID()
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	r.entries[created.ID] = &created
	result := created
	return &result, nil
}

func (r *optionListRepository) Update(ctx context.Context, entry *model.OptionListEntry) (*model.OptionListEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.entries[entry.ID]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "option not found", goerr.V("id", entry.ID))
	}

	updated := *entry
	updated.QuestionID = existing.QuestionID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.entries[updated.ID] = &updated
	result := updated
	return &result, nil
}

func (r *optionListRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[id]; !exists {
		return goerr.Wrap(interfaces.ErrNotFound, "option not found", goerr.V("id", id))
	}
	delete(r.entries, id)
	return nil
}
