package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/interfaces"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/model"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/types"
)

type assessmentRepository struct {
	mu               sync.RWMutex
	assessments      map[string]*model.Assessment
	legacyValidation bool
}

func newAssessmentRepository() *assessmentRepository {
	return &assessmentRepository{
		assessments: make(map[string]*model.Assessment),
	}
}

func (r *assessmentRepository) Create(ctx context.Context, assessment *model.Assessment) (*model.Assessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := assessment.Clone()
	if created.ID == "" {
		created.ID = model.NewAssessmentID()
	}
	if _, exists := r.assessments[created.ID]; exists {
		return nil, goerr.New("assessment already exists", goerr.V("id", created.ID))
	}
	created.Status = created.Status.Normalize()
	if r.legacyValidation {
		created.ValidatedBy = ""
		created.ValidatedAt = nil
	}

	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	r.assessments[created.ID] = created
	return created.Clone(), nil
}

func (r *assessmentRepository) Get(ctx context.Context, id string) (*model.Assessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, exists := r.assessments[id]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "assessment not found", goerr.V("id", id))
	}
	return a.Clone(), nil
}

func (r *assessmentRepository) List(ctx context.Context, opts ...interfaces.ListAssessmentOption) ([]*model.Assessment, error) {
	cfg := interfaces.BuildListAssessmentConfig(opts...)

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Assessment, 0, len(r.assessments))
	for _, a := range r.assessments {
		if cfg.Match(a) {
			result = append(result, a.Clone())
		}
	}

	slices.SortFunc(result, func(a, b *model.Assessment) int {
		if a.SortOrder != b.SortOrder {
			return a.SortOrder - b.SortOrder
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return result, nil
}

func (r *assessmentRepository) Update(ctx context.Context, assessment *model.Assessment) (*model.Assessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.assessments[assessment.ID]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "assessment not found", goerr.V("id", assessment.ID))
	}

	updated := assessment.Clone()
	updated.Status = updated.Status.Normalize()
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	if r.legacyValidation {
		updated.ValidatedBy = ""
		updated.ValidatedAt = nil
	}

	r.assessments[updated.ID] = updated
	return updated.Clone(), nil
}

func (r *assessmentRepository) MarkValidated(ctx context.Context, id, validatedBy string, validatedAt time.Time) (*model.Assessment, error) {
	if r.legacyValidation {
		return nil, goerr.Wrap(interfaces.ErrValidationColumnsUnsupported, "store has no validation fields", goerr.V("id", id))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.assessments[id]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "assessment not found", goerr.V("id", id))
	}

	updated := existing.Clone()
	at := validatedAt.UTC()
	updated.Status = types.AssessmentStatusValidated
	updated.ValidatedBy = validatedBy
	updated.ValidatedAt = &at
	updated.UpdatedAt = time.Now().UTC()

	r.assessments[id] = updated
	return updated.Clone(), nil
}
