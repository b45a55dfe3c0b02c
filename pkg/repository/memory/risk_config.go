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

type riskConfigRepository struct {
	mu         sync.RWMutex
	factors    map[types.FactorID]*model.RiskFactor
	thresholds *model.RiskThresholds
}

func newRiskConfigRepository() *riskConfigRepository {
	return &riskConfigRepository{
		factors: make(map[types.FactorID]*model.RiskFactor),
	}
}

func (r *riskConfigRepository) ListFactors(ctx context.Context) ([]*model.RiskFactor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.RiskFactor, 0, len(r.factors))
	for _, f := range r.factors {
		result = append(result, f.Clone())
	}
	slices.SortFunc(result, func(a, b *model.RiskFactor) int {
		if a.DisplayOrder != b.DisplayOrder {
			return a.DisplayOrder - b.DisplayOrder
		}
		return compareFactorID(a.ID, b.ID)
	})
	return result, nil
}

func compareFactorID(a, b types.FactorID) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (r *riskConfigRepository) GetFactor(ctx context.Context, id types.FactorID) (*model.RiskFactor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, exists := r.factors[id]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "risk factor not found", goerr.V("id", id))
	}
	return f.Clone(), nil
}

func (r *riskConfigRepository) PutFactor(ctx context.Context, factor *model.RiskFactor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := factor.Clone()
	stored.UpdatedAt = time.Now().UTC()
	r.factors[stored.ID] = stored
	return nil
}

func (r *riskConfigRepository) GetThresholds(ctx context.Context) (*model.RiskThresholds, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.thresholds == nil {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "risk thresholds not configured")
	}
	copied := *r.thresholds
	return &copied, nil
}

func (r *riskConfigRepository) PutThresholds(ctx context.Context, thresholds *model.RiskThresholds) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *thresholds
	stored.UpdatedAt = time.Now().UTC()
	r.thresholds = &stored
	return nil
}
