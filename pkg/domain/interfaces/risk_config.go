package interfaces

import (
	"context"

	"github.com/paulmccormack00/risk-assessments/pkg/domain/model"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/types"
)

// RiskConfigRepository stores the risk factor table and classification thresholds
type RiskConfigRepository interface {
	// ListFactors returns every factor, active or not, in display order
	ListFactors(ctx context.Context) ([]*model.RiskFactor, error)

	GetFactor(ctx context.Context, id types.FactorID) (*model.RiskFactor, error)

	// PutFactor creates or replaces a factor
	PutFactor(ctx context.Context, factor *model.RiskFactor) error

	// GetThresholds returns ErrNotFound when thresholds were never stored
	GetThresholds(ctx context.Context) (*model.RiskThresholds, error)

	PutThresholds(ctx context.Context, thresholds *model.RiskThresholds) error
}
