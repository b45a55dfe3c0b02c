package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/interfaces"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/model"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/model/auth"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/types"
	"github.com/paulmccormack00/risk-assessments/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// RiskConfig is the scoring configuration in effect
type RiskConfig struct {
	Factors    []*model.RiskFactor  `json:"factors"`
	Thresholds model.RiskThresholds `json:"thresholds"`
}

type RiskScoringUseCase struct {
	repo  interfaces.Repository
	clock func() time.Time
}

// GetConfig loads factors and thresholds. An empty store yields the default
// configuration.
func (uc *RiskScoringUseCase) GetConfig(ctx context.Context) (*RiskConfig, error) {
	var (
		factors    []*model.RiskFactor
		thresholds *model.RiskThresholds
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		result, err := uc.repo.RiskConfig().ListFactors(egCtx)
		if err != nil {
			return goerr.Wrap(err, "failed to list risk factors")
		}
		factors = result
		return nil
	})
	eg.Go(func() error {
		result, err := uc.repo.RiskConfig().GetThresholds(egCtx)
		if err != nil {
			if errors.Is(err, interfaces.ErrNotFound) {
				return nil
			}
			return goerr.Wrap(err, "failed to get risk thresholds")
		}
		thresholds = result
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	cfg := &RiskConfig{
		Factors:    factors,
		Thresholds: model.DefaultRiskThresholds(),
	}
	if thresholds != nil {
		cfg.Thresholds = *thresholds
	}
	if len(cfg.Factors) == 0 {
		cfg.Factors = model.DefaultRiskFactors()
	}
	return cfg, nil
}

// UpdateRiskFactor edits a factor's points, severity, active flag or reason
func (uc *RiskScoringUseCase) UpdateRiskFactor(ctx context.Context, id types.FactorID, update model.RiskFactorUpdate) (*model.RiskFactor, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if update.IsEmpty() {
		return nil, goerr.Wrap(ErrValidation, "no field to update", goerr.V(model.FactorIDKey, id))
	}

	factor, err := uc.repo.RiskConfig().GetFactor(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrRiskFactorNotFound, "risk factor not found", goerr.V(model.FactorIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get risk factor", goerr.V(model.FactorIDKey, id))
	}

	updated, err := factor.Apply(update)
	if err != nil {
		return nil, goerr.Wrap(errors.Join(ErrValidation, err), "invalid risk factor update", goerr.V(model.FactorIDKey, id))
	}
	updated.UpdatedAt = uc.clock()

	if err := uc.repo.RiskConfig().PutFactor(ctx, updated); err != nil {
		return nil, goerr.Wrap(err, "failed to save risk factor", goerr.V(model.FactorIDKey, id))
	}
	return updated, nil
}

// UpdateThresholds replaces the classification thresholds
func (uc *RiskScoringUseCase) UpdateThresholds(ctx context.Context, high, medium int) (*model.RiskThresholds, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	thresholds := &model.RiskThresholds{High: high, Medium: medium, UpdatedAt: uc.clock()}
	if err := thresholds.Validate(); err != nil {
		return nil, goerr.Wrap(errors.Join(ErrValidation, err), "invalid risk thresholds", goerr.V("high", high), goerr.V("medium", medium))
	}

	if err := uc.repo.RiskConfig().PutThresholds(ctx, thresholds); err != nil {
		return nil, goerr.Wrap(err, "failed to save risk thresholds")
	}
	return thresholds, nil
}

// Seed stores factors and thresholds that are not configured yet. Existing
// factors keep their administrator edits.
func (uc *RiskScoringUseCase) Seed(ctx context.Context, factors []*model.RiskFactor, thresholds *model.RiskThresholds) (int, error) {
	seeded := 0
	for _, f := range factors {
		if err := f.Validate(); err != nil {
			return seeded, goerr.Wrap(err, "invalid seed factor")
		}
		_, err := uc.repo.RiskConfig().GetFactor(ctx, f.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, interfaces.ErrNotFound) {
			return seeded, goerr.Wrap(err, "failed to get risk factor", goerr.V(model.FactorIDKey, f.ID))
		}

		seed := f.Clone()
		seed.UpdatedAt = uc.clock()
		if err := uc.repo.RiskConfig().PutFactor(ctx, seed); err != nil {
			return seeded, goerr.Wrap(err, "failed to seed risk factor", goerr.V(model.FactorIDKey, f.ID))
		}
		seeded++
	}

	if thresholds != nil {
		if err := thresholds.Validate(); err != nil {
			return seeded, goerr.Wrap(err, "invalid seed thresholds")
		}
		_, err := uc.repo.RiskConfig().GetThresholds(ctx)
		switch {
		case err == nil:
		case errors.Is(err, interfaces.ErrNotFound):
			seed := *thresholds
			seed.UpdatedAt = uc.clock()
			if err := uc.repo.RiskConfig().PutThresholds(ctx, &seed); err != nil {
				return seeded, goerr.Wrap(err, "failed to seed risk thresholds")
			}
		default:
			return seeded, goerr.Wrap(err, "failed to get risk thresholds")
		}
	}

	logging.From(ctx).Info("risk scoring configuration seeded", "factors", seeded)
	return seeded, nil
}

func requireActor(ctx context.Context) (*auth.Token, error) {
	token, err := auth.TokenFromContext(ctx)
	if err != nil || token.IsAnonymous() {
		return nil, goerr.Wrap(ErrUnauthenticated, "no identified actor")
	}
	return token, nil
}

func requireAdmin(ctx context.Context) error {
	token, err := requireActor(ctx)
	if err != nil {
		return err
	}
	if !token.IsAdmin() {
		return goerr.Wrap(ErrForbidden, "admin role required", goerr.V("sub", token.Sub))
	}
	return nil
}
