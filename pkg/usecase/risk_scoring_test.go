package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/model"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/types"
	"github.com/paulmccormack00/risk-assessments/pkg/usecase"
)

func ptr[T any](v T) *T {
	return &v
}

func TestGetConfig(t *testing.T) {
	t.Run("empty store yields defaults", func(t *testing.T) {
		f := newFixture(t)
		cfg, err := f.uc.Risk.GetConfig(context.Background())
		gt.NoError(t, err).Required()
		gt.Array(t, cfg.Factors).Length(len(model.DefaultRiskFactors()))
		gt.Value(t, cfg.Thresholds).Equal(model.DefaultRiskThresholds())
	})

	t.Run("stored configuration wins", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		_, err := f.uc.Risk.Seed(ctx, model.DefaultRiskFactors()[:3], &model.RiskThresholds{High: 70, Medium: 40})
		gt.NoError(t, err).Required()

		cfg, err := f.uc.Risk.GetConfig(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, cfg.Factors).Length(3)
		gt.Number(t, cfg.Thresholds.High).Equal(70)
		gt.Number(t, cfg.Thresholds.Medium).Equal(40)
	})
}

func TestUpdateRiskFactor(t *testing.T) {
	setup := func(t *testing.T) *fixture {
		f := newFixture(t)
		_, err := f.uc.Risk.Seed(context.Background(), model.DefaultRiskFactors(), nil)
		gt.NoError(t, err).Required()
		return f
	}

	t.Run("admin only", func(t *testing.T) {
		f := setup(t)
		update := model.RiskFactorUpdate{Points: ptr(30)}

		_, err := f.uc.Risk.UpdateRiskFactor(context.Background(), "personal_data", update)
		gt.Error(t, err).Is(usecase.ErrUnauthenticated)

		_, err = f.uc.Risk.UpdateRiskFactor(userCtx(), "personal_data", update)
		gt.Error(t, err).Is(usecase.ErrForbidden)

		factor, err := f.repo.RiskConfig().GetFactor(context.Background(), "personal_data")
		gt.NoError(t, err).Required()
		gt.Number(t, factor.Points).Equal(20)
	})

	t.Run("edits points, severity and active flag", func(t *testing.T) {
		f := setup(t)
		updated, err := f.uc.Risk.UpdateRiskFactor(adminCtx(), "personal_data", model.RiskFactorUpdate{
			Points:   ptr(30),
			Severity: ptr(types.SeverityHigh),
		})
		gt.NoError(t, err).Required()
		gt.Number(t, updated.Points).Equal(30)
		gt.Value(t, updated.Severity).Equal(types.SeverityHigh)
		gt.Bool(t, updated.UpdatedAt.Equal(fixedNow)).True()

		breakdown, err := f.uc.Assessment.PreviewRisk(context.Background(), model.Responses{"E2": model.TextAnswer("Yes")})
		gt.NoError(t, err).Required()
		gt.Number(t, breakdown.Score).Equal(30)

		_, err = f.uc.Risk.UpdateRiskFactor(adminCtx(), "personal_data", model.RiskFactorUpdate{IsActive: ptr(false)})
		gt.NoError(t, err).Required()
		breakdown, err = f.uc.Assessment.PreviewRisk(context.Background(), model.Responses{"E2": model.TextAnswer("Yes")})
		gt.NoError(t, err).Required()
		gt.Number(t, breakdown.Score).Equal(0)
	})

	t.Run("rejects invalid updates", func(t *testing.T) {
		f := setup(t)
		_, err := f.uc.Risk.UpdateRiskFactor(adminCtx(), "personal_data", model.RiskFactorUpdate{Points: ptr(101)})
		gt.Error(t, err).Is(usecase.ErrValidation)
		gt.Error(t, err).Is(model.ErrInvalidRiskFactor)
		gt.String(t, err.Error()).Contains("points must be between 0 and 100")

		_, err = f.uc.Risk.UpdateRiskFactor(adminCtx(), "personal_data", model.RiskFactorUpdate{})
		gt.Error(t, err).Is(usecase.ErrValidation)

		_, err = f.uc.Risk.UpdateRiskFactor(adminCtx(), "missing", model.RiskFactorUpdate{Points: ptr(5)})
		gt.Error(t, err).Is(usecase.ErrRiskFactorNotFound)
	})
}

func TestUpdateThresholds(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Risk.UpdateThresholds(userCtx(), 70, 40)
	gt.Error(t, err).Is(usecase.ErrForbidden)

	_, err = f.uc.Risk.UpdateThresholds(adminCtx(), 30, 30)
	gt.Error(t, err).Is(usecase.ErrValidation)
	gt.Error(t, err).Is(model.ErrInvalidThresholds)

	updated, err := f.uc.Risk.UpdateThresholds(adminCtx(), 50, 20)
	gt.NoError(t, err).Required()
	gt.Number(t, updated.High).Equal(50)

	// 20 points now classifies as medium
	breakdown, err := f.uc.Assessment.PreviewRisk(context.Background(), model.Responses{"E2": model.TextAnswer("Yes")})
	gt.NoError(t, err).Required()
	gt.Value(t, breakdown.Classification).Equal(types.RiskClassificationMedium)
}

func TestSeed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	seeded, err := f.uc.Risk.Seed(ctx, model.DefaultRiskFactors(), ptr(model.DefaultRiskThresholds()))
	gt.NoError(t, err).Required()
	gt.Number(t, seeded).Equal(len(model.DefaultRiskFactors()))

	_, err = f.uc.Risk.UpdateRiskFactor(adminCtx(), "ai_involvement", model.RiskFactorUpdate{Points: ptr(10)})
	gt.NoError(t, err).Required()
	_, err = f.uc.Risk.UpdateThresholds(adminCtx(), 80, 50)
	gt.NoError(t, err).Required()

	seeded, err = f.uc.Risk.Seed(ctx, model.DefaultRiskFactors(), ptr(model.DefaultRiskThresholds()))
	gt.NoError(t, err).Required()
	gt.Number(t, seeded).Equal(0)

	cfg, err := f.uc.Risk.GetConfig(ctx)
	gt.NoError(t, err).Required()
	gt.Number(t, cfg.Thresholds.High).Equal(80)
	for _, factor := range cfg.Factors {
		if factor.ID == "ai_involvement" {
			gt.Number(t, factor.Points).Equal(10)
		}
	}
}
