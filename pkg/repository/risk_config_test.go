package repository_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/interfaces"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/model"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/types"
)

func runRiskConfigRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("factors are listed in display order", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		defaults := model.DefaultRiskFactors()
		for i := len(defaults) - 1; i >= 0; i-- {
			gt.NoError(t, repo.RiskConfig().PutFactor(ctx, defaults[i])).Required()
		}

		factors, err := repo.RiskConfig().ListFactors(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, factors).Length(len(defaults)).Required()
		for i, f := range factors {
			gt.Value(t, f.ID).Equal(defaults[i].ID)
			gt.Value(t, f.Condition).Equal(defaults[i].Condition)
			gt.Bool(t, f.IsActive).True()
		}
	})

	t.Run("PutFactor replaces an existing factor", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		f := model.DefaultRiskFactors()[0]
		gt.NoError(t, repo.RiskConfig().PutFactor(ctx, f)).Required()

		f.Points = 35
		f.IsActive = false
		gt.NoError(t, repo.RiskConfig().PutFactor(ctx, f)).Required()

		got, err := repo.RiskConfig().GetFactor(ctx, f.ID)
		gt.NoError(t, err).Required()
		gt.Number(t, got.Points).Equal(35)
		gt.Bool(t, got.IsActive).False()

		all, err := repo.RiskConfig().ListFactors(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, all).Length(1)
	})

	t.Run("GetFactor returns ErrNotFound", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.RiskConfig().GetFactor(context.Background(), types.FactorID("missing"))
		gt.Error(t, err).Is(interfaces.ErrNotFound)
	})

	t.Run("thresholds", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.RiskConfig().GetThresholds(ctx)
		gt.Error(t, err).Is(interfaces.ErrNotFound)

		gt.NoError(t, repo.RiskConfig().PutThresholds(ctx, &model.RiskThresholds{High: 70, Medium: 40})).Required()
		gt.NoError(t, repo.RiskConfig().PutThresholds(ctx, &model.RiskThresholds{High: 65, Medium: 35})).Required()

		got, err := repo.RiskConfig().GetThresholds(ctx)
		gt.NoError(t, err).Required()
		gt.Number(t, got.High).Equal(65)
		gt.Number(t, got.Medium).Equal(35)
	})
}

func TestRiskConfigRepository(t *testing.T) {
	runForEachBackend(t, runRiskConfigRepositoryTest)
}
