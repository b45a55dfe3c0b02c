package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/model"
	"github.com/paulmccormack00/risk-assessments/pkg/usecase"
)

func TestImportFramework(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("same slug replaces and keeps the ID", func(t *testing.T) {
		replacement := testFramework()
		replacement.Version = "2.0"

		imported, err := f.uc.Framework.ImportFramework(ctx, replacement)
		gt.NoError(t, err).Required()
		gt.Value(t, imported.ID).Equal(f.fw.ID)

		got, err := f.uc.Framework.GetFramework(ctx, f.fw.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Version).Equal("2.0")

		list, err := f.uc.Framework.ListFrameworks(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, list).Length(1)
	})

	t.Run("invalid framework is rejected", func(t *testing.T) {
		bad := testFramework()
		bad.Slug = "other"
		bad.Sections[1].Questions[0].ID = "E2"

		_, err := f.uc.Framework.ImportFramework(ctx, bad)
		gt.Error(t, err).Is(usecase.ErrValidation)
		gt.Error(t, err).Is(model.ErrDuplicateQuestion)

		_, err = f.uc.Framework.GetFrameworkBySlug(ctx, "other")
		gt.Error(t, err).Is(usecase.ErrFrameworkNotFound)
	})
}

func TestDeriveStandalone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	derived, err := f.uc.Framework.DeriveStandalone(ctx, "unified", "dpia", "DPIA", "Data protection impact assessment", []string{"DPIA"})
	gt.NoError(t, err).Required()
	gt.Value(t, derived.ID).NotEqual(f.fw.ID)
	gt.Array(t, derived.Sections).Length(2).Required()
	gt.Value(t, derived.Sections[0].ID).Equal(model.ModuleEntry)
	gt.Value(t, derived.Sections[1].ID).Equal(model.ModuleDPIA)

	// only entry questions aimed at every output survive
	gt.Array(t, derived.Sections[0].Questions).Length(3)

	stored, err := f.uc.Framework.GetFrameworkBySlug(ctx, "dpia")
	gt.NoError(t, err).Required()
	gt.Value(t, stored.ID).Equal(derived.ID)

	_, err = f.uc.Framework.DeriveStandalone(ctx, "unified", "empty", "Empty", "", nil)
	gt.Error(t, err).Is(usecase.ErrValidation)

	_, err = f.uc.Framework.DeriveStandalone(ctx, "missing", "x", "X", "", []string{"DPIA"})
	gt.Error(t, err).Is(usecase.ErrFrameworkNotFound)
}

func TestOptionList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	consent, err := f.uc.Framework.AddOption(ctx, "DP.3", "Consent")
	gt.NoError(t, err).Required()
	contract, err := f.uc.Framework.AddOption(ctx, "DP.3", "Contract")
	gt.NoError(t, err).Required()
	gt.Number(t, consent.DisplayOrder).Equal(1)
	gt.Number(t, contract.DisplayOrder).Equal(2)

	_, err = f.uc.Framework.AddOption(ctx, "DP.3", "Consent")
	gt.Error(t, err).Is(usecase.ErrValidation)

	contract.DisplayOrder = 0
	_, err = f.uc.Framework.UpdateOption(ctx, contract)
	gt.NoError(t, err).Required()

	list, err := f.uc.Framework.GetOptionList(ctx, "DP.3")
	gt.NoError(t, err).Required()
	gt.Array(t, list).Length(2).Required()
	gt.Value(t, list[0].Label).Equal("Contract")

	gt.NoError(t, f.uc.Framework.DeleteOption(ctx, consent.ID)).Required()
	gt.Error(t, f.uc.Framework.DeleteOption(ctx, consent.ID)).Is(usecase.ErrOptionNotFound)

	_, err = f.uc.Framework.UpdateOption(ctx, &model.OptionListEntry{ID: "missing", Label: "x"})
	gt.Error(t, err).Is(usecase.ErrOptionNotFound)
}
