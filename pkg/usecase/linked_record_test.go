package usecase_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/model"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/types"
	"github.com/paulmccormack00/risk-assessments/pkg/repository/memory"
	"github.com/paulmccormack00/risk-assessments/pkg/usecase"
)

func TestCreateSystemRecord(t *testing.T) {
	f := newFixture(t)
	ctx := userCtx()
	a := f.newCompleted(t, "Vendor review", model.Responses{"E2": model.TextAnswer("Yes")})

	created, err := f.uc.Assessment.CreateSystemRecord(ctx, a.ID, &model.SystemRecord{Name: "Acme CRM", Vendor: "Acme"})
	gt.NoError(t, err).Required()
	gt.Value(t, created.AssessmentID).Equal(a.ID)

	linked, err := f.uc.Assessment.GetAssessment(ctx, a.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, linked.Links.SystemID).Equal(created.ID)

	_, err = f.uc.Assessment.CreateSystemRecord(ctx, a.ID, &model.SystemRecord{Name: "Acme CRM again"})
	gt.Error(t, err).Is(usecase.ErrAlreadyLinked)

	ledger, err := f.uc.Assessment.ListLinkedRecords(ctx, a.ID)
	gt.NoError(t, err).Required()
	gt.Array(t, ledger).Length(1).Required()
	gt.Value(t, ledger[0].Type).Equal(types.LinkedRecordSystem)
	gt.Value(t, ledger[0].RecordID).Equal(created.ID)
	gt.Value(t, ledger[0].Title).Equal("Acme CRM")
}

func TestCreateProcessingActivity(t *testing.T) {
	f := newFixture(t)
	ctx := userCtx()
	a := f.newCompleted(t, "Payroll", model.Responses{})

	created, err := f.uc.Assessment.CreateProcessingActivity(ctx, a.ID, &model.ProcessingActivity{Activity: "Payroll", Purpose: "Pay staff"})
	gt.NoError(t, err).Required()

	_, err = f.uc.Assessment.CreateProcessingActivity(ctx, a.ID, &model.ProcessingActivity{Activity: "Payroll"})
	gt.Error(t, err).Is(usecase.ErrAlreadyLinked)

	linked, err := f.uc.Assessment.GetAssessment(ctx, a.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, linked.Links.ProcessingActivityID).Equal(created.ID)

	_, err = f.uc.Assessment.CreateProcessingActivity(ctx, a.ID, &model.ProcessingActivity{})
	gt.Error(t, err).Is(usecase.ErrValidation)
}

func TestCreateActionItem(t *testing.T) {
	t.Run("unlimited and all recorded in the ledger", func(t *testing.T) {
		f := newFixture(t)
		ctx := userCtx()
		a := f.newCompleted(t, "Vendor review", model.Responses{})

		first, err := f.uc.Assessment.CreateActionItem(ctx, a.ID, &model.ActionItem{Title: "Sign DPA", Priority: types.PriorityHigh})
		gt.NoError(t, err).Required()
		second, err := f.uc.Assessment.CreateActionItem(ctx, a.ID, &model.ActionItem{Title: "Review retention"})
		gt.NoError(t, err).Required()

		gt.Value(t, first.Status).Equal(types.ActionItemStatusPending)
		gt.Value(t, second.Priority).Equal(types.PriorityMedium)

		ledger, err := f.uc.Assessment.ListLinkedRecords(ctx, a.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, ledger).Length(2).Required()
		gt.Value(t, ledger[0].RecordID).Equal(first.ID)
		gt.Value(t, ledger[1].RecordID).Equal(second.ID)
		gt.Value(t, ledger[1].Type).Equal(types.LinkedRecordActionItem)

		items, err := f.uc.Assessment.ListActionItems(ctx, a.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, items).Length(2)
	})

	t.Run("only from completed or validated assessments", func(t *testing.T) {
		f := newFixture(t)
		ctx := userCtx()
		draft, err := f.uc.Assessment.CreateAssessment(ctx, f.fw.ID, "Draft", model.AssessmentLinks{})
		gt.NoError(t, err).Required()

		_, err = f.uc.Assessment.CreateActionItem(ctx, draft.ID, &model.ActionItem{Title: "Too early"})
		gt.Error(t, err).Is(usecase.ErrInvalidTransition)
		_, err = f.uc.Assessment.CreateSystemRecord(ctx, draft.ID, &model.SystemRecord{Name: "Too early"})
		gt.Error(t, err).Is(usecase.ErrInvalidTransition)

		validated := f.newValidated(t, "Signed", model.Responses{})
		_, err = f.uc.Assessment.CreateActionItem(ctx, validated.ID, &model.ActionItem{Title: "Follow up"})
		gt.NoError(t, err)
	})

	t.Run("title and priority are validated", func(t *testing.T) {
		f := newFixture(t)
		a := f.newCompleted(t, "Done", model.Responses{})

		_, err := f.uc.Assessment.CreateActionItem(userCtx(), a.ID, &model.ActionItem{})
		gt.Error(t, err).Is(usecase.ErrValidation)
		_, err = f.uc.Assessment.CreateActionItem(userCtx(), a.ID, &model.ActionItem{Title: "x", Priority: "urgent"})
		gt.Error(t, err).Is(usecase.ErrValidation)
	})

	t.Run("ledger failure does not lose the record", func(t *testing.T) {
		f := newFixtureWithRepo(t, &brokenLedgerRepository{Repository: memory.New()})
		a := f.newCompleted(t, "Done", model.Responses{})

		item, err := f.uc.Assessment.CreateActionItem(userCtx(), a.ID, &model.ActionItem{Title: "Kept"})
		gt.NoError(t, err).Required()

		got, err := f.repo.ActionItem().Get(userCtx(), item.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Title).Equal("Kept")
	})
}

func TestUpdateActionItemStatus(t *testing.T) {
	f := newFixture(t)
	ctx := userCtx()
	a := f.newCompleted(t, "Done", model.Responses{})
	item, err := f.uc.Assessment.CreateActionItem(ctx, a.ID, &model.ActionItem{Title: "Encrypt backups"})
	gt.NoError(t, err).Required()

	done, err := f.uc.Assessment.UpdateActionItemStatus(ctx, item.ID, types.ActionItemStatusCompleted)
	gt.NoError(t, err).Required()
	gt.Value(t, done.Status).Equal(types.ActionItemStatusCompleted)
	gt.Value(t, done.CompletedAt).NotNil()
	gt.Bool(t, done.CompletedAt.Equal(fixedNow)).True()

	pending, err := f.uc.Assessment.UpdateActionItemStatus(ctx, item.ID, types.ActionItemStatusPending)
	gt.NoError(t, err).Required()
	gt.Value(t, pending.CompletedAt).Nil()

	_, err = f.uc.Assessment.UpdateActionItemStatus(ctx, "missing", types.ActionItemStatusCompleted)
	gt.Error(t, err).Is(usecase.ErrActionItemNotFound)

	_, err = f.uc.Assessment.UpdateActionItemStatus(ctx, item.ID, "blocked")
	gt.Error(t, err).Is(usecase.ErrValidation)
}

func TestSuggestRecords(t *testing.T) {
	f := newFixture(t)
	ctx := userCtx()
	a := f.newCompleted(t, "CRM rollout", model.Responses{
		"E2":   model.TextAnswer("Yes"),
		"VR.1": model.TextAnswer("Acme"),
		"DP.1": model.ListAnswer("Contact details"),
		"DP.3": model.ListAnswer("Contract"),
		"CN.2": model.TextAnswer("Customer support"),
	})

	sys, err := f.uc.Assessment.SuggestSystemRecord(ctx, a.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, sys.Name).Equal("Acme")
	gt.Bool(t, sys.PersonalData).True()
	gt.Value(t, sys.DataTypes).Equal([]string{"Contact details"})

	pa, err := f.uc.Assessment.SuggestProcessingActivity(ctx, a.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, pa.Activity).Equal("CRM rollout")
	gt.Value(t, pa.Purpose).Equal("Customer support")
	gt.Value(t, pa.LegalBasis).Equal([]string{"Contract"})
}
