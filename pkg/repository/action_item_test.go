package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/interfaces"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/model"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/types"
)

func runActionItemRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create, Get and ListByAssessment", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		due := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
		first, err := repo.ActionItem().Create(ctx, &model.ActionItem{
			AssessmentID: "a-1",
			Title:        "Encrypt backups",
			Priority:     types.PriorityHigh,
			Status:       types.ActionItemStatusPending,
			DueDate:      &due,
		})
		gt.NoError(t, err).Required()
		gt.Value(t, first.ID).NotEqual("")

		time.Sleep(time.Millisecond)
		_, err = repo.ActionItem().Create(ctx, &model.ActionItem{
			AssessmentID: "a-1",
			Title:        "Sign DPA",
			Priority:     types.PriorityMedium,
			Status:       types.ActionItemStatusPending,
		})
		gt.NoError(t, err).Required()
		_, err = repo.ActionItem().Create(ctx, &model.ActionItem{
			AssessmentID: "a-2",
			Title:        "Other",
			Priority:     types.PriorityLow,
			Status:       types.ActionItemStatusPending,
		})
		gt.NoError(t, err).Required()

		got, err := repo.ActionItem().Get(ctx, first.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Title).Equal("Encrypt backups")
		gt.Value(t, got.DueDate).NotNil()
		gt.Bool(t, got.DueDate.Equal(due)).True()

		items, err := repo.ActionItem().ListByAssessment(ctx, "a-1")
		gt.NoError(t, err).Required()
		gt.Array(t, items).Length(2).Required()
		gt.Value(t, items[0].Title).Equal("Encrypt backups")
		gt.Value(t, items[1].Title).Equal("Sign DPA")
	})

	t.Run("Update keeps owner and creation time", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.ActionItem().Create(ctx, &model.ActionItem{
			AssessmentID: "a-1",
			Title:        "Review retention",
			Priority:     types.PriorityMedium,
			Status:       types.ActionItemStatusPending,
		})
		gt.NoError(t, err).Required()

		created.AssessmentID = "someone-else"
		created.SetStatus(types.ActionItemStatusCompleted, time.Now().UTC().Truncate(time.Millisecond))
		updated, err := repo.ActionItem().Update(ctx, created)
		gt.NoError(t, err).Required()
		gt.Value(t, updated.AssessmentID).Equal("a-1")

		got, err := repo.ActionItem().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Status).Equal(types.ActionItemStatusCompleted)
		gt.Value(t, got.CompletedAt).NotNil()
	})

	t.Run("Get returns ErrNotFound", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.ActionItem().Get(context.Background(), model.NewRecordID())
		gt.Error(t, err).Is(interfaces.ErrNotFound)
	})
}

func TestActionItemRepository(t *testing.T) {
	runForEachBackend(t, runActionItemRepositoryTest)
}

func runRecordRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("System round trip", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.System().Create(ctx, &model.SystemRecord{
			AssessmentID: "a-1",
			Name:         "Acme Analytics",
			Vendor:       "Acme",
			PersonalData: true,
			DataTypes:    []string{"Contact details", "Usage data"},
		})
		gt.NoError(t, err).Required()

		got, err := repo.System().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Name).Equal("Acme Analytics")
		gt.Bool(t, got.PersonalData).True()
		gt.Array(t, got.DataTypes).Length(2)

		_, err = repo.System().Get(ctx, model.NewRecordID())
		gt.Error(t, err).Is(interfaces.ErrNotFound)
	})

	t.Run("ProcessingActivity round trip", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.ProcessingActivity().Create(ctx, &model.ProcessingActivity{
			AssessmentID:   "a-1",
			Activity:       "Payroll",
			Purpose:        "Pay employees",
			LegalBasis:     []string{"Contract", "Legal obligation"},
			DataCategories: []string{"Bank details"},
		})
		gt.NoError(t, err).Required()

		got, err := repo.ProcessingActivity().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Activity).Equal("Payroll")
		gt.Array(t, got.LegalBasis).Length(2)
		gt.Array(t, got.DataCategories).Has("Bank details")

		_, err = repo.ProcessingActivity().Get(ctx, model.NewRecordID())
		gt.Error(t, err).Is(interfaces.ErrNotFound)
	})
}

func TestRecordRepository(t *testing.T) {
	runForEachBackend(t, runRecordRepositoryTest)
}
