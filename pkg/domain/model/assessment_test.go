package model_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/model"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/types"
)

func completedAssessment() *model.Assessment {
	a := model.NewDraft("fw-1", "Vendor onboarding", model.AssessmentLinks{EntityID: "ent-1"})
	a.Status = types.AssessmentStatusCompleted
	a.Responses = model.Responses{
		"E2":   model.TextAnswer("Yes"),
		"VR.1": model.TextAnswer("Acme Analytics"),
		"DP.1": model.ListAnswer("Contact details", "Usage data"),
		"CN.2": model.TextAnswer("Product analytics"),
		"DP.3": model.TextAnswer("Legitimate interest"),
	}
	a.ActiveModules = []types.ModuleID{model.ModuleEntry, model.ModuleCommonNucleus, model.ModuleDPIA}
	a.SetRisk(&model.RiskBreakdown{Score: 35, Classification: types.RiskClassificationMedium})
	now := time.Now().UTC()
	a.CompletedAt = &now
	return a
}

func TestNewDraft(t *testing.T) {
	a := model.NewDraft("fw-1", "Title", model.AssessmentLinks{})

	gt.Value(t, a.Status).Equal(types.AssessmentStatusDraft)
	gt.Bool(t, a.HasRisk()).False()
	gt.Bool(t, a.Modules().Equal(model.BaseModules())).True()
	gt.Value(t, a.ID).NotEqual("")
}

func TestAssessment_Redo(t *testing.T) {
	src := completedAssessment()
	redo := src.Redo()

	gt.Value(t, redo.ID).NotEqual(src.ID)
	gt.Value(t, redo.Title).Equal("Vendor onboarding (Redo)")
	gt.Value(t, redo.Status).Equal(types.AssessmentStatusDraft)
	gt.Number(t, len(redo.Responses)).Equal(0)
	gt.Bool(t, redo.HasRisk()).False()
	gt.Value(t, redo.CompletedAt).Nil()
	gt.Value(t, redo.Links).Equal(src.Links)
	gt.Value(t, redo.FrameworkID).Equal(src.FrameworkID)
}

func TestAssessment_Copy(t *testing.T) {
	src := completedAssessment()
	cp := src.Copy()

	gt.Value(t, cp.Title).Equal("Vendor onboarding (Copy)")
	gt.Value(t, cp.Status).Equal(types.AssessmentStatusDraft)
	gt.Bool(t, cp.Responses.Equal(src.Responses)).True()
	gt.Value(t, cp.ActiveModules).Equal(src.ActiveModules)
	gt.Bool(t, cp.HasRisk()).False()
	gt.Value(t, cp.CompletedAt).Nil()

	cp.Responses["E2"] = model.TextAnswer("No")
	gt.Value(t, src.Responses.Get("E2").Text()).Equal("Yes")
}

func TestAssessment_Clone(t *testing.T) {
	src := completedAssessment()
	c := src.Clone()

	*c.RiskScore = 99
	c.ActiveModules[0] = "changed"
	c.SetMetadata("k", "v")

	gt.Number(t, *src.RiskScore).Equal(35)
	gt.Value(t, src.ActiveModules[0]).Equal(model.ModuleEntry)
	gt.Value(t, src.Metadata).Nil()
}

func TestAssessment_Validation(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	t.Run("dedicated fields", func(t *testing.T) {
		a := completedAssessment()
		a.ValidatedBy = "dpo-1"
		a.ValidatedAt = &at

		by, when, ok := a.Validation()
		gt.Bool(t, ok).True()
		gt.Value(t, by).Equal("dpo-1")
		gt.Bool(t, when.Equal(at)).True()
	})

	t.Run("metadata fallback", func(t *testing.T) {
		a := completedAssessment()
		a.SetMetadata(model.MetadataValidatedBy, "dpo-2")
		a.SetMetadata(model.MetadataValidatedAt, at.Format(time.RFC3339Nano))

		by, when, ok := a.Validation()
		gt.Bool(t, ok).True()
		gt.Value(t, by).Equal("dpo-2")
		gt.Bool(t, when.Equal(at)).True()
	})

	t.Run("not validated", func(t *testing.T) {
		_, _, ok := completedAssessment().Validation()
		gt.Bool(t, ok).False()
	})
}

func TestSuggestSystemRecord(t *testing.T) {
	a := completedAssessment()
	s := model.SuggestSystemRecord(a)

	gt.Value(t, s.Name).Equal("Acme Analytics")
	gt.Value(t, s.Vendor).Equal("Acme Analytics")
	gt.Value(t, s.Description).Equal("System identified from assessment: Vendor onboarding")
	gt.Bool(t, s.PersonalData).True()
	gt.Array(t, s.DataTypes).Length(2)

	delete(a.Responses, "VR.1")
	gt.Value(t, model.SuggestSystemRecord(a).Name).Equal("Vendor onboarding")
}

func TestSuggestProcessingActivity(t *testing.T) {
	pa := model.SuggestProcessingActivity(completedAssessment())

	gt.Value(t, pa.Activity).Equal("Vendor onboarding")
	gt.Value(t, pa.Purpose).Equal("Product analytics")
	gt.Array(t, pa.LegalBasis).Length(1).Required()
	gt.Value(t, pa.LegalBasis[0]).Equal("Legitimate interest")
	gt.Array(t, pa.DataCategories).Has("Usage data")
}

func TestActionItem_SetStatus(t *testing.T) {
	now := time.Now().UTC()
	item := &model.ActionItem{Status: types.ActionItemStatusPending}

	item.SetStatus(types.ActionItemStatusCompleted, now)
	gt.Value(t, item.CompletedAt).NotNil()

	item.SetStatus(types.ActionItemStatusPending, now)
	gt.Value(t, item.CompletedAt).Nil()
}
