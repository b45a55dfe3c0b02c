package usecase_test

import (
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/model"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/types"
	"github.com/paulmccormack00/risk-assessments/pkg/service/report"
	"github.com/paulmccormack00/risk-assessments/pkg/usecase"
)

func TestBuildReport(t *testing.T) {
	f := newFixture(t)
	ctx := userCtx()
	a := f.newCompleted(t, "CRM rollout", model.Responses{
		"E2":   model.TextAnswer("Yes"),
		"DP.1": model.ListAnswer("Contact details"),
	})
	_, err := f.uc.Assessment.CreateActionItem(ctx, a.ID, &model.ActionItem{Title: "Sign DPA", Priority: types.PriorityHigh})
	gt.NoError(t, err).Required()

	doc, err := f.uc.Assessment.BuildReport(ctx, a.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, doc.Framework.ID).Equal(f.fw.ID)
	gt.Value(t, doc.GeneratedAt).Equal(fixedNow)
	gt.Array(t, doc.Ledger).Length(1)
	gt.Value(t, doc.Breakdown).NotNil().Required()
	gt.Number(t, doc.Breakdown.Score).Equal(20)
	gt.Value(t, doc.Breakdown.Classification).Equal(types.RiskClassificationLow)
	gt.Number(t, doc.Progress.Answered).Equal(2)

	md, err := report.Render(doc, report.FormatMarkdown)
	gt.NoError(t, err).Required()
	gt.String(t, string(md)).Contains("# CRM rollout")
	gt.String(t, string(md)).Contains("Sign DPA")
}

func TestBuildReportDraft(t *testing.T) {
	f := newFixture(t)
	ctx := userCtx()
	a, err := f.uc.Assessment.CreateAssessment(ctx, f.fw.ID, "Draft", model.AssessmentLinks{})
	gt.NoError(t, err).Required()

	doc, err := f.uc.Assessment.BuildReport(ctx, a.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, doc.Breakdown).Nil()
	gt.Array(t, doc.Ledger).Length(0)

	_, err = f.uc.Assessment.BuildReport(ctx, "missing")
	gt.Error(t, err).Is(usecase.ErrAssessmentNotFound)
}

func TestCompareAssessments(t *testing.T) {
	f := newFixture(t)
	ctx := userCtx()
	base := f.newCompleted(t, "v1", model.Responses{"E2": model.TextAnswer("No")})
	target := f.newCompleted(t, "v2", model.Responses{
		"E2":   model.TextAnswer("Yes"),
		"DP.2": model.TextAnswer("No"),
	})

	cmp, err := f.uc.Assessment.CompareAssessments(ctx, base.ID, target.ID)
	gt.NoError(t, err).Required()
	gt.True(t, cmp.HasChanges())
	gt.Array(t, cmp.Changes).Length(2).Required()
	gt.Value(t, cmp.Changes[0].QuestionID).Equal("E2")
	gt.Value(t, cmp.Changes[1].QuestionID).Equal("DP.2")
	gt.Value(t, cmp.ModulesAdded).Equal([]string{string(model.ModuleDPIA)})
	gt.True(t, strings.Contains(cmp.Diff, "- E2: No"))
	gt.True(t, strings.Contains(cmp.Diff, "+ E2: Yes"))

	_, err = f.uc.Assessment.CompareAssessments(ctx, base.ID, "missing")
	gt.Error(t, err).Is(usecase.ErrAssessmentNotFound)
}
