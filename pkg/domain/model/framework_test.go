package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/model"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/types"
)

func sampleFramework() *model.Framework {
	return &model.Framework{
		ID:      "fw-1",
		Slug:    "unified",
		Name:    "Unified Assessment",
		Version: "1.0",
		Sections: []model.Section{
			{
				ID: model.ModuleDPIA, Title: "DPIA", DisplayOrder: 3, Outputs: []string{"DPIA"},
				Questions: []model.Question{
					{ID: "DP.2", Text: "Special categories?", Type: types.QuestionTypeSingleSelect, Options: []string{"No", "Health data"}, AssessmentTypes: []string{"DPIA"}, DisplayOrder: 2},
					{ID: "DP.1", Text: "Data types", Type: types.QuestionTypeMultiSelect, AssessmentTypes: []string{"DPIA", "FRIA"}, DisplayOrder: 1},
				},
			},
			{
				ID: model.ModuleEntry, Title: "Entry", DisplayOrder: 1, Outputs: []string{model.OutputAll},
				Questions: []model.Question{
					{ID: "E2", Text: "Personal data?", Type: types.QuestionTypeSingleSelect, Options: []string{"Yes", "No"}, AssessmentTypes: []string{model.OutputAll}, DisplayOrder: 1},
					{ID: "E4", Text: "AI?", Type: types.QuestionTypeSingleSelect, Options: []string{"Yes", "No"}, AssessmentTypes: []string{model.OutputAll}, DisplayOrder: 2},
				},
			},
			{
				ID: model.ModuleTIA, Title: "TIA", DisplayOrder: 4, Outputs: []string{"TIA"},
				Questions: []model.Question{
					{ID: "TIA.1", Text: "Destination", Type: types.QuestionTypeText, AssessmentTypes: []string{"TIA"}, DisplayOrder: 1},
				},
			},
			{ID: model.ModuleCybersecurity, Title: "Empty", DisplayOrder: 5, Outputs: []string{model.OutputAll}},
		},
	}
}

func TestFramework_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		gt.NoError(t, sampleFramework().Validate())
	})

	t.Run("duplicate question across sections", func(t *testing.T) {
		fw := sampleFramework()
		fw.Sections[2].Questions = append(fw.Sections[2].Questions, model.Question{ID: "E2", Text: "dup", Type: types.QuestionTypeText})
		gt.Error(t, fw.Validate()).Is(model.ErrDuplicateQuestion)
	})

	t.Run("duplicate section", func(t *testing.T) {
		fw := sampleFramework()
		fw.Sections = append(fw.Sections, model.Section{ID: model.ModuleEntry, Title: "again"})
		gt.Error(t, fw.Validate()).Is(model.ErrDuplicateSection)
	})

	t.Run("invalid slug", func(t *testing.T) {
		fw := sampleFramework()
		fw.Slug = "Not A Slug"
		gt.Error(t, fw.Validate()).Is(model.ErrInvalidFramework)
	})

	t.Run("invalid question type", func(t *testing.T) {
		fw := sampleFramework()
		fw.Sections[0].Questions[0].Type = "slider"
		gt.Error(t, fw.Validate()).Is(model.ErrInvalidFramework)
	})
}

func TestFramework_ActiveSections(t *testing.T) {
	fw := sampleFramework()
	modules := model.NewModuleSet(model.ModuleEntry, model.ModuleDPIA, model.ModuleCybersecurity)

	sections := fw.ActiveSections(modules)
	gt.Array(t, sections).Length(2).Required()
	gt.Value(t, sections[0].ID).Equal(model.ModuleEntry)
	gt.Value(t, sections[1].ID).Equal(model.ModuleDPIA)
	gt.Value(t, sections[1].Questions[0].ID).Equal("DP.1")

	// ordering the copy must not reorder the stored framework
	gt.Value(t, fw.Sections[0].Questions[0].ID).Equal("DP.2")
}

func TestFramework_Progress(t *testing.T) {
	fw := sampleFramework()
	modules := model.NewModuleSet(model.ModuleEntry, model.ModuleDPIA)
	responses := model.Responses{
		"E2":    model.TextAnswer("Yes"),
		"DP.1":  model.ListAnswer(),
		"TIA.1": model.TextAnswer("US"),
	}

	p := fw.Progress(responses, modules)
	gt.Number(t, p.Total).Equal(4)
	gt.Number(t, p.Answered).Equal(1)
	gt.Number(t, p.Percent()).Equal(25)
	gt.Number(t, model.Progress{}.Percent()).Equal(0)
}

func TestFramework_FindQuestion(t *testing.T) {
	fw := sampleFramework()

	q, ok := fw.FindQuestion("TIA.1")
	gt.Bool(t, ok).True()
	gt.Value(t, q.Type).Equal(types.QuestionTypeText)

	_, ok = fw.FindQuestion("nope")
	gt.Bool(t, ok).False()
}

func TestFramework_DeriveStandalone(t *testing.T) {
	fw := sampleFramework()

	derived := fw.DeriveStandalone("dpia", "DPIA", "Data protection impact assessment", []string{"DPIA"})
	gt.NoError(t, derived.Validate())
	gt.Value(t, derived.Slug).Equal(types.FrameworkSlug("dpia"))
	gt.Array(t, derived.Sections).Length(2).Required()
	gt.Value(t, derived.Sections[0].ID).Equal(model.ModuleEntry)
	gt.Value(t, derived.Sections[1].ID).Equal(model.ModuleDPIA)
	gt.Array(t, derived.Sections[1].Questions).Length(2)

	fria := fw.DeriveStandalone("fria", "FRIA", "", []string{"FRIA"})
	gt.Array(t, fria.Sections).Length(1).Required()
	gt.Value(t, fria.Sections[0].ID).Equal(model.ModuleEntry)

	gt.Array(t, fw.Sections).Length(4)
}
