package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/interfaces"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/model"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/types"
)

// ValidationIssue represents a single inconsistency found in a stored assessment
type ValidationIssue struct {
	AssessmentID string
	Field        string
	Message      string
	Expected     string
	Actual       string
}

// ValidationResult holds the results of DB validation
type ValidationResult struct {
	Checked int
	Issues  []ValidationIssue
}

// HasIssues returns true if there are any validation issues
func (r *ValidationResult) HasIssues() bool {
	return len(r.Issues) > 0
}

// AddIssue adds a validation issue to the result
func (r *ValidationResult) AddIssue(issue ValidationIssue) {
	r.Issues = append(r.Issues, issue)
}

// ValidateDB checks stored assessments against their framework and the
// lifecycle rules: the cached module list must match the resolver, completed
// assessments must carry a score and completion time, and validated ones a
// validator. It does NOT modify any data.
func (uc *AssessmentUseCase) ValidateDB(ctx context.Context) (*ValidationResult, error) {
	list, err := uc.repo.Assessment().List(ctx, interfaces.WithIncludeArchived())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list assessments")
	}

	result := &ValidationResult{Checked: len(list)}
	frameworks := make(map[string]*model.Framework)

	for _, a := range list {
		fw, ok := frameworks[a.FrameworkID]
		if !ok {
			fw, err = uc.repo.Framework().Get(ctx, a.FrameworkID)
			if err != nil && !errors.Is(err, interfaces.ErrNotFound) {
				return nil, goerr.Wrap(err, "failed to get framework", goerr.V(FrameworkIDKey, a.FrameworkID))
			}
			frameworks[a.FrameworkID] = fw
		}

		if fw == nil {
			result.AddIssue(ValidationIssue{
				AssessmentID: a.ID,
				Field:        "framework_id",
				Message:      "framework does not exist",
				Expected:     "existing framework",
				Actual:       a.FrameworkID,
			})
		} else {
			var unknown []string
			for qid := range a.Responses {
				if _, found := fw.FindQuestion(qid); !found {
					unknown = append(unknown, qid)
				}
			}
			if len(unknown) > 0 {
				slices.Sort(unknown)
				result.AddIssue(ValidationIssue{
					AssessmentID: a.ID,
					Field:        "responses",
					Message:      fmt.Sprintf("%d answer(s) refer to questions missing from the framework", len(unknown)),
					Expected:     "question IDs of " + string(fw.Slug),
					Actual:       strings.Join(unknown, ","),
				})
			}
		}

		if a.Status != types.AssessmentStatusDraft || len(a.Responses) > 0 {
			resolved := uc.resolver.Resolve(a.Responses)
			if !resolved.Equal(a.Modules()) {
				result.AddIssue(ValidationIssue{
					AssessmentID: a.ID,
					Field:        "active_modules",
					Message:      "cached modules differ from the modules the answers activate",
					Expected:     joinModules(resolved.IDs()),
					Actual:       joinModules(a.ActiveModules),
				})
			}
		}

		switch a.Status {
		case types.AssessmentStatusCompleted, types.AssessmentStatusValidated:
			if !a.HasRisk() {
				result.AddIssue(ValidationIssue{
					AssessmentID: a.ID,
					Field:        "risk_score",
					Message:      "completed assessment has no risk score",
					Expected:     "score",
					Actual:       "<nil>",
				})
			}
			if a.CompletedAt == nil {
				result.AddIssue(ValidationIssue{
					AssessmentID: a.ID,
					Field:        "completed_at",
					Message:      "completed assessment has no completion time",
					Expected:     "timestamp",
					Actual:       "<nil>",
				})
			}
		}
		if a.Status == types.AssessmentStatusValidated {
			if _, _, ok := a.Validation(); !ok {
				result.AddIssue(ValidationIssue{
					AssessmentID: a.ID,
					Field:        "validated_by",
					Message:      "validated assessment has no validator",
					Expected:     "validator identity",
					Actual:       "<empty>",
				})
			}
		}
	}

	return result, nil
}

func joinModules(ids []types.ModuleID) string {
	s := make([]string, len(ids))
	for i, id := range ids {
		s[i] = string(id)
	}
	return strings.Join(s, ",")
}
