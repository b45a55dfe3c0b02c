package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/types"
)

func TestAssessmentStatus_IsValid(t *testing.T) {
	tests := []struct {
		name   string
		status types.AssessmentStatus
		want   bool
	}{
		{name: "draft", status: types.AssessmentStatusDraft, want: true},
		{name: "in progress", status: types.AssessmentStatusInProgress, want: true},
		{name: "completed", status: types.AssessmentStatusCompleted, want: true},
		{name: "validated", status: types.AssessmentStatusValidated, want: true},
		{name: "archived", status: types.AssessmentStatusArchived, want: true},
		{name: "unknown", status: types.AssessmentStatus("deleted"), want: false},
		{name: "empty", status: types.AssessmentStatus(""), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.V(t, tt.status.IsValid()).Equal(tt.want)
		})
	}
}

func TestAssessmentStatus_IsEditable(t *testing.T) {
	gt.B(t, types.AssessmentStatusDraft.IsEditable()).True()
	gt.B(t, types.AssessmentStatusInProgress.IsEditable()).True()
	gt.B(t, types.AssessmentStatus("").IsEditable()).True()
	gt.B(t, types.AssessmentStatusCompleted.IsEditable()).False()
	gt.B(t, types.AssessmentStatusValidated.IsEditable()).False()
	gt.B(t, types.AssessmentStatusArchived.IsEditable()).False()
}

func TestParseAssessmentStatus(t *testing.T) {
	got, err := types.ParseAssessmentStatus("in_progress")
	gt.NoError(t, err)
	gt.V(t, got).Equal(types.AssessmentStatusInProgress)

	_, err = types.ParseAssessmentStatus("IN_PROGRESS")
	gt.Error(t, err)

	_, err = types.ParseAssessmentStatus("")
	gt.Error(t, err)
}

func TestAllAssessmentStatuses(t *testing.T) {
	statuses := types.AllAssessmentStatuses()
	gt.A(t, statuses).Length(5)

	for _, status := range statuses {
		gt.B(t, status.IsValid()).
			Describef("Status %s should be valid", status).
			True()
	}
}
