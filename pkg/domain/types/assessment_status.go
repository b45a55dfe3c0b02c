package types

import "fmt"

// AssessmentStatus represents the lifecycle state of an assessment
type AssessmentStatus string

const (
	AssessmentStatusDraft      AssessmentStatus = "draft"
	AssessmentStatusInProgress AssessmentStatus = "in_progress"
	AssessmentStatusCompleted  AssessmentStatus = "completed"
	AssessmentStatusValidated  AssessmentStatus = "validated"
	AssessmentStatusArchived   AssessmentStatus = "archived"
)

// AllAssessmentStatuses returns all valid assessment statuses
func AllAssessmentStatuses() []AssessmentStatus {
	return []AssessmentStatus{
		AssessmentStatusDraft,
		AssessmentStatusInProgress,
		AssessmentStatusCompleted,
		AssessmentStatusValidated,
		AssessmentStatusArchived,
	}
}

// IsValid checks if the assessment status is valid
func (s AssessmentStatus) IsValid() bool {
	switch s {
	case AssessmentStatusDraft,
		AssessmentStatusInProgress,
		AssessmentStatusCompleted,
		AssessmentStatusValidated,
		AssessmentStatusArchived:
		return true
	default:
		return false
	}
}

// Normalize returns the status, treating empty as AssessmentStatusDraft.
func (s AssessmentStatus) Normalize() AssessmentStatus {
	if s == "" {
		return AssessmentStatusDraft
	}
	return s
}

// IsEditable reports whether responses may still be saved in this status.
func (s AssessmentStatus) IsEditable() bool {
	switch s.Normalize() {
	case AssessmentStatusDraft, AssessmentStatusInProgress:
		return true
	default:
		return false
	}
}

// String returns the string representation of the assessment status
func (s AssessmentStatus) String() string {
	return string(s)
}

// ParseAssessmentStatus parses a string into an AssessmentStatus
func ParseAssessmentStatus(s string) (AssessmentStatus, error) {
	status := AssessmentStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid assessment status: %s", s)
	}
	return status, nil
}
