package interfaces

import (
	"slices"

	"github.com/paulmccormack00/risk-assessments/pkg/domain/model"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/types"
)

// ListAssessmentOption is a functional option for filtering assessments in List
type ListAssessmentOption func(*listAssessmentConfig)

type listAssessmentConfig struct {
	statuses        []types.AssessmentStatus
	includeArchived bool
}

// WithStatus filters assessments by status. Multiple calls accumulate.
func WithStatus(statuses ...types.AssessmentStatus) ListAssessmentOption {
	return func(c *listAssessmentConfig) {
		c.statuses = append(c.statuses, statuses...)
	}
}

// WithIncludeArchived includes archived assessments in the result
func WithIncludeArchived() ListAssessmentOption {
	return func(c *listAssessmentConfig) {
		c.includeArchived = true
	}
}

// BuildListAssessmentConfig builds a listAssessmentConfig from options
func BuildListAssessmentConfig(opts ...ListAssessmentOption) *listAssessmentConfig {
	cfg := &listAssessmentConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Statuses returns the status filter, or nil if not set
func (c *listAssessmentConfig) Statuses() []types.AssessmentStatus {
	return c.statuses
}

// IncludeArchived reports whether archived assessments are requested.
// Filtering explicitly on the archived status implies it.
func (c *listAssessmentConfig) IncludeArchived() bool {
	return c.includeArchived || slices.Contains(c.statuses, types.AssessmentStatusArchived)
}

// Match reports whether an assessment passes the filter
func (c *listAssessmentConfig) Match(a *model.Assessment) bool {
	status := a.Status.Normalize()
	if status == types.AssessmentStatusArchived && !c.IncludeArchived() {
		return false
	}
	if len(c.statuses) > 0 && !slices.Contains(c.statuses, status) {
		return false
	}
	return true
}
