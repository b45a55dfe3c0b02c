package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/types"
)

// MaxRiskScore caps the total risk score and any single factor's points
const MaxRiskScore = 100

// Condition is the trigger of a risk factor. Value is unused for variable conditions.
type Condition struct {
	Kind  types.ConditionKind `json:"kind"`
	Value string              `json:"value,omitempty"`
}

// Equals builds an "answer equals v" condition
func Equals(v string) Condition {
	return Condition{Kind: types.ConditionEquals, Value: v}
}

// NotEquals builds an "answer present and not equal to v" condition
func NotEquals(v string) Condition {
	return Condition{Kind: types.ConditionNotEquals, Value: v}
}

// Includes builds an "answer list includes v" condition
func Includes(v string) Condition {
	return Condition{Kind: types.ConditionIncludes, Value: v}
}

// Variable builds a lookup-table condition
func Variable() Condition {
	return Condition{Kind: types.ConditionVariable}
}

// Validate checks the condition kind and its operand
func (c Condition) Validate() error {
	if !c.Kind.IsValid() {
		return goerr.Wrap(ErrInvalidRiskFactor, "invalid condition kind", goerr.V("kind", c.Kind))
	}
	if c.Kind != types.ConditionVariable && c.Value == "" {
		return goerr.Wrap(ErrInvalidRiskFactor, "condition requires a value", goerr.V("kind", c.Kind))
	}
	return nil
}

// String renders the condition for display, e.g. "equals Yes"
func (c Condition) String() string {
	if c.Kind == types.ConditionVariable {
		return c.Kind.String()
	}
	return c.Kind.String() + " " + c.Value
}

// RiskFactor is one configurable scoring rule
type RiskFactor struct {
	ID           types.FactorID `json:"id"`
	QuestionID   string         `json:"question_id"`
	Label        string         `json:"label"`
	Points       int            `json:"points"`
	Severity     types.Severity `json:"severity"`
	Condition    Condition      `json:"condition"`
	Reason       string         `json:"reason"`
	DisplayOrder int            `json:"display_order"`
	IsActive     bool           `json:"is_active"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// Validate checks the factor configuration
func (f *RiskFactor) Validate() error {
	if err := f.ID.Validate(); err != nil {
		return goerr.Wrap(ErrInvalidRiskFactor, "invalid factor ID", goerr.V(FactorIDKey, f.ID))
	}
	if f.QuestionID == "" {
		return goerr.Wrap(ErrInvalidRiskFactor, "question ID is required", goerr.V(FactorIDKey, f.ID))
	}
	if f.Label == "" {
		return goerr.Wrap(ErrInvalidRiskFactor, "label is required", goerr.V(FactorIDKey, f.ID))
	}
	if f.Points < 0 || f.Points > MaxRiskScore {
		return goerr.Wrap(ErrInvalidRiskFactor, "points must be between 0 and 100",
			goerr.V(FactorIDKey, f.ID),
			goerr.V("points", f.Points))
	}
	if !f.Severity.IsValid() {
		return goerr.Wrap(ErrInvalidRiskFactor, "invalid severity",
			goerr.V(FactorIDKey, f.ID),
			goerr.V("severity", f.Severity))
	}
	if err := f.Condition.Validate(); err != nil {
		return goerr.Wrap(err, "invalid factor condition", goerr.V(FactorIDKey, f.ID))
	}
	return nil
}

// Clone returns a copy of the factor
func (f *RiskFactor) Clone() *RiskFactor {
	c := *f
	return &c
}

// RiskFactorUpdate holds the administrator-editable fields of a factor. Nil
// fields are left unchanged. The condition is not editable.
type RiskFactorUpdate struct {
	Points   *int            `json:"points,omitempty"`
	Severity *types.Severity `json:"severity,omitempty"`
	IsActive *bool           `json:"is_active,omitempty"`
	Reason   *string         `json:"reason,omitempty"`
}

// IsEmpty reports whether the update changes nothing
func (u RiskFactorUpdate) IsEmpty() bool {
	return u.Points == nil && u.Severity == nil && u.IsActive == nil && u.Reason == nil
}

// Apply returns a copy of f with the update applied and validated
func (f *RiskFactor) Apply(u RiskFactorUpdate) (*RiskFactor, error) {
	updated := f.Clone()
	if u.Points != nil {
		updated.Points = *u.Points
	}
	if u.Severity != nil {
		updated.Severity = *u.Severity
	}
	if u.IsActive != nil {
		updated.IsActive = *u.IsActive
	}
	if u.Reason != nil {
		updated.Reason = *u.Reason
	}
	if err := updated.Validate(); err != nil {
		return nil, err
	}
	return updated, nil
}

// RiskThresholds splits scores into classifications. High must exceed Medium.
type RiskThresholds struct {
	High      int       `json:"high"`
	Medium    int       `json:"medium"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultRiskThresholds returns the thresholds used when none are configured
func DefaultRiskThresholds() RiskThresholds {
	return RiskThresholds{High: 60, Medium: 30}
}

// Validate checks 0 <= Medium < High <= 100
func (t RiskThresholds) Validate() error {
	if t.Medium < 0 || t.High > MaxRiskScore {
		return goerr.Wrap(ErrInvalidThresholds, "thresholds must be between 0 and 100",
			goerr.V("high", t.High),
			goerr.V("medium", t.Medium))
	}
	if t.High <= t.Medium {
		return goerr.Wrap(ErrInvalidThresholds, "high threshold must be greater than medium threshold",
			goerr.V("high", t.High),
			goerr.V("medium", t.Medium))
	}
	return nil
}

// Classify maps a score to a classification. Both thresholds are inclusive
// lower bounds of their band.
func (t RiskThresholds) Classify(score int) types.RiskClassification {
	switch {
	case score >= t.High:
		return types.RiskClassificationHigh
	case score >= t.Medium:
		return types.RiskClassificationMedium
	default:
		return types.RiskClassificationLow
	}
}

// DefaultRiskFactors returns the seed scoring configuration
func DefaultRiskFactors() []*RiskFactor {
	return []*RiskFactor{
		{
			ID:           "personal_data",
			QuestionID:   "E2",
			Label:        "Personal data processing",
			Points:       20,
			Severity:     types.SeverityMedium,
			Condition:    Equals("Yes"),
			Reason:       "Processing personal data triggers GDPR obligations.",
			DisplayOrder: 1,
			IsActive:     true,
		},
		{
			ID:           "ai_involvement",
			QuestionID:   "E4",
			Label:        "AI/ML system involvement",
			Points:       25,
			Severity:     types.SeverityHigh,
			Condition:    Equals("Yes"),
			Reason:       "AI/ML involvement triggers EU AI Act obligations and GDPR Art.22 safeguards.",
			DisplayOrder: 2,
			IsActive:     true,
		},
		{
			ID:           "sensitive_data",
			QuestionID:   "E8",
			Label:        "Sensitive or critical infrastructure data",
			Points:       15,
			Severity:     types.SeverityMedium,
			Condition:    Equals("Yes"),
			Reason:       "Sensitive data categories (Art.9) or critical infrastructure require enhanced safeguards.",
			DisplayOrder: 3,
			IsActive:     true,
		},
		{
			ID:           "cross_border_transfer",
			QuestionID:   "E3",
			Label:        "Cross-border data transfers",
			Points:       20,
			Severity:     types.SeverityMedium,
			Condition:    Includes("To other countries"),
			Reason:       "International transfers require valid mechanisms under Art.44-49.",
			DisplayOrder: 4,
			IsActive:     true,
		},
		{
			ID:           "special_category",
			QuestionID:   "DP.2",
			Label:        "Special category data processed",
			Points:       20,
			Severity:     types.SeverityHigh,
			Condition:    NotEquals("No"),
			Reason:       "Special category data is prohibited under Art.9 unless an explicit exception applies.",
			DisplayOrder: 5,
			IsActive:     true,
		},
		{
			ID:           "automated_decision",
			QuestionID:   "DP.9",
			Label:        "Solely automated decision-making",
			Points:       15,
			Severity:     types.SeverityHigh,
			Condition:    Equals("Yes"),
			Reason:       "Automated decisions with legal or significant effects trigger GDPR Art.22 rights.",
			DisplayOrder: 6,
			IsActive:     true,
		},
		{
			ID:           "residual_risk",
			QuestionID:   "DP.10",
			Label:        "Residual risk",
			Severity:     types.SeverityHigh,
			Condition:    Variable(),
			Reason:       "Self-assessed residual risk after mitigation.",
			DisplayOrder: 7,
			IsActive:     true,
		},
	}
}
