package model

import (
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/types"
)

// Metadata keys used when the store has no dedicated validation fields
const (
	MetadataValidatedBy = "validated_by"
	MetadataValidatedAt = "validated_at"
)

// Title suffixes for derived assessments
const (
	RedoTitleSuffix = " (Redo)"
	CopyTitleSuffix = " (Copy)"
)

// AssessmentLinks are the optional context records an assessment refers to
type AssessmentLinks struct {
	EntityID             string `json:"entity_id,omitempty"`
	SystemID             string `json:"linked_system_id,omitempty"`
	ProcessingActivityID string `json:"linked_pa_id,omitempty"`
}

// Assessment is one questionnaire instance moving through the lifecycle
type Assessment struct {
	ID                 string                   `json:"id"`
	FrameworkID        string                   `json:"framework_id"`
	Title              string                   `json:"title"`
	Status             types.AssessmentStatus   `json:"status"`
	Responses          Responses                `json:"responses"`
	ActiveModules      []types.ModuleID         `json:"active_modules"`
	RiskScore          *int                     `json:"risk_score"`
	RiskClassification types.RiskClassification `json:"risk_classification,omitempty"`
	Links              AssessmentLinks          `json:"links"`
	ValidatedBy        string                   `json:"validated_by,omitempty"`
	ValidatedAt        *time.Time               `json:"validated_at,omitempty"`
	CompletedAt        *time.Time               `json:"completed_at,omitempty"`
	Metadata           map[string]any           `json:"metadata,omitempty"`
	SortOrder          int                      `json:"sort_order"`
	CreatedBy          string                   `json:"created_by,omitempty"`
	CreatedAt          time.Time                `json:"created_at"`
	UpdatedAt          time.Time                `json:"updated_at"`
}

// NewAssessmentID generates an identifier for an assessment
func NewAssessmentID() string {
	return uuid.NewString()
}

// Modules returns the cached active module set
func (a *Assessment) Modules() ModuleSet {
	return NewModuleSet(a.ActiveModules...)
}

// HasRisk reports whether a score has been computed
func (a *Assessment) HasRisk() bool {
	return a.RiskScore != nil
}

// SetRisk records a computed score and classification
func (a *Assessment) SetRisk(b *RiskBreakdown) {
	score := b.Score
	a.RiskScore = &score
	a.RiskClassification = b.Classification
}

// Validation returns the validator and timestamp, reading the metadata bag when
// the dedicated fields are empty
func (a *Assessment) Validation() (string, time.Time, bool) {
	if a.ValidatedBy != "" && a.ValidatedAt != nil {
		return a.ValidatedBy, *a.ValidatedAt, true
	}

	by, _ := a.Metadata[MetadataValidatedBy].(string)
	if by == "" {
		return "", time.Time{}, false
	}
	var at time.Time
	switch v := a.Metadata[MetadataValidatedAt].(type) {
	case time.Time:
		at = v
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, v)
		if err == nil {
			at = parsed
		}
	}
	return by, at, true
}

// SetMetadata stores a value in the metadata bag
func (a *Assessment) SetMetadata(key string, value any) {
	if a.Metadata == nil {
		a.Metadata = make(map[string]any)
	}
	a.Metadata[key] = value
}

// Clone returns a deep copy
func (a *Assessment) Clone() *Assessment {
	c := *a
	c.Responses = a.Responses.Clone()
	c.ActiveModules = slices.Clone(a.ActiveModules)
	if a.RiskScore != nil {
		score := *a.RiskScore
		c.RiskScore = &score
	}
	if a.ValidatedAt != nil {
		t := *a.ValidatedAt
		c.ValidatedAt = &t
	}
	if a.CompletedAt != nil {
		t := *a.CompletedAt
		c.CompletedAt = &t
	}
	if a.Metadata != nil {
		c.Metadata = maps.Clone(a.Metadata)
	}
	return &c
}

// NewDraft returns a new draft seeded with the base modules
func NewDraft(frameworkID, title string, links AssessmentLinks) *Assessment {
	return &Assessment{
		ID:            NewAssessmentID(),
		FrameworkID:   frameworkID,
		Title:         title,
		Status:        types.AssessmentStatusDraft,
		Responses:     Responses{},
		ActiveModules: BaseModules().IDs(),
		Links:         links,
	}
}

// Redo returns a fresh draft for the same framework and links. Answers,
// modules and risk fields are not carried over.
func (a *Assessment) Redo() *Assessment {
	return NewDraft(a.FrameworkID, a.Title+RedoTitleSuffix, a.Links)
}

// Copy returns a new draft carrying the answers, modules and links. Status,
// risk fields and timestamps start over.
func (a *Assessment) Copy() *Assessment {
	d := NewDraft(a.FrameworkID, a.Title+CopyTitleSuffix, a.Links)
	d.Responses = a.Responses.Clone()
	if len(a.ActiveModules) > 0 {
		d.ActiveModules = slices.Clone(a.ActiveModules)
	}
	return d
}
