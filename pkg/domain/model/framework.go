package model

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/types"
)

// OutputAll marks a section or question that belongs to every assessment output
const OutputAll = "ALL"

// Question is one prompt in a framework section
type Question struct {
	ID               string             `json:"id"`
	Text             string             `json:"text"`
	Type             types.QuestionType `json:"type"`
	Options          []string           `json:"options,omitempty"`
	OptionListSource bool               `json:"option_list_source,omitempty"`
	HelpText         string             `json:"help_text,omitempty"`
	LegalBasis       string             `json:"legal_basis,omitempty"`
	AssessmentTypes  []string           `json:"assessment_types,omitempty"`
	DisplayOrder     int                `json:"display_order"`
}

// Section is a conditionally activated group of questions. ID doubles as the
// module identifier produced by the Resolver.
type Section struct {
	ID               types.ModuleID `json:"id"`
	Title            string         `json:"title"`
	Layer            string         `json:"layer,omitempty"`
	TriggerCondition string         `json:"trigger_condition,omitempty"`
	Outputs          []string       `json:"assessment_outputs,omitempty"`
	LegalDriver      string         `json:"legal_driver,omitempty"`
	DisplayOrder     int            `json:"display_order"`
	Questions        []Question     `json:"questions"`
}

// Framework is a versioned questionnaire definition
type Framework struct {
	ID          string              `json:"id"`
	Slug        types.FrameworkSlug `json:"slug"`
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	Version     string              `json:"version"`
	IsSystem    bool                `json:"is_system"`
	Sections    []Section           `json:"sections"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// NewFrameworkID generates an identifier for a framework
func NewFrameworkID() string {
	return uuid.NewString()
}

// Validate checks framework structure. Question IDs must be unique across all
// sections, not only within one.
func (f *Framework) Validate() error {
	if f.Name == "" {
		return goerr.Wrap(ErrInvalidFramework, "framework name is required")
	}
	if err := f.Slug.Validate(); err != nil {
		return goerr.Wrap(ErrInvalidFramework, "invalid framework slug", goerr.V("error", err.Error()))
	}

	sectionIDs := make(map[types.ModuleID]bool, len(f.Sections))
	questionIDs := make(map[string]bool)
	for _, s := range f.Sections {
		if err := s.ID.Validate(); err != nil {
			return goerr.Wrap(ErrInvalidFramework, "invalid section ID", goerr.V(SectionIDKey, s.ID))
		}
		if sectionIDs[s.ID] {
			return goerr.Wrap(ErrDuplicateSection, "section ID appears twice", goerr.V(SectionIDKey, s.ID))
		}
		sectionIDs[s.ID] = true

		for _, q := range s.Questions {
			if q.ID == "" {
				return goerr.Wrap(ErrInvalidFramework, "question ID is required", goerr.V(SectionIDKey, s.ID))
			}
			if questionIDs[q.ID] {
				return goerr.Wrap(ErrDuplicateQuestion, "question ID appears twice",
					goerr.V(QuestionIDKey, q.ID),
					goerr.V(SectionIDKey, s.ID))
			}
			questionIDs[q.ID] = true

			if !q.Type.IsValid() {
				return goerr.Wrap(ErrInvalidFramework, "invalid question type",
					goerr.V(QuestionIDKey, q.ID),
					goerr.V("type", q.Type))
			}
		}
	}
	return nil
}

// SortedSections returns the sections, and the questions within each, in
// display order
func (f *Framework) SortedSections() []Section {
	sections := make([]Section, len(f.Sections))
	for i, s := range f.Sections {
		s.Questions = slices.Clone(s.Questions)
		slices.SortStableFunc(s.Questions, func(a, b Question) int {
			return a.DisplayOrder - b.DisplayOrder
		})
		sections[i] = s
	}
	slices.SortStableFunc(sections, func(a, b Section) int {
		return a.DisplayOrder - b.DisplayOrder
	})
	return sections
}

// ActiveSections returns the sections that should be shown for the given
// module set, in display order. Sections without questions are never shown.
func (f *Framework) ActiveSections(modules ModuleSet) []Section {
	var active []Section
	for _, s := range f.SortedSections() {
		if len(s.Questions) == 0 || !modules.Has(s.ID) {
			continue
		}
		active = append(active, s)
	}
	return active
}

// FindQuestion looks up a question by ID across all sections
func (f *Framework) FindQuestion(id string) (*Question, bool) {
	for _, s := range f.Sections {
		for i := range s.Questions {
			if s.Questions[i].ID == id {
				return &s.Questions[i], true
			}
		}
	}
	return nil, false
}

// Progress counts answered questions within active sections
type Progress struct {
	Answered int `json:"answered"`
	Total    int `json:"total"`
}

// Percent returns completion as an integer percentage
func (p Progress) Percent() int {
	if p.Total == 0 {
		return 0
	}
	return p.Answered * 100 / p.Total
}

// Progress returns how many questions of the active sections are answered.
// Questions of inactive sections are not counted.
func (f *Framework) Progress(responses Responses, modules ModuleSet) Progress {
	var p Progress
	for _, s := range f.ActiveSections(modules) {
		for _, q := range s.Questions {
			p.Total++
			if responses.Answered(q.ID) {
				p.Answered++
			}
		}
	}
	return p
}

// DeriveStandalone builds a single-purpose framework from a unified one.
// Sections are kept when they target any of outputs (or all outputs), their
// questions are filtered the same way, and sections left empty are dropped.
func (f *Framework) DeriveStandalone(slug types.FrameworkSlug, name, description string, outputs []string) *Framework {
	matches := func(targets []string) bool {
		if slices.Contains(targets, OutputAll) {
			return true
		}
		for _, t := range targets {
			if slices.Contains(outputs, t) {
				return true
			}
		}
		return false
	}

	derived := &Framework{
		Slug:        slug,
		Name:        name,
		Description: description,
		Version:     f.Version,
		IsSystem:    f.IsSystem,
	}
	for _, s := range f.SortedSections() {
		if !matches(s.Outputs) {
			continue
		}
		var questions []Question
		for _, q := range s.Questions {
			if matches(q.AssessmentTypes) {
				questions = append(questions, q)
			}
		}
		if len(questions) == 0 {
			continue
		}
		s.Questions = questions
		derived.Sections = append(derived.Sections, s)
	}
	return derived
}
