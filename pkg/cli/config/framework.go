package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/model"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/types"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// FrameworkFile is the on-disk form of a questionnaire. The same structure is
// accepted as TOML, YAML or JSON.
type FrameworkFile struct {
	Slug        string            `toml:"slug" yaml:"slug" json:"slug"`
	Name        string            `toml:"name" yaml:"name" json:"name"`
	Description string            `toml:"description" yaml:"description" json:"description"`
	Version     string            `toml:"version" yaml:"version" json:"version"`
	System      bool              `toml:"is_system" yaml:"is_system" json:"is_system"`
	Sections    []SectionFile     `toml:"section" yaml:"sections" json:"sections"`
	Derive      []DerivedManifest `toml:"derive" yaml:"derive" json:"derive"`
}

// SectionFile is one [[section]] of a framework file
type SectionFile struct {
	ID               string         `toml:"id" yaml:"id" json:"id"`
	Title            string         `toml:"title" yaml:"title" json:"title"`
	Layer            string         `toml:"layer" yaml:"layer" json:"layer"`
	TriggerCondition string         `toml:"trigger_condition" yaml:"trigger_condition" json:"trigger_condition"`
	Outputs          []string       `toml:"assessment_outputs" yaml:"assessment_outputs" json:"assessment_outputs"`
	LegalDriver      string         `toml:"legal_driver" yaml:"legal_driver" json:"legal_driver"`
	DisplayOrder     int            `toml:"display_order" yaml:"display_order" json:"display_order"`
	Questions        []QuestionFile `toml:"question" yaml:"questions" json:"questions"`
}

// QuestionFile is one [[section.question]] of a framework file
type QuestionFile struct {
	ID               string   `toml:"id" yaml:"id" json:"id"`
	Text             string   `toml:"text" yaml:"text" json:"text"`
	Type             string   `toml:"type" yaml:"type" json:"type"`
	Options          []string `toml:"options" yaml:"options" json:"options"`
	OptionListSource bool     `toml:"option_list_source" yaml:"option_list_source" json:"option_list_source"`
	HelpText         string   `toml:"help_text" yaml:"help_text" json:"help_text"`
	LegalBasis       string   `toml:"legal_basis" yaml:"legal_basis" json:"legal_basis"`
	AssessmentTypes  []string `toml:"assessment_types" yaml:"assessment_types" json:"assessment_types"`
	DisplayOrder     int      `toml:"display_order" yaml:"display_order" json:"display_order"`
}

// DerivedManifest requests a single-purpose framework built from this one
type DerivedManifest struct {
	Slug        string   `toml:"slug" yaml:"slug" json:"slug"`
	Name        string   `toml:"name" yaml:"name" json:"name"`
	Description string   `toml:"description" yaml:"description" json:"description"`
	Outputs     []string `toml:"outputs" yaml:"outputs" json:"outputs"`
}

// Validate checks the derive entries
func (d *DerivedManifest) Validate() error {
	if err := types.FrameworkSlug(d.Slug).Validate(); err != nil {
		return goerr.Wrap(ErrInvalidConfig, "invalid derived framework slug", goerr.V("slug", d.Slug))
	}
	if d.Name == "" {
		return goerr.Wrap(ErrMissingName, "derived framework name is required", goerr.V("slug", d.Slug))
	}
	if len(d.Outputs) == 0 {
		return goerr.Wrap(ErrInvalidConfig, "derived framework needs at least one output", goerr.V("slug", d.Slug))
	}
	return nil
}

// ToModel converts the file into a validated domain framework. A zero
// display_order falls back to the entry's position in the file.
func (f *FrameworkFile) ToModel() (*model.Framework, error) {
	if f.Name == "" {
		return nil, goerr.Wrap(ErrMissingName, "framework name is required", goerr.V("slug", f.Slug))
	}

	fw := &model.Framework{
		Slug:        types.FrameworkSlug(f.Slug),
		Name:        f.Name,
		Description: f.Description,
		Version:     f.Version,
		IsSystem:    f.System,
		Sections:    make([]model.Section, 0, len(f.Sections)),
	}
	for i, s := range f.Sections {
		section := model.Section{
			ID:               types.ModuleID(s.ID),
			Title:            s.Title,
			Layer:            s.Layer,
			TriggerCondition: s.TriggerCondition,
			Outputs:          s.Outputs,
			LegalDriver:      s.LegalDriver,
			DisplayOrder:     orderOr(s.DisplayOrder, i),
			Questions:        make([]model.Question, 0, len(s.Questions)),
		}
		for j, q := range s.Questions {
			qt, err := types.ParseQuestionType(q.Type)
			if err != nil {
				return nil, goerr.Wrap(ErrInvalidConfig, "invalid question type",
					goerr.V(SectionIDKey, s.ID),
					goerr.V(QuestionIDKey, q.ID),
					goerr.V("type", q.Type))
			}
			section.Questions = append(section.Questions, model.Question{
				ID:               q.ID,
				Text:             q.Text,
				Type:             qt,
				Options:          q.Options,
				OptionListSource: q.OptionListSource,
				HelpText:         q.HelpText,
				LegalBasis:       q.LegalBasis,
				AssessmentTypes:  q.AssessmentTypes,
				DisplayOrder:     orderOr(q.DisplayOrder, j),
			})
		}
		fw.Sections = append(fw.Sections, section)
	}

	if err := fw.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid framework", goerr.V("slug", f.Slug))
	}
	for i := range f.Derive {
		if err := f.Derive[i].Validate(); err != nil {
			return nil, err
		}
	}
	return fw, nil
}

func orderOr(order, index int) int {
	if order != 0 {
		return order
	}
	return index + 1
}

// LoadFrameworkFile reads a framework definition, choosing the decoder by the
// file extension
func LoadFrameworkFile(path string) (*FrameworkFile, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "framework file not found", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read framework file", goerr.V(ConfigPathKey, path))
	}

	var file FrameworkFile
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, &file)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &file)
	case ".json":
		err = json.Unmarshal(data, &file)
	default:
		return nil, goerr.Wrap(ErrUnsupportedFormat, "unknown framework file extension",
			goerr.V(ConfigPathKey, path),
			goerr.V("extension", ext))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse framework file", goerr.V(ConfigPathKey, path))
	}
	return &file, nil
}

// LoadFramework reads and converts a framework file
func LoadFramework(path string) (*model.Framework, *FrameworkFile, error) {
	file, err := LoadFrameworkFile(path)
	if err != nil {
		return nil, nil, err
	}
	fw, err := file.ToModel()
	if err != nil {
		return nil, nil, goerr.Wrap(err, "framework validation failed", goerr.V(ConfigPathKey, path))
	}
	return fw, file, nil
}
