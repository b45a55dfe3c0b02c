package config

import (
	"errors"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/model"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/types"
	"github.com/pelletier/go-toml/v2"
)

// RiskConfig is the TOML form of the scoring configuration. It seeds the
// factor store on first start and can be re-applied with the serve command.
type RiskConfig struct {
	Factors    []RiskFactor    `toml:"factor"`
	Thresholds *RiskThresholds `toml:"thresholds"`
}

// RiskFactor is one [[factor]] entry
type RiskFactor struct {
	ID           string `toml:"id"`
	QuestionID   string `toml:"question_id"`
	Label        string `toml:"label"`
	Points       int    `toml:"points"`
	Severity     string `toml:"severity"`
	Condition    string `toml:"condition"`
	Value        string `toml:"value"`
	Reason       string `toml:"reason"`
	DisplayOrder int    `toml:"display_order"`
	Active       *bool  `toml:"active"`
}

// RiskThresholds is the [thresholds] table
type RiskThresholds struct {
	High   int `toml:"high"`
	Medium int `toml:"medium"`
}

// ToModel converts the entry into a domain factor. Factors are active unless
// the file says otherwise.
func (f *RiskFactor) ToModel() (*model.RiskFactor, error) {
	kind, err := types.ParseConditionKind(f.Condition)
	if err != nil {
		return nil, goerr.Wrap(ErrInvalidConditionKind, "unknown condition",
			goerr.V(FactorIDKey, f.ID),
			goerr.V("condition", f.Condition))
	}
	severity, err := types.ParseSeverity(f.Severity)
	if err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "invalid severity",
			goerr.V(FactorIDKey, f.ID),
			goerr.V("severity", f.Severity))
	}

	active := true
	if f.Active != nil {
		active = *f.Active
	}

	factor := &model.RiskFactor{
		ID:           types.FactorID(f.ID),
		QuestionID:   f.QuestionID,
		Label:        f.Label,
		Points:       f.Points,
		Severity:     severity,
		Condition:    model.Condition{Kind: kind, Value: f.Value},
		Reason:       f.Reason,
		DisplayOrder: f.DisplayOrder,
		IsActive:     active,
	}
	if err := factor.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid risk factor", goerr.V(FactorIDKey, f.ID))
	}
	return factor, nil
}

// Validate checks every factor and the thresholds
func (c *RiskConfig) Validate() error {
	_, err := c.RiskFactors()
	if err != nil {
		return err
	}
	if _, err := c.RiskThresholds(); err != nil {
		return err
	}
	return nil
}

// RiskFactors converts all entries, rejecting duplicate IDs
func (c *RiskConfig) RiskFactors() ([]*model.RiskFactor, error) {
	seen := make(map[string]bool, len(c.Factors))
	factors := make([]*model.RiskFactor, 0, len(c.Factors))
	for i := range c.Factors {
		entry := &c.Factors[i]
		if seen[entry.ID] {
			return nil, goerr.Wrap(ErrDuplicateFactorID, "factor ID appears twice",
				goerr.V(FactorIDKey, entry.ID),
				goerr.V(FactorIndexKey, i))
		}
		seen[entry.ID] = true

		factor, err := entry.ToModel()
		if err != nil {
			return nil, goerr.Wrap(err, "invalid factor entry", goerr.V(FactorIndexKey, i))
		}
		factors = append(factors, factor)
	}
	return factors, nil
}

// RiskThresholds returns the configured thresholds, or nil when the file has
// no [thresholds] table
func (c *RiskConfig) RiskThresholds() (*model.RiskThresholds, error) {
	if c.Thresholds == nil {
		return nil, nil
	}
	t := &model.RiskThresholds{High: c.Thresholds.High, Medium: c.Thresholds.Medium}
	if err := t.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid thresholds")
	}
	return t, nil
}

// LoadRiskConfig reads and validates a TOML risk configuration
func LoadRiskConfig(path string) (*RiskConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "risk config not found", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read risk config", goerr.V(ConfigPathKey, path))
	}

	var cfg RiskConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML risk config", goerr.V(ConfigPathKey, path))
	}
	if err := cfg.Validate(); err != nil {
		return nil, goerr.Wrap(err, "risk config validation failed", goerr.V(ConfigPathKey, path))
	}
	return &cfg, nil
}
