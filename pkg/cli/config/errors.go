package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrConfigNotFound       = goerr.New("configuration file not found")
	ErrInvalidConfig        = goerr.New("invalid configuration")
	ErrUnsupportedFormat    = goerr.New("unsupported configuration file format")
	ErrDuplicateFactorID    = goerr.New("duplicate risk factor ID")
	ErrInvalidConditionKind = goerr.New("invalid condition kind")
	ErrMissingName          = goerr.New("name is required")
)

// Context keys for error values
const (
	ConfigPathKey  = "config_path"
	FactorIDKey    = "factor_id"
	FactorIndexKey = "factor_index"
	SectionIDKey   = "section_id"
	QuestionIDKey  = "question_id"
)
