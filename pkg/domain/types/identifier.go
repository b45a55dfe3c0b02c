package types

import (
	"regexp"

	"github.com/m-mizutani/goerr/v2"
)

var (
	moduleIDPattern = regexp.MustCompile(`^[a-z][a-z0-9]*(_[a-z0-9]+)*$`)
	slugPattern     = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
)

// ModuleID identifies a questionnaire section that may be activated
type ModuleID string

// Validate checks if the ModuleID is valid
func (m ModuleID) Validate() error {
	if m == "" {
		return goerr.New("module ID cannot be empty")
	}
	if !moduleIDPattern.MatchString(string(m)) {
		return goerr.New("module ID must be lowercase alphanumeric with underscores", goerr.V("id", m))
	}
	return nil
}

// String returns the string representation of ModuleID
func (m ModuleID) String() string {
	return string(m)
}

// FactorID identifies a risk factor in the scoring configuration
type FactorID string

// Validate checks if the FactorID is valid
func (f FactorID) Validate() error {
	if f == "" {
		return goerr.New("factor ID cannot be empty")
	}
	if !moduleIDPattern.MatchString(string(f)) {
		return goerr.New("factor ID must be lowercase alphanumeric with underscores", goerr.V("id", f))
	}
	return nil
}

// String returns the string representation of FactorID
func (f FactorID) String() string {
	return string(f)
}

// FrameworkSlug is the stable, URL-safe name of an assessment framework
type FrameworkSlug string

// Validate checks if the FrameworkSlug is valid
func (s FrameworkSlug) Validate() error {
	if s == "" {
		return goerr.New("framework slug cannot be empty")
	}
	if !slugPattern.MatchString(string(s)) {
		return goerr.New("framework slug must be lowercase alphanumeric with hyphens", goerr.V("slug", s))
	}
	return nil
}

// String returns the string representation of FrameworkSlug
func (s FrameworkSlug) String() string {
	return string(s)
}
