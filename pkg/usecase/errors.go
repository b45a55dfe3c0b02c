package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// Validation errors
	ErrValidation         = errors.New("validation failed")
	ErrFrameworkNotFound  = errors.New("framework not found")
	ErrRiskFactorNotFound = errors.New("risk factor not found")

	// Not found errors
	ErrAssessmentNotFound = errors.New("assessment not found")
	ErrActionItemNotFound = errors.New("action item not found")
	ErrOptionNotFound     = errors.New("option not found")

	// Lifecycle errors
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrAlreadyLinked     = errors.New("record already linked to assessment")

	// Access control errors
	ErrUnauthenticated = errors.New("authenticated actor required")
	ErrForbidden       = errors.New("admin role required")
)

// Context keys for error values
const (
	AssessmentIDKey = "assessment_id"
	FrameworkIDKey  = "framework_id"
	ActionItemIDKey = "action_item_id"
	StatusKey       = "status"
	ActionKey       = "action"
)
