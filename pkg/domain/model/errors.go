package model

import "github.com/m-mizutani/goerr/v2"

// Validation errors
var (
	ErrInvalidAnswer     = goerr.New("invalid answer value")
	ErrInvalidFramework  = goerr.New("invalid framework")
	ErrDuplicateQuestion = goerr.New("duplicate question ID")
	ErrDuplicateSection  = goerr.New("duplicate section ID")
	ErrInvalidRiskFactor = goerr.New("invalid risk factor")
	ErrInvalidThresholds = goerr.New("invalid risk thresholds")
)

// Context keys for error values
const (
	QuestionIDKey = "question_id"
	SectionIDKey  = "section_id"
	FactorIDKey   = "factor_id"
	AnswerKey     = "answer"
)
