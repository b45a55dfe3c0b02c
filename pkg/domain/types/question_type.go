package types

import "fmt"

// QuestionType is the answer shape a questionnaire question expects
type QuestionType string

const (
	QuestionTypeSingleSelect QuestionType = "single_select"
	QuestionTypeMultiSelect  QuestionType = "multi_select"
	QuestionTypeText         QuestionType = "text"
	QuestionTypeLongText     QuestionType = "long_text"
)

// AllQuestionTypes returns all valid question types
func AllQuestionTypes() []QuestionType {
	return []QuestionType{
		QuestionTypeSingleSelect,
		QuestionTypeMultiSelect,
		QuestionTypeText,
		QuestionTypeLongText,
	}
}

// IsValid checks if the question type is valid
func (t QuestionType) IsValid() bool {
	switch t {
	case QuestionTypeSingleSelect,
		QuestionTypeMultiSelect,
		QuestionTypeText,
		QuestionTypeLongText:
		return true
	default:
		return false
	}
}

// HasOptions returns true if the question type is answered from a fixed option set
func (t QuestionType) HasOptions() bool {
	return t == QuestionTypeSingleSelect || t == QuestionTypeMultiSelect
}

// String returns the string representation of the question type
func (t QuestionType) String() string {
	return string(t)
}

// ParseQuestionType parses a string into a QuestionType
func ParseQuestionType(s string) (QuestionType, error) {
	t := QuestionType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid question type: %s", s)
	}
	return t, nil
}
