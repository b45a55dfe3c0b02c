package model

import (
	"time"

	"github.com/google/uuid"
)

// OptionListEntry is an editable option for a question whose options are
// sourced from a list rather than fixed in the framework
type OptionListEntry struct {
	ID           string    `json:"id"`
	QuestionID   string    `json:"question_id"`
	Label        string    `json:"label"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewOptionID generates an identifier for an option list entry
func NewOptionID() string {
	return uuid.NewString()
}
