package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/types"
)

// LinkedRecord is one ledger entry: a downstream record spawned from an assessment
type LinkedRecord struct {
	AssessmentID string                 `json:"assessment_id"`
	Type         types.LinkedRecordType `json:"type"`
	RecordID     string                 `json:"id"`
	Title        string                 `json:"title"`
	CreatedAt    time.Time              `json:"created_at"`
}

// ActionItem is a remediation task
type ActionItem struct {
	ID           string                 `json:"id"`
	AssessmentID string                 `json:"assessment_id,omitempty"`
	Title        string                 `json:"title"`
	Description  string                 `json:"description,omitempty"`
	Priority     types.Priority         `json:"priority"`
	Status       types.ActionItemStatus `json:"status"`
	DueDate      *time.Time             `json:"due_date,omitempty"`
	CompletedAt  *time.Time             `json:"completed_at,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// SetStatus changes the status, stamping or clearing the completion time
func (x *ActionItem) SetStatus(status types.ActionItemStatus, now time.Time) {
	x.Status = status
	if status == types.ActionItemStatusCompleted {
		x.CompletedAt = &now
	} else {
		x.CompletedAt = nil
	}
}

// SystemRecord is an inventory entry for an IT system or vendor product
type SystemRecord struct {
	ID           string    `json:"id"`
	AssessmentID string    `json:"assessment_id,omitempty"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Vendor       string    `json:"vendor,omitempty"`
	PersonalData bool      `json:"personal_data"`
	DataTypes    []string  `json:"data_types,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProcessingActivity is a record-of-processing entry
type ProcessingActivity struct {
	ID             string    `json:"id"`
	AssessmentID   string    `json:"assessment_id,omitempty"`
	Activity       string    `json:"activity"`
	Purpose        string    `json:"purpose,omitempty"`
	LegalBasis     []string  `json:"legal_basis,omitempty"`
	DataCategories []string  `json:"data_categories,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewRecordID generates an identifier for a linked record
func NewRecordID() string {
	return uuid.NewString()
}

// Question IDs the suggested fan-out records are built from
const (
	questionVendorName = "VR.1"
	questionDataTypes  = "DP.1"
	questionPurpose    = "CN.2"
	questionLegalBasis = "DP.3"
)

// SuggestSystemRecord prefills a system record from an assessment's answers.
// The vendor name becomes the system name when present.
func SuggestSystemRecord(a *Assessment) *SystemRecord {
	vendor := a.Responses.Get(questionVendorName).Text()
	name := vendor
	if name == "" {
		name = a.Title
	}
	dataTypes := a.Responses.Get(questionDataTypes)

	return &SystemRecord{
		Name:         name,
		Description:  "System identified from assessment: " + a.Title,
		Vendor:       vendor,
		PersonalData: a.Responses.Get("E2").Text() == answerYes,
		DataTypes:    listOnly(dataTypes),
	}
}

// SuggestProcessingActivity prefills a processing activity from an assessment's answers
func SuggestProcessingActivity(a *Assessment) *ProcessingActivity {
	return &ProcessingActivity{
		Activity:       a.Title,
		Purpose:        a.Responses.Get(questionPurpose).Text(),
		LegalBasis:     a.Responses.Get(questionLegalBasis).Values(),
		DataCategories: listOnly(a.Responses.Get(questionDataTypes)),
	}
}

func listOnly(a Answer) []string {
	if !a.IsList() {
		return nil
	}
	return a.Values()
}
