package types

import "fmt"

// LinkedRecordType is the kind of record created from an assessment
type LinkedRecordType string

const (
	LinkedRecordActionItem         LinkedRecordType = "action_item"
	LinkedRecordSystem             LinkedRecordType = "system"
	LinkedRecordProcessingActivity LinkedRecordType = "processing_activity"
)

// AllLinkedRecordTypes returns all valid linked record types
func AllLinkedRecordTypes() []LinkedRecordType {
	return []LinkedRecordType{
		LinkedRecordActionItem,
		LinkedRecordSystem,
		LinkedRecordProcessingActivity,
	}
}

// IsValid checks if the linked record type is valid
func (t LinkedRecordType) IsValid() bool {
	switch t {
	case LinkedRecordActionItem,
		LinkedRecordSystem,
		LinkedRecordProcessingActivity:
		return true
	default:
		return false
	}
}

// IsSingleton reports whether at most one record of this type may exist per assessment
func (t LinkedRecordType) IsSingleton() bool {
	return t == LinkedRecordSystem || t == LinkedRecordProcessingActivity
}

// String returns the string representation of the linked record type
func (t LinkedRecordType) String() string {
	return string(t)
}

// ParseLinkedRecordType parses a string into a LinkedRecordType
func ParseLinkedRecordType(s string) (LinkedRecordType, error) {
	t := LinkedRecordType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid linked record type: %s", s)
	}
	return t, nil
}
