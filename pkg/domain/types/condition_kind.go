package types

import "fmt"

// ConditionKind identifies how a risk factor tests its question's answer
type ConditionKind string

const (
	// ConditionEquals matches when the single answer equals the expected value
	ConditionEquals ConditionKind = "equals"
	// ConditionNotEquals matches when the answer is present and differs from the expected value
	ConditionNotEquals ConditionKind = "not_equals"
	// ConditionIncludes matches when the multi-select answer contains the expected value
	ConditionIncludes ConditionKind = "includes"
	// ConditionVariable maps the answer label to points through a lookup table
	ConditionVariable ConditionKind = "variable"
)

// AllConditionKinds returns all valid condition kinds
func AllConditionKinds() []ConditionKind {
	return []ConditionKind{
		ConditionEquals,
		ConditionNotEquals,
		ConditionIncludes,
		ConditionVariable,
	}
}

// IsValid checks if the condition kind is valid
func (k ConditionKind) IsValid() bool {
	switch k {
	case ConditionEquals,
		ConditionNotEquals,
		ConditionIncludes,
		ConditionVariable:
		return true
	default:
		return false
	}
}

// String returns the string representation of the condition kind
func (k ConditionKind) String() string {
	return string(k)
}

// ParseConditionKind parses a string into a ConditionKind
func ParseConditionKind(s string) (ConditionKind, error) {
	k := ConditionKind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("invalid condition kind: %s", s)
	}
	return k, nil
}
