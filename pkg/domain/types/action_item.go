package types

import "fmt"

// ActionItemStatus represents the status of a remediation action item
type ActionItemStatus string

const (
	ActionItemStatusPending   ActionItemStatus = "pending"
	ActionItemStatusCompleted ActionItemStatus = "completed"
)

// AllActionItemStatuses returns all valid action item statuses
func AllActionItemStatuses() []ActionItemStatus {
	return []ActionItemStatus{
		ActionItemStatusPending,
		ActionItemStatusCompleted,
	}
}

// IsValid checks if the action item status is valid
func (s ActionItemStatus) IsValid() bool {
	switch s {
	case ActionItemStatusPending,
		ActionItemStatusCompleted:
		return true
	default:
		return false
	}
}

// String returns the string representation of the action item status
func (s ActionItemStatus) String() string {
	return string(s)
}

// ParseActionItemStatus parses a string into an ActionItemStatus
func ParseActionItemStatus(s string) (ActionItemStatus, error) {
	status := ActionItemStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid action item status: %s", s)
	}
	return status, nil
}

// Priority represents the urgency of an action item
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// AllPriorities returns all valid priorities
func AllPriorities() []Priority {
	return []Priority{
		PriorityLow,
		PriorityMedium,
		PriorityHigh,
		PriorityCritical,
	}
}

// IsValid checks if the priority is valid
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow,
		PriorityMedium,
		PriorityHigh,
		PriorityCritical:
		return true
	default:
		return false
	}
}

// Normalize returns the priority, treating empty as PriorityMedium.
func (p Priority) Normalize() Priority {
	if p == "" {
		return PriorityMedium
	}
	return p
}

// String returns the string representation of the priority
func (p Priority) String() string {
	return string(p)
}

// ParsePriority parses a string into a Priority
func ParsePriority(s string) (Priority, error) {
	p := Priority(s)
	if !p.IsValid() {
		return "", fmt.Errorf("invalid priority: %s", s)
	}
	return p, nil
}
