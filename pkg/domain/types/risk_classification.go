package types

import "fmt"

// RiskClassification is the coarse risk band derived from a numeric score
type RiskClassification string

const (
	RiskClassificationLow    RiskClassification = "low"
	RiskClassificationMedium RiskClassification = "medium"
	RiskClassificationHigh   RiskClassification = "high"
)

// AllRiskClassifications returns all valid classifications ordered from lowest to highest
func AllRiskClassifications() []RiskClassification {
	return []RiskClassification{
		RiskClassificationLow,
		RiskClassificationMedium,
		RiskClassificationHigh,
	}
}

// IsValid checks if the classification is valid
func (c RiskClassification) IsValid() bool {
	switch c {
	case RiskClassificationLow,
		RiskClassificationMedium,
		RiskClassificationHigh:
		return true
	default:
		return false
	}
}

// String returns the string representation of the classification
func (c RiskClassification) String() string {
	return string(c)
}

// ParseRiskClassification parses a string into a RiskClassification
func ParseRiskClassification(s string) (RiskClassification, error) {
	c := RiskClassification(s)
	if !c.IsValid() {
		return "", fmt.Errorf("invalid risk classification: %s", s)
	}
	return c, nil
}
