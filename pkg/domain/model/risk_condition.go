package model

import (
	"github.com/paulmccormack00/risk-assessments/pkg/domain/types"
)

// VariableLevel is one row of the variable-condition lookup table
type VariableLevel struct {
	Label    string
	Points   int
	Severity types.Severity
}

// VariableLevels maps self-assessed levels to points, lowest first
var VariableLevels = []VariableLevel{
	{Label: "Low", Points: 5, Severity: types.SeverityLow},
	{Label: "Medium", Points: 15, Severity: types.SeverityMedium},
	{Label: "High", Points: 25, Severity: types.SeverityHigh},
}

// highestLevelNote is appended to a variable factor's reason when the answer is
// the top level
const highestLevelNote = " Consultation with supervisory authority required (Art.36)."

// ConditionEvaluator evaluates one kind of condition. It returns the
// contribution and true when the factor fires. The answer is never empty.
type ConditionEvaluator interface {
	Evaluate(f *RiskFactor, answer Answer) (FactorContribution, bool)
}

// ConditionEvaluatorFunc adapts a function to ConditionEvaluator
type ConditionEvaluatorFunc func(f *RiskFactor, answer Answer) (FactorContribution, bool)

func (fn ConditionEvaluatorFunc) Evaluate(f *RiskFactor, answer Answer) (FactorContribution, bool) {
	return fn(f, answer)
}

func fixedContribution(f *RiskFactor) FactorContribution {
	return FactorContribution{
		FactorID:   f.ID,
		Label:      f.Label,
		QuestionID: f.QuestionID,
		Points:     f.Points,
		Severity:   f.Severity,
		Reason:     f.Reason,
	}
}

func evaluateEquals(f *RiskFactor, answer Answer) (FactorContribution, bool) {
	if answer.IsList() || answer.Text() != f.Condition.Value {
		return FactorContribution{}, false
	}
	return fixedContribution(f), true
}

func evaluateNotEquals(f *RiskFactor, answer Answer) (FactorContribution, bool) {
	if !answer.IsList() && answer.Text() == f.Condition.Value {
		return FactorContribution{}, false
	}
	return fixedContribution(f), true
}

func evaluateIncludes(f *RiskFactor, answer Answer) (FactorContribution, bool) {
	if !answer.Contains(f.Condition.Value) {
		return FactorContribution{}, false
	}
	return fixedContribution(f), true
}

func evaluateVariable(f *RiskFactor, answer Answer) (FactorContribution, bool) {
	if answer.IsList() {
		return FactorContribution{}, false
	}
	level := answer.Text()

	for i, v := range VariableLevels {
		if v.Label != level {
			continue
		}
		c := FactorContribution{
			FactorID:   f.ID,
			Label:      f.Label + ": " + level,
			QuestionID: f.QuestionID,
			Points:     v.Points,
			Severity:   v.Severity,
			Reason:     f.Reason,
		}
		if i == len(VariableLevels)-1 {
			c.Reason += highestLevelNote
		}
		return c, true
	}
	return FactorContribution{}, false
}

func defaultConditionEvaluators() map[types.ConditionKind]ConditionEvaluator {
	return map[types.ConditionKind]ConditionEvaluator{
		types.ConditionEquals:    ConditionEvaluatorFunc(evaluateEquals),
		types.ConditionNotEquals: ConditionEvaluatorFunc(evaluateNotEquals),
		types.ConditionIncludes:  ConditionEvaluatorFunc(evaluateIncludes),
		types.ConditionVariable:  ConditionEvaluatorFunc(evaluateVariable),
	}
}
