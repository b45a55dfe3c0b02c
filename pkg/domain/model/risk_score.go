package model

import (
	"slices"

	"github.com/paulmccormack00/risk-assessments/pkg/domain/types"
)

// FactorContribution explains one factor's share of a risk score
type FactorContribution struct {
	FactorID   types.FactorID `json:"factor_id"`
	Label      string         `json:"label"`
	QuestionID string         `json:"question_id"`
	Points     int            `json:"points"`
	Severity   types.Severity `json:"severity"`
	Reason     string         `json:"reason"`
}

// RiskBreakdown is the result of scoring a response set
type RiskBreakdown struct {
	Score          int                      `json:"score"`
	Classification types.RiskClassification `json:"classification"`
	Factors        []FactorContribution     `json:"factors"`
}

// Scorer computes weighted risk scores. It holds no state between calls.
type Scorer struct {
	evaluators map[types.ConditionKind]ConditionEvaluator
}

// ScorerOption configures a Scorer
type ScorerOption func(*Scorer)

// WithConditionEvaluator registers or replaces the evaluator for a condition kind
func WithConditionEvaluator(kind types.ConditionKind, ev ConditionEvaluator) ScorerOption {
	return func(s *Scorer) {
		s.evaluators[kind] = ev
	}
}

// NewScorer creates a Scorer with the built-in condition evaluators
func NewScorer(opts ...ScorerOption) *Scorer {
	s := &Scorer{evaluators: defaultConditionEvaluators()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var defaultScorer = NewScorer()

// Score sums the points of every active factor whose condition holds, caps the
// total at MaxRiskScore and classifies it. The breakdown follows the factors'
// display order. Factors whose question is unanswered, or whose condition kind
// has no evaluator, contribute nothing.
func (s *Scorer) Score(responses Responses, factors []*RiskFactor, thresholds RiskThresholds) *RiskBreakdown {
	ordered := slices.Clone(factors)
	slices.SortStableFunc(ordered, func(a, b *RiskFactor) int {
		return a.DisplayOrder - b.DisplayOrder
	})

	result := &RiskBreakdown{Factors: []FactorContribution{}}
	total := 0
	for _, f := range ordered {
		if f == nil || !f.IsActive {
			continue
		}
		answer := responses.Get(f.QuestionID)
		if answer.IsEmpty() {
			continue
		}
		ev, ok := s.evaluators[f.Condition.Kind]
		if !ok {
			continue
		}
		contribution, fired := ev.Evaluate(f, answer)
		if !fired {
			continue
		}
		total += contribution.Points
		result.Factors = append(result.Factors, contribution)
	}

	result.Score = min(total, MaxRiskScore)
	result.Classification = thresholds.Classify(result.Score)
	return result
}

// ScoreRisk scores responses with the built-in condition evaluators
func ScoreRisk(responses Responses, factors []*RiskFactor, thresholds RiskThresholds) *RiskBreakdown {
	return defaultScorer.Score(responses, factors, thresholds)
}
