package model

import (
	"encoding/json"

	"github.com/paulmccormack00/risk-assessments/pkg/domain/types"
)

// Module identifiers known to the default activation rules
const (
	ModuleEntry         types.ModuleID = "entry"
	ModuleCommonNucleus types.ModuleID = "common_nucleus"
	ModuleDPIA          types.ModuleID = "dpia"
	ModuleTIA           types.ModuleID = "tia"
	ModuleAIScope       types.ModuleID = "ai_scope_classification"
	ModuleAIProhibited  types.ModuleID = "ai_prohibited_practices"
	ModuleAIHighRisk    types.ModuleID = "ai_high_risk_classification"
	ModuleAILimitedRisk types.ModuleID = "ai_limited_risk_gpai"
	ModuleVendorGeneral types.ModuleID = "vendor_general"
	ModuleVendorAI      types.ModuleID = "vendor_ai_due_diligence"
	ModuleCybersecurity types.ModuleID = "cybersecurity"
	ModuleLegitInterest types.ModuleID = "lia"
)

const (
	answerYes              = "Yes"
	answerToOtherCountries = "To other countries"
)

// ModuleSet is a duplicate-free set of module IDs that remembers insertion order
type ModuleSet struct {
	ids   []types.ModuleID
	index map[types.ModuleID]struct{}
}

// NewModuleSet returns a set containing ids
func NewModuleSet(ids ...types.ModuleID) ModuleSet {
	s := ModuleSet{index: make(map[types.ModuleID]struct{}, len(ids))}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// BaseModules returns the modules that are active for every assessment
func BaseModules() ModuleSet {
	return NewModuleSet(ModuleEntry, ModuleCommonNucleus)
}

// Add inserts id and reports whether it was new
func (s *ModuleSet) Add(id types.ModuleID) bool {
	if s.index == nil {
		s.index = make(map[types.ModuleID]struct{})
	}
	if _, ok := s.index[id]; ok {
		return false
	}
	s.index[id] = struct{}{}
	s.ids = append(s.ids, id)
	return true
}

// Has reports whether id is in the set
func (s ModuleSet) Has(id types.ModuleID) bool {
	_, ok := s.index[id]
	return ok
}

// Len returns the number of modules
func (s ModuleSet) Len() int {
	return len(s.ids)
}

// IDs returns the modules in insertion order
func (s ModuleSet) IDs() []types.ModuleID {
	ids := make([]types.ModuleID, len(s.ids))
	copy(ids, s.ids)
	return ids
}

// Equal reports whether both sets hold the same modules regardless of order
func (s ModuleSet) Equal(other ModuleSet) bool {
	if s.Len() != other.Len() {
		return false
	}
	for _, id := range s.ids {
		if !other.Has(id) {
			return false
		}
	}
	return true
}

func (s ModuleSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.IDs())
}

func (s *ModuleSet) UnmarshalJSON(data []byte) error {
	var ids []types.ModuleID
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewModuleSet(ids...)
	return nil
}

// Predicate tests a response set. Unanswered questions must evaluate to false.
type Predicate func(r Responses) bool

// AnswerEquals matches when a single-valued answer equals v
func AnswerEquals(questionID, v string) Predicate {
	return func(r Responses) bool {
		a := r.Get(questionID)
		return !a.IsList() && !a.IsEmpty() && a.Text() == v
	}
}

// AnswerIncludes matches when a list answer contains v exactly
func AnswerIncludes(questionID, v string) Predicate {
	return func(r Responses) bool {
		return r.Get(questionID).Contains(v)
	}
}

// AnswerMentions matches when any list element contains substr, ignoring case
func AnswerMentions(questionID, substr string) Predicate {
	return func(r Responses) bool {
		return r.Get(questionID).ContainsFold(substr)
	}
}

// AnyOf matches when at least one predicate matches
func AnyOf(preds ...Predicate) Predicate {
	return func(r Responses) bool {
		for _, p := range preds {
			if p(r) {
				return true
			}
		}
		return false
	}
}

// ActivationRule activates Modules when When holds. A rule with Requires is a
// dependent rule: it only fires once every required module has already been
// activated by an earlier rule.
type ActivationRule struct {
	Modules  []types.ModuleID
	Requires []types.ModuleID
	When     Predicate
}

// DefaultActivationRules returns the triage rules of the unified framework.
// Order matters: parents must precede their dependents.
func DefaultActivationRules() []ActivationRule {
	e4Yes := AnswerEquals("E4", answerYes)

	return []ActivationRule{
		{Modules: []types.ModuleID{ModuleDPIA}, When: AnswerEquals("E2", answerYes)},
		{Modules: []types.ModuleID{ModuleTIA}, When: AnswerIncludes("E3", answerToOtherCountries)},
		{
			Modules: []types.ModuleID{ModuleAIScope, ModuleAIProhibited, ModuleAIHighRisk, ModuleAILimitedRisk},
			When:    e4Yes,
		},
		{Modules: []types.ModuleID{ModuleVendorGeneral}, When: AnswerEquals("E7", answerYes)},
		{
			Modules:  []types.ModuleID{ModuleVendorAI},
			Requires: []types.ModuleID{ModuleVendorGeneral},
			When:     e4Yes,
		},
		{Modules: []types.ModuleID{ModuleCybersecurity}, When: AnyOf(AnswerEquals("E8", answerYes), e4Yes)},
		{Modules: []types.ModuleID{ModuleLegitInterest}, When: AnswerMentions("DP.3", "legitimate")},
	}
}

// Resolver maps responses to the set of active modules. It never mutates the
// responses it reads.
type Resolver struct {
	base  []types.ModuleID
	rules []ActivationRule
}

// NewResolver creates a Resolver with the base modules and the given rules
func NewResolver(rules ...ActivationRule) *Resolver {
	return &Resolver{
		base:  BaseModules().IDs(),
		rules: rules,
	}
}

var defaultResolver = NewResolver(DefaultActivationRules()...)

// Resolve evaluates every rule in order against responses
func (x *Resolver) Resolve(responses Responses) ModuleSet {
	set := NewModuleSet(x.base...)

	for _, rule := range x.rules {
		if !requirementsMet(set, rule.Requires) {
			continue
		}
		if rule.When == nil || !rule.When(responses) {
			continue
		}
		for _, m := range rule.Modules {
			set.Add(m)
		}
	}
	return set
}

func requirementsMet(set ModuleSet, required []types.ModuleID) bool {
	for _, r := range required {
		if !set.Has(r) {
			return false
		}
	}
	return true
}

// ResolveModules runs the default activation rules
func ResolveModules(responses Responses) ModuleSet {
	return defaultResolver.Resolve(responses)
}
