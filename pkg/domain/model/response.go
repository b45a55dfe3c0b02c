package model

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Answer is the value recorded for one question. The zero value is an absent
// answer; otherwise it holds either a single string or a list of strings.
type Answer struct {
	values []string
	list   bool
}

// TextAnswer returns a single-valued answer
func TextAnswer(v string) Answer {
	return Answer{values: []string{v}}
}

// ListAnswer returns a multi-valued answer
func ListAnswer(values ...string) Answer {
	copied := make([]string, len(values))
	copy(copied, values)
	return Answer{values: copied, list: true}
}

// IsList reports whether the answer came from a multi-select question
func (a Answer) IsList() bool {
	return a.list
}

// IsEmpty reports whether the answer is absent, an empty string or an empty list
func (a Answer) IsEmpty() bool {
	if a.list {
		return len(a.values) == 0
	}
	return len(a.values) == 0 || a.values[0] == ""
}

// Text returns the single value. List answers have no text value.
func (a Answer) Text() string {
	if a.list || len(a.values) == 0 {
		return ""
	}
	return a.values[0]
}

// Values returns the answer as a list. A non-empty single value yields one element.
func (a Answer) Values() []string {
	if a.IsEmpty() {
		return nil
	}
	copied := make([]string, len(a.values))
	copy(copied, a.values)
	return copied
}

// Contains reports whether a list answer holds v exactly
func (a Answer) Contains(v string) bool {
	return a.list && slices.Contains(a.values, v)
}

// ContainsFold reports whether any element of a list answer contains substr,
// ignoring case
func (a Answer) ContainsFold(substr string) bool {
	if !a.list {
		return false
	}
	needle := strings.ToLower(substr)
	for _, v := range a.values {
		if strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return false
}

// Equal reports whether both answers have the same shape and values
func (a Answer) Equal(b Answer) bool {
	if a.IsEmpty() && b.IsEmpty() {
		return true
	}
	return a.list == b.list && slices.Equal(a.values, b.values)
}

// String renders the answer for display
func (a Answer) String() string {
	if a.list {
		return strings.Join(a.values, ", ")
	}
	return a.Text()
}

// Value returns the answer as a plain string, []string or nil
func (a Answer) Value() any {
	switch {
	case a.list:
		return append([]string{}, a.values...)
	case len(a.values) == 0:
		return nil
	default:
		return a.values[0]
	}
}

// AnswerFromValue converts a decoded JSON or document value into an Answer
func AnswerFromValue(v any) (Answer, error) {
	switch val := v.(type) {
	case nil:
		return Answer{}, nil
	case string:
		return TextAnswer(val), nil
	case []string:
		return ListAnswer(val...), nil
	case []any:
		values := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return Answer{}, goerr.Wrap(ErrInvalidAnswer, "list answer must contain only strings", goerr.V(AnswerKey, v))
			}
			values = append(values, s)
		}
		return ListAnswer(values...), nil
	default:
		return Answer{}, goerr.Wrap(ErrInvalidAnswer, "answer must be a string or a list of strings", goerr.V(AnswerKey, v))
	}
}

func (a Answer) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Value())
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return goerr.Wrap(err, "failed to decode answer")
	}
	parsed, err := AnswerFromValue(raw)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Responses maps question IDs to answers. Keys for unanswered questions may be
// missing entirely.
type Responses map[string]Answer

// Get returns the answer for a question, or the absent answer
func (r Responses) Get(questionID string) Answer {
	if r == nil {
		return Answer{}
	}
	return r[questionID]
}

// Answered reports whether the question has a non-empty answer
func (r Responses) Answered(questionID string) bool {
	return !r.Get(questionID).IsEmpty()
}

// Clone returns a deep copy
func (r Responses) Clone() Responses {
	if r == nil {
		return Responses{}
	}
	copied := make(Responses, len(r))
	for k, v := range r {
		if v.list {
			copied[k] = ListAnswer(v.values...)
		} else {
			copied[k] = Answer{values: slices.Clone(v.values)}
		}
	}
	return copied
}

// Equal reports whether both response sets hold the same answers. Absent and
// empty answers are treated alike.
func (r Responses) Equal(other Responses) bool {
	for k, v := range r {
		if !v.Equal(other.Get(k)) {
			return false
		}
	}
	for k, v := range other {
		if _, ok := r[k]; !ok && !v.IsEmpty() {
			return false
		}
	}
	return true
}

// ToMap converts the responses into plain values for document stores
func (r Responses) ToMap() map[string]any {
	m := make(map[string]any, len(r))
	for k, v := range r {
		if v.IsEmpty() && !v.list {
			continue
		}
		m[k] = v.Value()
	}
	return m
}

// ResponsesFromMap converts plain values from a document store into Responses
func ResponsesFromMap(m map[string]any) (Responses, error) {
	r := make(Responses, len(m))
	for k, v := range m {
		answer, err := AnswerFromValue(v)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid stored response", goerr.V(QuestionIDKey, k))
		}
		r[k] = answer
	}
	return r, nil
}
