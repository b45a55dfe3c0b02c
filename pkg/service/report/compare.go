package report

import (
	"fmt"
	"slices"
	"strings"

	"github.com/paulmccormack00/risk-assessments/pkg/domain/model"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// AnswerChange is one question whose answer differs between two assessments
type AnswerChange struct {
	QuestionID string       `json:"question_id"`
	Before     model.Answer `json:"before"`
	After      model.Answer `json:"after"`
}

// Comparison describes how a second assessment differs from a first one
type Comparison struct {
	Base           *model.Assessment `json:"base"`
	Target         *model.Assessment `json:"target"`
	Changes        []AnswerChange    `json:"changes"`
	ModulesAdded   []string          `json:"modules_added,omitempty"`
	ModulesRemoved []string          `json:"modules_removed,omitempty"`
	Diff           string            `json:"diff"`
}

// HasChanges reports whether any answer or module differs
func (c *Comparison) HasChanges() bool {
	return len(c.Changes) > 0 || len(c.ModulesAdded) > 0 || len(c.ModulesRemoved) > 0
}

// Compare lists answer and module differences between base and target.
// Questions are visited in framework order, then any answered question the
// framework does not know, sorted by ID. fw may be nil.
func Compare(base, target *model.Assessment, fw *model.Framework) *Comparison {
	ids := questionOrder(fw, base.Responses, target.Responses)

	c := &Comparison{Base: base, Target: target}
	for _, id := range ids {
		before, after := base.Responses.Get(id), target.Responses.Get(id)
		if before.Equal(after) {
			continue
		}
		c.Changes = append(c.Changes, AnswerChange{QuestionID: id, Before: before, After: after})
	}

	baseModules, targetModules := base.Modules(), target.Modules()
	for _, id := range targetModules.IDs() {
		if !baseModules.Has(id) {
			c.ModulesAdded = append(c.ModulesAdded, string(id))
		}
	}
	for _, id := range baseModules.IDs() {
		if !targetModules.Has(id) {
			c.ModulesRemoved = append(c.ModulesRemoved, string(id))
		}
	}

	c.Diff = LineDiff(answerSheet(ids, base.Responses), answerSheet(ids, target.Responses))
	return c
}

// LineDiff renders a line-oriented diff of before and after. Unchanged lines
// are prefixed with two spaces, removed lines with "- " and added lines
// with "+ ".
func LineDiff(before, after string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out.WriteString(prefix)
			out.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				out.WriteString("\n")
			}
		}
	}
	return out.String()
}

func questionOrder(fw *model.Framework, responses ...model.Responses) []string {
	var ids []string
	known := make(map[string]bool)
	if fw != nil {
		for _, s := range fw.SortedSections() {
			for _, q := range s.Questions {
				if !known[q.ID] {
					known[q.ID] = true
					ids = append(ids, q.ID)
				}
			}
		}
	}

	var extra []string
	for _, r := range responses {
		for id := range r {
			if !known[id] {
				known[id] = true
				extra = append(extra, id)
			}
		}
	}
	slices.Sort(extra)
	return append(ids, extra...)
}

func answerSheet(ids []string, responses model.Responses) string {
	var b strings.Builder
	for _, id := range ids {
		answer := responses.Get(id)
		if answer.IsEmpty() {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", id, answer.String())
	}
	return b.String()
}
