package model_test

import (
	"encoding/json"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/model"
)

func TestAnswer_IsEmpty(t *testing.T) {
	tests := []struct {
		name   string
		answer model.Answer
		want   bool
	}{
		{name: "absent", answer: model.Answer{}, want: true},
		{name: "empty string", answer: model.TextAnswer(""), want: true},
		{name: "empty list", answer: model.ListAnswer(), want: true},
		{name: "text", answer: model.TextAnswer("Yes"), want: false},
		{name: "list", answer: model.ListAnswer("Email"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, tt.answer.IsEmpty()).Equal(tt.want)
		})
	}
}

func TestAnswer_JSON(t *testing.T) {
	var r model.Responses
	gt.NoError(t, json.Unmarshal([]byte(`{"E2":"Yes","E3":["Within the EU","To other countries"],"E9":null}`), &r)).Required()

	gt.Value(t, r.Get("E2").Text()).Equal("Yes")
	gt.Bool(t, r.Get("E3").IsList()).True()
	gt.Bool(t, r.Get("E3").Contains("To other countries")).True()
	gt.Bool(t, r.Get("E9").IsEmpty()).True()
	gt.Bool(t, r.Get("missing").IsEmpty()).True()

	data, err := json.Marshal(model.Responses{"E3": model.ListAnswer("A", "B")})
	gt.NoError(t, err).Required()
	gt.Value(t, string(data)).Equal(`{"E3":["A","B"]}`)
}

func TestAnswer_UnmarshalRejectsNumbers(t *testing.T) {
	var r model.Responses
	err := json.Unmarshal([]byte(`{"E2":42}`), &r)
	gt.Value(t, err).NotNil()

	err = json.Unmarshal([]byte(`{"E3":["ok", 1]}`), &r)
	gt.Value(t, err).NotNil()
}

func TestAnswer_ContainsFold(t *testing.T) {
	a := model.ListAnswer("Consent", "Legitimate interests (Art.6(1)(f))")
	gt.Bool(t, a.ContainsFold("legitimate")).True()
	gt.Bool(t, a.ContainsFold("contract")).False()
	gt.Bool(t, model.TextAnswer("Legitimate interests").ContainsFold("legitimate")).False()
}

func TestResponses_Equal(t *testing.T) {
	a := model.Responses{"E2": model.TextAnswer("Yes"), "E3": model.ListAnswer("X")}
	b := a.Clone()
	gt.Bool(t, a.Equal(b)).True()

	b["E4"] = model.TextAnswer("")
	gt.Bool(t, a.Equal(b)).True()

	b["E2"] = model.TextAnswer("No")
	gt.Bool(t, a.Equal(b)).False()

	gt.Bool(t, model.Responses{"E3": model.ListAnswer("X")}.Equal(model.Responses{"E3": model.TextAnswer("X")})).False()
}

func TestResponses_CloneIsDeep(t *testing.T) {
	values := []string{"A", "B"}
	original := model.Responses{"E3": model.ListAnswer(values...)}
	values[0] = "changed"

	clone := original.Clone()
	clone["E3"] = model.ListAnswer("Z")

	gt.Value(t, original.Get("E3").Values()).Equal([]string{"A", "B"})
}

func TestResponsesFromMap(t *testing.T) {
	r, err := model.ResponsesFromMap(map[string]any{
		"E2": "Yes",
		"E3": []any{"To other countries"},
		"E5": []string{"A"},
	})
	gt.NoError(t, err).Required()
	gt.Value(t, r.Get("E2").Text()).Equal("Yes")
	gt.Bool(t, r.Get("E3").Contains("To other countries")).True()
	gt.Bool(t, r.Get("E5").Contains("A")).True()

	back := r.ToMap()
	gt.Value(t, back["E2"]).Equal(any("Yes"))
	gt.Value(t, back["E3"]).Equal(any([]string{"To other countries"}))

	_, err = model.ResponsesFromMap(map[string]any{"E2": 1.5})
	gt.Error(t, err).Is(model.ErrInvalidAnswer)
}
