package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/model"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/types"
	"github.com/paulmccormack00/risk-assessments/pkg/service/report"
)

var (
	headingColor = color.New(color.FgCyan, color.Bold)
	addedColor   = color.New(color.FgGreen)
	removedColor = color.New(color.FgRed)
	dimColor     = color.New(color.Faint)
)

func classificationColor(c types.RiskClassification) *color.Color {
	switch c {
	case types.RiskClassificationHigh:
		return color.New(color.FgRed, color.Bold)
	case types.RiskClassificationMedium:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgGreen, color.Bold)
	}
}

func severityColor(s types.Severity) *color.Color {
	switch s {
	case types.SeverityHigh:
		return color.New(color.FgRed)
	case types.SeverityMedium:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgGreen)
	}
}

func printBreakdown(w io.Writer, b *model.RiskBreakdown) {
	headingColor.Fprintln(w, "Risk")
	fmt.Fprint(w, "  Score: ")
	classificationColor(b.Classification).Fprintf(w, "%d / %d (%s)\n", b.Score, model.MaxRiskScore, b.Classification)

	if len(b.Factors) == 0 {
		dimColor.Fprintln(w, "  No risk factor applies.")
		return
	}
	for _, f := range b.Factors {
		fmt.Fprintf(w, "  %+4d  %s ", f.Points, f.Label)
		severityColor(f.Severity).Fprintf(w, "[%s]", f.Severity)
		dimColor.Fprintf(w, " %s\n", f.QuestionID)
	}
}

func printModules(w io.Writer, modules model.ModuleSet) {
	headingColor.Fprintln(w, "Modules")
	for _, id := range modules.IDs() {
		fmt.Fprintf(w, "  %s\n", id)
	}
}

func printProgress(w io.Writer, p model.Progress) {
	headingColor.Fprintln(w, "Progress")
	fmt.Fprintf(w, "  %d/%d questions (%d%%)\n", p.Answered, p.Total, p.Percent())
}

func printComparison(w io.Writer, c *report.Comparison) {
	headingColor.Fprintf(w, "%s -> %s\n", c.Base.Title, c.Target.Title)
	if !c.HasChanges() {
		dimColor.Fprintln(w, "  No differences.")
		return
	}

	for _, m := range c.ModulesAdded {
		addedColor.Fprintf(w, "+ module %s\n", m)
	}
	for _, m := range c.ModulesRemoved {
		removedColor.Fprintf(w, "- module %s\n", m)
	}

	for _, line := range strings.SplitAfter(c.Diff, "\n") {
		switch {
		case line == "":
		case strings.HasPrefix(line, "+ "):
			addedColor.Fprint(w, line)
		case strings.HasPrefix(line, "- "):
			removedColor.Fprint(w, line)
		default:
			dimColor.Fprint(w, line)
		}
	}
}
