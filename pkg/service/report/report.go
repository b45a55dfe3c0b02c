package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/model"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Format is the output encoding of a report
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
)

// FormatFromPath picks a format from the destination's extension. Unknown
// extensions render as Markdown.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return FormatHTML
	case ".json":
		return FormatJSON
	default:
		return FormatMarkdown
	}
}

// Document is everything a report shows about one assessment
type Document struct {
	Assessment  *model.Assessment     `json:"assessment"`
	Framework   *model.Framework      `json:"framework"`
	Breakdown   *model.RiskBreakdown  `json:"breakdown,omitempty"`
	Progress    model.Progress        `json:"progress"`
	Ledger      []*model.LinkedRecord `json:"linked_records"`
	GeneratedAt time.Time             `json:"generated_at"`
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// Render encodes doc in the requested format
func Render(doc *Document, format Format) ([]byte, error) {
	if doc == nil || doc.Assessment == nil || doc.Framework == nil {
		return nil, goerr.New("report document is incomplete")
	}

	switch format {
	case FormatMarkdown, "":
		return RenderMarkdown(doc), nil
	case FormatHTML:
		return RenderHTML(doc)
	case FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, goerr.Wrap(err, "failed to marshal report")
		}
		return data, nil
	default:
		return nil, goerr.New("unsupported report format", goerr.V("format", format))
	}
}

// RenderHTML converts the Markdown report to a standalone HTML page
func RenderHTML(doc *Document) ([]byte, error) {
	var body bytes.Buffer
	if err := markdown.Convert(RenderMarkdown(doc), &body); err != nil {
		return nil, goerr.Wrap(err, "failed to convert report to HTML")
	}

	var out bytes.Buffer
	out.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&out, "<title>%s</title>\n", htmlEscape(doc.Assessment.Title))
	out.WriteString("</head>\n<body>\n")
	out.Write(body.Bytes())
	out.WriteString("</body>\n</html>\n")
	return out.Bytes(), nil
}

// RenderMarkdown writes the report as Markdown. Only questions of active
// sections are listed.
func RenderMarkdown(doc *Document) []byte {
	a := doc.Assessment
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", a.Title)
	fmt.Fprintf(&b, "- Framework: %s", doc.Framework.Name)
	if doc.Framework.Version != "" {
		fmt.Fprintf(&b, " (v%s)", doc.Framework.Version)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "- Status: %s\n", a.Status)
	fmt.Fprintf(&b, "- Progress: %d/%d questions (%d%%)\n", doc.Progress.Answered, doc.Progress.Total, doc.Progress.Percent())
	if a.CompletedAt != nil {
		fmt.Fprintf(&b, "- Completed: %s\n", a.CompletedAt.UTC().Format(time.RFC3339))
	}
	if by, at, ok := a.Validation(); ok {
		fmt.Fprintf(&b, "- Validated: %s by %s\n", at.UTC().Format(time.RFC3339), by)
	}
	if !doc.GeneratedAt.IsZero() {
		fmt.Fprintf(&b, "- Generated: %s\n", doc.GeneratedAt.UTC().Format(time.RFC3339))
	}
	b.WriteString("\n")

	writeRisk(&b, doc.Breakdown)
	writeAnswers(&b, doc)
	writeLedger(&b, doc.Ledger)

	return []byte(b.String())
}

func writeRisk(b *strings.Builder, breakdown *model.RiskBreakdown) {
	b.WriteString("## Risk\n\n")
	if breakdown == nil {
		b.WriteString("Not scored yet.\n\n")
		return
	}

	fmt.Fprintf(b, "**Score: %d / 100 (%s)**\n\n", breakdown.Score, breakdown.Classification)
	if len(breakdown.Factors) == 0 {
		b.WriteString("No risk factors apply.\n\n")
		return
	}

	b.WriteString("| Factor | Question | Points | Severity | Reason |\n")
	b.WriteString("|---|---|---:|---|---|\n")
	for _, f := range breakdown.Factors {
		fmt.Fprintf(b, "| %s | %s | %d | %s | %s |\n",
			cell(f.Label), f.QuestionID, f.Points, f.Severity, cell(f.Reason))
	}
	b.WriteString("\n")
}

func writeAnswers(b *strings.Builder, doc *Document) {
	a := doc.Assessment
	for _, section := range doc.Framework.ActiveSections(a.Modules()) {
		fmt.Fprintf(b, "## %s\n\n", section.Title)
		for _, q := range section.Questions {
			fmt.Fprintf(b, "**%s** %s\n\n", q.ID, q.Text)
			answer := a.Responses.Get(q.ID)
			switch {
			case answer.IsEmpty():
				b.WriteString("_Not answered_\n\n")
			case answer.IsList():
				for _, v := range answer.Values() {
					fmt.Fprintf(b, "- %s\n", v)
				}
				b.WriteString("\n")
			default:
				fmt.Fprintf(b, "> %s\n\n", answer.Text())
			}
		}
	}
}

func writeLedger(b *strings.Builder, ledger []*model.LinkedRecord) {
	b.WriteString("## Linked records\n\n")
	if len(ledger) == 0 {
		b.WriteString("None.\n")
		return
	}

	b.WriteString("| Type | Title | Created |\n")
	b.WriteString("|---|---|---|\n")
	for _, r := range ledger {
		fmt.Fprintf(b, "| %s | %s | %s |\n", r.Type, cell(r.Title), r.CreatedAt.UTC().Format(time.RFC3339))
	}
}

func cell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}

var htmlReplacer = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "\"", "&quot;")

func htmlEscape(s string) string {
	return htmlReplacer.Replace(s)
}
