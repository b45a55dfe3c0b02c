package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/paulmccormack00/risk-assessments/pkg/cli"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/model"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/types"
	"github.com/paulmccormack00/risk-assessments/pkg/repository/sqlite"
	"github.com/paulmccormack00/risk-assessments/pkg/usecase"
)

const riskTOML = `
[thresholds]
high = 50
medium = 20

[[factor]]
id = "personal_data"
question_id = "E2"
label = "Personal data processing"
points = 20
severity = "medium"
condition = "equals"
value = "Yes"

[[factor]]
id = "ai_involvement"
question_id = "E4"
label = "AI/ML system involvement"
points = 25
severity = "high"
condition = "equals"
value = "Yes"
display_order = 2
`

const frameworkYAML = `
slug: unified
name: Unified Assessment
version: "1.0"
sections:
  - id: entry
    title: Entry
    assessment_outputs: [ALL]
    questions:
      - id: E2
        text: Personal data?
        type: single_select
        options: ["Yes", "No"]
      - id: E4
        text: AI involved?
        type: single_select
        options: ["Yes", "No"]
  - id: dpia
    title: DPIA
    assessment_outputs: [DPIA]
    questions:
      - id: DP.2
        text: Special categories?
        type: single_select
        options: ["Yes", "No"]
derive:
  - slug: dpia
    name: DPIA
    outputs: [DPIA]
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	gt.NoError(t, os.WriteFile(path, []byte(content), 0o600)).Required()
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	err := cli.RunWithWriter(context.Background(), append([]string{"complio", "--log-level", "error"}, args...), "test", &buf)
	return buf.String(), err
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	riskPath := writeFile(t, dir, "risk.toml", riskTOML)
	fwPath := writeFile(t, dir, "unified.yaml", frameworkYAML)

	t.Run("valid files", func(t *testing.T) {
		_, err := run(t, "validate", "--risk-config", riskPath, "--framework", fwPath)
		gt.NoError(t, err)
	})

	t.Run("with DB check on an empty store", func(t *testing.T) {
		_, err := run(t, "validate", "--risk-config", riskPath, "--check-db", "--repository-backend", "memory")
		gt.NoError(t, err)
	})

	t.Run("invalid risk config", func(t *testing.T) {
		bad := writeFile(t, dir, "bad.toml", `
[[factor]]
id = "x"
question_id = "E2"
label = "X"
severity = "extreme"
condition = "equals"
value = "Yes"
`)
		_, err := run(t, "validate", "--risk-config", bad)
		gt.Value(t, err).NotNil()
	})

	t.Run("missing framework file", func(t *testing.T) {
		_, err := run(t, "validate", "--framework", filepath.Join(dir, "none.yaml"))
		gt.Value(t, err).NotNil()
	})
}

type scoreOutput struct {
	Modules   []string `json:"modules"`
	Breakdown struct {
		Score          int    `json:"score"`
		Classification string `json:"classification"`
		Factors        []struct {
			FactorID string `json:"factor_id"`
		} `json:"factors"`
	} `json:"breakdown"`
	Progress *struct {
		Answered int `json:"answered"`
		Total    int `json:"total"`
	} `json:"progress"`
}

func TestScoreCommand(t *testing.T) {
	dir := t.TempDir()
	responses := writeFile(t, dir, "responses.json", `{"E2": "Yes", "E4": "Yes", "E8": "Yes"}`)

	t.Run("built-in factors", func(t *testing.T) {
		out, err := run(t, "score", "--json", responses)
		gt.NoError(t, err).Required()

		var got scoreOutput
		gt.NoError(t, json.Unmarshal([]byte(out), &got)).Required()
		gt.V(t, got.Breakdown.Score).Equal(60)
		gt.V(t, got.Breakdown.Classification).Equal("high")
		gt.A(t, got.Breakdown.Factors).Length(3)
		gt.A(t, got.Modules).Has(string(model.ModuleDPIA))
		gt.A(t, got.Modules).Has(string(model.ModuleCybersecurity))
		gt.V(t, got.Progress).Nil()
	})

	t.Run("risk config and framework progress", func(t *testing.T) {
		riskPath := writeFile(t, dir, "risk.toml", riskTOML)
		fwPath := writeFile(t, dir, "unified.yaml", frameworkYAML)

		out, err := run(t, "score", "--json", "--risk-config", riskPath, "--framework", fwPath, responses)
		gt.NoError(t, err).Required()

		var got scoreOutput
		gt.NoError(t, json.Unmarshal([]byte(out), &got)).Required()
		gt.V(t, got.Breakdown.Score).Equal(45)
		gt.V(t, got.Breakdown.Classification).Equal("medium")
		gt.V(t, got.Progress).NotNil().Required()
		gt.V(t, got.Progress.Answered).Equal(2)
		gt.V(t, got.Progress.Total).Equal(3)
	})

	t.Run("exported assessment shape", func(t *testing.T) {
		wrapped := writeFile(t, dir, "assessment.json", `{"title": "x", "responses": {"E2": "No"}}`)
		out, err := run(t, "score", "--json", wrapped)
		gt.NoError(t, err).Required()

		var got scoreOutput
		gt.NoError(t, json.Unmarshal([]byte(out), &got)).Required()
		gt.V(t, got.Breakdown.Score).Equal(0)
		gt.V(t, got.Breakdown.Classification).Equal("low")
	})

	t.Run("text output", func(t *testing.T) {
		out, err := run(t, "score", responses)
		gt.NoError(t, err).Required()
		gt.String(t, out).Contains("60 / 100 (high)")
		gt.String(t, out).Contains("Personal data processing")
	})

	t.Run("missing argument", func(t *testing.T) {
		_, err := run(t, "score")
		gt.Value(t, err).NotNil()
	})
}

// seedSQLite creates a database with two assessments of one framework and
// returns its path and the assessment IDs
func seedSQLite(t *testing.T) (string, string, string) {
	t.Helper()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "complio.db")

	db, err := sqlite.New(ctx, path)
	gt.NoError(t, err).Required()
	defer func() { _ = db.Close() }()

	uc := usecase.New(db)
	fw, err := uc.Framework.ImportFramework(ctx, &model.Framework{
		Slug:    "unified",
		Name:    "Unified Assessment",
		Version: "1.0",
		Sections: []model.Section{
			{
				ID: model.ModuleEntry, Title: "Entry", DisplayOrder: 1,
				Questions: []model.Question{
					{ID: "E2", Text: "Personal data?", Type: types.QuestionTypeSingleSelect, Options: []string{"Yes", "No"}, DisplayOrder: 1},
					{ID: "E4", Text: "AI involved?", Type: types.QuestionTypeSingleSelect, Options: []string{"Yes", "No"}, DisplayOrder: 2},
				},
			},
		},
	})
	gt.NoError(t, err).Required()

	base, err := uc.Assessment.CreateAssessment(ctx, fw.ID, "Payroll migration", model.AssessmentLinks{})
	gt.NoError(t, err).Required()
	_, err = uc.Assessment.CompleteAssessment(ctx, base.ID, model.Responses{"E2": model.TextAnswer("Yes"), "E4": model.TextAnswer("No")})
	gt.NoError(t, err).Required()

	target, err := uc.Assessment.CreateAssessment(ctx, fw.ID, "Payroll migration v2", model.AssessmentLinks{})
	gt.NoError(t, err).Required()
	_, err = uc.Assessment.SaveResponses(ctx, target.ID, model.Responses{"E2": model.TextAnswer("Yes"), "E4": model.TextAnswer("Yes")})
	gt.NoError(t, err).Required()

	return path, base.ID, target.ID
}

func TestExportCommand(t *testing.T) {
	dbPath, baseID, targetID := seedSQLite(t)
	outDir := t.TempDir()

	t.Run("single file", func(t *testing.T) {
		dest := filepath.Join(outDir, "report.md")
		_, err := run(t, "export", "--repository-backend", "sqlite", "--sqlite-path", dbPath, "-o", dest, baseID)
		gt.NoError(t, err).Required()

		data, err := os.ReadFile(dest)
		gt.NoError(t, err).Required()
		gt.String(t, string(data)).Contains("# Payroll migration")
		gt.String(t, string(data)).Contains("**Score: 20 / 100 (low)**")
	})

	t.Run("several assessments into a directory", func(t *testing.T) {
		dir := filepath.Join(outDir, "html")
		_, err := run(t, "export", "--repository-backend", "sqlite", "--sqlite-path", dbPath,
			"-o", dir, "--format", "html", baseID, targetID)
		gt.NoError(t, err).Required()

		for _, id := range []string{baseID, targetID} {
			data, err := os.ReadFile(filepath.Join(dir, id+".html"))
			gt.NoError(t, err).Required()
			gt.B(t, strings.HasPrefix(string(data), "<!DOCTYPE html>")).True()
		}
	})

	t.Run("unknown assessment", func(t *testing.T) {
		_, err := run(t, "export", "--repository-backend", "sqlite", "--sqlite-path", dbPath,
			"-o", filepath.Join(outDir, "x.md"), "no-such-id")
		gt.Error(t, err).Is(usecase.ErrAssessmentNotFound)
	})
}

func TestCompareCommand(t *testing.T) {
	dbPath, baseID, targetID := seedSQLite(t)

	t.Run("json", func(t *testing.T) {
		out, err := run(t, "compare", "--json", "--repository-backend", "sqlite", "--sqlite-path", dbPath, baseID, targetID)
		gt.NoError(t, err).Required()

		var got struct {
			Changes []struct {
				QuestionID string `json:"question_id"`
				Before     string `json:"before"`
				After      string `json:"after"`
			} `json:"changes"`
			ModulesAdded []string `json:"modules_added"`
		}
		gt.NoError(t, json.Unmarshal([]byte(out), &got)).Required()
		gt.A(t, got.Changes).Length(1).Required()
		gt.V(t, got.Changes[0].QuestionID).Equal("E4")
		gt.V(t, got.Changes[0].Before).Equal("No")
		gt.V(t, got.Changes[0].After).Equal("Yes")
		gt.A(t, got.ModulesAdded).Has(string(model.ModuleAIScope))
	})

	t.Run("text", func(t *testing.T) {
		out, err := run(t, "compare", "--repository-backend", "sqlite", "--sqlite-path", dbPath, baseID, targetID)
		gt.NoError(t, err).Required()
		gt.String(t, out).Contains("- E4: No")
		gt.String(t, out).Contains("+ E4: Yes")
	})

	t.Run("requires two IDs", func(t *testing.T) {
		_, err := run(t, "compare", "--repository-backend", "sqlite", "--sqlite-path", dbPath, baseID)
		gt.Value(t, err).NotNil()
	})
}

func TestMigrateCommandSQLite(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "complio.db")

	_, err := run(t, "migrate", "--dry-run", "--repository-backend", "sqlite", "--sqlite-path", dbPath)
	gt.NoError(t, err).Required()

	db, err := sqlite.New(ctx, dbPath, sqlite.WithoutMigration())
	gt.NoError(t, err).Required()
	version, err := db.SchemaVersion(ctx)
	gt.NoError(t, err).Required()
	gt.V(t, version).Equal(0)
	gt.NoError(t, db.Close()).Required()

	_, err = run(t, "migrate", "--repository-backend", "sqlite", "--sqlite-path", dbPath)
	gt.NoError(t, err).Required()

	db, err = sqlite.New(ctx, dbPath, sqlite.WithoutMigration())
	gt.NoError(t, err).Required()
	defer func() { _ = db.Close() }()
	version, err = db.SchemaVersion(ctx)
	gt.NoError(t, err).Required()
	gt.V(t, version).Equal(sqlite.LatestSchemaVersion())
}
