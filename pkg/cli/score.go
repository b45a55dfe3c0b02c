package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/paulmccormack00/risk-assessments/pkg/cli/config"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

type scoreResult struct {
	Modules   model.ModuleSet      `json:"modules"`
	Breakdown *model.RiskBreakdown `json:"breakdown"`
	Progress  *model.Progress      `json:"progress,omitempty"`
}

// cmdScore scores a response file without a repository, using the risk config
// file or the built-in factors
func cmdScore() *cli.Command {
	var riskPath string
	var frameworkPath string
	var asJSON bool

	return &cli.Command{
		Name:      "score",
		Usage:     "Score a responses JSON file offline",
		ArgsUsage: "<responses.json>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "risk-config",
				Aliases:     []string{"r"},
				Usage:       "TOML file with risk factors and thresholds (defaults to built-in factors)",
				Sources:     cli.EnvVars("COMPLIO_RISK_CONFIG"),
				Destination: &riskPath,
			},
			&cli.StringFlag{
				Name:        "framework",
				Aliases:     []string{"f"},
				Usage:       "Framework file used to report progress",
				Destination: &frameworkPath,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "Print the result as JSON",
				Destination: &asJSON,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			responsesPath := c.Args().First()
			if responsesPath == "" {
				return goerr.New("responses file is required")
			}

			responses, err := loadResponses(responsesPath)
			if err != nil {
				return err
			}

			factors, thresholds := model.DefaultRiskFactors(), model.DefaultRiskThresholds()
			if riskPath != "" {
				cfg, err := config.LoadRiskConfig(riskPath)
				if err != nil {
					return err
				}
				if factors, err = cfg.RiskFactors(); err != nil {
					return err
				}
				t, err := cfg.RiskThresholds()
				if err != nil {
					return err
				}
				if t != nil {
					thresholds = *t
				}
			}

			result := scoreResult{
				Modules:   model.ResolveModules(responses),
				Breakdown: model.ScoreRisk(responses, factors, thresholds),
			}
			if frameworkPath != "" {
				fw, _, err := config.LoadFramework(frameworkPath)
				if err != nil {
					return err
				}
				p := fw.Progress(responses, result.Modules)
				result.Progress = &p
			}

			w := c.Root().Writer
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				if err := enc.Encode(result); err != nil {
					return goerr.Wrap(err, "failed to encode score")
				}
				return nil
			}
			printScore(w, &result)
			return nil
		},
	}
}

func printScore(w io.Writer, r *scoreResult) {
	printModules(w, r.Modules)
	printBreakdown(w, r.Breakdown)
	if r.Progress != nil {
		printProgress(w, *r.Progress)
	}
}

// loadResponses accepts either a bare question-to-answer object or an
// exported assessment with a "responses" field
func loadResponses(path string) (model.Responses, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read responses file", goerr.V("path", path))
	}

	var wrapped struct {
		Responses model.Responses `json:"responses"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Responses != nil {
		return wrapped.Responses, nil
	}

	var responses model.Responses
	if err := json.Unmarshal(data, &responses); err != nil {
		return nil, goerr.Wrap(err, "failed to parse responses file", goerr.V("path", path))
	}
	return responses, nil
}
