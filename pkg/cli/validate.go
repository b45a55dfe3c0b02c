package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/paulmccormack00/risk-assessments/pkg/cli/config"
	"github.com/paulmccormack00/risk-assessments/pkg/usecase"
	"github.com/paulmccormack00/risk-assessments/pkg/utils/logging"
	"github.com/paulmccormack00/risk-assessments/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdValidate() *cli.Command {
	var seedCfg seedFlags
	var repoCfg config.Repository
	var checkDB bool

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "check-db",
			Usage:       "Also check stored assessments against their frameworks and lifecycle rules",
			Sources:     cli.EnvVars("COMPLIO_CHECK_DB"),
			Destination: &checkDB,
		},
	}
	flags = append(flags, seedCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate configuration files and optionally check DB consistency",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			seed, err := seedCfg.load()
			if err != nil {
				return goerr.Wrap(err, "configuration validation failed")
			}

			logger.Info("Configuration validation passed",
				"factor_count", len(seed.factors),
				"framework_count", len(seed.frameworks),
			)
			for _, fs := range seed.frameworks {
				logger.Info("Framework validated",
					"path", fs.path,
					"slug", fs.framework.Slug,
					"section_count", len(fs.framework.Sections),
					"derived_count", len(fs.derive),
				)
			}

			if !checkDB {
				logger.Info("DB consistency check not requested")
				return nil
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, "repository", repo)

			uc := usecase.New(repo)
			result, err := uc.Assessment.ValidateDB(ctx)
			if err != nil {
				return goerr.Wrap(err, "DB consistency check failed")
			}

			if result.HasIssues() {
				for _, issue := range result.Issues {
					logger.Warn("DB consistency issue found",
						"assessment_id", issue.AssessmentID,
						"field", issue.Field,
						"message", issue.Message,
						"expected", issue.Expected,
						"actual", issue.Actual,
					)
				}

				return fmt.Errorf("DB consistency check found %d issue(s) in %d assessment(s)", len(result.Issues), result.Checked)
			}

			logger.Info("DB consistency check passed", "checked", result.Checked)
			return nil
		},
	}
}
