package cli

import (
	"context"
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
	"github.com/paulmccormack00/risk-assessments/pkg/cli/config"
	"github.com/paulmccormack00/risk-assessments/pkg/usecase"
	"github.com/paulmccormack00/risk-assessments/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdCompare() *cli.Command {
	var repoCfg config.Repository
	var asJSON bool

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "json",
			Usage:       "Print the comparison as JSON",
			Destination: &asJSON,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:      "compare",
		Usage:     "Show how the answers of two assessments differ",
		ArgsUsage: "<base-id> <target-id>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 2 {
				return goerr.New("base and target assessment IDs are required")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, "repository", repo)

			uc := usecase.New(repo)
			cmp, err := uc.Assessment.CompareAssessments(ctx, c.Args().Get(0), c.Args().Get(1))
			if err != nil {
				return err
			}

			w := c.Root().Writer
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				if err := enc.Encode(cmp); err != nil {
					return goerr.Wrap(err, "failed to encode comparison")
				}
				return nil
			}
			printComparison(w, cmp)
			return nil
		},
	}
}
