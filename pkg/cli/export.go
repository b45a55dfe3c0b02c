package cli

import (
	"context"
	"path"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/paulmccormack00/risk-assessments/pkg/cli/config"
	"github.com/paulmccormack00/risk-assessments/pkg/service/report"
	"github.com/paulmccormack00/risk-assessments/pkg/usecase"
	"github.com/paulmccormack00/risk-assessments/pkg/utils/logging"
	"github.com/paulmccormack00/risk-assessments/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdExport() *cli.Command {
	var repoCfg config.Repository
	var output string
	var format string
	var concurrency int

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Destination file, directory or gs://bucket/prefix. With several assessments it is treated as a directory.",
			Required:    true,
			Destination: &output,
		},
		&cli.StringFlag{
			Name:        "format",
			Usage:       "Report format [markdown|html|json]; derived from the output extension when omitted",
			Destination: &format,
		},
		&cli.IntFlag{
			Name:        "concurrency",
			Usage:       "Number of reports written in parallel",
			Value:       report.DefaultConcurrency,
			Destination: &concurrency,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:      "export",
		Usage:     "Export assessment reports to files or Cloud Storage",
		ArgsUsage: "<assessment-id>...",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ids := c.Args().Slice()
			if len(ids) == 0 {
				return goerr.New("at least one assessment ID is required")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, "repository", repo)

			uc := usecase.New(repo)
			jobs, err := buildExportJobs(ctx, uc, ids, output, report.Format(format))
			if err != nil {
				return err
			}

			writer := report.NewWriter(report.WithConcurrency(concurrency))
			defer safe.Close(ctx, "report writer", writer)

			if err := writer.ExportAll(ctx, jobs); err != nil {
				return err
			}
			for _, job := range jobs {
				logging.Default().Info("Report exported",
					"assessment_id", job.Document.Assessment.ID,
					"dest", job.Dest,
					"format", job.Format)
			}
			return nil
		},
	}
}

func buildExportJobs(ctx context.Context, uc *usecase.UseCases, ids []string, output string, format report.Format) ([]report.Job, error) {
	jobs := make([]report.Job, 0, len(ids))
	for _, id := range ids {
		doc, err := uc.Assessment.BuildReport(ctx, id)
		if err != nil {
			return nil, err
		}

		dest := output
		if len(ids) > 1 || strings.HasSuffix(output, "/") {
			f := format
			if f == "" {
				f = report.FormatMarkdown
			}
			dest = joinDest(output, id+extensionOf(f))
		}

		f := format
		if f == "" {
			f = report.FormatFromPath(dest)
		}
		jobs = append(jobs, report.Job{Document: doc, Dest: dest, Format: f})
	}
	return jobs, nil
}

func joinDest(dir, name string) string {
	if strings.HasPrefix(dir, "gs://") {
		return strings.TrimSuffix(dir, "/") + "/" + name
	}
	return path.Join(dir, name)
}

func extensionOf(f report.Format) string {
	switch f {
	case report.FormatHTML:
		return ".html"
	case report.FormatJSON:
		return ".json"
	default:
		return ".md"
	}
}
