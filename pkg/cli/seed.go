package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/paulmccormack00/risk-assessments/pkg/cli/config"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/model"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/types"
	"github.com/paulmccormack00/risk-assessments/pkg/usecase"
	"github.com/paulmccormack00/risk-assessments/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// seedFlags selects the configuration files loaded into the store on start
type seedFlags struct {
	riskConfig string
	frameworks []string
}

func (x *seedFlags) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "risk-config",
			Aliases:     []string{"r"},
			Category:    "Configuration",
			Usage:       "TOML file with risk factors and thresholds to seed",
			Sources:     cli.EnvVars("COMPLIO_RISK_CONFIG"),
			Destination: &x.riskConfig,
		},
		&cli.StringSliceFlag{
			Name:        "framework",
			Aliases:     []string{"f"},
			Category:    "Configuration",
			Usage:       "Framework definition file (.toml, .yaml or .json); repeatable",
			Sources:     cli.EnvVars("COMPLIO_FRAMEWORK"),
			Destination: &x.frameworks,
		},
	}
}

type frameworkSeed struct {
	path      string
	framework *model.Framework
	derive    []config.DerivedManifest
}

type seeds struct {
	factors    []*model.RiskFactor
	thresholds *model.RiskThresholds
	frameworks []frameworkSeed
}

// load reads and validates every configured file without touching the store
func (x *seedFlags) load() (*seeds, error) {
	s := &seeds{}

	if x.riskConfig != "" {
		cfg, err := config.LoadRiskConfig(x.riskConfig)
		if err != nil {
			return nil, err
		}
		if s.factors, err = cfg.RiskFactors(); err != nil {
			return nil, err
		}
		if s.thresholds, err = cfg.RiskThresholds(); err != nil {
			return nil, err
		}
	}

	for _, path := range x.frameworks {
		fw, file, err := config.LoadFramework(path)
		if err != nil {
			return nil, err
		}
		s.frameworks = append(s.frameworks, frameworkSeed{path: path, framework: fw, derive: file.Derive})
	}
	return s, nil
}

// apply stores frameworks, derived frameworks and risk configuration. Factors
// and thresholds already in the store keep their administrator edits. Without
// a risk config file the built-in defaults are seeded.
func (s *seeds) apply(ctx context.Context, uc *usecase.UseCases) error {
	logger := logging.From(ctx)

	for _, fs := range s.frameworks {
		fw, err := uc.Framework.ImportFramework(ctx, fs.framework)
		if err != nil {
			return goerr.Wrap(err, "failed to import framework", goerr.V(config.ConfigPathKey, fs.path))
		}
		for _, d := range fs.derive {
			derived, err := uc.Framework.DeriveStandalone(ctx, fw.Slug, types.FrameworkSlug(d.Slug), d.Name, d.Description, d.Outputs)
			if err != nil {
				return goerr.Wrap(err, "failed to derive framework",
					goerr.V(config.ConfigPathKey, fs.path),
					goerr.V("slug", d.Slug))
			}
			logger.Info("Derived framework", "slug", derived.Slug, "from", fw.Slug, "sections", len(derived.Sections))
		}
	}

	factors, thresholds := s.factors, s.thresholds
	if factors == nil {
		factors = model.DefaultRiskFactors()
	}
	if thresholds == nil {
		t := model.DefaultRiskThresholds()
		thresholds = &t
	}
	seeded, err := uc.Risk.Seed(ctx, factors, thresholds)
	if err != nil {
		return goerr.Wrap(err, "failed to seed risk configuration")
	}
	logger.Info("Risk configuration ready", "seeded_factors", seeded, "configured_factors", len(factors))
	return nil
}
