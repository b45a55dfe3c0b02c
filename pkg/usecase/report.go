package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/model"
	"github.com/paulmccormack00/risk-assessments/pkg/service/report"
	"golang.org/x/sync/errgroup"
)

// BuildReport gathers an assessment with its framework, risk breakdown and
// ledger. Scored assessments are re-explained with the current factor
// configuration; the stored score and classification are kept as recorded.
func (uc *AssessmentUseCase) BuildReport(ctx context.Context, id string) (*report.Document, error) {
	a, err := uc.GetAssessment(ctx, id)
	if err != nil {
		return nil, err
	}

	doc := &report.Document{Assessment: a, GeneratedAt: uc.now()}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		fw, err := uc.repo.Framework().Get(egCtx, a.FrameworkID)
		if err != nil {
			return goerr.Wrap(err, "failed to get framework", goerr.V(FrameworkIDKey, a.FrameworkID))
		}
		doc.Framework = fw
		return nil
	})
	eg.Go(func() error {
		ledger, err := uc.repo.LinkedRecord().List(egCtx, a.ID)
		if err != nil {
			return goerr.Wrap(err, "failed to list linked records", goerr.V(AssessmentIDKey, a.ID))
		}
		doc.Ledger = ledger
		return nil
	})
	if a.HasRisk() {
		eg.Go(func() error {
			cfg, err := uc.risk.GetConfig(egCtx)
			if err != nil {
				return err
			}
			breakdown := uc.scorer.Score(a.Responses, cfg.Factors, cfg.Thresholds)
			breakdown.Score = *a.RiskScore
			breakdown.Classification = a.RiskClassification
			doc.Breakdown = breakdown
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	doc.Progress = doc.Framework.Progress(a.Responses, a.Modules())
	return doc, nil
}

// CompareAssessments diffs the answers of target against base
func (uc *AssessmentUseCase) CompareAssessments(ctx context.Context, baseID, targetID string) (*report.Comparison, error) {
	base, err := uc.GetAssessment(ctx, baseID)
	if err != nil {
		return nil, err
	}
	target, err := uc.GetAssessment(ctx, targetID)
	if err != nil {
		return nil, err
	}

	var fw *model.Framework
	if base.FrameworkID == target.FrameworkID {
		fw, err = uc.repo.Framework().Get(ctx, base.FrameworkID)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to get framework", goerr.V(FrameworkIDKey, base.FrameworkID))
		}
	}

	return report.Compare(base, target, fw), nil
}
