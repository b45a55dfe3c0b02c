package usecase

import (
	"time"

	"github.com/paulmccormack00/risk-assessments/pkg/domain/interfaces"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/model"
	"github.com/paulmccormack00/risk-assessments/pkg/service/slack"
)

type UseCases struct {
	repo     interfaces.Repository
	slack    slack.Service
	clock    func() time.Time
	scorer   *model.Scorer
	resolver *model.Resolver

	Assessment *AssessmentUseCase
	Risk       *RiskScoringUseCase
	Framework  *FrameworkUseCase
}

type Option func(*UseCases)

// WithSlack enables completion and validation notifications
func WithSlack(svc slack.Service) Option {
	return func(uc *UseCases) {
		uc.slack = svc
	}
}

// WithClock replaces the time source
func WithClock(clock func() time.Time) Option {
	return func(uc *UseCases) {
		uc.clock = clock
	}
}

// WithScorer replaces the scoring engine, e.g. to register extra condition kinds
func WithScorer(scorer *model.Scorer) Option {
	return func(uc *UseCases) {
		uc.scorer = scorer
	}
}

// WithResolver replaces the module activation rules
func WithResolver(resolver *model.Resolver) Option {
	return func(uc *UseCases) {
		uc.resolver = resolver
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:     repo,
		clock:    time.Now,
		scorer:   model.NewScorer(),
		resolver: model.NewResolver(model.DefaultActivationRules()...),
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Risk = &RiskScoringUseCase{repo: repo, clock: uc.now}
	uc.Framework = &FrameworkUseCase{repo: repo}
	uc.Assessment = &AssessmentUseCase{
		repo:     repo,
		slack:    uc.slack,
		now:      uc.now,
		scorer:   uc.scorer,
		resolver: uc.resolver,
		risk:     uc.Risk,
	}

	return uc
}

func (uc *UseCases) now() time.Time {
	return uc.clock().UTC()
}
