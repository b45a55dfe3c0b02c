package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/interfaces"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/model"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/model/auth"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/types"
	"github.com/paulmccormack00/risk-assessments/pkg/repository/memory"
	"github.com/paulmccormack00/risk-assessments/pkg/service/slack"
	"github.com/paulmccormack00/risk-assessments/pkg/usecase"
)

var fixedNow = time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	uc   *usecase.UseCases
	repo interfaces.Repository
	fw   *model.Framework
}

func newFixture(t *testing.T, opts ...usecase.Option) *fixture {
	t.Helper()
	return newFixtureWithRepo(t, memory.New(), opts...)
}

func newFixtureWithRepo(t *testing.T, repo interfaces.Repository, opts ...usecase.Option) *fixture {
	t.Helper()

	fw := testFramework()
	gt.NoError(t, repo.Framework().Put(context.Background(), fw)).Required()

	opts = append([]usecase.Option{usecase.WithClock(func() time.Time { return fixedNow })}, opts...)
	return &fixture{
		uc:   usecase.New(repo, opts...),
		repo: repo,
		fw:   fw,
	}
}

func testFramework() *model.Framework {
	yesNo := []string{"Yes", "No"}
	return &model.Framework{
		Slug:    "unified",
		Name:    "Unified Assessment",
		Version: "1.0",
		Sections: []model.Section{
			{
				ID: model.ModuleEntry, Title: "Entry", DisplayOrder: 1, Outputs: []string{model.OutputAll},
				Questions: []model.Question{
					{ID: "E2", Text: "Personal data?", Type: types.QuestionTypeSingleSelect, Options: yesNo, DisplayOrder: 1, AssessmentTypes: []string{model.OutputAll}},
					{ID: "E3", Text: "Transfers?", Type: types.QuestionTypeMultiSelect, Options: []string{"Within the EU", "To other countries"}, DisplayOrder: 2, AssessmentTypes: []string{"TIA"}},
					{ID: "E4", Text: "AI involved?", Type: types.QuestionTypeSingleSelect, Options: yesNo, DisplayOrder: 3, AssessmentTypes: []string{"AI"}},
					{ID: "E7", Text: "Third-party vendor?", Type: types.QuestionTypeSingleSelect, Options: yesNo, DisplayOrder: 4, AssessmentTypes: []string{model.OutputAll}},
					{ID: "E8", Text: "Critical infrastructure?", Type: types.QuestionTypeSingleSelect, Options: yesNo, DisplayOrder: 5, AssessmentTypes: []string{model.OutputAll}},
				},
			},
			{
				ID: model.ModuleDPIA, Title: "DPIA", DisplayOrder: 2, Outputs: []string{"DPIA"},
				Questions: []model.Question{
					{ID: "DP.1", Text: "Data types", Type: types.QuestionTypeMultiSelect, Options: []string{"Contact details", "Health"}, DisplayOrder: 1, AssessmentTypes: []string{"DPIA"}},
					{ID: "DP.2", Text: "Special categories?", Type: types.QuestionTypeSingleSelect, Options: yesNo, DisplayOrder: 2, AssessmentTypes: []string{"DPIA"}},
					{ID: "DP.3", Text: "Legal basis", Type: types.QuestionTypeMultiSelect, OptionListSource: true, DisplayOrder: 3, AssessmentTypes: []string{"DPIA"}},
				},
			},
			{
				ID: model.ModuleAIScope, Title: "AI scope", DisplayOrder: 3, Outputs: []string{"AI"},
				Questions: []model.Question{
					{ID: "AI.1", Text: "Model type", Type: types.QuestionTypeText, DisplayOrder: 1, AssessmentTypes: []string{"AI"}},
				},
			},
		},
	}
}

func userCtx() context.Context {
	return auth.ContextWithToken(context.Background(),
		auth.NewToken("U100", "analyst@example.com", "Analyst", types.RoleUser))
}

func adminCtx() context.Context {
	return auth.ContextWithToken(context.Background(),
		auth.NewToken("U001", "dpo@example.com", "DPO", types.RoleAdmin))
}

// newCompleted creates an assessment and completes it with responses
func (f *fixture) newCompleted(t *testing.T, title string, responses model.Responses) *model.Assessment {
	t.Helper()
	ctx := userCtx()

	a, err := f.uc.Assessment.CreateAssessment(ctx, f.fw.ID, title, model.AssessmentLinks{})
	gt.NoError(t, err).Required()
	completed, err := f.uc.Assessment.CompleteAssessment(ctx, a.ID, responses)
	gt.NoError(t, err).Required()
	return completed
}

// newValidated creates, completes and validates an assessment
func (f *fixture) newValidated(t *testing.T, title string, responses model.Responses) *model.Assessment {
	t.Helper()
	completed := f.newCompleted(t, title, responses)
	validated, err := f.uc.Assessment.ValidateAssessment(adminCtx(), completed.ID)
	gt.NoError(t, err).Required()
	return validated
}

var errStoreUnavailable = errors.New("store unavailable")

// flakyRepository fails the n-th assessment update
type flakyRepository struct {
	interfaces.Repository
	assessments *flakyAssessments
}

func newFlakyRepository(failOnUpdate int) *flakyRepository {
	base := memory.New()
	return &flakyRepository{
		Repository:  base,
		assessments: &flakyAssessments{AssessmentRepository: base.Assessment(), failOnUpdate: failOnUpdate},
	}
}

func (r *flakyRepository) Assessment() interfaces.AssessmentRepository {
	return r.assessments
}

type flakyAssessments struct {
	interfaces.AssessmentRepository
	failOnUpdate int
	updates      int
}

func (f *flakyAssessments) Update(ctx context.Context, a *model.Assessment) (*model.Assessment, error) {
	f.updates++
	if f.updates == f.failOnUpdate {
		return nil, errStoreUnavailable
	}
	return f.AssessmentRepository.Update(ctx, a)
}

// failingLedger rejects every append
type failingLedger struct {
	interfaces.LinkedRecordRepository
}

func (failingLedger) Append(ctx context.Context, record *model.LinkedRecord) error {
	return errStoreUnavailable
}

type brokenLedgerRepository struct {
	interfaces.Repository
}

func (r *brokenLedgerRepository) LinkedRecord() interfaces.LinkedRecordRepository {
	return failingLedger{LinkedRecordRepository: r.Repository.LinkedRecord()}
}

type slackRecorder struct {
	mu   sync.Mutex
	sent []*slack.Notification
	err  error
}

func (s *slackRecorder) Notify(ctx context.Context, n *slack.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, n)
	return s.err
}

func (s *slackRecorder) events() []slack.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := make([]slack.Event, len(s.sent))
	for i, n := range s.sent {
		events[i] = n.Event
	}
	return events
}
