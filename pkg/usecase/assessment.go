package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/interfaces"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/model"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/model/auth"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/types"
	"github.com/paulmccormack00/risk-assessments/pkg/service/slack"
	"github.com/paulmccormack00/risk-assessments/pkg/utils/errutil"
	"github.com/paulmccormack00/risk-assessments/pkg/utils/logging"
)

// AssessmentUseCase owns assessment status and drives every lifecycle
// transition. Module resolution and scoring are always re-run here; values
// computed by clients are never persisted.
type AssessmentUseCase struct {
	repo     interfaces.Repository
	slack    slack.Service
	now      func() time.Time
	scorer   *model.Scorer
	resolver *model.Resolver
	risk     *RiskScoringUseCase
}

// CreateAssessment starts a draft for an existing framework
func (uc *AssessmentUseCase) CreateAssessment(ctx context.Context, frameworkID, title string, links model.AssessmentLinks) (*model.Assessment, error) {
	if frameworkID == "" {
		return nil, goerr.Wrap(ErrValidation, "framework is required")
	}
	if title == "" {
		return nil, goerr.Wrap(ErrValidation, "assessment title is required")
	}

	if _, err := uc.repo.Framework().Get(ctx, frameworkID); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrFrameworkNotFound, "framework not found", goerr.V(FrameworkIDKey, frameworkID))
		}
		return nil, goerr.Wrap(err, "failed to get framework", goerr.V(FrameworkIDKey, frameworkID))
	}

	draft := model.NewDraft(frameworkID, title, links)
	draft.CreatedBy = actorID(ctx)

	created, err := uc.repo.Assessment().Create(ctx, draft)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create assessment")
	}

	logging.From(ctx).Info("assessment created",
		"assessment_id", created.ID,
		"framework_id", frameworkID)
	return created, nil
}

// GetAssessment returns an assessment in any status, archived included
func (uc *AssessmentUseCase) GetAssessment(ctx context.Context, id string) (*model.Assessment, error) {
	a, err := uc.repo.Assessment().Get(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrAssessmentNotFound, "assessment not found", goerr.V(AssessmentIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get assessment", goerr.V(AssessmentIDKey, id))
	}
	return a, nil
}

// ListAssessments returns assessments, excluding archived ones unless requested
func (uc *AssessmentUseCase) ListAssessments(ctx context.Context, opts ...interfaces.ListAssessmentOption) ([]*model.Assessment, error) {
	list, err := uc.repo.Assessment().List(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list assessments")
	}
	return list, nil
}

// UpdateAssessmentDetails changes the title and context links
func (uc *AssessmentUseCase) UpdateAssessmentDetails(ctx context.Context, id, title string, links model.AssessmentLinks) (*model.Assessment, error) {
	if title == "" {
		return nil, goerr.Wrap(ErrValidation, "assessment title is required", goerr.V(AssessmentIDKey, id))
	}

	a, err := uc.GetAssessment(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status == types.AssessmentStatusArchived {
		return nil, invalidTransition(a, "update")
	}

	a.Title = title
	a.Links = links
	return uc.update(ctx, a)
}

// SaveResponses persists the answers and the modules they activate. The first
// save of a draft always moves it to in_progress, even with no answers; after
// that, saving the stored answers again changes nothing.
func (uc *AssessmentUseCase) SaveResponses(ctx context.Context, id string, responses model.Responses) (*model.Assessment, error) {
	a, err := uc.GetAssessment(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.Status.IsEditable() {
		return nil, invalidTransition(a, "save")
	}
	if a.Status == types.AssessmentStatusInProgress && a.Responses.Equal(responses) {
		return a, nil
	}

	uc.applyResponses(a, responses)
	a.Status = types.AssessmentStatusInProgress
	return uc.update(ctx, a)
}

// CompleteAssessment saves the answers, scores them and marks the assessment
// completed. A nil responses completes with the stored answers. Each step is
// persisted separately: when scoring or the status change fails, the saved
// answers remain and the error is returned.
func (uc *AssessmentUseCase) CompleteAssessment(ctx context.Context, id string, responses model.Responses) (*model.Assessment, error) {
	a, err := uc.GetAssessment(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.Status.IsEditable() {
		return nil, invalidTransition(a, "complete")
	}

	if responses == nil {
		responses = a.Responses
	}
	uc.applyResponses(a, responses)
	a.Status = types.AssessmentStatusInProgress
	saved, err := uc.repo.Assessment().Update(ctx, a)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to save responses", goerr.V(AssessmentIDKey, id))
	}

	breakdown, err := uc.PreviewRisk(ctx, saved.Responses)
	if err != nil {
		return saved, goerr.Wrap(err, "responses saved but scoring failed", goerr.V(AssessmentIDKey, id))
	}
	saved.SetRisk(breakdown)
	scored, err := uc.repo.Assessment().Update(ctx, saved)
	if err != nil {
		return saved, goerr.Wrap(err, "responses saved but risk score could not be stored", goerr.V(AssessmentIDKey, id))
	}

	completedAt := uc.now()
	scored.Status = types.AssessmentStatusCompleted
	scored.CompletedAt = &completedAt
	completed, err := uc.repo.Assessment().Update(ctx, scored)
	if err != nil {
		return scored, goerr.Wrap(err, "risk score saved but status could not be changed", goerr.V(AssessmentIDKey, id))
	}

	logging.From(ctx).Info("assessment completed",
		"assessment_id", id,
		"risk_score", breakdown.Score,
		"classification", breakdown.Classification)
	uc.notify(ctx, slack.EventCompleted, completed, actorID(ctx))
	return completed, nil
}

// ValidateAssessment records the acting user's sign-off on a completed
// assessment. Stores without validation fields keep the sign-off in metadata.
func (uc *AssessmentUseCase) ValidateAssessment(ctx context.Context, id string) (*model.Assessment, error) {
	token, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	a, err := uc.GetAssessment(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status != types.AssessmentStatusCompleted {
		return nil, invalidTransition(a, "validate")
	}

	validator := actorName(token)
	validatedAt := uc.now()

	validated, err := uc.repo.Assessment().MarkValidated(ctx, id, validator, validatedAt)
	if errors.Is(err, interfaces.ErrValidationColumnsUnsupported) {
		logging.From(ctx).Warn("store has no validation fields, recording validation in metadata",
			"assessment_id", id)
		a.Status = types.AssessmentStatusValidated
		a.SetMetadata(model.MetadataValidatedBy, validator)
		a.SetMetadata(model.MetadataValidatedAt, validatedAt.Format(time.RFC3339Nano))
		validated, err = uc.repo.Assessment().Update(ctx, a)
	}
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrAssessmentNotFound, "assessment not found", goerr.V(AssessmentIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to validate assessment", goerr.V(AssessmentIDKey, id))
	}

	logging.From(ctx).Info("assessment validated", "assessment_id", id, "validated_by", validator)
	uc.notify(ctx, slack.EventValidated, validated, validator)
	return validated, nil
}

// ReopenAssessment returns a completed assessment to editing. The last risk
// score stays until the next completion.
func (uc *AssessmentUseCase) ReopenAssessment(ctx context.Context, id string) (*model.Assessment, error) {
	a, err := uc.GetAssessment(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status != types.AssessmentStatusCompleted {
		return nil, invalidTransition(a, "reopen")
	}

	a.Status = types.AssessmentStatusInProgress
	a.CompletedAt = nil
	return uc.update(ctx, a)
}

// RedoAssessment starts a fresh draft from a validated assessment, which is
// left as it is
func (uc *AssessmentUseCase) RedoAssessment(ctx context.Context, id string) (*model.Assessment, error) {
	a, err := uc.GetAssessment(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status != types.AssessmentStatusValidated {
		return nil, invalidTransition(a, "redo")
	}

	redo := a.Redo()
	redo.CreatedBy = actorID(ctx)
	created, err := uc.repo.Assessment().Create(ctx, redo)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create redo assessment", goerr.V(AssessmentIDKey, id))
	}

	logging.From(ctx).Info("assessment redone", "assessment_id", id, "redo_id", created.ID)
	return created, nil
}

// ArchiveAssessment hides an assessment from default listings
func (uc *AssessmentUseCase) ArchiveAssessment(ctx context.Context, id string) (*model.Assessment, error) {
	a, err := uc.GetAssessment(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status == types.AssessmentStatusArchived {
		return nil, invalidTransition(a, "archive")
	}

	a.Status = types.AssessmentStatusArchived
	return uc.update(ctx, a)
}

// CopyAssessment forks a new draft carrying the answers and links
func (uc *AssessmentUseCase) CopyAssessment(ctx context.Context, id string) (*model.Assessment, error) {
	a, err := uc.GetAssessment(ctx, id)
	if err != nil {
		return nil, err
	}

	dup := a.Copy()
	dup.CreatedBy = actorID(ctx)
	created, err := uc.repo.Assessment().Create(ctx, dup)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to copy assessment", goerr.V(AssessmentIDKey, id))
	}
	return created, nil
}

// ReorderAssessments assigns sort positions following ids
func (uc *AssessmentUseCase) ReorderAssessments(ctx context.Context, ids []string) error {
	for i, id := range ids {
		a, err := uc.GetAssessment(ctx, id)
		if err != nil {
			return err
		}
		if a.SortOrder == i {
			continue
		}
		a.SortOrder = i
		if _, err := uc.update(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

// PreviewRisk scores responses against the current configuration without
// storing anything
func (uc *AssessmentUseCase) PreviewRisk(ctx context.Context, responses model.Responses) (*model.RiskBreakdown, error) {
	cfg, err := uc.risk.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	return uc.scorer.Score(responses, cfg.Factors, cfg.Thresholds), nil
}

// ResolveModules returns the modules activated by responses
func (uc *AssessmentUseCase) ResolveModules(responses model.Responses) model.ModuleSet {
	return uc.resolver.Resolve(responses)
}

// Progress counts answered questions in the assessment's active sections
func (uc *AssessmentUseCase) Progress(ctx context.Context, a *model.Assessment) (model.Progress, error) {
	fw, err := uc.repo.Framework().Get(ctx, a.FrameworkID)
	if err != nil {
		return model.Progress{}, goerr.Wrap(err, "failed to get framework", goerr.V(FrameworkIDKey, a.FrameworkID))
	}
	return fw.Progress(a.Responses, a.Modules()), nil
}

func (uc *AssessmentUseCase) applyResponses(a *model.Assessment, responses model.Responses) {
	a.Responses = responses.Clone()
	a.ActiveModules = uc.resolver.Resolve(responses).IDs()
}

func (uc *AssessmentUseCase) update(ctx context.Context, a *model.Assessment) (*model.Assessment, error) {
	updated, err := uc.repo.Assessment().Update(ctx, a)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrAssessmentNotFound, "assessment not found", goerr.V(AssessmentIDKey, a.ID))
		}
		return nil, goerr.Wrap(err, "failed to update assessment", goerr.V(AssessmentIDKey, a.ID))
	}
	return updated, nil
}

// notify is best-effort: a failed post never fails the transition
func (uc *AssessmentUseCase) notify(ctx context.Context, event slack.Event, a *model.Assessment, actor string) {
	if uc.slack == nil {
		return
	}
	err := uc.slack.Notify(ctx, &slack.Notification{
		Event:          event,
		AssessmentID:   a.ID,
		Title:          a.Title,
		Score:          a.RiskScore,
		Classification: a.RiskClassification,
		Actor:          actor,
	})
	if err != nil {
		errutil.Handle(ctx, err, "failed to post Slack notification for assessment")
	}
}

func invalidTransition(a *model.Assessment, action string) error {
	return goerr.Wrap(ErrInvalidTransition, "action not allowed in current status",
		goerr.V(AssessmentIDKey, a.ID),
		goerr.V(StatusKey, a.Status),
		goerr.V(ActionKey, action))
}

func actorID(ctx context.Context) string {
	token, err := auth.TokenFromContext(ctx)
	if err != nil || token.IsAnonymous() {
		return ""
	}
	return token.Sub
}

func actorName(token *auth.Token) string {
	if token.Email != "" {
		return token.Email
	}
	return token.Sub
}
