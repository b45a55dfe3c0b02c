package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/interfaces"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/model"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/types"
	"github.com/paulmccormack00/risk-assessments/pkg/utils/errutil"
	"github.com/paulmccormack00/risk-assessments/pkg/utils/logging"
)

// CreateActionItem adds a remediation task to a completed or validated
// assessment. Any number of action items may be created.
func (uc *AssessmentUseCase) CreateActionItem(ctx context.Context, assessmentID string, fields *model.ActionItem) (*model.ActionItem, error) {
	if fields.Title == "" {
		return nil, goerr.Wrap(ErrValidation, "action item title is required", goerr.V(AssessmentIDKey, assessmentID))
	}
	if fields.Priority != "" && !fields.Priority.IsValid() {
		return nil, goerr.Wrap(ErrValidation, "invalid priority", goerr.V("priority", fields.Priority))
	}

	if _, err := uc.fanOutSource(ctx, assessmentID, "create action item"); err != nil {
		return nil, err
	}

	item := *fields
	item.ID = ""
	item.AssessmentID = assessmentID
	item.Priority = item.Priority.Normalize()
	item.SetStatus(types.ActionItemStatusPending, uc.now())

	created, err := uc.repo.ActionItem().Create(ctx, &item)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create action item", goerr.V(AssessmentIDKey, assessmentID))
	}

	uc.appendLedger(ctx, assessmentID, types.LinkedRecordActionItem, created.ID, created.Title)
	return created, nil
}

// CreateSystemRecord adds an inventory entry for the assessed system. An
// assessment links to at most one system record.
func (uc *AssessmentUseCase) CreateSystemRecord(ctx context.Context, assessmentID string, fields *model.SystemRecord) (*model.SystemRecord, error) {
	if fields.Name == "" {
		return nil, goerr.Wrap(ErrValidation, "system name is required", goerr.V(AssessmentIDKey, assessmentID))
	}

	a, err := uc.fanOutSource(ctx, assessmentID, "create system record")
	if err != nil {
		return nil, err
	}
	if a.Links.SystemID != "" {
		return nil, goerr.Wrap(ErrAlreadyLinked, "assessment already has a system record",
			goerr.V(AssessmentIDKey, assessmentID),
			goerr.V("system_id", a.Links.SystemID))
	}

	record := *fields
	record.ID = ""
	record.AssessmentID = assessmentID
	created, err := uc.repo.System().Create(ctx, &record)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create system record", goerr.V(AssessmentIDKey, assessmentID))
	}

	a.Links.SystemID = created.ID
	if _, err := uc.update(ctx, a); err != nil {
		return nil, goerr.Wrap(err, "system record created but not linked",
			goerr.V(AssessmentIDKey, assessmentID),
			goerr.V("system_id", created.ID))
	}

	uc.appendLedger(ctx, assessmentID, types.LinkedRecordSystem, created.ID, created.Name)
	return created, nil
}

// CreateProcessingActivity adds a record-of-processing entry. An assessment
// links to at most one processing activity.
func (uc *AssessmentUseCase) CreateProcessingActivity(ctx context.Context, assessmentID string, fields *model.ProcessingActivity) (*model.ProcessingActivity, error) {
	if fields.Activity == "" {
		return nil, goerr.Wrap(ErrValidation, "processing activity name is required", goerr.V(AssessmentIDKey, assessmentID))
	}

	a, err := uc.fanOutSource(ctx, assessmentID, "create processing activity")
	if err != nil {
		return nil, err
	}
	if a.Links.ProcessingActivityID != "" {
		return nil, goerr.Wrap(ErrAlreadyLinked, "assessment already has a processing activity",
			goerr.V(AssessmentIDKey, assessmentID),
			goerr.V("processing_activity_id", a.Links.ProcessingActivityID))
	}

	record := *fields
	record.ID = ""
	record.AssessmentID = assessmentID
	created, err := uc.repo.ProcessingActivity().Create(ctx, &record)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create processing activity", goerr.V(AssessmentIDKey, assessmentID))
	}

	a.Links.ProcessingActivityID = created.ID
	if _, err := uc.update(ctx, a); err != nil {
		return nil, goerr.Wrap(err, "processing activity created but not linked",
			goerr.V(AssessmentIDKey, assessmentID),
			goerr.V("processing_activity_id", created.ID))
	}

	uc.appendLedger(ctx, assessmentID, types.LinkedRecordProcessingActivity, created.ID, created.Activity)
	return created, nil
}

// ListLinkedRecords returns the ledger of an assessment in creation order
func (uc *AssessmentUseCase) ListLinkedRecords(ctx context.Context, assessmentID string) ([]*model.LinkedRecord, error) {
	if _, err := uc.GetAssessment(ctx, assessmentID); err != nil {
		return nil, err
	}
	records, err := uc.repo.LinkedRecord().List(ctx, assessmentID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list linked records", goerr.V(AssessmentIDKey, assessmentID))
	}
	return records, nil
}

// ListActionItems returns the action items created from an assessment
func (uc *AssessmentUseCase) ListActionItems(ctx context.Context, assessmentID string) ([]*model.ActionItem, error) {
	items, err := uc.repo.ActionItem().ListByAssessment(ctx, assessmentID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list action items", goerr.V(AssessmentIDKey, assessmentID))
	}
	return items, nil
}

// UpdateActionItemStatus toggles an action item between pending and completed
func (uc *AssessmentUseCase) UpdateActionItemStatus(ctx context.Context, id string, status types.ActionItemStatus) (*model.ActionItem, error) {
	if !status.IsValid() {
		return nil, goerr.Wrap(ErrValidation, "invalid action item status", goerr.V(StatusKey, status))
	}

	item, err := uc.repo.ActionItem().Get(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrActionItemNotFound, "action item not found", goerr.V(ActionItemIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get action item", goerr.V(ActionItemIDKey, id))
	}
	if item.Status == status {
		return item, nil
	}

	item.SetStatus(status, uc.now())
	updated, err := uc.repo.ActionItem().Update(ctx, item)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update action item", goerr.V(ActionItemIDKey, id))
	}
	return updated, nil
}

// SuggestSystemRecord prefills system record fields from the answers
func (uc *AssessmentUseCase) SuggestSystemRecord(ctx context.Context, assessmentID string) (*model.SystemRecord, error) {
	a, err := uc.GetAssessment(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	return model.SuggestSystemRecord(a), nil
}

// SuggestProcessingActivity prefills processing activity fields from the answers
func (uc *AssessmentUseCase) SuggestProcessingActivity(ctx context.Context, assessmentID string) (*model.ProcessingActivity, error) {
	a, err := uc.GetAssessment(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	return model.SuggestProcessingActivity(a), nil
}

// fanOutSource loads an assessment that linked records may be created from
func (uc *AssessmentUseCase) fanOutSource(ctx context.Context, assessmentID, action string) (*model.Assessment, error) {
	a, err := uc.GetAssessment(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	switch a.Status {
	case types.AssessmentStatusCompleted, types.AssessmentStatusValidated:
		return a, nil
	default:
		return nil, invalidTransition(a, action)
	}
}

// appendLedger records provenance of a created record. The record itself is
// already stored, so a failure here is reported but not returned.
func (uc *AssessmentUseCase) appendLedger(ctx context.Context, assessmentID string, recordType types.LinkedRecordType, recordID, title string) {
	entry := &model.LinkedRecord{
		AssessmentID: assessmentID,
		Type:         recordType,
		RecordID:     recordID,
		Title:        title,
		CreatedAt:    uc.now(),
	}
	if err := uc.repo.LinkedRecord().Append(ctx, entry); err != nil {
		errutil.Handle(ctx, goerr.Wrap(err, "failed to append ledger entry",
			goerr.V(AssessmentIDKey, assessmentID),
			goerr.V("record_type", recordType),
			goerr.V("record_id", recordID)), "linked record created without ledger entry")
		return
	}

	logging.From(ctx).Info("linked record created",
		"assessment_id", assessmentID,
		"record_type", recordType,
		"record_id", recordID)
}
