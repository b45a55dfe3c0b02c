package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/interfaces"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/model"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/types"
	"github.com/paulmccormack00/risk-assessments/pkg/utils/logging"
)

type FrameworkUseCase struct {
	repo interfaces.Repository
}

func (uc *FrameworkUseCase) ListFrameworks(ctx context.Context) ([]*model.Framework, error) {
	list, err := uc.repo.Framework().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list frameworks")
	}
	return list, nil
}

func (uc *FrameworkUseCase) GetFramework(ctx context.Context, id string) (*model.Framework, error) {
	fw, err := uc.repo.Framework().Get(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrFrameworkNotFound, "framework not found", goerr.V(FrameworkIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get framework", goerr.V(FrameworkIDKey, id))
	}
	return fw, nil
}

func (uc *FrameworkUseCase) GetFrameworkBySlug(ctx context.Context, slug types.FrameworkSlug) (*model.Framework, error) {
	fw, err := uc.repo.Framework().GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrFrameworkNotFound, "framework not found", goerr.V("slug", slug))
		}
		return nil, goerr.Wrap(err, "failed to get framework", goerr.V("slug", slug))
	}
	return fw, nil
}

// ImportFramework validates and stores a framework. A framework with the same
// slug is replaced and keeps its ID, so assessments referring to it stay valid.
func (uc *FrameworkUseCase) ImportFramework(ctx context.Context, fw *model.Framework) (*model.Framework, error) {
	if err := fw.Validate(); err != nil {
		return nil, goerr.Wrap(errors.Join(ErrValidation, err), "invalid framework", goerr.V("slug", fw.Slug))
	}

	existing, err := uc.repo.Framework().GetBySlug(ctx, fw.Slug)
	switch {
	case err == nil:
		fw.ID = existing.ID
		fw.CreatedAt = existing.CreatedAt
	case errors.Is(err, interfaces.ErrNotFound):
	default:
		return nil, goerr.Wrap(err, "failed to get framework", goerr.V("slug", fw.Slug))
	}

	if err := uc.repo.Framework().Put(ctx, fw); err != nil {
		return nil, goerr.Wrap(err, "failed to store framework", goerr.V("slug", fw.Slug))
	}

	logging.From(ctx).Info("framework imported",
		"framework_id", fw.ID,
		"slug", fw.Slug,
		"sections", len(fw.Sections))
	return fw, nil
}

// DeriveStandalone stores a single-purpose framework built from the sections
// and questions of a unified framework that target outputs
func (uc *FrameworkUseCase) DeriveStandalone(ctx context.Context, unified types.FrameworkSlug, slug types.FrameworkSlug, name, description string, outputs []string) (*model.Framework, error) {
	if len(outputs) == 0 {
		return nil, goerr.Wrap(ErrValidation, "at least one output is required", goerr.V("slug", slug))
	}

	source, err := uc.GetFrameworkBySlug(ctx, unified)
	if err != nil {
		return nil, err
	}

	derived := source.DeriveStandalone(slug, name, description, outputs)
	if len(derived.Sections) == 0 {
		return nil, goerr.Wrap(ErrValidation, "no section targets the requested outputs",
			goerr.V("slug", slug),
			goerr.V("outputs", outputs))
	}
	return uc.ImportFramework(ctx, derived)
}

// GetOptionList returns the editable options of a list-sourced question
func (uc *FrameworkUseCase) GetOptionList(ctx context.Context, questionID string) ([]*model.OptionListEntry, error) {
	list, err := uc.repo.OptionList().List(ctx, questionID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list options", goerr.V(model.QuestionIDKey, questionID))
	}
	return list, nil
}

// AddOption appends an option after the existing ones
func (uc *FrameworkUseCase) AddOption(ctx context.Context, questionID, label string) (*model.OptionListEntry, error) {
	if questionID == "" || label == "" {
		return nil, goerr.Wrap(ErrValidation, "question ID and label are required")
	}

	existing, err := uc.GetOptionList(ctx, questionID)
	if err != nil {
		return nil, err
	}
	next := 1
	for _, e := range existing {
		if e.Label == label {
			return nil, goerr.Wrap(ErrValidation, "option already exists",
				goerr.V(model.QuestionIDKey, questionID),
				goerr.V("label", label))
		}
		if e.DisplayOrder >= next {
			next = e.DisplayOrder + 1
		}
	}

	created, err := uc.repo.OptionList().Create(ctx, &model.OptionListEntry{
		QuestionID:   questionID,
		Label:        label,
		DisplayOrder: next,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create option", goerr.V(model.QuestionIDKey, questionID))
	}
	return created, nil
}

// UpdateOption changes an option's label and position
func (uc *FrameworkUseCase) UpdateOption(ctx context.Context, entry *model.OptionListEntry) (*model.OptionListEntry, error) {
	if entry.Label == "" {
		return nil, goerr.Wrap(ErrValidation, "option label is required", goerr.V("id", entry.ID))
	}

	updated, err := uc.repo.OptionList().Update(ctx, entry)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrOptionNotFound, "option not found", goerr.V("id", entry.ID))
		}
		return nil, goerr.Wrap(err, "failed to update option", goerr.V("id", entry.ID))
	}
	return updated, nil
}

func (uc *FrameworkUseCase) DeleteOption(ctx context.Context, id string) error {
	if err := uc.repo.OptionList().Delete(ctx, id); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return goerr.Wrap(ErrOptionNotFound, "option not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to delete option", goerr.V("id", id))
	}
	return nil
}
