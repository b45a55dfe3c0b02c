package interfaces

import (
	"context"

	"github.com/paulmccormack00/risk-assessments/pkg/domain/model"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/types"
)

// FrameworkRepository stores questionnaire definitions
type FrameworkRepository interface {
	// Put creates or replaces a framework
	Put(ctx context.Context, framework *model.Framework) error

	Get(ctx context.Context, id string) (*model.Framework, error)
	GetBySlug(ctx context.Context, slug types.FrameworkSlug) (*model.Framework, error)

	// List returns frameworks ordered by name
	List(ctx context.Context) ([]*model.Framework, error)
}

// OptionListRepository stores editable answer options for list-sourced questions
type OptionListRepository interface {
	// List returns a question's options in display order
	List(ctx context.Context, questionID string) ([]*model.OptionListEntry, error)

	Create(ctx context.Context, entry *model.OptionListEntry) (*model.OptionListEntry, error)
	Update(ctx context.Context, entry *model.OptionListEntry) (*model.OptionListEntry, error)
	Delete(ctx context.Context, id string) error
}
