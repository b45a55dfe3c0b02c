package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/interfaces"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type optionDocument struct {
	ID           string    `firestore:"id"`
	QuestionID   string    `firestore:"question_id"`
	Label        string    `firestore:"label"`
	DisplayOrder int       `firestore:"display_order"`
	CreatedAt    time.Time `firestore:"created_at"`
	UpdatedAt    time.Time `firestore:"updated_at"`
}

func (d *optionDocument) toModel() *model.OptionListEntry {
	return &model.OptionListEntry{
		ID:           d.ID,
		QuestionID:   d.QuestionID,
		Label:        d.Label,
		DisplayOrder: d.DisplayOrder,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type optionListRepository struct {
	fs *Firestore
}

func (r *optionListRepository) doc(id string) *firestore.DocumentRef {
	return r.fs.collection(CollectionOptionLists).Doc(id)
}

func (r *optionListRepository) List(ctx context.Context, questionID string) ([]*model.OptionListEntry, error) {
	iter := r.fs.collection(CollectionOptionLists).
		Where("question_id", "==", questionID).
		OrderBy("display_order", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var result []*model.OptionListEntry
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate options", goerr.V("question_id", questionID))
		}

		var d optionDocument
		if err := snap.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal option", goerr.V("id", snap.Ref.ID))
		}
		result = append(result, d.toModel())
	}
	return result, nil
}

func (r *optionListRepository) Create(ctx context.Context, entry *model.OptionListEntry) (*model.OptionListEntry, error) {
	created := *entry
	if created.ID == "" {
		created.ID = model.NewOptionID()
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	doc := &optionDocument{
		ID:           created.ID,
		QuestionID:   created.QuestionID,
		Label:        created.Label,
		DisplayOrder: created.DisplayOrder,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := r.doc(created.ID).Create(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create option", goerr.V("id", created.ID))
	}
	return &created, nil
}

func (r *optionListRepository) Update(ctx context.Context, entry *model.OptionListEntry) (*model.OptionListEntry, error) {
	snap, err := r.doc(entry.ID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "option not found", goerr.V("id", entry.ID))
		}
		return nil, goerr.Wrap(err, "failed to get option", goerr.V("id", entry.ID))
	}
	var existing optionDocument
	if err := snap.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal option", goerr.V("id", entry.ID))
	}

	existing.Label = entry.Label
	existing.DisplayOrder = entry.DisplayOrder
	existing.UpdatedAt = time.Now().UTC()
	if _, err := r.doc(entry.ID).Set(ctx, &existing); err != nil {
		return nil, goerr.Wrap(err, "failed to update option", goerr.V("id", entry.ID))
	}
	return existing.toModel(), nil
}

func (r *optionListRepository) Delete(ctx context.Context, id string) error {
	ref := r.doc(id)
	if _, err := ref.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(interfaces.ErrNotFound, "option not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get option", goerr.V("id", id))
	}
	if _, err := ref.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete option", goerr.V("id", id))
	}
	return nil
}
