package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/interfaces"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/model"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type actionItemDocument struct {
	ID           string     `firestore:"id"`
	AssessmentID string     `firestore:"assessment_id"`
	Title        string     `firestore:"title"`
	Description  string     `firestore:"description"`
	Priority     string     `firestore:"priority"`
	Status       string     `firestore:"status"`
	DueDate      *time.Time `firestore:"due_date"`
	CompletedAt  *time.Time `firestore:"completed_at"`
	CreatedAt    time.Time  `firestore:"created_at"`
	UpdatedAt    time.Time  `firestore:"updated_at"`
}

func toActionItemDocument(item *model.ActionItem) *actionItemDocument {
	return &actionItemDocument{
		ID:           item.ID,
		AssessmentID: item.AssessmentID,
		Title:        item.Title,
		Description:  item.Description,
		Priority:     item.Priority.String(),
		Status:       item.Status.String(),
		DueDate:      item.DueDate,
		CompletedAt:  item.CompletedAt,
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
}

func (d *actionItemDocument) toModel() *model.ActionItem {
	return &model.ActionItem{
		ID:           d.ID,
		AssessmentID: d.AssessmentID,
		Title:        d.Title,
		Description:  d.Description,
		Priority:     types.Priority(d.Priority),
		Status:       types.ActionItemStatus(d.Status),
		DueDate:      d.DueDate,
		CompletedAt:  d.CompletedAt,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type actionItemRepository struct {
	fs *Firestore
}

func (r *actionItemRepository) doc(id string) *firestore.DocumentRef {
	return r.fs.collection(CollectionActionItems).Doc(id)
}

func (r *actionItemRepository) Create(ctx context.Context, item *model.ActionItem) (*model.ActionItem, error) {
	created := *item
	if created.ID == "" {
		created.ID = model.NewRecordID()
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	if _, err := r.doc(created.ID).Create(ctx, toActionItemDocument(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create action item", goerr.V("id", created.ID))
	}
	return &created, nil
}

func (r *actionItemRepository) Get(ctx context.Context, id string) (*model.ActionItem, error) {
	snap, err := r.doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "action item not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get action item", goerr.V("id", id))
	}

	var d actionItemDocument
	if err := snap.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal action item", goerr.V("id", id))
	}
	return d.toModel(), nil
}

func (r *actionItemRepository) ListByAssessment(ctx context.Context, assessmentID string) ([]*model.ActionItem, error) {
	iter := r.fs.collection(CollectionActionItems).
		Where("assessment_id", "==", assessmentID).
		OrderBy("created_at", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var result []*model.ActionItem
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate action items", goerr.V("assessment_id", assessmentID))
		}

		var d actionItemDocument
		if err := snap.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal action item", goerr.V("id", snap.Ref.ID))
		}
		result = append(result, d.toModel())
	}
	return result, nil
}

func (r *actionItemRepository) Update(ctx context.Context, item *model.ActionItem) (*model.ActionItem, error) {
	existing, err := r.Get(ctx, item.ID)
	if err != nil {
		return nil, err
	}

	updated := *item
	updated.AssessmentID = existing.AssessmentID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if _, err := r.doc(updated.ID).Set(ctx, toActionItemDocument(&updated)); err != nil {
		return nil, goerr.Wrap(err, "failed to update action item", goerr.V("id", updated.ID))
	}
	return &updated, nil
}
