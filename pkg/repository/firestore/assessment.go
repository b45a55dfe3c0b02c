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

type assessmentDocument struct {
	ID                 string                 `firestore:"id"`
	FrameworkID        string                 `firestore:"framework_id"`
	Title              string                 `firestore:"title"`
	Status             string                 `firestore:"status"`
	Responses          map[string]interface{} `firestore:"responses"`
	ActiveModules      []string               `firestore:"active_modules"`
	RiskScore          *int                   `firestore:"risk_score"`
	RiskClassification string                 `firestore:"risk_classification"`
	EntityID           string                 `firestore:"entity_id"`
	LinkedSystemID     string                 `firestore:"linked_system_id"`
	LinkedPAID         string                 `firestore:"linked_pa_id"`
	ValidatedBy        string                 `firestore:"validated_by"`
	ValidatedAt        *time.Time             `firestore:"validated_at"`
	CompletedAt        *time.Time             `firestore:"completed_at"`
	Metadata           map[string]interface{} `firestore:"metadata"`
	SortOrder          int                    `firestore:"sort_order"`
	CreatedBy          string                 `firestore:"created_by"`
	CreatedAt          time.Time              `firestore:"created_at"`
	UpdatedAt          time.Time              `firestore:"updated_at"`
}

func toAssessmentDocument(a *model.Assessment) *assessmentDocument {
	modules := make([]string, len(a.ActiveModules))
	for i, m := range a.ActiveModules {
		modules[i] = m.String()
	}
	return &assessmentDocument{
		ID:                 a.ID,
		FrameworkID:        a.FrameworkID,
		Title:              a.Title,
		Status:             a.Status.Normalize().String(),
		Responses:          a.Responses.ToMap(),
		ActiveModules:      modules,
		RiskScore:          a.RiskScore,
		RiskClassification: string(a.RiskClassification),
		EntityID:           a.Links.EntityID,
		LinkedSystemID:     a.Links.SystemID,
		LinkedPAID:         a.Links.ProcessingActivityID,
		ValidatedBy:        a.ValidatedBy,
		ValidatedAt:        a.ValidatedAt,
		CompletedAt:        a.CompletedAt,
		Metadata:           a.Metadata,
		SortOrder:          a.SortOrder,
		CreatedBy:          a.CreatedBy,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

func (d *assessmentDocument) toModel() (*model.Assessment, error) {
	responses, err := model.ResponsesFromMap(d.Responses)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid stored assessment", goerr.V("id", d.ID))
	}
	modules := make([]types.ModuleID, len(d.ActiveModules))
	for i, m := range d.ActiveModules {
		modules[i] = types.ModuleID(m)
	}
	metadata := d.Metadata
	if len(metadata) == 0 {
		metadata = nil
	}

	return &model.Assessment{
		ID:                 d.ID,
		FrameworkID:        d.FrameworkID,
		Title:              d.Title,
		Status:             types.AssessmentStatus(d.Status).Normalize(),
		Responses:          responses,
		ActiveModules:      modules,
		RiskScore:          d.RiskScore,
		RiskClassification: types.RiskClassification(d.RiskClassification),
		Links: model.AssessmentLinks{
			EntityID:             d.EntityID,
			SystemID:             d.LinkedSystemID,
			ProcessingActivityID: d.LinkedPAID,
		},
		ValidatedBy: d.ValidatedBy,
		ValidatedAt: d.ValidatedAt,
		CompletedAt: d.CompletedAt,
		Metadata:    metadata,
		SortOrder:   d.SortOrder,
		CreatedBy:   d.CreatedBy,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

type assessmentRepository struct {
	fs *Firestore
}

func (r *assessmentRepository) doc(id string) *firestore.DocumentRef {
	return r.fs.collection(CollectionAssessments).Doc(id)
}

func (r *assessmentRepository) Create(ctx context.Context, assessment *model.Assessment) (*model.Assessment, error) {
	created := assessment.Clone()
	if created.ID == "" {
		created.ID = model.NewAssessmentID()
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	if _, err := r.doc(created.ID).Create(ctx, toAssessmentDocument(created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create assessment", goerr.V("id", created.ID))
	}
	created.Status = created.Status.Normalize()
	return created, nil
}

func (r *assessmentRepository) Get(ctx context.Context, id string) (*model.Assessment, error) {
	snap, err := r.doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "assessment not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get assessment", goerr.V("id", id))
	}

	var d assessmentDocument
	if err := snap.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal assessment", goerr.V("id", id))
	}
	return d.toModel()
}

func (r *assessmentRepository) List(ctx context.Context, opts ...interfaces.ListAssessmentOption) ([]*model.Assessment, error) {
	cfg := interfaces.BuildListAssessmentConfig(opts...)

	q := r.fs.collection(CollectionAssessments).Query
	if statuses := cfg.Statuses(); len(statuses) > 0 {
		values := make([]interface{}, len(statuses))
		for i, s := range statuses {
			values[i] = s.String()
		}
		q = q.Where("status", "in", values)
	}
	iter := q.OrderBy("sort_order", firestore.Asc).OrderBy("created_at", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	var result []*model.Assessment
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate assessments")
		}

		var d assessmentDocument
		if err := snap.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal assessment", goerr.V("id", snap.Ref.ID))
		}
		a, err := d.toModel()
		if err != nil {
			return nil, err
		}
		if cfg.Match(a) {
			result = append(result, a)
		}
	}
	return result, nil
}

func (r *assessmentRepository) Update(ctx context.Context, assessment *model.Assessment) (*model.Assessment, error) {
	existing, err := r.Get(ctx, assessment.ID)
	if err != nil {
		return nil, err
	}

	updated := assessment.Clone()
	updated.Status = updated.Status.Normalize()
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	if _, err := r.doc(updated.ID).Set(ctx, toAssessmentDocument(updated)); err != nil {
		return nil, goerr.Wrap(err, "failed to update assessment", goerr.V("id", updated.ID))
	}
	return updated, nil
}

func (r *assessmentRepository) MarkValidated(ctx context.Context, id, validatedBy string, validatedAt time.Time) (*model.Assessment, error) {
	_, err := r.doc(id).Update(ctx, []firestore.Update{
		{Path: "status", Value: types.AssessmentStatusValidated.String()},
		{Path: "validated_by", Value: validatedBy},
		{Path: "validated_at", Value: validatedAt.UTC()},
		{Path: "updated_at", Value: time.Now().UTC()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "assessment not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to mark assessment validated", goerr.V("id", id))
	}
	return r.Get(ctx, id)
}
