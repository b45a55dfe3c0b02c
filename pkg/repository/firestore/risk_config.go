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

const thresholdsDocID = "thresholds"

type riskFactorDocument struct {
	ID             string    `firestore:"id"`
	QuestionID     string    `firestore:"question_id"`
	Label          string    `firestore:"label"`
	Points         int       `firestore:"points"`
	Severity       string    `firestore:"severity"`
	ConditionKind  string    `firestore:"condition_kind"`
	ConditionValue string    `firestore:"condition_value"`
	Reason         string    `firestore:"reason"`
	DisplayOrder   int       `firestore:"display_order"`
	IsActive       bool      `firestore:"is_active"`
	UpdatedAt      time.Time `firestore:"updated_at"`
}

func (d *riskFactorDocument) toModel() *model.RiskFactor {
	return &model.RiskFactor{
		ID:         types.FactorID(d.ID),
		QuestionID: d.QuestionID,
		Label:      d.Label,
		Points:     d.Points,
		Severity:   types.Severity(d.Severity),
		Condition: model.Condition{
			Kind:  types.ConditionKind(d.ConditionKind),
			Value: d.ConditionValue,
		},
		Reason:       d.Reason,
		DisplayOrder: d.DisplayOrder,
		IsActive:     d.IsActive,
		UpdatedAt:    d.UpdatedAt,
	}
}

type thresholdsDocument struct {
	High      int       `firestore:"high"`
	Medium    int       `firestore:"medium"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

type riskConfigRepository struct {
	fs *Firestore
}

func (r *riskConfigRepository) ListFactors(ctx context.Context) ([]*model.RiskFactor, error) {
	iter := r.fs.collection(CollectionRiskFactors).OrderBy("display_order", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	result := []*model.RiskFactor{}
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate risk factors")
		}

		var d riskFactorDocument
		if err := snap.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal risk factor", goerr.V("id", snap.Ref.ID))
		}
		result = append(result, d.toModel())
	}
	return result, nil
}

func (r *riskConfigRepository) GetFactor(ctx context.Context, id types.FactorID) (*model.RiskFactor, error) {
	snap, err := r.fs.collection(CollectionRiskFactors).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "risk factor not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get risk factor", goerr.V("id", id))
	}

	var d riskFactorDocument
	if err := snap.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal risk factor", goerr.V("id", id))
	}
	return d.toModel(), nil
}

func (r *riskConfigRepository) PutFactor(ctx context.Context, factor *model.RiskFactor) error {
	doc := &riskFactorDocument{
		ID:             factor.ID.String(),
		QuestionID:     factor.QuestionID,
		Label:          factor.Label,
		Points:         factor.Points,
		Severity:       factor.Severity.String(),
		ConditionKind:  factor.Condition.Kind.String(),
		ConditionValue: factor.Condition.Value,
		Reason:         factor.Reason,
		DisplayOrder:   factor.DisplayOrder,
		IsActive:       factor.IsActive,
		UpdatedAt:      time.Now().UTC(),
	}
	if _, err := r.fs.collection(CollectionRiskFactors).Doc(doc.ID).Set(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to put risk factor", goerr.V("id", factor.ID))
	}
	return nil
}

func (r *riskConfigRepository) GetThresholds(ctx context.Context) (*model.RiskThresholds, error) {
	snap, err := r.fs.collection(CollectionRiskConfig).Doc(thresholdsDocID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "risk thresholds not configured")
		}
		return nil, goerr.Wrap(err, "failed to get risk thresholds")
	}

	var d thresholdsDocument
	if err := snap.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal risk thresholds")
	}
	return &model.RiskThresholds{High: d.High, Medium: d.Medium, UpdatedAt: d.UpdatedAt}, nil
}

func (r *riskConfigRepository) PutThresholds(ctx context.Context, thresholds *model.RiskThresholds) error {
	doc := &thresholdsDocument{
		High:      thresholds.High,
		Medium:    thresholds.Medium,
		UpdatedAt: time.Now().UTC(),
	}
	if _, err := r.fs.collection(CollectionRiskConfig).Doc(thresholdsDocID).Set(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to put risk thresholds")
	}
	return nil
}
