package firestore

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/interfaces"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/model"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type systemDocument struct {
	ID           string    `firestore:"id"`
	AssessmentID string    `firestore:"assessment_id"`
	Name         string    `firestore:"name"`
	Description  string    `firestore:"description"`
	Vendor       string    `firestore:"vendor"`
	PersonalData bool      `firestore:"personal_data"`
	DataTypes    []string  `firestore:"data_types"`
	CreatedAt    time.Time `firestore:"created_at"`
	UpdatedAt    time.Time `firestore:"updated_at"`
}

type systemRepository struct {
	fs *Firestore
}

func (r *systemRepository) Create(ctx context.Context, system *model.SystemRecord) (*model.SystemRecord, error) {
	created := *system
	if created.ID == "" {
		created.ID = model.NewRecordID()
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	doc := &systemDocument{
		ID:           created.ID,
		AssessmentID: created.AssessmentID,
		Name:         created.Name,
		Description:  created.Description,
		Vendor:       created.Vendor,
		PersonalData: created.PersonalData,
		DataTypes:    created.DataTypes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := r.fs.collection(CollectionSystems).Doc(created.ID).Create(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create system", goerr.V("id", created.ID))
	}
	return &created, nil
}

func (r *systemRepository) Get(ctx context.Context, id string) (*model.SystemRecord, error) {
	snap, err := r.fs.collection(CollectionSystems).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "system not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get system", goerr.V("id", id))
	}

	var d systemDocument
	if err := snap.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal system", goerr.V("id", id))
	}
	return &model.SystemRecord{
		ID:           d.ID,
		AssessmentID: d.AssessmentID,
		Name:         d.Name,
		Description:  d.Description,
		Vendor:       d.Vendor,
		PersonalData: d.PersonalData,
		DataTypes:    d.DataTypes,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}, nil
}

type processingActivityDocument struct {
	ID             string    `firestore:"id"`
	AssessmentID   string    `firestore:"assessment_id"`
	Activity       string    `firestore:"activity"`
	Purpose        string    `firestore:"purpose"`
	LegalBasis     []string  `firestore:"legal_basis"`
	DataCategories []string  `firestore:"data_categories"`
	CreatedAt      time.Time `firestore:"created_at"`
	UpdatedAt      time.Time `firestore:"updated_at"`
}

type processingActivityRepository struct {
	fs *Firestore
}

func (r *processingActivityRepository) Create(ctx context.Context, activity *model.ProcessingActivity) (*model.ProcessingActivity, error) {
	created := *activity
	if created.ID == "" {
		created.ID = model.NewRecordID()
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	doc := &processingActivityDocument{
		ID:             created.ID,
		AssessmentID:   created.AssessmentID,
		Activity:       created.Activity,
		Purpose:        created.Purpose,
		LegalBasis:     created.LegalBasis,
		DataCategories: created.DataCategories,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := r.fs.collection(CollectionProcessingActivities).Doc(created.ID).Create(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create processing activity", goerr.V("id", created.ID))
	}
	return &created, nil
}

func (r *processingActivityRepository) Get(ctx context.Context, id string) (*model.ProcessingActivity, error) {
	snap, err := r.fs.collection(CollectionProcessingActivities).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "processing activity not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get processing activity", goerr.V("id", id))
	}

	var d processingActivityDocument
	if err := snap.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal processing activity", goerr.V("id", id))
	}
	return &model.ProcessingActivity{
		ID:             d.ID,
		AssessmentID:   d.AssessmentID,
		Activity:       d.Activity,
		Purpose:        d.Purpose,
		LegalBasis:     d.LegalBasis,
		DataCategories: d.DataCategories,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}, nil
}
