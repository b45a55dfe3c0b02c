package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/interfaces"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/model"
)

type systemRepository struct {
	db *sql.DB
}

func (r *systemRepository) Create(ctx context.Context, system *model.SystemRecord) (*model.SystemRecord, error) {
	created := *system
	if created.ID == "" {
		created.ID = model.NewRecordID()
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	dataTypes, err := encodeJSON(nonNil(created.DataTypes))
	if err != nil {
		return nil, err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO systems (id, assessment_id, name, description, vendor, personal_data, data_types, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		created.ID, created.AssessmentID, created.Name, created.Description, created.Vendor,
		boolToInt(created.PersonalData), dataTypes, formatTime(now), formatTime(now))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create system", goerr.V("id", created.ID))
	}
	return &created, nil
}

func (r *systemRepository) Get(ctx context.Context, id string) (*model.SystemRecord, error) {
	var (
		s                    model.SystemRecord
		personalData         int
		dataTypes            string
		createdAt, updatedAt string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, assessment_id, name, description, vendor, personal_data, data_types, created_at, updated_at
		 FROM systems WHERE id = ?`, id).
		Scan(&s.ID, &s.AssessmentID, &s.Name, &s.Description, &s.Vendor, &personalData, &dataTypes, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "system not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get system", goerr.V("id", id))
	}

	s.PersonalData = personalData != 0
	if err := decodeJSON(dataTypes, &s.DataTypes); err != nil {
		return nil, err
	}
	if s.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if s.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

type processingActivityRepository struct {
	db *sql.DB
}

func (r *processingActivityRepository) Create(ctx context.Context, activity *model.ProcessingActivity) (*model.ProcessingActivity, error) {
	created := *activity
	if created.ID == "" {
		created.ID = model.NewRecordID()
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	legalBasis, err := encodeJSON(nonNil(created.LegalBasis))
	if err != nil {
		return nil, err
	}
	categories, err := encodeJSON(nonNil(created.DataCategories))
	if err != nil {
		return nil, err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO processing_activities (id, assessment_id, activity, purpose, legal_basis, data_categories, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		created.ID, created.AssessmentID, created.Activity, created.Purpose, legalBasis, categories, formatTime(now), formatTime(now))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create processing activity", goerr.V("id", created.ID))
	}
	return &created, nil
}

func (r *processingActivityRepository) Get(ctx context.Context, id string) (*model.ProcessingActivity, error) {
	var (
		pa                     model.ProcessingActivity
		legalBasis, categories string
		createdAt, updatedAt   string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, assessment_id, activity, purpose, legal_basis, data_categories, created_at, updated_at
		 FROM processing_activities WHERE id = ?`, id).
		Scan(&pa.ID, &pa.AssessmentID, &pa.Activity, &pa.Purpose, &legalBasis, &categories, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "processing activity not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get processing activity", goerr.V("id", id))
	}

	if err := decodeJSON(legalBasis, &pa.LegalBasis); err != nil {
		return nil, err
	}
	if err := decodeJSON(categories, &pa.DataCategories); err != nil {
		return nil, err
	}
	if pa.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if pa.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &pa, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
