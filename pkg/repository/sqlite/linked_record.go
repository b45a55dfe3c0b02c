package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/model"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/types"
)

type linkedRecordRepository struct {
	db *sql.DB
}

func (r *linkedRecordRepository) Append(ctx context.Context, record *model.LinkedRecord) error {
	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO assessment_linked_records (assessment_id, record_type, record_id, title, created_at) VALUES (?, ?, ?, ?, ?)`,
		record.AssessmentID, record.Type.String(), record.RecordID, record.Title, formatTime(createdAt))
	if err != nil {
		return goerr.Wrap(err, "failed to append linked record",
			goerr.V("assessment_id", record.AssessmentID),
			goerr.V("record_id", record.RecordID))
	}
	return nil
}

func (r *linkedRecordRepository) List(ctx context.Context, assessmentID string) ([]*model.LinkedRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT assessment_id, record_type, record_id, title, created_at
		 FROM assessment_linked_records WHERE assessment_id = ? ORDER BY seq ASC`, assessmentID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list linked records", goerr.V("assessment_id", assessmentID))
	}
	defer rows.Close()

	result := []*model.LinkedRecord{}
	for rows.Next() {
		var (
			rec                 model.LinkedRecord
			recordType, created string
		)
		if err := rows.Scan(&rec.AssessmentID, &recordType, &rec.RecordID, &rec.Title, &created); err != nil {
			return nil, goerr.Wrap(err, "failed to scan linked record")
		}
		rec.Type = types.LinkedRecordType(recordType)
		if rec.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		result = append(result, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate linked records")
	}
	return result, nil
}
