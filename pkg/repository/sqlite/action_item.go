package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/interfaces"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/model"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/types"
)

type actionItemRepository struct {
	db *sql.DB
}

const actionItemColumns = `id, assessment_id, title, description, priority, status, due_date, completed_at, created_at, updated_at`

func scanActionItem(row rowScanner) (*model.ActionItem, error) {
	var (
		item                 model.ActionItem
		priority, status     string
		dueDate, completedAt sql.NullString
		createdAt, updatedAt string
	)
	if err := row.Scan(&item.ID, &item.AssessmentID, &item.Title, &item.Description, &priority, &status,
		&dueDate, &completedAt, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	item.Priority = types.Priority(priority)
	item.Status = types.ActionItemStatus(status)

	var err error
	if item.DueDate, err = parseNullTime(dueDate); err != nil {
		return nil, err
	}
	if item.CompletedAt, err = parseNullTime(completedAt); err != nil {
		return nil, err
	}
	if item.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if item.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *actionItemRepository) Create(ctx context.Context, item *model.ActionItem) (*model.ActionItem, error) {
	created := *item
	if created.ID == "" {
		created.ID = model.NewRecordID()
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO action_items (`+actionItemColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		created.ID, created.AssessmentID, created.Title, created.Description, created.Priority.String(), created.Status.String(),
		formatNullTime(created.DueDate), formatNullTime(created.CompletedAt), formatTime(now), formatTime(now))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create action item", goerr.V("id", created.ID))
	}
	return &created, nil
}

func (r *actionItemRepository) Get(ctx context.Context, id string) (*model.ActionItem, error) {
	item, err := scanActionItem(r.db.QueryRowContext(ctx, `SELECT `+actionItemColumns+` FROM action_items WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "action item not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get action item", goerr.V("id", id))
	}
	return item, nil
}

func (r *actionItemRepository) ListByAssessment(ctx context.Context, assessmentID string) ([]*model.ActionItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+actionItemColumns+` FROM action_items WHERE assessment_id = ? ORDER BY seq ASC`, assessmentID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list action items", goerr.V("assessment_id", assessmentID))
	}
	defer rows.Close()

	var result []*model.ActionItem
	for rows.Next() {
		item, err := scanActionItem(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan action item")
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate action items")
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

	_, err = r.db.ExecContext(ctx,
		`UPDATE action_items SET title = ?, description = ?, priority = ?, status = ?, due_date = ?, completed_at = ?, updated_at = ? WHERE id = ?`,
		updated.Title, updated.Description, updated.Priority.String(), updated.Status.String(),
		formatNullTime(updated.DueDate), formatNullTime(updated.CompletedAt), formatTime(updated.UpdatedAt), updated.ID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update action item", goerr.V("id", updated.ID))
	}
	return &updated, nil
}
