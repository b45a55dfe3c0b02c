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

type optionListRepository struct {
	db *sql.DB
}

const optionColumns = `id, question_id, label, display_order, created_at, updated_at`

func scanOption(row rowScanner) (*model.OptionListEntry, error) {
	var (
		e                    model.OptionListEntry
		createdAt, updatedAt string
	)
	if err := row.Scan(&e.ID, &e.QuestionID, &e.Label, &e.DisplayOrder, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	if e.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if e.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *optionListRepository) List(ctx context.Context, questionID string) ([]*model.OptionListEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+optionColumns+` FROM option_lists WHERE question_id = ? ORDER BY display_order ASC, created_at ASC`, questionID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list options", goerr.V("question_id", questionID))
	}
	defer rows.Close()

	var result []*model.OptionListEntry
	for rows.Next() {
		e, err := scanOption(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan option")
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate options")
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

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO option_lists (`+optionColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		created.ID, created.QuestionID, created.Label, created.DisplayOrder, formatTime(now), formatTime(now))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create option", goerr.V("id", created.ID))
	}
	return &created, nil
}

func (r *optionListRepository) Update(ctx context.Context, entry *model.OptionListEntry) (*model.OptionListEntry, error) {
	existing, err := scanOption(r.db.QueryRowContext(ctx, `SELECT `+optionColumns+` FROM option_lists WHERE id = ?`, entry.ID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "option not found", goerr.V("id", entry.ID))
		}
		return nil, goerr.Wrap(err, "failed to get option", goerr.V("id", entry.ID))
	}

	updated := *entry
	updated.QuestionID = existing.QuestionID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	_, err = r.db.ExecContext(ctx,
		`UPDATE option_lists SET label = ?, display_order = ?, updated_at = ? WHERE id = ?`,
		updated.Label, updated.DisplayOrder, formatTime(updated.UpdatedAt), updated.ID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update option", goerr.V("id", updated.ID))
	}
	return &updated, nil
}

func (r *optionListRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM option_lists WHERE id = ?`, id)
	if err != nil {
		return goerr.Wrap(err, "failed to delete option", goerr.V("id", id))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return goerr.Wrap(interfaces.ErrNotFound, "option not found", goerr.V("id", id))
	}
	return nil
}
