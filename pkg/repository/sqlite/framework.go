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

type frameworkRepository struct {
	db *sql.DB
}

// The framework tree is stored as one JSON document; only lookup keys get columns

func scanFramework(row rowScanner) (*model.Framework, error) {
	var document, createdAt, updatedAt string
	if err := row.Scan(&document, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var fw model.Framework
	if err := decodeJSON(document, &fw); err != nil {
		return nil, err
	}
	var err error
	if fw.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if fw.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &fw, nil
}

func (r *frameworkRepository) Put(ctx context.Context, framework *model.Framework) error {
	if framework.ID == "" {
		framework.ID = model.NewFrameworkID()
	}
	document, err := encodeJSON(framework)
	if err != nil {
		return goerr.Wrap(err, "failed to encode framework", goerr.V("id", framework.ID))
	}

	now := formatTime(time.Now())
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO frameworks (id, slug, name, document, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET slug = excluded.slug, name = excluded.name,
		   document = excluded.document, updated_at = excluded.updated_at`,
		framework.ID, framework.Slug.String(), framework.Name, document, now, now)
	if err != nil {
		return goerr.Wrap(err, "failed to put framework", goerr.V("id", framework.ID), goerr.V("slug", framework.Slug))
	}
	return nil
}

func (r *frameworkRepository) Get(ctx context.Context, id string) (*model.Framework, error) {
	fw, err := scanFramework(r.db.QueryRowContext(ctx,
		`SELECT document, created_at, updated_at FROM frameworks WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "framework not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get framework", goerr.V("id", id))
	}
	return fw, nil
}

func (r *frameworkRepository) GetBySlug(ctx context.Context, slug types.FrameworkSlug) (*model.Framework, error) {
	fw, err := scanFramework(r.db.QueryRowContext(ctx,
		`SELECT document, created_at, updated_at FROM frameworks WHERE slug = ?`, slug.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "framework not found", goerr.V("slug", slug))
		}
		return nil, goerr.Wrap(err, "failed to get framework", goerr.V("slug", slug))
	}
	return fw, nil
}

func (r *frameworkRepository) List(ctx context.Context) ([]*model.Framework, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT document, created_at, updated_at FROM frameworks ORDER BY name ASC`)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list frameworks")
	}
	defer rows.Close()

	var result []*model.Framework
	for rows.Next() {
		fw, err := scanFramework(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan framework")
		}
		result = append(result, fw)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate frameworks")
	}
	return result, nil
}
