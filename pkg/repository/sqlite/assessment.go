package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/interfaces"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/model"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/types"
)

type assessmentRepository struct {
	db                *sql.DB
	validationColumns bool
}

const assessmentBaseColumns = `id, framework_id, title, status, responses, active_modules,
	risk_score, risk_classification, entity_id, linked_system_id, linked_pa_id,
	completed_at, metadata, sort_order, created_by, created_at, updated_at`

func (r *assessmentRepository) columns() string {
	if r.validationColumns {
		return assessmentBaseColumns + `, validated_by, validated_at`
	}
	return assessmentBaseColumns
}

func (r *assessmentRepository) scan(row rowScanner) (*model.Assessment, error) {
	var (
		a                            model.Assessment
		status, classification       string
		responses, modules, metadata string
		riskScore                    sql.NullInt64
		completedAt, validatedAt     sql.NullString
		createdAt, updatedAt         string
		validatedBy                  string
	)

	dest := []any{
		&a.ID, &a.FrameworkID, &a.Title, &status, &responses, &modules,
		&riskScore, &classification, &a.Links.EntityID, &a.Links.SystemID, &a.Links.ProcessingActivityID,
		&completedAt, &metadata, &a.SortOrder, &a.CreatedBy, &createdAt, &updatedAt,
	}
	if r.validationColumns {
		dest = append(dest, &validatedBy, &validatedAt)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	a.Status = types.AssessmentStatus(status).Normalize()
	a.RiskClassification = types.RiskClassification(classification)
	if riskScore.Valid {
		score := int(riskScore.Int64)
		a.RiskScore = &score
	}
	a.ValidatedBy = validatedBy

	if err := decodeJSON(responses, &a.Responses); err != nil {
		return nil, goerr.Wrap(err, "invalid responses column", goerr.V("id", a.ID))
	}
	if a.Responses == nil {
		a.Responses = model.Responses{}
	}
	if err := decodeJSON(modules, &a.ActiveModules); err != nil {
		return nil, goerr.Wrap(err, "invalid active_modules column", goerr.V("id", a.ID))
	}
	if err := decodeJSON(metadata, &a.Metadata); err != nil {
		return nil, goerr.Wrap(err, "invalid metadata column", goerr.V("id", a.ID))
	}
	if len(a.Metadata) == 0 {
		a.Metadata = nil
	}

	var err error
	if a.CompletedAt, err = parseNullTime(completedAt); err != nil {
		return nil, err
	}
	if a.ValidatedAt, err = parseNullTime(validatedAt); err != nil {
		return nil, err
	}
	if a.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if a.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

type assessmentColumns struct {
	responses, modules, metadata string
	riskScore                    sql.NullInt64
}

func encodeAssessment(a *model.Assessment) (*assessmentColumns, error) {
	responses := a.Responses
	if responses == nil {
		responses = model.Responses{}
	}
	modules := a.ActiveModules
	if modules == nil {
		modules = []types.ModuleID{}
	}
	metadata := a.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	var c assessmentColumns
	var err error
	if c.responses, err = encodeJSON(responses); err != nil {
		return nil, goerr.Wrap(err, "failed to encode responses", goerr.V("id", a.ID))
	}
	if c.modules, err = encodeJSON(modules); err != nil {
		return nil, goerr.Wrap(err, "failed to encode modules", goerr.V("id", a.ID))
	}
	if c.metadata, err = encodeJSON(metadata); err != nil {
		return nil, goerr.Wrap(err, "failed to encode metadata", goerr.V("id", a.ID))
	}
	if a.RiskScore != nil {
		c.riskScore = sql.NullInt64{Int64: int64(*a.RiskScore), Valid: true}
	}
	return &c, nil
}

func (r *assessmentRepository) Create(ctx context.Context, assessment *model.Assessment) (*model.Assessment, error) {
	created := assessment.Clone()
	if created.ID == "" {
		created.ID = model.NewAssessmentID()
	}
	created.Status = created.Status.Normalize()
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	cols, err := encodeAssessment(created)
	if err != nil {
		return nil, err
	}

	args := []any{
		created.ID, created.FrameworkID, created.Title, created.Status.String(), cols.responses, cols.modules,
		cols.riskScore, string(created.RiskClassification), created.Links.EntityID, created.Links.SystemID, created.Links.ProcessingActivityID,
		formatNullTime(created.CompletedAt), cols.metadata, created.SortOrder, created.CreatedBy, formatTime(now), formatTime(now),
	}
	placeholders := strings.Repeat("?, ", 16) + "?"
	if r.validationColumns {
		args = append(args, created.ValidatedBy, formatNullTime(created.ValidatedAt))
		placeholders += ", ?, ?"
	} else {
		created.ValidatedBy = ""
		created.ValidatedAt = nil
	}

	query := `INSERT INTO assessments (` + r.columns() + `) VALUES (` + placeholders + `)`
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return nil, goerr.Wrap(err, "failed to create assessment", goerr.V("id", created.ID))
	}
	return created, nil
}

func (r *assessmentRepository) Get(ctx context.Context, id string) (*model.Assessment, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+r.columns()+` FROM assessments WHERE id = ?`, id)
	a, err := r.scan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "assessment not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get assessment", goerr.V("id", id))
	}
	return a, nil
}

func (r *assessmentRepository) List(ctx context.Context, opts ...interfaces.ListAssessmentOption) ([]*model.Assessment, error) {
	cfg := interfaces.BuildListAssessmentConfig(opts...)

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+r.columns()+` FROM assessments ORDER BY sort_order ASC, created_at DESC`)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list assessments")
	}
	defer rows.Close()

	var result []*model.Assessment
	for rows.Next() {
		a, err := r.scan(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan assessment")
		}
		if cfg.Match(a) {
			result = append(result, a)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate assessments")
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

	cols, err := encodeAssessment(updated)
	if err != nil {
		return nil, err
	}

	set := `framework_id = ?, title = ?, status = ?, responses = ?, active_modules = ?,
		risk_score = ?, risk_classification = ?, entity_id = ?, linked_system_id = ?, linked_pa_id = ?,
		completed_at = ?, metadata = ?, sort_order = ?, created_by = ?, updated_at = ?`
	args := []any{
		updated.FrameworkID, updated.Title, updated.Status.String(), cols.responses, cols.modules,
		cols.riskScore, string(updated.RiskClassification), updated.Links.EntityID, updated.Links.SystemID, updated.Links.ProcessingActivityID,
		formatNullTime(updated.CompletedAt), cols.metadata, updated.SortOrder, updated.CreatedBy, formatTime(updated.UpdatedAt),
	}
	if r.validationColumns {
		set += `, validated_by = ?, validated_at = ?`
		args = append(args, updated.ValidatedBy, formatNullTime(updated.ValidatedAt))
	} else {
		updated.ValidatedBy = ""
		updated.ValidatedAt = nil
	}
	args = append(args, updated.ID)

	if _, err := r.db.ExecContext(ctx, `UPDATE assessments SET `+set+` WHERE id = ?`, args...); err != nil {
		return nil, goerr.Wrap(err, "failed to update assessment", goerr.V("id", updated.ID))
	}
	return updated, nil
}

func (r *assessmentRepository) MarkValidated(ctx context.Context, id, validatedBy string, validatedAt time.Time) (*model.Assessment, error) {
	if !r.validationColumns {
		return nil, goerr.Wrap(interfaces.ErrValidationColumnsUnsupported, "schema has no validation columns", goerr.V("id", id))
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE assessments SET status = ?, validated_by = ?, validated_at = ?, updated_at = ? WHERE id = ?`,
		types.AssessmentStatusValidated.String(), validatedBy, formatTime(validatedAt), formatTime(time.Now()), id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to mark assessment validated", goerr.V("id", id))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "assessment not found", goerr.V("id", id))
	}
	return r.Get(ctx, id)
}
