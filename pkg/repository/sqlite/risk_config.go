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

type riskConfigRepository struct {
	db *sql.DB
}

const riskFactorColumns = `id, question_id, label, points, severity, condition_kind, condition_value, reason, display_order, is_active, updated_at`

func scanRiskFactor(row rowScanner) (*model.RiskFactor, error) {
	var (
		f                             model.RiskFactor
		id, severity, kind, updatedAt string
		active                        int
	)
	if err := row.Scan(&id, &f.QuestionID, &f.Label, &f.Points, &severity, &kind, &f.Condition.Value,
		&f.Reason, &f.DisplayOrder, &active, &updatedAt); err != nil {
		return nil, err
	}
	f.ID = types.FactorID(id)
	f.Severity = types.Severity(severity)
	f.Condition.Kind = types.ConditionKind(kind)
	f.IsActive = active != 0

	var err error
	if f.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *riskConfigRepository) ListFactors(ctx context.Context) ([]*model.RiskFactor, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+riskFactorColumns+` FROM risk_factors ORDER BY display_order ASC, id ASC`)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list risk factors")
	}
	defer rows.Close()

	result := []*model.RiskFactor{}
	for rows.Next() {
		f, err := scanRiskFactor(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan risk factor")
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate risk factors")
	}
	return result, nil
}

func (r *riskConfigRepository) GetFactor(ctx context.Context, id types.FactorID) (*model.RiskFactor, error) {
	f, err := scanRiskFactor(r.db.QueryRowContext(ctx, `SELECT `+riskFactorColumns+` FROM risk_factors WHERE id = ?`, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "risk factor not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get risk factor", goerr.V("id", id))
	}
	return f, nil
}

func (r *riskConfigRepository) PutFactor(ctx context.Context, factor *model.RiskFactor) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO risk_factors (`+riskFactorColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   question_id = excluded.question_id, label = excluded.label, points = excluded.points,
		   severity = excluded.severity, condition_kind = excluded.condition_kind,
		   condition_value = excluded.condition_value, reason = excluded.reason,
		   display_order = excluded.display_order, is_active = excluded.is_active,
		   updated_at = excluded.updated_at`,
		factor.ID.String(), factor.QuestionID, factor.Label, factor.Points, factor.Severity.String(),
		factor.Condition.Kind.String(), factor.Condition.Value, factor.Reason, factor.DisplayOrder,
		boolToInt(factor.IsActive), formatTime(time.Now()))
	if err != nil {
		return goerr.Wrap(err, "failed to put risk factor", goerr.V("id", factor.ID))
	}
	return nil
}

func (r *riskConfigRepository) GetThresholds(ctx context.Context) (*model.RiskThresholds, error) {
	var (
		t         model.RiskThresholds
		updatedAt string
	)
	err := r.db.QueryRowContext(ctx, `SELECT high, medium, updated_at FROM risk_thresholds WHERE id = 1`).
		Scan(&t.High, &t.Medium, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "risk thresholds not configured")
		}
		return nil, goerr.Wrap(err, "failed to get risk thresholds")
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *riskConfigRepository) PutThresholds(ctx context.Context, thresholds *model.RiskThresholds) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO risk_thresholds (id, high, medium, updated_at) VALUES (1, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET high = excluded.high, medium = excluded.medium, updated_at = excluded.updated_at`,
		thresholds.High, thresholds.Medium, formatTime(time.Now()))
	if err != nil {
		return goerr.Wrap(err, "failed to put risk thresholds")
	}
	return nil
}
