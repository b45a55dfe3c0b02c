package sqlite

import (
	"context"
	"database/sql"

	"github.com/m-mizutani/goerr/v2"
)

// Migration is one forward-only schema change
type Migration struct {
	Version     int
	Description string
	SQL         string
}

const schemaVersionValidationColumns = 2

var migrations = []Migration{
	{
		Version:     1,
		Description: "initial schema",
		SQL: `
CREATE TABLE IF NOT EXISTS assessments (
    id TEXT PRIMARY KEY,
    framework_id TEXT NOT NULL,
    title TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'draft',
    responses TEXT NOT NULL DEFAULT '{}',
    active_modules TEXT NOT NULL DEFAULT '[]',
    risk_score INTEGER,
    risk_classification TEXT NOT NULL DEFAULT '',
    entity_id TEXT NOT NULL DEFAULT '',
    linked_system_id TEXT NOT NULL DEFAULT '',
    linked_pa_id TEXT NOT NULL DEFAULT '',
    completed_at TEXT,
    metadata TEXT NOT NULL DEFAULT '{}',
    sort_order INTEGER NOT NULL DEFAULT 0,
    created_by TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_assessments_status ON assessments(status);

CREATE TABLE IF NOT EXISTS assessment_linked_records (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    assessment_id TEXT NOT NULL REFERENCES assessments(id),
    record_type TEXT NOT NULL,
    record_id TEXT NOT NULL,
    title TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_linked_records_assessment ON assessment_linked_records(assessment_id);

CREATE TABLE IF NOT EXISTS action_items (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    assessment_id TEXT NOT NULL DEFAULT '',
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    priority TEXT NOT NULL DEFAULT 'medium',
    status TEXT NOT NULL DEFAULT 'pending',
    due_date TEXT,
    completed_at TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_action_items_assessment ON action_items(assessment_id);

CREATE TABLE IF NOT EXISTS systems (
    id TEXT PRIMARY KEY,
    assessment_id TEXT NOT NULL DEFAULT '',
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    vendor TEXT NOT NULL DEFAULT '',
    personal_data INTEGER NOT NULL DEFAULT 0,
    data_types TEXT NOT NULL DEFAULT '[]',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS processing_activities (
    id TEXT PRIMARY KEY,
    assessment_id TEXT NOT NULL DEFAULT '',
    activity TEXT NOT NULL,
    purpose TEXT NOT NULL DEFAULT '',
    legal_basis TEXT NOT NULL DEFAULT '[]',
    data_categories TEXT NOT NULL DEFAULT '[]',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS risk_factors (
    id TEXT PRIMARY KEY,
    question_id TEXT NOT NULL,
    label TEXT NOT NULL,
    points INTEGER NOT NULL,
    severity TEXT NOT NULL,
    condition_kind TEXT NOT NULL,
    condition_value TEXT NOT NULL DEFAULT '',
    reason TEXT NOT NULL DEFAULT '',
    display_order INTEGER NOT NULL DEFAULT 0,
    is_active INTEGER NOT NULL DEFAULT 1,
    updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS risk_thresholds (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    high INTEGER NOT NULL,
    medium INTEGER NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS frameworks (
    id TEXT PRIMARY KEY,
    slug TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    document TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS option_lists (
    id TEXT PRIMARY KEY,
    question_id TEXT NOT NULL,
    label TEXT NOT NULL,
    display_order INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_option_lists_question ON option_lists(question_id);
`,
	},
	{
		Version:     schemaVersionValidationColumns,
		Description: "add assessment validation columns",
		SQL: `
ALTER TABLE assessments ADD COLUMN validated_by TEXT NOT NULL DEFAULT '';
ALTER TABLE assessments ADD COLUMN validated_at TEXT;
`,
	},
	{
		Version:     3,
		Description: "pad sortable timestamps to a fixed-width fraction",
		SQL: `
UPDATE assessments SET created_at = ` + padTimestamp("created_at") + `
 WHERE length(created_at) <> 30 AND created_at LIKE '%Z';
UPDATE option_lists SET created_at = ` + padTimestamp("created_at") + `
 WHERE length(created_at) <> 30 AND created_at LIKE '%Z';
`,
	},
}

// padTimestamp rewrites an RFC3339Nano UTC column value into timeLayout
func padTimestamp(col string) string {
	return `substr(` + col + `, 1, 19) || '.' || substr(
  CASE WHEN substr(` + col + `, 20, 1) = '.' THEN substr(` + col + `, 21, length(` + col + `) - 21) ELSE '' END
  || '000000000', 1, 9) || 'Z'`
}

// LatestSchemaVersion returns the version of the newest known migration
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].Version
}

// PendingMigrations returns migrations not yet applied, up to the configured
// maximum version
func (s *SQLite) PendingMigrations(ctx context.Context) ([]Migration, error) {
	if err := ensureSchemaVersionTable(ctx, s.db); err != nil {
		return nil, err
	}
	current, err := s.SchemaVersion(ctx)
	if err != nil {
		return nil, err
	}

	var pending []Migration
	for _, m := range migrations {
		if m.Version > current && m.Version <= s.maxSchemaVersion {
			pending = append(pending, m)
		}
	}
	return pending, nil
}

// ApplyMigrations applies pending migrations in a single transaction
func (s *SQLite) ApplyMigrations(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return goerr.Wrap(err, "failed to begin migration transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if err := ensureSchemaVersionTable(ctx, tx); err != nil {
		return err
	}

	var current int
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&current); err != nil {
		return goerr.Wrap(err, "failed to query schema version")
	}

	for _, m := range migrations {
		if m.Version <= current || m.Version > s.maxSchemaVersion {
			continue
		}
		if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
			return goerr.Wrap(err, "failed to apply migration",
				goerr.V("version", m.Version),
				goerr.V("description", m.Description))
		}
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO schema_version (version) VALUES (?)`, m.Version); err != nil {
			return goerr.Wrap(err, "failed to record migration", goerr.V("version", m.Version))
		}
	}

	if err := tx.Commit(); err != nil {
		return goerr.Wrap(err, "failed to commit migrations")
	}
	return s.detectFeatures(ctx)
}

// SchemaVersion returns the latest applied migration version
func (s *SQLite) SchemaVersion(ctx context.Context) (int, error) {
	if err := ensureSchemaVersionTable(ctx, s.db); err != nil {
		return 0, err
	}
	var version int
	if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version); err != nil {
		return 0, goerr.Wrap(err, "failed to query schema version")
	}
	return version, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func ensureSchemaVersionTable(ctx context.Context, db execer) error {
	const stmt = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);`
	if _, err := db.ExecContext(ctx, stmt); err != nil {
		return goerr.Wrap(err, "failed to create schema_version table")
	}
	return nil
}
