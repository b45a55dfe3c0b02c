package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	_ "github.com/mattn/go-sqlite3"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/interfaces"
)

// InMemory is the path that opens a private in-memory database
const InMemory = ":memory:"

type SQLite struct {
	db   *sql.DB
	path string

	maxSchemaVersion int
	skipMigration    bool

	assessment         *assessmentRepository
	linkedRecord       *linkedRecordRepository
	actionItem         *actionItemRepository
	system             *systemRepository
	processingActivity *processingActivityRepository
	riskConfig         *riskConfigRepository
	framework          *frameworkRepository
	optionList         *optionListRepository
}

var _ interfaces.Repository = &SQLite{}

type Option func(*SQLite)

// WithMaxSchemaVersion stops migration at version v. Used to run against a
// schema that predates later migrations.
func WithMaxSchemaVersion(v int) Option {
	return func(s *SQLite) {
		s.maxSchemaVersion = v
	}
}

// WithoutMigration opens the database without applying pending migrations
func WithoutMigration() Option {
	return func(s *SQLite) {
		s.skipMigration = true
	}
}

// New opens the database at path, applies pragmas and pending migrations
func New(ctx context.Context, path string, opts ...Option) (*SQLite, error) {
	if path != InMemory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, goerr.Wrap(err, "failed to create database directory", goerr.V("path", path))
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open sqlite database", goerr.V("path", path))
	}
	// One connection serializes writers and keeps ":memory:" a single database
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if err := execWithRetry(ctx, db, pragma, 5, 10*time.Millisecond); err != nil {
			_ = db.Close()
			return nil, goerr.Wrap(err, "failed to apply pragma", goerr.V("pragma", pragma))
		}
	}

	s := &SQLite{
		db:                 db,
		path:               path,
		maxSchemaVersion:   LatestSchemaVersion(),
		assessment:         &assessmentRepository{db: db},
		linkedRecord:       &linkedRecordRepository{db: db},
		actionItem:         &actionItemRepository{db: db},
		system:             &systemRepository{db: db},
		processingActivity: &processingActivityRepository{db: db},
		riskConfig:         &riskConfigRepository{db: db},
		framework:          &frameworkRepository{db: db},
		optionList:         &optionListRepository{db: db},
	}
	for _, opt := range opts {
		opt(s)
	}

	if !s.skipMigration {
		if err := s.ApplyMigrations(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := s.detectFeatures(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// detectFeatures checks which optional columns the schema carries
func (s *SQLite) detectFeatures(ctx context.Context) error {
	version, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	s.assessment.validationColumns = version >= schemaVersionValidationColumns
	return nil
}

func execWithRetry(ctx context.Context, db *sql.DB, stmt string, maxRetries int, baseDelay time.Duration) error {
	var lastErr error
	for attempt := range maxRetries {
		_, err := db.ExecContext(ctx, stmt)
		if err == nil {
			return nil
		}
		if !strings.Contains(err.Error(), "database is locked") {
			return err
		}

		lastErr = err
		time.Sleep(baseDelay * time.Duration(1<<attempt))
	}
	return lastErr
}

func (s *SQLite) Assessment() interfaces.AssessmentRepository {
	return s.assessment
}

func (s *SQLite) LinkedRecord() interfaces.LinkedRecordRepository {
	return s.linkedRecord
}

func (s *SQLite) ActionItem() interfaces.ActionItemRepository {
	return s.actionItem
}

func (s *SQLite) System() interfaces.SystemRepository {
	return s.system
}

func (s *SQLite) ProcessingActivity() interfaces.ProcessingActivityRepository {
	return s.processingActivity
}

func (s *SQLite) RiskConfig() interfaces.RiskConfigRepository {
	return s.riskConfig
}

func (s *SQLite) Framework() interfaces.FrameworkRepository {
	return s.framework
}

func (s *SQLite) OptionList() interfaces.OptionListRepository {
	return s.optionList
}

func (s *SQLite) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
