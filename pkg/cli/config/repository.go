package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/interfaces"
	"github.com/paulmccormack00/risk-assessments/pkg/repository/firestore"
	"github.com/paulmccormack00/risk-assessments/pkg/repository/memory"
	"github.com/paulmccormack00/risk-assessments/pkg/repository/sqlite"
	"github.com/paulmccormack00/risk-assessments/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Repository backends
const (
	BackendMemory    = "memory"
	BackendFirestore = "firestore"
	BackendSQLite    = "sqlite"
)

// Repository holds CLI flags for repository backend configuration
type Repository struct {
	backend          string
	projectID        string
	databaseID       string
	collectionPrefix string
	sqlitePath       string
}

// Flags returns CLI flags for repository configuration
func (r *Repository) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "repository-backend",
			Category:    "Repository",
			Usage:       "Repository backend type (memory, firestore or sqlite)",
			Value:       BackendSQLite,
			Sources:     cli.EnvVars("COMPLIO_REPOSITORY_BACKEND"),
			Destination: &r.backend,
		},
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Category:    "Repository",
			Usage:       "Firestore Project ID (required when using firestore backend)",
			Sources:     cli.EnvVars("COMPLIO_FIRESTORE_PROJECT_ID"),
			Destination: &r.projectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Category:    "Repository",
			Usage:       "Firestore Database ID",
			Sources:     cli.EnvVars("COMPLIO_FIRESTORE_DATABASE_ID"),
			Destination: &r.databaseID,
		},
		&cli.StringFlag{
			Name:        "firestore-collection-prefix",
			Category:    "Repository",
			Usage:       "Prefix for Firestore collection names",
			Sources:     cli.EnvVars("COMPLIO_FIRESTORE_COLLECTION_PREFIX"),
			Destination: &r.collectionPrefix,
		},
		&cli.StringFlag{
			Name:        "sqlite-path",
			Category:    "Repository",
			Usage:       "SQLite database file",
			Value:       "complio.db",
			Sources:     cli.EnvVars("COMPLIO_SQLITE_PATH"),
			Destination: &r.sqlitePath,
		},
	}
}

func (r Repository) LogValue() slog.Value {
	attrs := []slog.Attr{slog.String("backend", r.backend)}
	switch r.backend {
	case BackendFirestore:
		attrs = append(attrs,
			slog.String("project_id", r.projectID),
			slog.String("database_id", r.databaseID),
			slog.String("collection_prefix", r.collectionPrefix),
		)
	case BackendSQLite:
		attrs = append(attrs, slog.String("path", r.sqlitePath))
	}
	return slog.GroupValue(attrs...)
}

// Backend returns the configured backend type
func (r *Repository) Backend() string {
	return r.backend
}

// ProjectID returns the Firestore project ID
func (r *Repository) ProjectID() string {
	return r.projectID
}

// DatabaseID returns the Firestore database ID
func (r *Repository) DatabaseID() string {
	return r.databaseID
}

// CollectionPrefix returns the Firestore collection prefix
func (r *Repository) CollectionPrefix() string {
	return r.collectionPrefix
}

// Validate checks that the selected backend has what it needs
func (r *Repository) Validate() error {
	switch r.backend {
	case BackendMemory:
	case BackendFirestore:
		if r.projectID == "" {
			return goerr.Wrap(ErrInvalidConfig, "firestore-project-id is required when using firestore backend")
		}
	case BackendSQLite:
		if r.sqlitePath == "" {
			return goerr.Wrap(ErrInvalidConfig, "sqlite-path is required when using sqlite backend")
		}
	default:
		return goerr.Wrap(ErrInvalidConfig, "invalid repository backend", goerr.V("backend", r.backend))
	}
	return nil
}

// OpenSQLite opens the configured SQLite database with opts
func (r *Repository) OpenSQLite(ctx context.Context, opts ...sqlite.Option) (*sqlite.SQLite, error) {
	db, err := sqlite.New(ctx, r.sqlitePath, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open sqlite repository", goerr.V("path", r.sqlitePath))
	}
	return db, nil
}

// Configure initializes and returns a repository based on the configured backend.
// The caller is responsible for calling Close() on the returned repository.
func (r *Repository) Configure(ctx context.Context) (interfaces.Repository, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	switch r.backend {
	case BackendFirestore:
		repo, err := firestore.New(ctx, r.projectID, r.databaseID, firestore.WithCollectionPrefix(r.collectionPrefix))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize firestore repository")
		}
		logging.Default().Info("Using Firestore repository", "repository", r)
		return repo, nil

	case BackendSQLite:
		repo, err := r.OpenSQLite(ctx)
		if err != nil {
			return nil, err
		}
		logging.Default().Info("Using SQLite repository", "repository", r)
		return repo, nil

	default:
		logging.Default().Info("Using in-memory repository (development mode)")
		return memory.New(), nil
	}
}
