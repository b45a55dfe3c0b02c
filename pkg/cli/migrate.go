package cli

import (
	"context"
	"sort"

	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/paulmccormack00/risk-assessments/pkg/cli/config"
	"github.com/paulmccormack00/risk-assessments/pkg/repository/firestore"
	"github.com/paulmccormack00/risk-assessments/pkg/repository/sqlite"
	"github.com/paulmccormack00/risk-assessments/pkg/utils/logging"
	"github.com/paulmccormack00/risk-assessments/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdMigrate() *cli.Command {
	var repoCfg config.Repository
	var dryRun bool

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "dry-run",
			Usage:       "Preview changes without applying",
			Destination: &dryRun,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Migrate Firestore indexes or the SQLite schema",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := repoCfg.Validate(); err != nil {
				return err
			}

			logging.Default().Info("Migrate configuration", "repository", repoCfg, "dryRun", dryRun)

			switch repoCfg.Backend() {
			case config.BackendFirestore:
				return migrateFirestore(ctx, &repoCfg, dryRun)
			case config.BackendSQLite:
				return migrateSQLite(ctx, &repoCfg, dryRun)
			default:
				logging.Default().Info("In-memory repository needs no migration")
				return nil
			}
		},
	}
}

func migrateFirestore(ctx context.Context, repoCfg *config.Repository, dryRun bool) error {
	logger := logging.Default()
	indexConfig := firestore.IndexConfig(repoCfg.CollectionPrefix())

	client, err := fireconf.New(ctx, repoCfg.ProjectID(), repoCfg.DatabaseID(), indexConfig,
		fireconf.WithLogger(logger))
	if err != nil {
		return goerr.Wrap(err, "failed to create fireconf client",
			goerr.V("project_id", repoCfg.ProjectID()),
			goerr.V("database_id", repoCfg.DatabaseID()))
	}
	defer safe.Close(ctx, "fireconf client", client)

	if dryRun {
		logger.Info("Dry run mode - previewing changes")
		names := make([]string, 0, len(indexConfig.Collections))
		for _, col := range indexConfig.Collections {
			names = append(names, col.Name)
		}

		current, err := client.Import(ctx, names...)
		if err != nil {
			return goerr.Wrap(err, "failed to import current indexes")
		}
		diff, err := client.DiffConfigs(current)
		if err != nil {
			return goerr.Wrap(err, "failed to compare index configuration")
		}

		changes := indexChanges(diff)
		if len(changes) == 0 {
			logger.Info("No changes required")
			return nil
		}
		for _, ch := range changes {
			logger.Info("Migration step",
				"collection", ch.Collection,
				"action", ch.Action,
				"indexes_to_add", ch.IndexesToAdd,
				"indexes_to_delete", ch.IndexesToDelete,
				"ttl_action", ch.TTLAction)
		}
		return nil
	}

	logger.Info("Applying index migrations")
	if err := client.Migrate(ctx); err != nil {
		return goerr.Wrap(err, "failed to apply migrations")
	}
	logger.Info("Migrations applied successfully")
	return nil
}

// indexChange is one collection's pending change in a dry run
type indexChange struct {
	Collection      string
	Action          fireconf.DiffAction
	IndexesToAdd    int
	IndexesToDelete int
	TTLAction       fireconf.DiffAction
}

// indexChanges summarizes a diff, ordered by collection name
func indexChanges(diff *fireconf.DiffResult) []indexChange {
	if diff == nil {
		return nil
	}
	changes := make([]indexChange, 0, len(diff.Collections))
	for _, col := range diff.Collections {
		ch := indexChange{
			Collection:      col.Name,
			Action:          col.Action,
			IndexesToAdd:    len(col.IndexesToAdd),
			IndexesToDelete: len(col.IndexesToDelete),
			TTLAction:       col.TTLAction,
		}
		// A new collection lists its indexes in Indexes only
		if col.Action == fireconf.ActionAdd && ch.IndexesToAdd == 0 {
			ch.IndexesToAdd = len(col.Indexes)
		}
		if col.Action == fireconf.ActionDelete && ch.IndexesToDelete == 0 {
			ch.IndexesToDelete = len(col.Indexes)
		}
		changes = append(changes, ch)
	}
	sort.Slice(changes, func(i, j int) bool {
		return changes[i].Collection < changes[j].Collection
	})
	return changes
}

func migrateSQLite(ctx context.Context, repoCfg *config.Repository, dryRun bool) error {
	logger := logging.Default()

	db, err := repoCfg.OpenSQLite(ctx, sqlite.WithoutMigration())
	if err != nil {
		return err
	}
	defer safe.Close(ctx, "sqlite", db)

	current, err := db.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	pending, err := db.PendingMigrations(ctx)
	if err != nil {
		return err
	}

	if len(pending) == 0 {
		logger.Info("No changes required", "schema_version", current)
		return nil
	}

	for _, m := range pending {
		logger.Info("Migration step",
			"version", m.Version,
			"description", m.Description)
	}
	if dryRun {
		logger.Info("Dry run mode - no changes applied",
			"schema_version", current,
			"latest", sqlite.LatestSchemaVersion())
		return nil
	}

	if err := db.ApplyMigrations(ctx); err != nil {
		return err
	}
	logger.Info("Migrations applied successfully", "schema_version", sqlite.LatestSchemaVersion())
	return nil
}
