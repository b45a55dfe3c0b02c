package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/interfaces"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/model"
	"github.com/paulmccormack00/risk-assessments/pkg/repository/sqlite"
)

func TestMigrations(t *testing.T) {
	ctx := context.Background()

	t.Run("fresh database is at the latest version", func(t *testing.T) {
		db, err := sqlite.New(ctx, sqlite.InMemory)
		gt.NoError(t, err).Required()
		defer db.Close()

		version, err := db.SchemaVersion(ctx)
		gt.NoError(t, err).Required()
		gt.Number(t, version).Equal(sqlite.LatestSchemaVersion())

		pending, err := db.PendingMigrations(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, pending).Length(0)
	})

	t.Run("WithoutMigration leaves every migration pending", func(t *testing.T) {
		db, err := sqlite.New(ctx, sqlite.InMemory, sqlite.WithoutMigration())
		gt.NoError(t, err).Required()
		defer db.Close()

		pending, err := db.PendingMigrations(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, pending).Length(sqlite.LatestSchemaVersion()).Required()
		gt.Number(t, pending[0].Version).Equal(1)

		gt.NoError(t, db.ApplyMigrations(ctx)).Required()
		version, err := db.SchemaVersion(ctx)
		gt.NoError(t, err).Required()
		gt.Number(t, version).Equal(sqlite.LatestSchemaVersion())
	})

	t.Run("upgrade adds validation columns", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "complio.db")

		legacy, err := sqlite.New(ctx, path, sqlite.WithMaxSchemaVersion(1))
		gt.NoError(t, err).Required()

		a := model.NewDraft("fw-1", "Legacy vendor review", model.AssessmentLinks{})
		_, err = legacy.Assessment().Create(ctx, a)
		gt.NoError(t, err).Required()

		_, err = legacy.Assessment().MarkValidated(ctx, a.ID, "dpo@example.com", time.Now().UTC())
		gt.Error(t, err).Is(interfaces.ErrValidationColumnsUnsupported)
		gt.NoError(t, legacy.Close()).Required()

		upgraded, err := sqlite.New(ctx, path)
		gt.NoError(t, err).Required()
		defer upgraded.Close()

		version, err := upgraded.SchemaVersion(ctx)
		gt.NoError(t, err).Required()
		gt.Number(t, version).Equal(sqlite.LatestSchemaVersion())

		validated, err := upgraded.Assessment().MarkValidated(ctx, a.ID, "dpo@example.com", time.Now().UTC())
		gt.NoError(t, err).Required()
		gt.Value(t, validated.ValidatedBy).Equal("dpo@example.com")
		gt.Value(t, validated.Title).Equal("Legacy vendor review")
	})
}
