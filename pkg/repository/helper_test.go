package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/interfaces"
	"github.com/paulmccormack00/risk-assessments/pkg/repository/firestore"
	"github.com/paulmccormack00/risk-assessments/pkg/repository/memory"
	"github.com/paulmccormack00/risk-assessments/pkg/repository/sqlite"
)

type backend struct {
	name    string
	newRepo func(t *testing.T) interfaces.Repository
}

// backends returns every repository implementation available in this
// environment. Firestore runs only when FIRESTORE_PROJECT_ID is set.
func backends(t *testing.T) []backend {
	t.Helper()

	list := []backend{
		{
			name: "memory",
			newRepo: func(t *testing.T) interfaces.Repository {
				return memory.New()
			},
		},
		{
			name: "sqlite",
			newRepo: func(t *testing.T) interfaces.Repository {
				repo, err := sqlite.New(context.Background(), sqlite.InMemory)
				gt.NoError(t, err).Required()
				t.Cleanup(func() { _ = repo.Close() })
				return repo
			},
		},
	}

	if projectID := os.Getenv("FIRESTORE_PROJECT_ID"); projectID != "" {
		databaseID := os.Getenv("FIRESTORE_DATABASE_ID")
		list = append(list, backend{
			name: "firestore",
			newRepo: func(t *testing.T) interfaces.Repository {
				prefix := fmt.Sprintf("test_%d", time.Now().UnixNano())
				repo, err := firestore.New(context.Background(), projectID, databaseID, firestore.WithCollectionPrefix(prefix))
				gt.NoError(t, err).Required()
				t.Cleanup(func() { _ = repo.Close() })
				return repo
			},
		})
	}
	return list
}

func runForEachBackend(t *testing.T, run func(t *testing.T, newRepo func(t *testing.T) interfaces.Repository)) {
	for _, b := range backends(t) {
		t.Run(b.name, func(t *testing.T) {
			run(t, b.newRepo)
		})
	}
}
