package memory

import (
	"context"
	"encoding/json"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/interfaces"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/model"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/types"
)

type frameworkRepository struct {
	mu         sync.RWMutex
	frameworks map[string][]byte
}

func newFrameworkRepository() *frameworkRepository {
	return &frameworkRepository{frameworks: make(map[string][]byte)}
}

// Frameworks are nested several levels deep; a JSON snapshot is the simplest
// deep copy
func decodeFramework(raw []byte) (*model.Framework, error) {
	var fw model.Framework
	if err := json.Unmarshal(raw, &fw); err != nil {
		return nil, goerr.Wrap(err, "failed to decode framework")
	}
	return &fw, nil
}

func (r *frameworkRepository) Put(ctx context.Context, framework *model.Framework) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *framework
	if stored.ID == "" {
		stored.ID = model.NewFrameworkID()
		framework.ID = stored.ID
	}
	now := time.Now().UTC()
	if existing, ok := r.frameworks[stored.ID]; ok {
		prev, err := decodeFramework(existing)
		if err != nil {
			return err
		}
		stored.CreatedAt = prev.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now

	raw, err := json.Marshal(&stored)
	if err != nil {
		return goerr.Wrap(err, "failed to encode framework", goerr.V("id", stored.ID))
	}
	r.frameworks[stored.ID] = raw
	return nil
}

func (r *frameworkRepository) Get(ctx context.Context, id string) (*model.Framework, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	raw, exists := r.frameworks[id]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "framework not found", goerr.V("id", id))
	}
	return decodeFramework(raw)
}

func (r *frameworkRepository) GetBySlug(ctx context.Context, slug types.FrameworkSlug) (*model.Framework, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, fw := range all {
		if fw.Slug == slug {
			return fw, nil
		}
	}
	return nil, goerr.Wrap(interfaces.ErrNotFound, "framework not found", goerr.V("slug", slug))
}

func (r *frameworkRepository) List(ctx context.Context) ([]*model.Framework, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Framework, 0, len(r.frameworks))
	for _, raw := range r.frameworks {
		fw, err := decodeFramework(raw)
		if err != nil {
			return nil, err
		}
		result = append(result, fw)
	}
	slices.SortFunc(result, func(a, b *model.Framework) int {
		return strings.Compare(a.Name, b.Name)
	})
	return result, nil
}
