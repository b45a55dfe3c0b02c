package firestore

import (
	"context"
	"encoding/json"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/interfaces"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/model"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// frameworkDocument keeps lookup keys as fields and the section tree as a
// JSON document
type frameworkDocument struct {
	ID        string    `firestore:"id"`
	Slug      string    `firestore:"slug"`
	Name      string    `firestore:"name"`
	Document  string    `firestore:"document"`
	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

func (d *frameworkDocument) toModel() (*model.Framework, error) {
	var fw model.Framework
	if err := json.Unmarshal([]byte(d.Document), &fw); err != nil {
		return nil, goerr.Wrap(err, "failed to decode framework", goerr.V("id", d.ID))
	}
	fw.CreatedAt = d.CreatedAt
	fw.UpdatedAt = d.UpdatedAt
	return &fw, nil
}

type frameworkRepository struct {
	fs *Firestore
}

func (r *frameworkRepository) Put(ctx context.Context, framework *model.Framework) error {
	if framework.ID == "" {
		framework.ID = model.NewFrameworkID()
	}
	raw, err := json.Marshal(framework)
	if err != nil {
		return goerr.Wrap(err, "failed to encode framework", goerr.V("id", framework.ID))
	}

	ref := r.fs.collection(CollectionFrameworks).Doc(framework.ID)
	now := time.Now().UTC()
	createdAt := now
	if snap, err := ref.Get(ctx); err == nil {
		var existing frameworkDocument
		if err := snap.DataTo(&existing); err == nil {
			createdAt = existing.CreatedAt
		}
	} else if status.Code(err) != codes.NotFound {
		return goerr.Wrap(err, "failed to get framework", goerr.V("id", framework.ID))
	}

	doc := &frameworkDocument{
		ID:        framework.ID,
		Slug:      framework.Slug.String(),
		Name:      framework.Name,
		Document:  string(raw),
		CreatedAt: createdAt,
		UpdatedAt: now,
	}
	if _, err := ref.Set(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to put framework", goerr.V("id", framework.ID))
	}
	return nil
}

func (r *frameworkRepository) Get(ctx context.Context, id string) (*model.Framework, error) {
	snap, err := r.fs.collection(CollectionFrameworks).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "framework not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get framework", goerr.V("id", id))
	}

	var d frameworkDocument
	if err := snap.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal framework", goerr.V("id", id))
	}
	return d.toModel()
}

func (r *frameworkRepository) GetBySlug(ctx context.Context, slug types.FrameworkSlug) (*model.Framework, error) {
	iter := r.fs.collection(CollectionFrameworks).Where("slug", "==", slug.String()).Limit(1).Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "framework not found", goerr.V("slug", slug))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query framework", goerr.V("slug", slug))
	}

	var d frameworkDocument
	if err := snap.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal framework", goerr.V("slug", slug))
	}
	return d.toModel()
}

func (r *frameworkRepository) List(ctx context.Context) ([]*model.Framework, error) {
	iter := r.fs.collection(CollectionFrameworks).OrderBy("name", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var result []*model.Framework
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate frameworks")
		}

		var d frameworkDocument
		if err := snap.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal framework", goerr.V("id", snap.Ref.ID))
		}
		fw, err := d.toModel()
		if err != nil {
			return nil, err
		}
		result = append(result, fw)
	}
	return result, nil
}
