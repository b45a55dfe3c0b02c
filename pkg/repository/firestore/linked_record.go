package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/model"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/types"
	"google.golang.org/api/iterator"
)

type linkedRecordDocument struct {
	AssessmentID string    `firestore:"assessment_id"`
	Type         string    `firestore:"type"`
	RecordID     string    `firestore:"record_id"`
	Title        string    `firestore:"title"`
	CreatedAt    time.Time `firestore:"created_at"`
	Seq          int64     `firestore:"seq"`
}

// linkedRecordRepository keeps each assessment's ledger in a sub-collection
// of the assessment document
type linkedRecordRepository struct {
	fs *Firestore
}

func (r *linkedRecordRepository) collection(assessmentID string) *firestore.CollectionRef {
	return r.fs.collection(CollectionAssessments).Doc(assessmentID).Collection(CollectionLinkedRecords)
}

func (r *linkedRecordRepository) Append(ctx context.Context, record *model.LinkedRecord) error {
	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	doc := &linkedRecordDocument{
		AssessmentID: record.AssessmentID,
		Type:         record.Type.String(),
		RecordID:     record.RecordID,
		Title:        record.Title,
		CreatedAt:    createdAt,
		Seq:          time.Now().UnixNano(),
	}

	if _, err := r.collection(record.AssessmentID).NewDoc().Create(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to append linked record",
			goerr.V("assessment_id", record.AssessmentID),
			goerr.V("record_id", record.RecordID))
	}
	return nil
}

func (r *linkedRecordRepository) List(ctx context.Context, assessmentID string) ([]*model.LinkedRecord, error) {
	iter := r.collection(assessmentID).OrderBy("seq", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	result := []*model.LinkedRecord{}
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate linked records", goerr.V("assessment_id", assessmentID))
		}

		var d linkedRecordDocument
		if err := snap.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal linked record")
		}
		result = append(result, &model.LinkedRecord{
			AssessmentID: d.AssessmentID,
			Type:         types.LinkedRecordType(d.Type),
			RecordID:     d.RecordID,
			Title:        d.Title,
			CreatedAt:    d.CreatedAt,
		})
	}
	return result, nil
}
