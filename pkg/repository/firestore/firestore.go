package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/interfaces"
)

// Collection base names. A prefix, when set, is joined with an underscore.
const (
	CollectionAssessments          = "assessments"
	CollectionLinkedRecords        = "linked_records"
	CollectionActionItems          = "action_items"
	CollectionSystems              = "systems"
	CollectionProcessingActivities = "processing_activities"
	CollectionRiskFactors          = "risk_factors"
	CollectionRiskConfig           = "risk_config"
	CollectionFrameworks           = "frameworks"
	CollectionOptionLists          = "option_lists"
)

// CollectionName applies prefix to a collection base name
func CollectionName(prefix, base string) string {
	if prefix != "" {
		return prefix + "_" + base
	}
	return base
}

type Firestore struct {
	client *firestore.Client
	prefix string
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.prefix = prefix
	}
}

// New connects to Firestore. An empty databaseID selects the default database.
func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var (
		client *firestore.Client
		err    error
	)
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID))
	}

	f := &Firestore{client: client}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

func (f *Firestore) collection(base string) *firestore.CollectionRef {
	return f.client.Collection(CollectionName(f.prefix, base))
}

func (f *Firestore) Assessment() interfaces.AssessmentRepository {
	return &assessmentRepository{fs: f}
}

func (f *Firestore) LinkedRecord() interfaces.LinkedRecordRepository {
	return &linkedRecordRepository{fs: f}
}

func (f *Firestore) ActionItem() interfaces.ActionItemRepository {
	return &actionItemRepository{fs: f}
}

func (f *Firestore) System() interfaces.SystemRepository {
	return &systemRepository{fs: f}
}

func (f *Firestore) ProcessingActivity() interfaces.ProcessingActivityRepository {
	return &processingActivityRepository{fs: f}
}

func (f *Firestore) RiskConfig() interfaces.RiskConfigRepository {
	return &riskConfigRepository{fs: f}
}

func (f *Firestore) Framework() interfaces.FrameworkRepository {
	return &frameworkRepository{fs: f}
}

func (f *Firestore) OptionList() interfaces.OptionListRepository {
	return &optionListRepository{fs: f}
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
