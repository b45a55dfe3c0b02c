package firestore

import "github.com/m-mizutani/fireconf"

// IndexConfig returns the composite indexes the repository queries require
func IndexConfig(prefix string) *fireconf.Config {
	return &fireconf.Config{
		Collections: []fireconf.Collection{
			{
				Name: CollectionName(prefix, CollectionAssessments),
				Indexes: []fireconf.Index{
					// List: sort_order ASC, created_at DESC
					{
						Fields: []fireconf.IndexField{
							{Path: "sort_order", Order: fireconf.OrderAscending},
							{Path: "created_at", Order: fireconf.OrderDescending},
						},
					},
					// List with status filter
					{
						Fields: []fireconf.IndexField{
							{Path: "status", Order: fireconf.OrderAscending},
							{Path: "sort_order", Order: fireconf.OrderAscending},
							{Path: "created_at", Order: fireconf.OrderDescending},
						},
					},
				},
			},
			{
				Name: CollectionName(prefix, CollectionActionItems),
				Indexes: []fireconf.Index{
					// ListByAssessment: assessment_id ASC, created_at ASC
					{
						Fields: []fireconf.IndexField{
							{Path: "assessment_id", Order: fireconf.OrderAscending},
							{Path: "created_at", Order: fireconf.OrderAscending},
						},
					},
				},
			},
			{
				Name: CollectionName(prefix, CollectionOptionLists),
				Indexes: []fireconf.Index{
					// List: question_id ASC, display_order ASC
					{
						Fields: []fireconf.IndexField{
							{Path: "question_id", Order: fireconf.OrderAscending},
							{Path: "display_order", Order: fireconf.OrderAscending},
						},
					},
				},
			},
		},
	}
}
