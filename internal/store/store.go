package store

import (
	"context"
	"time"

	"github.com/docyard/docyard/internal/model"
)

// DocumentFilter narrows FindDocuments. Zero-value fields are ignored.
type DocumentFilter struct {
	LifecycleType model.LifecycleType
	Status        model.Status
	Category      string
}

type Store interface {
	DocumentStore
	EdgeStore
	UsageStore
	ReviewStore
	ArchiveRecordStore
	Transaction(ctx context.Context, f func(tx Store) error) error
	Migrate() error
}

type DocumentStore interface {
	// CreateDocument inserts a new document row.
	CreateDocument(ctx context.Context, doc *model.Document) error
	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*model.Document, error)
	// FindDocuments retrieves documents matching the filter.
	FindDocuments(ctx context.Context, filter DocumentFilter) ([]*model.Document, error)
	// ListDueDocuments retrieves non-archived documents due at or before asOf.
	ListDueDocuments(ctx context.Context, asOf time.Time) ([]*model.Document, error)
	// ListDocumentsPage retrieves one fixed-size page ordered by ID.
	ListDocumentsPage(ctx context.Context, offset, limit int) ([]*model.Document, error)
	// UpdateDocumentGuarded writes doc only if the stored version still equals
	// expectedVersion. It reports whether a row was updated.
	UpdateDocumentGuarded(ctx context.Context, doc *model.Document, expectedVersion int64) (bool, error)
}

type EdgeStore interface {
	// CreateEdge inserts a relationship edge.
	CreateEdge(ctx context.Context, edge *model.RelationshipEdge) error
	// ListEdgesFrom retrieves edges whose source is id.
	ListEdgesFrom(ctx context.Context, id string) ([]*model.RelationshipEdge, error)
	// ListEdgesTo retrieves edges whose target is id.
	ListEdgesTo(ctx context.Context, id string) ([]*model.RelationshipEdge, error)
}

type UsageStore interface {
	// IncrementUsage bumps the access aggregate for id by one in a single
	// atomic statement, creating the aggregate if absent.
	IncrementUsage(ctx context.Context, id string, at time.Time) error
	// GetUsage retrieves the access aggregate for id.
	GetUsage(ctx context.Context, id string) (*model.UsageRecord, error)
}

type ReviewStore interface {
	// CreateReviewRecord appends one review history entry.
	CreateReviewRecord(ctx context.Context, rec *model.ReviewRecord) error
	// ListReviewRecords retrieves the review history for a document,
	// most recent first.
	ListReviewRecords(ctx context.Context, docID string) ([]*model.ReviewRecord, error)
}

type ArchiveRecordStore interface {
	// CreateArchiveRecord appends one archive provenance entry.
	CreateArchiveRecord(ctx context.Context, rec *model.ArchiveRecord) error
	// ListArchiveRecords retrieves archive history for a document,
	// most recent first.
	ListArchiveRecords(ctx context.Context, docID string) ([]*model.ArchiveRecord, error)
}
