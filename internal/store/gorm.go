package store

import (
	"context"
	"time"

	"github.com/docyard/docyard/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db: db,
	}
}

var _ Store = (*GormStore)(nil)

type GormStore struct {
	db *gorm.DB
}

func (g *GormStore) CreateDocument(ctx context.Context, doc *model.Document) error {
	return g.db.WithContext(ctx).Create(doc).Error
}

func (g *GormStore) GetDocument(ctx context.Context, id string) (*model.Document, error) {
	var doc model.Document
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&doc).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (g *GormStore) FindDocuments(ctx context.Context, filter DocumentFilter) ([]*model.Document, error) {
	q := g.db.WithContext(ctx).Model(&model.Document{})
	if filter.LifecycleType != "" {
		q = q.Where("lifecycle_type = ?", filter.LifecycleType)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}

	var docs []*model.Document
	err := q.Order("id").Find(&docs).Error
	return docs, err
}

func (g *GormStore) ListDueDocuments(ctx context.Context, asOf time.Time) ([]*model.Document, error) {
	var docs []*model.Document
	err := g.db.WithContext(ctx).
		Where("lifecycle_type <> ?", model.LifecycleArchived).
		Where("next_review_date <= ?", asOf).
		Find(&docs).Error
	return docs, err
}

func (g *GormStore) ListDocumentsPage(ctx context.Context, offset, limit int) ([]*model.Document, error) {
	var docs []*model.Document
	err := g.db.WithContext(ctx).Order("id").Offset(offset).Limit(limit).Find(&docs).Error
	return docs, err
}

// UpdateDocumentGuarded is the optimistic-concurrency write: the row is only
// touched when the stored version still matches what the caller observed.
func (g *GormStore) UpdateDocumentGuarded(ctx context.Context, doc *model.Document, expectedVersion int64) (bool, error) {
	res := g.db.WithContext(ctx).
		Model(&model.Document{}).
		Where("id = ? AND version = ?", doc.ID, expectedVersion).
		Updates(map[string]interface{}{
			"title":                 doc.Title,
			"lifecycle_type":        doc.LifecycleType,
			"category":              doc.Category,
			"priority":              doc.Priority,
			"review_frequency_days": doc.ReviewFrequencyDays,
			"last_reviewed_at":      doc.LastReviewedAt,
			"next_review_date":      doc.NextReviewDate,
			"review_count":          doc.ReviewCount,
			"status":                doc.Status,
			"version":               doc.Version,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (g *GormStore) CreateEdge(ctx context.Context, edge *model.RelationshipEdge) error {
	return g.db.WithContext(ctx).Create(edge).Error
}

func (g *GormStore) ListEdgesFrom(ctx context.Context, id string) ([]*model.RelationshipEdge, error) {
	var edges []*model.RelationshipEdge
	err := g.db.WithContext(ctx).Where("from_id = ?", id).Order("created_at").Find(&edges).Error
	return edges, err
}

func (g *GormStore) ListEdgesTo(ctx context.Context, id string) ([]*model.RelationshipEdge, error) {
	var edges []*model.RelationshipEdge
	err := g.db.WithContext(ctx).Where("to_id = ?", id).Order("created_at").Find(&edges).Error
	return edges, err
}

// IncrementUsage performs the counter bump as one upsert statement so that
// concurrent pings never merge away each other's increment.
func (g *GormStore) IncrementUsage(ctx context.Context, id string, at time.Time) error {
	rec := &model.UsageRecord{
		DocumentID:     id,
		AccessCount:    1,
		LastAccessedAt: at,
	}
	return g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "document_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"access_count":     gorm.Expr("usage_records.access_count + ?", 1),
			"last_accessed_at": at,
		}),
	}).Create(rec).Error
}

func (g *GormStore) GetUsage(ctx context.Context, id string) (*model.UsageRecord, error) {
	var rec model.UsageRecord
	err := g.db.WithContext(ctx).Where("document_id = ?", id).First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (g *GormStore) CreateReviewRecord(ctx context.Context, rec *model.ReviewRecord) error {
	return g.db.WithContext(ctx).Create(rec).Error
}

func (g *GormStore) ListReviewRecords(ctx context.Context, docID string) ([]*model.ReviewRecord, error) {
	var recs []*model.ReviewRecord
	err := g.db.WithContext(ctx).Where("document_id = ?", docID).Order("reviewed_at desc").Find(&recs).Error
	return recs, err
}

func (g *GormStore) CreateArchiveRecord(ctx context.Context, rec *model.ArchiveRecord) error {
	return g.db.WithContext(ctx).Create(rec).Error
}

func (g *GormStore) ListArchiveRecords(ctx context.Context, docID string) ([]*model.ArchiveRecord, error) {
	var recs []*model.ArchiveRecord
	err := g.db.WithContext(ctx).Where("document_id = ?", docID).Order("archived_at desc").Find(&recs).Error
	return recs, err
}

func (g *GormStore) Migrate() error {
	return model.Migrate(g.db)
}

func (g *GormStore) Transaction(ctx context.Context, f func(tx Store) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return f(&GormStore{db: tx})
	})
}
