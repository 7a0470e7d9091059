package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/docyard/docyard/internal/cache"
	"github.com/docyard/docyard/internal/compress"
	"github.com/docyard/docyard/internal/model"
	"github.com/docyard/docyard/internal/queue"
	"github.com/docyard/docyard/internal/store"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ArchiveRequest carries the operator's intent into Archive.
type ArchiveRequest struct {
	Reason        string
	ArchivedBy    string
	LocationRef   string
	ReplacementID string
}

// NewArchiveStore creates the archive store. The cache may be nil; codec and
// sink must not be.
func NewArchiveStore(store store.Store, cache cache.DocumentCache, codec compress.Compress, sink queue.Sink) *ArchiveStore {
	return &ArchiveStore{
		store: store,
		cache: cache,
		codec: codec,
		sink:  sink,
		now:   time.Now,
	}
}

// ArchiveStore performs the terminal lifecycle transition. It is the only
// component allowed to move documents into or out of the archived tier, and
// every move leaves an append-only provenance record behind.
type ArchiveStore struct {
	store store.Store
	cache cache.DocumentCache
	codec compress.Compress
	sink  queue.Sink
	now   func() time.Time
}

// Archive retires a document: flips it to archived/deprecated, writes the
// provenance record with a snapshot of the row as it stood, and links the
// replacement when one is named. The four writes commit or roll back as one;
// a failure anywhere leaves the document exactly as it was.
func (a *ArchiveStore) Archive(ctx context.Context, id string, req ArchiveRequest, expectedVersion int64) (*model.ArchiveRecord, error) {
	if req.Reason == "" {
		return nil, fmt.Errorf("%w: archival reason is required", ErrValidation)
	}
	if req.ArchivedBy == "" {
		return nil, fmt.Errorf("%w: archiver identity is required", ErrValidation)
	}

	now := a.now()
	var record *model.ArchiveRecord

	err := a.store.Transaction(ctx, func(tx store.Store) error {
		doc, err := tx.GetDocument(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", ErrNotFound, id)
			}
			return err
		}

		if doc.Archived() {
			return fmt.Errorf("%w: document %s is already archived", ErrInvalidTransition, id)
		}
		if doc.Version != expectedVersion {
			return fmt.Errorf("%w: have %d, expected %d", ErrConcurrencyConflict, doc.Version, expectedVersion)
		}

		snapshot, err := a.snapshot(doc)
		if err != nil {
			return err
		}

		doc.LifecycleType = model.LifecycleArchived
		doc.Status = model.StatusDeprecated
		doc.Version = expectedVersion + 1

		ok, err := tx.UpdateDocumentGuarded(ctx, doc, expectedVersion)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: document %s changed concurrently", ErrConcurrencyConflict, id)
		}

		record = &model.ArchiveRecord{
			DocumentID:    id,
			LocationRef:   req.LocationRef,
			Reason:        req.Reason,
			ArchivedBy:    req.ArchivedBy,
			ReplacementID: req.ReplacementID,
			Snapshot:      snapshot,
			Codec:         a.codec.Name(),
			ArchivedAt:    now,
		}
		if err := tx.CreateArchiveRecord(ctx, record); err != nil {
			return err
		}

		if req.ReplacementID != "" {
			if _, err := tx.GetDocument(ctx, req.ReplacementID); errors.Is(err, gorm.ErrRecordNotFound) {
				logrus.Warnf("replacement %s for %s is not registered yet", req.ReplacementID, id)
			} else if err != nil {
				return err
			}

			err := tx.CreateEdge(ctx, &model.RelationshipEdge{
				FromID: id,
				ToID:   req.ReplacementID,
				Type:   model.EdgeArchivedBy,
			})
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	a.invalidate(ctx, id)
	a.emit(ctx, queue.EventArchived, id, map[string]string{
		"reason":      req.Reason,
		"archived_by": req.ArchivedBy,
	})

	return record, nil
}

// Restore brings an archived document back to the active tier with a freshly
// computed review date. The archive records stay where they are; restoration
// never erases provenance.
func (a *ArchiveStore) Restore(ctx context.Context, id string, expectedVersion int64) (*model.Document, error) {
	now := a.now()
	var restored *model.Document

	err := a.store.Transaction(ctx, func(tx store.Store) error {
		doc, err := tx.GetDocument(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", ErrNotFound, id)
			}
			return err
		}

		if !doc.Archived() {
			return fmt.Errorf("%w: document %s is not archived", ErrInvalidTransition, id)
		}
		if doc.Version != expectedVersion {
			return fmt.Errorf("%w: have %d, expected %d", ErrConcurrencyConflict, doc.Version, expectedVersion)
		}

		doc.LifecycleType = model.LifecycleActive
		doc.Status = model.StatusActive
		doc.NextReviewDate = now.Add(doc.ReviewInterval())
		doc.Version = expectedVersion + 1

		ok, err := tx.UpdateDocumentGuarded(ctx, doc, expectedVersion)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: document %s changed concurrently", ErrConcurrencyConflict, id)
		}

		restored = doc
		return nil
	})
	if err != nil {
		return nil, err
	}

	a.invalidate(ctx, id)
	a.emit(ctx, queue.EventRestored, id, nil)

	return restored, nil
}

// History lists a document's archive records, newest first.
func (a *ArchiveStore) History(ctx context.Context, id string) ([]*model.ArchiveRecord, error) {
	return a.store.ListArchiveRecords(ctx, id)
}

// DecodeSnapshot recovers the document row stored in an archive record.
func DecodeSnapshot(rec *model.ArchiveRecord) (*model.Document, error) {
	data, err := compress.ByName(rec.Codec).Decode(rec.Snapshot)
	if err != nil {
		return nil, err
	}

	doc := &model.Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (a *ArchiveStore) snapshot(doc *model.Document) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return a.codec.Encode(data)
}

func (a *ArchiveStore) invalidate(ctx context.Context, id string) {
	if a.cache == nil {
		return
	}
	if err := a.cache.Invalidate(ctx, id); err != nil {
		logrus.Warnf("document cache invalidation failed for %s: %v", id, err)
	}
}

func (a *ArchiveStore) emit(ctx context.Context, kind queue.EventKind, id string, payload map[string]string) {
	err := a.sink.Publish(ctx, queue.Event{
		Kind:       kind,
		DocumentID: id,
		At:         a.now(),
		Payload:    payload,
	})
	if err != nil {
		logrus.Warnf("failed to publish %s event for %s: %v", kind, id, err)
	}
}
