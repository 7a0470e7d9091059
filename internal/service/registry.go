package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/docyard/docyard/internal/cache"
	"github.com/docyard/docyard/internal/model"
	"github.com/docyard/docyard/internal/queue"
	"github.com/docyard/docyard/internal/store"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Review carries one review submission into MarkReviewed.
type Review struct {
	ReviewedBy  string
	ChangesMade bool
	Notes       string
}

// NewRegistry creates the document registry. The cache may be nil when no
// cache backend is configured; the sink must not be nil.
func NewRegistry(store store.Store, cache cache.DocumentCache, sink queue.Sink) *Registry {
	return &Registry{
		store: store,
		cache: cache,
		sink:  sink,
		now:   time.Now,
	}
}

// Registry is the authoritative owner of document rows. It is the only writer
// of lifecycle type, status and version, except for the archive store which
// alone may move a document into and out of the archived tier.
type Registry struct {
	store store.Store
	cache cache.DocumentCache
	sink  queue.Sink
	now   func() time.Time
}

// Register adds a new document to the corpus in the active or living tier.
func (r *Registry) Register(ctx context.Context, doc *model.Document) (*model.Document, error) {
	if doc.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if doc.ReviewFrequencyDays <= 0 {
		return nil, fmt.Errorf("%w: review frequency must be a positive number of days", ErrValidation)
	}
	if doc.LifecycleType == "" {
		doc.LifecycleType = model.LifecycleActive
	}
	if doc.LifecycleType == model.LifecycleArchived {
		return nil, fmt.Errorf("%w: cannot register a document directly into the archive", ErrValidation)
	}
	if doc.Priority == "" {
		doc.Priority = model.PriorityMedium
	}
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}

	now := r.now()
	doc.LastReviewedAt = now
	doc.NextReviewDate = now.Add(doc.ReviewInterval())
	doc.ReviewCount = 0
	doc.Status = model.StatusActive
	doc.Version = 0

	err := r.store.Transaction(ctx, func(tx store.Store) error {
		_, err := tx.GetDocument(ctx, doc.ID)
		if err == nil {
			return fmt.Errorf("%w: %s", ErrDuplicate, doc.ID)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return tx.CreateDocument(ctx, doc)
	})
	if err != nil {
		return nil, err
	}

	r.emit(ctx, queue.EventRegistered, doc.ID, map[string]string{
		"lifecycle_type": string(doc.LifecycleType),
	})

	return doc, nil
}

// Get retrieves a document, consulting the cache first when one is wired.
func (r *Registry) Get(ctx context.Context, id string) (*model.Document, error) {
	if r.cache != nil {
		doc, err := r.cache.GetDocument(ctx, id)
		if err != nil {
			logrus.Warnf("document cache read failed for %s: %v", id, err)
		} else if doc != nil {
			return doc, nil
		}
	}

	doc, err := r.store.GetDocument(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}

	if r.cache != nil {
		if err := r.cache.SetDocument(ctx, doc); err != nil {
			logrus.Warnf("document cache write failed for %s: %v", id, err)
		}
	}

	return doc, nil
}

// Find lists documents matching the filter. An empty filter lists everything.
func (r *Registry) Find(ctx context.Context, filter store.DocumentFilter) ([]*model.Document, error) {
	return r.store.FindDocuments(ctx, filter)
}

// MarkReviewed records a completed review: it appends a history entry, resets
// the review clock and bumps the version, all in one transaction. The caller
// must present the version it last observed.
func (r *Registry) MarkReviewed(ctx context.Context, id string, review Review, expectedVersion int64) (*model.Document, error) {
	if review.ReviewedBy == "" {
		return nil, fmt.Errorf("%w: reviewer is required", ErrValidation)
	}

	now := r.now()
	var updated *model.Document

	err := r.store.Transaction(ctx, func(tx store.Store) error {
		doc, err := tx.GetDocument(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", ErrNotFound, id)
			}
			return err
		}

		if doc.Archived() {
			return fmt.Errorf("%w: cannot review archived document %s", ErrInvalidTransition, id)
		}
		if doc.Version != expectedVersion {
			return fmt.Errorf("%w: have %d, expected %d", ErrConcurrencyConflict, doc.Version, expectedVersion)
		}

		doc.LastReviewedAt = now
		doc.NextReviewDate = now.Add(doc.ReviewInterval())
		doc.ReviewCount++
		doc.Status = model.StatusActive
		doc.Version = expectedVersion + 1

		ok, err := tx.UpdateDocumentGuarded(ctx, doc, expectedVersion)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: document %s changed mid-review", ErrConcurrencyConflict, id)
		}

		err = tx.CreateReviewRecord(ctx, &model.ReviewRecord{
			DocumentID:  id,
			ReviewedBy:  review.ReviewedBy,
			ChangesMade: review.ChangesMade,
			Notes:       review.Notes,
			ReviewedAt:  now,
		})
		if err != nil {
			return err
		}

		updated = doc
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.invalidate(ctx, id)
	r.emit(ctx, queue.EventReviewed, id, map[string]string{
		"reviewed_by":  review.ReviewedBy,
		"changes_made": fmt.Sprintf("%t", review.ChangesMade),
	})

	return updated, nil
}

// Promote moves an active document into the living tier.
func (r *Registry) Promote(ctx context.Context, id string, expectedVersion int64) (*model.Document, error) {
	return r.setLifecycle(ctx, id, model.LifecycleLiving, queue.EventPromoted, expectedVersion)
}

// Demote moves a living document back into the active tier.
func (r *Registry) Demote(ctx context.Context, id string, expectedVersion int64) (*model.Document, error) {
	return r.setLifecycle(ctx, id, model.LifecycleActive, queue.EventDemoted, expectedVersion)
}

func (r *Registry) setLifecycle(ctx context.Context, id string, target model.LifecycleType, kind queue.EventKind, expectedVersion int64) (*model.Document, error) {
	var updated *model.Document

	err := r.store.Transaction(ctx, func(tx store.Store) error {
		doc, err := tx.GetDocument(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", ErrNotFound, id)
			}
			return err
		}

		if doc.Archived() {
			return fmt.Errorf("%w: archived document %s must be restored first", ErrInvalidTransition, id)
		}
		if doc.Version != expectedVersion {
			return fmt.Errorf("%w: have %d, expected %d", ErrConcurrencyConflict, doc.Version, expectedVersion)
		}
		if doc.LifecycleType == target {
			updated = doc
			return nil
		}

		doc.LifecycleType = target
		doc.Version = expectedVersion + 1

		ok, err := tx.UpdateDocumentGuarded(ctx, doc, expectedVersion)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: document %s changed concurrently", ErrConcurrencyConflict, id)
		}

		updated = doc
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.invalidate(ctx, id)
	r.emit(ctx, kind, id, nil)

	return updated, nil
}

// SetStatus flips the working status of a non-archived document. Deprecated
// is reserved for the archive store; it always pairs with the archived tier.
func (r *Registry) SetStatus(ctx context.Context, id string, status model.Status, expectedVersion int64) (*model.Document, error) {
	switch status {
	case model.StatusActive, model.StatusNeedsReview, model.StatusUpdating:
	case model.StatusDeprecated:
		return nil, fmt.Errorf("%w: deprecated is set by archival only", ErrValidation)
	default:
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	var updated *model.Document

	err := r.store.Transaction(ctx, func(tx store.Store) error {
		doc, err := tx.GetDocument(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", ErrNotFound, id)
			}
			return err
		}

		if doc.Archived() {
			return fmt.Errorf("%w: archived document %s must be restored first", ErrInvalidTransition, id)
		}
		if doc.Version != expectedVersion {
			return fmt.Errorf("%w: have %d, expected %d", ErrConcurrencyConflict, doc.Version, expectedVersion)
		}

		doc.Status = status
		doc.Version = expectedVersion + 1

		ok, err := tx.UpdateDocumentGuarded(ctx, doc, expectedVersion)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: document %s changed concurrently", ErrConcurrencyConflict, id)
		}

		updated = doc
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.invalidate(ctx, id)

	return updated, nil
}

// ReviewHistory lists a document's append-only review records, newest first.
func (r *Registry) ReviewHistory(ctx context.Context, id string) ([]*model.ReviewRecord, error) {
	if _, err := r.Get(ctx, id); err != nil {
		return nil, err
	}
	return r.store.ListReviewRecords(ctx, id)
}

func (r *Registry) invalidate(ctx context.Context, id string) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Invalidate(ctx, id); err != nil {
		logrus.Warnf("document cache invalidation failed for %s: %v", id, err)
	}
}

func (r *Registry) emit(ctx context.Context, kind queue.EventKind, id string, payload map[string]string) {
	err := r.sink.Publish(ctx, queue.Event{
		Kind:       kind,
		DocumentID: id,
		At:         r.now(),
		Payload:    payload,
	})
	if err != nil {
		logrus.Warnf("failed to publish %s event for %s: %v", kind, id, err)
	}
}
