package service

import (
	"context"
	"errors"
	"time"

	"github.com/docyard/docyard/internal/model"
	"github.com/docyard/docyard/internal/store"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func NewUsageTracker(store store.Store) *UsageTracker {
	return &UsageTracker{
		store: store,
		now:   time.Now,
	}
}

// UsageTracker accumulates access telemetry. Recording is advisory: it must
// never block or fail the caller's primary action, so errors are logged and
// dropped here rather than returned.
type UsageTracker struct {
	store store.Store
	now   func() time.Time
}

// RecordAccess counts one open of the document. Concurrent calls are each
// counted; the increment happens as a single atomic statement in the store.
func (u *UsageTracker) RecordAccess(ctx context.Context, id string) {
	_, err := u.store.GetDocument(ctx, id)
	if err != nil {
		logrus.Warnf("usage ping for unknown document %s dropped: %v", id, err)
		return
	}

	if err := u.store.IncrementUsage(ctx, id, u.now()); err != nil {
		logrus.Warnf("usage ping for %s dropped: %v", id, err)
	}
}

// GetUsage returns the access aggregate for id, or a zero-valued aggregate if
// the document was never opened.
func (u *UsageTracker) GetUsage(ctx context.Context, id string) (*model.UsageRecord, error) {
	rec, err := u.store.GetUsage(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &model.UsageRecord{DocumentID: id}, nil
		}
		return nil, err
	}
	return rec, nil
}
