package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/docyard/docyard/internal/model"
	"github.com/docyard/docyard/internal/queue"
	"github.com/docyard/docyard/internal/store"
	"github.com/docyard/docyard/internal/tester"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) (*Registry, *queue.MemorySink) {
	t.Helper()
	sink := queue.NewMemorySink()
	return NewRegistry(store.NewGormStore(tester.TestDB()), nil, sink), sink
}

func TestRegistry_Register(t *testing.T) {
	tester.Setup()
	registry, sink := newTestRegistry(t)

	tests := []struct {
		name    string
		doc     *model.Document
		wantErr error
	}{
		{
			name: "active document",
			doc: &model.Document{
				ID:                  "doc-a",
				Title:               "On-call runbook",
				ReviewFrequencyDays: 14,
			},
		},
		{
			name: "living document with category",
			doc: &model.Document{
				ID:                  "doc-b",
				Title:               "Deploy guide",
				Category:            "guides",
				Priority:            model.PriorityHigh,
				LifecycleType:       model.LifecycleLiving,
				ReviewFrequencyDays: 7,
			},
		},
		{
			name: "missing title",
			doc: &model.Document{
				ID:                  "doc-c",
				ReviewFrequencyDays: 14,
			},
			wantErr: ErrValidation,
		},
		{
			name: "non-positive frequency",
			doc: &model.Document{
				ID:                  "doc-d",
				Title:               "Broken",
				ReviewFrequencyDays: 0,
			},
			wantErr: ErrValidation,
		},
		{
			name: "register directly archived",
			doc: &model.Document{
				ID:                  "doc-e",
				Title:               "Sneaky",
				LifecycleType:       model.LifecycleArchived,
				ReviewFrequencyDays: 14,
			},
			wantErr: ErrValidation,
		},
		{
			name: "duplicate id",
			doc: &model.Document{
				ID:                  "doc-a",
				Title:               "On-call runbook again",
				ReviewFrequencyDays: 14,
			},
			wantErr: ErrDuplicate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := registry.Register(context.TODO(), tt.doc)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, int64(0), doc.Version)
			assert.Equal(t, 0, doc.ReviewCount)
			assert.Equal(t, model.StatusActive, doc.Status)
			assert.Equal(t, doc.LastReviewedAt.Add(doc.ReviewInterval()), doc.NextReviewDate)
			assert.False(t, doc.NextReviewDate.Before(doc.LastReviewedAt))
		})
	}

	events := sink.Events()
	require.Len(t, events, 2)
	assert.Equal(t, queue.EventRegistered, events[0].Kind)
	assert.Equal(t, "doc-a", events[0].DocumentID)
}

func TestRegistry_RegisterGeneratesID(t *testing.T) {
	tester.Setup()
	registry, _ := newTestRegistry(t)

	doc, err := registry.Register(context.TODO(), &model.Document{
		Title:               "Anonymous",
		ReviewFrequencyDays: 30,
	})
	require.NoError(t, err)

	_, err = uuid.Parse(doc.ID)
	assert.NoError(t, err)
}

func TestRegistry_Get(t *testing.T) {
	tester.Setup()
	registry, _ := newTestRegistry(t)

	_, err := registry.Register(context.TODO(), &model.Document{
		ID:                  "doc-a",
		Title:               "On-call runbook",
		ReviewFrequencyDays: 14,
	})
	require.NoError(t, err)

	doc, err := registry.Get(context.TODO(), "doc-a")
	require.NoError(t, err)
	assert.Equal(t, "On-call runbook", doc.Title)

	_, err = registry.Get(context.TODO(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegistry_Find(t *testing.T) {
	tester.Setup()
	registry, _ := newTestRegistry(t)

	seed := []*model.Document{
		{ID: "r-1", Title: "Runbook 1", Category: "runbooks", ReviewFrequencyDays: 14},
		{ID: "r-2", Title: "Runbook 2", Category: "runbooks", LifecycleType: model.LifecycleLiving, ReviewFrequencyDays: 7},
		{ID: "g-1", Title: "Guide 1", Category: "guides", ReviewFrequencyDays: 30},
	}
	for _, doc := range seed {
		_, err := registry.Register(context.TODO(), doc)
		require.NoError(t, err)
	}

	tests := []struct {
		name   string
		filter store.DocumentFilter
		want   []string
	}{
		{
			name: "all",
			want: []string{"g-1", "r-1", "r-2"},
		},
		{
			name:   "by category",
			filter: store.DocumentFilter{Category: "runbooks"},
			want:   []string{"r-1", "r-2"},
		},
		{
			name:   "by lifecycle",
			filter: store.DocumentFilter{LifecycleType: model.LifecycleLiving},
			want:   []string{"r-2"},
		},
		{
			name:   "by category and lifecycle",
			filter: store.DocumentFilter{Category: "runbooks", LifecycleType: model.LifecycleActive},
			want:   []string{"r-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs, err := registry.Find(context.TODO(), tt.filter)
			require.NoError(t, err)

			var ids []string
			for _, doc := range docs {
				ids = append(ids, doc.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestRegistry_MarkReviewed(t *testing.T) {
	tester.Setup()
	registry, sink := newTestRegistry(t)

	t0 := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	registry.now = func() time.Time { return t0 }

	_, err := registry.Register(context.TODO(), &model.Document{
		ID:                  "doc-a",
		Title:               "On-call runbook",
		ReviewFrequencyDays: 14,
	})
	require.NoError(t, err)

	// review happens 20 days later, well past the due date
	registry.now = func() time.Time { return t0.Add(20 * 24 * time.Hour) }

	doc, err := registry.MarkReviewed(context.TODO(), "doc-a", Review{
		ReviewedBy:  "alice",
		ChangesMade: true,
		Notes:       "refreshed escalation table",
	}, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, doc.ReviewCount)
	assert.Equal(t, int64(1), doc.Version)
	assert.Equal(t, model.StatusActive, doc.Status)
	assert.Equal(t, t0.Add(20*24*time.Hour), doc.LastReviewedAt)
	// the clock resets from the review, not from the missed due date
	assert.Equal(t, t0.Add(34*24*time.Hour), doc.NextReviewDate)
	assert.False(t, doc.NextReviewDate.Before(doc.LastReviewedAt))

	history, err := registry.ReviewHistory(context.TODO(), "doc-a")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "alice", history[0].ReviewedBy)
	assert.True(t, history[0].ChangesMade)

	events := sink.Events()
	require.Len(t, events, 2)
	assert.Equal(t, queue.EventReviewed, events[1].Kind)
}

func TestRegistry_MarkReviewedErrors(t *testing.T) {
	tester.Setup()
	registry, _ := newTestRegistry(t)

	_, err := registry.Register(context.TODO(), &model.Document{
		ID:                  "doc-a",
		Title:               "On-call runbook",
		ReviewFrequencyDays: 14,
	})
	require.NoError(t, err)

	tests := []struct {
		name            string
		id              string
		review          Review
		expectedVersion int64
		wantErr         error
	}{
		{
			name:            "unknown document",
			id:              "missing",
			review:          Review{ReviewedBy: "alice"},
			expectedVersion: 0,
			wantErr:         ErrNotFound,
		},
		{
			name:            "missing reviewer",
			id:              "doc-a",
			review:          Review{},
			expectedVersion: 0,
			wantErr:         ErrValidation,
		},
		{
			name:            "stale version",
			id:              "doc-a",
			review:          Review{ReviewedBy: "alice"},
			expectedVersion: 7,
			wantErr:         ErrConcurrencyConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := registry.MarkReviewed(context.TODO(), tt.id, tt.review, tt.expectedVersion)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRegistry_MarkReviewedStaleVersionRace(t *testing.T) {
	tester.Setup()
	registry, _ := newTestRegistry(t)

	_, err := registry.Register(context.TODO(), &model.Document{
		ID:                  "doc-a",
		Title:               "On-call runbook",
		ReviewFrequencyDays: 14,
	})
	require.NoError(t, err)

	// both callers observed version 0; exactly one review may win
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = registry.MarkReviewed(context.TODO(), "doc-a", Review{
				ReviewedBy: "racer",
			}, 0)
		}(i)
	}
	wg.Wait()

	var succeeded, failed int
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			failed++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, failed)

	doc, err := registry.Get(context.TODO(), "doc-a")
	require.NoError(t, err)
	assert.Equal(t, 1, doc.ReviewCount)
	assert.Equal(t, int64(1), doc.Version)
}

func TestRegistry_PromoteDemote(t *testing.T) {
	tester.Setup()
	registry, _ := newTestRegistry(t)

	_, err := registry.Register(context.TODO(), &model.Document{
		ID:                  "doc-a",
		Title:               "On-call runbook",
		ReviewFrequencyDays: 14,
	})
	require.NoError(t, err)

	doc, err := registry.Promote(context.TODO(), "doc-a", 0)
	require.NoError(t, err)
	assert.Equal(t, model.LifecycleLiving, doc.LifecycleType)
	assert.Equal(t, int64(1), doc.Version)

	// promoting an already living document is a no-op
	doc, err = registry.Promote(context.TODO(), "doc-a", 1)
	require.NoError(t, err)
	assert.Equal(t, model.LifecycleLiving, doc.LifecycleType)
	assert.Equal(t, int64(1), doc.Version)

	doc, err = registry.Demote(context.TODO(), "doc-a", 1)
	require.NoError(t, err)
	assert.Equal(t, model.LifecycleActive, doc.LifecycleType)
	assert.Equal(t, int64(2), doc.Version)

	_, err = registry.Promote(context.TODO(), "missing", 0)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = registry.Promote(context.TODO(), "doc-a", 99)
	assert.ErrorIs(t, err, ErrConcurrencyConflict)
}

func TestRegistry_SetStatus(t *testing.T) {
	tester.Setup()
	registry, _ := newTestRegistry(t)

	_, err := registry.Register(context.TODO(), &model.Document{
		ID:                  "doc-a",
		Title:               "On-call runbook",
		ReviewFrequencyDays: 14,
	})
	require.NoError(t, err)

	doc, err := registry.SetStatus(context.TODO(), "doc-a", model.StatusNeedsReview, 0)
	require.NoError(t, err)
	assert.Equal(t, model.StatusNeedsReview, doc.Status)
	assert.Equal(t, int64(1), doc.Version)

	// deprecated pairs with archival only
	_, err = registry.SetStatus(context.TODO(), "doc-a", model.StatusDeprecated, 1)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = registry.SetStatus(context.TODO(), "doc-a", "bogus", 1)
	assert.ErrorIs(t, err, ErrValidation)
}
