package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/docyard/docyard/internal/model"
	"github.com/docyard/docyard/internal/store"
	"github.com/docyard/docyard/internal/tester"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsageTracker_RecordAccess(t *testing.T) {
	tester.Setup()
	s := store.NewGormStore(tester.TestDB())
	tracker := NewUsageTracker(s)

	seedDocument(t, s, &model.Document{
		ID: "doc-a", Title: "On-call runbook",
		ReviewFrequencyDays: 14,
		NextReviewDate:      time.Now().Add(14 * 24 * time.Hour),
	})

	tracker.RecordAccess(context.TODO(), "doc-a")
	tracker.RecordAccess(context.TODO(), "doc-a")
	tracker.RecordAccess(context.TODO(), "doc-a")

	rec, err := tracker.GetUsage(context.TODO(), "doc-a")
	require.NoError(t, err)
	assert.Equal(t, int64(3), rec.AccessCount)
	assert.False(t, rec.LastAccessedAt.IsZero())
}

func TestUsageTracker_GetUsageDefault(t *testing.T) {
	tester.Setup()
	s := store.NewGormStore(tester.TestDB())
	tracker := NewUsageTracker(s)

	rec, err := tracker.GetUsage(context.TODO(), "never-opened")
	require.NoError(t, err)
	assert.Equal(t, "never-opened", rec.DocumentID)
	assert.Equal(t, int64(0), rec.AccessCount)
	assert.True(t, rec.LastAccessedAt.IsZero())
}

func TestUsageTracker_UnknownDocumentSwallowed(t *testing.T) {
	tester.Setup()
	s := store.NewGormStore(tester.TestDB())
	tracker := NewUsageTracker(s)

	// must not panic or error; the ping is simply dropped
	tracker.RecordAccess(context.TODO(), "ghost")

	rec, err := tracker.GetUsage(context.TODO(), "ghost")
	require.NoError(t, err)
	assert.Equal(t, int64(0), rec.AccessCount)
}

func TestUsageTracker_ConcurrentAccessesAllCounted(t *testing.T) {
	tester.Setup()
	s := store.NewGormStore(tester.TestDB())
	tracker := NewUsageTracker(s)

	seedDocument(t, s, &model.Document{
		ID: "doc-a", Title: "On-call runbook",
		ReviewFrequencyDays: 14,
		NextReviewDate:      time.Now().Add(14 * 24 * time.Hour),
	})

	const viewers = 8
	var wg sync.WaitGroup
	for i := 0; i < viewers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.RecordAccess(context.TODO(), "doc-a")
		}()
	}
	wg.Wait()

	rec, err := tracker.GetUsage(context.TODO(), "doc-a")
	require.NoError(t, err)
	assert.Equal(t, int64(viewers), rec.AccessCount)
}
