package service

import (
	"testing"
	"time"

	"github.com/docyard/docyard/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestDecisionEngine_Score(t *testing.T) {
	engine := NewDecisionEngine(DefaultWeights())

	asOf := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	day := 24 * time.Hour

	staleDoc := &model.Document{
		ID:                  "stale",
		Title:               "Forgotten notes",
		LifecycleType:       model.LifecycleActive,
		ReviewFrequencyDays: 14,
		CreatedAt:           asOf.Add(-120 * day),
		LastReviewedAt:      asOf.Add(-120 * day),
		NextReviewDate:      asOf.Add(-106 * day),
	}
	freshDoc := &model.Document{
		ID:                  "fresh",
		Title:               "Current runbook",
		LifecycleType:       model.LifecycleLiving,
		ReviewFrequencyDays: 14,
		CreatedAt:           asOf.Add(-120 * day),
		LastReviewedAt:      asOf.Add(-2 * day),
		NextReviewDate:      asOf.Add(12 * day),
	}

	noUsage := &model.UsageRecord{DocumentID: "stale"}
	heavyUsage := &model.UsageRecord{
		DocumentID:     "fresh",
		AccessCount:    200,
		LastAccessedAt: asOf.Add(-1 * day),
	}

	t.Run("never accessed and chronically unreviewed is a candidate", func(t *testing.T) {
		got := engine.Score(staleDoc, noUsage, nil, asOf)
		assert.Equal(t, RecommendCandidate, got.Recommendation)
		assert.GreaterOrEqual(t, got.Score, 0.7)
		assert.Contains(t, got.Reason, "usage staleness")
	})

	t.Run("fresh and heavily used keeps", func(t *testing.T) {
		got := engine.Score(freshDoc, heavyUsage, nil, asOf)
		assert.Equal(t, RecommendKeep, got.Recommendation)
		assert.Less(t, got.Score, 0.5)
	})

	t.Run("supersession by a live document saturates its signal", func(t *testing.T) {
		incoming := []IncomingEdge{{
			Edge:            &model.RelationshipEdge{FromID: "fresh", ToID: "fresh-old", Type: model.EdgeReplaces},
			SourceLifecycle: model.LifecycleActive,
		}}

		with := engine.Score(staleDoc, noUsage, incoming, asOf)
		without := engine.Score(staleDoc, noUsage, nil, asOf)
		assert.Greater(t, with.Score, without.Score)
		assert.Contains(t, with.Reason, "superseded")
		assert.Equal(t, RecommendCandidate, with.Recommendation)
	})

	t.Run("supersession from an archived source does not count", func(t *testing.T) {
		incoming := []IncomingEdge{{
			Edge:            &model.RelationshipEdge{FromID: "retired", ToID: "fresh", Type: model.EdgeReplaces},
			SourceLifecycle: model.LifecycleArchived,
		}}

		with := engine.Score(freshDoc, heavyUsage, incoming, asOf)
		without := engine.Score(freshDoc, heavyUsage, nil, asOf)
		assert.Equal(t, without.Score, with.Score)
	})

	t.Run("reference edges are not supersession", func(t *testing.T) {
		incoming := []IncomingEdge{{
			Edge:            &model.RelationshipEdge{FromID: "fresh", ToID: "fresh-old", Type: model.EdgeReferences},
			SourceLifecycle: model.LifecycleActive,
		}}

		with := engine.Score(freshDoc, heavyUsage, incoming, asOf)
		without := engine.Score(freshDoc, heavyUsage, nil, asOf)
		assert.Equal(t, without.Score, with.Score)
	})
}

func TestDecisionEngine_Deterministic(t *testing.T) {
	engine := NewDecisionEngine(DefaultWeights())

	asOf := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	doc := &model.Document{
		ID:                  "doc-a",
		Title:               "Notes",
		ReviewFrequencyDays: 30,
		CreatedAt:           asOf.Add(-200 * 24 * time.Hour),
		LastReviewedAt:      asOf.Add(-90 * 24 * time.Hour),
	}
	usage := &model.UsageRecord{
		DocumentID:     "doc-a",
		AccessCount:    3,
		LastAccessedAt: asOf.Add(-45 * 24 * time.Hour),
	}
	incoming := []IncomingEdge{{
		Edge:            &model.RelationshipEdge{FromID: "doc-b", ToID: "doc-a", Type: model.EdgeReplaces},
		SourceLifecycle: model.LifecycleActive,
	}}

	first := engine.Score(doc, usage, incoming, asOf)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, engine.Score(doc, usage, incoming, asOf))
	}
}

func TestDecisionEngine_Overlap(t *testing.T) {
	engine := NewDecisionEngine(DefaultWeights())

	asOf := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	doc := &model.Document{
		ID:                  "doc-a",
		Title:               "Notes",
		ReviewFrequencyDays: 30,
		CreatedAt:           asOf.Add(-40 * 24 * time.Hour),
		LastReviewedAt:      asOf.Add(-40 * 24 * time.Hour),
	}
	usage := &model.UsageRecord{
		DocumentID:     "doc-a",
		AccessCount:    2,
		LastAccessedAt: asOf.Add(-30 * 24 * time.Hour),
	}

	plain := engine.Score(doc, usage, nil, asOf)
	duplicated := engine.ScoreWithOverlap(doc, usage, nil, asOf, 1.0)
	distinct := engine.ScoreWithOverlap(doc, usage, nil, asOf, 0.0)

	assert.Greater(t, duplicated.Score, plain.Score)
	assert.Less(t, distinct.Score, plain.Score)
}

func TestDecisionEngine_WeightsAreConfiguration(t *testing.T) {
	asOf := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	doc := &model.Document{
		ID:                  "doc-a",
		Title:               "Notes",
		ReviewFrequencyDays: 14,
		CreatedAt:           asOf.Add(-120 * 24 * time.Hour),
		LastReviewedAt:      asOf.Add(-120 * 24 * time.Hour),
	}
	usage := &model.UsageRecord{DocumentID: "doc-a"}

	// an operator who only cares about supersession sees no candidate here
	// no matter how stale the usage looks
	weights := DefaultWeights()
	weights.Usage = 0
	weights.Age = 0

	got := NewDecisionEngine(weights).Score(doc, usage, nil, asOf)
	assert.Equal(t, RecommendKeep, got.Recommendation)
	assert.Equal(t, 0.0, got.Score)
}
