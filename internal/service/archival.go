package service

import (
	"fmt"
	"time"

	"github.com/docyard/docyard/internal/model"
)

// Recommendation is the engine's verdict for one document.
type Recommendation string

const (
	RecommendKeep       Recommendation = "keep"
	RecommendBorderline Recommendation = "borderline"
	RecommendCandidate  Recommendation = "candidate"
)

// Weights configures archival scoring. The corpus this engine grew out of
// only ever had ad hoc thresholds ("fewer than 5 accesses", "older than 90
// days"), so every knob lives here instead of in the formula.
type Weights struct {
	// Signal weights in the combined score.
	Usage        float64
	Age          float64
	Supersession float64
	// Overlap only participates when the caller supplies an overlap score.
	Overlap float64

	// StaleAfter is how long without an access before the recency signal
	// saturates.
	StaleAfter time.Duration
	// LowAccessCeiling is the access count at which the sparsity signal
	// reaches zero.
	LowAccessCeiling int64
	// MissedCyclesCeiling is the number of missed review cycles at which the
	// age signal saturates.
	MissedCyclesCeiling float64

	// Recommendation cut-offs on the combined score.
	BorderlineAt float64
	CandidateAt  float64
}

func DefaultWeights() Weights {
	return Weights{
		Usage:               0.4,
		Age:                 0.3,
		Supersession:        0.3,
		Overlap:             0.2,
		StaleAfter:          90 * 24 * time.Hour,
		LowAccessCeiling:    5,
		MissedCyclesCeiling: 3,
		BorderlineAt:        0.5,
		CandidateAt:         0.7,
	}
}

// IncomingEdge is one edge pointing at the scored document, annotated with
// the lifecycle tier of its source so the engine stays a pure function.
type IncomingEdge struct {
	Edge            *model.RelationshipEdge
	SourceLifecycle model.LifecycleType
}

// Assessment is the engine's output for one document.
type Assessment struct {
	DocumentID     string
	Score          float64
	Reason         string
	Recommendation Recommendation
}

func NewDecisionEngine(weights Weights) *DecisionEngine {
	return &DecisionEngine{
		weights: weights,
	}
}

// DecisionEngine scores documents for archival. Scoring is deterministic and
// side-effect free: the same document, usage aggregate, edge set and asOf
// always produce the same assessment, which makes batch scans idempotent and
// safe to re-run. Applying a recommendation is a separate operator action
// through the archive store.
type DecisionEngine struct {
	weights Weights
}

// Score combines usage staleness, age relative to review cadence and
// supersession into one [0,1] score.
func (e *DecisionEngine) Score(doc *model.Document, usage *model.UsageRecord, incoming []IncomingEdge, asOf time.Time) Assessment {
	return e.score(doc, usage, incoming, asOf, 0, false)
}

// ScoreWithOverlap additionally folds in an externally supplied content
// overlap score in [0,1], e.g. from a duplicate-detection collaborator.
func (e *DecisionEngine) ScoreWithOverlap(doc *model.Document, usage *model.UsageRecord, incoming []IncomingEdge, asOf time.Time, overlap float64) Assessment {
	return e.score(doc, usage, incoming, asOf, clamp01(overlap), true)
}

func (e *DecisionEngine) score(doc *model.Document, usage *model.UsageRecord, incoming []IncomingEdge, asOf time.Time, overlap float64, haveOverlap bool) Assessment {
	w := e.weights

	usageSignal, usageReason := e.usageSignal(usage, asOf)
	ageSignal, ageReason := e.ageSignal(doc, asOf)
	supersessionSignal, supersessionReason := supersessionSignal(incoming)

	total := w.Usage + w.Age + w.Supersession
	sum := w.Usage*usageSignal + w.Age*ageSignal + w.Supersession*supersessionSignal
	if haveOverlap {
		total += w.Overlap
		sum += w.Overlap * overlap
	}

	score := 0.0
	if total > 0 {
		score = sum / total
	}

	reason := dominantReason(
		weighted{w.Usage * usageSignal, usageReason},
		weighted{w.Age * ageSignal, ageReason},
		weighted{w.Supersession * supersessionSignal, supersessionReason},
		weighted{boolWeight(haveOverlap) * w.Overlap * overlap, fmt.Sprintf("content overlaps a newer document (overlap %.2f)", overlap)},
	)
	if supersessionSignal == 1 && w.Supersession > 0 {
		// an existing live replacement is categorical, not a gradient
		reason = supersessionReason
	}

	recommendation := RecommendKeep
	switch {
	case score >= w.CandidateAt:
		recommendation = RecommendCandidate
	case score >= w.BorderlineAt:
		recommendation = RecommendBorderline
	}

	return Assessment{
		DocumentID:     doc.ID,
		Score:          score,
		Reason:         reason,
		Recommendation: recommendation,
	}
}

// usageSignal blends access sparsity with access recency.
func (e *DecisionEngine) usageSignal(usage *model.UsageRecord, asOf time.Time) (float64, string) {
	w := e.weights

	sparsity := 1.0
	if w.LowAccessCeiling > 0 && usage != nil {
		sparsity = clamp01(1 - float64(usage.AccessCount)/float64(w.LowAccessCeiling))
	}

	recency := 1.0
	sinceAccess := time.Duration(0)
	accessed := usage != nil && !usage.LastAccessedAt.IsZero()
	if accessed && w.StaleAfter > 0 {
		sinceAccess = asOf.Sub(usage.LastAccessedAt)
		recency = clamp01(float64(sinceAccess) / float64(w.StaleAfter))
	}

	signal := (sparsity + recency) / 2

	var count int64
	if usage != nil {
		count = usage.AccessCount
	}
	if !accessed {
		return signal, fmt.Sprintf("usage staleness: never accessed (%d recorded accesses)", count)
	}
	return signal, fmt.Sprintf("usage staleness: %d accesses, last %dd ago", count, int(sinceAccess.Hours()/24))
}

// ageSignal measures how many of its own review cycles the document has
// missed since it was last looked at.
func (e *DecisionEngine) ageSignal(doc *model.Document, asOf time.Time) (float64, string) {
	w := e.weights

	reference := doc.LastReviewedAt
	if reference.IsZero() {
		reference = doc.CreatedAt
	}
	if reference.IsZero() || w.MissedCyclesCeiling <= 0 {
		return 0, "age: no review reference point"
	}

	interval := doc.ReviewInterval()
	if interval <= 0 {
		return 0, "age: no review cadence"
	}

	missed := float64(asOf.Sub(reference)) / float64(interval)
	signal := clamp01(missed / w.MissedCyclesCeiling)

	return signal, fmt.Sprintf("age: %.1f review cycles since last review (cadence %dd)", missed, doc.ReviewFrequencyDays)
}

// supersessionSignal saturates as soon as any still-live document already
// claims to replace this one.
func supersessionSignal(incoming []IncomingEdge) (float64, string) {
	for _, in := range incoming {
		if in.Edge == nil || !in.Edge.Type.Supersession() {
			continue
		}
		if in.SourceLifecycle == model.LifecycleArchived {
			continue
		}
		return 1, fmt.Sprintf("superseded: %s points a %s edge at this document", in.Edge.FromID, in.Edge.Type)
	}
	return 0, "superseded: no live replacement"
}

type weighted struct {
	value  float64
	reason string
}

// dominantReason picks the reason of the strongest weighted signal. Ties go
// to the earlier signal so output stays deterministic.
func dominantReason(signals ...weighted) string {
	best := signals[0]
	for _, s := range signals[1:] {
		if s.value > best.value {
			best = s
		}
	}
	return best.reason
}

func boolWeight(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
