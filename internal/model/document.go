package model

import (
	"encoding/json"
	"time"
)

// LifecycleType is the tier a document lives in.
type LifecycleType string

const (
	// LifecycleLiving marks a continuously maintained reference document.
	LifecycleLiving LifecycleType = "living"
	// LifecycleActive marks an ordinary document under periodic review.
	LifecycleActive LifecycleType = "active"
	// LifecycleArchived marks a document that has been retired. Archived
	// documents are excluded from review scheduling until restored.
	LifecycleArchived LifecycleType = "archived"
)

type Status string

const (
	StatusActive      Status = "active"
	StatusNeedsReview Status = "needs_review"
	StatusUpdating    Status = "updating"
	StatusDeprecated  Status = "deprecated"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank orders priorities for scheduling. Unknown values sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Document is the registry's authoritative metadata row for one document.
// The body lives elsewhere; the registry only tracks lifecycle state,
// review cadence and the optimistic-concurrency version clock.
type Document struct {
	ID                  string        `gorm:"primaryKey;not null"`
	Title               string        `gorm:"not null"`
	LifecycleType       LifecycleType `gorm:"not null;index"`
	Category            string        `gorm:"index"`
	Priority            Priority      `gorm:"not null"`
	ReviewFrequencyDays int           `gorm:"not null"`
	LastReviewedAt      time.Time
	NextReviewDate      time.Time `gorm:"index"`
	ReviewCount         int       `gorm:"not null"`
	Status              Status    `gorm:"not null;index"`
	Version             int64     `gorm:"not null"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Archived reports whether the document is in the terminal (restorable) tier.
func (d *Document) Archived() bool {
	return d.LifecycleType == LifecycleArchived
}

// ReviewInterval is the document's review cadence as a duration.
func (d *Document) ReviewInterval() time.Duration {
	return time.Duration(d.ReviewFrequencyDays) * 24 * time.Hour
}

func (d *Document) MarshalBinary() ([]byte, error) {
	return json.Marshal(d)
}

func (d *Document) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, d)
}
