package model

import "time"

// ReviewRecord is one entry in a document's append-only review history.
// Records are never mutated after creation.
type ReviewRecord struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	DocumentID  string `gorm:"not null;index"`
	ReviewedBy  string `gorm:"not null"`
	ChangesMade bool   `gorm:"not null"`
	Notes       string
	ReviewedAt  time.Time `gorm:"not null"`
}

func (r *ReviewRecord) TableName() string {
	return "review_records"
}
