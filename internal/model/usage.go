package model

import "time"

// UsageRecord is the per-document access aggregate. Raw access events are not
// retained; the counter is only ever incremented, never decremented.
type UsageRecord struct {
	DocumentID     string `gorm:"primaryKey;not null"`
	AccessCount    int64  `gorm:"not null"`
	LastAccessedAt time.Time
}

func (u *UsageRecord) TableName() string {
	return "usage_records"
}
