package model

import "time"

// ArchiveRecord is the reversible provenance entry written when a document is
// archived. Restoring the document leaves its records in place; the history
// of every archival stays queryable forever.
type ArchiveRecord struct {
	ID            uint   `gorm:"primaryKey;autoIncrement"`
	DocumentID    string `gorm:"not null;index"`
	LocationRef   string
	Reason        string `gorm:"not null"`
	ArchivedBy    string `gorm:"not null"`
	ReplacementID string
	// Snapshot is the document row as it stood at archive time, JSON encoded
	// and compressed with Codec. Kept so an operator can audit exactly what
	// was archived even after later restores and re-reviews.
	Snapshot   []byte
	Codec      string
	ArchivedAt time.Time `gorm:"not null;index"`
}

func (a *ArchiveRecord) TableName() string {
	return "archive_records"
}
