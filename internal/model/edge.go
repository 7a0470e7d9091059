package model

import "time"

type EdgeType string

const (
	// EdgeReplaces means the source document supersedes the target.
	EdgeReplaces EdgeType = "replaces"
	// EdgeReferences means the source document cites the target.
	EdgeReferences EdgeType = "references"
	// EdgeExtends means the source document builds on the target.
	EdgeExtends EdgeType = "extends"
	// EdgeArchivedBy means the source was archived in favor of the target.
	EdgeArchivedBy EdgeType = "archived_by"
)

// Known reports whether t is one of the defined edge types.
func (t EdgeType) Known() bool {
	switch t {
	case EdgeReplaces, EdgeReferences, EdgeExtends, EdgeArchivedBy:
		return true
	}
	return false
}

// Supersession reports whether an edge of this type marks its target (for
// replaces) or records its source (for archived_by) as superseded material.
func (t EdgeType) Supersession() bool {
	return t == EdgeReplaces || t == EdgeArchivedBy
}

// RelationshipEdge is a directed typed link between two documents. Edges are
// insert-mostly and may form cycles; nothing here assumes the graph is a tree.
type RelationshipEdge struct {
	ID        uint     `gorm:"primaryKey;autoIncrement"`
	FromID    string   `gorm:"not null;index:idx_edges_from"`
	ToID      string   `gorm:"not null;index:idx_edges_to"`
	Type      EdgeType `gorm:"not null"`
	CreatedAt time.Time
}

func (e *RelationshipEdge) TableName() string {
	return "relationship_edges"
}
