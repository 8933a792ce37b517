package ports

import (
	"context"

	"arbor/internal/domain"
)

// TreeSource loads the flat node rows a tree is built from
type TreeSource interface {
	Load(ctx context.Context) ([]domain.Record, error)
}

// TreeStore persists a tree as rows keyed by id with parent_id and
// index_in_parent columns. Changes are written through a transaction so a
// batch of tree events lands atomically.
type TreeStore interface {
	TreeSource

	BeginTx(ctx context.Context) (StoreTx, error)
	Close() error
}

// StoreTx represents a transaction for atomic row updates
type StoreTx interface {
	// InsertNodes adds a subtree. records[0] is the subtree root and shifts
	// the siblings at or after its index; the rest are its descendants.
	// sourceID names the node the subtree was cloned from, "" when new.
	InsertNodes(records []domain.Record, sourceID string) error

	// DeleteNodes removes ids (a subtree rooted at parentID[index]) and
	// closes the gap in that level
	DeleteNodes(parentID string, index int, ids []string) error

	// MoveNode takes id out of oldParentID at oldIndex and puts it into
	// newParentID at newIndex (its final position)
	MoveNode(id, oldParentID string, oldIndex int, newParentID string, newIndex int) error

	RenameNode(id, name string) error

	// Transaction control
	Commit() error
	Rollback() error
}
