package commands

import (
	"context"
	"fmt"

	"arbor/internal/domain"
	"arbor/internal/ports"
)

// record runs fn and returns the structural events the tree emitted meanwhile
func record(tree *domain.Tree, fn func() error) ([]domain.Event, error) {
	var events []domain.Event
	unsubscribe := tree.Subscribe(func(e domain.Event) {
		if e.Type != domain.EventNameConflict {
			events = append(events, e)
		}
	})
	defer unsubscribe()

	err := fn()
	return events, err
}

// Persist writes tree events to store in a single transaction. The tree has
// already changed when this runs; on error the caller should reload from the
// store. A nil store means the tree is not backed by one.
func Persist(ctx context.Context, store ports.TreeStore, events []domain.Event) error {
	if store == nil || len(events) == 0 {
		return nil
	}

	tx, err := store.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for _, e := range events {
		if err := applyEvent(tx, e); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to persist %s of %s: %w", e.Type, e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func applyEvent(tx ports.StoreTx, e domain.Event) error {
	switch e.Type {
	case domain.EventInsert:
		return tx.InsertNodes(e.Records, e.SourceID)
	case domain.EventMove:
		return tx.MoveNode(e.ID, e.OldParentID, e.OldIndex, e.ParentID, e.Index)
	case domain.EventRename:
		return tx.RenameNode(e.ID, e.Name)
	case domain.EventDelete:
		return tx.DeleteNodes(e.ParentID, e.Index, e.RemovedIDs)
	default:
		return nil
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// describe names a single node or counts several
func describe(tree *domain.Tree, ids []string) string {
	if len(ids) == 1 {
		if n, ok := tree.Get(ids[0]); ok {
			return n.Name()
		}
	}
	return plural(len(ids), "node")
}
