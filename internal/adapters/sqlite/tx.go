package sqlite

import (
	"context"
	"database/sql"

	"arbor/internal/domain"
	"arbor/internal/ports"
)

// storeTx implements ports.StoreTx
type storeTx struct {
	ctx context.Context
	tx  *sql.Tx
}

// Ensure storeTx implements StoreTx
var _ ports.StoreTx = (*storeTx)(nil)

// InsertNodes opens a slot at records[0]'s index and writes the subtree.
// Rows carry no content, so sourceID is not needed.
func (t *storeTx) InsertNodes(records []domain.Record, _ string) error {
	if len(records) == 0 {
		return nil
	}
	root := records[0]
	if err := t.shift(root.ParentID, root.Index, 1, ""); err != nil {
		return err
	}

	stmt, err := t.tx.PrepareContext(t.ctx, `
		INSERT INTO nodes (id, parent_id, index_in_parent, kind, name)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(t.ctx, r.ID, r.ParentID, r.Index, r.Kind.String(), r.Name); err != nil {
			return err
		}
	}
	return nil
}

// DeleteNodes removes the rows and closes the gap they leave
func (t *storeTx) DeleteNodes(parentID string, index int, ids []string) error {
	stmt, err := t.tx.PrepareContext(t.ctx, `DELETE FROM nodes WHERE id = ?`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, id := range ids {
		if _, err := stmt.ExecContext(t.ctx, id); err != nil {
			return err
		}
	}
	return t.shift(parentID, index+1, -1, "")
}

// MoveNode closes the gap at the old position, opens one at the new position
// and places the row there
func (t *storeTx) MoveNode(id, oldParentID string, oldIndex int, newParentID string, newIndex int) error {
	if err := t.shift(oldParentID, oldIndex+1, -1, id); err != nil {
		return err
	}
	if err := t.shift(newParentID, newIndex, 1, id); err != nil {
		return err
	}
	_, err := t.tx.ExecContext(t.ctx, `
		UPDATE nodes SET parent_id = ?, index_in_parent = ?
		WHERE id = ?
	`, newParentID, newIndex, id)
	return err
}

// RenameNode updates a node's name
func (t *storeTx) RenameNode(id, name string) error {
	_, err := t.tx.ExecContext(t.ctx, `UPDATE nodes SET name = ? WHERE id = ?`, name, id)
	return err
}

// shift adds delta to index_in_parent of parentID's children at or after
// from, leaving skipID alone
func (t *storeTx) shift(parentID string, from, delta int, skipID string) error {
	_, err := t.tx.ExecContext(t.ctx, `
		UPDATE nodes SET index_in_parent = index_in_parent + ?
		WHERE parent_id = ? AND index_in_parent >= ? AND id != ?
	`, delta, parentID, from, skipID)
	return err
}

// Commit commits the transaction
func (t *storeTx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction
func (t *storeTx) Rollback() error {
	return t.tx.Rollback()
}
