package filesystem

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"arbor/internal/domain"
	"arbor/internal/ports"
)

// dirTx implements ports.StoreTx by touching the disk directly. Sibling order
// is not stored: a reload sorts directories first, then by name.
type dirTx struct {
	ctx  context.Context
	repo *Repository
}

// Ensure dirTx implements StoreTx
var _ ports.StoreTx = (*dirTx)(nil)

func (t *dirTx) abs(rel string) string {
	return filepath.Join(t.repo.root, filepath.FromSlash(rel))
}

// InsertNodes creates the subtree. A clone copies its source's contents;
// anything else becomes an empty file or directory.
func (t *dirTx) InsertNodes(records []domain.Record, sourceID string) error {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()

	if len(records) == 0 {
		return nil
	}
	if err := t.ctx.Err(); err != nil {
		return err
	}

	parentRel, err := t.repo.relPath(records[0].ParentID)
	if err != nil {
		return err
	}
	for _, rec := range records {
		if err := checkName(rec.Name); err != nil {
			return err
		}
	}

	rootRel := path.Join(parentRel, records[0].Name)
	if err := ensureFree(t.abs(rootRel)); err != nil {
		return err
	}

	if sourceID != "" {
		srcRel, err := t.repo.relPath(sourceID)
		if err != nil {
			return err
		}
		if err := copyTree(t.abs(srcRel), t.abs(rootRel)); err != nil {
			return fmt.Errorf("failed to copy %s: %w", srcRel, err)
		}
		// clone names match the source below the root
		t.repo.paths[records[0].ID] = rootRel
		for _, rec := range records[1:] {
			t.repo.paths[rec.ID] = path.Join(t.repo.paths[rec.ParentID], rec.Name)
		}
		return nil
	}

	for _, rec := range records {
		rel := rootRel
		if rec.ID != records[0].ID {
			rel = path.Join(t.repo.paths[rec.ParentID], rec.Name)
		}
		if err := create(t.abs(rel), rec.Kind); err != nil {
			return err
		}
		t.repo.paths[rec.ID] = rel
	}
	return nil
}

func create(p string, kind domain.Kind) error {
	if kind == domain.KindBranch {
		if err := os.Mkdir(p, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		return nil
	}
	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	return f.Close()
}

// DeleteNodes removes the subtree rooted at ids[0]
func (t *dirTx) DeleteNodes(_ string, _ int, ids []string) error {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()

	if len(ids) == 0 {
		return nil
	}
	rel, err := t.repo.relPath(ids[0])
	if err != nil {
		return err
	}
	if err := os.RemoveAll(t.abs(rel)); err != nil {
		return fmt.Errorf("failed to delete %s: %w", rel, err)
	}
	for _, id := range ids {
		delete(t.repo.paths, id)
	}
	return nil
}

// MoveNode renames id into its new parent directory. Moves within one
// directory only reorder and leave the disk alone.
func (t *dirTx) MoveNode(id, oldParentID string, _ int, newParentID string, _ int) error {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()

	if oldParentID == newParentID {
		return nil
	}
	oldRel, err := t.repo.relPath(id)
	if err != nil {
		return err
	}
	parentRel, err := t.repo.relPath(newParentID)
	if err != nil {
		return err
	}
	return t.rename(oldRel, path.Join(parentRel, path.Base(oldRel)))
}

// RenameNode renames the file or directory in place
func (t *dirTx) RenameNode(id, name string) error {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()

	if err := checkName(name); err != nil {
		return err
	}
	oldRel, err := t.repo.relPath(id)
	if err != nil {
		return err
	}
	return t.rename(oldRel, path.Join(path.Dir(oldRel), name))
}

func (t *dirTx) rename(oldRel, newRel string) error {
	if newRel == oldRel {
		return nil
	}
	if err := ensureFree(t.abs(newRel)); err != nil {
		return err
	}
	if err := os.Rename(t.abs(oldRel), t.abs(newRel)); err != nil {
		return fmt.Errorf("failed to move %s: %w", oldRel, err)
	}
	t.repo.relocate(oldRel, newRel)
	return nil
}

// Commit is a no-op: every operation is already on disk
func (t *dirTx) Commit() error {
	return nil
}

// Rollback cannot undo disk changes; callers reload instead
func (t *dirTx) Rollback() error {
	return nil
}
