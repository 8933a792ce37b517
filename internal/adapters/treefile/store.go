package treefile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"arbor/internal/domain"
	"arbor/internal/ports"
)

// Store implements ports.TreeStore on a tree document. Rows are kept in
// memory and the whole file is rewritten on every commit.
type Store struct {
	path   string
	format Format
	rows   map[string]domain.Record
}

// Ensure Store implements TreeStore
var _ ports.TreeStore = (*Store)(nil)

// NewStore opens the document at path; a missing file is an empty tree
func NewStore(path string) (*Store, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	return &Store{path: path, format: format, rows: make(map[string]domain.Record)}, nil
}

// Path returns the document path
func (s *Store) Path() string {
	return s.path
}

// Load reads the document
func (s *Store) Load(ctx context.Context) ([]domain.Record, error) {
	records, err := ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		records, err = nil, nil
	}
	if err != nil {
		return nil, err
	}

	s.rows = make(map[string]domain.Record, len(records))
	for _, r := range records {
		s.rows[r.ID] = r
	}
	return records, nil
}

// Close is a no-op; nothing is held open between commits
func (s *Store) Close() error {
	return nil
}

// BeginTx snapshots the rows so Rollback can restore them
func (s *Store) BeginTx(ctx context.Context) (ports.StoreTx, error) {
	return &fileTx{store: s, saved: cloneRows(s.rows)}, nil
}

func cloneRows(rows map[string]domain.Record) map[string]domain.Record {
	out := make(map[string]domain.Record, len(rows))
	for k, v := range rows {
		out[k] = v
	}
	return out
}

// write rebuilds the tree from the rows and replaces the file atomically
func (s *Store) write() error {
	records := make([]domain.Record, 0, len(s.rows))
	for _, r := range s.rows {
		records = append(records, r)
	}
	// Build sorts siblings stably by index; feed it a deterministic order
	slices.SortFunc(records, func(a, b domain.Record) int {
		if a.ParentID != b.ParentID {
			if a.ParentID < b.ParentID {
				return -1
			}
			return 1
		}
		return a.Index - b.Index
	})
	tree, err := domain.Build(records)
	if err != nil {
		return fmt.Errorf("rows no longer form a tree: %w", err)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, tree, s.format); err != nil {
		return err
	}
	return writeAtomic(s.path, buf.Bytes())
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// ReadFile decodes the document at path, choosing the format by extension
func ReadFile(path string) ([]domain.Record, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f, format)
}

// WriteFile encodes tree to path, choosing the format by extension
func WriteFile(path string, tree *domain.Tree) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, tree, format); err != nil {
		return err
	}
	return writeAtomic(path, buf.Bytes())
}

// fileTx implements ports.StoreTx on the in-memory rows
type fileTx struct {
	store *Store
	saved map[string]domain.Record
}

// Ensure fileTx implements StoreTx
var _ ports.StoreTx = (*fileTx)(nil)

func (t *fileTx) shift(parentID string, from, delta int, skipID string) {
	for id, r := range t.store.rows {
		if r.ParentID == parentID && r.Index >= from && id != skipID {
			r.Index += delta
			t.store.rows[id] = r
		}
	}
}

func (t *fileTx) InsertNodes(records []domain.Record, _ string) error {
	if len(records) == 0 {
		return nil
	}
	t.shift(records[0].ParentID, records[0].Index, 1, "")
	for _, r := range records {
		if _, dup := t.store.rows[r.ID]; dup {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateID, r.ID)
		}
		t.store.rows[r.ID] = r
	}
	return nil
}

func (t *fileTx) DeleteNodes(parentID string, index int, ids []string) error {
	for _, id := range ids {
		delete(t.store.rows, id)
	}
	t.shift(parentID, index+1, -1, "")
	return nil
}

func (t *fileTx) MoveNode(id, oldParentID string, oldIndex int, newParentID string, newIndex int) error {
	r, ok := t.store.rows[id]
	if !ok {
		return fmt.Errorf("node %s not in %s", id, t.store.path)
	}
	t.shift(oldParentID, oldIndex+1, -1, id)
	t.shift(newParentID, newIndex, 1, id)
	r.ParentID, r.Index = newParentID, newIndex
	t.store.rows[id] = r
	return nil
}

func (t *fileTx) RenameNode(id, name string) error {
	r, ok := t.store.rows[id]
	if !ok {
		return fmt.Errorf("node %s not in %s", id, t.store.path)
	}
	r.Name = name
	t.store.rows[id] = r
	return nil
}

// Commit writes the document
func (t *fileTx) Commit() error {
	if err := t.store.write(); err != nil {
		t.store.rows = t.saved
		return err
	}
	return nil
}

// Rollback restores the rows from before the transaction
func (t *fileTx) Rollback() error {
	t.store.rows = t.saved
	return nil
}
