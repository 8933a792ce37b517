package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"arbor/internal/domain"
	"arbor/internal/ports"
)

// memStore records the row operations a command persisted
type memStore struct {
	records   []domain.Record
	committed []string
	failOn    string
}

func (s *memStore) Load(ctx context.Context) ([]domain.Record, error) {
	return s.records, nil
}

func (s *memStore) BeginTx(ctx context.Context) (ports.StoreTx, error) {
	return &memTx{store: s}, nil
}

func (s *memStore) Close() error { return nil }

type memTx struct {
	store *memStore
	ops   []string
}

func (tx *memTx) op(format string, args ...any) error {
	op := fmt.Sprintf(format, args...)
	if tx.store.failOn != "" && strings.HasPrefix(op, tx.store.failOn) {
		return errors.New("disk full")
	}
	tx.ops = append(tx.ops, op)
	return nil
}

func (tx *memTx) InsertNodes(records []domain.Record, sourceID string) error {
	return tx.op("insert %s under %q at %d (%d rows)", records[0].ID, records[0].ParentID, records[0].Index, len(records))
}

func (tx *memTx) DeleteNodes(parentID string, index int, ids []string) error {
	return tx.op("delete %s from %q at %d (%d rows)", ids[0], parentID, index, len(ids))
}

func (tx *memTx) MoveNode(id, oldParentID string, oldIndex int, newParentID string, newIndex int) error {
	return tx.op("move %s from %q:%d to %q:%d", id, oldParentID, oldIndex, newParentID, newIndex)
}

func (tx *memTx) RenameNode(id, name string) error {
	return tx.op("rename %s to %s", id, name)
}

func (tx *memTx) Commit() error {
	tx.store.committed = append(tx.store.committed, tx.ops...)
	return nil
}

func (tx *memTx) Rollback() error {
	tx.ops = nil
	return nil
}

var _ ports.TreeStore = (*memStore)(nil)

// fixtureRecords is docs[guide.md, api[v1.md]], src[main.go], README.md
func fixtureRecords() []domain.Record {
	return []domain.Record{
		{ID: "docs", Name: "docs", Kind: domain.KindBranch, Index: 0},
		{ID: "guide", ParentID: "docs", Name: "guide.md", Index: 0},
		{ID: "api", ParentID: "docs", Name: "api", Kind: domain.KindBranch, Index: 1},
		{ID: "v1", ParentID: "api", Name: "v1.md", Index: 0},
		{ID: "src", Name: "src", Kind: domain.KindBranch, Index: 1},
		{ID: "main", ParentID: "src", Name: "main.go", Index: 0},
		{ID: "readme", Name: "README.md", Index: 2},
	}
}

func setupTree(t *testing.T) (*domain.Tree, *memStore) {
	t.Helper()
	store := &memStore{records: fixtureRecords()}
	n := 0
	res, err := NewLoadTreeCommand(store, domain.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("id%d", n)
	})).Execute(context.Background())
	if err != nil {
		t.Fatalf("failed to load tree: %v", err)
	}
	return res.Tree, store
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}

func names(nodes []*domain.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name()
	}
	return out
}
