package treefile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"arbor/internal/application/commands"
	"arbor/internal/domain"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tree.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0644); err != nil {
		t.Fatal(err)
	}

	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	res, err := commands.NewLoadTreeCommand(store).Execute(ctx)
	if err != nil {
		t.Fatal(err)
	}
	tree := res.Tree

	steps := []struct {
		name string
		run  func() error
	}{
		{"create", func() error {
			_, err := commands.NewCreateCommand(tree, store, "empty", "note.txt", domain.KindLeaf).Execute(ctx)
			return err
		}},
		{"move", func() error {
			_, err := commands.NewMoveCommand(tree, store, []string{"r1"}, "docs/guide.md", domain.Before).Execute(ctx)
			return err
		}},
		{"rename", func() error {
			_, err := commands.NewRenameCommand(tree, store, "docs", "manual").Execute(ctx)
			return err
		}},
		{"duplicate", func() error {
			_, err := commands.NewDuplicateCommand(tree, store, []string{"docs"}, "", domain.After).Execute(ctx)
			return err
		}},
		{"delete", func() error {
			_, err := commands.NewDeleteCommand(tree, store, []string{"docs/api", "empty"}).Execute(ctx)
			return err
		}},
	}

	for _, step := range steps {
		t.Run(step.name, func(t *testing.T) {
			if err := step.run(); err != nil {
				t.Fatalf("%s error = %v", step.name, err)
			}
			got, err := ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile() error = %v", err)
			}
			stored, err := domain.Build(got)
			if err != nil {
				t.Fatal(err)
			}
			if !slices.Equal(stored.Records(), tree.Records()) {
				t.Errorf("file differs from tree\n got: %v\nwant: %v", stored.Records(), tree.Records())
			}
		})
	}
}

func TestStoreMissingFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "new.json")

	store, err := NewStore(path)
	if err != nil {
		t.Fatal(err)
	}
	res, err := commands.NewLoadTreeCommand(store).Execute(ctx)
	if err != nil {
		t.Fatalf("missing file should load as empty tree: %v", err)
	}
	if _, err := commands.NewCreateCommand(res.Tree, store, "", "first", domain.KindBranch).Execute(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("file not created: %v", err)
	}
}

func TestStoreRollback(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tree.yaml")
	os.WriteFile(path, []byte(sampleYAML), 0644)

	store, _ := NewStore(path)
	if _, err := store.Load(ctx); err != nil {
		t.Fatal(err)
	}
	tx, _ := store.BeginTx(ctx)
	if err := tx.InsertNodes([]domain.Record{{ID: "r1", Name: "dup"}}, ""); !errors.Is(err, domain.ErrDuplicateID) {
		t.Fatalf("InsertNodes() error = %v, want ErrDuplicateID", err)
	}
	tx.Rollback()

	tx, _ = store.BeginTx(ctx)
	tx.RenameNode("r1", "LICENSE")
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	records, _ := ReadFile(path)
	if len(records) != 5 {
		t.Errorf("rows after rollback and commit = %d, want 5", len(records))
	}
}
