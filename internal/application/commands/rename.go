package commands

import (
	"context"
	"errors"
	"fmt"

	"arbor/internal/application"
	"arbor/internal/domain"
	"arbor/internal/ports"
)

// RenameResult contains the result of a rename operation
type RenameResult struct {
	ID      string
	OldName string
	NewName string
	Message string
}

// RenameCommand renames a node
type RenameCommand struct {
	tree    *domain.Tree
	store   ports.TreeStore
	ID      string
	NewName string
}

// NewRenameCommand creates a new RenameCommand
func NewRenameCommand(tree *domain.Tree, store ports.TreeStore, id, newName string) *RenameCommand {
	return &RenameCommand{
		tree:    tree,
		store:   store,
		ID:      id,
		NewName: newName,
	}
}

// Validate checks if the rename operation is valid
func (c *RenameCommand) Validate() error {
	if _, err := application.ResolveNode(c.tree, "id", c.ID); err != nil {
		return err
	}
	return application.ValidateName("name", c.NewName)
}

// Execute runs the rename command. A sibling with the same name yields a
// *domain.ConflictError and leaves the tree unchanged.
func (c *RenameCommand) Execute(ctx context.Context) (*RenameResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	node, _ := c.tree.Get(c.ID)
	oldName := node.Name()

	events, err := record(c.tree, func() error {
		return c.tree.Rename(c.ID, c.NewName)
	})
	if errors.Is(err, domain.ErrEmptyName) {
		return nil, &application.ValidationError{Field: "name", Message: "name is required"}
	}
	if err != nil {
		return nil, err
	}
	if err := Persist(ctx, c.store, events); err != nil {
		return nil, err
	}

	return &RenameResult{
		ID:      c.ID,
		OldName: oldName,
		NewName: node.Name(),
		Message: fmt.Sprintf("Renamed %s to %s", oldName, node.Name()),
	}, nil
}
