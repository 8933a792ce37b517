package commands

import (
	"context"
	"fmt"

	"arbor/internal/application"
	"arbor/internal/domain"
	"arbor/internal/ports"
)

// CreateResult contains the result of creating a node
type CreateResult struct {
	Node    *domain.Node
	Message string
}

// CreateCommand adds a leaf or branch under a parent
type CreateCommand struct {
	tree     *domain.Tree
	store    ports.TreeStore
	ParentID string
	Name     string
	Kind     domain.Kind
	// Index is the insertion point among the parent's children; negative appends
	Index int
}

// NewCreateCommand creates a new CreateCommand that appends to parentID
// ("" for the root list)
func NewCreateCommand(tree *domain.Tree, store ports.TreeStore, parentID, name string, kind domain.Kind) *CreateCommand {
	return &CreateCommand{
		tree:     tree,
		store:    store,
		ParentID: parentID,
		Name:     name,
		Kind:     kind,
		Index:    -1,
	}
}

// Validate checks if the create operation is valid
func (c *CreateCommand) Validate() error {
	if err := application.ValidateName("name", c.Name); err != nil {
		return err
	}
	return application.ValidateBranch(c.tree, "parentID", c.ParentID)
}

// Execute runs the create command
func (c *CreateCommand) Execute(ctx context.Context) (*CreateResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	size := len(c.tree.Roots())
	if parent, ok := c.tree.Get(c.ParentID); ok {
		size = len(parent.Children())
	}
	index := c.Index
	if index < 0 || index > size {
		index = size
	}

	var node *domain.Node
	events, err := record(c.tree, func() error {
		var err error
		node, err = c.tree.Insert(c.ParentID, index, c.Name, c.Kind)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", c.Kind, err)
	}
	if err := Persist(ctx, c.store, events); err != nil {
		return nil, err
	}

	return &CreateResult{
		Node:    node,
		Message: fmt.Sprintf("Created %s %s", c.Kind, node.Name()),
	}, nil
}
