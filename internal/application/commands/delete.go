package commands

import (
	"context"
	"fmt"

	"arbor/internal/application"
	"arbor/internal/domain"
	"arbor/internal/ports"
)

// DeleteResult contains the result of a delete operation
type DeleteResult struct {
	RemovedIDs []string
	// NearestID is the node that should receive focus next ("" if the tree is empty)
	NearestID string
	Message   string
}

// DeleteCommand removes nodes and their subtrees
type DeleteCommand struct {
	tree  *domain.Tree
	store ports.TreeStore
	IDs   []string
}

// NewDeleteCommand creates a new DeleteCommand
func NewDeleteCommand(tree *domain.Tree, store ports.TreeStore, ids []string) *DeleteCommand {
	return &DeleteCommand{
		tree:  tree,
		store: store,
		IDs:   ids,
	}
}

// Validate checks that every id exists
func (c *DeleteCommand) Validate() error {
	if len(c.IDs) == 0 {
		return &application.ValidationError{
			Field:   "ids",
			Message: "node IDs are required",
		}
	}
	for _, id := range c.IDs {
		if _, err := application.ResolveNode(c.tree, "id", id); err != nil {
			return err
		}
	}
	return nil
}

// Execute runs the delete command
func (c *DeleteCommand) Execute(ctx context.Context) (*DeleteResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	top := c.tree.Topmost(c.IDs)
	label := plural(len(top), "node")
	if len(top) == 1 {
		label = top[0].Name()
	}

	var res domain.DeleteResult
	events, _ := record(c.tree, func() error {
		res = c.tree.Delete(c.IDs)
		return nil
	})
	if err := Persist(ctx, c.store, events); err != nil {
		return nil, err
	}

	message := fmt.Sprintf("Deleted %s", label)
	if len(res.RemovedIDs) > len(top) {
		message += fmt.Sprintf(" (%s in total)", plural(len(res.RemovedIDs), "node"))
	}
	return &DeleteResult{
		RemovedIDs: res.RemovedIDs,
		NearestID:  res.NearestID,
		Message:    message,
	}, nil
}
