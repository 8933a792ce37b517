package commands

import (
	"context"
	"fmt"

	"arbor/internal/application"
	"arbor/internal/domain"
	"arbor/internal/ports"
)

// DuplicateResult contains the ids of the inserted copies
type DuplicateResult struct {
	IDs     []string
	Message string
}

// DuplicateCommand deep-copies nodes next to or into a target with fresh ids
type DuplicateCommand struct {
	tree      *domain.Tree
	store     ports.TreeStore
	SourceIDs []string
	TargetID  string
	Position  domain.Position
}

// NewDuplicateCommand creates a new DuplicateCommand. An empty targetID
// places each copy right after the last source.
func NewDuplicateCommand(tree *domain.Tree, store ports.TreeStore, sourceIDs []string, targetID string, pos domain.Position) *DuplicateCommand {
	return &DuplicateCommand{
		tree:      tree,
		store:     store,
		SourceIDs: sourceIDs,
		TargetID:  targetID,
		Position:  pos,
	}
}

// Validate checks if the duplicate operation is valid
func (c *DuplicateCommand) Validate() error {
	if len(c.SourceIDs) == 0 {
		return &application.ValidationError{
			Field:   "sourceID",
			Message: "source ID is required",
		}
	}
	for _, id := range c.SourceIDs {
		if _, err := application.ResolveNode(c.tree, "sourceID", id); err != nil {
			return err
		}
	}
	if c.TargetID == "" {
		return nil
	}
	target, err := application.ResolveNode(c.tree, "targetID", c.TargetID)
	if err != nil {
		return err
	}
	if c.Position == domain.Inside && !target.IsBranch() {
		return &application.ValidationError{
			Field:   "targetID",
			Message: fmt.Sprintf("%s is a leaf and cannot hold children", target.Name()),
		}
	}
	return nil
}

// Execute runs the duplicate command
func (c *DuplicateCommand) Execute(ctx context.Context) (*DuplicateResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	targetID, pos := c.TargetID, c.Position
	if targetID == "" {
		sources := c.tree.Topmost(c.SourceIDs)
		targetID, pos = sources[len(sources)-1].ID(), domain.After
	}

	var ids []string
	events, err := record(c.tree, func() error {
		copies, err := c.tree.CopyTo(c.SourceIDs, targetID, pos)
		for _, n := range copies {
			ids = append(ids, n.ID())
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to duplicate: %w", err)
	}
	if err := Persist(ctx, c.store, events); err != nil {
		return nil, err
	}

	return &DuplicateResult{
		IDs:     ids,
		Message: fmt.Sprintf("Duplicated %s", describe(c.tree, ids)),
	}, nil
}
