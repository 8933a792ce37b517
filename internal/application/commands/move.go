package commands

import (
	"context"
	"fmt"

	"arbor/internal/application"
	"arbor/internal/domain"
	"arbor/internal/ports"
)

// MoveResult contains the result of moving nodes
type MoveResult struct {
	MovedIDs []string
	ParentID string
	Message  string
}

// MoveCommand moves one or more nodes before, after or inside a target.
// Several sources keep their document order and end up adjacent.
type MoveCommand struct {
	tree      *domain.Tree
	store     ports.TreeStore
	SourceIDs []string
	TargetID  string
	Position  domain.Position
}

// NewMoveCommand creates a new MoveCommand
func NewMoveCommand(tree *domain.Tree, store ports.TreeStore, sourceIDs []string, targetID string, pos domain.Position) *MoveCommand {
	return &MoveCommand{
		tree:      tree,
		store:     store,
		SourceIDs: sourceIDs,
		TargetID:  targetID,
		Position:  pos,
	}
}

// Validate checks if the move operation is valid
func (c *MoveCommand) Validate() error {
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

	target, err := application.ResolveNode(c.tree, "targetID", c.TargetID)
	if err != nil {
		return err
	}
	if c.Position == domain.Inside && !target.IsBranch() {
		return &domain.MoveError{SourceID: c.SourceIDs[0], DestID: c.TargetID, Err: domain.ErrInvalidTarget}
	}
	return nil
}

// Execute runs the move command. All sources are checked for circular
// references before any of them moves.
func (c *MoveCommand) Execute(ctx context.Context) (*MoveResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	sources := c.tree.Topmost(c.SourceIDs)
	for _, src := range sources {
		if c.TargetID == src.ID() || c.tree.Contains(src.ID(), c.TargetID) {
			return nil, &domain.MoveError{SourceID: src.ID(), DestID: c.TargetID, Err: domain.ErrCircularReference}
		}
	}

	// with several sources, the first moves relative to the target and the
	// rest follow it
	var moved []string
	events, err := record(c.tree, func() error {
		anchor, pos := c.TargetID, c.Position
		for _, src := range sources {
			if err := c.tree.Move(src.ID(), anchor, pos); err != nil {
				return err
			}
			moved = append(moved, src.ID())
			anchor, pos = src.ID(), domain.After
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := Persist(ctx, c.store, events); err != nil {
		return nil, err
	}

	first, _ := c.tree.Get(moved[0])
	target, _ := c.tree.Get(c.TargetID)
	return &MoveResult{
		MovedIDs: moved,
		ParentID: first.ParentID(),
		Message:  fmt.Sprintf("Moved %s %s %s", describe(c.tree, moved), c.Position, target.Name()),
	}, nil
}
