package commands

import (
	"context"
	"errors"
	"fmt"

	"arbor/internal/domain"
	"arbor/internal/ports"
)

// PasteResult contains the result of a paste operation
type PasteResult struct {
	domain.PasteResult
	Message string
}

// PasteCommand inserts the clipboard at a destination
type PasteCommand struct {
	tree          *domain.Tree
	store         ports.TreeStore
	DestinationID string
}

// NewPasteCommand creates a new PasteCommand. An empty destinationID pastes
// at the end of the root list.
func NewPasteCommand(tree *domain.Tree, store ports.TreeStore, destinationID string) *PasteCommand {
	return &PasteCommand{
		tree:          tree,
		store:         store,
		DestinationID: destinationID,
	}
}

// Execute runs the paste command
func (c *PasteCommand) Execute(ctx context.Context) (*PasteResult, error) {
	var res domain.PasteResult
	events, err := record(c.tree, func() error {
		var err error
		res, err = c.tree.Paste(c.DestinationID)
		return err
	})
	if errors.Is(err, domain.ErrCircularReference) {
		return nil, fmt.Errorf("cannot paste into a node that is being moved: %w", err)
	}
	if err != nil {
		return nil, err
	}
	if res.Noop {
		return &PasteResult{PasteResult: res, Message: "Nothing to paste"}, nil
	}
	if err := Persist(ctx, c.store, events); err != nil {
		return nil, err
	}

	verb := "Pasted"
	if res.Op == domain.ClipboardCut {
		verb = "Moved"
	}
	return &PasteResult{
		PasteResult: res,
		Message:     fmt.Sprintf("%s %s", verb, describe(c.tree, res.IDs)),
	}, nil
}
