package commands

import (
	"context"
	"fmt"
	"log"
	"strings"

	"arbor/internal/application"
	"arbor/internal/domain"
	"arbor/internal/ports"
)

// ClipboardResult contains the result of a copy or cut
type ClipboardResult struct {
	Count int
	// SystemCopied is set when the node paths also reached the OS clipboard
	SystemCopied bool
	Message      string
}

// ClipboardCommand marks nodes for a later paste. The node paths are also
// written to the system clipboard when one is available.
type ClipboardCommand struct {
	tree   *domain.Tree
	system ports.Clipboard
	IDs    []string
	Op     domain.ClipboardOp
}

// NewClipboardCommand creates a new ClipboardCommand; system may be nil
func NewClipboardCommand(tree *domain.Tree, system ports.Clipboard, ids []string, op domain.ClipboardOp) *ClipboardCommand {
	return &ClipboardCommand{
		tree:   tree,
		system: system,
		IDs:    ids,
		Op:     op,
	}
}

// Validate checks that there is something to copy
func (c *ClipboardCommand) Validate() error {
	if len(c.IDs) == 0 {
		return &application.ValidationError{
			Field:   "ids",
			Message: "node IDs are required",
		}
	}
	return nil
}

// Execute runs the clipboard command
func (c *ClipboardCommand) Execute(ctx context.Context) (*ClipboardResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	count := c.tree.CopyToClipboard(c.IDs, c.Op)
	if count == 0 {
		return nil, application.NotFound(strings.Join(c.IDs, ", "))
	}

	result := &ClipboardResult{Count: count}
	if c.system != nil && c.system.Available() {
		var paths []string
		for _, n := range c.tree.Topmost(c.IDs) {
			paths = append(paths, application.NodePath(n))
		}
		if err := c.system.WriteText(strings.Join(paths, "\n")); err != nil {
			log.Printf("warning: failed to write system clipboard: %v", err)
		} else {
			result.SystemCopied = true
		}
	}

	verb := "Copied"
	if c.Op == domain.ClipboardCut {
		verb = "Cut"
	}
	result.Message = fmt.Sprintf("%s %s", verb, plural(count, "node"))
	return result, nil
}
