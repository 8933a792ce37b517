package commands

import (
	"context"
	"fmt"

	"arbor/internal/domain"
	"arbor/internal/ports"
)

// LoadTreeResult contains the loaded tree
type LoadTreeResult struct {
	Tree    *domain.Tree
	Message string
}

// LoadTreeCommand builds a tree from a source (store, directory or tree file)
type LoadTreeCommand struct {
	source      ports.TreeSource
	opts        []domain.Option
	ExpandDepth int
}

// NewLoadTreeCommand creates a new LoadTreeCommand
func NewLoadTreeCommand(source ports.TreeSource, opts ...domain.Option) *LoadTreeCommand {
	return &LoadTreeCommand{
		source: source,
		opts:   opts,
	}
}

// Execute loads the records and builds the tree
func (c *LoadTreeCommand) Execute(ctx context.Context) (*LoadTreeResult, error) {
	records, err := c.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load tree: %w", err)
	}

	tree, err := domain.Build(records, c.opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build tree: %w", err)
	}
	if c.ExpandDepth > 0 {
		tree.ExpandToDepth(c.ExpandDepth)
	}

	return &LoadTreeResult{
		Tree:    tree,
		Message: fmt.Sprintf("Loaded %s", plural(tree.Len(), "node")),
	}, nil
}

// Reload replaces tree's structure with the source's current records while
// keeping selection and expansion of ids that still exist
func Reload(ctx context.Context, source ports.TreeSource, tree *domain.Tree) error {
	records, err := source.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to reload tree: %w", err)
	}
	if err := tree.Load(records); err != nil {
		return fmt.Errorf("failed to rebuild tree: %w", err)
	}
	return nil
}
