package commands

import (
	"context"
	"strings"

	"github.com/sahilm/fuzzy"

	"arbor/internal/domain"
)

// FindResult is a node matched by a fuzzy query
type FindResult struct {
	Node *domain.Node
	// Path is the "/"-joined name path the query was matched against
	Path           string
	Score          int
	MatchedIndexes []int
}

// nodePaths adapts a node list to fuzzy.Source
type nodePaths struct {
	nodes []*domain.Node
	paths []string
}

func (p nodePaths) String(i int) string { return p.paths[i] }
func (p nodePaths) Len() int            { return len(p.paths) }

// FindCommand searches every node (visible or not) by name path
type FindCommand struct {
	tree  *domain.Tree
	Query string
	Limit int
}

// NewFindCommand creates a new FindCommand
func NewFindCommand(tree *domain.Tree, query string) *FindCommand {
	return &FindCommand{
		tree:  tree,
		Query: query,
	}
}

// Execute runs the search and returns matches best first
func (c *FindCommand) Execute(ctx context.Context) ([]FindResult, error) {
	query := strings.TrimSpace(c.Query)
	if query == "" {
		return nil, nil
	}

	var src nodePaths
	for n := range c.tree.All() {
		src.nodes = append(src.nodes, n)
		src.paths = append(src.paths, strings.Join(n.Path(), "/"))
	}

	matches := fuzzy.FindFrom(query, src)
	if c.Limit > 0 && len(matches) > c.Limit {
		matches = matches[:c.Limit]
	}

	results := make([]FindResult, 0, len(matches))
	for _, m := range matches {
		results = append(results, FindResult{
			Node:           src.nodes[m.Index],
			Path:           m.Str,
			Score:          m.Score,
			MatchedIndexes: m.MatchedIndexes,
		})
	}
	return results, nil
}
