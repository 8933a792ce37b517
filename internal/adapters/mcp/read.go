package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"arbor/internal/application"
	"arbor/internal/application/commands"
	"arbor/internal/domain"
)

// RegisterReadTools adds all read-only tree tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, sess *Session) {
	s.AddTool(treeTool(), sess.handler(treeHandler))
	s.AddTool(getTool(), sess.handler(getHandler))
	s.AddTool(findTool(), sess.handler(findHandler))
}

// --- tree ---

func treeTool() mcp.Tool {
	return mcp.NewTool("tree",
		mcp.WithDescription("Display the tree, or the subtree under a node. Branches end with '/', ids follow in brackets."),
		mcp.WithString("root_id",
			mcp.Description("Node to start from. Omit for the whole tree."),
		),
		mcp.WithNumber("depth",
			mcp.Description("Levels to show below the start (0 = unlimited)"),
		),
	)
}

func treeHandler(_ context.Context, sess *Session, req mcp.CallToolRequest) (string, error) {
	tree := sess.tree
	level := tree.Roots()
	if id := req.GetString("root_id", ""); id != "" {
		n, err := application.ResolveNode(tree, "id", id)
		if err != nil {
			return "", err
		}
		level = []*domain.Node{n}
	}
	if len(level) == 0 {
		return "Tree is empty.", nil
	}

	var sb strings.Builder
	renderTree(&sb, level, "", req.GetInt("depth", 0))
	return sb.String(), nil
}

// renderTree writes one line per node; maxDepth 0 means no limit
func renderTree(sb *strings.Builder, level []*domain.Node, prefix string, maxDepth int) {
	for _, n := range level {
		fmt.Fprintf(sb, "%s%s  [%s]\n", prefix, displayName(n), n.ID())
		if maxDepth == 1 {
			continue
		}
		next := maxDepth
		if next > 0 {
			next--
		}
		renderTree(sb, n.Children(), prefix+"  ", next)
	}
}

func displayName(n *domain.Node) string {
	if n.IsBranch() {
		return n.Name() + "/"
	}
	return n.Name()
}

// --- get ---

func getTool() mcp.Tool {
	return mcp.NewTool("get",
		mcp.WithDescription("Show a node: kind, path, parent, position among siblings and children."),
		mcp.WithString("id",
			mcp.Description("Node ID"),
			mcp.Required(),
		),
	)
}

func getHandler(_ context.Context, sess *Session, req mcp.CallToolRequest) (string, error) {
	tree := sess.tree
	n, err := application.ResolveNode(tree, "id", req.GetString("id", ""))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "id: %s\n", n.ID())
	fmt.Fprintf(&sb, "name: %s\n", n.Name())
	fmt.Fprintf(&sb, "kind: %s\n", n.Kind())
	fmt.Fprintf(&sb, "path: %s\n", application.NodePath(n))
	if n.Parent() != nil {
		fmt.Fprintf(&sb, "parent: %s\n", n.ParentID())
	}
	fmt.Fprintf(&sb, "position: %d of %d\n", n.PositionInSet(), n.SetSize())
	if n.IsBranch() {
		fmt.Fprintf(&sb, "children: %d\n", len(n.Children()))
		for _, c := range n.Children() {
			fmt.Fprintf(&sb, "  %s  [%s]\n", displayName(c), c.ID())
		}
	}
	return sb.String(), nil
}

// --- find ---

func findTool() mcp.Tool {
	return mcp.NewTool("find",
		mcp.WithDescription("Fuzzy-search nodes by their name path (e.g. 'docapi' matches docs/api). Best matches first."),
		mcp.WithString("query",
			mcp.Description("Search query"),
			mcp.Required(),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum results (default 20)"),
		),
	)
}

func findHandler(ctx context.Context, sess *Session, req mcp.CallToolRequest) (string, error) {
	tree := sess.tree
	query := req.GetString("query", "")
	if strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("query is required")
	}

	cmd := commands.NewFindCommand(tree, query)
	cmd.Limit = req.GetInt("limit", 20)
	results, err := cmd.Execute(ctx)
	if err != nil {
		return "", err
	}

	if len(results) == 0 {
		return "No results found.", nil
	}

	var sb strings.Builder
	for _, r := range results {
		fmt.Fprintf(&sb, "%s  [%s]\n", r.Path, r.Node.ID())
	}
	return sb.String(), nil
}
