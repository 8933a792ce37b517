package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"arbor/internal/application/commands"
	"arbor/internal/domain"
)

// RegisterWriteTools adds all tree-changing tools to the MCP server.
func RegisterWriteTools(s *server.MCPServer, sess *Session) {
	s.AddTool(createTool(), sess.handler(createHandler))
	s.AddTool(renameTool(), sess.handler(renameHandler))
	s.AddTool(moveTool(), sess.handler(moveHandler))
	s.AddTool(duplicateTool(), sess.handler(duplicateHandler))
	s.AddTool(deleteTool(), sess.handler(deleteHandler))
}

var positionEnum = mcp.Enum("before", "after", "inside")

// --- create ---

func createTool() mcp.Tool {
	return mcp.NewTool("create",
		mcp.WithDescription("Create a leaf or branch at the end of a parent's children."),
		mcp.WithString("parent_id",
			mcp.Description("Parent branch ID. Omit to create a top-level node."),
		),
		mcp.WithString("name",
			mcp.Description("Name for the new node; must be unique among its siblings"),
			mcp.Required(),
		),
		mcp.WithString("kind",
			mcp.Description("leaf (default) or branch"),
			mcp.Enum("leaf", "branch"),
		),
	)
}

func createHandler(ctx context.Context, sess *Session, req mcp.CallToolRequest) (string, error) {
	tree := sess.tree
	kind, err := domain.ParseKind(req.GetString("kind", "leaf"))
	if err != nil {
		return "", err
	}

	cmd := commands.NewCreateCommand(tree, sess.store, req.GetString("parent_id", ""), req.GetString("name", ""), kind)
	result, err := cmd.Execute(ctx)
	if err != nil {
		return "", err
	}
	return result.Message + " [" + result.Node.ID() + "]", nil
}

// --- rename ---

func renameTool() mcp.Tool {
	return mcp.NewTool("rename",
		mcp.WithDescription("Rename a node. Fails if a sibling already has the name."),
		mcp.WithString("id",
			mcp.Description("ID of the node to rename"),
			mcp.Required(),
		),
		mcp.WithString("name",
			mcp.Description("New name"),
			mcp.Required(),
		),
	)
}

func renameHandler(ctx context.Context, sess *Session, req mcp.CallToolRequest) (string, error) {
	tree := sess.tree
	cmd := commands.NewRenameCommand(tree, sess.store, req.GetString("id", ""), req.GetString("name", ""))
	result, err := cmd.Execute(ctx)
	if err != nil {
		return "", err
	}
	return result.Message, nil
}

// --- move ---

func moveTool() mcp.Tool {
	return mcp.NewTool("move",
		mcp.WithDescription("Move nodes before, after or inside a target. Several sources keep their order and stay together. A node cannot move into its own subtree."),
		mcp.WithString("source_ids",
			mcp.Description("Comma-separated IDs of the nodes to move"),
			mcp.Required(),
		),
		mcp.WithString("target_id",
			mcp.Description("ID of the node to move relative to"),
			mcp.Required(),
		),
		mcp.WithString("position",
			mcp.Description("Where to put the nodes relative to the target (default inside)"),
			positionEnum,
		),
	)
}

func moveHandler(ctx context.Context, sess *Session, req mcp.CallToolRequest) (string, error) {
	tree := sess.tree
	ids, err := requiredIDs(req, "source_ids")
	if err != nil {
		return "", err
	}
	pos, err := positionArg(req, domain.Inside)
	if err != nil {
		return "", err
	}

	result, err := commands.NewMoveCommand(tree, sess.store, ids, req.GetString("target_id", ""), pos).Execute(ctx)
	if err != nil {
		return "", err
	}
	return result.Message, nil
}

// --- duplicate ---

func duplicateTool() mcp.Tool {
	return mcp.NewTool("duplicate",
		mcp.WithDescription("Deep-copy nodes with fresh IDs. Copies whose name is taken get a ' copy' suffix."),
		mcp.WithString("source_ids",
			mcp.Description("Comma-separated IDs of the nodes to copy"),
			mcp.Required(),
		),
		mcp.WithString("target_id",
			mcp.Description("ID of the node to place the copies relative to. Omit to place them after the last source."),
		),
		mcp.WithString("position",
			mcp.Description("Where to put the copies relative to the target (default after)"),
			positionEnum,
		),
	)
}

func duplicateHandler(ctx context.Context, sess *Session, req mcp.CallToolRequest) (string, error) {
	tree := sess.tree
	ids, err := requiredIDs(req, "source_ids")
	if err != nil {
		return "", err
	}
	pos, err := positionArg(req, domain.After)
	if err != nil {
		return "", err
	}

	result, err := commands.NewDuplicateCommand(tree, sess.store, ids, req.GetString("target_id", ""), pos).Execute(ctx)
	if err != nil {
		return "", err
	}
	return result.Message, nil
}

// --- delete ---

func deleteTool() mcp.Tool {
	return mcp.NewTool("delete",
		mcp.WithDescription("Delete nodes and everything below them."),
		mcp.WithString("ids",
			mcp.Description("Comma-separated IDs of the nodes to delete"),
			mcp.Required(),
		),
	)
}

func deleteHandler(ctx context.Context, sess *Session, req mcp.CallToolRequest) (string, error) {
	tree := sess.tree
	ids, err := requiredIDs(req, "ids")
	if err != nil {
		return "", err
	}

	result, err := commands.NewDeleteCommand(tree, sess.store, ids).Execute(ctx)
	if err != nil {
		return "", err
	}
	return result.Message, nil
}
