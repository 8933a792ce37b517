package mcp

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"arbor/internal/application/commands"
	"arbor/internal/domain"
	"arbor/internal/ports"
)

// Session is the tree the tools operate on. The server may run handlers
// concurrently and the tree has a single writer, so every call holds mu.
type Session struct {
	mu    sync.Mutex
	tree  *domain.Tree
	store ports.TreeStore
}

// NewSession loads the tree from store
func NewSession(ctx context.Context, store ports.TreeStore) (*Session, error) {
	res, err := commands.NewLoadTreeCommand(store).Execute(ctx)
	if err != nil {
		return nil, err
	}
	return &Session{tree: res.Tree, store: store}, nil
}

// Register adds every read and write tool to the MCP server
func Register(s *server.MCPServer, sess *Session) {
	RegisterReadTools(s, sess)
	RegisterWriteTools(s, sess)
}

// handler wraps fn so it runs with the session locked on a tree freshly
// reloaded from the store, picking up changes made by other processes
func (sess *Session) handler(fn func(ctx context.Context, sess *Session, req mcp.CallToolRequest) (string, error)) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sess.mu.Lock()
		defer sess.mu.Unlock()

		if err := commands.Reload(ctx, sess.store, sess.tree); err != nil {
			return toolError(err)
		}
		text, err := fn(ctx, sess, req)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(text), nil
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

// splitIDs accepts ids separated by commas or newlines
func splitIDs(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '\n'
	})
}

func trimAll(ids []string) []string {
	for i, id := range ids {
		ids[i] = strings.TrimSpace(id)
	}
	return ids
}

func requiredIDs(req mcp.CallToolRequest, key string) ([]string, error) {
	ids := trimAll(splitIDs(req.GetString(key, "")))
	if len(ids) == 0 {
		return nil, fmt.Errorf("%s is required", key)
	}
	return ids, nil
}

func positionArg(req mcp.CallToolRequest, def domain.Position) (domain.Position, error) {
	s := req.GetString("position", "")
	if s == "" {
		return def, nil
	}
	return domain.ParsePosition(s)
}
