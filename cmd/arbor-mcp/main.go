package main

import (
	"context"
	"flag"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	mcpadapter "arbor/internal/adapters/mcp"
	"arbor/internal/adapters/storage"
	"arbor/internal/config"
)

func main() {
	settings, err := config.Resolve("")
	if err != nil {
		log.Fatalf("arbor-mcp: %v", err)
	}
	target := storage.TargetFrom(settings)

	flag.StringVar(&target.Database, "db", target.Database, "path to the arbor database")
	flag.StringVar(&target.Dir, "dir", "", "serve a directory instead of the database")
	flag.StringVar(&target.File, "file", "", "serve a YAML or JSON tree document instead of the database")
	flag.BoolVar(&target.ShowHidden, "hidden", target.ShowHidden, "include dot files when reading a directory")
	flag.Parse()

	store, err := storage.Open(target)
	if err != nil {
		log.Fatalf("arbor-mcp: %v", err)
	}
	defer store.Close()

	sess, err := mcpadapter.NewSession(context.Background(), store)
	if err != nil {
		log.Fatalf("arbor-mcp: %v", err)
	}

	mcpServer := server.NewMCPServer(
		"arbor-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check — returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.Register(mcpServer, sess)

	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatalf("arbor-mcp: %v", err)
	}
}
