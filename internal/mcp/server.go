// ABOUTME: MCP server setup for the insight engine.
// ABOUTME: Wraps the MCP server with the engine and entry store.
package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/insight/internal/engine"
	"github.com/harperreed/insight/internal/storage"
)

// Server wraps the MCP server with engine access.
type Server struct {
	mcpServer *mcp.Server
	engine    *engine.Engine
	entries   storage.EntryStore
}

// NewServer creates a new MCP server over the given engine and store.
func NewServer(eng *engine.Engine, entries storage.EntryStore) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "insight",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		engine:    eng,
		entries:   entries,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
