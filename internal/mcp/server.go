// ABOUTME: MCP server setup for the experiment database.
// ABOUTME: Wraps the MCP server around the shared repository bundle.
package mcp

import (
	"context"

	"github.com/kgaertn/PAH-PCA-LDA/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
)

// Server wraps the MCP server with repository access.
type Server struct {
	mcpServer *mcp.Server
	repos     *storage.Repositories
	logger    zerolog.Logger
}

// NewServer creates a new MCP server reading through repos.
func NewServer(repos *storage.Repositories, logger zerolog.Logger) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "pahdb",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		repos:     repos,
		logger:    logger,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info().Msg("serving MCP on stdio")
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
