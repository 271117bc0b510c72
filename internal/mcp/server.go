package mcp

import (
	"context"
	"fmt"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fsgate/fsgate/internal/log"
	"github.com/fsgate/fsgate/internal/tools"
)

// Server wraps the MCP SDK server and the fsgate file toolset.
type Server struct {
	mcpServer *mcp.Server
	file      *tools.FileToolset
	logger    log.Logger
	name      string
	version   string
}

// Config holds MCP server configuration.
type Config struct {
	Name    string
	Version string
	Logger  log.Logger
	File    *tools.FileToolset
}

// NewServer creates a new MCP server and registers all tools.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("server name is required")
	}
	if cfg.Version == "" {
		return nil, fmt.Errorf("server version is required")
	}
	if cfg.File == nil {
		return nil, fmt.Errorf("file toolset is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.NewNop()
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, nil)

	s := &Server{
		mcpServer: mcpServer,
		file:      cfg.File,
		logger:    logger,
		name:      cfg.Name,
		version:   cfg.Version,
	}

	if err := s.registerFileTools(); err != nil {
		return nil, fmt.Errorf("registering file tools: %w", err)
	}

	return s, nil
}

// Run starts the MCP server on the given transport. Blocking; handles all
// MCP protocol communication until ctx is canceled or the peer closes.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	return s.mcpServer.Run(ctx, transport)
}

// HTTPHandler returns the streamable HTTP handler for this server. The
// caller is responsible for putting the authentication gate and the rest
// of the middleware chain in front of it.
func (s *Server) HTTPHandler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcpServer
	}, nil)
}
