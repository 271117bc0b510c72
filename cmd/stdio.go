package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/fsgate/fsgate/internal/config"
	"github.com/fsgate/fsgate/internal/log"
	mcpSdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// runStdio starts the MCP server on stdio transport. No bearer auth
// here: the transport is a local pipe owned by whoever launched the
// process.
func runStdio() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Stdout belongs to the MCP transport, so logs go to stderr only.
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := log.New(log.Config{Level: level, JSON: cfg.LogJSON})

	logger.Info("starting MCP server", "version", Version, "transport", "stdio")

	mcpServer, _, err := setupMCPServer(cfg, logger)
	if err != nil {
		return err
	}

	if err := mcpServer.Run(ctx, &mcpSdk.StdioTransport{}); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}

	logger.Info("MCP server shut down gracefully")
	return nil
}
