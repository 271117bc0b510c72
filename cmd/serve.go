package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsgate/fsgate/internal/api"
	"github.com/fsgate/fsgate/internal/config"
	"github.com/fsgate/fsgate/internal/mcp"
	"github.com/fsgate/fsgate/internal/security"
	"github.com/fsgate/fsgate/internal/tools"
)

// Server timeout configuration.
const (
	readHeaderTimeout = 10 * time.Second
	readTimeout       = 30 * time.Second
	writeTimeout      = 2 * time.Minute // SSE streaming needs longer timeout
	idleTimeout       = 2 * time.Minute
	shutdownTimeout   = 30 * time.Second
)

// runServe initializes and starts the HTTP MCP server.
func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err = cfg.ValidateServe(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	addr, err := parseServeAddr(cfg.Addr)
	if err != nil {
		return fmt.Errorf("parsing address: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := slog.Default()
	logger.Info("starting HTTP MCP server", "version", Version)

	mcpServer, root, err := setupMCPServer(cfg, logger)
	if err != nil {
		return err
	}

	apiServer, err := api.NewServer(api.ServerConfig{
		Logger:      logger,
		MCPHandler:  mcpServer.HTTPHandler(),
		APIKey:      cfg.APIKey,
		Root:        root,
		CORSOrigins: cfg.CORSOrigins,
		TrustProxy:  cfg.TrustProxy,
		RateBurst:   cfg.RateBurst,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	logger.Info("HTTP server ready",
		"addr", addr,
		"root", root,
		"mcp", "/mcp",
		"health", "/health, /ready",
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down HTTP server")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down server: %w", err)
		}
		<-errCh
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("HTTP server: %w", err)
	}
}

// setupMCPServer builds the sandbox, the toolset and the MCP server
// from configuration. The sandbox root is created if missing so a
// fresh deployment works without manual setup. Returns the server and
// the canonical root path.
func setupMCPServer(cfg *config.Config, logger *slog.Logger) (*mcp.Server, string, error) {
	if err := os.MkdirAll(cfg.Root, 0o750); err != nil {
		return nil, "", fmt.Errorf("creating sandbox root: %w", err)
	}

	sandbox, err := security.NewSandbox(cfg.Root)
	if err != nil {
		return nil, "", fmt.Errorf("creating sandbox: %w", err)
	}

	policy := security.NewExtensionPolicy(cfg.AllowedExtensions)

	toolset, err := tools.NewFileToolset(sandbox, policy, cfg.SerializeWrites, logger)
	if err != nil {
		return nil, "", fmt.Errorf("creating file toolset: %w", err)
	}

	mcpServer, err := mcp.NewServer(mcp.Config{
		Name:    "fsgate",
		Version: Version,
		Logger:  logger,
		File:    toolset,
	})
	if err != nil {
		return nil, "", fmt.Errorf("creating MCP server: %w", err)
	}

	logger.Info("sandbox ready",
		"root", sandbox.Root(),
		"allowed_extensions", policy.Extensions(),
	)

	return mcpServer, sandbox.Root(), nil
}
