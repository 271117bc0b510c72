// Package cmd provides CLI commands for fsgate.
//
// Commands:
//   - serve: HTTP server exposing the MCP endpoint behind bearer auth
//   - stdio: MCP server on stdio for local editor/agent integration
//
// Signal handling and graceful shutdown are implemented for both
// commands via context cancellation.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
)

// Execute is the main entry point for the fsgate CLI.
func Execute() error {
	// Initialize logger once at entry point
	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if len(os.Args) < 2 {
		runHelp()
		return nil
	}

	switch os.Args[1] {
	case "serve":
		return runServe()
	case "stdio":
		return runStdio()
	case "version", "--version", "-v":
		runVersion()
		return nil
	case "help", "--help", "-h":
		runHelp()
		return nil
	default:
		return fmt.Errorf("unknown command: %s", os.Args[1])
	}
}

// runHelp displays the help message.
func runHelp() {
	fmt.Println("fsgate - Sandboxed filesystem MCP server")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  fsgate serve [addr]  Start HTTP MCP server (default: 127.0.0.1:8443)")
	fmt.Println("  fsgate stdio         Start MCP server on stdio (for editors/agents)")
	fmt.Println("  fsgate --version     Show version information")
	fmt.Println("  fsgate --help        Show this help")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  FSGATE_API_KEY       Required for serve: bearer token for /mcp")
	fmt.Println("  FSGATE_ROOT          Optional: sandbox root directory (default ./sandbox)")
	fmt.Println("  FSGATE_ADDR          Optional: listen address override")
	fmt.Println("  FSGATE_CORS_ORIGINS  Optional: comma-separated allowed origins")
	fmt.Println("  FSGATE_TRUST_PROXY   Optional: trust X-Real-IP/X-Forwarded-For")
	fmt.Println("  FSGATE_RATE_BURST    Optional: per-IP rate limiter burst")
	fmt.Println("  DEBUG                Optional: enable debug logging")
}
