package api

import (
	"errors"
	"log/slog"
	"net/http"
)

// ServerConfig contains configuration for creating the HTTP server.
type ServerConfig struct {
	Logger      *slog.Logger
	MCPHandler  http.Handler // Required: streamable MCP endpoint handler
	APIKey      string       // Required: bearer token for /mcp
	Root        string       // Sandbox root, checked by /ready
	CORSOrigins []string     // Allowed origins for CORS
	TrustProxy  bool         // Trust X-Real-IP/X-Forwarded-For headers (behind reverse proxy)
	RateBurst   int          // Rate limiter burst size per IP (0 = default 60)
}

// Server is the HTTP shell around the MCP endpoint.
type Server struct {
	mux *http.ServeMux
}

// NewServer creates the server with all routes configured.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.MCPHandler == nil {
		return nil, errors.New("mcp handler is required")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("api key is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	mux.Handle("/mcp", cfg.MCPHandler)

	// Per-IP token bucket, 1 token/sec refill.
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 60
	}
	rl := newIPLimiter(1.0, burst)

	// Build middleware stack (outermost first):
	//   Recovery → RequestID → Logging → CORS → RateLimit → Auth → Routes
	// RequestID must be before Logging so request_id is available in log attributes.
	// CORS must be before Auth so preflight OPTIONS never needs credentials.
	var handler http.Handler = mux
	handler = authMiddleware(cfg.APIKey, logger)(handler)
	handler = rateLimitMiddleware(rl, cfg.TrustProxy, logger)(handler)
	handler = corsMiddleware(cfg.CORSOrigins)(handler)
	handler = loggingMiddleware(logger)(handler)
	handler = requestIDMiddleware()(handler)
	handler = recoveryMiddleware(logger)(handler)

	// Health probes live on a top-level mux outside the middleware
	// stack so orchestrators never need credentials or burn rate
	// limiter tokens.
	topMux := http.NewServeMux()
	topMux.HandleFunc("GET /health", health)
	topMux.Handle("GET /ready", readiness(cfg.Root))
	topMux.Handle("/", handler)

	return &Server{mux: topMux}, nil
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}
