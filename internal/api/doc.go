// Package api provides the HTTP shell around the MCP endpoint.
//
// # Architecture
//
// The server uses Go 1.22+ routing with a layered middleware stack:
//
//	Recovery → RequestID → Logging → CORS → RateLimit → Auth → /mcp
//
// Health probes (/health, /ready) bypass the middleware stack via a
// top-level mux, so orchestrators never need credentials and never
// consume rate limiter tokens.
//
// # Endpoints
//
// Health probes (no middleware):
//   - GET /health — liveness, returns {"status":"ok"}
//   - GET /ready  — readiness, 200 while the sandbox root is a directory
//
// MCP (authenticated):
//   - POST/GET/DELETE /mcp — streamable MCP transport
//
// # Authentication
//
// Every /mcp request must carry "Authorization: Bearer <API_KEY>".
// Tokens are compared in constant time. CORS preflight (OPTIONS)
// requests pass without credentials since browsers strip headers from
// preflights. Rejections carry a {"error": "..."} body that never
// echoes the configured key.
//
// # Security
//
// The middleware stack additionally enforces:
//   - Per-IP rate limiting (token bucket, configurable burst)
//   - CORS with explicit origin allowlist
//   - Panic recovery with sanitized 500 responses
package api
