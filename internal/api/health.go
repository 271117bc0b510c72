package api

import (
	"net/http"
	"os"
)

// health is a liveness endpoint for container orchestrator probes.
// Returns 200 OK with {"status":"ok"}.
func health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// readiness reports whether the sandbox root is present and is a
// directory. A missing or replaced root means tool calls would fail,
// so the server reports 503 until it reappears.
func readiness(root string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
