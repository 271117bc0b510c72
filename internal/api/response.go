package api

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
)

// writeJSON writes a JSON response with the given status code. Buffer-first
// so headers are only sent after successful encoding, which allows a proper
// 500 if encoding fails.
func writeJSON(w http.ResponseWriter, status int, data any) {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		// Client disconnects are common and expected
		slog.Debug("failed to write response body", "error", err)
	}
}

// WriteError writes a JSON error response. The body carries only the
// human-readable message ({"error": ...}, the stable wire shape); the
// machine code goes to the log.
func WriteError(w http.ResponseWriter, status int, code, message string, logger *slog.Logger) {
	logger.Debug("request rejected", "status", status, "code", code)
	writeJSON(w, status, map[string]string{"error": message})
}
