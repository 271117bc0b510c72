package mcp

import (
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fsgate/fsgate/internal/log"
	"github.com/fsgate/fsgate/internal/tools"
)

// Error detail policy for MCP responses: the structured error message is
// the only detail exposed. Never expose stack traces, resolved filesystem
// paths, environment variables, or internal identifiers; full details are
// logged server-side instead.

// resultToMCP converts a tools.Result to an MCP call result. Success data
// is serialized as JSON text content; failures become IsError results
// carrying the error message.
func resultToMCP(result tools.Result, logger log.Logger) *mcp.CallToolResult {
	if result.Status == tools.StatusError {
		logger.Debug("tool error", "code", result.Error.Code, "message", result.Error.Message)
		errorPayload, err := json.Marshal(map[string]string{"error": result.Error.Message})
		if err != nil {
			logger.Warn("marshaling error payload", "error", err)
			errorPayload = []byte(`{"error":"internal error"}`)
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(errorPayload)}},
			IsError: true,
		}
	}

	return dataToMCP(result.Data, logger)
}

// dataToMCP converts a success payload to MCP text content via JSON
// marshaling. All data becomes JSON; clients parse it.
func dataToMCP(data map[string]any, logger log.Logger) *mcp.CallToolResult {
	if data == nil {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: "{}"}},
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		logger.Warn("marshaling tool payload", "error", err)
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: `{"error":"internal error"}`}},
			IsError: true,
		}
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(b)}},
	}
}
