package mcp

import (
	"context"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fsgate/fsgate/internal/tools"
)

// registerFileTools registers the five filesystem tools. Names are
// snake_case to match the published tool surface.
func (s *Server) registerFileTools() error {
	readSchema, err := jsonschema.For[tools.ReadFileInput](nil)
	if err != nil {
		return fmt.Errorf("schema for read_file: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "read_file",
		Description: "Read the contents of a file inside the server root (only allowed file types).",
		InputSchema: readSchema,
	}, s.readFile)

	writeSchema, err := jsonschema.For[tools.WriteFileInput](nil)
	if err != nil {
		return fmt.Errorf("schema for write_file: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "write_file",
		Description: "Write content to a file (creates or overwrites; parent directories are created as needed).",
		InputSchema: writeSchema,
	}, s.writeFile)

	listSchema, err := jsonschema.For[tools.ListDirectoryInput](nil)
	if err != nil {
		return fmt.Errorf("schema for list_directory: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_directory",
		Description: "List contents of a directory (directories always shown, files filtered to allowed types).",
		InputSchema: listSchema,
	}, s.listDirectory)

	deleteSchema, err := jsonschema.For[tools.DeleteFileInput](nil)
	if err != nil {
		return fmt.Errorf("schema for delete_file: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_file",
		Description: "Delete a file (only allowed file types).",
		InputSchema: deleteSchema,
	}, s.deleteFile)

	createSchema, err := jsonschema.For[tools.CreateDirectoryInput](nil)
	if err != nil {
		return fmt.Errorf("schema for create_directory: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "create_directory",
		Description: "Create a directory, including missing parent directories.",
		InputSchema: createSchema,
	}, s.createDirectory)

	return nil
}

func (s *Server) readFile(ctx context.Context, _ *mcp.CallToolRequest, input tools.ReadFileInput) (*mcp.CallToolResult, any, error) {
	result, err := s.file.ReadFile(ctx, input)
	if err != nil {
		return nil, nil, fmt.Errorf("read_file failed: %w", err)
	}
	return resultToMCP(result, s.logger), nil, nil
}

func (s *Server) writeFile(ctx context.Context, _ *mcp.CallToolRequest, input tools.WriteFileInput) (*mcp.CallToolResult, any, error) {
	result, err := s.file.WriteFile(ctx, input)
	if err != nil {
		return nil, nil, fmt.Errorf("write_file failed: %w", err)
	}
	return resultToMCP(result, s.logger), nil, nil
}

func (s *Server) listDirectory(ctx context.Context, _ *mcp.CallToolRequest, input tools.ListDirectoryInput) (*mcp.CallToolResult, any, error) {
	result, err := s.file.ListDirectory(ctx, input)
	if err != nil {
		return nil, nil, fmt.Errorf("list_directory failed: %w", err)
	}
	return resultToMCP(result, s.logger), nil, nil
}

func (s *Server) deleteFile(ctx context.Context, _ *mcp.CallToolRequest, input tools.DeleteFileInput) (*mcp.CallToolResult, any, error) {
	result, err := s.file.DeleteFile(ctx, input)
	if err != nil {
		return nil, nil, fmt.Errorf("delete_file failed: %w", err)
	}
	return resultToMCP(result, s.logger), nil, nil
}

func (s *Server) createDirectory(ctx context.Context, _ *mcp.CallToolRequest, input tools.CreateDirectoryInput) (*mcp.CallToolResult, any, error) {
	result, err := s.file.CreateDirectory(ctx, input)
	if err != nil {
		return nil, nil, fmt.Errorf("create_directory failed: %w", err)
	}
	return resultToMCP(result, s.logger), nil, nil
}
