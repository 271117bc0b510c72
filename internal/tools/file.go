package tools

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/fsgate/fsgate/internal/log"
	"github.com/fsgate/fsgate/internal/security"
)

// Entry type constants for ListDirectory results, matching the wire
// contract ("dir" | "file").
const (
	entryTypeFile      = "file"
	entryTypeDirectory = "dir"
)

// MaxReadFileSize is the maximum file size allowed for ReadFile (10 MB).
// Prevents OOM when reading large files into memory.
const MaxReadFileSize = 10 * 1024 * 1024

// lockRetryDelay is the polling interval for opt-in write serialization.
const lockRetryDelay = 10 * time.Millisecond

// ReadFileInput defines input for the read_file tool.
type ReadFileInput struct {
	Path string `json:"path" jsonschema:"The file path to read, relative to the server root"`
}

// WriteFileInput defines input for the write_file tool.
type WriteFileInput struct {
	Path    string `json:"path" jsonschema:"The file path to write, relative to the server root"`
	Content string `json:"content" jsonschema:"The content to write to the file"`
}

// ListDirectoryInput defines input for the list_directory tool.
type ListDirectoryInput struct {
	Path string `json:"path,omitempty" jsonschema:"The directory path to list, relative to the server root; empty lists the root"`
}

// DeleteFileInput defines input for the delete_file tool.
type DeleteFileInput struct {
	Path string `json:"path" jsonschema:"The file path to delete, relative to the server root"`
}

// CreateDirectoryInput defines input for the create_directory tool.
type CreateDirectoryInput struct {
	Path string `json:"path" jsonschema:"The directory path to create, relative to the server root"`
}

// FileToolset implements the five filesystem operations behind the tool
// surface. Every operation validates its path through the sandbox first;
// read, write, and delete additionally pass the extension policy.
//
// There is no coordination between concurrent callers by default: two
// writes to the same path race at the filesystem level and the last
// writer wins. SerializeWrites opts in to per-file advisory locking.
type FileToolset struct {
	sandbox         *security.Sandbox
	policy          *security.ExtensionPolicy
	serializeWrites bool
	logger          log.Logger
}

// NewFileToolset creates a FileToolset.
func NewFileToolset(sandbox *security.Sandbox, policy *security.ExtensionPolicy, serializeWrites bool, logger log.Logger) (*FileToolset, error) {
	if sandbox == nil {
		return nil, fmt.Errorf("sandbox is required")
	}
	if policy == nil {
		return nil, fmt.Errorf("extension policy is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &FileToolset{
		sandbox:         sandbox,
		policy:          policy,
		serializeWrites: serializeWrites,
		logger:          logger,
	}, nil
}

// validationFailure maps sandbox and policy errors to their error codes.
func validationFailure(err error) Result {
	switch {
	case errors.Is(err, security.ErrOutOfBounds):
		return failure(ErrCodeOutOfBounds, err.Error())
	case errors.Is(err, security.ErrDisallowedType):
		return failure(ErrCodeDisallowedType, err.Error())
	default:
		return failure(ErrCodeIO, err.Error())
	}
}

// ReadFile reads and returns the complete content of a file.
func (fs *FileToolset) ReadFile(_ context.Context, input ReadFileInput) (Result, error) {
	fs.logger.Info("read_file called", "path", input.Path)

	safePath, err := fs.sandbox.Resolve(input.Path)
	if err != nil {
		return validationFailure(err), nil
	}
	if err := fs.policy.Check(safePath); err != nil {
		return validationFailure(err), nil
	}

	file, err := os.Open(safePath) // #nosec G304 - validated by the sandbox above
	if err != nil {
		if os.IsNotExist(err) {
			return failure(ErrCodeNotFound, fmt.Sprintf("file %q does not exist", input.Path)), nil
		}
		return failure(ErrCodeIO, fmt.Sprintf("unable to open file: %v", err)), nil
	}
	defer func() { _ = file.Close() }()

	info, err := file.Stat()
	if err != nil {
		return failure(ErrCodeIO, fmt.Sprintf("unable to stat file: %v", err)), nil
	}
	if info.IsDir() {
		return failure(ErrCodeWrongKind, fmt.Sprintf("%q is not a file", input.Path)), nil
	}
	if info.Size() > MaxReadFileSize {
		return failure(ErrCodeIO, fmt.Sprintf("file too large: %d bytes (max %d)", info.Size(), MaxReadFileSize)), nil
	}

	content, err := io.ReadAll(io.LimitReader(file, MaxReadFileSize))
	if err != nil {
		return failure(ErrCodeIO, fmt.Sprintf("unable to read file: %v", err)), nil
	}

	return success(fmt.Sprintf("read %q", input.Path), map[string]any{
		"path":    input.Path,
		"content": string(content),
		"size":    len(content),
	}), nil
}

// WriteFile writes content to a file, creating missing parent directories
// and silently overwriting an existing file.
func (fs *FileToolset) WriteFile(ctx context.Context, input WriteFileInput) (Result, error) {
	fs.logger.Info("write_file called", "path", input.Path, "size", len(input.Content))

	safePath, err := fs.sandbox.Resolve(input.Path)
	if err != nil {
		return validationFailure(err), nil
	}
	if err := fs.policy.Check(safePath); err != nil {
		return validationFailure(err), nil
	}

	if mkdirErr := os.MkdirAll(filepath.Dir(safePath), 0o750); mkdirErr != nil {
		return failure(ErrCodeIO, fmt.Sprintf("unable to create parent directory: %v", mkdirErr)), nil
	}

	if fs.serializeWrites {
		fl := flock.New(safePath)
		locked, lockErr := fl.TryLockContext(ctx, lockRetryDelay)
		if lockErr != nil {
			return failure(ErrCodeIO, fmt.Sprintf("unable to lock file: %v", lockErr)), nil
		}
		if locked {
			defer func() { _ = fl.Unlock() }()
		}
	}

	// #nosec G304 - validated by the sandbox above
	if err := os.WriteFile(safePath, []byte(input.Content), 0o600); err != nil {
		return failure(ErrCodeIO, fmt.Sprintf("unable to write file: %v", err)), nil
	}

	size := len(input.Content)
	return success(fmt.Sprintf("wrote %q", input.Path), map[string]any{
		"path":    input.Path,
		"size":    size,
		"message": fmt.Sprintf("Successfully wrote %d bytes to %q", size, input.Path),
	}), nil
}

// ListDirectory lists the entries of a directory in lexicographic order.
// Directories are always shown; files only if they pass the extension
// policy. An empty path lists the server root.
func (fs *FileToolset) ListDirectory(_ context.Context, input ListDirectoryInput) (Result, error) {
	fs.logger.Info("list_directory called", "path", input.Path)

	safePath, err := fs.sandbox.Resolve(input.Path)
	if err != nil {
		return validationFailure(err), nil
	}

	info, err := os.Stat(safePath)
	if err != nil {
		if os.IsNotExist(err) {
			return failure(ErrCodeNotFound, fmt.Sprintf("directory %q does not exist", input.Path)), nil
		}
		return failure(ErrCodeIO, fmt.Sprintf("unable to stat directory: %v", err)), nil
	}
	if !info.IsDir() {
		return failure(ErrCodeWrongKind, fmt.Sprintf("%q is not a directory", input.Path)), nil
	}

	// os.ReadDir returns entries sorted by name, which is the ordering
	// guarantee callers diffing listings rely on.
	entries, err := os.ReadDir(safePath)
	if err != nil {
		return failure(ErrCodeIO, fmt.Sprintf("unable to read directory: %v", err)), nil
	}

	items := make([]map[string]any, 0, len(entries))
	for _, entry := range entries {
		rel, relErr := fs.sandbox.Rel(filepath.Join(safePath, entry.Name()))
		if relErr != nil {
			return failure(ErrCodeIO, fmt.Sprintf("unable to relativize entry: %v", relErr)), nil
		}
		rel = filepath.ToSlash(rel)

		switch {
		case entry.IsDir():
			items = append(items, map[string]any{"type": entryTypeDirectory, "path": rel})
		case fs.policy.Allows(entry.Name()):
			items = append(items, map[string]any{"type": entryTypeFile, "path": rel})
		}
	}

	displayPath := input.Path
	if displayPath == "" {
		displayPath = "/"
	}

	return success(fmt.Sprintf("listed %d entries in %q", len(items), displayPath), map[string]any{
		"path":  displayPath,
		"items": items,
		"count": len(items),
	}), nil
}

// DeleteFile permanently deletes a single file.
func (fs *FileToolset) DeleteFile(_ context.Context, input DeleteFileInput) (Result, error) {
	fs.logger.Info("delete_file called", "path", input.Path)

	safePath, err := fs.sandbox.Resolve(input.Path)
	if err != nil {
		return validationFailure(err), nil
	}
	if err := fs.policy.Check(safePath); err != nil {
		return validationFailure(err), nil
	}

	info, err := os.Stat(safePath)
	if err != nil {
		if os.IsNotExist(err) {
			return failure(ErrCodeNotFound, fmt.Sprintf("file %q does not exist", input.Path)), nil
		}
		return failure(ErrCodeIO, fmt.Sprintf("unable to stat file: %v", err)), nil
	}
	if info.IsDir() {
		return failure(ErrCodeWrongKind, fmt.Sprintf("%q is not a file", input.Path)), nil
	}

	if err := os.Remove(safePath); err != nil {
		return failure(ErrCodeIO, fmt.Sprintf("unable to delete file: %v", err)), nil
	}

	return success(fmt.Sprintf("deleted %q", input.Path), map[string]any{
		"path":    input.Path,
		"message": fmt.Sprintf("Successfully deleted %q", input.Path),
	}), nil
}

// CreateDirectory creates a directory including missing intermediate
// directories. Idempotent: succeeds if the directory already exists.
func (fs *FileToolset) CreateDirectory(_ context.Context, input CreateDirectoryInput) (Result, error) {
	fs.logger.Info("create_directory called", "path", input.Path)

	safePath, err := fs.sandbox.Resolve(input.Path)
	if err != nil {
		return validationFailure(err), nil
	}

	if err := os.MkdirAll(safePath, 0o750); err != nil {
		return failure(ErrCodeIO, fmt.Sprintf("unable to create directory: %v", err)), nil
	}

	return success(fmt.Sprintf("created directory %q", input.Path), map[string]any{
		"path":    input.Path,
		"message": fmt.Sprintf("Successfully created directory %q", input.Path),
	}), nil
}
