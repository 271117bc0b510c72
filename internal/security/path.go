package security

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// ErrOutOfBounds indicates a path that escapes the sandbox root after
// normalization. Always a client error, never retried.
var ErrOutOfBounds = errors.New("path is outside the allowed directory")

// Sandbox confines caller-supplied relative paths to a single root
// directory. The root is canonicalized once at construction and is
// immutable afterwards.
type Sandbox struct {
	root string
}

// NewSandbox creates a sandbox rooted at root. The root is made absolute
// and symlink-resolved; it does not need to exist yet (the server creates
// it at startup).
func NewSandbox(root string) (*Sandbox, error) {
	if root == "" {
		return nil, errors.New("sandbox root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving sandbox root: %w", err)
	}
	canonical, err := evalExisting(abs)
	if err != nil {
		return nil, fmt.Errorf("canonicalizing sandbox root: %w", err)
	}
	return &Sandbox{root: canonical}, nil
}

// Root returns the canonical absolute root directory.
func (s *Sandbox) Root() string {
	return s.root
}

// Resolve validates a caller-supplied path and returns the safe absolute
// location inside the root.
//
// A single leading separator is stripped, so "notes/a.txt" and
// "/notes/a.txt" both mean "relative to the root". The joined path is
// normalized (".", "..", symlink components) and must be the root itself
// or a separator-bounded descendant of it; a bare string-prefix match is
// not enough ("/data" must not admit "/data-evil").
//
// On failure the returned error wraps ErrOutOfBounds and echoes only the
// original untrusted input.
func (s *Sandbox) Resolve(input string) (string, error) {
	trimmed := strings.TrimPrefix(input, "/")

	joined := filepath.Join(s.root, trimmed)
	if !s.contains(joined) {
		return "", fmt.Errorf("%w: %q", ErrOutOfBounds, input)
	}

	// Symlink components inside the tree can still point outside it.
	resolved, err := evalExisting(joined)
	if err != nil {
		return "", fmt.Errorf("resolving %q: %w", input, err)
	}
	if !s.contains(resolved) {
		return "", fmt.Errorf("%w: %q resolves through a link outside the root", ErrOutOfBounds, input)
	}

	return resolved, nil
}

// Rel returns the root-relative form of a previously resolved path, for
// echoing in directory listings.
func (s *Sandbox) Rel(resolved string) (string, error) {
	rel, err := filepath.Rel(s.root, resolved)
	if err != nil {
		return "", fmt.Errorf("relativizing path: %w", err)
	}
	return rel, nil
}

// contains reports whether path equals the root or is a separator-bounded
// descendant of it. path must already be absolute and cleaned.
func (s *Sandbox) contains(path string) bool {
	if path == s.root {
		return true
	}
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// evalExisting resolves symlinks like filepath.EvalSymlinks but tolerates
// paths that do not exist yet: the nearest existing ancestor is resolved
// and the remaining components are rejoined lexically.
func evalExisting(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err == nil {
		return resolved, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}

	parent := filepath.Dir(path)
	if parent == path {
		// Filesystem root
		return path, nil
	}
	resolvedParent, err := evalExisting(parent)
	if err != nil {
		return "", err
	}
	return filepath.Join(resolvedParent, filepath.Base(path)), nil
}
