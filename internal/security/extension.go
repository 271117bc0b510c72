package security

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// ErrDisallowedType indicates a file extension outside the allow-set.
var ErrDisallowedType = errors.New("file type not allowed")

// DefaultExtensions is the allow-set used when none is configured.
var DefaultExtensions = []string{".txt", ".json"}

// ExtensionPolicy is a whitelist check on file suffixes. It applies to
// read, write, and delete operations; directory operations have no
// extension concept and directory listings filter rather than reject.
type ExtensionPolicy struct {
	allowed map[string]struct{}
	display string
}

// NewExtensionPolicy creates a policy from the given extensions. Entries
// are normalized to lowercase with a leading dot; an empty slice falls
// back to DefaultExtensions.
func NewExtensionPolicy(extensions []string) *ExtensionPolicy {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}

	allowed := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		allowed[ext] = struct{}{}
	}

	names := make([]string, 0, len(allowed))
	for ext := range allowed {
		names = append(names, ext)
	}
	sort.Strings(names)

	return &ExtensionPolicy{
		allowed: allowed,
		display: strings.Join(names, ", "),
	}
}

// Check returns ErrDisallowedType if the path's lowercased suffix is not
// in the allow-set.
func (p *ExtensionPolicy) Check(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := p.allowed[ext]; !ok {
		return fmt.Errorf("%w: %q, only %s files are permitted", ErrDisallowedType, ext, p.display)
	}
	return nil
}

// Allows reports whether the path passes the policy. Used by directory
// listings, which filter files instead of failing.
func (p *ExtensionPolicy) Allows(path string) bool {
	return p.Check(path) == nil
}

// Extensions returns the normalized allow-set, sorted, for logging.
func (p *ExtensionPolicy) Extensions() []string {
	return strings.Split(p.display, ", ")
}
