package config

import (
	"fmt"
	"net"
	"strings"
)

// Validate validates configuration values shared by every mode.
// Returns sentinel errors that can be checked with errors.Is().
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	if strings.TrimSpace(c.Root) == "" {
		return fmt.Errorf("%w: root cannot be empty", ErrMissingRoot)
	}

	for _, ext := range c.AllowedExtensions {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" || trimmed == "." {
			return fmt.Errorf("%w: %q", ErrInvalidExtension, ext)
		}
		if strings.ContainsAny(trimmed, "/\\") {
			return fmt.Errorf("%w: %q must not contain path separators", ErrInvalidExtension, ext)
		}
	}

	if c.RateBurst < 0 || c.RateBurst > MaxRateBurst {
		return fmt.Errorf("%w: must be between 0 and %d, got %d", ErrInvalidRateBurst, MaxRateBurst, c.RateBurst)
	}

	return nil
}

// ValidateServe validates the additional requirements of serve mode.
// Stdio mode has no listener and no key, so these checks only run when
// the HTTP server is about to start.
func (c *Config) ValidateServe() error {
	if err := c.Validate(); err != nil {
		return err
	}

	if c.APIKey == "" {
		return fmt.Errorf("%w: set FSGATE_API_KEY or api_key in config.yaml", ErrMissingAPIKey)
	}

	if _, _, err := net.SplitHostPort(c.Addr); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidAddr, c.Addr, err)
	}

	return nil
}
