// Package config provides application configuration management with multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override)
//  2. Config file (~/.fsgate/config.yaml or ./config.yaml)
//  3. Default values
//
// Security: the API key is never logged; MarshalJSON and String mask it.
// Validation: fail-fast range checks in validation.go with sentinel errors
// for errors.Is() checking.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrMissingAPIKey indicates the API key required for serve mode is missing.
	ErrMissingAPIKey = errors.New("missing API key")

	// ErrMissingRoot indicates no sandbox root directory was configured.
	ErrMissingRoot = errors.New("missing sandbox root")

	// ErrInvalidAddr indicates the listen address is malformed.
	ErrInvalidAddr = errors.New("invalid listen address")

	// ErrInvalidExtension indicates an allowed extension entry is unusable.
	ErrInvalidExtension = errors.New("invalid allowed extension")

	// ErrInvalidRateBurst indicates the rate limiter burst is out of range.
	ErrInvalidRateBurst = errors.New("invalid rate burst")
)

const (
	// DefaultAddr is the default listen address for serve mode.
	// Loopback by default so exposure is an explicit operator decision.
	DefaultAddr = "127.0.0.1:8443"

	// DefaultRateBurst is the default per-IP token bucket size.
	DefaultRateBurst = 60

	// MaxRateBurst caps the configurable burst to keep memory bounded.
	MaxRateBurst = 10000
)

// Config stores application configuration.
// SECURITY: sensitive fields are explicitly masked in MarshalJSON().
// When adding new sensitive fields (keys, tokens), update MarshalJSON.
type Config struct {
	// Sandbox configuration
	Root              string   `mapstructure:"root" json:"root"`
	AllowedExtensions []string `mapstructure:"allowed_extensions" json:"allowed_extensions"`
	SerializeWrites   bool     `mapstructure:"serialize_writes" json:"serialize_writes"`

	// HTTP server configuration (serve mode only)
	Addr        string   `mapstructure:"addr" json:"addr"`
	APIKey      string   `mapstructure:"api_key" json:"api_key"` // SENSITIVE: masked in MarshalJSON
	CORSOrigins []string `mapstructure:"cors_origins" json:"cors_origins"`
	TrustProxy  bool     `mapstructure:"trust_proxy" json:"trust_proxy"` // Trust X-Real-IP/X-Forwarded-For (set true behind reverse proxy)
	RateBurst   int      `mapstructure:"rate_burst" json:"rate_burst"`

	// Logging configuration
	LogJSON bool `mapstructure:"log_json" json:"log_json"`
	Debug   bool `mapstructure:"debug" json:"debug"`
}

// Load loads configuration.
// Priority: environment variables > configuration file > default values.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".fsgate")
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	setDefaults(v)
	bindEnvVariables(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine, defaults apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using default values",
			"search_paths", []string{configDir, "."},
			"config_name", "config.yaml")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("root", "./sandbox")
	v.SetDefault("allowed_extensions", []string{".txt", ".json"})
	v.SetDefault("serialize_writes", false)

	v.SetDefault("addr", DefaultAddr)
	v.SetDefault("cors_origins", []string{})
	v.SetDefault("trust_proxy", false)
	v.SetDefault("rate_burst", DefaultRateBurst)

	v.SetDefault("log_json", false)
	v.SetDefault("debug", false)
}

// bindEnvVariables binds environment variables explicitly.
// The API key is only ever read from the environment or the config
// file, never from command-line flags where it would leak into process
// listings.
func bindEnvVariables(v *viper.Viper) {
	// Hardcoded keys cannot fail to bind; a panic here is a bug.
	mustBind := func(key, envVar string) {
		if err := v.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("api_key", "FSGATE_API_KEY")
	mustBind("root", "FSGATE_ROOT")
	mustBind("addr", "FSGATE_ADDR")
	mustBind("cors_origins", "FSGATE_CORS_ORIGINS")
	mustBind("trust_proxy", "FSGATE_TRUST_PROXY")
	mustBind("rate_burst", "FSGATE_RATE_BURST")
}

// maskedValue is the placeholder for masked sensitive data.
// Full-width blocks avoid accidental substring matches against real
// secret material.
const maskedValue = "████████"

// maskSecret masks a secret string for safe logging.
// Secrets of 8 characters or fewer are fully masked; longer secrets
// keep their first and last 2 characters for debug utility.
//
// THREAT MODEL: this defends against accidental logging of real
// secrets. If logs are compromised anyway, rotate the key.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return maskedValue
	}
	return s[:2] + "<" + maskedValue + ">" + s[len(s)-2:]
}

// MarshalJSON implements json.Marshaler with explicit sensitive field masking.
func (c Config) MarshalJSON() ([]byte, error) {
	type alias Config
	a := alias(c)
	a.APIKey = maskSecret(a.APIKey)
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

// String implements Stringer to prevent accidental printing of secrets.
func (c Config) String() string {
	data, err := c.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("Config{error: %v}", err)
	}
	return string(data)
}
