package config

import (
	"errors"
	"testing"
)

// validBaseConfig returns a Config with all required fields set.
func validBaseConfig() *Config {
	return &Config{
		Root:              "./sandbox",
		AllowedExtensions: []string{".txt", ".json"},
		Addr:              "127.0.0.1:8443",
		APIKey:            "test-api-key",
		RateBurst:         60,
	}
}

func TestValidateSuccess(t *testing.T) {
	if err := validBaseConfig().Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestValidateNilConfig(t *testing.T) {
	var cfg *Config
	if err := cfg.Validate(); !errors.Is(err, ErrConfigNil) {
		t.Errorf("Validate() = %v, want ErrConfigNil", err)
	}
}

func TestValidateRoot(t *testing.T) {
	tests := []struct {
		name string
		root string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validBaseConfig()
			cfg.Root = tt.root
			if err := cfg.Validate(); !errors.Is(err, ErrMissingRoot) {
				t.Errorf("Validate() = %v, want ErrMissingRoot", err)
			}
		})
	}
}

func TestValidateExtensions(t *testing.T) {
	tests := []struct {
		name    string
		exts    []string
		wantErr bool
	}{
		{"defaults", []string{".txt", ".json"}, false},
		{"without dot", []string{"md"}, false},
		{"empty list allowed, defaults apply downstream", nil, false},
		{"empty entry", []string{".txt", ""}, true},
		{"bare dot", []string{"."}, true},
		{"slash in entry", []string{".txt/evil"}, true},
		{"backslash in entry", []string{`.txt\evil`}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validBaseConfig()
			cfg.AllowedExtensions = tt.exts
			err := cfg.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidExtension) {
					t.Errorf("Validate() = %v, want ErrInvalidExtension", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestValidateRateBurst(t *testing.T) {
	tests := []struct {
		name    string
		burst   int
		wantErr bool
	}{
		{"zero uses default downstream", 0, false},
		{"normal", 60, false},
		{"max", MaxRateBurst, false},
		{"negative", -1, true},
		{"above max", MaxRateBurst + 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validBaseConfig()
			cfg.RateBurst = tt.burst
			err := cfg.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRateBurst) {
					t.Errorf("Validate() = %v, want ErrInvalidRateBurst", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestValidateServe(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		if err := validBaseConfig().ValidateServe(); err != nil {
			t.Errorf("ValidateServe() = %v, want nil", err)
		}
	})

	t.Run("missing api key", func(t *testing.T) {
		cfg := validBaseConfig()
		cfg.APIKey = ""
		if err := cfg.ValidateServe(); !errors.Is(err, ErrMissingAPIKey) {
			t.Errorf("ValidateServe() = %v, want ErrMissingAPIKey", err)
		}
	})

	t.Run("invalid addr", func(t *testing.T) {
		cfg := validBaseConfig()
		cfg.Addr = "no-port"
		if err := cfg.ValidateServe(); !errors.Is(err, ErrInvalidAddr) {
			t.Errorf("ValidateServe() = %v, want ErrInvalidAddr", err)
		}
	})

	t.Run("inherits base validation", func(t *testing.T) {
		cfg := validBaseConfig()
		cfg.Root = ""
		if err := cfg.ValidateServe(); !errors.Is(err, ErrMissingRoot) {
			t.Errorf("ValidateServe() = %v, want ErrMissingRoot", err)
		}
	})
}
