package config

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != "1.0" {
		t.Errorf("Expected version 1.0, got %s", cfg.Version)
	}

	if cfg.Service.BaseURL != "http://localhost:5000/api" {
		t.Errorf("Expected default base URL, got %s", cfg.Service.BaseURL)
	}

	if cfg.Service.Timeout != 60*time.Second {
		t.Errorf("Expected timeout 60s, got %v", cfg.Service.Timeout)
	}

	if cfg.Input.MaxFileBytes != 16*1024*1024 {
		t.Errorf("Expected 16MB file cap, got %d", cfg.Input.MaxFileBytes)
	}

	if cfg.Output.DefaultFormat != "text" {
		t.Errorf("Expected output format text, got %s", cfg.Output.DefaultFormat)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

func TestConfigValidation(t *testing.T) {
	withService := func(mutate func(*Config)) *Config {
		cfg := DefaultConfig()
		mutate(cfg)
		return cfg
	}

	tests := []struct {
		name    string
		config  *Config
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			config:  DefaultConfig(),
			wantErr: false,
		},
		{
			name:    "missing base url",
			config:  withService(func(c *Config) { c.Service.BaseURL = "" }),
			wantErr: true,
			errMsg:  "service.base_url is required",
		},
		{
			name:    "unsupported scheme",
			config:  withService(func(c *Config) { c.Service.BaseURL = "ftp://example.com/api" }),
			wantErr: true,
			errMsg:  "must use http or https",
		},
		{
			name:    "missing host",
			config:  withService(func(c *Config) { c.Service.BaseURL = "http:///api" }),
			wantErr: true,
			errMsg:  "must include a host",
		},
		{
			name:    "zero timeout",
			config:  withService(func(c *Config) { c.Service.Timeout = 0 }),
			wantErr: true,
			errMsg:  "service.timeout must be positive",
		},
		{
			name:    "negative health timeout",
			config:  withService(func(c *Config) { c.Service.HealthTimeout = -time.Second }),
			wantErr: true,
			errMsg:  "service.health_timeout must be positive",
		},
		{
			name:    "negative file cap",
			config:  withService(func(c *Config) { c.Input.MaxFileBytes = -1 }),
			wantErr: true,
			errMsg:  "input.max_file_bytes must be non-negative",
		},
		{
			name:    "invalid output format",
			config:  withService(func(c *Config) { c.Output.DefaultFormat = "xml" }),
			wantErr: true,
			errMsg:  "invalid output format: xml (must be one of: text, json, markdown, csv)",
		},
		{
			name:   "markdown alias",
			config: withService(func(c *Config) { c.Output.DefaultFormat = "md" }),
		},
		{
			name:    "invalid color mode",
			config:  withService(func(c *Config) { c.Output.ColorMode = "invalid" }),
			wantErr: true,
			errMsg:  "invalid color mode: invalid (must be one of: auto, always, never)",
		},
		{
			name:    "invalid theme",
			config:  withService(func(c *Config) { c.Output.Theme = "neon" }),
			wantErr: true,
			errMsg:  "invalid theme: neon",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error but got none")
				} else if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("Expected error containing '%s', got '%s'", tt.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestLoadFromFileKeepsUnsetKeys(t *testing.T) {
	cfg := loadFromString(t, `service:
  base_url: "https://classifier.internal/api"
output:
  default_format: json
  verbose: true
`)

	if cfg.Service.BaseURL != "https://classifier.internal/api" {
		t.Errorf("Expected base URL from file, got %s", cfg.Service.BaseURL)
	}
	if cfg.Output.DefaultFormat != "json" {
		t.Errorf("Expected output format json, got %s", cfg.Output.DefaultFormat)
	}
	if !cfg.Output.Verbose {
		t.Errorf("Expected verbose to be true")
	}

	// Keys absent from the file keep their defaults
	if cfg.Service.Timeout != 60*time.Second {
		t.Errorf("Expected timeout to remain 60s, got %v", cfg.Service.Timeout)
	}
	if cfg.Output.Theme != "default" {
		t.Errorf("Expected theme to remain default, got %s", cfg.Output.Theme)
	}
}

func TestExpandPath(t *testing.T) {
	if got := expandPath("./config.yaml"); got != "./config.yaml" {
		t.Errorf("Expected relative path unchanged, got %s", got)
	}
	if got := expandPath("/etc/resumescreen/config.yaml"); got != "/etc/resumescreen/config.yaml" {
		t.Errorf("Expected absolute path unchanged, got %s", got)
	}
	if got := expandPath("~/.config/resumescreen/config.yaml"); got == "~/.config/resumescreen/config.yaml" {
		t.Errorf("Expected tilde to be expanded")
	}
}

func TestGetConfigPaths(t *testing.T) {
	paths := GetConfigPaths()
	if len(paths) != 3 {
		t.Fatalf("Expected 3 config paths, got %d", len(paths))
	}
	if paths[0] != "./.resumescreen.yaml" {
		t.Errorf("Expected project config first, got %s", paths[0])
	}
	if strings.HasPrefix(paths[1], "~") {
		t.Errorf("Expected user path to be expanded, got %s", paths[1])
	}
	if paths[2] != "/etc/resumescreen/config.yaml" {
		t.Errorf("Expected system config last, got %s", paths[2])
	}
}

func TestSampleConfigsLoad(t *testing.T) {
	for name, content := range map[string]string{
		"full":    SampleConfig(),
		"minimal": MinimalSampleConfig(),
	} {
		t.Run(name, func(t *testing.T) {
			cfg := loadFromString(t, content)
			if err := cfg.Validate(); err != nil {
				t.Errorf("Sample config should validate: %v", err)
			}
		})
	}
}
