package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/yildizm/ResumeScreen/internal/render"
)

// Config holds the complete application configuration
type Config struct {
	Version string        `yaml:"version" json:"version"`
	Service ServiceConfig `yaml:"service" json:"service"`
	Input   InputConfig   `yaml:"input" json:"input"`
	Output  OutputConfig  `yaml:"output" json:"output"`
}

// ServiceConfig configures the classification service connection
type ServiceConfig struct {
	BaseURL       string        `yaml:"base_url" json:"base_url"`             // e.g. http://localhost:5000/api
	Timeout       time.Duration `yaml:"timeout" json:"timeout"`               // predict request timeout
	HealthTimeout time.Duration `yaml:"health_timeout" json:"health_timeout"` // startup probe timeout
	UserAgent     string        `yaml:"user_agent" json:"user_agent"`
}

// InputConfig configures how resume input is acquired
type InputConfig struct {
	MaxFileBytes int64 `yaml:"max_file_bytes" json:"max_file_bytes"` // 0 disables the cap
}

// OutputConfig configures output formatting and display
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"` // text|json|markdown|csv
	ColorMode     string `yaml:"color_mode" json:"color_mode"`         // auto|always|never
	Theme         string `yaml:"theme" json:"theme"`                   // default|high-contrast|minimal
	LogFile       string `yaml:"log_file" json:"log_file"`             // TUI diagnostics sink
	Verbose       bool   `yaml:"verbose" json:"verbose"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Service: ServiceConfig{
			BaseURL:       "http://localhost:5000/api",
			Timeout:       60 * time.Second,
			HealthTimeout: 5 * time.Second,
			UserAgent:     "resumescreen",
		},
		Input: InputConfig{
			// Matches the service's MAX_CONTENT_LENGTH.
			MaxFileBytes: 16 * 1024 * 1024,
		},
		Output: OutputConfig{
			DefaultFormat: "text",
			ColorMode:     "auto",
			Theme:         "default",
			Verbose:       false,
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateServiceConfig(); err != nil {
		return err
	}
	if err := c.validateInputConfig(); err != nil {
		return err
	}
	if err := c.validateOutputConfig(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateServiceConfig() error {
	if c.Service.BaseURL == "" {
		return fmt.Errorf("service.base_url is required")
	}
	u, err := url.Parse(c.Service.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid service.base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("service.base_url must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("service.base_url must include a host")
	}
	if c.Service.Timeout <= 0 {
		return fmt.Errorf("service.timeout must be positive")
	}
	if c.Service.HealthTimeout <= 0 {
		return fmt.Errorf("service.health_timeout must be positive")
	}
	return nil
}

func (c *Config) validateInputConfig() error {
	if c.Input.MaxFileBytes < 0 {
		return fmt.Errorf("input.max_file_bytes must be non-negative")
	}
	return nil
}

func (c *Config) validateOutputConfig() error {
	if c.Output.DefaultFormat != "" && !render.IsFormat(c.Output.DefaultFormat) {
		return fmt.Errorf("invalid output format: %s (must be one of: %s)",
			c.Output.DefaultFormat, strings.Join(render.Formats(), ", "))
	}
	if c.Output.ColorMode != "" {
		validColorModes := map[string]bool{
			"auto":   true,
			"always": true,
			"never":  true,
		}
		if !validColorModes[c.Output.ColorMode] {
			return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Output.ColorMode)
		}
	}
	if c.Output.Theme != "" {
		validThemes := map[string]bool{
			"default":       true,
			"high-contrast": true,
			"minimal":       true,
		}
		if !validThemes[c.Output.Theme] {
			return fmt.Errorf("invalid theme: %s (must be one of: default, high-contrast, minimal)", c.Output.Theme)
		}
	}
	return nil
}
