package service

import (
	"fmt"
	"time"
)

// Config holds client settings for the classification service
type Config struct {
	// BaseURL is the API root; endpoints are joined onto it
	BaseURL string `json:"base_url"`

	// Timeout bounds one prediction round-trip, upload included
	Timeout time.Duration `json:"timeout"`

	// HealthTimeout bounds the startup probe
	HealthTimeout time.Duration `json:"health_timeout"`

	UserAgent string `json:"user_agent"`

	// MaxUploadBytes rejects larger files before sending; 0 disables
	MaxUploadBytes int64 `json:"max_upload_bytes"`
}

// DefaultConfig returns a client configuration for a local service
func DefaultConfig() *Config {
	return &Config{
		BaseURL:        "http://localhost:5000/api",
		Timeout:        60 * time.Second,
		HealthTimeout:  5 * time.Second,
		UserAgent:      "resumescreen",
		MaxUploadBytes: 16 * 1024 * 1024,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.HealthTimeout <= 0 {
		return fmt.Errorf("health timeout must be positive")
	}
	if c.MaxUploadBytes < 0 {
		return fmt.Errorf("max upload bytes must be non-negative")
	}
	return nil
}
