package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "RESUMESCREEN_"

// ConfigPaths are searched from first to last; earlier entries take precedence
var ConfigPaths = []string{
	"./.resumescreen.yaml",
	"~/.config/resumescreen/config.yaml",
	"/etc/resumescreen/config.yaml",
}

// blockedPrefixes are never read as configuration
var blockedPrefixes = []string{"/etc/passwd", "/etc/shadow", "/proc/", "/sys/"}

// Loader reads configuration layers on top of the built-in defaults
type Loader struct {
	configPaths []string
	dotenvPath  string
}

// NewLoader creates a loader using the standard search paths and ./.env
func NewLoader() *Loader {
	return &Loader{
		configPaths: ConfigPaths,
		dotenvPath:  ".env",
	}
}

// LoadConfig builds the effective configuration. Layers are applied in this
// order, each overriding only the keys it sets:
//
//	defaults, system file, user file, project file (or customPath alone),
//	.env, RESUMESCREEN_* variables
//
// Command line flags are applied by the caller afterwards.
func (l *Loader) LoadConfig(customPath string) (*Config, error) {
	cfg := DefaultConfig()

	if customPath != "" {
		if err := validateConfigPath(customPath); err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		if err := l.loadFromFile(cfg, customPath); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", customPath, err)
		}
	} else {
		for _, path := range l.layers() {
			if err := l.loadFromFile(cfg, path); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: Failed to load config from %s: %v\n", path, err)
			}
		}
	}

	if err := l.loadDotenv(); err != nil {
		return nil, err
	}
	if err := l.applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// layers returns the existing search-path files, lowest precedence first
func (l *Loader) layers() []string {
	var found []string
	for i := len(l.configPaths) - 1; i >= 0; i-- {
		if path := expandPath(l.configPaths[i]); fileExists(path) {
			found = append(found, path)
		}
	}
	return found
}

// loadDotenv populates the process environment from a .env file when one
// exists. Variables already set in the environment are left alone.
func (l *Loader) loadDotenv() error {
	if l.dotenvPath == "" || !fileExists(l.dotenvPath) {
		return nil
	}
	if err := godotenv.Load(l.dotenvPath); err != nil {
		return fmt.Errorf("failed to load %s: %w", l.dotenvPath, err)
	}
	return nil
}

// loadFromFile decodes a YAML file onto cfg. Keys missing from the file keep
// their current values.
func (l *Loader) loadFromFile(cfg *Config, path string) error {
	// #nosec G304 - path is validated by validateConfigPath() or comes from ConfigPaths
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

// envBinding ties one RESUMESCREEN_* variable to a config field
type envBinding struct {
	suffix string
	set    func(string) error
}

func envBindings(cfg *Config) []envBinding {
	str := func(dst *string) func(string) error {
		return func(v string) error { *dst = v; return nil }
	}

	return []envBinding{
		{"SERVICE_BASE_URL", str(&cfg.Service.BaseURL)},
		{"SERVICE_TIMEOUT", func(v string) error { return parseDuration(v, &cfg.Service.Timeout) }},
		{"SERVICE_HEALTH_TIMEOUT", func(v string) error { return parseDuration(v, &cfg.Service.HealthTimeout) }},
		{"SERVICE_USER_AGENT", str(&cfg.Service.UserAgent)},
		{"INPUT_MAX_FILE_BYTES", func(v string) error { return parseInt64(v, &cfg.Input.MaxFileBytes) }},
		{"OUTPUT_DEFAULT_FORMAT", str(&cfg.Output.DefaultFormat)},
		{"OUTPUT_COLOR_MODE", str(&cfg.Output.ColorMode)},
		{"OUTPUT_THEME", str(&cfg.Output.Theme)},
		{"OUTPUT_LOG_FILE", str(&cfg.Output.LogFile)},
		{"OUTPUT_VERBOSE", func(v string) error { return parseBool(v, &cfg.Output.Verbose) }},
	}
}

// applyEnvOverrides applies non-empty RESUMESCREEN_* variables to cfg
func (l *Loader) applyEnvOverrides(cfg *Config) error {
	for _, b := range envBindings(cfg) {
		name := EnvPrefix + b.suffix
		value, ok := os.LookupEnv(name)
		if !ok || value == "" {
			continue
		}
		if err := b.set(value); err != nil {
			return fmt.Errorf("invalid value for %s: %w", name, err)
		}
	}
	return nil
}

// GetConfigPaths returns the expanded search paths
func GetConfigPaths() []string {
	paths := make([]string, 0, len(ConfigPaths))
	for _, path := range ConfigPaths {
		paths = append(paths, expandPath(path))
	}
	return paths
}

// FindConfigFile returns the highest-precedence config file that exists
func FindConfigFile() (string, bool) {
	for _, path := range GetConfigPaths() {
		if fileExists(path) {
			return path, true
		}
	}
	return "", false
}

func validateConfigPath(path string) error {
	clean := filepath.Clean(path)
	if strings.Contains(clean, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	switch strings.ToLower(filepath.Ext(clean)) {
	case ".yaml", ".yml":
	default:
		return fmt.Errorf("config file must have .yaml or .yml extension")
	}

	abs, err := filepath.Abs(clean)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	for _, prefix := range blockedPrefixes {
		if strings.HasPrefix(abs, prefix) {
			return fmt.Errorf("access to system files not allowed")
		}
	}
	return nil
}

// expandPath expands a leading ~/ to the home directory
func expandPath(path string) string {
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, rest)
		}
	}
	return path
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func parseInt64(s string, dst *int64) error {
	v, err := strconv.ParseInt(s, 10, 64)
	if err == nil {
		*dst = v
	}
	return err
}

func parseBool(s string, dst *bool) error {
	v, err := strconv.ParseBool(s)
	if err == nil {
		*dst = v
	}
	return err
}

func parseDuration(s string, dst *time.Duration) error {
	v, err := time.ParseDuration(s)
	if err == nil {
		*dst = v
	}
	return err
}

// EnvNames lists every environment variable the loader reads
func EnvNames() []string {
	bindings := envBindings(&Config{})
	names := make([]string, 0, len(bindings))
	for _, b := range bindings {
		names = append(names, EnvPrefix+b.suffix)
	}
	return names
}
