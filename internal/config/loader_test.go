package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// loadFromString writes content to a temp YAML file and loads it over the defaults
func loadFromString(t *testing.T, content string) *Config {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	cfg := DefaultConfig()
	if err := NewLoader().loadFromFile(cfg, path); err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	if loader == nil {
		t.Fatal("NewLoader returned nil")
	}
	if len(loader.configPaths) != 3 {
		t.Errorf("Expected 3 config paths, got %d", len(loader.configPaths))
	}
	if loader.dotenvPath != ".env" {
		t.Errorf("Expected .env dotenv path, got %s", loader.dotenvPath)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	loader := &Loader{}

	cfg, err := loader.LoadConfig("")
	if err != nil {
		t.Fatalf("Failed to load default config: %v", err)
	}

	if cfg.Service.BaseURL != "http://localhost:5000/api" {
		t.Errorf("Expected default base URL, got %s", cfg.Service.BaseURL)
	}
	if cfg.Output.DefaultFormat != "text" {
		t.Errorf("Expected default output format text, got %s", cfg.Output.DefaultFormat)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "test-config.yaml")

	configContent := `version: "1.0"
service:
  base_url: "http://classifier:8080/api"
  timeout: 15s
input:
  max_file_bytes: 1024
output:
  default_format: "json"
  verbose: true
`

	if err := os.WriteFile(configPath, []byte(configContent), 0o600); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	loader := &Loader{}
	cfg, err := loader.LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config from file: %v", err)
	}

	if cfg.Service.BaseURL != "http://classifier:8080/api" {
		t.Errorf("Expected base URL from file, got %s", cfg.Service.BaseURL)
	}
	if cfg.Service.Timeout != 15*time.Second {
		t.Errorf("Expected timeout 15s, got %v", cfg.Service.Timeout)
	}
	if cfg.Service.HealthTimeout != 5*time.Second {
		t.Errorf("Expected default health timeout to survive, got %v", cfg.Service.HealthTimeout)
	}
	if cfg.Input.MaxFileBytes != 1024 {
		t.Errorf("Expected max file bytes 1024, got %d", cfg.Input.MaxFileBytes)
	}
	if cfg.Output.DefaultFormat != "json" {
		t.Errorf("Expected output format json, got %s", cfg.Output.DefaultFormat)
	}
	if !cfg.Output.Verbose {
		t.Errorf("Expected verbose to be true")
	}
}

func TestLoadConfigLayers(t *testing.T) {
	dir := t.TempDir()
	project := filepath.Join(dir, "project.yaml")
	user := filepath.Join(dir, "user.yaml")

	files := map[string]string{
		user:    "service:\n  base_url: http://user:5000/api\n  timeout: 45s\noutput:\n  verbose: true\n",
		project: "service:\n  base_url: http://project:5000/api\noutput:\n  verbose: false\n",
	}
	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("Failed to write %s: %v", path, err)
		}
	}

	loader := &Loader{configPaths: []string{project, user, filepath.Join(dir, "missing.yaml")}}
	cfg, err := loader.LoadConfig("")
	if err != nil {
		t.Fatalf("Failed to load layered config: %v", err)
	}

	if cfg.Service.BaseURL != "http://project:5000/api" {
		t.Errorf("Expected project base URL to win, got %s", cfg.Service.BaseURL)
	}
	if cfg.Service.Timeout != 45*time.Second {
		t.Errorf("Expected user timeout to survive, got %v", cfg.Service.Timeout)
	}
	if cfg.Output.Verbose {
		t.Error("Expected project file to turn verbose off")
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(configPath, []byte("service: [unterminated"), 0o600); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	_, err := (&Loader{}).LoadConfig(configPath)
	if err == nil {
		t.Fatal("Expected error for invalid YAML, got none")
	}
	if !strings.Contains(err.Error(), "failed to parse YAML") {
		t.Errorf("Expected YAML parse error, got %v", err)
	}
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(configPath, []byte("output:\n  default_format: xml\n"), 0o600); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	_, err := (&Loader{}).LoadConfig(configPath)
	if err == nil || !strings.Contains(err.Error(), "configuration validation failed") {
		t.Errorf("Expected validation failure, got %v", err)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("RESUMESCREEN_SERVICE_BASE_URL", "https://remote.example/api")
	t.Setenv("RESUMESCREEN_SERVICE_TIMEOUT", "90s")
	t.Setenv("RESUMESCREEN_INPUT_MAX_FILE_BYTES", "2048")
	t.Setenv("RESUMESCREEN_OUTPUT_VERBOSE", "true")
	t.Setenv("RESUMESCREEN_OUTPUT_THEME", "minimal")

	cfg := DefaultConfig()
	if err := NewLoader().applyEnvOverrides(cfg); err != nil {
		t.Fatalf("Failed to apply env overrides: %v", err)
	}

	if cfg.Service.BaseURL != "https://remote.example/api" {
		t.Errorf("Expected base URL override, got %s", cfg.Service.BaseURL)
	}
	if cfg.Service.Timeout != 90*time.Second {
		t.Errorf("Expected timeout 90s, got %v", cfg.Service.Timeout)
	}
	if cfg.Input.MaxFileBytes != 2048 {
		t.Errorf("Expected max file bytes 2048, got %d", cfg.Input.MaxFileBytes)
	}
	if !cfg.Output.Verbose {
		t.Errorf("Expected verbose to be true")
	}
	if cfg.Output.Theme != "minimal" {
		t.Errorf("Expected theme minimal, got %s", cfg.Output.Theme)
	}
}

func TestApplyEnvOverridesInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		envVar string
		value  string
	}{
		{"invalid int", "RESUMESCREEN_INPUT_MAX_FILE_BYTES", "lots"},
		{"invalid bool", "RESUMESCREEN_OUTPUT_VERBOSE", "not-a-bool"},
		{"invalid duration", "RESUMESCREEN_SERVICE_TIMEOUT", "not-a-duration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.envVar, tt.value)

			err := NewLoader().applyEnvOverrides(DefaultConfig())
			if err == nil {
				t.Error("Expected error for invalid env var value, but got none")
			}
		})
	}
}

func TestLoadDotenv(t *testing.T) {
	const key = "RESUMESCREEN_SERVICE_BASE_URL"
	if _, set := os.LookupEnv(key); set {
		t.Skipf("%s already set in the environment", key)
	}
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	envPath := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envPath, []byte(key+"=http://from-dotenv:5000/api\n"), 0o600); err != nil {
		t.Fatalf("Failed to write .env: %v", err)
	}

	loader := &Loader{dotenvPath: envPath}
	cfg, err := loader.LoadConfig("")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Service.BaseURL != "http://from-dotenv:5000/api" {
		t.Errorf("Expected base URL from .env, got %s", cfg.Service.BaseURL)
	}
}

func TestParseDuration(t *testing.T) {
	var d time.Duration
	if err := parseDuration("30s", &d); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if d != 30*time.Second {
		t.Errorf("Expected 30s, got %v", d)
	}
	if err := parseDuration("soon", &d); err == nil {
		t.Error("Expected error for invalid duration")
	}
}

func TestParseInt64(t *testing.T) {
	var n int64
	if err := parseInt64("16777216", &n); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if n != 16777216 {
		t.Errorf("Expected 16777216, got %d", n)
	}
	if err := parseInt64("1.5", &n); err == nil {
		t.Error("Expected error for non-integer")
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
		wantErr  bool
	}{
		{"true", true, false},
		{"1", true, false},
		{"false", false, false},
		{"0", false, false},
		{"maybe", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var b bool
			err := parseBool(tt.input, &b)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if b != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, b)
			}
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	if _, found := FindConfigFile(); found {
		t.Skip("system config present, cannot test lookup in isolation")
	}

	if err := os.WriteFile(".resumescreen.yaml", []byte("version: 1.0"), 0o600); err != nil {
		t.Fatalf("Failed to create temp config file: %v", err)
	}

	configPath, found := FindConfigFile()
	if !found {
		t.Fatal("Expected config file to be found, but none was found")
	}
	if configPath != "./.resumescreen.yaml" {
		t.Errorf("Expected config path ./.resumescreen.yaml, got %s", configPath)
	}
}

func TestFileExists(t *testing.T) {
	if fileExists("/path/that/does/not/exist") {
		t.Error("Expected file to not exist, but fileExists returned true")
	}

	tempFile := filepath.Join(t.TempDir(), "test-file")
	if err := os.WriteFile(tempFile, []byte("test"), 0o600); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}

	if !fileExists(tempFile) {
		t.Error("Expected file to exist, but fileExists returned false")
	}
}

func TestValidateConfigPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
		errMsg  string
	}{
		{name: "valid yaml file", path: "config.yaml"},
		{name: "valid yml file", path: "config.yml"},
		{name: "relative path with valid extension", path: "./configs/app.yaml"},
		{name: "path traversal attempt", path: "../../../etc/passwd", wantErr: true, errMsg: "path traversal not allowed"},
		{name: "non-yaml file", path: "config.txt", wantErr: true, errMsg: "config file must have .yaml or .yml extension"},
		{name: "system file access", path: "/etc/passwd.yaml", wantErr: true, errMsg: "access to system files not allowed"},
		{name: "proc filesystem access", path: "/proc/version.yaml", wantErr: true, errMsg: "access to system files not allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfigPath(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error but got none")
				} else if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("Expected error message to contain '%s', got '%s'", tt.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestEnvNames(t *testing.T) {
	names := EnvNames()
	if len(names) != 10 {
		t.Errorf("Expected 10 variables, got %d", len(names))
	}
	for _, name := range names {
		if !strings.HasPrefix(name, EnvPrefix) {
			t.Errorf("Expected %s prefix, got %s", EnvPrefix, name)
		}
	}
	if names[0] != "RESUMESCREEN_SERVICE_BASE_URL" {
		t.Errorf("Expected base URL first, got %s", names[0])
	}
}
