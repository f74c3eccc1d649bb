package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Download.OutputDir != "games" {
		t.Errorf("Expected default download directory to be games, got %s", config.Download.OutputDir)
	}

	if config.Diagrams.Size != 400 {
		t.Errorf("Expected default diagram size to be 400, got %d", config.Diagrams.Size)
	}

	if config.Diagrams.Padding != 0 {
		t.Errorf("Expected default padding to be 0, got %d", config.Diagrams.Padding)
	}

	if config.RateLimit.Interval != time.Second {
		t.Errorf("Expected default rate limit interval to be 1s, got %v", config.RateLimit.Interval)
	}

	if err := config.Validate(); err != nil {
		t.Errorf("Expected default config to be valid, got %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CHESSKIT_API_BASE_URL", "http://localhost:9999")
	t.Setenv("CHESSKIT_API_TIMEOUT", "5s")
	t.Setenv("CHESSKIT_MAX_RETRIES", "5")
	t.Setenv("CHESSKIT_RETRY_BACKOFF", "constant")
	t.Setenv("CHESSKIT_RATE_LIMIT_INTERVAL", "250ms")
	t.Setenv("CHESSKIT_DOWNLOAD_DIR", "/tmp/test-games")
	t.Setenv("CHESSKIT_OUTPUT_POLICY", "merge")
	t.Setenv("CHESSKIT_LOG_LEVEL", "debug")

	config := DefaultConfig()
	if err := config.LoadFromEnv(); err != nil {
		t.Fatalf("Failed to load from environment: %v", err)
	}

	if config.API.BaseURL != "http://localhost:9999" {
		t.Errorf("Expected base URL to be overridden, got %s", config.API.BaseURL)
	}

	if config.API.Timeout != 5*time.Second {
		t.Errorf("Expected timeout to be 5s, got %v", config.API.Timeout)
	}

	if config.API.MaxRetries != 5 {
		t.Errorf("Expected max retries to be 5, got %d", config.API.MaxRetries)
	}

	if config.API.RetryBackoff != "constant" {
		t.Errorf("Expected retry backoff to be constant, got %s", config.API.RetryBackoff)
	}

	if config.RateLimit.Interval != 250*time.Millisecond {
		t.Errorf("Expected interval to be 250ms, got %v", config.RateLimit.Interval)
	}

	if config.Download.OutputDir != "/tmp/test-games" {
		t.Errorf("Expected download directory to be /tmp/test-games, got %s", config.Download.OutputDir)
	}

	if config.Diagrams.OutputPolicy != "merge" {
		t.Errorf("Expected output policy to be merge, got %s", config.Diagrams.OutputPolicy)
	}

	if config.Logging.Level != "debug" {
		t.Errorf("Expected log level to be debug, got %s", config.Logging.Level)
	}
}

func TestLoadFromEnvInvalidDuration(t *testing.T) {
	t.Setenv("CHESSKIT_API_TIMEOUT", "soon")

	config := DefaultConfig()
	if err := config.LoadFromEnv(); err == nil {
		t.Error("Expected an error for a malformed duration")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantError bool
	}{
		{
			name:      "valid config",
			mutate:    func(c *Config) {},
			wantError: false,
		},
		{
			name:      "size not a multiple of eight",
			mutate:    func(c *Config) { c.Diagrams.Size = 401 },
			wantError: true,
		},
		{
			name:      "negative padding",
			mutate:    func(c *Config) { c.Diagrams.Padding = -1 },
			wantError: true,
		},
		{
			name:      "unknown output policy",
			mutate:    func(c *Config) { c.Diagrams.OutputPolicy = "wipe" },
			wantError: true,
		},
		{
			name:      "unknown rate limit strategy",
			mutate:    func(c *Config) { c.RateLimit.Strategy = "leaky" },
			wantError: true,
		},
		{
			name: "token bucket without budget",
			mutate: func(c *Config) {
				c.RateLimit.Strategy = "token_bucket"
				c.RateLimit.RequestsPerMinute = 0
			},
			wantError: true,
		},
		{
			name:      "unknown retry backoff",
			mutate:    func(c *Config) { c.API.RetryBackoff = "linear" },
			wantError: true,
		},
		{
			name:      "invalid log level",
			mutate:    func(c *Config) { c.Logging.Level = "invalid" },
			wantError: true,
		},
		{
			name:      "zero workers",
			mutate:    func(c *Config) { c.Diagrams.Workers = 0 },
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			err := config.Validate()
			if (err != nil) != tt.wantError {
				t.Errorf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestMergeCommandLineFlags(t *testing.T) {
	config := DefaultConfig()

	flags := map[string]interface{}{
		"download-dir":  "/flag/games",
		"diagram-dir":   "/flag/diagrams",
		"output-policy": "fail-if-exists",
		"padding":       1,
		"workers":       4,
		"crop":          false,
		"log-level":     "error",
	}

	config.MergeCommandLineFlags(flags)

	if config.Download.OutputDir != "/flag/games" {
		t.Errorf("Expected download directory to be /flag/games, got %s", config.Download.OutputDir)
	}

	if config.Diagrams.OutputDir != "/flag/diagrams" {
		t.Errorf("Expected diagram directory to be /flag/diagrams, got %s", config.Diagrams.OutputDir)
	}

	if config.Diagrams.OutputPolicy != "fail-if-exists" {
		t.Errorf("Expected output policy to be fail-if-exists, got %s", config.Diagrams.OutputPolicy)
	}

	if config.Diagrams.Padding != 1 {
		t.Errorf("Expected padding to be 1, got %d", config.Diagrams.Padding)
	}

	if config.Diagrams.Workers != 4 {
		t.Errorf("Expected workers to be 4, got %d", config.Diagrams.Workers)
	}

	if config.Diagrams.Crop {
		t.Error("Expected crop to be disabled")
	}

	if !config.Diagrams.Overlay {
		t.Error("Expected overlay to stay enabled when the flag is absent")
	}

	if config.Logging.Level != "error" {
		t.Errorf("Expected log level to be error, got %s", config.Logging.Level)
	}
}

func TestSaveAndLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "chesskit.yaml")

	config := DefaultConfig()
	config.API.Timeout = 12 * time.Second
	config.Diagrams.Padding = 2
	config.Diagrams.OpeningsFile = "openings.yaml"

	if err := config.Save(configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	loaded := DefaultConfig()
	if err := loaded.LoadFromFile(configPath); err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if loaded.API.Timeout != 12*time.Second {
		t.Errorf("Expected loaded timeout to be 12s, got %v", loaded.API.Timeout)
	}

	if loaded.Diagrams.Padding != 2 {
		t.Errorf("Expected loaded padding to be 2, got %d", loaded.Diagrams.Padding)
	}

	if loaded.Diagrams.OpeningsFile != "openings.yaml" {
		t.Errorf("Expected loaded openings file, got %q", loaded.Diagrams.OpeningsFile)
	}
}

func TestLoadFromFilePartialOverride(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "partial.yaml")

	content := []byte("diagrams:\n  padding: 1\nrate_limit:\n  interval: 2s\n")
	if err := os.WriteFile(configPath, content, 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	config := DefaultConfig()
	if err := config.LoadFromFile(configPath); err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if config.Diagrams.Padding != 1 {
		t.Errorf("Expected padding to be 1, got %d", config.Diagrams.Padding)
	}
	if config.RateLimit.Interval != 2*time.Second {
		t.Errorf("Expected interval to be 2s, got %v", config.RateLimit.Interval)
	}
	if config.Diagrams.Size != 400 {
		t.Errorf("Expected untouched size to keep its default, got %d", config.Diagrams.Size)
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "broken.yaml")
	if err := os.WriteFile(configPath, []byte("diagrams: [unclosed"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	if _, err := Load(configPath, nil); err == nil {
		t.Error("Expected Load to fail on malformed YAML")
	}
}
