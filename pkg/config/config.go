package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment variable read by LoadFromEnv
const EnvPrefix = "CHESSKIT_"

// Config holds all configuration options for chesskit
type Config struct {
	// Remote game API
	API APIConfig `yaml:"api" json:"api"`

	// Pause between archive requests
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Game archive downloads
	Download DownloadConfig `yaml:"download" json:"download"`

	// Opening diagrams
	Diagrams DiagramConfig `yaml:"diagrams" json:"diagrams"`

	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// APIConfig holds settings for the public chess.com API
type APIConfig struct {
	BaseURL    string        `yaml:"base_url" json:"base_url"`
	UserAgent  string        `yaml:"user_agent" json:"user_agent"`
	Timeout    time.Duration `yaml:"timeout" json:"timeout"`
	MaxRetries int           `yaml:"max_retries" json:"max_retries"`
	RetryDelay time.Duration `yaml:"retry_delay" json:"retry_delay"`

	// RetryBackoff is exponential or constant
	RetryBackoff string `yaml:"retry_backoff" json:"retry_backoff"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	// Strategy is one of interval, token_bucket or sliding_window
	Strategy          string        `yaml:"strategy" json:"strategy"`
	Interval          time.Duration `yaml:"interval" json:"interval"`
	RequestsPerMinute int           `yaml:"requests_per_minute" json:"requests_per_minute"`
}

// DownloadConfig holds archive download configuration
type DownloadConfig struct {
	OutputDir string `yaml:"output_dir" json:"output_dir"`
}

// DiagramConfig holds opening diagram configuration
type DiagramConfig struct {
	OutputDir    string  `yaml:"output_dir" json:"output_dir"`
	Size         int     `yaml:"size" json:"size"`
	Padding      int     `yaml:"padding" json:"padding"`
	Crop         bool    `yaml:"crop" json:"crop"`
	Overlay      bool    `yaml:"overlay" json:"overlay"`
	OutputPolicy string  `yaml:"output_policy" json:"output_policy"`
	OpeningsFile string  `yaml:"openings_file" json:"openings_file"`
	Workers      int     `yaml:"workers" json:"workers"`
	Scale        float64 `yaml:"scale" json:"scale"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:      "https://api.chess.com",
			UserAgent:    "chesskit/1.0 (+https://github.com/chesskit/chesskit)",
			Timeout:      30 * time.Second,
			MaxRetries:   3,
			RetryDelay:   time.Second,
			RetryBackoff: "exponential",
		},
		RateLimit: RateLimitConfig{
			Strategy:          "interval",
			Interval:          time.Second,
			RequestsPerMinute: 60,
		},
		Download: DownloadConfig{
			OutputDir: "games",
		},
		Diagrams: DiagramConfig{
			OutputDir:    "chess_openings",
			Size:         400,
			Padding:      0,
			Crop:         true,
			Overlay:      true,
			OutputPolicy: "overwrite",
			Workers:      1,
			Scale:        1,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromEnv loads configuration from CHESSKIT_* environment variables
func (c *Config) LoadFromEnv() error {
	var errs []error

	if v := os.Getenv(EnvPrefix + "API_BASE_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv(EnvPrefix + "USER_AGENT"); v != "" {
		c.API.UserAgent = v
	}
	if v := os.Getenv(EnvPrefix + "API_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sAPI_TIMEOUT: %w", EnvPrefix, err))
		} else {
			c.API.Timeout = d
		}
	}
	if v := os.Getenv(EnvPrefix + "MAX_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sMAX_RETRIES: %w", EnvPrefix, err))
		} else {
			c.API.MaxRetries = n
		}
	}

	if v := os.Getenv(EnvPrefix + "RETRY_BACKOFF"); v != "" {
		c.API.RetryBackoff = v
	}

	if v := os.Getenv(EnvPrefix + "RATE_LIMIT_STRATEGY"); v != "" {
		c.RateLimit.Strategy = v
	}
	if v := os.Getenv(EnvPrefix + "RATE_LIMIT_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sRATE_LIMIT_INTERVAL: %w", EnvPrefix, err))
		} else {
			c.RateLimit.Interval = d
		}
	}

	if v := os.Getenv(EnvPrefix + "DOWNLOAD_DIR"); v != "" {
		c.Download.OutputDir = v
	}
	if v := os.Getenv(EnvPrefix + "DIAGRAM_DIR"); v != "" {
		c.Diagrams.OutputDir = v
	}
	if v := os.Getenv(EnvPrefix + "OUTPUT_POLICY"); v != "" {
		c.Diagrams.OutputPolicy = v
	}
	if v := os.Getenv(EnvPrefix + "LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvPrefix + "LOG_FILE"); v != "" {
		c.Logging.File = v
	}

	return errors.Join(errs...)
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = findConfigFile()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".chesskit.yaml",
		".chesskit.yml",
		filepath.Join(home, ".config", "chesskit", "config.yaml"),
		filepath.Join(home, ".chesskit.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.API.BaseURL == "" {
		errs = append(errs, errors.New("api base url is required"))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, errors.New("api timeout must be positive"))
	}
	if c.API.MaxRetries < 0 {
		errs = append(errs, errors.New("max retries cannot be negative"))
	}
	if c.API.RetryBackoff != "exponential" && c.API.RetryBackoff != "constant" {
		errs = append(errs, fmt.Errorf("unknown retry backoff %q", c.API.RetryBackoff))
	}

	switch c.RateLimit.Strategy {
	case "interval":
		if c.RateLimit.Interval < 0 {
			errs = append(errs, errors.New("rate limit interval cannot be negative"))
		}
	case "token_bucket", "sliding_window":
		if c.RateLimit.RequestsPerMinute <= 0 {
			errs = append(errs, errors.New("requests per minute must be positive"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown rate limit strategy %q", c.RateLimit.Strategy))
	}

	if c.Download.OutputDir == "" {
		errs = append(errs, errors.New("download output directory is required"))
	}

	if c.Diagrams.OutputDir == "" {
		errs = append(errs, errors.New("diagram output directory is required"))
	}
	if c.Diagrams.Size <= 0 || c.Diagrams.Size%8 != 0 {
		errs = append(errs, errors.New("diagram size must be a positive multiple of 8"))
	}
	if c.Diagrams.Padding < 0 {
		errs = append(errs, errors.New("diagram padding cannot be negative"))
	}
	if c.Diagrams.Workers <= 0 {
		errs = append(errs, errors.New("diagram workers must be positive"))
	}
	if c.Diagrams.Scale <= 0 {
		errs = append(errs, errors.New("diagram scale must be positive"))
	}
	validPolicies := map[string]bool{
		"overwrite": true, "fail-if-exists": true, "merge": true,
	}
	if !validPolicies[c.Diagrams.OutputPolicy] {
		errs = append(errs, fmt.Errorf("invalid output policy %q", c.Diagrams.OutputPolicy))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	return errors.Join(errs...)
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration.
// Only keys present in the map are applied.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if v, ok := flags["log-level"].(string); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := flags["download-dir"].(string); ok && v != "" {
		c.Download.OutputDir = v
	}
	if v, ok := flags["diagram-dir"].(string); ok && v != "" {
		c.Diagrams.OutputDir = v
	}
	if v, ok := flags["output-policy"].(string); ok && v != "" {
		c.Diagrams.OutputPolicy = v
	}
	if v, ok := flags["openings-file"].(string); ok && v != "" {
		c.Diagrams.OpeningsFile = v
	}
	if v, ok := flags["padding"].(int); ok {
		c.Diagrams.Padding = v
	}
	if v, ok := flags["workers"].(int); ok {
		c.Diagrams.Workers = v
	}
	if v, ok := flags["crop"].(bool); ok {
		c.Diagrams.Crop = v
	}
	if v, ok := flags["overlay"].(bool); ok {
		c.Diagrams.Overlay = v
	}
}

// Load loads configuration from all sources with proper precedence.
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".chesskit.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
