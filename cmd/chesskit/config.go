package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"chesskit/pkg/config"
	"chesskit/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage chesskit configuration files.

Configuration is layered, highest priority first:
  - Command line flags
  - CHESSKIT_* environment variables (also read from .env and ~/.chesskit.env)
  - Configuration file
  - Default values`,
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file will be created in the current directory as '.chesskit.yaml'
unless a different path is specified with the --config flag.`,
	RunE: runConfigInit,
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Show the configuration that results from merging all sources.`,
	RunE:  runConfigShow,
}

// validateCmd represents the config validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate a configuration file for syntax errors and invalid values.

This command checks:
  - YAML syntax
  - Value types and ranges
  - Output policy, rate limit strategy and log level names`,
	RunE: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

const exampleConfig = `# chesskit configuration file
#
# Every option can also be set with an environment variable prefixed with
# CHESSKIT_, for example CHESSKIT_DOWNLOAD_DIR or CHESSKIT_LOG_LEVEL.

# chess.com public API
api:
  base_url: "https://api.chess.com"
  # Sent with every request; chess.com asks clients to identify themselves
  user_agent: "chesskit/1.0 (+https://github.com/chesskit/chesskit)"
  timeout: 30s
  # Extra attempts for network errors, HTTP 429 and 5xx responses
  max_retries: 3
  retry_delay: 1s
  # exponential doubles retry_delay after each failure, constant keeps it fixed
  retry_backoff: exponential

# Spacing between archive requests
rate_limit:
  # interval, token_bucket or sliding_window
  strategy: interval
  interval: 1s
  # Used by token_bucket and sliding_window
  requests_per_minute: 60

download:
  output_dir: "games"

diagrams:
  output_dir: "chess_openings"
  # Board size in logical units, a multiple of 8
  size: 400
  # Extra ranks shown above White's highest piece
  padding: 0
  crop: true
  overlay: true
  # overwrite, fail-if-exists or merge
  output_policy: overwrite
  # YAML file with an "openings" list of name/fen pairs; empty uses the built-in table
  openings_file: ""
  workers: 1
  # PNG pixels per logical unit
  scale: 1

logging:
  # debug, info, warn or error
  level: info
  # Empty logs to stderr
  file: ""
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := configFile
	if configPath == "" {
		configPath = ".chesskit.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		ui.PrintError("Configuration file already exists", configPath)
		ui.Println("\nTo overwrite, first remove the existing file:")
		ui.Println(fmt.Sprintf("  rm %s", configPath))
		return fmt.Errorf("%s already exists", configPath)
	}

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(showable(cfg))
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	ui.PrintHighlight("# Effective configuration")
	ui.Println(string(data))
	return nil
}

// showable renders durations as strings so the output can be pasted into a config file
func showable(cfg *config.Config) map[string]interface{} {
	return map[string]interface{}{
		"api": map[string]interface{}{
			"base_url":      cfg.API.BaseURL,
			"user_agent":    cfg.API.UserAgent,
			"timeout":       cfg.API.Timeout.String(),
			"max_retries":   cfg.API.MaxRetries,
			"retry_delay":   cfg.API.RetryDelay.String(),
			"retry_backoff": cfg.API.RetryBackoff,
		},
		"rate_limit": map[string]interface{}{
			"strategy":            cfg.RateLimit.Strategy,
			"interval":            cfg.RateLimit.Interval.String(),
			"requests_per_minute": cfg.RateLimit.RequestsPerMinute,
		},
		"download": cfg.Download,
		"diagrams": cfg.Diagrams,
		"logging":  cfg.Logging,
	}
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	if configFile != "" {
		if _, err := os.Stat(configFile); err != nil {
			return fmt.Errorf("cannot read config file: %w", err)
		}
	}

	if _, err := config.Load(configFile, nil); err != nil {
		ui.PrintError("Configuration is invalid")
		return err
	}

	ui.PrintSuccess("Configuration is valid")
	return nil
}
