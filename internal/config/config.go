// Package config loads and validates the prompt gateway configuration.
//
// DESIGN: YAML files with ${VAR:-default} environment expansion. Engine
// decision tables (budgets, keyword lists, phase text) are compile-time
// constants in the engine package and deliberately NOT configurable;
// this package only covers the service shell around the engine.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sajtmaskin/prompt-gateway/internal/monitoring"
)

// Config is the root configuration for the prompt gateway service.
type Config struct {
	Server  ServerConfig            `yaml:"server"`  // HTTP server settings
	Logging monitoring.LoggerConfig `yaml:"logging"` // zerolog settings
	Store   StoreConfig             `yaml:"store"`   // decision audit store
	Engine  EngineConfig            `yaml:"engine"`  // engine-adjacent toggles
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         int           `yaml:"port"`          // Port to listen on
	ReadTimeout  time.Duration `yaml:"read_timeout"`  // Max time to read request
	WriteTimeout time.Duration `yaml:"write_timeout"` // Max time to write response
	RateLimit    int           `yaml:"rate_limit"`    // Requests per second per IP (0 = off)
}

// StoreConfig contains decision audit store settings.
type StoreConfig struct {
	Path          string `yaml:"path"`           // SQLite file path ("" disables the store)
	RetentionDays int    `yaml:"retention_days"` // Drop records older than this (0 = keep forever)
	PruneSchedule string `yaml:"prune_schedule"` // Cron expression (with seconds) for pruning
}

// EngineConfig contains service-level toggles around the engine. These
// are defaults applied when a request omits the corresponding field; the
// engine's own tables are constants.
type EngineConfig struct {
	PlanModeFirstPrompt bool   `yaml:"plan_mode_first_prompt"` // Default for planModeFirstPromptEnabled
	DecisionLogPath     string `yaml:"decision_log_path"`      // JSONL decision log ("" disables)
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8085,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			RateLimit:    50,
		},
		Logging: monitoring.LoggerConfig{
			Level:  "info",
			Format: "console",
			Output: "stdout",
		},
		Store: StoreConfig{
			Path:          "",
			RetentionDays: 30,
			PruneSchedule: "0 30 3 * * *",
		},
	}
}

// expandEnvWithDefaults expands environment variables with support for
// both ${VAR} and ${VAR:-default} syntax.
func expandEnvWithDefaults(s string) string {
	re := regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		parts := re.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		if len(parts) > 2 {
			return parts[2]
		}
		return ""
	})
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config file path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses configuration from raw YAML bytes. Missing fields
// keep their Default() values; env expansion and validation are applied.
func LoadFromBytes(data []byte) (*Config, error) {
	expanded := expandEnvWithDefaults(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides lets deployment tooling redirect paths without
// touching config files.
func (c *Config) applyEnvOverrides() {
	if p := os.Getenv("PROMPT_GATEWAY_STORE_PATH"); p != "" {
		c.Store.Path = p
	}
	if p := os.Getenv("PROMPT_GATEWAY_DECISION_LOG"); p != "" {
		c.Engine.DecisionLogPath = p
	}
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server.write_timeout must be positive")
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit must not be negative")
	}
	if c.Store.RetentionDays < 0 {
		return fmt.Errorf("store.retention_days must not be negative")
	}
	if c.Store.RetentionDays > 0 && c.Store.PruneSchedule == "" {
		return fmt.Errorf("store.prune_schedule is required when retention is enabled")
	}
	return nil
}
