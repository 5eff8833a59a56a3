package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sajtmaskin/prompt-gateway/internal/config"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, 8085, cfg.Server.Port)
	assert.Equal(t, 50, cfg.Server.RateLimit)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 30, cfg.Store.RetentionDays)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromBytes_PartialOverridesKeepDefaults(t *testing.T) {
	yaml := []byte(`
server:
  port: 9090
store:
  path: /tmp/decisions.db
`)
	cfg, err := config.LoadFromBytes(yaml)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/tmp/decisions.db", cfg.Store.Path)
	// Untouched fields keep their defaults.
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "0 30 3 * * *", cfg.Store.PruneSchedule)
}

func TestLoadFromBytes_EnvExpansion(t *testing.T) {
	t.Setenv("PG_TEST_PORT", "7001")

	cfg, err := config.LoadFromBytes([]byte("server:\n  port: ${PG_TEST_PORT}\n"))
	require.NoError(t, err)
	assert.Equal(t, 7001, cfg.Server.Port)
}

func TestLoadFromBytes_EnvDefaultSyntax(t *testing.T) {
	cfg, err := config.LoadFromBytes([]byte("server:\n  port: ${PG_UNSET_PORT:-7002}\n"))
	require.NoError(t, err)
	assert.Equal(t, 7002, cfg.Server.Port)
}

func TestLoadFromBytes_EnvOverridesPaths(t *testing.T) {
	t.Setenv("PROMPT_GATEWAY_STORE_PATH", "/var/lib/pg/override.db")
	t.Setenv("PROMPT_GATEWAY_DECISION_LOG", "/var/log/pg/decisions.jsonl")

	cfg, err := config.LoadFromBytes([]byte("store:\n  path: /tmp/from-file.db\n"))
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/pg/override.db", cfg.Store.Path)
	assert.Equal(t, "/var/log/pg/decisions.jsonl", cfg.Engine.DecisionLogPath)
}

func TestLoadFromBytes_InvalidYAML(t *testing.T) {
	_, err := config.LoadFromBytes([]byte("server: [not a map"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"bad port", func(c *config.Config) { c.Server.Port = 0 }, "server.port"},
		{"port too large", func(c *config.Config) { c.Server.Port = 70000 }, "server.port"},
		{"bad read timeout", func(c *config.Config) { c.Server.ReadTimeout = 0 }, "read_timeout"},
		{"bad write timeout", func(c *config.Config) { c.Server.WriteTimeout = -time.Second }, "write_timeout"},
		{"negative rate limit", func(c *config.Config) { c.Server.RateLimit = -1 }, "rate_limit"},
		{"negative retention", func(c *config.Config) { c.Store.RetentionDays = -1 }, "retention_days"},
		{"retention without schedule", func(c *config.Config) { c.Store.PruneSchedule = "" }, "prune_schedule"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
