package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfigPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "config.json")
}

func TestLoadFile_CreatesDefaultFile(t *testing.T) {
	path := testConfigPath(t)

	cfg, err := LoadFile(path)
	require.NoError(t, err, "unexpected error")

	_, statErr := os.Stat(path)
	assert.NoError(t, statErr, "config file should have been created")

	assert.Equal(t, PlaceholderBotToken, cfg.Telegram.BotToken)
	assert.Equal(t, "simplefin_multi_accounts.db", cfg.Database.Path)
	assert.False(t, cfg.BotTokenConfigured(), "placeholder token should not count as configured")
}

func TestLoadFile_ReadsExistingFile(t *testing.T) {
	path := testConfigPath(t)

	data := `{
  "telegram_bot": {
    "bot_token": "123456:real-token",
    "webapp_url": "https://example.com/app"
  },
  "database": {
    "path": "links.db"
  }
}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "123456:real-token", cfg.Telegram.BotToken)
	assert.Equal(t, "https://example.com/app", cfg.Telegram.WebAppURL)
	assert.Equal(t, "links.db", cfg.Database.Path)
	assert.True(t, cfg.BotTokenConfigured())
}

func TestLoadFile_EnvOverridesFile(t *testing.T) {
	path := testConfigPath(t)

	data := `{"telegram_bot":{"bot_token":"from-file"},"database":{"path":"file.db"}}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	t.Setenv("TELEGRAM_BOT_TOKEN", "from-env")
	t.Setenv("DATABASE_PATH", "env.db")
	t.Setenv("SIMPLEFIN_TIMEOUT", "10s")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Telegram.BotToken)
	assert.Equal(t, "env.db", cfg.Database.Path)
	assert.Equal(t, 10*time.Second, cfg.SimpleFIN.RequestTimeout)
}

func TestLoadFile_InvalidJSON(t *testing.T) {
	path := testConfigPath(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := LoadFile(path)
	assert.Error(t, err, "malformed config file should fail to load")
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:    ServerConfig{Port: "8000"},
			Database:  DatabaseConfig{Path: "links.db"},
			SimpleFIN: SimpleFINConfig{RequestTimeout: 30 * time.Second},
			Logger:    LoggerConfig{Level: "info"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "empty port",
			mutate:  func(c *Config) { c.Server.Port = "" },
			wantErr: true,
		},
		{
			name:    "empty database path",
			mutate:  func(c *Config) { c.Database.Path = "" },
			wantErr: true,
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.SimpleFIN.RequestTimeout = 0 },
			wantErr: true,
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logger.Level = "verbose" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
