package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Placeholder values written into a freshly created config file. A bot token
// still set to one of these refuses to start.
const (
	PlaceholderBotToken    = "YOUR_TELEGRAM_BOT_TOKEN"
	PlaceholderDevBotToken = "YOUR_DEVELOPMENT_BOT_TOKEN"
)

// Config holds all application configuration
type Config struct {
	Telegram  TelegramConfig
	Server    ServerConfig
	Database  DatabaseConfig
	SimpleFIN SimpleFINConfig
	Logger    LoggerConfig
}

// TelegramConfig holds bot transport configuration
type TelegramConfig struct {
	BotToken  string `json:"bot_token"`
	WebAppURL string `json:"webapp_url"`
}

// ServerConfig holds the read API server configuration
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig holds SQLite storage configuration
type DatabaseConfig struct {
	Path string `json:"path"`
}

// SimpleFINConfig holds bridge client configuration
type SimpleFINConfig struct {
	SetupURL       string
	RequestTimeout time.Duration
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level string // debug, info, warn, error
}

// fileConfig mirrors the on-disk config.json layout.
type fileConfig struct {
	TelegramBot TelegramConfig `json:"telegram_bot"`
	Database    DatabaseConfig `json:"database"`
}

// Load loads configuration from config.json and environment variables.
// Environment variables take precedence over file values; the file is
// created with placeholder values when absent.
func Load() (*Config, error) {
	return LoadFile("config.json")
}

// LoadFile is Load with an explicit config file path.
func LoadFile(path string) (*Config, error) {
	fc, err := readOrCreateFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	cfg := &Config{
		Telegram: TelegramConfig{
			BotToken:  getEnv("TELEGRAM_BOT_TOKEN", fc.TelegramBot.BotToken),
			WebAppURL: getEnv("TELEGRAM_WEBAPP_URL", fc.TelegramBot.WebAppURL),
		},
		Server: ServerConfig{
			Port:         getEnv("PORT", "8000"),
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", "15s"),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", "15s"),
			IdleTimeout:  getEnvAsDuration("SERVER_IDLE_TIMEOUT", "60s"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DATABASE_PATH", fc.Database.Path),
		},
		SimpleFIN: SimpleFINConfig{
			SetupURL:       getEnv("SIMPLEFIN_SETUP_URL", "https://bridge.simplefin.org/simplefin/create"),
			RequestTimeout: getEnvAsDuration("SIMPLEFIN_TIMEOUT", "30s"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port cannot be empty")
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database path cannot be empty")
	}

	if c.SimpleFIN.RequestTimeout <= 0 {
		return fmt.Errorf("simplefin request timeout must be positive, got %s", c.SimpleFIN.RequestTimeout)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	return nil
}

// BotTokenConfigured reports whether a real bot token is set.
func (c *Config) BotTokenConfigured() bool {
	switch c.Telegram.BotToken {
	case "", PlaceholderBotToken, PlaceholderDevBotToken:
		return false
	}
	return true
}

func readOrCreateFile(path string) (*fileConfig, error) {
	fc := &fileConfig{
		TelegramBot: TelegramConfig{
			BotToken:  PlaceholderBotToken,
			WebAppURL: "https://your-webapp-domain.com/index.html",
		},
		Database: DatabaseConfig{
			Path: "simplefin_multi_accounts.db",
		},
	}

	data, err := os.ReadFile(path) // #nosec G304
	if os.IsNotExist(err) {
		out, marshalErr := json.MarshalIndent(fc, "", "  ")
		if marshalErr != nil {
			return nil, marshalErr
		}
		if writeErr := os.WriteFile(path, out, 0o600); writeErr != nil {
			return nil, fmt.Errorf("failed to create default config file: %w", writeErr)
		}
		return fc, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(data, fc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return fc, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to parsing the default if provided value is invalid
		duration, err = time.ParseDuration(defaultValue)
		if err != nil {
			return 0
		}
	}
	return duration
}
