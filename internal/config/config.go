// Package config holds the explicit configuration struct passed into each
// component at startup. Credentials come from the environment only; tuning
// knobs come from an optional JSON settings file.
package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"
)

// Config is the full bridge configuration.
type Config struct {
	// Credentials, environment-only and never serialized.
	TelegramToken   string `json:"-"`
	AnthropicAPIKey string `json:"-"`

	SocketPath     string `json:"socket_path"`
	Model          string `json:"model"`
	MaxTokens      int    `json:"max_tokens"`
	PollTimeoutSec int    `json:"poll_timeout_sec"`
	BackoffSec     int    `json:"backoff_sec"`
	LogLevel       string `json:"log_level"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		SocketPath:     "/tmp/scene-engine.sock",
		Model:          "claude-sonnet-4-5-20250929",
		MaxTokens:      2048,
		PollTimeoutSec: 30,
		BackoffSec:     2,
		LogLevel:       "info",
	}
}

// Load builds the configuration from an optional settings file plus the
// environment. A missing settings file is fine; a present-but-broken one is
// an error so a typo never silently falls back to defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, errors.Wrapf(err, "failed to parse settings %s", path)
			}
			applyDefaults(cfg)
		case !os.IsNotExist(err):
			return nil, errors.Wrapf(err, "failed to read settings %s", path)
		}
	}

	cfg.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	cfg.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	if socket := os.Getenv("ENGINE_SOCKET"); socket != "" {
		cfg.SocketPath = socket
	}

	return cfg, nil
}

// applyDefaults fills in fields the settings file left zero.
func applyDefaults(cfg *Config) {
	defaults := Default()
	if cfg.SocketPath == "" {
		cfg.SocketPath = defaults.SocketPath
	}
	if cfg.Model == "" {
		cfg.Model = defaults.Model
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaults.MaxTokens
	}
	if cfg.PollTimeoutSec <= 0 {
		cfg.PollTimeoutSec = defaults.PollTimeoutSec
	}
	if cfg.BackoffSec <= 0 {
		cfg.BackoffSec = defaults.BackoffSec
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaults.LogLevel
	}
}

// Validate checks the startup requirements. A failure here is the only
// condition under which the process terminates itself.
func (c *Config) Validate() error {
	if c.TelegramToken == "" {
		return errors.New("Telegram bot token is required (create a bot via @BotFather and set TELEGRAM_BOT_TOKEN)")
	}
	if c.AnthropicAPIKey == "" {
		return errors.New("Anthropic API key is required (set ANTHROPIC_API_KEY)")
	}
	if c.SocketPath == "" {
		return errors.New("engine socket path is required")
	}
	return nil
}

// Backoff returns the fetch-failure backoff as a duration.
func (c *Config) Backoff() time.Duration {
	return time.Duration(c.BackoffSec) * time.Second
}
