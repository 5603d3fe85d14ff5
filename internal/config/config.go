// Package config handles application configuration from a YAML file with
// environment-variable fallbacks for secrets.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied when the file leaves a field unset.
const (
	DefaultPollingIntervalSeconds = 60
	DefaultFailureThreshold       = 3
	DefaultBookmarkCapacity       = 10
	DefaultDatabasePath           = "./data/redwatch.db"
)

// Config holds the application configuration.
type Config struct {
	Query                  string    `yaml:"query"`
	PollingIntervalSeconds int       `yaml:"polling_interval_seconds"`
	FailureThreshold       int       `yaml:"failure_threshold"`
	BookmarkCapacity       int       `yaml:"bookmark_capacity"`
	DatabasePath           string    `yaml:"database_path"`
	LogLevel               string    `yaml:"log_level"`
	MetricsAddr            string    `yaml:"metrics_addr"`
	Telegram               Telegram  `yaml:"telegram"`
	Accounts               []Account `yaml:"accounts"`
}

// Telegram configures the alert transport.
type Telegram struct {
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

// Account is one credentialed search account.
type Account struct {
	Name        string `yaml:"name"`
	BearerToken string `yaml:"bearer_token"`
	Contact     string `yaml:"contact"`
}

// Load reads the YAML configuration from path, applies env fallbacks and
// defaults, and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the operator
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.resolveEnv()
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) resolveEnv() {
	if c.Telegram.BotToken == "" {
		c.Telegram.BotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	}
	if c.Telegram.ChatID == 0 {
		if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
			if id, err := strconv.ParseInt(v, 10, 64); err == nil {
				c.Telegram.ChatID = id
			}
		}
	}
}

func (c *Config) applyDefaults() {
	if c.PollingIntervalSeconds <= 0 {
		c.PollingIntervalSeconds = DefaultPollingIntervalSeconds
	}
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = DefaultFailureThreshold
	}
	if c.BookmarkCapacity <= 0 {
		c.BookmarkCapacity = DefaultBookmarkCapacity
	}
	if c.DatabasePath == "" {
		c.DatabasePath = DefaultDatabasePath
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func (c *Config) validate() error {
	if c.Query == "" {
		return fmt.Errorf("query is required")
	}
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram bot_token is required")
	}
	if c.Telegram.ChatID == 0 {
		return fmt.Errorf("telegram chat_id is required")
	}
	if len(c.Accounts) == 0 {
		return fmt.Errorf("at least one account is required")
	}

	names := make(map[string]struct{}, len(c.Accounts))
	for i, acc := range c.Accounts {
		if acc.Name == "" {
			return fmt.Errorf("account %d: name is required", i)
		}
		if acc.BearerToken == "" {
			return fmt.Errorf("account %q: bearer_token is required", acc.Name)
		}
		if _, dup := names[acc.Name]; dup {
			return fmt.Errorf("account %q: duplicate name", acc.Name)
		}
		names[acc.Name] = struct{}{}
	}
	return nil
}

// PollingInterval returns the polling interval as a duration.
func (c *Config) PollingInterval() time.Duration {
	return time.Duration(c.PollingIntervalSeconds) * time.Second
}
