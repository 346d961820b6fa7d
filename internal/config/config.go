package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	feedURLEnv = "WESUM_FEED_URL"
	apiKeyEnv  = "WESUM_AI_API_KEY"
	sendKeyEnv = "WESUM_PUSH_SENDKEY"
)

// Config holds the static settings the whole run depends on.
type Config struct {
	Feed      FeedConfig      `yaml:"feed"`
	Storage   StorageConfig   `yaml:"storage"`
	AI        AIConfig        `yaml:"ai"`
	Push      PushConfig      `yaml:"push"`
	Filters   FilterConfig    `yaml:"filters"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// FeedConfig points at the official-account RSS feed.
type FeedConfig struct {
	URL string `yaml:"url"`
}

// StorageConfig locates the seen-article database file.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// AIConfig defines how to contact the generation service.
type AIConfig struct {
	Endpoint  string `yaml:"endpoint"`
	APIKey    string `yaml:"apiKey"`
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"maxTokens"`
}

// PushConfig wires the ServerChan delivery credentials.
type PushConfig struct {
	SendKey     string `yaml:"sendKey"`
	TitlePrefix string `yaml:"titlePrefix"`
}

// FilterConfig bounds how much of the feed a single run consumes. Zero
// values mean unbounded.
type FilterConfig struct {
	MaxArticlesPerRun int `yaml:"maxArticlesPerRun"`
	MaxHours          int `yaml:"maxHours"`
}

// SchedulerConfig controls daemon-mode cadence.
type SchedulerConfig struct {
	IntervalMinutes int `yaml:"intervalMinutes"`
}

// Interval resolves the configured cadence, defaulting to hourly.
func (s SchedulerConfig) Interval() time.Duration {
	if s.IntervalMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(s.IntervalMinutes) * time.Minute
}

// LoggingConfig selects the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads the YAML document at path and applies environment overrides
// for secrets. The file is required: running without configuration is a
// user error, not a defaultable state.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := defaultConfig()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func defaultConfig() Config {
	return Config{
		Storage: StorageConfig{Path: "wesum.db"},
		AI: AIConfig{
			Model:     "qwen-turbo",
			MaxTokens: 1000,
		},
		Filters:   FilterConfig{MaxHours: 24},
		Scheduler: SchedulerConfig{IntervalMinutes: 60},
		Logging:   LoggingConfig{Level: "info"},
	}
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(feedURLEnv); v != "" {
		c.Feed.URL = v
	}
	if v := os.Getenv(apiKeyEnv); v != "" {
		c.AI.APIKey = v
	}
	if v := os.Getenv(sendKeyEnv); v != "" {
		c.Push.SendKey = v
	}
}

// Validate reports the settings a run cannot do without. Delivery
// credentials are skipped when the digest is not going to be pushed.
func (c Config) Validate(dryRun bool) error {
	if c.Feed.URL == "" {
		return fmt.Errorf("feed.url is required (or set %s)", feedURLEnv)
	}
	if c.AI.APIKey == "" {
		return fmt.Errorf("ai.apiKey is required (or set %s)", apiKeyEnv)
	}
	if !dryRun && c.Push.SendKey == "" {
		return fmt.Errorf("push.sendKey is required (or set %s)", sendKeyEnv)
	}
	return nil
}
