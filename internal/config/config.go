package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the addon configuration
type Config struct {
	OpenAI  OpenAIConfig  `mapstructure:"openai"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// OpenAIConfig holds the global API settings shared by every feed.
type OpenAIConfig struct {
	SecretKey    string        `mapstructure:"secret_key"`
	Organization string        `mapstructure:"organization"`
	BaseURL      string        `mapstructure:"base_url"`
	CacheTTL     time.Duration `mapstructure:"cache_ttl"`
}

type LoggingConfig struct {
	Level         string `mapstructure:"level"`
	Output        string `mapstructure:"output"`
	ConsoleOutput bool   `mapstructure:"console_output"`
	MaxSize       int    `mapstructure:"max_size"`
	MaxBackups    int    `mapstructure:"max_backups"`
	MaxAge        int    `mapstructure:"max_age"`
	Compress      bool   `mapstructure:"compress"`
}

// Load loads the configuration from file and environment
func Load() (*Config, error) {
	var cfg Config

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.OpenAI.BaseURL == "" {
		cfg.OpenAI.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.OpenAI.CacheTTL == 0 {
		cfg.OpenAI.CacheTTL = 5 * time.Minute
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "logs/openai-addon.log"
	}
	cfg.Logging.ConsoleOutput = true
	if cfg.Logging.MaxSize == 0 {
		cfg.Logging.MaxSize = 100
	}
	if cfg.Logging.MaxBackups == 0 {
		cfg.Logging.MaxBackups = 10
	}
	if cfg.Logging.MaxAge == 0 {
		cfg.Logging.MaxAge = 30
	}
}

func validate(cfg *Config) error {
	if cfg.OpenAI.SecretKey == "" {
		return fmt.Errorf("openai.secret_key is required")
	}
	return nil
}
