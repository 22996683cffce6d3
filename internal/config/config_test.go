package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_AppliesDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("openai.secret_key", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.OpenAI.SecretKey)
	assert.Equal(t, "https://api.openai.com/v1", cfg.OpenAI.BaseURL)
	assert.Equal(t, 5*time.Minute, cfg.OpenAI.CacheTTL)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "logs/openai-addon.log", cfg.Logging.Output)
	assert.Equal(t, 100, cfg.Logging.MaxSize)
}

func TestLoad_ExplicitValuesKept(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("openai.secret_key", "sk-test")
	viper.Set("openai.base_url", "https://proxy.internal/v1")
	viper.Set("openai.cache_ttl", "90s")
	viper.Set("logging.level", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://proxy.internal/v1", cfg.OpenAI.BaseURL)
	assert.Equal(t, 90*time.Second, cfg.OpenAI.CacheTTL)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_MissingSecretKey(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "secret_key")
}
