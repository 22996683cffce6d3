package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/formflow/openai-addon/internal/config"
)

func TestNew_WritesToFile(t *testing.T) {
	output := filepath.Join(t.TempDir(), "logs", "addon.log")

	log, err := New(config.LoggingConfig{
		Level:   "debug",
		Output:  output,
		MaxSize: 10,
	})
	require.NoError(t, err)

	log.Info("hello")
	log.Sync()

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
}

func TestNew_InvalidLevelFallsBack(t *testing.T) {
	log, err := New(config.LoggingConfig{Level: "chatty", ConsoleOutput: true})
	require.NoError(t, err)

	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
}
