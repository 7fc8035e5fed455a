package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadWithoutPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
storage:
  type: redis
  redis:
    url: redis://cache:6379
game:
  question_time_limit: 30s
logging:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "redis", cfg.Storage.Type)
	assert.Equal(t, "redis://cache:6379", cfg.Storage.Redis.URL)
	assert.Equal(t, 30*time.Second, cfg.Game.QuestionTimeLimit)
	// Untouched fields keep their defaults
	assert.Equal(t, 3*time.Second, cfg.Game.AnswerDisplayDelay)
	assert.Equal(t, 100, cfg.Game.BasePoints)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"bad port":         "server:\n  port: -1\n",
		"bad storage type": "storage:\n  type: cassandra\n",
		"bad time limit":   "game:\n  question_time_limit: 0s\n",
	}
	for name, content := range cases {
		_, err := Load(writeConfig(t, content))
		assert.Error(t, err, name)
	}
}

func TestSlogLevelMapping(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, LoggingConfig{Level: "debug"}.SlogLevel())
	assert.Equal(t, slog.LevelInfo, LoggingConfig{Level: "info"}.SlogLevel())
	assert.Equal(t, slog.LevelWarn, LoggingConfig{Level: "warn"}.SlogLevel())
	assert.Equal(t, slog.LevelError, LoggingConfig{Level: "error"}.SlogLevel())
	assert.Equal(t, slog.LevelInfo, LoggingConfig{Level: "whatever"}.SlogLevel())
}
