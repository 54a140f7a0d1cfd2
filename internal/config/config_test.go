package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, BackendFile, cfg.StorageBackend)
	assert.Equal(t, "world_state.json", cfg.StateFile)
	assert.Equal(t, "http://localhost:11434", cfg.OllamaURL)
	assert.Equal(t, 16384, cfg.LLMContext)
	assert.Equal(t, 120*time.Second, cfg.LLMTimeout)
	assert.Equal(t, 10, cfg.HistoryLimit)
	assert.Equal(t, 2, cfg.MaxContinuations)
	assert.False(t, cfg.AuditEnabled)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("STORAGE_BACKEND", " SQLite ")
	t.Setenv("AUDIT_ENABLED", "true")
	t.Setenv("LLM_TIMEOUT", "30s")
	t.Setenv("HISTORY_LIMIT", "4")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, BackendSQLite, cfg.StorageBackend)
	assert.True(t, cfg.AuditEnabled)
	assert.Equal(t, 30*time.Second, cfg.LLMTimeout)
	assert.Equal(t, 4, cfg.HistoryLimit)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown backend", "STORAGE_BACKEND", "postgres"},
		{"bad bool", "AUDIT_ENABLED", "maybe"},
		{"bad duration", "LLM_TIMEOUT", "soon"},
		{"zero timeout", "LLM_TIMEOUT", "0s"},
		{"negative history", "HISTORY_LIMIT", "-1"},
		{"bad level", "LOG_LEVEL", "loud"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
