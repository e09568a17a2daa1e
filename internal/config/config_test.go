package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"ATENDE_PORT", "ATENDE_MODEL_NAME", "ATENDE_LOOP_BUDGET",
		"ATENDE_HISTORY_LIMIT", "ATENDE_LOGIN_TIMEOUT_SECONDS", "ATENDE_CALL_TIMEOUT_SECONDS"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "gemini-2.0-flash", cfg.ModelName)
	assert.Equal(t, 10, cfg.LoopBudget)
	assert.Equal(t, 20, cfg.HistoryLimit)
	assert.Equal(t, 5*time.Second, cfg.LoginTimeout)
	assert.Equal(t, 8*time.Second, cfg.CallTimeout)
}

func TestLoadFallsBackToMockWithoutKey(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("ATENDE_USE_MOCK_LLM", "")

	cfg := Load()
	assert.True(t, cfg.UseMockLLM, "no API key must select the scripted engine")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ATENDE_PORT", "9090")
	t.Setenv("ATENDE_LOOP_BUDGET", "4")
	t.Setenv("ATENDE_CALL_TIMEOUT_SECONDS", "2")
	t.Setenv("GOOGLE_API_KEY", "fake-key")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 4, cfg.LoopBudget)
	assert.Equal(t, 2*time.Second, cfg.CallTimeout)
	assert.False(t, cfg.UseMockLLM)
	assert.Equal(t, "fake-key", cfg.GeminiAPIKey)
}

func TestBadIntFallsBackToDefault(t *testing.T) {
	t.Setenv("ATENDE_LOOP_BUDGET", "não-é-número")

	cfg := Load()
	assert.Equal(t, 10, cfg.LoopBudget)
}
