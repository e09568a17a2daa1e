package config

import (
	"os"
	"strconv"
	"time"

	"github.com/osapicare/atende-agent/internal/observability"
)

type Config struct {
	Port string

	// Reasoning engine
	GeminiAPIKey string
	ModelName    string
	UseMockLLM   bool // true = scripted engine even when a key is set

	// Remote platforms
	NotesBaseURL  string
	ClinicBaseURL string
	ClinicEmail   string
	ClinicSenha   string
	PortalLink    string

	// Turn orchestration
	LoopBudget   int
	HistoryLimit int

	LoginTimeout time.Duration
	CallTimeout  time.Duration
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v == "1" || v == "true" || v == "TRUE"
}

func getIntEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// Load reads all env vars and builds the config.
// A missing GOOGLE_API_KEY is a visible warning, not a silent failure:
// the service falls back to the scripted engine.
func Load() *Config {
	cfg := &Config{
		Port: getEnv("ATENDE_PORT", "8080"),

		GeminiAPIKey: getEnv("GOOGLE_API_KEY", ""),
		ModelName:    getEnv("ATENDE_MODEL_NAME", "gemini-2.0-flash"),
		UseMockLLM:   getBoolEnv("ATENDE_USE_MOCK_LLM", false),

		NotesBaseURL:  getEnv("ATENDE_NOTES_BASE_URL", "https://agendas-adilson-default-rtdb.firebaseio.com"),
		ClinicBaseURL: getEnv("ATENDE_CLINIC_BASE_URL", "https://magnetic-buzzard-osapicare-a83d5229.koyeb.app"),
		ClinicEmail:   getEnv("ATENDE_CLINIC_EMAIL", ""),
		ClinicSenha:   getEnv("ATENDE_CLINIC_SENHA", ""),
		PortalLink:    getEnv("ATENDE_PORTAL_LINK", "https://akin-lis-app-web.vercel.app/akin/patient"),

		LoopBudget:   getIntEnv("ATENDE_LOOP_BUDGET", 10),
		HistoryLimit: getIntEnv("ATENDE_HISTORY_LIMIT", 20),

		LoginTimeout: time.Duration(getIntEnv("ATENDE_LOGIN_TIMEOUT_SECONDS", 5)) * time.Second,
		CallTimeout:  time.Duration(getIntEnv("ATENDE_CALL_TIMEOUT_SECONDS", 8)) * time.Second,
	}

	if cfg.GeminiAPIKey == "" && !cfg.UseMockLLM {
		observability.Logger().Warn("GOOGLE_API_KEY not set; falling back to the scripted engine")
		cfg.UseMockLLM = true
	}

	return cfg
}
