package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	RedisURL    string
	LogLevel    string
	Environment string
	CORSOrigins string

	AdminPassword string
	SessionTTL    time.Duration

	// Fetch pipeline budgets. RequestBudget is the server-side execution
	// ceiling per page request; PageTimeout must fit inside it.
	RequestBudget time.Duration
	PageTimeout   time.Duration
	MaxPages      int
	MaxVideos     int
	CacheTTL      time.Duration

	// KnownMissingVideoIDs are reconciled after pagination: any ID absent
	// from the aggregated result is fetched directly.
	KnownMissingVideoIDs []string
}

func Load() *Config {
	// Missing .env is fine; real env vars win either way.
	_ = godotenv.Load()

	return &Config{
		Port:        getEnv("PORT", "8080"),
		RedisURL:    getEnv("REDIS_URL", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Environment: getEnv("ENVIRONMENT", "development"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),

		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),
		SessionTTL:    time.Duration(getEnvInt("SESSION_TTL_HOURS", 24)) * time.Hour,

		RequestBudget: time.Duration(getEnvInt("REQUEST_BUDGET_SECONDS", 10)) * time.Second,
		PageTimeout:   time.Duration(getEnvInt("PAGE_TIMEOUT_SECONDS", 9)) * time.Second,
		MaxPages:      getEnvInt("MAX_PAGES", 30),
		MaxVideos:     getEnvInt("MAX_VIDEOS", 1500),
		CacheTTL:      time.Duration(getEnvInt("CACHE_TTL_MINUTES", 5)) * time.Minute,

		KnownMissingVideoIDs: getEnvList("KNOWN_MISSING_VIDEO_IDS"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
