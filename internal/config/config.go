package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Redis (optional, enables cross-replica fan-out)
	RedisURL string

	// Gemini AI
	GeminiModel        string
	ChatRequestTimeout time.Duration
	SessionIdleTimeout time.Duration

	// Chat
	ChatRateLimitPerMin int

	// Frontend
	FrontendURL string
}

// Load reads non-secret settings. The Gemini credential is resolved lazily by
// ResolveCredential when the first session is created.
func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:                getEnvOrDefault("PORT", "8080"),
		Env:                 getEnvOrDefault("ENV", "development"),
		RedisURL:            getEnvOrDefault("REDIS_URL", ""),
		GeminiModel:         getEnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		ChatRequestTimeout:  getEnvAsDurationOrDefault("CHAT_REQUEST_TIMEOUT", 0),
		SessionIdleTimeout:  getEnvAsDurationOrDefault("SESSION_IDLE_TIMEOUT", 0),
		ChatRateLimitPerMin: getEnvAsIntOrDefault("CHAT_RATE_LIMIT_PER_MIN", 30),
		FrontendURL:         getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
	}

	return cfg
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

// getEnvAsDurationOrDefault accepts Go duration strings ("30s") or a bare
// number of seconds.
func getEnvAsDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(val); err == nil && d >= 0 {
		return d
	}
	if n, err := strconv.Atoi(val); err == nil && n >= 0 {
		return time.Duration(n) * time.Second
	}
	return defaultVal
}
