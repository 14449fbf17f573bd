package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/mtlprog/sipplan/internal/domain"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	DatabaseURL           string
	HTTPPort              string
	AdminAPIKey           string
	LogLevel              slog.Level
	DefaultStepUp         domain.StepUpPolicy
	MaxHorizonYears       int
	MaxStreams            int
	ProjectionCacheTTL    time.Duration
	ReviewWorkerInterval  time.Duration
	ProjectionWorkers     int
	GoogleSheetsID        string
	GoogleCredentialsJSON string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		DatabaseURL:     envOrDefaultWarn("DATABASE_URL", ""),
		HTTPPort:        envOrDefault("HTTP_PORT", "8080"),
		AdminAPIKey:     envOrDefault("ADMIN_API_KEY", ""),
		LogLevel:        envOrDefaultLevel("LOG_LEVEL", slog.LevelInfo),
		DefaultStepUp: domain.StepUpPolicy{
			StepUpPercent: envOrDefaultFloat("DEFAULT_STEP_UP_PERCENT", 10),
			Frequency:     envOrDefaultFrequency("DEFAULT_STEP_UP_FREQUENCY", domain.FrequencyYearly),
		},
		MaxHorizonYears:       envOrDefaultPositiveInt("MAX_HORIZON_YEARS", 50),
		MaxStreams:            envOrDefaultPositiveInt("MAX_STREAMS", 100),
		ProjectionCacheTTL:    envOrDefaultDuration("PROJECTION_CACHE_TTL", 5*time.Minute),
		ReviewWorkerInterval:  envOrDefaultDuration("REVIEW_WORKER_INTERVAL", 24*time.Hour),
		ProjectionWorkers:     envOrDefaultPositiveInt("PROJECTION_WORKERS", 4),
		GoogleSheetsID:        envOrDefault("GOOGLE_SHEETS_ID", ""),
		GoogleCredentialsJSON: envOrDefault("GOOGLE_CREDENTIALS_JSON", ""),
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envOrDefaultWarn(key, defaultVal string) string {
	v := envOrDefault(key, defaultVal)
	if v == "" {
		slog.Warn("required env var not set", "key", key)
	}
	return v
}

func envOrDefaultInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			slog.Warn("invalid integer env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return n
	}
	return defaultVal
}

func envOrDefaultPositiveInt(key string, defaultVal int) int {
	n := envOrDefaultInt(key, defaultVal)
	if n <= 0 {
		slog.Warn("non-positive integer env var, using default", "key", key, "value", n, "default", defaultVal)
		return defaultVal
	}
	return n
}

func envOrDefaultFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := domain.ParseAmount(v)
		if err != nil {
			slog.Warn("invalid number env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return f
	}
	return defaultVal
}

func envOrDefaultDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return d
	}
	return defaultVal
}

func envOrDefaultFrequency(key string, defaultVal domain.Frequency) domain.Frequency {
	if v := os.Getenv(key); v != "" {
		f, err := domain.ParseFrequency(v)
		if err != nil {
			slog.Warn("invalid step-up frequency env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return f
	}
	return defaultVal
}

func envOrDefaultLevel(key string, defaultVal slog.Level) slog.Level {
	if v := os.Getenv(key); v != "" {
		var l slog.Level
		if err := l.UnmarshalText([]byte(v)); err != nil {
			slog.Warn("invalid log level env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return l
	}
	return defaultVal
}
