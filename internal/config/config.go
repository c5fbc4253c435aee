package config

import (
	"os"
	"strconv"

	"go.uber.org/zap"
)

// Config holds all configuration for the application.
type Config struct {
	AppEnv    string
	DBPath    string
	DBDriver  string
	RedisAddr string
	HTTPPort  int

	AlertThreshold    float64
	AlertCooldownSecs int
	QueueMaxCapacity  int
	PollIntervalMs    int
	CacheTTLSecs      int
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() *Config {
	return &Config{
		AppEnv:    getEnv("APP_ENV", "development"),
		DBPath:    getEnv("DB_PATH", "./data/database.db"),
		DBDriver:  getEnv("DB_DRIVER", "sqlite3"),
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		HTTPPort:  getEnvInt("HTTP_PORT", 8080),

		AlertThreshold:    getEnvFloat("ALERT_THRESHOLD", 2.5),
		AlertCooldownSecs: getEnvInt("ALERT_COOLDOWN_SECONDS", 3600),
		QueueMaxCapacity:  getEnvInt("QUEUE_MAX_CAPACITY", 10000),
		PollIntervalMs:    getEnvInt("POLL_INTERVAL_MS", 2000),
		CacheTTLSecs:      getEnvInt("CACHE_TTL_SECONDS", 60),
	}
}

// NewLogger creates a new Zap logger based on the config.
func NewLogger(cfg *Config) (*zap.Logger, error) {
	if cfg.AppEnv == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	val, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return val
}

func getEnvFloat(key string, fallback float64) float64 {
	val, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return fallback
	}
	return val
}
