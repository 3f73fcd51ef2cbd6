package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	Env             string
	DBPath          string
	UsersURL        string
	FetchTimeout    time.Duration
	SyncInterval    time.Duration
	SyncMaxInterval time.Duration
	ProbeInterval   time.Duration
	Locale          string
	LogLevel        string
	CORSOrigins     string
}

var AppConfig *Config

func Load() *Config {
	_ = godotenv.Load()

	AppConfig = &Config{
		Port:            GetEnv("PORT", "3000"),
		Env:             GetEnv("ENV", "development"),
		DBPath:          GetEnv("DB_PATH", "./data/users.db"),
		UsersURL:        GetEnv("USERS_URL", "https://jsonplaceholder.typicode.com/users"),
		FetchTimeout:    GetDuration("FETCH_TIMEOUT", 5*time.Second),
		SyncInterval:    GetDuration("SYNC_INTERVAL", 2*time.Minute),
		SyncMaxInterval: GetDuration("SYNC_MAX_INTERVAL", 5*time.Minute),
		ProbeInterval:   GetDuration("PROBE_INTERVAL", 10*time.Second),
		Locale:          GetEnv("LOCALE", "en"),
		LogLevel:        GetEnv("LOG_LEVEL", "info"),
		CORSOrigins:     GetEnv("CORS_ORIGINS", "*"),
	}

	return AppConfig
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetDuration parses a duration such as "30s"; invalid values fall back to the default
func GetDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration, using default", "key", key, "value", value, "default", defaultValue)
		return defaultValue
	}
	return d
}

// IsProduction reports whether the app runs in production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
