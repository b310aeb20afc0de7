package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type SessionConfig struct {
	Secret     string
	Issuer     string
	TTL        time.Duration
	CookieName string
}

type Config struct {
	Environment string
	Port        string
	LogLevel    slog.Level

	Database DatabaseConfig
	RedisURL string

	// Comma-separated Kafka brokers; empty falls back to the in-process bus.
	KafkaBrokers []string
	EventTopic   string

	Session       SessionConfig
	BcryptCost    int
	ResetTokenTTL time.Duration
}

// LoadConfig reads configuration from the environment, loading a .env file
// first when present.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Port:        getEnv("PORT", "8080"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Name:     getEnv("DB_NAME", "course_service"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		RedisURL:   getEnv("REDIS_URL", ""),
		EventTopic: getEnv("EVENT_TOPIC", "course-service.events"),
		Session: SessionConfig{
			Secret:     getEnv("SESSION_SECRET", ""),
			Issuer:     getEnv("SESSION_ISSUER", "course-service"),
			TTL:        getDurationEnv("SESSION_TTL", 24*time.Hour),
			CookieName: getEnv("SESSION_COOKIE", "session"),
		},
		BcryptCost:    getIntEnv("BCRYPT_COST", 10),
		ResetTokenTTL: getDurationEnv("RESET_TOKEN_TTL", time.Hour),
	}

	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	if cfg.Session.Secret == "" {
		if cfg.Environment == "production" {
			return nil, fmt.Errorf("SESSION_SECRET is required in production")
		}
		cfg.Session.Secret = "dev-only-insecure-secret"
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
