package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds everything read from the environment at process start.
// Handles built from it are passed down explicitly; nothing else in the
// codebase reads os.Getenv after Load returns.
type Config struct {
	Port      string
	MongoURI  string
	MongoDB   string
	JWTSecret string

	RedisURL             string
	KafkaBootstrapServer string
	KafkaAPIKey          string
	KafkaAPISecret       string
	GroqAPIKey           string

	// Alert detection
	AlertsDedup    bool
	BatchWorkers   int
	PerUserTimeout time.Duration

	Development bool
	LogLevel    string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:                 getEnv("PORT", "8080"),
		MongoURI:             os.Getenv("MONGO_URI"),
		MongoDB:              getEnv("MONGO_DATABASE", "siku"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		RedisURL:             os.Getenv("REDIS_URL"),
		KafkaBootstrapServer: os.Getenv("KAFKA_BOOTSTRAP_SERVERS"),
		KafkaAPIKey:          os.Getenv("KAFKA_API_KEY"),
		KafkaAPISecret:       os.Getenv("KAFKA_API_SECRET"),
		GroqAPIKey:           os.Getenv("GROQ_API_KEY"),
		AlertsDedup:          getEnvBool("ALERTS_DEDUP", false),
		BatchWorkers:         getEnvInt("ALERTS_BATCH_WORKERS", 4),
		PerUserTimeout:       getEnvDuration("ALERTS_USER_TIMEOUT", 2*time.Minute),
		Development:          getEnvBool("DEVELOPMENT", false),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI environment variable not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable not set")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
