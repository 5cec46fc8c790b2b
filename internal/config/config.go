package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all service configuration values
type Config struct {
	HTTPPort      string // e.g. ":8080"
	Env           string // "dev" | "staging" | "prod"
	DBDSN         string // postgres DSN; empty runs the in-memory store
	RedisAddr     string // empty disables the query cache
	RedisPassword string
	SMTPHost      string // empty disables outgoing email (log-only)
	SMTPPort      int
	SMTPUsername  string
	SMTPPassword  string
	SMTPFrom      string
}

// Load reads configuration from a .env file (if present) and the
// environment. Everything has a usable default for local development.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		HTTPPort:      ":" + getEnv("PORT", "8080"),
		Env:           getEnv("APP_ENV", "dev"),
		DBDSN:         getEnv("DB_DSN", ""),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		SMTPHost:      getEnv("SMTP_HOST", ""),
		SMTPPort:      getEnvInt("SMTP_PORT", 587),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:      getEnv("SMTP_FROM", "auctions@localhost"),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}
