package config

import (
	"os"
)

type Config struct {
	DatabaseURL   string
	RedisHost     string
	RedisPort     string
	SessionSecret string
	GinMode       string
	Port          string
	MailAPIURL    string
	MailAPIKey    string
	MailFrom      string
	AppBaseURL    string
	DefaultLocale string
}

func Load() *Config {
	return &Config{
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		SessionSecret: getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		GinMode:       getEnv("GIN_MODE", "debug"),
		Port:          getEnv("PORT", "8080"),
		MailAPIURL:    getEnv("MAIL_API_URL", ""),
		MailAPIKey:    getEnv("MAIL_API_KEY", ""),
		MailFrom:      getEnv("MAIL_FROM", "noreply@localhost"),
		AppBaseURL:    getEnv("APP_BASE_URL", "http://localhost:8080"),
		DefaultLocale: getEnv("DEFAULT_LOCALE", "en"),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
