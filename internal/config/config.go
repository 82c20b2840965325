package config

import (
	"fmt"
	"os"
)

// Config holds all configuration for the application
type Config struct {
	DatabaseURL   string
	Port          string
	LogLevel      string
	SessionSecret string
	LinkSecret    string
	AdminUsername string
	AdminPassword string
	PublicBaseURL string

	// Optional Telegram announcer. Empty token disables it.
	TelegramToken          string
	TelegramAnnounceChatID int64
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:          getEnvOrDefault("PORT", "8080"),
		LogLevel:      getEnvOrDefault("LOG_LEVEL", "info"),
		AdminUsername: getEnvOrDefault("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnvOrDefault("ADMIN_PASSWORD", "change-me"),
		PublicBaseURL: os.Getenv("PUBLIC_BASE_URL"),
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
	}

	if cfg.DatabaseURL = os.Getenv("DATABASE_URL"); cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	if cfg.SessionSecret = os.Getenv("SESSION_SECRET"); cfg.SessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET environment variable is required")
	}

	// Dedicated link-signing secret, falling back to the session secret.
	if cfg.LinkSecret = os.Getenv("LINK_SECRET"); cfg.LinkSecret == "" {
		cfg.LinkSecret = cfg.SessionSecret
	}

	if raw := os.Getenv("TELEGRAM_ANNOUNCE_CHAT_ID"); raw != "" {
		if _, err := fmt.Sscanf(raw, "%d", &cfg.TelegramAnnounceChatID); err != nil {
			return nil, fmt.Errorf("TELEGRAM_ANNOUNCE_CHAT_ID must be an integer: %w", err)
		}
	}

	return cfg, nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
