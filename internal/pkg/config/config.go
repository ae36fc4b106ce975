package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the runtime settings read from the environment.
// A .env file is picked up by godotenv/autoload in main before Load runs.
type Config struct {
	Port               int
	DBPath             string
	BrainKey           string
	LogLevel           string
	ChannelSecret      string
	ChannelAccessToken string
}

// LineEnabled reports whether both LINE credentials are present.
func (c Config) LineEnabled() bool {
	return c.ChannelSecret != "" && c.ChannelAccessToken != ""
}

// Load reads the configuration from environment variables, applying defaults.
func Load() (Config, error) {
	cfg := Config{
		Port:               8080,
		DBPath:             getenv("REMINDER_DB_PATH", "reminder.db"),
		BrainKey:           getenv("REMINDER_BRAIN_KEY", "reminders"),
		LogLevel:           getenv("LOG_LEVEL", "info"),
		ChannelSecret:      os.Getenv("CHANNEL_SECRET"),
		ChannelAccessToken: os.Getenv("CHANNEL_ACCESS_TOKEN"),
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil || port <= 0 || port > 65535 {
			return Config{}, fmt.Errorf("invalid PORT %q", portStr)
		}
		cfg.Port = port
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
