package conf

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config represents application configuration
type Config struct {
	// Discord configuration
	Discord DiscordConfig

	// Reminder configuration
	Remind RemindConfig

	// Debug mode
	Debug bool
}

// DiscordConfig contains Discord configuration
type DiscordConfig struct {
	BotToken string
}

// RemindConfig contains reminder scheduling configuration
type RemindConfig struct {
	DBPath            string
	SchedulerInterval time.Duration
	RefreshInterval   time.Duration
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	dbPath := os.Getenv("REMIND_DB_PATH")
	if dbPath == "" {
		homeDir, _ := os.UserHomeDir()
		dbPath = filepath.Join(homeDir, ".yone-discord-bot", "remind.db")
	}

	schedulerSec := 60
	if val := os.Getenv("SCHEDULER_INTERVAL_SECONDS"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			schedulerSec = parsed
		}
	}

	refreshMin := 60
	if val := os.Getenv("REFRESH_INTERVAL_MINUTES"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			refreshMin = parsed
		}
	}

	return &Config{
		Discord: DiscordConfig{
			BotToken: os.Getenv("DISCORD_BOT_TOKEN"),
		},
		Remind: RemindConfig{
			DBPath:            dbPath,
			SchedulerInterval: time.Duration(schedulerSec) * time.Second,
			RefreshInterval:   time.Duration(refreshMin) * time.Minute,
		},
		Debug: os.Getenv("DEBUG") == "true",
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Discord.BotToken == "" {
		return &ConfigError{Field: "DISCORD_BOT_TOKEN", Message: "required"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
