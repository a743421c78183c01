package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the bot
type Config struct {
	// Discord
	DiscordToken         string
	DiscordApplicationID string
	DiscordGuildID       string // empty = register commands globally
	StaffRoleName        string

	// Database
	DatabasePath string

	// Leaderboard
	LeaderboardChannelID string
	LeaderboardCron      string
	LeaderboardTimezone  string
	LeaderboardLimit     int

	// Logging
	LogLevel string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		DiscordToken:         os.Getenv("DISCORD_BOT_TOKEN"),
		DiscordApplicationID: os.Getenv("DISCORD_APPLICATION_ID"),
		DiscordGuildID:       os.Getenv("DISCORD_GUILD_ID"),
		StaffRoleName:        getEnvOrDefault("STAFF_ROLE_NAME", "Staff"),
		DatabasePath:         getEnvOrDefault("DATABASE_PATH", getEnvOrDefault("DB_PATH", "./data/ohc_profiles.db")),
		LeaderboardChannelID: os.Getenv("LEADERBOARD_CHANNEL_ID"),
		LeaderboardCron:      getEnvOrDefault("LEADERBOARD_CRON", "0 12 * * MON"),
		LeaderboardTimezone:  getEnvOrDefault("LEADERBOARD_TIMEZONE", "America/Detroit"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
	}

	limitStr := getEnvOrDefault("LEADERBOARD_LIMIT", "10")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		return nil, fmt.Errorf("invalid LEADERBOARD_LIMIT: %q", limitStr)
	}
	cfg.LeaderboardLimit = limit

	if cfg.DiscordToken == "" {
		return nil, fmt.Errorf("DISCORD_BOT_TOKEN is required")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
