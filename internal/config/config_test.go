package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DISCORD_BOT_TOKEN", "token")
	t.Setenv("DATABASE_PATH", "")
	t.Setenv("DB_PATH", "")
	t.Setenv("LEADERBOARD_CRON", "")
	t.Setenv("LEADERBOARD_TIMEZONE", "")
	t.Setenv("LEADERBOARD_LIMIT", "")
	t.Setenv("STAFF_ROLE_NAME", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "./data/ohc_profiles.db", cfg.DatabasePath)
	assert.Equal(t, "0 12 * * MON", cfg.LeaderboardCron)
	assert.Equal(t, "America/Detroit", cfg.LeaderboardTimezone)
	assert.Equal(t, 10, cfg.LeaderboardLimit)
	assert.Equal(t, "Staff", cfg.StaffRoleName)
}

func TestLoad_DBPathFallback(t *testing.T) {
	t.Setenv("DISCORD_BOT_TOKEN", "token")
	t.Setenv("DATABASE_PATH", "")
	t.Setenv("DB_PATH", "/app/data/profiles.db")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/app/data/profiles.db", cfg.DatabasePath)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name  string
		token string
		limit string
	}{
		{name: "missing token", token: "", limit: "10"},
		{name: "non-numeric limit", token: "token", limit: "ten"},
		{name: "zero limit", token: "token", limit: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DISCORD_BOT_TOKEN", tt.token)
			t.Setenv("LEADERBOARD_LIMIT", tt.limit)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
