package storage

import (
	"database/sql"
	"time"
)

// Tier is the podium rank of a trophy
type Tier string

const (
	TierGold   Tier = "gold"
	TierSilver Tier = "silver"
	TierBronze Tier = "bronze"
)

// Valid reports whether t is one of the three podium tiers
func (t Tier) Valid() bool {
	switch t {
	case TierGold, TierSilver, TierBronze:
		return true
	}
	return false
}

// Player is a Discord member known to the bot
type Player struct {
	DiscordID   string         `db:"discord_id"`
	DisplayName string         `db:"display_name"`
	Gamertag    sql.NullString `db:"gamertag"`
	Platform    sql.NullString `db:"platform"`
	CreatedAt   time.Time      `db:"created_at"`
}

// Event groups the trophies or awards handed out together
type Event struct {
	ID   int64     `db:"id"`
	Name string    `db:"name"`
	Date time.Time `db:"date"`
}

// Trophy is one podium finish
type Trophy struct {
	ID        int64         `db:"id"`
	PlayerID  string        `db:"player_id"`
	Tier      Tier          `db:"type"`
	EventID   sql.NullInt64 `db:"event_id"`
	CreatedAt time.Time     `db:"created_at"`
}

// Award is a free-text title granted by staff
type Award struct {
	ID        int64         `db:"id"`
	PlayerID  string        `db:"player_id"`
	Label     string        `db:"label"`
	EventID   sql.NullInt64 `db:"event_id"`
	CreatedAt time.Time     `db:"created_at"`
}

// StreamLink is a player's channel on one streaming service
type StreamLink struct {
	PlayerID string `db:"player_id"`
	Service  string `db:"service"`
	URL      string `db:"url"`
}

// TrophyCounts holds a player's trophy totals per tier
type TrophyCounts struct {
	Gold   int `db:"gold"`
	Silver int `db:"silver"`
	Bronze int `db:"bronze"`
}

// Total returns the number of trophies across all tiers
func (c TrophyCounts) Total() int {
	return c.Gold + c.Silver + c.Bronze
}

// Podium names the three players placed in an event
type Podium struct {
	Gold   string
	Silver string
	Bronze string
}

// Standing is one leaderboard row: a display name and its gold count
type Standing struct {
	Name  string `db:"name"`
	Score int    `db:"score"`
}
