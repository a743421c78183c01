package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a lookup matches no row
var ErrNotFound = errors.New("not found")

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Repository handles all database operations
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a new repository with SQLite
func NewRepository(dbPath string) (*Repository, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One writer at a time; pragmas apply per connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL; PRAGMA busy_timeout = 5000;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set pragmas: %w", err)
	}

	repo := &Repository{db: db}

	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return repo, nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}

// migrate creates the database schema
func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS players (
			discord_id TEXT PRIMARY KEY,
			display_name TEXT NOT NULL DEFAULT '',
			gamertag TEXT,
			platform TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			date TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS trophies (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			player_id TEXT NOT NULL,
			type TEXT CHECK(type IN ('gold','silver','bronze')) NOT NULL,
			event_id INTEGER,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (player_id) REFERENCES players(discord_id),
			FOREIGN KEY (event_id) REFERENCES events(id)
		)`,
		`CREATE TABLE IF NOT EXISTS awards (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			player_id TEXT NOT NULL,
			label TEXT NOT NULL,
			event_id INTEGER,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (player_id) REFERENCES players(discord_id),
			FOREIGN KEY (event_id) REFERENCES events(id)
		)`,
		`CREATE TABLE IF NOT EXISTS streams (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			player_id TEXT NOT NULL,
			service TEXT CHECK(service IN ('twitch','youtube','kick')) NOT NULL,
			url TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(player_id, service),
			FOREIGN KEY (player_id) REFERENCES players(discord_id)
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trophies_player ON trophies(player_id)`,
		`CREATE INDEX IF NOT EXISTS idx_awards_player ON awards(player_id)`,
	}

	for _, migration := range migrations {
		if _, err := r.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

// Player operations

// UpsertPlayer creates the player or refreshes its display name
func (r *Repository) UpsertPlayer(ctx context.Context, discordID, displayName string) error {
	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO players (discord_id, display_name) VALUES (:id, :name)
		 ON CONFLICT(discord_id) DO UPDATE SET display_name = excluded.display_name`,
		map[string]interface{}{"id": discordID, "name": displayName},
	)
	return err
}

// GetPlayer finds a player by Discord ID
func (r *Repository) GetPlayer(ctx context.Context, discordID string) (*Player, error) {
	p := &Player{}
	err := r.db.GetContext(ctx, p,
		`SELECT discord_id, display_name, gamertag, platform, created_at FROM players WHERE discord_id = ?`,
		discordID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// LinkGamertag stores the gamertag and platform, creating the player if needed
func (r *Repository) LinkGamertag(ctx context.Context, discordID, displayName, gamertag, platform string) error {
	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO players (discord_id, display_name, gamertag, platform) VALUES (:id, :name, :gt, :pf)
		 ON CONFLICT(discord_id) DO UPDATE SET
			display_name = excluded.display_name,
			gamertag = excluded.gamertag,
			platform = excluded.platform`,
		map[string]interface{}{"id": discordID, "name": displayName, "gt": gamertag, "pf": platform},
	)
	return err
}

// UnlinkGamertag clears the gamertag and platform. Returns false if none was linked.
func (r *Repository) UnlinkGamertag(ctx context.Context, discordID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE players SET gamertag = NULL, platform = NULL
		 WHERE discord_id = ? AND (gamertag IS NOT NULL OR platform IS NOT NULL)`,
		discordID,
	)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Trophy and award operations

// RecordResult creates an event and one trophy per podium place
func (r *Repository) RecordResult(ctx context.Context, eventName string, podium Podium) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	eventID, err := createEvent(ctx, tx, eventName)
	if err != nil {
		return 0, err
	}

	places := []struct {
		playerID string
		tier     Tier
	}{
		{podium.Gold, TierGold},
		{podium.Silver, TierSilver},
		{podium.Bronze, TierBronze},
	}
	for _, place := range places {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO trophies (player_id, type, event_id) VALUES (?, ?, ?)`,
			place.playerID, string(place.tier), eventID,
		); err != nil {
			return 0, fmt.Errorf("failed to insert %s trophy: %w", place.tier, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return eventID, nil
}

// GrantAward creates an event and an award for the player
func (r *Repository) GrantAward(ctx context.Context, eventName, playerID, label string) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	eventID, err := createEvent(ctx, tx, eventName)
	if err != nil {
		return 0, err
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO awards (player_id, label, event_id) VALUES (?, ?, ?)`,
		playerID, label, eventID,
	); err != nil {
		return 0, fmt.Errorf("failed to insert award: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return eventID, nil
}

func createEvent(ctx context.Context, tx *sqlx.Tx, name string) (int64, error) {
	result, err := tx.ExecContext(ctx, `INSERT INTO events (name) VALUES (?)`, name)
	if err != nil {
		return 0, fmt.Errorf("failed to insert event: %w", err)
	}
	return result.LastInsertId()
}

// ListAwards returns the player's stored awards, newest first
func (r *Repository) ListAwards(ctx context.Context, playerID string) ([]*Award, error) {
	var awards []*Award
	err := r.db.SelectContext(ctx, &awards,
		`SELECT id, player_id, label, event_id, created_at FROM awards
		 WHERE player_id = ? ORDER BY created_at DESC, id DESC`,
		playerID,
	)
	return awards, err
}

// TrophyTotals counts the player's trophies per tier
func (r *Repository) TrophyTotals(ctx context.Context, playerID string) (TrophyCounts, error) {
	var counts TrophyCounts
	err := r.db.GetContext(ctx, &counts,
		`SELECT COALESCE(SUM(type = 'gold'), 0)   AS gold,
		        COALESCE(SUM(type = 'silver'), 0) AS silver,
		        COALESCE(SUM(type = 'bronze'), 0) AS bronze
		 FROM trophies WHERE player_id = ?`,
		playerID,
	)
	return counts, err
}

// RemoveLatestTrophy deletes the player's most recent trophy, optionally
// restricted to one tier, and returns it
func (r *Repository) RemoveLatestTrophy(ctx context.Context, playerID string, tier Tier) (*Trophy, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	t := &Trophy{}
	err = tx.GetContext(ctx, t,
		`SELECT id, player_id, type, event_id, created_at FROM trophies
		 WHERE player_id = ? AND (? = '' OR type = ?)
		 ORDER BY created_at DESC, id DESC LIMIT 1`,
		playerID, string(tier), string(tier),
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM trophies WHERE id = ?`, t.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return t, nil
}

// GoldStandings ranks players by gold trophies, ties broken by name
func (r *Repository) GoldStandings(ctx context.Context, limit int) ([]Standing, error) {
	var standings []Standing
	err := r.db.SelectContext(ctx, &standings,
		`SELECT p.display_name AS name, COUNT(*) AS score
		 FROM trophies t
		 JOIN players p ON p.discord_id = t.player_id
		 WHERE t.type = 'gold'
		 GROUP BY t.player_id
		 ORDER BY score DESC, name ASC
		 LIMIT ?`,
		limit,
	)
	return standings, err
}

// Stream operations

// UpsertStream links or replaces the player's URL for a service
func (r *Repository) UpsertStream(ctx context.Context, link StreamLink) error {
	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO streams (player_id, service, url) VALUES (:player_id, :service, :url)
		 ON CONFLICT(player_id, service) DO UPDATE SET url = excluded.url`,
		link,
	)
	return err
}

// ListStreams returns the player's stream links
func (r *Repository) ListStreams(ctx context.Context, playerID string) ([]StreamLink, error) {
	var links []StreamLink
	err := r.db.SelectContext(ctx, &links,
		`SELECT player_id, service, url FROM streams WHERE player_id = ? ORDER BY id`,
		playerID,
	)
	return links, err
}

// DeleteStream removes one service link. Returns false if none existed.
func (r *Repository) DeleteStream(ctx context.Context, playerID, service string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM streams WHERE player_id = ? AND service = ?`,
		playerID, service,
	)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteAllStreams removes every link of the player and returns how many
func (r *Repository) DeleteAllStreams(ctx context.Context, playerID string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM streams WHERE player_id = ?`, playerID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Settings operations

// GetSetting reads a setting value
func (r *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	var value sql.NullString
	err := r.db.GetContext(ctx, &value, `SELECT value FROM settings WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !value.Valid) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value.String, nil
}

// SetSetting creates or replaces a setting value
func (r *Repository) SetSetting(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}
