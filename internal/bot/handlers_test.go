package bot

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ohc-admin/ohc-profiles-bot/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBot(t *testing.T) (*Bot, *storage.Repository) {
	t.Helper()
	repo, err := storage.NewRepository(filepath.Join(t.TempDir(), "bot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return &Bot{repo: repo, store: repo}, repo
}

func TestLoadProfile(t *testing.T) {
	b, repo := newTestBot(t)
	ctx := context.Background()

	require.NoError(t, repo.LinkGamertag(ctx, "1", "Alpha", "ALPHA#1", "PSN"))
	require.NoError(t, repo.UpsertPlayer(ctx, "2", "Bravo"))
	require.NoError(t, repo.UpsertPlayer(ctx, "3", "Charlie"))
	_, err := repo.RecordResult(ctx, "Week 1", storage.Podium{Gold: "1", Silver: "2", Bronze: "3"})
	require.NoError(t, err)
	_, err = repo.RecordResult(ctx, "Week 2", storage.Podium{Gold: "2", Silver: "1", Bronze: "3"})
	require.NoError(t, err)
	_, err = repo.GrantAward(ctx, "Week 2", "1", "MVP")
	require.NoError(t, err)
	require.NoError(t, repo.UpsertStream(ctx, storage.StreamLink{PlayerID: "1", Service: "twitch", URL: "https://twitch.tv/alpha"}))

	card, links, err := b.loadProfile(ctx, "1")
	require.NoError(t, err)

	assert.Equal(t, "ALPHA#1", card.Gamertag)
	assert.Equal(t, "PSN", card.Platform)
	assert.False(t, card.Created.IsZero())
	assert.Equal(t, storage.TrophyCounts{Gold: 1, Silver: 1}, card.Totals)
	require.Len(t, card.Awards, 1)
	assert.Equal(t, "MVP", card.Awards[0].Label)
	assert.Equal(t, []storage.StreamLink{{PlayerID: "1", Service: "twitch", URL: "https://twitch.tv/alpha"}}, links)
}

func TestLoadProfile_UnknownPlayer(t *testing.T) {
	b, _ := newTestBot(t)

	_, _, err := b.loadProfile(context.Background(), "404")
	require.Error(t, err)
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "That twitch URL doesn't look right", capitalize("that twitch URL doesn't look right"))
	assert.Equal(t, "", capitalize(""))
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "stream", plural(1, "stream", "streams"))
	assert.Equal(t, "streams", plural(2, "stream", "streams"))
	assert.Equal(t, "streams", plural(0, "stream", "streams"))
}

func TestCommandTable_StaffOnly(t *testing.T) {
	b := &Bot{}
	table := b.commandTable()

	staff := []string{"record-result", "award", "remove-trophy", "post-leaderboard", "post-welcome"}
	open := []string{"link-gt", "unlink-gt", "link-streams", "unlink-streams", "profile"}

	for _, name := range staff {
		assert.True(t, table[name].staffOnly, name)
	}
	for _, name := range open {
		cmd, ok := table[name]
		require.True(t, ok, name)
		assert.False(t, cmd.staffOnly, name)
	}
	assert.Len(t, table, len(staff)+len(open))
}
