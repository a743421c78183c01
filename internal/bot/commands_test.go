package bot

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/ohc-admin/ohc-profiles-bot/internal/streams"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandDefinitions_MatchHandlers(t *testing.T) {
	b := &Bot{streams: streams.NewRegistry()}

	defs := b.getCommandDefinitions()
	table := b.commandTable()

	require.Len(t, defs, len(table))
	for _, def := range defs {
		_, ok := table[def.Name]
		assert.True(t, ok, "no handler for /%s", def.Name)
	}
}

func TestCommandDefinitions_StreamOptions(t *testing.T) {
	b := &Bot{streams: streams.NewRegistry()}

	var linkStreams, unlinkStreams *discordgo.ApplicationCommand
	for _, def := range b.getCommandDefinitions() {
		switch def.Name {
		case "link-streams":
			linkStreams = def
		case "unlink-streams":
			unlinkStreams = def
		}
	}
	require.NotNil(t, linkStreams)
	require.NotNil(t, unlinkStreams)

	var names []string
	for _, opt := range linkStreams.Options {
		names = append(names, opt.Name)
		assert.False(t, opt.Required, opt.Name)
	}
	assert.Equal(t, []string{"twitch", "youtube", "kick"}, names)

	require.Len(t, unlinkStreams.Options, 1)
	assert.Len(t, unlinkStreams.Options[0].Choices, 3)
}

func TestCommandOptions(t *testing.T) {
	i := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type: discordgo.InteractionApplicationCommand,
		Data: discordgo.ApplicationCommandInteractionData{
			Name: "record-result",
			Options: []*discordgo.ApplicationCommandInteractionDataOption{
				{Name: "event", Type: discordgo.ApplicationCommandOptionString, Value: "Week 1"},
				{Name: "limit", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(5)},
				{Name: "gold", Type: discordgo.ApplicationCommandOptionUser, Value: "42"},
			},
			Resolved: &discordgo.ApplicationCommandInteractionDataResolved{
				Users:   map[string]*discordgo.User{"42": {ID: "42", Username: "winner"}},
				Members: map[string]*discordgo.Member{"42": {Nick: "Champ"}},
			},
		},
	}}

	opts := commandOptions(i)
	assert.Equal(t, "Week 1", opts.string("event"))
	assert.Equal(t, "", opts.string("missing"))
	assert.Equal(t, 5, opts.int("limit"))
	assert.Equal(t, 0, opts.int("missing"))

	u := opts.user(nil, i, "gold")
	require.NotNil(t, u)
	assert.Equal(t, "winner", u.Username)
	assert.Nil(t, opts.user(nil, i, "silver"))

	assert.Equal(t, "Champ", nick(i, "42"))
	assert.Equal(t, "", nick(i, "7"))
}
