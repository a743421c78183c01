package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/ohc-admin/ohc-profiles-bot/internal/storage"
)

type command struct {
	staffOnly bool
	handler   func(s *discordgo.Session, i *discordgo.InteractionCreate)
}

func (b *Bot) commandTable() map[string]command {
	return map[string]command{
		"link-gt":          {handler: b.handleLinkGamertag},
		"unlink-gt":        {handler: b.handleUnlinkGamertag},
		"link-streams":     {handler: b.handleLinkStreams},
		"unlink-streams":   {handler: b.handleUnlinkStreams},
		"profile":          {handler: b.handleProfile},
		"record-result":    {staffOnly: true, handler: b.handleRecordResult},
		"award":            {staffOnly: true, handler: b.handleAward},
		"remove-trophy":    {staffOnly: true, handler: b.handleRemoveTrophy},
		"post-leaderboard": {staffOnly: true, handler: b.handlePostLeaderboard},
		"post-welcome":     {staffOnly: true, handler: b.handlePostWelcome},
	}
}

func (b *Bot) streamOptions() []*discordgo.ApplicationCommandOption {
	var opts []*discordgo.ApplicationCommandOption
	for _, service := range b.streams.List() {
		opts = append(opts, &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        string(service.Type),
			Description: service.Example,
		})
	}
	return opts
}

func (b *Bot) streamChoices() []*discordgo.ApplicationCommandOptionChoice {
	var choices []*discordgo.ApplicationCommandOptionChoice
	for _, service := range b.streams.List() {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  service.Name,
			Value: string(service.Type),
		})
	}
	return choices
}

func tierChoices() []*discordgo.ApplicationCommandOptionChoice {
	return []*discordgo.ApplicationCommandOptionChoice{
		{Name: "Gold", Value: string(storage.TierGold)},
		{Name: "Silver", Value: string(storage.TierSilver)},
		{Name: "Bronze", Value: string(storage.TierBronze)},
	}
}

// Slash command definitions
func (b *Bot) getCommandDefinitions() []*discordgo.ApplicationCommand {
	minLimit := 1.0

	return []*discordgo.ApplicationCommand{
		{
			Name:        "link-gt",
			Description: "Link your gamertag",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "gamertag", Description: "Your gamertag", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "platform", Description: "Battle.net / PSN / Xbox", Required: true},
			},
		},
		{
			Name:        "unlink-gt",
			Description: "Remove your linked gamertag",
		},
		{
			Name:        "link-streams",
			Description: "Link your Twitch/YouTube/Kick URLs",
			Options:     b.streamOptions(),
		},
		{
			Name:        "unlink-streams",
			Description: "Remove one or all of your stream links",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "service",
					Description: "Service to unlink (default: all)",
					Choices:     b.streamChoices(),
				},
			},
		},
		{
			Name:        "record-result",
			Description: "Record podium for an event (Staff only)",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "event", Description: "Event name", Required: true},
				{Type: discordgo.ApplicationCommandOptionUser, Name: "gold", Description: "Gold winner", Required: true},
				{Type: discordgo.ApplicationCommandOptionUser, Name: "silver", Description: "Silver winner", Required: true},
				{Type: discordgo.ApplicationCommandOptionUser, Name: "bronze", Description: "Bronze winner", Required: true},
			},
		},
		{
			Name:        "award",
			Description: "Give a custom award (Staff only)",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "event", Description: "Event name", Required: true},
				{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "Player", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "label", Description: "e.g., MVP", Required: true},
			},
		},
		{
			Name:        "remove-trophy",
			Description: "Remove a player's most recent trophy (Staff only)",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "Player", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "tier", Description: "Only remove this tier", Choices: tierChoices()},
			},
		},
		{
			Name:        "profile",
			Description: "Show a profile",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "Which user?"},
			},
		},
		{
			Name:        "post-leaderboard",
			Description: "Post or update the Gold trophies leaderboard here (Staff only)",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "limit", Description: "Top N (default 10)", MinValue: &minLimit, MaxValue: 25},
			},
		},
		{
			Name:        "post-welcome",
			Description: "Post the OHC profile setup guide (Staff only)",
		},
	}
}

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	slog.Info("Registering slash commands", "guild", b.config.DiscordGuildID)

	appID := b.config.DiscordApplicationID
	if appID == "" {
		appID = b.session.State.User.ID
	}

	registered, err := b.session.ApplicationCommandBulkOverwrite(appID, b.config.DiscordGuildID, b.getCommandDefinitions())
	if err != nil {
		return fmt.Errorf("failed to overwrite commands: %w", err)
	}

	b.commands = registered
	slog.Info("Slash commands registered", "count", len(registered))
	return nil
}

// Helper functions

type options map[string]*discordgo.ApplicationCommandInteractionDataOption

func commandOptions(i *discordgo.InteractionCreate) options {
	opts := make(options)
	for _, opt := range i.ApplicationCommandData().Options {
		opts[opt.Name] = opt
	}
	return opts
}

func (o options) string(name string) string {
	if opt, ok := o[name]; ok {
		return opt.StringValue()
	}
	return ""
}

func (o options) int(name string) int {
	if opt, ok := o[name]; ok {
		return int(opt.IntValue())
	}
	return 0
}

// user prefers the resolved payload Discord sends with the interaction and
// falls back to a REST lookup
func (o options) user(s *discordgo.Session, i *discordgo.InteractionCreate, name string) *discordgo.User {
	opt, ok := o[name]
	if !ok {
		return nil
	}
	id, _ := opt.Value.(string)
	if resolved := i.ApplicationCommandData().Resolved; resolved != nil {
		if u, ok := resolved.Users[id]; ok {
			return u
		}
	}
	return opt.UserValue(s)
}

// nick returns the server nickname Discord resolved for a user option
func nick(i *discordgo.InteractionCreate, userID string) string {
	if resolved := i.ApplicationCommandData().Resolved; resolved != nil {
		if m, ok := resolved.Members[userID]; ok {
			return m.Nick
		}
	}
	return ""
}

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

func respond(s *discordgo.Session, i *discordgo.InteractionCreate, data *discordgo.InteractionResponseData) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		slog.Error("Failed to respond to interaction", "error", err)
	}
}

func respondWithMessage(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	respond(s, i, &discordgo.InteractionResponseData{Content: content})
}

func respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	respond(s, i, &discordgo.InteractionResponseData{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
}

func deferEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})
	if err != nil {
		slog.Error("Failed to defer interaction", "error", err)
	}
}

func editResponse(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: &content,
	}); err != nil {
		slog.Error("Failed to edit interaction response", "error", err)
	}
}
