package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/ohc-admin/ohc-profiles-bot/internal/leaderboard"
	"github.com/ohc-admin/ohc-profiles-bot/internal/roles"
	"github.com/ohc-admin/ohc-profiles-bot/internal/storage"
	"github.com/ohc-admin/ohc-profiles-bot/internal/streams"
)

const genericFailure = "Something went wrong. Please try again."

// handleLinkGamertag handles the /link-gt command
func (b *Bot) handleLinkGamertag(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := commandOptions(i)
	gamertag := strings.TrimSpace(opts.string("gamertag"))
	platform := strings.TrimSpace(opts.string("platform"))
	if gamertag == "" || platform == "" {
		respondEphemeral(s, i, "Gamertag and platform are both required.")
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	if err := b.store.LinkGamertag(ctx, i.Member.User.ID, memberDisplayName(i.Member), gamertag, platform); err != nil {
		slog.Error("Failed to link gamertag", "user", i.Member.User.ID, "error", err)
		respondEphemeral(s, i, genericFailure)
		return
	}

	respondEphemeral(s, i, fmt.Sprintf("Linked **%s** (%s).", gamertag, platform))
}

// handleUnlinkGamertag handles the /unlink-gt command
func (b *Bot) handleUnlinkGamertag(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := requestContext()
	defer cancel()

	removed, err := b.store.UnlinkGamertag(ctx, i.Member.User.ID)
	if err != nil {
		slog.Error("Failed to unlink gamertag", "user", i.Member.User.ID, "error", err)
		respondEphemeral(s, i, genericFailure)
		return
	}
	if !removed {
		respondEphemeral(s, i, "You don't have a gamertag linked.")
		return
	}

	respondEphemeral(s, i, "Your gamertag has been unlinked.")
}

// handleLinkStreams handles the /link-streams command. Every URL is checked
// before any is saved.
func (b *Bot) handleLinkStreams(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := commandOptions(i)

	urls := make(map[streams.ServiceType]string)
	for _, service := range b.streams.List() {
		if url := strings.TrimSpace(opts.string(string(service.Type))); url != "" {
			urls[service.Type] = url
		}
	}
	if len(urls) == 0 {
		respondEphemeral(s, i, "No URLs provided.")
		return
	}
	if err := b.streams.ValidateAll(urls); err != nil {
		respondEphemeral(s, i, capitalize(err.Error())+".")
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	userID := i.Member.User.ID
	if err := b.store.UpsertPlayer(ctx, userID, memberDisplayName(i.Member)); err != nil {
		slog.Error("Failed to save player", "user", userID, "error", err)
		respondEphemeral(s, i, genericFailure)
		return
	}

	count := 0
	for _, service := range b.streams.List() {
		url, ok := urls[service.Type]
		if !ok {
			continue
		}
		link := storage.StreamLink{PlayerID: userID, Service: string(service.Type), URL: url}
		if err := b.store.UpsertStream(ctx, link); err != nil {
			slog.Error("Failed to save stream link", "user", userID, "service", service.Type, "error", err)
			respondEphemeral(s, i, genericFailure)
			return
		}
		count++
	}

	respondEphemeral(s, i, fmt.Sprintf("Linked %d %s.", count, plural(count, "stream", "streams")))
}

// handleUnlinkStreams handles the /unlink-streams command
func (b *Bot) handleUnlinkStreams(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := commandOptions(i)
	userID := i.Member.User.ID

	ctx, cancel := requestContext()
	defer cancel()

	if name := opts.string("service"); name != "" {
		service, err := b.streams.Get(name)
		if err != nil {
			respondEphemeral(s, i, fmt.Sprintf("Unknown service: `%s`.", name))
			return
		}
		removed, err := b.store.DeleteStream(ctx, userID, string(service.Type))
		if err != nil {
			slog.Error("Failed to delete stream link", "user", userID, "service", service.Type, "error", err)
			respondEphemeral(s, i, genericFailure)
			return
		}
		if !removed {
			respondEphemeral(s, i, fmt.Sprintf("You don't have a %s link.", service.Name))
			return
		}
		respondEphemeral(s, i, fmt.Sprintf("Unlinked your %s stream.", service.Name))
		return
	}

	n, err := b.store.DeleteAllStreams(ctx, userID)
	if err != nil {
		slog.Error("Failed to delete stream links", "user", userID, "error", err)
		respondEphemeral(s, i, genericFailure)
		return
	}
	if n == 0 {
		respondEphemeral(s, i, "You don't have any streams linked.")
		return
	}
	respondEphemeral(s, i, fmt.Sprintf("Unlinked %d %s.", n, plural(int(n), "stream", "streams")))
}

// handleRecordResult handles the /record-result command
func (b *Bot) handleRecordResult(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := commandOptions(i)
	eventName := strings.TrimSpace(opts.string("event"))
	gold := opts.user(s, i, "gold")
	silver := opts.user(s, i, "silver")
	bronze := opts.user(s, i, "bronze")

	if eventName == "" || gold == nil || silver == nil || bronze == nil {
		respondEphemeral(s, i, "An event name and all three podium places are required.")
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	for _, u := range []*discordgo.User{gold, silver, bronze} {
		if err := b.store.UpsertPlayer(ctx, u.ID, displayName(nick(i, u.ID), u)); err != nil {
			slog.Error("Failed to save player", "user", u.ID, "error", err)
			respondEphemeral(s, i, genericFailure)
			return
		}
	}

	eventID, err := b.store.RecordResult(ctx, eventName, storage.Podium{Gold: gold.ID, Silver: silver.ID, Bronze: bronze.ID})
	if err != nil {
		slog.Error("Failed to record result", "event", eventName, "error", err)
		respondEphemeral(s, i, genericFailure)
		return
	}

	slog.Info("Recorded result", "event", eventName, "eventID", eventID, "by", i.Member.User.ID)
	respondWithMessage(s, i, fmt.Sprintf("Recorded **%s** podium: 🥇%s 🥈%s 🥉%s",
		eventName, gold.Mention(), silver.Mention(), bronze.Mention()))
}

// handleAward handles the /award command
func (b *Bot) handleAward(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := commandOptions(i)
	eventName := strings.TrimSpace(opts.string("event"))
	label := strings.TrimSpace(opts.string("label"))
	user := opts.user(s, i, "user")

	if eventName == "" || label == "" || user == nil {
		respondEphemeral(s, i, "An event name, a player and a label are required.")
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	if err := b.store.UpsertPlayer(ctx, user.ID, displayName(nick(i, user.ID), user)); err != nil {
		slog.Error("Failed to save player", "user", user.ID, "error", err)
		respondEphemeral(s, i, genericFailure)
		return
	}
	if _, err := b.store.GrantAward(ctx, eventName, user.ID, label); err != nil {
		slog.Error("Failed to grant award", "event", eventName, "user", user.ID, "error", err)
		respondEphemeral(s, i, genericFailure)
		return
	}

	respondWithMessage(s, i, fmt.Sprintf("Gave **%s** to %s for **%s**.", label, user.Mention(), eventName))
}

// handleRemoveTrophy handles the /remove-trophy command
func (b *Bot) handleRemoveTrophy(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := commandOptions(i)
	user := opts.user(s, i, "user")
	tier := storage.Tier(opts.string("tier"))

	if user == nil {
		respondEphemeral(s, i, "A player is required.")
		return
	}
	if tier != "" && !tier.Valid() {
		respondEphemeral(s, i, fmt.Sprintf("Unknown trophy tier: `%s`.", tier))
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	trophy, err := b.store.RemoveLatestTrophy(ctx, user.ID, tier)
	if errors.Is(err, storage.ErrNotFound) {
		if tier == "" {
			respondEphemeral(s, i, fmt.Sprintf("%s has no trophies.", user.Mention()))
		} else {
			respondEphemeral(s, i, fmt.Sprintf("%s has no %s trophies.", user.Mention(), tier))
		}
		return
	}
	if err != nil {
		slog.Error("Failed to remove trophy", "user", user.ID, "tier", tier, "error", err)
		respondEphemeral(s, i, genericFailure)
		return
	}

	slog.Info("Removed trophy", "trophyID", trophy.ID, "user", user.ID, "tier", trophy.Tier, "by", i.Member.User.ID)
	respondEphemeral(s, i, fmt.Sprintf("Removed a %s trophy from %s.", trophy.Tier, user.Mention()))
}

// handleProfile handles the /profile command
func (b *Bot) handleProfile(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := commandOptions(i)
	user := opts.user(s, i, "user")
	if user == nil {
		user = i.Member.User
	}

	ctx, cancel := requestContext()
	defer cancel()

	// Role-derived fields are left empty when the member can't be read
	var (
		member      *discordgo.Member
		memberRoles []*discordgo.Role
	)
	if user.ID == i.Member.User.ID {
		member = i.Member
	} else if m, err := b.member(s, i.GuildID, user.ID); err == nil {
		member = m
	} else {
		slog.Warn("Could not fetch member for profile", "user", user.ID, "error", err)
	}
	if member != nil {
		if guildRoles, err := b.guildRoles(s, i.GuildID); err == nil {
			memberRoles = resolveRoles(member, guildRoles)
		} else {
			slog.Warn("Could not fetch guild roles", "guild", i.GuildID, "error", err)
		}
	}

	name := displayName(nick(i, user.ID), user)
	if member != nil {
		name = displayName(member.Nick, user)
	}
	if err := b.store.UpsertPlayer(ctx, user.ID, name); err != nil {
		slog.Error("Failed to save player", "user", user.ID, "error", err)
		respondEphemeral(s, i, genericFailure)
		return
	}

	card, links, err := b.loadProfile(ctx, user.ID)
	if err != nil {
		slog.Error("Failed to load profile", "user", user.ID, "error", err)
		respondEphemeral(s, i, genericFailure)
		return
	}

	card.Name = name
	card.AvatarURL = user.AvatarURL("")
	card.Profile = roles.Classify(roleNames(memberRoles), b.classifier)
	card.Placements = roles.ExtractPlacements(achievementRoles(memberRoles), b.icons)
	card.RoleAwards = roles.ExtractAwards(achievementRoles(memberRoles), b.icons)
	if member != nil {
		card.MemberSince = member.JoinedAt
	}

	respond(s, i, &discordgo.InteractionResponseData{
		Embeds:     []*discordgo.MessageEmbed{profileEmbed(card, time.Now())},
		Components: profileButtons(b.streams.List(), links, card.Profile.TeamDisplay()),
	})
}

// loadProfile reads the stored half of a profile card
func (b *Bot) loadProfile(ctx context.Context, userID string) (profileCard, []storage.StreamLink, error) {
	var card profileCard

	player, err := b.store.GetPlayer(ctx, userID)
	if err != nil {
		return card, nil, fmt.Errorf("failed to get player: %w", err)
	}
	card.Gamertag = player.Gamertag.String
	card.Platform = player.Platform.String
	card.Created = player.CreatedAt

	if card.Totals, err = b.store.TrophyTotals(ctx, userID); err != nil {
		return card, nil, fmt.Errorf("failed to count trophies: %w", err)
	}
	if card.Awards, err = b.store.ListAwards(ctx, userID); err != nil {
		return card, nil, fmt.Errorf("failed to list awards: %w", err)
	}

	links, err := b.store.ListStreams(ctx, userID)
	if err != nil {
		return card, nil, fmt.Errorf("failed to list streams: %w", err)
	}
	return card, links, nil
}

// handlePostLeaderboard handles the /post-leaderboard command
func (b *Bot) handlePostLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	limit := commandOptions(i).int("limit")

	// Respond immediately to avoid timeout
	deferEphemeral(s, i)

	ctx, cancel := requestContext()
	defer cancel()

	result, err := b.reconciler.Reconcile(ctx, i.ChannelID, limit)
	if err != nil {
		slog.Error("Failed to post leaderboard", "channel", i.ChannelID, "error", err)
		editResponse(s, i, "Couldn't post the leaderboard here. Check my permissions in this channel.")
		return
	}

	if result == leaderboard.ResultEdited {
		editResponse(s, i, "Leaderboard updated!")
		return
	}
	editResponse(s, i, "Leaderboard posted!")
}

// handlePostWelcome handles the /post-welcome command
func (b *Bot) handlePostWelcome(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if _, err := s.ChannelMessageSendEmbed(i.ChannelID, welcomeEmbed()); err != nil {
		slog.Error("Failed to post welcome guide", "channel", i.ChannelID, "error", err)
		respondEphemeral(s, i, "Couldn't post the setup guide here. Check my permissions in this channel.")
		return
	}
	respondEphemeral(s, i, "Posted the setup guide below 👇")
}

// handleTeamRoster answers the Team Roster button on a profile
func (b *Bot) handleTeamRoster(s *discordgo.Session, i *discordgo.InteractionCreate, team string) {
	if team == "" || team == roles.FreeAgentLabel {
		respondEphemeral(s, i, "This player is a Free Agent and has no team roster.")
		return
	}

	guildRoles, err := b.guildRoles(s, i.GuildID)
	if err != nil {
		slog.Error("Failed to load roles for roster", "guild", i.GuildID, "error", err)
		respondEphemeral(s, i, genericFailure)
		return
	}
	role := findRole(guildRoles, team)
	if role == nil {
		respondEphemeral(s, i, fmt.Sprintf("No team role found for **%s**.", team))
		return
	}

	members, err := b.membersWithRole(s, i.GuildID, role.ID)
	if err != nil {
		slog.Error("Failed to list members for roster", "guild", i.GuildID, "team", team, "error", err)
		respondEphemeral(s, i, genericFailure)
		return
	}
	if len(members) == 0 {
		respondEphemeral(s, i, fmt.Sprintf("No members in **%s**.", team))
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	entries := make([]rosterEntry, 0, len(members))
	for _, m := range members {
		totals, err := b.store.TrophyTotals(ctx, m.User.ID)
		if err != nil {
			slog.Error("Failed to count trophies for roster", "user", m.User.ID, "error", err)
			respondEphemeral(s, i, genericFailure)
			return
		}
		entries = append(entries, rosterEntry{Name: memberDisplayName(m), Totals: totals})
	}
	sortRoster(entries)

	respond(s, i, &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{rosterEmbed(team, entries, time.Now())},
		Flags:  discordgo.MessageFlagsEphemeral,
	})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
