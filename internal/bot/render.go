package bot

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"github.com/ohc-admin/ohc-profiles-bot/internal/roles"
	"github.com/ohc-admin/ohc-profiles-bot/internal/storage"
	"github.com/ohc-admin/ohc-profiles-bot/internal/streams"
)

const (
	rosterCustomIDPrefix = "profile-teamroster-"

	separator = "──────────"
	blank     = "\u200b"
	none      = "—"

	colorGold = 0xFFD700
	colorBlue = 0x00B5FF

	maxFieldValue  = 1024
	maxDescription = 4096
)

var platformIcons = map[string]string{
	"battle.net":  "<:battlenet:>",
	"battlenet":   "<:battlenet:>",
	"psn":         "<:psn:>",
	"playstation": "<:psn:>",
	"xbox":        "<:xbox:>",
	"xboxlive":    "<:xbox:>",
}

// platformIcon returns the emoji for a platform name, or "" when unknown
func platformIcon(platform string) string {
	return platformIcons[strings.ToLower(strings.TrimSpace(platform))]
}

func rosterCustomID(team string) string {
	return rosterCustomIDPrefix + team
}

func teamFromCustomID(customID string) (string, bool) {
	if !strings.HasPrefix(customID, rosterCustomIDPrefix) {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(customID, rosterCustomIDPrefix)), true
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return none
	}
	return t.Format("January 2, 2006")
}

// clip keeps s within Discord's length limits
func clip(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-1]) + "…"
}

func orNone(s string) string {
	if s == "" {
		return none
	}
	return s
}

func iconPrefix(icon string) string {
	if icon == "" {
		return ""
	}
	return icon + " "
}

func placementLines(placements []roles.Placement) string {
	if len(placements) == 0 {
		return none
	}
	lines := make([]string, 0, len(placements))
	for _, p := range placements {
		lines = append(lines, fmt.Sprintf("%s%s — **%s**", iconPrefix(p.Icon), p.Season, p.Title))
	}
	return clip(strings.Join(lines, "\n"), maxFieldValue)
}

// awardLines lists role-derived awards followed by awards granted with /award
func awardLines(fromRoles []roles.Award, granted []*storage.Award) string {
	var lines []string
	for _, a := range fromRoles {
		lines = append(lines, fmt.Sprintf("%s%s — **%s**", iconPrefix(a.Icon), a.Season, a.Title))
	}
	for _, a := range granted {
		lines = append(lines, fmt.Sprintf("%s**%s**", iconPrefix(roles.AwardIcon), a.Label))
	}
	if len(lines) == 0 {
		return none
	}
	return clip(strings.Join(lines, "\n"), maxFieldValue)
}

func trophyCase(c storage.TrophyCounts) string {
	return fmt.Sprintf("%s %d\n%s %d\n%s %d",
		roles.GoldTrophyIcon, c.Gold,
		roles.SilverTrophyIcon, c.Silver,
		roles.BronzeTrophyIcon, c.Bronze,
	)
}

// profileCard is everything shown on a /profile embed
type profileCard struct {
	Name        string
	AvatarURL   string
	Gamertag    string
	Platform    string
	MemberSince time.Time
	Created     time.Time
	Profile     roles.Profile
	Totals      storage.TrophyCounts
	Placements  []roles.Placement
	RoleAwards  []roles.Award
	Awards      []*storage.Award
}

func separatorField() *discordgo.MessageEmbedField {
	return &discordgo.MessageEmbedField{Name: separator, Value: blank}
}

func profileEmbed(card profileCard, now time.Time) *discordgo.MessageEmbed {
	description := fmt.Sprintf("*Gamertag:* `%s`", orNone(card.Gamertag))
	if icon := platformIcon(card.Platform); icon != "" {
		description += " " + icon
	}

	embed := &discordgo.MessageEmbed{
		Title:       "👑 " + card.Name,
		Description: description,
		Color:       colorGold,
		Fields: []*discordgo.MessageEmbedField{
			separatorField(),
			{Name: "📅 Member Since", Value: formatDate(card.MemberSince), Inline: true},
			{Name: "📅 Profile Created", Value: formatDate(card.Created), Inline: true},
			separatorField(),
			{Name: "🛡️ Team", Value: orNone(card.Profile.TeamDisplay()), Inline: true},
			{Name: "🎯 Division", Value: orNone(card.Profile.Division), Inline: true},
			{Name: "🌍 Region", Value: orNone(card.Profile.Region), Inline: true},
			separatorField(),
			{Name: "🏆 Trophy Case", Value: trophyCase(card.Totals)},
			separatorField(),
			{Name: "🥇 Season Placements", Value: placementLines(card.Placements)},
			separatorField(),
			{Name: "⭐ Awards & Titles", Value: awardLines(card.RoleAwards, card.Awards)},
		},
		Timestamp: now.Format(time.RFC3339),
	}
	if card.AvatarURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: card.AvatarURL}
	}
	return embed
}

// profileButtons links each stream the player set, in service order, then the team roster
func profileButtons(services []streams.Service, links []storage.StreamLink, team string) []discordgo.MessageComponent {
	byService := make(map[string]string, len(links))
	for _, l := range links {
		byService[l.Service] = l.URL
	}

	var buttons []discordgo.MessageComponent
	for _, s := range services {
		url, ok := byService[string(s.Type)]
		if !ok {
			continue
		}
		buttons = append(buttons, discordgo.Button{
			Label: s.Name,
			Style: discordgo.LinkButton,
			URL:   url,
			Emoji: &discordgo.ComponentEmoji{Name: s.Emoji},
		})
	}
	buttons = append(buttons, discordgo.Button{
		Label:    "Team Roster",
		Style:    discordgo.SecondaryButton,
		CustomID: rosterCustomID(team),
		Emoji:    &discordgo.ComponentEmoji{Name: "👥"},
	})

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: buttons},
	}
}

type rosterEntry struct {
	Name   string
	Totals storage.TrophyCounts
}

// sortRoster orders by total trophies, most first, then by name
func sortRoster(entries []rosterEntry) {
	sort.SliceStable(entries, func(a, b int) bool {
		ta, tb := entries[a].Totals.Total(), entries[b].Totals.Total()
		if ta != tb {
			return ta > tb
		}
		return entries[a].Name < entries[b].Name
	})
}

func rosterEmbed(team string, entries []rosterEntry, now time.Time) *discordgo.MessageEmbed {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("**%s** — 🥇 %d | 🥈 %d | 🥉 %d (Total: %d)",
			e.Name, e.Totals.Gold, e.Totals.Silver, e.Totals.Bronze, e.Totals.Total()))
	}

	footer := fmt.Sprintf("\n\n%s\n📅 *Updated live as results are recorded*", separator)
	body := clip(separator+"\n"+strings.Join(lines, "\n"), maxDescription-utf8.RuneCountInString(footer))

	return &discordgo.MessageEmbed{
		Title:       "👥 Team Roster: " + team,
		Description: body + footer,
		Color:       colorBlue,
		Timestamp:   now.Format(time.RFC3339),
	}
}

func welcomeEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🎮 How to Set Up Your OHC Player Profile",
		Description: "Welcome! Every player gets a profile card that shows your gamertag, trophies, awards, and more. Follow these quick steps:",
		Color:       colorBlue,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:  "📝 Step 1: Roles",
				Value: "Staff will assign your **Team** (or **Free Agent**), **Division** (A–D), and **Region** (US-East, EU, etc.). Your profile pulls these from your roles automatically.",
			},
			{
				Name:  "🎮 Step 2: Link Your Gamertag",
				Value: "```\n/link-gt gamertag:<yourGamertagHere> platform:<Battle.net | PSN | Xbox>\n\nExample:\n/link-gt gamertag: KNUCKLES#1939585 platform: Battle.net\n```",
			},
			{
				Name:  "📺 Step 3: Link Your Streams (optional)",
				Value: "```\n/link-streams twitch:https://twitch.tv/yourname\nyoutube:https://youtube.com/@yourchannel\nkick:https://kick.com/yourname\n```",
			},
			{
				Name:   "🧩 What Shows On Your Card",
				Value:  "• Discord name & gamertag (with platform logo)\n• Member Since / Profile Created\n• Team · Division · Region",
				Inline: true,
			},
			{
				Name:   "🏆 Achievements",
				Value:  "• Trophy totals: 🥇 🥈 🥉\n• Season Placements (from roles like **BO7 Season 3 Champ**)\n• Awards (e.g., **MVP**, **AR of the Year**)",
				Inline: true,
			},
			{
				Name:  "👤 View Your Profile",
				Value: "```\n/profile\n```",
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Tip: You only need to /link-gt once. Everything else updates as you play and win.",
		},
	}
}
