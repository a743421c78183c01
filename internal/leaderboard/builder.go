package leaderboard

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/ohc-admin/ohc-profiles-bot/internal/storage"
)

// Placeholder is the only line of an empty leaderboard
const Placeholder = "—"

const (
	embedColor  = 0xFFD700
	embedTitle  = "🥇 Gold Leaderboard"
	embedFooter = "OHC — Gold Trophies Only (1st place finishes)"
)

var medals = []string{"🥇", "🥈", "🥉"}

// Ranked is a standing with its 1-based place and display marker
type Ranked struct {
	Place  int
	Marker string
	Name   string
	Score  int
}

// Rank orders standings by score descending, then name ascending, and
// assigns medals to the first three places and "#N" to the rest.
func Rank(standings []storage.Standing) []Ranked {
	sorted := make([]storage.Standing, len(standings))
	copy(sorted, standings)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		return sorted[i].Name < sorted[j].Name
	})

	ranked := make([]Ranked, len(sorted))
	for i, s := range sorted {
		ranked[i] = Ranked{Place: i + 1, Marker: marker(i + 1), Name: s.Name, Score: s.Score}
	}
	return ranked
}

func marker(place int) string {
	if place <= len(medals) {
		return medals[place-1]
	}
	return fmt.Sprintf("#%d", place)
}

// Lines renders one line per standing, or the placeholder when there are none
func Lines(standings []storage.Standing) []string {
	ranked := Rank(standings)
	if len(ranked) == 0 {
		return []string{Placeholder}
	}

	lines := make([]string, len(ranked))
	for i, r := range ranked {
		lines[i] = fmt.Sprintf("%s **%s** — %d", r.Marker, r.Name, r.Score)
	}
	return lines
}

// Embed builds the gold leaderboard message
func Embed(standings []storage.Standing, now time.Time) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       embedTitle,
		Description: strings.Join(Lines(standings), "\n"),
		Color:       embedColor,
		Footer: &discordgo.MessageEmbedFooter{
			Text: embedFooter,
		},
		Timestamp: now.Format(time.RFC3339),
	}
}
