package roles

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// PlacementTitle is the title of every placement parsed from a champion role.
const PlacementTitle = "Champion"

var (
	placementPattern = regexp.MustCompile(`(?i)^([a-z]+\d+)\s+season\s+(\d+)\s+champ$`)
	awardPattern     = regexp.MustCompile(`(?i)^([a-z]+\d+)\s+s(\d+)\s+(.+)$`)
	gameDigits       = regexp.MustCompile(`\d+`)
)

// Role is the part of a guild role the extractor needs.
type Role struct {
	Name         string
	UnicodeEmoji string
}

// Icons are the fallback icons used when a role carries no emoji of its own.
type Icons struct {
	Champion string
	Generic  string
	Awards   map[string]string // lower-cased award text -> icon
}

// Placement is a season finish derived from a role such as "BO6 Season 3 Champ".
type Placement struct {
	Season string
	Title  string
	Icon   string
}

// Award is a season award derived from a role such as "BO6 S3 MVP".
type Award struct {
	Season string
	Title  string
	Icon   string
}

// PlacementMatch is the parsed form of a champion role name.
type PlacementMatch struct {
	GameTag string // upper-cased
	Season  string // digits as written
}

// AwardMatch is the parsed form of an award role name.
type AwardMatch struct {
	GameTag string // upper-cased
	Season  string
	Text    string // trimmed free text after the season token
}

// SeasonLabel formats the season as "<TAG> Season <N>".
func (m PlacementMatch) SeasonLabel() string { return seasonLabel(m.GameTag, m.Season) }

// SeasonLabel formats the season as "<TAG> Season <N>".
func (m AwardMatch) SeasonLabel() string { return seasonLabel(m.GameTag, m.Season) }

// MatchPlacement parses "<Tag> Season <N> Champ".
func MatchPlacement(name string) (PlacementMatch, bool) {
	m := placementPattern.FindStringSubmatch(strings.TrimSpace(name))
	if m == nil {
		return PlacementMatch{}, false
	}
	return PlacementMatch{GameTag: strings.ToUpper(m[1]), Season: m[2]}, true
}

// MatchAward parses "<Tag> S<N> <text>".
func MatchAward(name string) (AwardMatch, bool) {
	m := awardPattern.FindStringSubmatch(strings.TrimSpace(name))
	if m == nil {
		return AwardMatch{}, false
	}
	text := strings.TrimSpace(m[3])
	if text == "" {
		return AwardMatch{}, false
	}
	return AwardMatch{GameTag: strings.ToUpper(m[1]), Season: m[2], Text: text}, true
}

// ExtractPlacements returns the champion placements held by a member,
// newest game and season first.
func ExtractPlacements(roles []Role, icons Icons) []Placement {
	var out []Placement
	for _, role := range roles {
		m, ok := MatchPlacement(role.Name)
		if !ok {
			continue
		}
		out = append(out, Placement{
			Season: m.SeasonLabel(),
			Title:  PlacementTitle,
			Icon:   firstNonEmpty(role.UnicodeEmoji, icons.Champion, icons.Generic),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return seasonBefore(out[i].Season, out[j].Season)
	})
	return out
}

// ExtractAwards returns the season awards held by a member, newest game and
// season first.
func ExtractAwards(roles []Role, icons Icons) []Award {
	var out []Award
	for _, role := range roles {
		m, ok := MatchAward(role.Name)
		if !ok {
			continue
		}
		out = append(out, Award{
			Season: m.SeasonLabel(),
			Title:  AwardTitle(m.Text),
			Icon:   firstNonEmpty(icons.Awards[strings.ToLower(m.Text)], role.UnicodeEmoji, icons.Generic),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return seasonBefore(out[i].Season, out[j].Season)
	})
	return out
}

func seasonLabel(tag, season string) string {
	return fmt.Sprintf("%s Season %s", tag, season)
}

// seasonKey extracts (game number, season number) from a season label.
func seasonKey(label string) (int, int) {
	tag, season, _ := strings.Cut(label, " Season ")
	game, _ := strconv.Atoi(gameDigits.FindString(tag))
	n, _ := strconv.Atoi(strings.TrimSpace(season))
	return game, n
}

// seasonBefore orders higher game numbers first, then higher seasons.
func seasonBefore(a, b string) bool {
	ga, sa := seasonKey(a)
	gb, sb := seasonKey(b)
	if ga != gb {
		return ga > gb
	}
	return sa > sb
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
