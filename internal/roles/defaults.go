package roles

// Trophy and award icons. Custom emoji IDs are filled in per server.
const (
	GoldTrophyIcon   = "<:goldtrophy:>"
	SilverTrophyIcon = "<:silvertrophy:>"
	BronzeTrophyIcon = "<:bronzetrophy:>"
	AwardIcon        = "🏆"
)

// DefaultClassifierConfig returns the OHC server's role layout.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		TeamNames: []string{
			"Aura Gaming", "Boston Brigade", "Denegerates", "Electrify Steel", "Emergence",
			"Grand Rapids Ice", "High Treason", "Kryptic", "Legion of Chum", "Los Angeles Rumble",
			"OMiT", "Outkastz Esports", "REGIMENT", "SGP Syndicate", "S9 Gaming",
			"Peak Gaming", "Phoenix Guard", "Free Agent",
		},
		RegionLabels: map[string]string{
			"US-East":    "North America (East)",
			"US-West":    "North America (West)",
			"US-Central": "North America (Central)",
			"Canada":     "Canada",
			"EU":         "Europe",
			"Oceanic":    "Oceania",
		},
		Divisions:         []string{"Division A", "Division B", "Division C", "Division D"},
		FreeAgentNames:    []string{"Free Agent", "F/A", "Looking for Team"},
		FreeAgentRoleName: "Free Agent",
		RegionPriority:    []string{"US-East", "US-Central", "US-West", "Canada", "EU", "Oceanic"},
	}
}

// DefaultIcons returns the fallback icons for placements and awards.
func DefaultIcons() Icons {
	return Icons{
		Champion: GoldTrophyIcon,
		Generic:  AwardIcon,
		Awards: map[string]string{
			"mvp":                  AwardIcon,
			"ar of the year":       AwardIcon,
			"smg of the year":      AwardIcon,
			"biggest yapper":       AwardIcon,
			"most positive player": AwardIcon,
		},
	}
}
