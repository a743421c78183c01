package roles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cfg := DefaultClassifierConfig()

	tests := []struct {
		name  string
		roles []string
		want  Profile
	}{
		{
			name:  "no matching roles",
			roles: []string{"@everyone", "Member", "Streamer"},
			want:  Profile{},
		},
		{
			name:  "full profile",
			roles: []string{"Aura Gaming", "US-East", "Division B", "BO6 Season 3 Champ", "BO6 S3 MVP"},
			want:  Profile{Team: "Aura Gaming", Region: "North America (East)", Division: "Division B"},
		},
		{
			name:  "team beats free agent alias",
			roles: []string{"Looking for Team", "Kryptic"},
			want:  Profile{Team: "Kryptic"},
		},
		{
			name:  "free agent alias without team",
			roles: []string{"F/A", "EU"},
			want:  Profile{FreeAgent: true, Region: "Europe"},
		},
		{
			name:  "case-insensitive and trimmed",
			roles: []string{"  aura gaming ", "division c", "us-west"},
			want:  Profile{Team: "aura gaming", Region: "North America (West)", Division: "division c"},
		},
		{
			name:  "priority order picks highest region",
			roles: []string{"Oceanic", "Canada", "US-Central"},
			want:  Profile{Region: "North America (Central)"},
		},
		{
			name:  "first team wins",
			roles: []string{"OMiT", "REGIMENT"},
			want:  Profile{Team: "OMiT"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.roles, cfg))
		})
	}
}

func TestClassify_FreeAgentRoleName(t *testing.T) {
	cfg := ClassifierConfig{FreeAgentRoleName: "Unsigned"}

	p := Classify([]string{"unsigned"}, cfg)
	assert.True(t, p.FreeAgent)
	assert.Empty(t, p.Team)
}

func TestClassify_RegionFallbacks(t *testing.T) {
	cfg := ClassifierConfig{
		RegionLabels: map[string]string{
			"Mars":  "",
			"Venus": "Planet Venus",
		},
		RegionPriority: []string{"US-East"},
	}

	t.Run("first match in role order when none prioritised", func(t *testing.T) {
		p := Classify([]string{"Venus", "Mars"}, cfg)
		assert.Equal(t, "Planet Venus", p.Region)
	})

	t.Run("unmapped label used unchanged", func(t *testing.T) {
		p := Classify([]string{"Mars", "Venus"}, cfg)
		assert.Equal(t, "Mars", p.Region)
	})
}

func TestClassify_RegionPriorityNeverPicksLowerMatch(t *testing.T) {
	cfg := DefaultClassifierConfig()
	regions := cfg.RegionPriority

	for i := range regions {
		for j := i + 1; j < len(regions); j++ {
			high, low := regions[i], regions[j]
			p := Classify([]string{low, "Aura Gaming", high}, cfg)
			assert.Equal(t, cfg.RegionLabels[high], p.Region, "%s vs %s", high, low)
		}
	}
}

func TestClassify_TeamPrecedence(t *testing.T) {
	cfg := DefaultClassifierConfig()

	for _, team := range cfg.TeamNames {
		for _, alias := range cfg.FreeAgentNames {
			p := Classify([]string{alias, team}, cfg)
			assert.False(t, p.FreeAgent, "%s + %s", team, alias)
			assert.NotEmpty(t, p.Team)
		}
	}
}

func TestProfile_TeamDisplay(t *testing.T) {
	assert.Equal(t, "Kryptic", Profile{Team: "Kryptic"}.TeamDisplay())
	assert.Equal(t, FreeAgentLabel, Profile{FreeAgent: true}.TeamDisplay())
	assert.Equal(t, FreeAgentLabel, Profile{}.TeamDisplay())
}
