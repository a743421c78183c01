package roles

import "strings"

// FreeAgentLabel is shown wherever a member holds no team role.
const FreeAgentLabel = "F/A"

// ClassifierConfig lists the role names that carry profile meaning.
type ClassifierConfig struct {
	TeamNames         []string
	RegionLabels      map[string]string // region role name -> display label
	Divisions         []string
	FreeAgentNames    []string
	FreeAgentRoleName string
	RegionPriority    []string // highest priority first
}

// Profile holds the attributes derived from a member's current roles.
// Empty strings mean the attribute is not held.
type Profile struct {
	Team      string
	FreeAgent bool
	Region    string
	Division  string
}

// TeamDisplay returns the team name, or FreeAgentLabel when no team is held.
// FreeAgent is not consulted: a member without a team always renders as F/A.
func (p Profile) TeamDisplay() string {
	if p.Team != "" {
		return p.Team
	}
	return FreeAgentLabel
}

// Classify derives team, free-agent status, region and division from the
// member's role names. Matching is case-insensitive on trimmed names.
func Classify(roleNames []string, cfg ClassifierConfig) Profile {
	var p Profile
	var matchedRegions []string

	for _, raw := range roleNames {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}

		if p.Team == "" && containsFold(cfg.TeamNames, name) {
			p.Team = name
		}
		if code, ok := regionCode(cfg.RegionLabels, name); ok {
			matchedRegions = append(matchedRegions, code)
		}
		if p.Division == "" && containsFold(cfg.Divisions, name) {
			p.Division = name
		}
		if containsFold(cfg.FreeAgentNames, name) {
			p.FreeAgent = true
		}
		if cfg.FreeAgentRoleName != "" && strings.EqualFold(cfg.FreeAgentRoleName, name) {
			p.FreeAgent = true
		}
	}

	// A rostered player is never a free agent.
	if p.Team != "" {
		p.FreeAgent = false
	}

	if len(matchedRegions) > 0 {
		chosen := resolveRegion(matchedRegions, cfg.RegionPriority)
		if label, ok := cfg.RegionLabels[chosen]; ok && label != "" {
			p.Region = label
		} else {
			p.Region = chosen
		}
	}

	return p
}

// resolveRegion picks the matched region that appears first in the priority
// list, falling back to the first match in role order.
func resolveRegion(matched, priority []string) string {
	for _, code := range priority {
		for _, m := range matched {
			if strings.EqualFold(code, m) {
				return m
			}
		}
	}
	return matched[0]
}

// regionCode returns the configured region key equal to name, ignoring case.
func regionCode(labels map[string]string, name string) (string, bool) {
	if _, ok := labels[name]; ok {
		return name, true
	}
	for code := range labels {
		if strings.EqualFold(code, name) {
			return code, true
		}
	}
	return "", false
}

func containsFold(list []string, name string) bool {
	for _, candidate := range list {
		if strings.EqualFold(strings.TrimSpace(candidate), name) {
			return true
		}
	}
	return false
}
