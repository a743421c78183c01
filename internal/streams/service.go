package streams

import (
	"fmt"
	"regexp"
	"strings"
)

// ServiceType identifies a supported streaming service
type ServiceType string

const (
	ServiceTwitch  ServiceType = "twitch"
	ServiceYouTube ServiceType = "youtube"
	ServiceKick    ServiceType = "kick"
)

// Service describes one streaming service a player can link
type Service struct {
	Type    ServiceType
	Name    string // button label
	Emoji   string // button emoji
	Example string // shown in option descriptions
	Pattern *regexp.Regexp
}

// ValidateURL checks that url points at this service
func (s Service) ValidateURL(url string) error {
	if !s.Pattern.MatchString(strings.TrimSpace(url)) {
		return fmt.Errorf("that %s URL doesn't look right", s.Type)
	}
	return nil
}

// Twitch, YouTube and Kick in profile button order
func defaultServices() []Service {
	return []Service{
		{
			Type:    ServiceTwitch,
			Name:    "Twitch",
			Emoji:   "🔴",
			Example: "https://twitch.tv/...",
			Pattern: regexp.MustCompile(`(?i)^https?://(www\.)?twitch\.tv/[\w-]+`),
		},
		{
			Type:    ServiceYouTube,
			Name:    "YouTube",
			Emoji:   "🔵",
			Example: "YouTube Live/Channel URL",
			Pattern: regexp.MustCompile(`(?i)^https?://(www\.)?(youtube\.com|youtu\.be)/.+`),
		},
		{
			Type:    ServiceKick,
			Name:    "Kick",
			Emoji:   "🟢",
			Example: "https://kick.com/...",
			Pattern: regexp.MustCompile(`(?i)^https?://(www\.)?kick\.com/[\w-]+`),
		},
	}
}
