package bot

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/ohc-admin/ohc-profiles-bot/internal/roles"
)

// isStaff reports whether the invoking member holds the staff role or is an administrator
func (b *Bot) isStaff(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	if i.Member == nil {
		return false
	}
	if i.Member.Permissions&discordgo.PermissionAdministrator != 0 {
		return true
	}

	guildRoles, err := b.guildRoles(s, i.GuildID)
	if err != nil {
		return false
	}
	return hasRoleNamed(resolveRoles(i.Member, guildRoles), b.config.StaffRoleName)
}

func hasRoleNamed(memberRoles []*discordgo.Role, name string) bool {
	for _, r := range memberRoles {
		if strings.EqualFold(r.Name, name) {
			return true
		}
	}
	return false
}

// guildRoles reads the guild's roles from the state cache, falling back to REST
func (b *Bot) guildRoles(s *discordgo.Session, guildID string) ([]*discordgo.Role, error) {
	if s.State != nil {
		if guild, err := s.State.Guild(guildID); err == nil && len(guild.Roles) > 0 {
			return guild.Roles, nil
		}
	}
	guildRoles, err := s.GuildRoles(guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch guild roles: %w", err)
	}
	return guildRoles, nil
}

// member reads a guild member from the state cache, falling back to REST
func (b *Bot) member(s *discordgo.Session, guildID, userID string) (*discordgo.Member, error) {
	if s.State != nil {
		if m, err := s.State.Member(guildID, userID); err == nil {
			return m, nil
		}
	}
	m, err := s.GuildMember(guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch member %s: %w", userID, err)
	}
	return m, nil
}

// resolveRoles resolves a member's role IDs, keeping the member's own order
func resolveRoles(m *discordgo.Member, guildRoles []*discordgo.Role) []*discordgo.Role {
	byID := make(map[string]*discordgo.Role, len(guildRoles))
	for _, r := range guildRoles {
		byID[r.ID] = r
	}

	var out []*discordgo.Role
	for _, id := range m.Roles {
		if r, ok := byID[id]; ok {
			out = append(out, r)
		}
	}
	return out
}

// membersWithRole pages through the guild's member list and keeps holders of roleID
func (b *Bot) membersWithRole(s *discordgo.Session, guildID, roleID string) ([]*discordgo.Member, error) {
	const pageSize = 1000

	var (
		out   []*discordgo.Member
		after string
	)
	for {
		page, err := s.GuildMembers(guildID, after, pageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to list guild members: %w", err)
		}
		for _, m := range page {
			if m.User != nil && hasRoleID(m, roleID) {
				out = append(out, m)
			}
		}
		if len(page) < pageSize {
			return out, nil
		}
		after = page[len(page)-1].User.ID
	}
}

func hasRoleID(m *discordgo.Member, roleID string) bool {
	for _, id := range m.Roles {
		if id == roleID {
			return true
		}
	}
	return false
}

func roleNames(memberRoles []*discordgo.Role) []string {
	names := make([]string, 0, len(memberRoles))
	for _, r := range memberRoles {
		names = append(names, r.Name)
	}
	return names
}

func achievementRoles(memberRoles []*discordgo.Role) []roles.Role {
	out := make([]roles.Role, 0, len(memberRoles))
	for _, r := range memberRoles {
		out = append(out, roles.Role{Name: r.Name, UnicodeEmoji: r.UnicodeEmoji})
	}
	return out
}

// findRole looks a role up by name, ignoring case
func findRole(guildRoles []*discordgo.Role, name string) *discordgo.Role {
	for _, r := range guildRoles {
		if strings.EqualFold(r.Name, name) {
			return r
		}
	}
	return nil
}

// displayName picks the server nickname, then the global name, then the username
func displayName(nick string, u *discordgo.User) string {
	if nick != "" {
		return nick
	}
	if u == nil {
		return ""
	}
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}

func memberDisplayName(m *discordgo.Member) string {
	return displayName(m.Nick, m.User)
}
