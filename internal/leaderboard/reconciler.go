package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/ohc-admin/ohc-profiles-bot/internal/storage"
)

// Store is the persistence the reconciler needs
type Store interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	GoldStandings(ctx context.Context, limit int) ([]storage.Standing, error)
}

// MessageClient fetches, edits and sends channel messages
type MessageClient interface {
	Fetch(channelID, messageID string) error
	Edit(channelID, messageID string, embed *discordgo.MessageEmbed) error
	Send(channelID string, embed *discordgo.MessageEmbed) (string, error)
}

// Result tells how a reconcile call updated the channel
type Result int

const (
	ResultCreated Result = iota
	ResultEdited
)

func (r Result) String() string {
	if r == ResultEdited {
		return "edited"
	}
	return "created"
}

// DefaultLimit is the number of players shown when no limit is given
const DefaultLimit = 10

// Reconciler keeps one live leaderboard message per channel
type Reconciler struct {
	store    Store
	messages MessageClient
	limit    int
	now      func() time.Time
}

// NewReconciler creates a reconciler showing the top limit players
func NewReconciler(store Store, messages MessageClient, limit int) *Reconciler {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Reconciler{
		store:    store,
		messages: messages,
		limit:    limit,
		now:      time.Now,
	}
}

// SettingKey is the settings key holding the leaderboard message ID of a channel
func SettingKey(channelID string) string {
	return "gold_lb_msg_" + channelID
}

// Reconcile edits the channel's recorded leaderboard message in place, or
// posts a new one and records its ID when there is none or it is gone.
// A limit of zero uses the reconciler's default.
func (r *Reconciler) Reconcile(ctx context.Context, channelID string, limit int) (Result, error) {
	if limit <= 0 {
		limit = r.limit
	}

	standings, err := r.store.GoldStandings(ctx, limit)
	if err != nil {
		return ResultCreated, fmt.Errorf("failed to load standings: %w", err)
	}
	embed := Embed(standings, r.now())

	key := SettingKey(channelID)
	lastID, err := r.store.GetSetting(ctx, key)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		slog.Warn("Failed to read leaderboard pointer", "channel", channelID, "error", err)
	}

	if lastID != "" {
		editErr := r.editExisting(channelID, lastID, embed)
		if editErr == nil {
			slog.Debug("Leaderboard edited", "channel", channelID, "message", lastID)
			return ResultEdited, nil
		}
		slog.Info("Previous leaderboard message unavailable, posting a new one",
			"channel", channelID, "message", lastID, "error", editErr)
	}

	newID, err := r.messages.Send(channelID, embed)
	if err != nil {
		return ResultCreated, fmt.Errorf("failed to send leaderboard: %w", err)
	}
	if err := r.store.SetSetting(ctx, key, newID); err != nil {
		return ResultCreated, fmt.Errorf("failed to record leaderboard message: %w", err)
	}

	slog.Debug("Leaderboard posted", "channel", channelID, "message", newID)
	return ResultCreated, nil
}

func (r *Reconciler) editExisting(channelID, messageID string, embed *discordgo.MessageEmbed) error {
	if err := r.messages.Fetch(channelID, messageID); err != nil {
		return err
	}
	return r.messages.Edit(channelID, messageID, embed)
}

// SessionMessages adapts a discordgo session to MessageClient
type SessionMessages struct {
	Session *discordgo.Session
}

func (m SessionMessages) Fetch(channelID, messageID string) error {
	_, err := m.Session.ChannelMessage(channelID, messageID)
	return err
}

func (m SessionMessages) Edit(channelID, messageID string, embed *discordgo.MessageEmbed) error {
	_, err := m.Session.ChannelMessageEditEmbed(channelID, messageID, embed)
	return err
}

func (m SessionMessages) Send(channelID string, embed *discordgo.MessageEmbed) (string, error) {
	msg, err := m.Session.ChannelMessageSendEmbed(channelID, embed)
	if err != nil {
		return "", err
	}
	return msg.ID, nil
}
