package bot

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/bwmarrin/discordgo"
	"github.com/ohc-admin/ohc-profiles-bot/internal/config"
	"github.com/ohc-admin/ohc-profiles-bot/internal/leaderboard"
	"github.com/ohc-admin/ohc-profiles-bot/internal/roles"
	"github.com/ohc-admin/ohc-profiles-bot/internal/scheduler"
	"github.com/ohc-admin/ohc-profiles-bot/internal/storage"
	"github.com/ohc-admin/ohc-profiles-bot/internal/streams"
)

// Store is the persistence used by the command handlers
type Store interface {
	UpsertPlayer(ctx context.Context, discordID, displayName string) error
	GetPlayer(ctx context.Context, discordID string) (*storage.Player, error)
	LinkGamertag(ctx context.Context, discordID, displayName, gamertag, platform string) error
	UnlinkGamertag(ctx context.Context, discordID string) (bool, error)
	RecordResult(ctx context.Context, eventName string, podium storage.Podium) (int64, error)
	GrantAward(ctx context.Context, eventName, playerID, label string) (int64, error)
	ListAwards(ctx context.Context, playerID string) ([]*storage.Award, error)
	TrophyTotals(ctx context.Context, playerID string) (storage.TrophyCounts, error)
	RemoveLatestTrophy(ctx context.Context, playerID string, tier storage.Tier) (*storage.Trophy, error)
	UpsertStream(ctx context.Context, link storage.StreamLink) error
	ListStreams(ctx context.Context, playerID string) ([]storage.StreamLink, error)
	DeleteStream(ctx context.Context, playerID, service string) (bool, error)
	DeleteAllStreams(ctx context.Context, playerID string) (int64, error)
}

// Bot represents the Discord bot instance
type Bot struct {
	config     *config.Config
	session    *discordgo.Session
	repo       *storage.Repository
	store      Store
	streams    *streams.Registry
	reconciler *leaderboard.Reconciler
	scheduler  *scheduler.Scheduler
	classifier roles.ClassifierConfig
	icons      roles.Icons
	commands   []*discordgo.ApplicationCommand
}

// New creates a new Bot instance
func New(cfg *config.Config) (*Bot, error) {
	// Create Discord session
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	// Member roles drive every profile
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers

	// Initialize storage
	repo, err := storage.NewRepository(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	slog.Info("Using database", "path", cfg.DatabasePath)

	reconciler := leaderboard.NewReconciler(repo, leaderboard.SessionMessages{Session: session}, cfg.LeaderboardLimit)

	b := &Bot{
		config:     cfg,
		session:    session,
		repo:       repo,
		store:      repo,
		streams:    streams.NewRegistry(),
		reconciler: reconciler,
		scheduler:  scheduler.New(reconciler, cfg.LeaderboardChannelID, cfg.LeaderboardCron, cfg.LeaderboardTimezone),
		classifier: roles.DefaultClassifierConfig(),
		icons:      roles.DefaultIcons(),
	}

	// Register command handlers
	b.registerHandlers()

	return b, nil
}

// Start opens the Discord connection and starts background tasks
func (b *Bot) Start(ctx context.Context) error {
	// Open Discord connection
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	slog.Info("Connected to Discord", "user", b.session.State.User.Username)

	// Register slash commands
	if err := b.registerCommands(); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	// Post the leaderboard and schedule the weekly refresh
	go b.scheduler.Start(ctx)

	return nil
}

// Stop gracefully shuts down the bot
func (b *Bot) Stop() error {
	if b.scheduler != nil {
		b.scheduler.Stop()
	}

	// Close storage
	if b.repo != nil {
		b.repo.Close()
	}

	// Close Discord session
	if b.session != nil {
		return b.session.Close()
	}

	return nil
}

// registerHandlers sets up Discord event handlers
func (b *Bot) registerHandlers() {
	b.session.AddHandler(b.handleInteraction)
	b.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		slog.Info("Bot is ready", "user", r.User.String(), "guilds", len(r.Guilds))
	})
}

// handleInteraction routes slash commands and button presses
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Interaction handler panicked", "panic", r, "stack", string(debug.Stack()))
		}
	}()

	if i.GuildID == "" {
		respondEphemeral(s, i, "This bot only works inside a server.")
		return
	}

	switch i.Type {
	case discordgo.InteractionMessageComponent:
		b.handleComponent(s, i)
	case discordgo.InteractionApplicationCommand:
		b.handleCommand(s, i)
	}
}

func (b *Bot) handleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	slog.Debug("Received command", "command", data.Name, "guild", i.GuildID)

	cmd, ok := b.commandTable()[data.Name]
	if !ok {
		slog.Warn("Unknown command", "command", data.Name)
		return
	}

	if cmd.staffOnly && !b.isStaff(s, i) {
		respondEphemeral(s, i, "Staff only.")
		return
	}

	cmd.handler(s, i)
}

func (b *Bot) handleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID
	slog.Debug("Received component", "customID", customID, "guild", i.GuildID)

	if team, ok := teamFromCustomID(customID); ok {
		b.handleTeamRoster(s, i, team)
	}
}
