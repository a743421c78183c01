package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ohc-admin/ohc-profiles-bot/internal/leaderboard"
	"github.com/robfig/cron/v3"
)

// Reconciler posts or updates the leaderboard in a channel
type Reconciler interface {
	Reconcile(ctx context.Context, channelID string, limit int) (leaderboard.Result, error)
}

// Scheduler refreshes the leaderboard once at startup and then on a cron schedule
type Scheduler struct {
	reconciler Reconciler
	channelID  string
	expr       string
	timezone   string

	mu   sync.Mutex
	cron *cron.Cron
}

// New creates a new Scheduler for the given channel, cron expression and time zone
func New(reconciler Reconciler, channelID, expr, timezone string) *Scheduler {
	return &Scheduler{
		reconciler: reconciler,
		channelID:  channelID,
		expr:       expr,
		timezone:   timezone,
	}
}

// Start posts the leaderboard and schedules the recurring refresh.
// Configuration problems disable the recurring refresh and are only logged.
func (s *Scheduler) Start(ctx context.Context) {
	if s.channelID == "" {
		slog.Warn("LEADERBOARD_CHANNEL_ID not set; weekly leaderboard disabled")
		return
	}

	s.refresh(ctx, "startup")

	if err := s.schedule(ctx); err != nil {
		slog.Warn("Weekly leaderboard disabled", "cron", s.expr, "timezone", s.timezone, "error", err)
		return
	}
	slog.Info("Weekly leaderboard scheduled", "cron", s.expr, "timezone", s.timezone)
}

// Stop halts the recurring refresh and waits for a running one to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
		slog.Info("Leaderboard scheduler stopped")
	}
}

// NextRun returns the first scheduled refresh after t
func (s *Scheduler) NextRun(after time.Time) (time.Time, error) {
	loc, schedule, err := s.parse()
	if err != nil {
		return time.Time{}, err
	}
	return schedule.Next(after.In(loc)), nil
}

func (s *Scheduler) parse() (*time.Location, cron.Schedule, error) {
	loc, err := time.LoadLocation(s.timezone)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid time zone: %w", err)
	}
	schedule, err := cron.ParseStandard(s.expr)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid cron expression (example Monday noon = \"0 12 * * MON\"): %w", err)
	}
	return loc, schedule, nil
}

func (s *Scheduler) schedule(ctx context.Context) error {
	loc, schedule, err := s.parse()
	if err != nil {
		return err
	}

	c := cron.New(cron.WithLocation(loc))
	c.Schedule(schedule, cron.FuncJob(func() {
		s.refresh(ctx, "scheduled")
	}))

	s.mu.Lock()
	s.cron = c
	s.mu.Unlock()

	c.Start()
	return nil
}

// refresh runs one reconcile; failures are logged and never retried
func (s *Scheduler) refresh(ctx context.Context, trigger string) {
	if ctx.Err() != nil {
		return
	}
	result, err := s.reconciler.Reconcile(ctx, s.channelID, 0)
	if err != nil {
		slog.Warn("Could not post leaderboard", "trigger", trigger, "channel", s.channelID, "error", err)
		return
	}
	slog.Info("Gold leaderboard updated", "trigger", trigger, "channel", s.channelID, "result", result.String())
}
