package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/league-tracker/internal/platform/logging"
	"github.com/riskibarqy/league-tracker/internal/usecase"
	"github.com/robfig/cron/v3"
)

type CycleRunner interface {
	RunCycle(ctx context.Context) (usecase.CycleReport, error)
}

type PlayerRefresher interface {
	Refresh(ctx context.Context) (usecase.PlayerRefreshResult, error)
	EnsureLoaded(ctx context.Context) error
}

type Config struct {
	CycleInterval time.Duration
	// RunTimeout bounds one scheduled job, including persistence and
	// notification delivery.
	RunTimeout            time.Duration
	PlayerRefreshSchedule string
	RunOnStart            bool
	Location              *time.Location
}

// Scheduler drives the sync cycle on a fixed interval and the player
// directory refresh on a cron schedule. A job that is still running when its
// next tick fires is skipped.
type Scheduler struct {
	cron    *cron.Cron
	cycles  CycleRunner
	players PlayerRefresher
	cfg     Config
	logger  *logging.Logger

	mu      sync.Mutex
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewScheduler(cycles CycleRunner, players PlayerRefresher, cfg Config, logger *logging.Logger) *Scheduler {
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("worker")

	location := cfg.Location
	if location == nil {
		location = time.UTC
	}
	adapter := cronLogger{logger: logger}

	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(location),
			cron.WithLogger(adapter),
			cron.WithChain(cron.Recover(adapter), cron.SkipIfStillRunning(adapter)),
		),
		cycles:  cycles,
		players: players,
		cfg:     cfg,
		logger:  logger,
	}
}

// Start registers the jobs and starts the cron loop. The jobs stop receiving
// new work when ctx is canceled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler is already running")
	}
	if s.cycles == nil {
		return fmt.Errorf("%w: cycle runner is required", usecase.ErrDependencyUnavailable)
	}
	if s.cfg.CycleInterval <= 0 {
		return fmt.Errorf("%w: cycle interval must be > 0", usecase.ErrInvalidInput)
	}

	if _, err := s.cron.AddFunc("@every "+s.cfg.CycleInterval.String(), s.runCycle); err != nil {
		return fmt.Errorf("schedule sync cycle: %w", err)
	}
	if schedule := strings.TrimSpace(s.cfg.PlayerRefreshSchedule); schedule != "" && s.players != nil {
		if _, err := s.cron.AddFunc(schedule, s.refreshPlayers); err != nil {
			return fmt.Errorf("schedule player refresh %q: %w", schedule, err)
		}
	}

	s.ctx, s.cancel = context.WithCancel(ctx)
	s.cron.Start()
	s.running = true
	s.logger.Info("scheduler started",
		"cycle_interval", s.cfg.CycleInterval.String(),
		"player_refresh_schedule", s.cfg.PlayerRefreshSchedule,
	)

	if s.cfg.RunOnStart {
		go s.bootstrap()
	}
	return nil
}

// Stop halts the cron loop and waits for running jobs until ctx expires.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	stopped := s.cron.Stop()
	cancel := s.cancel
	s.mu.Unlock()

	select {
	case <-stopped.Done():
		cancel()
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		cancel()
		return fmt.Errorf("wait for running jobs: %w", ctx.Err())
	}
}

func (s *Scheduler) bootstrap() {
	if s.players != nil {
		ctx, cancel := s.jobContext()
		if err := s.players.EnsureLoaded(ctx); err != nil {
			s.logger.WarnContext(ctx, "initial player directory load failed", "error", err)
		}
		cancel()
	}
	s.runCycle()
}

func (s *Scheduler) runCycle() {
	ctx, cancel := s.jobContext()
	defer cancel()

	report, err := s.cycles.RunCycle(ctx)
	switch {
	case err == nil:
		s.logger.DebugContext(ctx, "scheduled cycle finished", "run_id", report.RunID, "week", report.Week)
	case errors.Is(err, usecase.ErrCycleInProgress):
		s.logger.InfoContext(ctx, "scheduled cycle skipped, previous pass still running")
	case errors.Is(err, usecase.ErrTransientFetch):
		s.logger.WarnContext(ctx, "scheduled cycle aborted, retrying next tick", "error", err)
	default:
		s.logger.ErrorContext(ctx, "scheduled cycle failed", "error", err)
	}
}

func (s *Scheduler) refreshPlayers() {
	ctx, cancel := s.jobContext()
	defer cancel()

	result, err := s.players.Refresh(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "scheduled player refresh failed", "error", err)
		return
	}
	s.logger.InfoContext(ctx, "scheduled player refresh finished",
		"fetched", result.Fetched,
		"upserted", result.Upserted,
		"skipped", result.Skipped,
	)
}

func (s *Scheduler) jobContext() (context.Context, context.CancelFunc) {
	s.mu.Lock()
	base := s.ctx
	s.mu.Unlock()
	if base == nil {
		base = context.Background()
	}
	if s.cfg.RunTimeout > 0 {
		return context.WithTimeout(base, s.cfg.RunTimeout)
	}
	return context.WithCancel(base)
}

// cronLogger routes cron's own messages through the service logger.
type cronLogger struct {
	logger *logging.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append([]any{"error", err}, keysAndValues...)...)
}
