package usecase

import (
	"context"

	"github.com/riskibarqy/league-tracker/internal/domain/gameclock"
	"github.com/riskibarqy/league-tracker/internal/domain/manager"
	"github.com/riskibarqy/league-tracker/internal/domain/player"
	"github.com/riskibarqy/league-tracker/internal/domain/roster"
	"github.com/riskibarqy/league-tracker/internal/domain/scoring"
	"github.com/riskibarqy/league-tracker/internal/domain/transaction"
)

// LeagueState is the provider's view of the current NFL calendar.
type LeagueState struct {
	Season      string
	SeasonType  string
	Week        int
	DisplayWeek int
}

// LeagueSettings is the subset of league metadata a cycle needs.
type LeagueSettings struct {
	LeagueID        string
	Name            string
	Season          string
	ScoringSettings map[string]float64
	RosterPositions []string
}

// LeagueProvider reads the fantasy platform.
type LeagueProvider interface {
	FetchState(ctx context.Context) (LeagueState, error)
	FetchLeague(ctx context.Context) (LeagueSettings, error)
	FetchRosters(ctx context.Context) ([]roster.Snapshot, error)
	FetchManagers(ctx context.Context) ([]manager.Manager, error)
	FetchTransactions(ctx context.Context, week int) ([]transaction.Transaction, error)
	FetchPlayers(ctx context.Context) ([]player.Player, error)
}

// StatsProvider reads weekly actuals and projections.
type StatsProvider interface {
	FetchWeeklyStats(ctx context.Context, season string, week int) ([]scoring.PlayerLine, error)
	FetchWeeklyProjections(ctx context.Context, season string, week int) ([]scoring.PlayerLine, error)
}

// ScheduleProvider reads the live NFL scoreboard.
type ScheduleProvider interface {
	FetchScoreboard(ctx context.Context) ([]gameclock.Game, error)
}

// CycleRepositories are the repositories bound to one persistence context.
type CycleRepositories interface {
	Rosters() roster.Repository
	Managers() manager.Repository
	Players() player.Repository
	Scores() scoring.RecordRepository
	Transactions() transaction.Repository
}

// UnitOfWork runs fn inside a single persistence context scoped to one
// league. Every write made through repos is committed when fn returns nil and
// discarded otherwise. Two contexts for the same league never overlap.
type UnitOfWork interface {
	WithinCycle(ctx context.Context, leagueID string, fn func(ctx context.Context, repos CycleRepositories) error) error
}
