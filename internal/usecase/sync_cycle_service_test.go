package usecase_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/league-tracker/internal/domain/gameclock"
	"github.com/riskibarqy/league-tracker/internal/domain/manager"
	"github.com/riskibarqy/league-tracker/internal/domain/player"
	"github.com/riskibarqy/league-tracker/internal/domain/roster"
	"github.com/riskibarqy/league-tracker/internal/domain/scoring"
	"github.com/riskibarqy/league-tracker/internal/domain/transaction"
	"github.com/riskibarqy/league-tracker/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/league-tracker/internal/platform/cache"
	"github.com/riskibarqy/league-tracker/internal/platform/id"
	"github.com/riskibarqy/league-tracker/internal/platform/logging"
	"github.com/riskibarqy/league-tracker/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testLeagueID = "league-1"

var cycleNow = time.Date(2025, 9, 14, 16, 55, 0, 0, time.UTC)

type stubLeague struct {
	state        usecase.LeagueState
	stateErr     error
	rosters      []roster.Snapshot
	rostersErr   error
	managers     []manager.Manager
	transactions []transaction.Transaction
	rules        map[string]float64
	players      []player.Player

	mu          sync.Mutex
	leagueCalls int
	block       chan struct{}
	entered     chan struct{}
}

func (s *stubLeague) FetchState(ctx context.Context) (usecase.LeagueState, error) {
	if s.block != nil {
		close(s.entered)
		select {
		case <-s.block:
		case <-ctx.Done():
			return usecase.LeagueState{}, ctx.Err()
		}
	}
	return s.state, s.stateErr
}

func (s *stubLeague) FetchLeague(context.Context) (usecase.LeagueSettings, error) {
	s.mu.Lock()
	s.leagueCalls++
	s.mu.Unlock()
	return usecase.LeagueSettings{LeagueID: testLeagueID, ScoringSettings: s.rules}, nil
}

func (s *stubLeague) FetchRosters(context.Context) ([]roster.Snapshot, error) {
	return s.rosters, s.rostersErr
}

func (s *stubLeague) FetchManagers(context.Context) ([]manager.Manager, error) {
	return s.managers, nil
}

func (s *stubLeague) FetchTransactions(context.Context, int) ([]transaction.Transaction, error) {
	return s.transactions, nil
}

func (s *stubLeague) FetchPlayers(context.Context) ([]player.Player, error) {
	return s.players, nil
}

type stubStats struct {
	stats       []scoring.PlayerLine
	projections []scoring.PlayerLine
}

func (s stubStats) FetchWeeklyStats(context.Context, string, int) ([]scoring.PlayerLine, error) {
	return s.stats, nil
}

func (s stubStats) FetchWeeklyProjections(context.Context, string, int) ([]scoring.PlayerLine, error) {
	return s.projections, nil
}

type stubSchedule struct {
	games []gameclock.Game
}

func (s stubSchedule) FetchScoreboard(context.Context) ([]gameclock.Game, error) {
	return s.games, nil
}

type captureNotifier struct {
	items []usecase.Notification
}

func (c *captureNotifier) Dispatch(_ context.Context, items []usecase.Notification) usecase.DispatchResult {
	c.items = append(c.items, items...)
	return usecase.DispatchResult{Delivered: len(items)}
}

type panickingDirectory struct {
	player.Repository
}

func (panickingDirectory) GetByIDs(context.Context, []string) ([]player.Player, error) {
	panic("directory exploded")
}

type cycleFixture struct {
	league   *stubLeague
	stats    stubStats
	schedule stubSchedule
	store    *memory.Store
	notifier *captureNotifier
}

// newCycleFixture seeds roster 1 with starters [p1 p2]. The remote side moves
// roster 1 to [p1 p3], adds roster 2 and sends an invalid roster 3.
func newCycleFixture(t *testing.T) *cycleFixture {
	t.Helper()

	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Rosters().Upsert(ctx, []roster.Snapshot{{
		LeagueID: testLeagueID,
		RosterID: 1,
		OwnerID:  "u1",
		Players:  []string{"p1", "p2", "p3"},
		Starters: []string{"p1", "p2"},
	}}))
	require.NoError(t, store.Players().Upsert(ctx, []player.Player{
		{ID: "p1", FirstName: "Brock", LastName: "Purdy", Position: player.PositionQuarterback, Team: "SF"},
		{ID: "p2", FirstName: "Khalil", LastName: "Shakir", Position: player.PositionWideReceiver, Team: "BUF"},
		{ID: "p3", FirstName: "Travis", LastName: "Kelce", Position: player.PositionTightEnd, Team: "KC"},
	}))

	league := &stubLeague{
		state: usecase.LeagueState{Season: "2025", SeasonType: "regular", Week: 2, DisplayWeek: 2},
		rosters: []roster.Snapshot{
			{LeagueID: testLeagueID, RosterID: 1, OwnerID: "u1", Players: []string{"p1", "p2", "p3"}, Starters: []string{"p1", "p3"}},
			{LeagueID: testLeagueID, RosterID: 2, OwnerID: "u2", Players: []string{"p4"}, Starters: []string{"p4"}},
			{LeagueID: testLeagueID, RosterID: 3, OwnerID: "u3", Players: []string{"p5"}, Starters: []string{"p9"}},
		},
		managers: []manager.Manager{
			{ID: "u1", LeagueID: testLeagueID, DisplayName: "alice"},
			{ID: "u2", LeagueID: testLeagueID, DisplayName: "bob"},
		},
		transactions: []transaction.Transaction{{
			ID:        "t1",
			LeagueID:  testLeagueID,
			Type:      transaction.TypeFreeAgent,
			Status:    transaction.StatusComplete,
			Week:      2,
			RosterIDs: []int{1},
			Adds:      map[string]int{"p3": 1},
			Drops:     map[string]int{"p2": 1},
			CreatedAt: cycleNow.Add(-time.Hour),
		}},
		rules: map[string]float64{"pass_yd": 0.04, "rec": 1},
	}

	return &cycleFixture{
		league: league,
		stats: stubStats{
			stats: []scoring.PlayerLine{
				{PlayerID: "p1", Team: "SF", Line: scoring.StatLine{scoring.PassYards: 100}},
			},
			projections: []scoring.PlayerLine{
				{PlayerID: "p1", Team: "SF", Line: scoring.StatLine{scoring.PassYards: 250}},
				{PlayerID: "p3", Team: "KC", Line: scoring.StatLine{scoring.Receptions: 5}},
			},
		},
		schedule: stubSchedule{games: []gameclock.Game{
			{ShortName: "KC @ BUF", Date: cycleNow.Add(5 * time.Minute).Format("2006-01-02T15:04Z"), State: gameclock.StatePre},
		}},
		store:    store,
		notifier: &captureNotifier{},
	}
}

func (f *cycleFixture) service(directory player.Repository) *usecase.SyncCycleService {
	return usecase.NewSyncCycleService(usecase.SyncCycleDeps{
		League:    f.league,
		Stats:     f.stats,
		Schedule:  f.schedule,
		Store:     f.store,
		Directory: directory,
		Rules:     cache.NewStore[scoring.Rules](time.Hour),
		Notifier:  f.notifier,
		IDs:       id.Static("run-1"),
		Logger:    logging.NewNop(),
		Now:       func() time.Time { return cycleNow },
	}, usecase.SyncCycleConfig{
		LeagueID:       testLeagueID,
		FetchTimeout:   time.Second,
		LateSwapWindow: 600 * time.Second,
		Notifications:  usecase.NotificationToggles{LateSwap: true, Transactions: true, Scoreboard: true},
	})
}

func TestSyncCycleService_RunCycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newCycleFixture(t)

	report, err := f.service(f.store.Players()).RunCycle(ctx)
	require.NoError(t, err)

	assert.Equal(t, "run-1", report.RunID)
	assert.Equal(t, 2, report.Week)
	assert.Equal(t, 1, report.RostersUpdated)
	assert.Equal(t, 1, report.RostersInserted)
	assert.Equal(t, 1, report.RostersRejected)
	assert.Equal(t, 1, report.Alerts)
	assert.Equal(t, 2, report.Records)
	assert.Equal(t, 1, report.NewTransactions)

	rosters, err := f.store.Rosters().ListByLeague(ctx, testLeagueID)
	require.NoError(t, err)
	require.Len(t, rosters, 2)
	assert.Equal(t, []string{"p1", "p3"}, rosters[0].Starters)
	assert.Equal(t, cycleNow, rosters[0].RefreshedAt)

	history, err := f.store.Scores().ListByManager(ctx, "u1", time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.InDelta(t, 4.0, history[0].Current, 1e-9)
	assert.InDelta(t, 15.0, history[0].Projected, 1e-9)
	assert.Equal(t, cycleNow, history[0].RecordedAt)

	known, err := f.store.Transactions().ListIDsByWeek(ctx, testLeagueID, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"t1"}, known)

	require.Len(t, f.notifier.items, 3)
	swap := f.notifier.items[0]
	assert.Equal(t, usecase.NotificationLateSwap, swap.Kind)
	assert.Equal(t, "Boldly late move by alice:\n  Started:\n    \\- [TE] Travis Kelce\n  Benched:\n    \\- [WR] Khalil Shakir\n", swap.Text)

	digest := f.notifier.items[1]
	assert.Equal(t, usecase.NotificationTransactions, digest.Kind)
	assert.Equal(t, "alice\n  + [TE] Travis Kelce\n  \\- [WR] Khalil Shakir\n", digest.Text)

	board := f.notifier.items[2]
	assert.Equal(t, usecase.NotificationScoreboard, board.Kind)
	assert.True(t, strings.HasPrefix(board.Text, "Week 2 projections:\n  1. alice 15.00"))
}

func TestSyncCycleService_RunCycle_SecondPassIsQuiet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newCycleFixture(t)
	svc := f.service(f.store.Players())

	_, err := svc.RunCycle(ctx)
	require.NoError(t, err)
	f.notifier.items = nil

	report, err := svc.RunCycle(ctx)
	require.NoError(t, err)
	assert.Zero(t, report.RostersUpdated)
	assert.Zero(t, report.RostersInserted)
	assert.Zero(t, report.Alerts)
	assert.Zero(t, report.NewTransactions)
	assert.Equal(t, 1, f.league.leagueCalls, "scoring rules should come from the cache")

	// Same cycle time, so the append-only history keeps one record per manager.
	history, err := f.store.Scores().ListByManager(ctx, "u1", time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Len(t, history, 1)

	require.Len(t, f.notifier.items, 1)
	assert.Equal(t, usecase.NotificationScoreboard, f.notifier.items[0].Kind)
}

func TestSyncCycleService_RunCycle_FetchFailureWritesNothing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newCycleFixture(t)
	f.league.rostersErr = errors.New("connection reset")

	_, err := f.service(f.store.Players()).RunCycle(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, usecase.ErrTransientFetch)

	rosters, err := f.store.Rosters().ListByLeague(ctx, testLeagueID)
	require.NoError(t, err)
	require.Len(t, rosters, 1)
	assert.Equal(t, []string{"p1", "p2"}, rosters[0].Starters)

	managers, err := f.store.Managers().ListByLeague(ctx, testLeagueID)
	require.NoError(t, err)
	assert.Empty(t, managers)
	assert.Empty(t, f.notifier.items)
}

func TestSyncCycleService_RunCycle_LateSwapFailureIsIsolated(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newCycleFixture(t)

	report, err := f.service(panickingDirectory{}).RunCycle(ctx)
	require.NoError(t, err)
	assert.Zero(t, report.Alerts)
	assert.Equal(t, 1, report.RostersUpdated)
	assert.Equal(t, 2, report.Records)

	rosters, err := f.store.Rosters().ListByLeague(ctx, testLeagueID)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p3"}, rosters[0].Starters)

	for _, item := range f.notifier.items {
		assert.NotEqual(t, usecase.NotificationLateSwap, item.Kind)
	}
}

func TestSyncCycleService_RunCycle_RejectsOverlappingPass(t *testing.T) {
	t.Parallel()

	f := newCycleFixture(t)
	f.league.block = make(chan struct{})
	f.league.entered = make(chan struct{})
	svc := f.service(f.store.Players())

	done := make(chan error, 1)
	go func() {
		_, err := svc.RunCycle(context.Background())
		done <- err
	}()
	<-f.league.entered

	_, err := svc.RunCycle(context.Background())
	assert.ErrorIs(t, err, usecase.ErrCycleInProgress)

	close(f.league.block)
	require.NoError(t, <-done)
}

func TestSyncCycleService_RunCycle_RequiresLeague(t *testing.T) {
	t.Parallel()

	svc := usecase.NewSyncCycleService(usecase.SyncCycleDeps{}, usecase.SyncCycleConfig{})
	_, err := svc.RunCycle(context.Background())
	assert.ErrorIs(t, err, usecase.ErrDependencyUnavailable)
}
