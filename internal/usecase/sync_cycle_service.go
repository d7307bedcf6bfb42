package usecase

import (
	"context"
	"fmt"
	"runtime/debug"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/league-tracker/internal/domain/gameclock"
	"github.com/riskibarqy/league-tracker/internal/domain/lateswap"
	"github.com/riskibarqy/league-tracker/internal/domain/manager"
	"github.com/riskibarqy/league-tracker/internal/domain/player"
	"github.com/riskibarqy/league-tracker/internal/domain/roster"
	"github.com/riskibarqy/league-tracker/internal/domain/scoring"
	"github.com/riskibarqy/league-tracker/internal/domain/transaction"
	"github.com/riskibarqy/league-tracker/internal/platform/cache"
	"github.com/riskibarqy/league-tracker/internal/platform/id"
	"github.com/riskibarqy/league-tracker/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

type NotificationToggles struct {
	LateSwap     bool
	Transactions bool
	Scoreboard   bool
}

type SyncCycleConfig struct {
	LeagueID string
	// FetchTimeout bounds the whole fetch stage, not each request.
	FetchTimeout   time.Duration
	LateSwapWindow time.Duration
	TeamAliases    map[string]string
	Notifications  NotificationToggles
}

type SyncCycleDeps struct {
	League   LeagueProvider
	Stats    StatsProvider
	Schedule ScheduleProvider
	Store    UnitOfWork
	// Directory serves late-swap player lookups outside the cycle's
	// persistence context, so a failed lookup cannot poison its writes.
	Directory player.Repository
	Rules     *cache.Store[scoring.Rules]
	Notifier  Notifier
	IDs       id.Generator
	Logger    *logging.Logger
	Now       func() time.Time
}

// CycleReport summarizes one committed pass.
type CycleReport struct {
	RunID           string        `json:"run_id"`
	LeagueID        string        `json:"league_id"`
	Season          string        `json:"season"`
	Week            int           `json:"week"`
	StartedAt       time.Time     `json:"started_at"`
	Duration        time.Duration `json:"duration_ns"`
	RostersUpdated  int           `json:"rosters_updated"`
	RostersInserted int           `json:"rosters_inserted"`
	RostersRejected int           `json:"rosters_rejected"`
	Alerts          int           `json:"alerts"`
	Records         int           `json:"records"`
	NewTransactions int           `json:"new_transactions"`
	Notifications   int           `json:"notifications"`
}

// SyncCycleService runs the periodic fetch, reconcile, detect and score pass.
type SyncCycleService struct {
	cfg       SyncCycleConfig
	league    LeagueProvider
	stats     StatsProvider
	schedule  ScheduleProvider
	store     UnitOfWork
	directory player.Repository
	rules     *cache.Store[scoring.Rules]
	notifier  Notifier
	ids       id.Generator
	logger    *logging.Logger
	aliases   gameclock.Aliases
	now       func() time.Time

	guard sync.Mutex
}

func NewSyncCycleService(deps SyncCycleDeps, cfg SyncCycleConfig) *SyncCycleService {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Default()
	}
	ids := deps.IDs
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	if cfg.LateSwapWindow <= 0 {
		cfg.LateSwapWindow = lateswap.DefaultWindow
	}
	cfg.LeagueID = strings.TrimSpace(cfg.LeagueID)
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	return &SyncCycleService{
		cfg:       cfg,
		league:    deps.League,
		stats:     deps.Stats,
		schedule:  deps.Schedule,
		store:     deps.Store,
		directory: deps.Directory,
		rules:     deps.Rules,
		notifier:  deps.Notifier,
		ids:       ids,
		logger:    logger.Named("sync_cycle"),
		aliases:   gameclock.DefaultAliases.With(cfg.TeamAliases),
		now:       now,
	}
}

type cycleSnapshot struct {
	state        LeagueState
	week         int
	rules        scoring.Rules
	rosters      []roster.Snapshot
	managers     []manager.Manager
	transactions []transaction.Transaction
	games        []gameclock.Game
	stats        scoring.Feed
	projections  scoring.Feed
}

type cycleOutcome struct {
	reconciled      roster.Result
	alerts          []lateswap.Alert
	records         []scoring.Record
	newTransactions []transaction.Transaction
	digest          string
	managers        manager.Index
}

// RunCycle performs one pass to completion. A fetch failure aborts the pass
// with ErrTransientFetch before anything is written. Notifications go out
// only after the pass is committed.
func (s *SyncCycleService) RunCycle(ctx context.Context) (CycleReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncCycleService.RunCycle")
	defer span.End()

	if s.league == nil || s.stats == nil || s.schedule == nil || s.store == nil {
		return CycleReport{}, fmt.Errorf("%w: sync cycle is not fully configured", ErrDependencyUnavailable)
	}
	if s.cfg.LeagueID == "" {
		return CycleReport{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	if !s.guard.TryLock() {
		return CycleReport{}, ErrCycleInProgress
	}
	defer s.guard.Unlock()

	startedAt := s.now().UTC()
	runID, err := s.ids.NewID()
	if err != nil {
		return CycleReport{}, fmt.Errorf("generate run id: %w", err)
	}
	report := CycleReport{RunID: runID, LeagueID: s.cfg.LeagueID, StartedAt: startedAt}
	logger := s.logger.With("run_id", runID, "league_id", s.cfg.LeagueID)

	snap, err := s.fetch(ctx)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrTransientFetch, err)
		logger.WarnContext(ctx, "sync cycle aborted", "error", err)
		return report, err
	}
	report.Season = snap.state.Season
	report.Week = snap.week

	timing := gameclock.Resolve(snap.games, s.aliases)

	var outcome cycleOutcome
	err = s.store.WithinCycle(ctx, s.cfg.LeagueID, func(ctx context.Context, repos CycleRepositories) error {
		out, err := s.persist(ctx, logger, repos, snap, timing, startedAt)
		if err != nil {
			return err
		}
		outcome = out
		return nil
	})
	if err != nil {
		logger.ErrorContext(ctx, "sync cycle persist failed", "error", err)
		return report, fmt.Errorf("persist cycle: %w", err)
	}

	report.RostersUpdated = len(outcome.reconciled.Updated)
	report.RostersInserted = len(outcome.reconciled.Inserted)
	report.RostersRejected = len(outcome.reconciled.Rejected)
	report.Alerts = len(outcome.alerts)
	report.Records = len(outcome.records)
	report.NewTransactions = len(outcome.newTransactions)

	notifications := s.buildNotifications(runID, snap.week, startedAt, outcome)
	report.Notifications = len(notifications)
	if s.notifier != nil && len(notifications) > 0 {
		result := s.notifier.Dispatch(ctx, notifications)
		if result.Failed > 0 {
			logger.WarnContext(ctx, "some notifications were not delivered", "delivered", result.Delivered, "failed", result.Failed)
		}
	}

	report.Duration = s.now().UTC().Sub(startedAt)
	logger.InfoContext(ctx, "sync cycle completed",
		"season", report.Season,
		"week", report.Week,
		"rosters_updated", report.RostersUpdated,
		"rosters_inserted", report.RostersInserted,
		"rosters_rejected", report.RostersRejected,
		"alerts", report.Alerts,
		"records", report.Records,
		"new_transactions", report.NewTransactions,
		"duration_ms", report.Duration.Milliseconds(),
	)
	return report, nil
}

func (s *SyncCycleService) fetch(ctx context.Context) (cycleSnapshot, error) {
	if s.cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.FetchTimeout)
		defer cancel()
	}

	state, err := s.league.FetchState(ctx)
	if err != nil {
		return cycleSnapshot{}, fmt.Errorf("fetch league state: %w", err)
	}
	week := state.Week
	if week <= 0 {
		week = state.DisplayWeek
	}
	if week <= 0 {
		return cycleSnapshot{}, fmt.Errorf("fetch league state: no active week for season %q", state.Season)
	}

	snap := cycleSnapshot{state: state, week: week}
	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	p.Go(func(ctx context.Context) error {
		items, err := s.league.FetchRosters(ctx)
		if err != nil {
			return fmt.Errorf("fetch rosters: %w", err)
		}
		snap.rosters = items
		return nil
	})
	p.Go(func(ctx context.Context) error {
		items, err := s.league.FetchManagers(ctx)
		if err != nil {
			return fmt.Errorf("fetch managers: %w", err)
		}
		snap.managers = items
		return nil
	})
	p.Go(func(ctx context.Context) error {
		items, err := s.league.FetchTransactions(ctx, week)
		if err != nil {
			return fmt.Errorf("fetch transactions week=%d: %w", week, err)
		}
		snap.transactions = items
		return nil
	})
	p.Go(func(ctx context.Context) error {
		items, err := s.schedule.FetchScoreboard(ctx)
		if err != nil {
			return fmt.Errorf("fetch scoreboard: %w", err)
		}
		snap.games = items
		return nil
	})
	p.Go(func(ctx context.Context) error {
		items, err := s.stats.FetchWeeklyStats(ctx, state.Season, week)
		if err != nil {
			return fmt.Errorf("fetch weekly stats week=%d: %w", week, err)
		}
		snap.stats = scoring.NewFeed(items)
		return nil
	})
	p.Go(func(ctx context.Context) error {
		items, err := s.stats.FetchWeeklyProjections(ctx, state.Season, week)
		if err != nil {
			return fmt.Errorf("fetch weekly projections week=%d: %w", week, err)
		}
		snap.projections = scoring.NewFeed(items)
		return nil
	})
	p.Go(func(ctx context.Context) error {
		rules, err := s.loadRules(ctx)
		if err != nil {
			return fmt.Errorf("fetch scoring rules: %w", err)
		}
		snap.rules = rules
		return nil
	})
	if err := p.Wait(); err != nil {
		return cycleSnapshot{}, err
	}

	return snap, nil
}

func (s *SyncCycleService) loadRules(ctx context.Context) (scoring.Rules, error) {
	load := func(ctx context.Context) (scoring.Rules, error) {
		settings, err := s.league.FetchLeague(ctx)
		if err != nil {
			return nil, err
		}
		return scoring.ParseRules(settings.ScoringSettings), nil
	}
	if s.rules == nil {
		return load(ctx)
	}
	return s.rules.GetOrLoad(ctx, "rules:"+s.cfg.LeagueID, load)
}

func (s *SyncCycleService) persist(
	ctx context.Context,
	logger *logging.Logger,
	repos CycleRepositories,
	snap cycleSnapshot,
	timing gameclock.Timing,
	cycleAt time.Time,
) (cycleOutcome, error) {
	var out cycleOutcome

	if len(snap.managers) > 0 {
		if err := repos.Managers().Upsert(ctx, snap.managers); err != nil {
			return out, fmt.Errorf("upsert managers: %w", err)
		}
	}
	out.managers = manager.NewIndex(snap.managers)

	persisted, err := repos.Rosters().ListByLeague(ctx, s.cfg.LeagueID)
	if err != nil {
		return out, fmt.Errorf("list persisted rosters: %w", err)
	}
	result := roster.Reconcile(snap.rosters, persisted, cycleAt)
	for _, rejection := range result.Rejected {
		logger.WarnContext(ctx, "roster snapshot rejected", "roster_id", rejection.RosterID, "error", rejection.Err)
	}
	if writes := result.Writes(); len(writes) > 0 {
		if err := repos.Rosters().Upsert(ctx, writes); err != nil {
			return out, fmt.Errorf("upsert rosters: %w", err)
		}
	}
	out.reconciled = result

	for _, delta := range result.Deltas {
		if len(delta.Started) == 0 && len(delta.Benched) == 0 {
			continue
		}
		alert, flagged, err := s.checkLateSwap(ctx, delta, out.managers, snap, timing, cycleAt)
		if err != nil {
			logger.WarnContext(ctx, "late swap check skipped", "roster_id", delta.RosterID, "error", err)
			continue
		}
		if flagged {
			out.alerts = append(out.alerts, alert)
		}
	}

	current := currentRosters(persisted, result)
	out.records = make([]scoring.Record, 0, len(current))
	for _, snapshot := range current {
		if snapshot.OwnerID == "" {
			continue
		}
		projection := scoring.ProjectScore(snapshot.Starters, snap.stats, snap.projections, snap.rules, timing)
		out.records = append(out.records, scoring.Record{
			ManagerID:  snapshot.OwnerID,
			LeagueID:   s.cfg.LeagueID,
			RosterID:   snapshot.RosterID,
			Week:       snap.week,
			RecordedAt: cycleAt,
			Projected:  projection.Projected,
			Current:    projection.Current,
		})
	}
	if len(out.records) > 0 {
		if err := repos.Scores().Append(ctx, out.records); err != nil {
			return out, fmt.Errorf("append score records: %w", err)
		}
	}

	known, err := repos.Transactions().ListIDsByWeek(ctx, s.cfg.LeagueID, snap.week)
	if err != nil {
		return out, fmt.Errorf("list known transactions: %w", err)
	}
	fresh := transaction.NewSince(snap.transactions, known)
	if len(fresh) > 0 {
		for i := range fresh {
			if fresh[i].LeagueID == "" {
				fresh[i].LeagueID = s.cfg.LeagueID
			}
		}
		if err := repos.Transactions().Insert(ctx, fresh); err != nil {
			return out, fmt.Errorf("insert transactions: %w", err)
		}
		out.newTransactions = fresh
		out.digest = s.renderDigest(ctx, logger, fresh, current, out.managers)
	}

	return out, nil
}

// checkLateSwap runs the late-swap sub-check for one delta. Errors and panics
// come back wrapped in ErrNonCriticalSubsystem.
func (s *SyncCycleService) checkLateSwap(
	ctx context.Context,
	delta roster.Delta,
	managers manager.Index,
	snap cycleSnapshot,
	timing gameclock.Timing,
	now time.Time,
) (alert lateswap.Alert, flagged bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			alert, flagged = lateswap.Alert{}, false
			err = fmt.Errorf("%w: late swap check panicked: %v\n%s", ErrNonCriticalSubsystem, rec, debug.Stack())
		}
	}()

	ids := make([]string, 0, len(delta.Started)+len(delta.Benched))
	ids = append(ids, delta.Started...)
	ids = append(ids, delta.Benched...)

	players, err := s.lookupPlayers(ctx, ids, snap)
	if err != nil {
		return lateswap.Alert{}, false, fmt.Errorf("%w: player lookup: %w", ErrNonCriticalSubsystem, err)
	}

	alert, flagged = lateswap.Detect(lateswap.Input{
		LeagueID:    s.cfg.LeagueID,
		RosterID:    delta.RosterID,
		ManagerID:   delta.OwnerID,
		ManagerName: managers.NameOf(delta.OwnerID),
		Started:     delta.Started,
		Benched:     delta.Benched,
		Players:     players,
		Timing:      timing,
		Now:         now,
		Window:      s.cfg.LateSwapWindow,
	})
	return alert, flagged, nil
}

// lookupPlayers reads the player directory and fills in the team of players
// the directory does not know from the weekly feeds.
func (s *SyncCycleService) lookupPlayers(ctx context.Context, ids []string, snap cycleSnapshot) (player.Index, error) {
	items, err := s.directoryLookup(ctx, ids)
	if err != nil {
		return nil, err
	}
	index := player.NewIndex(items)
	for _, playerID := range ids {
		if existing, ok := index[playerID]; ok && existing.Team != "" {
			continue
		}
		team := feedTeam(snap, playerID)
		if team == "" {
			continue
		}
		item := index[playerID]
		item.ID = playerID
		item.Team = team
		index[playerID] = item
	}
	return index, nil
}

func feedTeam(snap cycleSnapshot, playerID string) string {
	if line, ok := snap.stats[playerID]; ok && line.Team != "" {
		return line.Team
	}
	if line, ok := snap.projections[playerID]; ok {
		return line.Team
	}
	return ""
}

func (s *SyncCycleService) renderDigest(
	ctx context.Context,
	logger *logging.Logger,
	items []transaction.Transaction,
	current []roster.Snapshot,
	managers manager.Index,
) string {
	owners := make(map[int]string, len(current))
	for _, snapshot := range current {
		owners[snapshot.RosterID] = snapshot.OwnerID
	}

	ids := make([]string, 0)
	for _, item := range items {
		ids = append(ids, item.PlayerIDs()...)
	}
	var players player.Index
	found, err := s.directoryLookup(ctx, ids)
	if err != nil {
		logger.WarnContext(ctx, "transaction digest player lookup failed", "error", fmt.Errorf("%w: %w", ErrNonCriticalSubsystem, err))
	} else {
		players = player.NewIndex(found)
	}
	return transaction.RenderDigest(items, owners, managers, players)
}

func (s *SyncCycleService) directoryLookup(ctx context.Context, ids []string) (items []player.Player, err error) {
	if s.directory == nil || len(ids) == 0 {
		return nil, nil
	}
	defer func() {
		if rec := recover(); rec != nil {
			items = nil
			err = fmt.Errorf("player directory panicked: %v", rec)
		}
	}()
	return s.directory.GetByIDs(ctx, ids)
}

// currentRosters returns the league's rosters as they stand after the pass,
// ordered by roster id. Rejected remote snapshots keep their persisted state.
func currentRosters(persisted []roster.Snapshot, result roster.Result) []roster.Snapshot {
	byID := make(map[int]roster.Snapshot, len(persisted)+len(result.Inserted))
	for _, item := range persisted {
		byID[item.RosterID] = item
	}
	for _, item := range result.Writes() {
		byID[item.RosterID] = item
	}

	out := make([]roster.Snapshot, 0, len(byID))
	for _, item := range byID {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RosterID < out[j].RosterID })
	return out
}

func (s *SyncCycleService) buildNotifications(runID string, week int, createdAt time.Time, outcome cycleOutcome) []Notification {
	base := Notification{RunID: runID, LeagueID: s.cfg.LeagueID, Week: week, CreatedAt: createdAt}
	out := make([]Notification, 0, len(outcome.alerts)+2)

	if s.cfg.Notifications.LateSwap {
		for _, alert := range outcome.alerts {
			item := base
			item.Kind = NotificationLateSwap
			item.Text = alert.Text
			item.Alerts = []lateswap.Alert{alert}
			out = append(out, item)
		}
	}
	if s.cfg.Notifications.Transactions && strings.TrimSpace(outcome.digest) != "" {
		item := base
		item.Kind = NotificationTransactions
		item.Text = outcome.digest
		out = append(out, item)
	}
	if s.cfg.Notifications.Scoreboard && len(outcome.records) > 0 {
		item := base
		item.Kind = NotificationScoreboard
		item.Records = scoreboardEntries(outcome.records, outcome.managers)
		item.Text = RenderScoreboard(week, item.Records)
		out = append(out, item)
	}
	return out
}
