package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/league-tracker/external/espn"
	"github.com/riskibarqy/league-tracker/external/notify"
	"github.com/riskibarqy/league-tracker/external/sleeper"
	"github.com/riskibarqy/league-tracker/internal/config"
	"github.com/riskibarqy/league-tracker/internal/domain/manager"
	"github.com/riskibarqy/league-tracker/internal/domain/player"
	"github.com/riskibarqy/league-tracker/internal/domain/roster"
	"github.com/riskibarqy/league-tracker/internal/domain/scoring"
	"github.com/riskibarqy/league-tracker/internal/domain/transaction"
	cacherepo "github.com/riskibarqy/league-tracker/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/league-tracker/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/league-tracker/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/league-tracker/internal/interfaces/httpapi"
	"github.com/riskibarqy/league-tracker/internal/interfaces/worker"
	"github.com/riskibarqy/league-tracker/internal/platform/cache"
	"github.com/riskibarqy/league-tracker/internal/platform/id"
	"github.com/riskibarqy/league-tracker/internal/platform/logging"
	"github.com/riskibarqy/league-tracker/internal/platform/resilience"
	"github.com/riskibarqy/league-tracker/internal/usecase"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"
)

// rosterQueryCacheTTL bounds how stale the roster API can be when a cycle
// commits but the invalidation hook is skipped, e.g. on a failed pass.
const rosterQueryCacheTTL = 30 * time.Second

type store interface {
	usecase.UnitOfWork
	Rosters() roster.Repository
	Managers() manager.Repository
	Players() player.Repository
	Scores() scoring.RecordRepository
	Transactions() transaction.Repository
}

// App owns every long-lived component of the tracker process.
type App struct {
	cfg       config.Config
	logger    *logging.Logger
	server    *http.Server
	scheduler *worker.Scheduler
	closers   []namedCloser
}

type namedCloser struct {
	name  string
	close func() error
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	a := &App{cfg: cfg, logger: logger}

	st, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}

	leagueClient, err := sleeper.NewClient(sleeper.ClientConfig{
		BaseURL:       cfg.SleeperBaseURL,
		StatsBaseURL:  cfg.SleeperStatsBaseURL,
		LeagueID:      cfg.SleeperLeagueID,
		Timeout:       cfg.SleeperTimeout,
		MaxRetries:    cfg.SleeperMaxRetries,
		RatePerSecond: cfg.SleeperRatePerSecond,
		Logger:        logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.SleeperCircuitEnabled,
			FailureThreshold: cfg.SleeperCircuitFailureCount,
			OpenTimeout:      cfg.SleeperCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.SleeperCircuitHalfOpenMaxReq,
		},
	})
	if err != nil {
		a.closeAll()
		return nil, fmt.Errorf("build sleeper client: %w", err)
	}

	scoreboard, err := espn.NewClient(espn.ClientConfig{
		ScoreboardURL:  cfg.ESPNScoreboardURL,
		Timeout:        cfg.ESPNTimeout,
		Logger:         logger,
		CircuitBreaker: resilience.DefaultCircuitBreakerConfig(),
	})
	if err != nil {
		a.closeAll()
		return nil, fmt.Errorf("build espn client: %w", err)
	}

	sinks, err := a.buildSinks(ctx)
	if err != nil {
		a.closeAll()
		return nil, err
	}
	dispatcher := usecase.NewDispatcher(logger.Named("notify"), cfg.NotifyWorkers, cfg.NotifyTimeout, sinks...)

	directory := cacherepo.NewPlayerRepository(st.Players(), cache.NewStore[[]player.Player](time.Hour))
	rosters := cacherepo.NewRosterRepository(st.Rosters(), cache.NewStore[[]roster.Snapshot](rosterQueryCacheTTL))

	cycles := usecase.NewSyncCycleService(usecase.SyncCycleDeps{
		League:    leagueClient,
		Stats:     leagueClient,
		Schedule:  scoreboard,
		Store:     st,
		Directory: directory,
		Rules:     cache.NewStore[scoring.Rules](cfg.ScoringRulesCacheTTL),
		Notifier:  dispatcher,
		IDs:       id.NewUUIDGenerator(),
		Logger:    logger,
	}, usecase.SyncCycleConfig{
		LeagueID:       cfg.SleeperLeagueID,
		FetchTimeout:   cfg.CycleTimeout,
		LateSwapWindow: cfg.LateSwapWindow,
		TeamAliases:    cfg.League.TeamAliases,
		Notifications: usecase.NotificationToggles{
			LateSwap:     cfg.League.Notifications.LateSwap,
			Transactions: cfg.League.Notifications.Transactions,
			Scoreboard:   cfg.League.Notifications.Scoreboard,
		},
	})
	runner := invalidatingCycleRunner{next: cycles, rosters: rosters}
	players := usecase.NewPlayerDirectoryService(leagueClient, directory, logger)

	handler := httpapi.NewHandler(
		usecase.NewRosterQueryService(rosters),
		usecase.NewScoreHistoryService(st.Scores()),
		runner,
		players,
		logger,
	)
	router := httpapi.NewRouter(handler, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	if cfg.HTTPAddr == "" {
		a.closeAll()
		return nil, fmt.Errorf("http server addr cannot be empty")
	}
	a.server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	a.scheduler = worker.NewScheduler(runner, players, worker.Config{
		CycleInterval: cfg.CycleInterval,
		// A pass must finish its writes and notifications before the next tick.
		RunTimeout:            cfg.CycleInterval,
		PlayerRefreshSchedule: cfg.PlayerRefreshSchedule,
		RunOnStart:            true,
	}, logger)

	logger.Info("app wired",
		"store_driver", cfg.StoreDriver,
		"league_id", cfg.SleeperLeagueID,
		"sinks", dispatcher.Sinks(),
	)
	return a, nil
}

// Start launches the scheduler and the HTTP listener. A listener failure is
// reported on the returned channel.
func (a *App) Start(ctx context.Context) (<-chan error, error) {
	if err := a.scheduler.Start(ctx); err != nil {
		return nil, fmt.Errorf("start scheduler: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server starting", "addr", a.cfg.HTTPAddr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	return errCh, nil
}

// Shutdown stops intake first, then waits for running jobs, then releases
// connections.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if err := a.server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
	}
	if err := a.scheduler.Stop(ctx); err != nil {
		errs = append(errs, fmt.Errorf("stop scheduler: %w", err))
	}
	if err := a.closeAll(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (a *App) openStore(ctx context.Context) (store, error) {
	if a.cfg.StoreDriver == config.StoreDriverMemory {
		a.logger.Warn("using in-memory store, state is lost on restart")
		return memory.NewStore(), nil
	}

	db, err := openDatabase(ctx, a.cfg)
	if err != nil {
		return nil, err
	}
	a.addCloser("postgres", db.Close)
	return postgres.NewStore(db), nil
}

func openDatabase(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

func (a *App) buildSinks(ctx context.Context) ([]usecase.NotificationSink, error) {
	var sinks []usecase.NotificationSink

	if a.cfg.TelegramEnabled {
		sink, err := notify.NewTelegramSink(notify.TelegramConfig{
			BotToken:     a.cfg.TelegramBotToken,
			ChatID:       a.cfg.TelegramChatID,
			SendInterval: a.cfg.TelegramSendInterval,
			Logger:       a.logger,
		})
		if err != nil {
			return nil, fmt.Errorf("build telegram sink: %w", err)
		}
		sinks = append(sinks, sink)
	}

	if a.cfg.RedisEnabled {
		sink, err := notify.NewRedisSink(ctx, notify.RedisConfig{
			Addr:     a.cfg.RedisAddr,
			Password: a.cfg.RedisPassword,
			DB:       a.cfg.RedisDB,
		})
		if err != nil {
			return nil, fmt.Errorf("build redis sink: %w", err)
		}
		a.addCloser("redis", sink.Close)
		sinks = append(sinks, sink)
	}

	if a.cfg.KafkaEnabled {
		sink, err := notify.NewKafkaSink(notify.KafkaConfig{
			Brokers:  a.cfg.KafkaBrokers,
			Topic:    a.cfg.KafkaTopic,
			ClientID: a.cfg.ServiceName,
		})
		if err != nil {
			return nil, fmt.Errorf("build kafka sink: %w", err)
		}
		a.addCloser("kafka", sink.Close)
		sinks = append(sinks, sink)
	}

	if len(sinks) == 0 {
		a.logger.Info("no notification sinks enabled")
	}
	return sinks, nil
}

func (a *App) addCloser(name string, fn func() error) {
	a.closers = append(a.closers, namedCloser{name: name, close: fn})
}

// closeAll releases resources in reverse order of acquisition.
func (a *App) closeAll() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		c := a.closers[i]
		if err := c.close(); err != nil {
			a.logger.Warn("close resource failed", "resource", c.name, "error", err)
			errs = append(errs, fmt.Errorf("close %s: %w", c.name, err))
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// invalidatingCycleRunner drops the cached roster view after each committed
// pass so the query API sees the reconciled rosters.
type invalidatingCycleRunner struct {
	next    *usecase.SyncCycleService
	rosters *cacherepo.RosterRepository
}

func (r invalidatingCycleRunner) RunCycle(ctx context.Context) (usecase.CycleReport, error) {
	report, err := r.next.RunCycle(ctx)
	if err == nil {
		r.rosters.Invalidate(ctx, report.LeagueID)
	}
	return report, err
}
