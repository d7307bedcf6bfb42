package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/league-tracker/internal/domain/lateswap"
	"github.com/riskibarqy/league-tracker/internal/domain/manager"
	"github.com/riskibarqy/league-tracker/internal/domain/scoring"
	"github.com/riskibarqy/league-tracker/internal/platform/logging"
	"github.com/valyala/bytebufferpool"
)

type NotificationKind string

const (
	NotificationLateSwap     NotificationKind = "late_swap"
	NotificationTransactions NotificationKind = "transactions"
	NotificationScoreboard   NotificationKind = "scoreboard"
)

// Notification is one outbound message produced by a committed cycle.
type Notification struct {
	Kind      NotificationKind
	RunID     string
	LeagueID  string
	Week      int
	Text      string
	Alerts    []lateswap.Alert
	Records   []ScoreboardEntry
	CreatedAt time.Time
}

// ScoreboardEntry is a score record joined with the manager's display name.
type ScoreboardEntry struct {
	scoring.Record
	ManagerName string
}

// NotificationSink delivers notifications to one destination. A sink ignores
// kinds it has no use for by returning nil.
type NotificationSink interface {
	Name() string
	Deliver(ctx context.Context, item Notification) error
}

// Notifier accepts the notifications of a committed cycle.
type Notifier interface {
	Dispatch(ctx context.Context, items []Notification) DispatchResult
}

type DispatchResult struct {
	Delivered int
	Failed    int
}

// Dispatcher fans notifications out to every sink. Each sink receives the
// batch in order; sinks run concurrently on a bounded worker pool.
type Dispatcher struct {
	sinks   []NotificationSink
	workers int
	timeout time.Duration
	logger  *logging.Logger
}

func NewDispatcher(logger *logging.Logger, workers int, timeout time.Duration, sinks ...NotificationSink) *Dispatcher {
	if logger == nil {
		logger = logging.Default()
	}
	if workers <= 0 {
		workers = 1
	}
	filtered := make([]NotificationSink, 0, len(sinks))
	for _, sink := range sinks {
		if sink != nil {
			filtered = append(filtered, sink)
		}
	}
	return &Dispatcher{
		sinks:   filtered,
		workers: workers,
		timeout: timeout,
		logger:  logger,
	}
}

func (d *Dispatcher) Sinks() []string {
	out := make([]string, 0, len(d.sinks))
	for _, sink := range d.sinks {
		out = append(out, sink.Name())
	}
	return out
}

func (d *Dispatcher) Dispatch(ctx context.Context, items []Notification) DispatchResult {
	ctx, span := startUsecaseSpan(ctx, "usecase.Dispatcher.Dispatch")
	defer span.End()

	if len(items) == 0 || len(d.sinks) == 0 {
		return DispatchResult{}
	}

	workers := d.workers
	if workers > len(d.sinks) {
		workers = len(d.sinks)
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		d.logger.ErrorContext(ctx, "create notification pool failed", "error", err)
		return DispatchResult{Failed: len(items) * len(d.sinks)}
	}
	defer pool.Release()

	var delivered atomic.Int32
	var failed atomic.Int32
	var wg sync.WaitGroup
	for _, sink := range d.sinks {
		sink := sink
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			for _, item := range items {
				if err := d.deliver(ctx, sink, item); err != nil {
					failed.Add(1)
					d.logger.WarnContext(ctx, "notification delivery failed",
						"sink", sink.Name(),
						"kind", item.Kind,
						"league_id", item.LeagueID,
						"error", err,
					)
					continue
				}
				delivered.Add(1)
			}
		}); err != nil {
			wg.Done()
			failed.Add(int32(len(items)))
			d.logger.ErrorContext(ctx, "submit notification task failed", "sink", sink.Name(), "error", err)
		}
	}
	wg.Wait()

	return DispatchResult{Delivered: int(delivered.Load()), Failed: int(failed.Load())}
}

func (d *Dispatcher) deliver(ctx context.Context, sink NotificationSink, item Notification) (err error) {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("sink %s panicked: %v", sink.Name(), rec)
		}
	}()
	return sink.Deliver(ctx, item)
}

// RenderScoreboard lists managers by projected score, highest first.
func RenderScoreboard(week int, entries []ScoreboardEntry) string {
	sorted := make([]ScoreboardEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Projected != sorted[j].Projected {
			return sorted[i].Projected > sorted[j].Projected
		}
		return sorted[i].ManagerName < sorted[j].ManagerName
	})

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString("Week " + strconv.Itoa(week) + " projections:\n")
	for i, entry := range sorted {
		_, _ = buf.WriteString(fmt.Sprintf("  %d. %s %.2f (now %.2f)\n", i+1, entry.ManagerName, entry.Projected, entry.Current))
	}
	return buf.String()
}

func scoreboardEntries(records []scoring.Record, managers manager.Index) []ScoreboardEntry {
	out := make([]ScoreboardEntry, 0, len(records))
	for _, record := range records {
		out = append(out, ScoreboardEntry{Record: record, ManagerName: managers.NameOf(record.ManagerID)})
	}
	return out
}
