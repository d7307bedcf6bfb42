package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/league-tracker/internal/domain/scoring"
	"github.com/riskibarqy/league-tracker/internal/platform/logging"
	"github.com/riskibarqy/league-tracker/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	name  string
	err   error
	delay time.Duration

	mu    sync.Mutex
	kinds []usecase.NotificationKind
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Deliver(ctx context.Context, item usecase.Notification) error {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	s.kinds = append(s.kinds, item.Kind)
	s.mu.Unlock()
	return nil
}

type panicSink struct{}

func (panicSink) Name() string { return "panic" }

func (panicSink) Deliver(context.Context, usecase.Notification) error {
	panic("sink exploded")
}

func TestDispatcher_DeliversInOrderPerSink(t *testing.T) {
	t.Parallel()

	first := &recordingSink{name: "first"}
	second := &recordingSink{name: "second"}
	dispatcher := usecase.NewDispatcher(logging.NewNop(), 4, time.Second, first, second, nil)

	result := dispatcher.Dispatch(context.Background(), []usecase.Notification{
		{Kind: usecase.NotificationLateSwap},
		{Kind: usecase.NotificationTransactions},
		{Kind: usecase.NotificationScoreboard},
	})

	assert.Equal(t, usecase.DispatchResult{Delivered: 6}, result)
	want := []usecase.NotificationKind{usecase.NotificationLateSwap, usecase.NotificationTransactions, usecase.NotificationScoreboard}
	assert.Equal(t, want, first.kinds)
	assert.Equal(t, want, second.kinds)
	assert.Equal(t, []string{"first", "second"}, dispatcher.Sinks())
}

func TestDispatcher_FailuresAreCountedNotFatal(t *testing.T) {
	t.Parallel()

	healthy := &recordingSink{name: "healthy"}
	broken := &recordingSink{name: "broken", err: errors.New("chat unavailable")}
	slow := &recordingSink{name: "slow", delay: time.Second}
	dispatcher := usecase.NewDispatcher(logging.NewNop(), 2, 20*time.Millisecond, healthy, broken, slow, panicSink{})

	result := dispatcher.Dispatch(context.Background(), []usecase.Notification{{Kind: usecase.NotificationScoreboard}})

	assert.Equal(t, 1, result.Delivered)
	assert.Equal(t, 3, result.Failed)
	assert.Equal(t, []usecase.NotificationKind{usecase.NotificationScoreboard}, healthy.kinds)
}

func TestDispatcher_NoSinks(t *testing.T) {
	t.Parallel()

	dispatcher := usecase.NewDispatcher(nil, 0, 0)
	result := dispatcher.Dispatch(context.Background(), []usecase.Notification{{Kind: usecase.NotificationScoreboard}})
	assert.Zero(t, result.Delivered)
	assert.Zero(t, result.Failed)
}

func TestRenderScoreboard_SortsByProjection(t *testing.T) {
	t.Parallel()

	text := usecase.RenderScoreboard(3, []usecase.ScoreboardEntry{
		{Record: scoring.Record{ManagerID: "u1", Projected: 88.5, Current: 20}, ManagerName: "alice"},
		{Record: scoring.Record{ManagerID: "u2", Projected: 101.25, Current: 31.5}, ManagerName: "bob"},
	})

	require.Equal(t, "Week 3 projections:\n  1. bob 101.25 (now 31.50)\n  2. alice 88.50 (now 20.00)\n", text)
}
