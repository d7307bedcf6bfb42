package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore[map[string]float64](time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (map[string]float64, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return map[string]float64{"pass_td": 4}, nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "league-1", loader)
			if err != nil {
				errCh <- err
				return
			}
			if v["pass_td"] != 4 {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_ExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 10, 12, 12, 0, 0, 0, time.UTC)
	store := NewStore[string](time.Minute)
	store.now = func() time.Time { return now }

	var calls atomic.Int32
	loader := func(context.Context) (string, error) {
		calls.Add(1)
		return "rules", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("first GetOrLoad error: %v", err)
	}
	if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("second GetOrLoad error: %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times before expiry, want 1", got)
	}

	now = now.Add(2 * time.Minute)
	if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("third GetOrLoad error: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("loader called %d times after expiry, want 2", got)
	}
}

func TestStore_GetOrLoad_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	store := NewStore[int](time.Minute)
	errBoom := errors.New("boom")
	failing := true
	loader := func(context.Context) (int, error) {
		if failing {
			return 0, errBoom
		}
		return 3, nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", loader); !errors.Is(err, errBoom) {
		t.Fatalf("expected loader error, got %v", err)
	}
	failing = false
	got, err := store.GetOrLoad(context.Background(), "k", loader)
	if err != nil || got != 3 {
		t.Fatalf("expected reload to succeed with 3, got %d, %v", got, err)
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()

	store := NewStore[int](0)
	ctx := context.Background()
	store.Set(ctx, "rules:1", 1)
	store.Set(ctx, "rules:2", 2)
	store.Set(ctx, "players", 3)

	store.DeletePrefix(ctx, "rules:")

	if _, ok := store.Get(ctx, "rules:1"); ok {
		t.Fatalf("expected rules:1 to be deleted")
	}
	if v, ok := store.Get(ctx, "players"); !ok || v != 3 {
		t.Fatalf("expected players to survive")
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
