package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/league-tracker/internal/domain/player"
	"github.com/riskibarqy/league-tracker/internal/domain/roster"
	"github.com/riskibarqy/league-tracker/internal/domain/scoring"
	"github.com/riskibarqy/league-tracker/internal/usecase"
)

func TestStoreWithinCycle_CommitsOnSuccess(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore()

	err := store.WithinCycle(ctx, "league-1", func(ctx context.Context, repos usecase.CycleRepositories) error {
		if err := repos.Rosters().Upsert(ctx, []roster.Snapshot{{LeagueID: "league-1", RosterID: 1, OwnerID: "u1"}}); err != nil {
			return err
		}
		items, err := repos.Rosters().ListByLeague(ctx, "league-1")
		if err != nil {
			return err
		}
		if len(items) != 1 {
			t.Fatalf("staged write not visible inside cycle: got=%d", len(items))
		}
		committed, _ := store.Rosters().ListByLeague(ctx, "league-1")
		if len(committed) != 0 {
			t.Fatalf("staged write leaked before commit: got=%d", len(committed))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("within cycle: %v", err)
	}

	items, _ := store.Rosters().ListByLeague(ctx, "league-1")
	if len(items) != 1 || items[0].OwnerID != "u1" {
		t.Fatalf("unexpected committed rosters: %+v", items)
	}
}

func TestStoreWithinCycle_DiscardsOnError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore()
	boom := errors.New("boom")

	err := store.WithinCycle(ctx, "league-1", func(ctx context.Context, repos usecase.CycleRepositories) error {
		_ = repos.Rosters().Upsert(ctx, []roster.Snapshot{{LeagueID: "league-1", RosterID: 1}})
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error, got %v", err)
	}

	items, _ := store.Rosters().ListByLeague(ctx, "league-1")
	if len(items) != 0 {
		t.Fatalf("discarded write was committed: %+v", items)
	}
}

func TestStoreWithinCycle_KeepsWritesMadeOutsideCycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore()

	err := store.WithinCycle(ctx, "league-1", func(ctx context.Context, repos usecase.CycleRepositories) error {
		if err := store.Players().Upsert(ctx, []player.Player{{ID: "p1"}}); err != nil {
			return err
		}
		return repos.Rosters().Upsert(ctx, []roster.Snapshot{{LeagueID: "league-1", RosterID: 1}})
	})
	if err != nil {
		t.Fatalf("within cycle: %v", err)
	}

	count, _ := store.Players().Count(ctx)
	if count != 1 {
		t.Fatalf("player written outside the cycle was lost: count=%d", count)
	}
}

func TestScoreRepository_AppendOnlyAndOrdered(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewStore().Scores()
	base := time.Date(2025, 9, 14, 17, 0, 0, 0, time.UTC)

	err := repo.Append(ctx, []scoring.Record{
		{ManagerID: "u1", LeagueID: "l1", RecordedAt: base.Add(6 * time.Minute), Projected: 3},
		{ManagerID: "u1", LeagueID: "l1", RecordedAt: base, Projected: 1},
		{ManagerID: "u1", LeagueID: "l1", RecordedAt: base.Add(3 * time.Minute), Projected: 2},
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := repo.Append(ctx, []scoring.Record{{ManagerID: "u1", LeagueID: "l1", RecordedAt: base, Projected: 99}}); err != nil {
		t.Fatalf("append duplicate: %v", err)
	}

	items, _ := repo.ListByManager(ctx, "u1", time.Time{}, time.Time{})
	if len(items) != 3 {
		t.Fatalf("unexpected record count: %d", len(items))
	}
	for i, want := range []float64{1, 2, 3} {
		if items[i].Projected != want {
			t.Fatalf("record %d: got projected=%v want=%v", i, items[i].Projected, want)
		}
	}

	window, _ := repo.ListByManager(ctx, "u1", base.Add(time.Minute), base.Add(6*time.Minute))
	if len(window) != 1 || window[0].Projected != 2 {
		t.Fatalf("unexpected window: %+v", window)
	}

	latest, _ := repo.LatestByLeague(ctx, "l1")
	if len(latest) != 1 || latest[0].Projected != 3 {
		t.Fatalf("unexpected latest: %+v", latest)
	}
}
