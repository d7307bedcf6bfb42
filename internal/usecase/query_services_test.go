package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/league-tracker/internal/domain/player"
	"github.com/riskibarqy/league-tracker/internal/domain/scoring"
	"github.com/riskibarqy/league-tracker/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/league-tracker/internal/platform/logging"
	"github.com/riskibarqy/league-tracker/internal/usecase"
)

func TestScoreHistoryService_ListByManager(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.NewStore()
	base := time.Date(2025, 9, 14, 17, 0, 0, 0, time.UTC)
	if err := store.Scores().Append(ctx, []scoring.Record{
		{ManagerID: "u1", LeagueID: testLeagueID, RecordedAt: base},
		{ManagerID: "u1", LeagueID: testLeagueID, RecordedAt: base.Add(3 * time.Minute)},
	}); err != nil {
		t.Fatalf("seed records: %v", err)
	}

	svc := usecase.NewScoreHistoryService(store.Scores())

	items, err := svc.ListByManager(ctx, "u1", base, base.Add(time.Minute))
	if err != nil {
		t.Fatalf("list by manager: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("unexpected record count: got=%d want=1", len(items))
	}

	if _, err := svc.ListByManager(ctx, " ", time.Time{}, time.Time{}); !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty manager id, got %v", err)
	}
	if _, err := svc.ListByManager(ctx, "u1", base, base); !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty range, got %v", err)
	}
}

func TestScoreHistoryService_LatestByLeague(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := usecase.NewScoreHistoryService(memory.NewStore().Scores())

	if _, err := svc.LatestByLeague(ctx, testLeagueID); !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRosterQueryService_ListByLeague(t *testing.T) {
	t.Parallel()

	svc := usecase.NewRosterQueryService(memory.NewStore().Rosters())

	if _, err := svc.ListByLeague(context.Background(), ""); !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.ListByLeague(context.Background(), testLeagueID); !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPlayerDirectoryService_Refresh(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.NewStore()
	provider := &stubLeague{players: []player.Player{
		{ID: "4046", FirstName: "Patrick", LastName: "Mahomes", Team: "KC"},
		{ID: ""},
	}}
	svc := usecase.NewPlayerDirectoryService(provider, store.Players(), logging.NewNop())

	if err := svc.EnsureLoaded(ctx); err != nil {
		t.Fatalf("ensure loaded: %v", err)
	}
	count, _ := store.Players().Count(ctx)
	if count != 1 {
		t.Fatalf("unexpected player count: got=%d want=1", count)
	}

	result, err := svc.Refresh(ctx)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if result.Fetched != 2 || result.Upserted != 1 || result.Skipped != 1 {
		t.Fatalf("unexpected refresh result: %+v", result)
	}
}
