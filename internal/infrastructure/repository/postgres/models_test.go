package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/league-tracker/internal/domain/roster"
	"github.com/riskibarqy/league-tracker/internal/domain/transaction"
)

func TestRosterTableModel_RoundTripKeepsEmptyArrays(t *testing.T) {
	refreshed := time.Date(2025, 9, 14, 17, 0, 0, 0, time.UTC)
	model := newRosterTableModel(roster.Snapshot{
		LeagueID:    "l1",
		RosterID:    3,
		OwnerID:     "u3",
		Players:     []string{"p1", "p2"},
		Starters:    []string{"p1"},
		RefreshedAt: refreshed,
	})

	if model.Reserve == nil {
		t.Fatalf("expected empty reserve array, got nil")
	}

	got := model.toDomain()
	if got.RosterID != 3 || got.OwnerID != "u3" || len(got.Players) != 2 || got.Starters[0] != "p1" {
		t.Fatalf("unexpected snapshot: %+v", got)
	}
	if !got.RefreshedAt.Equal(refreshed) {
		t.Fatalf("unexpected refreshed_at: %v", got.RefreshedAt)
	}
}

func TestTransactionTableModel_EncodesMoves(t *testing.T) {
	model, err := newTransactionTableModel(transaction.Transaction{
		ID:        "t1",
		Type:      transaction.TypeWaiver,
		RosterIDs: []int{4, 7},
		Adds:      map[string]int{"4046": 4},
	})
	if err != nil {
		t.Fatalf("new transaction model: %v", err)
	}

	var adds map[string]int
	if err := sonic.UnmarshalString(model.Adds, &adds); err != nil {
		t.Fatalf("decode adds: %v", err)
	}
	if adds["4046"] != 4 {
		t.Fatalf("unexpected adds: %+v", adds)
	}
	if model.Drops != "{}" {
		t.Fatalf("expected empty drops object, got %q", model.Drops)
	}
	if len(model.RosterIDs) != 2 || model.RosterIDs[1] != 7 {
		t.Fatalf("unexpected roster ids: %+v", model.RosterIDs)
	}
}

func TestIsNotFound(t *testing.T) {
	if !isNotFound(fmt.Errorf("select manager: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped ErrNoRows to be not found")
	}
	if isNotFound(errors.New("pq: relation managers does not exist")) {
		t.Fatalf("expected unrelated error to be found")
	}
}
