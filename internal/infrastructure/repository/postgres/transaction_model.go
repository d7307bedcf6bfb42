package postgres

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/lib/pq"
	"github.com/riskibarqy/league-tracker/internal/domain/transaction"
)

type transactionTableModel struct {
	TransactionID   string        `db:"transaction_id"`
	LeagueID        string        `db:"league_id"`
	Type            string        `db:"type"`
	Status          string        `db:"status"`
	Week            int           `db:"week"`
	CreatorID       string        `db:"creator_id"`
	RosterIDs       pq.Int64Array `db:"roster_ids"`
	Adds            string        `db:"adds"`
	Drops           string        `db:"drops"`
	WaiverBid       int           `db:"waiver_bid"`
	Sequence        int           `db:"sequence"`
	CreatedAt       time.Time     `db:"created_at"`
	StatusUpdatedAt time.Time     `db:"status_updated_at"`
}

func newTransactionTableModel(t transaction.Transaction) (transactionTableModel, error) {
	adds, err := marshalPlayerMoves(t.Adds)
	if err != nil {
		return transactionTableModel{}, fmt.Errorf("encode adds: %w", err)
	}
	drops, err := marshalPlayerMoves(t.Drops)
	if err != nil {
		return transactionTableModel{}, fmt.Errorf("encode drops: %w", err)
	}

	rosterIDs := make(pq.Int64Array, 0, len(t.RosterIDs))
	for _, id := range t.RosterIDs {
		rosterIDs = append(rosterIDs, int64(id))
	}

	return transactionTableModel{
		TransactionID:   t.ID,
		LeagueID:        t.LeagueID,
		Type:            string(t.Type),
		Status:          string(t.Status),
		Week:            t.Week,
		CreatorID:       t.CreatorID,
		RosterIDs:       rosterIDs,
		Adds:            adds,
		Drops:           drops,
		WaiverBid:       t.WaiverBid,
		Sequence:        t.Sequence,
		CreatedAt:       t.CreatedAt.UTC(),
		StatusUpdatedAt: t.StatusUpdatedAt.UTC(),
	}, nil
}

// Moves are sent as text so Postgres casts them to jsonb; lib/pq would send
// []byte as bytea.
func marshalPlayerMoves(moves map[string]int) (string, error) {
	if moves == nil {
		moves = map[string]int{}
	}
	return sonic.MarshalString(moves)
}
