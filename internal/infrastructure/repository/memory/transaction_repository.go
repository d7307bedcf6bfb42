package memory

import (
	"context"
	"maps"
	"slices"
	"sort"

	"github.com/riskibarqy/league-tracker/internal/domain/transaction"
)

type TransactionRepository struct {
	v view
}

func (r TransactionRepository) ListIDsByWeek(_ context.Context, leagueID string, week int) ([]string, error) {
	out := make([]string, 0)
	r.v.read(func(data *state) {
		for id, item := range data.transactions {
			if item.LeagueID == leagueID && item.Week == week {
				out = append(out, id)
			}
		}
	})
	sort.Strings(out)
	return out, nil
}

// Insert skips transactions that are already stored.
func (r TransactionRepository) Insert(_ context.Context, items []transaction.Transaction) error {
	if len(items) == 0 {
		return nil
	}
	owned := make([]transaction.Transaction, 0, len(items))
	for _, item := range items {
		item.RosterIDs = slices.Clone(item.RosterIDs)
		item.Adds = maps.Clone(item.Adds)
		item.Drops = maps.Clone(item.Drops)
		owned = append(owned, item)
	}
	r.v.write(func(data *state) {
		for _, item := range owned {
			if _, exists := data.transactions[item.ID]; exists {
				continue
			}
			data.transactions[item.ID] = item
		}
	})
	return nil
}
