package transaction

import "context"

// Repository exposes league transaction persistence operations.
type Repository interface {
	ListIDsByWeek(ctx context.Context, leagueID string, week int) ([]string, error)
	Insert(ctx context.Context, items []Transaction) error
}
