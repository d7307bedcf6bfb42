package manager

import "context"

// Repository exposes manager persistence operations.
type Repository interface {
	ListByLeague(ctx context.Context, leagueID string) ([]Manager, error)
	GetByID(ctx context.Context, managerID string) (Manager, bool, error)
	Upsert(ctx context.Context, items []Manager) error
}
