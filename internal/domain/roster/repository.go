package roster

import "context"

// Repository exposes roster snapshot persistence operations.
type Repository interface {
	ListByLeague(ctx context.Context, leagueID string) ([]Snapshot, error)
	Upsert(ctx context.Context, snapshots []Snapshot) error
}
