package scoring

import (
	"context"
	"time"
)

// RecordRepository persists the append-only score history.
type RecordRepository interface {
	// Append inserts records; a record whose key already exists is left as is.
	Append(ctx context.Context, records []Record) error
	ListByManager(ctx context.Context, managerID string, from, to time.Time) ([]Record, error)
	LatestByLeague(ctx context.Context, leagueID string) ([]Record, error)
}
