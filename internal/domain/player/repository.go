package player

import "context"

// Repository describes player directory persistence needs from use cases.
type Repository interface {
	GetByIDs(ctx context.Context, playerIDs []string) ([]Player, error)
	Upsert(ctx context.Context, items []Player) error
	Count(ctx context.Context) (int, error)
}
