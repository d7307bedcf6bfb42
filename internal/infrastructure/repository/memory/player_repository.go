package memory

import (
	"context"

	"github.com/riskibarqy/league-tracker/internal/domain/player"
)

type PlayerRepository struct {
	v view
}

// GetByIDs returns the known players in the order requested, once each.
func (r PlayerRepository) GetByIDs(_ context.Context, playerIDs []string) ([]player.Player, error) {
	out := make([]player.Player, 0, len(playerIDs))
	r.v.read(func(data *state) {
		seen := make(map[string]struct{}, len(playerIDs))
		for _, id := range playerIDs {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			if item, ok := data.players[id]; ok {
				out = append(out, item)
			}
		}
	})
	return out, nil
}

func (r PlayerRepository) Upsert(_ context.Context, items []player.Player) error {
	if len(items) == 0 {
		return nil
	}
	owned := append([]player.Player(nil), items...)
	r.v.write(func(data *state) {
		for _, item := range owned {
			data.players[item.ID] = item
		}
	})
	return nil
}

func (r PlayerRepository) Count(_ context.Context) (int, error) {
	var count int
	r.v.read(func(data *state) { count = len(data.players) })
	return count, nil
}
