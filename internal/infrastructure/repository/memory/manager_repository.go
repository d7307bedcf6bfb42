package memory

import (
	"context"
	"sort"

	"github.com/riskibarqy/league-tracker/internal/domain/manager"
)

type ManagerRepository struct {
	v view
}

func (r ManagerRepository) ListByLeague(_ context.Context, leagueID string) ([]manager.Manager, error) {
	out := make([]manager.Manager, 0)
	r.v.read(func(data *state) {
		for _, item := range data.managers {
			if item.LeagueID == leagueID {
				out = append(out, item)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r ManagerRepository) GetByID(_ context.Context, managerID string) (manager.Manager, bool, error) {
	var (
		item manager.Manager
		ok   bool
	)
	r.v.read(func(data *state) {
		item, ok = data.managers[managerID]
	})
	return item, ok, nil
}

func (r ManagerRepository) Upsert(_ context.Context, items []manager.Manager) error {
	if len(items) == 0 {
		return nil
	}
	owned := append([]manager.Manager(nil), items...)
	r.v.write(func(data *state) {
		for _, item := range owned {
			data.managers[item.ID] = item
		}
	})
	return nil
}
