package memory

import (
	"context"
	"slices"
	"sort"

	"github.com/riskibarqy/league-tracker/internal/domain/roster"
)

type RosterRepository struct {
	v view
}

func (r RosterRepository) ListByLeague(_ context.Context, leagueID string) ([]roster.Snapshot, error) {
	var out []roster.Snapshot
	r.v.read(func(data *state) {
		items := data.rosters[leagueID]
		out = make([]roster.Snapshot, 0, len(items))
		for _, item := range items {
			out = append(out, cloneSnapshot(item))
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].RosterID < out[j].RosterID })
	return out, nil
}

func (r RosterRepository) Upsert(_ context.Context, snapshots []roster.Snapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	owned := make([]roster.Snapshot, 0, len(snapshots))
	for _, item := range snapshots {
		owned = append(owned, cloneSnapshot(item))
	}
	r.v.write(func(data *state) {
		for _, item := range owned {
			league, ok := data.rosters[item.LeagueID]
			if !ok {
				league = make(map[int]roster.Snapshot)
				data.rosters[item.LeagueID] = league
			}
			league[item.RosterID] = item
		}
	})
	return nil
}

func cloneSnapshot(s roster.Snapshot) roster.Snapshot {
	s.Players = slices.Clone(s.Players)
	s.Starters = slices.Clone(s.Starters)
	s.Reserve = slices.Clone(s.Reserve)
	return s
}
