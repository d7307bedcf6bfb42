package cache

import (
	"context"
	"slices"
	"sort"
	"strings"

	"github.com/riskibarqy/league-tracker/internal/domain/player"
	"github.com/riskibarqy/league-tracker/internal/domain/roster"
	basecache "github.com/riskibarqy/league-tracker/internal/platform/cache"
)

// PlayerRepository serves directory lookups from memory. Entries are keyed
// by the sorted id set of each lookup and dropped on every Upsert.
type PlayerRepository struct {
	next  player.Repository
	cache *basecache.Store[[]player.Player]
}

func NewPlayerRepository(next player.Repository, cache *basecache.Store[[]player.Player]) *PlayerRepository {
	return &PlayerRepository{next: next, cache: cache}
}

func (r *PlayerRepository) GetByIDs(ctx context.Context, playerIDs []string) ([]player.Player, error) {
	if len(playerIDs) == 0 {
		return nil, nil
	}
	ids := slices.Clone(playerIDs)
	sort.Strings(ids)
	ids = slices.Compact(ids)

	key := "player:ids:" + strings.Join(ids, ",")
	items, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) ([]player.Player, error) {
		items, err := r.next.GetByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		return slices.Clone(items), nil
	})
	if err != nil {
		return nil, err
	}

	return slices.Clone(items), nil
}

func (r *PlayerRepository) Upsert(ctx context.Context, items []player.Player) error {
	if err := r.next.Upsert(ctx, items); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "player:")
	return nil
}

func (r *PlayerRepository) Count(ctx context.Context) (int, error) {
	return r.next.Count(ctx)
}

// RosterRepository caches league roster reads for the query API. The sync
// cycle writes rosters inside its own persistence context and calls
// Invalidate once the pass commits.
type RosterRepository struct {
	next  roster.Repository
	cache *basecache.Store[[]roster.Snapshot]
}

func NewRosterRepository(next roster.Repository, cache *basecache.Store[[]roster.Snapshot]) *RosterRepository {
	return &RosterRepository{next: next, cache: cache}
}

func (r *RosterRepository) ListByLeague(ctx context.Context, leagueID string) ([]roster.Snapshot, error) {
	items, err := r.cache.GetOrLoad(ctx, rosterListKey(leagueID), func(ctx context.Context) ([]roster.Snapshot, error) {
		items, err := r.next.ListByLeague(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		return cloneSnapshots(items), nil
	})
	if err != nil {
		return nil, err
	}

	return cloneSnapshots(items), nil
}

func (r *RosterRepository) Upsert(ctx context.Context, snapshots []roster.Snapshot) error {
	if err := r.next.Upsert(ctx, snapshots); err != nil {
		return err
	}
	leagues := make(map[string]struct{}, 1)
	for _, item := range snapshots {
		leagues[item.LeagueID] = struct{}{}
	}
	for leagueID := range leagues {
		r.Invalidate(ctx, leagueID)
	}
	return nil
}

func (r *RosterRepository) Invalidate(ctx context.Context, leagueID string) {
	r.cache.Delete(ctx, rosterListKey(leagueID))
}

func rosterListKey(leagueID string) string {
	return "roster:list:league:" + leagueID
}

func cloneSnapshots(items []roster.Snapshot) []roster.Snapshot {
	out := make([]roster.Snapshot, 0, len(items))
	for _, item := range items {
		item.Players = slices.Clone(item.Players)
		item.Starters = slices.Clone(item.Starters)
		item.Reserve = slices.Clone(item.Reserve)
		out = append(out, item)
	}
	return out
}
