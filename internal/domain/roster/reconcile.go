package roster

import (
	"fmt"
	"slices"
	"time"
)

type comparison struct {
	field Field
	equal func(a, b Snapshot) bool
	apply func(dst *Snapshot, src Snapshot)
}

// comparisons is evaluated in order; Delta.Fields follows it.
var comparisons = []comparison{
	{
		field: FieldPlayers,
		equal: func(a, b Snapshot) bool { return slices.Equal(a.Players, b.Players) },
		apply: func(dst *Snapshot, src Snapshot) { dst.Players = slices.Clone(src.Players) },
	},
	{
		field: FieldStarters,
		equal: func(a, b Snapshot) bool { return slices.Equal(a.Starters, b.Starters) },
		apply: func(dst *Snapshot, src Snapshot) { dst.Starters = slices.Clone(src.Starters) },
	},
	{
		field: FieldReserve,
		equal: func(a, b Snapshot) bool { return slices.Equal(a.Reserve, b.Reserve) },
		apply: func(dst *Snapshot, src Snapshot) { dst.Reserve = slices.Clone(src.Reserve) },
	},
	{
		field: FieldStreak,
		equal: func(a, b Snapshot) bool { return a.Streak == b.Streak },
		apply: func(dst *Snapshot, src Snapshot) { dst.Streak = src.Streak },
	},
	{
		field: FieldWins,
		equal: func(a, b Snapshot) bool { return a.Wins == b.Wins },
		apply: func(dst *Snapshot, src Snapshot) { dst.Wins = src.Wins },
	},
	{
		field: FieldLosses,
		equal: func(a, b Snapshot) bool { return a.Losses == b.Losses },
		apply: func(dst *Snapshot, src Snapshot) { dst.Losses = src.Losses },
	},
	{
		field: FieldTies,
		equal: func(a, b Snapshot) bool { return a.Ties == b.Ties },
		apply: func(dst *Snapshot, src Snapshot) { dst.Ties = src.Ties },
	},
	{
		field: FieldPointsFor,
		equal: func(a, b Snapshot) bool { return a.PointsFor == b.PointsFor },
		apply: func(dst *Snapshot, src Snapshot) { dst.PointsFor = src.PointsFor },
	},
	{
		field: FieldPointsAgainst,
		equal: func(a, b Snapshot) bool { return a.PointsAgainst == b.PointsAgainst },
		apply: func(dst *Snapshot, src Snapshot) { dst.PointsAgainst = src.PointsAgainst },
	},
	{
		field: FieldPotentialPoints,
		equal: func(a, b Snapshot) bool { return a.PotentialPoints == b.PotentialPoints },
		apply: func(dst *Snapshot, src Snapshot) { dst.PotentialPoints = src.PotentialPoints },
	},
	{
		field: FieldTotalMoves,
		equal: func(a, b Snapshot) bool { return a.TotalMoves == b.TotalMoves },
		apply: func(dst *Snapshot, src Snapshot) { dst.TotalMoves = src.TotalMoves },
	},
	{
		field: FieldWaiverBudgetUsed,
		equal: func(a, b Snapshot) bool { return a.WaiverBudgetUsed == b.WaiverBudgetUsed },
		apply: func(dst *Snapshot, src Snapshot) { dst.WaiverBudgetUsed = src.WaiverBudgetUsed },
	},
}

// ComparedFields returns the compared fields in evaluation order.
func ComparedFields() []Field {
	out := make([]Field, 0, len(comparisons))
	for _, c := range comparisons {
		out = append(out, c.field)
	}
	return out
}

// Reconcile matches remote snapshots to persisted ones by roster id and
// computes the field level changes. Persisted snapshots without a remote
// counterpart are left alone. Inputs are not modified.
func Reconcile(remote, persisted []Snapshot, now time.Time) Result {
	byID := make(map[int]Snapshot, len(persisted))
	for _, item := range persisted {
		byID[item.RosterID] = item
	}

	var out Result
	seen := make(map[int]struct{}, len(remote))
	for _, incoming := range remote {
		if _, dup := seen[incoming.RosterID]; dup {
			out.Rejected = append(out.Rejected, Rejection{
				RosterID: incoming.RosterID,
				Err:      fmt.Errorf("%w: duplicate roster id %d in fetch", ErrInvariantViolation, incoming.RosterID),
			})
			continue
		}
		seen[incoming.RosterID] = struct{}{}

		if err := Validate(incoming); err != nil {
			out.Rejected = append(out.Rejected, Rejection{RosterID: incoming.RosterID, Err: err})
			continue
		}

		current, ok := byID[incoming.RosterID]
		if !ok {
			inserted := clone(incoming)
			if inserted.RefreshedAt.IsZero() {
				inserted.RefreshedAt = now
			}
			out.Inserted = append(out.Inserted, inserted)
			continue
		}

		updated, delta, changed := diff(current, incoming)
		if !changed {
			continue
		}
		updated.RefreshedAt = now
		out.Updated = append(out.Updated, updated)
		out.Deltas = append(out.Deltas, delta)
	}

	return out
}

func diff(current, incoming Snapshot) (Snapshot, Delta, bool) {
	updated := clone(current)
	delta := Delta{
		LeagueID: current.LeagueID,
		RosterID: current.RosterID,
		OwnerID:  current.OwnerID,
	}

	for _, c := range comparisons {
		if c.equal(current, incoming) {
			continue
		}
		delta.Fields = append(delta.Fields, c.field)
		c.apply(&updated, incoming)
	}
	if len(delta.Fields) == 0 {
		return current, Delta{}, false
	}

	if delta.Has(FieldStarters) {
		delta.Started = difference(incoming.Starters, current.Starters)
		delta.Benched = difference(current.Starters, incoming.Starters)
	}

	return updated, delta, true
}

// difference returns the ids of a missing from b, in a's order.
func difference(a, b []string) []string {
	exclude := make(map[string]struct{}, len(b))
	for _, id := range b {
		exclude[id] = struct{}{}
	}

	var out []string
	for _, id := range a {
		if isEmptySlot(id) {
			continue
		}
		if _, ok := exclude[id]; ok {
			continue
		}
		out = append(out, id)
	}
	return out
}

func clone(s Snapshot) Snapshot {
	s.Players = slices.Clone(s.Players)
	s.Starters = slices.Clone(s.Starters)
	s.Reserve = slices.Clone(s.Reserve)
	return s
}
