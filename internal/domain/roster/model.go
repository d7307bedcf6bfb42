package roster

import (
	"errors"
	"time"
)

// ErrInvariantViolation marks a remote snapshot that cannot be committed.
var ErrInvariantViolation = errors.New("roster invariant violation")

// EmptySlot is the id the league provider uses for an unfilled lineup slot.
const EmptySlot = "0"

// Snapshot is one franchise's roster state. The persisted copy is the system
// of record; fetched copies are compared against it every cycle.
type Snapshot struct {
	LeagueID         string
	RosterID         int
	OwnerID          string
	Players          []string
	Starters         []string
	Reserve          []string
	Streak           string
	Wins             int
	Losses           int
	Ties             int
	PointsFor        float64
	PointsAgainst    float64
	PotentialPoints  float64
	TotalMoves       int
	WaiverBudgetUsed int
	WaiverPosition   int
	RefreshedAt      time.Time
}

// Field names a compared snapshot attribute.
type Field string

const (
	FieldPlayers          Field = "players"
	FieldStarters         Field = "starters"
	FieldReserve          Field = "reserve"
	FieldStreak           Field = "streak"
	FieldWins             Field = "wins"
	FieldLosses           Field = "losses"
	FieldTies             Field = "ties"
	FieldPointsFor        Field = "points_for"
	FieldPointsAgainst    Field = "points_against"
	FieldPotentialPoints  Field = "potential_points"
	FieldTotalMoves       Field = "total_moves"
	FieldWaiverBudgetUsed Field = "waiver_budget_used"
)

// Delta describes how one persisted snapshot changed. Started and Benched are
// only set when the starters field changed.
type Delta struct {
	LeagueID string
	RosterID int
	OwnerID  string
	Fields   []Field
	Started  []string
	Benched  []string
}

func (d Delta) Has(field Field) bool {
	for _, f := range d.Fields {
		if f == field {
			return true
		}
	}
	return false
}

// Rejection is a remote snapshot skipped for this cycle.
type Rejection struct {
	RosterID int
	Err      error
}

// Result is the outcome of one reconciliation pass.
type Result struct {
	// Updated holds persisted snapshots that changed, with remote values applied.
	Updated []Snapshot
	Deltas  []Delta
	// Inserted holds first-seen remote snapshots.
	Inserted []Snapshot
	Rejected []Rejection
}

// Writes returns every snapshot the pass needs persisted.
func (r Result) Writes() []Snapshot {
	out := make([]Snapshot, 0, len(r.Updated)+len(r.Inserted))
	out = append(out, r.Updated...)
	out = append(out, r.Inserted...)
	return out
}
