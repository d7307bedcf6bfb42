package scoring

import "time"

// StatLine is one player's raw per-category values for a week, either actual
// or projected.
type StatLine map[Category]float64

// Rules holds a league's per-unit point weights.
type Rules map[Category]float64

// PlayerLine is one record of the weekly stat or projection feed.
type PlayerLine struct {
	PlayerID string
	Team     string
	Line     StatLine
}

// Feed indexes a weekly feed by player id.
type Feed map[string]PlayerLine

func NewFeed(lines []PlayerLine) Feed {
	out := make(Feed, len(lines))
	for _, line := range lines {
		if line.PlayerID == "" {
			continue
		}
		out[line.PlayerID] = line
	}
	return out
}

// Contribution is one starter's share of a manager's totals.
type Contribution struct {
	PlayerID   string
	Team       string
	Actual     float64
	Projection float64
	Projected  float64
	InProgress bool
}

// Projection is a manager's current and projected totals for one pass.
type Projection struct {
	Projected float64
	Current   float64
	Players   []Contribution
}

// Record is one append-only point of a manager's score history, keyed by
// manager id and RecordedAt.
type Record struct {
	ManagerID  string
	LeagueID   string
	RosterID   int
	Week       int
	RecordedAt time.Time
	Projected  float64
	Current    float64
}
