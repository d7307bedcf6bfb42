package postgres

import (
	"time"

	"github.com/lib/pq"
	"github.com/riskibarqy/league-tracker/internal/domain/roster"
)

type rosterTableModel struct {
	LeagueID         string         `db:"league_id"`
	RosterID         int            `db:"roster_id"`
	OwnerID          string         `db:"owner_id"`
	Players          pq.StringArray `db:"players"`
	Starters         pq.StringArray `db:"starters"`
	Reserve          pq.StringArray `db:"reserve"`
	Streak           string         `db:"streak"`
	Wins             int            `db:"wins"`
	Losses           int            `db:"losses"`
	Ties             int            `db:"ties"`
	PointsFor        float64        `db:"points_for"`
	PointsAgainst    float64        `db:"points_against"`
	PotentialPoints  float64        `db:"potential_points"`
	TotalMoves       int            `db:"total_moves"`
	WaiverBudgetUsed int            `db:"waiver_budget_used"`
	WaiverPosition   int            `db:"waiver_position"`
	RefreshedAt      time.Time      `db:"refreshed_at"`
}

var rosterSelectColumns = []string{
	"league_id",
	"roster_id",
	"owner_id",
	"players",
	"starters",
	"reserve",
	"streak",
	"wins",
	"losses",
	"ties",
	"points_for",
	"points_against",
	"potential_points",
	"total_moves",
	"waiver_budget_used",
	"waiver_position",
	"refreshed_at",
}

// Empty arrays are stored as '{}' rather than NULL.
func newRosterTableModel(s roster.Snapshot) rosterTableModel {
	return rosterTableModel{
		LeagueID:         s.LeagueID,
		RosterID:         s.RosterID,
		OwnerID:          s.OwnerID,
		Players:          nonNilStrings(s.Players),
		Starters:         nonNilStrings(s.Starters),
		Reserve:          nonNilStrings(s.Reserve),
		Streak:           s.Streak,
		Wins:             s.Wins,
		Losses:           s.Losses,
		Ties:             s.Ties,
		PointsFor:        s.PointsFor,
		PointsAgainst:    s.PointsAgainst,
		PotentialPoints:  s.PotentialPoints,
		TotalMoves:       s.TotalMoves,
		WaiverBudgetUsed: s.WaiverBudgetUsed,
		WaiverPosition:   s.WaiverPosition,
		RefreshedAt:      s.RefreshedAt,
	}
}

func (m rosterTableModel) toDomain() roster.Snapshot {
	return roster.Snapshot{
		LeagueID:         m.LeagueID,
		RosterID:         m.RosterID,
		OwnerID:          m.OwnerID,
		Players:          []string(m.Players),
		Starters:         []string(m.Starters),
		Reserve:          []string(m.Reserve),
		Streak:           m.Streak,
		Wins:             m.Wins,
		Losses:           m.Losses,
		Ties:             m.Ties,
		PointsFor:        m.PointsFor,
		PointsAgainst:    m.PointsAgainst,
		PotentialPoints:  m.PotentialPoints,
		TotalMoves:       m.TotalMoves,
		WaiverBudgetUsed: m.WaiverBudgetUsed,
		WaiverPosition:   m.WaiverPosition,
		RefreshedAt:      m.RefreshedAt.UTC(),
	}
}

func nonNilStrings(items []string) pq.StringArray {
	if items == nil {
		return pq.StringArray{}
	}
	return pq.StringArray(items)
}
