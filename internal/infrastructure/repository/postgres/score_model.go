package postgres

import (
	"time"

	"github.com/riskibarqy/league-tracker/internal/domain/scoring"
)

type scoreRecordTableModel struct {
	ManagerID      string    `db:"manager_id"`
	RecordedAt     time.Time `db:"recorded_at"`
	LeagueID       string    `db:"league_id"`
	RosterID       int       `db:"roster_id"`
	Week           int       `db:"week"`
	ProjectedScore float64   `db:"projected_score"`
	CurrentScore   float64   `db:"current_score"`
}

var scoreRecordSelectColumns = []string{
	"manager_id",
	"recorded_at",
	"league_id",
	"roster_id",
	"week",
	"projected_score",
	"current_score",
}

func (m scoreRecordTableModel) toDomain() scoring.Record {
	return scoring.Record{
		ManagerID:  m.ManagerID,
		LeagueID:   m.LeagueID,
		RosterID:   m.RosterID,
		Week:       m.Week,
		RecordedAt: m.RecordedAt.UTC(),
		Projected:  m.ProjectedScore,
		Current:    m.CurrentScore,
	}
}
