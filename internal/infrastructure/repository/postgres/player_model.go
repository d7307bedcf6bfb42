package postgres

import (
	"time"

	"github.com/riskibarqy/league-tracker/internal/domain/player"
)

type playerTableModel struct {
	PlayerID     string    `db:"player_id"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	Position     string    `db:"position"`
	Team         string    `db:"team"`
	Status       string    `db:"status"`
	InjuryStatus string    `db:"injury_status"`
	YearsExp     int       `db:"years_exp"`
	RefreshedAt  time.Time `db:"refreshed_at"`
}

var playerSelectColumns = []string{
	"player_id",
	"first_name",
	"last_name",
	"position",
	"team",
	"status",
	"injury_status",
	"years_exp",
	"refreshed_at",
}

func newPlayerTableModel(p player.Player) playerTableModel {
	return playerTableModel{
		PlayerID:     p.ID,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		Position:     string(p.Position),
		Team:         p.Team,
		Status:       p.Status,
		InjuryStatus: p.InjuryStatus,
		YearsExp:     p.YearsExp,
		RefreshedAt:  p.RefreshedAt,
	}
}

func (m playerTableModel) toDomain() player.Player {
	return player.Player{
		ID:           m.PlayerID,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Position:     player.Position(m.Position),
		Team:         m.Team,
		Status:       m.Status,
		InjuryStatus: m.InjuryStatus,
		YearsExp:     m.YearsExp,
		RefreshedAt:  m.RefreshedAt.UTC(),
	}
}
