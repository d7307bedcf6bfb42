package postgres

import (
	"time"

	"github.com/riskibarqy/league-tracker/internal/domain/manager"
)

type managerTableModel struct {
	ManagerID   string    `db:"manager_id"`
	LeagueID    string    `db:"league_id"`
	DisplayName string    `db:"display_name"`
	TeamName    string    `db:"team_name"`
	Avatar      string    `db:"avatar"`
	UpdatedAt   time.Time `db:"updated_at"`
}

var managerSelectColumns = []string{
	"manager_id",
	"league_id",
	"display_name",
	"team_name",
	"avatar",
	"updated_at",
}

func (m managerTableModel) toDomain() manager.Manager {
	return manager.Manager{
		ID:          m.ManagerID,
		LeagueID:    m.LeagueID,
		DisplayName: m.DisplayName,
		TeamName:    m.TeamName,
		Avatar:      m.Avatar,
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}
