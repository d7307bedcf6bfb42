package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/league-tracker/internal/domain/manager"
	qb "github.com/riskibarqy/league-tracker/internal/platform/querybuilder"
)

type ManagerRepository struct {
	db  sqlx.ExtContext
	now func() time.Time
}

func NewManagerRepository(db sqlx.ExtContext) *ManagerRepository {
	return &ManagerRepository{db: db, now: time.Now}
}

func (r *ManagerRepository) ListByLeague(ctx context.Context, leagueID string) ([]manager.Manager, error) {
	query, args, err := qb.Select(managerSelectColumns...).From("managers").
		Where(qb.Eq("league_id", leagueID)).
		OrderBy("manager_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select managers by league query: %w", err)
	}

	var rows []managerTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select managers by league: %w", err)
	}

	out := make([]manager.Manager, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *ManagerRepository) GetByID(ctx context.Context, managerID string) (manager.Manager, bool, error) {
	query, args, err := qb.Select(managerSelectColumns...).From("managers").
		Where(qb.Eq("manager_id", managerID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return manager.Manager{}, false, fmt.Errorf("build select manager by id query: %w", err)
	}

	var row managerTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return manager.Manager{}, false, nil
		}
		return manager.Manager{}, false, fmt.Errorf("select manager by id: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *ManagerRepository) Upsert(ctx context.Context, items []manager.Manager) error {
	now := r.now().UTC()
	for _, window := range qb.Chunk(len(items), maxBatchRows) {
		models := make([]any, 0, window[1]-window[0])
		for _, item := range items[window[0]:window[1]] {
			updatedAt := item.UpdatedAt
			if updatedAt.IsZero() {
				updatedAt = now
			}
			models = append(models, managerTableModel{
				ManagerID:   item.ID,
				LeagueID:    item.LeagueID,
				DisplayName: item.DisplayName,
				TeamName:    item.TeamName,
				Avatar:      item.Avatar,
				UpdatedAt:   updatedAt,
			})
		}

		query, args, err := qb.InsertModels("managers", models, `ON CONFLICT (manager_id) DO UPDATE SET
    league_id = EXCLUDED.league_id,
    display_name = EXCLUDED.display_name,
    team_name = EXCLUDED.team_name,
    avatar = EXCLUDED.avatar,
    updated_at = EXCLUDED.updated_at`)
		if err != nil {
			return fmt.Errorf("build upsert managers query: %w", err)
		}
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert managers: %w", err)
		}
	}
	return nil
}
