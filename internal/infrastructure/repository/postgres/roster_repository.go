package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/league-tracker/internal/domain/roster"
	qb "github.com/riskibarqy/league-tracker/internal/platform/querybuilder"
)

const rosterUpsertSuffix = `ON CONFLICT (league_id, roster_id) DO UPDATE SET
    owner_id = EXCLUDED.owner_id,
    players = EXCLUDED.players,
    starters = EXCLUDED.starters,
    reserve = EXCLUDED.reserve,
    streak = EXCLUDED.streak,
    wins = EXCLUDED.wins,
    losses = EXCLUDED.losses,
    ties = EXCLUDED.ties,
    points_for = EXCLUDED.points_for,
    points_against = EXCLUDED.points_against,
    potential_points = EXCLUDED.potential_points,
    total_moves = EXCLUDED.total_moves,
    waiver_budget_used = EXCLUDED.waiver_budget_used,
    waiver_position = EXCLUDED.waiver_position,
    refreshed_at = EXCLUDED.refreshed_at`

type RosterRepository struct {
	db sqlx.ExtContext
}

func NewRosterRepository(db sqlx.ExtContext) *RosterRepository {
	return &RosterRepository{db: db}
}

func (r *RosterRepository) ListByLeague(ctx context.Context, leagueID string) ([]roster.Snapshot, error) {
	query, args, err := qb.Select(rosterSelectColumns...).From("rosters").
		Where(qb.Eq("league_id", leagueID)).
		OrderBy("roster_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select rosters by league query: %w", err)
	}

	var rows []rosterTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select rosters by league: %w", err)
	}

	out := make([]roster.Snapshot, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *RosterRepository) Upsert(ctx context.Context, snapshots []roster.Snapshot) error {
	for _, window := range qb.Chunk(len(snapshots), maxBatchRows) {
		models := make([]any, 0, window[1]-window[0])
		for _, item := range snapshots[window[0]:window[1]] {
			models = append(models, newRosterTableModel(item))
		}

		query, args, err := qb.InsertModels("rosters", models, rosterUpsertSuffix)
		if err != nil {
			return fmt.Errorf("build upsert rosters query: %w", err)
		}
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert rosters: %w", err)
		}
	}
	return nil
}
