package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/league-tracker/internal/domain/scoring"
	qb "github.com/riskibarqy/league-tracker/internal/platform/querybuilder"
)

type ScoreRepository struct {
	db sqlx.ExtContext
}

func NewScoreRepository(db sqlx.ExtContext) *ScoreRepository {
	return &ScoreRepository{db: db}
}

func (r *ScoreRepository) Append(ctx context.Context, records []scoring.Record) error {
	for _, window := range qb.Chunk(len(records), maxBatchRows) {
		models := make([]any, 0, window[1]-window[0])
		for _, item := range records[window[0]:window[1]] {
			models = append(models, scoreRecordTableModel{
				ManagerID:      item.ManagerID,
				RecordedAt:     item.RecordedAt.UTC(),
				LeagueID:       item.LeagueID,
				RosterID:       item.RosterID,
				Week:           item.Week,
				ProjectedScore: item.Projected,
				CurrentScore:   item.Current,
			})
		}

		query, args, err := qb.InsertModels("manager_score_records", models, `ON CONFLICT (manager_id, recorded_at) DO NOTHING`)
		if err != nil {
			return fmt.Errorf("build append score records query: %w", err)
		}
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("append score records: %w", err)
		}
	}
	return nil
}

func (r *ScoreRepository) ListByManager(ctx context.Context, managerID string, from, to time.Time) ([]scoring.Record, error) {
	conditions := []qb.Condition{qb.Eq("manager_id", managerID)}
	if !from.IsZero() {
		conditions = append(conditions, qb.Expr("recorded_at >= ?", from.UTC()))
	}
	if !to.IsZero() {
		conditions = append(conditions, qb.Expr("recorded_at < ?", to.UTC()))
	}

	query, args, err := qb.Select(scoreRecordSelectColumns...).From("manager_score_records").
		Where(conditions...).
		OrderBy("recorded_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select score records by manager query: %w", err)
	}

	var rows []scoreRecordTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select score records by manager: %w", err)
	}
	return toScoreRecords(rows), nil
}

func (r *ScoreRepository) LatestByLeague(ctx context.Context, leagueID string) ([]scoring.Record, error) {
	columns := append([]string{"DISTINCT ON (manager_id) manager_id"}, scoreRecordSelectColumns[1:]...)
	query, args, err := qb.Select(columns...).From("manager_score_records").
		Where(qb.Eq("league_id", leagueID)).
		OrderBy("manager_id", "recorded_at DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select latest score records query: %w", err)
	}

	var rows []scoreRecordTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select latest score records: %w", err)
	}
	return toScoreRecords(rows), nil
}

func toScoreRecords(rows []scoreRecordTableModel) []scoring.Record {
	out := make([]scoring.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out
}
