package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/league-tracker/internal/domain/transaction"
	qb "github.com/riskibarqy/league-tracker/internal/platform/querybuilder"
)

type TransactionRepository struct {
	db sqlx.ExtContext
}

func NewTransactionRepository(db sqlx.ExtContext) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) ListIDsByWeek(ctx context.Context, leagueID string, week int) ([]string, error) {
	query, args, err := qb.Select("transaction_id").From("league_transactions").
		Where(qb.Eq("league_id", leagueID), qb.Eq("week", week)).
		OrderBy("transaction_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select transaction ids query: %w", err)
	}

	var ids []string
	if err := sqlx.SelectContext(ctx, r.db, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("select transaction ids: %w", err)
	}
	return ids, nil
}

func (r *TransactionRepository) Insert(ctx context.Context, items []transaction.Transaction) error {
	for _, window := range qb.Chunk(len(items), maxBatchRows) {
		models := make([]any, 0, window[1]-window[0])
		for _, item := range items[window[0]:window[1]] {
			model, err := newTransactionTableModel(item)
			if err != nil {
				return fmt.Errorf("transaction %s: %w", item.ID, err)
			}
			models = append(models, model)
		}

		query, args, err := qb.InsertModels("league_transactions", models, `ON CONFLICT (transaction_id) DO NOTHING`)
		if err != nil {
			return fmt.Errorf("build insert transactions query: %w", err)
		}
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert transactions: %w", err)
		}
	}
	return nil
}
