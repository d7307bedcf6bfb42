package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/league-tracker/internal/domain/manager"
	"github.com/riskibarqy/league-tracker/internal/domain/player"
	"github.com/riskibarqy/league-tracker/internal/domain/roster"
	"github.com/riskibarqy/league-tracker/internal/domain/scoring"
	"github.com/riskibarqy/league-tracker/internal/domain/transaction"
	"github.com/riskibarqy/league-tracker/internal/usecase"
)

// Store exposes the repositories over a connection pool and implements the
// cycle UnitOfWork.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Rosters() roster.Repository { return NewRosterRepository(s.db) }

func (s *Store) Managers() manager.Repository { return NewManagerRepository(s.db) }

func (s *Store) Players() player.Repository { return NewPlayerRepository(s.db) }

func (s *Store) Scores() scoring.RecordRepository { return NewScoreRepository(s.db) }

func (s *Store) Transactions() transaction.Repository { return NewTransactionRepository(s.db) }

// WithinCycle runs fn in one transaction holding a transaction-scoped advisory
// lock on the league, so cycles for the same league never interleave even
// across processes.
func (s *Store) WithinCycle(ctx context.Context, leagueID string, fn func(ctx context.Context, repos usecase.CycleRepositories) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cycle tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, "league-cycle:"+leagueID); err != nil {
		return fmt.Errorf("acquire league cycle lock: %w", err)
	}

	if err := fn(ctx, txRepos{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit cycle tx: %w", err)
	}
	return nil
}

type txRepos struct {
	tx *sqlx.Tx
}

func (r txRepos) Rosters() roster.Repository { return NewRosterRepository(r.tx) }

func (r txRepos) Managers() manager.Repository { return NewManagerRepository(r.tx) }

func (r txRepos) Players() player.Repository { return NewPlayerRepository(r.tx) }

func (r txRepos) Scores() scoring.RecordRepository { return NewScoreRepository(r.tx) }

func (r txRepos) Transactions() transaction.Repository { return NewTransactionRepository(r.tx) }
