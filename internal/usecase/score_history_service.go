package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/league-tracker/internal/domain/scoring"
)

type ScoreHistoryService struct {
	repo scoring.RecordRepository
}

func NewScoreHistoryService(repo scoring.RecordRepository) *ScoreHistoryService {
	return &ScoreHistoryService{repo: repo}
}

// ListByManager returns a manager's records with from <= RecordedAt < to, in
// time order. A zero bound is open.
func (s *ScoreHistoryService) ListByManager(ctx context.Context, managerID string, from, to time.Time) ([]scoring.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoreHistoryService.ListByManager")
	defer span.End()

	managerID = strings.TrimSpace(managerID)
	if managerID == "" {
		return nil, fmt.Errorf("%w: manager id is required", ErrInvalidInput)
	}
	if !from.IsZero() && !to.IsZero() && !from.Before(to) {
		return nil, fmt.Errorf("%w: from must be before to", ErrInvalidInput)
	}

	items, err := s.repo.ListByManager(ctx, managerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list score records by manager: %w", err)
	}
	return items, nil
}

// LatestByLeague returns each manager's most recent record in the league.
func (s *ScoreHistoryService) LatestByLeague(ctx context.Context, leagueID string) ([]scoring.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoreHistoryService.LatestByLeague")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	items, err := s.repo.LatestByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("latest score records by league: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no score records for league=%s", ErrNotFound, leagueID)
	}
	return items, nil
}
