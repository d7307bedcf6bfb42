package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/league-tracker/internal/domain/roster"
)

type RosterQueryService struct {
	repo roster.Repository
}

func NewRosterQueryService(repo roster.Repository) *RosterQueryService {
	return &RosterQueryService{repo: repo}
}

func (s *RosterQueryService) ListByLeague(ctx context.Context, leagueID string) ([]roster.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterQueryService.ListByLeague")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	items, err := s.repo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list rosters by league: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}
	return items, nil
}
