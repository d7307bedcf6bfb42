package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/league-tracker/internal/domain/player"
	"github.com/riskibarqy/league-tracker/internal/platform/logging"
)

type PlayerRefreshResult struct {
	Fetched  int `json:"fetched"`
	Upserted int `json:"upserted"`
	Skipped  int `json:"skipped"`
}

// PlayerDirectoryService keeps the local player directory in step with the
// provider. The directory is large and changes slowly, so it refreshes on its
// own schedule rather than every cycle.
type PlayerDirectoryService struct {
	provider LeagueProvider
	repo     player.Repository
	logger   *logging.Logger
	now      func() time.Time
}

func NewPlayerDirectoryService(provider LeagueProvider, repo player.Repository, logger *logging.Logger) *PlayerDirectoryService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PlayerDirectoryService{
		provider: provider,
		repo:     repo,
		logger:   logger.Named("player_directory"),
		now:      time.Now,
	}
}

func (s *PlayerDirectoryService) Refresh(ctx context.Context) (PlayerRefreshResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerDirectoryService.Refresh")
	defer span.End()

	if s.provider == nil || s.repo == nil {
		return PlayerRefreshResult{}, fmt.Errorf("%w: player directory is not configured", ErrDependencyUnavailable)
	}

	items, err := s.provider.FetchPlayers(ctx)
	if err != nil {
		return PlayerRefreshResult{}, fmt.Errorf("%w: fetch players: %w", ErrTransientFetch, err)
	}

	refreshedAt := s.now().UTC()
	valid := make([]player.Player, 0, len(items))
	for _, item := range items {
		if err := item.Validate(); err != nil {
			continue
		}
		item.RefreshedAt = refreshedAt
		valid = append(valid, item)
	}

	result := PlayerRefreshResult{Fetched: len(items), Skipped: len(items) - len(valid)}
	if len(valid) > 0 {
		if err := s.repo.Upsert(ctx, valid); err != nil {
			return result, fmt.Errorf("upsert players: %w", err)
		}
	}
	result.Upserted = len(valid)

	s.logger.InfoContext(ctx, "player directory refreshed",
		"fetched", result.Fetched,
		"upserted", result.Upserted,
		"skipped", result.Skipped,
	)
	return result, nil
}

// EnsureLoaded refreshes the directory when it is empty.
func (s *PlayerDirectoryService) EnsureLoaded(ctx context.Context) error {
	if s.repo == nil {
		return fmt.Errorf("%w: player directory is not configured", ErrDependencyUnavailable)
	}
	count, err := s.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count players: %w", err)
	}
	if count > 0 {
		return nil
	}
	_, err = s.Refresh(ctx)
	return err
}
