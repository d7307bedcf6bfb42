package sleeper

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/league-tracker/internal/domain/manager"
	"github.com/riskibarqy/league-tracker/internal/domain/player"
	"github.com/riskibarqy/league-tracker/internal/domain/roster"
	"github.com/riskibarqy/league-tracker/internal/domain/scoring"
	"github.com/riskibarqy/league-tracker/internal/domain/transaction"
	"github.com/riskibarqy/league-tracker/internal/usecase"
)

func (c *Client) FetchState(ctx context.Context) (usecase.LeagueState, error) {
	var state stateResponse
	if err := c.doJSON(ctx, c.baseURL+"/v1/state/nfl", &state); err != nil {
		return usecase.LeagueState{}, fmt.Errorf("fetch nfl state: %w", err)
	}
	return usecase.LeagueState{
		Season:      strings.TrimSpace(state.Season),
		SeasonType:  strings.TrimSpace(state.SeasonType),
		Week:        state.Week,
		DisplayWeek: state.DisplayWeek,
	}, nil
}

func (c *Client) FetchLeague(ctx context.Context) (usecase.LeagueSettings, error) {
	var league leagueResponse
	if err := c.doJSON(ctx, c.leagueURL(), &league); err != nil {
		return usecase.LeagueSettings{}, fmt.Errorf("fetch league league_id=%s: %w", c.leagueID, err)
	}
	leagueID := strings.TrimSpace(league.LeagueID)
	if leagueID == "" {
		leagueID = c.leagueID
	}
	return usecase.LeagueSettings{
		LeagueID:        leagueID,
		Name:            strings.TrimSpace(league.Name),
		Season:          strings.TrimSpace(league.Season),
		ScoringSettings: league.ScoringSettings,
		RosterPositions: league.RosterPositions,
	}, nil
}

func (c *Client) FetchRosters(ctx context.Context) ([]roster.Snapshot, error) {
	var items []rosterItem
	if err := c.doJSON(ctx, c.leagueURL("rosters"), &items); err != nil {
		return nil, fmt.Errorf("fetch rosters league_id=%s: %w", c.leagueID, err)
	}

	refreshedAt := c.now().UTC()
	out := make([]roster.Snapshot, 0, len(items))
	for _, item := range items {
		out = append(out, c.mapRoster(item, refreshedAt))
	}
	return out, nil
}

func (c *Client) FetchManagers(ctx context.Context) ([]manager.Manager, error) {
	var items []userItem
	if err := c.doJSON(ctx, c.leagueURL("users"), &items); err != nil {
		return nil, fmt.Errorf("fetch users league_id=%s: %w", c.leagueID, err)
	}

	updatedAt := c.now().UTC()
	out := make([]manager.Manager, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.UserID) == "" {
			continue
		}
		displayName := strings.TrimSpace(item.DisplayName)
		teamName := strings.TrimSpace(item.Metadata.TeamName)
		if teamName == "" {
			teamName = displayName
		}
		out = append(out, manager.Manager{
			ID:          strings.TrimSpace(item.UserID),
			LeagueID:    firstNonEmpty(item.LeagueID, c.leagueID),
			DisplayName: displayName,
			TeamName:    teamName,
			Avatar:      strings.TrimSpace(item.Avatar),
			UpdatedAt:   updatedAt,
		})
	}
	return out, nil
}

func (c *Client) FetchTransactions(ctx context.Context, week int) ([]transaction.Transaction, error) {
	if week <= 0 {
		return nil, fmt.Errorf("%w: week must be greater than zero", usecase.ErrInvalidInput)
	}

	var items []transactionItem
	if err := c.doJSON(ctx, c.leagueURL("transactions", strconv.Itoa(week)), &items); err != nil {
		return nil, fmt.Errorf("fetch transactions league_id=%s week=%d: %w", c.leagueID, week, err)
	}

	out := make([]transaction.Transaction, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.TransactionID) == "" {
			continue
		}
		out = append(out, c.mapTransaction(item, week))
	}
	return out, nil
}

func (c *Client) FetchPlayers(ctx context.Context) ([]player.Player, error) {
	var items map[string]playerItem
	if err := c.doJSON(ctx, c.baseURL+"/v1/players/nfl", &items); err != nil {
		return nil, fmt.Errorf("fetch player directory: %w", err)
	}

	refreshedAt := c.now().UTC()
	out := make([]player.Player, 0, len(items))
	for key, item := range items {
		id := firstNonEmpty(item.PlayerID, key)
		if id == "" {
			continue
		}
		out = append(out, player.Player{
			ID:           id,
			FirstName:    strings.TrimSpace(item.FirstName),
			LastName:     strings.TrimSpace(item.LastName),
			Position:     player.Position(strings.ToUpper(strings.TrimSpace(item.Position))),
			Team:         strings.ToUpper(strings.TrimSpace(item.Team)),
			Status:       strings.TrimSpace(item.Status),
			InjuryStatus: strings.TrimSpace(item.InjuryStatus),
			YearsExp:     item.YearsExp,
			RefreshedAt:  refreshedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (c *Client) FetchWeeklyStats(ctx context.Context, season string, week int) ([]scoring.PlayerLine, error) {
	return c.fetchWeeklyLines(ctx, "stats", season, week)
}

func (c *Client) FetchWeeklyProjections(ctx context.Context, season string, week int) ([]scoring.PlayerLine, error) {
	return c.fetchWeeklyLines(ctx, "projections", season, week)
}

func (c *Client) fetchWeeklyLines(ctx context.Context, kind, season string, week int) ([]scoring.PlayerLine, error) {
	season = strings.TrimSpace(season)
	if season == "" || week <= 0 {
		return nil, fmt.Errorf("%w: season and week are required", usecase.ErrInvalidInput)
	}

	query := url.Values{}
	query.Set("season_type", defaultSeasonType)
	fullURL := fmt.Sprintf("%s/%s/nfl/%s/%d?%s", c.statsBaseURL, kind, url.PathEscape(season), week, query.Encode())

	var items []statItem
	if err := c.doJSON(ctx, fullURL, &items); err != nil {
		return nil, fmt.Errorf("fetch weekly %s season=%s week=%d: %w", kind, season, week, err)
	}

	out := make([]scoring.PlayerLine, 0, len(items))
	for _, item := range items {
		id := strings.TrimSpace(item.PlayerID)
		if id == "" {
			continue
		}
		out = append(out, scoring.PlayerLine{
			PlayerID: id,
			Team:     strings.ToUpper(strings.TrimSpace(item.Team)),
			Line:     scoring.ParseStatLine(item.Stats),
		})
	}
	return out, nil
}

func (c *Client) mapRoster(item rosterItem, refreshedAt time.Time) roster.Snapshot {
	stats := item.Settings
	return roster.Snapshot{
		LeagueID:         firstNonEmpty(item.LeagueID, c.leagueID),
		RosterID:         item.RosterID,
		OwnerID:          strings.TrimSpace(item.OwnerID),
		Players:          item.Players,
		Starters:         item.Starters,
		Reserve:          item.Reserve,
		Streak:           strings.TrimSpace(item.Metadata.Streak),
		Wins:             stats.Wins,
		Losses:           stats.Losses,
		Ties:             stats.Ties,
		PointsFor:        points(stats.Fpts, stats.FptsDecimal),
		PointsAgainst:    points(stats.FptsAgainst, stats.FptsAgainstDecimal),
		PotentialPoints:  points(stats.Ppts, stats.PptsDecimal),
		TotalMoves:       stats.TotalMoves,
		WaiverBudgetUsed: stats.WaiverBudgetUsed,
		WaiverPosition:   stats.WaiverPosition,
		RefreshedAt:      refreshedAt,
	}
}

func (c *Client) mapTransaction(item transactionItem, week int) transaction.Transaction {
	out := transaction.Transaction{
		ID:        strings.TrimSpace(item.TransactionID),
		LeagueID:  c.leagueID,
		Type:      transaction.Type(strings.TrimSpace(item.Type)),
		Status:    transaction.Status(strings.TrimSpace(item.Status)),
		Week:      item.Leg,
		CreatorID: strings.TrimSpace(item.Creator),
		RosterIDs: item.RosterIDs,
		Adds:      item.Adds,
		Drops:     item.Drops,
	}
	if out.Week <= 0 {
		out.Week = week
	}
	if item.Settings != nil {
		out.Sequence = item.Settings.Seq
		out.WaiverBid = item.Settings.WaiverBid
	}
	if item.Created > 0 {
		out.CreatedAt = time.UnixMilli(item.Created).UTC()
	}
	if item.StatusUpdated > 0 {
		out.StatusUpdatedAt = time.UnixMilli(item.StatusUpdated).UTC()
	}
	return out
}

// points joins an integer part with its hundredths.
func points(whole, hundredths int) float64 {
	return float64(whole) + float64(hundredths)/100
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
