package httpapi

import (
	"time"

	"github.com/riskibarqy/league-tracker/internal/domain/roster"
	"github.com/riskibarqy/league-tracker/internal/domain/scoring"
	"github.com/riskibarqy/league-tracker/internal/usecase"
)

type rosterDTO struct {
	LeagueID         string   `json:"leagueId"`
	RosterID         int      `json:"rosterId"`
	OwnerID          string   `json:"ownerId"`
	Players          []string `json:"players"`
	Starters         []string `json:"starters"`
	Reserve          []string `json:"reserve"`
	Streak           string   `json:"streak"`
	Wins             int      `json:"wins"`
	Losses           int      `json:"losses"`
	Ties             int      `json:"ties"`
	PointsFor        float64  `json:"pointsFor"`
	PointsAgainst    float64  `json:"pointsAgainst"`
	PotentialPoints  float64  `json:"potentialPoints"`
	TotalMoves       int      `json:"totalMoves"`
	WaiverBudgetUsed int      `json:"waiverBudgetUsed"`
	WaiverPosition   int      `json:"waiverPosition"`
	RefreshedAt      string   `json:"refreshedAt"`
}

type scoreRecordDTO struct {
	ManagerID  string  `json:"managerId"`
	LeagueID   string  `json:"leagueId"`
	RosterID   int     `json:"rosterId"`
	Week       int     `json:"week"`
	RecordedAt string  `json:"recordedAt"`
	Projected  float64 `json:"projectedScore"`
	Current    float64 `json:"currentScore"`
}

type cycleReportDTO struct {
	RunID           string `json:"runId"`
	LeagueID        string `json:"leagueId"`
	Season          string `json:"season"`
	Week            int    `json:"week"`
	StartedAt       string `json:"startedAt"`
	DurationMS      int64  `json:"durationMs"`
	RostersUpdated  int    `json:"rostersUpdated"`
	RostersInserted int    `json:"rostersInserted"`
	RostersRejected int    `json:"rostersRejected"`
	Alerts          int    `json:"alerts"`
	Records         int    `json:"records"`
	NewTransactions int    `json:"newTransactions"`
	Notifications   int    `json:"notifications"`
}

type playerRefreshDTO struct {
	Fetched  int `json:"fetched"`
	Upserted int `json:"upserted"`
	Skipped  int `json:"skipped"`
}

func toRosterDTO(v roster.Snapshot) rosterDTO {
	return rosterDTO{
		LeagueID:         v.LeagueID,
		RosterID:         v.RosterID,
		OwnerID:          v.OwnerID,
		Players:          nonNil(v.Players),
		Starters:         nonNil(v.Starters),
		Reserve:          nonNil(v.Reserve),
		Streak:           v.Streak,
		Wins:             v.Wins,
		Losses:           v.Losses,
		Ties:             v.Ties,
		PointsFor:        v.PointsFor,
		PointsAgainst:    v.PointsAgainst,
		PotentialPoints:  v.PotentialPoints,
		TotalMoves:       v.TotalMoves,
		WaiverBudgetUsed: v.WaiverBudgetUsed,
		WaiverPosition:   v.WaiverPosition,
		RefreshedAt:      formatUTC(v.RefreshedAt),
	}
}

func toScoreRecordDTOs(items []scoring.Record) []scoreRecordDTO {
	out := make([]scoreRecordDTO, 0, len(items))
	for _, item := range items {
		out = append(out, scoreRecordDTO{
			ManagerID:  item.ManagerID,
			LeagueID:   item.LeagueID,
			RosterID:   item.RosterID,
			Week:       item.Week,
			RecordedAt: formatUTC(item.RecordedAt),
			Projected:  item.Projected,
			Current:    item.Current,
		})
	}
	return out
}

func toCycleReportDTO(v usecase.CycleReport) cycleReportDTO {
	return cycleReportDTO{
		RunID:           v.RunID,
		LeagueID:        v.LeagueID,
		Season:          v.Season,
		Week:            v.Week,
		StartedAt:       formatUTC(v.StartedAt),
		DurationMS:      v.Duration.Milliseconds(),
		RostersUpdated:  v.RostersUpdated,
		RostersInserted: v.RostersInserted,
		RostersRejected: v.RostersRejected,
		Alerts:          v.Alerts,
		Records:         v.Records,
		NewTransactions: v.NewTransactions,
		Notifications:   v.Notifications,
	}
}

func formatUTC(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
