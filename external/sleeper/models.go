package sleeper

type stateResponse struct {
	Season      string `json:"season"`
	SeasonType  string `json:"season_type"`
	Week        int    `json:"week"`
	DisplayWeek int    `json:"display_week"`
}

type leagueResponse struct {
	LeagueID        string             `json:"league_id"`
	Name            string             `json:"name"`
	Season          string             `json:"season"`
	ScoringSettings map[string]float64 `json:"scoring_settings"`
	RosterPositions []string           `json:"roster_positions"`
}

type rosterItem struct {
	RosterID int            `json:"roster_id"`
	OwnerID  string         `json:"owner_id"`
	LeagueID string         `json:"league_id"`
	Players  []string       `json:"players"`
	Starters []string       `json:"starters"`
	Reserve  []string       `json:"reserve"`
	Settings rosterSettings `json:"settings"`
	Metadata rosterMetadata `json:"metadata"`
}

// rosterSettings carries points as an integer part plus hundredths.
type rosterSettings struct {
	Wins               int `json:"wins"`
	Losses             int `json:"losses"`
	Ties               int `json:"ties"`
	Fpts               int `json:"fpts"`
	FptsDecimal        int `json:"fpts_decimal"`
	FptsAgainst        int `json:"fpts_against"`
	FptsAgainstDecimal int `json:"fpts_against_decimal"`
	Ppts               int `json:"ppts"`
	PptsDecimal        int `json:"ppts_decimal"`
	TotalMoves         int `json:"total_moves"`
	WaiverBudgetUsed   int `json:"waiver_budget_used"`
	WaiverPosition     int `json:"waiver_position"`
}

type rosterMetadata struct {
	Streak string `json:"streak"`
}

type userItem struct {
	UserID      string       `json:"user_id"`
	LeagueID    string       `json:"league_id"`
	DisplayName string       `json:"display_name"`
	Avatar      string       `json:"avatar"`
	Metadata    userMetadata `json:"metadata"`
}

type userMetadata struct {
	TeamName string `json:"team_name"`
}

type transactionItem struct {
	TransactionID string               `json:"transaction_id"`
	Type          string               `json:"type"`
	Status        string               `json:"status"`
	Leg           int                  `json:"leg"`
	Creator       string               `json:"creator"`
	RosterIDs     []int                `json:"roster_ids"`
	Adds          map[string]int       `json:"adds"`
	Drops         map[string]int       `json:"drops"`
	Settings      *transactionSettings `json:"settings"`
	Created       int64                `json:"created"`
	StatusUpdated int64                `json:"status_updated"`
}

type transactionSettings struct {
	Seq       int `json:"seq"`
	WaiverBid int `json:"waiver_bid"`
}

type playerItem struct {
	PlayerID     string `json:"player_id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Position     string `json:"position"`
	Team         string `json:"team"`
	Status       string `json:"status"`
	InjuryStatus string `json:"injury_status"`
	YearsExp     int    `json:"years_exp"`
}

type statItem struct {
	PlayerID string         `json:"player_id"`
	Team     string         `json:"team"`
	Stats    map[string]any `json:"stats"`
}
