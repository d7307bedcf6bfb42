package transaction

import "time"

type Type string

const (
	TypeTrade        Type = "trade"
	TypeWaiver       Type = "waiver"
	TypeFreeAgent    Type = "free_agent"
	TypeCommissioner Type = "commissioner"
)

type Status string

const (
	StatusComplete Status = "complete"
	StatusFailed   Status = "failed"
	StatusPending  Status = "pending"
)

// Transaction is one league transaction for a week. Adds and Drops map player
// id to the roster id that gained or lost the player.
type Transaction struct {
	ID              string
	LeagueID        string
	Type            Type
	Status          Status
	Week            int
	CreatorID       string
	RosterIDs       []int
	Adds            map[string]int
	Drops           map[string]int
	WaiverBid       int
	Sequence        int
	CreatedAt       time.Time
	StatusUpdatedAt time.Time
}

// PlayerIDs returns every added and dropped player id.
func (t Transaction) PlayerIDs() []string {
	out := make([]string, 0, len(t.Adds)+len(t.Drops))
	for id := range t.Adds {
		out = append(out, id)
	}
	for id := range t.Drops {
		out = append(out, id)
	}
	return out
}
