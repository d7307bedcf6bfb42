package lateswap

import (
	"time"

	"github.com/riskibarqy/league-tracker/internal/domain/player"
)

// DefaultWindow is the span around kickoff in which a lineup change is flagged.
const DefaultWindow = 600 * time.Second

type Classification string

const (
	Started Classification = "started"
	Benched Classification = "benched"
)

type Swap struct {
	Player         player.Player
	Classification Classification
}

// Alert is a flagged lineup change. Swaps lists every started player followed
// by every benched player.
type Alert struct {
	LeagueID     string
	RosterID     int
	ManagerID    string
	ManagerName  string
	Swaps        []Swap
	WithinWindow bool
	Text         string
}
