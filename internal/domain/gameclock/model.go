package gameclock

import (
	"strings"
	"time"
)

const (
	StatePre  = "pre"
	StateIn   = "in"
	StatePost = "post"
)

// Game is one scoreboard entry as reported by the schedule feed.
type Game struct {
	ShortName    string
	Date         string
	State        string
	DisplayClock string
	Period       int
}

// GameTiming is the kickoff and live clock state of the game a team plays in.
// MinutesRemaining is only meaningful while InProgress and is not clamped.
type GameTiming struct {
	Kickoff          time.Time
	InProgress       bool
	MinutesRemaining float64
}

// Timing maps canonical team abbreviations to their game timing for the week.
type Timing map[string]GameTiming

func (t Timing) Lookup(team string) (GameTiming, bool) {
	key := strings.ToUpper(strings.TrimSpace(team))
	if key == "" {
		return GameTiming{}, false
	}
	v, ok := t[key]
	return v, ok
}
