package gameclock

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	regulationPeriods = 4
	minutesPerPeriod  = 15
)

var teamSeparator = regexp.MustCompile(`@|VS`)

var kickoffLayouts = []string{
	"2006-01-02T15:04Z",
	time.RFC3339,
	"2006-01-02T15:04:05Z",
}

// Resolve builds the per-team timing table for one scoreboard snapshot.
// Games whose token or kickoff cannot be parsed are left out.
func Resolve(games []Game, aliases Aliases) Timing {
	if aliases == nil {
		aliases = DefaultAliases
	}

	out := make(Timing, len(games)*2)
	for _, game := range games {
		home, away, ok := SplitTeams(game.ShortName)
		if !ok {
			continue
		}
		kickoff, err := ParseKickoff(game.Date)
		if err != nil {
			continue
		}

		timing := GameTiming{
			Kickoff:          kickoff,
			InProgress:       isInProgress(game.State),
			MinutesRemaining: MinutesRemaining(game.DisplayClock, game.Period),
		}
		out[aliases.Canonical(home)] = timing
		out[aliases.Canonical(away)] = timing
	}

	return out
}

// SplitTeams splits "MIN @ GB" or "nyg vs dal" into its two team tokens.
func SplitTeams(token string) (string, string, bool) {
	compact := strings.ToUpper(strings.ReplaceAll(token, " ", ""))
	parts := teamSeparator.Split(compact, -1)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func ParseKickoff(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	for _, layout := range kickoffLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized kickoff timestamp %q", raw)
}

// MinutesRemaining approximates remaining regulation minutes from the
// displayed clock and the current period. A malformed clock counts as 0:00.
func MinutesRemaining(clock string, period int) float64 {
	minutes, seconds := parseClock(clock)
	return float64(minutes) + float64(seconds)/60 + float64((regulationPeriods-period)*minutesPerPeriod)
}

func parseClock(clock string) (int, int) {
	parts := strings.SplitN(strings.TrimSpace(clock), ":", 2)
	if len(parts) != 2 {
		return 0, 0
	}
	minutes, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0
	}
	seconds, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0
	}
	return minutes, seconds
}

func isInProgress(state string) bool {
	switch strings.ToLower(strings.TrimSpace(state)) {
	case StateIn, StatePost:
		return true
	default:
		return false
	}
}
