package lateswap

import (
	"time"

	"github.com/riskibarqy/league-tracker/internal/domain/gameclock"
	"github.com/riskibarqy/league-tracker/internal/domain/player"
	"github.com/valyala/bytebufferpool"
)

// Input is everything Detect needs for one franchise's starters change.
type Input struct {
	LeagueID    string
	RosterID    int
	ManagerID   string
	ManagerName string
	Started     []string
	Benched     []string
	Players     player.Index
	Timing      gameclock.Timing
	Now         time.Time
	Window      time.Duration
}

// Detect flags the whole swap when any started or benched player's game kicks
// off within the window of Now, either side. Players whose team has no timing
// entry do not count towards the window but are still listed.
func Detect(in Input) (Alert, bool) {
	window := in.Window
	if window <= 0 {
		window = DefaultWindow
	}

	swaps := make([]Swap, 0, len(in.Started)+len(in.Benched))
	for _, id := range in.Started {
		swaps = append(swaps, Swap{Player: lookup(in.Players, id), Classification: Started})
	}
	for _, id := range in.Benched {
		swaps = append(swaps, Swap{Player: lookup(in.Players, id), Classification: Benched})
	}

	flagged := false
	for _, swap := range swaps {
		game, ok := in.Timing.Lookup(swap.Player.Team)
		if !ok {
			continue
		}
		if absDuration(game.Kickoff.Sub(in.Now)) < window {
			flagged = true
			break
		}
	}
	if !flagged {
		return Alert{}, false
	}

	alert := Alert{
		LeagueID:     in.LeagueID,
		RosterID:     in.RosterID,
		ManagerID:    in.ManagerID,
		ManagerName:  in.ManagerName,
		Swaps:        swaps,
		WithinWindow: true,
	}
	alert.Text = Render(alert)
	return alert, true
}

// Render formats the alert as a chat message. Empty sections are omitted.
func Render(alert Alert) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	name := alert.ManagerName
	if name == "" {
		name = alert.ManagerID
	}
	_, _ = buf.WriteString("Boldly late move by " + name + ":\n")
	writeSection(buf, "Started", alert.Swaps, Started)
	writeSection(buf, "Benched", alert.Swaps, Benched)

	return buf.String()
}

func writeSection(buf *bytebufferpool.ByteBuffer, title string, swaps []Swap, kind Classification) {
	wroteHeader := false
	for _, swap := range swaps {
		if swap.Classification != kind {
			continue
		}
		if !wroteHeader {
			_, _ = buf.WriteString("  " + title + ":\n")
			wroteHeader = true
		}
		_, _ = buf.WriteString("    \\- " + swap.Player.Display() + "\n")
	}
}

func lookup(players player.Index, id string) player.Player {
	if p, ok := players.Get(id); ok {
		return p
	}
	return player.Player{ID: id}
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
