package player

import (
	"fmt"
	"strings"
	"time"
)

// Position is the roster slot family a player is eligible for.
type Position string

const (
	PositionQuarterback  Position = "QB"
	PositionRunningBack  Position = "RB"
	PositionWideReceiver Position = "WR"
	PositionTightEnd     Position = "TE"
	PositionKicker       Position = "K"
	PositionDefense      Position = "DEF"
)

// Player is one entry of the provider's NFL player directory.
type Player struct {
	ID           string
	FirstName    string
	LastName     string
	Position     Position
	Team         string
	Status       string
	InjuryStatus string
	YearsExp     int
	RefreshedAt  time.Time
}

func (p Player) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("player id is required")
	}
	return nil
}

// FullName joins first and last name, falling back to the id for team
// defenses and placeholder entries.
func (p Player) FullName() string {
	name := strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
	if name == "" {
		return p.ID
	}
	return name
}

// Display renders the player the way chat messages list them: "[QB] Josh Allen".
func (p Player) Display() string {
	position := string(p.Position)
	if position == "" {
		position = "?"
	}
	return "[" + position + "] " + p.FullName()
}

// Index is an id keyed lookup built from a directory slice.
type Index map[string]Player

func NewIndex(items []Player) Index {
	out := make(Index, len(items))
	for _, item := range items {
		out[item.ID] = item
	}
	return out
}

func (i Index) Get(id string) (Player, bool) {
	p, ok := i[id]
	return p, ok
}
