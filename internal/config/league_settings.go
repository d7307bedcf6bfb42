package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LeagueSettings is the optional per-deployment league file.
//
//	team_aliases:
//	  WSH: WAS
//	  JAC: JAX
//	late_swap_window: 10m
//	notifications:
//	  late_swap: true
//	  transactions: true
//	  scoreboard: false
type LeagueSettings struct {
	TeamAliases    map[string]string   `yaml:"team_aliases"`
	LateSwapWindow time.Duration       `yaml:"late_swap_window"`
	Notifications  NotificationToggles `yaml:"notifications"`
}

type NotificationToggles struct {
	LateSwap     bool `yaml:"late_swap"`
	Transactions bool `yaml:"transactions"`
	Scoreboard   bool `yaml:"scoreboard"`
}

func DefaultLeagueSettings() LeagueSettings {
	return LeagueSettings{
		TeamAliases: map[string]string{},
		Notifications: NotificationToggles{
			LateSwap:     true,
			Transactions: true,
			Scoreboard:   true,
		},
	}
}

// LoadLeagueSettings reads path over the defaults. Toggles omitted from the
// file keep their default value.
func LoadLeagueSettings(path string) (LeagueSettings, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return LeagueSettings{}, fmt.Errorf("read league settings %s: %w", path, err)
	}
	return parseLeagueSettings(raw)
}

func parseLeagueSettings(raw []byte) (LeagueSettings, error) {
	out := DefaultLeagueSettings()
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return LeagueSettings{}, fmt.Errorf("parse league settings: %w", err)
	}
	if out.LateSwapWindow < 0 {
		return LeagueSettings{}, fmt.Errorf("late_swap_window must be >= 0")
	}

	aliases := make(map[string]string, len(out.TeamAliases))
	for from, to := range out.TeamAliases {
		from = strings.ToUpper(strings.TrimSpace(from))
		to = strings.ToUpper(strings.TrimSpace(to))
		if from == "" || to == "" {
			return LeagueSettings{}, fmt.Errorf("team_aliases entries must be non-empty, got %q: %q", from, to)
		}
		aliases[from] = to
	}
	out.TeamAliases = aliases

	return out, nil
}
