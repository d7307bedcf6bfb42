package gameclock

import "strings"

// Aliases maps scoreboard team abbreviations to the ones used by the league
// provider's player directory.
type Aliases map[string]string

// DefaultAliases covers the abbreviations known to differ between feeds.
var DefaultAliases = Aliases{
	"WSH": "WAS",
}

// With returns a copy of the table extended by extra. Keys and values are upper-cased.
func (a Aliases) With(extra map[string]string) Aliases {
	out := make(Aliases, len(a)+len(extra))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range extra {
		from := strings.ToUpper(strings.TrimSpace(k))
		to := strings.ToUpper(strings.TrimSpace(v))
		if from == "" || to == "" {
			continue
		}
		out[from] = to
	}
	return out
}

func (a Aliases) Canonical(team string) string {
	key := strings.ToUpper(strings.TrimSpace(team))
	if to, ok := a[key]; ok {
		return to
	}
	return key
}
