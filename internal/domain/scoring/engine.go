package scoring

import "github.com/riskibarqy/league-tracker/internal/domain/gameclock"

// kickerPenaltyWeight scales the derived missed-kick term. It is zero: the
// term is computed but does not move the score until the league's intent for
// misses that the feed does not report explicitly is settled.
const kickerPenaltyWeight = 0.0

// EmptySlot is the id the league provider puts in unfilled starter slots.
const EmptySlot = "0"

const minutesPerGame = 60.0

// Score sums value*weight over categories present in both line and rules.
func Score(line StatLine, rules Rules) float64 {
	if len(line) == 0 || len(rules) == 0 {
		return 0
	}

	total := 0.0
	for category, value := range line {
		weight, ok := rules[category]
		if !ok {
			continue
		}
		points := value * weight
		if !finite(points) {
			continue
		}
		total += points
	}

	return total + kickerPenalty(line, rules)*kickerPenaltyWeight
}

// kickerPenalty derives missed field goal and extra point counts from attempts
// minus makes for kicker-shaped lines. Lines without enough attempt data
// produce zero.
func kickerPenalty(line StatLine, rules Rules) float64 {
	attempts := line[FieldGoalAttempts]
	if attempts <= 0 {
		return 0
	}

	made, ok := line[FieldGoalsMade]
	if !ok {
		for _, bucket := range []Category{
			FieldGoalsMade0to19,
			FieldGoalsMade20s,
			FieldGoalsMade30s,
			FieldGoalsMade40s,
			FieldGoalsMade50p,
		} {
			made += line[bucket]
		}
	}

	penalty := 0.0
	if missed := attempts - made; missed > 0 {
		penalty += missed * rules[FieldGoalsMissed]
	}
	if xpAttempts, ok := line[ExtraPointAttempts]; ok {
		if missed := xpAttempts - line[ExtraPointsMade]; missed > 0 {
			penalty += missed * rules[ExtraPointsMissed]
		}
	}
	if !finite(penalty) {
		return 0
	}
	return penalty
}

// ProjectScore totals a lineup's current and projected points.
//
// A starter's current score is the actual line's score when it is in the stat
// feed. While the starter's game is in progress the projected contribution is
// projection*(remaining/60)+actual; otherwise it is the full projection.
// Starters missing from both feeds contribute nothing.
func ProjectScore(starters []string, stats, projections Feed, rules Rules, timing gameclock.Timing) Projection {
	out := Projection{Players: make([]Contribution, 0, len(starters))}

	for _, playerID := range starters {
		if playerID == "" || playerID == EmptySlot {
			continue
		}

		stat, hasStat := stats[playerID]
		proj, hasProj := projections[playerID]
		if !hasStat && !hasProj {
			continue
		}

		c := Contribution{PlayerID: playerID, Team: stat.Team}
		if c.Team == "" {
			c.Team = proj.Team
		}
		if hasStat {
			c.Actual = Score(stat.Line, rules)
			out.Current += c.Actual
		}
		if hasProj {
			c.Projection = Score(proj.Line, rules)
		}

		if game, ok := timing.Lookup(c.Team); ok && game.InProgress {
			c.InProgress = true
			c.Projected = c.Projection*(game.MinutesRemaining/minutesPerGame) + c.Actual
		} else {
			c.Projected = c.Projection
		}

		out.Projected += c.Projected
		out.Players = append(out.Players, c)
	}

	return out
}
