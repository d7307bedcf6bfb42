package scoring

import (
	"math"
	"testing"
	"time"

	"github.com/riskibarqy/league-tracker/internal/domain/gameclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRules = Rules{
	PassYards:  0.04,
	PassTD:     4,
	PassInt:    -2,
	Receptions: 0.5,
	RecYards:   0.1,
	RecTD:      6,
}

func TestScore_EmptyMappings(t *testing.T) {
	if got := Score(StatLine{}, testRules); got != 0 {
		t.Fatalf("empty stat line must score 0, got %v", got)
	}
	if got := Score(StatLine{PassYards: 300, PassTD: 2}, Rules{}); got != 0 {
		t.Fatalf("empty rules must score 0, got %v", got)
	}
	if got := Score(nil, nil); got != 0 {
		t.Fatalf("nil inputs must score 0, got %v", got)
	}
}

func TestScore_SumsWeightedCategories(t *testing.T) {
	line := StatLine{PassYards: 250, PassTD: 2, PassInt: 1, RushYards: 40}

	got := Score(line, testRules)

	// rush_yd has no weight in testRules
	assert.InDelta(t, 250*0.04+8-2, got, 1e-9)
}

func TestScore_SkipsNonFiniteProducts(t *testing.T) {
	line := StatLine{Receptions: 6, RecYards: math.Inf(1), RecTD: math.NaN()}

	assert.InDelta(t, 3.0, Score(line, testRules), 1e-9)
}

func TestScore_KickerPenaltyIsNoOp(t *testing.T) {
	rules := Rules{
		FieldGoalsMade40s: 4,
		FieldGoalsMade30s: 3,
		ExtraPointsMade:   1,
		FieldGoalsMissed:  -1,
		ExtraPointsMissed: -1,
	}
	line := StatLine{
		FieldGoalAttempts:  4,
		FieldGoalsMade30s:  1,
		FieldGoalsMade40s:  1,
		ExtraPointAttempts: 3,
		ExtraPointsMade:    2,
	}

	require.InDelta(t, -3.0, kickerPenalty(line, rules), 1e-9)
	assert.InDelta(t, 3+4+2.0, Score(line, rules), 1e-9)
}

func TestKickerPenalty_InsufficientAttemptData(t *testing.T) {
	rules := Rules{FieldGoalsMissed: -1, ExtraPointsMissed: -1}

	assert.Zero(t, kickerPenalty(StatLine{FieldGoalsMade: 2}, rules))
	assert.Zero(t, kickerPenalty(StatLine{FieldGoalAttempts: 2, FieldGoalsMade: 2}, rules))
}

func TestParseStatLine_SkipsBadValues(t *testing.T) {
	line := ParseStatLine(map[string]any{
		"pass_yd":  float64(210),
		"pass_td":  int64(1),
		"rec":      "seven",
		"rec_yd":   nil,
		"gp":       float64(1),
		"rush_yd":  math.NaN(),
		"off_snp":  float64(61),
		"PASS_INT": float64(1),
	})

	assert.Equal(t, StatLine{PassYards: 210, PassTD: 1, PassInt: 1}, line)
}

func TestParseRules_DropsUnknownCategories(t *testing.T) {
	rules := ParseRules(map[string]float64{
		"pass_td":         4,
		"rec":             0.5,
		"some_new_metric": 12,
	})

	assert.Equal(t, Rules{PassTD: 4, Receptions: 0.5}, rules)
}

func TestProjectScore_InProgressBlend(t *testing.T) {
	rules := Rules{RecYards: 1}
	stats := NewFeed([]PlayerLine{{PlayerID: "p1", Team: "MIN", Line: StatLine{RecYards: 4}}})
	projections := NewFeed([]PlayerLine{{PlayerID: "p1", Team: "MIN", Line: StatLine{RecYards: 10}}})
	timing := gameclock.Timing{
		"MIN": {Kickoff: time.Now(), InProgress: true, MinutesRemaining: 30},
	}

	got := ProjectScore([]string{"p1"}, stats, projections, rules, timing)

	assert.InDelta(t, 9.0, got.Projected, 1e-9)
	assert.InDelta(t, 4.0, got.Current, 1e-9)
	require.Len(t, got.Players, 1)
	assert.True(t, got.Players[0].InProgress)
}

func TestProjectScore_NotInProgressUsesFullProjection(t *testing.T) {
	rules := Rules{RecYards: 1}
	stats := NewFeed([]PlayerLine{{PlayerID: "p1", Team: "MIN", Line: StatLine{RecYards: 4}}})
	projections := NewFeed([]PlayerLine{{PlayerID: "p1", Team: "MIN", Line: StatLine{RecYards: 10}}})
	timing := gameclock.Timing{
		"MIN": {Kickoff: time.Now(), InProgress: false, MinutesRemaining: 60},
	}

	got := ProjectScore([]string{"p1"}, stats, projections, rules, timing)

	assert.Equal(t, 10.0, got.Projected)
	assert.Equal(t, 4.0, got.Current)
}

func TestProjectScore_ByeWeekPlayerContributesZero(t *testing.T) {
	rules := Rules{RecYards: 1}
	stats := NewFeed([]PlayerLine{{PlayerID: "p1", Team: "GB", Line: StatLine{RecYards: 7}}})
	projections := NewFeed(nil)

	got := ProjectScore([]string{"bye", EmptySlot, "p1"}, stats, projections, rules, gameclock.Timing{})

	assert.Equal(t, 7.0, got.Current)
	assert.Equal(t, 0.0, got.Projected)
	require.Len(t, got.Players, 1)
	assert.Equal(t, "p1", got.Players[0].PlayerID)
}

func TestProjectScore_OnlyByeWeekPlayers(t *testing.T) {
	got := ProjectScore([]string{"ghost"}, Feed{}, Feed{}, testRules, gameclock.Timing{})

	assert.Zero(t, got.Current)
	assert.Zero(t, got.Projected)
	assert.Empty(t, got.Players)
}

func TestCategories_KnownAndSorted(t *testing.T) {
	all := Categories()
	require.NotEmpty(t, all)
	for i := 1; i < len(all); i++ {
		if all[i-1] >= all[i] {
			t.Fatalf("categories not strictly sorted at %d: %q >= %q", i, all[i-1], all[i])
		}
	}
	assert.True(t, PassTD.Known())
	assert.False(t, CategoryUnknown.Known())
	assert.Equal(t, CategoryUnknown, ParseCategory("not_a_stat"))
}
