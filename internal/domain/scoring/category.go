package scoring

import (
	"sort"
	"strings"
)

// Category is a stat category reported by the stat and projection feeds and
// weighted by league scoring settings.
type Category string

// CategoryUnknown is the fallback for any name outside the known set. Stat
// lines and rules never carry it.
const CategoryUnknown Category = ""

const (
	PassYards         Category = "pass_yd"
	PassTD            Category = "pass_td"
	PassInt           Category = "pass_int"
	PassTwoPoint      Category = "pass_2pt"
	PassAttempts      Category = "pass_att"
	PassCompletions   Category = "pass_cmp"
	PassIncomplete    Category = "pass_inc"
	PassSacked        Category = "pass_sack"
	PassFirstDown     Category = "pass_fd"
	Bonus300PassYards Category = "bonus_pass_yd_300"
	Bonus400PassYards Category = "bonus_pass_yd_400"

	RushYards         Category = "rush_yd"
	RushTD            Category = "rush_td"
	RushTwoPoint      Category = "rush_2pt"
	RushAttempts      Category = "rush_att"
	RushFirstDown     Category = "rush_fd"
	Bonus100RushYards Category = "bonus_rush_yd_100"
	Bonus200RushYards Category = "bonus_rush_yd_200"

	Receptions       Category = "rec"
	RecYards         Category = "rec_yd"
	RecTD            Category = "rec_td"
	RecTwoPoint      Category = "rec_2pt"
	RecFirstDown     Category = "rec_fd"
	BonusRecTE       Category = "bonus_rec_te"
	BonusRecRB       Category = "bonus_rec_rb"
	BonusRecWR       Category = "bonus_rec_wr"
	Bonus100RecYards Category = "bonus_rec_yd_100"
	Bonus200RecYards Category = "bonus_rec_yd_200"

	Fumbles          Category = "fum"
	FumblesLost      Category = "fum_lost"
	FumbleRecoveryTD Category = "fum_rec_td"

	FieldGoalsMade        Category = "fgm"
	FieldGoalsMade0to19   Category = "fgm_0_19"
	FieldGoalsMade20s     Category = "fgm_20_29"
	FieldGoalsMade30s     Category = "fgm_30_39"
	FieldGoalsMade40s     Category = "fgm_40_49"
	FieldGoalsMade50p     Category = "fgm_50p"
	FieldGoalAttempts     Category = "fga"
	FieldGoalsMissed      Category = "fgmiss"
	FieldGoalsMissed0to19 Category = "fgmiss_0_19"
	FieldGoalsMissed20s   Category = "fgmiss_20_29"
	FieldGoalsMissed30s   Category = "fgmiss_30_39"
	FieldGoalsMissed40s   Category = "fgmiss_40_49"
	FieldGoalsMissed50p   Category = "fgmiss_50p"
	ExtraPointsMade       Category = "xpm"
	ExtraPointAttempts    Category = "xpa"
	ExtraPointsMissed     Category = "xpmiss"

	DefTD             Category = "def_td"
	DefSack           Category = "sack"
	DefInt            Category = "int"
	DefFumbleRec      Category = "fum_rec"
	DefForcedFumble   Category = "ff"
	DefSafety         Category = "safe"
	DefBlockedKick    Category = "blk_kick"
	DefTwoPointReturn Category = "def_2pt"
	DefSpecialTeamsTD Category = "def_st_td"
	DefSpecialTeamsFR Category = "def_st_fum_rec"
	DefSpecialTeamsFF Category = "def_st_ff"
	SpecialTeamsTD    Category = "st_td"
	SpecialTeamsFF    Category = "st_ff"
	SpecialTeamsFR    Category = "st_fum_rec"

	PointsAllowed0      Category = "pts_allow_0"
	PointsAllowed1to6   Category = "pts_allow_1_6"
	PointsAllowed7to13  Category = "pts_allow_7_13"
	PointsAllowed14to20 Category = "pts_allow_14_20"
	PointsAllowed21to27 Category = "pts_allow_21_27"
	PointsAllowed28to34 Category = "pts_allow_28_34"
	PointsAllowed35p    Category = "pts_allow_35p"

	YardsAllowed0to99    Category = "yds_allow_0_100"
	YardsAllowed100to199 Category = "yds_allow_100_199"
	YardsAllowed200to299 Category = "yds_allow_200_299"
	YardsAllowed300to349 Category = "yds_allow_300_349"
	YardsAllowed350to399 Category = "yds_allow_350_399"
	YardsAllowed400to449 Category = "yds_allow_400_449"
	YardsAllowed450to499 Category = "yds_allow_450_499"
	YardsAllowed500to549 Category = "yds_allow_500_549"
	YardsAllowed550p     Category = "yds_allow_550p"

	IDPTackle       Category = "idp_tkl"
	IDPTackleSolo   Category = "idp_tkl_solo"
	IDPTackleAssist Category = "idp_tkl_ast"
	IDPSack         Category = "idp_sack"
	IDPInt          Category = "idp_int"
	IDPForcedFumble Category = "idp_ff"
	IDPPassDefended Category = "idp_pass_def"
)

var allCategories = []Category{
	PassYards,
	PassTD,
	PassInt,
	PassTwoPoint,
	PassAttempts,
	PassCompletions,
	PassIncomplete,
	PassSacked,
	PassFirstDown,
	Bonus300PassYards,
	Bonus400PassYards,
	RushYards,
	RushTD,
	RushTwoPoint,
	RushAttempts,
	RushFirstDown,
	Bonus100RushYards,
	Bonus200RushYards,
	Receptions,
	RecYards,
	RecTD,
	RecTwoPoint,
	RecFirstDown,
	BonusRecTE,
	BonusRecRB,
	BonusRecWR,
	Bonus100RecYards,
	Bonus200RecYards,
	Fumbles,
	FumblesLost,
	FumbleRecoveryTD,
	FieldGoalsMade,
	FieldGoalsMade0to19,
	FieldGoalsMade20s,
	FieldGoalsMade30s,
	FieldGoalsMade40s,
	FieldGoalsMade50p,
	FieldGoalAttempts,
	FieldGoalsMissed,
	FieldGoalsMissed0to19,
	FieldGoalsMissed20s,
	FieldGoalsMissed30s,
	FieldGoalsMissed40s,
	FieldGoalsMissed50p,
	ExtraPointsMade,
	ExtraPointAttempts,
	ExtraPointsMissed,
	DefTD,
	DefSack,
	DefInt,
	DefFumbleRec,
	DefForcedFumble,
	DefSafety,
	DefBlockedKick,
	DefTwoPointReturn,
	DefSpecialTeamsTD,
	DefSpecialTeamsFR,
	DefSpecialTeamsFF,
	SpecialTeamsTD,
	SpecialTeamsFF,
	SpecialTeamsFR,
	PointsAllowed0,
	PointsAllowed1to6,
	PointsAllowed7to13,
	PointsAllowed14to20,
	PointsAllowed21to27,
	PointsAllowed28to34,
	PointsAllowed35p,
	YardsAllowed0to99,
	YardsAllowed100to199,
	YardsAllowed200to299,
	YardsAllowed300to349,
	YardsAllowed350to399,
	YardsAllowed400to449,
	YardsAllowed450to499,
	YardsAllowed500to549,
	YardsAllowed550p,
	IDPTackle,
	IDPTackleSolo,
	IDPTackleAssist,
	IDPSack,
	IDPInt,
	IDPForcedFumble,
	IDPPassDefended,
}

var knownCategories = func() map[Category]struct{} {
	out := make(map[Category]struct{}, len(allCategories))
	for _, c := range allCategories {
		out[c] = struct{}{}
	}
	return out
}()

// ParseCategory maps a feed or settings key onto the known set.
func ParseCategory(name string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := knownCategories[c]; ok {
		return c
	}
	return CategoryUnknown
}

func (c Category) Known() bool {
	_, ok := knownCategories[c]
	return ok
}

// Categories returns the known set in lexical order.
func Categories() []Category {
	out := make([]Category, len(allCategories))
	copy(out, allCategories)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
