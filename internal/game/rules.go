package game

import "fmt"

// TieBreakerType selects extra-inning runner placement.
type TieBreakerType string

const (
	TieBreakerNone          TieBreakerType = "NONE"
	TieBreakerGhostRunner   TieBreakerType = "GHOST_RUNNER"
	TieBreakerInternational TieBreakerType = "INTERNATIONAL_TIE_BREAKER"
)

// RunnerIdentity selects who is placed on base by the tie-breaker.
type RunnerIdentity string

const (
	RunnerLastBatterPrevInning RunnerIdentity = "LAST_BATTER_PREV_INNING"
	RunnerPlayerOfChoice       RunnerIdentity = "PLAYER_OF_CHOICE"
)

// Rules are the effective rules for one game. They are resolved once from
// league defaults and an optional override and never mutated afterwards.
type Rules struct {
	Innings          int        `json:"innings"`
	BallsForWalk     int        `json:"ballsForWalk"`
	StrikesForOut    int        `json:"strikesForOut"`
	OutsPerInning    int        `json:"outsPerInning"`
	StartingBalls    int        `json:"startingBalls"`
	StartingStrikes  int        `json:"startingStrikes"`
	PlayExtraInnings bool       `json:"playExtraInnings"`
	AllowTieGames    bool       `json:"allowTieGames"`
	TieBreaker       TieBreaker `json:"tieBreaker"`
}

type TieBreaker struct {
	Type           TieBreakerType     `json:"type"`
	StartInning    int                `json:"startInning,omitempty"`
	RunnerStartsOn Base               `json:"runnerStartsOn,omitempty"`
	RunnerIs       RunnerIdentity     `json:"runnerIs,omitempty"`
	Scoring        *TieBreakerScoring `json:"scoring,omitempty"`
}

type TieBreakerScoring struct {
	EarnedRunForPitcher  bool `json:"earnedRunForPitcher"`
	CountsAsRunForRunner bool `json:"countsAsRunForRunner"`
	CountsAsRBIForBatter bool `json:"countsAsRbiForBatter"`
}

// DefaultRules returns nine-inning baseball rules with no tie-breaker.
func DefaultRules() Rules {
	return Rules{
		Innings:          9,
		BallsForWalk:     4,
		StrikesForOut:    3,
		OutsPerInning:    3,
		PlayExtraInnings: true,
		TieBreaker:       TieBreaker{Type: TieBreakerNone},
	}
}

// Validate checks the numeric bounds the engine relies on.
func (r Rules) Validate() error {
	switch {
	case r.Innings < 1:
		return fmt.Errorf("innings must be >= 1, got %d", r.Innings)
	case r.BallsForWalk < 1:
		return fmt.Errorf("ballsForWalk must be >= 1, got %d", r.BallsForWalk)
	case r.StrikesForOut < 1:
		return fmt.Errorf("strikesForOut must be >= 1, got %d", r.StrikesForOut)
	case r.OutsPerInning < 1:
		return fmt.Errorf("outsPerInning must be >= 1, got %d", r.OutsPerInning)
	case r.StartingBalls < 0 || r.StartingBalls >= r.BallsForWalk:
		return fmt.Errorf("startingBalls must be in [0, %d), got %d", r.BallsForWalk, r.StartingBalls)
	case r.StartingStrikes < 0 || r.StartingStrikes >= r.StrikesForOut:
		return fmt.Errorf("startingStrikes must be in [0, %d), got %d", r.StrikesForOut, r.StartingStrikes)
	}
	return nil
}

// Override carries per-game rule overrides. Nil fields inherit the league
// value.
type Override struct {
	Innings          *int                `json:"innings,omitempty"`
	BallsForWalk     *int                `json:"ballsForWalk,omitempty"`
	StrikesForOut    *int                `json:"strikesForOut,omitempty"`
	OutsPerInning    *int                `json:"outsPerInning,omitempty"`
	StartingBalls    *int                `json:"startingBalls,omitempty"`
	StartingStrikes  *int                `json:"startingStrikes,omitempty"`
	PlayExtraInnings *bool               `json:"playExtraInnings,omitempty"`
	AllowTieGames    *bool               `json:"allowTieGames,omitempty"`
	TieBreaker       *TieBreakerOverride `json:"tieBreaker,omitempty"`
}

type TieBreakerOverride struct {
	Type           *TieBreakerType  `json:"type,omitempty"`
	StartInning    *int             `json:"startInning,omitempty"`
	RunnerStartsOn *Base            `json:"runnerStartsOn,omitempty"`
	RunnerIs       *RunnerIdentity  `json:"runnerIs,omitempty"`
	Scoring        *ScoringOverride `json:"scoring,omitempty"`
}

type ScoringOverride struct {
	EarnedRunForPitcher  *bool `json:"earnedRunForPitcher,omitempty"`
	CountsAsRunForRunner *bool `json:"countsAsRunForRunner,omitempty"`
	CountsAsRBIForBatter *bool `json:"countsAsRbiForBatter,omitempty"`
}

// ResolveRules merges a game override onto league settings field by field.
// The tie-breaker and its scoring block merge shallowly. An
// INTERNATIONAL_TIE_BREAKER with unset fields starts the inning after
// regulation with the previous inning's last batter on second; any other
// type without placement resolves to a bare TieBreaker{Type: NONE}.
func ResolveRules(league Rules, override *Override) Rules {
	r := league
	if o := override; o != nil {
		setInt(&r.Innings, o.Innings)
		setInt(&r.BallsForWalk, o.BallsForWalk)
		setInt(&r.StrikesForOut, o.StrikesForOut)
		setInt(&r.OutsPerInning, o.OutsPerInning)
		setInt(&r.StartingBalls, o.StartingBalls)
		setInt(&r.StartingStrikes, o.StartingStrikes)
		setBool(&r.PlayExtraInnings, o.PlayExtraInnings)
		setBool(&r.AllowTieGames, o.AllowTieGames)
		if tb := o.TieBreaker; tb != nil {
			if tb.Type != nil {
				r.TieBreaker.Type = *tb.Type
			}
			setInt(&r.TieBreaker.StartInning, tb.StartInning)
			if tb.RunnerStartsOn != nil {
				r.TieBreaker.RunnerStartsOn = *tb.RunnerStartsOn
			}
			if tb.RunnerIs != nil {
				r.TieBreaker.RunnerIs = *tb.RunnerIs
			}
			if tb.Scoring != nil {
				s := defaultScoring()
				if r.TieBreaker.Scoring != nil {
					s = *r.TieBreaker.Scoring
				}
				setBool(&s.EarnedRunForPitcher, tb.Scoring.EarnedRunForPitcher)
				setBool(&s.CountsAsRunForRunner, tb.Scoring.CountsAsRunForRunner)
				setBool(&s.CountsAsRBIForBatter, tb.Scoring.CountsAsRBIForBatter)
				r.TieBreaker.Scoring = &s
			}
		}
	}

	switch r.TieBreaker.Type {
	case TieBreakerInternational, TieBreakerGhostRunner:
		tb := r.TieBreaker
		if tb.StartInning == 0 {
			tb.StartInning = r.Innings + 1
		}
		if tb.RunnerStartsOn == "" {
			tb.RunnerStartsOn = Base2B
		}
		if tb.RunnerIs == "" {
			tb.RunnerIs = RunnerLastBatterPrevInning
		}
		if tb.Scoring == nil {
			s := defaultScoring()
			tb.Scoring = &s
		} else {
			s := *tb.Scoring
			tb.Scoring = &s
		}
		r.TieBreaker = tb
	default:
		r.TieBreaker = TieBreaker{Type: TieBreakerNone}
	}
	return r
}

func defaultScoring() TieBreakerScoring {
	return TieBreakerScoring{CountsAsRunForRunner: true, CountsAsRBIForBatter: true}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

// PlacesTieBreakerRunner reports whether a runner is placed to start inning.
func (r Rules) PlacesTieBreakerRunner(inning int) bool {
	tb := r.TieBreaker
	if tb.Type != TieBreakerInternational && tb.Type != TieBreakerGhostRunner {
		return false
	}
	start := tb.StartInning
	if start == 0 {
		start = r.Innings + 1
	}
	return r.PlayExtraInnings && inning >= start
}
