package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }
func boolPtr(v bool) *bool { return &v }

func TestDefaultRules(t *testing.T) {
	r := DefaultRules()

	require.NoError(t, r.Validate())
	assert.Equal(t, 9, r.Innings)
	assert.Equal(t, 4, r.BallsForWalk)
	assert.Equal(t, 3, r.StrikesForOut)
	assert.Equal(t, 3, r.OutsPerInning)
	assert.True(t, r.PlayExtraInnings)
	assert.False(t, r.AllowTieGames)
	assert.Equal(t, TieBreaker{Type: TieBreakerNone}, r.TieBreaker)
}

func TestRulesValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Rules)
		wantErr string
	}{
		{"zero innings", func(r *Rules) { r.Innings = 0 }, "innings must be >= 1, got 0"},
		{"zero balls", func(r *Rules) { r.BallsForWalk = 0 }, "ballsForWalk must be >= 1, got 0"},
		{"zero strikes", func(r *Rules) { r.StrikesForOut = 0 }, "strikesForOut must be >= 1, got 0"},
		{"zero outs", func(r *Rules) { r.OutsPerInning = 0 }, "outsPerInning must be >= 1, got 0"},
		{"starting balls at walk", func(r *Rules) { r.StartingBalls = 4 }, "startingBalls must be in [0, 4), got 4"},
		{"negative starting balls", func(r *Rules) { r.StartingBalls = -1 }, "startingBalls must be in [0, 4), got -1"},
		{"starting strikes at out", func(r *Rules) { r.StartingStrikes = 3 }, "startingStrikes must be in [0, 3), got 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := DefaultRules()
			tt.mutate(&r)
			err := r.Validate()
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}

	t.Run("softball count", func(t *testing.T) {
		r := DefaultRules()
		r.Innings = 7
		r.StartingBalls = 1
		r.StartingStrikes = 1
		assert.NoError(t, r.Validate())
	})
}

func TestResolveRulesNilOverride(t *testing.T) {
	assert.Equal(t, DefaultRules(), ResolveRules(DefaultRules(), nil))
}

func TestResolveRulesFieldMerge(t *testing.T) {
	r := ResolveRules(DefaultRules(), &Override{
		Innings:          intPtr(7),
		StartingBalls:    intPtr(1),
		PlayExtraInnings: boolPtr(false),
		AllowTieGames:    boolPtr(true),
	})

	assert.Equal(t, 7, r.Innings)
	assert.Equal(t, 1, r.StartingBalls)
	assert.False(t, r.PlayExtraInnings)
	assert.True(t, r.AllowTieGames)
	assert.Equal(t, 4, r.BallsForWalk, "unset fields inherit the league value")
	assert.Equal(t, 3, r.OutsPerInning)
}

func TestResolveRulesTieBreakerDefaults(t *testing.T) {
	itb := TieBreakerInternational
	r := ResolveRules(DefaultRules(), &Override{
		Innings:    intPtr(7),
		TieBreaker: &TieBreakerOverride{Type: &itb},
	})

	tb := r.TieBreaker
	assert.Equal(t, TieBreakerInternational, tb.Type)
	assert.Equal(t, 8, tb.StartInning, "starts the inning after regulation")
	assert.Equal(t, Base2B, tb.RunnerStartsOn)
	assert.Equal(t, RunnerLastBatterPrevInning, tb.RunnerIs)
	require.NotNil(t, tb.Scoring)
	assert.Equal(t, TieBreakerScoring{CountsAsRunForRunner: true, CountsAsRBIForBatter: true}, *tb.Scoring)
}

func TestResolveRulesScoringShallowMerge(t *testing.T) {
	league := DefaultRules()
	league.TieBreaker = TieBreaker{
		Type:        TieBreakerInternational,
		StartInning: 10,
		Scoring:     &TieBreakerScoring{EarnedRunForPitcher: true, CountsAsRunForRunner: true},
	}

	r := ResolveRules(league, &Override{
		TieBreaker: &TieBreakerOverride{
			RunnerStartsOn: func() *Base { b := Base3B; return &b }(),
			Scoring:        &ScoringOverride{CountsAsRBIForBatter: boolPtr(true)},
		},
	})

	tb := r.TieBreaker
	assert.Equal(t, 10, tb.StartInning)
	assert.Equal(t, Base3B, tb.RunnerStartsOn)
	require.NotNil(t, tb.Scoring)
	assert.True(t, tb.Scoring.EarnedRunForPitcher)
	assert.True(t, tb.Scoring.CountsAsRunForRunner)
	assert.True(t, tb.Scoring.CountsAsRBIForBatter)

	// The league scoring block is not aliased.
	assert.False(t, league.TieBreaker.Scoring.CountsAsRBIForBatter)
}

func TestResolveRulesNoneDropsPlacement(t *testing.T) {
	none := TieBreakerNone
	league := DefaultRules()
	league.TieBreaker = TieBreaker{Type: TieBreakerInternational, StartInning: 10, RunnerStartsOn: Base2B}

	r := ResolveRules(league, &Override{TieBreaker: &TieBreakerOverride{Type: &none}})
	assert.Equal(t, TieBreaker{Type: TieBreakerNone}, r.TieBreaker)
}

func TestPlacesTieBreakerRunner(t *testing.T) {
	itb := TieBreakerInternational
	r := ResolveRules(DefaultRules(), &Override{TieBreaker: &TieBreakerOverride{Type: &itb}})

	assert.False(t, r.PlacesTieBreakerRunner(9))
	assert.True(t, r.PlacesTieBreakerRunner(10))
	assert.True(t, r.PlacesTieBreakerRunner(12))

	r.PlayExtraInnings = false
	assert.False(t, r.PlacesTieBreakerRunner(10), "no extra innings, no runner")

	assert.False(t, DefaultRules().PlacesTieBreakerRunner(10))
}
