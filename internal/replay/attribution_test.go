package replay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/scorebook/internal/game"
	"github.com/roach88/scorebook/internal/stats"
)

func ctxWithBatterSub(strikes int) *PAContext {
	return &PAContext{
		BatterStarted:  "a1",
		BatterCurrent:  "a10",
		PitcherStarted: "h1",
		PitcherCurrent: "h1",
		BatterSubs:     []SubSnapshot{{Out: "a1", In: "a10", Count: game.Count{Balls: 1, Strikes: strikes}}},
	}
}

func TestChooseBatter(t *testing.T) {
	tests := []struct {
		name    string
		ctx     *PAContext
		outcome game.Name
		want    string
	}{
		{"no substitution", &PAContext{BatterStarted: "a1", BatterCurrent: "a1"}, game.EventStrikeout, "a1"},
		{"two-strike sub strikes out", ctxWithBatterSub(2), game.EventStrikeout, "a1"},
		{"two-strike sub walks", ctxWithBatterSub(2), game.EventWalk, "a10"},
		{"two-strike sub puts ball in play", ctxWithBatterSub(2), game.EventBallInPlay, "a10"},
		{"one-strike sub strikes out", ctxWithBatterSub(1), game.EventStrikeout, "a10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ChooseBatter(tt.ctx, tt.outcome))
		})
	}
}

func TestChoosePitcher(t *testing.T) {
	at := func(balls, strikes int) *PAContext {
		return &PAContext{
			PitcherStarted: "h1",
			PitcherCurrent: "h10",
			PitcherSubs:    []SubSnapshot{{Out: "h1", In: "h10", Count: game.Count{Balls: balls, Strikes: strikes}}},
		}
	}

	for _, c := range []game.Count{{Balls: 2, Strikes: 0}, {Balls: 2, Strikes: 1}, {Balls: 3, Strikes: 0}, {Balls: 3, Strikes: 1}, {Balls: 3, Strikes: 2}} {
		assert.Equal(t, "h1", ChoosePitcher(at(c.Balls, c.Strikes), game.EventWalk), "walk after change at %d-%d", c.Balls, c.Strikes)
		assert.Equal(t, "h1", ChoosePitcher(at(c.Balls, c.Strikes), game.EventIntentionalWalk))
		assert.Equal(t, "h10", ChoosePitcher(at(c.Balls, c.Strikes), game.EventBallInPlay))
		assert.Equal(t, "h10", ChoosePitcher(at(c.Balls, c.Strikes), game.EventHitByPitch))
	}
	for _, c := range []game.Count{{Balls: 0, Strikes: 0}, {Balls: 1, Strikes: 1}, {Balls: 1, Strikes: 0}, {Balls: 2, Strikes: 2}, {Balls: 0, Strikes: 2}} {
		assert.Equal(t, "h10", ChoosePitcher(at(c.Balls, c.Strikes), game.EventWalk), "walk after change at %d-%d", c.Balls, c.Strikes)
	}
}

func TestChoosePitcher_LastChangeDecides(t *testing.T) {
	ctx := &PAContext{
		PitcherStarted: "h1",
		PitcherCurrent: "h11",
		PitcherSubs: []SubSnapshot{
			{Out: "h1", In: "h10", Count: game.Count{Balls: 3, Strikes: 1}},
			{Out: "h10", In: "h11", Count: game.Count{Balls: 3, Strikes: 2}},
		},
	}
	assert.Equal(t, "h10", ChoosePitcher(ctx, game.EventWalk))
}

func TestPAContext_Clone(t *testing.T) {
	var nilCtx *PAContext
	assert.Nil(t, nilCtx.Clone())

	orig := ctxWithBatterSub(2)
	c := orig.Clone()
	c.BatterSubs[0].Out = "zz"
	assert.Equal(t, "a1", orig.BatterSubs[0].Out)
}

func TestReattribute_KeepsPitchCountsWithThrower(t *testing.T) {
	var d stats.Delta
	d.AddPlayer("h10", stats.PitPitches, 1)
	d.AddPlayer("h10", stats.PitBalls, 1)
	d.AddPlayer("h10", stats.PitBB, 1)
	d.AddPlayer("h10", stats.PitBF, 1)
	d.AddPlayer("a1", stats.BatBB, 1)

	before := &game.State{PA: game.PlateAppearance{Batter: game.BatterRef{PlayerID: "a1"}, PitcherID: "h10"}}
	require.True(t, reattribute(&d, before, "a1", "h1"))

	assert.Equal(t, 1, d.Player("h1", stats.PitBB))
	assert.Equal(t, 1, d.Player("h1", stats.PitBF))
	assert.Equal(t, 0, d.Player("h10", stats.PitBB))
	assert.Equal(t, 1, d.Player("h10", stats.PitPitches))
	assert.Equal(t, 1, d.Player("h10", stats.PitBalls))
	assert.Equal(t, 1, d.Player("a1", stats.BatBB))
}

func TestReattribute_NoChange(t *testing.T) {
	var d stats.Delta
	d.AddPlayer("a1", stats.BatSO, 1)
	before := &game.State{PA: game.PlateAppearance{Batter: game.BatterRef{PlayerID: "a1"}, PitcherID: "h1"}}
	assert.False(t, reattribute(&d, before, "a1", "h1"))
	assert.Equal(t, 1, d.Player("a1", stats.BatSO))
}
