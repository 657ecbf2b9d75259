package replay_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/scorebook/internal/game"
	"github.com/roach88/scorebook/internal/replay"
	"github.com/roach88/scorebook/internal/stats"
	"github.com/roach88/scorebook/internal/testutil"
)

func groundout(batter string) game.BallInPlay {
	return game.BallInPlay{
		BatterID:     batter,
		BatterResult: game.ResultOut,
		Outs: []game.OutDetail{{
			OutNumber: 1,
			RunnerID:  batter,
			How:       game.OutForce,
			Where:     game.Base1B,
			PutoutBy:  game.FielderRef{Pos: game.Pos1B, PlayerID: "h3"},
			Assists:   []game.FielderRef{{Pos: game.PosSS, PlayerID: "h6"}},
		}},
		Destinations: []game.RunnerDestination{{ParticipantID: batter, From: game.BaseHome, Final: game.FinalOut}},
	}
}

// patchLog is the opening, a groundout by a1 (e-6) and a walk to a2.
func patchLog() (*testutil.Script, game.Event) {
	sc := testutil.NewScript().Opening()
	target := sc.Add(game.EventBallInPlay, groundout("a1"))
	sc.Add(game.EventWalk, award("a2", "h1"))
	return sc, target
}

func TestPatch_ScoringEditSucceeds(t *testing.T) {
	rules := game.DefaultRules()
	initial := testutil.NewGame(t, rules)
	sc, target := patchLog()

	before, err := replay.Rebuild(initial, rules, sc.Events)
	require.NoError(t, err)

	bip := groundout("a1")
	bip.Errors = []game.FieldingError{{Type: game.ErrorThrowing, FielderPos: game.PosSS}}
	replacement := target
	replacement.Payload = bip

	res, err := replay.Patch(initial, rules, sc.Events, target.ID, replacement)
	require.NoError(t, err)

	assert.Equal(t, replay.Lock(before.State), replay.Lock(res.State))
	assert.Equal(t, 1, res.State.Teams.Home.Score.Errors)
	assert.Equal(t, 1, res.Stats.Player("h6").Get(stats.FldE))
	assert.Equal(t, 0, before.Stats.Player("h6").Get(stats.FldE))
	assert.Equal(t, bip, res.Events[5].Payload)

	// The input log is untouched.
	assert.Equal(t, groundout("a1"), sc.Events[5].Payload)
}

func TestPatch_StateEditRejected(t *testing.T) {
	rules := game.DefaultRules()
	initial := testutil.NewGame(t, rules)
	sc, target := patchLog()

	replacement := target
	replacement.Payload = game.BallInPlay{
		BatterID:     "a1",
		BatterResult: game.Result1B,
		Destinations: []game.RunnerDestination{{ParticipantID: "a1", From: game.BaseHome, Final: game.Final1B}},
	}

	obs := &recorder{}
	_, err := replay.Patch(initial, rules, sc.Events, target.ID, replacement, replay.WithObserver(obs))
	require.Error(t, err)
	assert.True(t, replay.IsLockedStateError(err))

	var re *replay.Error
	require.ErrorAs(t, err, &re)
	assert.Equal(t, target.ID, re.EventID)
	assert.Equal(t, 5, re.Index)
	assert.Contains(t, re.Messages, "outs: 1 -> 0")
	assert.Contains(t, re.Messages, "bases.1B:  -> a1")
	assert.Equal(t, []replay.ErrorCode{replay.ErrCodeLockedState}, obs.failures)
}

func TestPatch_Failures(t *testing.T) {
	rules := game.DefaultRules()
	initial := testutil.NewGame(t, rules)
	sc, target := patchLog()

	t.Run("unknown event", func(t *testing.T) {
		_, err := replay.Patch(initial, rules, sc.Events, "nope", target)
		assert.True(t, replay.IsNotFoundError(err))
		assert.EqualError(t, err, "EVENT_NOT_FOUND: patch: eventId 'nope' not found")
	})

	t.Run("replacement id differs", func(t *testing.T) {
		replacement := target
		replacement.ID = "e-99"
		_, err := replay.Patch(initial, rules, sc.Events, target.ID, replacement)
		assert.Equal(t, replay.ErrCodeIDMismatch, replay.CodeOf(err))
	})

	t.Run("replacement invalid", func(t *testing.T) {
		replacement := target
		replacement.Payload = groundout("a2")
		_, err := replay.Patch(initial, rules, sc.Events, target.ID, replacement)
		assert.Equal(t, replay.ErrCodeReplacement, replay.CodeOf(err))
	})

	t.Run("broken prefix", func(t *testing.T) {
		events := append([]game.Event{}, sc.Events...)
		events[4] = game.Event{ID: events[4].ID, Name: game.EventPitch, Payload: game.Pitch{Result: game.PitchBall}}
		_, err := replay.Patch(initial, rules, events, target.ID, target)
		assert.Equal(t, replay.ErrCodePrefix, replay.CodeOf(err))
	})

	t.Run("rebuild fails after splice", func(t *testing.T) {
		// The walk after the target names a1, who is no longer due up.
		events := append([]game.Event{}, sc.Events...)
		events[6].Payload = award("a1", "h1")
		_, err := replay.Patch(initial, rules, events, target.ID, target)
		assert.Equal(t, replay.ErrCodeRejected, replay.CodeOf(err))
	})
}

func TestLockedSignature_Diff(t *testing.T) {
	a := replay.LockedSignature{Outs: 1, First: "a1", Status: game.StatusInProgress}
	b := a
	assert.Empty(t, a.Diff(b))

	b.Outs = 2
	b.Status = game.StatusFinal
	assert.Equal(t, []string{"outs: 1 -> 2", "gameStatus: IN_PROGRESS -> FINAL"}, a.Diff(b))
}

func TestRebuild_MatchesReconcile(t *testing.T) {
	rules := game.DefaultRules()
	initial := testutil.NewGame(t, rules)
	events := longGame()

	full, err := replay.New(initial, rules).Reconcile(events)
	require.NoError(t, err)
	rebuilt, err := replay.Rebuild(initial, rules, events)
	require.NoError(t, err)

	assert.Equal(t, full.State, rebuilt.State)
	assert.Equal(t, full.Stats, rebuilt.Stats)
	assert.Empty(t, rebuilt.Checkpoints)
}
