package engine_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/scorebook/internal/engine"
	"github.com/roach88/scorebook/internal/game"
	"github.com/roach88/scorebook/internal/stats"
	"github.com/roach88/scorebook/internal/testutil"
)

// run applies every event, failing the test on the first rejection.
func run(t *testing.T, rules game.Rules, s *game.State, events []game.Event) (*game.State, stats.State) {
	t.Helper()
	st := stats.NewState(s)
	for _, ev := range events {
		res := engine.Apply(s, rules, ev)
		require.True(t, res.OK(), "event %s (%s) rejected: %v", ev.ID, ev.Name, res.Errors)
		s = res.State
		st = stats.Apply(st, res.Delta)
		requireInvariants(t, rules, s)
	}
	return s, st
}

// requireInvariants checks the properties every reachable state holds.
func requireInvariants(t *testing.T, rules game.Rules, s *game.State) {
	t.Helper()
	require.GreaterOrEqual(t, s.Inning.Outs, 0)
	require.LessOrEqual(t, s.Inning.Outs, rules.OutsPerInning)

	seen := map[string]bool{}
	for _, r := range s.Bases.Runners() {
		require.False(t, seen[r.PlayerID], "runner %s on two bases", r.PlayerID)
		seen[r.PlayerID] = true
	}

	for _, side := range []game.Side{game.SideHome, game.SideAway} {
		require.Equal(t, s.Teams.Get(side).Score.Runs, s.Linescore.Get(side).Total(), "%s linescore total", side)
	}
}

// started returns a state where a1 leads off against h1.
func started(t *testing.T, rules game.Rules) (*game.State, *testutil.Script) {
	t.Helper()
	script := testutil.NewScript().Opening()
	s, _ := run(t, rules, testutil.NewGame(t, rules), script.Events)
	script.Events = nil
	return s, script
}

func award(batter, pitcher string) game.PlateAward {
	return game.PlateAward{BatterID: batter, PitcherID: pitcher}
}

func dest(id string, from game.Base, final game.Final) game.RunnerDestination {
	return game.RunnerDestination{ParticipantID: id, From: from, Final: final}
}
