package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/scorebook/internal/game"
)

func TestScript_SequentialIDsAndTimestamps(t *testing.T) {
	s := NewScript()
	first := s.Add(game.EventGameStarted, game.NoPayload{})
	second := s.Add(game.EventGamePaused, game.NoPayload{})

	assert.Equal(t, "e-1", first.ID)
	assert.Equal(t, "e-2", second.ID)
	assert.Equal(t, "2024-04-01T18:00:01Z", first.CreatedISO)
	assert.Equal(t, "2024-04-01T18:00:02Z", second.CreatedISO)
	assert.Len(t, s.Events, 2)
}

func TestScript_Reproducible(t *testing.T) {
	a := NewScript().Opening().Pitches(game.PitchBall, game.PitchFoul)
	b := NewScript().Opening().Pitches(game.PitchBall, game.PitchFoul)
	assert.Equal(t, a.Events, b.Events)
}

func TestScript_EventDoesNotAppend(t *testing.T) {
	s := NewScript()
	ev := s.Event(game.EventGameStarted, nil)
	assert.Equal(t, "e-1", ev.ID)
	assert.Empty(t, s.Events)
}

func TestOpening_LineupsCoverStarterSlots(t *testing.T) {
	s := NewScript().Opening()
	require.Len(t, s.Events, 5)

	lineup, ok := s.Events[0].Payload.(game.LineupSet)
	require.True(t, ok)
	assert.Equal(t, game.SideAway, lineup.TeamSide)
	assert.Len(t, lineup.Slots, 9)
	assert.Equal(t, "a1", lineup.Slots[0].PlayerID)
	assert.Equal(t, game.PosP, lineup.Slots[0].Position)

	def, ok := s.Events[3].Payload.(game.DefenseSet)
	require.True(t, ok)
	assert.Equal(t, "h2", def.Defense[game.PosC])
	assert.Equal(t, game.EventGameStarted, s.Events[4].Name)
}

func TestNewGame_FixtureRosters(t *testing.T) {
	s := NewGame(t, game.DefaultRules())
	assert.Equal(t, game.StatusPreGame, s.Status)
	assert.Len(t, s.Rosters.Home, 12)
	assert.True(t, s.OnRoster(game.SideAway, "a12"))
	assert.False(t, s.OnRoster(game.SideAway, "h1"))
}
