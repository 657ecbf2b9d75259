package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/scorebook/internal/game"
	"github.com/roach88/scorebook/internal/testutil"
)

func TestGameFile_LogAssignsIDs(t *testing.T) {
	g := &GameFile{Events: []map[string]any{
		{"name": "PITCH", "payload": map[string]any{"result": "BALL"}},
		{"eventId": "custom", "name": "PITCH", "payload": map[string]any{"result": "SWINGING_STRIKE"}},
	}}

	events, err := g.Log(5)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, "e-6", events[0].ID)
	assert.Equal(t, "custom", events[1].ID)
	assert.Equal(t, testutil.GameID, events[0].GameID)
	assert.Equal(t, "scorer", events[0].CreatedBy)
	assert.Equal(t, game.Pitch{Result: game.PitchBall}, events[0].Payload)

	// Timestamps continue after the offset.
	clock := testutil.NewDeterministicClock()
	for range 5 {
		clock.Next()
	}
	assert.Equal(t, clock.NextISO(), events[0].CreatedISO)

	// The input maps are not modified.
	_, ok := g.Events[0]["eventId"]
	assert.False(t, ok)
}

func TestGameFile_LogRejectsMissingPayload(t *testing.T) {
	g := &GameFile{Events: []map[string]any{{"name": "PITCH"}}}
	_, err := g.Log(0)
	assert.ErrorContains(t, err, "game events")
	assert.ErrorContains(t, err, "payload is required")
}

func TestGameFile_InitialDefaults(t *testing.T) {
	g := &GameFile{}
	s, err := g.Initial(game.DefaultRules())
	require.NoError(t, err)

	assert.Equal(t, testutil.GameID, s.Meta.GameID)
	assert.Equal(t, game.StatusPreGame, s.Status)
	assert.Equal(t, testutil.Roster(game.SideHome), s.Rosters.Home)
	assert.Equal(t, testutil.Roster(game.SideAway), s.Rosters.Away)
	assert.Equal(t, "home", s.Teams.Home.TeamID)
}

func TestGameFile_InitialCustom(t *testing.T) {
	g := &GameFile{
		GameID: "g-42",
		Home:   TeamSpec{TeamID: "hawks", Roster: []string{"x1", "x2"}},
	}
	s, err := g.Initial(game.DefaultRules())
	require.NoError(t, err)
	assert.Equal(t, "g-42", s.Meta.GameID)
	assert.Equal(t, "hawks", s.Teams.Home.TeamID)
	assert.Equal(t, []string{"x1", "x2"}, s.Rosters.Home)
}

func TestLoadGameFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`game_id: g-1
events:
  - name: PITCH
    payload: {result: BALL}
`), 0o644))

	g, err := LoadGameFile(path)
	require.NoError(t, err)
	assert.Equal(t, "g-1", g.ID())
	require.Len(t, g.Events, 1)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("gameid: g-1\n"), 0o644))
	_, err = LoadGameFile(bad)
	assert.ErrorContains(t, err, "failed to parse game file")
}

func TestDecodePayload(t *testing.T) {
	p, err := DecodePayload(game.EventPitch, map[string]any{"result": "FOUL"})
	require.NoError(t, err)
	assert.Equal(t, game.Pitch{Result: game.PitchFoul}, p)
}
