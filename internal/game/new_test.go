package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewState(t *testing.T) {
	rules := DefaultRules()
	rules.Innings = 7
	rules.StartingBalls = 1

	s, err := NewState(NewGameParams{
		GameID:       "g1",
		StartTimeISO: "2024-04-01T18:00:00Z",
		CreatedBy:    "scorer",
		HomeTeamID:   "home",
		AwayTeamID:   "away",
		HomeRoster:   []string{"h1"},
		AwayRoster:   []string{"a1"},
	}, rules)
	require.NoError(t, err)

	assert.Equal(t, StateVersion, s.Version)
	assert.Equal(t, "g1", s.Meta.GameID)
	assert.Equal(t, StatusPreGame, s.Status)
	assert.Equal(t, HalfInningKey{Inning: 1, Half: HalfTop}, s.HalfInning())
	assert.Equal(t, SideAway, s.Offense)
	assert.Equal(t, SideHome, s.Defense)
	assert.Equal(t, Count{Balls: 1}, s.Inning.Count)
	assert.Zero(t, s.Bases.Occupied())
	assert.Equal(t, FirstAtBatID, s.PA.AtBatID)
	assert.Equal(t, SideAway, s.PA.Batter.Side)
	assert.Empty(t, s.AppliedEventIDs)
	assert.NotNil(t, s.AppliedEventIDs)

	assert.Len(t, s.Linescore.Home.RunsByInning, 7)
	assert.Len(t, s.Linescore.Away.RunsByInning, 7)

	for _, side := range []Side{SideHome, SideAway} {
		team := s.Team(side)
		require.Len(t, team.Lineup.Slots, LineupSlots)
		assert.Equal(t, 1, team.Lineup.Slots[0].Slot)
		assert.Equal(t, LineupSlots, team.Lineup.Slots[LineupSlots-1].Slot)
		assert.Empty(t, team.OnField.Defense)
		assert.Equal(t, Score{}, team.Score)
	}
	assert.Equal(t, "home", s.Teams.Home.TeamID)
	assert.True(t, s.OnRoster(SideHome, "h1"))
	assert.False(t, s.OnRoster(SideHome, "a1"))
	assert.False(t, s.OnRoster(SideAway, ""))
}

func TestNewStateErrors(t *testing.T) {
	badRules := DefaultRules()
	badRules.Innings = 0

	tests := []struct {
		name    string
		params  NewGameParams
		rules   Rules
		wantErr string
	}{
		{
			name:    "missing game id",
			params:  NewGameParams{},
			rules:   DefaultRules(),
			wantErr: "game id is required",
		},
		{
			name:    "invalid rules",
			params:  NewGameParams{GameID: "g1"},
			rules:   badRules,
			wantErr: "rules: innings must be >= 1, got 0",
		},
		{
			name:    "empty player id",
			params:  NewGameParams{GameID: "g1", HomeRoster: []string{"h1", ""}},
			rules:   DefaultRules(),
			wantErr: "HOME roster: empty player id",
		},
		{
			name:    "duplicate player",
			params:  NewGameParams{GameID: "g1", AwayRoster: []string{"a1", "a1"}},
			rules:   DefaultRules(),
			wantErr: `AWAY roster: duplicate player "a1"`,
		},
		{
			name:    "player on both rosters",
			params:  NewGameParams{GameID: "g1", HomeRoster: []string{"x"}, AwayRoster: []string{"x"}},
			rules:   DefaultRules(),
			wantErr: `player "x" is on both rosters`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewState(tt.params, tt.rules)
			require.Error(t, err)
			assert.Nil(t, s)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestNewStateCopiesRosters(t *testing.T) {
	roster := []string{"h1", "h2"}
	s, err := NewState(NewGameParams{GameID: "g1", HomeRoster: roster}, DefaultRules())
	require.NoError(t, err)

	roster[0] = "changed"
	assert.Equal(t, []string{"h1", "h2"}, s.Rosters.Home)
}
