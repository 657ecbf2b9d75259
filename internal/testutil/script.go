package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roach88/scorebook/internal/game"
)

// GameID is the id of every fixture game.
const GameID = "game-test"

// Player returns the fixture id for side's nth player: "a1" for the first
// away player, "h3" for the third home player.
func Player(side game.Side, n int) string {
	if side == game.SideHome {
		return fmt.Sprintf("h%d", n)
	}
	return fmt.Sprintf("a%d", n)
}

// Roster returns twelve fixture players for side. Players 1-9 start; 10-12
// are on the bench.
func Roster(side game.Side) []string {
	ids := make([]string, 12)
	for i := range ids {
		ids[i] = Player(side, i+1)
	}
	return ids
}

// NewGame builds a PRE_GAME state with fixture rosters.
func NewGame(t testing.TB, rules game.Rules) *game.State {
	t.Helper()
	s, err := game.NewState(game.NewGameParams{
		GameID:       GameID,
		StartTimeISO: Epoch.Format(time.RFC3339),
		CreatedBy:    "scorer",
		HomeTeamID:   "home",
		AwayTeamID:   "away",
		HomeRoster:   Roster(game.SideHome),
		AwayRoster:   Roster(game.SideAway),
	}, rules)
	require.NoError(t, err)
	return s
}

// Script builds a scripted event log with sequential ids and deterministic
// timestamps.
//
// The same sequence of calls always produces byte-identical events.
type Script struct {
	ids    *game.SequenceGenerator
	clock  *DeterministicClock
	Events []game.Event
}

// NewScript creates an empty script whose event ids are "e-1", "e-2", ...
func NewScript() *Script {
	return &Script{ids: game.NewSequenceGenerator("e"), clock: NewDeterministicClock()}
}

// Event builds the next event without appending it to the log.
func (s *Script) Event(name game.Name, p game.Payload) game.Event {
	return game.Event{
		ID:         s.ids.Generate(),
		GameID:     GameID,
		Name:       name,
		Payload:    p,
		CreatedISO: s.clock.NextISO(),
		CreatedBy:  "scorer",
	}
}

// Add appends the next event and returns it.
func (s *Script) Add(name game.Name, p game.Payload) game.Event {
	ev := s.Event(name, p)
	s.Events = append(s.Events, ev)
	return ev
}

// Lineup is the standard nine-man batting order for side: player n bats
// nth and plays the nth of game.FieldPositions.
func Lineup(side game.Side) game.LineupSet {
	slots := make([]game.LineupEntry, len(game.FieldPositions))
	for i, pos := range game.FieldPositions {
		slots[i] = game.LineupEntry{Slot: i + 1, PlayerID: Player(side, i+1), Position: pos}
	}
	return game.LineupSet{TeamSide: side, Slots: slots}
}

// Defense is the standard defensive alignment matching Lineup.
func Defense(side game.Side) game.DefenseSet {
	def := make(map[game.Position]string, len(game.FieldPositions))
	for i, pos := range game.FieldPositions {
		def[pos] = Player(side, i+1)
	}
	return game.DefenseSet{TeamSide: side, Defense: def}
}

// Opening appends lineups and defenses for both teams followed by
// GAME_STARTED. After it, a1 leads off against h1.
func (s *Script) Opening() *Script {
	for _, side := range []game.Side{game.SideAway, game.SideHome} {
		s.Add(game.EventLineupSet, Lineup(side))
		s.Add(game.EventDefenseSet, Defense(side))
	}
	s.Add(game.EventGameStarted, game.NoPayload{})
	return s
}

// Pitches appends one PITCH event per result.
func (s *Script) Pitches(results ...game.PitchResult) *Script {
	for _, r := range results {
		s.Add(game.EventPitch, game.Pitch{Result: r})
	}
	return s
}

// Bool returns a pointer to b for optional payload flags.
func Bool(b bool) *bool { return &b }
