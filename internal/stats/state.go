package stats

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"strings"

	"github.com/roach88/scorebook/internal/game"
)

// DomainStats is the hash domain for stats fingerprints.
const DomainStats = "scorebook/stats/v1"

// Counts is one bundle of batting, running, fielding and pitching
// counters, indexed by Stat.
type Counts [numStats]int

func (c Counts) Get(s Stat) int { return c[s] }

func (c *Counts) Add(s Stat, n int) { c[s] += n }

// MarshalJSON nests counters by group: {"batting":{"PA":4,...},...}.
func (c Counts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for gi, g := range Groups {
		if gi > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%q:{", g.String())
		for si, s := range GroupStats(g) {
			if si > 0 {
				buf.WriteByte(',')
			}
			fmt.Fprintf(&buf, "%q:%d", s.Name(), c[s])
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (c *Counts) UnmarshalJSON(data []byte) error {
	var nested map[string]map[string]int
	if err := json.Unmarshal(data, &nested); err != nil {
		return err
	}
	var out Counts
	for groupName, counters := range nested {
		g, ok := ParseGroup(groupName)
		if !ok {
			return fmt.Errorf("unknown stat group %q", groupName)
		}
		for name, v := range counters {
			s, ok := ParseStat(g, name)
			if !ok {
				return fmt.Errorf("unknown stat %s.%s", groupName, name)
			}
			out[s] = v
		}
	}
	*c = out
	return nil
}

// PlayerStats is one player's box-score line.
type PlayerStats struct {
	PlayerID string    `json:"playerId"`
	TeamSide game.Side `json:"teamSide,omitempty"`
	Stats    Counts    `json:"stats"`
}

// State is the accumulated box score of a game. It changes only through
// Apply.
type State struct {
	Players map[string]PlayerStats `json:"players"`
	Teams   game.BySide[Counts]    `json:"teams"`
}

// NewState creates a zeroed box score with one line for every player found
// on a roster, in a lineup or in a defensive assignment of gs.
func NewState(gs *game.State) State {
	st := State{Players: map[string]PlayerStats{}}
	add := func(side game.Side, id string) {
		if id == "" {
			return
		}
		if _, ok := st.Players[id]; ok {
			return
		}
		st.Players[id] = PlayerStats{PlayerID: id, TeamSide: side}
	}
	for _, side := range []game.Side{game.SideHome, game.SideAway} {
		for _, id := range gs.Rosters.Get(side) {
			add(side, id)
		}
		team := gs.Teams.Get(side)
		for _, slot := range team.Lineup.Slots {
			for _, occ := range slot.Occupants {
				add(side, occ.PlayerID)
			}
		}
		for _, pos := range game.Positions {
			add(side, team.OnField.Defense[pos])
		}
	}
	return st
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	return State{Players: maps.Clone(s.Players), Teams: s.Teams}
}

// Player returns the counters of id, zeroed when id has no line.
func (s State) Player(id string) Counts {
	return s.Players[id].Stats
}

// Team returns the team counters for side.
func (s State) Team(side game.Side) Counts {
	return s.Teams.Get(side)
}

// Lookup resolves a dotted path such as "players.p1.batting.H" or
// "teams.HOME.pitching.SO".
func (s State) Lookup(path string) (int, error) {
	parts := strings.Split(path, ".")
	if len(parts) != 4 {
		return 0, fmt.Errorf("stat path %q: want 4 segments", path)
	}
	g, ok := ParseGroup(parts[2])
	if !ok {
		return 0, fmt.Errorf("stat path %q: unknown group %q", path, parts[2])
	}
	stat, ok := ParseStat(g, parts[3])
	if !ok {
		return 0, fmt.Errorf("stat path %q: unknown stat %q", path, parts[3])
	}
	switch parts[0] {
	case "players":
		p, ok := s.Players[parts[1]]
		if !ok {
			return 0, fmt.Errorf("stat path %q: unknown player %q", path, parts[1])
		}
		return p.Stats[stat], nil
	case "teams":
		side := game.Side(parts[1])
		if !side.Valid() {
			return 0, fmt.Errorf("stat path %q: unknown side %q", path, parts[1])
		}
		return s.Teams.Get(side)[stat], nil
	}
	return 0, fmt.Errorf("stat path %q: must start with players or teams", path)
}

// Fingerprint returns a stable digest of s.
func Fingerprint(s State) (string, error) {
	canonical, err := game.MarshalCanonical(s)
	if err != nil {
		return "", fmt.Errorf("stats.Fingerprint: %w", err)
	}
	return game.HashWithDomain(DomainStats, canonical), nil
}
