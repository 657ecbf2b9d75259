package stats

import (
	"maps"
	"slices"
	"strings"

	"github.com/roach88/scorebook/internal/game"
)

// Counters is a sparse set of counter values.
type Counters map[Stat]int

// Entries addresses counters by player id and by team side.
type Entries struct {
	Players map[string]Counters    `json:"players,omitempty"`
	Teams   map[game.Side]Counters `json:"teams,omitempty"`
}

func (e *Entries) player(id string) Counters {
	if e.Players == nil {
		e.Players = map[string]Counters{}
	}
	c, ok := e.Players[id]
	if !ok {
		c = Counters{}
		e.Players[id] = c
	}
	return c
}

func (e *Entries) team(side game.Side) Counters {
	if e.Teams == nil {
		e.Teams = map[game.Side]Counters{}
	}
	c, ok := e.Teams[side]
	if !ok {
		c = Counters{}
		e.Teams[side] = c
	}
	return c
}

func (e Entries) empty() bool {
	for _, c := range e.Players {
		if len(c) > 0 {
			return false
		}
	}
	for _, c := range e.Teams {
		if len(c) > 0 {
			return false
		}
	}
	return true
}

func (e Entries) clone() Entries {
	var out Entries
	if e.Players != nil {
		out.Players = make(map[string]Counters, len(e.Players))
		for id, c := range e.Players {
			out.Players[id] = maps.Clone(c)
		}
	}
	if e.Teams != nil {
		out.Teams = make(map[game.Side]Counters, len(e.Teams))
		for side, c := range e.Teams {
			out.Teams[side] = maps.Clone(c)
		}
	}
	return out
}

// Delta is the sparse box-score change produced by one event. Inc holds
// signed increments; Set holds absolute values applied after Inc.
type Delta struct {
	Inc   Entries  `json:"inc"`
	Set   Entries  `json:"set"`
	Notes []string `json:"notes,omitempty"`
}

// AddPlayer increments a player counter. Zero amounts and empty ids are
// ignored.
func (d *Delta) AddPlayer(id string, s Stat, n int) {
	if n == 0 || id == "" {
		return
	}
	d.Inc.player(id)[s] += n
}

// AddTeam increments a team counter.
func (d *Delta) AddTeam(side game.Side, s Stat, n int) {
	if n == 0 || !side.Valid() {
		return
	}
	d.Inc.team(side)[s] += n
}

// AddBoth increments the same counter for a player and that player's team.
func (d *Delta) AddBoth(id string, side game.Side, s Stat, n int) {
	d.AddPlayer(id, s, n)
	d.AddTeam(side, s, n)
}

// SetPlayer records an absolute player counter value.
func (d *Delta) SetPlayer(id string, s Stat, v int) {
	if id == "" {
		return
	}
	d.Set.player(id)[s] = v
}

// SetTeam records an absolute team counter value.
func (d *Delta) SetTeam(side game.Side, s Stat, v int) {
	if !side.Valid() {
		return
	}
	d.Set.team(side)[s] = v
}

// Note appends a free-text annotation.
func (d *Delta) Note(msg string) {
	d.Notes = append(d.Notes, msg)
}

// Player returns the increment recorded for a player counter.
func (d Delta) Player(id string, s Stat) int {
	return d.Inc.Players[id][s]
}

// Team returns the increment recorded for a team counter.
func (d Delta) Team(side game.Side, s Stat) int {
	return d.Inc.Teams[side][s]
}

// Empty reports whether d changes nothing.
func (d Delta) Empty() bool {
	return d.Inc.empty() && d.Set.empty()
}

// Clone returns a deep copy of d.
func (d Delta) Clone() Delta {
	return Delta{Inc: d.Inc.clone(), Set: d.Set.clone(), Notes: slices.Clone(d.Notes)}
}

// Merge adds other's increments into d and overlays its set values.
func (d *Delta) Merge(other Delta) {
	for id, c := range other.Inc.Players {
		for s, n := range c {
			d.AddPlayer(id, s, n)
		}
	}
	for side, c := range other.Inc.Teams {
		for s, n := range c {
			d.AddTeam(side, s, n)
		}
	}
	for id, c := range other.Set.Players {
		for s, v := range c {
			d.SetPlayer(id, s, v)
		}
	}
	for side, c := range other.Set.Teams {
		for s, v := range c {
			d.SetTeam(side, s, v)
		}
	}
	d.Notes = append(d.Notes, other.Notes...)
}

// Move transfers every increment of group g from player from to player
// to, summing into to and removing the counters from from. Team counters
// are untouched.
func (d *Delta) Move(from, to string, g Group) {
	d.MoveFunc(from, to, func(s Stat) bool { return s.Group() == g })
}

// MoveFunc is Move restricted to the counters match accepts.
func (d *Delta) MoveFunc(from, to string, match func(Stat) bool) {
	if from == to || from == "" || to == "" {
		return
	}
	src := d.Inc.Players[from]
	for s, n := range src {
		if !match(s) {
			continue
		}
		d.AddPlayer(to, s, n)
		delete(src, s)
	}
	if src != nil && len(src) == 0 {
		delete(d.Inc.Players, from)
	}
}

// Paths flattens increments to dotted paths, e.g. "players.p1.batting.H".
func (d Delta) Paths() map[string]int {
	out := map[string]int{}
	for id, c := range d.Inc.Players {
		for s, n := range c {
			out[strings.Join([]string{"players", id, s.Group().String(), s.Name()}, ".")] = n
		}
	}
	for side, c := range d.Inc.Teams {
		for s, n := range c {
			out[strings.Join([]string{"teams", string(side), s.Group().String(), s.Name()}, ".")] = n
		}
	}
	return out
}

// Apply returns prev with d merged in. prev is not modified. Players
// without a line get one with no team side.
func Apply(prev State, d Delta) State {
	next := prev.Clone()
	if next.Players == nil {
		next.Players = map[string]PlayerStats{}
	}
	update := func(id string, fn func(*Counts)) {
		p, ok := next.Players[id]
		if !ok {
			p = PlayerStats{PlayerID: id}
		}
		fn(&p.Stats)
		next.Players[id] = p
	}
	for id, c := range d.Inc.Players {
		update(id, func(counts *Counts) {
			for s, n := range c {
				counts.Add(s, n)
			}
		})
	}
	for side, c := range d.Inc.Teams {
		counts := next.Teams.Of(side)
		for s, n := range c {
			counts.Add(s, n)
		}
	}
	for id, c := range d.Set.Players {
		update(id, func(counts *Counts) {
			for s, v := range c {
				counts[s] = v
			}
		})
	}
	for side, c := range d.Set.Teams {
		counts := next.Teams.Of(side)
		for s, v := range c {
			counts[s] = v
		}
	}
	return next
}
