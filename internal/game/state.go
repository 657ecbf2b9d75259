package game

import (
	"maps"
	"slices"
)

// StateVersion is the schema version stamped on new states.
const StateVersion = 1

// LineupSlots is the fixed number of lineup slots per team (nine batting
// slots plus DH).
const LineupSlots = 10

// State is the complete game state at a point in the event log.
type State struct {
	Version         int               `json:"version"`
	Meta            Meta              `json:"meta"`
	Offense         Side              `json:"offense"`
	Defense         Side              `json:"defense"`
	Bases           Bases             `json:"bases"`
	PA              PlateAppearance   `json:"pa"`
	Teams           BySide[Team]      `json:"teams"`
	Status          Status            `json:"gameStatus"`
	Rosters         BySide[[]string]  `json:"roster"`
	Inning          Inning            `json:"inning"`
	AppliedEventIDs []string          `json:"appliedEventIds"`
	LastEventID     string            `json:"lastEventId,omitempty"`
	LastUpdatedISO  string            `json:"lastUpdatedIso,omitempty"`
	Linescore       BySide[Linescore] `json:"linescore"`
}

type Meta struct {
	GameID       string `json:"gameId"`
	StartTimeISO string `json:"startTimeIso,omitempty"`
	CreatedBy    string `json:"createdBy,omitempty"`
}

// Bases maps each occupiable base to its runner. Empty string means empty.
type Bases struct {
	First  string `json:"1B,omitempty"`
	Second string `json:"2B,omitempty"`
	Third  string `json:"3B,omitempty"`
}

// At returns the runner on b, or "" when b is empty or not occupiable.
func (b Bases) At(base Base) string {
	switch base {
	case Base1B:
		return b.First
	case Base2B:
		return b.Second
	case Base3B:
		return b.Third
	}
	return ""
}

// Set places id on base. Setting "" clears it.
func (b *Bases) Set(base Base, id string) {
	switch base {
	case Base1B:
		b.First = id
	case Base2B:
		b.Second = id
	case Base3B:
		b.Third = id
	}
}

// Find returns the base id occupies.
func (b Bases) Find(id string) (Base, bool) {
	if id == "" {
		return "", false
	}
	for _, base := range OccupiableBases {
		if b.At(base) == id {
			return base, true
		}
	}
	return "", false
}

// Occupied counts runners on base.
func (b Bases) Occupied() int {
	n := 0
	for _, base := range OccupiableBases {
		if b.At(base) != "" {
			n++
		}
	}
	return n
}

func (b Bases) Loaded() bool { return b.Occupied() == 3 }

// Runner is a player standing on a base.
type Runner struct {
	Base     Base
	PlayerID string
}

// Runners lists occupied bases in running order.
func (b Bases) Runners() []Runner {
	var out []Runner
	for _, base := range OccupiableBases {
		if id := b.At(base); id != "" {
			out = append(out, Runner{Base: base, PlayerID: id})
		}
	}
	return out
}

type PlateAppearance struct {
	AtBatID    string    `json:"atBatId"`
	Batter     BatterRef `json:"batter"`
	PitcherID  string    `json:"pitcherId"`
	PitchCount int       `json:"pitchCountInPa"`
}

// BatterRef identifies the current batter. Slot is 1-based; 0 means the
// batter has not been resolved from a lineup yet.
type BatterRef struct {
	Side     Side   `json:"teamSide"`
	Slot     int    `json:"slot"`
	PlayerID string `json:"playerId"`
}

type Team struct {
	TeamID  string  `json:"teamId"`
	Lineup  Lineup  `json:"lineup"`
	OnField OnField `json:"onField"`
	Score   Score   `json:"score"`
}

// Lineup is the batting order. NextBatterIndex is the zero-based index of
// the slot currently due up.
type Lineup struct {
	NextBatterIndex int          `json:"nextBatterIndex"`
	Slots           []LineupSlot `json:"slots"`
}

type LineupSlot struct {
	Slot                int        `json:"slot"`
	ActiveOccupantIndex int        `json:"activeOccupantIndex"`
	Occupants           []Occupant `json:"occupants"`
}

// Active returns the slot's active occupant.
func (s LineupSlot) Active() (Occupant, bool) {
	if s.ActiveOccupantIndex < 0 || s.ActiveOccupantIndex >= len(s.Occupants) {
		return Occupant{}, false
	}
	return s.Occupants[s.ActiveOccupantIndex], true
}

// Occupant is one player's tenure in a lineup slot.
type Occupant struct {
	PlayerID         string   `json:"playerId"`
	EnteredEventID   string   `json:"enteredEventId"`
	ExitedEventID    string   `json:"exitedEventId,omitempty"`
	SubType          SubType  `json:"subType"`
	ReplacedPlayerID string   `json:"replacedPlayerId,omitempty"`
	Role             Role     `json:"role"`
	Position         Position `json:"position,omitempty"`
}

// ActiveIndex returns the zero-based index of the slot whose active
// occupant is playerID.
func (l Lineup) ActiveIndex(playerID string) (int, bool) {
	for i, slot := range l.Slots {
		if occ, ok := slot.Active(); ok && occ.PlayerID == playerID {
			return i, true
		}
	}
	return 0, false
}

type OnField struct {
	Defense  map[Position]string `json:"defense"`
	Pitchers []PitcherStint      `json:"pitchers"`
}

// PitcherStint is one pitcher's interval on the mound. An empty
// ExitedEventID means the stint is open.
type PitcherStint struct {
	PlayerID         string `json:"playerId"`
	EnteredEventID   string `json:"enteredEventId"`
	ExitedEventID    string `json:"exitedEventId,omitempty"`
	ReplacedPlayerID string `json:"replacedPlayerId,omitempty"`
}

type Score struct {
	Runs   int `json:"runs"`
	Hits   int `json:"hits"`
	Errors int `json:"errors"`
	LOB    int `json:"lob"`
}

type Inning struct {
	Number int   `json:"inningNumber"`
	Half   Half  `json:"half"`
	Outs   int   `json:"outs"`
	Count  Count `json:"count"`

	// PlacedRunnerID is the runner put on base by the tie-breaker at the
	// start of this half inning.
	PlacedRunnerID string `json:"placedRunnerId,omitempty"`
}

type Count struct {
	Balls   int `json:"balls"`
	Strikes int `json:"strikes"`
}

// Linescore holds runs per inning; index 0 is the first inning.
type Linescore struct {
	RunsByInning []int `json:"runsByInning"`
}

// Total sums the linescore.
func (l Linescore) Total() int {
	total := 0
	for _, r := range l.RunsByInning {
		total += r
	}
	return total
}

// HalfInningKey identifies a half inning, e.g. "3-BOTTOM".
type HalfInningKey struct {
	Inning int  `json:"inning"`
	Half   Half `json:"half"`
}

// HalfInning returns the key of the half inning in progress.
func (s *State) HalfInning() HalfInningKey {
	return HalfInningKey{Inning: s.Inning.Number, Half: s.Inning.Half}
}

// OnRoster reports whether id is rostered for side.
func (s *State) OnRoster(side Side, id string) bool {
	return id != "" && slices.Contains(s.Rosters.Get(side), id)
}

// Team returns the team for side.
func (s *State) Team(side Side) *Team {
	return s.Teams.Of(side)
}

// Clone returns a deep copy of s.
func (s *State) Clone() *State {
	c := *s
	c.Teams = BySide[Team]{Home: s.Teams.Home.clone(), Away: s.Teams.Away.clone()}
	c.Rosters = BySide[[]string]{Home: slices.Clone(s.Rosters.Home), Away: slices.Clone(s.Rosters.Away)}
	c.AppliedEventIDs = slices.Clone(s.AppliedEventIDs)
	c.Linescore = BySide[Linescore]{
		Home: Linescore{RunsByInning: slices.Clone(s.Linescore.Home.RunsByInning)},
		Away: Linescore{RunsByInning: slices.Clone(s.Linescore.Away.RunsByInning)},
	}
	return &c
}

func (t Team) clone() Team {
	c := t
	c.Lineup.Slots = slices.Clone(t.Lineup.Slots)
	for i := range c.Lineup.Slots {
		c.Lineup.Slots[i].Occupants = slices.Clone(t.Lineup.Slots[i].Occupants)
	}
	c.OnField.Defense = maps.Clone(t.OnField.Defense)
	c.OnField.Pitchers = slices.Clone(t.OnField.Pitchers)
	return c
}
