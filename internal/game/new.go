package game

import (
	"fmt"
	"slices"
)

// FirstAtBatID is the at-bat id of a new game's first plate appearance.
const FirstAtBatID = "ab_1"

// NewGameParams describes a game before any event is applied.
type NewGameParams struct {
	GameID       string
	StartTimeISO string
	CreatedBy    string
	HomeTeamID   string
	AwayTeamID   string
	HomeRoster   []string
	AwayRoster   []string
}

// NewState builds the replay root for a game: PRE_GAME, top of the first
// with the away team batting, empty bases and lineups, zeroed scores.
func NewState(p NewGameParams, rules Rules) (*State, error) {
	if p.GameID == "" {
		return nil, fmt.Errorf("game id is required")
	}
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("rules: %w", err)
	}
	rosters := BySide[[]string]{Home: p.HomeRoster, Away: p.AwayRoster}
	for _, side := range []Side{SideHome, SideAway} {
		roster := rosters.Get(side)
		seen := make(map[string]bool, len(roster))
		for _, id := range roster {
			if id == "" {
				return nil, fmt.Errorf("%s roster: empty player id", side)
			}
			if seen[id] {
				return nil, fmt.Errorf("%s roster: duplicate player %q", side, id)
			}
			seen[id] = true
		}
	}
	for _, id := range p.HomeRoster {
		if slices.Contains(p.AwayRoster, id) {
			return nil, fmt.Errorf("player %q is on both rosters", id)
		}
	}

	s := &State{
		Version: StateVersion,
		Meta: Meta{
			GameID:       p.GameID,
			StartTimeISO: p.StartTimeISO,
			CreatedBy:    p.CreatedBy,
		},
		Offense: SideAway,
		Defense: SideHome,
		PA: PlateAppearance{
			AtBatID: FirstAtBatID,
			Batter:  BatterRef{Side: SideAway},
		},
		Teams: BySide[Team]{
			Home: newTeam(p.HomeTeamID),
			Away: newTeam(p.AwayTeamID),
		},
		Status: StatusPreGame,
		Rosters: BySide[[]string]{
			Home: slices.Clone(p.HomeRoster),
			Away: slices.Clone(p.AwayRoster),
		},
		Inning: Inning{
			Number: 1,
			Half:   HalfTop,
			Count:  Count{Balls: rules.StartingBalls, Strikes: rules.StartingStrikes},
		},
		AppliedEventIDs: []string{},
		Linescore: BySide[Linescore]{
			Home: Linescore{RunsByInning: make([]int, rules.Innings)},
			Away: Linescore{RunsByInning: make([]int, rules.Innings)},
		},
	}
	return s, nil
}

func newTeam(id string) Team {
	slots := make([]LineupSlot, LineupSlots)
	for i := range slots {
		slots[i] = LineupSlot{Slot: i + 1}
	}
	return Team{
		TeamID: id,
		Lineup: Lineup{Slots: slots},
		OnField: OnField{
			Defense:  map[Position]string{},
			Pitchers: []PitcherStint{},
		},
	}
}
