package engine

import (
	"slices"

	"github.com/roach88/scorebook/internal/game"
	"github.com/roach88/scorebook/internal/stats"
)

// Result is the outcome of Apply. On rejection State is the input state,
// Delta is empty and Errors holds the validator messages.
type Result struct {
	State  *game.State
	Delta  stats.Delta
	Errors []string

	code  ErrorCode
	event game.Event
}

// OK reports whether the event was applied.
func (r Result) OK() bool { return len(r.Errors) == 0 }

// Err returns the rejection as a *ValidationError, or nil.
func (r Result) Err() error {
	return Validation{Code: r.code, Errors: r.Errors}.Err(r.event)
}

// Apply validates ev against s and, if accepted, returns the next state and
// the statistics delta ev implies. s is never modified.
func Apply(s *game.State, rules game.Rules, ev game.Event) Result {
	if v := Validate(s, rules, ev); !v.OK() {
		return Result{State: s, Errors: v.Errors, code: v.Code, event: ev}
	}

	delta := stats.Compute(s, rules, ev)

	next := s.Clone()
	next.AppliedEventIDs = append(next.AppliedEventIDs, ev.ID)
	next.LastEventID = ev.ID
	next.LastUpdatedISO = ev.CreatedISO

	t := &transition{s: next, rules: rules, delta: &delta, ev: ev}
	t.dispatch()
	return Result{State: next, Delta: delta, event: ev}
}

// transition mutates the cloned state for one accepted event.
type transition struct {
	s     *game.State
	rules game.Rules
	delta *stats.Delta
	ev    game.Event
}

func (t *transition) dispatch() {
	s := t.s
	switch p := t.ev.Payload.(type) {
	case nil, game.NoPayload:
		t.status()
	case game.LineupSet:
		t.lineupSet(p)
	case game.DefenseSet:
		t.defenseSet(p)
	case game.AtBatStart:
		t.atBatStart(p)
	case game.InningAdvance:
		t.inningAdvance(p)
	case game.Pitch:
		t.pitch(p.Result)
		t.endHalfIfNeeded()
	case game.PlateAward:
		if t.ev.Name == game.EventStrikeout {
			s.Inning.Outs++
			startNextPlateAppearance(s, t.rules)
			t.endHalfIfNeeded()
			return
		}
		t.awardFirst(p.BatterID)
		startNextPlateAppearance(s, t.rules)
	case game.CatcherInterference:
		t.awardFirst(p.BatterID)
		s.Team(s.Defense).Score.Errors++
		startNextPlateAppearance(s, t.rules)
	case game.DroppedThirdStrike:
		t.droppedThirdStrike(p)
	case game.BallInPlay:
		t.ballInPlay(p)
	case game.RunnerMove:
		t.advanceRunner(p.RunnerID, p.From, p.To)
	case game.CaughtStealing:
		t.runnerOut(p.RunnerID, p.From)
	case game.Pickoff:
		if *p.IsOut {
			t.runnerOut(p.RunnerID, p.AtBase)
		}
	case game.AppealPlay:
		if *p.IsOut {
			t.runnerOut(p.RunnerID, p.AtBase)
		}
	case game.Balk:
		t.balk(p)
	case game.MisplayedPitch:
		t.misplayedPitch(p)
	case game.RunScored:
		if p.TeamSide == s.Offense {
			if b, ok := s.Bases.Find(p.RunnerID); ok {
				s.Bases.Set(b, "")
			}
		}
		recordRun(s, p.TeamSide, 1)
		endGameOnWalkOff(s, t.rules)
	case game.ErrorCharged:
		s.Team(p.TeamSide).Score.Errors++
	case game.PitchingChange:
		t.pitchingChange(p)
	case game.Substitution:
		t.substitution(p)
	}
}

func (t *transition) status() {
	switch t.ev.Name {
	case game.EventGameStarted, game.EventGameResumed:
		t.s.Status = game.StatusInProgress
	case game.EventGamePaused:
		t.s.Status = game.StatusPaused
	case game.EventGameFinal:
		t.s.Status = game.StatusFinal
	}
}

func (t *transition) endHalfIfNeeded() {
	advanceHalfInning(t.s, t.rules, t.delta)
}

func (t *transition) scored(n int) {
	if n <= 0 {
		return
	}
	recordRun(t.s, t.s.Offense, n)
	endGameOnWalkOff(t.s, t.rules)
}

func (t *transition) lineupSet(p game.LineupSet) {
	s := t.s
	team := s.Team(p.TeamSide)
	slots := make([]game.LineupSlot, game.LineupSlots)
	for i := range slots {
		slots[i] = game.LineupSlot{Slot: i + 1, Occupants: []game.Occupant{}}
	}
	for _, e := range p.Slots {
		slots[e.Slot-1].Occupants = []game.Occupant{{
			PlayerID:       e.PlayerID,
			EnteredEventID: t.ev.ID,
			SubType:        game.SubNone,
			Role:           game.RoleStarter,
			Position:       e.Position,
		}}
	}
	team.Lineup = game.Lineup{NextBatterIndex: 0, Slots: slots}

	if p.TeamSide == s.Offense && s.PA.Batter.PlayerID == "" {
		resolveBatter(s)
	}
}

func (t *transition) defenseSet(p game.DefenseSet) {
	s := t.s
	field := &s.Team(p.TeamSide).OnField
	if field.Defense == nil {
		field.Defense = make(map[game.Position]string, len(p.Defense))
	}
	for pos, id := range p.Defense {
		if id != "" {
			field.Defense[pos] = id
		}
	}

	if pitcher := field.Defense[game.PosP]; pitcher != "" {
		open := openStint(field.Pitchers)
		switch {
		case open < 0:
			field.Pitchers = append(field.Pitchers, game.PitcherStint{PlayerID: pitcher, EnteredEventID: t.ev.ID})
		case field.Pitchers[open].PlayerID != pitcher:
			field.Pitchers[open].ExitedEventID = t.ev.ID
			field.Pitchers = append(field.Pitchers, game.PitcherStint{
				PlayerID:         pitcher,
				EnteredEventID:   t.ev.ID,
				ReplacedPlayerID: field.Pitchers[open].PlayerID,
			})
		}
		if p.TeamSide == s.Defense && s.PA.PitcherID == "" {
			s.PA.PitcherID = pitcher
		}
	}
}

// openStint returns the index of the stint with no exit, or -1.
func openStint(stints []game.PitcherStint) int {
	return slices.IndexFunc(stints, func(p game.PitcherStint) bool { return p.ExitedEventID == "" })
}

func (t *transition) atBatStart(p game.AtBatStart) {
	s := t.s
	s.PA.AtBatID = p.PAID
	s.PA.Batter.Side = s.Offense
	s.PA.Batter.PlayerID = p.BatterID
	lineup := &s.Team(s.Offense).Lineup
	if i, ok := lineup.ActiveIndex(p.BatterID); ok {
		lineup.NextBatterIndex = i
		s.PA.Batter.Slot = lineup.Slots[i].Slot
	}
	s.PA.PitcherID = p.PitcherID
	resetCount(s, t.rules)
}

func (t *transition) inningAdvance(p game.InningAdvance) {
	s := t.s
	s.Inning.Number = p.ToInning
	s.Inning.Half = p.ToHalf
	s.Inning.Outs = 0
	s.Inning.PlacedRunnerID = ""
	s.Bases = game.Bases{}
	if p.ToHalf == game.HalfTop {
		s.Offense, s.Defense = game.SideAway, game.SideHome
	} else {
		s.Offense, s.Defense = game.SideHome, game.SideAway
	}
	ensureLinescore(s, p.ToInning)
	resolveBatter(s)
	s.PA.PitcherID = currentPitcher(s)
	resetCount(s, t.rules)
}

func (t *transition) pitch(result game.PitchResult) {
	s, r := t.s, t.rules
	s.PA.PitchCount++

	switch {
	case result.IsBall():
		s.Inning.Count.Balls++
	case result.IsStrike():
		s.Inning.Count.Strikes++
	case result.IsFoul():
		s.Inning.Count.Strikes = clamp(s.Inning.Count.Strikes+1, 0, max(0, r.StrikesForOut-1))
	case result == game.PitchHBP:
		t.awardFirst(s.PA.Batter.PlayerID)
		startNextPlateAppearance(s, r)
		return
	}

	switch {
	case s.Inning.Count.Balls >= r.BallsForWalk:
		t.awardFirst(s.PA.Batter.PlayerID)
		startNextPlateAppearance(s, r)
	case s.Inning.Count.Strikes >= r.StrikesForOut:
		s.Inning.Outs++
		startNextPlateAppearance(s, r)
	default:
		normalizeCount(s, r)
	}
}

// awardFirst puts the batter on first. Runners advance one base only when
// forced; with the bases loaded the runner from third scores.
func (t *transition) awardFirst(batter string) {
	b := &t.s.Bases
	switch {
	case b.First == "":
	case b.Second == "":
		b.Second = b.First
	case b.Third == "":
		b.Third, b.Second = b.Second, b.First
	default:
		b.Third, b.Second = b.Second, b.First
		t.scored(1)
	}
	b.First = batter
}

// placeDestinations rebuilds the bases from a destination list. STAYS
// resolves to the participant's origin; HOME and OUT leave no one on base.
func placeDestinations(s *game.State, dests []game.RunnerDestination) {
	s.Bases = game.Bases{}
	for _, d := range dests {
		if base, ok := d.Final.Resolve(d.From); ok {
			s.Bases.Set(base, d.ParticipantID)
		}
	}
}

// runsOn counts the runs a play scores: the attribution list when present,
// otherwise every destination resolving to HOME.
func runsOn(runs []game.RunAttribution, dests []game.RunnerDestination) int {
	if len(runs) > 0 {
		return len(runs)
	}
	n := 0
	for _, d := range dests {
		if d.Final == game.FinalHome {
			n++
		}
	}
	return n
}

func (t *transition) addOuts(n int) {
	t.s.Inning.Outs = clamp(t.s.Inning.Outs+n, 0, t.rules.OutsPerInning)
}

func (t *transition) droppedThirdStrike(p game.DroppedThirdStrike) {
	s := t.s
	s.PA.PitchCount++

	if len(p.Destinations) > 0 {
		placeDestinations(s, p.Destinations)
		t.scored(runsOn(p.Runs, p.Destinations))
	}
	if *p.BatterSafe {
		s.Bases.First = p.BatterID
	} else {
		t.addOuts(1)
	}

	startNextPlateAppearance(s, t.rules)
	t.endHalfIfNeeded()
}

func (t *transition) ballInPlay(p game.BallInPlay) {
	s := t.s
	t.addOuts(len(p.Outs))
	if p.BatterResult.IsHit() {
		s.Team(s.Offense).Score.Hits++
	}
	s.Team(s.Defense).Score.Errors += len(p.Errors)

	placeDestinations(s, p.Destinations)
	t.scored(runsOn(p.Runs, p.Destinations))

	startNextPlateAppearance(s, t.rules)
	t.endHalfIfNeeded()
}

// advanceRunner moves a runner between bases. Reaching home scores.
func (t *transition) advanceRunner(runner string, from, to game.Base) {
	s := t.s
	if s.Bases.At(from) == runner {
		s.Bases.Set(from, "")
	}
	if to == game.BaseHome {
		t.scored(1)
		return
	}
	s.Bases.Set(to, runner)
}

func (t *transition) runnerOut(runner string, at game.Base) {
	if t.s.Bases.At(at) == runner {
		t.s.Bases.Set(at, "")
	}
	t.addOuts(1)
	t.endHalfIfNeeded()
}

func (t *transition) balk(p game.Balk) {
	s := t.s
	scored := 0
	if s.Bases.Third != "" {
		scored = 1
		if len(p.Runs) > 0 {
			scored = len(p.Runs)
		}
	}
	s.Bases = game.Bases{Second: s.Bases.First, Third: s.Bases.Second}
	t.scored(scored)
}

func (t *transition) misplayedPitch(p game.MisplayedPitch) {
	outs := len(p.Outs)
	t.addOuts(outs)
	if p.Destinations != nil {
		placeDestinations(t.s, p.Destinations)
		t.scored(runsOn(p.Runs, p.Destinations))
	}
	if outs > 0 {
		t.endHalfIfNeeded()
	}
}

func (t *transition) pitchingChange(p game.PitchingChange) {
	s := t.s
	field := &s.Team(p.TeamSide).OnField
	if field.Defense == nil {
		field.Defense = make(map[game.Position]string)
	}
	field.Defense[game.PosP] = p.PitcherIn

	if i := slices.IndexFunc(field.Pitchers, func(st game.PitcherStint) bool {
		return st.PlayerID == p.PitcherOut && st.ExitedEventID == ""
	}); i >= 0 {
		field.Pitchers[i].ExitedEventID = t.ev.ID
	}
	if !slices.ContainsFunc(field.Pitchers, func(st game.PitcherStint) bool {
		return st.PlayerID == p.PitcherIn && st.ExitedEventID == ""
	}) {
		field.Pitchers = append(field.Pitchers, game.PitcherStint{
			PlayerID:         p.PitcherIn,
			EnteredEventID:   t.ev.ID,
			ReplacedPlayerID: p.PitcherOut,
		})
	}

	if s.Defense == p.TeamSide {
		s.PA.PitcherID = p.PitcherIn
	}
}

func (t *transition) substitution(p game.Substitution) {
	s := t.s
	switch t.ev.Name {
	case game.EventSubstitutionBatter:
		t.replaceInLineup(p, game.SubPinchHitter, "")
	case game.EventSubstitutionRunner:
		if b, ok := s.Bases.Find(p.PlayerOut); ok {
			s.Bases.Set(b, p.PlayerIn)
		}
		t.replaceInLineup(p, game.SubPinchRunner, "")
	case game.EventSubstitutionFielder:
		defense := s.Team(p.TeamSide).OnField.Defense
		var replaced game.Position
		for _, pos := range game.Positions {
			if defense[pos] == p.PlayerOut {
				defense[pos] = p.PlayerIn
				replaced = pos
			}
		}
		t.replaceInLineup(p, game.SubSub, replaced)
	}
}

// replaceInLineup closes the outgoing player's tenure in their slot and
// appends the incoming player as the slot's active occupant. A player not
// in the lineup leaves the lineup untouched.
func (t *transition) replaceInLineup(p game.Substitution, sub game.SubType, pos game.Position) {
	s := t.s
	lineup := &s.Team(p.TeamSide).Lineup
	i, ok := lineup.ActiveIndex(p.PlayerOut)
	if !ok {
		return
	}
	slot := &lineup.Slots[i]
	slot.Occupants[slot.ActiveOccupantIndex].ExitedEventID = t.ev.ID
	slot.Occupants = append(slot.Occupants, game.Occupant{
		PlayerID:         p.PlayerIn,
		EnteredEventID:   t.ev.ID,
		SubType:          sub,
		ReplacedPlayerID: p.PlayerOut,
		Role:             game.RoleSub,
		Position:         pos,
	})
	slot.ActiveOccupantIndex = len(slot.Occupants) - 1

	if s.PA.Batter.Side == p.TeamSide && s.PA.Batter.PlayerID == p.PlayerOut {
		s.PA.Batter.PlayerID = p.PlayerIn
	}
}
