package engine

import (
	"fmt"
	"slices"

	"github.com/roach88/scorebook/internal/game"
)

// Validation is the outcome of Validate. It is all-or-nothing: an event
// with any error is rejected as a whole.
type Validation struct {
	Code   ErrorCode
	Errors []string
}

// OK reports whether the event was accepted.
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// Err returns the rejection as a *ValidationError, or nil when accepted.
func (v Validation) Err(ev game.Event) error {
	if v.OK() {
		return nil
	}
	return &ValidationError{Code: v.Code, EventID: ev.ID, Name: ev.Name, Errors: slices.Clone(v.Errors)}
}

// statusAllows lists the event kinds permitted outside IN_PROGRESS. A
// status missing from the map forbids every event.
var statusAllows = map[game.Status][]game.Name{
	game.StatusPreGame:   {game.EventGameStarted, game.EventGameFinal, game.EventLineupSet, game.EventDefenseSet},
	game.StatusPaused:    {game.EventGameResumed, game.EventGameFinal},
	game.StatusSuspended: {game.EventGameResumed, game.EventGameFinal},
}

// Validate decides whether ev may be applied to s. It never mutates s.
func Validate(s *game.State, rules game.Rules, ev game.Event) Validation {
	if !slices.Contains(game.Names, ev.Name) {
		return Validation{
			Code:   ErrCodeUnsupported,
			Errors: []string{fmt.Sprintf("Unsupported event '%s' (engine cannot apply it yet)", ev.Name)},
		}
	}

	c := &checker{s: s, rules: rules, name: ev.Name}
	if ev.ID == "" {
		c.errf("event.eventId must be a string")
	}

	if s.Status != game.StatusInProgress {
		if !slices.Contains(statusAllows[s.Status], ev.Name) {
			return Validation{
				Code:   ErrCodePolicy,
				Errors: []string{fmt.Sprintf("Event '%s' is not allowed while gameStatus is %s", ev.Name, s.Status)},
			}
		}
	}

	if !game.PayloadMatches(ev.Name, ev.Payload) {
		c.errf("%s: payload is missing or has the wrong shape", ev.Name)
		return c.result()
	}

	switch p := ev.Payload.(type) {
	case game.LineupSet:
		c.lineupSet(p)
	case game.DefenseSet:
		c.defenseSet(p)
	case game.AtBatStart:
		c.atBatStart(p)
	case game.InningAdvance:
		if p.ToInning < 1 {
			c.errf("INNING_ADVANCE: to_inning_number must be >= 1")
		}
		if limit := max(rules.Innings, s.Inning.Number+1); p.ToInning > limit {
			c.errf("INNING_ADVANCE: to_inning_number must be <= %d", limit)
		}
		if !p.ToHalf.Valid() {
			c.errf("INNING_ADVANCE: to_half must be TOP or BOTTOM")
		}
	case game.Pitch:
		if !p.Result.Valid() {
			c.errf("PITCH: unknown result '%s'", p.Result)
		}
	case game.PlateAward:
		c.batterPitcher(p.BatterID, p.PitcherID)
	case game.CatcherInterference:
		c.catcherInterference(p)
	case game.DroppedThirdStrike:
		c.droppedThirdStrike(p)
	case game.BallInPlay:
		c.ballInPlay(p)
	case game.RunnerMove:
		c.runnerMove(p)
	case game.CaughtStealing:
		c.caughtStealing(p)
	case game.Pickoff:
		c.pickoff(p)
	case game.Balk:
		if p.PitcherID == "" {
			c.errf("BALK.payload.pitcher_id must be string")
		}
		c.runs(p.Runs, "BALK.payload.runs")
	case game.MisplayedPitch:
		c.misplayedPitch(p)
	case game.AppealPlay:
		c.appealPlay(p)
	case game.RunScored:
		if !p.TeamSide.Valid() {
			c.errf("RUN_SCORED: teamSide must be 'HOME' or 'AWAY'")
		}
		if p.RunnerID == "" {
			c.errf("RUN_SCORED.payload: missing required field 'runner_id'")
		}
	case game.ErrorCharged:
		if !p.TeamSide.Valid() {
			c.errf("ERROR_CHARGED: teamSide must be 'HOME' or 'AWAY'")
		}
		if p.FielderPos != "" && !p.FielderPos.Valid() {
			c.errf("ERROR_CHARGED: unknown fielder_pos '%s'", p.FielderPos)
		}
	case game.Substitution:
		c.substitution(p)
	case game.PitchingChange:
		c.pitchingChange(p)
	}
	return c.result()
}

type checker struct {
	s     *game.State
	rules game.Rules
	name  game.Name
	errs  []string
}

func (c *checker) errf(format string, args ...any) {
	c.errs = append(c.errs, fmt.Sprintf(format, args...))
}

func (c *checker) result() Validation {
	if len(c.errs) == 0 {
		return Validation{}
	}
	return Validation{Code: ErrCodeInvalid, Errors: c.errs}
}

func (c *checker) lineupSet(p game.LineupSet) {
	if !p.TeamSide.Valid() {
		c.errf("LINEUP_SET: teamSide must be 'HOME' or 'AWAY'")
		return
	}
	if len(p.Slots) == 0 {
		c.errf("LINEUP_SET: slots must be a non-empty array")
		return
	}

	seenSlots := make(map[int]bool)
	seenPlayers := make(map[string]bool)
	for _, e := range p.Slots {
		if e.Slot < 1 || e.Slot > game.LineupSlots {
			c.errf("LINEUP_SET: invalid slot '%d' (must be 1..%d)", e.Slot, game.LineupSlots)
		} else if seenSlots[e.Slot] {
			c.errf("LINEUP_SET: duplicate slot '%d'", e.Slot)
		}
		seenSlots[e.Slot] = true

		if e.PlayerID == "" {
			c.errf("LINEUP_SET.slots[]: missing required field 'player_id'")
			continue
		}
		if seenPlayers[e.PlayerID] {
			c.errf("LINEUP_SET: duplicate player_id '%s' in lineup", e.PlayerID)
		}
		seenPlayers[e.PlayerID] = true
		if !c.s.OnRoster(p.TeamSide, e.PlayerID) {
			c.errf("LINEUP_SET: player_id '%s' is not on %s roster", e.PlayerID, p.TeamSide)
		}
		if e.Position != "" && !e.Position.Valid() {
			c.errf("LINEUP_SET: unknown position '%s' for player '%s'", e.Position, e.PlayerID)
		}
	}

	for slot := 1; slot <= 9; slot++ {
		if !seenSlots[slot] {
			c.errf("LINEUP_SET: missing required starter slot '%d'", slot)
		}
	}
}

func (c *checker) defenseSet(p game.DefenseSet) {
	if !p.TeamSide.Valid() {
		c.errf("DEFENSE_SET: teamSide must be 'HOME' or 'AWAY'")
		return
	}
	if len(p.Defense) == 0 {
		c.errf("DEFENSE_SET: defense must be an object mapping positions -> playerId")
		return
	}

	seen := make(map[string]bool)
	for _, pos := range game.FieldPositions {
		id := p.Defense[pos]
		if id == "" {
			c.errf("DEFENSE_SET: missing required position '%s'", pos)
			continue
		}
		if !c.s.OnRoster(p.TeamSide, id) {
			c.errf("DEFENSE_SET: player '%s' at %s is not on %s roster", id, pos, p.TeamSide)
		}
		if seen[id] {
			c.errf("DEFENSE_SET: player '%s' assigned to multiple fielding positions", id)
		}
		seen[id] = true
	}

	if dh, ok := p.Defense[game.PosDH]; ok && !c.s.OnRoster(p.TeamSide, dh) {
		c.errf("DEFENSE_SET: DH '%s' is not on %s roster", dh, p.TeamSide)
	}

	// Sorted for a stable error order.
	var unknown []string
	for pos := range p.Defense {
		if !pos.Valid() {
			unknown = append(unknown, string(pos))
		}
	}
	slices.Sort(unknown)
	for _, pos := range unknown {
		c.errf("DEFENSE_SET: unknown position '%s'", pos)
	}
}

func (c *checker) atBatStart(p game.AtBatStart) {
	c.required(p.PAID, "pa_id")
	c.required(p.BatterID, "batter_id")
	c.required(p.PitcherID, "pitcher_id")
	if p.BatterID != "" && !c.s.OnRoster(c.s.Offense, p.BatterID) {
		c.errf("AT_BAT_START: batter_id '%s' is not on offense roster", p.BatterID)
	}
	if p.PitcherID != "" && !c.s.OnRoster(c.s.Defense, p.PitcherID) {
		c.errf("AT_BAT_START: pitcher_id '%s' is not on defense roster", p.PitcherID)
	}
}

func (c *checker) required(v, field string) {
	if v == "" {
		c.errf("%s.payload: missing required field '%s'", c.name, field)
	}
}

// batterPitcher checks a plate-appearance event names the live batter and
// pitcher.
func (c *checker) batterPitcher(batterID, pitcherID string) {
	if batterID == "" {
		c.errf("%s: batter_id must be a string", c.name)
	} else if batterID != c.s.PA.Batter.PlayerID {
		c.errf("%s: batter_id '%s' must equal current PA batter '%s'", c.name, batterID, c.s.PA.Batter.PlayerID)
	}
	if pitcherID == "" {
		c.errf("%s: pitcher_id must be a string", c.name)
	} else if pitcherID != c.s.PA.PitcherID {
		c.errf("%s: pitcher_id '%s' must equal current PA pitcher '%s'", c.name, pitcherID, c.s.PA.PitcherID)
	}
}

func (c *checker) catcherInterference(p game.CatcherInterference) {
	pitcher := p.PitcherID
	if pitcher == "" {
		pitcher = c.s.PA.PitcherID
	}
	c.batterPitcher(p.BatterID, pitcher)
	c.required(p.CatcherID, "catcher_id")
}

func (c *checker) droppedThirdStrike(p game.DroppedThirdStrike) {
	c.batterPitcher(p.BatterID, p.PitcherID)
	if p.BatterSafe == nil {
		c.errf("DROPPED_THIRD_STRIKE: batter_safe must be boolean")
	}

	if want := c.rules.StrikesForOut - 1; c.s.Inning.Count.Strikes != want {
		c.errf("DROPPED_THIRD_STRIKE: count must be at %d strikes (got %d)", want, c.s.Inning.Count.Strikes)
	}
	if p.BatterSafe != nil && *p.BatterSafe && c.s.Bases.First != "" && c.s.Inning.Outs < 2 {
		c.errf("DROPPED_THIRD_STRIKE: batter cannot reach 1B (1B is occupied and less than 2 outs)")
	}

	safe := p.BatterSafe != nil && *p.BatterSafe
	if len(p.Destinations) > 0 {
		c.runnerDestinations(p.Destinations, "DROPPED_THIRD_STRIKE.payload")
		if safe && slices.ContainsFunc(p.Destinations, func(d game.RunnerDestination) bool {
			b, ok := d.Final.Resolve(d.From)
			return ok && b == game.Base1B
		}) {
			c.errf("DROPPED_THIRD_STRIKE: a runner cannot end on 1B when the batter is safe")
		}
	} else if safe && c.s.Bases.Occupied() > 0 {
		c.errf("DROPPED_THIRD_STRIKE: destinations are required for runners on base when the batter is safe")
	}
	c.runs(p.Runs, "DROPPED_THIRD_STRIKE.payload.runs")
}

// runnerDestinations checks a runner-only destination list: exactly one
// entry per runner on base, each from its actual base, and no two
// runners ending on the same base.
func (c *checker) runnerDestinations(dests []game.RunnerDestination, ctx string) {
	byID := make(map[string]game.RunnerDestination, len(dests))
	for _, d := range dests {
		if d.ParticipantID == "" {
			c.errf("%s: destination.participant_id must be a string", ctx)
			continue
		}
		if !d.From.Valid() {
			c.errf("%s: destination.from must be HOME|1B|2B|3B", ctx)
		}
		if !d.Final.Valid() {
			c.errf("%s: destination.final must be STAYS|1B|2B|3B|HOME|OUT", ctx)
		}
		if d.From == game.BaseHome {
			c.errf("%s: destinations must not include from=HOME for runner-only events", ctx)
		}
		if _, dup := byID[d.ParticipantID]; dup {
			c.errf("%s: runner '%s' appears more than once in destinations", ctx, d.ParticipantID)
		}
		byID[d.ParticipantID] = d
		if _, on := c.s.Bases.Find(d.ParticipantID); !on {
			c.errf("%s: destination includes runner '%s' who was not on base", ctx, d.ParticipantID)
		}
	}

	for _, r := range c.s.Bases.Runners() {
		d, ok := byID[r.PlayerID]
		if !ok {
			c.errf("%s: missing destination for runner '%s' on %s", ctx, r.PlayerID, r.Base)
			continue
		}
		if d.From != r.Base {
			c.errf("%s: runner '%s' must have from='%s' (got '%s')", ctx, r.PlayerID, r.Base, d.From)
		}
	}

	ended := make(map[game.Base]bool)
	for _, d := range dests {
		if d.ParticipantID == "" {
			continue
		}
		b, ok := d.Final.Resolve(d.From)
		if !ok {
			continue
		}
		if ended[b] {
			c.errf("%s: multiple runners cannot end on %s", ctx, b)
		}
		ended[b] = true
	}
}

func (c *checker) runs(runs []game.RunAttribution, ctx string) {
	for _, r := range runs {
		if r.RunnerID == "" {
			c.errf("%s: runs.runner_id must be string", ctx)
		}
		switch r.RBI {
		case game.DecisionYes, game.DecisionNo, game.DecisionLater:
		default:
			c.errf("%s: runs.rbi required (YES|NO|DECIDE_LATER)", ctx)
		}
		switch r.Earned {
		case game.EarnedYes, game.EarnedNo, game.EarnedLater:
		default:
			c.errf("%s: runs.earned required (EARNED|UNEARNED|DECIDE_LATER)", ctx)
		}
	}
}

func (c *checker) outs(outs []game.OutDetail, ctx string) {
	for _, o := range outs {
		if o.OutNumber < 1 || o.OutNumber > 3 {
			c.errf("%s: outs.out_number must be 1|2|3", ctx)
		}
		if o.RunnerID == "" {
			c.errf("%s: outs.runner_id must be string", ctx)
		}
		if !o.Where.Valid() {
			c.errf("%s: outs.where must be HOME|1B|2B|3B", ctx)
		}
		if o.PutoutBy.PlayerID == "" {
			c.errf("%s: outs.putout_by.player_id required", ctx)
		}
		if o.PutoutBy.Pos == "" {
			c.errf("%s: outs.putout_by.pos required", ctx)
		}
		for _, a := range o.Assists {
			if a.PlayerID == "" {
				c.errf("%s: outs.assists.player_id required", ctx)
			}
			if a.Pos == "" {
				c.errf("%s: outs.assists.pos required", ctx)
			}
		}
	}
}

func (c *checker) ballInPlay(p game.BallInPlay) {
	if !p.BatterResult.Valid() {
		c.errf("BIP: unknown batter_result '%s'", p.BatterResult)
	}
	batter := c.s.PA.Batter.PlayerID
	if p.BatterID != "" && p.BatterID != batter {
		c.errf("BIP: batter_id '%s' must equal current PA batter '%s'", p.BatterID, batter)
	}
	if len(p.Destinations) == 0 {
		c.errf("BIP: destinations must be a non-empty array")
	}

	required := map[string]game.Base{batter: game.BaseHome}
	order := []string{batter}
	for _, r := range c.s.Bases.Runners() {
		required[r.PlayerID] = r.Base
		order = append(order, r.PlayerID)
	}

	seen := make(map[string]bool)
	for _, d := range p.Destinations {
		pid := d.ParticipantID
		if pid == "" {
			c.errf("BIP: each destination must include participant_id:string")
			continue
		}
		if seen[pid] {
			c.errf("BIP: participant '%s' appears more than once in destinations", pid)
		}
		seen[pid] = true

		if !d.Final.Valid() {
			c.errf("BIP: invalid final destination '%s' for participant '%s'", d.Final, pid)
		}
		if !d.From.Valid() {
			c.errf("BIP: destination.from must be HOME|1B|2B|3B for participant '%s'", pid)
		}
		if pid == batter && d.From != game.BaseHome {
			c.errf("BIP: batter destination.from must be HOME")
		}
		from, ok := required[pid]
		if !ok {
			c.errf("BIP: participant '%s' is neither the batter nor a runner on base", pid)
		}
		if ok && d.Final == game.FinalStays && d.From != from {
			c.errf("BIP: participant '%s' cannot STAY on '%s' (expected '%s')", pid, d.From, from)
		}
	}

	for _, pid := range order {
		if !seen[pid] {
			c.errf("BIP: missing destination for required participant '%s'", pid)
		}
	}

	if len(p.Outs) > c.rules.OutsPerInning-c.s.Inning.Outs {
		c.errf("BIP: outs exceed remaining outs in half-inning")
	}

	ended := make(map[game.Base]string)
	for _, d := range p.Destinations {
		if d.ParticipantID == "" {
			continue
		}
		b, ok := d.Final.Resolve(d.From)
		if !ok {
			continue
		}
		if prev, dup := ended[b]; dup {
			c.errf("BIP: multiple participants end at '%s' (%s and %s)", b, prev, d.ParticipantID)
			continue
		}
		ended[b] = d.ParticipantID
	}
	c.runs(p.Runs, "BIP.payload.runs")
}

func (c *checker) runnerMove(p game.RunnerMove) {
	if p.RunnerID == "" {
		c.errf("%s: runner_id must be a string", c.name)
	}
	if !p.From.Occupiable() {
		c.errf("%s: from must be 1B/2B/3B", c.name)
	}
	if !p.To.Valid() {
		c.errf("%s: to must be 1B/2B/3B/HOME", c.name)
	}
	if p.RunnerID != "" && p.From.Occupiable() && c.s.Bases.At(p.From) != p.RunnerID {
		c.errf("%s: runner '%s' is not actually on base '%s'", c.name, p.RunnerID, p.From)
	}
	if p.To.Occupiable() && c.s.Bases.At(p.To) != "" {
		c.errf("%s: target base '%s' is already occupied", c.name, p.To)
	}
}

func (c *checker) caughtStealing(p game.CaughtStealing) {
	if p.RunnerID == "" {
		c.errf("CAUGHT_STEALING: runner_id must be a string")
	}
	if !p.From.Occupiable() {
		c.errf("CAUGHT_STEALING: from must be 1B/2B/3B")
	}
	if !p.To.Valid() {
		c.errf("CAUGHT_STEALING: to must be 1B/2B/3B/HOME")
	}
	if p.RunnerID != "" && p.From.Occupiable() && c.s.Bases.At(p.From) != p.RunnerID {
		c.errf("CAUGHT_STEALING: runner '%s' is not actually on base '%s'", p.RunnerID, p.From)
	}
}

func (c *checker) pickoff(p game.Pickoff) {
	if p.RunnerID == "" {
		c.errf("PICKOFF: runner_id must be a string")
	}
	if !p.AtBase.Occupiable() {
		c.errf("PICKOFF: at_base must be 1B/2B/3B")
	}
	if p.IsOut == nil {
		c.errf("PICKOFF: is_out must be boolean")
	}
	if p.RunnerID != "" && p.AtBase.Occupiable() && c.s.Bases.At(p.AtBase) != p.RunnerID {
		c.errf("PICKOFF: runner '%s' is not actually on base '%s'", p.RunnerID, p.AtBase)
	}
}

func (c *checker) misplayedPitch(p game.MisplayedPitch) {
	ctx := fmt.Sprintf("%s.payload", c.name)
	if c.name == game.EventWildPitch && p.PitcherID == "" {
		c.errf("%s.pitcher_id must be string", ctx)
	}
	if c.name == game.EventPassedBall && p.CatcherID == "" {
		c.errf("%s.catcher_id must be string", ctx)
	}
	if p.Destinations == nil {
		return
	}
	c.runnerDestinations(p.Destinations, ctx)
	c.outs(p.Outs, ctx+".outs")
	c.runs(p.Runs, ctx+".runs")
}

func (c *checker) appealPlay(p game.AppealPlay) {
	if p.RunnerID == "" {
		c.errf("APPEAL_PLAY.payload.runner_id must be string")
	}
	if !p.AtBase.Occupiable() {
		c.errf("APPEAL_PLAY.payload.at_base must be 1B|2B|3B")
	}
	if p.IsOut == nil {
		c.errf("APPEAL_PLAY.payload.is_out must be boolean")
	}
	if p.IsOut != nil && *p.IsOut && p.RunnerID != "" && p.AtBase.Occupiable() && c.s.Bases.At(p.AtBase) != p.RunnerID {
		c.errf("APPEAL_PLAY: runner '%s' is not currently on %s", p.RunnerID, p.AtBase)
	}
}

func (c *checker) substitution(p game.Substitution) {
	if !p.TeamSide.Valid() {
		c.errf("%s: teamSide must be 'HOME' or 'AWAY'", c.name)
		return
	}
	c.required(p.PlayerIn, "player_in")
	c.required(p.PlayerOut, "player_out")
	if p.PlayerIn != "" && !c.s.OnRoster(p.TeamSide, p.PlayerIn) {
		c.errf("%s: player_in '%s' is not on %s roster", c.name, p.PlayerIn, p.TeamSide)
	}
	if p.PlayerIn != "" && p.PlayerIn == p.PlayerOut {
		c.errf("%s: player_in and player_out must differ", c.name)
	}
	if p.PlayerIn != "" && p.PlayerIn != p.PlayerOut {
		if _, active := c.s.Teams.Get(p.TeamSide).Lineup.ActiveIndex(p.PlayerIn); active {
			c.errf("%s: player_in '%s' is already active in the %s lineup", c.name, p.PlayerIn, p.TeamSide)
		}
		if b, on := c.s.Bases.Find(p.PlayerIn); on {
			c.errf("%s: player_in '%s' is already on %s", c.name, p.PlayerIn, b)
		}
	}
	if c.name == game.EventSubstitutionRunner && p.PlayerOut != "" {
		if _, on := c.s.Bases.Find(p.PlayerOut); !on {
			c.errf("SUBSTITUTION_RUNNER: player_out '%s' is not on base", p.PlayerOut)
		}
	}
	if c.name == game.EventSubstitutionFielder && p.PlayerOut != "" &&
		c.s.Teams.Get(p.TeamSide).OnField.Defense[game.PosP] == p.PlayerOut {
		c.errf("SUBSTITUTION_FIELDER: player_out '%s' is the pitcher; use PITCHING_CHANGE", p.PlayerOut)
	}
}

func (c *checker) pitchingChange(p game.PitchingChange) {
	if !p.TeamSide.Valid() {
		c.errf("PITCHING_CHANGE: teamSide must be 'HOME' or 'AWAY'")
		return
	}
	if p.PitcherIn == "" {
		c.errf("PITCHING_CHANGE: pitcher_in must be a string")
	}
	if p.PitcherOut == "" {
		c.errf("PITCHING_CHANGE: pitcher_out must be a string")
	}
	if p.PitcherIn != "" && !c.s.OnRoster(p.TeamSide, p.PitcherIn) {
		c.errf("PITCHING_CHANGE: pitcher_in '%s' must be on %s roster", p.PitcherIn, p.TeamSide)
	}
}
