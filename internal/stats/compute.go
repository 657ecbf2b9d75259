package stats

import (
	"fmt"

	"github.com/roach88/scorebook/internal/game"
)

// Compute derives every box-score increment implied by ev from the state
// immediately before it. It never looks at the state after the event, so
// conditions like "bases loaded" reflect the situation the play started
// from. Events that carry no statistics produce an empty delta.
func Compute(before *game.State, rules game.Rules, ev game.Event) Delta {
	c := &computer{
		before:  before,
		rules:   rules,
		offense: before.Offense,
		defense: before.Defense,
		batter:  before.PA.Batter.PlayerID,
		pitcher: before.PA.PitcherID,
	}
	defense := before.Teams.Get(before.Defense).OnField.Defense
	c.mound = defense[game.PosP]
	c.catcher = defense[game.PosC]

	switch p := ev.Payload.(type) {
	case game.Pitch:
		c.pitch(p)
	case game.PlateAward:
		c.plateAward(ev.Name, or(p.BatterID, c.batter), or(p.PitcherID, c.pitcher), "")
	case game.CatcherInterference:
		c.plateAward(ev.Name, or(p.BatterID, c.batter), or(p.PitcherID, c.pitcher), or(p.CatcherID, c.catcher))
	case game.DroppedThirdStrike:
		c.droppedThirdStrike(p)
	case game.BallInPlay:
		c.ballInPlay(p)
	case game.RunnerMove:
		if ev.Name == game.EventStolenBase {
			c.d.AddBoth(p.RunnerID, c.offense, RunSB, 1)
		}
		if p.To == game.BaseHome {
			home := game.RunnerDestination{ParticipantID: p.RunnerID, From: p.From, Final: game.FinalHome}
			c.creditRuns(nil, []game.RunnerDestination{home}, c.mound, "")
		}
	case game.CaughtStealing:
		c.d.AddBoth(p.RunnerID, c.offense, RunCS, 1)
		c.d.AddBoth(c.mound, c.defense, PitOuts, 1)
		c.creditPutout(p.PutoutBy, p.Assists)
	case game.Pickoff:
		c.pickoff(p)
	case game.AppealPlay:
		if p.IsOut != nil && *p.IsOut {
			c.d.AddBoth(c.mound, c.defense, PitOuts, 1)
		}
	case game.Balk:
		c.balk(p)
	case game.MisplayedPitch:
		c.misplayedPitch(ev.Name, p)
	case game.RunScored:
		c.runScored(p)
	case game.ErrorCharged:
		c.errorCharged(p)
	}
	return c.d
}

type computer struct {
	before  *game.State
	rules   game.Rules
	offense game.Side
	defense game.Side
	// batter and pitcher come from the live plate appearance; mound and
	// catcher from the defensive assignment.
	batter  string
	pitcher string
	mound   string
	catcher string
	d       Delta
}

func or(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

func (c *computer) pitch(p game.Pitch) {
	pitcher := c.pitcher
	c.d.AddBoth(pitcher, c.defense, PitPitches, 1)
	switch {
	case p.Result.IsBall():
		c.d.AddBoth(pitcher, c.defense, PitBalls, 1)
	case p.Result.IsStrike(), p.Result.IsFoul(), p.Result == game.PitchInPlay:
		c.d.AddBoth(pitcher, c.defense, PitStrikes, 1)
	}
	if outcome, ok := game.PitchOutcome(c.before.Inning.Count, c.rules, p.Result); ok {
		c.plateAward(outcome, c.batter, pitcher, "")
	}
}

// plateAward covers walks, hit batters, strikeouts and catcher's
// interference: a completed plate appearance with no ball in play.
func (c *computer) plateAward(name game.Name, batter, pitcher, catcher string) {
	c.d.AddBoth(batter, c.offense, BatPA, 1)
	c.d.AddBoth(pitcher, c.defense, PitBF, 1)

	earned := true
	switch name {
	case game.EventWalk:
		c.d.AddBoth(batter, c.offense, BatBB, 1)
		c.d.AddBoth(pitcher, c.defense, PitBB, 1)
	case game.EventIntentionalWalk:
		c.d.AddBoth(batter, c.offense, BatBB, 1)
		c.d.AddBoth(pitcher, c.defense, PitBB, 1)
		c.d.AddBoth(batter, c.offense, BatIBB, 1)
		c.d.AddBoth(pitcher, c.defense, PitIBB, 1)
	case game.EventHitByPitch:
		c.d.AddBoth(batter, c.offense, BatHBP, 1)
		c.d.AddBoth(pitcher, c.defense, PitHBP, 1)
	case game.EventCatcherInterference:
		c.d.AddBoth(batter, c.offense, BatBB, 1)
		c.d.AddBoth(catcher, c.defense, FldE, 1)
		if catcher == "" {
			c.d.AddTeam(c.defense, FldE, 1)
		}
		earned = false
	case game.EventStrikeout:
		c.d.AddBoth(batter, c.offense, BatAB, 1)
		c.d.AddBoth(batter, c.offense, BatSO, 1)
		c.d.AddBoth(pitcher, c.defense, PitSO, 1)
		c.d.AddBoth(pitcher, c.defense, PitOuts, 1)
		return
	}

	// Bases loaded: the runner from third is forced home.
	if r3 := c.before.Bases.Third; c.before.Bases.Loaded() {
		c.d.AddBoth(r3, c.offense, BatR, 1)
		c.d.AddBoth(batter, c.offense, BatRBI, 1)
		c.d.AddBoth(pitcher, c.defense, PitR, 1)
		if earned {
			c.d.AddBoth(pitcher, c.defense, PitER, 1)
		}
	}
}

func (c *computer) droppedThirdStrike(p game.DroppedThirdStrike) {
	batter := or(p.BatterID, c.batter)
	pitcher := or(p.PitcherID, c.pitcher)

	c.d.AddBoth(batter, c.offense, BatPA, 1)
	c.d.AddBoth(batter, c.offense, BatAB, 1)
	c.d.AddBoth(batter, c.offense, BatSO, 1)
	c.d.AddBoth(pitcher, c.defense, PitBF, 1)
	c.d.AddBoth(pitcher, c.defense, PitSO, 1)
	c.d.AddBoth(pitcher, c.defense, PitPitches, 1)
	c.d.AddBoth(pitcher, c.defense, PitStrikes, 1)

	if p.BatterSafe == nil || !*p.BatterSafe {
		c.d.AddBoth(pitcher, c.defense, PitOuts, 1)
		c.creditPutout(p.PutoutBy, p.Assists)
	}
	c.creditRuns(p.Runs, p.Destinations, pitcher, "")
}

func (c *computer) ballInPlay(p game.BallInPlay) {
	batter := or(p.BatterID, c.batter)
	pitcher := c.pitcher
	result := p.BatterResult

	c.d.AddBoth(batter, c.offense, BatPA, 1)
	c.d.AddBoth(pitcher, c.defense, PitBF, 1)

	switch {
	case result.IsHit():
		c.d.AddBoth(batter, c.offense, BatAB, 1)
	case result == game.ResultOut:
		switch p.BatterOutSubtype {
		case game.OutSubtypeSacFly:
			c.d.AddBoth(batter, c.offense, BatSF, 1)
		case game.OutSubtypeSacBunt:
			c.d.AddBoth(batter, c.offense, BatSH, 1)
		default:
			c.d.AddBoth(batter, c.offense, BatAB, 1)
		}
	case result == game.ResultROE:
		c.d.AddBoth(batter, c.offense, BatAB, 1)
		c.d.AddBoth(batter, c.offense, BatROE, 1)
	case result == game.ResultFC:
		c.d.AddBoth(batter, c.offense, BatAB, 1)
		c.d.AddBoth(batter, c.offense, BatFC, 1)
	}

	if result.IsHit() {
		c.d.AddBoth(batter, c.offense, BatH, 1)
		c.d.AddBoth(pitcher, c.defense, PitH, 1)
		c.d.AddBoth(batter, c.offense, BatTB, result.TotalBases())
		switch result.TotalBases() {
		case 2:
			c.d.AddBoth(batter, c.offense, Bat2B, 1)
		case 3:
			c.d.AddBoth(batter, c.offense, Bat3B, 1)
		case 4:
			c.homeRun(batter, pitcher)
		}
	}

	if outs := len(p.Outs); outs > 0 {
		c.d.AddBoth(pitcher, c.defense, PitOuts, outs)
		for _, out := range p.Outs {
			putout := out.PutoutBy
			c.creditPutout(&putout, out.Assists)
		}
		if outs >= 2 {
			for _, id := range fieldersInvolved(p.Outs) {
				c.d.AddPlayer(id, FldDP, 1)
			}
			c.d.AddTeam(c.defense, FldDP, 1)
			c.d.AddBoth(batter, c.offense, BatDP, 1)

			batterOut := false
			for _, out := range p.Outs {
				if out.RunnerID == batter {
					batterOut = true
				}
			}
			if batterOut && p.BattedBall != nil &&
				(p.BattedBall.Type == game.BattedGround || p.BattedBall.Type == game.BattedBunt) {
				c.d.AddBoth(batter, c.offense, BatGIDP, 1)
			}
		}
		if outs >= 3 {
			for _, id := range fieldersInvolved(p.Outs) {
				c.d.AddPlayer(id, FldTP, 1)
			}
			c.d.AddTeam(c.defense, FldTP, 1)
		}
	}

	if n := len(p.Errors); n > 0 {
		c.d.AddTeam(c.defense, FldE, n)
		defense := c.before.Teams.Get(c.defense).OnField.Defense
		for _, e := range p.Errors {
			if e.FielderPos == "" {
				continue
			}
			c.d.AddPlayer(defense[e.FielderPos], FldE, 1)
		}
	}

	c.creditRuns(p.Runs, p.Destinations, pitcher, batter)
}

// homeRun classifies a home run by the runners on base before the play.
func (c *computer) homeRun(batter, pitcher string) {
	c.d.AddBoth(batter, c.offense, BatHR, 1)
	c.d.AddBoth(pitcher, c.defense, PitHR, 1)

	var bat, pit Stat
	switch c.before.Bases.Occupied() {
	case 0:
		bat, pit = BatHRSolo, PitHRSolo
	case 1:
		bat, pit = BatHR2Run, PitHR2Run
	case 2:
		bat, pit = BatHR3Run, PitHR3Run
	default:
		bat, pit = BatHRGrandSlam, PitHRGrandSlam
	}
	c.d.AddBoth(batter, c.offense, bat, 1)
	c.d.AddBoth(pitcher, c.defense, pit, 1)
}

// fieldersInvolved returns every distinct fielder credited with a putout
// or assist on the play, in first-seen order.
func fieldersInvolved(outs []game.OutDetail) []string {
	seen := map[string]bool{}
	var ids []string
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, out := range outs {
		add(out.PutoutBy.PlayerID)
		for _, a := range out.Assists {
			add(a.PlayerID)
		}
	}
	return ids
}

func (c *computer) creditPutout(putout *game.FielderRef, assists []game.FielderRef) {
	if putout != nil && putout.PlayerID != "" {
		c.d.AddBoth(putout.PlayerID, c.defense, FldPO, 1)
	}
	for _, a := range assists {
		if a.PlayerID != "" {
			c.d.AddBoth(a.PlayerID, c.defense, FldA, 1)
		}
	}
}

// creditRuns charges the runs scored on a play. An explicit attribution
// list is authoritative: each run goes to its charged pitcher (defaulting
// to pitcher) and RBIs come from the list when batter is set. Without a
// list, every destination resolving to HOME is a run charged to pitcher
// as earned. That fallback is provisional; the scorer corrects it with an
// explicit list later.
func (c *computer) creditRuns(runs []game.RunAttribution, dests []game.RunnerDestination, pitcher, batter string) {
	if len(runs) > 0 {
		c.d.AddTeam(c.offense, BatR, len(runs))
		rbi := 0
		for _, r := range runs {
			charged := or(r.ChargedPitcherID, pitcher)
			c.d.AddBoth(charged, c.defense, PitR, 1)
			if r.Earned == game.EarnedYes {
				c.d.AddBoth(charged, c.defense, PitER, 1)
			}
			c.d.AddPlayer(r.RunnerID, BatR, 1)
			if r.RBI == game.DecisionYes {
				rbi++
			}
		}
		if batter != "" {
			c.d.AddBoth(batter, c.offense, BatRBI, rbi)
		}
		return
	}

	tb := c.rules.TieBreaker.Scoring
	placed := c.before.Inning.PlacedRunnerID
	for _, d := range dests {
		if d.Final != game.FinalHome {
			continue
		}
		c.d.AddTeam(c.offense, BatR, 1)
		c.d.AddBoth(pitcher, c.defense, PitR, 1)
		isPlaced := placed != "" && d.ParticipantID == placed && tb != nil
		if !isPlaced || tb.CountsAsRunForRunner {
			c.d.AddPlayer(d.ParticipantID, BatR, 1)
		}
		if !isPlaced || tb.EarnedRunForPitcher {
			c.d.AddBoth(pitcher, c.defense, PitER, 1)
		}
	}
}

func (c *computer) pickoff(p game.Pickoff) {
	c.d.AddBoth(c.mound, c.defense, PitPKA, 1)
	c.d.AddBoth(p.RunnerID, c.offense, RunPOA, 1)
	if p.IsOut == nil || !*p.IsOut {
		return
	}
	c.d.AddBoth(c.mound, c.defense, PitPK, 1)
	c.d.AddBoth(p.RunnerID, c.offense, RunPO, 1)
	c.d.AddBoth(c.mound, c.defense, PitOuts, 1)
	c.creditPutout(p.PutoutBy, p.Assists)
}

func (c *computer) balk(p game.Balk) {
	pitcher := or(p.PitcherID, c.mound)
	c.d.AddBoth(pitcher, c.defense, PitBK, 1)

	var scored []game.RunnerDestination
	if r3 := c.before.Bases.Third; r3 != "" {
		scored = append(scored, game.RunnerDestination{ParticipantID: r3, From: game.Base3B, Final: game.FinalHome})
	}
	c.creditRuns(p.Runs, scored, pitcher, "")
}

func (c *computer) misplayedPitch(name game.Name, p game.MisplayedPitch) {
	pitcher := c.mound
	if name == game.EventWildPitch {
		pitcher = or(p.PitcherID, c.mound)
		c.d.AddBoth(pitcher, c.defense, PitWP, 1)
	} else {
		c.d.AddBoth(or(p.CatcherID, c.catcher), c.defense, FldPB, 1)
	}
	if outs := len(p.Outs); outs > 0 {
		c.d.AddBoth(pitcher, c.defense, PitOuts, outs)
		for _, out := range p.Outs {
			putout := out.PutoutBy
			c.creditPutout(&putout, out.Assists)
		}
	}
	c.creditRuns(p.Runs, p.Destinations, pitcher, "")
}

// runScored credits a run entered outside a play to the runner and
// charges it, unearned, to the pitcher on the mound for the other side.
func (c *computer) runScored(p game.RunScored) {
	c.d.AddBoth(p.RunnerID, p.TeamSide, BatR, 1)
	mound := c.before.Teams.Get(p.TeamSide.Other()).OnField.Defense[game.PosP]
	c.d.AddBoth(mound, p.TeamSide.Other(), PitR, 1)
}

func (c *computer) errorCharged(p game.ErrorCharged) {
	c.d.AddTeam(p.TeamSide, FldE, 1)
	if p.FielderPos != "" {
		c.d.AddPlayer(c.before.Teams.Get(p.TeamSide).OnField.Defense[p.FielderPos], FldE, 1)
	}
	if p.Notes != "" {
		c.d.Note(fmt.Sprintf("error charged to %s: %s", p.TeamSide, p.Notes))
	}
}
