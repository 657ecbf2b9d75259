package replay

import (
	"slices"

	"github.com/roach88/scorebook/internal/game"
	"github.com/roach88/scorebook/internal/stats"
)

// SubSnapshot records one mid-PA substitution together with the count
// standing at the moment it was made.
type SubSnapshot struct {
	Out   string     `json:"out"`
	In    string     `json:"in"`
	Count game.Count `json:"count"`
}

// PAContext follows one plate appearance from its first event to its
// terminal event.
type PAContext struct {
	PAID string `json:"paId"`

	BatterStarted  string `json:"batterStarted"`
	BatterCurrent  string `json:"batterCurrent"`
	PitcherStarted string `json:"pitcherStarted"`
	PitcherCurrent string `json:"pitcherCurrent"`

	BatterSubs  []SubSnapshot `json:"batterSubs,omitempty"`
	PitcherSubs []SubSnapshot `json:"pitcherSubs,omitempty"`

	// Count is the count before the most recently observed event.
	Count game.Count `json:"count"`
}

// OpenPA starts a context for the plate appearance live in s.
func OpenPA(s *game.State) *PAContext {
	return &PAContext{
		PAID:           s.PA.AtBatID,
		BatterStarted:  s.PA.Batter.PlayerID,
		BatterCurrent:  s.PA.Batter.PlayerID,
		PitcherStarted: s.PA.PitcherID,
		PitcherCurrent: s.PA.PitcherID,
		Count:          s.Inning.Count,
	}
}

// openFromAtBat starts a context from an AT_BAT_START payload.
func openFromAtBat(s *game.State, p game.AtBatStart) *PAContext {
	return &PAContext{
		PAID:           p.PAID,
		BatterStarted:  p.BatterID,
		BatterCurrent:  p.BatterID,
		PitcherStarted: p.PitcherID,
		PitcherCurrent: p.PitcherID,
		Count:          s.Inning.Count,
	}
}

// observe records substitutions made by ev against the state before ev.
func (c *PAContext) observe(before *game.State, ev game.Event) {
	c.Count = before.Inning.Count
	switch ev.Name {
	case game.EventSubstitutionBatter:
		p, ok := ev.Payload.(game.Substitution)
		if !ok || p.TeamSide != before.Offense {
			return
		}
		c.BatterSubs = append(c.BatterSubs, SubSnapshot{Out: p.PlayerOut, In: p.PlayerIn, Count: c.Count})
		if p.PlayerOut == c.BatterCurrent {
			c.BatterCurrent = p.PlayerIn
		}
	case game.EventPitchingChange:
		p, ok := ev.Payload.(game.PitchingChange)
		if !ok || p.TeamSide != before.Defense {
			return
		}
		c.PitcherSubs = append(c.PitcherSubs, SubSnapshot{Out: p.PitcherOut, In: p.PitcherIn, Count: c.Count})
		c.PitcherCurrent = p.PitcherIn
	}
}

// Clone returns a deep copy of c. Clone of nil is nil.
func (c *PAContext) Clone() *PAContext {
	if c == nil {
		return nil
	}
	out := *c
	out.BatterSubs = slices.Clone(c.BatterSubs)
	out.PitcherSubs = slices.Clone(c.PitcherSubs)
	return &out
}

// ChooseBatter returns the batter charged with a plate appearance ending
// in outcome. A batter replaced with two strikes keeps a strikeout;
// every other result belongs to the batter who finished the PA.
func ChooseBatter(c *PAContext, outcome game.Name) string {
	if len(c.BatterSubs) == 0 || outcome != game.EventStrikeout {
		return c.BatterCurrent
	}
	for _, sub := range c.BatterSubs {
		if sub.Out == c.BatterStarted && sub.Count.Strikes == 2 {
			return c.BatterStarted
		}
	}
	return c.BatterCurrent
}

// ChoosePitcher returns the pitcher charged with a plate appearance
// ending in outcome. A walk issued after a change made at 2-0, 2-1, 3-0,
// 3-1 or 3-2 is charged to the pitcher who left; anything else goes to
// the pitcher who finished the PA.
func ChoosePitcher(c *PAContext, outcome game.Name) string {
	if outcome != game.EventWalk && outcome != game.EventIntentionalWalk {
		return c.PitcherCurrent
	}
	if len(c.PitcherSubs) == 0 {
		return c.PitcherCurrent
	}
	last := c.PitcherSubs[len(c.PitcherSubs)-1]
	if behindInCount(last.Count) {
		return last.Out
	}
	return c.PitcherCurrent
}

func behindInCount(c game.Count) bool {
	switch c {
	case game.Count{Balls: 2, Strikes: 0},
		game.Count{Balls: 2, Strikes: 1},
		game.Count{Balls: 3, Strikes: 0},
		game.Count{Balls: 3, Strikes: 1},
		game.Count{Balls: 3, Strikes: 2}:
		return true
	}
	return false
}

// outcome reports the plate-appearance result ev produces against s. A
// PITCH that completes a walk, strikeout or hit batter ends the PA as
// that event would.
func outcome(s *game.State, rules game.Rules, ev game.Event) (game.Name, bool) {
	if ev.Name.Terminal() {
		return ev.Name, true
	}
	if p, ok := ev.Payload.(game.Pitch); ok {
		return game.PitchOutcome(s.Inning.Count, rules, p.Result)
	}
	return "", false
}

// reattribute moves the batting and pitching counters of a terminal
// event's delta from the live batter and pitcher to the players charged
// by the attribution rules. Pitch counts stay with the pitcher who
// threw them. It reports whether anything moved.
func reattribute(d *stats.Delta, before *game.State, batter, pitcher string) bool {
	moved := false
	if from := before.PA.Batter.PlayerID; from != batter && from != "" && batter != "" {
		d.Move(from, batter, stats.Batting)
		moved = true
	}
	if from := before.PA.PitcherID; from != pitcher && from != "" && pitcher != "" {
		d.MoveFunc(from, pitcher, chargeable)
		moved = true
	}
	return moved
}

func chargeable(s stats.Stat) bool {
	switch s {
	case stats.PitPitches, stats.PitStrikes, stats.PitBalls:
		return false
	}
	return s.Group() == stats.Pitching
}
