package replay

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/scorebook/internal/engine"
	"github.com/roach88/scorebook/internal/game"
	"github.com/roach88/scorebook/internal/stats"
)

// LockedSignature is the part of the game state a patch may not change:
// sides, inning, outs, count, base occupants, plate-appearance identity
// and game status. Two signatures are equal exactly when == holds.
type LockedSignature struct {
	Offense    game.Side
	Defense    game.Side
	Inning     int
	Half       game.Half
	Outs       int
	Balls      int
	Strikes    int
	First      string
	Second     string
	Third      string
	AtBatID    string
	BatterID   string
	BatterSlot int
	BatterSide game.Side
	PitcherID  string
	PitchCount int
	Status     game.Status
}

// Lock extracts the locked signature of s.
func Lock(s *game.State) LockedSignature {
	return LockedSignature{
		Offense:    s.Offense,
		Defense:    s.Defense,
		Inning:     s.Inning.Number,
		Half:       s.Inning.Half,
		Outs:       s.Inning.Outs,
		Balls:      s.Inning.Count.Balls,
		Strikes:    s.Inning.Count.Strikes,
		First:      s.Bases.First,
		Second:     s.Bases.Second,
		Third:      s.Bases.Third,
		AtBatID:    s.PA.AtBatID,
		BatterID:   s.PA.Batter.PlayerID,
		BatterSlot: s.PA.Batter.Slot,
		BatterSide: s.PA.Batter.Side,
		PitcherID:  s.PA.PitcherID,
		PitchCount: s.PA.PitchCount,
		Status:     s.Status,
	}
}

// Diff lists the fields where l and other differ, as "field: a -> b".
func (l LockedSignature) Diff(other LockedSignature) []string {
	var out []string
	add := func(field string, a, b any) {
		if a != b {
			out = append(out, fmt.Sprintf("%s: %v -> %v", field, a, b))
		}
	}
	add("offense", l.Offense, other.Offense)
	add("defense", l.Defense, other.Defense)
	add("inning", l.Inning, other.Inning)
	add("half", l.Half, other.Half)
	add("outs", l.Outs, other.Outs)
	add("balls", l.Balls, other.Balls)
	add("strikes", l.Strikes, other.Strikes)
	add("bases.1B", l.First, other.First)
	add("bases.2B", l.Second, other.Second)
	add("bases.3B", l.Third, other.Third)
	add("pa.atBatId", l.AtBatID, other.AtBatID)
	add("pa.batter", l.BatterID, other.BatterID)
	add("pa.slot", l.BatterSlot, other.BatterSlot)
	add("pa.side", l.BatterSide, other.BatterSide)
	add("pa.pitcher", l.PitcherID, other.PitcherID)
	add("pa.pitchCount", l.PitchCount, other.PitchCount)
	add("gameStatus", l.Status, other.Status)
	return out
}

// Rebuild replays events from initial and returns the final state and
// statistics, without checkpoints.
func Rebuild(initial *game.State, rules game.Rules, events []game.Event, opts ...Option) (Result, error) {
	opts = append(slices.Clone(opts), WithCheckpoints(false))
	return New(initial, rules, opts...).Reconcile(events)
}

// PatchResult is the outcome of a successful Patch.
type PatchResult struct {
	Events []game.Event
	State  *game.State
	Stats  stats.State
}

// Patch replaces the event with id eventID by replacement and rebuilds the
// whole log. The replacement must keep the event id and, applied to the
// same pre-event state as the original, must leave the same locked
// signature: a patch may correct scoring, never what happened on the
// field. events is not modified.
func Patch(initial *game.State, rules game.Rules, events []game.Event, eventID string, replacement game.Event, opts ...Option) (PatchResult, error) {
	obs := observerOf(opts)
	fail := func(err *Error) (PatchResult, error) {
		obs.ReplayFailed(err.Code)
		return PatchResult{}, err
	}

	idx := slices.IndexFunc(events, func(e game.Event) bool { return e.ID == eventID })
	if idx < 0 {
		return fail(&Error{
			Code:     ErrCodeNotFound,
			Index:    -1,
			Messages: []string{fmt.Sprintf("patch: eventId '%s' not found", eventID)},
		})
	}
	orig := events[idx]
	if replacement.ID != orig.ID {
		return fail(rejected(ErrCodeIDMismatch, idx, orig, []string{
			fmt.Sprintf("patch: replacement eventId '%s' must match the original eventId '%s'", replacement.ID, orig.ID),
		}))
	}

	prefix, err := Rebuild(initial, rules, events[:idx], opts...)
	if err != nil {
		var re *Error
		if !errors.As(err, &re) {
			return PatchResult{}, err
		}
		// Rebuild already notified the observer.
		return PatchResult{}, &Error{
			Code:     ErrCodePrefix,
			EventID:  re.EventID,
			Index:    re.Index,
			Name:     re.Name,
			Messages: append([]string{"patch: could not rebuild pre-event state"}, re.Messages...),
		}
	}

	before := engine.Apply(prefix.State, rules, orig)
	if !before.OK() {
		return fail(rejected(ErrCodeOriginal, idx, orig, prefixed("patch: original event invalid at replay time", before.Errors)))
	}
	after := engine.Apply(prefix.State, rules, replacement)
	if !after.OK() {
		return fail(rejected(ErrCodeReplacement, idx, replacement, prefixed("patch: replacement event invalid", after.Errors)))
	}

	if a, b := Lock(before.State), Lock(after.State); a != b {
		msgs := []string{
			"patch rejected: replacement changes locked game state (bases/outs/count/inning/PA identity)",
			"scoring edits are allowed, state-affecting edits are not",
		}
		return fail(rejected(ErrCodeLockedState, idx, replacement, append(msgs, a.Diff(b)...)))
	}

	patched := slices.Clone(events)
	patched[idx] = replacement
	rebuilt, err := Rebuild(initial, rules, patched, opts...)
	if err != nil {
		return PatchResult{}, err
	}
	return PatchResult{Events: patched, State: rebuilt.State, Stats: rebuilt.Stats}, nil
}

func observerOf(opts []Option) Observer {
	r := &Reconciler{observer: nopObserver{}}
	for _, opt := range opts {
		opt(r)
	}
	return r.observer
}

func prefixed(head string, errs []string) []string {
	return []string{head + ": " + strings.Join(errs, "; ")}
}
