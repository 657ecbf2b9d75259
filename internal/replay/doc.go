// Package replay re-derives game state and statistics from an event log.
//
// The Reconciler walks the log through engine.Apply, keeping a PAContext
// for the plate appearance in progress. Mid-PA substitutions are recorded
// with the count at the moment they were made, and when the PA ends the
// batting and pitching counters of the terminal event are re-attributed:
//
//   - a batter replaced with two strikes keeps a strikeout
//   - a walk after a pitching change at 2-0, 2-1, 3-0, 3-1 or 3-2 is
//     charged to the pitcher who left
//
// Checkpoints are taken before the first event and after every half
// inning. Resume continues from one and produces the same result as a
// full replay.
//
// Patch replaces one historical event. The replacement may correct
// scoring only: applied to the same pre-event state, it must leave the
// same LockedSignature as the original. The whole log is then rebuilt.
//
// A logged event that fails validation during replay is fatal and is
// reported as a *Error carrying the event id and index.
package replay
