// Package engine implements the scorebook rules engine.
//
// The engine decides whether a proposed event is legal for the current game
// state and, if so, produces the next state plus the statistics delta the
// event implies.
//
// ARCHITECTURE:
//
// Validate, then Apply:
// Apply always runs Validate first. A rejected event returns the input state
// untouched together with the full list of validator messages. There is no
// partial application.
//
// Event Processing Flow:
// 1. Validate checks status policy, payload shape and state consistency
// 2. stats.Compute derives the delta from the state before the event
// 3. The state is cloned and the event id appended to the audit trail
// 4. A transition rule mutates the clone for the event kind
// 5. Invariant helpers end the half inning, the plate appearance or the game
//
// Game-ending logic lives only in the invariant helpers. Every transition
// that scores a run calls the walk-off check; every transition that records
// an out calls the half-inning check.
//
// CRITICAL PATTERNS:
//
// Determinism:
// Apply is a total function of (state, rules, event). Timestamps come from
// the event, never from the wall clock.
//
// Value Semantics:
// States passed in are never modified. Returned states share no slices or
// maps with their inputs.
//
// Exhaustive Dispatch:
// Payloads are a sealed set. Validate and Apply switch on the concrete
// payload type; game.PayloadMatches pins each event name to its type.
package engine
