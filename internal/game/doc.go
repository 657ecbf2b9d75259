// Package game defines the scorebook data model: game state, effective
// rules, and the event envelope with its typed payloads.
//
// State values are owned by whoever holds them. Functions in the engine,
// stats, and replay packages never mutate a *State they receive; they
// return a fresh value produced by Clone. Callers must follow the same
// rule so that before/after states never alias.
//
// Event payloads form a sealed set: every Name maps to exactly one payload
// type (see Names and DecodeEvent), and no type outside this package can
// satisfy Payload.
package game
