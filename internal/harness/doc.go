// Package harness runs scripted games as executable scoring scenarios.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: walk_on_four_balls
//	description: "Four balls put the batter on first"
//	rules: softball.cue        # optional, relative to this file
//	opening: true              # standard lineups, defenses, GAME_STARTED
//	game:
//	  events:
//	    - name: PITCH
//	      payload: {result: BALL}
//	patch:                     # optional
//	  event_id: e-6
//	  payload: {...}
//	expect:                    # optional expected failure
//	  code: LOCKED_STATE_CHANGED
//	  index: 5
//	assertions:
//	  - type: stat
//	    path: players.a1.batting.BB
//	    equals: 1
//	  - type: state
//	    path: bases.1B
//	    equals: a1
//	golden: true
//
// Events use the wire field names. Ids default to "e-N" by position in the
// log, counting the opening, and timestamps come from testutil's
// deterministic clock, so every run produces the same log.
//
// # Assertion Types
//
//   - stat: a box-score counter, by stats.State.Lookup path
//   - state: a field of the final game state, by its JSON field names
//
// # Golden Files
//
// Scenarios marked golden compare a BoxScore snapshot in canonical JSON
// with testdata/golden/<name>.golden using goldie.
package harness
