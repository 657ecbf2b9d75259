package harness

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/scorebook/internal/game"
)

func TestLookupState(t *testing.T) {
	result, err := Run(loadTestScenario(t, "walk_on_four_balls"))
	require.NoError(t, err)
	s := result.State

	tests := []struct {
		path string
		want any
	}{
		{"bases.1B", "a1"},
		{"bases.3B", nil},
		{"gameStatus", "IN_PROGRESS"},
		{"inning.inningNumber", json.Number("1")},
		{"teams.HOME.teamId", "home"},
		{"linescore.AWAY.runsByInning.0", json.Number("0")},
		{"appliedEventIds.0", "e-1"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := lookupState(s, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLookupState_Errors(t *testing.T) {
	result, err := Run(loadTestScenario(t, "walk_on_four_balls"))
	require.NoError(t, err)

	_, err = lookupState(result.State, "teams.NOBODY.score")
	assert.ErrorContains(t, err, `no field "NOBODY"`)

	_, err = lookupState(result.State, "linescore.AWAY.runsByInning.42")
	assert.ErrorContains(t, err, `bad index "42"`)

	_, err = lookupState(result.State, "outs.value")
	assert.Error(t, err)

	_, err = lookupState(nil, "outs")
	assert.EqualError(t, err, "no state")
}

func TestJSONText(t *testing.T) {
	// YAML integers and decoded JSON numbers render alike.
	assert.Equal(t, jsonText(2), jsonText(json.Number("2")))
	assert.Equal(t, "null", jsonText(nil))
	assert.Equal(t, `"a1"`, jsonText("a1"))
	assert.Equal(t, `{"1B":"a1"}`, jsonText(game.Bases{First: "a1"}))
}

func TestEvaluateAssertions_UnknownStat(t *testing.T) {
	result, err := Run(loadTestScenario(t, "walk_on_four_balls"))
	require.NoError(t, err)

	errs := EvaluateAssertions(result, []Assertion{
		{Type: AssertStat, Path: "players.a1.batting.NOPE", Equals: 0},
		{Type: "other", Path: "x"},
	})
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0], "assertion 0: Assertion failed: stat players.a1.batting.NOPE")
	assert.Equal(t, "assertion 1: unknown assertion type: other", errs[1])
}

func TestAssertionError_Format(t *testing.T) {
	err := &AssertionError{Type: AssertStat, Path: "players.h1.pitching.SO", Expected: "3", Actual: "2"}
	assert.Equal(t, "Assertion failed: stat players.h1.pitching.SO\n  Expected: 3\n  Actual: 2", err.Error())
}
