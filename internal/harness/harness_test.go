package harness

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/scorebook/internal/game"
	"github.com/roach88/scorebook/internal/replay"
)

func loadTestScenario(t *testing.T, name string) *Scenario {
	t.Helper()
	s, err := LoadScenario(filepath.Join(scenarioDir, name+".yaml"))
	require.NoError(t, err)
	return s
}

func TestRun_AllScenariosPass(t *testing.T) {
	files, err := FindScenarios([]string{scenarioDir}, "")
	require.NoError(t, err)

	for _, f := range files {
		s, err := LoadScenario(f)
		require.NoError(t, err)
		t.Run(s.Name, func(t *testing.T) {
			var result *Result
			if s.Golden {
				result, err = RunWithGolden(t, s)
			} else {
				result, err = Run(s)
			}
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRun_ExpectedFailureKeepsUnpatchedState(t *testing.T) {
	result, err := Run(loadTestScenario(t, "patch_state_edit_rejected"))
	require.NoError(t, err)
	require.True(t, result.Pass, "errors: %v", result.Errors)

	require.NotNil(t, result.failure)
	assert.Equal(t, replay.ErrCodeLockedState, result.failure.Code)
	assert.Equal(t, 1, result.State.Inning.Outs)
	assert.Empty(t, result.State.Bases.First)
	assert.NotEmpty(t, result.Fingerprint)
}

func TestRun_RejectedLogHasNoState(t *testing.T) {
	result, err := Run(loadTestScenario(t, "corrupt_log_rejected"))
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Nil(t, result.State)
	assert.Empty(t, result.Fingerprint)
}

func TestRun_UnexpectedFailure(t *testing.T) {
	s := loadTestScenario(t, "corrupt_log_rejected")
	s.Expect = nil

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "replay failed: REPLAY_REJECTED")
}

func TestRun_ExpectMismatch(t *testing.T) {
	tests := []struct {
		name   string
		expect ExpectClause
		want   string
	}{
		{"wrong code", ExpectClause{Code: replay.ErrCodeLockedState}, "expected failure LOCKED_STATE_CHANGED, got REPLAY_REJECTED"},
		{"wrong index", ExpectClause{Code: replay.ErrCodeRejected, Index: ptr(2)}, "expected failure at index 2, got index 5"},
		{"wrong message", ExpectClause{Code: replay.ErrCodeRejected, Message: "balk"}, `expected a message containing "balk"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := loadTestScenario(t, "corrupt_log_rejected")
			s.Expect = &tt.expect

			result, err := Run(s)
			require.NoError(t, err)
			assert.False(t, result.Pass)
			require.NotEmpty(t, result.Errors)
			assert.Contains(t, result.Errors[0], tt.want)
		})
	}
}

func TestRun_ExpectedFailureDidNotHappen(t *testing.T) {
	s := loadTestScenario(t, "walk_on_four_balls")
	s.Expect = &ExpectClause{Code: replay.ErrCodeRejected}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors, "expected failure REPLAY_REJECTED, but the scenario succeeded")
}

func TestRun_FailingAssertion(t *testing.T) {
	s := loadTestScenario(t, "walk_on_four_balls")
	s.Assertions = []Assertion{
		{Type: AssertStat, Path: "players.a1.batting.H", Equals: 1},
		{Type: AssertState, Path: "bases.1B", Equals: "a9"},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, "assertion 0: Assertion failed: stat players.a1.batting.H\n  Expected: 1\n  Actual: 0", result.Errors[0])
	assert.Equal(t, "assertion 1: Assertion failed: state bases.1B\n  Expected: \"a9\"\n  Actual: \"a1\"", result.Errors[1])
}

func TestRun_PatchUnknownEvent(t *testing.T) {
	s := loadTestScenario(t, "patch_scoring_edit")
	s.Patch.EventID = "e-99"

	_, err := Run(s)
	assert.ErrorContains(t, err, `patch: event "e-99" is not in the log`)
}

func TestRun_BadRulesFile(t *testing.T) {
	s := loadTestScenario(t, "walk_on_four_balls")
	s.Rules = "missing.cue"

	_, err := Run(s)
	assert.Error(t, err)
}

func TestRun_Deterministic(t *testing.T) {
	s := loadTestScenario(t, "two_run_single")

	first, err := Run(s)
	require.NoError(t, err)
	second, err := Run(s)
	require.NoError(t, err)

	assert.Equal(t, first.Fingerprint, second.Fingerprint)
	assert.Equal(t, first.State, second.State)
	assert.Equal(t, first.Stats, second.Stats)
}

func TestHarness_Options(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	obs := &countingObserver{}

	h := New(WithLogger(logger), WithReplayOptions(replay.WithObserver(obs)))
	result, err := h.Run(loadTestScenario(t, "walk_on_four_balls"))
	require.NoError(t, err)
	require.True(t, result.Pass, "errors: %v", result.Errors)

	assert.Equal(t, len(result.Events), obs.applied)
	assert.Equal(t, result.Checkpoints, obs.checkpoints)
	assert.NotEmpty(t, buf.String())

	// A nil logger keeps the default.
	assert.NotNil(t, New(WithLogger(nil)).logger)
}

func TestGolden_SnapshotMatchesState(t *testing.T) {
	result, err := Run(loadTestScenario(t, "two_run_single"))
	require.NoError(t, err)

	snap := Snapshot("two_run_single", result)
	assert.Equal(t, 2, snap.Score.Away.Runs)
	assert.Equal(t, 3, snap.Score.Away.Hits)
	assert.Equal(t, "a4", snap.Bases.First)
	assert.Equal(t, len(result.Events), snap.Events)

	data, err := MarshalSnapshot("two_run_single", result)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), `{"bases":{"1B":"a4"}`), string(data))
}

type countingObserver struct {
	applied     int
	checkpoints int
}

func (o *countingObserver) EventApplied(game.Name, bool) { o.applied++ }
func (o *countingObserver) CheckpointCreated(string)     { o.checkpoints++ }
func (o *countingObserver) ReplayFailed(replay.ErrorCode) {}

func ptr[T any](v T) *T { return &v }

func TestCompareGolden(t *testing.T) {
	s := loadTestScenario(t, "two_run_single")
	assert.Equal(t, filepath.Join("testdata", "golden", "two_run_single.golden"), s.GoldenFile())

	result, err := Run(s)
	require.NoError(t, err)
	match, err := CompareGolden(s, result, false)
	require.NoError(t, err)
	assert.True(t, match)

	// A different box score does not match.
	other, err := Run(loadTestScenario(t, "walk_on_four_balls"))
	require.NoError(t, err)
	match, err = CompareGolden(s, other, false)
	require.NoError(t, err)
	assert.False(t, match)
}

func TestCompareGolden_Update(t *testing.T) {
	s := loadTestScenario(t, "walk_on_four_balls")
	s.dir = filepath.Join(t.TempDir(), "scenarios")

	result, err := Run(s)
	require.NoError(t, err)

	_, err = CompareGolden(s, result, false)
	assert.ErrorContains(t, err, "failed to read golden file")

	match, err := CompareGolden(s, result, true)
	require.NoError(t, err)
	assert.True(t, match)

	match, err = CompareGolden(s, result, false)
	require.NoError(t, err)
	assert.True(t, match)
}
