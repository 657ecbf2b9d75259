package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	gameFile    = "testdata/game.yaml"
	corruptFile = "testdata/corrupt_game.yaml"
)

func TestReplay_Text(t *testing.T) {
	out, err := execute(t, "replay", "--game", gameFile)
	require.NoError(t, err)

	assert.Contains(t, out, "Replay: g-cli (7 events)")
	assert.Contains(t, out, "Checkpoints: 1")
	assert.Contains(t, out, "Status: IN_PROGRESS, TOP 1, 1 out")
	assert.Contains(t, out, "    R  H  E")
	assert.Contains(t, out, "Batting")
	assert.Contains(t, out, "Pitching")
	assert.Contains(t, out, "Fingerprint: ")
	assert.Contains(t, out, "✓ Deterministic")
}

func TestReplay_JSON(t *testing.T) {
	out, err := execute(t, "replay", "--game", gameFile, "--format", "json")
	require.NoError(t, err)

	resp, data := decodeResponse(t, out)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, true, data["deterministic"])
	assert.Equal(t, "g-cli", data["game_id"])
	assert.EqualValues(t, 7, data["events"])
	assert.EqualValues(t, 1, data["outs"])
	assert.Equal(t, []any{"START"}, data["checkpoints"])
	assert.NotEmpty(t, data["fingerprint"])
	assert.NotEmpty(t, data["stats_fingerprint"])
}

func TestReplay_Deterministic(t *testing.T) {
	first, err := execute(t, "replay", "--game", gameFile, "--format", "json")
	require.NoError(t, err)
	second, err := execute(t, "replay", "--game", gameFile, "--format", "json")
	require.NoError(t, err)

	_, a := decodeResponse(t, first)
	_, b := decodeResponse(t, second)
	assert.Equal(t, a["fingerprint"], b["fingerprint"])
}

func TestReplay_CheckpointsDisabled(t *testing.T) {
	out, err := execute(t, "replay", "--game", gameFile, "--format", "json", "--checkpoints=false")
	require.NoError(t, err)
	_, data := decodeResponse(t, out)
	assert.Equal(t, []any{}, data["checkpoints"])
}

func TestReplay_CheckpointsFromConfig(t *testing.T) {
	t.Setenv("SCOREBOOK_CHECKPOINTS", "false")
	out, err := execute(t, "replay", "--game", gameFile, "--format", "json")
	require.NoError(t, err)
	_, data := decodeResponse(t, out)
	assert.Equal(t, []any{}, data["checkpoints"])
}

func TestReplay_Metrics(t *testing.T) {
	out, err := execute(t, "replay", "--game", gameFile, "--metrics")
	require.NoError(t, err)

	assert.Contains(t, out, `scorebook_replay_events_applied_total{event="WALK"} 1`)
	assert.Contains(t, out, `scorebook_replay_events_applied_total{event="LINEUP_SET"} 2`)
	assert.Contains(t, out, "scorebook_replay_checkpoints_total 1")
}

func TestReplay_WithRules(t *testing.T) {
	out, err := execute(t, "replay", "--game", gameFile, "--rules", "testdata/seven.cue", "--format", "json")
	require.NoError(t, err)

	_, data := decodeResponse(t, out)
	linescore := data["linescore"].(map[string]any)
	assert.Len(t, linescore["HOME"], 7)
}

func TestReplay_RejectedEvent(t *testing.T) {
	out, err := execute(t, "replay", "--game", corruptFile)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	assert.Contains(t, out, "✗ REPLAY_REJECTED at event 7 (e-8 WALK)")
	assert.Contains(t, out, "must equal current PA batter 'a3'")
}

func TestReplay_RejectedEventJSON(t *testing.T) {
	out, err := execute(t, "replay", "--game", corruptFile, "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp, _ := decodeResponse(t, out)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "REPLAY_REJECTED", resp.Error.Code)
}

func TestReplay_CommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing flag", []string{"replay"}},
		{"missing game file", []string{"replay", "--game", "testdata/nope.yaml"}},
		{"missing rules file", []string{"replay", "--game", gameFile, "--rules", "testdata/nope.cue"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
		})
	}
}

func TestReplay_RulesErrorJSON(t *testing.T) {
	out, err := execute(t, "replay", "--game", gameFile, "--rules", "testdata/nope.cue", "--format", "json")
	require.Error(t, err)

	resp, _ := decodeResponse(t, out)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeRules, resp.Error.Code)
}
