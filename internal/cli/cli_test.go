package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/scorebook/internal/game"
)

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("SCOREBOOK_CONFIG", "")

	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

// decodeResponse parses a JSON CLI response with a map payload.
func decodeResponse(t *testing.T, out string) (CLIResponse, map[string]any) {
	t.Helper()
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	data, _ := resp.Data.(map[string]any)
	if data == nil && resp.Error != nil {
		data, _ = resp.Error.Details.(map[string]any)
	}
	return resp, data
}

func gameLines(away, home []int) game.BySide[[]int] {
	return game.BySide[[]int]{Away: away, Home: home}
}

func scores(awayR, awayH, awayE, homeR, homeH, homeE int) game.BySide[game.Score] {
	return game.BySide[game.Score]{
		Away: game.Score{Runs: awayR, Hits: awayH, Errors: awayE},
		Home: game.Score{Runs: homeR, Hits: homeH, Errors: homeE},
	}
}
