package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const harnessScenarios = "../harness/testdata/scenarios"

func TestTest_HarnessScenariosPass(t *testing.T) {
	out, err := execute(t, "test", harnessScenarios)
	require.NoError(t, err, out)

	assert.Contains(t, out, "✓ walk_on_four_balls")
	assert.Contains(t, out, "✓ patch_state_edit_rejected")
	assert.Contains(t, out, "0 failed")
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestTest_Filter(t *testing.T) {
	out, err := execute(t, "test", harnessScenarios, "--filter", "walk_*", "--format", "json")
	require.NoError(t, err)

	resp, data := decodeResponse(t, out)
	assert.Equal(t, "ok", resp.Status)
	assert.EqualValues(t, 2, data["total"])
	assert.EqualValues(t, 2, data["passed"])
}

func TestTest_NoScenarios(t *testing.T) {
	out, err := execute(t, "test", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found.")
}

func TestTest_MissingPath(t *testing.T) {
	_, err := execute(t, "test", "testdata/no-such-dir")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func writeTestScenario(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name+".yaml")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestTest_FailingScenario(t *testing.T) {
	dir := t.TempDir()
	writeTestScenario(t, dir, "wrong_count", `name: wrong_count
description: "expects the wrong count"
opening: true
game:
  events:
    - name: PITCH
      payload: {result: BALL}
assertions:
  - type: state
    path: inning.count.balls
    equals: 3
`)

	out, err := execute(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ wrong_count")
	assert.Contains(t, out, "Expected: 3")
	assert.Contains(t, out, "1 failed")
}

func TestTest_FailingScenarioJSON(t *testing.T) {
	dir := t.TempDir()
	writeTestScenario(t, dir, "broken", "name: broken\n")

	out, err := execute(t, "test", dir, "--format", "json")
	require.Error(t, err)

	resp, _ := decodeResponse(t, out)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeTestFailed, resp.Error.Code)
}

func TestTest_UpdateGolden(t *testing.T) {
	root := t.TempDir()
	body, err := os.ReadFile(filepath.Join(harnessScenarios, "walk_on_four_balls.yaml"))
	require.NoError(t, err)
	writeTestScenario(t, filepath.Join(root, "scenarios"), "walk_on_four_balls", string(body))

	// Without a golden file the scenario fails.
	_, err = execute(t, "test", filepath.Join(root, "scenarios"))
	require.Error(t, err)

	out, err := execute(t, "test", filepath.Join(root, "scenarios"), "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ walk_on_four_balls (golden updated)")

	got, err := os.ReadFile(filepath.Join(root, "golden", "walk_on_four_balls.golden"))
	require.NoError(t, err)
	want, err := os.ReadFile("../harness/testdata/golden/walk_on_four_balls.golden")
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))

	_, err = execute(t, "test", filepath.Join(root, "scenarios"))
	assert.NoError(t, err)
}
