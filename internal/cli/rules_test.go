package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRules_Defaults(t *testing.T) {
	out, err := execute(t, "rules")
	require.NoError(t, err)
	assert.Contains(t, out, "Rules: defaults")
	assert.Contains(t, out, "innings:            9")
	assert.Contains(t, out, "tie-breaker:        NONE")
}

func TestRules_File(t *testing.T) {
	out, err := execute(t, "rules", "testdata/seven.cue")
	require.NoError(t, err)

	assert.Contains(t, out, "Rules: testdata/seven.cue")
	assert.Contains(t, out, "innings:            7")
	assert.Contains(t, out, "extra innings:      false")
	assert.Contains(t, out, "tie-breaker:        INTERNATIONAL_TIE_BREAKER")
	assert.Contains(t, out, "start inning:     8")
	assert.Contains(t, out, "runner starts on: 2B")
}

func TestRules_JSON(t *testing.T) {
	out, err := execute(t, "rules", "testdata/seven.cue", "--format", "json")
	require.NoError(t, err)

	resp, data := decodeResponse(t, out)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, false, data["has_override"])
	effective := data["effective"].(map[string]any)
	assert.EqualValues(t, 7, effective["innings"])
	tb := effective["tieBreaker"].(map[string]any)
	assert.EqualValues(t, 8, tb["startInning"])
}

func TestRules_FromConfig(t *testing.T) {
	t.Setenv("SCOREBOOK_RULES_FILE", "testdata/seven.cue")
	out, err := execute(t, "rules")
	require.NoError(t, err)
	assert.Contains(t, out, "innings:            7")
}

func TestRules_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.cue")
	require.NoError(t, os.WriteFile(path, []byte("league: {innings: 0}\n"), 0o644))

	out, err := execute(t, "rules", path, "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	resp, _ := decodeResponse(t, out)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeRules, resp.Error.Code)
}

func TestRules_MissingFile(t *testing.T) {
	_, err := execute(t, "rules", "testdata/nope.cue")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
