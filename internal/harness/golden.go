package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/scorebook/internal/game"
)

// GoldenDir is where scenario snapshots are kept, relative to the test.
const GoldenDir = "testdata/golden"

// BoxScore is the snapshot compared against golden files: the game
// situation, the score and the linescore after the replay.
type BoxScore struct {
	Scenario  string                  `json:"scenario"`
	Status    game.Status             `json:"gameStatus"`
	Inning    game.HalfInningKey      `json:"inning"`
	Outs      int                     `json:"outs"`
	Bases     game.Bases              `json:"bases"`
	Score     game.BySide[game.Score] `json:"score"`
	Linescore game.BySide[[]int]      `json:"linescore"`
	Events    int                     `json:"events"`
}

// Snapshot builds the box-score snapshot of result.
func Snapshot(name string, result *Result) BoxScore {
	s := result.State
	return BoxScore{
		Scenario: name,
		Status:   s.Status,
		Inning:   s.HalfInning(),
		Outs:     s.Inning.Outs,
		Bases:    s.Bases,
		Score: game.BySide[game.Score]{
			Home: s.Teams.Home.Score,
			Away: s.Teams.Away.Score,
		},
		Linescore: game.BySide[[]int]{
			Home: s.Linescore.Home.RunsByInning,
			Away: s.Linescore.Away.RunsByInning,
		},
		Events: len(result.Events),
	}
}

// MarshalSnapshot returns the canonical JSON of the snapshot of result.
func MarshalSnapshot(name string, result *Result) ([]byte, error) {
	return game.MarshalCanonical(Snapshot(name, result))
}

// RunWithGolden executes a scenario and compares its box score against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if result.State == nil {
		return result, nil
	}
	return result, AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result against its golden file
// without re-running the scenario.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := MarshalSnapshot(name, result)
	if err != nil {
		return err
	}
	g := goldie.New(t,
		goldie.WithFixtureDir(GoldenDir),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}

// GoldenFile returns the golden file of a scenario loaded from disk:
// golden/<name>.golden next to the scenario's directory, the layout of
// testdata/scenarios and testdata/golden.
func (s *Scenario) GoldenFile() string {
	return filepath.Join(filepath.Dir(s.dir), "golden", s.Name+".golden")
}

// CompareGolden compares the snapshot of result with the scenario's golden
// file, or rewrites the file when update is set. It reports whether they
// match; a missing golden file is an error unless update is set.
func CompareGolden(s *Scenario, result *Result, update bool) (bool, error) {
	data, err := MarshalSnapshot(s.Name, result)
	if err != nil {
		return false, err
	}
	path := s.GoldenFile()

	if update {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return false, fmt.Errorf("failed to create golden directory: %w", err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return false, fmt.Errorf("failed to write golden file: %w", err)
		}
		return true, nil
	}

	want, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read golden file: %w", err)
	}
	return bytes.Equal(want, data), nil
}
