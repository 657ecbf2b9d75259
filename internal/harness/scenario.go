package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/scorebook/internal/replay"
)

// Scenario is a scripted game with expectations about how it replays.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Rules is an optional CUE rules file, relative to the scenario file.
	// Without it the game uses nine-inning defaults.
	Rules string `yaml:"rules,omitempty"`

	// Opening prepends the standard lineups, defenses and GAME_STARTED
	// for the fixture rosters, leaving a1 up against h1.
	Opening bool `yaml:"opening,omitempty"`

	// Game holds the teams and the event log.
	Game GameFile `yaml:"game"`

	// Patch replaces one event after the replay.
	Patch *PatchStep `yaml:"patch,omitempty"`

	// Expect declares that the replay or the patch must fail.
	Expect *ExpectClause `yaml:"expect,omitempty"`

	// Assertions check the final state and box score.
	Assertions []Assertion `yaml:"assertions,omitempty"`

	// Golden compares a box-score snapshot with testdata/golden/<name>.golden.
	Golden bool `yaml:"golden,omitempty"`

	dir string
}

// PatchStep replaces the payload of a logged event.
type PatchStep struct {
	EventID string         `yaml:"event_id"`
	Payload map[string]any `yaml:"payload"`
}

// ExpectClause describes an expected replay or patch failure.
type ExpectClause struct {
	// Code is a replay error code such as LOCKED_STATE_CHANGED.
	Code replay.ErrorCode `yaml:"code"`

	// Index is the expected failing event index, when given.
	Index *int `yaml:"index,omitempty"`

	// Message must appear in one of the error messages, when given.
	Message string `yaml:"message,omitempty"`
}

// Assertion checks one value of the final replay result.
type Assertion struct {
	// Type is "stat" for a box-score path or "state" for a game state path.
	Type string `yaml:"type"`

	// Path is dotted: "players.a1.batting.BB" for stats,
	// "teams.AWAY.score.runs" or "bases.1B" for state.
	Path string `yaml:"path"`

	// Equals is the expected value. A missing state field equals null.
	Equals any `yaml:"equals"`
}

// Assertion type constants.
const (
	AssertStat  = "stat"
	AssertState = "state"
)

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected so that typos fail loudly.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	scenario.dir = filepath.Dir(path)

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// RulesPath returns the rules file resolved against the scenario location.
func (s *Scenario) RulesPath() string {
	if s.Rules == "" || filepath.IsAbs(s.Rules) {
		return s.Rules
	}
	return filepath.Join(s.dir, s.Rules)
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Game.Events) == 0 && !s.Opening {
		return fmt.Errorf("game.events is required and must be non-empty")
	}
	if s.Expect == nil && len(s.Assertions) == 0 && !s.Golden {
		return fmt.Errorf("assertions list is required when no failure is expected")
	}
	if rules := s.RulesPath(); rules != "" {
		if _, err := os.Stat(rules); os.IsNotExist(err) {
			return fmt.Errorf("rules file not found: %s", rules)
		}
	}

	for i, ev := range s.Game.Events {
		if name, _ := ev["name"].(string); name == "" {
			return fmt.Errorf("game.events[%d]: name is required", i)
		}
	}
	if p := s.Patch; p != nil {
		if p.EventID == "" {
			return fmt.Errorf("patch: event_id is required")
		}
		if p.Payload == nil {
			return fmt.Errorf("patch: payload is required")
		}
	}
	if s.Expect != nil && s.Expect.Code == "" {
		return fmt.Errorf("expect: code is required")
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, a); err != nil {
			return err
		}
	}
	return nil
}

func validateAssertion(index int, a Assertion) error {
	switch a.Type {
	case AssertStat, AssertState:
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	default:
		return fmt.Errorf("assertions[%d]: unknown type %q (want stat or state)", index, a.Type)
	}
	if a.Path == "" {
		return fmt.Errorf("assertions[%d]: path is required", index)
	}
	if a.Type == AssertStat {
		if _, ok := a.Equals.(int); !ok {
			return fmt.Errorf("assertions[%d]: stat assertions need an integer equals", index)
		}
	}
	return nil
}

// ScenarioNotFoundError is returned when a path given to FindScenarios
// does not exist.
type ScenarioNotFoundError struct {
	Path string
}

func (e *ScenarioNotFoundError) Error() string {
	return fmt.Sprintf("scenario path %q does not exist", e.Path)
}

// FindScenarios expands files and directories into a sorted list of
// scenario files. Directories are walked for .yaml and .yml files; filter,
// when non-empty, is a glob matched against the file name without
// extension.
func FindScenarios(paths []string, filter string) ([]string, error) {
	var files []string
	add := func(path string) error {
		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(path), ext)
			matched, err := filepath.Match(filter, name)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}
		files = append(files, path)
		return nil
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if os.IsNotExist(err) {
			return nil, &ScenarioNotFoundError{Path: root}
		}
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if err := add(root); err != nil {
				return nil, err
			}
			continue
		}
		err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return nil
			}
			return add(path)
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}
