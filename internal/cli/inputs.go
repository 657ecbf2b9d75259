package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/scorebook/internal/game"
	"github.com/roach88/scorebook/internal/harness"
	"github.com/roach88/scorebook/internal/rules"
)

// GameInputs holds what a command reads from its --rules and --game flags.
type GameInputs struct {
	RulesFile string
	GameFile  string
}

// gameInput is a loaded rules file and game log.
type gameInput struct {
	Rules   game.Rules
	Game    *harness.GameFile
	Initial *game.State
	Events  []game.Event
}

// resolveRulesFile applies the configured default when --rules is empty.
func (o *RootOptions) resolveRulesFile(path string) string {
	if path != "" {
		return path
	}
	return o.cfg().RulesFile
}

// loadGame loads the rules and the game log. Every failure is a command
// error.
func loadGame(opts *RootOptions, in GameInputs) (*gameInput, error) {
	r := game.DefaultRules()
	if path := opts.resolveRulesFile(in.RulesFile); path != "" {
		f, err := rules.Load(path)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to load rules", err)
		}
		r = f.Effective()
	}

	if in.GameFile == "" {
		return nil, NewExitError(ExitCommandError, "--game is required")
	}
	g, err := harness.LoadGameFile(in.GameFile)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load game", err)
	}
	initial, err := g.Initial(r)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to build initial state", err)
	}
	events, err := g.Log(0)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to decode event log", err)
	}
	return &gameInput{Rules: r, Game: g, Initial: initial, Events: events}, nil
}

// eventDefaults fills envelope fields a hand-written event file may omit.
type eventDefaults struct {
	GameID    string
	CreatedBy string
	IDs       game.IDGenerator // nil leaves a missing eventId empty
	Now       func() time.Time
}

// loadEvent reads one event envelope from a YAML or JSON file.
func loadEvent(path string, defaults eventDefaults) (game.Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return game.Event{}, WrapExitError(ExitCommandError, "failed to read event file", err)
	}

	var rec map[string]any
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&rec); err != nil {
		return game.Event{}, WrapExitError(ExitCommandError, "failed to parse event file", err)
	}
	if rec == nil {
		return game.Event{}, NewExitError(ExitCommandError, fmt.Sprintf("event file %s is empty", path))
	}

	if _, ok := rec["eventId"]; !ok && defaults.IDs != nil {
		rec["eventId"] = defaults.IDs.Generate()
	}
	if _, ok := rec["gameId"]; !ok {
		rec["gameId"] = defaults.GameID
	}
	if _, ok := rec["createdBy"]; !ok && defaults.CreatedBy != "" {
		rec["createdBy"] = defaults.CreatedBy
	}
	if _, ok := rec["createdIso"]; !ok && defaults.Now != nil {
		rec["createdIso"] = defaults.Now().UTC().Format(time.RFC3339)
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return game.Event{}, WrapExitError(ExitCommandError, "failed to encode event", err)
	}
	var ev game.Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return game.Event{}, WrapExitError(ExitCommandError, "failed to decode event", err)
	}
	if ev.Name == "" {
		return game.Event{}, NewExitError(ExitCommandError, "event name is required")
	}
	return ev, nil
}
