package harness

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/roach88/scorebook/internal/game"
	"github.com/roach88/scorebook/internal/replay"
	"github.com/roach88/scorebook/internal/rules"
	"github.com/roach88/scorebook/internal/testutil"
)

// Harness runs scenarios. The zero value is not usable; call New.
type Harness struct {
	logger *slog.Logger
	opts   []replay.Option
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger sets the logger handed to the replay.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithReplayOptions adds options to every replay and patch, for example
// an observer.
func WithReplayOptions(opts ...replay.Option) Option {
	return func(h *Harness) {
		h.opts = append(h.opts, opts...)
	}
}

// New creates a Harness. Logs are discarded unless WithLogger is given.
func New(opts ...Option) *Harness {
	h := &Harness{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes a scenario with a default Harness.
func Run(scenario *Scenario) (*Result, error) {
	return New().Run(scenario)
}

// Run executes a scenario and returns the result.
//
// Execution flow:
//  1. Resolve rules and build the initial state
//  2. Decode the event log, after the standard opening when requested
//  3. Replay the log, then apply the patch if any
//  4. Check the expected failure, or evaluate assertions
//
// The error return is reserved for scenarios that cannot be executed at
// all; failed expectations are reported in Result.
func (h *Harness) Run(scenario *Scenario) (*Result, error) {
	r := game.DefaultRules()
	if path := scenario.RulesPath(); path != "" {
		f, err := rules.Load(path)
		if err != nil {
			return nil, err
		}
		r = f.Effective()
	}

	initial, err := scenario.Game.Initial(r)
	if err != nil {
		return nil, fmt.Errorf("initial state: %w", err)
	}

	var events []game.Event
	if scenario.Opening {
		events = testutil.NewScript().Opening().Events
	}
	logged, err := scenario.Game.Log(len(events))
	if err != nil {
		return nil, err
	}
	events = append(events, logged...)

	opts := append([]replay.Option{replay.WithLogger(h.logger)}, h.opts...)
	result := NewResult()
	result.Events = events

	replayed, err := replay.New(initial, r, opts...).Reconcile(events)
	if err != nil {
		checkFailure(result, scenario.Expect, err)
		return result, nil
	}
	result.State = replayed.State
	result.Stats = replayed.Stats
	result.Checkpoints = len(replayed.Checkpoints)

	if p := scenario.Patch; p != nil {
		idx := slices.IndexFunc(events, func(e game.Event) bool { return e.ID == p.EventID })
		if idx < 0 {
			return nil, fmt.Errorf("patch: event %q is not in the log", p.EventID)
		}
		replacement := events[idx]
		replacement.Payload, err = DecodePayload(replacement.Name, p.Payload)
		if err != nil {
			return nil, fmt.Errorf("patch: %w", err)
		}

		patched, err := replay.Patch(initial, r, events, p.EventID, replacement, opts...)
		if err != nil {
			checkFailure(result, scenario.Expect, err)
			if !result.Pass {
				return result, nil
			}
		} else {
			result.Events = patched.Events
			result.State = patched.State
			result.Stats = patched.Stats
		}
	}

	if scenario.Expect != nil && !failed(result, scenario.Expect) {
		result.AddError(fmt.Sprintf("expected failure %s, but the scenario succeeded", scenario.Expect.Code))
	}

	fp, err := game.Fingerprint(result.State)
	if err != nil {
		return nil, err
	}
	result.Fingerprint = fp

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// checkFailure compares a replay or patch error with the expected failure.
func checkFailure(result *Result, want *ExpectClause, err error) {
	var re *replay.Error
	if !errors.As(err, &re) {
		result.AddError(fmt.Sprintf("unexpected error: %v", err))
		return
	}
	if want == nil {
		result.AddError(fmt.Sprintf("replay failed: %v", re))
		return
	}
	if re.Code != want.Code {
		result.AddError(fmt.Sprintf("expected failure %s, got %v", want.Code, re))
		return
	}
	if want.Index != nil && re.Index != *want.Index {
		result.AddError(fmt.Sprintf("expected failure at index %d, got index %d", *want.Index, re.Index))
	}
	if want.Message != "" && !slices.ContainsFunc(re.Messages, func(m string) bool {
		return strings.Contains(m, want.Message)
	}) {
		result.AddError(fmt.Sprintf("expected a message containing %q, got %q", want.Message, re.Messages))
	}
	result.failure = re
}

func failed(result *Result, want *ExpectClause) bool {
	return result.failure != nil && result.failure.Code == want.Code
}
