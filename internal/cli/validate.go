package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/scorebook/internal/engine"
	"github.com/roach88/scorebook/internal/game"
	"github.com/roach88/scorebook/internal/replay"
	"github.com/roach88/scorebook/internal/stats"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	GameInputs
	EventFile string
}

// ValidationResult holds the outcome of validating one event.
type ValidationResult struct {
	Valid   bool             `json:"valid"`
	EventID string           `json:"event_id"`
	Name    game.Name        `json:"name"`
	Code    engine.ErrorCode `json:"code,omitempty"`
	Errors  []string         `json:"errors,omitempty"`
	Changes map[string]int   `json:"stat_changes,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the next event against a game log",
		Long: `Replay a game log, then validate one more event against the resulting
state without recording it.

A missing eventId is generated (UUIDv7), and gameId and createdIso are
filled in from the game and the clock. An accepted event prints the box
score counters it would change.

Exit codes:
  0 - The event would be accepted
  1 - The event would be rejected, or the log itself fails to replay
  2 - Command error

Examples:
  scorebook validate --game game.yaml --event next.yaml
  scorebook validate --rules softball.cue --game game.yaml --event next.json --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.RulesFile, "rules", "", "CUE rules file (default: nine-inning rules)")
	cmd.Flags().StringVar(&opts.GameFile, "game", "", "game file with the event log (required)")
	cmd.Flags().StringVar(&opts.EventFile, "event", "", "event to validate, YAML or JSON (required)")
	_ = cmd.MarkFlagRequired("game")
	_ = cmd.MarkFlagRequired("event")

	return cmd
}

func runValidate(opts *ValidateOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	in, err := loadGame(opts.RootOptions, opts.GameInputs)
	if err != nil {
		return reportCommandError(formatter, err)
	}
	ev, err := loadEvent(opts.EventFile, eventDefaults{
		GameID:    in.Game.ID(),
		CreatedBy: in.Game.CreatedBy,
		IDs:       game.UUIDv7Generator{},
		Now:       time.Now,
	})
	if err != nil {
		return reportCommandError(formatter, err)
	}

	res, err := replay.Rebuild(in.Initial, in.Rules, in.Events, replay.WithLogger(opts.logger(cmd.ErrOrStderr())))
	if err != nil {
		return reportReplayError(formatter, err)
	}
	formatter.VerboseLog("Replayed %d event(s); validating %s %s", len(in.Events), ev.Name, ev.ID)

	result := validateNext(res, in.Rules, ev)
	if err := outputValidation(formatter, result); err != nil {
		return err
	}
	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("event %s rejected", ev.ID))
	}
	return nil
}

// validateNext validates ev against the replayed state and, when it is
// accepted, lists the counters it would change.
func validateNext(res replay.Result, rules game.Rules, ev game.Event) ValidationResult {
	out := ValidationResult{EventID: ev.ID, Name: ev.Name}

	v := engine.Validate(res.State, rules, ev)
	if !v.OK() {
		out.Code = v.Code
		out.Errors = v.Errors
		return out
	}
	out.Valid = true
	out.Changes = stats.Compute(res.State, rules, ev).Paths()
	return out
}

func outputValidation(f *OutputFormatter, result ValidationResult) error {
	if f.IsJSON() {
		if !result.Valid {
			return f.Error(string(result.Code), fmt.Sprintf("%s rejected", result.Name), result)
		}
		return f.Success(result)
	}

	w := f.Writer
	if !result.Valid {
		fmt.Fprintf(w, "✗ %s %s rejected [%s]\n", result.Name, result.EventID, result.Code)
		for _, msg := range result.Errors {
			fmt.Fprintf(w, "  %s\n", msg)
		}
		return nil
	}

	fmt.Fprintf(w, "✓ %s %s is valid\n", result.Name, result.EventID)
	for _, path := range sortedKeys(result.Changes) {
		fmt.Fprintf(w, "  %s %+d\n", path, result.Changes[path])
	}
	return nil
}
