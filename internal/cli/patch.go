package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/scorebook/internal/game"
	"github.com/roach88/scorebook/internal/replay"
	"github.com/roach88/scorebook/internal/stats"
)

// PatchOptions holds flags for the patch command.
type PatchOptions struct {
	*RootOptions
	GameInputs
	EventFile string
}

// PatchReport is the outcome of a successful patch.
type PatchReport struct {
	EventID     string         `json:"event_id"`
	Index       int            `json:"index"`
	Name        game.Name      `json:"name"`
	Fingerprint string         `json:"fingerprint"`
	Changes     map[string]int `json:"stat_changes"`
}

// NewPatchCommand creates the patch command.
func NewPatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "patch",
		Short: "Replace a logged event with a scoring correction",
		Long: `Replace one event of a game log and rebuild the game.

The replacement must carry the eventId of the event it replaces. It may
change scoring only (hits, errors, run attribution, fielding credit):
bases, outs, count, inning, plate-appearance identity and game status must
come out the same as with the original.

The game file is not modified. The box score counters that change are
printed.

Exit codes:
  0 - Patch accepted
  1 - Patch rejected
  2 - Command error

Examples:
  scorebook patch --game game.yaml --event fix.yaml
  scorebook patch --game game.yaml --event fix.json --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPatch(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.RulesFile, "rules", "", "CUE rules file (default: nine-inning rules)")
	cmd.Flags().StringVar(&opts.GameFile, "game", "", "game file with the event log (required)")
	cmd.Flags().StringVar(&opts.EventFile, "event", "", "replacement event, YAML or JSON (required)")
	_ = cmd.MarkFlagRequired("game")
	_ = cmd.MarkFlagRequired("event")

	return cmd
}

func runPatch(opts *PatchOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	in, err := loadGame(opts.RootOptions, opts.GameInputs)
	if err != nil {
		return reportCommandError(formatter, err)
	}
	replacement, err := loadEvent(opts.EventFile, eventDefaults{GameID: in.Game.ID()})
	if err != nil {
		return reportCommandError(formatter, err)
	}
	if replacement.ID == "" {
		return reportCommandError(formatter, NewExitError(ExitCommandError, "replacement eventId is required"))
	}

	idx := slices.IndexFunc(in.Events, func(e game.Event) bool { return e.ID == replacement.ID })
	if idx >= 0 {
		// Envelope fields the file leaves out come from the original.
		orig := in.Events[idx]
		if replacement.CreatedISO == "" {
			replacement.CreatedISO = orig.CreatedISO
		}
		if replacement.CreatedBy == "" {
			replacement.CreatedBy = orig.CreatedBy
		}
	}

	logger := replay.WithLogger(opts.logger(cmd.ErrOrStderr()))
	before, err := replay.Rebuild(in.Initial, in.Rules, in.Events, logger)
	if err != nil {
		return reportReplayError(formatter, err)
	}

	patched, err := replay.Patch(in.Initial, in.Rules, in.Events, replacement.ID, replacement, logger)
	if err != nil {
		return reportPatchError(formatter, err)
	}

	fp, err := game.Fingerprint(patched.State)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to fingerprint patched state", err)
	}
	report := PatchReport{
		EventID:     replacement.ID,
		Index:       idx,
		Name:        replacement.Name,
		Fingerprint: fp,
		Changes:     statChanges(before.Stats, patched.Stats),
	}
	return outputPatch(formatter, report)
}

// statChanges lists the box score paths whose value differs between a and
// b, with the difference b - a.
func statChanges(a, b stats.State) map[string]int {
	before, after := flatten(a), flatten(b)
	out := map[string]int{}
	for path, v := range after {
		if d := v - before[path]; d != 0 {
			out[path] = d
		}
	}
	for path, v := range before {
		if _, ok := after[path]; !ok && v != 0 {
			out[path] = -v
		}
	}
	return out
}

func flatten(st stats.State) map[string]int {
	var d stats.Delta
	for id, line := range st.Players {
		for _, g := range stats.Groups {
			for _, s := range stats.GroupStats(g) {
				if n := line.Stats.Get(s); n != 0 {
					d.AddPlayer(id, s, n)
				}
			}
		}
	}
	for _, side := range []game.Side{game.SideHome, game.SideAway} {
		c := st.Team(side)
		for _, g := range stats.Groups {
			for _, s := range stats.GroupStats(g) {
				if n := c.Get(s); n != 0 {
					d.AddTeam(side, s, n)
				}
			}
		}
	}
	return d.Paths()
}

func reportPatchError(f *OutputFormatter, err error) error {
	if replay.IsLockedStateError(err) && !f.IsJSON() {
		fmt.Fprintln(f.Writer, "Patch rejected: the replacement changes what happened on the field.")
	}
	return reportReplayError(f, err)
}

func outputPatch(f *OutputFormatter, report PatchReport) error {
	if f.IsJSON() {
		return f.Success(report)
	}

	w := f.Writer
	fmt.Fprintf(w, "✓ Patched %s %s at index %d\n", report.Name, report.EventID, report.Index)
	if len(report.Changes) == 0 {
		fmt.Fprintln(w, "  No box score changes")
	}
	for _, path := range sortedKeys(report.Changes) {
		fmt.Fprintf(w, "  %s %+d\n", path, report.Changes[path])
	}
	fmt.Fprintf(w, "Fingerprint: %s\n", report.Fingerprint)
	return nil
}
