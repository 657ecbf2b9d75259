package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/scorebook/internal/game"
	"github.com/roach88/scorebook/internal/metrics"
	"github.com/roach88/scorebook/internal/replay"
	"github.com/roach88/scorebook/internal/stats"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	GameInputs
	Checkpoints bool
	Metrics     bool
}

// ReplayReport is the result of a replay.
type ReplayReport struct {
	GameID           string                  `json:"game_id"`
	Events           int                     `json:"events"`
	Checkpoints      []string                `json:"checkpoints"`
	Status           game.Status             `json:"game_status"`
	Inning           game.HalfInningKey      `json:"inning"`
	Outs             int                     `json:"outs"`
	Score            game.BySide[game.Score] `json:"score"`
	Linescore        game.BySide[[]int]      `json:"linescore"`
	Fingerprint      string                  `json:"fingerprint"`
	StatsFingerprint string                  `json:"stats_fingerprint"`
	Deterministic    bool                    `json:"deterministic"`
	BoxScore         stats.State             `json:"box_score"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay a game log and verify determinism",
		Long: `Replay a game event log from its initial state.

The log is replayed twice and the state and box-score fingerprints of both
runs are compared. The final score, linescore and box score are printed.

Exit codes:
  0 - Replay succeeded and is deterministic
  1 - A logged event was rejected, or the two replays differ
  2 - Command error (missing file, bad rules, malformed log)

Examples:
  scorebook replay --game game.yaml
  scorebook replay --rules league.cue --game game.yaml --checkpoints=false
  scorebook replay --game game.yaml --metrics --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg()
			if !cmd.Flags().Changed("checkpoints") {
				opts.Checkpoints = cfg.Checkpoints
			}
			if !cmd.Flags().Changed("metrics") {
				opts.Metrics = cfg.Metrics
			}
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.RulesFile, "rules", "", "CUE rules file (default: nine-inning rules)")
	cmd.Flags().StringVar(&opts.GameFile, "game", "", "game file with the event log (required)")
	_ = cmd.MarkFlagRequired("game")
	cmd.Flags().BoolVar(&opts.Checkpoints, "checkpoints", true, "take half-inning checkpoints")
	cmd.Flags().BoolVar(&opts.Metrics, "metrics", false, "print replay metrics in Prometheus text format")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	in, err := loadGame(opts.RootOptions, opts.GameInputs)
	if err != nil {
		return reportCommandError(formatter, err)
	}
	formatter.VerboseLog("Loaded %d event(s) for game %s", len(in.Events), in.Game.ID())

	replayOpts := []replay.Option{
		replay.WithLogger(opts.logger(cmd.ErrOrStderr())),
		replay.WithCheckpoints(opts.Checkpoints),
	}
	var (
		mgr      *metrics.Manager
		observer replay.Observer
	)
	if opts.Metrics {
		mgr = metrics.NewManager()
		observer = mgr
	}

	first, err := replayOnce(in, replayOpts, observer)
	if err != nil {
		return reportReplayError(formatter, err)
	}
	second, err := replayOnce(in, replayOpts, nil)
	if err != nil {
		return reportReplayError(formatter, err)
	}

	report, err := buildReplayReport(in, first)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to fingerprint replay", err)
	}
	again, err := buildReplayReport(in, second)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to fingerprint replay", err)
	}
	report.Deterministic = report.Fingerprint == again.Fingerprint &&
		report.StatsFingerprint == again.StatsFingerprint

	if err := outputReplay(formatter, report); err != nil {
		return err
	}
	if mgr != nil {
		if err := mgr.WriteText(metricsWriter(formatter)); err != nil {
			return WrapExitError(ExitCommandError, "failed to write metrics", err)
		}
	}
	if !report.Deterministic {
		// Determinism failure = exit code 1
		return NewExitError(ExitFailure, "determinism verification failed")
	}
	return nil
}

func replayOnce(in *gameInput, opts []replay.Option, observer replay.Observer) (replay.Result, error) {
	if observer != nil {
		opts = append(opts, replay.WithObserver(observer))
	}
	return replay.New(in.Initial, in.Rules, opts...).Reconcile(in.Events)
}

func buildReplayReport(in *gameInput, res replay.Result) (ReplayReport, error) {
	fp, err := game.Fingerprint(res.State)
	if err != nil {
		return ReplayReport{}, err
	}
	sfp, err := stats.Fingerprint(res.Stats)
	if err != nil {
		return ReplayReport{}, err
	}
	s := res.State
	labels := make([]string, len(res.Checkpoints))
	for i, cp := range res.Checkpoints {
		labels[i] = cp.Label
	}
	return ReplayReport{
		GameID:      in.Game.ID(),
		Events:      len(in.Events),
		Checkpoints: labels,
		Status:      s.Status,
		Inning:      s.HalfInning(),
		Outs:        s.Inning.Outs,
		Score: game.BySide[game.Score]{
			Home: s.Teams.Home.Score,
			Away: s.Teams.Away.Score,
		},
		Linescore: game.BySide[[]int]{
			Home: s.Linescore.Home.RunsByInning,
			Away: s.Linescore.Away.RunsByInning,
		},
		Fingerprint:      fp,
		StatsFingerprint: sfp,
		BoxScore:         res.Stats,
	}, nil
}

// outputReplay prints the report. A non-deterministic replay is reported
// as an error response in JSON.
func outputReplay(f *OutputFormatter, report ReplayReport) error {
	if f.IsJSON() {
		if !report.Deterministic {
			return f.Error(ErrCodeDeterminism, "determinism verification failed", report)
		}
		return f.Success(report)
	}

	w := f.Writer
	fmt.Fprintf(w, "Replay: %s (%d events)\n", report.GameID, report.Events)
	if len(report.Checkpoints) > 0 {
		fmt.Fprintf(w, "Checkpoints: %d\n", len(report.Checkpoints))
		if f.Verbose {
			for _, label := range report.Checkpoints {
				fmt.Fprintf(w, "  %s\n", label)
			}
		}
	}
	fmt.Fprintf(w, "Status: %s, %s %d, %d out\n", report.Status, report.Inning.Half, report.Inning.Inning, report.Outs)
	fmt.Fprintln(w)
	writeLinescore(w, report.Linescore, report.Score)
	fmt.Fprintln(w)
	writeBoxScore(w, report.BoxScore)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Fingerprint: %s\n", report.Fingerprint)

	if report.Deterministic {
		fmt.Fprintln(w, "✓ Deterministic")
	} else {
		fmt.Fprintln(w, "✗ Non-deterministic: the two replays differ")
	}
	return nil
}

// metricsWriter keeps metrics off stdout when stdout carries JSON.
func metricsWriter(f *OutputFormatter) io.Writer {
	if f.IsJSON() {
		return f.GetErrWriter()
	}
	return f.Writer
}

// reportReplayError prints a replay failure and maps it to exit code 1.
func reportReplayError(f *OutputFormatter, err error) error {
	var re *replay.Error
	if !errors.As(err, &re) {
		return WrapExitError(ExitCommandError, "replay failed", err)
	}
	if outErr := f.ReplayError(re); outErr != nil {
		return outErr
	}
	return WrapExitError(ExitFailure, "replay failed", re)
}

// reportCommandError prints a command error in JSON mode and passes it on.
// In text mode main prints the error.
func reportCommandError(f *OutputFormatter, err error) error {
	if f.IsJSON() {
		code := ErrCodeCommand
		var exitErr *ExitError
		if errors.As(err, &exitErr) && exitErr.Message == "failed to load rules" {
			code = ErrCodeRules
		}
		if outErr := f.Error(code, err.Error(), nil); outErr != nil {
			return outErr
		}
	}
	return err
}
