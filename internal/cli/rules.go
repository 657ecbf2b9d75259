package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/scorebook/internal/game"
	"github.com/roach88/scorebook/internal/rules"
)

// RulesReport holds the league rules of a file and the effective rules
// after its game override.
type RulesReport struct {
	File      string     `json:"file"`
	League    game.Rules `json:"league"`
	Override  bool       `json:"has_override"`
	Effective game.Rules `json:"effective"`
}

// NewRulesCommand creates the rules command.
func NewRulesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules [file.cue]",
		Short: "Print the effective rules of a rules file",
		Long: `Load a CUE rules file, apply schema defaults and the optional game
override, and print the effective rules.

Without an argument the configured rules_file is used; without that the
nine-inning defaults are printed.

Exit codes:
  0 - Rules are valid
  2 - The file is missing or invalid

Examples:
  scorebook rules league.cue
  scorebook rules softball.cue --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runRules(rootOpts, rootOpts.resolveRulesFile(path), cmd)
		},
	}

	return cmd
}

func runRules(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	report := RulesReport{File: path, League: game.DefaultRules(), Effective: game.DefaultRules()}
	if path != "" {
		f, err := rules.Load(path)
		if err != nil {
			return outputRulesError(formatter, err)
		}
		report.League = f.League
		report.Override = f.Override != nil
		report.Effective = f.Effective()
	}

	if formatter.IsJSON() {
		return formatter.Success(report)
	}
	return outputRulesText(formatter, report)
}

func outputRulesError(f *OutputFormatter, err error) error {
	var le *rules.LoadError
	if errors.As(err, &le) {
		details := map[string]string{"field": le.Field}
		if le.Pos.IsValid() {
			details["position"] = le.Pos.String()
		}
		if outErr := f.Error(ErrCodeRules, le.Message, details); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitCommandError, "invalid rules", err)
	}
	return reportCommandError(f, WrapExitError(ExitCommandError, "failed to load rules", err))
}

func outputRulesText(f *OutputFormatter, report RulesReport) error {
	w := f.Writer
	r := report.Effective

	if report.File == "" {
		fmt.Fprintln(w, "Rules: defaults")
	} else {
		fmt.Fprintf(w, "Rules: %s", report.File)
		if report.Override {
			fmt.Fprint(w, " (with game override)")
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "  innings:            %d\n", r.Innings)
	fmt.Fprintf(w, "  balls for walk:     %d\n", r.BallsForWalk)
	fmt.Fprintf(w, "  strikes for out:    %d\n", r.StrikesForOut)
	fmt.Fprintf(w, "  outs per inning:    %d\n", r.OutsPerInning)
	fmt.Fprintf(w, "  starting count:     %d-%d\n", r.StartingBalls, r.StartingStrikes)
	fmt.Fprintf(w, "  extra innings:      %t\n", r.PlayExtraInnings)
	fmt.Fprintf(w, "  tie games:          %t\n", r.AllowTieGames)
	fmt.Fprintf(w, "  tie-breaker:        %s\n", r.TieBreaker.Type)

	tb := r.TieBreaker
	if tb.Type != game.TieBreakerNone {
		fmt.Fprintf(w, "    start inning:     %d\n", tb.StartInning)
		fmt.Fprintf(w, "    runner starts on: %s\n", tb.RunnerStartsOn)
		fmt.Fprintf(w, "    runner is:        %s\n", tb.RunnerIs)
		if sc := tb.Scoring; sc != nil {
			fmt.Fprintf(w, "    earned for pitcher: %t, run for runner: %t, RBI for batter: %t\n",
				sc.EarnedRunForPitcher, sc.CountsAsRunForRunner, sc.CountsAsRBIForBatter)
		}
	}
	return nil
}
