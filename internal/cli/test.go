package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/scorebook/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update bool   // regenerate golden files
	Filter string // scenario filter (glob pattern)
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenario files or dirs>...",
		Short: "Run scenario files",
		Long: `Run YAML scenario files through the replay and check their assertions.

Directories are searched for .yaml and .yml files. Scenarios marked golden
are also compared with golden/<name>.golden next to their directory.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  scorebook test ./scenarios
  scorebook test ./scenarios --filter "walk_*"
  scorebook test ./scenarios --update
  scorebook test ./scenarios/two_run_single.yaml --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")

	return cmd
}

func runTests(opts *TestOptions, paths []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	files, err := harness.FindScenarios(paths, opts.Filter)
	if err != nil {
		var nf *harness.ScenarioNotFoundError
		if errors.As(err, &nf) {
			return reportCommandError(formatter, NewExitError(ExitCommandError, nf.Error()))
		}
		return reportCommandError(formatter, WrapExitError(ExitCommandError, "failed to find scenarios", err))
	}

	result := TestResult{
		Scenarios: make([]ScenarioResult, 0, len(files)),
		Total:     len(files),
	}
	if len(files) == 0 {
		if formatter.IsJSON() {
			return formatter.Success(result)
		}
		fmt.Fprintln(formatter.Writer, "No scenarios found.")
		return nil
	}

	h := harness.New(harness.WithLogger(opts.logger(cmd.ErrOrStderr())))
	for _, file := range files {
		formatter.VerboseLog("Running %s", file)
		sr := runScenario(h, file, opts.Update)
		result.Scenarios = append(result.Scenarios, sr)
		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
		if !formatter.IsJSON() {
			printScenario(formatter, sr, opts.Update)
		}
	}

	if formatter.IsJSON() {
		return outputTestJSON(formatter, result)
	}
	return outputTestText(formatter, result)
}

// runScenario executes a single scenario and returns the result.
func runScenario(h *harness.Harness, file string, update bool) ScenarioResult {
	scenario, err := harness.LoadScenario(file)
	if err != nil {
		return ScenarioResult{
			Name:   filepath.Base(file),
			Errors: []string{fmt.Sprintf("failed to load scenario: %v", err)},
		}
	}

	result, err := h.Run(scenario)
	if err != nil {
		return ScenarioResult{
			Name:   scenario.Name,
			Errors: []string{fmt.Sprintf("execution failed: %v", err)},
		}
	}

	sr := ScenarioResult{Name: scenario.Name, Pass: result.Pass, Errors: result.Errors}
	if !scenario.Golden || result.State == nil {
		return sr
	}

	match, err := harness.CompareGolden(scenario, result, update)
	switch {
	case err != nil:
		sr.Pass = false
		sr.Errors = append(sr.Errors, fmt.Sprintf("golden comparison failed: %v", err))
	case !match:
		sr.Pass = false
		sr.Errors = append(sr.Errors, "box score does not match golden file (run with --update to regenerate)")
	}
	return sr
}

func printScenario(f *OutputFormatter, sr ScenarioResult, update bool) {
	w := f.Writer
	if sr.Pass {
		if update {
			fmt.Fprintf(w, "✓ %s (golden updated)\n", sr.Name)
			return
		}
		fmt.Fprintf(w, "✓ %s\n", sr.Name)
		return
	}
	fmt.Fprintf(w, "✗ %s\n", sr.Name)
	for _, e := range sr.Errors {
		fmt.Fprintf(w, "  %s\n", e)
	}
}

// outputTestJSON outputs the test result as JSON.
func outputTestJSON(f *OutputFormatter, result TestResult) error {
	if result.Failed == 0 {
		return f.Success(result)
	}
	msg := fmt.Sprintf("%d scenario(s) failed", result.Failed)
	if err := f.Error(ErrCodeTestFailed, msg, result); err != nil {
		return err
	}
	// Test failures = exit code 1
	return NewExitError(ExitFailure, msg)
}

// outputTestText outputs the test result as text.
func outputTestText(f *OutputFormatter, result TestResult) error {
	w := f.Writer

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Test Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)

	if result.Failed > 0 {
		// Test failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}

	fmt.Fprintln(w, "✓ All scenarios passed")
	return nil
}
