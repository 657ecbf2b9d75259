package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/scorebook/internal/config"
)

// RootOptions holds global flags for all commands, layered over the
// loaded configuration.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	// Config is loaded before any subcommand runs.
	Config *config.Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{config.FormatText, config.FormatJSON}

// NewRootCommand creates the root command for the scorebook CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "scorebook",
		Short: "Scorebook - event-sourced baseball scoring",
		Long: `Replay, validate and patch baseball and softball game event logs.

Game state and box scores are derived from the log only; the same log and
rules always produce the same result.

Configuration is read from the YAML file named by SCOREBOOK_CONFIG and from
SCOREBOOK_* environment variables. Flags override both.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load configuration", err)
			}
			opts.Config = cfg
			if !cmd.Flags().Changed("format") {
				opts.Format = cfg.Format
			}
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", config.FormatText, "output format (json|text)")

	cmd.AddCommand(NewReplayCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewPatchCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewRulesCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// cfg returns the loaded configuration, or defaults when a command is
// run without the root pre-run hook.
func (o *RootOptions) cfg() *config.Config {
	if o.Config == nil {
		return config.New()
	}
	return o.Config
}

// logger builds the diagnostic logger: the configured level, lowered to
// debug by --verbose.
func (o *RootOptions) logger(w io.Writer) *slog.Logger {
	level := o.cfg().Level()
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// formatter builds an OutputFormatter for cmd.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}
