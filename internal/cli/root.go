// Package cli implements the naifuru command line.
package cli

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/naifuru/naifuru/internal/ir"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	LogLevel string
	Format   string // "json" | "text"

	// Logger is installed by the root command before any subcommand runs.
	// Commands built without a root fall back to a discard logger.
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

func (o *RootOptions) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: o.Format, Writer: cmd.OutOrStdout()}
}

// NewRootCommand creates the root command for the naifuru CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "naifuru",
		Short: "Decode strong-motion seismic records",
		Long: `naifuru decodes strong-motion accelerometer recordings from several
national networks (K-NET, P-Alert, ...) into one intermediate record.

An analysis config lists conversions; each conversion names a source format,
a target format and groups of files, one group per observed event.`,
		Version:       ir.ToolVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitArgs, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			logger, err := SetupLogger(cmd.ErrOrStderr(), opts.LogLevel)
			if err != nil {
				return WrapExitError(ExitArgs, "invalid flag", err)
			}
			opts.Logger = logger
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.LogLevel, "log-level", "l", "info", "log level (error|warn|info|debug)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewInspectCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}
