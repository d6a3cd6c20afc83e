package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/naifuru/naifuru/internal/config"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid       bool                     `json:"valid"`
	Conversions int                      `json:"conversions"`
	Units       int                      `json:"units"`
	Errors      []config.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <config>",
		Short: "Check an analysis config without decoding any data",
		Long: `Check an analysis config without decoding any data.

Every problem is reported at once: unknown extensions, missing files,
axis tags that do not fit the source format, duplicate conversion names.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	cfg, err := loadConfig(formatter, path)
	if err != nil {
		return err
	}

	if errs := config.Validate(cfg); len(errs) > 0 {
		return outputValidationErrors(formatter, errs)
	}

	result := ValidationResult{
		Valid:       true,
		Conversions: len(cfg.Conversions),
		Units:       len(cfg.Units()),
	}
	if formatter.JSON() {
		return formatter.Success(result)
	}
	_, err = fmt.Fprintf(formatter.Writer, "✓ Config valid: %d conversion(s), %d file(s)\n", result.Conversions, result.Units)
	return err
}

// loadConfig checks the config path, then decodes and schema-checks it,
// reporting failures through formatter with the matching exit code.
func loadConfig(formatter *OutputFormatter, path string) (*config.Config, error) {
	if err := checkFile(path, config.Extensions()); err != nil {
		var argsErr *ArgsError
		if errors.As(err, &argsErr) {
			_ = formatter.Error(string(argsErr.Kind), argsErr.Error(), nil)
		}
		return nil, err
	}

	cfg, err := config.Load(path)
	if err != nil {
		var parseErr *config.ParseError
		if errors.As(err, &parseErr) {
			_ = formatter.Error("ParseError", parseErr.Error(), nil)
			return nil, WrapExitError(ExitConfigParse, "invalid config", err)
		}
		_ = formatter.Error("IOError", err.Error(), nil)
		return nil, WrapExitError(ExitIO, "cannot read config", err)
	}
	return cfg, nil
}

// outputValidationErrors outputs every validation error.
func outputValidationErrors(formatter *OutputFormatter, errs []config.ValidationError) error {
	exitErr := WrapExitError(ExitValidation, "invalid config", config.ValidationErrors(errs))

	if formatter.JSON() {
		err := formatter.encode(CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: errs},
			Error:  &CLIError{Code: errs[0].Code, Message: errs[0].Message},
		})
		if err != nil {
			return err
		}
		return exitErr
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	tw := newTable(formatter.Writer)
	tw.AppendHeader(table.Row{"Code", "Kind", "Conversion", "Group", "Message"})
	for _, e := range errs {
		group := "-"
		if e.Group > 0 {
			group = strconv.Itoa(e.Group)
		}
		tw.AppendRow(table.Row{e.Code, e.Kind, e.Conversion, group, e.Message})
	}
	tw.Render()
	return exitErr
}
