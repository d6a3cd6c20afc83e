package cli

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"github.com/naifuru/naifuru/internal/config"
	"github.com/naifuru/naifuru/internal/extract"
	"github.com/naifuru/naifuru/internal/ir"
)

// InspectOptions holds flags for the inspect command.
type InspectOptions struct {
	*RootOptions
	From string
	Axis string
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InspectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Decode one data file and print its record",
		Long: `Decode one data file and print the header fields and series lengths.

For multi-axis formats the axis defaults to the file extension
(ISK0052401011610.NS is read as ns). --format json prints the full record.

Example:
  naifuru inspect --from tw_palert_sac W21B.sac
  naifuru inspect --from jp_nied_knet ISK0052401011610.EW`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.From, "from", "", "source format of the file (required)")
	cmd.Flags().StringVar(&opts.Axis, "axis", "", "acceleration axis for multi-axis formats (ns|ew|ud)")
	_ = cmd.MarkFlagRequired("from")

	return cmd
}

func runInspect(opts *InspectOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	from, err := ir.ParseSourceFormat(opts.From)
	if err != nil {
		_ = formatter.Error("ArgsError", err.Error(), nil)
		return WrapExitError(ExitArgs, "invalid --from", err)
	}
	if err := checkInspectArgs(path, from); err != nil {
		_ = formatter.Error("ArgsError", err.Error(), nil)
		return err
	}

	axis, err := inspectAxis(from, path, opts.Axis)
	if err != nil {
		_ = formatter.Error("ArgsError", err.Error(), nil)
		return WrapExitError(ExitArgs, "invalid --axis", err)
	}

	unit := ir.ProcessableUnit{
		Conversion: "inspect",
		From:       from,
		AccAxis:    axis,
		Path:       path,
	}
	if err := config.LoadPayload(&unit); err != nil {
		_ = formatter.Error("IOError", err.Error(), nil)
		return WrapExitError(ExitIO, "cannot read file", err)
	}

	raw, err := extract.New(unit, opts.logger()).Extract()
	if err != nil {
		_ = formatter.Error(string(extract.KindOf(err)), err.Error(), map[string]string{"field": extract.FieldOf(err)})
		return err
	}
	record, err := ir.Assemble(from, []ir.Part{{FileIndex: 0, Axis: axis, IR: raw}})
	if err != nil {
		_ = formatter.Error("FailedExtraction", err.Error(), nil)
		return WrapExitError(ExitExtraction, "cannot assemble record", err)
	}

	if formatter.JSON() {
		return formatter.Success(record.CanonicalMap())
	}
	return renderRecord(formatter, path, from, record)
}

// inspectAxis resolves the axis of a multi-axis file from the flag or the
// file extension. Single-axis formats take no axis.
func inspectAxis(from ir.SourceFormat, path, flag string) (ir.AccAxis, error) {
	if !from.MultiAxis() {
		if flag != "" {
			return ir.AxisNone, fmt.Errorf("%s does not take an axis", from)
		}
		return ir.AxisNone, nil
	}

	axis := ir.AccAxis(strings.ToLower(flag))
	if flag == "" {
		axis = ir.AccAxis(strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")))
	}
	if !axis.Valid() {
		return ir.AxisNone, errors.New("cannot tell the axis of " + path + ": pass --axis ns|ew|ud")
	}
	return axis, nil
}

func renderRecord(formatter *OutputFormatter, path string, from ir.SourceFormat, r ir.SeismicIR) error {
	meta := r.Metadata

	tw := newTable(formatter.Writer)
	tw.SetTitle("%s (%s)", filepath.Base(path), from)
	tw.AppendRows([]table.Row{
		{"station", meta.StationCode},
		{"start time", r.Timestamp.Format(ir.TimestampLayout)},
		{"latitude", meta.Latitude},
		{"longitude", meta.Longitude},
		{"unit", meta.UnitType},
		{"coefficient", meta.ADCoefficient},
		{"samples", r.NumOfElements},
	})
	if meta.SamplingRate != 0 {
		tw.AppendRow(table.Row{"sampling rate (Hz)", meta.SamplingRate})
	}
	if meta.DeltaT != 0 {
		tw.AppendRow(table.Row{"delta t (s)", meta.DeltaT})
	}
	if meta.SacVersion != 0 {
		tw.AppendRow(table.Row{"sac version", int(meta.SacVersion)})
	}
	for _, axis := range ir.RequiredAxes() {
		series := r.Acceleration.Series(axis)
		if len(series) == 0 {
			continue
		}
		tw.AppendRow(table.Row{"peak " + string(axis), floats.Norm(series, math.Inf(1))})
	}
	tw.Render()
	return nil
}
