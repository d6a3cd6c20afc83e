package cli

import (
	"errors"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/naifuru/naifuru/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Ledger     string
	Run        string
	Status     string
	Kind       string
	Conversion string
	Limit      int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs or the file outcomes of one run",
		Long: `List the runs recorded in a ledger, newest first, or with --run the
outcome of every file of one run in processing order.

Example:
  naifuru history --ledger ./runs.db
  naifuru history --ledger ./runs.db --run 0190a3c2-... --status failed`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Ledger, "ledger", "", "path to the SQLite run ledger (required)")
	cmd.Flags().StringVar(&opts.Run, "run", "", "show the outcomes of this run token")
	cmd.Flags().StringVar(&opts.Status, "status", "", "filter outcomes by status (ok|failed)")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "filter outcomes by error kind")
	cmd.Flags().StringVar(&opts.Conversion, "conversion", "", "filter outcomes by conversion name")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of runs to list (0 for all)")
	_ = cmd.MarkFlagRequired("ledger")

	return cmd
}

// RunView is the JSON form of a ledger run.
type RunView struct {
	Token       string `json:"token"`
	ConfigPath  string `json:"config_path"`
	StartedAt   string `json:"started_at"`
	FinishedAt  string `json:"finished_at,omitempty"`
	Status      string `json:"status"`
	ToolVersion string `json:"tool_version"`
	Units       int    `json:"units"`
	Failed      int    `json:"failed"`
	Records     int    `json:"records"`
}

// OutcomeView is the JSON form of a ledger unit outcome.
type OutcomeView struct {
	Seq        int64  `json:"seq"`
	Conversion string `json:"conversion"`
	Group      int    `json:"group"`
	File       int    `json:"file"`
	Path       string `json:"path"`
	Status     string `json:"status"`
	Kind       string `json:"kind,omitempty"`
	Field      string `json:"field,omitempty"`
	Message    string `json:"message,omitempty"`
	Samples    int    `json:"samples"`
}

func newRunView(r store.Run) RunView {
	v := RunView{
		Token:       r.Token,
		ConfigPath:  r.ConfigPath,
		StartedAt:   r.StartedAt.Format(time.RFC3339),
		Status:      r.Status,
		ToolVersion: r.ToolVersion,
		Units:       r.Units,
		Failed:      r.Failed,
		Records:     r.Records,
	}
	if !r.FinishedAt.IsZero() {
		v.FinishedAt = r.FinishedAt.Format(time.RFC3339)
	}
	return v
}

func newOutcomeView(o store.UnitOutcome) OutcomeView {
	return OutcomeView{
		Seq:        o.Seq,
		Conversion: o.Conversion,
		Group:      o.GroupIndex + 1,
		File:       o.FileIndex,
		Path:       o.Path,
		Status:     o.Status,
		Kind:       o.ErrorKind,
		Field:      o.Field,
		Message:    o.Message,
		Samples:    o.Samples,
	}
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	// Reading history never creates a ledger.
	if err := checkExists(opts.Ledger); err != nil {
		_ = formatter.Error("ArgsError", err.Error(), nil)
		return err
	}

	st, err := store.Open(opts.Ledger)
	if err != nil {
		_ = formatter.Error("IOError", err.Error(), nil)
		return WrapExitError(ExitIO, "failed to open ledger", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	if opts.Run == "" {
		runs, err := st.ListRuns(ctx, opts.Limit)
		if err != nil {
			return WrapExitError(ExitIO, "failed to list runs", err)
		}
		return outputRuns(formatter, runs)
	}

	run, err := st.ReadRun(ctx, opts.Run)
	if errors.Is(err, store.ErrRunNotFound) {
		_ = formatter.Error("NotFound", "run not found: "+opts.Run, nil)
		return WrapExitError(ExitFailure, "run not found", err)
	}
	if err != nil {
		return WrapExitError(ExitIO, "failed to read run", err)
	}

	outcomes, err := st.ReadOutcomes(ctx, run.Token, store.OutcomeFilter{
		Status:     opts.Status,
		ErrorKind:  opts.Kind,
		Conversion: opts.Conversion,
	})
	if err != nil {
		return WrapExitError(ExitIO, "failed to read outcomes", err)
	}
	return outputOutcomes(formatter, run, outcomes)
}

func outputRuns(formatter *OutputFormatter, runs []store.Run) error {
	views := make([]RunView, 0, len(runs))
	for _, r := range runs {
		views = append(views, newRunView(r))
	}
	if formatter.JSON() {
		return formatter.Success(views)
	}

	tw := newTable(formatter.Writer)
	tw.AppendHeader(table.Row{"Run", "Started", "Status", "Files", "Failed", "Records", "Config"})
	for _, v := range views {
		tw.AppendRow(table.Row{v.Token, v.StartedAt, v.Status, v.Units, v.Failed, v.Records, v.ConfigPath})
	}
	if len(views) == 0 {
		tw.AppendRow(table.Row{"-", "(no runs)", "-", 0, 0, 0, "-"})
	}
	tw.Render()
	return nil
}

func outputOutcomes(formatter *OutputFormatter, run store.Run, outcomes []store.UnitOutcome) error {
	views := make([]OutcomeView, 0, len(outcomes))
	for _, o := range outcomes {
		views = append(views, newOutcomeView(o))
	}
	if formatter.JSON() {
		return formatter.Success(map[string]any{
			"run":      newRunView(run),
			"outcomes": views,
		})
	}

	tw := newTable(formatter.Writer)
	tw.SetTitle("run %s (%s)", run.Token, run.Status)
	tw.AppendHeader(table.Row{"Seq", "Conversion", "Group", "File", "Status", "Kind", "Field", "Samples", "Path"})
	for _, v := range views {
		tw.AppendRow(table.Row{v.Seq, v.Conversion, v.Group, v.File, v.Status, v.Kind, v.Field, v.Samples, v.Path})
	}
	tw.Render()
	return nil
}
