// Package pipeline drives a batch run: it expands a validated config into
// processable units, extracts each one, assembles the groups into SeismicIR
// records and hands them to a Sink, optionally recording every outcome in the
// run ledger.
//
// Units are processed one at a time in config order. Each unit's payload is
// loaded immediately before extraction and released right after, so at most
// one file's contents are held besides the group's decoded series.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/naifuru/naifuru/internal/config"
	"github.com/naifuru/naifuru/internal/extract"
	"github.com/naifuru/naifuru/internal/ir"
	"github.com/naifuru/naifuru/internal/store"
)

// KindIOError labels outcomes whose file could not be loaded.
const KindIOError = "IOError"

// Loader fills u.Data from u.Path.
type Loader func(u *ir.ProcessableUnit) error

// Ledger records runs and unit outcomes. Implemented by *store.Store.
type Ledger interface {
	WriteRun(ctx context.Context, r store.Run) error
	WriteOutcome(ctx context.Context, o store.UnitOutcome) error
	FinishRun(ctx context.Context, token string, finishedAt time.Time, totals store.RunTotals) error
}

// Pipeline runs batches. The zero value is not usable; construct with New.
type Pipeline struct {
	logger   *slog.Logger
	clock    Clock
	tokens   RunTokenGenerator
	loader   Loader
	sink     Sink
	ledger   Ledger
	failFast bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithClock replaces the production SeqClock, e.g. with a deterministic one.
func WithClock(c Clock) Option {
	return func(p *Pipeline) { p.clock = c }
}

// WithRunTokens replaces the UUIDv7 run token generator.
func WithRunTokens(g RunTokenGenerator) Option {
	return func(p *Pipeline) { p.tokens = g }
}

// WithLoader replaces config.LoadPayload.
func WithLoader(l Loader) Option {
	return func(p *Pipeline) { p.loader = l }
}

// WithSink sets where assembled records go. Without a sink, records are
// assembled and counted but not written.
func WithSink(s Sink) Option {
	return func(p *Pipeline) { p.sink = s }
}

// WithLedger records the run and every unit outcome in l.
func WithLedger(l Ledger) Option {
	return func(p *Pipeline) { p.ledger = l }
}

// WithFailFast stops the run at the first failing unit instead of skipping it.
func WithFailFast(on bool) Option {
	return func(p *Pipeline) { p.failFast = on }
}

// New creates a Pipeline. Defaults: SeqClock, UUIDv7 run tokens,
// config.LoadPayload, no sink, no ledger, skip-and-continue.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		logger: slog.New(slog.DiscardHandler),
		clock:  NewSeqClock(),
		tokens: UUIDv7Generator{},
		loader: config.LoadPayload,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run processes every unit of cfg.
//
// Failing units are logged, recorded and skipped; a group with any failed
// unit produces no record. The returned error is non-nil only when the run
// itself could not complete: cancellation, a sink or ledger failure, or the
// first unit failure under fail-fast. Per-unit failures are reported through
// Summary.Err.
func (p *Pipeline) Run(ctx context.Context, cfg *config.Config, configPath string) (*Summary, error) {
	sum := &Summary{
		RunToken:   p.tokens.Generate(),
		ConfigPath: configPath,
		StartedAt:  p.clock.Now(),
		Outcomes:   []Outcome{},
		Groups:     []GroupResult{},
	}

	if p.ledger != nil {
		err := p.ledger.WriteRun(ctx, store.Run{
			Token:       sum.RunToken,
			ConfigPath:  configPath,
			StartedAt:   sum.StartedAt,
			ToolVersion: ir.ToolVersion,
			IRVersion:   ir.IRVersion,
		})
		if err != nil {
			return sum, fmt.Errorf("ledger: %w", err)
		}
	}

	p.logger.Info("run started", "run", sum.RunToken, "config", configPath)

	runErr := p.runGroups(ctx, cfg, sum)
	sum.FinishedAt = p.clock.Now()

	if p.ledger != nil {
		if err := p.ledger.FinishRun(ctx, sum.RunToken, sum.FinishedAt, sum.Totals()); err != nil {
			runErr = errors.Join(runErr, fmt.Errorf("ledger: %w", err))
		}
	}

	p.logger.Info("run finished",
		"run", sum.RunToken,
		"units", len(sum.Outcomes),
		"failed", sum.Failed(),
		"records", sum.Records(),
	)
	return sum, runErr
}

func (p *Pipeline) runGroups(ctx context.Context, cfg *config.Config, sum *Summary) error {
	for _, units := range groupUnits(cfg.Units()) {
		if err := p.runGroup(ctx, cfg, units, sum); err != nil {
			return err
		}
	}
	return nil
}

// groupUnits splits config-ordered units into the sets that each become one
// record: a whole group for multi-axis formats, one file otherwise.
func groupUnits(units []ir.ProcessableUnit) [][]ir.ProcessableUnit {
	var groups [][]ir.ProcessableUnit
	for i, u := range units {
		if i == 0 || u.FileIndex == 0 || !u.From.MultiAxis() ||
			u.Conversion != units[i-1].Conversion || u.GroupIndex != units[i-1].GroupIndex {
			groups = append(groups, nil)
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], u)
	}
	return groups
}

func (p *Pipeline) runGroup(ctx context.Context, cfg *config.Config, units []ir.ProcessableUnit, sum *Summary) error {
	first := units[0]
	result := GroupResult{
		Conversion: first.Conversion,
		GroupIndex: first.GroupIndex,
		FileIndex:  first.FileIndex,
		From:       first.From,
		To:         first.To,
	}

	parts := make([]ir.Part, 0, len(units))
	for _, u := range units {
		if err := ctx.Err(); err != nil {
			return err
		}

		out, r := p.processUnit(u)
		sum.Outcomes = append(sum.Outcomes, out)
		if err := p.record(ctx, sum.RunToken, u, out); err != nil {
			return err
		}

		if out.Status == StatusFailed {
			p.logger.Error("unit skipped",
				"conversion", u.Conversion,
				"group", u.GroupIndex+1,
				"file", u.FileIndex,
				"path", u.Path,
				"kind", out.Kind,
				"error", out.Err,
			)
			if p.failFast {
				result.Err = out.Err
				sum.Groups = append(sum.Groups, result)
				return fmt.Errorf("%s group %d file %d: %w", u.Conversion, u.GroupIndex+1, u.FileIndex, out.Err)
			}
			if result.Err == nil {
				result.Err = out.Err
			}
			continue
		}
		parts = append(parts, ir.Part{FileIndex: u.FileIndex, Axis: u.AccAxis, IR: r})
	}

	if result.Err != nil {
		p.logger.Warn("group produced no record",
			"conversion", result.Conversion,
			"group", result.GroupIndex+1,
		)
		sum.Groups = append(sum.Groups, result)
		return nil
	}

	assembled, err := ir.Assemble(first.From, parts)
	if err != nil {
		return p.groupFailed(sum, result, fmt.Errorf("assemble: %w", err))
	}

	// Non-finite samples cannot be rendered as canonical JSON.
	digest, err := ir.IRDigest(assembled)
	if err != nil {
		return p.groupFailed(sum, result, err)
	}
	result.Digest = digest
	result.NumOfElements = assembled.NumOfElements

	if p.sink != nil {
		loc, err := p.sink.Write(ctx, Record{
			Conversion: result.Conversion,
			GroupIndex: result.GroupIndex,
			FileIndex:  result.FileIndex,
			From:       result.From,
			To:         result.To,
			NameFormat: cfg.Global.NameFormat,
			IR:         assembled,
		})
		if err != nil {
			return fmt.Errorf("sink: %w", err)
		}
		result.Location = loc
	}
	result.Written = true
	sum.Groups = append(sum.Groups, result)

	p.logger.Debug("record assembled",
		"conversion", result.Conversion,
		"group", result.GroupIndex+1,
		"elements", result.NumOfElements,
		"location", result.Location,
	)
	return nil
}

// groupFailed records a group that decoded but could not become a record.
func (p *Pipeline) groupFailed(sum *Summary, result GroupResult, err error) error {
	result.Err = err
	sum.Groups = append(sum.Groups, result)
	p.logger.Error("group failed",
		"conversion", result.Conversion,
		"group", result.GroupIndex+1,
		"error", err,
	)
	if p.failFast {
		return fmt.Errorf("%s group %d: %w", result.Conversion, result.GroupIndex+1, err)
	}
	return nil
}

// processUnit loads and extracts one unit. The payload is dropped with u on
// return.
func (p *Pipeline) processUnit(u ir.ProcessableUnit) (Outcome, ir.SeismicIR) {
	out := Outcome{
		Seq:        p.clock.Next(),
		Conversion: u.Conversion,
		GroupIndex: u.GroupIndex,
		FileIndex:  u.FileIndex,
		Path:       u.Path,
		From:       u.From,
		Status:     StatusOK,
	}

	if err := p.loader(&u); err != nil {
		out.Status = StatusFailed
		out.Kind = KindIOError
		out.Err = err
		return out, ir.SeismicIR{}
	}
	out.Digest = ir.PayloadDigest(u.Data)

	r, err := extract.New(u, p.logger).Extract()
	if err != nil {
		out.Status = StatusFailed
		out.Kind = string(extract.KindOf(err))
		out.Field = extract.FieldOf(err)
		out.Err = err
		return out, ir.SeismicIR{}
	}
	out.Samples = r.NumOfElements
	return out, r
}

func (p *Pipeline) record(ctx context.Context, token string, u ir.ProcessableUnit, out Outcome) error {
	if p.ledger == nil {
		return nil
	}
	row := store.UnitOutcome{
		RunToken:      token,
		Seq:           out.Seq,
		Conversion:    out.Conversion,
		GroupIndex:    out.GroupIndex,
		FileIndex:     out.FileIndex,
		Path:          out.Path,
		SourceFormat:  string(u.From),
		Status:        string(out.Status),
		ErrorKind:     out.Kind,
		Field:         out.Field,
		Samples:       out.Samples,
		PayloadDigest: out.Digest,
	}
	if out.Err != nil {
		row.Message = out.Err.Error()
	}
	if err := p.ledger.WriteOutcome(ctx, row); err != nil {
		return fmt.Errorf("ledger: %w", err)
	}
	return nil
}
