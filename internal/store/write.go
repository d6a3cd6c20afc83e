package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrRunNotFound is returned when a run token has no ledger row.
var ErrRunNotFound = errors.New("run not found")

// WriteRun inserts a run in the running state.
// Uses ON CONFLICT(token) DO NOTHING for idempotency - rewriting the same
// token is silently ignored.
func (s *Store) WriteRun(ctx context.Context, r Run) error {
	if r.Token == "" {
		return fmt.Errorf("write run: empty token")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs
		(token, config_path, started_at, status, tool_version, ir_version)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(token) DO NOTHING
	`,
		r.Token,
		r.ConfigPath,
		formatTime(r.StartedAt),
		RunRunning,
		r.ToolVersion,
		r.IRVersion,
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

// WriteOutcome appends one unit outcome to its run.
// The run must already exist (foreign key constraint). Duplicate
// (run_token, seq) pairs are silently ignored.
func (s *Store) WriteOutcome(ctx context.Context, o UnitOutcome) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO unit_outcomes
		(run_token, seq, conversion, group_index, file_index, path, source_format,
		 status, error_kind, field, message, samples, payload_digest)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_token, seq) DO NOTHING
	`,
		o.RunToken,
		o.Seq,
		o.Conversion,
		o.GroupIndex,
		o.FileIndex,
		o.Path,
		o.SourceFormat,
		o.Status,
		o.ErrorKind,
		o.Field,
		o.Message,
		o.Samples,
		o.PayloadDigest,
	)
	if err != nil {
		return fmt.Errorf("write outcome: %w", err)
	}
	return nil
}

// FinishRun stamps the run's end time, status and totals.
// The status is RunFailed if any unit failed, RunOK otherwise.
func (s *Store) FinishRun(ctx context.Context, token string, finishedAt time.Time, totals RunTotals) error {
	status := RunOK
	if totals.Failed > 0 {
		status = RunFailed
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET finished_at = ?, status = ?, units = ?, succeeded = ?, failed = ?, records = ?
		WHERE token = ?
	`,
		formatTime(finishedAt),
		status,
		totals.Units,
		totals.Succeeded,
		totals.Failed,
		totals.Records,
		token,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("finish run %s: %w", token, ErrRunNotFound)
	}
	return nil
}
