package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

const runColumns = "token, config_path, started_at, finished_at, status, tool_version, ir_version, " +
	"units, succeeded, failed, records"

// ReadRun returns one run by token, or ErrRunNotFound.
func (s *Store) ReadRun(ctx context.Context, token string) (Run, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE token = ?", token)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("read run %s: %w", token, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", token, err)
	}
	return r, nil
}

// ListRuns returns the most recent runs, newest first. A limit <= 0 returns
// every run.
//
// Returns an empty slice (not nil) if the ledger has no runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := "SELECT " + runColumns + " FROM runs ORDER BY started_at DESC, token COLLATE BINARY DESC"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadOutcomes returns a run's unit outcomes in seq order, narrowed by f.
//
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) ReadOutcomes(ctx context.Context, token string, f OutcomeFilter) ([]UnitOutcome, error) {
	query, params, err := compileOutcomeQuery(token, f)
	if err != nil {
		return nil, fmt.Errorf("read outcomes: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	outcomes := []UnitOutcome{}
	for rows.Next() {
		var o UnitOutcome
		if err := rows.Scan(
			&o.RunToken, &o.Seq, &o.Conversion, &o.GroupIndex, &o.FileIndex, &o.Path,
			&o.SourceFormat, &o.Status, &o.ErrorKind, &o.Field, &o.Message, &o.Samples,
			&o.PayloadDigest,
		); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		outcomes = append(outcomes, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcomes: %w", err)
	}
	return outcomes, nil
}

func scanRun(sc rowScanner) (Run, error) {
	var (
		r        Run
		started  string
		finished sql.NullString
	)
	if err := sc.Scan(
		&r.Token, &r.ConfigPath, &started, &finished, &r.Status, &r.ToolVersion, &r.IRVersion,
		&r.Units, &r.Succeeded, &r.Failed, &r.Records,
	); err != nil {
		return Run{}, err
	}

	var err error
	if r.StartedAt, err = parseTime(started); err != nil {
		return Run{}, err
	}
	if finished.Valid {
		if r.FinishedAt, err = parseTime(finished.String); err != nil {
			return Run{}, err
		}
	}
	return r, nil
}
