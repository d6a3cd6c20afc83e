// Package store provides the SQLite run ledger behind `naifuru run --ledger`.
//
// The ledger is append-only:
//   - runs: one row per batch run, keyed by its UUIDv7 run token
//   - unit_outcomes: one row per processable unit, keyed by (run_token, seq)
//
// # Ordering
//
// Outcomes are ordered by seq, the pipeline's logical clock, never by
// timestamps. Runs are ordered by started_at, then token (UUIDv7 tokens sort
// by creation time).
//
// # Database Configuration
//
//   - WAL mode: history can be read while a run is writing
//   - synchronous=NORMAL
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: outcomes must reference an existing run
//
// Times are stored as UTC text in RFC 3339 with millisecond precision.
package store
