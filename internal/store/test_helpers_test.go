package store

import (
	"path/filepath"
	"testing"
	"time"
)

// createTestStore opens a ledger in a temp dir, closed on cleanup.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

var testStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// createTestRun creates a run with minimal required fields.
func createTestRun(token string, started time.Time) Run {
	return Run{
		Token:       token,
		ConfigPath:  "/plans/noto.toml",
		StartedAt:   started,
		ToolVersion: "0.1.0",
		IRVersion:   "1",
	}
}

// createTestOutcome creates a successful outcome for file fi of group 0.
func createTestOutcome(token string, seq int64, fi int) UnitOutcome {
	return UnitOutcome{
		RunToken:      token,
		Seq:           seq,
		Conversion:    "noto",
		GroupIndex:    0,
		FileIndex:     fi,
		Path:          "/data/ISK005.NS",
		SourceFormat:  "jp_nied_knet",
		Status:        OutcomeOK,
		Samples:       100,
		PayloadDigest: "abc123",
	}
}
