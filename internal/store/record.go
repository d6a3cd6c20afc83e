package store

import (
	"fmt"
	"time"
)

// Run statuses.
const (
	RunRunning = "running"
	RunOK      = "ok"
	RunFailed  = "failed"
)

// Outcome statuses.
const (
	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
)

// timeLayout is how instants are stored: UTC, millisecond precision.
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// Run is one batch run in the ledger.
type Run struct {
	Token       string
	ConfigPath  string
	StartedAt   time.Time
	FinishedAt  time.Time // zero while the run is still in progress
	Status      string
	ToolVersion string
	IRVersion   string
	Units       int
	Succeeded   int
	Failed      int
	Records     int
}

// UnitOutcome is the recorded result of extracting one processable unit.
type UnitOutcome struct {
	RunToken      string
	Seq           int64
	Conversion    string
	GroupIndex    int
	FileIndex     int
	Path          string
	SourceFormat  string
	Status        string
	ErrorKind     string
	Field         string
	Message       string
	Samples       int
	PayloadDigest string
}

// RunTotals are the counters FinishRun stores on a run.
type RunTotals struct {
	Units     int
	Succeeded int
	Failed    int
	Records   int
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored time %q: %w", s, err)
	}
	return t, nil
}
