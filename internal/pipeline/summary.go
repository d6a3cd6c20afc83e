package pipeline

import (
	"fmt"
	"time"

	"github.com/naifuru/naifuru/internal/extract"
	"github.com/naifuru/naifuru/internal/ir"
	"github.com/naifuru/naifuru/internal/store"
)

// Status is the result of one unit.
type Status string

const (
	StatusOK     Status = "ok"
	StatusFailed Status = "failed"
)

// Outcome is what happened to one processable unit.
type Outcome struct {
	Seq        int64
	Conversion string
	GroupIndex int
	FileIndex  int
	Path       string
	From       ir.SourceFormat
	Status     Status
	Kind       string // extraction error kind or KindIOError
	Field      string
	Err        error
	Samples    int
	Digest     string // payload digest, empty if the file could not be read
}

// GroupResult is what happened to one group, or to one file of a
// single-axis group.
type GroupResult struct {
	Conversion    string
	GroupIndex    int
	FileIndex     int // first file of the record; 0 for multi-axis groups
	From          ir.SourceFormat
	To            ir.TargetFormat
	Written       bool
	Location      string
	Digest        string
	NumOfElements int
	Err           error
}

// Summary reports a finished (or aborted) run.
type Summary struct {
	RunToken   string
	ConfigPath string
	StartedAt  time.Time
	FinishedAt time.Time
	Outcomes   []Outcome
	Groups     []GroupResult
}

// Succeeded counts units that extracted cleanly.
func (s *Summary) Succeeded() int {
	n := 0
	for _, o := range s.Outcomes {
		if o.Status == StatusOK {
			n++
		}
	}
	return n
}

// Failed counts units that were skipped.
func (s *Summary) Failed() int {
	return len(s.Outcomes) - s.Succeeded()
}

// Records counts groups that produced a record.
func (s *Summary) Records() int {
	n := 0
	for _, g := range s.Groups {
		if g.Written {
			n++
		}
	}
	return n
}

// FailedGroups counts groups that produced no record.
func (s *Summary) FailedGroups() int {
	return len(s.Groups) - s.Records()
}

// Totals converts the summary into ledger counters.
func (s *Summary) Totals() store.RunTotals {
	return store.RunTotals{
		Units:     len(s.Outcomes),
		Succeeded: s.Succeeded(),
		Failed:    s.Failed(),
		Records:   s.Records(),
	}
}

// Err returns a *BatchError if any unit or group failed, nil otherwise.
func (s *Summary) Err() error {
	if s.Failed() == 0 && s.FailedGroups() == 0 {
		return nil
	}
	return &BatchError{
		Units:        len(s.Outcomes),
		FailedUnits:  s.Failed(),
		Groups:       len(s.Groups),
		FailedGroups: s.FailedGroups(),
	}
}

// BatchError reports a run that skipped units or groups.
type BatchError struct {
	Units        int
	FailedUnits  int
	Groups       int
	FailedGroups int
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("%d of %d units failed, %d of %d groups produced no record",
		e.FailedUnits, e.Units, e.FailedGroups, e.Groups)
}

// ExitCode maps a skipped unit to the extraction exit code.
func (e *BatchError) ExitCode() int {
	return extract.ExitCode
}
