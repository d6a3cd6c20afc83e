package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/naifuru/naifuru/internal/ir"
)

// Record is one assembled group ready for a downstream writer.
type Record struct {
	Conversion string
	GroupIndex int
	FileIndex  int
	From       ir.SourceFormat
	To         ir.TargetFormat
	NameFormat ir.NameFormat
	IR         ir.SeismicIR
}

// Envelope is the canonical JSON document written for r: the IR plus the
// conversion it belongs to.
func (r Record) Envelope() map[string]any {
	return map[string]any{
		"conversion": r.Conversion,
		"group":      r.GroupIndex + 1,
		"from":       string(r.From),
		"to":         string(r.To),
		"ir_version": ir.IRVersion,
		"ir":         r.IR.CanonicalMap(),
	}
}

// Sink receives assembled records and reports where each one went.
type Sink interface {
	Write(ctx context.Context, r Record) (string, error)
}

// IRExtension is the suffix of files written by DirSink.
const IRExtension = ".ir.json"

// DirSink writes each record as canonical JSON into Dir, named by the
// record's name format. A stem already used in this run gets a -2, -3, ...
// suffix; files left by earlier runs are overwritten.
//
// Thread-safety: DirSink is safe for concurrent use.
type DirSink struct {
	Dir string

	mu   sync.Mutex
	used map[string]int
}

// NewDirSink creates a sink writing into dir.
func NewDirSink(dir string) *DirSink {
	return &DirSink{Dir: dir, used: make(map[string]int)}
}

// Write implements Sink.
func (s *DirSink) Write(ctx context.Context, r Record) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	stem, err := ir.FileStem(r.NameFormat, r.From, r.IR)
	if err != nil {
		return "", err
	}
	data, err := ir.MarshalCanonical(r.Envelope())
	if err != nil {
		return "", fmt.Errorf("%s group %d: %w", r.Conversion, r.GroupIndex+1, err)
	}

	path := filepath.Join(s.Dir, s.claim(stem)+IRExtension)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write record: %w", err)
	}
	return path, nil
}

func (s *DirSink) claim(stem string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.used == nil {
		s.used = make(map[string]int)
	}
	s.used[stem]++
	if n := s.used[stem]; n > 1 {
		return fmt.Sprintf("%s-%d", stem, n)
	}
	return stem
}

// MemorySink keeps records in memory. Used by `inspect` and tests.
type MemorySink struct {
	mu      sync.Mutex
	records []Record
}

// Write implements Sink.
func (s *MemorySink) Write(_ context.Context, r Record) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, r)
	return fmt.Sprintf("memory:%d", len(s.records)), nil
}

// Records returns a copy of everything written so far.
func (s *MemorySink) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Record(nil), s.records...)
}
