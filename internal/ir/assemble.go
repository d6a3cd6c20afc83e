package ir

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrNoHeaderPart is returned when a group has no output for file index 0.
	ErrNoHeaderPart = errors.New("group has no header-bearing part")
	// ErrAxisConflict is returned when two parts of a group claim the same axis.
	ErrAxisConflict = errors.New("axis supplied by more than one part")
)

// Part is one unit's extraction output together with its position in the group.
type Part struct {
	FileIndex int
	Axis      AccAxis
	IR        SeismicIR
}

// Assemble merges the parts of one group into a single SeismicIR.
//
// Single-axis formats must supply exactly one part, returned unchanged; a
// single-axis group listing several files yields one record per file.
// Multi-axis parts carry raw counts on their own axis; the header part's
// ADCoefficient is applied once to every series here.
func Assemble(from SourceFormat, parts []Part) (SeismicIR, error) {
	if len(parts) == 0 {
		return SeismicIR{}, ErrNoHeaderPart
	}

	if !from.MultiAxis() {
		if len(parts) != 1 {
			return SeismicIR{}, fmt.Errorf("%s: expected one part per record, got %d", from, len(parts))
		}
		return parts[0].IR, nil
	}

	sorted := append([]Part(nil), parts...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].FileIndex < sorted[j].FileIndex })
	if sorted[0].FileIndex != 0 {
		return SeismicIR{}, ErrNoHeaderPart
	}

	header := sorted[0].IR
	out := SeismicIR{
		Timestamp: header.Timestamp,
		Metadata:  header.Metadata,
	}

	coef := header.Metadata.ADCoefficient
	seen := make(map[AccAxis]bool, 3)
	for _, p := range sorted {
		if !p.Axis.Valid() {
			return SeismicIR{}, fmt.Errorf("part %d: invalid axis %q", p.FileIndex, p.Axis)
		}
		if seen[p.Axis] {
			return SeismicIR{}, fmt.Errorf("part %d (%s): %w", p.FileIndex, p.Axis, ErrAxisConflict)
		}
		seen[p.Axis] = true

		series := append([]float64(nil), p.IR.Acceleration.Series(p.Axis)...)
		floats.Scale(coef, series)
		out.Acceleration.Set(p.Axis, series)
	}

	out.NumOfElements = shortestSeries(out.Acceleration, seen)
	return out, nil
}

func shortestSeries(a Acceleration, present map[AccAxis]bool) int {
	n := -1
	for _, axis := range RequiredAxes() {
		if !present[axis] {
			continue
		}
		if l := len(a.Series(axis)); n < 0 || l < n {
			n = l
		}
	}
	if n < 0 {
		return 0
	}
	return n
}
