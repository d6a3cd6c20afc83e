package ir

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func knetPart(idx int, axis AccAxis, counts []float64, header bool) Part {
	p := Part{FileIndex: idx, Axis: axis}
	p.IR.Acceleration.Set(axis, counts)
	p.IR.NumOfElements = len(counts)
	if header {
		p.IR.Timestamp = time.Date(2024, 1, 1, 16, 10, 18, 0, time.FixedZone("JST", 9*3600))
		p.IR.Metadata = FormatMetadata{
			UnitType:      "gal",
			SamplingRate:  100,
			StationCode:   "ISK005",
			Latitude:      37.5,
			Longitude:     137.25,
			ADCoefficient: 0.5,
		}
	}
	return p
}

func TestAssemble_MultiAxisScalesOnce(t *testing.T) {
	parts := []Part{
		knetPart(2, AxisUD, []float64{2, 4, 6}, false),
		knetPart(0, AxisNS, []float64{1, 2, 3}, true),
		knetPart(1, AxisEW, []float64{-2, 0, 8}, false),
	}

	got, err := Assemble(JpNiedKnet, parts)
	require.NoError(t, err)

	want := Acceleration{
		NS: []float64{0.5, 1, 1.5},
		EW: []float64{-1, 0, 4},
		UD: []float64{1, 2, 3},
	}
	if diff := cmp.Diff(want, got.Acceleration); diff != "" {
		t.Errorf("acceleration mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 3, got.NumOfElements)
	assert.Equal(t, "ISK005", got.Metadata.StationCode)
	assert.Equal(t, 0.5, got.Metadata.ADCoefficient)
	assert.False(t, got.Timestamp.IsZero())
}

func TestAssemble_DoesNotMutateParts(t *testing.T) {
	counts := []float64{2, 4}
	parts := []Part{
		knetPart(0, AxisNS, counts, true),
		knetPart(1, AxisEW, []float64{1, 1}, false),
		knetPart(2, AxisUD, []float64{1, 1}, false),
	}
	_, err := Assemble(JpNiedKnet, parts)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 4}, counts)
}

func TestAssemble_ShortestSeriesWins(t *testing.T) {
	parts := []Part{
		knetPart(0, AxisNS, []float64{1, 2, 3, 4}, true),
		knetPart(1, AxisEW, []float64{1, 2}, false),
		knetPart(2, AxisUD, []float64{1, 2, 3}, false),
	}
	got, err := Assemble(JpNiedKnet, parts)
	require.NoError(t, err)
	assert.Equal(t, 2, got.NumOfElements)
}

func TestAssemble_MissingHeaderPart(t *testing.T) {
	parts := []Part{
		knetPart(1, AxisEW, []float64{1}, false),
		knetPart(2, AxisUD, []float64{1}, false),
	}
	_, err := Assemble(JpNiedKnet, parts)
	assert.ErrorIs(t, err, ErrNoHeaderPart)

	_, err = Assemble(JpNiedKnet, nil)
	assert.ErrorIs(t, err, ErrNoHeaderPart)
}

func TestAssemble_AxisConflict(t *testing.T) {
	parts := []Part{
		knetPart(0, AxisNS, []float64{1}, true),
		knetPart(1, AxisNS, []float64{1}, false),
	}
	_, err := Assemble(JpNiedKnet, parts)
	assert.ErrorIs(t, err, ErrAxisConflict)
}

func TestAssemble_SingleAxisPassthrough(t *testing.T) {
	r := sampleIR()
	got, err := Assemble(TwPalertSac, []Part{{FileIndex: 0, IR: r}})
	require.NoError(t, err)
	if diff := cmp.Diff(r, got); diff != "" {
		t.Errorf("IR mismatch (-want +got):\n%s", diff)
	}

	// Later files of a single-axis group are records of their own.
	got, err = Assemble(TwPalertSac, []Part{{FileIndex: 1, IR: r}})
	require.NoError(t, err)
	assert.Equal(t, r.Metadata, got.Metadata)

	_, err = Assemble(TwPalertSac, []Part{{FileIndex: 0, IR: r}, {FileIndex: 1, IR: r}})
	assert.Error(t, err)
}
