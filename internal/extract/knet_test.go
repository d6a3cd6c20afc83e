package extract

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naifuru/naifuru/internal/ir"
	"github.com/naifuru/naifuru/internal/testutil"
)

func knetUnit(fileIndex int, axis ir.AccAxis, lines []string) ir.ProcessableUnit {
	return ir.ProcessableUnit{
		Conversion: "noto",
		From:       ir.JpNiedKnet,
		To:         ir.JpStera3dTxt,
		GroupIndex: 0,
		FileIndex:  fileIndex,
		AccAxis:    axis,
		Path:       "/data/ISK0052401011610." + string(axis),
		Data:       ir.TextPayload(lines),
	}
}

func TestKnetExtractor_HeaderUnit(t *testing.T) {
	counts := make([]int64, 10)
	for i := range counts {
		counts[i] = int64(i) - 5
	}
	rec := testutil.NewKnetRecord(ir.AxisNS, counts...)

	got, err := New(knetUnit(0, ir.AxisNS, rec.Lines()), nil).Extract()
	require.NoError(t, err)

	want := ir.SeismicIR{
		NumOfElements: 10,
		Timestamp:     time.Date(2024, 1, 1, 7, 10, 18, 0, time.UTC),
		Acceleration: ir.Acceleration{
			NS: []float64{-5, -4, -3, -2, -1, 0, 1, 2, 3, 4},
		},
		Metadata: ir.FormatMetadata{
			UnitType:      "gal",
			SamplingRate:  100,
			StationCode:   "ISK005",
			Latitude:      37.5,
			Longitude:     137.25,
			ADCoefficient: 0.5,
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("IR mismatch (-want +got):\n%s", diff)
	}
	_, offset := got.Timestamp.Zone()
	assert.Equal(t, 9*60*60, offset)
}

func TestKnetExtractor_SamplesOnlyUnit(t *testing.T) {
	rec := testutil.NewKnetRecord(ir.AxisEW, 3, 4)
	// A samples-only file is never read for header fields, even broken ones.
	lines := rec.Lines()
	lines[13] = "Scale Factor      garbage"

	got, err := New(knetUnit(1, ir.AxisEW, lines), nil).Extract()
	require.NoError(t, err)
	assert.Equal(t, 2, got.NumOfElements)
	assert.Equal(t, []float64{3, 4}, got.Acceleration.EW)
	assert.Nil(t, got.Acceleration.NS)
	assert.True(t, got.Timestamp.IsZero())
	assert.Equal(t, ir.FormatMetadata{}, got.Metadata)

	_, err = New(knetUnit(1, ir.AxisEW, lines), nil).Latitude()
	assert.ErrorIs(t, err, ErrFailedExtraction)
}

func TestKnetExtractor_MissingScaleLine(t *testing.T) {
	lines := testutil.NewKnetRecord(ir.AxisNS, 1, 2).Lines()[:13]

	_, err := New(knetUnit(0, ir.AxisNS, lines), nil).Extract()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingFileData)

	var xe *Error
	require.ErrorAs(t, err, &xe)
	assert.Equal(t, "scale factor", xe.Field)
	assert.Equal(t, 14, xe.Line)
}

func TestKnetExtractor_FieldErrors(t *testing.T) {
	tests := []struct {
		name  string
		edit  func([]string) []string
		kind  Kind
		field string
		line  int
	}{
		{
			name:  "latitude not numeric",
			edit:  func(l []string) []string { l[1] = "Lat.              north"; return l },
			kind:  KindPatternNotMatched,
			field: "latitude",
			line:  2,
		},
		{
			name:  "longitude token missing",
			edit:  func(l []string) []string { l[2] = "Long."; return l },
			kind:  KindMissingFileData,
			field: "longitude",
			line:  3,
		},
		{
			name:  "bad record time",
			edit:  func(l []string) []string { l[9] = "Record Time       2024-01-01 16:10:18"; return l },
			kind:  KindPatternNotMatched,
			field: "initial time",
			line:  10,
		},
		{
			name:  "bad sampling frequency",
			edit:  func(l []string) []string { l[10] = "Sampling Freq(Hz) fastHz"; return l },
			kind:  KindPatternNotMatched,
			field: "sampling rate",
			line:  11,
		},
		{
			name:  "scale descriptor unrecognized",
			edit:  func(l []string) []string { l[13] = "Scale Factor      3920/6182761"; return l },
			kind:  KindPatternNotMatched,
			field: "scale factor",
			line:  14,
		},
		{
			name:  "sample not an integer",
			edit:  func(l []string) []string { l[17] = "  1 2 x"; return l },
			kind:  KindPatternNotMatched,
			field: "acceleration",
			line:  18,
		},
		{
			name:  "no sample block",
			edit:  func(l []string) []string { return l[:17] },
			kind:  KindMissingFileData,
			field: "acceleration",
			line:  18,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := tt.edit(testutil.NewKnetRecord(ir.AxisNS, 1, 2, 3).Lines())
			_, err := New(knetUnit(0, ir.AxisNS, lines), nil).Extract()
			require.Error(t, err)

			var xe *Error
			require.ErrorAs(t, err, &xe)
			assert.Equal(t, tt.kind, xe.Kind)
			assert.Equal(t, tt.field, xe.Field)
			assert.Equal(t, tt.line, xe.Line)
		})
	}
}

func TestKnetExtractor_WrongPayload(t *testing.T) {
	u := knetUnit(0, ir.AxisNS, nil)
	u.Data = ir.BinaryPayload([]byte{1, 2, 3, 4})
	_, err := New(u, nil).Extract()
	assert.ErrorIs(t, err, ErrFormatUnsupported)

	u.Data = nil
	_, err = New(u, nil).UnitType()
	assert.ErrorIs(t, err, ErrMissingFileData)
}

func TestKnetGroupAssembly(t *testing.T) {
	var parts []ir.Part
	for i, axis := range ir.RequiredAxes() {
		rec := testutil.NewKnetRecord(axis, 2, 4, int64(i))
		got, err := New(knetUnit(i, axis, rec.Lines()), nil).Extract()
		require.NoError(t, err)
		parts = append(parts, ir.Part{FileIndex: i, Axis: axis, IR: got})
	}

	out, err := ir.Assemble(ir.JpNiedKnet, parts)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 0}, out.Acceleration.NS)
	assert.Equal(t, []float64{1, 2, 0.5}, out.Acceleration.EW)
	assert.Equal(t, []float64{1, 2, 1}, out.Acceleration.UD)
	assert.Equal(t, 3, out.NumOfElements)
	assert.Equal(t, "ISK005", out.Metadata.StationCode)
}
