package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naifuru/naifuru/internal/ir"
)

func sampleRecord() Record {
	return Record{
		Conversion: "hualien",
		GroupIndex: 0,
		From:       ir.TwPalertSac,
		To:         ir.JpJmaCsv,
		NameFormat: ir.NameYyyymmddHhmmssSnN,
		IR: ir.SeismicIR{
			NumOfElements: 1,
			Timestamp:     time.Date(2024, 1, 1, 7, 58, 9, 0, time.UTC),
			Acceleration:  ir.Acceleration{NS: []float64{1}, EW: []float64{2}, UD: []float64{3}},
			Metadata: ir.FormatMetadata{
				UnitType:      "nm/sec/sec",
				StationCode:   "W21B",
				ADCoefficient: 1,
			},
		},
	}
}

func TestDirSink_WritesCanonicalEnvelope(t *testing.T) {
	dir := t.TempDir()
	s := NewDirSink(dir)

	loc, err := s.Write(context.Background(), sampleRecord())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "20240101-075809-W21B-palert.ir.json"), loc)

	got, err := os.ReadFile(loc)
	require.NoError(t, err)
	want, err := ir.MarshalCanonical(sampleRecord().Envelope())
	require.NoError(t, err)
	assert.Equal(t, string(want)+"\n", string(got))
	assert.Contains(t, string(got), `"conversion":"hualien","from":"tw_palert_sac","group":1,"ir":{`)
}

func TestDirSink_SuffixesRepeatedStems(t *testing.T) {
	dir := t.TempDir()
	s := NewDirSink(dir)
	ctx := context.Background()

	var locs []string
	for i := 0; i < 3; i++ {
		loc, err := s.Write(ctx, sampleRecord())
		require.NoError(t, err)
		locs = append(locs, filepath.Base(loc))
	}
	assert.Equal(t, []string{
		"20240101-075809-W21B-palert.ir.json",
		"20240101-075809-W21B-palert-2.ir.json",
		"20240101-075809-W21B-palert-3.ir.json",
	}, locs)
}

func TestDirSink_Errors(t *testing.T) {
	ctx := context.Background()

	noTime := sampleRecord()
	noTime.IR.Timestamp = time.Time{}
	_, err := NewDirSink(t.TempDir()).Write(ctx, noTime)
	assert.Error(t, err)

	_, err = NewDirSink(filepath.Join(t.TempDir(), "missing")).Write(ctx, sampleRecord())
	assert.ErrorIs(t, err, os.ErrNotExist)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = NewDirSink(t.TempDir()).Write(cancelled, sampleRecord())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemorySink(t *testing.T) {
	s := &MemorySink{}
	loc, err := s.Write(context.Background(), sampleRecord())
	require.NoError(t, err)
	assert.Equal(t, "memory:1", loc)

	records := s.Records()
	require.Len(t, records, 1)
	records[0].Conversion = "changed"
	assert.Equal(t, "hualien", s.Records()[0].Conversion)
}

func TestSummary_Counts(t *testing.T) {
	sum := &Summary{
		Outcomes: []Outcome{{Status: StatusOK}, {Status: StatusFailed}, {Status: StatusOK}},
		Groups:   []GroupResult{{Written: true}, {}},
	}
	assert.Equal(t, 2, sum.Succeeded())
	assert.Equal(t, 1, sum.Failed())
	assert.Equal(t, 1, sum.Records())
	assert.Equal(t, 1, sum.FailedGroups())
	assert.EqualError(t, sum.Err(), "1 of 3 units failed, 1 of 2 groups produced no record")

	assert.NoError(t, (&Summary{}).Err())
}

func TestSeqClock(t *testing.T) {
	c := NewSeqClock()
	assert.Equal(t, int64(0), c.Current())
	assert.Equal(t, int64(1), c.Next())
	assert.Equal(t, int64(2), c.Next())
	assert.Equal(t, int64(2), c.Current())

	now := c.Now()
	assert.Equal(t, time.UTC, now.Location())
	assert.Equal(t, now, now.Truncate(time.Millisecond))
}

func TestUUIDv7Generator(t *testing.T) {
	g := UUIDv7Generator{}
	a, b := g.Generate(), g.Generate()
	assert.NotEqual(t, a, b)

	id, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
}
