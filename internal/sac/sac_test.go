package sac

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func palertHeader() Header {
	h := NewHeader()
	h.Delta = 0.01
	h.Depmin = -1
	h.Depmax = 1
	h.B = 0
	h.E = 10
	h.Nvhdr = Version6
	h.Npts = 2
	h.Stla = 23.5
	h.Stlo = 121.25
	h.Idep = 8
	h.Nzyear = 2024
	h.Nzjday = 32
	h.Nzhour = 3
	h.Nzmin = 4
	h.Nzsec = 5
	h.Nzmsec = 250
	h.Kstnm = "W21B"
	h.Kcmpnm = "HLZ"
	return h
}

func threeAxis() [][]float64 {
	return [][]float64{{1, 2}, {3, 4}, {5, 6}}
}

func TestProbeScore(t *testing.T) {
	tests := []struct {
		name string
		p    Probe
		want int
	}{
		{"all plausible", Probe{Delta: 0.01, Depmin: -1, Depmax: 1, B: 0, E: 10, Nvhdr: 7}, 4},
		{"nothing plausible", Probe{}, 0},
		{"delta at lower bound", Probe{Delta: 0.001}, 0},
		{"delta at upper bound", Probe{Delta: 10}, 0},
		{"e equals b", Probe{Delta: 1, B: 2, E: 2}, 1},
		{"version 8", Probe{Nvhdr: 8, Depmin: 0, Depmax: 1}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.p.Score())
		})
	}
}

func TestDetect_Little(t *testing.T) {
	b := Encode(palertHeader(), threeAxis(), Little)
	d, err := Detect(b)
	require.NoError(t, err)
	assert.Equal(t, Little, d.Endian)
	assert.Equal(t, 4, d.Little.Score())
	assert.Less(t, d.Big.Score(), 4)
}

func TestDetect_Big(t *testing.T) {
	b := Encode(palertHeader(), threeAxis(), Big)
	d, err := Detect(b)
	require.NoError(t, err)
	assert.Equal(t, Big, d.Endian)
	assert.Equal(t, 4, d.Big.Score())
}

func TestDetect_TieFails(t *testing.T) {
	b := make([]byte, HeaderBytes)
	_, err := Detect(b)
	assert.ErrorIs(t, err, ErrEndianUndecided)

	_, err = Normalize(b, nil)
	assert.ErrorIs(t, err, ErrEndianUndecided)
}

func TestDetect_ShortBuffer(t *testing.T) {
	_, err := Detect(make([]byte, 10*WordSize))
	assert.ErrorIs(t, err, ErrShortHeader)
}

func TestDetect_Symmetric(t *testing.T) {
	orig := Encode(palertHeader(), threeAxis(), Little)
	d1, err := Detect(orig)
	require.NoError(t, err)

	swapped := bytes.Clone(orig)
	SwapWords(swapped)
	d2, err := Detect(swapped)
	require.NoError(t, err)

	assert.NotEqual(t, d1.Endian, d2.Endian)
	assert.Equal(t, d1.Little, d2.Big)
	assert.Equal(t, d1.Big, d2.Little)
}

func TestNormalize_RoundTrip(t *testing.T) {
	orig := Encode(palertHeader(), threeAxis(), Big)
	buf := bytes.Clone(orig)

	e, err := Normalize(buf, nil)
	require.NoError(t, err)
	assert.Equal(t, Big, e)
	assert.NotEqual(t, orig, buf)

	SwapWords(buf)
	assert.Equal(t, orig, buf)
}

func TestDecodeEncode_RoundTrip(t *testing.T) {
	for _, order := range []Endian{Little, Big} {
		t.Run(order.String(), func(t *testing.T) {
			orig := Encode(palertHeader(), threeAxis(), order)
			buf := bytes.Clone(orig)

			e, err := Normalize(buf, nil)
			require.NoError(t, err)
			require.Equal(t, order, e)

			h, err := DecodeHeader(buf, e)
			require.NoError(t, err)
			assert.Equal(t, "W21B", h.Kstnm)
			assert.Equal(t, "HLZ", h.Kcmpnm)

			series, err := Samples(buf, int(h.Npts), 3)
			require.NoError(t, err)

			assert.Equal(t, orig, Encode(h, series, e))
		})
	}
}

func TestNormalize_LittleUnchanged(t *testing.T) {
	orig := Encode(palertHeader(), threeAxis(), Little)
	buf := bytes.Clone(orig)

	e, err := Normalize(buf, nil)
	require.NoError(t, err)
	assert.Equal(t, Little, e)
	assert.Equal(t, orig, buf)
}

func TestNormalize_PartialWord(t *testing.T) {
	buf := append(Encode(palertHeader(), threeAxis(), Little), 0x00)
	_, err := Normalize(buf, nil)
	assert.ErrorIs(t, err, ErrPartialWord)
}

func TestDecodeHeader_BothOrders(t *testing.T) {
	want := palertHeader()
	for _, order := range []Endian{Little, Big} {
		t.Run(order.String(), func(t *testing.T) {
			buf := Encode(want, threeAxis(), order)
			e, err := Normalize(buf, nil)
			require.NoError(t, err)
			require.Equal(t, order, e)

			got, err := DecodeHeader(buf, e)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestDecodeHeader_OutOfBounds(t *testing.T) {
	buf := Encode(palertHeader(), nil, Little)[:80*WordSize]
	_, err := DecodeHeader(buf, Little)
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "unit type", fe.Field)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestHeaderTimes(t *testing.T) {
	h := palertHeader()
	ref, err := h.ReferenceTime()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.February, 1, 3, 4, 5, 250*int(time.Millisecond), time.UTC), ref)

	h.B = 1.5
	start, err := h.StartTime()
	require.NoError(t, err)
	assert.Equal(t, ref.Add(1500*time.Millisecond), start)

	h.Nzyear = Undefined
	_, err = h.StartTime()
	assert.Error(t, err)
}

func TestHeaderCoefficient(t *testing.T) {
	h := NewHeader()
	assert.Equal(t, 1.0, h.Coefficient())
	h.Scale = 0
	assert.Equal(t, 1.0, h.Coefficient())
	h.Scale = 0.5
	assert.Equal(t, 0.5, h.Coefficient())
}

func TestSamples(t *testing.T) {
	buf := Encode(palertHeader(), threeAxis(), Little)
	got, err := Samples(buf, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, threeAxis(), got)

	_, err = Samples(buf, 3, 3)
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "acceleration", fe.Field)
}

func TestUnitLabel(t *testing.T) {
	tests := map[int32]string{
		Undefined: "undefined",
		5:         "unknown",
		6:         "disp(nm)",
		7:         "Vel(nm/sec)",
		8:         "nm/sec/sec",
		50:        "volts",
		9:         "notfound",
		0:         "notfound",
	}
	for code, want := range tests {
		assert.Equal(t, want, UnitLabel(code), "idep %d", code)
	}
}

func TestWordCount(t *testing.T) {
	n, err := WordCount(make([]byte, 12))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = WordCount(make([]byte, 13))
	assert.ErrorIs(t, err, ErrPartialWord)
}
