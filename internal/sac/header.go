package sac

import (
	"fmt"
	"math"
	"time"
)

// Header holds the SAC header fields this tool reads. Numeric fields that the
// record leaves unset carry Undefined.
type Header struct {
	Delta  float32
	Depmin float32
	Depmax float32
	Scale  float32
	B      float32
	E      float32
	Stla   float32
	Stlo   float32

	Nzyear int32
	Nzjday int32
	Nzhour int32
	Nzmin  int32
	Nzsec  int32
	Nzmsec int32
	Nvhdr  int32
	Npts   int32
	Idep   int32

	Kstnm  string
	Kcmpnm string
}

// NewHeader returns a header with every field unset.
func NewHeader() Header {
	return Header{
		Delta: Undefined, Depmin: Undefined, Depmax: Undefined, Scale: Undefined,
		B: Undefined, E: Undefined, Stla: Undefined, Stlo: Undefined,
		Nzyear: Undefined, Nzjday: Undefined, Nzhour: Undefined, Nzmin: Undefined,
		Nzsec: Undefined, Nzmsec: Undefined, Nvhdr: Undefined, Npts: Undefined,
		Idep:  Undefined,
		Kstnm: "-12345", Kcmpnm: "-12345",
	}
}

type floatField struct {
	name string
	word int
	dst  *float32
}

type intField struct {
	name string
	word int
	dst  *int32
}

// DecodeHeader reads the header of a normalized buffer. original is the byte
// order Normalize reported; character words are stored as plain bytes, so a
// swapped buffer has them reversed and they are restored before decoding.
//
// The first unreadable field is returned as a *FieldError.
func DecodeHeader(b []byte, original Endian) (Header, error) {
	var h Header

	floats := []floatField{
		{"delta", WordDelta, &h.Delta},
		{"depmin", WordDepmin, &h.Depmin},
		{"depmax", WordDepmax, &h.Depmax},
		{"scale", WordScale, &h.Scale},
		{"b", WordB, &h.B},
		{"e", WordE, &h.E},
		{"latitude", WordStla, &h.Stla},
		{"longitude", WordStlo, &h.Stlo},
	}
	for _, f := range floats {
		v, ok := Float32(b, f.word)
		if !ok {
			return Header{}, &FieldError{Field: f.name, Word: f.word, Err: ErrOutOfBounds}
		}
		*f.dst = v
	}

	ints := []intField{
		{"nzyear", WordNzyear, &h.Nzyear},
		{"nzjday", WordNzjday, &h.Nzjday},
		{"nzhour", WordNzhour, &h.Nzhour},
		{"nzmin", WordNzmin, &h.Nzmin},
		{"nzsec", WordNzsec, &h.Nzsec},
		{"nzmsec", WordNzmsec, &h.Nzmsec},
		{"nvhdr", WordNvhdr, &h.Nvhdr},
		{"npts", WordNpts, &h.Npts},
		{"unit type", WordIdep, &h.Idep},
	}
	for _, f := range ints {
		v, ok := Int32(b, f.word)
		if !ok {
			return Header{}, &FieldError{Field: f.name, Word: f.word, Err: ErrOutOfBounds}
		}
		*f.dst = v
	}

	var err error
	if h.Kstnm, err = readChars(b, "station code", WordKstnm, original); err != nil {
		return Header{}, err
	}
	if h.Kcmpnm, err = readChars(b, "component", WordKcmpnm, original); err != nil {
		return Header{}, err
	}
	return h, nil
}

func readChars(b []byte, field string, word int, original Endian) (string, error) {
	const n = 2
	if _, ok := wordBytes(b, word+n-1); !ok {
		return "", &FieldError{Field: field, Word: word + n - 1, Err: ErrOutOfBounds}
	}
	raw := make([]byte, n*WordSize)
	copy(raw, b[word*WordSize:(word+n)*WordSize])
	if original == Big {
		SwapWords(raw)
	}
	return trimChars(raw), nil
}

// UnitLabel returns the label for the record's dependent variable type.
func (h Header) UnitLabel() string {
	return UnitLabel(h.Idep)
}

// Coefficient returns the amplitude scale factor, or 1 when it is unset.
func (h Header) Coefficient() float64 {
	if h.Scale == Undefined || h.Scale == 0 || isNonFinite(h.Scale) {
		return 1
	}
	return float64(h.Scale)
}

// ReferenceTime assembles NZYEAR..NZMSEC into a UTC instant.
func (h Header) ReferenceTime() (time.Time, error) {
	for _, v := range []int32{h.Nzyear, h.Nzjday, h.Nzhour, h.Nzmin, h.Nzsec, h.Nzmsec} {
		if v == Undefined {
			return time.Time{}, fmt.Errorf("reference time is not set")
		}
	}
	if h.Nzjday < 1 || h.Nzjday > 366 {
		return time.Time{}, fmt.Errorf("day of year %d out of range", h.Nzjday)
	}
	t := time.Date(int(h.Nzyear), time.January, 1,
		int(h.Nzhour), int(h.Nzmin), int(h.Nzsec), int(h.Nzmsec)*int(time.Millisecond), time.UTC)
	return t.AddDate(0, 0, int(h.Nzjday)-1), nil
}

// StartTime is the reference time shifted by B, at millisecond precision.
func (h Header) StartTime() (time.Time, error) {
	ref, err := h.ReferenceTime()
	if err != nil {
		return time.Time{}, err
	}
	if h.B == Undefined || isNonFinite(h.B) {
		return ref, nil
	}
	offset := time.Duration(math.Round(float64(h.B)*1000)) * time.Millisecond
	return ref.Add(offset), nil
}

// Samples reads components*npts float32 values from the data section and
// splits them into one series per component.
func Samples(b []byte, npts, components int) ([][]float64, error) {
	if npts < 0 || components <= 0 {
		return nil, fmt.Errorf("npts=%d components=%d: invalid sample layout", npts, components)
	}
	need := HeaderWords + npts*components
	if _, ok := wordBytes(b, need-1); npts > 0 && !ok {
		return nil, &FieldError{Field: "acceleration", Word: need - 1, Err: ErrOutOfBounds}
	}

	out := make([][]float64, components)
	for c := range out {
		series := make([]float64, npts)
		base := HeaderWords + c*npts
		for i := range series {
			v, _ := Float32(b, base+i)
			series[i] = float64(v)
		}
		out[c] = series
	}
	return out, nil
}

func isNonFinite(f float32) bool {
	return math.IsNaN(float64(f)) || math.IsInf(float64(f), 0)
}
