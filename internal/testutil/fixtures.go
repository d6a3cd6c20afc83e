package testutil

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/naifuru/naifuru/internal/ir"
	"github.com/naifuru/naifuru/internal/sac"
)

// KnetRecord describes one synthesized K-NET axis file.
type KnetRecord struct {
	Latitude    float64
	Longitude   float64
	Station     string
	RecordTime  string // "2006/01/02 15:04:05", JST
	SamplingHz  int
	Dir         string
	Numerator   uint64
	Denominator uint64
	Counts      []int64
}

// NewKnetRecord returns a plausible record for axis with the given counts.
// The scale factor is 1(gal)/2, so assembled samples are counts/2.
func NewKnetRecord(axis ir.AccAxis, counts ...int64) KnetRecord {
	dir := map[ir.AccAxis]string{ir.AxisNS: "N-S", ir.AxisEW: "E-W", ir.AxisUD: "U-D"}[axis]
	return KnetRecord{
		Latitude:    37.5,
		Longitude:   137.25,
		Station:     "ISK005",
		RecordTime:  "2024/01/01 16:10:18",
		SamplingHz:  100,
		Dir:         dir,
		Numerator:   1,
		Denominator: 2,
		Counts:      counts,
	}
}

// Lines renders the record in K-NET ASCII layout: 17 header lines followed
// by samples, eight per line.
func (r KnetRecord) Lines() []string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	lines := []string{
		"Origin Time       2024/01/01 16:10:00",
		"Lat.              " + f(r.Latitude),
		"Long.             " + f(r.Longitude),
		"Depth. (km)       16",
		"Mag.              7.6",
		"Station Code      " + r.Station,
		"Station Lat.      37.2986",
		"Station Long.     136.7679",
		"Station Height(m) 23",
		"Record Time       " + r.RecordTime,
		fmt.Sprintf("Sampling Freq(Hz) %dHz", r.SamplingHz),
		"Duration Time(s)  300",
		"Dir.              " + r.Dir,
		fmt.Sprintf("Scale Factor      %d(gal)/%d", r.Numerator, r.Denominator),
		"Max. Acc. (gal)   0.5",
		"Last Correction   2024/01/01 16:10:03",
		"Memo.",
	}
	for i := 0; i < len(r.Counts); i += 8 {
		end := min(i+8, len(r.Counts))
		toks := make([]string, 0, end-i)
		for _, c := range r.Counts[i:end] {
			toks = append(toks, strconv.FormatInt(c, 10))
		}
		lines = append(lines, "  "+strings.Join(toks, " "))
	}
	return lines
}

// Text joins Lines with newlines, as written to disk.
func (r KnetRecord) Text() string {
	return strings.Join(r.Lines(), "\n") + "\n"
}

// PalertHeader returns a Version 6 P-Alert header for npts samples per axis
// with a 0.25s interval, station W21B at 23.5N 121.25E and acceleration units.
func PalertHeader(npts int) sac.Header {
	h := sac.NewHeader()
	h.Delta = 0.25
	h.Depmin = -1
	h.Depmax = 1
	h.B = 0
	h.E = float32(npts) * 0.25
	h.Nvhdr = sac.Version6
	h.Npts = int32(npts)
	h.Stla = 23.5
	h.Stlo = 121.25
	h.Idep = 8
	h.Nzyear = 2024
	h.Nzjday = 1
	h.Nzhour = 7
	h.Nzmin = 58
	h.Nzsec = 9
	h.Nzmsec = 0
	h.Kstnm = "W21B"
	h.Kcmpnm = "HL"
	return h
}

// PalertRecord encodes a three-axis P-Alert record in the given byte order.
func PalertRecord(order sac.Endian, ns, ew, ud []float64) []byte {
	return sac.Encode(PalertHeader(len(ns)), [][]float64{ns, ew, ud}, order)
}
