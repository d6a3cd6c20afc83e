package extract

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/naifuru/naifuru/internal/ir"
)

// K-NET header lines (1-based) and the whitespace token each field sits at.
const (
	knetLineLatitude     = 2
	knetLineLongitude    = 3
	knetLineStation      = 6
	knetLineRecordTime   = 10
	knetLineSamplingFreq = 11
	knetLineScaleFactor  = 14
	knetFirstSampleLine  = 18

	knetTokLatitude     = 1
	knetTokLongitude    = 1
	knetTokStation      = 2
	knetTokRecordDate   = 2
	knetTokRecordClock  = 3
	knetTokSamplingFreq = 2

	knetTimeLayout = "2006/01/02 15:04:05"
	knetUnitLabel  = "gal"
)

// jst is the fixed offset K-NET record times are written in.
var jst = time.FixedZone("JST", 9*60*60)

// KnetExtractor decodes one axis file of a K-NET strong-motion record.
//
// Only the group's first file (file index 0) is read for header fields.
// Every file contributes the raw sample counts of its own axis; the scale
// coefficient from the header file is applied when the group is assembled.
type KnetExtractor struct {
	unit   ir.ProcessableUnit
	logger *slog.Logger
}

func newKnetExtractor(unit ir.ProcessableUnit, logger *slog.Logger) *KnetExtractor {
	return &KnetExtractor{unit: unit, logger: logger}
}

func (x *KnetExtractor) fail(kind Kind, field string, line int, err error) error {
	return &Error{Kind: kind, Field: field, Path: x.unit.Path, Line: line, Err: err}
}

func (x *KnetExtractor) lines() ([]string, error) {
	data := x.unit.Data
	if data == nil {
		return nil, x.fail(KindMissingFileData, "", 0, nil)
	}
	if data.Kind != ir.PayloadText {
		return nil, x.fail(KindFormatUnsupported, "binary payload", 0, nil)
	}
	return data.Lines, nil
}

func (x *KnetExtractor) headerOnly(field string) error {
	if !x.unit.HeaderBearing() {
		return x.fail(KindFailedExtraction, field, 0,
			fmt.Errorf("file %d of the group carries samples only", x.unit.FileIndex))
	}
	return nil
}

// token returns the tok-th whitespace field of 1-based line n.
func (x *KnetExtractor) token(field string, n, tok int) (string, error) {
	lines, err := x.lines()
	if err != nil {
		return "", err
	}
	if n > len(lines) {
		return "", x.fail(KindMissingFileData, field, n, nil)
	}
	fields := strings.Fields(lines[n-1])
	if tok >= len(fields) {
		return "", x.fail(KindMissingFileData, field, n, nil)
	}
	return fields[tok], nil
}

func (x *KnetExtractor) floatToken(field string, n, tok int) (float64, error) {
	if err := x.headerOnly(field); err != nil {
		return 0, err
	}
	s, err := x.token(field, n, tok)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, x.fail(KindPatternNotMatched, field, n, err)
	}
	return v, nil
}

// Latitude reads line 2.
func (x *KnetExtractor) Latitude() (float64, error) {
	return x.floatToken("latitude", knetLineLatitude, knetTokLatitude)
}

// Longitude reads line 3.
func (x *KnetExtractor) Longitude() (float64, error) {
	return x.floatToken("longitude", knetLineLongitude, knetTokLongitude)
}

// UnitType is always "gal" for K-NET records.
func (x *KnetExtractor) UnitType() (string, error) {
	if _, err := x.lines(); err != nil {
		return "", err
	}
	return knetUnitLabel, nil
}

// StationCode reads line 6.
func (x *KnetExtractor) StationCode() (string, error) {
	if err := x.headerOnly("station code"); err != nil {
		return "", err
	}
	return x.token("station code", knetLineStation, knetTokStation)
}

// InitialTime reads the record time on line 10 as JST.
func (x *KnetExtractor) InitialTime() (time.Time, error) {
	const field = "initial time"
	if err := x.headerOnly(field); err != nil {
		return time.Time{}, err
	}
	date, err := x.token(field, knetLineRecordTime, knetTokRecordDate)
	if err != nil {
		return time.Time{}, err
	}
	clock, err := x.token(field, knetLineRecordTime, knetTokRecordClock)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.ParseInLocation(knetTimeLayout, date+" "+clock, jst)
	if err != nil {
		return time.Time{}, x.fail(KindPatternNotMatched, field, knetLineRecordTime, err)
	}
	return t, nil
}

// SamplingRate reads the "<n>Hz" token on line 11.
func (x *KnetExtractor) SamplingRate() (int, error) {
	const field = "sampling rate"
	if err := x.headerOnly(field); err != nil {
		return 0, err
	}
	s, err := x.token(field, knetLineSamplingFreq, knetTokSamplingFreq)
	if err != nil {
		return 0, err
	}
	hz, err := strconv.Atoi(strings.TrimSuffix(s, "Hz"))
	if err != nil || hz <= 0 {
		return 0, x.fail(KindPatternNotMatched, field, knetLineSamplingFreq, err)
	}
	return hz, nil
}

// ScaleFactor parses the descriptor on line 14.
func (x *KnetExtractor) ScaleFactor() (ScaleFactor, error) {
	const field = "scale factor"
	if err := x.headerOnly(field); err != nil {
		return ScaleFactor{}, err
	}
	lines, err := x.lines()
	if err != nil {
		return ScaleFactor{}, err
	}
	if knetLineScaleFactor > len(lines) {
		return ScaleFactor{}, x.fail(KindMissingFileData, field, knetLineScaleFactor, nil)
	}
	sf, err := ParseScaleFactor(lines[knetLineScaleFactor-1])
	if err != nil {
		return ScaleFactor{}, x.fail(KindPatternNotMatched, field, knetLineScaleFactor, err)
	}
	return sf, nil
}

// Acceleration returns this file's raw sample counts on the unit's axis.
func (x *KnetExtractor) Acceleration() (ir.Acceleration, error) {
	const field = "acceleration"
	lines, err := x.lines()
	if err != nil {
		return ir.Acceleration{}, err
	}
	if !x.unit.AccAxis.Valid() {
		return ir.Acceleration{}, x.fail(KindFailedExtraction, field, 0,
			fmt.Errorf("unit has no acceleration axis"))
	}
	if len(lines) < knetFirstSampleLine {
		return ir.Acceleration{}, x.fail(KindMissingFileData, field, knetFirstSampleLine, nil)
	}

	var counts []float64
	for i := knetFirstSampleLine - 1; i < len(lines); i++ {
		for _, tok := range strings.Fields(lines[i]) {
			v, err := strconv.ParseInt(tok, 10, 64)
			if err != nil {
				return ir.Acceleration{}, x.fail(KindPatternNotMatched, field, i+1, err)
			}
			counts = append(counts, float64(v))
		}
	}

	var acc ir.Acceleration
	acc.Set(x.unit.AccAxis, counts)
	return acc, nil
}

// Extract decodes the file. Samples-only files yield a record with just
// their axis series; the header file also carries timestamp and metadata,
// which are decoded before any sample so that a truncated header is reported
// at its own line.
func (x *KnetExtractor) Extract() (ir.SeismicIR, error) {
	var out ir.SeismicIR
	if x.unit.HeaderBearing() {
		h, err := x.header()
		if err != nil {
			return ir.SeismicIR{}, err
		}
		out = h
	}

	acc, err := x.Acceleration()
	if err != nil {
		return ir.SeismicIR{}, err
	}
	out.Acceleration = acc
	out.NumOfElements = len(acc.Series(x.unit.AccAxis))

	x.logger.Debug("knet file decoded",
		slog.Int("file_index", x.unit.FileIndex),
		slog.String("axis", string(x.unit.AccAxis)),
		slog.Int("samples", out.NumOfElements),
	)
	return out, nil
}

func (x *KnetExtractor) header() (ir.SeismicIR, error) {
	lat, err := x.Latitude()
	if err != nil {
		return ir.SeismicIR{}, err
	}
	lon, err := x.Longitude()
	if err != nil {
		return ir.SeismicIR{}, err
	}
	station, err := x.StationCode()
	if err != nil {
		return ir.SeismicIR{}, err
	}
	start, err := x.InitialTime()
	if err != nil {
		return ir.SeismicIR{}, err
	}
	rate, err := x.SamplingRate()
	if err != nil {
		return ir.SeismicIR{}, err
	}
	sf, err := x.ScaleFactor()
	if err != nil {
		return ir.SeismicIR{}, err
	}

	return ir.SeismicIR{
		Timestamp: start,
		Metadata: ir.FormatMetadata{
			UnitType:      knetUnitLabel,
			SamplingRate:  rate,
			StationCode:   station,
			Latitude:      lat,
			Longitude:     lon,
			ADCoefficient: sf.Coefficient,
		},
	}, nil
}
