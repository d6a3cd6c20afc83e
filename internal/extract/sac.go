package extract

import (
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/naifuru/naifuru/internal/ir"
	"github.com/naifuru/naifuru/internal/sac"
)

// palertComponents is the number of series a P-Alert record carries, stored
// NS, EW, UD after the header.
const palertComponents = 3

// SacExtractor decodes single-file three-axis P-Alert SAC records.
type SacExtractor struct {
	unit   ir.ProcessableUnit
	logger *slog.Logger

	normalized bool
	original   sac.Endian
	err        error
}

func newSacExtractor(unit ir.ProcessableUnit, logger *slog.Logger) *SacExtractor {
	return &SacExtractor{unit: unit, logger: logger}
}

// Payload returns the unit's bytes, normalized to Little-endian words once
// any method has run successfully.
func (x *SacExtractor) Payload() *ir.Payload {
	return x.unit.Data
}

// Endian reports the byte order the record was written in.
func (x *SacExtractor) Endian() (sac.Endian, error) {
	if err := x.normalize(); err != nil {
		return sac.Little, err
	}
	return x.original, nil
}

// normalize runs byte-order detection and the in-place swap exactly once.
func (x *SacExtractor) normalize() error {
	if x.normalized {
		return x.err
	}
	x.normalized = true
	x.err = x.doNormalize()
	return x.err
}

func (x *SacExtractor) doNormalize() error {
	data := x.unit.Data
	if data == nil {
		return x.fail(KindMissingFileData, "", nil)
	}
	if data.Kind != ir.PayloadBinary {
		return x.fail(KindFormatUnsupported, "text payload", nil)
	}

	e, err := sac.Normalize(data.Bytes, x.logger)
	switch {
	case err == nil:
		x.original = e
		x.logger.Debug("sac byte order", slog.String("endian", e.String()))
		return nil
	case errors.Is(err, sac.ErrEndianUndecided):
		return x.fail(KindEndianDetectionFailed, "", err)
	case errors.Is(err, sac.ErrPartialWord):
		return x.fail(KindFailedExtraction, "words", err)
	default:
		return x.fail(KindFailedExtraction, "header", err)
	}
}

func (x *SacExtractor) fail(kind Kind, field string, err error) error {
	return &Error{Kind: kind, Field: field, Path: x.unit.Path, Err: err}
}

func (x *SacExtractor) floatWord(field string, word int) (float64, error) {
	if err := x.normalize(); err != nil {
		return 0, err
	}
	v, ok := sac.Float32(x.unit.Data.Bytes, word)
	if !ok {
		return 0, x.fail(KindFailedExtraction, field, sac.ErrOutOfBounds)
	}
	return float64(v), nil
}

func (x *SacExtractor) header() (sac.Header, error) {
	if err := x.normalize(); err != nil {
		return sac.Header{}, err
	}
	h, err := sac.DecodeHeader(x.unit.Data.Bytes, x.original)
	if err != nil {
		var fe *sac.FieldError
		if errors.As(err, &fe) {
			return sac.Header{}, x.fail(KindFailedExtraction, fe.Field, err)
		}
		return sac.Header{}, x.fail(KindFailedExtraction, "header", err)
	}
	return h, nil
}

// Latitude reads STLA.
func (x *SacExtractor) Latitude() (float64, error) {
	return x.floatWord("latitude", sac.WordStla)
}

// Longitude reads STLO.
func (x *SacExtractor) Longitude() (float64, error) {
	return x.floatWord("longitude", sac.WordStlo)
}

// UnitType maps IDEP through the SAC unit table; unknown codes are "notfound".
func (x *SacExtractor) UnitType() (string, error) {
	if err := x.normalize(); err != nil {
		return "", err
	}
	v, ok := sac.Int32(x.unit.Data.Bytes, sac.WordIdep)
	if !ok {
		return "", x.fail(KindFailedExtraction, "unit type", sac.ErrOutOfBounds)
	}
	return sac.UnitLabel(v), nil
}

// InitialTime is the reference time shifted by the begin offset.
func (x *SacExtractor) InitialTime() (time.Time, error) {
	h, err := x.header()
	if err != nil {
		return time.Time{}, err
	}
	t, err := h.StartTime()
	if err != nil {
		return time.Time{}, x.fail(KindFailedExtraction, "initial time", err)
	}
	return t, nil
}

// Acceleration reads the three component series from the data section.
// Samples are returned as stored; the scale word is reported separately.
func (x *SacExtractor) Acceleration() (ir.Acceleration, error) {
	h, err := x.header()
	if err != nil {
		return ir.Acceleration{}, err
	}
	return x.acceleration(h)
}

func (x *SacExtractor) acceleration(h sac.Header) (ir.Acceleration, error) {
	if h.Npts == sac.Undefined || h.Npts < 0 {
		return ir.Acceleration{}, x.fail(KindFailedExtraction, "npts", nil)
	}
	series, err := sac.Samples(x.unit.Data.Bytes, int(h.Npts), palertComponents)
	if err != nil {
		return ir.Acceleration{}, x.fail(KindFailedExtraction, "acceleration", err)
	}
	return ir.Acceleration{NS: series[0], EW: series[1], UD: series[2]}, nil
}

// Extract decodes the whole record.
func (x *SacExtractor) Extract() (ir.SeismicIR, error) {
	h, err := x.header()
	if err != nil {
		return ir.SeismicIR{}, err
	}

	start, err := h.StartTime()
	if err != nil {
		return ir.SeismicIR{}, x.fail(KindFailedExtraction, "initial time", err)
	}
	acc, err := x.acceleration(h)
	if err != nil {
		return ir.SeismicIR{}, err
	}

	meta := ir.FormatMetadata{
		UnitType:      h.UnitLabel(),
		StationCode:   h.Kstnm,
		Latitude:      float64(h.Stla),
		Longitude:     float64(h.Stlo),
		ADCoefficient: h.Coefficient(),
	}
	if h.Nvhdr == sac.Version6 || h.Nvhdr == sac.Version7 {
		meta.SacVersion = ir.SacVersion(h.Nvhdr)
	}
	if h.Delta > 0 && h.Delta != sac.Undefined {
		meta.DeltaT = float64(h.Delta)
		meta.SamplingRate = int(math.Round(1 / float64(h.Delta)))
	}

	x.logger.Debug("sac record decoded",
		slog.String("station", h.Kstnm),
		slog.String("component", h.Kcmpnm),
		slog.Int("npts", int(h.Npts)),
	)

	return ir.SeismicIR{
		NumOfElements: int(h.Npts),
		Timestamp:     start,
		Acceleration:  acc,
		Metadata:      meta,
	}, nil
}
