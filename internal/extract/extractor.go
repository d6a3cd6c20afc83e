// Package extract turns loaded processable units into SeismicIR values.
//
// New picks the decoder for a unit's source format. Each decoder owns the
// unit it was built from for its whole lifetime: binary decoders rewrite the
// payload in place once (byte-order normalization) and expose the result via
// Payload. Callers must not share a unit's payload between two extractors.
package extract

import (
	"log/slog"
	"time"

	"github.com/naifuru/naifuru/internal/ir"
)

// Extractor decodes one processable unit.
//
// Extract runs every field decode needed for a complete record and stops at
// the first failure, which is returned as an *Error. The per-field methods
// have no ordering dependency on each other.
type Extractor interface {
	Extract() (ir.SeismicIR, error)
	Latitude() (float64, error)
	Longitude() (float64, error)
	UnitType() (string, error)
	Acceleration() (ir.Acceleration, error)
	InitialTime() (time.Time, error)
}

// New returns the decoder for unit.From. Formats without a decoder yield an
// extractor whose every method reports FormatUnsupported.
//
// The returned extractor takes ownership of unit.Data.
func New(unit ir.ProcessableUnit, logger *slog.Logger) Extractor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With(
		slog.String("format", string(unit.From)),
		slog.String("path", unit.Path),
	)

	switch unit.From {
	case ir.TwPalertSac:
		return newSacExtractor(unit, logger)
	case ir.JpNiedKnet:
		return newKnetExtractor(unit, logger)
	default:
		return unsupported{unit: unit}
	}
}

// Supported reports whether New has a decoder for f.
func Supported(f ir.SourceFormat) bool {
	switch f {
	case ir.TwPalertSac, ir.JpNiedKnet:
		return true
	default:
		return false
	}
}

type unsupported struct {
	unit ir.ProcessableUnit
}

func (u unsupported) err() error {
	return &Error{Kind: KindFormatUnsupported, Field: string(u.unit.From), Path: u.unit.Path}
}

func (u unsupported) Extract() (ir.SeismicIR, error)         { return ir.SeismicIR{}, u.err() }
func (u unsupported) Latitude() (float64, error)             { return 0, u.err() }
func (u unsupported) Longitude() (float64, error)            { return 0, u.err() }
func (u unsupported) UnitType() (string, error)              { return "", u.err() }
func (u unsupported) Acceleration() (ir.Acceleration, error) { return ir.Acceleration{}, u.err() }
func (u unsupported) InitialTime() (time.Time, error)        { return time.Time{}, u.err() }
