package sac

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
)

// Endian is the byte order a SAC record was written in.
type Endian int

const (
	Little Endian = iota
	Big
)

func (e Endian) String() string {
	if e == Big {
		return "big"
	}
	return "little"
}

var (
	// ErrEndianUndecided is returned when both byte-order hypotheses score the same.
	ErrEndianUndecided = errors.New("byte order hypotheses tied")
	// ErrShortHeader is returned when a buffer ends before the probe words.
	ErrShortHeader = errors.New("buffer shorter than the SAC header probe")
)

// Probe is the set of header words decoded under one byte-order hypothesis.
type Probe struct {
	Delta  float32
	Depmin float32
	Depmax float32
	B      float32
	E      float32
	Nvhdr  int32
}

// Score counts the plausibility checks the probe passes (0..4):
// a sampling interval in (0.001, 10), e > b, depmax > depmin and a known
// header version.
func (p Probe) Score() int {
	score := 0
	if p.Delta > 0.001 && p.Delta < 10.0 {
		score++
	}
	if p.E > p.B {
		score++
	}
	if p.Depmax > p.Depmin {
		score++
	}
	if p.Nvhdr == Version6 || p.Nvhdr == Version7 {
		score++
	}
	return score
}

func (p Probe) logValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("delta", float64(p.Delta)),
		slog.Float64("b", float64(p.B)),
		slog.Float64("e", float64(p.E)),
		slog.Float64("depmin", float64(p.Depmin)),
		slog.Float64("depmax", float64(p.Depmax)),
		slog.Int("nvhdr", int(p.Nvhdr)),
		slog.Int("score", p.Score()),
	)
}

func probe(b []byte, order binary.ByteOrder) Probe {
	var p Probe
	p.Delta, _ = float32In(b, WordDelta, order)
	p.Depmin, _ = float32In(b, WordDepmin, order)
	p.Depmax, _ = float32In(b, WordDepmax, order)
	p.B, _ = float32In(b, WordB, order)
	p.E, _ = float32In(b, WordE, order)
	p.Nvhdr, _ = int32In(b, WordNvhdr, order)
	return p
}

// Detection is the outcome of scoring both byte-order hypotheses.
type Detection struct {
	Big    Probe
	Little Probe
	Endian Endian
}

// Detect scores the header of b under both byte orders. The strictly higher
// score wins; a tie returns ErrEndianUndecided together with both probes.
func Detect(b []byte) (Detection, error) {
	if len(b) < probeWords*WordSize {
		return Detection{}, fmt.Errorf("%d bytes, need %d: %w", len(b), probeWords*WordSize, ErrShortHeader)
	}

	d := Detection{
		Big:    probe(b, binary.BigEndian),
		Little: probe(b, binary.LittleEndian),
	}
	bs, ls := d.Big.Score(), d.Little.Score()
	switch {
	case bs > ls:
		d.Endian = Big
	case ls > bs:
		d.Endian = Little
	default:
		return d, fmt.Errorf("big=%d little=%d: %w", bs, ls, ErrEndianUndecided)
	}
	return d, nil
}

// Normalize detects the byte order of b and, when it is Big, swaps every
// word in place so that all later reads can assume Little-endian words.
// It returns the detected (original) order.
func Normalize(b []byte, logger *slog.Logger) (Endian, error) {
	if _, err := WordCount(b); err != nil {
		return Little, err
	}

	d, err := Detect(b)
	if logger != nil && !errors.Is(err, ErrShortHeader) {
		logger.Debug("sac byte order probe",
			slog.Attr{Key: "big", Value: d.Big.logValue()},
			slog.Attr{Key: "little", Value: d.Little.logValue()},
		)
	}
	if err != nil {
		return Little, err
	}

	if d.Endian == Big {
		SwapWords(b)
	}
	return d.Endian, nil
}
