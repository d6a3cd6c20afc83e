package sac

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

var (
	// ErrPartialWord is returned when a buffer does not hold a whole number of words.
	ErrPartialWord = errors.New("length is not a multiple of the word size")
	// ErrOutOfBounds is returned when a word index lies past the end of the buffer.
	ErrOutOfBounds = errors.New("word index out of bounds")
)

// FieldError names the header field whose word could not be read.
type FieldError struct {
	Field string
	Word  int
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s (word %d): %v", e.Field, e.Word, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// WordCount returns the number of words in b, or ErrPartialWord.
func WordCount(b []byte) (int, error) {
	if len(b)%WordSize != 0 {
		return 0, fmt.Errorf("%d bytes: %w", len(b), ErrPartialWord)
	}
	return len(b) / WordSize, nil
}

func wordBytes(b []byte, i int) ([]byte, bool) {
	if i < 0 {
		return nil, false
	}
	off := i * WordSize
	if off+WordSize > len(b) {
		return nil, false
	}
	return b[off : off+WordSize], true
}

// Float32 reads word i as a Little-endian IEEE-754 float.
func Float32(b []byte, i int) (float32, bool) {
	return float32In(b, i, binary.LittleEndian)
}

// Int32 reads word i as a Little-endian two's complement integer.
func Int32(b []byte, i int) (int32, bool) {
	return int32In(b, i, binary.LittleEndian)
}

func float32In(b []byte, i int, order binary.ByteOrder) (float32, bool) {
	w, ok := wordBytes(b, i)
	if !ok {
		return 0, false
	}
	return math.Float32frombits(order.Uint32(w)), true
}

func int32In(b []byte, i int, order binary.ByteOrder) (int32, bool) {
	w, ok := wordBytes(b, i)
	if !ok {
		return 0, false
	}
	return int32(order.Uint32(w)), true
}

func trimChars(raw []byte) string {
	end := len(raw)
	for end > 0 && (raw[end-1] == ' ' || raw[end-1] == 0) {
		end--
	}
	start := 0
	for start < end && raw[start] == ' ' {
		start++
	}
	return string(raw[start:end])
}

// SwapWords reverses the bytes of every word in b in place. Trailing bytes
// that do not form a whole word are left alone.
func SwapWords(b []byte) {
	for off := 0; off+WordSize <= len(b); off += WordSize {
		b[off], b[off+3] = b[off+3], b[off]
		b[off+1], b[off+2] = b[off+2], b[off+1]
	}
}
