package extract

import (
	"errors"
	"fmt"
)

// Kind classifies an extraction failure.
type Kind string

const (
	KindEndianDetectionFailed Kind = "EndianDetectionFailed"
	KindFormatUnsupported     Kind = "FormatUnsupported"
	KindMissingFileData       Kind = "MissingFileData"
	KindFailedExtraction      Kind = "FailedExtraction"
	KindPatternNotMatched     Kind = "PatternNotMatched"
)

// Sentinels matched by errors.Is against any *Error of the same kind.
var (
	ErrEndianDetectionFailed = errors.New("failed to determine endianness")
	ErrFormatUnsupported     = errors.New("format is not supported yet")
	ErrMissingFileData       = errors.New("file data is missing")
	ErrFailedExtraction      = errors.New("failed to extract field")
	ErrPatternNotMatched     = errors.New("pattern not matched")
)

func (k Kind) sentinel() error {
	switch k {
	case KindEndianDetectionFailed:
		return ErrEndianDetectionFailed
	case KindFormatUnsupported:
		return ErrFormatUnsupported
	case KindMissingFileData:
		return ErrMissingFileData
	case KindFailedExtraction:
		return ErrFailedExtraction
	case KindPatternNotMatched:
		return ErrPatternNotMatched
	default:
		return nil
	}
}

// Error is a field-scoped extraction failure. It names the source file and,
// when known, the field and the 1-based line it was expected on.
type Error struct {
	Kind  Kind
	Field string
	Path  string
	Line  int
	Err   error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if s := e.Kind.sentinel(); s != nil {
		msg = s.Error()
	}
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Field)
	}
	if e.Line > 0 {
		msg = fmt.Sprintf("%s (line %d)", msg, e.Line)
	}
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Path)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// KindOf returns the Kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// FieldOf returns the field named by the first *Error in err's chain, or "".
func FieldOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Field
	}
	return ""
}

// ExitCode is the process exit code for extraction failures.
const ExitCode = 6
