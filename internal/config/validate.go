package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/naifuru/naifuru/internal/ir"
)

// Kind classifies a validation failure.
type Kind string

const (
	KindNoExtension        Kind = "NoExtension"
	KindInvalidExtension   Kind = "InvalidExtension"
	KindPathDoesNotExist   Kind = "PathDoesNotExist"
	KindPathIsNotFile      Kind = "PathIsNotFile"
	KindPathIsNotDirectory Kind = "PathIsNotDirectory"
	KindMismatchedAccAxis  Kind = "MismatchedAccAxis"
	KindDuplicateAccAxis   Kind = "DuplicateAccAxis"
	KindRequiredAccAxis    Kind = "RequiredAccAxis"
	KindDuplicateNames     Kind = "DuplicateNames"
)

// Validation error codes (E200-E299)
const (
	ErrNoExtension        = "E201" // file has no extension
	ErrInvalidExtension   = "E202" // extension not accepted by the source format
	ErrPathDoesNotExist   = "E203" // file path does not exist
	ErrPathIsNotFile      = "E204" // file path is not a regular file
	ErrPathIsNotDirectory = "E205" // directory path is not a directory
	ErrMismatchedAccAxis  = "E206" // single-axis format given an axis tag
	ErrDuplicateAccAxis   = "E207" // multi-axis group repeats or omits an axis
	ErrRequiredAccAxis    = "E208" // multi-axis file without an axis tag
	ErrDuplicateNames     = "E209" // conversion names collide
)

var kindCodes = map[Kind]string{
	KindNoExtension:        ErrNoExtension,
	KindInvalidExtension:   ErrInvalidExtension,
	KindPathDoesNotExist:   ErrPathDoesNotExist,
	KindPathIsNotFile:      ErrPathIsNotFile,
	KindPathIsNotDirectory: ErrPathIsNotDirectory,
	KindMismatchedAccAxis:  ErrMismatchedAccAxis,
	KindDuplicateAccAxis:   ErrDuplicateAccAxis,
	KindRequiredAccAxis:    ErrRequiredAccAxis,
	KindDuplicateNames:     ErrDuplicateNames,
}

// Code returns the stable error code for k.
func (k Kind) Code() string {
	return kindCodes[k]
}

// ValidationError represents one configuration violation.
// Group is the 1-based group id within its conversion, or 0.
type ValidationError struct {
	Kind       Kind   `json:"kind"`
	Code       string `json:"code"`
	Conversion string `json:"conversion,omitempty"`
	Group      int    `json:"group,omitempty"`
	Path       string `json:"path,omitempty"`
	Message    string `json:"message"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Kind, e.Message)
}

func newError(kind Kind, conv string, group int, path, format string, args ...any) ValidationError {
	return ValidationError{
		Kind:       kind,
		Code:       kind.Code(),
		Conversion: conv,
		Group:      group,
		Path:       path,
		Message:    fmt.Sprintf(format, args...),
	}
}

// ValidationErrors is a non-empty list of violations returned as one error.
type ValidationErrors []ValidationError

func (es ValidationErrors) Error() string {
	if len(es) == 1 {
		return es[0].Error()
	}
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d validation errors:\n  %s", len(es), strings.Join(msgs, "\n  "))
}

// Validate checks cfg and returns every violation found (does not fail-fast).
//
// Per conversion and group, files are checked for extension, then path, then
// the group's axis layout. Duplicate conversion names are checked last.
func Validate(cfg *Config) []ValidationError {
	var errs []ValidationError

	for _, conv := range cfg.Conversions {
		for gi, group := range conv.Groups {
			id := gi + 1
			for _, f := range group.Files {
				errs = append(errs, validateFile(cfg, conv, id, f)...)
			}
			errs = append(errs, validateAxes(conv, id, group)...)
		}
	}

	if e, ok := duplicateNames(cfg.Conversions); ok {
		errs = append(errs, e)
	}
	return errs
}

func validateFile(cfg *Config, conv Conversion, id int, f File) []ValidationError {
	var errs []ValidationError

	ext := strings.TrimPrefix(filepath.Ext(f.Path), ".")
	switch {
	case ext == "":
		errs = append(errs, newError(KindNoExtension, conv.Name, id, f.Path,
			"couldn't find a file extension for %q", f.Path))
	case !conv.From.AcceptsExtension(ext):
		errs = append(errs, newError(KindInvalidExtension, conv.Name, id, f.Path,
			"unsupported file extension %q, expected one of: %s",
			strings.ToLower(ext), strings.Join(conv.From.Extensions(), ", ")))
	}

	if e, ok := checkRegularFile(cfg.Resolve(f.Path)); ok {
		e.Conversion, e.Group, e.Path = conv.Name, id, f.Path
		errs = append(errs, e)
	}
	return errs
}

func checkRegularFile(p string) (ValidationError, bool) {
	info, err := os.Stat(p)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return newError(KindPathDoesNotExist, "", 0, p, "the specified path doesn't exist: %q", p), true
	case err != nil:
		return newError(KindPathDoesNotExist, "", 0, p, "cannot access %q: %v", p, err), true
	case !info.Mode().IsRegular():
		return newError(KindPathIsNotFile, "", 0, p, "this path isn't a file: %q", p), true
	}
	return ValidationError{}, false
}

// validateAxes enforces the axis layout of one group: multi-axis formats need
// ns, ew and ud exactly once; single-axis formats take no axis tags.
func validateAxes(conv Conversion, id int, group Group) []ValidationError {
	var errs []ValidationError

	if !conv.From.MultiAxis() {
		for _, f := range group.Files {
			if f.AccAxis != ir.AxisNone {
				errs = append(errs, newError(KindMismatchedAccAxis, conv.Name, id, f.Path,
					"the format %q doesn't expect 'acc_axis', but it was set (name: %q, id: %d)",
					conv.From, conv.Name, id))
			}
		}
		return errs
	}

	remaining := make(map[ir.AccAxis]bool, 3)
	for _, a := range ir.RequiredAxes() {
		remaining[a] = true
	}
	for _, f := range group.Files {
		switch {
		case f.AccAxis == ir.AxisNone:
			errs = append(errs, newError(KindRequiredAccAxis, conv.Name, id, f.Path,
				"missing 'acc_axis' information (name: %q, id: %d)", conv.Name, id))
		case remaining[f.AccAxis]:
			delete(remaining, f.AccAxis)
		default:
			errs = append(errs, axisSetError(conv, id, f.Path))
		}
	}

	// An omitted axis is reported only when every file was tagged and unique,
	// otherwise the per-file errors above already explain the gap.
	if len(errs) == 0 && len(remaining) > 0 {
		errs = append(errs, axisSetError(conv, id, ""))
	}
	return errs
}

func axisSetError(conv Conversion, id int, path string) ValidationError {
	return newError(KindDuplicateAccAxis, conv.Name, id, path,
		"the format %q needs all three axes: 'ns', 'ew', and 'ud' (name: %q, id: %d)",
		conv.From, conv.Name, id)
}

// duplicateNames reports the first conversion name that appears twice.
func duplicateNames(convs []Conversion) (ValidationError, bool) {
	seen := make(map[string]bool, len(convs))
	for _, c := range convs {
		if seen[c.Name] {
			names := make([]string, 0, len(seen))
			for n := range seen {
				names = append(names, n)
			}
			sort.Strings(names)
			return newError(KindDuplicateNames, c.Name, 0, "",
				"duplicate conversion name %q; each name must be unique (seen: %s)",
				c.Name, strings.Join(names, ", ")), true
		}
		seen[c.Name] = true
	}
	return ValidationError{}, false
}

// CheckDirectory reports PathDoesNotExist or PathIsNotDirectory for p.
func CheckDirectory(p string) (ValidationError, bool) {
	info, err := os.Stat(p)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return newError(KindPathDoesNotExist, "", 0, p, "the specified path doesn't exist: %q", p), true
	case err != nil:
		return newError(KindPathDoesNotExist, "", 0, p, "cannot access %q: %v", p, err), true
	case !info.IsDir():
		return newError(KindPathIsNotDirectory, "", 0, p, "this path isn't a directory: %q", p), true
	}
	return ValidationError{}, false
}
