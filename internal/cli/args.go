package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/naifuru/naifuru/internal/config"
	"github.com/naifuru/naifuru/internal/ir"
)

// ArgsError reports a command-line path that cannot be used.
type ArgsError struct {
	Kind     config.Kind
	Path     string
	Ext      string   // offending extension, for InvalidExtension
	Expected []string // accepted extensions, for InvalidExtension
}

func (e *ArgsError) Error() string {
	switch e.Kind {
	case config.KindNoExtension:
		return fmt.Sprintf("no file extension: %s", e.Path)
	case config.KindInvalidExtension:
		return fmt.Sprintf("unsupported file extension %q: expected one of %s", e.Ext, strings.Join(e.Expected, ", "))
	case config.KindPathDoesNotExist:
		return fmt.Sprintf("path does not exist: %s", e.Path)
	case config.KindPathIsNotFile:
		return fmt.Sprintf("path is not a file: %s", e.Path)
	case config.KindPathIsNotDirectory:
		return fmt.Sprintf("path is not a directory: %s", e.Path)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Path)
	}
}

// ExitCode implements the exit code mapping for argument errors.
func (e *ArgsError) ExitCode() int {
	return ExitArgs
}

// checkFile requires path to be an existing regular file whose extension
// is one of exts.
func checkFile(path string, exts []string) error {
	if err := checkExists(path); err != nil {
		return err
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return &ArgsError{Kind: config.KindNoExtension, Path: path}
	}
	if !slices.Contains(exts, ext) {
		return &ArgsError{Kind: config.KindInvalidExtension, Path: path, Ext: ext, Expected: exts}
	}
	return nil
}

// checkExists requires path to be an existing regular file.
func checkExists(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &ArgsError{Kind: config.KindPathDoesNotExist, Path: path}
		}
		return err
	}
	if !info.Mode().IsRegular() {
		return &ArgsError{Kind: config.KindPathIsNotFile, Path: path}
	}
	return nil
}

// checkDir requires path to be an existing directory.
func checkDir(path string) error {
	if _, err := os.Stat(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if e, bad := config.CheckDirectory(path); bad {
		return &ArgsError{Kind: e.Kind, Path: path}
	}
	return nil
}

// checkRunArgs validates the run command's input config and output
// directory, reporting both problems when both are wrong.
func checkRunArgs(input, output string) error {
	return errors.Join(
		checkFile(input, config.Extensions()),
		checkDir(output),
	)
}

// checkInspectArgs validates a single data file against its source format.
func checkInspectArgs(path string, from ir.SourceFormat) error {
	return checkFile(path, from.Extensions())
}
