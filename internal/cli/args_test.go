package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naifuru/naifuru/internal/config"
	"github.com/naifuru/naifuru/internal/ir"
)

func argsKind(t *testing.T, err error) config.Kind {
	t.Helper()
	var argsErr *ArgsError
	require.True(t, errors.As(err, &argsErr), "expected ArgsError, got %v", err)
	return argsErr.Kind
}

func TestCheckFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "analysis.toml", "")
	writeFile(t, dir, "analysis.TOML", "")
	writeFile(t, dir, "analysis", "")
	writeFile(t, dir, "analysis.json", "")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.toml"), 0o755))

	assert.NoError(t, checkFile(filepath.Join(dir, "analysis.toml"), config.Extensions()))
	assert.NoError(t, checkFile(filepath.Join(dir, "analysis.TOML"), config.Extensions()))

	tests := []struct {
		name string
		want config.Kind
	}{
		{"missing.toml", config.KindPathDoesNotExist},
		{"sub.toml", config.KindPathIsNotFile},
		{"analysis", config.KindNoExtension},
		{"analysis.json", config.KindInvalidExtension},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkFile(filepath.Join(dir, tt.name), config.Extensions())
			require.Error(t, err)
			assert.Equal(t, tt.want, argsKind(t, err))
		})
	}
}

func TestCheckFile_InvalidExtensionMessage(t *testing.T) {
	path := writeFile(t, t.TempDir(), "analysis.json", "")

	err := checkFile(path, config.Extensions())
	require.Error(t, err)
	assert.Equal(t, `unsupported file extension "json": expected one of toml, yaml, yml`, err.Error())
}

func TestCheckRunArgs_ReportsBoth(t *testing.T) {
	dir := t.TempDir()
	notDir := writeFile(t, dir, "out.txt", "")

	err := checkRunArgs(filepath.Join(dir, "missing.toml"), notDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path does not exist")
	assert.Contains(t, err.Error(), "path is not a directory")
	assert.Equal(t, ExitArgs, ExitCodeFor(err))
}

func TestCheckDir_StatFailureIsIOError(t *testing.T) {
	dir := t.TempDir()
	blocker := writeFile(t, dir, "blocker", "")

	err := checkDir(filepath.Join(blocker, "out"))
	require.Error(t, err)
	var argsErr *ArgsError
	assert.False(t, errors.As(err, &argsErr))
	assert.NotContains(t, err.Error(), "does not exist")
	assert.Equal(t, ExitIO, ExitCodeFor(err))

	err = checkDir(filepath.Join(dir, "missing"))
	assert.Equal(t, config.KindPathDoesNotExist, argsKind(t, err))
}

func TestCheckRunArgs_Valid(t *testing.T) {
	cfg, out := writeKnetWorkspace(t)
	assert.NoError(t, checkRunArgs(cfg, out))
}

func TestCheckInspectArgs(t *testing.T) {
	dir := t.TempDir()
	sacPath := writePalertFile(t, dir)
	knetPath := writeFile(t, dir, "ISK005.NS", "")

	assert.NoError(t, checkInspectArgs(sacPath, ir.TwPalertSac))
	assert.NoError(t, checkInspectArgs(knetPath, ir.JpNiedKnet))

	err := checkInspectArgs(sacPath, ir.JpNiedKnet)
	require.Error(t, err)
	assert.Equal(t, config.KindInvalidExtension, argsKind(t, err))
}

func TestInspectAxis(t *testing.T) {
	axis, err := inspectAxis(ir.JpNiedKnet, "ISK005.EW", "")
	require.NoError(t, err)
	assert.Equal(t, ir.AxisEW, axis)

	axis, err = inspectAxis(ir.JpNiedKnet, "ISK005.EW", "UD")
	require.NoError(t, err)
	assert.Equal(t, ir.AxisUD, axis)

	_, err = inspectAxis(ir.TkAfadAsc, "record.asc", "")
	assert.Error(t, err)

	axis, err = inspectAxis(ir.TwPalertSac, "W21B.sac", "")
	require.NoError(t, err)
	assert.Equal(t, ir.AxisNone, axis)

	_, err = inspectAxis(ir.TwPalertSac, "W21B.sac", "ns")
	assert.Error(t, err)
}
