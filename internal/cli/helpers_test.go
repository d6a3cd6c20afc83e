package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/naifuru/naifuru/internal/ir"
	"github.com/naifuru/naifuru/internal/sac"
	"github.com/naifuru/naifuru/internal/testutil"
)

const knetConfig = `[global]
name_format = "yyyymmdd-hhmmss-sn-n"

[[conversion]]
name = "noto"
from = "jp_nied_knet"
to = "jp_stera3d_txt"

[[conversion.group]]
files = [
  { path = "ISK005.NS", acc_axis = "ns" },
  { path = "ISK005.EW", acc_axis = "ew" },
  { path = "ISK005.UD", acc_axis = "ud" },
]
`

// writeFile writes content to name inside dir and returns the full path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// writeKnetWorkspace writes three K-NET axis files and a config naming them.
// Returns the config path and an empty output directory.
func writeKnetWorkspace(t *testing.T) (cfgPath, outDir string) {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "ISK005.NS", testutil.NewKnetRecord(ir.AxisNS, 2, 4, 6, 8).Text())
	writeFile(t, dir, "ISK005.EW", testutil.NewKnetRecord(ir.AxisEW, -2, 0, 2, 4).Text())
	writeFile(t, dir, "ISK005.UD", testutil.NewKnetRecord(ir.AxisUD, 10, 20, 30, 40).Text())
	cfgPath = writeFile(t, dir, "analysis.toml", knetConfig)

	outDir = filepath.Join(dir, "out")
	require.NoError(t, os.Mkdir(outDir, 0o755))
	return cfgPath, outDir
}

// writePalertFile writes a big-endian P-Alert SAC record and returns its path.
func writePalertFile(t *testing.T, dir string) string {
	t.Helper()
	b := testutil.PalertRecord(sac.Big, []float64{0.5, -1}, []float64{0.25, 2}, []float64{1, 0})
	path := filepath.Join(dir, "W21B.sac")
	require.NoError(t, os.WriteFile(path, b, 0o644))
	return path
}

// execute runs the root command with args and returns stdout, stderr and
// the command error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
