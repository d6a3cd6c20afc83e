package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naifuru/naifuru/internal/ir"
	"github.com/naifuru/naifuru/internal/testutil"
)

type inspectResponse struct {
	Status string `json:"status"`
	Data   struct {
		NumOfElements int    `json:"num_of_elements"`
		Timestamp     string `json:"timestamp"`
		Acceleration  struct {
			NS []float64 `json:"ns"`
			EW []float64 `json:"ew"`
			UD []float64 `json:"ud"`
		} `json:"acceleration"`
		Metadata struct {
			StationCode string  `json:"station_code"`
			UnitType    string  `json:"unit_type"`
			Latitude    float64 `json:"latitude"`
		} `json:"metadata"`
	} `json:"data"`
}

func TestInspectSac(t *testing.T) {
	path := writePalertFile(t, t.TempDir())

	stdout, _, err := execute(t, "inspect", "--from", "tw_palert_sac", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "W21B")
	assert.Contains(t, stdout, "peak ew")

	stdout, _, err = execute(t, "--format", "json", "inspect", "--from", "tw_palert_sac", path)
	require.NoError(t, err)

	var resp inspectResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 2, resp.Data.NumOfElements)
	assert.Equal(t, "W21B", resp.Data.Metadata.StationCode)
	assert.Equal(t, 23.5, resp.Data.Metadata.Latitude)
	assert.Equal(t, []float64{0.5, -1}, resp.Data.Acceleration.NS)
}

func TestInspectKnetScalesCounts(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ISK005.EW", testutil.NewKnetRecord(ir.AxisEW, 2, -4, 6).Text())

	stdout, _, err := execute(t, "--format", "json", "inspect", "--from", "jp_nied_knet", path)
	require.NoError(t, err)

	var resp inspectResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, []float64{1, -2, 3}, resp.Data.Acceleration.EW)
	assert.Empty(t, resp.Data.Acceleration.NS)
	assert.Equal(t, "ISK005", resp.Data.Metadata.StationCode)
	assert.Equal(t, "gal", resp.Data.Metadata.UnitType)
	assert.Equal(t, "2024-01-01T16:10:18.000+09:00", resp.Data.Timestamp)
}

func TestInspectExtractionFailure(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ISK005.NS", "Origin Time 2024/01/01 16:10:00\n")

	stdout, _, err := execute(t, "inspect", "--from", "jp_nied_knet", path)
	require.Error(t, err)
	assert.Equal(t, ExitExtraction, ExitCodeFor(err))
	assert.Contains(t, stdout, "Error [")
}

func TestInspectUnsupportedFormat(t *testing.T) {
	path := writeFile(t, t.TempDir(), "CI.PAS.v2", "CORRECTED ACCELEROGRAM\n")

	stdout, _, err := execute(t, "--format", "json", "inspect", "--from", "us_scsn_v2", path)
	require.Error(t, err)
	assert.Equal(t, ExitExtraction, ExitCodeFor(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "FormatUnsupported", resp.Error.Code)
}

func TestInspectBadArguments(t *testing.T) {
	path := writePalertFile(t, t.TempDir())

	_, _, err := execute(t, "inspect", "--from", "xx_unknown", path)
	require.Error(t, err)
	assert.Equal(t, ExitArgs, ExitCodeFor(err))

	_, _, err = execute(t, "inspect", "--from", "jp_nied_knet", path)
	require.Error(t, err)
	assert.Equal(t, ExitArgs, ExitCodeFor(err))

	_, _, err = execute(t, "inspect", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required flag(s) "from" not set`)
}
