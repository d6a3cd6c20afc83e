package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runWithLedger(t *testing.T, ledger string, breakUD bool) RunReport {
	t.Helper()
	cfg, out := writeKnetWorkspace(t)
	if breakUD {
		writeFile(t, filepath.Dir(cfg), "ISK005.UD", "not a K-NET record\n")
	}

	stdout, _, _ := execute(t, "--format", "json", "run", "-i", cfg, "-o", out, "--ledger", ledger)

	var resp struct {
		Data RunReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	require.NotEmpty(t, resp.Data.RunToken)
	return resp.Data
}

func TestHistoryListsRuns(t *testing.T) {
	ledger := filepath.Join(t.TempDir(), "runs.db")
	first := runWithLedger(t, ledger, false)
	second := runWithLedger(t, ledger, true)

	stdout, _, err := execute(t, "--format", "json", "history", "--ledger", ledger)
	require.NoError(t, err)

	var resp struct {
		Status string    `json:"status"`
		Data   []RunView `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	require.Len(t, resp.Data, 2)

	byToken := map[string]RunView{}
	for _, r := range resp.Data {
		byToken[r.Token] = r
	}
	assert.Equal(t, "ok", byToken[first.RunToken].Status)
	assert.Equal(t, 1, byToken[first.RunToken].Records)
	assert.Equal(t, "failed", byToken[second.RunToken].Status)
	assert.Equal(t, 1, byToken[second.RunToken].Failed)
	assert.NotEmpty(t, byToken[second.RunToken].FinishedAt)

	text, _, err := execute(t, "history", "--ledger", ledger, "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, text, "analysis.toml")
}

func TestHistoryRunOutcomes(t *testing.T) {
	ledger := filepath.Join(t.TempDir(), "runs.db")
	report := runWithLedger(t, ledger, true)

	stdout, _, err := execute(t, "--format", "json", "history", "--ledger", ledger, "--run", report.RunToken)
	require.NoError(t, err)

	var resp struct {
		Data struct {
			Run      RunView       `json:"run"`
			Outcomes []OutcomeView `json:"outcomes"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, report.RunToken, resp.Data.Run.Token)
	require.Len(t, resp.Data.Outcomes, 3)
	for i, o := range resp.Data.Outcomes {
		assert.Equal(t, i, o.File)
		assert.Equal(t, "noto", o.Conversion)
	}
	assert.Equal(t, "failed", resp.Data.Outcomes[2].Status)
	assert.NotEmpty(t, resp.Data.Outcomes[2].Kind)

	stdout, _, err = execute(t, "--format", "json", "history", "--ledger", ledger, "--run", report.RunToken, "--status", "failed")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	require.Len(t, resp.Data.Outcomes, 1)
	assert.Equal(t, 2, resp.Data.Outcomes[0].File)

	text, _, err := execute(t, "history", "--ledger", ledger, "--run", report.RunToken)
	require.NoError(t, err)
	assert.Contains(t, text, "ISK005.UD")
}

func TestHistoryErrors(t *testing.T) {
	dir := t.TempDir()

	_, _, err := execute(t, "history", "--ledger", filepath.Join(dir, "missing.db"))
	require.Error(t, err)
	assert.Equal(t, ExitArgs, ExitCodeFor(err))

	ledger := filepath.Join(dir, "runs.db")
	runWithLedger(t, ledger, false)

	_, _, err = execute(t, "history", "--ledger", ledger, "--run", "no-such-run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run not found")
	assert.Equal(t, ExitFailure, ExitCodeFor(err))
}
