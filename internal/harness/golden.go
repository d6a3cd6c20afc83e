package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/naifuru/naifuru/internal/ir"
)

// Snapshot captures everything a scenario run produced that is stable across
// machines: unit outcomes without temp paths, and the record envelopes.
type Snapshot struct {
	ScenarioName string
	RunToken     string
	Result       *Result
}

// toCanonicalMap converts a Snapshot to the generic shape ir.MarshalCanonical
// accepts.
func (s *Snapshot) toCanonicalMap() map[string]any {
	outcomes := make([]any, 0, len(s.Result.Outcomes()))
	for _, o := range s.Result.Outcomes() {
		m := map[string]any{
			"seq":        o.Seq,
			"conversion": o.Conversion,
			"group":      o.GroupIndex + 1,
			"file":       o.FileIndex,
			"status":     string(o.Status),
			"samples":    o.Samples,
		}
		if o.Kind != "" {
			m["kind"] = o.Kind
		}
		if o.Field != "" {
			m["field"] = o.Field
		}
		outcomes = append(outcomes, m)
	}

	records := make([]any, 0, len(s.Result.Records))
	for _, r := range s.Result.Records {
		records = append(records, r.Envelope())
	}

	result := map[string]any{
		"scenario": s.ScenarioName,
		"outcomes": outcomes,
		"records":  records,
	}
	if s.RunToken != "" {
		result["run_token"] = s.RunToken
	}
	return result
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, scenario.RunToken, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, name, runToken string, result *Result) error {
	t.Helper()

	snapshot := Snapshot{ScenarioName: name, RunToken: runToken, Result: result}
	data, err := ir.MarshalCanonical(snapshot.toCanonicalMap())
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}
