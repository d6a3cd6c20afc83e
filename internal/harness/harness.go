package harness

import (
	"context"
	"fmt"
	"os"

	"github.com/naifuru/naifuru/internal/config"
	"github.com/naifuru/naifuru/internal/pipeline"
	"github.com/naifuru/naifuru/internal/store"
	"github.com/naifuru/naifuru/internal/testutil"
)

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh temp directory with an in-memory ledger.
// Deterministic helpers ensure reproducible results.
//
// Execution flow:
// 1. Write the scenario's fixtures and build the matching config
// 2. Validate the config; stop here if it has violations
// 3. Run the batch with a memory sink and the ledger
// 4. Evaluate assertions
func Run(scenario *Scenario) (*Result, error) {
	dir, err := os.MkdirTemp("", "naifuru-scenario-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create work dir: %w", err)
	}
	defer os.RemoveAll(dir)

	cfg, err := materialize(scenario, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to write fixtures: %w", err)
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory ledger: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	result := NewResult()

	result.ConfigErrors = config.Validate(cfg)
	if len(result.ConfigErrors) == 0 {
		sink := &pipeline.MemorySink{}
		p := pipeline.New(
			pipeline.WithClock(testutil.NewDeterministicClock()),
			pipeline.WithRunTokens(testutil.NewFixedRunToken(scenario.RunToken)),
			pipeline.WithSink(sink),
			pipeline.WithLedger(st),
			pipeline.WithFailFast(scenario.FailFast),
		)
		result.Summary, result.RunErr = p.Run(ctx, cfg, scenario.Name)
		result.Records = sink.Records()
	}

	actx := &AssertionContext{
		Ledger: st,
		Ctx:    ctx,
	}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}
	return result, nil
}
