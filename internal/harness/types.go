package harness

import (
	"github.com/naifuru/naifuru/internal/config"
	"github.com/naifuru/naifuru/internal/pipeline"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if all assertions match.
	Pass bool `json:"pass"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// ConfigErrors holds validation failures. When non-empty the batch
	// was not run.
	ConfigErrors []config.ValidationError `json:"config_errors,omitempty"`

	// Summary is the batch run report, nil if validation failed.
	Summary *pipeline.Summary `json:"-"`

	// Records are the assembled records, in group order.
	Records []pipeline.Record `json:"-"`

	// RunErr is the error returned by the batch, e.g. under fail-fast.
	RunErr error `json:"-"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Outcomes returns the run's unit outcomes, or none if the batch did not run.
func (r *Result) Outcomes() []pipeline.Outcome {
	if r.Summary == nil {
		return nil
	}
	return r.Summary.Outcomes
}
