package harness

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/naifuru/naifuru/internal/config"
	"github.com/naifuru/naifuru/internal/ir"
	"github.com/naifuru/naifuru/internal/pipeline"
	"github.com/naifuru/naifuru/internal/store"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string             // Assertion type for categorization
	Expected string             // Human-readable expected outcome
	Actual   string             // Human-readable actual outcome
	Outcomes []pipeline.Outcome // Every unit outcome for context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Outcomes) > 0 {
		fmt.Fprintf(&buf, "\nUnit outcomes:\n")
		for _, o := range e.Outcomes {
			fmt.Fprintf(&buf, "  [%d] %s group %d file %d: %s", o.Seq, o.Conversion, o.GroupIndex+1, o.FileIndex, o.Status)
			if o.Kind != "" {
				fmt.Fprintf(&buf, " (%s)", o.Kind)
			}
			buf.WriteByte('\n')
		}
	}
	return buf.String()
}

// AssertionContext provides ledger access for ledger_count assertions.
type AssertionContext struct {
	Ledger *store.Store
	Ctx    context.Context
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, a := range assertions {
		var err error

		switch a.Type {
		case AssertUnitOK, AssertUnitFailed:
			err = assertUnit(result, a)
		case AssertRecordCount:
			err = assertRecordCount(result, a)
		case AssertRecordField:
			err = assertRecordField(result, a)
		case AssertLedgerCount:
			if actx == nil || actx.Ledger == nil {
				err = fmt.Errorf("assertion[%d]: ledger_count requires a ledger", i)
			} else {
				err = assertLedgerCount(actx, result, a)
			}
		case AssertConfigError:
			err = assertConfigError(result.ConfigErrors, a)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, a.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}
	return errors
}

func findOutcome(outcomes []pipeline.Outcome, a Assertion) (pipeline.Outcome, bool) {
	for _, o := range outcomes {
		if o.Conversion == a.Conversion && o.GroupIndex == a.Group-1 && o.FileIndex == a.File {
			return o, true
		}
	}
	return pipeline.Outcome{}, false
}

// assertUnit checks one unit's status, and for failures its kind and field
// when the assertion names them.
func assertUnit(result *Result, a Assertion) error {
	where := fmt.Sprintf("%s group %d file %d", a.Conversion, a.Group, a.File)
	o, ok := findOutcome(result.Outcomes(), a)
	if !ok {
		return &AssertionError{
			Type:     a.Type,
			Expected: where + " to be processed",
			Actual:   "no outcome recorded",
			Outcomes: result.Outcomes(),
		}
	}

	want := pipeline.StatusOK
	if a.Type == AssertUnitFailed {
		want = pipeline.StatusFailed
	}
	if o.Status != want {
		actual := string(o.Status)
		if o.Err != nil {
			actual += ": " + o.Err.Error()
		}
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%s status %s", where, want),
			Actual:   actual,
			Outcomes: result.Outcomes(),
		}
	}

	if a.Kind != "" && o.Kind != a.Kind {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%s kind %s", where, a.Kind),
			Actual:   fmt.Sprintf("kind %s (%v)", o.Kind, o.Err),
			Outcomes: result.Outcomes(),
		}
	}
	if a.Type == AssertUnitFailed && a.Field != "" && o.Field != a.Field {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%s field %q", where, a.Field),
			Actual:   fmt.Sprintf("field %q (%v)", o.Field, o.Err),
			Outcomes: result.Outcomes(),
		}
	}
	return nil
}

func assertRecordCount(result *Result, a Assertion) error {
	if len(result.Records) != a.Count {
		return &AssertionError{
			Type:     AssertRecordCount,
			Expected: fmt.Sprintf("%d records", a.Count),
			Actual:   fmt.Sprintf("%d records", len(result.Records)),
			Outcomes: result.Outcomes(),
		}
	}
	return nil
}

// assertRecordField compares one value of a record's canonical IR. Both
// sides are rendered as canonical JSON, so 1 and 1.0 compare equal.
func assertRecordField(result *Result, a Assertion) error {
	var rec *pipeline.Record
	for i := range result.Records {
		if result.Records[i].Conversion == a.Conversion && result.Records[i].GroupIndex == a.Group-1 {
			rec = &result.Records[i]
			break
		}
	}
	if rec == nil {
		return &AssertionError{
			Type:     AssertRecordField,
			Expected: fmt.Sprintf("a record for %s group %d", a.Conversion, a.Group),
			Actual:   "no record assembled",
			Outcomes: result.Outcomes(),
		}
	}

	actual, err := lookupPath(rec.IR.CanonicalMap(), a.Field)
	if err != nil {
		return fmt.Errorf("record_field %s: %w", a.Field, err)
	}
	gotJSON, err := ir.MarshalCanonical(actual)
	if err != nil {
		return fmt.Errorf("record_field %s: %w", a.Field, err)
	}
	wantJSON, err := ir.MarshalCanonical(normalizeYAML(a.Value))
	if err != nil {
		return fmt.Errorf("record_field %s: expected value: %w", a.Field, err)
	}
	if !bytes.Equal(gotJSON, wantJSON) {
		return &AssertionError{
			Type:     AssertRecordField,
			Expected: fmt.Sprintf("%s = %s", a.Field, wantJSON),
			Actual:   string(gotJSON),
		}
	}
	return nil
}

// lookupPath walks a dotted path through nested canonical maps.
func lookupPath(m map[string]any, path string) (any, error) {
	var cur any = m
	for _, key := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%q is not an object", key)
		}
		if cur, ok = obj[key]; !ok {
			return nil, fmt.Errorf("no field %q", key)
		}
	}
	return cur, nil
}

// normalizeYAML converts decoded YAML into the shapes MarshalCanonical
// accepts.
func normalizeYAML(v any) any {
	switch val := v.(type) {
	case float32:
		return float64(val)
	case int64:
		return int(val)
	case uint64:
		return int(val)
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = normalizeYAML(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[k] = normalizeYAML(e)
		}
		return out
	default:
		return v
	}
}

func assertLedgerCount(actx *AssertionContext, result *Result, a Assertion) error {
	n := 0
	if result.Summary != nil {
		outcomes, err := actx.Ledger.ReadOutcomes(actx.Ctx, result.Summary.RunToken, store.OutcomeFilter{
			Status:     a.Status,
			ErrorKind:  a.Kind,
			Conversion: a.Conversion,
		})
		if err != nil {
			return fmt.Errorf("ledger_count: %w", err)
		}
		n = len(outcomes)
	}
	if n != a.Count {
		return &AssertionError{
			Type:     AssertLedgerCount,
			Expected: fmt.Sprintf("%d ledger outcomes (status=%q kind=%q conversion=%q)", a.Count, a.Status, a.Kind, a.Conversion),
			Actual:   fmt.Sprintf("%d", n),
			Outcomes: result.Outcomes(),
		}
	}
	return nil
}

func assertConfigError(errs []config.ValidationError, a Assertion) error {
	kinds := make([]string, 0, len(errs))
	for _, e := range errs {
		if string(e.Kind) == a.Kind && (a.Conversion == "" || e.Conversion == a.Conversion) {
			return nil
		}
		kinds = append(kinds, string(e.Kind))
	}
	return &AssertionError{
		Type:     AssertConfigError,
		Expected: fmt.Sprintf("validation error %s", a.Kind),
		Actual:   fmt.Sprintf("%v", kinds),
	}
}
