package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/naifuru/naifuru/internal/ir"
)

// Scenario defines an extraction scenario: a set of synthesized input files
// arranged as conversions, and the outcomes expected from running them.
type Scenario struct {
	// Name uniquely identifies this scenario. Also names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// RunToken is an optional fixed run token.
	// If empty, defaults to "test-run-default".
	RunToken string `yaml:"run_token,omitempty"`

	// FailFast runs the batch with fail-fast instead of skip-and-continue.
	FailFast bool `yaml:"fail_fast,omitempty"`

	// Conversions mirror the config file's [[conversion]] tables, with
	// fixtures in place of paths to real files.
	Conversions []ConversionFixture `yaml:"conversions"`

	// Assertions validate outcomes, records and the ledger.
	Assertions []Assertion `yaml:"assertions"`
}

// ConversionFixture is one conversion of a scenario.
type ConversionFixture struct {
	Name   string          `yaml:"name"`
	From   ir.SourceFormat `yaml:"from"`
	To     ir.TargetFormat `yaml:"to"`
	Groups []GroupFixture  `yaml:"groups"`
}

// GroupFixture is one group of files.
type GroupFixture struct {
	Files []FileFixture `yaml:"files"`
}

// FileFixture describes a file to synthesize. Exactly one of Knet, Sac and
// Text supplies the content, unless Missing is set.
type FileFixture struct {
	// Path is the file name inside the scenario's work directory.
	Path    string     `yaml:"path"`
	AccAxis ir.AccAxis `yaml:"acc_axis,omitempty"`

	Knet *KnetFixture `yaml:"knet,omitempty"`
	Sac  *SacFixture  `yaml:"sac,omitempty"`
	Text *string      `yaml:"text,omitempty"`

	// Missing leaves the file out, to exercise path validation.
	Missing bool `yaml:"missing,omitempty"`
}

// KnetFixture synthesizes a K-NET ASCII file for the file's axis.
// Unset fields keep testutil.NewKnetRecord's defaults.
type KnetFixture struct {
	Counts      []int64 `yaml:"counts"`
	Station     string  `yaml:"station,omitempty"`
	RecordTime  string  `yaml:"record_time,omitempty"`
	Numerator   uint64  `yaml:"numerator,omitempty"`
	Denominator uint64  `yaml:"denominator,omitempty"`

	// Replace overrides whole lines, keyed by 1-based line number.
	Replace map[int]string `yaml:"replace,omitempty"`

	// Truncate keeps only the first N lines when > 0.
	Truncate int `yaml:"truncate,omitempty"`
}

// SacFixture synthesizes a P-Alert SAC file from testutil.PalertHeader.
type SacFixture struct {
	// Order is "little" (default) or "big".
	Order string    `yaml:"order,omitempty"`
	NS    []float64 `yaml:"ns"`
	EW    []float64 `yaml:"ew"`
	UD    []float64 `yaml:"ud"`

	Station string   `yaml:"station,omitempty"`
	Scale   *float32 `yaml:"scale,omitempty"`
	Idep    *int32   `yaml:"idep,omitempty"`

	// Words keeps only the first N 4-byte words when > 0.
	Words int `yaml:"words,omitempty"`

	// Blank replaces the header with zeros, so neither byte order wins.
	Blank bool `yaml:"blank,omitempty"`
}

// Assertion validates one aspect of a scenario run.
type Assertion struct {
	// Type specifies the assertion type:
	// - "unit_ok": the unit at conversion/group/file extracted cleanly
	// - "unit_failed": the unit failed, optionally with kind and field
	// - "record_count": exactly Count records were assembled
	// - "record_field": a record's IR value at Field equals Value
	// - "ledger_count": the ledger holds Count outcomes matching Status/Kind
	// - "config_error": validation reported Kind
	Type string `yaml:"type"`

	Conversion string `yaml:"conversion,omitempty"`

	// Group is 1-based, as in validation messages.
	Group int `yaml:"group,omitempty"`

	// File is the 0-based file index within the group.
	File int `yaml:"file,omitempty"`

	Kind   string `yaml:"kind,omitempty"`
	Status string `yaml:"status,omitempty"`

	// Field names the extraction field for unit_failed, or a dotted path
	// into the canonical IR for record_field (e.g. "metadata.station_code").
	Field string `yaml:"field,omitempty"`

	Value any `yaml:"value,omitempty"`
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertUnitOK      = "unit_ok"
	AssertUnitFailed  = "unit_failed"
	AssertRecordCount = "record_count"
	AssertRecordField = "record_field"
	AssertLedgerCount = "ledger_count"
	AssertConfigError = "config_error"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field validation.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // catches typos like "assertion:" vs "assertions:"
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Conversions) == 0 {
		return fmt.Errorf("conversions list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for ci, c := range s.Conversions {
		if c.Name == "" {
			return fmt.Errorf("conversions[%d]: name is required", ci)
		}
		if !c.From.Valid() {
			return fmt.Errorf("conversions[%d]: unknown source format %q", ci, c.From)
		}
		for gi, g := range c.Groups {
			for fi, f := range g.Files {
				if err := validateFixture(f); err != nil {
					return fmt.Errorf("conversions[%d].groups[%d].files[%d]: %w", ci, gi, fi, err)
				}
			}
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, a); err != nil {
			return err
		}
	}
	return nil
}

func validateFixture(f FileFixture) error {
	if f.Path == "" {
		return fmt.Errorf("path is required")
	}
	sources := 0
	if f.Knet != nil {
		sources++
	}
	if f.Sac != nil {
		sources++
	}
	if f.Text != nil {
		sources++
	}
	switch {
	case f.Missing && sources > 0:
		return fmt.Errorf("missing file cannot have content")
	case !f.Missing && sources != 1:
		return fmt.Errorf("exactly one of knet, sac or text is required")
	}
	if f.Sac != nil && f.Sac.Order != "" && f.Sac.Order != "little" && f.Sac.Order != "big" {
		return fmt.Errorf("sac.order must be little or big, got %q", f.Sac.Order)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertUnitOK, AssertUnitFailed:
		if a.Conversion == "" || a.Group < 1 {
			return fmt.Errorf("assertions[%d]: conversion and group are required for %s", index, a.Type)
		}
	case AssertRecordCount, AssertLedgerCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	case AssertRecordField:
		if a.Conversion == "" || a.Group < 1 || a.Field == "" {
			return fmt.Errorf("assertions[%d]: conversion, group and field are required for record_field", index)
		}
	case AssertConfigError:
		if a.Kind == "" {
			return fmt.Errorf("assertions[%d]: kind is required for config_error", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
