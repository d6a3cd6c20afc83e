package store

import (
	"fmt"
	"strings"
)

// OutcomeFilter narrows ReadOutcomes. Empty fields match everything.
type OutcomeFilter struct {
	Status     string
	ErrorKind  string
	Conversion string
}

// equals is one "column = ?" predicate.
type equals struct {
	column string
	value  any
}

// filterColumns is the closed set of columns a filter may reference.
var filterColumns = map[string]bool{
	"run_token":  true,
	"status":     true,
	"error_kind": true,
	"conversion": true,
}

// predicates lists the filter's constraints for one run, in column order.
func (f OutcomeFilter) predicates(token string) []equals {
	preds := []equals{{"run_token", token}}
	if f.Status != "" {
		preds = append(preds, equals{"status", f.Status})
	}
	if f.ErrorKind != "" {
		preds = append(preds, equals{"error_kind", f.ErrorKind})
	}
	if f.Conversion != "" {
		preds = append(preds, equals{"conversion", f.Conversion})
	}
	return preds
}

// compileOutcomeQuery builds the parameterized SELECT for ReadOutcomes.
//
// Values are never interpolated; every query ends in ORDER BY seq so results
// are identical across reads.
func compileOutcomeQuery(token string, f OutcomeFilter) (string, []any, error) {
	preds := f.predicates(token)
	where := make([]string, 0, len(preds))
	params := make([]any, 0, len(preds))
	for _, p := range preds {
		if !filterColumns[p.column] {
			return "", nil, fmt.Errorf("unsupported filter column %q", p.column)
		}
		where = append(where, p.column+" = ?")
		params = append(params, p.value)
	}

	query := "SELECT " + outcomeColumns +
		" FROM unit_outcomes WHERE " + strings.Join(where, " AND ") +
		" ORDER BY seq ASC"
	return query, params, nil
}

const outcomeColumns = "run_token, seq, conversion, group_index, file_index, path, source_format, " +
	"status, error_kind, field, message, samples, payload_digest"
