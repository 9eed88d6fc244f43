// Package schema implements the required-column contract shared by every
// stage that consumes a table: cleaning, aggregation, and chart rendering all
// call Validate before touching data, so a malformed input fails in one place
// with one vocabulary of errors.
package schema

import (
	"fmt"
	"strings"

	"brca/pkg/table"
)

// TypeError reports that a candidate value was not a *table.Table at all.
// The type check necessarily precedes column inspection, so when both
// conditions would fail, TypeError is the one reported.
type TypeError struct {
	Got string // the dynamic type that was provided, e.g. "string"
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("expected a *table.Table, got %s", e.Got)
}

// SchemaError reports a table that is missing required columns, or a value
// that violates a categorical domain constraint. Missing lists the exact
// absent column names; Detail carries domain-violation descriptions.
type SchemaError struct {
	Missing []string
	Detail  string
}

func (e *SchemaError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
	}
	return e.Detail
}

// Validate checks that v is a *table.Table containing every required column.
// Order of the required names is irrelevant. It succeeds silently and has no
// side effects; on failure it returns *TypeError or *SchemaError.
func Validate(v any, required ...string) error {
	t, ok := v.(*table.Table)
	if !ok {
		return &TypeError{Got: fmt.Sprintf("%T", v)}
	}
	var missing []string
	for _, name := range required {
		if !t.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}
	return nil
}
