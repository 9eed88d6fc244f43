// Package cleaner implements the fixed cleaning pipeline applied to the raw
// patient table before any analysis. Each rule is an independently callable
// Stage so the test suite can exercise them in isolation; Clean wires them in
// their one documented order.
//
// Cleaning decisions are explicit and intentionally conservative:
//
//   - column names are normalized once, up front
//   - rows without a patient identifier are removed
//   - rows without a survival status (the target variable) are removed
//   - every other missing value is left untouched; in particular,
//     date_of_last_visit stays missing rather than receiving an imputed date
//   - tumour_stage values outside {I, II, III} are a domain violation whose
//     handling (advisory or fatal) is a configured policy, never a silent pick
package cleaner

import (
	"fmt"

	"brca/internal/schema"
	"brca/pkg/table"
)

// Default column names for the BRCA dataset. They are parameters everywhere
// they are used; these are only the documented defaults.
const (
	DefaultIDColumn        = "patient_id"
	DefaultTargetColumn    = "patient_status"
	DefaultUntouchedColumn = "date_of_last_visit"
	DefaultStageColumn     = "tumour_stage"
)

// DefaultAllowedStages is the expected tumour_stage domain.
var DefaultAllowedStages = []string{"I", "II", "III"}

// Stage is one table transformation. Apply derives a new table from its
// input; implementations must not mutate the input table.
type Stage interface {
	Apply(t *table.Table) (*table.Table, error)
}

// Chain applies stages strictly in order, feeding each stage's output to the
// next. The first error aborts the chain; no partial output is returned.
type Chain []Stage

func (c Chain) Apply(t *table.Table) (*table.Table, error) {
	out := t
	for _, s := range c {
		var err error
		if out, err = s.Apply(out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// RequireID removes every row where the identifier column is missing. The
// filter is stable: retained rows keep their input order. If the identifier
// column itself is absent the stage fails with *schema.SchemaError before any
// row is dropped.
type RequireID struct {
	Column string // defaults to DefaultIDColumn
}

func (r RequireID) Apply(t *table.Table) (*table.Table, error) {
	col := r.Column
	if col == "" {
		col = DefaultIDColumn
	}
	if err := schema.Validate(t, col); err != nil {
		return nil, err
	}
	ids := t.Column(col)
	return t.Filter(func(i int) bool { return !table.IsMissing(ids[i]) }), nil
}

// MissingValuePolicy removes rows where the target column is missing and
// leaves every other column's missing values as-is. Untouched names the
// column whose gaps are a documented keep-as-missing decision (patients
// without follow-up data); it is recorded here so the decision is visible in
// configuration and reports, not because the stage treats it specially.
type MissingValuePolicy struct {
	Target    string // defaults to DefaultTargetColumn
	Untouched string // defaults to DefaultUntouchedColumn; informational
}

func (m MissingValuePolicy) Apply(t *table.Table) (*table.Table, error) {
	target := m.Target
	if target == "" {
		target = DefaultTargetColumn
	}
	if err := schema.Validate(t, target); err != nil {
		return nil, err
	}
	vals := t.Column(target)
	return t.Filter(func(i int) bool { return !table.IsMissing(vals[i]) }), nil
}

// Cleaner bundles the full pipeline with its configuration. The zero value
// uses the documented defaults and the advisory domain policy.
type Cleaner struct {
	IDColumn        string
	TargetColumn    string
	UntouchedColumn string
	StageColumn     string
	AllowedStages   []string
	DomainPolicy    Policy

	// Report, when non-nil, receives advisory domain violations as they are
	// found (PolicyWarn only).
	Report func(Violation)

	// DeDup, when non-nil, collapses duplicate identifiers after the
	// standard rules have run.
	DeDup *DeDup
}

// Clean runs the cleaning pipeline on raw and returns the cleaned table along
// with any advisory domain violations. raw is never mutated. Any stage error
// (for example a missing identifier column) aborts immediately and leaves no
// partial output.
func (c *Cleaner) Clean(raw *table.Table) (*table.Table, []Violation, error) {
	if raw == nil {
		return nil, nil, &schema.TypeError{Got: "nil"}
	}

	allowed := c.AllowedStages
	if allowed == nil {
		allowed = DefaultAllowedStages
	}

	var violations []Violation
	report := func(v Violation) {
		violations = append(violations, v)
		if c.Report != nil {
			c.Report(v)
		}
	}

	chain := Chain{
		NormalizeColumns{},
		RequireID{Column: c.IDColumn},
		MissingValuePolicy{Target: c.TargetColumn, Untouched: c.UntouchedColumn},
		DomainCheck{
			Column:  c.StageColumn,
			Allowed: allowed,
			Policy:  c.DomainPolicy,
			Report:  report,
		},
	}
	if c.DeDup != nil {
		chain = append(chain, *c.DeDup)
	}

	out, err := chain.Apply(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("clean: %w", err)
	}
	return out, violations, nil
}
