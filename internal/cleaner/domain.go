package cleaner

import (
	"fmt"
	"sort"

	"brca/internal/schema"
	"brca/pkg/table"
)

// Policy selects how a categorical domain violation is handled. The source
// analysis flip-flopped between warning and halting across revisions; here the
// choice is an explicit configuration value with an explicit default.
type Policy string

const (
	// PolicyWarn reports violations through the configured sink and lets the
	// pipeline continue. This is the default: unexpected stage labels are a
	// data-quality finding, not a reason to abandon the analysis.
	PolicyWarn Policy = "warn"

	// PolicyFatal converts the first violation into a *schema.SchemaError,
	// halting the pipeline.
	PolicyFatal Policy = "fatal"
)

// Violation describes categorical values found outside the allowed domain.
type Violation struct {
	Column string
	Values []string // distinct offending values, sorted
}

func (v Violation) String() string {
	return fmt.Sprintf("unexpected %s values: %v", v.Column, v.Values)
}

// DomainCheck validates that the distinct non-missing values of a categorical
// column lie inside a fixed allowed set. An absent column is a no-op
// pass-through. The table itself is never modified: offending rows are kept
// either way, the difference between policies is only whether the run halts.
type DomainCheck struct {
	Column  string   // defaults to DefaultStageColumn
	Allowed []string // defaults to DefaultAllowedStages
	Policy  Policy   // defaults to PolicyWarn
	Report  func(Violation)
}

func (d DomainCheck) Apply(t *table.Table) (*table.Table, error) {
	col := d.Column
	if col == "" {
		col = DefaultStageColumn
	}
	if !t.HasColumn(col) {
		return t, nil
	}

	allowed := d.Allowed
	if allowed == nil {
		allowed = DefaultAllowedStages
	}
	ok := make(map[string]struct{}, len(allowed))
	for _, v := range allowed {
		ok[v] = struct{}{}
	}

	seen := map[string]struct{}{}
	var bad []string
	for _, v := range t.Column(col) {
		if table.IsMissing(v) {
			continue
		}
		s := table.AsString(v)
		if _, allowed := ok[s]; allowed {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		bad = append(bad, s)
	}
	if len(bad) == 0 {
		return t, nil
	}
	sort.Strings(bad)

	if d.Policy == PolicyFatal {
		return nil, &schema.SchemaError{
			Detail: fmt.Sprintf("column %q: values %v outside allowed domain %v", col, bad, allowed),
		}
	}
	if d.Report != nil {
		d.Report(Violation{Column: col, Values: bad})
	}
	return t, nil
}
