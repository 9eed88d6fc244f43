package stats

import (
	"fmt"
	"math"
	"sort"

	"brca/internal/schema"
	"brca/pkg/table"
)

// GroupColumn is the default grouping column for the BRCA analysis.
const GroupColumn = "patient_status"

// statNames fixes the order of the per-column statistic fields.
var statNames = []string{"count", "mean", "median", "std", "min", "max"}

// Aggregate partitions the rows of t by the distinct values of groupCol and
// computes the six-statistic Summary for every numeric column and group.
//
// Output shape: one row per distinct group, groups sorted by key for
// determinism, a leading "group" column, and one flat field per (numeric
// column, statistic) pair named "{column}_{statistic}" (e.g. "age_mean").
// Downstream consumers access fields by these exact strings; the naming is
// part of the contract.
//
// Counts exclude missing cells; the remaining statistics are computed over
// non-missing values only. An undefined statistic (std of a single
// observation, or any statistic of an empty group series) appears as a
// missing cell. Rows whose group cell is missing belong to no group.
func Aggregate(t *table.Table, groupCol string) (*table.Table, error) {
	if groupCol == "" {
		groupCol = GroupColumn
	}
	if err := schema.Validate(t, groupCol); err != nil {
		return nil, err
	}

	// Partition row indices by group key, first pass.
	groups := map[string][]int{}
	keyCol := t.Column(groupCol)
	for i, v := range keyCol {
		if table.IsMissing(v) {
			continue
		}
		k := table.AsString(v)
		groups[k] = append(groups[k], i)
	}
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	// The grouping column itself is excluded from the statistics even when
	// its values happen to be numeric.
	var numeric []string
	for _, name := range t.NumericColumns() {
		if name != groupCol {
			numeric = append(numeric, name)
		}
	}

	out := table.New()
	groupVals := make([]any, len(keys))
	for i, k := range keys {
		groupVals[i] = k
	}
	if err := out.AddColumn("group", groupVals); err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}

	for _, col := range numeric {
		fields := map[string][]any{}
		for _, s := range statNames {
			fields[s] = make([]any, len(keys))
		}
		for i, k := range keys {
			sum := Describe(t.Floats(col, groups[k]))
			fields["count"][i] = float64(sum.Count)
			fields["mean"][i] = cell(sum.Mean)
			fields["median"][i] = cell(sum.Median)
			fields["std"][i] = cell(sum.Std)
			fields["min"][i] = cell(sum.Min)
			fields["max"][i] = cell(sum.Max)
		}
		for _, s := range statNames {
			if err := out.AddColumn(col+"_"+s, fields[s]); err != nil {
				return nil, fmt.Errorf("aggregate: %w", err)
			}
		}
	}
	return out, nil
}

// cell converts an undefined statistic into the missing marker.
func cell(v float64) any {
	if math.IsNaN(v) {
		return nil
	}
	return v
}
