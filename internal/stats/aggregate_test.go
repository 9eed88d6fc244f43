package stats

import (
	"errors"
	"reflect"
	"testing"

	"brca/internal/schema"
	"brca/pkg/table"
)

func patients() *table.Table {
	return table.New().
		MustAddColumn("patient_id", []any{"p1", "p2", "p3", "p4", "p5"}).
		MustAddColumn("patient_status", []any{"Alive", "Dead", "Alive", "Dead", nil}).
		MustAddColumn("age", []any{50.0, 70.0, 60.0, 80.0, 99.0}).
		MustAddColumn("protein1", []any{0.5, nil, 1.5, 0.25, 0.75})
}

/*
TestAggregate_Shape verifies the output contract on a small fixture: one row
per group in sorted order, a leading "group" column, and flat
"{column}_{statistic}" fields for every numeric column in table order. The
non-numeric patient_id contributes nothing.
*/
func TestAggregate_Shape(t *testing.T) {
	out, err := Aggregate(patients(), "")
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}

	// Two groups; the row with a missing status belongs to neither.
	if out.Len() != 2 {
		t.Fatalf("groups=%d; want 2", out.Len())
	}
	if got := out.Column("group"); !reflect.DeepEqual(got, []any{"Alive", "Dead"}) {
		t.Fatalf("group order=%v; want [Alive Dead]", got)
	}

	want := []string{
		"group",
		"age_count", "age_mean", "age_median", "age_std", "age_min", "age_max",
		"protein1_count", "protein1_mean", "protein1_median", "protein1_std", "protein1_min", "protein1_max",
	}
	if got := out.Columns(); !reflect.DeepEqual(got, want) {
		t.Fatalf("columns=%v; want %v", got, want)
	}
}

/*
TestAggregate_Values hand-checks the statistics: Alive ages {50, 60}, Dead
ages {70, 80}; Dead has a single protein1 value, so its protein1_std is the
missing marker, not zero. Counts exclude missing cells.
*/
func TestAggregate_Values(t *testing.T) {
	out, err := Aggregate(patients(), "patient_status")
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}

	// Row 0 is Alive, row 1 is Dead (sorted keys).
	checks := []struct {
		col  string
		row  int
		want any
	}{
		{"age_count", 0, 2.0},
		{"age_mean", 0, 55.0},
		{"age_median", 0, 55.0},
		{"age_min", 0, 50.0},
		{"age_max", 0, 60.0},
		{"age_mean", 1, 75.0},
		{"protein1_count", 1, 1.0}, // p2's protein1 is missing
		{"protein1_mean", 1, 0.25},
		{"protein1_std", 1, nil}, // undefined for one observation
	}
	for _, c := range checks {
		if got := out.Cell(c.col, c.row); got != c.want {
			t.Errorf("%s[%d]=%v; want %v", c.col, c.row, got, c.want)
		}
	}
}

/*
TestAggregate_NumericGroupColumn groups by a numeric column and verifies the
grouping column is excluded from its own statistics while keys render through
the shared string form.
*/
func TestAggregate_NumericGroupColumn(t *testing.T) {
	tab := table.New().
		MustAddColumn("stage", []any{1.0, 2.0, 1.0}).
		MustAddColumn("age", []any{30.0, 40.0, 50.0})

	out, err := Aggregate(tab, "stage")
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if out.HasColumn("stage_mean") {
		t.Fatalf("grouping column aggregated over itself")
	}
	if got := out.Column("group"); !reflect.DeepEqual(got, []any{"1", "2"}) {
		t.Fatalf("groups=%v; want [1 2]", got)
	}
	if got := out.Cell("age_mean", 0); got != 40.0 {
		t.Fatalf("age_mean[1]=%v; want 40", got)
	}
}

func TestAggregate_MissingGroupColumn(t *testing.T) {
	tab := table.New().MustAddColumn("age", []any{1.0})
	_, err := Aggregate(tab, "patient_status")
	var se *schema.SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("got %T (%v); want *schema.SchemaError", err, err)
	}
	if !reflect.DeepEqual(se.Missing, []string{"patient_status"}) {
		t.Fatalf("Missing=%v", se.Missing)
	}
}
