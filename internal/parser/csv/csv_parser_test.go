package csv

import (
	"reflect"
	"strings"
	"testing"

	"brca/pkg/table"
)

/*
TestParse_Basic parses a small export and verifies typing: the all-number age
column becomes float64 cells, status stays string, and the configured missing
tokens (plus the empty field) become nil.
*/
func TestParse_Basic(t *testing.T) {
	in := "patient_id,age,patient_status\n" +
		"p1,36,Alive\n" +
		"p2,NA,Dead\n" +
		"p3,64,\n"

	tab, skipped, err := NewParser(Options{TrimSpace: true}).Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if skipped != 0 {
		t.Fatalf("skipped=%d; want 0", skipped)
	}
	if got := tab.Column("age"); !reflect.DeepEqual(got, []any{36.0, nil, 64.0}) {
		t.Fatalf("age=%v; want [36 <nil> 64]", got)
	}
	if got := tab.Column("patient_status"); !reflect.DeepEqual(got, []any{"Alive", "Dead", nil}) {
		t.Fatalf("status=%v", got)
	}
	if !tab.IsNumeric("age") || tab.IsNumeric("patient_id") {
		t.Fatalf("typing wrong: age numeric=%v patient_id numeric=%v",
			tab.IsNumeric("age"), tab.IsNumeric("patient_id"))
	}
}

/*
TestParse_SoftFail feeds rows with the wrong field count and verifies they are
skipped and counted while the rest of the file parses.
*/
func TestParse_SoftFail(t *testing.T) {
	in := "a,b\n" +
		"1,2\n" +
		"3\n" + // short row
		"4,5,6\n" + // long row
		"7,8\n"

	tab, skipped, err := NewParser(Options{}).Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if skipped != 2 {
		t.Fatalf("skipped=%d; want 2", skipped)
	}
	if got := tab.Column("a"); !reflect.DeepEqual(got, []any{1.0, 7.0}) {
		t.Fatalf("a=%v; want [1 7]", got)
	}
}

/*
TestParse_Headers covers the header canonicalization rules: BOM stripping on
the first cell, HeaderMap lookups, and col_N names for blank headers.
*/
func TestParse_Headers(t *testing.T) {
	in := "\ufeffPatient ID,, Vek \n" +
		"p1,x,36\n"

	tab, _, err := NewParser(Options{
		HeaderMap: map[string]string{"Vek": "age"},
	}).Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := []string{"Patient ID", "col_1", "age"}
	if got := tab.Columns(); !reflect.DeepEqual(got, want) {
		t.Fatalf("headers=%v; want %v", got, want)
	}
}

func TestParse_CustomDelimiterAndTokens(t *testing.T) {
	in := "id;score\n" +
		"p1;-\n" +
		"p2;5\n"

	tab, _, err := NewParser(Options{
		Comma:         ';',
		MissingTokens: []string{"-"},
	}).Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := tab.Column("score"); !reflect.DeepEqual(got, []any{nil, 5.0}) {
		t.Fatalf("score=%v; want [<nil> 5]", got)
	}
	// Custom token list replaces the defaults entirely.
	in = "id,v\np1,NA\n"
	tab, _, err = NewParser(Options{MissingTokens: []string{"-"}}).Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := tab.Cell("v", 0); got != "NA" {
		t.Fatalf("v=%v; want literal NA when token list is overridden", got)
	}
}

func TestParse_EmptyInput(t *testing.T) {
	if _, _, err := NewParser(Options{}).Parse(strings.NewReader("")); err == nil {
		t.Fatalf("empty input accepted; want header read error")
	}
}

/*
TestWriteRoundTrip writes a table and parses it back, checking that values,
column order, and missing cells survive. Missing cells render as empty fields,
which the parser maps back to nil.
*/
func TestWriteRoundTrip(t *testing.T) {
	in := table.New().
		MustAddColumn("patient_id", []any{"p1", "p2"}).
		MustAddColumn("age", []any{36.5, nil}).
		MustAddColumn("patient_status", []any{"Alive", "Dead"})

	var buf strings.Builder
	if err := Write(&buf, in); err != nil {
		t.Fatalf("write: %v", err)
	}

	out, skipped, err := NewParser(Options{}).Parse(strings.NewReader(buf.String()))
	if err != nil || skipped != 0 {
		t.Fatalf("reparse: err=%v skipped=%d", err, skipped)
	}
	if !reflect.DeepEqual(out.Columns(), in.Columns()) {
		t.Fatalf("columns=%v; want %v", out.Columns(), in.Columns())
	}
	if got := out.Column("age"); !reflect.DeepEqual(got, []any{36.5, nil}) {
		t.Fatalf("age=%v", got)
	}
	if got := out.Column("patient_status"); !reflect.DeepEqual(got, []any{"Alive", "Dead"}) {
		t.Fatalf("status=%v", got)
	}
}
