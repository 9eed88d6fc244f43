package csv

import (
	"encoding/csv"
	"fmt"
	"io"

	"brca/pkg/table"
)

// Write emits t as CSV: a header row of column names followed by one row per
// table row, no index column. Missing cells become empty fields, so a table
// written and re-parsed round-trips with identical column names, row count,
// and cell values (modulo the missing-value representation).
func Write(w io.Writer, t *table.Table) error {
	cw := csv.NewWriter(w)
	names := t.Columns()
	if err := cw.Write(names); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	row := make([]string, len(names))
	for i := 0; i < t.Len(); i++ {
		for j, name := range names {
			row[j] = table.AsString(t.Cell(name, i))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
