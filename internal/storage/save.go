package storage

import (
	"context"
	"fmt"

	"brca/pkg/table"
)

// insertBatch bounds the number of rows sent per InsertRows call.
const insertBatch = 500

// SaveTable persists t into repo under name: numeric columns map to REAL,
// everything else to TEXT, missing cells to NULL. The destination table is
// created when absent. Returns the number of rows written.
func SaveTable(ctx context.Context, repo Repository, name string, t *table.Table) (int64, error) {
	names := t.Columns()
	cols := make([]Column, len(names))
	for i, n := range names {
		sqlt := "TEXT"
		if t.IsNumeric(n) {
			sqlt = "REAL"
		}
		cols[i] = Column{Name: n, SQLType: sqlt}
	}
	if err := repo.CreateTable(ctx, name, cols); err != nil {
		return 0, fmt.Errorf("storage: create %s: %w", name, err)
	}

	var written int64
	rows := make([][]any, 0, insertBatch)
	flush := func() error {
		if len(rows) == 0 {
			return nil
		}
		n, err := repo.InsertRows(ctx, name, names, rows)
		written += n
		rows = rows[:0]
		return err
	}

	for i := 0; i < t.Len(); i++ {
		row := make([]any, len(names))
		for j, n := range names {
			row[j] = t.Cell(n, i) // nil stays NULL
		}
		rows = append(rows, row)
		if len(rows) >= insertBatch {
			if err := flush(); err != nil {
				return written, fmt.Errorf("storage: insert into %s: %w", name, err)
			}
		}
	}
	if err := flush(); err != nil {
		return written, fmt.Errorf("storage: insert into %s: %w", name, err)
	}
	return written, nil
}
