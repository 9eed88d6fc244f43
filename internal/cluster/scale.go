// Package cluster wraps k-means clustering over scaled numeric features from
// a cleaned table. Scaling is the caller's explicit step (Scale), mirroring
// the analysis workflow: select feature columns, standardize them, then fit.
package cluster

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"brca/internal/schema"
	"brca/pkg/table"
)

// DefaultFeatures are the protein-expression columns clustered by the BRCA
// analysis.
var DefaultFeatures = []string{"protein1", "protein2", "protein3", "protein4"}

// Scale extracts the named numeric columns of t into a dense matrix with each
// column standardized to zero mean and unit variance. Rows containing a
// missing value in any feature column are excluded (their indices are
// reported in the second result so labels can be mapped back to table rows).
// A constant column is centered but left unscaled.
func Scale(t *table.Table, cols []string) (*mat.Dense, []int, error) {
	if len(cols) == 0 {
		cols = DefaultFeatures
	}
	if err := schema.Validate(t, cols...); err != nil {
		return nil, nil, err
	}

	var rows []int
	for i := 0; i < t.Len(); i++ {
		complete := true
		for _, c := range cols {
			if _, ok := table.AsFloat(t.Cell(c, i)); !ok {
				complete = false
				break
			}
		}
		if complete {
			rows = append(rows, i)
		}
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("cluster: no complete rows across features %v", cols)
	}

	X := mat.NewDense(len(rows), len(cols), nil)
	col := make([]float64, len(rows))
	for j, c := range cols {
		vals := t.Column(c)
		for i, r := range rows {
			f, _ := table.AsFloat(vals[r])
			col[i] = f
		}
		mean, std := stat.MeanStdDev(col, nil)
		if std == 0 || len(rows) < 2 {
			std = 1
		}
		for i := range col {
			X.Set(i, j, (col[i]-mean)/std)
		}
	}
	return X, rows, nil
}
