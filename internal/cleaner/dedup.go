package cleaner

import (
	"strings"

	"github.com/zeebo/xxh3"

	"brca/internal/schema"
	"brca/pkg/table"
)

// DeDup collapses rows that share the same value for every key column,
// keeping one winner per key:
//
//   - "keep-first": the earliest occurrence in the table (default)
//   - "keep-last":  the latest occurrence
//
// Rows with a missing value in any key column are outside the de-dup domain
// and always pass through. Output preserves input row order. Registry exports
// occasionally carry a patient twice; running DeDup after the standard rules
// keeps one record per patient without guessing which fields to merge.
type DeDup struct {
	Keys   []string // defaults to [DefaultIDColumn]
	Policy string   // "keep-first" | "keep-last"
}

func (d DeDup) Apply(t *table.Table) (*table.Table, error) {
	keys := d.Keys
	if len(keys) == 0 {
		keys = []string{DefaultIDColumn}
	}
	if err := schema.Validate(t, keys...); err != nil {
		return nil, err
	}

	policy := strings.ToLower(strings.TrimSpace(d.Policy))
	if policy == "" {
		policy = "keep-first"
	}

	// Composite key hashed once per row; \x1f separates fields so adjacent
	// values cannot collide by concatenation.
	keyOf := func(row int) (uint64, bool) {
		var b strings.Builder
		for i, k := range keys {
			v := t.Cell(k, row)
			if table.IsMissing(v) {
				return 0, false
			}
			if i > 0 {
				b.WriteByte('\x1f')
			}
			b.WriteString(table.AsString(v))
		}
		return xxh3.HashString(b.String()), true
	}

	n := t.Len()
	winner := make(map[uint64]int, n)
	for i := 0; i < n; i++ {
		h, ok := keyOf(i)
		if !ok {
			continue
		}
		if _, seen := winner[h]; seen && policy == "keep-first" {
			continue
		}
		winner[h] = i
	}

	keep := make(map[int]struct{}, len(winner))
	for _, i := range winner {
		keep[i] = struct{}{}
	}
	return t.Filter(func(i int) bool {
		if _, ok := keep[i]; ok {
			return true
		}
		_, keyed := keyOf(i)
		return !keyed // pass through rows outside the de-dup domain
	}), nil
}
