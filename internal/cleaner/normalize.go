package cleaner

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"brca/pkg/table"
)

// NormalizeColumns canonicalizes column names: surrounding whitespace is
// trimmed, diacritics are folded to ASCII, letters are lowercased, and
// internal spaces become underscores ("ER status" -> "er_status"). It is a
// pure rename with no row-level effect, and it is idempotent: normalizing an
// already-normalized table changes nothing.
type NormalizeColumns struct{}

func (NormalizeColumns) Apply(t *table.Table) (*table.Table, error) {
	return t.RenameColumns(NormalizeName)
}

// NormalizeName applies the column-name normalization to a single name.
func NormalizeName(name string) string {
	s := asciiFold(strings.TrimSpace(name))
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, " ", "_")
}

// asciiFold strips combining marks so that accented header text maps onto
// plain ASCII column names (NFD, drop marks, NFC).
func asciiFold(s string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}
