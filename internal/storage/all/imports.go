// Package all registers every storage backend with the storage factory.
// The CLI blank-imports this package; config selects which backend to use,
// but support for all of them must be linked in.
package all

import (
	_ "brca/internal/storage/postgres"
	_ "brca/internal/storage/sqlite"
)
