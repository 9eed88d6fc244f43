// Package storage defines the sink abstraction used to persist cleaned and
// aggregated tables, plus a registry so the CLI can select a backend by name
// without importing database drivers directly. Concrete backends live in
// subpackages and register themselves via init.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Config selects and configures a storage backend.
type Config struct {
	// Kind names the backend, e.g. "sqlite" or "postgres".
	Kind string

	// DSN is the connection string (a file path for sqlite, a pgx URL for
	// postgres).
	DSN string
}

// Column describes one destination column for CreateTable.
type Column struct {
	Name    string
	SQLType string // "REAL" | "TEXT" (portable subset)
}

// Repository is the minimal sink interface: create a destination table and
// bulk-insert rows into it.
type Repository interface {
	// CreateTable creates table name with the given columns if it does not
	// already exist.
	CreateTable(ctx context.Context, name string, cols []Column) error

	// InsertRows inserts rows into table name; every row must have
	// len(columns) values. It returns the number of rows inserted.
	InsertRows(ctx context.Context, name string, columns []string, rows [][]any) (int64, error)

	// Close releases the underlying connection resources.
	Close() error
}

// Factory constructs a Repository for a Config.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs a backend factory under kind. Backends call Register from
// init; a duplicate registration panics as a programming error.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := factories[kind]; dup {
		panic(fmt.Sprintf("storage: duplicate registration for %q", kind))
	}
	factories[kind] = f
}

// New constructs the Repository named by cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: unknown kind %q (registered: %v)", cfg.Kind, kinds())
	}
	return f(ctx, cfg)
}

func kinds() []string {
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
