package storage

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"brca/pkg/table"
)

// memRepo records every call so tests can inspect the generated schema,
// batching, and payloads.
type memRepo struct {
	created map[string][]Column
	inserts []int // row count per InsertRows call
	rows    [][]any
	failAt  int // 1-based InsertRows call that fails; 0 = never
}

func newMemRepo() *memRepo { return &memRepo{created: map[string][]Column{}} }

func (m *memRepo) CreateTable(_ context.Context, name string, cols []Column) error {
	m.created[name] = cols
	return nil
}

func (m *memRepo) InsertRows(_ context.Context, _ string, _ []string, rows [][]any) (int64, error) {
	if m.failAt > 0 && len(m.inserts)+1 == m.failAt {
		return 0, errors.New("connection lost")
	}
	m.inserts = append(m.inserts, len(rows))
	m.rows = append(m.rows, rows...)
	return int64(len(rows)), nil
}

func (m *memRepo) Close() error { return nil }

/*
TestSaveTable verifies the table-to-SQL mapping: numeric columns become REAL,
the rest TEXT, missing cells stay nil on the wire, and the reported row count
matches the input.
*/
func TestSaveTable(t *testing.T) {
	tab := table.New().
		MustAddColumn("patient_id", []any{"p1", "p2"}).
		MustAddColumn("age", []any{36.0, nil})

	repo := newMemRepo()
	n, err := SaveTable(context.Background(), repo, "patients", tab)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if n != 2 {
		t.Fatalf("written=%d; want 2", n)
	}

	want := []Column{{Name: "patient_id", SQLType: "TEXT"}, {Name: "age", SQLType: "REAL"}}
	if got := repo.created["patients"]; !reflect.DeepEqual(got, want) {
		t.Fatalf("schema=%v; want %v", got, want)
	}
	if !reflect.DeepEqual(repo.rows[1], []any{"p2", nil}) {
		t.Fatalf("row=%v; want [p2 <nil>]", repo.rows[1])
	}
}

/*
TestSaveTable_Batching saves more rows than one batch holds and verifies the
rows arrive in several full batches plus a remainder, totaling the input.
*/
func TestSaveTable_Batching(t *testing.T) {
	const rows = insertBatch*2 + 7
	vals := make([]any, rows)
	for i := range vals {
		vals[i] = float64(i)
	}
	tab := table.New().MustAddColumn("v", vals)

	repo := newMemRepo()
	n, err := SaveTable(context.Background(), repo, "t", tab)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if n != rows {
		t.Fatalf("written=%d; want %d", n, rows)
	}
	if want := []int{insertBatch, insertBatch, 7}; !reflect.DeepEqual(repo.inserts, want) {
		t.Fatalf("batches=%v; want %v", repo.inserts, want)
	}
}

func TestSaveTable_InsertError(t *testing.T) {
	vals := make([]any, insertBatch+1)
	for i := range vals {
		vals[i] = float64(i)
	}
	tab := table.New().MustAddColumn("v", vals)

	repo := newMemRepo()
	repo.failAt = 2
	n, err := SaveTable(context.Background(), repo, "t", tab)
	if err == nil {
		t.Fatalf("insert failure swallowed")
	}
	if n != insertBatch {
		t.Fatalf("written=%d; want the %d rows from the successful batch", n, insertBatch)
	}
}

/*
TestRegistry covers the backend registry: unknown kinds fail with the list of
registered ones, a registered factory is dispatched, and duplicate
registration panics.
*/
func TestRegistry(t *testing.T) {
	if _, err := New(context.Background(), Config{Kind: "no-such-backend"}); err == nil {
		t.Fatalf("unknown kind accepted")
	}

	Register("mem-test", func(_ context.Context, cfg Config) (Repository, error) {
		if cfg.DSN != "dsn" {
			return nil, fmt.Errorf("dsn=%q", cfg.DSN)
		}
		return newMemRepo(), nil
	})
	repo, err := New(context.Background(), Config{Kind: "mem-test", DSN: "dsn"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, ok := repo.(*memRepo); !ok {
		t.Fatalf("got %T; want *memRepo", repo)
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("duplicate Register did not panic")
		}
	}()
	Register("mem-test", func(context.Context, Config) (Repository, error) { return nil, nil })
}
