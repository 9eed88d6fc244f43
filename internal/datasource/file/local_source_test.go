package file

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestOpen_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.csv")
	if err := os.WriteFile(path, []byte("patient_id\np1\n"), 0o644); err != nil {
		t.Fatalf("fixture: %v", err)
	}

	rc, err := NewLocal(path).Open(context.Background())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "patient_id\np1\n" {
		t.Fatalf("content=%q", b)
	}
}

/*
TestOpen_NotFound verifies the typed error: callers can match *NotFoundError
for a friendly message and errors.Is(err, os.ErrNotExist) still holds through
Unwrap.
*/
func TestOpen_NotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.csv")
	_, err := NewLocal(path).Open(context.Background())

	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("got %T (%v); want *NotFoundError", err, err)
	}
	if nf.Path != path {
		t.Fatalf("Path=%q; want %q", nf.Path, path)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("errors.Is(err, os.ErrNotExist) = false")
	}
}

func TestOpen_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewLocal("anything").Open(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v; want context.Canceled", err)
	}
}
