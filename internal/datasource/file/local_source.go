// Package file implements a local filesystem-backed data source.
package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// NotFoundError reports a missing input file. It is surfaced to the caller
// without modification or retry; errors.Is(err, os.ErrNotExist) also holds.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s not found", e.Path) }
func (e *NotFoundError) Unwrap() error { return e.Err }

// Local is a filesystem data source that opens files from the local disk.
type Local struct{ path string }

// NewLocal returns a new Local data source bound to the provided filesystem
// path.
func NewLocal(path string) *Local { return &Local{path: path} }

// Open opens the configured path for reading and returns an io.ReadCloser.
//
// Behavior:
//   - If the context is already canceled or its deadline exceeded at the time
//     of the call, Open returns the context error immediately without touching
//     the filesystem.
//   - A nonexistent path yields *NotFoundError.
//   - Any other filesystem error is wrapped with the path for context.
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &NotFoundError{Path: l.path, Err: err}
		}
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	return f, nil
}
