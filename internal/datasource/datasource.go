// Package datasource abstracts where raw input bytes come from.
package datasource

import (
	"context"
	"io"
)

// Source opens a stream of raw input data.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}
