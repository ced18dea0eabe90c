package mock

import (
	"context"
	"io"

	"github.com/fwojciec/s1000d"
)

var _ s1000d.Loader = (*Loader)(nil)

// Loader is a mock implementation of s1000d.Loader.
type Loader struct {
	LoadFn func(ctx context.Context, r io.Reader) (*s1000d.Document, error)
}

func (l *Loader) Load(ctx context.Context, r io.Reader) (*s1000d.Document, error) {
	return l.LoadFn(ctx, r)
}
