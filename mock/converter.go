package mock

import (
	"context"

	"github.com/fwojciec/s1000d"
)

var _ s1000d.Converter = (*Converter)(nil)

// Converter is a mock implementation of s1000d.Converter.
type Converter struct {
	ConvertFn func(ctx context.Context, up *s1000d.Upload) (*s1000d.Module, error)
}

func (c *Converter) Convert(ctx context.Context, up *s1000d.Upload) (*s1000d.Module, error) {
	return c.ConvertFn(ctx, up)
}
