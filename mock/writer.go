package mock

import (
	"context"

	"github.com/fwojciec/s1000d"
)

var _ s1000d.ModuleWriter = (*ModuleWriter)(nil)

// ModuleWriter is a mock implementation of s1000d.ModuleWriter.
type ModuleWriter struct {
	CreateModuleFn func(ctx context.Context, m *s1000d.Module) error
}

func (w *ModuleWriter) CreateModule(ctx context.Context, m *s1000d.Module) error {
	return w.CreateModuleFn(ctx, m)
}
