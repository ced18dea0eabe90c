package mock_test

import (
	"context"
	"testing"

	"github.com/fwojciec/s1000d"
	"github.com/fwojciec/s1000d/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModuleWriter_CreateModule(t *testing.T) {
	t.Parallel()

	t.Run("delegates to CreateModuleFn", func(t *testing.T) {
		t.Parallel()

		var calledWith *s1000d.Module
		w := &mock.ModuleWriter{
			CreateModuleFn: func(_ context.Context, m *s1000d.Module) error {
				calledWith = m
				return nil
			},
		}

		m := &s1000d.Module{
			SourceName: "engine.pdf",
			Mode:       s1000d.ModeSmart,
			XML:        "<dmodule/>",
		}

		err := w.CreateModule(context.Background(), m)

		require.NoError(t, err)
		assert.Equal(t, m, calledWith)
	})
}
