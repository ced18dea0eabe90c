package main_test

import (
	"os"
	"path/filepath"
	"testing"

	main "github.com/fwojciec/s1000d/cmd/dmserver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dmserver.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("overrides defaults with file values", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, `
classifier:
  heading_threshold: 3
  keywords: [PROCEDURE]
loader:
  gap_ratio: 2.0
server:
  max_upload_mb: 4
  trust_proxy: true
`)

		cfg, err := main.LoadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, 3, cfg.Classifier.HeadingThreshold)
		assert.Equal(t, []string{"PROCEDURE"}, cfg.Classifier.Keywords)
		assert.Equal(t, 3, cfg.Classifier.TitleThreshold)
		assert.InDelta(t, 2.0, cfg.Loader.GapRatio, 1e-9)
		assert.Equal(t, 4, cfg.Loader.Concurrency)
		assert.Equal(t, 4, cfg.Server.MaxUploadMB)
		assert.InDelta(t, 1.0, cfg.Server.Rate, 1e-9)
		assert.Equal(t, 5, cfg.Server.Burst)
		assert.True(t, cfg.Server.TrustProxy)
	})

	t.Run("does not trust forwarding headers by default", func(t *testing.T) {
		t.Parallel()

		assert.False(t, main.DefaultConfig().Server.TrustProxy)
	})

	t.Run("returns error for malformed YAML", func(t *testing.T) {
		t.Parallel()

		_, err := main.LoadConfig(writeConfig(t, "server: [unterminated"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse config")
	})

	t.Run("returns error for invalid values", func(t *testing.T) {
		t.Parallel()

		_, err := main.LoadConfig(writeConfig(t, "server:\n  max_upload_mb: -1\n"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_upload_mb")
	})
}
