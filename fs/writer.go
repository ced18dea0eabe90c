// Package fs mirrors generated data modules to a directory.
package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fwojciec/s1000d"
)

// Ensure Writer implements s1000d.ModuleWriter at compile time.
var _ s1000d.ModuleWriter = (*Writer)(nil)

// Writer writes every module's XML to a file in a base directory.
type Writer struct {
	baseDir string
}

// NewWriter creates a new Writer that writes to the given base directory.
// The directory is created on first write.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// Path returns the file a module is written to.
func (w *Writer) Path(m *s1000d.Module) string {
	return filepath.Join(w.baseDir, m.FileName())
}

// CreateModule writes m.XML to Path(m). The file is written under a
// temporary name and renamed into place, so readers never see a partial
// module. Returns EINVALID for modules without an ID.
func (w *Writer) CreateModule(ctx context.Context, m *s1000d.Module) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if m.ID == "" {
		return s1000d.Errorf(s1000d.EINVALID, "module ID required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(w.baseDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(w.baseDir, ".dm-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(m.XML); err != nil {
		tmp.Close()
		return fmt.Errorf("write module: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write module: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), w.Path(m))
}
