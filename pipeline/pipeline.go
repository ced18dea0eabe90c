// Package pipeline runs uploads through loading, classification, assembly
// and serialization, and hands the result to module writers.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/s1000d"
	"github.com/google/uuid"
)

// Ensure Pipeline implements s1000d.Converter at compile time.
var _ s1000d.Converter = (*Pipeline)(nil)

// Pipeline converts one upload into a data module. Stages run
// synchronously; a Pipeline holds no per-run state and may serve
// concurrent requests.
type Pipeline struct {
	// Loaders maps upload formats to loaders. Formats without a loader are
	// rejected.
	Loaders    map[s1000d.Format]s1000d.Loader
	Classifier s1000d.Classifier
	Assembler  s1000d.Assembler
	Serializer s1000d.Serializer

	// Writers receive every generated module, in order. A failing writer
	// rolls the module back out of earlier writers that can delete it.
	Writers []s1000d.ModuleWriter
}

// Convert runs the pipeline for up. Only validation and load errors are
// user facing; once blocks are loaded the remaining stages degrade instead
// of failing.
func (p *Pipeline) Convert(ctx context.Context, up *s1000d.Upload) (*s1000d.Module, error) {
	if err := up.Validate(); err != nil {
		return nil, err
	}
	mode, err := s1000d.ParseMode(string(up.Mode))
	if err != nil {
		return nil, err
	}

	format := s1000d.DetectFormat(up.Filename, up.ContentType, head(up.Data))
	loader, ok := p.Loaders[format]
	if format == s1000d.FormatUnknown || !ok {
		return nil, s1000d.Errorf(s1000d.EINVALID, "unsupported file type for %q: upload a PDF document", up.Filename)
	}

	doc, err := loader.Load(ctx, bytes.NewReader(up.Data))
	if err != nil {
		return nil, err
	}

	classified := p.Classifier.Classify(doc.Blocks)
	res := p.Assembler.Assemble(classified, mode)
	res.Source = up.Filename
	applyDocument(res, doc)

	var buf bytes.Buffer
	if err := p.Serializer.Serialize(&buf, res); err != nil {
		return nil, err
	}

	m := &s1000d.Module{
		ID:          uuid.New().String(),
		Title:       moduleTitle(res, doc, up.Filename),
		SourceName:  up.Filename,
		SourceHash:  fmt.Sprintf("%x", xxhash.Sum64(up.Data)),
		Mode:        res.Mode,
		Type:        res.Info.Type,
		SystemCode:  res.Info.SystemCode,
		PageCount:   res.Info.PageCount,
		BlockCount:  res.Info.BlockCount,
		NodeCount:   res.Root.NodeCount(),
		HasGraphics: res.Info.HasGraphics,
		XML:         buf.String(),
		CreatedAt:   res.CreatedAt,
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	if err := p.store(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// moduleDeleter is implemented by writers that can undo CreateModule.
type moduleDeleter interface {
	DeleteModule(ctx context.Context, id string) error
}

// store hands m to every writer in order. When a writer fails, the module
// is deleted again from earlier writers that support it, so a failed
// conversion leaves no history entry behind.
func (p *Pipeline) store(ctx context.Context, m *s1000d.Module) error {
	for i, w := range p.Writers {
		err := w.CreateModule(ctx, m)
		if err == nil {
			continue
		}
		err = fmt.Errorf("store module: %w", err)

		cleanup := context.WithoutCancel(ctx)
		for _, prev := range p.Writers[:i] {
			d, ok := prev.(moduleDeleter)
			if !ok {
				continue
			}
			if derr := d.DeleteModule(cleanup, m.ID); derr != nil && s1000d.ErrorCode(derr) != s1000d.ENOTFOUND {
				err = errors.Join(err, fmt.Errorf("roll back module %s: %w", m.ID, derr))
			}
		}
		return err
	}
	return nil
}

// applyDocument merges loader metadata into the detected module info.
func applyDocument(res *s1000d.ExtractionResult, doc *s1000d.Document) {
	res.Info.PageCount = max(res.Info.PageCount, doc.PageCount)
	res.Info.HasGraphics = res.Info.HasGraphics || doc.HasImages
	if res.Info.Type == s1000d.ModuleGeneral && doc.Title != "" {
		if typ := s1000d.DetectModuleType(doc.Title); typ != s1000d.ModuleGeneral {
			res.Info.Type = typ
			res.Info.SystemCode = typ.SystemCode()
		}
	}
}

// moduleTitle picks the title shown in module listings.
func moduleTitle(res *s1000d.ExtractionResult, doc *s1000d.Document, filename string) string {
	if res.Root.Title != "" {
		return res.Root.Title
	}
	if t := strings.TrimSpace(doc.Title); t != "" {
		return t
	}
	for _, n := range res.Root.Children {
		if n.Tag == s1000d.TagSection && n.Title != "" {
			return n.Title
		}
	}
	return strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
}

// head returns the leading bytes used for format sniffing.
func head(data []byte) []byte {
	const n = 512
	if len(data) > n {
		return data[:n]
	}
	return data
}
