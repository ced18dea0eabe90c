// Package pdfcpu loads text blocks from PDF documents. pdfcpu validates the
// document and reads its metadata; glyphs are decoded with ledongthuc/pdf,
// which resolves font encodings and ToUnicode maps.
package pdfcpu

import (
	"bytes"
	"context"
	"io"

	"github.com/fwojciec/s1000d"
	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"golang.org/x/sync/errgroup"
)

// Ensure Loader implements s1000d.Loader at compile time.
var _ s1000d.Loader = (*Loader)(nil)

// Default loader settings.
const (
	DefaultGapRatio    = 1.6
	DefaultConcurrency = 4
)

// Options configures PDF loading.
type Options struct {
	// GapRatio is the vertical advance, as a multiple of the font size,
	// beyond which two lines are separated by a gap.
	GapRatio float64 `yaml:"gap_ratio" json:"gapRatio"`

	// Concurrency is the number of pages decoded in parallel.
	Concurrency int `yaml:"concurrency" json:"concurrency"`
}

// DefaultOptions returns the default loader settings.
func DefaultOptions() Options {
	return Options{GapRatio: DefaultGapRatio, Concurrency: DefaultConcurrency}
}

func (o Options) withDefaults() Options {
	if o.GapRatio <= 0 {
		o.GapRatio = DefaultGapRatio
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	return o
}

// Loader extracts one text block per visual line from PDF documents.
type Loader struct {
	opts Options
}

// NewLoader creates a new Loader. Zero option fields take their defaults.
func NewLoader(opts Options) *Loader {
	return &Loader{opts: opts.withDefaults()}
}

// Load reads a PDF document from r. Pages are decoded concurrently and
// blocks are returned in page order.
func (l *Loader) Load(ctx context.Context, r io.Reader) (*s1000d.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, s1000d.Errorf(s1000d.EINVALID, "read upload: %v", err)
	}
	if !bytes.HasPrefix(bytes.TrimLeft(data, "\x00\t\r\n "), []byte("%PDF-")) {
		return nil, s1000d.Errorf(s1000d.EINVALID, "not a PDF document")
	}

	pc, err := api.ReadValidateAndOptimize(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return nil, s1000d.Errorf(s1000d.EINVALID, "unreadable PDF: %v", err)
	}

	reader, err := openReader(data)
	if err != nil {
		return nil, err
	}

	pages := make([][]s1000d.TextBlock, reader.NumPage())
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.opts.Concurrency)
	for i := range pages {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			glyphs, err := pageText(reader, i+1)
			if err != nil {
				return err
			}
			pages[i] = Lines(glyphs, i, l.opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	doc := &s1000d.Document{
		PageCount: pc.PageCount,
		Title:     pc.Title,
		HasImages: hasImages(pc),
	}
	for _, page := range pages {
		for _, b := range page {
			b.Position = len(doc.Blocks)
			doc.Blocks = append(doc.Blocks, b)
		}
	}
	return doc, nil
}

// openReader opens the document for glyph extraction. The reader panics on
// some malformed input, which is reported as EINVALID.
func openReader(data []byte) (r *pdf.Reader, err error) {
	defer func() {
		if v := recover(); v != nil {
			r, err = nil, s1000d.Errorf(s1000d.EINVALID, "unreadable PDF: %v", v)
		}
	}()
	r, err = pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, s1000d.Errorf(s1000d.EINVALID, "unreadable PDF: %v", err)
	}
	return r, nil
}

// pageText returns the positioned glyphs of a page in content stream order.
// Fonts are resolved per page, so glyph font names are the real BaseFont
// names with any subset prefix removed.
func pageText(r *pdf.Reader, pageNr int) (glyphs []pdf.Text, err error) {
	defer func() {
		if v := recover(); v != nil {
			glyphs, err = nil, s1000d.Errorf(s1000d.EINVALID, "page %d: malformed content: %v", pageNr, v)
		}
	}()
	page := r.Page(pageNr)
	if page.V.IsNull() {
		return nil, nil
	}
	return page.Content().Text, nil
}

// hasImages reports whether the document contains image XObjects.
func hasImages(pc *model.Context) bool {
	if pc.Optimize != nil {
		for pageNr := 1; pageNr <= pc.PageCount; pageNr++ {
			if len(pdfcpu.ImageObjNrs(pc, pageNr)) > 0 {
				return true
			}
		}
	}
	for _, entry := range pc.Table {
		if entry == nil || entry.Free {
			continue
		}
		sd, ok := entry.Object.(types.StreamDict)
		if !ok {
			continue
		}
		if subtype, found := sd.Find("Subtype"); found {
			if name, isName := subtype.(types.Name); isName && name == "Image" {
				return true
			}
		}
	}
	return false
}
