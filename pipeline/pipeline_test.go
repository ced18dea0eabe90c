package pipeline_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/s1000d"
	"github.com/fwojciec/s1000d/assemble"
	"github.com/fwojciec/s1000d/classify"
	"github.com/fwojciec/s1000d/etree"
	"github.com/fwojciec/s1000d/mock"
	"github.com/fwojciec/s1000d/pipeline"
	"github.com/fwojciec/s1000d/plaintext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const manual = `CHAPTER 1 HYDRAULIC SYSTEM

1 Overview
This manual describes the hydraulic system
of all models.

1.1 Scope
Applies to pumps.
Applies to valves.
`

func newPipeline(writers ...s1000d.ModuleWriter) *pipeline.Pipeline {
	a := assemble.NewAssembler()
	a.Now = func() time.Time { return time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC) }
	return &pipeline.Pipeline{
		Loaders: map[s1000d.Format]s1000d.Loader{
			s1000d.FormatText: plaintext.NewLoader(),
		},
		Classifier: classify.NewClassifier(classify.Config{}),
		Assembler:  a,
		Serializer: etree.NewSerializer(),
		Writers:    writers,
	}
}

func upload(mode s1000d.Mode) *s1000d.Upload {
	return &s1000d.Upload{
		Filename:    "hydraulics.txt",
		ContentType: "text/plain",
		Data:        []byte(manual),
		Mode:        mode,
	}
}

func TestPipeline_Convert(t *testing.T) {
	t.Parallel()

	t.Run("converts a text upload end to end", func(t *testing.T) {
		t.Parallel()

		var stored []*s1000d.Module
		w := &mock.ModuleWriter{
			CreateModuleFn: func(_ context.Context, m *s1000d.Module) error {
				stored = append(stored, m)
				return nil
			},
		}

		m, err := newPipeline(w).Convert(context.Background(), upload(s1000d.ModeSmart))
		require.NoError(t, err)

		assert.NotEmpty(t, m.ID)
		assert.Equal(t, "CHAPTER 1 HYDRAULIC SYSTEM", m.Title)
		assert.Equal(t, "hydraulics.txt", m.SourceName)
		assert.NotEmpty(t, m.SourceHash)
		assert.Equal(t, s1000d.ModeSmart, m.Mode)
		assert.Equal(t, s1000d.ModuleHydraulic, m.Type)
		assert.Equal(t, "HY008", m.SystemCode)
		assert.Equal(t, 1, m.PageCount)
		assert.Equal(t, 7, m.BlockCount)
		assert.Equal(t, time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC), m.CreatedAt)
		assert.Contains(t, m.XML, "<techName>CHAPTER 1 HYDRAULIC SYSTEM</techName>")
		assert.Contains(t, m.XML, "<para>This manual describes the hydraulic system of all models.</para>")
		assert.Contains(t, m.XML, "source: hydraulics.txt")
		require.Len(t, stored, 1)
		assert.Same(t, m, stored[0])

		parsed, err := etree.NewParser().Parse(strings.NewReader(m.XML))
		require.NoError(t, err)
		assert.Equal(t, m.NodeCount, parsed.Root.NodeCount())
		assert.Equal(t, "All Models", parsed.Info.Applicability)
	})

	t.Run("keeps every line in full mode", func(t *testing.T) {
		t.Parallel()

		smart, err := newPipeline().Convert(context.Background(), upload(s1000d.ModeSmart))
		require.NoError(t, err)
		full, err := newPipeline().Convert(context.Background(), upload(s1000d.ModeFull))
		require.NoError(t, err)

		assert.Equal(t, s1000d.ModeFull, full.Mode)
		assert.Equal(t, 6, full.NodeCount)
		assert.Less(t, smart.NodeCount, full.NodeCount)
		assert.Equal(t, smart.SourceHash, full.SourceHash)
		assert.NotEqual(t, smart.ID, full.ID)
	})

	t.Run("defaults empty mode to smart", func(t *testing.T) {
		t.Parallel()

		m, err := newPipeline().Convert(context.Background(), upload(""))
		require.NoError(t, err)

		assert.Equal(t, s1000d.ModeSmart, m.Mode)
	})

	t.Run("rejects invalid uploads", func(t *testing.T) {
		t.Parallel()

		p := newPipeline()
		ctx := context.Background()

		_, err := p.Convert(ctx, &s1000d.Upload{Data: []byte("x")})
		assert.Equal(t, s1000d.EINVALID, s1000d.ErrorCode(err))

		_, err = p.Convert(ctx, &s1000d.Upload{Filename: "empty.pdf"})
		assert.Equal(t, s1000d.EINVALID, s1000d.ErrorCode(err))

		up := upload("verbose")
		_, err = p.Convert(ctx, up)
		assert.Equal(t, s1000d.EINVALID, s1000d.ErrorCode(err))
	})

	t.Run("rejects unsupported formats", func(t *testing.T) {
		t.Parallel()

		_, err := newPipeline().Convert(context.Background(), &s1000d.Upload{
			Filename:    "drawing.dwg",
			ContentType: "application/octet-stream",
			Data:        []byte{0x41, 0x43, 0x31, 0x30},
		})

		assert.Equal(t, s1000d.EINVALID, s1000d.ErrorCode(err))
	})

	t.Run("rejects formats without a loader", func(t *testing.T) {
		t.Parallel()

		_, err := newPipeline().Convert(context.Background(), &s1000d.Upload{
			Filename: "manual.pdf",
			Data:     []byte("%PDF-1.4 ..."),
		})

		assert.Equal(t, s1000d.EINVALID, s1000d.ErrorCode(err))
		assert.Contains(t, s1000d.ErrorMessage(err), "manual.pdf")
	})

	t.Run("stops before classification when loading fails", func(t *testing.T) {
		t.Parallel()

		p := &pipeline.Pipeline{
			Loaders: map[s1000d.Format]s1000d.Loader{
				s1000d.FormatPDF: &mock.Loader{
					LoadFn: func(context.Context, io.Reader) (*s1000d.Document, error) {
						return nil, s1000d.Errorf(s1000d.EINVALID, "unreadable PDF")
					},
				},
			},
			Classifier: &mock.Classifier{
				ClassifyFn: func([]s1000d.TextBlock) []s1000d.ClassifiedBlock {
					t.Fatal("classifier must not run")
					return nil
				},
			},
		}

		_, err := p.Convert(context.Background(), &s1000d.Upload{Filename: "bad.pdf", Data: []byte("%PDF-junk")})

		assert.Equal(t, s1000d.EINVALID, s1000d.ErrorCode(err))
		assert.Equal(t, "unreadable PDF", s1000d.ErrorMessage(err))
	})

	t.Run("uses loader metadata", func(t *testing.T) {
		t.Parallel()

		p := newPipeline()
		p.Loaders[s1000d.FormatPDF] = &mock.Loader{
			LoadFn: func(context.Context, io.Reader) (*s1000d.Document, error) {
				return &s1000d.Document{
					Blocks:    []s1000d.TextBlock{{Text: "Some body text without a heading."}},
					PageCount: 4,
					Title:     "Radar Operations",
					HasImages: true,
				}, nil
			},
		}

		m, err := p.Convert(context.Background(), &s1000d.Upload{Filename: "radar.pdf", Data: []byte("%PDF-1.7")})
		require.NoError(t, err)

		assert.Equal(t, "Radar Operations", m.Title)
		assert.Equal(t, s1000d.ModuleRadar, m.Type)
		assert.Equal(t, 4, m.PageCount)
		assert.True(t, m.HasGraphics)
		assert.Contains(t, m.XML, `systemCode="RD"`)
	})

	t.Run("passes the parsed mode to the assembler", func(t *testing.T) {
		t.Parallel()

		var got s1000d.Mode
		p := newPipeline()
		p.Assembler = &mock.Assembler{
			AssembleFn: func(blocks []s1000d.ClassifiedBlock, mode s1000d.Mode) *s1000d.ExtractionResult {
				got = mode
				root := s1000d.NewModuleNode()
				root.Append(&s1000d.ModuleNode{Tag: s1000d.TagPara, Text: blocks[0].Text})
				return &s1000d.ExtractionResult{Root: root, Mode: mode}
			},
		}

		m, err := p.Convert(context.Background(), upload(s1000d.ModeFull))
		require.NoError(t, err)

		assert.Equal(t, s1000d.ModeFull, got)
		assert.Equal(t, 1, m.NodeCount)
		assert.Equal(t, "hydraulics", m.Title)
	})

	t.Run("returns serializer failures", func(t *testing.T) {
		t.Parallel()

		p := newPipeline()
		p.Serializer = &mock.Serializer{
			SerializeFn: func(io.Writer, *s1000d.ExtractionResult) error {
				return s1000d.Errorf(s1000d.EINTERNAL, "paragraph has children")
			},
		}

		_, err := p.Convert(context.Background(), upload(s1000d.ModeSmart))

		assert.Equal(t, s1000d.EINTERNAL, s1000d.ErrorCode(err))
	})

	t.Run("wraps writer failures", func(t *testing.T) {
		t.Parallel()

		w := &mock.ModuleWriter{
			CreateModuleFn: func(context.Context, *s1000d.Module) error {
				return errors.New("disk full")
			},
		}

		_, err := newPipeline(w).Convert(context.Background(), upload(s1000d.ModeSmart))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
	})

	t.Run("rolls back earlier writers when a later writer fails", func(t *testing.T) {
		t.Parallel()

		var stored, deleted string
		history := &mock.ModuleService{
			CreateModuleFn: func(_ context.Context, m *s1000d.Module) error {
				stored = m.ID
				return nil
			},
			DeleteModuleFn: func(_ context.Context, id string) error {
				deleted = id
				return nil
			},
		}
		mirror := &mock.ModuleWriter{
			CreateModuleFn: func(context.Context, *s1000d.Module) error {
				return errors.New("disk full")
			},
		}

		_, err := newPipeline(history, mirror).Convert(context.Background(), upload(s1000d.ModeSmart))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
		require.NotEmpty(t, stored)
		assert.Equal(t, stored, deleted)
	})

	t.Run("reports failed rollbacks", func(t *testing.T) {
		t.Parallel()

		history := &mock.ModuleService{
			CreateModuleFn: func(context.Context, *s1000d.Module) error { return nil },
			DeleteModuleFn: func(context.Context, string) error { return errors.New("database locked") },
		}
		mirror := &mock.ModuleWriter{
			CreateModuleFn: func(context.Context, *s1000d.Module) error {
				return errors.New("disk full")
			},
		}

		_, err := newPipeline(history, mirror).Convert(context.Background(), upload(s1000d.ModeSmart))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
		assert.Contains(t, err.Error(), "database locked")
	})

	t.Run("does not touch later writers after a failure", func(t *testing.T) {
		t.Parallel()

		failing := &mock.ModuleWriter{
			CreateModuleFn: func(context.Context, *s1000d.Module) error {
				return errors.New("disk full")
			},
		}
		history := &mock.ModuleService{
			CreateModuleFn: func(context.Context, *s1000d.Module) error {
				t.Error("unexpected CreateModule after failure")
				return nil
			},
			DeleteModuleFn: func(context.Context, string) error {
				t.Error("unexpected DeleteModule after failure")
				return nil
			},
		}

		_, err := newPipeline(failing, history).Convert(context.Background(), upload(s1000d.ModeSmart))

		require.Error(t, err)
	})
}
