package mock

import (
	"io"

	"github.com/fwojciec/s1000d"
)

var (
	_ s1000d.Serializer = (*Serializer)(nil)
	_ s1000d.Parser     = (*Parser)(nil)
	_ s1000d.Exporter   = (*Exporter)(nil)
)

// Serializer is a mock implementation of s1000d.Serializer.
type Serializer struct {
	SerializeFn func(w io.Writer, res *s1000d.ExtractionResult) error
}

func (s *Serializer) Serialize(w io.Writer, res *s1000d.ExtractionResult) error {
	return s.SerializeFn(w, res)
}

// Parser is a mock implementation of s1000d.Parser.
type Parser struct {
	ParseFn func(r io.Reader) (*s1000d.ExtractionResult, error)
}

func (p *Parser) Parse(r io.Reader) (*s1000d.ExtractionResult, error) {
	return p.ParseFn(r)
}

// Exporter is a mock implementation of s1000d.Exporter.
type Exporter struct {
	ExportFn func(res *s1000d.ExtractionResult) (string, error)
}

func (e *Exporter) Export(res *s1000d.ExtractionResult) (string, error) {
	return e.ExportFn(res)
}
