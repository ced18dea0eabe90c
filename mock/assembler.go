package mock

import "github.com/fwojciec/s1000d"

var _ s1000d.Assembler = (*Assembler)(nil)

// Assembler is a mock implementation of s1000d.Assembler.
type Assembler struct {
	AssembleFn func(blocks []s1000d.ClassifiedBlock, mode s1000d.Mode) *s1000d.ExtractionResult
}

func (a *Assembler) Assemble(blocks []s1000d.ClassifiedBlock, mode s1000d.Mode) *s1000d.ExtractionResult {
	return a.AssembleFn(blocks, mode)
}
