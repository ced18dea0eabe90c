// Package assemble builds data module trees from classified text blocks.
package assemble

import (
	"strings"
	"time"

	"github.com/fwojciec/s1000d"
)

// Ensure Assembler implements s1000d.Assembler at compile time.
var _ s1000d.Assembler = (*Assembler)(nil)

// Assembler nests sections by heading level and attaches paragraphs to the
// deepest open section.
type Assembler struct {
	// Now returns the creation timestamp. Defaults to time.Now.
	Now func() time.Time
}

// NewAssembler creates a new Assembler.
func NewAssembler() *Assembler {
	return &Assembler{Now: time.Now}
}

// Assemble builds the tree for blocks. Heading levels deeper than the
// current depth allows are attached one level below the deepest open
// section; the assembler never fails.
func (a *Assembler) Assemble(blocks []s1000d.ClassifiedBlock, mode s1000d.Mode) *s1000d.ExtractionResult {
	if mode != s1000d.ModeFull {
		mode = s1000d.ModeSmart
	}

	root := s1000d.NewModuleNode()
	b := &builder{
		mode:  mode,
		stack: []*s1000d.ModuleNode{root},
	}
	for _, blk := range blocks {
		b.add(blk)
	}

	now := time.Now
	if a.Now != nil {
		now = a.Now
	}

	info := s1000d.DetectModuleInfo(root)
	info.BlockCount = len(blocks)
	info.PageCount = pageCount(blocks)

	return &s1000d.ExtractionResult{
		Root:      root,
		Mode:      mode,
		CreatedAt: now().UTC(),
		Info:      info,
	}
}

// builder holds the state of one assembly run.
type builder struct {
	mode  s1000d.Mode
	stack []*s1000d.ModuleNode

	// lastPara is the paragraph the previous block was written to, nil when
	// the previous block was anything but a paragraph.
	lastPara *s1000d.ModuleNode
	lastPage int
}

func (b *builder) root() *s1000d.ModuleNode {
	return b.stack[0]
}

func (b *builder) top() *s1000d.ModuleNode {
	return b.stack[len(b.stack)-1]
}

func (b *builder) add(blk s1000d.ClassifiedBlock) {
	text := strings.TrimSpace(blk.Text)

	switch blk.Role {
	case s1000d.RoleTitle:
		if b.root().Title == "" && text != "" {
			b.root().Title = text
			b.root().Page = blk.Page
			b.lastPara = nil
			return
		}
		b.openSection(1, text, blk.Page)

	case s1000d.RoleHeading:
		b.openSection(blk.Level, text, blk.Page)

	case s1000d.RoleParagraph:
		b.addPara(blk, text)

	default:
		// Blank blocks are dropped; they still separate paragraphs.
		b.lastPara = nil
	}
}

// openSection closes sections until the stack depth is level-1 and opens
// a new section at level. Levels deeper than depth+1 are clamped.
func (b *builder) openSection(level int, title string, page int) {
	depth := len(b.stack) - 1
	level = min(max(level, 1), depth+1)

	b.stack = b.stack[:level]
	section := b.top().Append(&s1000d.ModuleNode{
		Tag:   s1000d.TagSection,
		Title: title,
		Page:  page,
	})
	b.stack = append(b.stack, section)
	b.lastPara = nil
}

func (b *builder) addPara(blk s1000d.ClassifiedBlock, text string) {
	if text == "" {
		b.lastPara = nil
		return
	}

	if b.mode == s1000d.ModeSmart && b.lastPara != nil && b.lastPara == b.top().LastChild() &&
		!blk.GapBefore && blk.Page == b.lastPage {
		b.lastPara.Text += " " + text
		return
	}

	b.lastPara = b.top().Append(&s1000d.ModuleNode{
		Tag:  s1000d.TagPara,
		Text: text,
		Page: blk.Page,
	})
	b.lastPage = blk.Page
}

func pageCount(blocks []s1000d.ClassifiedBlock) int {
	if len(blocks) == 0 {
		return 0
	}
	last := 0
	for _, b := range blocks {
		last = max(last, b.Page)
	}
	return last + 1
}
