package s1000d

import (
	"io"
	"time"
)

// Element names used in the assembled tree.
const (
	TagModule  = "dmodule"
	TagSection = "levelledPara"
	TagPara    = "para"
)

// ModuleNode is a node of the assembled data module tree. Each node owns its
// children exclusively; the tree has no back references.
type ModuleNode struct {
	Tag string `json:"tag"`

	// Title is set on the root and on sections.
	Title string `json:"title,omitempty"`

	// Text is set on leaf paragraphs only.
	Text string `json:"text,omitempty"`

	// Page is the zero-based page the node's first block came from.
	Page int `json:"page"`

	Children []*ModuleNode `json:"children,omitempty"`
}

// NewModuleNode returns the empty root of a data module.
func NewModuleNode() *ModuleNode {
	return &ModuleNode{Tag: TagModule}
}

// Append attaches child as the last child of n and returns child.
func (n *ModuleNode) Append(child *ModuleNode) *ModuleNode {
	n.Children = append(n.Children, child)
	return child
}

// LastChild returns the last child of n, or nil.
func (n *ModuleNode) LastChild() *ModuleNode {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[len(n.Children)-1]
}

// Walk visits n and its descendants in document order. depth is 0 for n.
// Returning false from fn skips the node's children.
func (n *ModuleNode) Walk(fn func(node *ModuleNode, depth int) bool) {
	n.walk(fn, 0)
}

func (n *ModuleNode) walk(fn func(*ModuleNode, int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}

// NodeCount returns the number of section and paragraph nodes below n.
func (n *ModuleNode) NodeCount() int {
	var count int
	n.Walk(func(node *ModuleNode, _ int) bool {
		if node.Tag == TagSection || node.Tag == TagPara {
			count++
		}
		return true
	})
	return count
}

// ParaCount returns the number of paragraph leaves below n.
func (n *ModuleNode) ParaCount() int {
	var count int
	n.Walk(func(node *ModuleNode, _ int) bool {
		if node.Tag == TagPara {
			count++
		}
		return true
	})
	return count
}

// Mode selects how the assembler groups paragraphs.
type Mode string

// Mode constants.
const (
	// ModeSmart merges adjacent paragraphs that are not separated by a
	// blank line or page break.
	ModeSmart Mode = "smart"

	// ModeFull maps every classified block to exactly one node.
	ModeFull Mode = "full"
)

// ParseMode validates a mode string. An empty string selects ModeSmart.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeSmart:
		return ModeSmart, nil
	case ModeFull:
		return ModeFull, nil
	}
	return "", Errorf(EINVALID, "unknown mode %q: must be %q or %q", s, ModeSmart, ModeFull)
}

// ModuleInfo carries metadata detected from the document content.
type ModuleInfo struct {
	Type          ModuleType `json:"type"`
	SystemCode    string     `json:"systemCode"`
	Applicability string     `json:"applicability"`
	HasGraphics   bool       `json:"hasGraphics"`
	PageCount     int        `json:"pageCount"`
	BlockCount    int        `json:"blockCount"`
}

// ExtractionResult is the terminal output of one pipeline run.
type ExtractionResult struct {
	Root      *ModuleNode `json:"root"`
	Mode      Mode        `json:"mode"`
	Source    string      `json:"source"`
	CreatedAt time.Time   `json:"createdAt"`
	Info      ModuleInfo  `json:"info"`
}

// Assembler builds a data module tree from classified blocks.
type Assembler interface {
	// Assemble never fails: malformed heading sequences are absorbed.
	Assemble(blocks []ClassifiedBlock, mode Mode) *ExtractionResult
}

// Serializer renders an extraction result as an XML document.
type Serializer interface {
	// Serialize returns EINTERNAL if the tree violates its own invariants.
	Serialize(w io.Writer, res *ExtractionResult) error
}

// Parser reads a serialized data module back into an extraction result.
type Parser interface {
	Parse(r io.Reader) (*ExtractionResult, error)
}

// Exporter renders an extraction result in a human-readable format.
type Exporter interface {
	Export(res *ExtractionResult) (string, error)
}
