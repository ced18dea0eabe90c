package s1000d

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
)

// TextBlock is one unit of text extracted from a source document, usually a
// single visual line.
type TextBlock struct {
	Text string `json:"text"`

	// Page is the zero-based page index.
	Page int `json:"page"`

	// FontSize is the effective font size in points. Zero means the loader
	// had no style metadata (e.g. plain text input).
	FontSize float64 `json:"fontSize,omitempty"`

	// Position is the ordinal of the block within the document.
	Position int `json:"position"`

	Bold bool `json:"bold,omitempty"`

	// GapBefore reports a separating signal (blank line, large vertical
	// gap or page break) between this block and the previous one.
	GapBefore bool `json:"gapBefore,omitempty"`
}

// IsBlank reports whether the block carries no visible text.
func (b TextBlock) IsBlank() bool {
	return strings.TrimSpace(b.Text) == ""
}

// Role is the closed set of roles a classified block can take.
type Role int

// Role constants.
const (
	RoleUnclassified Role = iota
	RoleTitle
	RoleHeading
	RoleParagraph
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RoleTitle:
		return "title"
	case RoleHeading:
		return "heading"
	case RoleParagraph:
		return "paragraph"
	default:
		return "unclassified"
	}
}

// ClassifiedBlock is a TextBlock annotated with its role.
type ClassifiedBlock struct {
	TextBlock

	Role Role `json:"role"`

	// Level is the heading nesting depth, starting at 1. Zero for every
	// role other than RoleHeading.
	Level int `json:"level,omitempty"`
}

// Document is a loaded source document.
type Document struct {
	// Blocks are in reading order with ascending Position.
	Blocks []TextBlock

	PageCount int

	// Title is the title recorded in the document metadata, if any.
	Title string

	// HasImages reports embedded raster images.
	HasImages bool
}

// Loader turns a source document into an ordered sequence of text blocks.
type Loader interface {
	// Load reads the whole document from r.
	// Returns EINVALID if the input is unreadable or not of the expected format.
	Load(ctx context.Context, r io.Reader) (*Document, error)
}

// Classifier assigns a role to every text block.
type Classifier interface {
	// Classify returns exactly one ClassifiedBlock per input block, in order.
	Classify(blocks []TextBlock) []ClassifiedBlock
}

// Format identifies an upload format.
type Format string

// Format constants.
const (
	FormatUnknown Format = ""
	FormatPDF     Format = "pdf"
	FormatText    Format = "text"
)

var pdfMagic = []byte("%PDF-")

// DetectFormat guesses the format of an upload from its content, file name
// and declared content type. The PDF magic header wins over everything else.
func DetectFormat(filename, contentType string, head []byte) Format {
	if bytes.HasPrefix(bytes.TrimLeft(head, "\x00\t\r\n "), pdfMagic) {
		return FormatPDF
	}

	ext := strings.ToLower(filepath.Ext(filename))
	ct := strings.ToLower(contentType)
	switch {
	case ext == ".pdf" || strings.Contains(ct, "pdf"):
		return FormatPDF
	case ext == ".txt" || ext == ".text" || strings.HasPrefix(ct, "text/plain"):
		return FormatText
	}
	return FormatUnknown
}
