// Package plaintext loads text blocks from plain UTF-8 text documents.
package plaintext

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/s1000d"
)

// Ensure Loader implements s1000d.Loader at compile time.
var _ s1000d.Loader = (*Loader)(nil)

// maxLineSize bounds a single input line.
const maxLineSize = 1 << 20

// pageMarkerRe matches page markers such as "[PAGE_3]" on a line of their own.
var pageMarkerRe = regexp.MustCompile(`^\[PAGE_(\d+)\]$`)

// Loader reads one block per non-empty line. Blank lines set GapBefore on
// the next block; form feeds and page markers start a new page. Blocks carry
// no font metadata.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads a text document from r.
// Returns EINVALID if r is not valid UTF-8 text.
func (l *Loader) Load(ctx context.Context, r io.Reader) (*s1000d.Document, error) {
	doc := &s1000d.Document{}
	page := 0
	gap := true
	used := false

	// newPage starts the next page unless the current one is still empty.
	// marker is the 1-based number of an explicit page marker, or 0.
	newPage := func(marker int) {
		if used {
			page++
			used = false
		}
		if len(doc.Blocks) > 0 {
			page = max(page, marker-1)
		}
		gap = true
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineSize)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		raw := sc.Bytes()
		if !utf8.Valid(raw) || bytes.IndexByte(raw, 0) >= 0 {
			return nil, s1000d.Errorf(s1000d.EINVALID, "upload is not UTF-8 text")
		}

		for i, part := range strings.Split(string(raw), "\f") {
			if i > 0 {
				newPage(0)
			}
			text := strings.TrimSpace(strings.TrimPrefix(part, "\ufeff"))
			if m := pageMarkerRe.FindStringSubmatch(text); m != nil {
				n, _ := strconv.Atoi(m[1])
				newPage(n)
				continue
			}
			if text == "" {
				gap = true
				continue
			}
			doc.Blocks = append(doc.Blocks, s1000d.TextBlock{
				Text:      text,
				Page:      page,
				Position:  len(doc.Blocks),
				GapBefore: gap,
			})
			gap = false
			used = true
		}
	}
	if err := sc.Err(); err != nil {
		return nil, s1000d.Errorf(s1000d.EINVALID, "read upload: %v", err)
	}

	if len(doc.Blocks) > 0 {
		doc.PageCount = doc.Blocks[len(doc.Blocks)-1].Page + 1
	}
	return doc, nil
}
