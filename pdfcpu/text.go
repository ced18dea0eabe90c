package pdfcpu

import (
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/fwojciec/s1000d"
	"github.com/ledongthuc/pdf"
)

// wordSpace is the horizontal distance, as a multiple of the font size,
// beyond which two glyphs on one baseline are separated by a space.
const wordSpace = 0.2

var boldRe = regexp.MustCompile(`(?i)bold|black|heavy|demi|[-,]b$`)

// boldName reports whether a font name denotes a bold face.
func boldName(name string) bool {
	return boldRe.MatchString(name)
}

// line is one visual line of text being collected.
type line struct {
	text  strings.Builder
	y     float64
	size  float64
	bold  int
	glyph int
	endX  float64
}

// Lines groups positioned glyphs, in content stream order, into one block
// per visual line. A new line starts when the baseline moves by more than
// half the font size. Blocks carry page but no Position.
func Lines(glyphs []pdf.Text, page int, opts Options) []s1000d.TextBlock {
	opts = opts.withDefaults()

	var (
		blocks []s1000d.TextBlock
		cur    *line
		prevY  float64
		prevSz float64
	)
	flush := func() {
		if cur == nil {
			return
		}
		l := cur
		cur = nil
		text := cleanText(l.text.String())
		if text == "" {
			return
		}

		gap := len(blocks) == 0
		if len(blocks) > 0 {
			size := math.Max(prevSz, l.size)
			advance := prevY - l.y
			if advance > opts.GapRatio*size || advance < -size {
				gap = true
			}
		}
		prevY, prevSz = l.y, l.size

		blocks = append(blocks, s1000d.TextBlock{
			Text:      text,
			Page:      page,
			FontSize:  math.Round(l.size*100) / 100,
			Bold:      l.glyph > 0 && 2*l.bold > l.glyph,
			GapBefore: gap,
		})
	}

	for _, g := range glyphs {
		if g.S == "" || g.S == "\n" || g.S == string(unicode.ReplacementChar) {
			continue
		}
		size := math.Abs(g.FontSize)

		if cur != nil && math.Abs(g.Y-cur.y) > math.Max(size, cur.size)/2 {
			flush()
		}
		if cur == nil {
			cur = &line{y: g.Y, endX: g.X}
		} else if g.X-cur.endX > wordSpace*math.Max(size, cur.size) && !strings.HasSuffix(cur.text.String(), " ") {
			cur.text.WriteByte(' ')
		}
		cur.text.WriteString(g.S)
		cur.size = math.Max(cur.size, size)
		cur.endX = math.Max(cur.endX, g.X+g.W)
		if strings.TrimSpace(g.S) != "" {
			cur.glyph++
			if boldName(g.Font) {
				cur.bold++
			}
		}
	}
	flush()
	return blocks
}

// cleanText collapses whitespace runs and drops control characters.
func cleanText(s string) string {
	var b strings.Builder
	space := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			space = b.Len() > 0
		case unicode.IsPrint(r):
			if space {
				b.WriteByte(' ')
				space = false
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}
