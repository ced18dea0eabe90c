// Package classify detects titles, headings and paragraphs among extracted
// text blocks using font size and textual patterns.
package classify

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fwojciec/s1000d"
)

// Ensure Classifier implements s1000d.Classifier at compile time.
var _ s1000d.Classifier = (*Classifier)(nil)

var (
	// numberedRe matches "1 Scope", "2. Overview", "4.1.2 Removal".
	numberedRe = regexp.MustCompile(`^(\d+(?:\.\d+)*)\.?\s+\p{Lu}`)

	// divisionRe matches "CHAPTER 3", "Section 2", "PART IV".
	divisionRe = regexp.MustCompile(`(?i)^(?:chapter|section|part)\s+(?:\d+|[ivxlc]+)\b`)
)

// Classifier scores every block against the document's body-text baseline
// and a set of heading patterns.
type Classifier struct {
	cfg      Config
	keywords map[string]bool
}

// NewClassifier creates a Classifier. Zero fields of cfg take their defaults.
func NewClassifier(cfg Config) *Classifier {
	cfg.defaults()
	keywords := make(map[string]bool, len(cfg.Keywords))
	for _, kw := range cfg.Keywords {
		keywords[strings.ToUpper(strings.TrimSpace(kw))] = true
	}
	return &Classifier{cfg: cfg, keywords: keywords}
}

// Config returns the effective configuration.
func (c *Classifier) Config() Config {
	return c.cfg
}

// Classify returns one ClassifiedBlock per input block, in input order.
func (c *Classifier) Classify(blocks []s1000d.TextBlock) []s1000d.ClassifiedBlock {
	out := make([]s1000d.ClassifiedBlock, len(blocks))
	if len(blocks) == 0 {
		return out
	}

	baseline := c.Baseline(blocks)
	largest := largestSize(blocks)

	first := true
	for i, b := range blocks {
		out[i] = s1000d.ClassifiedBlock{TextBlock: b}
		if b.IsBlank() {
			out[i].Role = s1000d.RoleUnclassified
			continue
		}

		score := c.Score(b, baseline)
		titleScore := score
		if b.FontSize > 0 && b.FontSize >= largest && b.FontSize > baseline {
			titleScore++
		}

		switch {
		case first && titleScore >= c.cfg.TitleThreshold:
			out[i].Role = s1000d.RoleTitle
		case score >= c.cfg.HeadingThreshold:
			out[i].Role = s1000d.RoleHeading
		default:
			out[i].Role = s1000d.RoleParagraph
		}
		first = false
	}

	c.assignLevels(out, baseline)
	return out
}

// Baseline returns the body-text font size: the character-weighted mode of
// all known font sizes, preferring the smaller size on ties. Returns 0 when
// no block carries a font size.
func (c *Classifier) Baseline(blocks []s1000d.TextBlock) float64 {
	weights := make(map[int]int)
	for _, b := range blocks {
		if b.FontSize <= 0 || b.IsBlank() {
			continue
		}
		weights[c.bucket(b.FontSize)] += utf8.RuneCountInString(strings.TrimSpace(b.Text))
	}
	if len(weights) == 0 {
		return 0
	}

	best, bestWeight := 0, -1
	for k, w := range weights {
		if w > bestWeight || (w == bestWeight && k < best) {
			best, bestWeight = k, w
		}
	}
	return float64(best) * c.cfg.SizeTolerance
}

// Score returns the heading score of a single block against baseline.
// A zero baseline disables the font size signals.
func (c *Classifier) Score(b s1000d.TextBlock, baseline float64) int {
	text := strings.TrimSpace(b.Text)
	length := utf8.RuneCountInString(text)
	if length == 0 || length > c.cfg.MaxHeadingLength {
		return 0
	}

	var score int
	if baseline > 0 && b.FontSize > 0 && b.FontSize >= baseline*c.cfg.SizeRatio {
		score += 2
	}
	if b.Bold && (b.FontSize <= 0 || baseline <= 0 || b.FontSize >= baseline) {
		score++
	}
	if numberedRe.MatchString(text) {
		score += 2
	}
	if divisionRe.MatchString(text) {
		score += 2
	}
	if c.keywords[strings.ToUpper(text)] {
		score += 2
	}
	if length > 3 && length <= c.cfg.MaxCapsLength && isAllCaps(text) {
		score++
	}
	if strings.HasSuffix(text, ".") || strings.HasSuffix(text, ";") || strings.HasSuffix(text, ",") {
		score--
	}
	return score
}

// assignLevels sets Level on every heading. Heading font sizes above the
// baseline are ranked from largest (level 1) down; headings without a
// ranked size fall back to their numbering depth.
func (c *Classifier) assignLevels(out []s1000d.ClassifiedBlock, baseline float64) {
	ranks := c.rankSizes(out, baseline)

	prev := 0
	for i := range out {
		if out[i].Role != s1000d.RoleHeading {
			continue
		}

		level := c.patternLevel(out[i].Text, len(ranks))
		if c.isHeadingSize(out[i].FontSize, baseline) {
			level = max(ranks[c.bucket(out[i].FontSize)], numberingDepth(out[i].Text))
		}
		level = min(max(level, 1), c.cfg.MaxLevels)

		if !c.cfg.AllowLevelSkip && level > prev+1 {
			level = prev + 1
		}
		out[i].Level = level
		prev = level
	}
}

// rankSizes maps every distinct heading size bucket to its level.
func (c *Classifier) rankSizes(out []s1000d.ClassifiedBlock, baseline float64) map[int]int {
	seen := make(map[int]bool)
	var buckets []int
	for _, b := range out {
		if b.Role != s1000d.RoleHeading || !c.isHeadingSize(b.FontSize, baseline) {
			continue
		}
		k := c.bucket(b.FontSize)
		if !seen[k] {
			seen[k] = true
			buckets = append(buckets, k)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(buckets)))

	ranks := make(map[int]int, len(buckets))
	for i, k := range buckets {
		ranks[k] = i + 1
	}
	return ranks
}

// patternLevel derives a level from the heading text alone. sized is the
// number of levels already taken by font sizes.
func (c *Classifier) patternLevel(text string, sized int) int {
	text = strings.TrimSpace(text)
	if depth := numberingDepth(text); depth > 0 {
		return depth
	}
	if divisionRe.MatchString(text) {
		return 1
	}
	return sized + 1
}

func (c *Classifier) isHeadingSize(size, baseline float64) bool {
	return baseline > 0 && size > 0 && size >= baseline*c.cfg.SizeRatio
}

func (c *Classifier) bucket(size float64) int {
	return int(math.Round(size / c.cfg.SizeTolerance))
}

// numberingDepth returns 2 for "2.1 Scope" and 0 for unnumbered text.
func numberingDepth(text string) int {
	m := numberedRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return 0
	}
	return strings.Count(m[1], ".") + 1
}

func largestSize(blocks []s1000d.TextBlock) float64 {
	var largest float64
	for _, b := range blocks {
		if !b.IsBlank() && b.FontSize > largest {
			largest = b.FontSize
		}
	}
	return largest
}

// isAllCaps reports whether text has letters and none of them is lower case.
func isAllCaps(text string) bool {
	var letters bool
	for _, r := range text {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			letters = true
		}
	}
	return letters
}
