package classify_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/s1000d"
	"github.com/fwojciec/s1000d/classify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Classifier implements s1000d.Classifier at compile time.
var _ s1000d.Classifier = (*classify.Classifier)(nil)

func block(text string, size float64) s1000d.TextBlock {
	return s1000d.TextBlock{Text: text, FontSize: size}
}

func TestClassifier_Classify(t *testing.T) {
	t.Parallel()

	t.Run("returns empty output for empty input", func(t *testing.T) {
		t.Parallel()

		c := classify.NewClassifier(classify.Config{})
		out := c.Classify(nil)

		assert.Empty(t, out)
	})

	t.Run("preserves length and order", func(t *testing.T) {
		t.Parallel()

		blocks := []s1000d.TextBlock{
			block("Engine Manual", 24),
			block("", 11),
			block("Overview", 16),
			block("This manual describes the engine.", 11),
			block("   ", 0),
			block("Scope", 13),
		}

		c := classify.NewClassifier(classify.Config{})
		out := c.Classify(blocks)

		require.Len(t, out, len(blocks))
		for i := range blocks {
			assert.Equal(t, blocks[i], out[i].TextBlock)
		}
	})

	t.Run("uses font size for title and heading levels", func(t *testing.T) {
		t.Parallel()

		blocks := []s1000d.TextBlock{
			block("Engine Manual", 24),
			block("Overview", 16),
			block("This manual describes the engine.", 11),
			block("Scope", 13),
			block("Applies to all engine variants in service.", 11),
		}

		c := classify.NewClassifier(classify.Config{})
		out := c.Classify(blocks)

		assert.Equal(t, s1000d.RoleTitle, out[0].Role)
		assert.Equal(t, s1000d.RoleHeading, out[1].Role)
		assert.Equal(t, 1, out[1].Level)
		assert.Equal(t, s1000d.RoleParagraph, out[2].Role)
		assert.Equal(t, s1000d.RoleHeading, out[3].Role)
		assert.Equal(t, 2, out[3].Level)
		assert.Equal(t, s1000d.RoleParagraph, out[4].Role)
		assert.Zero(t, out[4].Level)
	})

	t.Run("falls back to patterns without font sizes", func(t *testing.T) {
		t.Parallel()

		blocks := []s1000d.TextBlock{
			block("Maintenance manual for the pump assembly, revision A.", 0),
			block("1 Introduction", 0),
			block("1.1 Purpose", 0),
			block("This section explains the purpose of the manual.", 0),
			block("1.1.1.1 Deep Item", 0),
			block("2 Removal", 0),
		}

		c := classify.NewClassifier(classify.Config{})
		out := c.Classify(blocks)

		assert.Equal(t, s1000d.RoleParagraph, out[0].Role)
		assert.Equal(t, s1000d.RoleHeading, out[1].Role)
		assert.Equal(t, 1, out[1].Level)
		assert.Equal(t, 2, out[2].Level)
		assert.Equal(t, s1000d.RoleParagraph, out[3].Role)
		assert.Equal(t, 3, out[4].Level, "level skip is normalized")
		assert.Equal(t, 1, out[5].Level)
	})

	t.Run("keeps level skips when allowed", func(t *testing.T) {
		t.Parallel()

		blocks := []s1000d.TextBlock{
			block("Pump assembly notes.", 0),
			block("1 Introduction", 0),
			block("1.1.1 Detail", 0),
		}

		c := classify.NewClassifier(classify.Config{AllowLevelSkip: true})
		out := c.Classify(blocks)

		assert.Equal(t, 1, out[1].Level)
		assert.Equal(t, 3, out[2].Level)
	})

	t.Run("marks blank blocks unclassified", func(t *testing.T) {
		t.Parallel()

		c := classify.NewClassifier(classify.Config{})
		out := c.Classify([]s1000d.TextBlock{block(" \t ", 11), block("", 0)})

		for _, b := range out {
			assert.Equal(t, s1000d.RoleUnclassified, b.Role)
			assert.Zero(t, b.Level)
		}
	})

	t.Run("detects chapter divisions and keywords", func(t *testing.T) {
		t.Parallel()

		blocks := []s1000d.TextBlock{
			block("Read this manual before starting work.", 0),
			block("CHAPTER 3", 0),
			block("General Information", 0),
		}

		c := classify.NewClassifier(classify.Config{})
		out := c.Classify(blocks)

		assert.Equal(t, s1000d.RoleHeading, out[1].Role)
		assert.Equal(t, 1, out[1].Level)
		assert.Equal(t, s1000d.RoleHeading, out[2].Role)
	})

	t.Run("never treats long text as heading", func(t *testing.T) {
		t.Parallel()

		long := strings.Repeat("Large ", 30)
		blocks := []s1000d.TextBlock{
			block("Body text that sets the baseline for this document.", 11),
			block(long, 20),
		}

		c := classify.NewClassifier(classify.Config{})
		out := c.Classify(blocks)

		assert.Equal(t, s1000d.RoleParagraph, out[1].Role)
	})

	t.Run("needs more than bold to make a heading", func(t *testing.T) {
		t.Parallel()

		blocks := []s1000d.TextBlock{
			{Text: "Torque values are listed below for reference.", FontSize: 11},
			{Text: "Torque values", FontSize: 11, Bold: true},
			{Text: "TORQUE VALUES", FontSize: 11, Bold: true},
		}

		c := classify.NewClassifier(classify.Config{})
		out := c.Classify(blocks)

		assert.Equal(t, s1000d.RoleParagraph, out[1].Role)
		assert.Equal(t, s1000d.RoleHeading, out[2].Role)
		assert.Equal(t, 1, out[2].Level)
	})

	t.Run("never skips more than one level", func(t *testing.T) {
		t.Parallel()

		sizes := []float64{11, 20, 11, 14, 18, 11, 12.7, 20, 16, 11, 14, 11}
		var blocks []s1000d.TextBlock
		for i, size := range sizes {
			text := "Heading"
			if size == 11 {
				text = "Body text for the section that follows the heading above."
			}
			blocks = append(blocks, s1000d.TextBlock{Text: text, FontSize: size, Position: i})
		}

		c := classify.NewClassifier(classify.Config{})
		out := c.Classify(blocks)

		prev := 0
		for _, b := range out {
			if b.Role != s1000d.RoleHeading {
				continue
			}
			assert.LessOrEqual(t, b.Level, prev+1)
			assert.GreaterOrEqual(t, b.Level, 1)
			prev = b.Level
		}
	})
}

func TestClassifier_Baseline(t *testing.T) {
	t.Parallel()

	t.Run("returns character weighted mode", func(t *testing.T) {
		t.Parallel()

		c := classify.NewClassifier(classify.Config{})
		baseline := c.Baseline([]s1000d.TextBlock{
			block("Title", 24),
			block("A long body paragraph with many characters.", 10),
			block("Another long body paragraph with characters.", 10),
			block("Short", 12),
		})

		assert.InDelta(t, 10.0, baseline, 0.01)
	})

	t.Run("prefers smaller size on ties", func(t *testing.T) {
		t.Parallel()

		c := classify.NewClassifier(classify.Config{})
		baseline := c.Baseline([]s1000d.TextBlock{
			block("abcd", 12),
			block("wxyz", 9),
		})

		assert.InDelta(t, 9.0, baseline, 0.01)
	})

	t.Run("returns zero without font sizes", func(t *testing.T) {
		t.Parallel()

		c := classify.NewClassifier(classify.Config{})

		assert.Zero(t, c.Baseline([]s1000d.TextBlock{block("plain", 0)}))
	})
}

func TestClassifier_Score(t *testing.T) {
	t.Parallel()

	c := classify.NewClassifier(classify.Config{})

	t.Run("penalizes sentence punctuation", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, 1, c.Score(block("1. Remove the cover.", 0), 0))
	})

	t.Run("scores numbered headings", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, 2, c.Score(block("4.2 Removal Procedure", 0), 0))
	})

	t.Run("ignores empty text", func(t *testing.T) {
		t.Parallel()

		assert.Zero(t, c.Score(block("", 30), 10))
	})
}

func TestNewClassifier_Defaults(t *testing.T) {
	t.Parallel()

	c := classify.NewClassifier(classify.Config{})

	assert.Equal(t, classify.DefaultConfig().HeadingThreshold, c.Config().HeadingThreshold)
	assert.Equal(t, classify.DefaultConfig().MaxLevels, c.Config().MaxLevels)
	assert.NotEmpty(t, c.Config().Keywords)
}
