// Package htmltomarkdown renders data modules as Markdown by way of HTML.
package htmltomarkdown

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/s1000d"
)

// Ensure Exporter implements s1000d.Exporter at compile time.
var _ s1000d.Exporter = (*Exporter)(nil)

// Exporter wraps html-to-markdown to render module trees as Markdown.
type Exporter struct {
	conv *converter.Converter
}

// NewExporter creates a new Exporter.
func NewExporter() *Exporter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Exporter{conv: conv}
}

// Export renders res as Markdown: the module title as a level one heading,
// a metadata table, then sections as nested headings.
func (e *Exporter) Export(res *s1000d.ExtractionResult) (string, error) {
	if res == nil || res.Root == nil {
		return "", s1000d.Errorf(s1000d.EINVALID, "no module to export")
	}

	result, err := e.conv.ConvertString(renderHTML(res))
	if err != nil {
		return "", err
	}

	return result, nil
}

// renderHTML writes the module as an HTML fragment. Heading levels are
// capped at h6.
func renderHTML(res *s1000d.ExtractionResult) string {
	var b strings.Builder

	if res.Root.Title != "" {
		fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(res.Root.Title))
	}
	renderInfo(&b, res)

	res.Root.Walk(func(n *s1000d.ModuleNode, depth int) bool {
		switch n.Tag {
		case s1000d.TagSection:
			level := min(depth+1, 6)
			fmt.Fprintf(&b, "<h%d>%s</h%d>\n", level, html.EscapeString(n.Title), level)
		case s1000d.TagPara:
			fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(n.Text))
		}
		return true
	})

	return b.String()
}

func renderInfo(b *strings.Builder, res *s1000d.ExtractionResult) {
	rows := [][2]string{
		{"Module type", string(res.Info.Type)},
		{"System code", res.Info.SystemCode},
		{"Applicability", res.Info.Applicability},
		{"Mode", string(res.Mode)},
		{"Source", res.Source},
		{"Pages", strconv.Itoa(res.Info.PageCount)},
		{"Graphics", strconv.FormatBool(res.Info.HasGraphics)},
	}

	b.WriteString("<table>\n<thead><tr><th>Field</th><th>Value</th></tr></thead>\n<tbody>\n")
	for _, r := range rows {
		if r[1] == "" {
			continue
		}
		fmt.Fprintf(b, "<tr><td>%s</td><td>%s</td></tr>\n", r[0], html.EscapeString(r[1]))
	}
	b.WriteString("</tbody>\n</table>\n")
}
