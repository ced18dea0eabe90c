// Package etree reads and writes S1000D data modules using beevik/etree.
package etree

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/beevik/etree"
	"github.com/fwojciec/s1000d"
)

// Ensure Serializer implements s1000d.Serializer at compile time.
var _ s1000d.Serializer = (*Serializer)(nil)

const (
	schemaLocation = "http://www.s1000d.org/S1000D_4-1/xml_schema_flat/descript.xsd"
	xsiNamespace   = "http://www.w3.org/2001/XMLSchema-instance"

	// modelIdentCode is the model identifier written into every dmCode.
	modelIdentCode = "S1000DGEN"

	// infoCodeDescription is the S1000D information code for descriptive
	// data modules.
	infoCodeDescription = "040"
)

// Remark keys written to dmStatus/remarks and read back by Parser.
const (
	remarkSource    = "source"
	remarkMode      = "mode"
	remarkGenerated = "generated"
	remarkPages     = "pages"
	remarkBlocks    = "blocks"
	remarkGraphics  = "graphics"
)

// Serializer writes extraction results as S1000D descriptive data modules.
type Serializer struct {
	// Indent is the number of spaces per nesting level. Zero writes the
	// document without extra whitespace.
	Indent int
}

// NewSerializer creates a Serializer that indents with two spaces.
func NewSerializer() *Serializer {
	return &Serializer{Indent: 2}
}

// Serialize writes res to w as a UTF-8 XML document. Returns EINTERNAL if
// the tree violates its invariants; nothing is written in that case.
func (s *Serializer) Serialize(w io.Writer, res *s1000d.ExtractionResult) error {
	if res == nil || res.Root == nil {
		return s1000d.Errorf(s1000d.EINTERNAL, "nothing to serialize")
	}
	if err := validateRoot(res.Root); err != nil {
		return err
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement(s1000d.TagModule)
	root.CreateAttr("xmlns:xsi", xsiNamespace)
	root.CreateAttr("xsi:noNamespaceSchemaLocation", schemaLocation)

	writeIdentAndStatus(root, res)

	description := root.CreateElement("content").CreateElement("description")
	for _, child := range res.Root.Children {
		writeNode(description, child)
	}

	if s.Indent > 0 {
		doc.Indent(s.Indent)
	}
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("write data module: %w", err)
	}
	return nil
}

func writeIdentAndStatus(root *etree.Element, res *s1000d.ExtractionResult) {
	section := root.CreateElement("identAndStatusSection")
	address := section.CreateElement("dmAddress")

	ident := address.CreateElement("dmIdent")
	writeDMCode(ident.CreateElement("dmCode"), res.Info.SystemCode)
	language := ident.CreateElement("language")
	language.CreateAttr("languageIsoCode", "en")
	language.CreateAttr("countryIsoCode", "US")
	issue := ident.CreateElement("issueInfo")
	issue.CreateAttr("issueNumber", "001")
	issue.CreateAttr("inWork", "00")

	items := address.CreateElement("dmAddressItems")
	created := res.CreatedAt.UTC()
	date := items.CreateElement("issueDate")
	date.CreateAttr("year", fmt.Sprintf("%04d", created.Year()))
	date.CreateAttr("month", fmt.Sprintf("%02d", int(created.Month())))
	date.CreateAttr("day", fmt.Sprintf("%02d", created.Day()))
	title := items.CreateElement("dmTitle")
	title.CreateElement("techName").SetText(res.Root.Title)
	title.CreateElement("infoName").SetText("Description")

	status := section.CreateElement("dmStatus")
	status.CreateAttr("issueType", "new")
	status.CreateElement("security").CreateAttr("securityClassification", "01")
	applicability := res.Info.Applicability
	if applicability == "" {
		applicability = "General"
	}
	status.CreateElement("applic").CreateElement("displayText").CreateElement("simplePara").SetText(applicability)

	remarks := status.CreateElement("remarks")
	remark := func(key, value string) {
		remarks.CreateElement("simplePara").SetText(key + ": " + value)
	}
	remark(remarkSource, res.Source)
	remark(remarkMode, string(res.Mode))
	remark(remarkGenerated, created.Format(time.RFC3339))
	remark(remarkPages, strconv.Itoa(res.Info.PageCount))
	remark(remarkBlocks, strconv.Itoa(res.Info.BlockCount))
	remark(remarkGraphics, strconv.FormatBool(res.Info.HasGraphics))
}

// writeDMCode splits a system code such as "ES002" into the systemCode and
// assyCode attributes.
func writeDMCode(el *etree.Element, code string) {
	if len(code) != 5 {
		code = s1000d.ModuleGeneral.SystemCode()
	}
	el.CreateAttr("modelIdentCode", modelIdentCode)
	el.CreateAttr("systemDiffCode", "A")
	el.CreateAttr("systemCode", code[:2])
	el.CreateAttr("subSystemCode", "0")
	el.CreateAttr("subSubSystemCode", "0")
	el.CreateAttr("assyCode", code[2:])
	el.CreateAttr("disassyCode", "00")
	el.CreateAttr("disassyCodeVariant", "A")
	el.CreateAttr("infoCode", infoCodeDescription)
	el.CreateAttr("infoCodeVariant", "A")
	el.CreateAttr("itemLocationCode", "D")
}

func writeNode(parent *etree.Element, n *s1000d.ModuleNode) {
	el := parent.CreateElement(n.Tag)
	switch n.Tag {
	case s1000d.TagSection:
		el.CreateElement("title").SetText(n.Title)
		for _, child := range n.Children {
			writeNode(el, child)
		}
	case s1000d.TagPara:
		el.SetText(n.Text)
	}
}

// validateRoot checks the invariants the serializer relies on.
func validateRoot(root *s1000d.ModuleNode) error {
	if root.Tag != s1000d.TagModule {
		return s1000d.Errorf(s1000d.EINTERNAL, "root element is %q, want %q", root.Tag, s1000d.TagModule)
	}
	if root.Text != "" {
		return s1000d.Errorf(s1000d.EINTERNAL, "root element has text content")
	}
	for _, child := range root.Children {
		if err := validateNode(child); err != nil {
			return err
		}
	}
	return nil
}

func validateNode(n *s1000d.ModuleNode) error {
	switch {
	case n == nil:
		return s1000d.Errorf(s1000d.EINTERNAL, "nil node in tree")
	case n.Tag == s1000d.TagPara:
		if len(n.Children) > 0 {
			return s1000d.Errorf(s1000d.EINTERNAL, "paragraph %q has children", n.Text)
		}
		return nil
	case n.Tag == s1000d.TagSection:
		if n.Text != "" {
			return s1000d.Errorf(s1000d.EINTERNAL, "section %q has text content", n.Title)
		}
		for _, child := range n.Children {
			if err := validateNode(child); err != nil {
				return err
			}
		}
		return nil
	case n.Tag == s1000d.TagModule:
		return s1000d.Errorf(s1000d.EINTERNAL, "%s element below the root", s1000d.TagModule)
	default:
		return s1000d.Errorf(s1000d.EINTERNAL, "unknown element %q", n.Tag)
	}
}
