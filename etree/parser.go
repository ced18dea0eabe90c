package etree

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/fwojciec/s1000d"
)

// Ensure Parser implements s1000d.Parser at compile time.
var _ s1000d.Parser = (*Parser)(nil)

// Parser reads data modules written by Serializer back into trees.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse reads a data module from r. Elements outside the content tree that
// it does not know are ignored. Returns EINVALID for malformed XML or a
// document whose root is not a data module.
func (p *Parser) Parse(r io.Reader) (*s1000d.ExtractionResult, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, s1000d.Errorf(s1000d.EINVALID, "malformed data module: %v", err)
	}

	el := doc.Root()
	if el == nil || el.Tag != s1000d.TagModule {
		return nil, s1000d.Errorf(s1000d.EINVALID, "document is not a data module")
	}

	root := s1000d.NewModuleNode()
	res := &s1000d.ExtractionResult{Root: root}

	if title := el.FindElement("./identAndStatusSection/dmAddress/dmAddressItems/dmTitle/techName"); title != nil {
		root.Title = strings.TrimSpace(title.Text())
	}
	if code := el.FindElement("./identAndStatusSection/dmAddress/dmIdent/dmCode"); code != nil {
		res.Info.SystemCode = code.SelectAttrValue("systemCode", "") + code.SelectAttrValue("assyCode", "")
		res.Info.Type = s1000d.ModuleTypeFromCode(res.Info.SystemCode)
	}
	if applic := el.FindElement("./identAndStatusSection/dmStatus/applic/displayText/simplePara"); applic != nil {
		res.Info.Applicability = strings.TrimSpace(applic.Text())
	}
	for _, para := range el.FindElements("./identAndStatusSection/dmStatus/remarks/simplePara") {
		readRemark(res, para.Text())
	}

	if description := el.FindElement("./content/description"); description != nil {
		for _, child := range description.ChildElements() {
			if n := readNode(child); n != nil {
				root.Append(n)
			}
		}
	}
	return res, nil
}

func readRemark(res *s1000d.ExtractionResult, remark string) {
	key, value, ok := strings.Cut(strings.TrimSpace(remark), ": ")
	if !ok {
		return
	}
	switch key {
	case remarkSource:
		res.Source = value
	case remarkMode:
		res.Mode = s1000d.Mode(value)
	case remarkGenerated:
		if t, err := time.Parse(time.RFC3339, value); err == nil {
			res.CreatedAt = t
		}
	case remarkPages:
		res.Info.PageCount, _ = strconv.Atoi(value)
	case remarkBlocks:
		res.Info.BlockCount, _ = strconv.Atoi(value)
	case remarkGraphics:
		res.Info.HasGraphics, _ = strconv.ParseBool(value)
	}
}

func readNode(el *etree.Element) *s1000d.ModuleNode {
	switch el.Tag {
	case s1000d.TagPara:
		return &s1000d.ModuleNode{Tag: s1000d.TagPara, Text: el.Text()}
	case s1000d.TagSection:
		n := &s1000d.ModuleNode{Tag: s1000d.TagSection}
		for _, child := range el.ChildElements() {
			if child.Tag == "title" {
				n.Title = child.Text()
				continue
			}
			if c := readNode(child); c != nil {
				n.Append(c)
			}
		}
		return n
	default:
		return nil
	}
}
