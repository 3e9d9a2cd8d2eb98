package markdown

import (
	"strings"

	mathjax "github.com/litao91/goldmark-mathjax"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// Parser converts markdown source into the flat node sequence consumed by
// the section splitter. It is stateless and safe for concurrent use across
// documents.
type Parser struct {
	md goldmark.Markdown
}

// NewParser builds a parser with GFM, footnotes and math enabled. Footnote
// definitions must survive parsing as footnote_item nodes so the extractor
// can exclude them from embedded content.
func NewParser() *Parser {
	return &Parser{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Footnote,
				mathjax.MathJax,
			),
		),
	}
}

// Parse returns the document's top-level nodes in source order.
func (p *Parser) Parse(source []byte) []Node {
	root := p.md.Parser().Parse(text.NewReader(source))
	return convertChildren(root, source)
}

func convertChildren(n ast.Node, source []byte) []Node {
	var out []Node
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		out = append(out, convertNode(c, source)...)
	}
	return out
}

// convertNode maps one goldmark node onto the closed node union. It may
// return more than one node: goldmark attaches line breaks to the preceding
// text node while the union models them as siblings.
func convertNode(n ast.Node, source []byte) []Node {
	switch v := n.(type) {
	case *ast.Text:
		nodes := []Node{{Kind: KindText, Raw: string(v.Segment.Value(source))}}
		switch {
		case v.HardLineBreak():
			nodes = append(nodes, Node{Kind: KindLineBreak})
		case v.SoftLineBreak():
			nodes = append(nodes, Node{Kind: KindSoftBreak})
		}
		return nodes
	case *ast.String:
		return []Node{{Kind: KindText, Raw: string(v.Value)}}
	case *ast.Heading:
		return []Node{{Kind: KindHeading, Level: v.Level, Children: convertChildren(v, source)}}
	case *ast.Paragraph:
		return []Node{{Kind: KindParagraph, Children: convertChildren(v, source)}}
	case *ast.TextBlock:
		return []Node{{Kind: KindBlockText, Children: convertChildren(v, source)}}
	case *ast.List:
		return []Node{{Kind: KindList, Children: convertChildren(v, source)}}
	case *ast.ListItem:
		return []Node{{Kind: KindListItem, Children: convertChildren(v, source)}}
	case *ast.FencedCodeBlock:
		return []Node{{Kind: KindBlockCode, Lang: codeLanguage(v, source), Raw: blockLines(v, source)}}
	case *ast.CodeBlock:
		return []Node{{Kind: KindBlockCode, Raw: blockLines(v, source)}}
	case *ast.Image:
		// children carry the alt text
		return []Node{{Kind: KindImage, Children: convertChildren(v, source)}}
	case *mathjax.MathBlock:
		return []Node{{Kind: KindBlockMath, Raw: blockLines(v, source)}}
	case *mathjax.InlineMath:
		return []Node{{Kind: KindInlineMath, Raw: inlineText(v, source)}}
	case *east.FootnoteList, *east.Footnote:
		return []Node{{Kind: KindFootnoteItem, Children: nil}}
	case *east.FootnoteLink, *east.FootnoteBacklink:
		// inline reference markers contribute no text
		return []Node{{Kind: KindUnknown}}
	case *ast.AutoLink:
		return []Node{{Kind: KindText, Raw: string(v.URL(source))}}
	case *ast.HTMLBlock, *ast.RawHTML, *ast.ThematicBreak:
		return []Node{{Kind: KindUnknown}}
	default:
		if n.HasChildren() {
			return []Node{{Kind: KindContainer, Children: convertChildren(n, source)}}
		}
		return []Node{{Kind: KindUnknown}}
	}
}

func codeLanguage(n *ast.FencedCodeBlock, source []byte) string {
	if lang := n.Language(source); lang != nil {
		return string(lang)
	}
	return ""
}

func blockLines(n ast.Node, source []byte) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(source))
	}
	return sb.String()
}

func inlineText(n ast.Node, source []byte) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			sb.Write(t.Segment.Value(source))
		}
	}
	return sb.String()
}
