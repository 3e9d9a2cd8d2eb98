package markdown

import (
	"regexp"
	"strings"
)

var footnoteRefPattern = regexp.MustCompile(`\[\^\d+\]`)

// CleanFragment strips inline footnote reference markers from one extracted
// fragment. It must run per node fragment, never on the joined section text,
// so code block content stays untouched.
func CleanFragment(text string) string {
	return footnoteRefPattern.ReplaceAllString(text, "")
}

// Extract concatenates the extracted text of nodes in order.
func Extract(nodes []Node) string {
	var sb strings.Builder
	for i := range nodes {
		sb.WriteString(ExtractNode(nodes[i]))
	}
	return sb.String()
}

// ExtractNode converts one node and its subtree into plain text. The
// dispatch policy is fixed: footnote definitions are dropped, code blocks
// are framed with their language, breaks become a single space so words do
// not run together across lines, and unrecognized leaves contribute nothing.
func ExtractNode(n Node) string {
	switch n.Kind {
	case KindText:
		return n.Raw
	case KindImage:
		// alt text fallback
		return Extract(n.Children)
	case KindBlockMath, KindInlineMath:
		return n.Raw
	case KindFootnoteItem:
		return ""
	case KindBlockCode:
		if n.Lang != "" {
			return "\n\nCode (" + n.Lang + "):\n" + n.Raw + "\n\n"
		}
		return "\n\nCode:\n" + n.Raw + "\n\n"
	case KindSoftBreak, KindLineBreak, KindBlankLine:
		return " "
	case KindList:
		return "\n" + Extract(n.Children) + "\n"
	case KindListItem:
		return "- " + Extract(n.Children) + "\n"
	case KindBlockText:
		return Extract(n.Children)
	case KindParagraph:
		return Extract(n.Children) + "\n\n"
	case KindHeading, KindContainer:
		return Extract(n.Children)
	default:
		if len(n.Children) > 0 {
			return Extract(n.Children)
		}
		return ""
	}
}
