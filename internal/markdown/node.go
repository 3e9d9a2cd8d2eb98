package markdown

// Kind identifies the markdown constructs the pipeline understands. The set
// is closed: anything the parser produces that has no mapping here becomes
// KindContainer (when it has children) or KindUnknown (when it is a leaf),
// so new constructs degrade to recursion or no text instead of failing.
type Kind int

const (
	KindUnknown Kind = iota
	KindText
	KindImage
	KindBlockMath
	KindInlineMath
	KindFootnoteItem
	KindBlockCode
	KindSoftBreak
	KindLineBreak
	KindBlankLine
	KindList
	KindListItem
	KindBlockText
	KindParagraph
	KindHeading
	KindContainer
)

// Node is one element of a parsed document. A document is represented as a
// flat, ordered sequence of top-level nodes; nesting is preserved through
// Children. Nodes are immutable once produced by the parser.
type Node struct {
	Kind     Kind
	Raw      string // verbatim source for text, code and math nodes
	Level    int    // heading level, 1-based
	Lang     string // code block info string, may be empty
	Children []Node
}
