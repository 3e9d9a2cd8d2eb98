package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeadingAndParagraph(t *testing.T) {
	p := NewParser()
	nodes := p.Parse([]byte("# Intro\n\nHello world.\n"))
	require.Len(t, nodes, 2)

	assert.Equal(t, KindHeading, nodes[0].Kind)
	assert.Equal(t, 1, nodes[0].Level)
	assert.Equal(t, "Intro", Extract(nodes[0].Children))

	assert.Equal(t, KindParagraph, nodes[1].Kind)
	assert.Equal(t, "Hello world.\n\n", ExtractNode(nodes[1]))
}

func TestParseFencedCodeBlock(t *testing.T) {
	p := NewParser()
	nodes := p.Parse([]byte("```python\nx=1\n```\n"))
	require.Len(t, nodes, 1)

	assert.Equal(t, KindBlockCode, nodes[0].Kind)
	assert.Equal(t, "python", nodes[0].Lang)
	assert.Contains(t, ExtractNode(nodes[0]), "Code (python):\nx=1")
}

func TestParseList(t *testing.T) {
	p := NewParser()
	nodes := p.Parse([]byte("- first\n- second\n"))
	require.Len(t, nodes, 1)

	assert.Equal(t, KindList, nodes[0].Kind)
	assert.Contains(t, ExtractNode(nodes[0]), "- first\n- second")
}

func TestParseImageAltText(t *testing.T) {
	p := NewParser()
	nodes := p.Parse([]byte("![a diagram](/img.png)\n"))
	require.Len(t, nodes, 1)

	assert.Equal(t, "a diagram\n\n", ExtractNode(nodes[0]))
}

func TestParseSoftBreakJoinsLines(t *testing.T) {
	p := NewParser()
	nodes := p.Parse([]byte("line one\nline two\n"))
	require.Len(t, nodes, 1)

	assert.Equal(t, "line one line two\n\n", ExtractNode(nodes[0]))
}

func TestParseFootnoteDefinitionExcluded(t *testing.T) {
	p := NewParser()
	nodes := p.Parse([]byte("Hello[^1].\n\n[^1]: A note.\n"))
	require.NotEmpty(t, nodes)

	joined := Extract(nodes)
	assert.Contains(t, joined, "Hello")
	assert.NotContains(t, joined, "A note")
}

func TestParseThematicBreakIsUnknown(t *testing.T) {
	p := NewParser()
	nodes := p.Parse([]byte("---\n"))
	require.Len(t, nodes, 1)
	assert.Equal(t, KindUnknown, nodes[0].Kind)
	assert.Equal(t, "", ExtractNode(nodes[0]))
}
