package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogsearch/internal/markdown"
)

func parseBody(t *testing.T, source string) []markdown.Node {
	t.Helper()
	return markdown.NewParser().Parse([]byte(source))
}

func TestExtractSectionsSeedPrefixesHeadingPath(t *testing.T) {
	nodes := parseBody(t, "# Intro\n\nHello world.\n")
	sections := ExtractSections(nodes, []string{"Sets"})
	require.Len(t, sections, 1)

	assert.Equal(t, []string{"Sets", "Intro"}, sections[0].Headings)
	assert.Equal(t, []string{"Hello world.\n\n"}, sections[0].Content)
}

func TestExtractSectionsConsecutiveHeadingsEmitNoEmptySection(t *testing.T) {
	nodes := parseBody(t, "# A\n\n# B\n\nbody text\n")
	sections := ExtractSections(nodes, nil)
	require.Len(t, sections, 1)

	assert.Equal(t, []string{"B"}, sections[0].Headings)
}

func TestExtractSectionsHeadingLevelSkip(t *testing.T) {
	nodes := parseBody(t, "# One\n\nalpha\n\n### Three\n\nbeta\n")
	sections := ExtractSections(nodes, nil)
	require.Len(t, sections, 2)

	assert.Equal(t, []string{"One"}, sections[0].Headings)
	assert.Equal(t, []string{"One", "Three"}, sections[1].Headings)
}

func TestExtractSectionsHeadingLevelDecrease(t *testing.T) {
	nodes := parseBody(t, "# Top\n\na\n\n## Deep\n\nb\n\n# Next\n\nc\n")
	sections := ExtractSections(nodes, nil)
	require.Len(t, sections, 3)

	assert.Equal(t, []string{"Top"}, sections[0].Headings)
	assert.Equal(t, []string{"Top", "Deep"}, sections[1].Headings)
	assert.Equal(t, []string{"Next"}, sections[2].Headings)
}

func TestExtractSectionsPrologueWithoutHeadings(t *testing.T) {
	nodes := parseBody(t, "Just a prologue paragraph.\n")
	sections := ExtractSections(nodes, []string{"Title"})
	require.Len(t, sections, 1)

	assert.Equal(t, []string{"Title"}, sections[0].Headings)
	assert.Equal(t, []string{"Just a prologue paragraph.\n\n"}, sections[0].Content)
}

func TestExtractSectionsHeadingsOnlyYieldsNothing(t *testing.T) {
	nodes := parseBody(t, "# A\n\n## B\n\n### C\n")
	assert.Empty(t, ExtractSections(nodes, nil))
}

func TestExtractSectionsBodyHeadingsNeverDisplaceSeed(t *testing.T) {
	// the title stays at the root of every section path regardless of level
	nodes := parseBody(t, "# First\n\na\n\n# Second\n\nb\n")
	sections := ExtractSections(nodes, []string{"Doc"})
	require.Len(t, sections, 2)

	assert.Equal(t, []string{"Doc", "First"}, sections[0].Headings)
	assert.Equal(t, []string{"Doc", "Second"}, sections[1].Headings)
}

func TestExtractSectionsStripsFootnoteMarkers(t *testing.T) {
	nodes := parseBody(t, "# H\n\nsee[^1] the note\n")
	sections := ExtractSections(nodes, nil)
	require.Len(t, sections, 1)

	joined := strings.Join(sections[0].Content, " ")
	assert.NotContains(t, joined, "[^1]")
	assert.Contains(t, joined, "see the note")
}

func TestExtractSectionsCodeBlocksKeepBracketCaret(t *testing.T) {
	nodes := parseBody(t, "# H\n\n```go\nv := arr[^1]\n```\n")
	sections := ExtractSections(nodes, nil)
	require.Len(t, sections, 1)

	joined := strings.Join(sections[0].Content, " ")
	assert.Contains(t, joined, "arr[^1]")
}

func TestExtractSectionsSkipsWhitespaceOnlyFragments(t *testing.T) {
	nodes := []markdown.Node{
		{Kind: markdown.KindHeading, Level: 1, Children: []markdown.Node{{Kind: markdown.KindText, Raw: "H"}}},
		{Kind: markdown.KindUnknown},
		{Kind: markdown.KindParagraph, Children: []markdown.Node{{Kind: markdown.KindText, Raw: "real"}}},
	}
	sections := ExtractSections(nodes, nil)
	require.Len(t, sections, 1)
	assert.Equal(t, []string{"real\n\n"}, sections[0].Content)
}

func TestExtractSectionsHeadingPathsAreIndependent(t *testing.T) {
	// later headings must not mutate earlier sections' paths
	nodes := parseBody(t, "# A\n\na\n\n## B\n\nb\n")
	sections := ExtractSections(nodes, nil)
	require.Len(t, sections, 2)
	assert.Equal(t, []string{"A"}, sections[0].Headings)
}
