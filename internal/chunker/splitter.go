package chunker

import (
	"strings"

	"blogsearch/internal/domain"
	"blogsearch/internal/markdown"
)

// ExtractSections walks nodes in document order and groups non-heading
// content into sections keyed by the heading path active when each section
// started. seed is the path prefix for prologue content, usually the
// document title; seed entries are never displaced by body headings.
//
// A heading at level L truncates the path to depth L-1 (clamped to the seed
// length and the current path length) and appends itself, which re-nests
// correctly when heading levels skip or decrease. Buffers with no non-empty
// content are never emitted, so consecutive headings produce no empty
// sections.
func ExtractSections(nodes []markdown.Node, seed []string) []domain.Section {
	headings := append([]string(nil), seed...)
	var sections []domain.Section
	current := domain.Section{Headings: headings}

	for _, node := range nodes {
		if node.Kind == markdown.KindHeading {
			if len(current.Content) > 0 {
				sections = append(sections, current)
			}
			headingText := markdown.Extract(node.Children)
			prefix := node.Level - 1
			if prefix < len(seed) {
				prefix = len(seed)
			}
			if prefix > len(headings) {
				prefix = len(headings)
			}
			next := make([]string, 0, prefix+1)
			next = append(next, headings[:prefix]...)
			next = append(next, headingText)
			headings = next
			current = domain.Section{Headings: headings}
			continue
		}
		text := markdown.ExtractNode(node)
		if node.Kind != markdown.KindBlockCode {
			// footnote markers are stripped per fragment; code blocks are
			// exempt so bracket-caret sequences in code survive
			text = markdown.CleanFragment(text)
		}
		if strings.TrimSpace(text) != "" {
			current.Content = append(current.Content, text)
		}
	}
	if len(current.Content) > 0 {
		sections = append(sections, current)
	}
	return sections
}
