package chunker

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugDrop     = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugCollapse = regexp.MustCompile(`[\s_-]+`)

	// NFD plus combining-mark removal transliterates accented letters to
	// their ASCII base so anchors match the static site generator's ids.
	deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Slugify derives a URL-safe anchor slug from a heading. It is total (any
// Unicode input yields a possibly-empty slug) and idempotent, and its output
// matches ^[a-z0-9]+(-[a-z0-9]+)*$ or is empty.
func Slugify(text string) string {
	if out, _, err := transform.String(deaccent, text); err == nil {
		text = out
	}
	text = strings.ToLower(text)
	text = slugDrop.ReplaceAllString(text, "")
	text = slugCollapse.ReplaceAllString(text, "-")
	return strings.Trim(text, "-")
}

// ChunkID derives the stable identifier for a section of a document. The id
// is a pure function of the document id and the final heading; fallback is
// used when the heading transliterates to an empty slug.
func ChunkID(documentID string, headings []string, fallback string) string {
	return documentID + "-" + headingSlug(headings, fallback)
}

// AnchorLink builds the site-relative link to a section heading from the
// document's corpus-relative path (extension already stripped).
func AnchorLink(relPath, slug string) string {
	return "/" + relPath + "#" + slug
}

func headingSlug(headings []string, fallback string) string {
	slug := ""
	if len(headings) > 0 {
		slug = Slugify(headings[len(headings)-1])
	}
	if slug == "" {
		slug = fallback
	}
	return slug
}
