package chunker

import (
	"errors"
	"fmt"
	"strings"

	"blogsearch/internal/domain"
)

// ErrMissingID reports a document whose front matter carries no stable id.
// Callers skip the document and report the path rather than abort the run.
var ErrMissingID = errors.New("document has no id")

// Excerpter produces a short display excerpt from section text.
type Excerpter interface {
	Excerpt(text string, maxSentences int) (string, error)
}

// Assembler turns sections into chunks ready for embedding and upsert.
type Assembler struct {
	excerpter    Excerpter
	maxSentences int
}

// NewAssembler builds an assembler. excerpter may be nil, in which case
// chunks carry no excerpt.
func NewAssembler(excerpter Excerpter, maxSentences int) *Assembler {
	if maxSentences <= 0 {
		maxSentences = 2
	}
	return &Assembler{excerpter: excerpter, maxSentences: maxSentences}
}

// Assemble derives the chunk for one section. position is the section's
// zero-based index within the document; it seeds the slug fallback for
// headings that transliterate to nothing. The embedding text prefixes the
// heading breadcrumb so hierarchical context is embedded with the content.
func (a *Assembler) Assemble(doc domain.Document, section domain.Section, position int) (domain.Chunk, error) {
	if doc.ID == "" {
		return domain.Chunk{}, fmt.Errorf("%s: %w", doc.Path, ErrMissingID)
	}

	slug := headingSlug(section.Headings, fmt.Sprintf("section-%d", position))
	content := strings.Join(section.Content, " ")

	chunk := domain.Chunk{
		ID:            doc.ID + "-" + slug,
		EmbeddingText: strings.Join(section.Headings, " > ") + ": " + content,
		Metadata: domain.Metadata{
			Title:      doc.Title,
			AnchorLink: AnchorLink(doc.RelPath, slug),
			UpdatedAt:  doc.Modified,
		},
	}
	if a.excerpter != nil {
		if excerpt, err := a.excerpter.Excerpt(content, a.maxSentences); err == nil {
			chunk.Metadata.Excerpt = excerpt
		}
	}
	return chunk, nil
}
