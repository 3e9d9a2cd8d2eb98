package domain

import "time"

// Document is a single markdown post loaded from the corpus.
type Document struct {
	ID       string
	Title    string
	Path     string
	RelPath  string // corpus-relative path without extension, slash-separated
	Body     string
	Modified time.Time
	Draft    bool
}

// Section groups the content between two headings together with the heading
// path that was active when the section started.
type Section struct {
	Headings []string
	Content  []string
}

// Metadata is the display payload stored alongside a chunk.
type Metadata struct {
	Title      string
	AnchorLink string
	UpdatedAt  time.Time
	Excerpt    string
}

// Chunk is the unit handed to the embedder and the vector store. Re-deriving
// a chunk from unchanged inputs yields byte-identical ID and EmbeddingText.
type Chunk struct {
	ID            string
	EmbeddingText string
	Metadata      Metadata
}

// SearchResult is one ranked match returned by the query path. Nearest
// results have the smallest Distance.
type SearchResult struct {
	ID       string
	Text     string
	Metadata Metadata
	Distance float64
}
