package embedding

import "context"

// Embedder converts free text into a numeric vector representation.
// Implementations must be deterministic for identical input: the indexer
// relies on re-embedding unchanged text producing an equivalent record.
type Embedder interface {
	Name() string
	Embed(ctx context.Context, text string) ([]float64, error)
}
