package vectorstore

import (
	"context"

	"blogsearch/internal/domain"
)

// Entry is one record keyed by chunk id.
type Entry struct {
	ID       string
	Vector   []float64
	Metadata domain.Metadata
	Text     string
}

// Store persists chunk vectors and answers nearest-neighbour queries.
// Upsert by id is the sole correctness mechanism against duplication:
// writing the same id twice must leave a single record (last write wins).
// Implementations must support concurrent upserts to distinct ids.
type Store interface {
	// EnsureCollection creates the backing collection if it is missing.
	EnsureCollection(ctx context.Context) error
	// Collections lists the collection names available in the store.
	Collections(ctx context.Context) ([]string, error)
	Upsert(ctx context.Context, entries []Entry) error
	// Fetch returns stored display metadata for the given ids; absent ids
	// are simply missing from the result.
	Fetch(ctx context.Context, ids []string) (map[string]domain.Metadata, error)
	// Query returns up to topK entries ranked by ascending distance.
	Query(ctx context.Context, vector []float64, topK int) ([]domain.SearchResult, error)
}
