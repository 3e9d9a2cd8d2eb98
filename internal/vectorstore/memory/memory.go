package memory

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"

	"blogsearch/internal/domain"
	"blogsearch/internal/vectorstore"
)

// Store is an in-memory vector store using brute-force cosine distance.
// Records are keyed by id, so repeated upserts of the same chunk overwrite
// in place.
type Store struct {
	mu         sync.RWMutex
	collection string
	entries    map[string]vectorstore.Entry
}

// NewStore creates an empty in-memory store.
func NewStore(collection string) *Store {
	if collection == "" {
		collection = "default"
	}
	return &Store{collection: collection, entries: map[string]vectorstore.Entry{}}
}

func (s *Store) EnsureCollection(ctx context.Context) error { return ctx.Err() }

func (s *Store) Collections(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []string{s.collection}, nil
}

func (s *Store) Upsert(ctx context.Context, entries []vectorstore.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		if e.ID == "" {
			return errors.New("entry missing id")
		}
		s.entries[e.ID] = e
	}
	return nil
}

func (s *Store) Fetch(ctx context.Context, ids []string) (map[string]domain.Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]domain.Metadata, len(ids))
	for _, id := range ids {
		if e, ok := s.entries[id]; ok {
			out[id] = e.Metadata
		}
	}
	return out, nil
}

func (s *Store) Query(ctx context.Context, vector []float64, topK int) ([]domain.SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if topK <= 0 {
		topK = 5
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	results := make([]domain.SearchResult, 0, len(s.entries))
	for _, e := range s.entries {
		results = append(results, domain.SearchResult{
			ID:       e.ID,
			Text:     e.Text,
			Metadata: e.Metadata,
			Distance: 1 - cosine(vector, e.Vector),
		})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].ID < results[j].ID
	})
	if topK > len(results) {
		topK = len(results)
	}
	return results[:topK], nil
}

// Dump returns a copy of the stored entries. Intended for tests asserting
// idempotent re-indexing.
func (s *Store) Dump() map[string]vectorstore.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]vectorstore.Entry, len(s.entries))
	for id, e := range s.entries {
		out[id] = e
	}
	return out
}

func cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
