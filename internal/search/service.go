package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"blogsearch/internal/domain"
	"blogsearch/internal/embedding"
	"blogsearch/internal/vectorstore"
)

// ErrEmptyQuery reports a blank query string.
var ErrEmptyQuery = errors.New("query is empty")

// Service answers free-text queries against the vector store. The query
// path is read-only; concurrent queries are independent.
type Service struct {
	embedder       embedding.Embedder
	store          vectorstore.Store
	defaultResults int
}

// NewService builds a query service. defaultResults applies when a caller
// passes a non-positive topK.
func NewService(embedder embedding.Embedder, store vectorstore.Store, defaultResults int) *Service {
	if defaultResults <= 0 {
		defaultResults = 5
	}
	return &Service{embedder: embedder, store: store, defaultResults: defaultResults}
}

// Query embeds the text and returns up to topK matches ranked by ascending
// distance. Store failures surface as errors, never as empty result sets.
func (s *Service) Query(ctx context.Context, query string, topK int) ([]domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if topK <= 0 {
		topK = s.defaultResults
	}
	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	results, err := s.store.Query(ctx, vector, topK)
	if err != nil {
		return nil, fmt.Errorf("query store: %w", err)
	}
	return results, nil
}

// Collections lists the store's collections.
func (s *Service) Collections(ctx context.Context) ([]string, error) {
	return s.store.Collections(ctx)
}
