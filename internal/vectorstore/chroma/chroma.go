package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"blogsearch/internal/domain"
	"blogsearch/internal/vectorstore"
)

// Store is a minimal REST client to a Chroma server. The collection is
// resolved once by EnsureCollection and addressed by its server-side id
// afterwards.
type Store struct {
	url          string
	collection   string
	collectionID string
	client       *http.Client
}

// Config contains connection details for a Chroma vector store.
type Config struct {
	URL        string
	Collection string
	Timeout    time.Duration
}

// NewStore creates a Chroma client. Call EnsureCollection before Upsert,
// Fetch or Query; concurrent use after that is safe since the resolved
// collection id is never rewritten.
func NewStore(cfg Config) *Store {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Store{
		url:        cfg.URL,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
	}
}

type collectionPayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// EnsureCollection resolves the configured collection, creating it when
// missing.
func (s *Store) EnsureCollection(ctx context.Context) error {
	if s.url == "" {
		return errors.New("chroma url is required")
	}
	if s.collection == "" {
		return errors.New("chroma collection name is required")
	}
	body := map[string]any{
		"name":          s.collection,
		"get_or_create": true,
	}
	var out collectionPayload
	if err := s.postJSON(ctx, fmt.Sprintf("%s/api/v1/collections", s.url), body, &out); err != nil {
		return err
	}
	if out.ID == "" {
		return errors.New("chroma returned no collection id")
	}
	s.collectionID = out.ID
	return nil
}

// Collections lists collection names known to the server.
func (s *Store) Collections(ctx context.Context) ([]string, error) {
	var out []collectionPayload
	if err := s.getJSON(ctx, fmt.Sprintf("%s/api/v1/collections", s.url), &out); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(out))
	for _, c := range out {
		names = append(names, c.Name)
	}
	return names, nil
}

// Upsert writes entries keyed by id; existing records are overwritten.
func (s *Store) Upsert(ctx context.Context, entries []vectorstore.Entry) error {
	if s.collectionID == "" {
		return errors.New("collection not initialized")
	}
	if len(entries) == 0 {
		return nil
	}
	ids := make([]string, len(entries))
	embeddings := make([][]float64, len(entries))
	metadatas := make([]map[string]any, len(entries))
	documents := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
		embeddings[i] = e.Vector
		metadatas[i] = encodeMetadata(e.Metadata)
		documents[i] = e.Text
	}
	body := map[string]any{
		"ids":        ids,
		"embeddings": embeddings,
		"metadatas":  metadatas,
		"documents":  documents,
	}
	return s.postJSON(ctx, fmt.Sprintf("%s/api/v1/collections/%s/upsert", s.url, s.collectionID), body, nil)
}

// Fetch returns stored metadata for the given ids.
func (s *Store) Fetch(ctx context.Context, ids []string) (map[string]domain.Metadata, error) {
	if s.collectionID == "" {
		return nil, errors.New("collection not initialized")
	}
	if len(ids) == 0 {
		return map[string]domain.Metadata{}, nil
	}
	body := map[string]any{
		"ids":     ids,
		"include": []string{"metadatas"},
	}
	var resp struct {
		IDs       []string         `json:"ids"`
		Metadatas []map[string]any `json:"metadatas"`
	}
	if err := s.postJSON(ctx, fmt.Sprintf("%s/api/v1/collections/%s/get", s.url, s.collectionID), body, &resp); err != nil {
		return nil, err
	}
	out := make(map[string]domain.Metadata, len(resp.IDs))
	for i, id := range resp.IDs {
		if i < len(resp.Metadatas) {
			out[id] = decodeMetadata(resp.Metadatas[i])
		}
	}
	return out, nil
}

// Query returns up to topK records ranked by ascending distance. Optional
// response fields the server omits are left zero-valued rather than failing.
func (s *Store) Query(ctx context.Context, vector []float64, topK int) ([]domain.SearchResult, error) {
	if s.collectionID == "" {
		return nil, errors.New("collection not initialized")
	}
	if topK <= 0 {
		topK = 5
	}
	body := map[string]any{
		"query_embeddings": [][]float64{vector},
		"n_results":        topK,
		"include":          []string{"documents", "metadatas", "distances"},
	}
	var resp struct {
		IDs       [][]string         `json:"ids"`
		Documents [][]string         `json:"documents"`
		Metadatas [][]map[string]any `json:"metadatas"`
		Distances [][]float64        `json:"distances"`
	}
	if err := s.postJSON(ctx, fmt.Sprintf("%s/api/v1/collections/%s/query", s.url, s.collectionID), body, &resp); err != nil {
		return nil, err
	}
	if len(resp.IDs) == 0 {
		return nil, nil
	}
	ids := resp.IDs[0]
	results := make([]domain.SearchResult, 0, len(ids))
	for i, id := range ids {
		r := domain.SearchResult{ID: id}
		if len(resp.Documents) > 0 && i < len(resp.Documents[0]) {
			r.Text = resp.Documents[0][i]
		}
		if len(resp.Metadatas) > 0 && i < len(resp.Metadatas[0]) {
			r.Metadata = decodeMetadata(resp.Metadatas[0][i])
		}
		if len(resp.Distances) > 0 && i < len(resp.Distances[0]) {
			r.Distance = resp.Distances[0][i]
		}
		results = append(results, r)
	}
	return results, nil
}

func encodeMetadata(m domain.Metadata) map[string]any {
	out := map[string]any{
		"title":       m.Title,
		"anchor_link": m.AnchorLink,
		"updated_at":  m.UpdatedAt.Unix(),
	}
	if m.Excerpt != "" {
		out["excerpt"] = m.Excerpt
	}
	return out
}

func decodeMetadata(raw map[string]any) domain.Metadata {
	var m domain.Metadata
	if v, ok := raw["title"].(string); ok {
		m.Title = v
	}
	if v, ok := raw["anchor_link"].(string); ok {
		m.AnchorLink = v
	}
	if v, ok := raw["excerpt"].(string); ok {
		m.Excerpt = v
	}
	switch v := raw["updated_at"].(type) {
	case float64:
		m.UpdatedAt = time.Unix(int64(v), 0)
	case int64:
		m.UpdatedAt = time.Unix(v, 0)
	}
	return m
}

func (s *Store) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	return s.do(req, out)
}

func (s *Store) postJSON(ctx context.Context, url string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return s.do(req, out)
}

func (s *Store) do(req *http.Request, out any) error {
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("chroma %s %s failed: %s", req.Method, req.URL.Path, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
