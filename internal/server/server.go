package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"

	"blogsearch/internal/domain"
	"blogsearch/internal/search"
)

// Searcher is the server-facing subset of the query service.
type Searcher interface {
	Query(ctx context.Context, query string, topK int) ([]domain.SearchResult, error)
	Collections(ctx context.Context) ([]string, error)
}

// Server is the thin HTTP wrapper around the query service. It owns no
// business logic; store failures surface as 500s with a descriptive body.
type Server struct {
	searcher Searcher
	origins  map[string]struct{}
	logger   *log.Logger
}

// New creates a server. origins lists the CORS origins allowed to call the
// API; an empty list disables CORS headers entirely.
func New(searcher Searcher, origins []string, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	return &Server{searcher: searcher, origins: allowed, logger: logger}
}

// Handler returns the route table wrapped in CORS handling.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/search", s.handleSearch)
	mux.HandleFunc("/collections", s.handleCollections)
	return s.cors(mux)
}

type searchRequest struct {
	Query    string `json:"query"`
	NResults int    `json:"n_results"`
}

type metadataPayload struct {
	Title      string `json:"title,omitempty"`
	AnchorLink string `json:"anchor_link,omitempty"`
	UpdatedAt  int64  `json:"updated_at,omitempty"`
	Excerpt    string `json:"excerpt,omitempty"`
}

type resultPayload struct {
	ID       string           `json:"id"`
	Text     string           `json:"text,omitempty"`
	Metadata *metadataPayload `json:"metadata,omitempty"`
	Distance float64          `json:"distance"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "semantic search API is running"})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	results, err := s.searcher.Query(r.Context(), req.Query, req.NResults)
	if err != nil {
		if errors.Is(err, search.ErrEmptyQuery) {
			http.Error(w, "query is required", http.StatusBadRequest)
			return
		}
		s.logger.Printf("search failed: %v", err)
		http.Error(w, "search failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	payload := make([]resultPayload, 0, len(results))
	for _, res := range results {
		payload = append(payload, toPayload(res))
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": payload})
}

func (s *Server) handleCollections(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	names, err := s.searcher.Collections(r.Context())
	if err != nil {
		s.logger.Printf("listing collections failed: %v", err)
		http.Error(w, "listing collections failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"collections": names})
}

func toPayload(res domain.SearchResult) resultPayload {
	out := resultPayload{ID: res.ID, Text: res.Text, Distance: res.Distance}
	meta := metadataPayload{
		Title:      res.Metadata.Title,
		AnchorLink: res.Metadata.AnchorLink,
		Excerpt:    res.Metadata.Excerpt,
	}
	if !res.Metadata.UpdatedAt.IsZero() {
		meta.UpdatedAt = res.Metadata.UpdatedAt.Unix()
	}
	if meta != (metadataPayload{}) {
		out.Metadata = &meta
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// cors reflects allowed origins back on every response and short-circuits
// preflight requests.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			if _, ok := s.origins[origin]; ok {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			}
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
