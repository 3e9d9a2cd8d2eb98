package chroma

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogsearch/internal/domain"
	"blogsearch/internal/vectorstore"
)

// fakeChroma implements the handful of REST endpoints the store uses and
// records request bodies for assertions.
type fakeChroma struct {
	upsertBody map[string]any
	getBody    map[string]any
	queryBody  map[string]any
	queryResp  map[string]any
	getResp    map[string]any
}

func (f *fakeChroma) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/collections", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			writeResp(w, map[string]any{"id": "col-1", "name": "blog"})
		case http.MethodGet:
			writeResp(w, []map[string]any{{"id": "col-1", "name": "blog"}, {"id": "col-2", "name": "notes"}})
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/api/v1/collections/col-1/upsert", func(w http.ResponseWriter, r *http.Request) {
		f.upsertBody = readBody(r)
		writeResp(w, map[string]any{})
	})
	mux.HandleFunc("/api/v1/collections/col-1/get", func(w http.ResponseWriter, r *http.Request) {
		f.getBody = readBody(r)
		writeResp(w, f.getResp)
	})
	mux.HandleFunc("/api/v1/collections/col-1/query", func(w http.ResponseWriter, r *http.Request) {
		f.queryBody = readBody(r)
		writeResp(w, f.queryResp)
	})
	return mux
}

func readBody(r *http.Request) map[string]any {
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)
	return body
}

func writeResp(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

func metadataFixture() domain.Metadata {
	return domain.Metadata{
		Title:      "Sets",
		AnchorLink: "/posts/sets#intro",
		UpdatedAt:  time.Unix(1700000000, 0),
	}
}

func newTestStore(t *testing.T, fake *fakeChroma) *Store {
	t.Helper()
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	store := NewStore(Config{URL: srv.URL, Collection: "blog"})
	require.NoError(t, store.EnsureCollection(context.Background()))
	return store
}

func TestEnsureCollectionResolvesID(t *testing.T) {
	store := newTestStore(t, &fakeChroma{})
	assert.Equal(t, "col-1", store.collectionID)
}

func TestEnsureCollectionValidatesConfig(t *testing.T) {
	assert.Error(t, NewStore(Config{Collection: "blog"}).EnsureCollection(context.Background()))
	assert.Error(t, NewStore(Config{URL: "http://localhost"}).EnsureCollection(context.Background()))
}

func TestCollections(t *testing.T) {
	store := newTestStore(t, &fakeChroma{})
	names, err := store.Collections(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"blog", "notes"}, names)
}

func TestUpsertSendsParallelArrays(t *testing.T) {
	fake := &fakeChroma{}
	store := newTestStore(t, fake)

	entries := []vectorstore.Entry{
		{
			ID:       "42-intro",
			Vector:   []float64{0.1, 0.2},
			Text:     "Sets > Intro: Hello world.",
			Metadata: metadataFixture(),
		},
	}
	require.NoError(t, store.Upsert(context.Background(), entries))
	require.NotNil(t, fake.upsertBody)

	assert.Equal(t, []any{"42-intro"}, fake.upsertBody["ids"])
	assert.Equal(t, []any{"Sets > Intro: Hello world."}, fake.upsertBody["documents"])

	metas, ok := fake.upsertBody["metadatas"].([]any)
	require.True(t, ok)
	require.Len(t, metas, 1)
	meta := metas[0].(map[string]any)
	assert.Equal(t, "Sets", meta["title"])
	assert.Equal(t, "/posts/sets#intro", meta["anchor_link"])
	assert.EqualValues(t, metadataFixture().UpdatedAt.Unix(), meta["updated_at"])
}

func TestUpsertRequiresInitializedCollection(t *testing.T) {
	store := NewStore(Config{URL: "http://localhost", Collection: "blog"})
	err := store.Upsert(context.Background(), []vectorstore.Entry{{ID: "x"}})
	assert.Error(t, err)
}

func TestUpsertEmptyBatchIsNoop(t *testing.T) {
	fake := &fakeChroma{}
	store := newTestStore(t, fake)
	require.NoError(t, store.Upsert(context.Background(), nil))
	assert.Nil(t, fake.upsertBody)
}

func TestFetchDecodesMetadata(t *testing.T) {
	fake := &fakeChroma{
		getResp: map[string]any{
			"ids": []string{"42-intro"},
			"metadatas": []map[string]any{{
				"title":       "Sets",
				"anchor_link": "/posts/sets#intro",
				"updated_at":  1700000000,
				"excerpt":     "Hello world.",
			}},
		},
	}
	store := newTestStore(t, fake)

	got, err := store.Fetch(context.Background(), []string{"42-intro"})
	require.NoError(t, err)
	require.Len(t, got, 1)

	meta := got["42-intro"]
	assert.Equal(t, "Sets", meta.Title)
	assert.Equal(t, "/posts/sets#intro", meta.AnchorLink)
	assert.Equal(t, "Hello world.", meta.Excerpt)
	assert.Equal(t, time.Unix(1700000000, 0), meta.UpdatedAt)
}

func TestFetchEmptyIDList(t *testing.T) {
	fake := &fakeChroma{}
	store := newTestStore(t, fake)

	got, err := store.Fetch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Nil(t, fake.getBody)
}

func TestQueryParsesNestedArrays(t *testing.T) {
	fake := &fakeChroma{
		queryResp: map[string]any{
			"ids":       [][]string{{"a", "b"}},
			"documents": [][]string{{"text a", "text b"}},
			"metadatas": [][]map[string]any{{
				{"title": "A", "anchor_link": "/a#h"},
				{"title": "B", "anchor_link": "/b#h"},
			}},
			"distances": [][]float64{{0.1, 0.4}},
		},
	}
	store := newTestStore(t, fake)

	results, err := store.Query(context.Background(), []float64{0.5, 0.5}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "a", results[0].ID)
	assert.Equal(t, "text a", results[0].Text)
	assert.Equal(t, "A", results[0].Metadata.Title)
	assert.InDelta(t, 0.1, results[0].Distance, 1e-9)
	assert.Equal(t, "b", results[1].ID)

	assert.EqualValues(t, 2, fake.queryBody["n_results"])
}

func TestQueryToleratesMissingOptionalFields(t *testing.T) {
	fake := &fakeChroma{
		queryResp: map[string]any{
			"ids": [][]string{{"a"}},
		},
	}
	store := newTestStore(t, fake)

	results, err := store.Query(context.Background(), []float64{1}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].ID)
	assert.Empty(t, results[0].Text)
	assert.Zero(t, results[0].Distance)
}

func TestQueryEmptyResponse(t *testing.T) {
	fake := &fakeChroma{queryResp: map[string]any{"ids": [][]string{}}}
	store := newTestStore(t, fake)

	results, err := store.Query(context.Background(), []float64{1}, 1)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestErrorStatusSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	store := NewStore(Config{URL: srv.URL, Collection: "blog"})
	err := store.EnsureCollection(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}
