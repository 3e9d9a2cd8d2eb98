package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "content", cfg.Corpus.Root)
	assert.Equal(t, "local", cfg.Embedder.Type)
	assert.Equal(t, "memory", cfg.VectorStore.Type)
	assert.Equal(t, "blog", cfg.VectorStore.Collection)
	assert.Equal(t, 4, cfg.Indexer.Workers)
	assert.Equal(t, 5, cfg.Search.DefaultResults)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadAppliesDefaultsToPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "corpus:\n  root: /srv/blog/content\nvector_store:\n  type: chroma\n  chroma:\n    url: http://localhost:8000\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/blog/content", cfg.Corpus.Root)
	assert.Equal(t, "chroma", cfg.VectorStore.Type)
	require.NotNil(t, cfg.VectorStore.Chroma)
	assert.Equal(t, "http://localhost:8000", cfg.VectorStore.Chroma.URL)

	// unset fields fall back
	assert.Equal(t, "blog", cfg.VectorStore.Collection)
	assert.Equal(t, 4, cfg.Indexer.Workers)
	assert.Equal(t, 3, cfg.Indexer.MaxRetries)
	assert.Equal(t, 30, cfg.Indexer.CallTimeoutSecs)
	assert.Equal(t, 2, cfg.Search.ExcerptSentences)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("corpus: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadOpenAIDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "embedder:\n  type: openai\n  openai:\n    model: \"\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Embedder.OpenAI)

	assert.Equal(t, "https://api.openai.com/v1", cfg.Embedder.OpenAI.BaseURL)
	assert.Equal(t, "OPENAI_API_KEY", cfg.Embedder.OpenAI.APIKeyEnv)
	assert.Equal(t, "text-embedding-3-small", cfg.Embedder.OpenAI.Model)
	assert.Equal(t, 30, cfg.Embedder.OpenAI.TimeoutSecs)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "config.yaml")
	cfg := defaultConfig()
	cfg.Corpus.Root = "/var/posts"
	cfg.Server.CORSOrigins = []string{"https://blog.example.com"}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
