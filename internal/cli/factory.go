package cli

import (
	"fmt"
	"log"
	"os"
	"time"

	"blogsearch/internal/chunker"
	"blogsearch/internal/config"
	"blogsearch/internal/embedding"
	"blogsearch/internal/embedding/local"
	"blogsearch/internal/embedding/openai"
	"blogsearch/internal/excerpt"
	"blogsearch/internal/indexer"
	"blogsearch/internal/markdown"
	"blogsearch/internal/search"
	"blogsearch/internal/vectorstore"
	"blogsearch/internal/vectorstore/chroma"
	"blogsearch/internal/vectorstore/memory"
)

// newEmbedder assembles the configured embedder implementation.
func newEmbedder(cfg *config.AppConfig) (embedding.Embedder, error) {
	switch cfg.Embedder.Type {
	case "local", "":
		dimension := 0
		if cfg.Embedder.Local != nil {
			dimension = cfg.Embedder.Local.Dimension
		}
		return local.NewEmbedder(dimension), nil
	case "openai":
		ocfg := cfg.Embedder.OpenAI
		if ocfg == nil {
			return nil, fmt.Errorf("openai embedder config missing")
		}
		return openai.NewClient(openai.Config{
			BaseURL:   ocfg.BaseURL,
			APIKeyEnv: ocfg.APIKeyEnv,
			Model:     ocfg.Model,
			Timeout:   time.Duration(ocfg.TimeoutSecs) * time.Second,
		})
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Embedder.Type)
	}
}

// newStore assembles the configured vector store implementation.
func newStore(cfg *config.AppConfig) (vectorstore.Store, error) {
	switch cfg.VectorStore.Type {
	case "memory", "":
		return memory.NewStore(cfg.VectorStore.Collection), nil
	case "chroma":
		ccfg := cfg.VectorStore.Chroma
		if ccfg == nil {
			return nil, fmt.Errorf("chroma config missing")
		}
		return chroma.NewStore(chroma.Config{
			URL:        ccfg.URL,
			Collection: cfg.VectorStore.Collection,
			Timeout:    time.Duration(ccfg.TimeoutSecs) * time.Second,
		}), nil
	default:
		return nil, fmt.Errorf("unknown vector store: %s", cfg.VectorStore.Type)
	}
}

func newSearchService(cfg *config.AppConfig) (*search.Service, vectorstore.Store, error) {
	emb, err := newEmbedder(cfg)
	if err != nil {
		return nil, nil, err
	}
	store, err := newStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	return search.NewService(emb, store, cfg.Search.DefaultResults), store, nil
}

func newIndexer(cfg *config.AppConfig, force bool, logger *log.Logger) (*indexer.Indexer, error) {
	emb, err := newEmbedder(cfg)
	if err != nil {
		return nil, err
	}
	store, err := newStore(cfg)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	asm := chunker.NewAssembler(excerpt.NewBuilder(), cfg.Search.ExcerptSentences)
	return indexer.New(indexer.Config{
		Root:             cfg.Corpus.Root,
		SkipDirs:         cfg.Corpus.SkipDirs,
		Extensions:       cfg.Corpus.Extensions,
		IncludeDrafts:    cfg.Corpus.IncludeDrafts,
		Workers:          cfg.Indexer.Workers,
		MaxRetries:       cfg.Indexer.MaxRetries,
		CallTimeout:      time.Duration(cfg.Indexer.CallTimeoutSecs) * time.Second,
		ReindexUnchanged: cfg.Indexer.ReindexUnchanged || force,
	}, markdown.NewParser(), asm, emb, store, logger), nil
}
