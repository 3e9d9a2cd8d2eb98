package indexer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"blogsearch/internal/chunker"
	"blogsearch/internal/domain"
	"blogsearch/internal/embedding"
	"blogsearch/internal/markdown"
	"blogsearch/internal/vectorstore"
)

// Config controls a corpus indexing run.
type Config struct {
	Root             string
	SkipDirs         []string
	Extensions       []string
	IncludeDrafts    bool
	Workers          int
	MaxRetries       int
	CallTimeout      time.Duration
	ReindexUnchanged bool
}

// Summary reports the outcome of one corpus pass.
type Summary struct {
	Documents int // documents fully processed
	Chunks    int // chunks embedded and upserted
	Unchanged int // chunks skipped because their source was unmodified
	Skipped   int // documents skipped (missing id, drafts)
	Failed    int // documents or chunks that failed after retries
}

// Indexer walks a markdown corpus and upserts one chunk per heading-scoped
// section into the vector store. Documents are independent, so they are
// processed by a bounded pool of workers; the store client is the only
// shared resource and every external call carries its own timeout.
type Indexer struct {
	cfg      Config
	parser   *markdown.Parser
	asm      *chunker.Assembler
	embedder embedding.Embedder
	store    vectorstore.Store
	logger   *log.Logger
	skipDirs map[string]struct{}
	exts     map[string]struct{}
}

// New builds an indexer. Zero config fields get conservative defaults.
func New(cfg Config, parser *markdown.Parser, asm *chunker.Assembler, embedder embedding.Embedder, store vectorstore.Store, logger *log.Logger) *Indexer {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 30 * time.Second
	}
	if len(cfg.SkipDirs) == 0 {
		cfg.SkipDirs = []string{"node_modules", ".git", ".obsidian", "venv", ".venv"}
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = []string{".md", ".markdown"}
	}
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	ix := &Indexer{
		cfg:      cfg,
		parser:   parser,
		asm:      asm,
		embedder: embedder,
		store:    store,
		logger:   logger,
		skipDirs: map[string]struct{}{},
		exts:     map[string]struct{}{},
	}
	for _, d := range cfg.SkipDirs {
		ix.skipDirs[d] = struct{}{}
	}
	for _, e := range cfg.Extensions {
		ix.exts[strings.ToLower(e)] = struct{}{}
	}
	return ix
}

// Run indexes the corpus. A missing or unreadable root and an unreachable
// store are fatal; anything wrong with an individual document is reported
// and counted, and the run continues. Re-running over an unchanged corpus
// is idempotent.
func (ix *Indexer) Run(ctx context.Context) (Summary, error) {
	if ix.cfg.Root == "" {
		return Summary{}, errors.New("corpus root is required")
	}
	info, err := os.Stat(ix.cfg.Root)
	if err != nil {
		return Summary{}, fmt.Errorf("corpus root: %w", err)
	}
	if !info.IsDir() {
		return Summary{}, fmt.Errorf("corpus root %s is not a directory", ix.cfg.Root)
	}
	if err := ix.withTimeout(ctx, ix.store.EnsureCollection); err != nil {
		return Summary{}, fmt.Errorf("vector store: %w", err)
	}

	paths, err := ix.candidates()
	if err != nil {
		return Summary{}, err
	}

	var (
		mu      sync.Mutex
		summary Summary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ix.cfg.Workers)
	for _, path := range paths {
		path := path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := ix.processFile(gctx, path)
			mu.Lock()
			summary.Documents += res.documents
			summary.Chunks += res.chunks
			summary.Unchanged += res.unchanged
			summary.Skipped += res.skipped
			summary.Failed += res.failed
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return summary, err
	}
	return summary, nil
}

// candidates enumerates corpus files, filtering hidden path components,
// configured skip directories and non-markdown extensions.
func (ix *Indexer) candidates() ([]string, error) {
	var paths []string
	err := filepath.WalkDir(ix.cfg.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path == ix.cfg.Root {
				return nil
			}
			if strings.HasPrefix(name, ".") {
				return fs.SkipDir
			}
			if _, ok := ix.skipDirs[name]; ok {
				return fs.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}
		if _, ok := ix.exts[strings.ToLower(filepath.Ext(name))]; !ok {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk corpus: %w", err)
	}
	return paths, nil
}

type fileResult struct {
	documents int
	chunks    int
	unchanged int
	skipped   int
	failed    int
}

func (ix *Indexer) processFile(ctx context.Context, path string) fileResult {
	doc, ok, res := ix.loadDocument(path)
	if !ok {
		return res
	}

	nodes := ix.parser.Parse([]byte(doc.Body))
	sections := chunker.ExtractSections(nodes, []string{doc.Title})

	chunks := make([]domain.Chunk, 0, len(sections))
	seen := map[string]struct{}{}
	for i, section := range sections {
		chunk, err := ix.asm.Assemble(doc, section, i)
		if err != nil {
			ix.logger.Printf("skipping %s: %v", path, err)
			return fileResult{skipped: 1}
		}
		if _, dup := seen[chunk.ID]; dup {
			// duplicate headings collapse to one record, last write wins
			ix.logger.Printf("%s: duplicate chunk id %q", path, chunk.ID)
		}
		seen[chunk.ID] = struct{}{}
		chunks = append(chunks, chunk)
	}
	if len(chunks) == 0 {
		return fileResult{documents: 1}
	}

	stored := ix.storedMetadata(ctx, path, chunks)

	var out fileResult
	out.documents = 1
	for _, chunk := range chunks {
		if prev, ok := stored[chunk.ID]; ok && prev.UpdatedAt.Unix() == chunk.Metadata.UpdatedAt.Unix() {
			out.unchanged++
			continue
		}
		if err := ix.upsertChunk(ctx, chunk); err != nil {
			ix.logger.Printf("%s: chunk %s failed: %v", path, chunk.ID, err)
			out.failed++
			continue
		}
		out.chunks++
	}
	return out
}

// loadDocument reads the file and its front matter. ok is false when the
// document cannot be processed; res then carries the skip/failure count.
func (ix *Indexer) loadDocument(path string) (domain.Document, bool, fileResult) {
	data, err := os.ReadFile(path)
	if err != nil {
		ix.logger.Printf("reading %s failed: %v", path, err)
		return domain.Document{}, false, fileResult{failed: 1}
	}
	fm, body, err := markdown.ParseFrontMatter(data)
	if err != nil {
		ix.logger.Printf("parsing %s failed: %v", path, err)
		return domain.Document{}, false, fileResult{failed: 1}
	}
	if fm.Draft && !ix.cfg.IncludeDrafts {
		return domain.Document{}, false, fileResult{skipped: 1}
	}
	if fm.ID == "" {
		ix.logger.Printf("the post %s is missing an 'id' field, skipping", path)
		return domain.Document{}, false, fileResult{skipped: 1}
	}
	info, err := os.Stat(path)
	if err != nil {
		ix.logger.Printf("reading %s failed: %v", path, err)
		return domain.Document{}, false, fileResult{failed: 1}
	}
	rel, err := filepath.Rel(ix.cfg.Root, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel))
	doc := domain.Document{
		ID:       fm.ID,
		Title:    fm.Title,
		Path:     path,
		RelPath:  filepath.ToSlash(rel),
		Body:     string(body),
		Modified: info.ModTime(),
		Draft:    fm.Draft,
	}
	return doc, true, fileResult{}
}

// storedMetadata fetches existing records for change detection. A fetch
// failure only disables the optimization for this document.
func (ix *Indexer) storedMetadata(ctx context.Context, path string, chunks []domain.Chunk) map[string]domain.Metadata {
	if ix.cfg.ReindexUnchanged {
		return nil
	}
	ids := make([]string, len(chunks))
	for i, c := range chunks {
		ids[i] = c.ID
	}
	var stored map[string]domain.Metadata
	err := ix.withTimeout(ctx, func(callCtx context.Context) error {
		var err error
		stored, err = ix.store.Fetch(callCtx, ids)
		return err
	})
	if err != nil {
		ix.logger.Printf("%s: fetching stored metadata failed, re-embedding: %v", path, err)
		return nil
	}
	return stored
}

func (ix *Indexer) upsertChunk(ctx context.Context, chunk domain.Chunk) error {
	var vector []float64
	err := ix.withRetry(ctx, func(callCtx context.Context) error {
		var err error
		vector, err = ix.embedder.Embed(callCtx, chunk.EmbeddingText)
		return err
	})
	if err != nil {
		return fmt.Errorf("embed: %w", err)
	}
	entry := vectorstore.Entry{
		ID:       chunk.ID,
		Vector:   vector,
		Metadata: chunk.Metadata,
		Text:     chunk.EmbeddingText,
	}
	err = ix.withRetry(ctx, func(callCtx context.Context) error {
		return ix.store.Upsert(callCtx, []vectorstore.Entry{entry})
	})
	if err != nil {
		return fmt.Errorf("upsert: %w", err)
	}
	return nil
}

// withRetry runs op with a per-call timeout, retrying transient failures a
// bounded number of times with exponential backoff.
func (ix *Indexer) withRetry(ctx context.Context, op func(context.Context) error) error {
	var err error
	for attempt := 0; attempt <= ix.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryDelay(attempt - 1)):
			}
		}
		if err = ix.withTimeout(ctx, op); err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return err
}

func (ix *Indexer) withTimeout(ctx context.Context, op func(context.Context) error) error {
	callCtx, cancel := context.WithTimeout(ctx, ix.cfg.CallTimeout)
	defer cancel()
	return op(callCtx)
}

func retryDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	base := 200 * time.Millisecond
	d := base << attempt
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}
