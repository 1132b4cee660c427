// Package service implements the embedding service: lazy one-time provider
// initialization, sentinel degradation on failure, and a content-hash query
// cache with asynchronous best-effort persistence.
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/plataforma-iris/iris/pkg/embeddings"
	"github.com/plataforma-iris/iris/pkg/politics"
)

const (
	// DefaultCharBudget is the maximum number of characters encoded per text.
	// Longer inputs are truncated deterministically, not rejected.
	DefaultCharBudget = 512

	// maxCachedTextChars bounds the original text stored alongside a cache
	// entry. The hash, not the text, is the key.
	maxCachedTextChars = 500

	defaultQueueSize = 256

	cacheWriteTimeout = 10 * time.Second
)

// Cache is the slice of the collaborator storage contract the service needs:
// content-hash keyed embedding entries with idempotent writes.
type Cache interface {
	CachedEmbedding(ctx context.Context, hash string) (*politics.CachedEmbedding, error)
	PutCachedEmbedding(ctx context.Context, entry politics.CachedEmbedding) error
	DeleteCachedEmbedding(ctx context.Context, hash string) error
}

// Config holds construction options for the Service.
type Config struct {
	// Factory constructs the underlying embedder. It is invoked lazily, at
	// most once per process; concurrent first callers block on the same
	// initialization.
	Factory func() (embeddings.Embedder, error)

	// Cache is the query-embedding cache backend. Optional; without it
	// QueryEmbedding degrades to Embed.
	Cache Cache

	// Dimensions is the fixed embedding dimension. Defaults to
	// embeddings.Dimensions.
	Dimensions int

	// CharBudget is the truncation budget applied before encoding.
	// Defaults to DefaultCharBudget.
	CharBudget int

	// QueueSize is the capacity of the asynchronous cache-write queue.
	QueueSize int

	Logger *zap.Logger
}

// Service generates and caches fixed-dimension text embeddings. All failure
// modes degrade to the zero-vector sentinel so downstream consumers never
// special-case embedding errors. Callers therefore cannot distinguish "no
// signal" from "failed to compute"; failures are still logged at warn.
type Service struct {
	cfg    Config
	logger *zap.Logger

	mu       sync.Mutex
	embedder embeddings.Embedder

	queue chan politics.CachedEmbedding
	wg    sync.WaitGroup
	once  sync.Once
}

// New creates the embedding service and starts its cache writer.
func New(cfg Config) *Service {
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = embeddings.Dimensions
	}
	if cfg.CharBudget <= 0 {
		cfg.CharBudget = DefaultCharBudget
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	s := &Service{
		cfg:    cfg,
		logger: cfg.Logger,
		queue:  make(chan politics.CachedEmbedding, cfg.QueueSize),
	}

	s.wg.Add(1)
	go s.cacheWriter()

	return s
}

// Dimensions returns the fixed embedding dimension.
func (s *Service) Dimensions() int {
	return s.cfg.Dimensions
}

// Hash returns the content hash that keys a cache entry for text.
func Hash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// ensureEmbedder lazily constructs the underlying embedder. Concurrent first
// callers serialize on the mutex; a failed construction is retried by the
// next caller.
func (s *Service) ensureEmbedder() (embeddings.Embedder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.embedder != nil {
		return s.embedder, nil
	}

	embedder, err := s.cfg.Factory()
	if err != nil {
		return nil, err
	}

	s.embedder = embedder
	return embedder, nil
}

// Embed returns the embedding for text, always exactly Dimensions finite
// components. Empty or whitespace-only input returns the sentinel without
// touching the model; so does any model or encoding failure.
func (s *Service) Embed(ctx context.Context, text string) []float32 {
	clean := strings.TrimSpace(text)
	if clean == "" {
		return embeddings.Zero(s.cfg.Dimensions)
	}

	clean = strings.ReplaceAll(clean, "\n", " ")
	// The budget counts characters, not bytes; slicing bytes would split
	// multibyte runes and hand the model invalid UTF-8.
	clean = truncate(clean, s.cfg.CharBudget)

	embedder, err := s.ensureEmbedder()
	if err != nil {
		s.logger.Error("embedder initialization failed", zap.Error(err))
		return embeddings.Zero(s.cfg.Dimensions)
	}

	raw, err := embedder.Embed(ctx, clean)
	if err != nil {
		s.logger.Error("embedding generation failed", zap.Error(err))
		return embeddings.Zero(s.cfg.Dimensions)
	}

	return embeddings.Normalize(raw, s.cfg.Dimensions)
}

// QueryEmbedding returns the cached embedding for text, computing and
// caching it on a miss. The cache write happens asynchronously; the caller
// never waits on, or fails because of, cache persistence.
func (s *Service) QueryEmbedding(ctx context.Context, text string) []float32 {
	if strings.TrimSpace(text) == "" {
		return embeddings.Zero(s.cfg.Dimensions)
	}

	if s.cfg.Cache == nil {
		return s.Embed(ctx, text)
	}

	hash := Hash(text)
	if cached := s.lookup(ctx, hash); cached != nil {
		return cached
	}

	embedding := s.Embed(ctx, text)

	entry := politics.CachedEmbedding{
		Hash:      hash,
		Text:      truncate(text, maxCachedTextChars),
		Embedding: embedding,
	}
	select {
	case s.queue <- entry:
	default:
		s.logger.Warn("cache write queue full, dropping entry", zap.String("hash", hash))
	}

	return embedding
}

// lookup fetches and revalidates a cache entry. Corrupt entries (wrong
// dimension or non-finite components) are deleted so they can be regenerated.
func (s *Service) lookup(ctx context.Context, hash string) []float32 {
	entry, err := s.cfg.Cache.CachedEmbedding(ctx, hash)
	if err != nil {
		s.logger.Warn("cache lookup failed", zap.Error(err))
		return nil
	}
	if entry == nil {
		return nil
	}

	if !embeddings.Valid(entry.Embedding, s.cfg.Dimensions) {
		s.logger.Warn("discarding corrupt cache entry", zap.String("hash", hash))
		if err := s.cfg.Cache.DeleteCachedEmbedding(ctx, hash); err != nil {
			s.logger.Warn("failed to delete corrupt cache entry", zap.Error(err))
		}
		return nil
	}

	return entry.Embedding
}

// cacheWriter drains the write queue. Failures are logged and dropped;
// writes are idempotent so concurrent duplicates are harmless.
func (s *Service) cacheWriter() {
	defer s.wg.Done()

	for entry := range s.queue {
		ctx, cancel := context.WithTimeout(context.Background(), cacheWriteTimeout)
		if err := s.cfg.Cache.PutCachedEmbedding(ctx, entry); err != nil {
			s.logger.Warn("cache write failed", zap.String("hash", entry.Hash), zap.Error(err))
		}
		cancel()
	}
}

// Close flushes pending cache writes and releases the embedder.
func (s *Service) Close() error {
	s.once.Do(func() {
		close(s.queue)
	})
	s.wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.embedder != nil {
		return s.embedder.Close()
	}
	return nil
}

// truncate keeps the first n characters. len(s) is a byte count, so the
// fast path only short-circuits strings that cannot exceed n runes.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
