// Package backfill fills in embeddings and axis classifications that earlier
// ingestion runs left unset. It walks politicians without a biography
// embedding, documents with unembedded fields, and voting events without an
// assigned axis, computing the missing values in batches.
package backfill

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/plataforma-iris/iris/pkg/embeddings"
	"github.com/plataforma-iris/iris/pkg/politics"
	"github.com/plataforma-iris/iris/pkg/storage"
)

// DefaultBatchSize bounds how many rows each phase pulls per pass.
const DefaultBatchSize = 100

// Embedder is the slice of the embedding service the backfiller needs.
// Implementations return the zero-vector sentinel on failure rather than an
// error, so a failed embed is detected with embeddings.IsZero and skipped.
type Embedder interface {
	Embed(ctx context.Context, text string) []float32
}

// Reclassifier classifies and persists unclassified voting events, returning
// how many were updated. *classify.Classifier implements it.
type Reclassifier interface {
	Reclassify(ctx context.Context, store storage.Store, limit int) (int, error)
}

// Options configures backfill behavior.
type Options struct {
	// DryRun computes everything but writes nothing.
	DryRun bool

	// BatchSize bounds rows fetched per pass. Defaults to DefaultBatchSize.
	BatchSize int
}

// Backfiller computes missing embeddings and axis classifications.
type Backfiller struct {
	store      storage.Store
	embedder   Embedder
	classifier Reclassifier
	opts       Options
	logger     *zap.Logger
}

func New(store storage.Store, embedder Embedder, classifier Reclassifier, opts Options, logger *zap.Logger) *Backfiller {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Backfiller{
		store:      store,
		embedder:   embedder,
		classifier: classifier,
		opts:       opts,
		logger:     logger,
	}
}

// Run executes all three phases and returns aggregate counts. Each phase
// loops until the store reports no more candidates or a pass makes no
// progress, so a partially failing embedder cannot spin forever.
func (b *Backfiller) Run(ctx context.Context) (*Result, error) {
	result := &Result{}

	if err := b.backfillPoliticians(ctx, result); err != nil {
		return result, err
	}
	if err := b.backfillDocuments(ctx, result); err != nil {
		return result, err
	}
	if err := b.backfillVotacoes(ctx, result); err != nil {
		return result, err
	}

	return result, nil
}

func (b *Backfiller) backfillPoliticians(ctx context.Context, result *Result) error {
	for {
		candidates, err := b.store.PoliticiansMissingEmbedding(ctx, b.opts.BatchSize)
		if err != nil {
			return fmt.Errorf("listing politicians missing embeddings: %w", err)
		}
		if len(candidates) == 0 {
			return nil
		}

		wrote := 0
		for _, p := range candidates {
			emb := b.embedder.Embed(ctx, p.Biography)
			if embeddings.IsZero(emb) {
				b.logger.Warn("biography embedding unavailable, skipping",
					zap.String("politician", p.Name),
				)
				result.PoliticiansSkipped++
				continue
			}

			if b.opts.DryRun {
				result.PoliticiansEmbedded++
				continue
			}

			if err := b.store.PutPoliticianEmbedding(ctx, p.ID, emb); err != nil {
				return fmt.Errorf("storing biography embedding for %s: %w", p.Name, err)
			}
			result.PoliticiansEmbedded++
			wrote++
		}

		// Dry runs never shrink the candidate set, and neither do
		// all-skip passes.
		if b.opts.DryRun || wrote == 0 {
			return nil
		}
	}
}

func (b *Backfiller) backfillDocuments(ctx context.Context, result *Result) error {
	for {
		candidates, err := b.store.DocumentsMissingEmbeddings(ctx, b.opts.BatchSize)
		if err != nil {
			return fmt.Errorf("listing documents missing embeddings: %w", err)
		}
		if len(candidates) == 0 {
			return nil
		}

		wrote := 0
		for _, d := range candidates {
			title, ementa, content := b.documentEmbeddings(ctx, d)
			if title == nil && ementa == nil && content == nil {
				b.logger.Warn("no document field could be embedded, skipping",
					zap.String("title", d.Title),
				)
				result.DocumentsSkipped++
				continue
			}

			if b.opts.DryRun {
				result.DocumentsEmbedded++
				continue
			}

			if err := b.store.PutDocumentEmbeddings(ctx, d.ID, title, ementa, content); err != nil {
				return fmt.Errorf("storing document embeddings for %q: %w", d.Title, err)
			}
			result.DocumentsEmbedded++
			wrote++
		}

		if b.opts.DryRun || wrote == 0 {
			return nil
		}
	}
}

// documentEmbeddings computes embeddings for each unembedded field that has
// text. Already-embedded fields come back nil so the store leaves them alone.
func (b *Backfiller) documentEmbeddings(ctx context.Context, d politics.Document) (title, ementa, content []float32) {
	embed := func(text string) []float32 {
		emb := b.embedder.Embed(ctx, text)
		if embeddings.IsZero(emb) {
			return nil
		}
		return emb
	}

	if d.TitleEmbedding == nil && d.Title != "" {
		title = embed(d.Title)
	}
	if d.EmentaEmbedding == nil && d.Ementa != "" {
		ementa = embed(d.Ementa)
	}
	if d.ContentEmbedding == nil {
		if text := d.Content(); text != "" {
			content = embed(text)
		}
	}
	return title, ementa, content
}

func (b *Backfiller) backfillVotacoes(ctx context.Context, result *Result) error {
	if b.opts.DryRun {
		// Reclassification persists as it goes, so there is no dry-run
		// preview for this phase.
		b.logger.Info("dry run, skipping voting event classification")
		return nil
	}

	for {
		updated, err := b.classifier.Reclassify(ctx, b.store, b.opts.BatchSize)
		if err != nil {
			return fmt.Errorf("classifying voting events: %w", err)
		}
		result.VotacoesClassified += updated
		if updated == 0 {
			return nil
		}
	}
}
