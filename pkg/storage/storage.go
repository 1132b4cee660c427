// Package storage defines the collaborator storage contract consumed by the
// retrieval and classification engine. The engine only requires lexical and
// embedding-similarity search over politicians and documents, embedding
// reads/writes, the query-embedding cache, and append-only chat persistence;
// schema management and bulk ingestion live elsewhere.
package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/plataforma-iris/iris/pkg/politics"
)

// PoliticianMatch is a politician returned by similarity search.
type PoliticianMatch struct {
	politics.Politician

	// Similarity is the cosine similarity against the query embedding.
	Similarity float32
}

// DocumentMatch is a document returned by similarity search. Similarity is
// the maximum over the document's embedded fields.
type DocumentMatch struct {
	politics.Document

	Similarity float32
}

// Store is the persistence contract for the engine. All search methods
// return empty slices, not errors, when nothing matches.
type Store interface {
	// SearchPoliticians performs lexical substring search over
	// name/party/state/role, ordered by name.
	SearchPoliticians(ctx context.Context, terms []string, limit int) ([]politics.Politician, error)

	// SimilarPoliticians returns active politicians whose biography embedding
	// is within threshold cosine similarity of the query embedding, most
	// similar first.
	SimilarPoliticians(ctx context.Context, embedding []float32, threshold float32, limit int) ([]PoliticianMatch, error)

	// ListPoliticians returns all politicians ordered by name.
	ListPoliticians(ctx context.Context) ([]politics.Politician, error)

	// VotesForPolitician returns the politician's recorded votes joined with
	// their documents, in stable document order.
	VotesForPolitician(ctx context.Context, politicianID uuid.UUID) ([]politics.Vote, error)

	// SearchDocuments performs lexical substring search over
	// title/ementa/summary/content, newest first.
	SearchDocuments(ctx context.Context, terms []string, limit int) ([]politics.Document, error)

	// SimilarDocuments returns documents whose best embedded field is within
	// threshold cosine similarity of the query embedding.
	SimilarDocuments(ctx context.Context, embedding []float32, threshold float32, limit int) ([]DocumentMatch, error)

	// PutPoliticianEmbedding writes the biography embedding for a politician.
	PutPoliticianEmbedding(ctx context.Context, politicianID uuid.UUID, embedding []float32) error

	// PutDocumentEmbeddings writes the per-field embeddings for a document.
	// Nil slices leave the corresponding column untouched.
	PutDocumentEmbeddings(ctx context.Context, documentID uuid.UUID, title, ementa, content []float32) error

	// PoliticiansMissingEmbedding returns politicians that have a biography
	// but no biography embedding.
	PoliticiansMissingEmbedding(ctx context.Context, limit int) ([]politics.Politician, error)

	// DocumentsMissingEmbeddings returns documents with at least one embedded
	// field unset.
	DocumentsMissingEmbeddings(ctx context.Context, limit int) ([]politics.Document, error)

	// UnclassifiedVotacoes returns voting events without an assigned axis.
	UnclassifiedVotacoes(ctx context.Context, limit int) ([]politics.Votacao, error)

	// PutVotacaoAxis assigns or replaces the axis classification of a voting
	// event.
	PutVotacaoAxis(ctx context.Context, votacaoID uuid.UUID, axis politics.Axis, confidence float64, method politics.ClassificationMethod) error

	// CachedEmbedding returns the cache entry for hash, or nil when absent.
	CachedEmbedding(ctx context.Context, hash string) (*politics.CachedEmbedding, error)

	// PutCachedEmbedding stores a cache entry. A duplicate hash is a no-op.
	PutCachedEmbedding(ctx context.Context, entry politics.CachedEmbedding) error

	// DeleteCachedEmbedding drops a cache entry, typically after it was found
	// corrupt. Deleting an absent entry is not an error.
	DeleteCachedEmbedding(ctx context.Context, hash string) error

	// AppendSessionMessage appends one turn to a conversation session.
	AppendSessionMessage(ctx context.Context, msg politics.SessionMessage) error

	// SessionHistory returns the oldest limit messages of a session in
	// chronological order.
	SessionHistory(ctx context.Context, sessionID string, limit int) ([]politics.SessionMessage, error)

	// AppendResponseLog appends one exchange to the append-only response log.
	AppendResponseLog(ctx context.Context, entry politics.ResponseLog) error

	// Close releases any resources held by the store.
	Close() error
}
