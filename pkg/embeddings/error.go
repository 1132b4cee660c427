package embeddings

import "errors"

var (
	// ErrEmbedding is returned when embedding generation fails.
	ErrEmbedding = errors.New("embedding failed")

	// ErrConnection is returned when the embedding backend is unreachable.
	ErrConnection = errors.New("embedding backend connection failed")
)
