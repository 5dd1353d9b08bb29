// Package embeddings defines the embedding client contract shared by all
// providers.
package embeddings

import "context"

// Embedder converts text into fixed-length vector embeddings.
type Embedder interface {
	// Embed converts text into a vector embedding. The call is not
	// memoized; embedding the same text twice performs two round trips.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Close releases any resources held by the embedder.
	Close() error
}
