package pipeline

import (
	"context"
	"fmt"

	"github.com/corpusware/corpusq/pkg/embeddings"
	"github.com/corpusware/corpusq/pkg/vector"
)

// Match is the best-scoring stored chunk for a query.
type Match struct {
	// ID is the point id, which equals the chunk's zero-based position
	// in the ingested corpus.
	ID uint64

	// Score is the similarity score the index reported, when it did.
	Score float32

	// Text is the chunk text from the point payload, when the index
	// returned one.
	Text string
}

// Query embeds the query text and answers the nearest stored chunk.
// An empty result list from the index maps to vector.ErrNoMatch.
func Query(ctx context.Context, text string, embedder embeddings.Embedder, driver vector.Driver, opts Options) (*Match, error) {
	log := opts.logger()

	vec, err := embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	if opts.VectorSize > 0 && len(vec) != opts.VectorSize {
		return nil, fmt.Errorf("query embedding has %d dimensions, collection expects %d", len(vec), opts.VectorSize)
	}

	results, err := driver.Search(ctx, vec)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	log.Debug("search answered", "results", len(results))

	if len(results) == 0 {
		return nil, vector.ErrNoMatch
	}

	best := results[0]
	match := &Match{
		ID:    best.ID,
		Score: best.Score,
	}
	if payloadText, ok := best.Payload["text"].(string); ok {
		match.Text = payloadText
	}

	return match, nil
}
