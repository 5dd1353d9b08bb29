package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/corpusware/corpusq/pkg/chunker"
	"github.com/corpusware/corpusq/pkg/embeddings"
	"github.com/corpusware/corpusq/pkg/vector"
)

// IngestResult summarizes a completed ingestion run.
type IngestResult struct {
	// Chunks is the number of chunks the corpus split into.
	Chunks int

	// Points is the number of points uploaded to the index.
	Points int
}

// Ingest chunks the corpus, embeds every chunk and uploads the resulting
// points into the vector index. Point ids are the zero-based chunk
// positions, so re-ingesting the same corpus overwrites the same points.
// Any failure aborts the run at that stage; nothing is rolled back.
func Ingest(ctx context.Context, corpus string, embedder embeddings.Embedder, driver vector.Driver, opts Options) (*IngestResult, error) {
	log := opts.logger()

	chunks := chunker.Split(corpus)
	log.Debug("corpus chunked", "chunks", len(chunks))

	points, err := embedChunks(ctx, chunks, embedder, opts)
	if err != nil {
		return nil, err
	}

	if err := driver.EnsureCollection(ctx); err != nil {
		return nil, fmt.Errorf("provisioning collection: %w", err)
	}

	if len(points) > 0 {
		if err := driver.UpsertPoints(ctx, points); err != nil {
			return nil, fmt.Errorf("uploading points: %w", err)
		}
	}

	log.Debug("ingest finished", "chunks", len(chunks), "points", len(points))

	return &IngestResult{
		Chunks: len(chunks),
		Points: len(points),
	}, nil
}

// embedChunks runs the embedding calls through a bounded worker pool.
// Ids are assigned from chunk positions before dispatch and results land
// in an id-addressed slice, so point order never depends on completion
// order. The first failure cancels the shared context and wins.
func embedChunks(parent context.Context, chunks []string, embedder embeddings.Embedder, opts Options) ([]vector.Point, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	workers := opts.workers(len(chunks))
	opts.logger().Debug("embedding chunks", "chunks", len(chunks), "workers", workers)

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
		done     int
	)

	fail := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
	}

	jobs := make(chan int)
	points := make([]vector.Point, len(chunks))

	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for id := range jobs {
				vec, err := embedder.Embed(ctx, chunks[id])
				if err != nil {
					fail(fmt.Errorf("embedding chunk %d: %w", id, err))
					continue
				}

				if opts.VectorSize > 0 && len(vec) != opts.VectorSize {
					fail(fmt.Errorf("chunk %d: embedding has %d dimensions, collection expects %d", id, len(vec), opts.VectorSize))
					continue
				}

				points[id] = vector.Point{
					ID:      uint64(id),
					Vector:  vec,
					Payload: map[string]any{"text": chunks[id]},
				}

				mu.Lock()
				done++
				if opts.OnProgress != nil {
					opts.OnProgress(done, len(chunks))
				}
				mu.Unlock()
			}
		}()
	}

feed:
	for id := range chunks {
		select {
		case jobs <- id:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	mu.Lock()
	err := firstErr
	mu.Unlock()
	if err != nil {
		return nil, err
	}
	if err := parent.Err(); err != nil {
		return nil, err
	}

	return points, nil
}
