// Package pipeline provides the ingestion and query orchestration for
// semantic search over a text corpus. It wires a chunker, an embeddings
// provider and a vector index driver together; the CLI layer owns
// construction of both ends.
package pipeline

import (
	"log/slog"

	"github.com/corpusware/corpusq/pkg/logger"
)

// DefaultWorkers is the number of concurrent embedding calls used when
// Options.Workers is unset.
const DefaultWorkers = 4

// Options tunes a pipeline run.
type Options struct {
	// VectorSize is the dimensionality the target collection declares.
	// Every embedding is checked against it before upload; zero disables
	// the check.
	VectorSize int

	// Workers bounds concurrent embedding calls during ingestion.
	// Defaults to DefaultWorkers; never exceeds the chunk count.
	Workers int

	// OnProgress, when set, fires after each chunk embeds. Calls are
	// serialized and done is strictly increasing.
	OnProgress func(done, total int)

	// Logger receives debug breadcrumbs. Defaults to a discard logger.
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return logger.Nop()
	}
	return o.Logger
}

func (o Options) workers(jobs int) int {
	workers := o.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if workers > jobs {
		workers = jobs
	}
	return workers
}
