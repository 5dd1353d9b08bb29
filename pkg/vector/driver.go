// Package vector defines the vector index contract: collection provisioning,
// idempotent-by-id point upserts, and nearest-neighbor search.
package vector

import "context"

// Distance is the metric a collection uses to compare vectors. The values
// are the exact strings the index service accepts on the wire.
type Distance string

const (
	DistanceCosine    Distance = "Cosine"
	DistanceEuclidean Distance = "Euclidean"
	DistanceDot       Distance = "Dot"
)

// Point is one stored unit: an identifier, an embedding vector, and an
// arbitrary payload. The id is the dedup key; upserting the same id twice
// replaces the stored vector and payload.
type Point struct {
	// ID is a non-negative identifier unique within a collection.
	ID uint64

	// Vector is the embedding. Its length must equal the collection's
	// declared vector size.
	Vector []float32

	// Payload is arbitrary metadata stored alongside the vector.
	Payload map[string]any
}

// ScoredPoint is one search match with its similarity score.
type ScoredPoint struct {
	ID      uint64
	Score   float32
	Payload map[string]any
}

// Driver handles collection provisioning and the storage and retrieval of
// vector points in an external index service.
type Driver interface {
	// EnsureCollection creates the driver's configured collection with its
	// declared vector size and distance metric. Re-creating an existing
	// collection with the same parameters succeeds without side effects.
	EnsureCollection(ctx context.Context) error

	// UpsertPoints stores the batch as a single request. Point id is the
	// overwrite key, so re-upserting an id replaces the stored point.
	UpsertPoints(ctx context.Context, points []Point) error

	// Search returns stored points nearest to the given vector, ordered
	// best-first. An empty result is not an error; callers decide whether
	// no match is a failure.
	Search(ctx context.Context, vector []float32) ([]ScoredPoint, error)

	// Close releases any resources held by the driver.
	Close() error
}
