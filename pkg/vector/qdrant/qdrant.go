// Package qdrant provides a Qdrant vector index driver over its HTTP REST API.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/corpusware/corpusq/pkg/vector"
)

const (
	// DefaultURL is the default Qdrant server URL.
	DefaultURL = "http://localhost:6333"

	// DefaultCollection is the default collection name.
	DefaultCollection = "registration_collection"

	// DefaultVectorSize matches the all-MiniLM-L6-v2 embedding dimensionality.
	DefaultVectorSize = 384

	// DefaultDistance is the default distance metric.
	DefaultDistance = vector.DistanceCosine

	defaultTimeout       = 60 * time.Second
	defaultMaxRetries    = 3
	defaultRetryDelay    = 500 * time.Millisecond
	defaultMaxRetryDelay = 5 * time.Second
)

// Driver implements vector.Driver using Qdrant's collections REST API.
type Driver struct {
	baseURL    string
	collection string
	vectorSize int
	distance   vector.Distance
	httpClient *http.Client
	logger     *slog.Logger

	maxRetries    int
	retryDelay    time.Duration
	maxRetryDelay time.Duration
}

// Config holds configuration for the Qdrant driver.
type Config struct {
	// URL is the Qdrant server URL (e.g., "http://localhost:6333").
	// Defaults to DefaultURL if empty.
	URL string

	// Collection is the name of the collection to use.
	// Defaults to DefaultCollection if empty.
	Collection string

	// VectorSize is the dimensionality declared when the collection is
	// created. Every stored point and query vector must match it.
	// Defaults to DefaultVectorSize if zero.
	VectorSize int

	// Distance is the distance metric declared when the collection is
	// created. Defaults to DefaultDistance if empty.
	Distance vector.Distance

	// Timeout bounds each request to the index service. Defaults to 60s.
	Timeout time.Duration

	// MaxRetries is the number of attempts EnsureCollection makes while
	// the service warms up. Upserts and searches are never retried.
	// Defaults to 3.
	MaxRetries int

	// RetryDelay is the initial delay between EnsureCollection attempts,
	// doubled after each failure. Defaults to 500ms.
	RetryDelay time.Duration

	// MaxRetryDelay caps the backoff between attempts. Defaults to 5s.
	MaxRetryDelay time.Duration
}

// NewDriver creates a new Qdrant vector driver. No network activity happens
// until EnsureCollection, UpsertPoints, or Search is called.
func NewDriver(c Config, logger *slog.Logger) (*Driver, error) {
	baseURL := c.URL
	if baseURL == "" {
		baseURL = DefaultURL
	}

	collection := c.Collection
	if collection == "" {
		collection = DefaultCollection
	}

	vectorSize := c.VectorSize
	if vectorSize == 0 {
		vectorSize = DefaultVectorSize
	}
	if vectorSize < 0 {
		return nil, fmt.Errorf("vector size must be positive, got %d", vectorSize)
	}

	distance := c.Distance
	if distance == "" {
		distance = DefaultDistance
	}
	switch distance {
	case vector.DistanceCosine, vector.DistanceEuclidean, vector.DistanceDot:
	default:
		return nil, fmt.Errorf("unsupported distance metric: %q", distance)
	}

	timeout := c.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	maxRetries := c.MaxRetries
	if maxRetries == 0 {
		maxRetries = defaultMaxRetries
	}

	retryDelay := c.RetryDelay
	if retryDelay == 0 {
		retryDelay = defaultRetryDelay
	}

	maxRetryDelay := c.MaxRetryDelay
	if maxRetryDelay == 0 {
		maxRetryDelay = defaultMaxRetryDelay
	}

	return &Driver{
		baseURL:    baseURL,
		collection: collection,
		vectorSize: vectorSize,
		distance:   distance,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:        logger,
		maxRetries:    maxRetries,
		retryDelay:    retryDelay,
		maxRetryDelay: maxRetryDelay,
	}, nil
}

// EnsureCollection creates the configured collection, retrying with bounded
// exponential backoff while the service is still coming up. Re-creating an
// existing collection with the same parameters is accepted by the service
// and treated as success.
func (d *Driver) EnsureCollection(ctx context.Context) error {
	var lastErr error
	delay := d.retryDelay

	for attempt := 1; attempt <= d.maxRetries; attempt++ {
		retryable, err := d.createCollection(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		// A 4xx rejection is a contract violation that never heals on
		// its own; surface it immediately.
		if !retryable {
			return err
		}

		if attempt < d.maxRetries {
			d.logger.Debug("collection provisioning failed, retrying",
				"collection", d.collection,
				"attempt", attempt,
				"delay", delay,
				"error", err,
			)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}

			delay *= 2
			if delay > d.maxRetryDelay {
				delay = d.maxRetryDelay
			}
		}
	}

	return fmt.Errorf("ensuring collection %q after %d attempts: %w", d.collection, d.maxRetries, lastErr)
}

// createCollection issues one PUT /collections/{name} request. The boolean
// reports whether a failure is worth retrying (transport errors and 5xx
// while the service warms up).
func (d *Driver) createCollection(ctx context.Context) (bool, error) {
	reqBody := createCollectionRequest{
		Vectors: vectorParams{
			Size:     d.vectorSize,
			Distance: string(d.distance),
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return false, fmt.Errorf("marshaling create request: %w", err)
	}

	url := fmt.Sprintf("%s/collections/%s", d.baseURL, d.collection)
	req, err := http.NewRequestWithContext(ctx, "PUT", url, bytes.NewReader(jsonBody))
	if err != nil {
		return false, fmt.Errorf("creating create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return true, fmt.Errorf("%w: sending create request: %v", vector.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return resp.StatusCode >= http.StatusInternalServerError,
			fmt.Errorf("%w: creating collection %q: status %d: %s", vector.ErrRejected, d.collection, resp.StatusCode, string(body))
	}

	d.logger.Debug("collection ensured",
		"collection", d.collection,
		"vector_size", d.vectorSize,
		"distance", d.distance,
		"response", string(body),
	)

	return false, nil
}

// UpsertPoints stores the whole batch as one request. The service treats
// point id as the overwrite key. An empty batch is a no-op.
func (d *Driver) UpsertPoints(ctx context.Context, points []vector.Point) error {
	if len(points) == 0 {
		return nil
	}

	reqBody := upsertPointsRequest{
		Points: make([]pointStruct, len(points)),
	}
	for i, p := range points {
		reqBody.Points[i] = pointStruct{
			ID:      p.ID,
			Vector:  p.Vector,
			Payload: p.Payload,
		}
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshaling upsert request: %w", err)
	}

	url := fmt.Sprintf("%s/collections/%s/points", d.baseURL, d.collection)
	req, err := http.NewRequestWithContext(ctx, "PUT", url, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("creating upsert request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: sending upsert request: %v", vector.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: upserting %d points into %q: status %d: %s",
			vector.ErrRejected, len(points), d.collection, resp.StatusCode, string(body))
	}

	d.logger.Debug("upserted points",
		"collection", d.collection,
		"count", len(points),
		"response", string(body),
	)

	return nil
}

// Search issues a nearest-neighbor query with the service's default top-k.
// An empty result list returns an empty slice and no error.
func (d *Driver) Search(ctx context.Context, embedding []float32) ([]vector.ScoredPoint, error) {
	reqBody := searchRequest{
		Vector: embedding,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling search request: %w", err)
	}

	url := fmt.Sprintf("%s/collections/%s/points/search", d.baseURL, d.collection)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("creating search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: sending search request: %v", vector.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: searching %q: status %d: %s",
			vector.ErrRejected, d.collection, resp.StatusCode, string(body))
	}

	var searchResp searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("%w: decoding search response: %v", vector.ErrMalformed, err)
	}

	results := make([]vector.ScoredPoint, len(searchResp.Result))
	for i, sp := range searchResp.Result {
		results[i] = vector.ScoredPoint{
			ID:      sp.ID,
			Score:   sp.Score,
			Payload: sp.Payload,
		}
	}

	d.logger.Debug("searched collection",
		"collection", d.collection,
		"results", len(results),
	)

	return results, nil
}

// Close releases resources held by the driver.
func (d *Driver) Close() error {
	// HTTP client doesn't require explicit cleanup
	return nil
}

// Ensure Driver implements vector.Driver
var _ vector.Driver = (*Driver)(nil)
