// Package huggingface implements pkg/embeddings' Embedder client for the
// Hugging Face Inference API's feature-extraction endpoint.
package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/corpusware/corpusq/pkg/embeddings"
)

const (
	// DefaultTarget is the default Hugging Face Inference API base URL.
	DefaultTarget = "https://api-inference.huggingface.co/models"

	// DefaultModel is the default sentence-embedding model.
	DefaultModel = "sentence-transformers/all-MiniLM-L6-v2"

	defaultTimeout = 60 * time.Second
)

// Embedder wraps the Hugging Face Inference API.
type Embedder struct {
	target     string
	model      string
	apiKey     string
	httpClient *http.Client
}

// Config holds configuration for the Hugging Face embedder.
type Config struct {
	// Target is the Inference API base URL. Defaults to DefaultTarget.
	Target string

	// Model is the embedding model path (e.g.
	// "sentence-transformers/all-MiniLM-L6-v2"). Defaults to DefaultModel.
	Model string

	// APIKey is the bearer token attached to every request. Required.
	APIKey string

	// Timeout bounds each embedding request. Defaults to 60s.
	Timeout time.Duration
}

// embedRequest is the single-element batch payload accepted by the
// feature-extraction endpoint.
type embedRequest []string

// New creates a new embedder using the Hugging Face Inference API.
// Fails before any network activity when no API key is configured.
func New(cfg Config) (*Embedder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: huggingface requires a bearer token", embeddings.ErrMissingAPIKey)
	}

	target := cfg.Target
	if target == "" {
		target = DefaultTarget
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &Embedder{
		target: target,
		model:  model,
		apiKey: cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Embed converts text into a vector embedding.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	jsonBody, err := json.Marshal(embedRequest{text})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/%s", e.target, e.model)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: sending request: %v", embeddings.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: huggingface returned status %d: %s", embeddings.ErrRejected, resp.StatusCode, string(body))
	}

	// The feature-extraction contract answers a single flat float array
	// for a single-element input batch.
	var vec []float32
	if err := json.NewDecoder(resp.Body).Decode(&vec); err != nil {
		return nil, fmt.Errorf("%w: expected a flat float array: %v", embeddings.ErrMalformed, err)
	}

	if len(vec) == 0 {
		return nil, fmt.Errorf("%w: empty embedding returned", embeddings.ErrMalformed)
	}

	return vec, nil
}

// Close releases resources held by the embedder.
func (e *Embedder) Close() error {
	// HTTP client doesn't require explicit cleanup
	return nil
}

// Ensure Embedder implements embeddings.Embedder
var _ embeddings.Embedder = (*Embedder)(nil)
