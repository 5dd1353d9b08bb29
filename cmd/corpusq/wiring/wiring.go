// Package wiring resolves pipeline command configuration into the
// collaborators both the ingest and query commands construct: the effective
// settings snapshot, the run logger, the embedding client and the vector
// index driver.
package wiring

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/viper"

	"github.com/corpusware/corpusq/pkg/credentials"
	"github.com/corpusware/corpusq/pkg/embeddings"
	embeddingutils "github.com/corpusware/corpusq/pkg/embeddings/utils"
	"github.com/corpusware/corpusq/pkg/logger"
	"github.com/corpusware/corpusq/pkg/vector"
	vectorutils "github.com/corpusware/corpusq/pkg/vector/utils"
)

// Settings is the effective configuration a pipeline command runs with,
// resolved through the flag > env > config file > default chain.
type Settings struct {
	IndexProvider string
	IndexTarget   string

	Collection string
	VectorSize uint
	Distance   string

	EmbeddingProvider string
	EmbeddingTarget   string
	EmbeddingModel    string
	APIKeyEnv         string

	Workers uint
}

// FromViper snapshots the effective settings out of an initialized viper.
// Call after config.BindRegisteredFlags so changed flags take precedence.
func FromViper(v *viper.Viper) Settings {
	return Settings{
		IndexProvider:     v.GetString("index.provider"),
		IndexTarget:       v.GetString("index.target"),
		Collection:        v.GetString("collection.name"),
		VectorSize:        v.GetUint("collection.vector_size"),
		Distance:          v.GetString("collection.distance"),
		EmbeddingProvider: v.GetString("embedding.provider"),
		EmbeddingTarget:   v.GetString("embedding.target"),
		EmbeddingModel:    v.GetString("embedding.model"),
		APIKeyEnv:         v.GetString("embedding.api_key_env"),
		Workers:           v.GetUint("ingest.workers"),
	}
}

// NewEmbedder resolves the provider credential and constructs the embedding
// client. Credential resolution never touches the network; a provider that
// requires a key and finds none fails with embeddings.ErrMissingAPIKey
// before any request is sent.
func (s Settings) NewEmbedder(configDir string) (embeddings.Embedder, error) {
	mgr, err := credentials.NewManager(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading credentials: %w", err)
	}

	apiKey, err := mgr.ResolveKey(s.EmbeddingProvider, s.APIKeyEnv)
	if err != nil {
		return nil, fmt.Errorf("resolving API key: %w", err)
	}

	return embeddingutils.NewEmbedder(&embeddingutils.NewEmbedderOpts{
		ProviderType: s.EmbeddingProvider,
		TargetURL:    s.EmbeddingTarget,
		Model:        s.EmbeddingModel,
		APIKey:       apiKey,
	})
}

// NewDriver constructs the vector index driver.
func (s Settings) NewDriver(log *slog.Logger) (vector.Driver, error) {
	return vectorutils.NewDriver(&vectorutils.NewDriverOpts{
		ProviderType: s.IndexProvider,
		TargetURL:    s.IndexTarget,
		Collection:   s.Collection,
		VectorSize:   int(s.VectorSize),
		Distance:     s.Distance,
		Logger:       log,
	})
}

// RunLogger builds the logger pipeline commands log through: pretty output
// on stderr, keeping stdout clean for results, plus JSON records appended to
// logFile when one is given. The returned cleanup closes the file handle.
func RunLogger(debug bool, logFile string) (*slog.Logger, func(), error) {
	pretty := logger.New(
		logger.WithPretty(true),
		logger.WithDebug(debug),
		logger.WithWriter(os.Stderr),
	)

	if logFile == "" {
		return pretty, func() {}, nil
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	jsonLog := logger.New(
		logger.WithJSON(true),
		logger.WithDebug(debug),
		logger.WithWriter(f),
	)

	return logger.Multi(pretty, jsonLog), func() { _ = f.Close() }, nil
}
