package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent corpusq configuration stored as config.toml
// in the .corpusq/ directory. The TOML layout uses sections for logical grouping.
type Config struct {
	Version    int              `toml:"version"`
	Index      IndexConfig      `toml:"index"`
	Collection CollectionConfig `toml:"collection"`
	Embedding  EmbeddingConfig  `toml:"embedding"`
	Ingest     IngestConfig     `toml:"ingest"`
}

// IndexConfig holds vector index service settings.
type IndexConfig struct {
	Provider string `toml:"provider,omitempty"`
	Target   string `toml:"target,omitempty"`
}

// CollectionConfig describes the collection points are written into.
// VectorSize must match the dimensionality of the configured embedding
// model; every embedding is checked against it before upload.
type CollectionConfig struct {
	Name       string `toml:"name,omitempty"`
	VectorSize uint   `toml:"vector_size,omitempty"`
	Distance   string `toml:"distance,omitempty"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider  string `toml:"provider,omitempty"`
	Target    string `toml:"target,omitempty"`
	Model     string `toml:"model,omitempty"`
	APIKeyEnv string `toml:"api_key_env,omitempty"`
}

// IngestConfig holds ingestion settings.
type IngestConfig struct {
	Workers uint `toml:"workers,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"index.provider": {
		get: func(c *Config) string { return c.Index.Provider },
		set: func(c *Config, v string) error { c.Index.Provider = v; return nil },
	},
	"index.target": {
		get: func(c *Config) string { return c.Index.Target },
		set: func(c *Config, v string) error { c.Index.Target = v; return nil },
	},
	"collection.name": {
		get: func(c *Config) string { return c.Collection.Name },
		set: func(c *Config, v string) error { c.Collection.Name = v; return nil },
	},
	"collection.vector_size": {
		get: func(c *Config) string {
			if c.Collection.VectorSize == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Collection.VectorSize), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for collection.vector_size: %w", err)
			}
			c.Collection.VectorSize = uint(n)
			return nil
		},
	},
	"collection.distance": {
		get: func(c *Config) string { return c.Collection.Distance },
		set: func(c *Config, v string) error { c.Collection.Distance = v; return nil },
	},
	"embedding.provider": {
		get: func(c *Config) string { return c.Embedding.Provider },
		set: func(c *Config, v string) error { c.Embedding.Provider = v; return nil },
	},
	"embedding.target": {
		get: func(c *Config) string { return c.Embedding.Target },
		set: func(c *Config, v string) error { c.Embedding.Target = v; return nil },
	},
	"embedding.model": {
		get: func(c *Config) string { return c.Embedding.Model },
		set: func(c *Config, v string) error { c.Embedding.Model = v; return nil },
	},
	"embedding.api_key_env": {
		get: func(c *Config) string { return c.Embedding.APIKeyEnv },
		set: func(c *Config, v string) error { c.Embedding.APIKeyEnv = v; return nil },
	},
	"ingest.workers": {
		get: func(c *Config) string {
			if c.Ingest.Workers == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Ingest.Workers), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for ingest.workers: %w", err)
			}
			c.Ingest.Workers = uint(n)
			return nil
		},
	},
}
