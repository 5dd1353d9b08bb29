package config

const (
	defaultIndexProvider = "qdrant"
	defaultIndexTarget   = "http://localhost:6333"

	defaultCollectionName     = "registration_collection"
	defaultVectorSize         = 384
	defaultCollectionDistance = "Cosine"

	defaultEmbeddingProvider = "huggingface"
	defaultEmbeddingTarget   = "https://api-inference.huggingface.co/models"
	defaultEmbeddingModel    = "sentence-transformers/all-MiniLM-L6-v2"
	defaultAPIKeyEnv         = "HUGGINGFACE_API_KEY"

	defaultIngestWorkers = 4
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Index: IndexConfig{
			Provider: defaultIndexProvider,
			Target:   defaultIndexTarget,
		},
		Collection: CollectionConfig{
			Name:       defaultCollectionName,
			VectorSize: defaultVectorSize,
			Distance:   defaultCollectionDistance,
		},
		Embedding: EmbeddingConfig{
			Provider:  defaultEmbeddingProvider,
			Target:    defaultEmbeddingTarget,
			Model:     defaultEmbeddingModel,
			APIKeyEnv: defaultAPIKeyEnv,
		},
		Ingest: IngestConfig{
			Workers: defaultIngestWorkers,
		},
	}
}
