// Package embeddingutils is the embeddings utility package
package embeddingutils

import (
	"fmt"

	"github.com/corpusware/corpusq/pkg/embeddings"
	"github.com/corpusware/corpusq/pkg/embeddings/huggingface"
	"github.com/corpusware/corpusq/pkg/embeddings/ollama"
	"github.com/corpusware/corpusq/pkg/embeddings/openai"
)

type NewEmbedderOpts struct {
	ProviderType string
	TargetURL    string
	Model        string
	APIKey       string
}

func NewEmbedder(o *NewEmbedderOpts) (embeddings.Embedder, error) {
	switch o.ProviderType {
	case "huggingface":
		return huggingface.New(huggingface.Config{
			Target: o.TargetURL,
			Model:  o.Model,
			APIKey: o.APIKey,
		})
	case "ollama":
		return ollama.New(ollama.Config{
			Target: o.TargetURL,
			Model:  o.Model,
		})
	case "openai":
		return openai.New(openai.Config{
			Target: o.TargetURL,
			Model:  o.Model,
			APIKey: o.APIKey,
		})
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", o.ProviderType)
	}
}
