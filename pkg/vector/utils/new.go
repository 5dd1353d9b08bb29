// Package vectorutils is the vector index utility package
package vectorutils

import (
	"fmt"
	"log/slog"

	"github.com/corpusware/corpusq/pkg/vector"
	"github.com/corpusware/corpusq/pkg/vector/qdrant"
)

type NewDriverOpts struct {
	ProviderType string
	TargetURL    string
	Collection   string
	VectorSize   int
	Distance     string
	Logger       *slog.Logger
}

func NewDriver(o *NewDriverOpts) (vector.Driver, error) {
	switch o.ProviderType {
	case "qdrant":
		return qdrant.NewDriver(qdrant.Config{
			URL:        o.TargetURL,
			Collection: o.Collection,
			VectorSize: o.VectorSize,
			Distance:   vector.Distance(o.Distance),
		}, o.Logger)
	default:
		return nil, fmt.Errorf("unsupported vector index provider: %s", o.ProviderType)
	}
}
