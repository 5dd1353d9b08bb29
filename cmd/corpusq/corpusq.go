// Package corpusqcmder
package corpusqcmder

import (
	"github.com/spf13/cobra"

	authcmder "github.com/corpusware/corpusq/cmd/corpusq/auth"
	configcmder "github.com/corpusware/corpusq/cmd/corpusq/config"
	ingestcmder "github.com/corpusware/corpusq/cmd/corpusq/ingest"
	querycmder "github.com/corpusware/corpusq/cmd/corpusq/query"
	versioncmder "github.com/corpusware/corpusq/cmd/corpusq/version"
)

const corpusqLongDesc string = `Corpusq is semantic search over a text corpus.

A corpus file splits into chunks on blank lines; every chunk is embedded via
the configured provider and stored in a vector index collection under its
zero-based position. Queries embed the question and answer with the nearest
stored chunk.

Index a corpus and query it using:
  corpusq ingest <corpus-file>   Chunk, embed and index a corpus
  corpusq query <text>           Find the stored chunk nearest to the text`

const corpusqShortDesc string = "Corpusq - semantic corpus search"

func NewCorpusqCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "corpusq",
		Short: corpusqShortDesc,
		Long:  corpusqLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override path to .corpusq/ config directory")
	cmd.PersistentFlags().String("log-file", "", "Also append JSON logs to this file")

	// Add subcommands
	cmd.AddCommand(ingestcmder.NewIngestCmd())
	cmd.AddCommand(querycmder.NewQueryCmd())
	cmd.AddCommand(authcmder.NewAuthCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
