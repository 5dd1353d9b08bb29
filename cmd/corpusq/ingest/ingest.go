// Package ingestcmder provides the ingest command: chunk a corpus file,
// embed every chunk and upsert the vectors into the index collection.
package ingestcmder

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/corpusware/corpusq/cmd/corpusq/wiring"
	"github.com/corpusware/corpusq/pkg/cliui"
	"github.com/corpusware/corpusq/pkg/config"
	"github.com/corpusware/corpusq/pkg/pipeline"
)

const ingestLongDesc string = `Ingest a corpus file into the vector index.

The corpus splits into chunks on blank lines. Every chunk is embedded via the
configured provider and upserted into the collection with its zero-based
position as the point id, so re-ingesting the same corpus overwrites the same
points instead of duplicating them.

The collection is created on first ingest with the configured vector size and
distance metric; re-creating it with the same parameters is a no-op.

Examples:
  corpusq ingest ./corpus.txt
  corpusq ingest ./corpus.txt --workers 8
  corpusq ingest ./corpus.txt --collection notes --vector-size 768
  corpusq ingest ./corpus.txt --embedding-provider ollama --embedding-model all-minilm
  CORPUSQ_INDEX_TARGET=http://qdrant:6333 corpusq ingest ./corpus.txt`

const ingestShortDesc string = "Ingest a corpus into the vector index"

// ingestFlagKeys lists the registry flags the ingest command binds into the
// viper precedence chain.
var ingestFlagKeys = []string{
	config.FlagIndexProvider,
	config.FlagIndexTarget,
	config.FlagCollection,
	config.FlagVectorSize,
	config.FlagDistance,
	config.FlagEmbeddingProv,
	config.FlagEmbeddingTgt,
	config.FlagEmbeddingModel,
	config.FlagWorkers,
}

type ingestCommander struct {
	corpusPath string
	settings   wiring.Settings

	configDir string
	logFile   string
	debug     bool
}

func NewIngestCmd() *cobra.Command {
	cmder := &ingestCommander{}

	cmd := &cobra.Command{
		Use:   "ingest <corpus-file>",
		Short: ingestShortDesc,
		Long:  ingestLongDesc,
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(cmder.configDir)
			if err != nil {
				return err
			}

			config.BindRegisteredFlags(v, cmd, config.Flags, ingestFlagKeys)
			cmder.settings = wiring.FromViper(v)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.corpusPath = args[0]

			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}
			cmder.logFile, _ = cmd.Flags().GetString("log-file")

			return cmder.run(cmd.Context())
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagIndexProvider, &cmder.settings.IndexProvider)
	config.AddStringFlag(cmd, config.Flags, config.FlagIndexTarget, &cmder.settings.IndexTarget)
	config.AddStringFlag(cmd, config.Flags, config.FlagCollection, &cmder.settings.Collection)
	config.AddUintFlag(cmd, config.Flags, config.FlagVectorSize, &cmder.settings.VectorSize)
	config.AddStringFlag(cmd, config.Flags, config.FlagDistance, &cmder.settings.Distance)
	config.AddStringFlag(cmd, config.Flags, config.FlagEmbeddingProv, &cmder.settings.EmbeddingProvider)
	config.AddStringFlag(cmd, config.Flags, config.FlagEmbeddingTgt, &cmder.settings.EmbeddingTarget)
	config.AddStringFlag(cmd, config.Flags, config.FlagEmbeddingModel, &cmder.settings.EmbeddingModel)
	config.AddUintFlag(cmd, config.Flags, config.FlagWorkers, &cmder.settings.Workers)

	return cmd
}

func (c *ingestCommander) run(ctx context.Context) error {
	log, closeLog, err := wiring.RunLogger(c.debug, c.logFile)
	if err != nil {
		return err
	}
	defer closeLog()

	corpus, err := os.ReadFile(c.corpusPath)
	if err != nil {
		return fmt.Errorf("reading corpus: %w", err)
	}

	embedder, err := c.settings.NewEmbedder(c.configDir)
	if err != nil {
		return err
	}
	defer func() { _ = embedder.Close() }()

	driver, err := c.settings.NewDriver(log)
	if err != nil {
		return err
	}
	defer func() { _ = driver.Close() }()

	log.Debug("ingesting corpus",
		"corpus", c.corpusPath,
		"collection", c.settings.Collection,
		"embedding_provider", c.settings.EmbeddingProvider,
		"workers", c.settings.Workers,
	)

	// The bar is created on the first progress report so an empty corpus
	// never renders one.
	var bar *progressbar.ProgressBar

	start := time.Now()
	result, err := pipeline.Ingest(ctx, string(corpus), embedder, driver, pipeline.Options{
		VectorSize: int(c.settings.VectorSize),
		Workers:    int(c.settings.Workers),
		Logger:     log,
		OnProgress: func(done, total int) {
			if bar == nil {
				bar = newEmbedBar(total)
			}
			_ = bar.Set(done)
		},
	})
	if err != nil {
		return err
	}

	fmt.Printf("\n  %s Ingested %s chunks into %s %s\n\n",
		cliui.SuccessMark,
		cliui.NameStyle.Render(strconv.Itoa(result.Points)),
		cliui.NameStyle.Render(c.settings.Collection),
		cliui.DimStyle.Render(fmt.Sprintf("(%s)", cliui.FormatDuration(time.Since(start)))),
	)

	return nil
}

// newEmbedBar builds the progress bar shown while chunks embed.
func newEmbedBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("[cyan]Embedding[reset]"),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)
}
