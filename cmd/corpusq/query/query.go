// Package querycmder provides the query command: embed a question and answer
// with the nearest stored chunk.
package querycmder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/corpusware/corpusq/cmd/corpusq/wiring"
	"github.com/corpusware/corpusq/pkg/cliui"
	"github.com/corpusware/corpusq/pkg/config"
	"github.com/corpusware/corpusq/pkg/pipeline"
	"github.com/corpusware/corpusq/pkg/utils"
	"github.com/corpusware/corpusq/pkg/vector"
)

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	queryStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	idStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	scoreStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	previewStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

const queryLongDesc string = `Query the vector index for the chunk nearest to the given text.

The query text is embedded via the configured provider and searched against
the collection; the best match's point id is the zero-based position of the
chunk in the ingested corpus.

Use --quiet to print only the matched point id, one line, for piping.

When the collection holds no points the command reports that no similar text
was found and exits nonzero.

Examples:
  corpusq query "alpha text"
  corpusq query "how do I register?" --collection notes
  corpusq query "alpha text" --quiet
  corpusq query "alpha text" --index-target http://qdrant:6333`

const queryShortDesc string = "Find the stored chunk nearest to a text"

// queryFlagKeys lists the registry flags the query command binds into the
// viper precedence chain.
var queryFlagKeys = []string{
	config.FlagIndexProvider,
	config.FlagIndexTarget,
	config.FlagCollection,
	config.FlagVectorSize,
	config.FlagDistance,
	config.FlagEmbeddingProv,
	config.FlagEmbeddingTgt,
	config.FlagEmbeddingModel,
}

type queryCommander struct {
	query    string
	quiet    bool
	settings wiring.Settings

	configDir string
	logFile   string
	debug     bool
}

func NewQueryCmd() *cobra.Command {
	cmder := &queryCommander{}

	cmd := &cobra.Command{
		Use:   "query <text>",
		Short: queryShortDesc,
		Long:  queryLongDesc,
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(cmder.configDir)
			if err != nil {
				return err
			}

			config.BindRegisteredFlags(v, cmd, config.Flags, queryFlagKeys)
			cmder.settings = wiring.FromViper(v)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.query = args[0]

			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}
			cmder.logFile, _ = cmd.Flags().GetString("log-file")

			err = cmder.run(cmd.Context())
			if errors.Is(err, vector.ErrNoMatch) {
				// An empty collection is an unsuccessful outcome, not a
				// malfunction; report it without usage or error noise.
				cmd.SilenceUsage = true
				cmd.SilenceErrors = true
				cmder.printNoMatch()
			}
			return err
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
	cmd.Flags().BoolVarP(&cmder.quiet, "quiet", "q", false, "Output only the matched point id (for piping)")

	return cmd
}

func (c *queryCommander) run(ctx context.Context) error {
	log, closeLog, err := wiring.RunLogger(c.debug, c.logFile)
	if err != nil {
		return err
	}
	defer closeLog()

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

	log.Debug("querying collection",
		"collection", c.settings.Collection,
		"embedding_provider", c.settings.EmbeddingProvider,
	)

	var match *pipeline.Match
	search := func() error {
		var err error
		match, err = pipeline.Query(ctx, c.query, embedder, driver, pipeline.Options{
			VectorSize: int(c.settings.VectorSize),
			Logger:     log,
		})
		return err
	}

	// The spinner goes to stderr so stdout carries nothing but the match.
	if c.quiet {
		err = search()
	} else {
		err = cliui.Step(os.Stderr, fmt.Sprintf("Searching %s", c.settings.Collection), search)
	}
	if err != nil {
		return err
	}

	c.printMatch(match)
	return nil
}

func (c *queryCommander) printMatch(match *pipeline.Match) {
	if c.quiet {
		fmt.Println(match.ID)
		return
	}

	fmt.Printf("\n  %s %s\n\n",
		headerStyle.Render("Nearest chunk for:"),
		queryStyle.Render(fmt.Sprintf("%q", c.query)),
	)

	fmt.Printf("  %s  %s\n",
		idStyle.Render(fmt.Sprintf("id: %d", match.ID)),
		scoreStyle.Render(fmt.Sprintf("score: %.4f", match.Score)),
	)

	if match.Text != "" {
		text := utils.Truncate(strings.ReplaceAll(match.Text, "\n", " "), 80)
		fmt.Printf("  %s\n", previewStyle.Render(text))
	}

	fmt.Println()
}

func (c *queryCommander) printNoMatch() {
	if c.quiet {
		return
	}

	fmt.Printf("\n  %s No similar text found in %s.\n\n",
		cliui.FailMark,
		cliui.NameStyle.Render(c.settings.Collection),
	)
}
