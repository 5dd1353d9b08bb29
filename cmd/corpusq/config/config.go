// Package configcmder provides the config command for managing persistent
// corpusq configuration stored in the .corpusq/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent corpusq configuration.

Configuration is stored as config.toml in the .corpusq/ directory and provides
default values for command flags. CLI flags always take precedence over
config file values, as do CORPUSQ_-prefixed environment variables.

Keys use dotted notation matching the TOML section structure:
  index.provider, index.target,
  collection.name, collection.vector_size, collection.distance,
  embedding.provider, embedding.target, embedding.model, embedding.api_key_env,
  ingest.workers

Use subcommands to get, set, or list configuration values:
  corpusq config set <key> <value>    Set a configuration value
  corpusq config get <key>            Get a configuration value
  corpusq config list                 List all configuration values

Examples:
  corpusq config set embedding.provider ollama
  corpusq config set collection.vector_size 768
  corpusq config get index.target
  corpusq config list`

const configShortDesc string = "Manage persistent corpusq configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
