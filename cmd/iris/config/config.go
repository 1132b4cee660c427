// Package configcmder provides the config command for managing persistent
// iris configuration stored in the .iris/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent iris configuration.

Configuration is stored as config.toml in the .iris/ directory and provides
default values for command flags. CLI flags always take precedence over
config file values.

Keys use dotted notation matching the TOML section structure:
  storage.provider, storage.postgres_url,
  api.listen, client.api_target,
  embedding.provider, embedding.target, embedding.model,
  embedding.dimensions, embedding.char_budget,
  generation.provider, generation.target, generation.model,
  generation.max_tokens, generation.temperature,
  generation.attempts, generation.timeout_seconds,
  classifier.blend_abs, classifier.blend_margin,
  search.politician_threshold, search.document_threshold,
  events.provider, events.brokers, events.topic

Use subcommands to get, set, or list configuration values:
  iris config set <key> <value>    Set a configuration value
  iris config get <key>            Get a configuration value
  iris config list                 List all configuration values

Examples:
  iris config set generation.model llama3.2:3b
  iris config set embedding.model nomic-embed-text
  iris config get storage.postgres_url
  iris config list`

const configShortDesc string = "Manage persistent iris configuration"

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
