// Package iriscmder
package iriscmder

import (
	"github.com/spf13/cobra"

	backfillcmder "github.com/plataforma-iris/iris/cmd/iris/backfill"
	chatcmder "github.com/plataforma-iris/iris/cmd/iris/chat"
	classifycmder "github.com/plataforma-iris/iris/cmd/iris/classify"
	configcmder "github.com/plataforma-iris/iris/cmd/iris/config"
	initcmder "github.com/plataforma-iris/iris/cmd/iris/initialize"
	servecmder "github.com/plataforma-iris/iris/cmd/iris/serve"
	versioncmder "github.com/plataforma-iris/iris/cmd/version"
)

const irisLongDesc string = `Iris is a retrieval and classification engine for Brazilian
legislative politics.

Run services using:
  iris serve           Run the API server
  iris chat            Chat with a running server from the terminal
  iris classify        Classify a text onto an ideological axis
  iris backfill        Fill in missing embeddings and classifications`

const irisShortDesc string = "Iris - Legislative Retrieval & Classification"

func NewIrisCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "iris",
		Short: irisShortDesc,
		Long:  irisLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .iris/ config directory")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(classifycmder.NewClassifyCmd())
	cmd.AddCommand(backfillcmder.NewBackfillCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
