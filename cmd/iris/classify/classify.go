// Package classifycmder provides the classify command for assigning an
// ideological axis to free text from the terminal.
package classifycmder

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/plataforma-iris/iris/pkg/classify"
	"github.com/plataforma-iris/iris/pkg/config"
	"github.com/plataforma-iris/iris/pkg/embeddings"
	embedollama "github.com/plataforma-iris/iris/pkg/embeddings/ollama"
	embedservice "github.com/plataforma-iris/iris/pkg/embeddings/service"
	"github.com/plataforma-iris/iris/pkg/logger"
)

type classifyCommander struct {
	embedTarget string
	embedModel  string
	asJSON      bool
	debug       bool

	v *viper.Viper
}

const classifyLongDesc string = `Classify a text onto one of the five ideological axes.

The classifier tries keyword anchors first and falls back to embedding
similarity against the axis anchor phrases. The embedding fallback needs a
reachable embedding backend; without one, texts with no keyword signal come
back as unknown.

Examples:
  iris classify "Defendo redução de impostos e livre mercado"
  iris classify --json "Demarcação de terras indígenas"`

const classifyShortDesc string = "Classify a text onto an ideological axis"

var classifyFlagKeys = []string{
	config.FlagEmbeddingTgt,
	config.FlagEmbeddingModel,
}

func NewClassifyCmd() *cobra.Command {
	cmder := &classifyCommander{}
	flags := config.DefaultFlags()

	cmd := &cobra.Command{
		Use:   "classify <text>",
		Short: classifyShortDesc,
		Long:  classifyLongDesc,
		Args:  cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("initializing config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, flags, classifyFlagKeys)
			cmder.v = v
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run(cmd, strings.Join(args, " "))
		},
	}

	config.AddStringFlag(cmd, flags, config.FlagEmbeddingTgt, &cmder.embedTarget)
	config.AddStringFlag(cmd, flags, config.FlagEmbeddingModel, &cmder.embedModel)
	cmd.Flags().BoolVar(&cmder.asJSON, "json", false, "Print the result as JSON")

	return cmd
}

func (c *classifyCommander) run(cmd *cobra.Command, text string) error {
	log := logger.NewLogger(c.debug)
	defer func() { _ = log.Sync() }()

	target := c.v.GetString("embedding.target")
	model := c.v.GetString("embedding.model")

	embedder := embedservice.New(embedservice.Config{
		Factory: func() (embeddings.Embedder, error) {
			return embedollama.NewEmbedder(embedollama.EmbedderConfig{
				BaseURL: target,
				Model:   model,
			})
		},
		Dimensions: c.v.GetInt("embedding.dimensions"),
		CharBudget: c.v.GetInt("embedding.char_budget"),
		Logger:     log,
	})
	defer embedder.Close()

	classifier := classify.New(classify.Config{
		BlendAbs:    c.v.GetFloat64("classifier.blend_abs"),
		BlendMargin: c.v.GetFloat64("classifier.blend_margin"),
	}, embedder, log)

	result := classifier.Classify(cmd.Context(), text)

	if c.asJSON {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling result: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "axis: %s\nconfidence: %.2f\nmethod: %s\n",
		result.Axis, result.Confidence, result.Method)
	return nil
}
