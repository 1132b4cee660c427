// Package backfillcmder provides the `iris backfill` CLI command.
package backfillcmder

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/plataforma-iris/iris/pkg/backfill"
	"github.com/plataforma-iris/iris/pkg/classify"
	"github.com/plataforma-iris/iris/pkg/cliui"
	"github.com/plataforma-iris/iris/pkg/config"
	"github.com/plataforma-iris/iris/pkg/embeddings"
	embedollama "github.com/plataforma-iris/iris/pkg/embeddings/ollama"
	embedservice "github.com/plataforma-iris/iris/pkg/embeddings/service"
	"github.com/plataforma-iris/iris/pkg/logger"
	"github.com/plataforma-iris/iris/pkg/storage/postgres"
)

const backfillLongDesc string = `Fill in missing embeddings and axis classifications.

Walks politicians without a biography embedding, documents with unembedded
fields, and voting events without an assigned axis, computing the missing
values against the configured embedding backend.

Examples:
  iris backfill
  iris backfill --dry-run
  iris backfill --postgres-url postgres://localhost/iris`

const backfillShortDesc string = "Fill in missing embeddings and classifications"

type backfillCommander struct {
	postgresURL string
	embedTarget string
	embedModel  string
	dryRun      bool
	batchSize   int
	debug       bool

	v *viper.Viper
}

var backfillFlagKeys = []string{
	config.FlagPostgresURL,
	config.FlagEmbeddingTgt,
	config.FlagEmbeddingModel,
}

// NewBackfillCmd creates the backfill cobra command.
func NewBackfillCmd() *cobra.Command {
	cmder := &backfillCommander{}
	flags := config.DefaultFlags()

	cmd := &cobra.Command{
		Use:   "backfill",
		Short: backfillShortDesc,
		Long:  backfillLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("initializing config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, flags, backfillFlagKeys)
			cmder.v = v
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run(cmd.Context())
		},
	}

	config.AddStringFlag(cmd, flags, config.FlagPostgresURL, &cmder.postgresURL)
	config.AddStringFlag(cmd, flags, config.FlagEmbeddingTgt, &cmder.embedTarget)
	config.AddStringFlag(cmd, flags, config.FlagEmbeddingModel, &cmder.embedModel)
	cmd.Flags().BoolVar(&cmder.dryRun, "dry-run", false, "Compute everything but write nothing")
	cmd.Flags().IntVar(&cmder.batchSize, "batch-size", backfill.DefaultBatchSize, "Rows fetched per pass")

	return cmd
}

func (c *backfillCommander) run(ctx context.Context) error {
	log := logger.NewLogger(c.debug)
	defer func() { _ = log.Sync() }()

	url := c.v.GetString("storage.postgres_url")
	if url == "" {
		return fmt.Errorf("storage.postgres_url is required")
	}

	store, err := postgres.NewStore(ctx, url)
	if err != nil {
		return fmt.Errorf("connecting to postgres: %w", err)
	}
	defer store.Close()

	target := c.v.GetString("embedding.target")
	model := c.v.GetString("embedding.model")

	embedder := embedservice.New(embedservice.Config{
		Factory: func() (embeddings.Embedder, error) {
			return embedollama.NewEmbedder(embedollama.EmbedderConfig{
				BaseURL: target,
				Model:   model,
			})
		},
		Cache:      store,
		Dimensions: c.v.GetInt("embedding.dimensions"),
		CharBudget: c.v.GetInt("embedding.char_budget"),
		Logger:     log,
	})
	defer embedder.Close()

	classifier := classify.New(classify.Config{
		BlendAbs:    c.v.GetFloat64("classifier.blend_abs"),
		BlendMargin: c.v.GetFloat64("classifier.blend_margin"),
	}, embedder, log)

	if c.dryRun {
		fmt.Println("Dry run mode, no changes will be written")
	}

	b := backfill.New(store, embedder, classifier, backfill.Options{
		DryRun:    c.dryRun,
		BatchSize: c.batchSize,
	}, log)

	var result *backfill.Result
	if err := cliui.Step(os.Stdout, "Backfilling embeddings and classifications", func() error {
		var runErr error
		result, runErr = b.Run(ctx)
		return runErr
	}); err != nil {
		return err
	}

	fmt.Println(result.Summary())
	return nil
}
