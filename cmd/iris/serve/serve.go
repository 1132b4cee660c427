// Package servecmder provides the serve command for running the iris API
// server with its storage, embedding, generation, and event collaborators.
package servecmder

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/plataforma-iris/iris/api"
	"github.com/plataforma-iris/iris/pkg/classify"
	"github.com/plataforma-iris/iris/pkg/config"
	"github.com/plataforma-iris/iris/pkg/conversation"
	"github.com/plataforma-iris/iris/pkg/embeddings"
	embedollama "github.com/plataforma-iris/iris/pkg/embeddings/ollama"
	embedservice "github.com/plataforma-iris/iris/pkg/embeddings/service"
	"github.com/plataforma-iris/iris/pkg/eventstream"
	eventkafka "github.com/plataforma-iris/iris/pkg/eventstream/kafka"
	eventnop "github.com/plataforma-iris/iris/pkg/eventstream/nop"
	"github.com/plataforma-iris/iris/pkg/llm"
	llmollama "github.com/plataforma-iris/iris/pkg/llm/ollama"
	"github.com/plataforma-iris/iris/pkg/logger"
	"github.com/plataforma-iris/iris/pkg/storage"
	"github.com/plataforma-iris/iris/pkg/storage/inmemory"
	"github.com/plataforma-iris/iris/pkg/storage/postgres"
)

type serveCommander struct {
	listen          string
	storageProvider string
	postgresURL     string
	embedTarget     string
	embedModel      string
	genTarget       string
	genModel        string
	eventsProvider  string
	eventsBrokers   string
	eventsTopic     string
	debug           bool

	v      *viper.Viper
	logger *zap.Logger
}

const serveLongDesc string = `Run the iris API server.

The server answers chat messages over grounded legislative data, classifies
free text onto ideological axes, and scores user affinity against reference
politicians.

Configuration follows flag > environment (IRIS_*) > config.toml > defaults.

Examples:
  iris serve
  iris serve --listen :8000 --storage inmemory
  iris serve --postgres-url postgres://localhost/iris --events-provider kafka`

const serveShortDesc string = "Run the iris API server"

// serveFlagKeys are the registry keys this command binds into viper.
var serveFlagKeys = []string{
	config.FlagAPIListen,
	config.FlagStorageProvider,
	config.FlagPostgresURL,
	config.FlagEmbeddingTgt,
	config.FlagEmbeddingModel,
	config.FlagGenerationTgt,
	config.FlagGenerationModel,
	config.FlagEventsProvider,
	config.FlagEventsBrokers,
	config.FlagEventsTopic,
}

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}
	flags := config.DefaultFlags()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("initializing config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, flags, serveFlagKeys)
			cmder.v = v
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}

			return cmder.run(cmd.Context())
		},
	}

	config.AddStringFlag(cmd, flags, config.FlagAPIListen, &cmder.listen)
	config.AddStringFlag(cmd, flags, config.FlagStorageProvider, &cmder.storageProvider)
	config.AddStringFlag(cmd, flags, config.FlagPostgresURL, &cmder.postgresURL)
	config.AddStringFlag(cmd, flags, config.FlagEmbeddingTgt, &cmder.embedTarget)
	config.AddStringFlag(cmd, flags, config.FlagEmbeddingModel, &cmder.embedModel)
	config.AddStringFlag(cmd, flags, config.FlagGenerationTgt, &cmder.genTarget)
	config.AddStringFlag(cmd, flags, config.FlagGenerationModel, &cmder.genModel)
	config.AddStringFlag(cmd, flags, config.FlagEventsProvider, &cmder.eventsProvider)
	config.AddStringFlag(cmd, flags, config.FlagEventsBrokers, &cmder.eventsBrokers)
	config.AddStringFlag(cmd, flags, config.FlagEventsTopic, &cmder.eventsTopic)

	return cmd
}

func (c *serveCommander) run(ctx context.Context) error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	store, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	embedder := c.newEmbeddingService(store)
	defer embedder.Close()

	classifier := classify.New(classify.Config{
		BlendAbs:    c.v.GetFloat64("classifier.blend_abs"),
		BlendMargin: c.v.GetFloat64("classifier.blend_margin"),
	}, embedder, c.logger)

	generator, err := c.newGenerator()
	if err != nil {
		return err
	}

	publisher, err := c.newPublisher()
	if err != nil {
		return err
	}

	engine := conversation.New(conversation.Config{
		Store:               store,
		Embedder:            embedder,
		Generator:           generator,
		Publisher:           publisher,
		PoliticianThreshold: float32(c.v.GetFloat64("search.politician_threshold")),
		DocumentThreshold:   float32(c.v.GetFloat64("search.document_threshold")),
		Attempts:            c.v.GetInt("generation.attempts"),
		GenerationTimeout:   time.Duration(c.v.GetInt("generation.timeout_seconds")) * time.Second,
		Logger:              c.logger,
	})
	defer engine.Close()

	server := api.NewServer(api.Config{
		ListenAddr: c.v.GetString("api.listen"),
	}, store, engine, classifier, c.logger)

	c.logger.Info("starting API server",
		zap.String("listen", c.v.GetString("api.listen")),
		zap.String("storage", c.v.GetString("storage.provider")),
		zap.String("events", c.v.GetString("events.provider")),
	)

	errChan := make(chan error, 1)
	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		return server.Shutdown()
	}
}

func (c *serveCommander) newStore(ctx context.Context) (storage.Store, error) {
	switch provider := c.v.GetString("storage.provider"); provider {
	case "postgres":
		url := c.v.GetString("storage.postgres_url")
		if url == "" {
			return nil, fmt.Errorf("storage.postgres_url is required for the postgres provider")
		}
		store, err := postgres.NewStore(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		c.logger.Info("using postgres storage")
		return store, nil
	case "inmemory":
		c.logger.Info("using in-memory storage")
		return inmemory.NewStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage provider: %q", provider)
	}
}

func (c *serveCommander) newEmbeddingService(cache embedservice.Cache) *embedservice.Service {
	target := c.v.GetString("embedding.target")
	model := c.v.GetString("embedding.model")

	return embedservice.New(embedservice.Config{
		Factory: func() (embeddings.Embedder, error) {
			return embedollama.NewEmbedder(embedollama.EmbedderConfig{
				BaseURL: target,
				Model:   model,
			})
		},
		Cache:      cache,
		Dimensions: c.v.GetInt("embedding.dimensions"),
		CharBudget: c.v.GetInt("embedding.char_budget"),
		Logger:     c.logger,
	})
}

func (c *serveCommander) newGenerator() (llm.Generator, error) {
	generator, err := llmollama.NewGenerator(llmollama.GeneratorConfig{
		BaseURL: c.v.GetString("generation.target"),
		Model:   c.v.GetString("generation.model"),
	})
	if err != nil {
		return nil, fmt.Errorf("creating generator: %w", err)
	}
	return generator, nil
}

func (c *serveCommander) newPublisher() (eventstream.Publisher, error) {
	switch provider := c.v.GetString("events.provider"); provider {
	case "kafka":
		var brokers []string
		for _, b := range strings.Split(c.v.GetString("events.brokers"), ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
		return eventkafka.NewPublisher(eventkafka.Config{
			Brokers: brokers,
			Topic:   c.v.GetString("events.topic"),
			Logger:  c.logger,
		})
	case "nop", "":
		return eventnop.NewPublisher(), nil
	default:
		return nil, fmt.Errorf("unknown events provider: %q", provider)
	}
}
