package api

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/plataforma-iris/iris/pkg/classify"
	"github.com/plataforma-iris/iris/pkg/conversation"
	"github.com/plataforma-iris/iris/pkg/storage"
)

// Chatter answers chat messages. It never returns an error; degraded
// outcomes are encoded in the result.
type Chatter interface {
	HandleChat(ctx context.Context, msg conversation.Message) *conversation.ChatResult
}

// Classifier assigns an ideological axis to free text.
type Classifier interface {
	Classify(ctx context.Context, text string) classify.Result
}

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Server is the HTTP API server of the iris engine.
type Server struct {
	config     Config
	store      storage.Store
	chatter    Chatter
	classifier Classifier
	logger     *zap.Logger
	app        *fiber.App
}

// NewServer creates a new API server. Collaborators are injected so the
// server can be wired against the postgres store in production and the
// in-memory store in tests.
func NewServer(config Config, store storage.Store, chatter Chatter, classifier Classifier, logger *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config:     config,
		store:      store,
		chatter:    chatter,
		classifier: classifier,
		logger:     logger,
		app:        app,
	}

	app.Get("/ping", s.handlePing)
	app.Post("/v1/chat", s.handleChat)
	app.Post("/v1/affinity", s.handleAffinity)
	app.Get("/v1/affinity/questions", s.handleQuestions)
	app.Post("/v1/classify", s.handleClassify)

	return s
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		zap.String("listen", s.config.ListenAddr),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
