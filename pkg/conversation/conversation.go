// Package conversation orchestrates chat exchanges: staged retrieval over
// politicians and documents, grounded generation with bounded retries, and
// append-only session persistence.
package conversation

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/plataforma-iris/iris/pkg/eventstream"
	"github.com/plataforma-iris/iris/pkg/eventstream/nop"
	"github.com/plataforma-iris/iris/pkg/llm"
	"github.com/plataforma-iris/iris/pkg/llm/retry"
	"github.com/plataforma-iris/iris/pkg/politics"
	"github.com/plataforma-iris/iris/pkg/storage"
)

const (
	// AssistantName is how the assistant introduces itself.
	AssistantName = "Iris"

	// MaxHistoryMessages bounds how much session history is read back.
	MaxHistoryMessages = 50

	defaultPoliticianThreshold = 0.7
	defaultDocumentThreshold   = 0.6
	defaultMaxTokens           = 1024
	defaultDocumentLimit       = 4
)

// Embedder produces query embeddings for similarity fallback searches.
type Embedder interface {
	QueryEmbedding(ctx context.Context, text string) []float32
}

// Message is one inbound chat request.
type Message struct {
	Text        string
	SessionID   string
	UserID      string
	MaxTokens   int
	Temperature float64
}

// Evidence is a grounding fragment cited by a response.
type Evidence struct {
	Text     string `json:"text"`
	Source   string `json:"source"`
	Location string `json:"location,omitempty"`
}

// Source identifies a record consulted to produce a response.
type Source struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

// ChatResult is the well-formed response produced for every chat message.
// HandleChat never returns an error; degraded outcomes still yield a result.
type ChatResult struct {
	Response  string     `json:"response"`
	Evidence  []Evidence `json:"evidence"`
	Sources   []Source   `json:"sources"`
	SessionID string     `json:"session_id"`

	// ProcessingSeconds is wall-clock handling time in seconds, rounded to
	// two decimals.
	ProcessingSeconds float64 `json:"processing_time_seconds"`
}

// Config holds orchestrator collaborators and tuning.
type Config struct {
	Store     storage.Store
	Embedder  Embedder
	Generator llm.Generator
	Publisher eventstream.Publisher

	// PoliticianThreshold gates the embedding-similarity fallback for
	// politician search. Defaults to 0.7.
	PoliticianThreshold float32

	// DocumentThreshold gates the embedding-similarity fallback for document
	// search. Defaults to 0.6.
	DocumentThreshold float32

	// Attempts and GenerationTimeout configure the bounded-retry generation
	// call. Zero values take the retry package defaults.
	Attempts          int
	GenerationTimeout time.Duration

	Logger *zap.Logger
}

// Orchestrator answers chat messages through a fixed stage pipeline. The
// first stage whose gate matches produces the response.
type Orchestrator struct {
	store     storage.Store
	embedder  Embedder
	generator llm.Generator
	publisher eventstream.Publisher
	cfg       Config
	logger    *zap.Logger
	stages    []stage
}

// stage is one step of the pipeline. gate may perform retrieval and stash
// results on the turn; run is only called when gate reported a match.
type stage struct {
	name string
	gate func(ctx context.Context, t *turn) bool
	run  func(ctx context.Context, t *turn) *outcome
}

// turn carries per-message state across the pipeline.
type turn struct {
	msg       Message
	sessionID string

	politician *politics.Politician
	documents  []politics.Document
	docsLoaded bool
}

// outcome is what a stage produced before persistence.
type outcome struct {
	response string
	evidence []Evidence
	sources  []Source
	prompt   promptDescriptor
	grounded bool
}

// promptDescriptor is the structured prompt record written to the response
// log, identifying which stage answered and with what grounding.
type promptDescriptor struct {
	Type  string `json:"type"`
	Query string `json:"query,omitempty"`
	Data  any    `json:"data,omitempty"`
}

// New builds an orchestrator. The generator is wrapped with the bounded
// retry policy, response cleaning, and acceptance validation.
func New(cfg Config) *Orchestrator {
	if cfg.PoliticianThreshold <= 0 {
		cfg.PoliticianThreshold = defaultPoliticianThreshold
	}
	if cfg.DocumentThreshold <= 0 {
		cfg.DocumentThreshold = defaultDocumentThreshold
	}
	if cfg.Publisher == nil {
		cfg.Publisher = nop.NewPublisher()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	o := &Orchestrator{
		store:    cfg.Store,
		embedder: cfg.Embedder,
		generator: retry.New(cfg.Generator, retry.Config{
			Attempts:  cfg.Attempts,
			Timeout:   cfg.GenerationTimeout,
			Transform: CleanResponse,
			Accept:    acceptResponse,
			Logger:    cfg.Logger,
		}),
		publisher: cfg.Publisher,
		cfg:       cfg,
		logger:    cfg.Logger,
	}

	o.stages = []stage{
		{name: "self_intro", gate: o.gateSelfIntro, run: o.runSelfIntro},
		{name: "politico", gate: o.gatePolitician, run: o.runPolitician},
		{name: "definition", gate: o.gateDefinition, run: o.runDefinition},
		{name: "docs_summary", gate: o.gateDocuments, run: o.runDocuments},
		{name: "general", gate: o.gateAlways, run: o.runGeneral},
	}

	return o
}

// HandleChat answers one chat message. It always returns a well-formed
// result; retrieval, persistence, and generation failures degrade the
// response but never surface as errors.
func (o *Orchestrator) HandleChat(ctx context.Context, msg Message) *ChatResult {
	start := time.Now()

	sessionID := msg.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	if msg.MaxTokens <= 0 {
		msg.MaxTokens = defaultMaxTokens
	}

	t := &turn{msg: msg, sessionID: sessionID}

	o.appendMessage(ctx, sessionID, "user", msg.Text)

	var name string
	var out *outcome
	for _, st := range o.stages {
		if st.gate(ctx, t) {
			name = st.name
			out = st.run(ctx, t)
			break
		}
	}

	o.appendMessage(ctx, sessionID, "assistant", out.response)
	o.logExchange(ctx, t, name, out)
	o.publish(ctx, t, name, out, time.Since(start))

	if out.evidence == nil {
		out.evidence = []Evidence{}
	}
	if out.sources == nil {
		out.sources = []Source{}
	}

	return &ChatResult{
		Response:          out.response,
		Evidence:          out.evidence,
		Sources:           out.sources,
		SessionID:         sessionID,
		ProcessingSeconds: math.Round(time.Since(start).Seconds()*100) / 100,
	}
}

// History returns the session's messages in chronological order.
func (o *Orchestrator) History(ctx context.Context, sessionID string) ([]politics.SessionMessage, error) {
	return o.store.SessionHistory(ctx, sessionID, MaxHistoryMessages)
}

// Close closes the wrapped generator and publisher.
func (o *Orchestrator) Close() error {
	err := o.generator.Close()
	if perr := o.publisher.Close(); err == nil {
		err = perr
	}
	return err
}

func (o *Orchestrator) appendMessage(ctx context.Context, sessionID, role, text string) {
	err := o.store.AppendSessionMessage(ctx, politics.SessionMessage{
		SessionID: sessionID,
		Role:      role,
		Message:   text,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		o.logger.Warn("appending session message", zap.String("role", role), zap.Error(err))
	}
}

func (o *Orchestrator) logExchange(ctx context.Context, t *turn, stage string, out *outcome) {
	desc := out.prompt
	desc.Type = stage

	raw, err := json.Marshal(desc)
	if err != nil {
		raw = []byte(`{"type":"` + stage + `"}`)
	}

	ids := make([]string, 0, len(out.sources))
	for _, s := range out.sources {
		ids = append(ids, s.ID)
	}

	err = o.store.AppendResponseLog(ctx, politics.ResponseLog{
		SessionID: t.sessionID,
		UserID:    t.msg.UserID,
		Prompt:    string(raw),
		Response:  out.response,
		Sources:   ids,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		o.logger.Warn("appending response log", zap.Error(err))
	}
}

func (o *Orchestrator) publish(ctx context.Context, t *turn, stage string, out *outcome, elapsed time.Duration) {
	event := &eventstream.ExchangeEvent{
		SchemaVersion:  eventstream.SchemaVersionV1,
		EventID:        uuid.NewString(),
		EventType:      eventstream.EventTypeExchangeCompleted,
		EmittedAt:      time.Now().UTC(),
		SessionID:      t.sessionID,
		Query:          t.msg.Text,
		Stage:          stage,
		Grounded:       out.grounded,
		SourceCount:    len(out.sources),
		DurationMillis: elapsed.Milliseconds(),
	}
	if err := o.publisher.PublishExchange(ctx, event); err != nil {
		o.logger.Warn("publishing exchange event", zap.Error(err))
	}
}

// generate calls the retry-wrapped backend. When every attempt fails the
// fallback text is returned, so grounding survives model unavailability; an
// empty fallback degrades to the canned apology.
func (o *Orchestrator) generate(ctx context.Context, t *turn, prompt, fallback string) string {
	text, err := o.generator.Generate(ctx, llm.Request{
		Prompt:      prompt,
		MaxTokens:   t.msg.MaxTokens,
		Temperature: t.msg.Temperature,
	})
	if err != nil || text == "" {
		if err != nil {
			o.logger.Warn("generation failed, using fallback", zap.Error(err))
		}
		if fallback != "" {
			return fallback
		}
		return Apology
	}
	return text
}
