// Package retry wraps a Generator with bounded attempts, a shrinking
// per-attempt timeout, and acceptance-based retrying.
package retry

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/plataforma-iris/iris/pkg/llm"
)

const (
	// DefaultAttempts is the bounded retry count.
	DefaultAttempts = 3

	// DefaultTimeout is the first attempt's timeout; attempt n gets
	// DefaultTimeout / n.
	DefaultTimeout = 60 * time.Second
)

// Config holds the retry policy.
type Config struct {
	// Attempts is the maximum number of calls. Defaults to DefaultAttempts.
	Attempts int

	// Timeout is the first attempt's timeout budget; each subsequent attempt
	// gets a proportionally smaller share. Defaults to DefaultTimeout.
	Timeout time.Duration

	// Transform is applied to every successful raw response before
	// acceptance, e.g. response cleaning. Optional.
	Transform func(string) string

	// Accept decides whether a transformed response is good enough to stop
	// retrying. A response failing acceptance on the final attempt is still
	// returned, best-effort. Optional; nil accepts everything.
	Accept func(req llm.Request, response string) bool

	Logger *zap.Logger
}

// Generator wraps an inner Generator with the retry policy.
type Generator struct {
	inner  llm.Generator
	cfg    Config
	logger *zap.Logger
}

// New wraps inner with cfg.
func New(inner llm.Generator, cfg Config) *Generator {
	if cfg.Attempts <= 0 {
		cfg.Attempts = DefaultAttempts
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Generator{inner: inner, cfg: cfg, logger: cfg.Logger}
}

// Generate calls the inner generator up to Attempts times. Transport errors
// and rejected responses both trigger a retry; the last rejected response
// wins over nothing at all. Only when every attempt errored does Generate
// return an error.
func (g *Generator) Generate(ctx context.Context, req llm.Request) (string, error) {
	var lastErr error
	lastText := ""
	gotText := false

	for attempt := 1; attempt <= g.cfg.Attempts; attempt++ {
		timeout := g.cfg.Timeout / time.Duration(attempt)
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		text, err := g.inner.Generate(attemptCtx, req)
		cancel()

		if err != nil {
			lastErr = err
			g.logger.Warn("generation attempt failed",
				zap.Int("attempt", attempt),
				zap.Duration("timeout", timeout),
				zap.Error(err),
			)
			continue
		}

		if g.cfg.Transform != nil {
			text = g.cfg.Transform(text)
		}

		lastText = text
		gotText = true

		if g.cfg.Accept == nil || g.cfg.Accept(req, text) {
			return text, nil
		}

		g.logger.Debug("generation response rejected by validator",
			zap.Int("attempt", attempt),
		)
	}

	if gotText {
		return lastText, nil
	}
	return "", lastErr
}

// Close closes the inner generator.
func (g *Generator) Close() error {
	return g.inner.Close()
}

var _ llm.Generator = (*Generator)(nil)
