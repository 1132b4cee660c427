// Package llm provides the client contract for the external text-generation
// backend consumed by the conversation orchestrator.
package llm

import (
	"context"
	"errors"
)

// Request is a single non-streaming generation call.
type Request struct {
	Prompt      string
	MaxTokens   int
	Temperature float64
	Stop        []string
}

// Generator produces text from a prompt. Implementations return an error for
// any transport, timeout, or HTTP failure; degradation policy belongs to the
// caller.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)

	// Close releases any resources held by the generator.
	Close() error
}

var (
	// ErrGeneration is returned when the backend rejects or fails a request.
	ErrGeneration = errors.New("generation failed")

	// ErrConnection is returned when the backend is unreachable or times out.
	ErrConnection = errors.New("generation backend connection failed")
)
