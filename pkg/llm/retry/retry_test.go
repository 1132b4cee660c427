package retry

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/plataforma-iris/iris/pkg/llm"
)

type scriptedGenerator struct {
	responses []string
	errs      []error
	calls     int
}

func (s *scriptedGenerator) Generate(ctx context.Context, req llm.Request) (string, error) {
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.responses) {
		return s.responses[i], nil
	}
	return "", errors.New("script exhausted")
}

func (s *scriptedGenerator) Close() error { return nil }

func TestGenerateFirstAttemptAccepted(t *testing.T) {
	inner := &scriptedGenerator{responses: []string{"resposta completa"}}
	g := New(inner, Config{})

	got, err := g.Generate(context.Background(), llm.Request{Prompt: "p"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "resposta completa" {
		t.Fatalf("got %q", got)
	}
	if inner.calls != 1 {
		t.Fatalf("expected 1 call, got %d", inner.calls)
	}
}

func TestGenerateRetriesOnError(t *testing.T) {
	inner := &scriptedGenerator{
		errs:      []error{llm.ErrConnection, nil},
		responses: []string{"", "segunda tentativa"},
	}
	g := New(inner, Config{Attempts: 3})

	got, err := g.Generate(context.Background(), llm.Request{Prompt: "p"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "segunda tentativa" {
		t.Fatalf("got %q", got)
	}
	if inner.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", inner.calls)
	}
}

func TestGenerateAllAttemptsError(t *testing.T) {
	boom := errors.New("boom")
	inner := &scriptedGenerator{errs: []error{boom, boom, boom}}
	g := New(inner, Config{Attempts: 3})

	_, err := g.Generate(context.Background(), llm.Request{Prompt: "p"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected last error, got %v", err)
	}
	if inner.calls != 3 {
		t.Fatalf("expected 3 calls, got %d", inner.calls)
	}
}

func TestGenerateBestEffortWhenNeverAccepted(t *testing.T) {
	inner := &scriptedGenerator{responses: []string{"curta", "ainda curta", "ultima"}}
	g := New(inner, Config{
		Attempts: 3,
		Accept: func(req llm.Request, response string) bool {
			return len(response) > 100
		},
	})

	got, err := g.Generate(context.Background(), llm.Request{Prompt: "p"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "ultima" {
		t.Fatalf("expected last rejected text, got %q", got)
	}
	if inner.calls != 3 {
		t.Fatalf("expected 3 calls, got %d", inner.calls)
	}
}

func TestGenerateTransformAppliedBeforeAccept(t *testing.T) {
	inner := &scriptedGenerator{responses: []string{"Resposta: o conteudo real"}}
	g := New(inner, Config{
		Transform: func(s string) string {
			return strings.TrimSpace(strings.TrimPrefix(s, "Resposta:"))
		},
		Accept: func(req llm.Request, response string) bool {
			return !strings.HasPrefix(response, "Resposta:")
		},
	})

	got, err := g.Generate(context.Background(), llm.Request{Prompt: "p"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "o conteudo real" {
		t.Fatalf("got %q", got)
	}
}

func TestGenerateShrinkingTimeout(t *testing.T) {
	slow := &slowGenerator{delay: 80 * time.Millisecond, response: "tarde demais"}
	g := New(slow, Config{Attempts: 2, Timeout: 100 * time.Millisecond})

	got, err := g.Generate(context.Background(), llm.Request{Prompt: "p"})
	// First attempt (100ms budget) succeeds, second is never needed.
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "tarde demais" {
		t.Fatalf("got %q", got)
	}

	// With a 60ms first budget both attempts (60ms, 30ms) time out.
	slow2 := &slowGenerator{delay: 80 * time.Millisecond, response: "x"}
	g2 := New(slow2, Config{Attempts: 2, Timeout: 60 * time.Millisecond})
	_, err = g2.Generate(context.Background(), llm.Request{Prompt: "p"})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if slow2.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", slow2.calls)
	}
}

type slowGenerator struct {
	delay    time.Duration
	response string
	calls    int
}

func (s *slowGenerator) Generate(ctx context.Context, req llm.Request) (string, error) {
	s.calls++
	select {
	case <-time.After(s.delay):
		return s.response, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (s *slowGenerator) Close() error { return nil }
