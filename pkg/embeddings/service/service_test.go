package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"unicode/utf8"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/plataforma-iris/iris/pkg/embeddings"
	"github.com/plataforma-iris/iris/pkg/embeddings/service"
	"github.com/plataforma-iris/iris/pkg/politics"
	"github.com/plataforma-iris/iris/pkg/storage/inmemory"
)

func TestService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Embedding Service Suite")
}

// countingEmbedder returns a fixed vector and records invocations.
type countingEmbedder struct {
	mu       sync.Mutex
	calls    int
	fail     bool
	vector   []float32
	lastText string
}

func (c *countingEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	c.lastText = text
	if c.fail {
		return nil, embeddings.ErrConnection
	}
	return c.vector, nil
}

func (c *countingEmbedder) Close() error { return nil }

func (c *countingEmbedder) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func (c *countingEmbedder) LastText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastText
}

var _ = Describe("Service", func() {
	var (
		embedder *countingEmbedder
		ctx      context.Context
	)

	dims := 8

	BeforeEach(func() {
		vec := make([]float32, dims)
		vec[0] = 0.5
		embedder = &countingEmbedder{vector: vec}
		ctx = context.Background()
	})

	newService := func(cache service.Cache) *service.Service {
		return service.New(service.Config{
			Factory:    func() (embeddings.Embedder, error) { return embedder, nil },
			Cache:      cache,
			Dimensions: dims,
		})
	}

	Describe("Embed", func() {
		It("returns the sentinel for empty input without touching the model", func() {
			svc := newService(nil)
			defer svc.Close()

			emb := svc.Embed(ctx, "   ")

			Expect(embeddings.IsZero(emb)).To(BeTrue())
			Expect(emb).To(HaveLen(dims))
			Expect(embedder.Calls()).To(BeZero())
		})

		It("degrades to the sentinel when the model fails", func() {
			embedder.fail = true
			svc := newService(nil)
			defer svc.Close()

			emb := svc.Embed(ctx, "qualquer texto")

			Expect(embeddings.IsZero(emb)).To(BeTrue())
			Expect(emb).To(HaveLen(dims))
		})

		It("degrades to the sentinel when the factory fails", func() {
			svc := service.New(service.Config{
				Factory:    func() (embeddings.Embedder, error) { return nil, errors.New("no backend") },
				Dimensions: dims,
			})
			defer svc.Close()

			emb := svc.Embed(ctx, "qualquer texto")

			Expect(embeddings.IsZero(emb)).To(BeTrue())
		})

		It("truncates to the character budget without splitting runes", func() {
			svc := service.New(service.Config{
				Factory:    func() (embeddings.Embedder, error) { return embedder, nil },
				Dimensions: dims,
				CharBudget: 5,
			})
			defer svc.Close()

			// "votação" would be cut mid-rune by a byte slice at 5.
			svc.Embed(ctx, "votação nominal")

			Expect(embedder.LastText()).To(Equal("votaç"))
			Expect(utf8.ValidString(embedder.LastText())).To(BeTrue())
		})

		It("passes text within the budget through unchanged", func() {
			svc := service.New(service.Config{
				Factory:    func() (embeddings.Embedder, error) { return embedder, nil },
				Dimensions: dims,
				CharBudget: 16,
			})
			defer svc.Close()

			svc.Embed(ctx, "votação nominal")

			Expect(embedder.LastText()).To(Equal("votação nominal"))
		})

		It("normalizes short model output to the fixed dimension", func() {
			embedder.vector = []float32{1, 2}
			svc := newService(nil)
			defer svc.Close()

			emb := svc.Embed(ctx, "texto")

			Expect(emb).To(HaveLen(dims))
			Expect(emb[0]).To(BeNumerically("==", 1))
			Expect(emb[2]).To(BeZero())
		})

		It("constructs the embedder once across calls", func() {
			factoryCalls := 0
			svc := service.New(service.Config{
				Factory: func() (embeddings.Embedder, error) {
					factoryCalls++
					return embedder, nil
				},
				Dimensions: dims,
			})
			defer svc.Close()

			svc.Embed(ctx, "um")
			svc.Embed(ctx, "dois")

			Expect(factoryCalls).To(Equal(1))
			Expect(embedder.Calls()).To(Equal(2))
		})
	})

	Describe("QueryEmbedding", func() {
		It("serves repeat queries from the cache without re-invoking the model", func() {
			store := inmemory.NewStore()
			svc := newService(store)

			first := svc.QueryEmbedding(ctx, "quem é tabata amaral")
			Expect(embeddings.IsZero(first)).To(BeFalse())
			Expect(embedder.Calls()).To(Equal(1))

			// Close flushes the asynchronous cache write.
			Expect(svc.Close()).To(Succeed())

			svc2 := newService(store)
			defer svc2.Close()

			second := svc2.QueryEmbedding(ctx, "quem é tabata amaral")
			Expect(second).To(Equal(first))
			Expect(embedder.Calls()).To(Equal(1))
		})

		It("keys the cache by exact text", func() {
			store := inmemory.NewStore()
			svc := newService(store)
			defer svc.Close()

			svc.QueryEmbedding(ctx, "um texto")
			svc.QueryEmbedding(ctx, "outro texto")

			Expect(embedder.Calls()).To(Equal(2))
		})

		It("deletes corrupt cache entries and regenerates", func() {
			store := inmemory.NewStore()
			text := "consulta corrompida"
			hash := service.Hash(text)

			Expect(store.PutCachedEmbedding(ctx, politics.CachedEmbedding{
				Hash:      hash,
				Text:      text,
				Embedding: []float32{1, 2}, // wrong dimension
			})).To(Succeed())

			svc := newService(store)
			emb := svc.QueryEmbedding(ctx, text)

			Expect(embeddings.IsZero(emb)).To(BeFalse())
			Expect(embedder.Calls()).To(Equal(1))

			Expect(svc.Close()).To(Succeed())

			// The corrupt entry was replaced by the regenerated one.
			entry, err := store.CachedEmbedding(ctx, hash)
			Expect(err).NotTo(HaveOccurred())
			Expect(entry).NotTo(BeNil())
			Expect(entry.Embedding).To(HaveLen(dims))
		})

		It("degrades to Embed when no cache is configured", func() {
			svc := newService(nil)
			defer svc.Close()

			emb := svc.QueryEmbedding(ctx, "sem cache")

			Expect(embeddings.IsZero(emb)).To(BeFalse())
			Expect(embedder.Calls()).To(Equal(1))
		})
	})
})
