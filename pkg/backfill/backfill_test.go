package backfill_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/plataforma-iris/iris/pkg/backfill"
	"github.com/plataforma-iris/iris/pkg/classify"
	"github.com/plataforma-iris/iris/pkg/embeddings"
	"github.com/plataforma-iris/iris/pkg/politics"
	"github.com/plataforma-iris/iris/pkg/storage/inmemory"
)

func TestBackfill(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Backfill Suite")
}

// fakeEmbedder returns a fixed unit vector, or the zero sentinel for texts
// containing FailOn.
type fakeEmbedder struct {
	FailOn string
	calls  int
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) []float32 {
	f.calls++
	if f.FailOn != "" && strings.Contains(text, f.FailOn) {
		return embeddings.Zero(embeddings.Dimensions)
	}
	emb := embeddings.Zero(embeddings.Dimensions)
	emb[0] = 1
	return emb
}

// zeroEmbedder always returns the sentinel, so the classifier's embedding
// fallback never resolves anything and only the keyword pass matters.
type zeroEmbedder struct{}

func (zeroEmbedder) Embed(_ context.Context, _ string) []float32 {
	return embeddings.Zero(embeddings.Dimensions)
}

var _ = Describe("Backfiller", func() {
	var (
		store    *inmemory.Store
		embedder *fakeEmbedder
		ctx      context.Context
	)

	BeforeEach(func() {
		store = inmemory.NewStore()
		embedder = &fakeEmbedder{}
		ctx = context.Background()
	})

	newBackfiller := func(opts backfill.Options) *backfill.Backfiller {
		classifier := classify.New(classify.Config{}, zeroEmbedder{}, nil)
		return backfill.New(store, embedder, classifier, opts, nil)
	}

	It("embeds politicians that have a biography but no embedding", func() {
		store.AddPolitician(politics.Politician{
			ID:        uuid.New(),
			Name:      "Tabata Amaral",
			Biography: "Deputada federal por São Paulo.",
			Active:    true,
		})

		result, err := newBackfiller(backfill.Options{}).Run(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.PoliticiansEmbedded).To(Equal(1))

		remaining, err := store.PoliticiansMissingEmbedding(ctx, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(remaining).To(BeEmpty())
	})

	It("skips politicians whose biography cannot be embedded", func() {
		embedder.FailOn = "indisponível"
		store.AddPolitician(politics.Politician{
			ID:        uuid.New(),
			Name:      "Sem Biografia",
			Biography: "texto indisponível",
			Active:    true,
		})

		result, err := newBackfiller(backfill.Options{}).Run(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.PoliticiansEmbedded).To(BeZero())
		Expect(result.PoliticiansSkipped).To(Equal(1))

		// Still a candidate for a later run.
		remaining, err := store.PoliticiansMissingEmbedding(ctx, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(remaining).To(HaveLen(1))
	})

	It("embeds only the unset document fields", func() {
		preset := embeddings.Zero(embeddings.Dimensions)
		preset[1] = 1

		doc := politics.Document{
			ID:             uuid.New(),
			Title:          "PL 2903/2023",
			Ementa:         "Marco temporal para demarcação de terras indígenas.",
			TitleEmbedding: preset,
		}
		store.AddDocument(doc)

		result, err := newBackfiller(backfill.Options{}).Run(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.DocumentsEmbedded).To(Equal(1))

		remaining, err := store.DocumentsMissingEmbeddings(ctx, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(remaining).To(BeEmpty())
	})

	It("classifies voting events and leaves those with no signal unclassified", func() {
		doc := politics.Document{ID: uuid.New(), Title: "PL 1087/2025"}
		store.AddDocument(doc)
		store.AddVotacao(politics.Votacao{
			ID:          uuid.New(),
			DocumentID:  doc.ID,
			Description: "Redução de impostos sobre a renda",
		})
		store.AddVotacao(politics.Votacao{
			ID:          uuid.New(),
			DocumentID:  doc.ID,
			Description: "Requerimento de votação nominal",
		})

		result, err := newBackfiller(backfill.Options{}).Run(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.VotacoesClassified).To(Equal(1))

		remaining, err := store.UnclassifiedVotacoes(ctx, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(remaining).To(HaveLen(1))
	})

	It("writes nothing in dry-run mode", func() {
		store.AddPolitician(politics.Politician{
			ID:        uuid.New(),
			Name:      "Tabata Amaral",
			Biography: "Deputada federal por São Paulo.",
			Active:    true,
		})

		result, err := newBackfiller(backfill.Options{DryRun: true}).Run(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.PoliticiansEmbedded).To(Equal(1))

		remaining, err := store.PoliticiansMissingEmbedding(ctx, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(remaining).To(HaveLen(1))
	})
})
