package inmemory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/plataforma-iris/iris/pkg/politics"
	"github.com/plataforma-iris/iris/pkg/storage"
	"github.com/plataforma-iris/iris/pkg/storage/inmemory"
)

func seedPoliticians(s *inmemory.Store) (a, b, c politics.Politician) {
	a = politics.Politician{
		ID:     uuid.New(),
		Name:   "Tabata Amaral",
		Party:  "PSB",
		State:  "SP",
		Role:   "deputada federal",
		Active: true,

		BiographyEmbedding: []float32{1, 0, 0},
	}
	b = politics.Politician{
		ID:     uuid.New(),
		Name:   "Nikolas Ferreira",
		Party:  "PL",
		State:  "MG",
		Role:   "deputado federal",
		Active: true,

		BiographyEmbedding: []float32{0, 1, 0},
	}
	c = politics.Politician{
		ID:     uuid.New(),
		Name:   "Celso Russomanno",
		Party:  "Republicanos",
		State:  "SP",
		Active: false,

		BiographyEmbedding: []float32{1, 0, 0},
	}
	s.AddPolitician(a)
	s.AddPolitician(b)
	s.AddPolitician(c)
	return a, b, c
}

func TestSearchPoliticians(t *testing.T) {
	ctx := context.Background()
	store := inmemory.NewStore()
	seedPoliticians(store)

	got, err := store.SearchPoliticians(ctx, []string{"sp"}, 0)
	if err != nil {
		t.Fatalf("SearchPoliticians: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 matches for state SP, got %d", len(got))
	}
	// Results sort by name.
	if got[0].Name != "Celso Russomanno" || got[1].Name != "Tabata Amaral" {
		t.Errorf("unexpected order: %q, %q", got[0].Name, got[1].Name)
	}

	got, err = store.SearchPoliticians(ctx, []string{"deputado", "deputada"}, 1)
	if err != nil {
		t.Fatalf("SearchPoliticians: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("limit not applied, got %d results", len(got))
	}

	got, err = store.SearchPoliticians(ctx, []string{"", "   "}, 0)
	if err != nil {
		t.Fatalf("SearchPoliticians: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("blank terms should match nothing, got %d results", len(got))
	}
}

func TestSimilarPoliticians(t *testing.T) {
	ctx := context.Background()
	store := inmemory.NewStore()
	a, _, _ := seedPoliticians(store)
	store.AddPolitician(politics.Politician{ID: uuid.New(), Name: "Sem Biografia", Active: true})

	matches, err := store.SimilarPoliticians(ctx, []float32{1, 0, 0}, 0.5, 10)
	if err != nil {
		t.Fatalf("SimilarPoliticians: %v", err)
	}
	// The inactive politician and the one without an embedding are excluded
	// even though their vectors would qualify.
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Politician.ID != a.ID {
		t.Errorf("expected %s, got %s", a.Name, matches[0].Politician.Name)
	}
	if matches[0].Similarity != 1 {
		t.Errorf("expected similarity 1, got %v", matches[0].Similarity)
	}

	// The threshold is exclusive: a similarity equal to it does not match.
	matches, err = store.SimilarPoliticians(ctx, []float32{1, 0, 0}, 1.0, 10)
	if err != nil {
		t.Fatalf("SimilarPoliticians: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("similarity equal to threshold should not match, got %d results", len(matches))
	}
}

func TestSimilarDocumentsBestField(t *testing.T) {
	ctx := context.Background()
	store := inmemory.NewStore()

	doc := politics.Document{
		ID:    uuid.New(),
		Title: "PL 1234/2025",

		TitleEmbedding:   []float32{0, 1, 0},
		EmentaEmbedding:  []float32{1, 0, 0},
		ContentEmbedding: nil,
	}
	store.AddDocument(doc)
	store.AddDocument(politics.Document{ID: uuid.New(), Title: "Sem embedding"})

	matches, err := store.SimilarDocuments(ctx, []float32{1, 0, 0}, 0.5, 10)
	if err != nil {
		t.Fatalf("SimilarDocuments: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	// Similarity is the best across the embedded fields, here the ementa.
	if matches[0].Similarity != 1 {
		t.Errorf("expected best-field similarity 1, got %v", matches[0].Similarity)
	}
}

func TestPutEmbeddings(t *testing.T) {
	ctx := context.Background()
	store := inmemory.NewStore()
	a, _, _ := seedPoliticians(store)

	if err := store.PutPoliticianEmbedding(ctx, a.ID, []float32{0, 0, 1}); err != nil {
		t.Fatalf("PutPoliticianEmbedding: %v", err)
	}
	matches, err := store.SimilarPoliticians(ctx, []float32{0, 0, 1}, 0.9, 1)
	if err != nil {
		t.Fatalf("SimilarPoliticians: %v", err)
	}
	if len(matches) != 1 || matches[0].Politician.ID != a.ID {
		t.Fatalf("embedding update not visible to similarity search")
	}

	err = store.PutPoliticianEmbedding(ctx, uuid.New(), []float32{1})
	var notFound storage.ErrNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ErrNotFound for unknown politician, got %v", err)
	}
	if notFound.Kind != "politician" {
		t.Errorf("expected kind politician, got %q", notFound.Kind)
	}

	doc := politics.Document{
		ID:    uuid.New(),
		Title: "PL 99/2025",

		TitleEmbedding: []float32{0, 1, 0},
	}
	store.AddDocument(doc)

	// Nil fields leave the stored embedding untouched.
	if err := store.PutDocumentEmbeddings(ctx, doc.ID, nil, []float32{1, 0, 0}, nil); err != nil {
		t.Fatalf("PutDocumentEmbeddings: %v", err)
	}
	missing, err := store.DocumentsMissingEmbeddings(ctx, 0)
	if err != nil {
		t.Fatalf("DocumentsMissingEmbeddings: %v", err)
	}
	if len(missing) != 1 || missing[0].ID != doc.ID {
		t.Fatalf("document with empty content embedding should still be reported missing")
	}

	err = store.PutDocumentEmbeddings(ctx, uuid.New(), nil, nil, nil)
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ErrNotFound for unknown document, got %v", err)
	}
}

func TestPoliticiansMissingEmbedding(t *testing.T) {
	ctx := context.Background()
	store := inmemory.NewStore()

	withBio := politics.Politician{ID: uuid.New(), Name: "Com Biografia", Biography: "Nascida em São Paulo."}
	store.AddPolitician(withBio)
	store.AddPolitician(politics.Politician{ID: uuid.New(), Name: "Sem Biografia"})
	store.AddPolitician(politics.Politician{
		ID:        uuid.New(),
		Name:      "Já Embutido",
		Biography: "Deputado desde 2018.",

		BiographyEmbedding: []float32{1},
	})

	missing, err := store.PoliticiansMissingEmbedding(ctx, 0)
	if err != nil {
		t.Fatalf("PoliticiansMissingEmbedding: %v", err)
	}
	if len(missing) != 1 || missing[0].ID != withBio.ID {
		t.Fatalf("expected only the politician with a biography and no embedding, got %d", len(missing))
	}
}

func TestVotacaoClassification(t *testing.T) {
	ctx := context.Background()
	store := inmemory.NewStore()

	v := politics.Votacao{ID: uuid.New(), Description: "Votação do PL 1234/2025"}
	store.AddVotacao(v)
	store.AddVotacao(politics.Votacao{ID: uuid.New(), Description: "Já classificada", Axis: politics.AxisEconomic})

	unclassified, err := store.UnclassifiedVotacoes(ctx, 0)
	if err != nil {
		t.Fatalf("UnclassifiedVotacoes: %v", err)
	}
	if len(unclassified) != 1 || unclassified[0].ID != v.ID {
		t.Fatalf("expected 1 unclassified votacao, got %d", len(unclassified))
	}

	if err := store.PutVotacaoAxis(ctx, v.ID, politics.AxisSocial, 0.8, politics.MethodKeyword); err != nil {
		t.Fatalf("PutVotacaoAxis: %v", err)
	}
	unclassified, err = store.UnclassifiedVotacoes(ctx, 0)
	if err != nil {
		t.Fatalf("UnclassifiedVotacoes: %v", err)
	}
	if len(unclassified) != 0 {
		t.Errorf("classified votacao still reported as unclassified")
	}

	err = store.PutVotacaoAxis(ctx, uuid.New(), politics.AxisSocial, 0.5, politics.MethodManual)
	var notFound storage.ErrNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ErrNotFound for unknown votacao, got %v", err)
	}
}

func TestCachedEmbeddingWriteOnce(t *testing.T) {
	ctx := context.Background()
	store := inmemory.NewStore()

	entry, err := store.CachedEmbedding(ctx, "deadbeef")
	if err != nil {
		t.Fatalf("CachedEmbedding: %v", err)
	}
	if entry != nil {
		t.Fatalf("expected cache miss, got %+v", entry)
	}

	first := politics.CachedEmbedding{Hash: "deadbeef", Text: "original", Embedding: []float32{1, 2}}
	if err := store.PutCachedEmbedding(ctx, first); err != nil {
		t.Fatalf("PutCachedEmbedding: %v", err)
	}
	// A second put under the same hash is a no-op, not an overwrite.
	dup := politics.CachedEmbedding{Hash: "deadbeef", Text: "replacement", Embedding: []float32{9}}
	if err := store.PutCachedEmbedding(ctx, dup); err != nil {
		t.Fatalf("PutCachedEmbedding duplicate: %v", err)
	}

	entry, err = store.CachedEmbedding(ctx, "deadbeef")
	if err != nil {
		t.Fatalf("CachedEmbedding: %v", err)
	}
	if entry == nil || entry.Text != "original" {
		t.Fatalf("duplicate put overwrote the entry: %+v", entry)
	}

	if err := store.DeleteCachedEmbedding(ctx, "deadbeef"); err != nil {
		t.Fatalf("DeleteCachedEmbedding: %v", err)
	}
	entry, err = store.CachedEmbedding(ctx, "deadbeef")
	if err != nil {
		t.Fatalf("CachedEmbedding: %v", err)
	}
	if entry != nil {
		t.Errorf("entry survived deletion")
	}
}

func TestSessionHistory(t *testing.T) {
	ctx := context.Background()
	store := inmemory.NewStore()

	for _, msg := range []politics.SessionMessage{
		{SessionID: "s1", Role: "user", Message: "oi"},
		{SessionID: "s1", Role: "assistant", Message: "olá! como posso ajudar?"},
		{SessionID: "s1", Role: "user", Message: "quem é o meu deputado?"},
		{SessionID: "s2", Role: "user", Message: "outra sessão"},
	} {
		if err := store.AppendSessionMessage(ctx, msg); err != nil {
			t.Fatalf("AppendSessionMessage: %v", err)
		}
	}

	history, err := store.SessionHistory(ctx, "s1", 0)
	if err != nil {
		t.Fatalf("SessionHistory: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 messages for s1, got %d", len(history))
	}
	if history[0].Message != "oi" || history[2].Message != "quem é o meu deputado?" {
		t.Errorf("history out of order: %q .. %q", history[0].Message, history[2].Message)
	}
	for _, msg := range history {
		if msg.CreatedAt.IsZero() {
			t.Errorf("append did not stamp CreatedAt")
		}
	}

	history, err = store.SessionHistory(ctx, "s1", 2)
	if err != nil {
		t.Fatalf("SessionHistory: %v", err)
	}
	if len(history) != 2 {
		t.Errorf("limit not applied, got %d messages", len(history))
	}

	history, err = store.SessionHistory(ctx, "unknown", 0)
	if err != nil {
		t.Fatalf("SessionHistory: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("unknown session should have no history")
	}
}

func TestResponseLogs(t *testing.T) {
	ctx := context.Background()
	store := inmemory.NewStore()

	if err := store.AppendResponseLog(ctx, politics.ResponseLog{
		SessionID: "s1",
		Prompt:    "quem é o meu deputado?",
		Response:  "depende do seu estado.",
	}); err != nil {
		t.Fatalf("AppendResponseLog: %v", err)
	}

	logs := store.ResponseLogs()
	if len(logs) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(logs))
	}
	if logs[0].CreatedAt.IsZero() {
		t.Errorf("append did not stamp CreatedAt")
	}

	// The accessor hands out a copy.
	logs[0].Response = "mutated"
	if store.ResponseLogs()[0].Response != "depende do seu estado." {
		t.Errorf("ResponseLogs returned a shared slice")
	}
}
