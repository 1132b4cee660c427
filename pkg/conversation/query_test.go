package conversation

import (
	"strings"
	"testing"

	"github.com/plataforma-iris/iris/pkg/politics"
)

func TestNormalizeQuery(t *testing.T) {
	cases := map[string]string{
		"Quem é Tabata Amaral?":        "Tabata Amaral",
		"fale sobre Guilherme Boulos":  "Guilherme Boulos",
		"Reforma Tributária!":          "Reforma Tributária",
		"  quem foi Ulysses Guimarães": "Ulysses Guimarães",
		"":                             "",
	}
	for in, want := range cases {
		if got := normalizeQuery(in); got != want {
			t.Errorf("normalizeQuery(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSearchTerms(t *testing.T) {
	terms := searchTerms("Quem é Tabata Amaral?")
	want := []string{"Tabata Amaral", "Amaral", "Tabata"}
	if len(terms) != len(want) {
		t.Fatalf("searchTerms = %v, want %v", terms, want)
	}
	for i := range want {
		if terms[i] != want[i] {
			t.Errorf("terms[%d] = %q, want %q", i, terms[i], want[i])
		}
	}
}

func TestSearchTermsDropsStopWords(t *testing.T) {
	for _, term := range searchTerms("o que o deputado pensa sobre impostos") {
		low := strings.ToLower(term)
		if low == "que" || low == "sobre" {
			t.Errorf("stop word %q survived tokenization", term)
		}
	}
}

func TestIsDefinitionQuery(t *testing.T) {
	if !isDefinitionQuery("O que é o arcabouço fiscal?") {
		t.Error("expected definition query")
	}
	if !isDefinitionQuery("explique a reforma tributária") {
		t.Error("expected definition query")
	}
	if isDefinitionQuery("Quem é Tabata Amaral?") {
		t.Error("who-question is not a definition query")
	}
}

func TestIsSelfIntroQuery(t *testing.T) {
	for _, q := range []string{"Olá Iris", "se apresente", "Quem é você?"} {
		if !isSelfIntroQuery(q) {
			t.Errorf("expected self-intro for %q", q)
		}
	}
	if isSelfIntroQuery("Quem é Tabata Amaral?") {
		t.Error("politician question misread as self-intro")
	}
}

func TestHasStanceIndicator(t *testing.T) {
	if !hasStanceIndicator("qual o posicionamento dele sobre impostos") {
		t.Error("expected stance indicator")
	}
	if hasStanceIndicator("reforma tributária") {
		t.Error("unexpected stance indicator")
	}
}

func TestCleanResponseStripsEchoedLabels(t *testing.T) {
	in := "Aqui está o texto parafraseado: Tabata Amaral votou SIM."
	if got := CleanResponse(in); got != "Tabata Amaral votou SIM." {
		t.Errorf("CleanResponse = %q", got)
	}
}

func TestCleanResponseCollapsesBlankLines(t *testing.T) {
	got := CleanResponse("primeiro parágrafo.\n\n\n\nsegundo parágrafo.")
	if strings.Contains(got, "\n\n\n") {
		t.Errorf("blank lines not collapsed: %q", got)
	}
}

func TestCleanResponseDropsRepeatedSentences(t *testing.T) {
	got := CleanResponse("A votação foi aprovada. A votação foi aprovada. O texto segue ao Senado.")
	if n := strings.Count(got, "A votação foi aprovada"); n != 1 {
		t.Errorf("expected 1 occurrence, got %d in %q", n, got)
	}
	if !strings.Contains(got, "O texto segue ao Senado") {
		t.Errorf("distinct sentence dropped: %q", got)
	}
}

func TestVoteSummaryCounts(t *testing.T) {
	p := politics.Politician{Name: "Celso Russomanno", Party: "REPUBLICANOS", State: "SP", Role: "deputado federal"}
	votes := []politics.Vote{
		{Title: "Reforma Tributária", Value: politics.VoteSim},
		{Title: "Marco Temporal", Value: politics.VoteSim},
		{Title: "Arcabouço Fiscal", Value: politics.VoteNao},
		{Title: "Cotas Raciais", Value: politics.VoteAbstencao},
	}

	s := voteSummary(p, votes)
	if s.Sim != 2 || s.Nao != 1 || s.Abst != 1 || s.Ausente != 0 {
		t.Fatalf("counts = %d/%d/%d/%d", s.Sim, s.Nao, s.Abst, s.Ausente)
	}
	if len(s.Examples) != 3 {
		t.Fatalf("expected 3 examples, got %d", len(s.Examples))
	}
	if !strings.Contains(s.Text, "Dos 4 votos registrados na base, 2 foram SIM e 1 foram NÃO") {
		t.Errorf("summary text = %q", s.Text)
	}
}

func TestVoteSummaryNoVotes(t *testing.T) {
	p := politics.Politician{Name: "Fulano de Tal"}
	s := voteSummary(p, nil)
	if !strings.Contains(s.Text, "Não há votos registrados") {
		t.Errorf("summary text = %q", s.Text)
	}
	if !strings.Contains(s.Text, "(Desconhecido-)") {
		t.Errorf("expected placeholder party, got %q", s.Text)
	}
}
