package conversation

import (
	"fmt"
	"strings"

	"github.com/plataforma-iris/iris/pkg/politics"
)

const (
	// MaxSnippetChars bounds document excerpts fed to prompts and sources.
	MaxSnippetChars = 800

	// maxSummaryExamples is how many example votes the deterministic summary
	// cites.
	maxSummaryExamples = 3

	// minSubstantiveChars is the non-whitespace length a document needs to
	// count as grounding material.
	minSubstantiveChars = 120
)

// VoteSummary is the deterministic, fully grounded description of a
// politician's voting record. Its Text is usable verbatim as a response when
// generation is unavailable.
type VoteSummary struct {
	Text     string          `json:"summary"`
	Sim      int             `json:"sim_count"`
	Nao      int             `json:"nao_count"`
	Abst     int             `json:"abst_count"`
	Ausente  int             `json:"ausente_count"`
	Total    int             `json:"total_known"`
	Examples []politics.Vote `json:"examples"`
}

// voteSummary builds the deterministic summary from stored votes only.
func voteSummary(p politics.Politician, votes []politics.Vote) VoteSummary {
	party := p.Party
	if party == "" {
		party = "Desconhecido"
	}
	role := p.Role
	if role == "" {
		role = "representante público"
	}
	header := fmt.Sprintf("%s é %s (%s-%s).", p.Name, role, party, p.State)

	s := VoteSummary{Total: len(votes)}
	for _, v := range votes {
		switch v.Value {
		case politics.VoteSim:
			s.Sim++
		case politics.VoteNao:
			s.Nao++
		case politics.VoteAbstencao:
			s.Abst++
		case politics.VoteAusente:
			s.Ausente++
		}
	}

	if s.Total == 0 {
		s.Text = header + " Não há votos registrados na base para este político."
		return s
	}

	s.Examples = votes
	if len(s.Examples) > maxSummaryExamples {
		s.Examples = s.Examples[:maxSummaryExamples]
	}
	examples := make([]string, 0, len(s.Examples))
	for _, v := range s.Examples {
		examples = append(examples, fmt.Sprintf("%s: %s", v.Title, v.Value))
	}

	s.Text = fmt.Sprintf(
		"%s Dos %d votos registrados na base, %d foram SIM e %d foram NÃO. Exemplos: %s.",
		header, s.Total, s.Sim, s.Nao, strings.Join(examples, "; "),
	)
	return s
}

// snippet flattens and truncates text for prompts and evidence.
func snippet(text string) string {
	s := strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
	runes := []rune(s)
	if len(runes) > MaxSnippetChars {
		return string(runes[:MaxSnippetChars]) + "..."
	}
	return s
}

// documentBlocks joins the first few documents' titles and contents into the
// grounding text handed to the paraphrase prompt.
func documentBlocks(docs []politics.Document, limit int) string {
	blocks := make([]string, 0, limit)
	for i, d := range docs {
		if i == limit {
			break
		}
		content := d.Content()
		if content == "" {
			content = d.Title
		}
		block := strings.TrimSpace(d.Title + "\n\n" + content)
		if block != "" {
			blocks = append(blocks, block)
		}
	}
	return strings.Join(blocks, "\n\n")
}

// documentsRelevant reports whether any retrieved document shares a
// significant query token, guarding against citing unrelated matches.
func documentsRelevant(query string, docs []politics.Document) bool {
	if len(docs) == 0 {
		return false
	}
	tokens := queryTokens(query)
	if len(tokens) == 0 {
		return false
	}
	for _, d := range docs {
		hay := strings.ToLower(d.Title + " " + snippet(d.Content()))
		for _, tok := range tokens {
			if strings.Contains(hay, tok) {
				return true
			}
		}
	}
	return false
}

func anySubstantive(docs []politics.Document) bool {
	for _, d := range docs {
		compact := strings.Join(strings.Fields(d.Content()), "")
		if len([]rune(compact)) >= minSubstantiveChars {
			return true
		}
	}
	return false
}
