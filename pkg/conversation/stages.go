package conversation

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/plataforma-iris/iris/pkg/embeddings"
	"github.com/plataforma-iris/iris/pkg/politics"
)

func (o *Orchestrator) gateAlways(context.Context, *turn) bool { return true }

func (o *Orchestrator) gateSelfIntro(_ context.Context, t *turn) bool {
	return isSelfIntroQuery(t.msg.Text)
}

func (o *Orchestrator) runSelfIntro(_ context.Context, t *turn) *outcome {
	return &outcome{
		response: SystemBiography,
		prompt:   promptDescriptor{},
	}
}

// gatePolitician tries lexical politician search first. When that finds
// nothing and the message carries a stance indicator, it falls back to
// similarity over biography embeddings gated by the politician threshold.
func (o *Orchestrator) gatePolitician(ctx context.Context, t *turn) bool {
	terms := searchTerms(t.msg.Text)
	if len(terms) == 0 {
		return false
	}

	found, err := o.store.SearchPoliticians(ctx, terms, 1)
	if err != nil {
		o.logger.Warn("politician search failed", zap.Error(err))
		return false
	}
	if len(found) > 0 {
		t.politician = &found[0]
		return true
	}

	if !hasStanceIndicator(t.msg.Text) {
		return false
	}
	emb := o.embedder.QueryEmbedding(ctx, t.msg.Text)
	if embeddings.IsZero(emb) {
		return false
	}
	matches, err := o.store.SimilarPoliticians(ctx, emb, o.cfg.PoliticianThreshold, 1)
	if err != nil {
		o.logger.Warn("politician similarity search failed", zap.Error(err))
		return false
	}
	if len(matches) == 0 {
		return false
	}
	t.politician = &matches[0].Politician
	return true
}

func (o *Orchestrator) runPolitician(ctx context.Context, t *turn) *outcome {
	p := t.politician

	votes, err := o.store.VotesForPolitician(ctx, p.ID)
	if err != nil {
		o.logger.Warn("fetching votes failed", zap.String("politician", p.Name), zap.Error(err))
		votes = nil
	}
	summary := voteSummary(*p, votes)

	text := o.generate(ctx, t, paraphrasePrompt(summary.Text), summary.Text)

	evidence := make([]Evidence, 0, len(summary.Examples))
	for _, v := range summary.Examples {
		id := v.DocumentSourceID
		if id == "" {
			id = v.DocumentID.String()
		}
		evidence = append(evidence, Evidence{
			Text:     v.Title + ": " + string(v.Value),
			Source:   id,
			Location: id,
		})
	}

	sources := []Source{{ID: politicianSourceID(*p), Title: p.Name, Type: "deputado"}}
	o.ensureDocuments(ctx, t)
	for _, d := range t.documents {
		sources = append(sources, documentSource(d))
	}

	return &outcome{
		response: text,
		evidence: evidence,
		sources:  sources,
		grounded: true,
		prompt:   promptDescriptor{Data: summary},
	}
}

func (o *Orchestrator) gateDefinition(_ context.Context, t *turn) bool {
	return isDefinitionQuery(t.msg.Text)
}

// runDefinition answers "what is X" questions. With relevant substantive
// documents it paraphrases them; without, it answers from the backend's
// general knowledge and cites nothing.
func (o *Orchestrator) runDefinition(ctx context.Context, t *turn) *outcome {
	o.ensureDocuments(ctx, t)

	if documentsRelevant(t.msg.Text, t.documents) && anySubstantive(t.documents) {
		grounding := documentBlocks(t.documents, 3)
		text := o.generate(ctx, t, explainPrompt(grounding), grounding)

		sources := make([]Source, 0, len(t.documents))
		for _, d := range t.documents {
			sources = append(sources, documentSource(d))
		}
		return &outcome{
			response: text,
			sources:  sources,
			grounded: true,
			prompt:   promptDescriptor{Data: documentTitles(t.documents)},
		}
	}

	text := o.generate(ctx, t, definitionPrompt(t.msg.Text), "")
	return &outcome{
		response: text,
		prompt:   promptDescriptor{Query: t.msg.Text},
	}
}

func (o *Orchestrator) gateDocuments(ctx context.Context, t *turn) bool {
	o.ensureDocuments(ctx, t)
	return len(t.documents) > 0 && documentsRelevant(t.msg.Text, t.documents) && anySubstantive(t.documents)
}

func (o *Orchestrator) runDocuments(ctx context.Context, t *turn) *outcome {
	parts := make([]string, 0, 3)
	for i, d := range t.documents {
		if i == 3 {
			break
		}
		parts = append(parts, d.Title+": "+snippet(d.Content()))
	}
	grounding := strings.Join(parts, " ")

	text := o.generate(ctx, t, summarizePrompt(grounding), grounding)

	sources := make([]Source, 0, len(t.documents))
	for _, d := range t.documents {
		sources = append(sources, documentSource(d))
	}
	return &outcome{
		response: text,
		sources:  sources,
		grounded: true,
		prompt:   promptDescriptor{Data: documentTitles(t.documents)},
	}
}

func (o *Orchestrator) runGeneral(ctx context.Context, t *turn) *outcome {
	text := o.generate(ctx, t, generalPrompt(t.msg.Text), "")
	return &outcome{
		response: text,
		prompt:   promptDescriptor{Query: t.msg.Text},
	}
}

// ensureDocuments loads candidate documents once per turn: lexical search
// first, then similarity over document embeddings gated by the document
// threshold when lexical search finds nothing.
func (o *Orchestrator) ensureDocuments(ctx context.Context, t *turn) {
	if t.docsLoaded {
		return
	}
	t.docsLoaded = true

	terms := searchTerms(t.msg.Text)
	if len(terms) == 0 {
		terms = []string{t.msg.Text}
	}
	docs, err := o.store.SearchDocuments(ctx, terms, defaultDocumentLimit)
	if err != nil {
		o.logger.Warn("document search failed", zap.Error(err))
		return
	}
	if len(docs) > 0 {
		t.documents = docs
		return
	}

	emb := o.embedder.QueryEmbedding(ctx, t.msg.Text)
	if embeddings.IsZero(emb) {
		return
	}
	matches, err := o.store.SimilarDocuments(ctx, emb, o.cfg.DocumentThreshold, defaultDocumentLimit)
	if err != nil {
		o.logger.Warn("document similarity search failed", zap.Error(err))
		return
	}
	for _, m := range matches {
		t.documents = append(t.documents, m.Document)
	}
}

func politicianSourceID(p politics.Politician) string {
	if p.CamaraID != 0 {
		return "politico-" + strconv.FormatInt(p.CamaraID, 10)
	}
	return "politico-" + p.ID.String()
}

func documentSource(d politics.Document) Source {
	id := d.SourceID
	if id == "" {
		id = d.ID.String()
	}
	return Source{ID: id, Title: d.Title, Type: "documento"}
}

func documentTitles(docs []politics.Document) []string {
	titles := make([]string, 0, len(docs))
	for _, d := range docs {
		titles = append(titles, d.Title)
	}
	return titles
}
