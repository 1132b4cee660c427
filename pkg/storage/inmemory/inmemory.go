// Package inmemory provides a map-backed Store used by tests and for
// bring-up without a database. Similarity search is plain cosine over the
// stored embeddings.
package inmemory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/plataforma-iris/iris/pkg/embeddings"
	"github.com/plataforma-iris/iris/pkg/politics"
	"github.com/plataforma-iris/iris/pkg/storage"
)

// Store implements storage.Store in memory.
type Store struct {
	mu sync.RWMutex

	politicians []politics.Politician
	documents   []politics.Document
	votacoes    []politics.Votacao
	votes       map[uuid.UUID][]politics.Vote
	cache       map[string]politics.CachedEmbedding
	sessions    map[string][]politics.SessionMessage
	logs        []politics.ResponseLog
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		votes:    make(map[uuid.UUID][]politics.Vote),
		cache:    make(map[string]politics.CachedEmbedding),
		sessions: make(map[string][]politics.SessionMessage),
	}
}

// AddPolitician seeds a politician record.
func (s *Store) AddPolitician(p politics.Politician) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.politicians = append(s.politicians, p)
}

// AddDocument seeds a document record.
func (s *Store) AddDocument(d politics.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents = append(s.documents, d)
}

// AddVote seeds a recorded vote for a politician.
func (s *Store) AddVote(politicianID uuid.UUID, v politics.Vote) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.votes[politicianID] = append(s.votes[politicianID], v)
}

// AddVotacao seeds a voting event.
func (s *Store) AddVotacao(v politics.Votacao) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.votacoes = append(s.votacoes, v)
}

// ResponseLogs returns a copy of the appended response log entries.
func (s *Store) ResponseLogs() []politics.ResponseLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]politics.ResponseLog, len(s.logs))
	copy(out, s.logs)
	return out
}

func matchesAny(haystack string, terms []string) bool {
	hay := strings.ToLower(haystack)
	for _, t := range terms {
		if t == "" {
			continue
		}
		if strings.Contains(hay, strings.ToLower(t)) {
			return true
		}
	}
	return false
}

func (s *Store) SearchPoliticians(_ context.Context, terms []string, limit int) ([]politics.Politician, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []politics.Politician
	for _, p := range s.politicians {
		hay := strings.Join([]string{p.Name, p.Party, p.State, p.Role}, " ")
		if matchesAny(hay, terms) {
			out = append(out, p)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) SimilarPoliticians(_ context.Context, embedding []float32, threshold float32, limit int) ([]storage.PoliticianMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []storage.PoliticianMatch
	for _, p := range s.politicians {
		if !p.Active || len(p.BiographyEmbedding) == 0 {
			continue
		}
		sim := embeddings.Cosine(embedding, p.BiographyEmbedding)
		if sim > threshold {
			out = append(out, storage.PoliticianMatch{Politician: p, Similarity: sim})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Similarity > out[j].Similarity })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) ListPoliticians(_ context.Context) ([]politics.Politician, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]politics.Politician, len(s.politicians))
	copy(out, s.politicians)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) VotesForPolitician(_ context.Context, politicianID uuid.UUID) ([]politics.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	votes := s.votes[politicianID]
	out := make([]politics.Vote, len(votes))
	copy(out, votes)
	return out, nil
}

func (s *Store) SearchDocuments(_ context.Context, terms []string, limit int) ([]politics.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []politics.Document
	for _, d := range s.documents {
		hay := strings.Join([]string{d.Title, d.Ementa, d.SimplifiedSummary, d.OriginalContent}, " ")
		if matchesAny(hay, terms) {
			out = append(out, d)
		}
	}

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) SimilarDocuments(_ context.Context, embedding []float32, threshold float32, limit int) ([]storage.DocumentMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []storage.DocumentMatch
	for _, d := range s.documents {
		best := float32(0)
		for _, field := range [][]float32{d.TitleEmbedding, d.EmentaEmbedding, d.ContentEmbedding} {
			if len(field) == 0 {
				continue
			}
			if sim := embeddings.Cosine(embedding, field); sim > best {
				best = sim
			}
		}
		if best > threshold {
			out = append(out, storage.DocumentMatch{Document: d, Similarity: best})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Similarity > out[j].Similarity })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) PutPoliticianEmbedding(_ context.Context, politicianID uuid.UUID, embedding []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.politicians {
		if s.politicians[i].ID == politicianID {
			s.politicians[i].BiographyEmbedding = embedding
			return nil
		}
	}
	return storage.ErrNotFound{Kind: "politician", ID: politicianID.String()}
}

func (s *Store) PutDocumentEmbeddings(_ context.Context, documentID uuid.UUID, title, ementa, content []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.documents {
		if s.documents[i].ID == documentID {
			if title != nil {
				s.documents[i].TitleEmbedding = title
			}
			if ementa != nil {
				s.documents[i].EmentaEmbedding = ementa
			}
			if content != nil {
				s.documents[i].ContentEmbedding = content
			}
			return nil
		}
	}
	return storage.ErrNotFound{Kind: "document", ID: documentID.String()}
}

func (s *Store) PoliticiansMissingEmbedding(_ context.Context, limit int) ([]politics.Politician, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []politics.Politician
	for _, p := range s.politicians {
		if strings.TrimSpace(p.Biography) != "" && len(p.BiographyEmbedding) == 0 {
			out = append(out, p)
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (s *Store) DocumentsMissingEmbeddings(_ context.Context, limit int) ([]politics.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []politics.Document
	for _, d := range s.documents {
		if len(d.TitleEmbedding) == 0 || len(d.EmentaEmbedding) == 0 || len(d.ContentEmbedding) == 0 {
			out = append(out, d)
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (s *Store) UnclassifiedVotacoes(_ context.Context, limit int) ([]politics.Votacao, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []politics.Votacao
	for _, v := range s.votacoes {
		if v.Axis == "" {
			out = append(out, v)
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (s *Store) PutVotacaoAxis(_ context.Context, votacaoID uuid.UUID, axis politics.Axis, confidence float64, method politics.ClassificationMethod) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.votacoes {
		if s.votacoes[i].ID == votacaoID {
			s.votacoes[i].Axis = axis
			s.votacoes[i].Confidence = confidence
			s.votacoes[i].Method = method
			return nil
		}
	}
	return storage.ErrNotFound{Kind: "votacao", ID: votacaoID.String()}
}

func (s *Store) CachedEmbedding(_ context.Context, hash string) (*politics.CachedEmbedding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.cache[hash]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

func (s *Store) PutCachedEmbedding(_ context.Context, entry politics.CachedEmbedding) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.cache[entry.Hash]; exists {
		return nil
	}
	s.cache[entry.Hash] = entry
	return nil
}

func (s *Store) DeleteCachedEmbedding(_ context.Context, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cache, hash)
	return nil
}

func (s *Store) AppendSessionMessage(_ context.Context, msg politics.SessionMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	s.sessions[msg.SessionID] = append(s.sessions[msg.SessionID], msg)
	return nil
}

func (s *Store) SessionHistory(_ context.Context, sessionID string, limit int) ([]politics.SessionMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.sessions[sessionID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[:limit]
	}
	out := make([]politics.SessionMessage, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (s *Store) AppendResponseLog(_ context.Context, entry politics.ResponseLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	s.logs = append(s.logs, entry)
	return nil
}

func (s *Store) Close() error {
	return nil
}

var _ storage.Store = (*Store)(nil)
