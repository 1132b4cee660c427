// Package postgres implements storage.Store over PostgreSQL with pgvector.
// It assumes the ingestion side owns the schema; this driver only reads and
// writes the columns the engine contract names.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	pgxvec "github.com/pgvector/pgvector-go/pgx"

	"github.com/plataforma-iris/iris/pkg/politics"
	"github.com/plataforma-iris/iris/pkg/storage"
)

// Store implements storage.Store backed by a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to the database and verifies the connection.
func NewStore(ctx context.Context, connString string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	cfg.MaxConns = 10
	cfg.MaxConnLifetime = time.Hour
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &Store{pool: pool}, nil
}

func likePatterns(terms []string) []string {
	patterns := make([]string, 0, len(terms))
	for _, t := range terms {
		if t == "" {
			continue
		}
		patterns = append(patterns, "%"+t+"%")
	}
	return patterns
}

func (s *Store) SearchPoliticians(ctx context.Context, terms []string, limit int) ([]politics.Politician, error) {
	patterns := likePatterns(terms)
	if len(patterns) == 0 {
		return nil, nil
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, COALESCE(id_camara, 0), nome, COALESCE(partido, ''), COALESCE(uf, ''),
		        COALESCE(cargo, ''), COALESCE(ativo, false), COALESCE(biografia_resumo, ''), ici
		 FROM politicos
		 WHERE nome ILIKE ANY($1) OR partido ILIKE ANY($1) OR uf ILIKE ANY($1) OR cargo ILIKE ANY($1)
		 ORDER BY nome ASC
		 LIMIT $2`,
		patterns, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("searching politicians: %w", err)
	}
	defer rows.Close()

	var out []politics.Politician
	for rows.Next() {
		var p politics.Politician
		if err := rows.Scan(&p.ID, &p.CamaraID, &p.Name, &p.Party, &p.State, &p.Role, &p.Active, &p.Biography, &p.ICI); err != nil {
			return nil, fmt.Errorf("scanning politician: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) SimilarPoliticians(ctx context.Context, embedding []float32, threshold float32, limit int) ([]storage.PoliticianMatch, error) {
	vec := pgvector.NewVector(embedding)

	rows, err := s.pool.Query(ctx,
		`SELECT id, COALESCE(id_camara, 0), nome, COALESCE(partido, ''), COALESCE(uf, ''),
		        COALESCE(cargo, ''), COALESCE(ativo, false), COALESCE(biografia_resumo, ''), ici,
		        1 - (embedding_biografia <=> $1) AS similarity
		 FROM politicos
		 WHERE embedding_biografia IS NOT NULL
		   AND ativo IS TRUE
		   AND 1 - (embedding_biografia <=> $1) > $2
		 ORDER BY similarity DESC
		 LIMIT $3`,
		vec, threshold, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("searching similar politicians: %w", err)
	}
	defer rows.Close()

	var out []storage.PoliticianMatch
	for rows.Next() {
		var m storage.PoliticianMatch
		if err := rows.Scan(&m.ID, &m.CamaraID, &m.Name, &m.Party, &m.State, &m.Role, &m.Active, &m.Biography, &m.ICI, &m.Similarity); err != nil {
			return nil, fmt.Errorf("scanning politician match: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) ListPoliticians(ctx context.Context) ([]politics.Politician, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, COALESCE(id_camara, 0), nome, COALESCE(partido, ''), COALESCE(uf, ''),
		        COALESCE(cargo, ''), COALESCE(ativo, false), COALESCE(biografia_resumo, ''), ici
		 FROM politicos
		 ORDER BY nome ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing politicians: %w", err)
	}
	defer rows.Close()

	var out []politics.Politician
	for rows.Next() {
		var p politics.Politician
		if err := rows.Scan(&p.ID, &p.CamaraID, &p.Name, &p.Party, &p.State, &p.Role, &p.Active, &p.Biography, &p.ICI); err != nil {
			return nil, fmt.Errorf("scanning politician: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) VotesForPolitician(ctx context.Context, politicianID uuid.UUID) ([]politics.Vote, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT dp.id, COALESCE(dp.id_documento_origem, ''), dp.titulo, vd.voto
		 FROM votos_documento vd
		 JOIN documentos_politicos dp ON vd.documento_id = dp.id
		 WHERE vd.politico_id = $1
		 ORDER BY dp.created_at NULLS LAST, dp.id_documento_origem`,
		politicianID,
	)
	if err != nil {
		return nil, fmt.Errorf("fetching votes: %w", err)
	}
	defer rows.Close()

	var out []politics.Vote
	for rows.Next() {
		var v politics.Vote
		var raw string
		if err := rows.Scan(&v.DocumentID, &v.DocumentSourceID, &v.Title, &raw); err != nil {
			return nil, fmt.Errorf("scanning vote: %w", err)
		}
		if parsed, err := politics.ParseVoteValue(raw); err == nil {
			v.Value = parsed
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *Store) SearchDocuments(ctx context.Context, terms []string, limit int) ([]politics.Document, error) {
	patterns := likePatterns(terms)
	if len(patterns) == 0 {
		return nil, nil
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, COALESCE(id_documento_origem, ''), titulo, COALESCE(tipo, ''),
		        COALESCE(ementa, ''), COALESCE(resumo_simplificado, ''),
		        COALESCE(conteudo_original, ''), COALESCE(url_fonte, '')
		 FROM documentos_politicos
		 WHERE titulo ILIKE ANY($1) OR ementa ILIKE ANY($1)
		    OR resumo_simplificado ILIKE ANY($1) OR conteudo_original ILIKE ANY($1)
		 ORDER BY created_at DESC
		 LIMIT $2`,
		patterns, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("searching documents: %w", err)
	}
	defer rows.Close()

	return scanDocuments(rows)
}

func (s *Store) SimilarDocuments(ctx context.Context, embedding []float32, threshold float32, limit int) ([]storage.DocumentMatch, error) {
	vec := pgvector.NewVector(embedding)

	rows, err := s.pool.Query(ctx,
		`SELECT id, COALESCE(id_documento_origem, ''), titulo, COALESCE(tipo, ''),
		        COALESCE(ementa, ''), COALESCE(resumo_simplificado, ''),
		        COALESCE(conteudo_original, ''), COALESCE(url_fonte, ''),
		        GREATEST(
		          COALESCE(1 - (embedding_titulo <=> $1), 0),
		          COALESCE(1 - (embedding_ementa <=> $1), 0),
		          COALESCE(1 - (embedding_documento <=> $1), 0)
		        ) AS max_similarity
		 FROM documentos_politicos
		 WHERE (embedding_titulo IS NOT NULL OR embedding_ementa IS NOT NULL OR embedding_documento IS NOT NULL)
		   AND GREATEST(
		         COALESCE(1 - (embedding_titulo <=> $1), 0),
		         COALESCE(1 - (embedding_ementa <=> $1), 0),
		         COALESCE(1 - (embedding_documento <=> $1), 0)
		       ) > $2
		 ORDER BY max_similarity DESC
		 LIMIT $3`,
		vec, threshold, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("searching similar documents: %w", err)
	}
	defer rows.Close()

	var out []storage.DocumentMatch
	for rows.Next() {
		var m storage.DocumentMatch
		if err := rows.Scan(&m.ID, &m.SourceID, &m.Title, &m.Type, &m.Ementa, &m.SimplifiedSummary,
			&m.OriginalContent, &m.SourceURL, &m.Similarity); err != nil {
			return nil, fmt.Errorf("scanning document match: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func scanDocuments(rows pgx.Rows) ([]politics.Document, error) {
	var out []politics.Document
	for rows.Next() {
		var d politics.Document
		if err := rows.Scan(&d.ID, &d.SourceID, &d.Title, &d.Type, &d.Ementa,
			&d.SimplifiedSummary, &d.OriginalContent, &d.SourceURL); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) PutPoliticianEmbedding(ctx context.Context, politicianID uuid.UUID, embedding []float32) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE politicos SET embedding_biografia = $2, updated_at = NOW() WHERE id = $1`,
		politicianID, pgvector.NewVector(embedding),
	)
	if err != nil {
		return fmt.Errorf("updating politician embedding: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound{Kind: "politician", ID: politicianID.String()}
	}
	return nil
}

func (s *Store) PutDocumentEmbeddings(ctx context.Context, documentID uuid.UUID, title, ementa, content []float32) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE documentos_politicos SET
		   embedding_titulo    = COALESCE($2, embedding_titulo),
		   embedding_ementa    = COALESCE($3, embedding_ementa),
		   embedding_documento = COALESCE($4, embedding_documento),
		   updated_at = NOW()
		 WHERE id = $1`,
		documentID, vecOrNil(title), vecOrNil(ementa), vecOrNil(content),
	)
	if err != nil {
		return fmt.Errorf("updating document embeddings: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound{Kind: "document", ID: documentID.String()}
	}
	return nil
}

func vecOrNil(v []float32) *pgvector.Vector {
	if v == nil {
		return nil
	}
	vec := pgvector.NewVector(v)
	return &vec
}

func (s *Store) PoliticiansMissingEmbedding(ctx context.Context, limit int) ([]politics.Politician, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, COALESCE(id_camara, 0), nome, COALESCE(partido, ''), COALESCE(uf, ''),
		        COALESCE(cargo, ''), COALESCE(ativo, false), COALESCE(biografia_resumo, ''), ici
		 FROM politicos
		 WHERE biografia_resumo IS NOT NULL AND embedding_biografia IS NULL
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing politicians missing embeddings: %w", err)
	}
	defer rows.Close()

	var out []politics.Politician
	for rows.Next() {
		var p politics.Politician
		if err := rows.Scan(&p.ID, &p.CamaraID, &p.Name, &p.Party, &p.State, &p.Role, &p.Active, &p.Biography, &p.ICI); err != nil {
			return nil, fmt.Errorf("scanning politician: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) DocumentsMissingEmbeddings(ctx context.Context, limit int) ([]politics.Document, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, COALESCE(id_documento_origem, ''), titulo, COALESCE(tipo, ''),
		        COALESCE(ementa, ''), COALESCE(resumo_simplificado, ''),
		        COALESCE(conteudo_original, ''), COALESCE(url_fonte, '')
		 FROM documentos_politicos
		 WHERE embedding_titulo IS NULL OR embedding_ementa IS NULL OR embedding_documento IS NULL
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing documents missing embeddings: %w", err)
	}
	defer rows.Close()

	return scanDocuments(rows)
}

func (s *Store) UnclassifiedVotacoes(ctx context.Context, limit int) ([]politics.Votacao, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT v.id, v.documento_id, COALESCE(v.descricao, '')
		 FROM votacoes v
		 LEFT JOIN votacoes_eixo ve ON ve.votacao_id = v.id
		 WHERE ve.id IS NULL
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing unclassified votacoes: %w", err)
	}
	defer rows.Close()

	var out []politics.Votacao
	for rows.Next() {
		var v politics.Votacao
		if err := rows.Scan(&v.ID, &v.DocumentID, &v.Description); err != nil {
			return nil, fmt.Errorf("scanning votacao: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *Store) PutVotacaoAxis(ctx context.Context, votacaoID uuid.UUID, axis politics.Axis, confidence float64, method politics.ClassificationMethod) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO votacoes_eixo (votacao_id, eixo, eixo_conf, metodo)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (votacao_id) DO UPDATE
		 SET eixo = EXCLUDED.eixo, eixo_conf = EXCLUDED.eixo_conf, metodo = EXCLUDED.metodo`,
		votacaoID, string(axis), confidence, string(method),
	)
	if err != nil {
		return fmt.Errorf("upserting votacao axis: %w", err)
	}
	return nil
}

func (s *Store) CachedEmbedding(ctx context.Context, hash string) (*politics.CachedEmbedding, error) {
	var entry politics.CachedEmbedding
	var vec pgvector.Vector

	err := s.pool.QueryRow(ctx,
		`SELECT query_hash, query_text, embedding FROM query_embeddings_cache WHERE query_hash = $1`,
		hash,
	).Scan(&entry.Hash, &entry.Text, &vec)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching cached embedding: %w", err)
	}

	entry.Embedding = vec.Slice()
	return &entry, nil
}

func (s *Store) PutCachedEmbedding(ctx context.Context, entry politics.CachedEmbedding) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO query_embeddings_cache (query_hash, query_text, embedding)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (query_hash) DO NOTHING`,
		entry.Hash, entry.Text, pgvector.NewVector(entry.Embedding),
	)
	if err != nil {
		return fmt.Errorf("storing cached embedding: %w", err)
	}
	return nil
}

func (s *Store) DeleteCachedEmbedding(ctx context.Context, hash string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM query_embeddings_cache WHERE query_hash = $1`,
		hash,
	)
	if err != nil {
		return fmt.Errorf("deleting cached embedding: %w", err)
	}
	return nil
}

func (s *Store) AppendSessionMessage(ctx context.Context, msg politics.SessionMessage) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO session_messages (session_id, role, message) VALUES ($1, $2, $3)`,
		msg.SessionID, msg.Role, msg.Message,
	)
	if err != nil {
		return fmt.Errorf("appending session message: %w", err)
	}
	return nil
}

func (s *Store) SessionHistory(ctx context.Context, sessionID string, limit int) ([]politics.SessionMessage, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT session_id, role, message, created_at
		 FROM session_messages
		 WHERE session_id = $1
		 ORDER BY created_at ASC
		 LIMIT $2`,
		sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("fetching session history: %w", err)
	}
	defer rows.Close()

	var out []politics.SessionMessage
	for rows.Next() {
		var m politics.SessionMessage
		if err := rows.Scan(&m.SessionID, &m.Role, &m.Message, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning session message: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) AppendResponseLog(ctx context.Context, entry politics.ResponseLog) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO response_logs (session_id, user_id, prompt, response, sources)
		 VALUES ($1, $2, $3, $4, $5)`,
		entry.SessionID, entry.UserID, entry.Prompt, entry.Response, entry.Sources,
	)
	if err != nil {
		return fmt.Errorf("appending response log: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

var _ storage.Store = (*Store)(nil)
