// Package rag backs the travel-notes retrieval corpus with a sqlite
// vector store. Ingestion is a maintenance operation; the request path
// only runs similarity queries.
package rag

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	_ "github.com/glebarez/go-sqlite"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/vectorstores"
)

// Store persists documents and their embeddings in sqlite and answers
// similarity queries by brute-force cosine ranking. Fine for a corpus of
// travel notes; a few thousand chunks rank in well under a millisecond.
type Store struct {
	db       *sql.DB
	embedder embeddings.Embedder
}

var _ vectorstores.VectorStore = (*Store)(nil)

func Open(path string, embedder embeddings.Embedder) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS documents (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		content TEXT,
		metadata TEXT,
		embedding BLOB
	);`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, embedder: embedder}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) AddDocuments(ctx context.Context, docs []schema.Document, _ ...vectorstores.Option) ([]string, error) {
	if len(docs) == 0 {
		return nil, nil
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.PageContent
	}

	vectors, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed documents: %w", err)
	}
	if len(vectors) != len(docs) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d documents", len(vectors), len(docs))
	}

	ids := make([]string, 0, len(docs))
	for i, d := range docs {
		meta, err := json.Marshal(d.Metadata)
		if err != nil {
			meta = []byte("{}")
		}
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO documents (content, metadata, embedding) VALUES (?, ?, ?)`,
			d.PageContent, string(meta), encodeVector(vectors[i]))
		if err != nil {
			return nil, err
		}
		id, _ := res.LastInsertId()
		ids = append(ids, strconv.FormatInt(id, 10))
	}
	return ids, nil
}

// SimilaritySearch returns up to numDocuments passages ranked by cosine
// similarity. An empty corpus yields an empty result, not an error.
func (s *Store) SimilaritySearch(ctx context.Context, query string, numDocuments int, _ ...vectorstores.Option) ([]schema.Document, error) {
	queryVec, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT content, metadata, embedding FROM documents`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type scored struct {
		doc   schema.Document
		score float32
	}
	var candidates []scored

	for rows.Next() {
		var content, metaJSON string
		var blob []byte
		if err := rows.Scan(&content, &metaJSON, &blob); err != nil {
			return nil, err
		}

		var meta map[string]any
		_ = json.Unmarshal([]byte(metaJSON), &meta)

		score := cosineSimilarity(queryVec, decodeVector(blob))
		candidates = append(candidates, scored{
			doc:   schema.Document{PageContent: content, Metadata: meta, Score: score},
			score: score,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if numDocuments > 0 && len(candidates) > numDocuments {
		candidates = candidates[:numDocuments]
	}

	docs := make([]schema.Document, 0, len(candidates))
	for _, c := range candidates {
		docs = append(docs, c.doc)
	}
	return docs, nil
}

func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func decodeVector(b []byte) []float32 {
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
