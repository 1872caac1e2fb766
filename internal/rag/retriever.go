package rag

import (
	"context"

	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/vectorstores"
)

// Retriever answers "top-k passages for a query" over any vector store.
// Retrieval problems are never fatal to a trip request: a missing or
// empty index simply yields no passages.
type Retriever struct {
	store vectorstores.VectorStore
	topK  int
}

func NewRetriever(store vectorstores.VectorStore, topK int) *Retriever {
	if topK <= 0 {
		topK = 5
	}
	return &Retriever{store: store, topK: topK}
}

func (r *Retriever) Query(ctx context.Context, text string) []string {
	if r == nil || r.store == nil {
		return nil
	}

	docs, err := r.store.SimilaritySearch(ctx, text, r.topK)
	if err != nil {
		return nil
	}
	return passages(docs)
}

func passages(docs []schema.Document) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		if d.PageContent != "" {
			out = append(out, d.PageContent)
		}
	}
	return out
}
