package rag

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/vectorstores"
)

// fakeEmbedder maps known texts to fixed unit vectors so similarity
// ordering is fully deterministic.
type fakeEmbedder struct {
	vectors map[string][]float32
}

func (f *fakeEmbedder) embed(text string) []float32 {
	if v, ok := f.vectors[text]; ok {
		return v
	}
	return []float32{0, 0, 1}
}

func (f *fakeEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = f.embed(t)
	}
	return out, nil
}

func (f *fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return f.embed(text), nil
}

func openTestStore(t *testing.T, emb *fakeEmbedder) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "corpus.db"), emb)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreEmptyCorpus(t *testing.T) {
	store := openTestStore(t, &fakeEmbedder{})

	docs, err := store.SimilaritySearch(context.Background(), "trekking in Himachal", 5)
	if err != nil {
		t.Fatalf("an empty corpus must not fail: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("expected no passages, got %d", len(docs))
	}
}

func TestStoreRanksByCosineSimilarity(t *testing.T) {
	emb := &fakeEmbedder{vectors: map[string][]float32{
		"mountain trail notes": {1, 0, 0},
		"beach shack guide":    {0, 1, 0},
		"hill station diary":   {0.9, 0.1, 0},
		"himalayan trekking":   {1, 0.05, 0},
	}}
	store := openTestStore(t, emb)

	_, err := store.AddDocuments(context.Background(), []schema.Document{
		{PageContent: "beach shack guide"},
		{PageContent: "mountain trail notes"},
		{PageContent: "hill station diary"},
	})
	if err != nil {
		t.Fatal(err)
	}

	docs, err := store.SimilaritySearch(context.Background(), "himalayan trekking", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 2 {
		t.Fatalf("top-k not honored: got %d docs", len(docs))
	}
	if docs[0].PageContent != "mountain trail notes" {
		t.Errorf("best match = %q", docs[0].PageContent)
	}
	if docs[1].PageContent != "hill station diary" {
		t.Errorf("second match = %q", docs[1].PageContent)
	}
}

func TestStoreKeepsMetadata(t *testing.T) {
	store := openTestStore(t, &fakeEmbedder{})

	ids, err := store.AddDocuments(context.Background(), []schema.Document{
		{PageContent: "old manali cafes", Metadata: map[string]any{"source": "blog.txt"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 {
		t.Fatalf("ids = %v", ids)
	}

	docs, err := store.SimilaritySearch(context.Background(), "cafes", 1)
	if err != nil {
		t.Fatal(err)
	}
	if docs[0].Metadata["source"] != "blog.txt" {
		t.Errorf("metadata lost: %+v", docs[0].Metadata)
	}
}

type failingStore struct{}

func (failingStore) AddDocuments(ctx context.Context, docs []schema.Document, _ ...vectorstores.Option) ([]string, error) {
	return nil, errors.New("index offline")
}

func (failingStore) SimilaritySearch(ctx context.Context, query string, n int, _ ...vectorstores.Option) ([]schema.Document, error) {
	return nil, errors.New("index offline")
}

func TestRetrieverSwallowsStoreFailures(t *testing.T) {
	r := NewRetriever(failingStore{}, 5)
	if got := r.Query(context.Background(), "anything"); got != nil {
		t.Errorf("expected nil passages on store failure, got %v", got)
	}

	var nilRetriever *Retriever
	if got := nilRetriever.Query(context.Background(), "anything"); got != nil {
		t.Errorf("nil retriever must be safe, got %v", got)
	}
}
