package rag

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
	"github.com/microcosm-cc/bluemonday"
	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/textsplitter"
)

func newSplitter() textsplitter.RecursiveCharacter {
	return textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(1000),
		textsplitter.WithChunkOverlap(100),
	)
}

// LoadTextDir reads every .txt file under dir and splits it into
// embedding-sized chunks tagged with their source path.
func LoadTextDir(ctx context.Context, dir string) ([]schema.Document, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no .txt files found in %s", dir)
	}

	var docs []schema.Document
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}

		loaded, err := documentloaders.NewText(f).Load(ctx)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}

		for i := range loaded {
			if loaded[i].Metadata == nil {
				loaded[i].Metadata = map[string]any{}
			}
			loaded[i].Metadata["source"] = path
		}
		docs = append(docs, loaded...)
	}

	return textsplitter.SplitDocuments(newSplitter(), docs)
}

// LoadURL fetches a web page, extracts the readable article text, and
// splits it into chunks. Used to ingest travel blog posts into the corpus.
func LoadURL(ctx context.Context, rawURL string) ([]schema.Document, error) {
	client := &http.Client{Timeout: 30 * time.Second}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch URL: status code %d", resp.StatusCode)
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %v", err)
	}

	article, err := readability.FromReader(resp.Body, parsedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse article: %v", err)
	}

	// Strip any markup readability left behind.
	text := strings.TrimSpace(bluemonday.StrictPolicy().Sanitize(article.TextContent))
	if text == "" {
		return nil, fmt.Errorf("no readable content at %s", rawURL)
	}

	doc := schema.Document{
		PageContent: text,
		Metadata: map[string]any{
			"source": rawURL,
			"title":  article.Title,
		},
	}
	return textsplitter.SplitDocuments(newSplitter(), []schema.Document{doc})
}
