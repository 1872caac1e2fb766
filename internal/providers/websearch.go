package providers

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/tools/duckduckgo"
)

// WebSearchClient is a keyless fallback searcher used when the primary
// places provider is unavailable, so the research step can still degrade
// to a partial result.
type WebSearchClient struct {
	tool *duckduckgo.Tool
}

func NewWebSearchClient() (*WebSearchClient, error) {
	ddg, err := duckduckgo.New(5, duckduckgo.DefaultUserAgent)
	if err != nil {
		return nil, err
	}
	return &WebSearchClient{tool: ddg}, nil
}

func (c *WebSearchClient) Search(ctx context.Context, query string) (string, error) {
	res, err := c.tool.Call(ctx, query)
	if err != nil {
		return "", fmt.Errorf("web search failed: %w", err)
	}
	return res, nil
}
