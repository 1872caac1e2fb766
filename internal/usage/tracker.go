// Package usage captures token/cost accounting per generation and appends
// it to a durable CSV log. Everything here is a best-effort side channel:
// failures must never reach the caller of a generation.
package usage

import (
	"context"
	"sync"

	"github.com/tmc/langchaingo/llms"
)

// Stats is the accounting for one completed generation.
type Stats struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
	CostUSD      float64
}

// Source provides the accounting of the most recent generation.
type Source interface {
	LastRunUsage() (Stats, error)
}

// Pricing converts token counts into dollars.
type Pricing struct {
	InputPer1K  float64
	OutputPer1K float64
}

func (p Pricing) Cost(inputTokens, outputTokens int) float64 {
	return float64(inputTokens)/1000*p.InputPer1K + float64(outputTokens)/1000*p.OutputPer1K
}

// Tracker wraps an llms.Model and records the token usage reported in
// each response's GenerationInfo. It is itself an llms.Model, so the
// orchestrator talks to the engine through it transparently.
type Tracker struct {
	model   llms.Model
	pricing Pricing

	mu   sync.Mutex
	last Stats
}

var _ llms.Model = (*Tracker)(nil)
var _ Source = (*Tracker)(nil)

func NewTracker(model llms.Model, pricing Pricing) *Tracker {
	return &Tracker{model: model, pricing: pricing}
}

func (t *Tracker) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	resp, err := t.model.GenerateContent(ctx, messages, options...)
	if err == nil && resp != nil && len(resp.Choices) > 0 {
		t.record(resp.Choices[0].GenerationInfo)
	}
	return resp, err
}

// Call implements the deprecated half of llms.Model by routing through
// GenerateContent so usage is still captured.
func (t *Tracker) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, t, prompt, options...)
}

// LastRunUsage returns the accounting of the most recent generation,
// zeros when nothing has run yet.
func (t *Tracker) LastRunUsage() (Stats, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last, nil
}

func (t *Tracker) record(info map[string]any) {
	input := intFrom(info, "PromptTokens", "prompt_tokens", "input_tokens")
	output := intFrom(info, "CompletionTokens", "completion_tokens", "output_tokens")
	total := intFrom(info, "TotalTokens", "total_tokens")
	if total == 0 {
		total = input + output
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.last = Stats{
		InputTokens:  input,
		OutputTokens: output,
		TotalTokens:  total,
		CostUSD:      t.pricing.Cost(input, output),
	}
}

// intFrom reads the first present key; providers disagree on both key
// names and numeric types in GenerationInfo.
func intFrom(info map[string]any, keys ...string) int {
	for _, k := range keys {
		v, ok := info[k]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case int:
			return n
		case int32:
			return int(n)
		case int64:
			return int(n)
		case float64:
			return int(n)
		case float32:
			return int(n)
		}
	}
	return 0
}
