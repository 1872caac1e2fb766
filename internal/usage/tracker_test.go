package usage

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/tmc/langchaingo/llms"
)

type infoModel struct {
	info map[string]any
	err  error
}

func (m *infoModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: "ok", GenerationInfo: m.info}},
	}, nil
}

func (m *infoModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func TestTrackerRecordsOpenAIStyleUsage(t *testing.T) {
	tracker := NewTracker(&infoModel{info: map[string]any{
		"PromptTokens":     100,
		"CompletionTokens": 40,
		"TotalTokens":      140,
	}}, Pricing{InputPer1K: 0.5, OutputPer1K: 1.5})

	if _, err := tracker.GenerateContent(context.Background(), nil); err != nil {
		t.Fatal(err)
	}

	stats, err := tracker.LastRunUsage()
	if err != nil {
		t.Fatal(err)
	}
	if stats.InputTokens != 100 || stats.OutputTokens != 40 || stats.TotalTokens != 140 {
		t.Errorf("stats = %+v", stats)
	}

	wantCost := 100.0/1000*0.5 + 40.0/1000*1.5
	if math.Abs(stats.CostUSD-wantCost) > 1e-9 {
		t.Errorf("cost = %v, want %v", stats.CostUSD, wantCost)
	}
}

func TestTrackerRecordsSnakeCaseUsage(t *testing.T) {
	tracker := NewTracker(&infoModel{info: map[string]any{
		"input_tokens":  int32(20),
		"output_tokens": int32(10),
	}}, Pricing{})

	if _, err := tracker.GenerateContent(context.Background(), nil); err != nil {
		t.Fatal(err)
	}

	stats, _ := tracker.LastRunUsage()
	if stats.InputTokens != 20 || stats.OutputTokens != 10 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.TotalTokens != 30 {
		t.Errorf("total should be derived when absent, got %d", stats.TotalTokens)
	}
}

func TestTrackerZeroBeforeFirstRun(t *testing.T) {
	tracker := NewTracker(&infoModel{}, Pricing{})

	stats, err := tracker.LastRunUsage()
	if err != nil {
		t.Fatal(err)
	}
	if stats != (Stats{}) {
		t.Errorf("expected zero stats before any generation, got %+v", stats)
	}
}

func TestTrackerIgnoresFailedGenerations(t *testing.T) {
	tracker := NewTracker(&infoModel{err: errors.New("down")}, Pricing{})

	if _, err := tracker.GenerateContent(context.Background(), nil); err == nil {
		t.Fatal("expected the model error to pass through")
	}
	stats, _ := tracker.LastRunUsage()
	if stats != (Stats{}) {
		t.Errorf("failed generations must not update usage, got %+v", stats)
	}
}
