package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"

	"github.com/priyansh/yatra/internal/observability"
	"github.com/priyansh/yatra/internal/usage"
)

// Request selects the generation mode. The caller constructs the right
// variant at the boundary; the planner never sniffs shapes at runtime.
type Request interface {
	mode() string
}

// ChatRequest is conversational mode: a free-text prompt, no pipeline run.
type ChatRequest struct {
	Prompt string
}

func (ChatRequest) mode() string { return "free_chat" }

// TripRequest is structured mode: the full pipeline runs before generation.
type TripRequest struct {
	Params TripParams
}

func (TripRequest) mode() string { return "structured" }

// UsageRecorder appends one accounting row after a completed generation.
// It must swallow its own failures.
type UsageRecorder interface {
	Record(mode string)
}

// Planner orchestrates generation: it decides the mode from the request
// variant, runs the pipeline for structured requests, invokes the engine
// in batch or streaming form, and records usage afterwards.
type Planner struct {
	Model    llms.Model
	Pipeline *Pipeline
	Usage    UsageRecorder
	Costs    usage.Source
	Logger   *observability.Logger

	// Timeout bounds a single engine call, streaming included. Zero
	// leaves the caller's context in charge.
	Timeout time.Duration
}

// RunPipeline gathers all trip data and returns the structured snapshot
// without invoking the generation engine.
func (pl *Planner) RunPipeline(ctx context.Context, params TripParams) *Snapshot {
	return pl.Pipeline.Run(ctx, params).Structured
}

// GenerateItinerary runs a request in batch mode and returns the full
// generated text. Engine failures are returned to the caller; per-step
// data failures never are.
func (pl *Planner) GenerateItinerary(ctx context.Context, req Request) (string, error) {
	prompt, err := pl.buildPrompt(ctx, req, false)
	if err != nil {
		return "", err
	}

	text, err := pl.generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	pl.Logger.LogLLM(req.mode(), len(prompt), len(text))
	pl.recordUsage(req.mode())
	return text, nil
}

// GenerateItineraryStream runs a request in streaming mode. The returned
// Stream yields fragments in engine order; Text and Err block until the
// stream finishes.
func (pl *Planner) GenerateItineraryStream(ctx context.Context, req Request) *Stream {
	s := newStream()

	go func() {
		defer s.finish()

		prompt, err := pl.buildPrompt(ctx, req, true)
		if err != nil {
			s.err = err
			return
		}

		fragments := 0
		streamFn := func(ctx context.Context, chunk []byte) error {
			if len(chunk) == 0 {
				return nil
			}
			fragments++
			return s.push(ctx, string(chunk))
		}

		text, err := pl.generate(ctx, prompt, llms.WithStreamingFunc(streamFn))
		if err != nil {
			s.err = err
			return
		}

		// The accumulated fragments are authoritative; fall back to the
		// batch response only if the engine never streamed.
		if s.text() == "" {
			s.collected.WriteString(text)
		}

		pl.Logger.LogStream(req.mode(), fragments)
		pl.Logger.LogLLM(req.mode(), len(prompt), len(s.text()))
		pl.recordUsage(req.mode())
	}()

	return s
}

// buildPrompt resolves a request into the engine prompt, running the
// data-gathering pipeline for structured requests.
func (pl *Planner) buildPrompt(ctx context.Context, req Request, streaming bool) (string, error) {
	switch r := req.(type) {
	case ChatRequest:
		return formatFreeChat(r.Prompt)
	case TripRequest:
		state := pl.Pipeline.Run(ctx, r.Params)
		if streaming {
			return formatStructuredMarkdown(state.Structured, r.Params)
		}
		return formatStructuredJSON(state.Structured, r.Params)
	default:
		return "", fmt.Errorf("unsupported request type %T", req)
	}
}

func (pl *Planner) generate(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	if pl.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, pl.Timeout)
		defer cancel()
	}

	options = append(options, llms.WithTemperature(0.7))

	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(prompt)},
		},
	}

	resp, err := pl.Model.GenerateContent(ctx, messages, options...)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("generation engine returned no choices")
	}
	return resp.Choices[0].Content, nil
}

// recordUsage is a best-effort side channel; it must never disturb the
// text already produced.
func (pl *Planner) recordUsage(mode string) {
	if pl.Usage != nil {
		pl.Usage.Record(mode)
	}
	if pl.Costs == nil {
		return
	}
	stats, err := pl.Costs.LastRunUsage()
	if err != nil {
		return
	}
	pl.Logger.LogCost(mode, stats.InputTokens, stats.OutputTokens, stats.CostUSD)
}
