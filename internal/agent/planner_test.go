package agent

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tmc/langchaingo/llms"

	"github.com/priyansh/yatra/internal/usage"
)

// fakeModel is a deterministic generation engine. When a streaming func
// is supplied it emits chunks in order; the batch response is always the
// concatenation of the same chunks.
type fakeModel struct {
	chunks []string
	err    error
	calls  int
}

func (m *fakeModel) response() string {
	return strings.Join(m.chunks, "")
}

func (m *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}

	opts := llms.CallOptions{}
	for _, o := range options {
		o(&opts)
	}
	if opts.StreamingFunc != nil {
		for _, c := range m.chunks {
			if err := opts.StreamingFunc(ctx, []byte(c)); err != nil {
				return nil, err
			}
		}
	}

	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{
			Content: m.response(),
			GenerationInfo: map[string]any{
				"PromptTokens":     120,
				"CompletionTokens": 80,
				"TotalTokens":      200,
			},
		}},
	}, nil
}

func (m *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

type recordingUsage struct {
	modes []string
}

func (r *recordingUsage) Record(mode string) {
	r.modes = append(r.modes, mode)
}

func newTestPlanner(model llms.Model) (*Planner, *pipelineStubs, *recordingUsage) {
	pipeline, stubs := newStubPipeline()
	rec := &recordingUsage{}
	return &Planner{Model: model, Pipeline: pipeline, Usage: rec}, stubs, rec
}

func TestChatModeSkipsPipeline(t *testing.T) {
	model := &fakeModel{chunks: []string{"Pack light, take the toy train."}}
	planner, stubs, rec := newTestPlanner(model)

	text, err := planner.GenerateItinerary(context.Background(), ChatRequest{Prompt: "weekend in Shimla?"})
	if err != nil {
		t.Fatal(err)
	}
	if text != model.response() {
		t.Errorf("text = %q", text)
	}

	if stubs.weather.calls+stubs.places.calls+stubs.travel.flightCalls+
		stubs.activity.calls+stubs.country.calls+stubs.photos.calls != 0 {
		t.Error("conversational mode must not touch any provider adapter")
	}
	if len(rec.modes) != 1 || rec.modes[0] != "free_chat" {
		t.Errorf("usage modes = %v", rec.modes)
	}
}

func TestStructuredModeRunsPipeline(t *testing.T) {
	model := &fakeModel{chunks: []string{`{"day_wise_plan":[]}`}}
	planner, stubs, rec := newTestPlanner(model)

	_, err := planner.GenerateItinerary(context.Background(), TripRequest{Params: fullParams()})
	if err != nil {
		t.Fatal(err)
	}

	if stubs.weather.calls == 0 || stubs.travel.flightCalls == 0 || stubs.country.calls == 0 {
		t.Error("structured mode must run the full pipeline before generating")
	}
	if len(rec.modes) != 1 || rec.modes[0] != "structured" {
		t.Errorf("usage modes = %v", rec.modes)
	}
}

func TestStreamingMatchesBatch(t *testing.T) {
	chunks := []string{"Day 1: ", "arrive in Manali, ", "walk the mall road.", "\nDay 2: Solang Valley."}

	batchModel := &fakeModel{chunks: chunks}
	batchPlanner, _, _ := newTestPlanner(batchModel)
	batchText, err := batchPlanner.GenerateItinerary(context.Background(), ChatRequest{Prompt: "3 days in Manali"})
	if err != nil {
		t.Fatal(err)
	}

	streamModel := &fakeModel{chunks: chunks}
	streamPlanner, _, _ := newTestPlanner(streamModel)
	s := streamPlanner.GenerateItineraryStream(context.Background(), ChatRequest{Prompt: "3 days in Manali"})

	var got []string
	for chunk := range s.Chunks() {
		got = append(got, chunk)
	}
	if err := s.Err(); err != nil {
		t.Fatal(err)
	}

	if len(got) != len(chunks) {
		t.Fatalf("fragment count = %d, want %d", len(got), len(chunks))
	}
	for i := range chunks {
		if got[i] != chunks[i] {
			t.Errorf("fragment %d = %q, want %q (order must be preserved)", i, got[i], chunks[i])
		}
	}
	if s.Text() != batchText {
		t.Errorf("stream concatenation %q != batch text %q", s.Text(), batchText)
	}
}

func TestGenerationErrorPropagates(t *testing.T) {
	model := &fakeModel{err: errors.New("quota exhausted")}
	planner, _, rec := newTestPlanner(model)

	if _, err := planner.GenerateItinerary(context.Background(), ChatRequest{Prompt: "hi"}); err == nil {
		t.Fatal("batch mode must surface generation-engine failures")
	}

	s := planner.GenerateItineraryStream(context.Background(), ChatRequest{Prompt: "hi"})
	for range s.Chunks() {
	}
	if s.Err() == nil {
		t.Fatal("streaming mode must surface generation-engine failures")
	}

	if len(rec.modes) != 0 {
		t.Errorf("no usage row should be recorded for a failed generation, got %v", rec.modes)
	}
}

func TestStreamingStructuredUsesPipeline(t *testing.T) {
	model := &fakeModel{chunks: []string{"## Day 1\n", "Hadimba temple."}}
	planner, stubs, _ := newTestPlanner(model)

	s := planner.GenerateItineraryStream(context.Background(), TripRequest{Params: fullParams()})
	for range s.Chunks() {
	}
	if err := s.Err(); err != nil {
		t.Fatal(err)
	}

	if stubs.weather.calls == 0 || stubs.photos.calls == 0 {
		t.Error("streaming structured mode must run the pipeline first")
	}
	if s.Text() != model.response() {
		t.Errorf("final text = %q", s.Text())
	}
}

// stubCostSource reports fixed accounting and counts how often it is read.
type stubCostSource struct {
	calls int
	stats usage.Stats
}

func (s *stubCostSource) LastRunUsage() (usage.Stats, error) {
	s.calls++
	return s.stats, nil
}

// failingCostSource simulates an accounting backend that cannot report.
type failingCostSource struct{ calls int }

func (f *failingCostSource) LastRunUsage() (usage.Stats, error) {
	f.calls++
	return usage.Stats{}, errors.New("accounting unavailable")
}

func TestCostReportedAfterGeneration(t *testing.T) {
	model := &fakeModel{chunks: []string{"Take the toy train up."}}
	planner, _, _ := newTestPlanner(model)
	costs := &stubCostSource{stats: usage.Stats{InputTokens: 120, OutputTokens: 80, CostUSD: 0.011}}
	planner.Costs = costs

	if _, err := planner.GenerateItinerary(context.Background(), ChatRequest{Prompt: "Shimla?"}); err != nil {
		t.Fatal(err)
	}
	if costs.calls != 1 {
		t.Errorf("cost source reads after batch = %d, want 1", costs.calls)
	}

	s := planner.GenerateItineraryStream(context.Background(), ChatRequest{Prompt: "Shimla?"})
	for range s.Chunks() {
	}
	if err := s.Err(); err != nil {
		t.Fatal(err)
	}
	if costs.calls != 2 {
		t.Errorf("cost source reads after stream = %d, want 2", costs.calls)
	}
}

func TestNoCostReportForFailedGeneration(t *testing.T) {
	model := &fakeModel{err: errors.New("quota exhausted")}
	planner, _, _ := newTestPlanner(model)
	costs := &stubCostSource{}
	planner.Costs = costs

	if _, err := planner.GenerateItinerary(context.Background(), ChatRequest{Prompt: "hi"}); err == nil {
		t.Fatal("expected a generation failure")
	}
	if costs.calls != 0 {
		t.Errorf("cost source must not be read for a failed generation, got %d reads", costs.calls)
	}
}

func TestUsageFailureLeavesTextIntact(t *testing.T) {
	chunks := []string{"Day 1: ", "Hadimba temple, ", "old Manali cafes."}

	// A recorder whose backing file can never be created, plus a cost
	// source that always errors: neither may disturb the output.
	brokenUsage := func(t *testing.T, src usage.Source) *usage.Recorder {
		t.Helper()
		return usage.NewRecorder(filepath.Join(t.TempDir(), "no-such-dir", "usage.csv"), src)
	}

	batchModel := &fakeModel{chunks: chunks}
	batchPlanner, _, _ := newTestPlanner(batchModel)
	batchPlanner.Usage = brokenUsage(t, &stubCostSource{})
	batchPlanner.Costs = &failingCostSource{}

	text, err := batchPlanner.GenerateItinerary(context.Background(), ChatRequest{Prompt: "3 days in Manali"})
	if err != nil {
		t.Fatal(err)
	}
	if text != batchModel.response() {
		t.Errorf("batch text altered by accounting failure: %q", text)
	}

	streamModel := &fakeModel{chunks: chunks}
	streamPlanner, _, _ := newTestPlanner(streamModel)
	streamPlanner.Usage = brokenUsage(t, &stubCostSource{})
	streamPlanner.Costs = &failingCostSource{}

	s := streamPlanner.GenerateItineraryStream(context.Background(), ChatRequest{Prompt: "3 days in Manali"})
	var got strings.Builder
	for chunk := range s.Chunks() {
		got.WriteString(chunk)
	}
	if err := s.Err(); err != nil {
		t.Fatal(err)
	}
	if got.String() != streamModel.response() || s.Text() != streamModel.response() {
		t.Errorf("streamed text altered by accounting failure: %q", s.Text())
	}
}

func TestRunPipelineReturnsSnapshot(t *testing.T) {
	planner, _, _ := newTestPlanner(&fakeModel{})

	snap := planner.RunPipeline(context.Background(), fullParams())
	if snap == nil || snap.Weather == nil || snap.Media == nil {
		t.Fatalf("snapshot incomplete: %+v", snap)
	}
}
