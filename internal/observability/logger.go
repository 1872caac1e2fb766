package observability

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// EventType defines the category of the log event.
type EventType string

const (
	EventTypeStep      EventType = "step"
	EventTypeRetrieval EventType = "retrieval"
	EventTypeLLM       EventType = "llm"
	EventTypeStream    EventType = "stream"
	EventTypeCost      EventType = "cost"
)

// Event represents a structured log entry.
type Event struct {
	Type      EventType `json:"type"`
	Step      string    `json:"step,omitempty"`
	Mode      string    `json:"mode,omitempty"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// Logger handles structured logging.
type Logger struct {
	llmLogPath string
	maxSize    int64
}

func NewLogger() *Logger {
	return &Logger{
		llmLogPath: filepath.Join("logs", "llm.jsonl"),
		maxSize:    10 * 1024 * 1024, // 10MB
	}
}

// Log emits a structured JSON event to stdout.
func (l *Logger) Log(evt Event) {
	if l == nil {
		return
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now()
	}
	data, err := json.Marshal(evt)
	if err != nil {
		fmt.Printf("{\"error\": \"failed to marshal event: %v\"}\n", err)
		return
	}
	fmt.Println(string(data))

	if evt.Type == EventTypeLLM {
		l.writeToFile(data)
	}
}

func (l *Logger) writeToFile(data []byte) {
	if err := os.MkdirAll(filepath.Dir(l.llmLogPath), 0755); err != nil {
		log.Printf("failed to create log directory: %v", err)
		return
	}

	// Check size before writing
	info, err := os.Stat(l.llmLogPath)
	if err == nil && info.Size() > l.maxSize {
		l.rotateLogs()
	}

	f, err := os.OpenFile(l.llmLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Printf("failed to open log file: %v", err)
		return
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		log.Printf("failed to write to log file: %v", err)
	}
}

func (l *Logger) rotateLogs() {
	// Simple rotation: keep one .old file
	oldPath := l.llmLogPath + ".old"
	_ = os.Remove(oldPath)
	_ = os.Rename(l.llmLogPath, oldPath)
}

// Helper methods for common events

// LogStep records the outcome of one pipeline step. errMsg is the step's
// error marker, empty when the step produced data.
func (l *Logger) LogStep(step string, errMsg string) {
	data := map[string]string{"status": "ok"}
	if errMsg != "" {
		data = map[string]string{"status": "error", "error": errMsg}
	}
	l.Log(Event{
		Type: EventTypeStep,
		Step: step,
		Data: data,
	})
}

func (l *Logger) LogRetrieval(query string, hits int) {
	l.Log(Event{
		Type: EventTypeRetrieval,
		Data: map[string]any{
			"query": query,
			"hits":  hits,
		},
	})
}

func (l *Logger) LogLLM(mode string, promptChars, responseChars int) {
	l.Log(Event{
		Type: EventTypeLLM,
		Mode: mode,
		Data: map[string]any{
			"prompt_chars":   promptChars,
			"response_chars": responseChars,
		},
	})
}

func (l *Logger) LogStream(mode string, fragments int) {
	l.Log(Event{
		Type: EventTypeStream,
		Mode: mode,
		Data: map[string]int{"fragments": fragments},
	})
}

func (l *Logger) LogCost(mode string, inputTokens, outputTokens int, costUSD float64) {
	l.Log(Event{
		Type: EventTypeCost,
		Mode: mode,
		Data: map[string]any{
			"input_tokens":  inputTokens,
			"output_tokens": outputTokens,
			"total_tokens":  inputTokens + outputTokens,
			"cost_usd":      costUSD,
		},
	})
}
