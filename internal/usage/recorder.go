package usage

import (
	"encoding/csv"
	"os"
	"strconv"
	"sync"
	"time"
)

var csvHeader = []string{"timestamp", "mode", "input_tokens", "output_tokens", "total_tokens", "cost_usd"}

// Recorder appends one row per completed generation to a CSV log.
// Writes are serialized by a mutex and the file is opened in append
// mode, so concurrent requests cannot interleave partial rows.
type Recorder struct {
	mu     sync.Mutex
	path   string
	source Source
}

func NewRecorder(path string, source Source) *Recorder {
	return &Recorder{path: path, source: source}
}

// Record fetches the latest accounting and appends one row. Entirely
// best-effort: any failure is discarded and never reaches the caller.
func (r *Recorder) Record(mode string) {
	if r == nil || r.source == nil {
		return
	}

	stats, err := r.source.LastRunUsage()
	if err != nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	writeHeader := false
	if _, err := os.Stat(r.path); os.IsNotExist(err) {
		writeHeader = true
	}

	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(csvHeader); err != nil {
			return
		}
	}
	_ = w.Write([]string{
		time.Now().Format(time.RFC3339),
		mode,
		strconv.Itoa(stats.InputTokens),
		strconv.Itoa(stats.OutputTokens),
		strconv.Itoa(stats.TotalTokens),
		strconv.FormatFloat(stats.CostUSD, 'f', 6, 64),
	})
	w.Flush()
}
