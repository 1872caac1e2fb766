package usage

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

type stubSource struct {
	stats Stats
	err   error
}

func (s *stubSource) LastRunUsage() (Stats, error) {
	return s.stats, s.err
}

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return rows
}

func TestRecorderWritesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usage_log.csv")
	rec := NewRecorder(path, &stubSource{stats: Stats{InputTokens: 10, OutputTokens: 5, TotalTokens: 15, CostUSD: 0.001}})

	rec.Record("structured")
	rec.Record("free_chat")

	rows := readRows(t, path)
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 data rows, got %d rows", len(rows))
	}
	if rows[0][0] != "timestamp" || rows[0][5] != "cost_usd" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[1][1] != "structured" || rows[2][1] != "free_chat" {
		t.Errorf("rows out of append order: %v", rows)
	}
	if rows[1][2] != "10" || rows[1][3] != "5" || rows[1][4] != "15" {
		t.Errorf("unexpected token columns: %v", rows[1])
	}
}

func TestRecorderSourceFailureSwallowed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usage_log.csv")
	rec := NewRecorder(path, &stubSource{err: errors.New("tracing backend down")})

	rec.Record("structured") // must not panic or surface anything

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("no row should be written when the usage source fails")
	}
}

func TestRecorderConcurrentAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usage_log.csv")
	rec := NewRecorder(path, &stubSource{stats: Stats{TotalTokens: 1}})

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec.Record("structured")
		}()
	}
	wg.Wait()

	rows := readRows(t, path)
	if len(rows) != n+1 {
		t.Fatalf("expected %d rows, got %d (partial or interleaved writes)", n+1, len(rows))
	}
	for _, row := range rows[1:] {
		if len(row) != 6 {
			t.Fatalf("corrupt row: %v", row)
		}
	}
}

func TestRecorderUnwritablePathSwallowed(t *testing.T) {
	rec := NewRecorder(filepath.Join(t.TempDir(), "missing", "deep", "usage.csv"),
		&stubSource{stats: Stats{TotalTokens: 1}})

	rec.Record("free_chat") // directory does not exist; must stay silent
}
