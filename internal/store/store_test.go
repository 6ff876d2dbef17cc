package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/perky/internal/metric"
	"github.com/verte-zerg/perky/internal/progress"
)

func TestInsertAndListRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "perky.db")
	st, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			t.Fatalf("Close failed: %v", cerr)
		}
	}()

	ctx := context.Background()
	meta := progress.Metadata{
		Metric:               metric.Sfb,
		Goal:                 metric.Min,
		Weight:               metric.Effort,
		TotalPermutations:    362880,
		Elapsed:              1500 * time.Millisecond,
		Score:                42,
		Truncated:            true,
		TotalRecords:         100,
		TotalUniqueRecords:   90,
		TotalSelectedRecords: 10,
	}
	started := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	if _, err := st.InsertRun(ctx, started, meta); err != nil {
		t.Fatalf("InsertRun failed: %v", err)
	}
	if _, err := st.InsertRun(ctx, started.Add(time.Hour), meta); err != nil {
		t.Fatalf("InsertRun failed: %v", err)
	}

	runs, err := st.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if !runs[0].StartedAt.After(runs[1].StartedAt) {
		t.Fatalf("expected newest first")
	}
	row := runs[0]
	if row.Metric != "Sfb" || row.Goal != "min" || row.Weight != "effort" {
		t.Fatalf("unexpected run row: %+v", row)
	}
	if row.TotalPermutations != 362880 || row.Score != 42 || !row.Truncated {
		t.Fatalf("unexpected run stats: %+v", row)
	}

	limited, err := st.ListRuns(ctx, 1)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected 1 run, got %d", len(limited))
	}
}
