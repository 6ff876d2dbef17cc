package progress

import (
	"strings"
	"testing"
	"time"
)

func TestETA(t *testing.T) {
	eta, ok := ETA(25, 100, 10*time.Second)
	if !ok {
		t.Fatalf("expected ETA")
	}
	if eta != 30*time.Second {
		t.Fatalf("expected 30s, got %v", eta)
	}
	if _, ok := ETA(0, 100, time.Second); ok {
		t.Fatalf("expected no ETA with zero progress")
	}
}

func TestEfficiency(t *testing.T) {
	meta := Metadata{TotalPermutations: 4, Elapsed: 2 * time.Second}
	efficiency, ok := meta.Efficiency()
	if !ok || efficiency != 500*time.Millisecond {
		t.Fatalf("unexpected efficiency: %v %v", efficiency, ok)
	}
	meta.TotalPermutations = 0
	if _, ok := meta.Efficiency(); ok {
		t.Fatalf("expected no efficiency with zero permutations")
	}
}

func TestFormatSeconds(t *testing.T) {
	cases := map[float64]string{
		5.25:    "5.2s",
		65:      "1m 5.0s",
		3665:    "1h 1m 5.0s",
		90065.5: "1d 1h 1m 5.5s",
	}
	for input, want := range cases {
		if got := FormatSeconds(input, 1); got != want {
			t.Fatalf("FormatSeconds(%v): expected %q, got %q", input, want, got)
		}
	}
}

func TestConsoleProgress(t *testing.T) {
	var out strings.Builder
	console := NewConsole(&out, false)
	console.OnProgress(50, 100, 10*time.Second)
	text := out.String()
	if !strings.Contains(text, "50.00%") || !strings.Contains(text, "(50/100)") {
		t.Fatalf("unexpected progress line: %q", text)
	}
	if !strings.Contains(text, "eta 10.0s") {
		t.Fatalf("expected eta in line: %q", text)
	}
	// A single-candidate run renders nothing.
	out.Reset()
	console = NewConsole(&out, false)
	console.OnProgress(1, 1, time.Second)
	if out.Len() != 0 {
		t.Fatalf("expected no output for a single permutation")
	}
}
