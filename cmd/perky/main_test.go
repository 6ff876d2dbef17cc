package main

import (
	"strings"
	"testing"

	"github.com/verte-zerg/perky/internal/fault"
	"github.com/verte-zerg/perky/internal/metric"
	"github.com/verte-zerg/perky/internal/tables"
)

func TestParseSortRulesInterleaved(t *testing.T) {
	rules, err := parseSortRules([]string{
		"--sort-asc", "sfb,hsb",
		"--sort-desc=irb",
		"--sort-asc", "lh",
	})
	if err != nil {
		t.Fatalf("parseSortRules failed: %v", err)
	}
	want := []metric.SortRule{
		{Metric: metric.Sfb, Direction: metric.Ascending},
		{Metric: metric.Hsb, Direction: metric.Ascending},
		{Metric: metric.Irb, Direction: metric.Descending},
		{Metric: metric.Lh, Direction: metric.Ascending},
	}
	if len(rules) != len(want) {
		t.Fatalf("expected %d rules, got %d", len(want), len(rules))
	}
	for i := range want {
		if rules[i] != want[i] {
			t.Fatalf("rule %d: expected %+v, got %+v", i, want[i], rules[i])
		}
	}
}

func TestParseSortRulesUnknownMetric(t *testing.T) {
	if _, err := parseSortRules([]string{"--sort-asc", "bogus"}); fault.KindOf(err) != fault.KindArgument {
		t.Fatalf("expected argument fault, got %v", err)
	}
}

func TestBuildRegions(t *testing.T) {
	keyTable, err := tables.ReadKeyTable(strings.NewReader(
		`{"data": [[1, 1, "x", 2]], "version": 1}`))
	if err != nil {
		t.Fatalf("ReadKeyTable failed: %v", err)
	}
	regions, err := buildRegions(keyTable, [3]string{`a\x42`, "c", ""})
	if err != nil {
		t.Fatalf("buildRegions failed: %v", err)
	}
	if string(regions[0].Chars) != "aB" {
		t.Fatalf("expected unescaped chars, got %q", regions[0].Chars)
	}
	if len(regions[0].Coords) != 2 || len(regions[1].Coords) != 1 {
		t.Fatalf("unexpected coords: %v %v", regions[0].Coords, regions[1].Coords)
	}
	if regions[2].Chars != nil || len(regions[2].Coords) != 0 {
		t.Fatalf("expected empty region 3")
	}
}

func TestBuildRegionsRejectsReservedBytes(t *testing.T) {
	keyTable, err := tables.ReadKeyTable(strings.NewReader(
		`{"data": [[1]], "version": 1}`))
	if err != nil {
		t.Fatalf("ReadKeyTable failed: %v", err)
	}
	if _, err := buildRegions(keyTable, [3]string{`\x01`, "", ""}); fault.KindOf(err) != fault.KindStructural {
		t.Fatalf("expected structural fault, got %v", err)
	}
}
