package metric

import "testing"

func TestParseCaseInsensitive(t *testing.T) {
	m, err := Parse("SFB")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if m != Sfb {
		t.Fatalf("expected Sfb, got %v", m)
	}
	if _, err := Parse("xyz"); err == nil {
		t.Fatalf("expected error for unknown metric")
	}
}

func TestArityGroups(t *testing.T) {
	for _, m := range Unigrams {
		if m.Arity() != 1 {
			t.Fatalf("%v: expected arity 1, got %d", m, m.Arity())
		}
	}
	for i, m := range Bigrams {
		if m.Arity() != 2 {
			t.Fatalf("%v: expected arity 2, got %d", m, m.Arity())
		}
		if m.ArityIndex() != i {
			t.Fatalf("%v: expected arity index %d, got %d", m, i, m.ArityIndex())
		}
	}
	for _, m := range Trigrams {
		if m.Arity() != 3 {
			t.Fatalf("%v: expected arity 3, got %d", m, m.Arity())
		}
	}
}

func TestGoals(t *testing.T) {
	cases := map[Metric]Goal{
		Lt:  Max,
		Lp:  Min,
		Irb: Max,
		Sfb: Min,
		Alt: Min,
		Rol: Min,
	}
	for m, want := range cases {
		if got := m.Goal(); got != want {
			t.Fatalf("%v: expected goal %v, got %v", m, want, got)
		}
	}
}

func TestNamesCoversAllMetrics(t *testing.T) {
	set := Names()
	if len(set) != int(metricCount) {
		t.Fatalf("expected %d names, got %d", metricCount, len(set))
	}
	if _, ok := set["sfb"]; !ok {
		t.Fatalf("expected sfb in name set")
	}
}
