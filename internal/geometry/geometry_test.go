package geometry

import (
	"math"
	"strings"
	"testing"

	"github.com/verte-zerg/perky/internal/metric"
	"github.com/verte-zerg/perky/internal/tables"
)

// testLayout builds a two-row board: left pinky through index on
// columns 0-3, right index and middle on columns 4-5.
func testLayout(t *testing.T) *tables.LayoutTable {
	t.Helper()
	input := `{"data": [
		["lp", "lr", "lm", "li", "ri", "rm"],
		["lp", "lr", "lm", "li", "ri", "rm"]
	], "version": 1}`
	layout, err := tables.ReadLayoutTable(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadLayoutTable failed: %v", err)
	}
	return layout
}

func TestPlanCellEnumeration(t *testing.T) {
	plan := NewPlan(testLayout(t))
	if len(plan.Cells) != 12 {
		t.Fatalf("expected 12 cells, got %d", len(plan.Cells))
	}
	// Row-major order.
	if plan.Cells[0].Row != 0 || plan.Cells[0].Col != 0 {
		t.Fatalf("unexpected first cell: %+v", plan.Cells[0])
	}
	if plan.Cells[6].Row != 1 || plan.Cells[6].Col != 0 {
		t.Fatalf("unexpected seventh cell: %+v", plan.Cells[6])
	}
	// Ordered pairs of distinct cells and triples of pairwise-distinct cells.
	if len(plan.Bigrams) != 12*11 {
		t.Fatalf("expected %d bigrams, got %d", 12*11, len(plan.Bigrams))
	}
	if len(plan.Trigrams) != 12*11*10 {
		t.Fatalf("expected %d trigrams, got %d", 12*11*10, len(plan.Trigrams))
	}
}

func TestUnigramMetrics(t *testing.T) {
	plan := NewPlan(testLayout(t))
	if n := len(plan.UnigramTuples(metric.Lp)); n != 2 {
		t.Fatalf("expected 2 Lp cells, got %d", n)
	}
	if n := len(plan.UnigramTuples(metric.Lh)); n != 8 {
		t.Fatalf("expected 8 Lh cells, got %d", n)
	}
	if n := len(plan.UnigramTuples(metric.Rh)); n != 4 {
		t.Fatalf("expected 4 Rh cells, got %d", n)
	}
	if n := len(plan.UnigramTuples(metric.Rt)); n != 0 {
		t.Fatalf("expected no Rt cells, got %d", n)
	}
	for _, u := range plan.Unigrams {
		if u.Effort != 1.0 {
			t.Fatalf("unigram effort must be 1.0, got %v", u.Effort)
		}
	}
}

func TestBigramMetricCounts(t *testing.T) {
	plan := NewPlan(testLayout(t))
	// One same-finger pair per column, ordered both ways.
	if n := len(plan.BigramTuples(metric.Sfb)); n != 12 {
		t.Fatalf("expected 12 Sfb tuples, got %d", n)
	}
	// Per row: (lp,lr), (lr,lm), (lm,li), and (rm,ri) step inward.
	if n := len(plan.BigramTuples(metric.Irb)); n != 8 {
		t.Fatalf("expected 8 Irb tuples, got %d", n)
	}
	if n := len(plan.BigramTuples(metric.Orb)); n != 8 {
		t.Fatalf("expected 8 Orb tuples, got %d", n)
	}
}

func TestBigramScissorsRequireLowerMiddleOrRing(t *testing.T) {
	plan := NewPlan(testLayout(t))
	for _, bg := range plan.BigramTuples(metric.Hsb) {
		lower := bg.A
		if bg.B.Row > bg.A.Row {
			lower = bg.B
		}
		if lower.Finger != tables.FingerMiddle && lower.Finger != tables.FingerRing {
			t.Fatalf("Hsb tuple without a lower middle/ring finger: %+v", bg)
		}
		if absDiff(bg.A.Row, bg.B.Row) != 1 {
			t.Fatalf("Hsb tuple with row distance != 1: %+v", bg)
		}
	}
	// A two-row board cannot produce a full scissor.
	if n := len(plan.BigramTuples(metric.Fsb)); n != 0 {
		t.Fatalf("expected no Fsb tuples on a two-row board, got %d", n)
	}
}

func TestRollMetricsExcludeSameHandPairs(t *testing.T) {
	plan := NewPlan(testLayout(t))
	for _, tg := range plan.TrigramTuples(metric.Alt) {
		if tg.A.Hand != tg.C.Hand || tg.B.Hand == tg.A.Hand {
			t.Fatalf("Alt tuple with wrong hands: %+v", tg)
		}
	}
	for _, tg := range plan.TrigramTuples(metric.One) {
		if !(tg.A.Col < tg.B.Col && tg.B.Col < tg.C.Col) &&
			!(tg.A.Col > tg.B.Col && tg.B.Col > tg.C.Col) {
			t.Fatalf("One tuple not column-monotone: %+v", tg)
		}
	}
	for _, tg := range plan.TrigramTuples(metric.Red) {
		if (tg.A.Col < tg.B.Col && tg.B.Col < tg.C.Col) ||
			(tg.A.Col > tg.B.Col && tg.B.Col > tg.C.Col) {
			t.Fatalf("Red tuple is column-monotone: %+v", tg)
		}
	}
	for _, tg := range plan.TrigramTuples(metric.Rol) {
		sameAB := tg.A.Hand == tg.B.Hand
		sameBC := tg.B.Hand == tg.C.Hand
		if sameAB == sameBC {
			t.Fatalf("Rol tuple must have exactly one same-hand pair: %+v", tg)
		}
	}
}

func TestMetricPairExclusivity(t *testing.T) {
	plan := NewPlan(testLayout(t))
	inIrb := map[[4]int]bool{}
	for _, bg := range plan.BigramTuples(metric.Irb) {
		inIrb[[4]int{bg.A.Row, bg.A.Col, bg.B.Row, bg.B.Col}] = true
	}
	for _, bg := range plan.BigramTuples(metric.Orb) {
		if inIrb[[4]int{bg.A.Row, bg.A.Col, bg.B.Row, bg.B.Col}] {
			t.Fatalf("tuple classified as both Irb and Orb: %+v", bg)
		}
	}
	inHsb := map[[4]int]bool{}
	for _, bg := range plan.BigramTuples(metric.Hsb) {
		inHsb[[4]int{bg.A.Row, bg.A.Col, bg.B.Row, bg.B.Col}] = true
	}
	for _, bg := range plan.BigramTuples(metric.Fsb) {
		if inHsb[[4]int{bg.A.Row, bg.A.Col, bg.B.Row, bg.B.Col}] {
			t.Fatalf("tuple classified as both Hsb and Fsb: %+v", bg)
		}
	}
}

func TestEffortFactors(t *testing.T) {
	plan := NewPlan(testLayout(t))
	find := func(ar, ac, br, bc int) Bigram {
		for _, bg := range plan.Bigrams {
			if bg.A.Row == ar && bg.A.Col == ac && bg.B.Row == br && bg.B.Col == bc {
				return bg
			}
		}
		t.Fatalf("bigram (%d,%d)-(%d,%d) not found", ar, ac, br, bc)
		return Bigram{}
	}
	// Same hand, same row, adjacent column.
	if e := find(0, 0, 0, 1).Effort; e != 1.0 {
		t.Fatalf("expected effort 1.0, got %v", e)
	}
	// Same hand, diagonal step.
	if e := find(0, 0, 1, 1).Effort; math.Abs(e-math.Sqrt2) > 1e-12 {
		t.Fatalf("expected effort sqrt(2), got %v", e)
	}
	// Cross-hand transitions cost a flat 1 regardless of distance.
	if e := find(0, 0, 1, 5).Effort; e != 1.0 {
		t.Fatalf("expected cross-hand effort 1.0, got %v", e)
	}
	// Same hand, same row, three columns apart.
	if e := find(0, 0, 0, 3).Effort; e != 3.0 {
		t.Fatalf("expected effort 3.0, got %v", e)
	}
}
