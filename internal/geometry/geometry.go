// Package geometry derives per-key ergonomic facts from a layout table
// and enumerates the cell tuples classified by each metric.
package geometry

import (
	"math"

	"github.com/verte-zerg/perky/internal/metric"
	"github.com/verte-zerg/perky/internal/tables"
)

// Cell is a present layout position with its digit assignment.
type Cell struct {
	Row    int
	Col    int
	Hand   tables.Hand
	Finger tables.Finger
}

// Unigram is a single keypress with its effort factor.
type Unigram struct {
	A      Cell
	Effort float64
}

// Bigram is an ordered pair of distinct keypresses.
type Bigram struct {
	A, B   Cell
	Effort float64
}

// Trigram is an ordered triple of pairwise-distinct keypresses.
type Trigram struct {
	A, B, C Cell
	Effort  float64
}

// Plan holds the tuple enumerations for every metric, immutable after
// build and shared read-only across scoring workers.
type Plan struct {
	Cells []Cell

	Unigrams []Unigram
	Bigrams  []Bigram
	Trigrams []Trigram

	unigramsByMetric [][]Unigram
	bigramsByMetric  [][]Bigram
	trigramsByMetric [][]Trigram
}

// NewPlan enumerates the tuple universes of a layout table. Tuples are
// generated row-major on the first cell, then the second, then the
// third, so per-metric lists are stably ordered.
func NewPlan(layout *tables.LayoutTable) *Plan {
	plan := &Plan{
		unigramsByMetric: make([][]Unigram, len(metric.Unigrams)),
		bigramsByMetric:  make([][]Bigram, len(metric.Bigrams)),
		trigramsByMetric: make([][]Trigram, len(metric.Trigrams)),
	}
	for r := 0; r < tables.Rows; r++ {
		for c := 0; c < tables.Cols; c++ {
			if !layout.Present[r][c] {
				continue
			}
			digit := layout.Digits[r][c]
			plan.Cells = append(plan.Cells, Cell{Row: r, Col: c, Hand: digit.Hand, Finger: digit.Finger})
		}
	}

	for _, a := range plan.Cells {
		plan.Unigrams = append(plan.Unigrams, Unigram{A: a, Effort: 1.0})
	}
	for _, a := range plan.Cells {
		for _, b := range plan.Cells {
			if a.Row == b.Row && a.Col == b.Col {
				continue
			}
			plan.Bigrams = append(plan.Bigrams, Bigram{A: a, B: b, Effort: pairEffort(a, b)})
		}
	}
	for _, a := range plan.Cells {
		for _, b := range plan.Cells {
			for _, c := range plan.Cells {
				if sameCell(a, b) || sameCell(a, c) || sameCell(b, c) {
					continue
				}
				plan.Trigrams = append(plan.Trigrams, Trigram{
					A: a, B: b, C: c,
					Effort: pairEffort(a, b) * pairEffort(b, c),
				})
			}
		}
	}

	for i, m := range metric.Unigrams {
		for _, u := range plan.Unigrams {
			if unigramPredicate(m, u) {
				plan.unigramsByMetric[i] = append(plan.unigramsByMetric[i], u)
			}
		}
	}
	for i, m := range metric.Bigrams {
		for _, b := range plan.Bigrams {
			if bigramPredicate(m, b) {
				plan.bigramsByMetric[i] = append(plan.bigramsByMetric[i], b)
			}
		}
	}
	for i, m := range metric.Trigrams {
		for _, t := range plan.Trigrams {
			if trigramPredicate(m, t) {
				plan.trigramsByMetric[i] = append(plan.trigramsByMetric[i], t)
			}
		}
	}
	return plan
}

// UnigramTuples returns the tuples of a unigram metric.
func (p *Plan) UnigramTuples(m metric.Metric) []Unigram {
	return p.unigramsByMetric[m.ArityIndex()]
}

// BigramTuples returns the tuples of a bigram metric.
func (p *Plan) BigramTuples(m metric.Metric) []Bigram {
	return p.bigramsByMetric[m.ArityIndex()]
}

// TrigramTuples returns the tuples of a trigram metric.
func (p *Plan) TrigramTuples(m metric.Metric) []Trigram {
	return p.trigramsByMetric[m.ArityIndex()]
}

func sameCell(a, b Cell) bool {
	return a.Row == b.Row && a.Col == b.Col
}

// distance is the key-to-key displacement: the axis delta when the
// cells share a row or column, otherwise the Euclidean distance.
func distance(a, b Cell) float64 {
	dr := a.Row - b.Row
	if dr < 0 {
		dr = -dr
	}
	dc := a.Col - b.Col
	if dc < 0 {
		dc = -dc
	}
	switch {
	case dr == 0 && dc == 0:
		return 0.0
	case dr == 0:
		return float64(dc)
	case dc == 0:
		return float64(dr)
	default:
		return math.Sqrt(float64(dr*dr + dc*dc))
	}
}

// pairEffort weighs a same-hand transition by its displacement; a hand
// alternation costs a flat 1.
func pairEffort(a, b Cell) float64 {
	if a.Hand == b.Hand {
		return distance(a, b)
	}
	return 1.0
}
