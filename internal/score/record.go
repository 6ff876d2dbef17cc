package score

import (
	"strings"

	"github.com/verte-zerg/perky/internal/geometry"
	"github.com/verte-zerg/perky/internal/metric"
	"github.com/verte-zerg/perky/internal/ngram"
)

// Record is the full measurement of one character-assigned key table:
// a measurement per metric plus the per-arity totals that serve as
// percentage denominators.
type Record struct {
	Matrix Matrix

	Unigrams []Measurement
	Bigrams  []Measurement
	Trigrams []Measurement

	UFSum   uint64
	UFSumEW uint64
	BFSum   uint64
	BFSumEW uint64
	TFSum   uint64
	TFSumEW uint64
}

// BuildRecord measures every metric of the key table. Details are
// collected only for the metrics in detailMetrics.
func BuildRecord(plan *geometry.Plan, set *ngram.Set, m Matrix, detailMetrics map[metric.Metric]bool) *Record {
	record := &Record{
		Matrix:   m,
		Unigrams: make([]Measurement, len(metric.Unigrams)),
		Bigrams:  make([]Measurement, len(metric.Bigrams)),
		Trigrams: make([]Measurement, len(metric.Trigrams)),
	}
	for i, um := range metric.Unigrams {
		record.Unigrams[i] = measureUnigrams(plan.UnigramTuples(um), &record.Matrix, set.Unigram, detailMetrics[um])
	}
	for i, bm := range metric.Bigrams {
		record.Bigrams[i] = measureBigrams(plan.BigramTuples(bm), &record.Matrix, set.Bigram, detailMetrics[bm])
	}
	for i, tm := range metric.Trigrams {
		record.Trigrams[i] = measureTrigrams(plan.TrigramTuples(tm), &record.Matrix, set.Trigram, detailMetrics[tm])
	}
	record.UFSum, record.UFSumEW = SumUnigrams(plan.Unigrams, &record.Matrix, set.Unigram)
	record.BFSum, record.BFSumEW = SumBigrams(plan.Bigrams, &record.Matrix, set.Bigram)
	record.TFSum, record.TFSumEW = SumTrigrams(plan.Trigrams, &record.Matrix, set.Trigram)
	return record
}

// Measurement returns the measurement of a metric.
func (r *Record) Measurement(m metric.Metric) *Measurement {
	switch m.Arity() {
	case 1:
		return &r.Unigrams[m.ArityIndex()]
	case 2:
		return &r.Bigrams[m.ArityIndex()]
	default:
		return &r.Trigrams[m.ArityIndex()]
	}
}

// MetricSum returns one metric's raw or effort-weighted sum.
func (r *Record) MetricSum(m metric.Metric, w metric.Weight) uint64 {
	return r.Measurement(m).SumBy(w)
}

// AritySum returns the record's per-arity total under the weight. The
// totals run over the full tuple universes, so each cell, pair, and
// triple counts once; this is why Lh and Rh do not double-count in the
// denominator.
func (r *Record) AritySum(arity int, w metric.Weight) uint64 {
	switch arity {
	case 1:
		if w == metric.Effort {
			return r.UFSumEW
		}
		return r.UFSum
	case 2:
		if w == metric.Effort {
			return r.BFSumEW
		}
		return r.BFSum
	case 3:
		if w == metric.Effort {
			return r.TFSumEW
		}
		return r.TFSum
	}
	return 0
}

// SymbolTable maps lowercase metric names to their within-arity
// percentages for filter evaluation. A zero arity total yields 0.0.
func (r *Record) SymbolTable(w metric.Weight) map[string]float64 {
	symbols := make(map[string]float64, len(metric.Unigrams)+len(metric.Bigrams)+len(metric.Trigrams))
	add := func(m metric.Metric) {
		perc, _ := Perc(r.MetricSum(m, w), r.AritySum(m.Arity(), w))
		symbols[strings.ToLower(m.String())] = perc
	}
	for _, m := range metric.Unigrams {
		add(m)
	}
	for _, m := range metric.Bigrams {
		add(m)
	}
	for _, m := range metric.Trigrams {
		add(m)
	}
	return symbols
}

// Normalize prepares detail rows for presentation: zero rows removed,
// the rest sorted by the selected weight.
func (r *Record) Normalize(w metric.Weight) {
	for i := range r.Unigrams {
		r.Unigrams[i].sortDetails(w)
	}
	for i := range r.Bigrams {
		r.Bigrams[i].sortDetails(w)
	}
	for i := range r.Trigrams {
		r.Trigrams[i].sortDetails(w)
	}
}
