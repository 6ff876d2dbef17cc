// Package score evaluates a character-assigned key table against the
// n-gram frequency tables over a geometry plan.
package score

import (
	"sort"

	"github.com/verte-zerg/perky/internal/geometry"
	"github.com/verte-zerg/perky/internal/metric"
	"github.com/verte-zerg/perky/internal/ngram"
	"github.com/verte-zerg/perky/internal/tables"
)

// Matrix is the byte form of a key table: 0 for absent cells, tags 1-3
// for placeholders, the ASCII character otherwise.
type Matrix = [tables.Rows][tables.Cols]byte

// Detail is one tuple's contribution: the n-gram it spells, its raw
// count, and its effort-weighted count.
type Detail struct {
	NGram   string
	Value   uint64
	ValueEW uint64
}

// Measurement accumulates one metric's sums, with per-tuple details
// when requested.
type Measurement struct {
	Details    []Detail
	HasDetails bool
	Sum        uint64
	SumEW      uint64
}

// SumBy returns the raw or effort-weighted sum.
func (m *Measurement) SumBy(w metric.Weight) uint64 {
	if w == metric.Effort {
		return m.SumEW
	}
	return m.Sum
}

// weigh truncates the effort-weighted contribution of one tuple. The
// truncation happens per tuple, before accumulation.
func weigh(value uint64, effort float64) uint64 {
	return uint64(float64(value) * effort)
}

// SumUnigrams accumulates raw and effort-weighted sums over a unigram
// tuple list.
func SumUnigrams(fs []geometry.Unigram, m *Matrix, table ngram.Table) (uint64, uint64) {
	var sum, sumEW uint64
	for i := range fs {
		f := &fs[i]
		value := table[m[f.A.Row][f.A.Col]]
		sum += value
		sumEW += weigh(value, f.Effort)
	}
	return sum, sumEW
}

// SumBigrams accumulates raw and effort-weighted sums over a bigram
// tuple list.
func SumBigrams(fs []geometry.Bigram, m *Matrix, table ngram.Table) (uint64, uint64) {
	var sum, sumEW uint64
	for i := range fs {
		f := &fs[i]
		key := int(m[f.A.Row][f.A.Col])<<8 | int(m[f.B.Row][f.B.Col])
		value := table[key]
		sum += value
		sumEW += weigh(value, f.Effort)
	}
	return sum, sumEW
}

// SumTrigrams accumulates raw and effort-weighted sums over a trigram
// tuple list.
func SumTrigrams(fs []geometry.Trigram, m *Matrix, table ngram.Table) (uint64, uint64) {
	var sum, sumEW uint64
	for i := range fs {
		f := &fs[i]
		key := int(m[f.A.Row][f.A.Col])<<16 | int(m[f.B.Row][f.B.Col])<<8 | int(m[f.C.Row][f.C.Col])
		value := table[key]
		sum += value
		sumEW += weigh(value, f.Effort)
	}
	return sum, sumEW
}

func measureUnigrams(fs []geometry.Unigram, m *Matrix, table ngram.Table, detailed bool) Measurement {
	if !detailed {
		sum, sumEW := SumUnigrams(fs, m, table)
		return Measurement{Sum: sum, SumEW: sumEW}
	}
	measurement := Measurement{Details: make([]Detail, 0, len(fs)), HasDetails: true}
	for i := range fs {
		f := &fs[i]
		b := m[f.A.Row][f.A.Col]
		value := table[b]
		valueEW := weigh(value, f.Effort)
		measurement.Details = append(measurement.Details, Detail{
			NGram:   string([]byte{b}),
			Value:   value,
			ValueEW: valueEW,
		})
		measurement.Sum += value
		measurement.SumEW += valueEW
	}
	return measurement
}

func measureBigrams(fs []geometry.Bigram, m *Matrix, table ngram.Table, detailed bool) Measurement {
	if !detailed {
		sum, sumEW := SumBigrams(fs, m, table)
		return Measurement{Sum: sum, SumEW: sumEW}
	}
	measurement := Measurement{Details: make([]Detail, 0, len(fs)), HasDetails: true}
	for i := range fs {
		f := &fs[i]
		b1 := m[f.A.Row][f.A.Col]
		b2 := m[f.B.Row][f.B.Col]
		value := table[int(b1)<<8|int(b2)]
		valueEW := weigh(value, f.Effort)
		measurement.Details = append(measurement.Details, Detail{
			NGram:   string([]byte{b1, b2}),
			Value:   value,
			ValueEW: valueEW,
		})
		measurement.Sum += value
		measurement.SumEW += valueEW
	}
	return measurement
}

func measureTrigrams(fs []geometry.Trigram, m *Matrix, table ngram.Table, detailed bool) Measurement {
	if !detailed {
		sum, sumEW := SumTrigrams(fs, m, table)
		return Measurement{Sum: sum, SumEW: sumEW}
	}
	measurement := Measurement{Details: make([]Detail, 0, len(fs)), HasDetails: true}
	for i := range fs {
		f := &fs[i]
		b1 := m[f.A.Row][f.A.Col]
		b2 := m[f.B.Row][f.B.Col]
		b3 := m[f.C.Row][f.C.Col]
		value := table[int(b1)<<16|int(b2)<<8|int(b3)]
		valueEW := weigh(value, f.Effort)
		measurement.Details = append(measurement.Details, Detail{
			NGram:   string([]byte{b1, b2, b3}),
			Value:   value,
			ValueEW: valueEW,
		})
		measurement.Sum += value
		measurement.SumEW += valueEW
	}
	return measurement
}

// sortDetails drops zero-count rows and orders the remainder by the
// selected weight, descending, stable on enumeration order.
func (m *Measurement) sortDetails(w metric.Weight) {
	if !m.HasDetails {
		return
	}
	kept := m.Details[:0]
	for _, d := range m.Details {
		if d.Value|d.ValueEW != 0 {
			kept = append(kept, d)
		}
	}
	m.Details = kept
	sort.SliceStable(m.Details, func(i, j int) bool {
		if w == metric.Effort {
			return m.Details[i].ValueEW > m.Details[j].ValueEW
		}
		return m.Details[i].Value > m.Details[j].Value
	})
}

// Perc divides n by denominator as a percentage; a zero denominator
// reports !ok.
func Perc(n, denominator uint64) (float64, bool) {
	if denominator == 0 {
		return 0, false
	}
	return float64(n) / float64(denominator) * 100.0, true
}
