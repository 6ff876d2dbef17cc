// Package record post-processes measured records: deduplication,
// multi-key sorting, filter evaluation, and window selection.
package record

import (
	"bytes"
	"errors"
	"sort"

	"github.com/verte-zerg/perky/internal/expr"
	"github.com/verte-zerg/perky/internal/fault"
	"github.com/verte-zerg/perky/internal/metric"
	"github.com/verte-zerg/perky/internal/score"
)

// Dedup removes records with identical key tables, keeping the first
// occurrence under the current order.
func Dedup(records []*score.Record) []*score.Record {
	seen := make(map[score.Matrix]bool, len(records))
	kept := records[:0:0]
	for _, r := range records {
		if seen[r.Matrix] {
			continue
		}
		seen[r.Matrix] = true
		kept = append(kept, r)
	}
	return kept
}

// Sort orders records by the caller's sort rules, stable, so records
// with equal keys keep their emission order. With no rules the records
// are ordered by the primary score under the goal, with the key table
// bytes as a deterministic tiebreaker.
func Sort(records []*score.Record, rules []metric.SortRule, w metric.Weight, primary metric.Metric, goal metric.Goal) {
	if len(rules) == 0 {
		sort.SliceStable(records, func(i, j int) bool {
			a := records[i].MetricSum(primary, w)
			b := records[j].MetricSum(primary, w)
			if a != b {
				if goal == metric.Max {
					return a > b
				}
				return a < b
			}
			return matrixLess(&records[i].Matrix, &records[j].Matrix)
		})
		return
	}
	sort.SliceStable(records, func(i, j int) bool {
		for _, rule := range rules {
			a := records[i].MetricSum(rule.Metric, w)
			b := records[j].MetricSum(rule.Metric, w)
			if a == b {
				continue
			}
			if rule.Direction == metric.Descending {
				return a > b
			}
			return a < b
		}
		return false
	})
}

func matrixLess(a, b *score.Matrix) bool {
	for r := range a {
		if c := bytes.Compare(a[r][:], b[r][:]); c != 0 {
			return c < 0
		}
	}
	return false
}

// Filter drops records for which any expression evaluates to zero. A
// division by zero during evaluation drops the record; other
// evaluation failures surface.
func Filter(records []*score.Record, filters []*expr.Expression, w metric.Weight) ([]*score.Record, error) {
	if len(filters) == 0 {
		return records, nil
	}
	kept := records[:0:0]
	for _, r := range records {
		symbols := r.SymbolTable(w)
		keep := true
		for _, filter := range filters {
			value, err := filter.Eval(symbols)
			if err != nil {
				if errors.Is(err, expr.ErrDivisionByZero) {
					keep = false
					break
				}
				return nil, err
			}
			if value == 0 {
				keep = false
				break
			}
		}
		if keep {
			kept = append(kept, r)
		}
	}
	return kept, nil
}

// Select applies the window selection: maxRecords keeps the first N of
// the list, then index picks a single record from that window.
// Negative indexes count from the end. Out-of-range bounds are errors,
// not clamps.
func Select(records []*score.Record, maxRecords, index *int) ([]*score.Record, error) {
	if maxRecords != nil {
		n := *maxRecords
		if n < 0 || n > len(records) {
			return nil, fault.New(fault.KindArgument,
				"max records %d out of bounds for %d entries", n, len(records))
		}
		records = records[:n]
	}
	if index != nil {
		i := *index
		if i < 0 {
			i += len(records)
		}
		if i < 0 || i >= len(records) {
			return nil, fault.New(fault.KindArgument,
				"index %d out of bounds for %d entries", *index, len(records))
		}
		records = records[i : i+1]
	}
	return records, nil
}
