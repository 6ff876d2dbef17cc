package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/verte-zerg/perky/internal/metric"
	"github.com/verte-zerg/perky/internal/progress"
	"github.com/verte-zerg/perky/internal/score"
	"github.com/verte-zerg/perky/internal/tables"
)

// JSON output is JSON Lines: one object per line, metadata first when
// requested, then one object per record.

type jsonSummary struct {
	Sum    uint64   `json:"sum"`
	Perc   *float64 `json:"perc,omitempty"`
	SumEW  uint64   `json:"sum_ew"`
	PercEW *float64 `json:"perc_ew,omitempty"`
}

type jsonDetail struct {
	NGram     string   `json:"ngram"`
	Value     uint64   `json:"value"`
	Cum       uint64   `json:"cum"`
	Perc      *float64 `json:"perc,omitempty"`
	CumPerc   *float64 `json:"cum_perc,omitempty"`
	ValueEW   uint64   `json:"value_ew"`
	CumEW     uint64   `json:"cum_ew"`
	PercEW    *float64 `json:"perc_ew,omitempty"`
	CumPercEW *float64 `json:"cum_perc_ew,omitempty"`
}

type jsonRecord struct {
	KeyTable  [][]any                 `json:"key_table"`
	Summaries map[string]jsonSummary  `json:"summaries,omitempty"`
	Details   map[string][]jsonDetail `json:"details,omitempty"`
}

// WriteMetadataJSON emits the metadata object as one line.
func WriteMetadataJSON(w io.Writer, meta progress.Metadata) error {
	efficiency := any(nil)
	if value, ok := meta.Efficiency(); ok {
		efficiency = value.String()
	}
	object := map[string]any{
		"unigram_table_sum":      meta.UnigramTableSum,
		"bigram_table_sum":       meta.BigramTableSum,
		"trigram_table_sum":      meta.TrigramTableSum,
		"goal":                   meta.Goal.String(),
		"metric":                 strings.ToLower(meta.Metric.String()),
		"weight":                 meta.Weight.String(),
		"total_permutations":     meta.TotalPermutations,
		"elapsed_duration":       meta.Elapsed.String(),
		"efficiency":             efficiency,
		"score":                  meta.Score,
		"truncated":              meta.Truncated,
		"partial":                meta.Partial,
		"total_records":          meta.TotalRecords,
		"total_unique_records":   meta.TotalUniqueRecords,
		"total_selected_records": meta.TotalSelectedRecords,
	}
	return writeLine(w, object)
}

// WriteRecordsJSON emits one object per record.
func WriteRecordsJSON(w io.Writer, records []*score.Record, opts Options) error {
	for _, r := range records {
		object := jsonRecord{KeyTable: matrixData(&r.Matrix)}
		if opts.PrintSummaries {
			object.Summaries = buildSummaries(r, &opts)
		}
		object.Details = buildDetails(r, &opts)
		if err := writeLine(w, object); err != nil {
			return err
		}
	}
	return nil
}

func writeLine(w io.Writer, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode JSON line: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

// matrixData mirrors the key table file format: null for absent cells,
// tag numbers for placeholders, one-character strings otherwise. Empty
// trailing columns and rows are trimmed.
func matrixData(m *score.Matrix) [][]any {
	rows := make([][]any, 0, tables.Rows)
	for r := 0; r < tables.Rows; r++ {
		row := make([]any, 0, tables.Cols)
		for c := 0; c < tables.Cols; c++ {
			switch b := m[r][c]; {
			case b == tables.KeyAbsent:
				row = append(row, nil)
			case b >= tables.Tag1 && b <= tables.Tag3:
				row = append(row, int(b))
			default:
				row = append(row, string(b))
			}
		}
		for len(row) > 0 && row[len(row)-1] == nil {
			row = row[:len(row)-1]
		}
		rows = append(rows, row)
	}
	for len(rows) > 0 && len(rows[len(rows)-1]) == 0 {
		rows = rows[:len(rows)-1]
	}
	return rows
}

func buildSummaries(r *score.Record, opts *Options) map[string]jsonSummary {
	summaries := make(map[string]jsonSummary)
	add := func(m metric.Metric) {
		measurement := r.Measurement(m)
		summary := jsonSummary{Sum: measurement.Sum, SumEW: measurement.SumEW}
		if opts.PrintPerc {
			if perc, ok := score.Perc(measurement.Sum, r.AritySum(m.Arity(), metric.Raw)); ok {
				summary.Perc = &perc
			}
			if perc, ok := score.Perc(measurement.SumEW, r.AritySum(m.Arity(), metric.Effort)); ok {
				summary.PercEW = &perc
			}
		}
		summaries[strings.ToLower(m.String())] = summary
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
	return summaries
}

func buildDetails(r *score.Record, opts *Options) map[string][]jsonDetail {
	details := make(map[string][]jsonDetail)
	for _, m := range opts.Details {
		measurement := r.Measurement(m)
		if !measurement.HasDetails {
			continue
		}
		var cum, cumEW uint64
		rows := make([]jsonDetail, 0, len(measurement.Details))
		for _, d := range measurement.Details {
			cum += d.Value
			cumEW += d.ValueEW
			row := jsonDetail{
				NGram:   d.NGram,
				Value:   d.Value,
				Cum:     cum,
				ValueEW: d.ValueEW,
				CumEW:   cumEW,
			}
			if opts.PrintPerc {
				if perc, ok := score.Perc(d.Value, measurement.Sum); ok {
					row.Perc = &perc
				}
				if perc, ok := score.Perc(cum, measurement.Sum); ok {
					row.CumPerc = &perc
				}
				if perc, ok := score.Perc(d.ValueEW, measurement.SumEW); ok {
					row.PercEW = &perc
				}
				if perc, ok := score.Perc(cumEW, measurement.SumEW); ok {
					row.CumPercEW = &perc
				}
			}
			rows = append(rows, row)
		}
		details[strings.ToLower(m.String())] = rows
	}
	if len(details) == 0 {
		return nil
	}
	return details
}
