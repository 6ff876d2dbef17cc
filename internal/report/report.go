package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/perky/internal/metric"
	"github.com/verte-zerg/perky/internal/progress"
	"github.com/verte-zerg/perky/internal/score"
	"github.com/verte-zerg/perky/internal/tables"
)

// Options controls what the writers emit.
type Options struct {
	Styled         bool
	PrintPerc      bool
	PrintSummaries bool
	Details        []metric.Metric
	Weight         metric.Weight
}

var (
	styleIndex       = lipgloss.NewStyle().Bold(true).Underline(true)
	styleMetric      = lipgloss.NewStyle().Bold(true)
	styleAbsent      = lipgloss.NewStyle().Faint(true)
	styleSpace       = lipgloss.NewStyle().Reverse(true)
	stylePlaceholder = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

func (o *Options) render(style lipgloss.Style, s string) string {
	if !o.Styled {
		return s
	}
	return style.Render(s)
}

func (o *Options) wantsDetails(m metric.Metric) bool {
	for _, d := range o.Details {
		if d == m {
			return true
		}
	}
	return false
}

// WriteMetadataText prints the run metadata block.
func WriteMetadataText(w io.Writer, meta progress.Metadata, opts Options) error {
	efficiency := "n/a"
	if value, ok := meta.Efficiency(); ok {
		efficiency = value.String()
	}
	rows := [][2]string{
		{"unigram table sum", fmt.Sprintf("%d", meta.UnigramTableSum)},
		{"bigram table sum", fmt.Sprintf("%d", meta.BigramTableSum)},
		{"trigram table sum", fmt.Sprintf("%d", meta.TrigramTableSum)},
		{"goal", meta.Goal.String()},
		{"metric", strings.ToLower(meta.Metric.String())},
		{"weight", meta.Weight.String()},
		{"total permutations", fmt.Sprintf("%d", meta.TotalPermutations)},
		{"elapsed duration", meta.Elapsed.String()},
		{"efficiency", efficiency + " / permutation"},
		{"score", fmt.Sprintf("%d", meta.Score)},
		{"truncated", fmt.Sprintf("%t", meta.Truncated)},
		{"partial", fmt.Sprintf("%t", meta.Partial)},
		{"total records", fmt.Sprintf("%d", meta.TotalRecords)},
		{"total unique records", fmt.Sprintf("%d", meta.TotalUniqueRecords)},
		{"total selected records", fmt.Sprintf("%d", meta.TotalSelectedRecords)},
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(w, "%-23s %s\n", row[0]+":", row[1]); err != nil {
			return err
		}
	}
	return nil
}

// WriteRecordsText prints each record: its key table, then summaries
// and requested detail tables.
func WriteRecordsText(w io.Writer, records []*score.Record, opts Options) error {
	for i, r := range records {
		if len(records) > 1 {
			header := fmt.Sprintf("Record %d/%d", i+1, len(records))
			if _, err := fmt.Fprintln(w, opts.render(styleIndex, header)); err != nil {
				return err
			}
		}
		if err := writeMatrix(w, &r.Matrix, &opts); err != nil {
			return err
		}
		if opts.PrintSummaries {
			if err := writeSummaries(w, r, &opts); err != nil {
				return err
			}
		}
		if err := writeDetails(w, r, &opts); err != nil {
			return err
		}
	}
	return nil
}

// writeMatrix prints the key table cropped to its occupied rectangle.
func writeMatrix(w io.Writer, m *score.Matrix, opts *Options) error {
	top, bottom, left, right := cropBounds(m)
	for r := top; r < bottom; r++ {
		var b strings.Builder
		for c := left; c < right; c++ {
			if c > left {
				b.WriteByte(' ')
			}
			b.WriteString(renderKey(m[r][c], opts))
		}
		if _, err := fmt.Fprintln(w, b.String()); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

func renderKey(b byte, opts *Options) string {
	switch {
	case b == tables.KeyAbsent:
		return opts.render(styleAbsent, "·")
	case b >= tables.Tag1 && b <= tables.Tag3:
		return opts.render(stylePlaceholder, string('0'+b))
	case b == ' ':
		return opts.render(styleSpace, " ")
	case b < 0x20 || b == 0x7f:
		return opts.render(styleAbsent, "?")
	default:
		return string(b)
	}
}

func cropBounds(m *score.Matrix) (top, bottom, left, right int) {
	top, bottom, left, right = tables.Rows, 0, tables.Cols, 0
	for r := 0; r < tables.Rows; r++ {
		for c := 0; c < tables.Cols; c++ {
			if m[r][c] == tables.KeyAbsent {
				continue
			}
			if r < top {
				top = r
			}
			if r+1 > bottom {
				bottom = r + 1
			}
			if c < left {
				left = c
			}
			if c+1 > right {
				right = c + 1
			}
		}
	}
	if top > bottom {
		top, bottom, left, right = 0, 0, 0, 0
	}
	return top, bottom, left, right
}

func formatPerc(value float64) string {
	return fmt.Sprintf("%.3f%%", value)
}

func summaryRows(r *score.Record, group []metric.Metric, opts *Options) [][]string {
	rows := make([][]string, 0, len(group))
	for _, m := range group {
		measurement := r.Measurement(m)
		goal := "↓"
		if m.Goal() == metric.Max {
			goal = "↑"
		}
		row := []string{
			opts.render(styleMetric, m.String()),
			goal,
			fmt.Sprintf("%d", measurement.Sum),
		}
		if opts.PrintPerc {
			perc, _ := score.Perc(measurement.Sum, r.AritySum(m.Arity(), metric.Raw))
			row = append(row, formatPerc(perc))
		}
		row = append(row, fmt.Sprintf("%d", measurement.SumEW))
		if opts.PrintPerc {
			perc, _ := score.Perc(measurement.SumEW, r.AritySum(m.Arity(), metric.Effort))
			row = append(row, formatPerc(perc))
		}
		rows = append(rows, row)
	}
	return rows
}

func writeSummaries(w io.Writer, r *score.Record, opts *Options) error {
	groups := []struct {
		title   string
		metrics []metric.Metric
	}{
		{"Unigram", metric.Unigrams},
		{"Bigram", metric.Bigrams},
		{"Trigram", metric.Trigrams},
	}
	for _, group := range groups {
		if _, err := fmt.Fprintln(w, group.title); err != nil {
			return err
		}
		headers := []string{"Metric", "Goal", "Sum"}
		if opts.PrintPerc {
			headers = append(headers, "%")
		}
		headers = append(headers, "Weighted")
		if opts.PrintPerc {
			headers = append(headers, "W%")
		}
		rightAlign := map[int]bool{2: true, 3: true, 4: true, 5: true}
		for _, line := range formatTable(headers, summaryRows(r, group.metrics, opts), rightAlign) {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

func writeDetails(w io.Writer, r *score.Record, opts *Options) error {
	for _, m := range opts.Details {
		measurement := r.Measurement(m)
		if !measurement.HasDetails {
			continue
		}
		title := fmt.Sprintf("%s details", m.String())
		if _, err := fmt.Fprintln(w, opts.render(styleMetric, title)); err != nil {
			return err
		}
		headers := []string{"N-gram", "Count", "Cum"}
		if opts.PrintPerc {
			headers = append(headers, "%", "Cum%")
		}
		headers = append(headers, "Weighted", "WCum")
		if opts.PrintPerc {
			headers = append(headers, "W%", "WCum%")
		}
		var cum, cumEW uint64
		rows := make([][]string, 0, len(measurement.Details))
		for _, d := range measurement.Details {
			cum += d.Value
			cumEW += d.ValueEW
			row := []string{
				renderNGram(d.NGram, opts),
				fmt.Sprintf("%d", d.Value),
				fmt.Sprintf("%d", cum),
			}
			if opts.PrintPerc {
				perc, _ := score.Perc(d.Value, measurement.Sum)
				cumPerc, _ := score.Perc(cum, measurement.Sum)
				row = append(row, formatPerc(perc), formatPerc(cumPerc))
			}
			row = append(row,
				fmt.Sprintf("%d", d.ValueEW),
				fmt.Sprintf("%d", cumEW),
			)
			if opts.PrintPerc {
				perc, _ := score.Perc(d.ValueEW, measurement.SumEW)
				cumPerc, _ := score.Perc(cumEW, measurement.SumEW)
				row = append(row, formatPerc(perc), formatPerc(cumPerc))
			}
			rows = append(rows, row)
		}
		rightAlign := map[int]bool{}
		for i := 1; i < len(headers); i++ {
			rightAlign[i] = true
		}
		for _, line := range formatTable(headers, rows, rightAlign) {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

func renderNGram(s string, opts *Options) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		b.WriteString(renderKey(s[i], opts))
	}
	return b.String()
}
