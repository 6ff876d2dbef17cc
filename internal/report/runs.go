package report

import (
	"fmt"
	"io"
	"time"

	"github.com/verte-zerg/perky/internal/model"
	"github.com/verte-zerg/perky/internal/progress"
)

// WriteRunsText prints the stored run history as a table.
func WriteRunsText(w io.Writer, runs []model.RunRow) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs recorded.")
		return err
	}
	headers := []string{"ID", "Started", "Metric", "Goal", "Weight", "Permutations", "Elapsed", "Score", "Records"}
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			fmt.Sprintf("%d", run.ID),
			run.StartedAt.Local().Format("2006-01-02 15:04"),
			run.Metric,
			run.Goal,
			run.Weight,
			fmt.Sprintf("%d", run.TotalPermutations),
			progress.FormatSeconds(time.Duration(run.ElapsedMs*int64(time.Millisecond)).Seconds(), 1),
			fmt.Sprintf("%d", run.Score),
			fmt.Sprintf("%d/%d/%d", run.TotalRecords, run.UniqueRecords, run.SelectedRecords),
		})
	}
	rightAlign := map[int]bool{0: true, 5: true, 6: true, 7: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
