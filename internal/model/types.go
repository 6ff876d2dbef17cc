// Package model defines shared data structures.
package model

import (
	"time"

	"github.com/verte-zerg/perky/internal/metric"
)

// RunConfig collects the scoring and permutation settings of one run.
type RunConfig struct {
	Metric          metric.Metric
	Goal            metric.Goal
	Weight          metric.Weight
	Regions         [3]string
	Truncate        uint64
	MaxPermutations uint64
	Threads         int
	Sleep           time.Duration
}

// OutputConfig collects the printing settings.
type OutputConfig struct {
	Format         string
	Style          string
	PrintMetadata  *bool
	PrintSummaries bool
	PrintPerc      bool
	Details        []metric.Metric
	SortRules      []metric.SortRule
	Filters        []string
	MaxRecords     *int
	Index          *int
}

// RunRow summarizes a stored permutation run for the history listing.
type RunRow struct {
	ID                int64
	StartedAt         time.Time
	Metric            string
	Goal              string
	Weight            string
	TotalPermutations uint64
	ElapsedMs         int64
	Score             uint64
	Truncated         bool
	TotalRecords      int
	UniqueRecords     int
	SelectedRecords   int
}
