// Package progress defines the sink through which the permutation
// driver reports progress and its final metadata record.
package progress

import (
	"time"

	"github.com/verte-zerg/perky/internal/metric"
)

// Metadata summarizes a completed permutation run.
type Metadata struct {
	UnigramTableSum      uint64
	BigramTableSum       uint64
	TrigramTableSum      uint64
	Goal                 metric.Goal
	Metric               metric.Metric
	Weight               metric.Weight
	TotalPermutations    uint64
	Elapsed              time.Duration
	Score                uint64
	Truncated            bool
	Partial              bool
	TotalRecords         int
	TotalUniqueRecords   int
	TotalSelectedRecords int
}

// Efficiency returns the average time spent per permutation, or !ok
// when nothing ran.
func (m *Metadata) Efficiency() (time.Duration, bool) {
	if m.TotalPermutations == 0 {
		return 0, false
	}
	return time.Duration(float64(m.Elapsed) / float64(m.TotalPermutations)), true
}

// ETA extrapolates the remaining duration from the completed share.
func ETA(done, total uint64, elapsed time.Duration) (time.Duration, bool) {
	if done == 0 || total == 0 || done > total {
		return 0, false
	}
	ratio := float64(total)/float64(done) - 1.0
	return time.Duration(float64(elapsed) * ratio), true
}

// Sink receives progress callbacks during a run and the metadata record
// after it. The core calls it; rendering is the caller's concern.
type Sink interface {
	OnProgress(done, total uint64, elapsed time.Duration)
	OnComplete(meta Metadata)
}

// Discard is a Sink that drops everything.
type Discard struct{}

func (Discard) OnProgress(done, total uint64, elapsed time.Duration) {}

func (Discard) OnComplete(meta Metadata) {}
