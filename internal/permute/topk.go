package permute

import (
	"container/heap"

	"github.com/verte-zerg/perky/internal/metric"
	"github.com/verte-zerg/perky/internal/score"
)

// Candidate is one retained assignment: its filled matrix, the scalar
// score under the selected metric and weight, and its enumeration
// index, which serves as the deterministic tiebreaker.
type Candidate struct {
	Matrix score.Matrix
	Score  uint64
	Index  uint64
}

// topK is a bounded retention heap ordered worst-first, so the worst
// retained candidate is evicted when a better one arrives at capacity.
// Equal scores are broken by index: lower indexes are kept, which makes
// the retained set independent of thread count and chunk boundaries.
type topK struct {
	goal    metric.Goal
	limit   int // 0 means unbounded
	entries []Candidate
	dropped bool
}

func newTopK(goal metric.Goal, limit int) *topK {
	return &topK{goal: goal, limit: limit}
}

// worse reports whether a ranks strictly below b for retention.
func (t *topK) worse(a, b Candidate) bool {
	if a.Score != b.Score {
		if t.goal == metric.Max {
			return a.Score < b.Score
		}
		return a.Score > b.Score
	}
	return a.Index > b.Index
}

func (t *topK) Len() int { return len(t.entries) }

func (t *topK) Less(i, j int) bool { return t.worse(t.entries[i], t.entries[j]) }

func (t *topK) Swap(i, j int) { t.entries[i], t.entries[j] = t.entries[j], t.entries[i] }

func (t *topK) Push(x any) { t.entries = append(t.entries, x.(Candidate)) }

func (t *topK) Pop() any {
	last := len(t.entries) - 1
	entry := t.entries[last]
	t.entries = t.entries[:last]
	return entry
}

// wouldAdmit reports whether a candidate with this score and index
// passes the admission rule, so callers can skip copying the matrix
// for candidates that would be dropped.
func (t *topK) wouldAdmit(scoreValue, index uint64) bool {
	if t.limit <= 0 || len(t.entries) < t.limit {
		return true
	}
	return !t.worse(Candidate{Score: scoreValue, Index: index}, t.entries[0])
}

// add applies the admission rule to one candidate.
func (t *topK) add(c Candidate) {
	if t.limit <= 0 || len(t.entries) < t.limit {
		heap.Push(t, c)
		return
	}
	t.dropped = true
	if t.worse(c, t.entries[0]) {
		return
	}
	t.entries[0] = c
	heap.Fix(t, 0)
}

// merge drains another heap into this one under the same admission
// rule. The comparator is total, so the outcome does not depend on
// merge order.
func (t *topK) merge(other *topK) {
	for _, entry := range other.entries {
		t.add(entry)
	}
	t.dropped = t.dropped || other.dropped
}
