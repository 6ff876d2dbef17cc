// Package permute exhaustively explores every assignment of the region
// character sets to the key table's placeholder cells, in parallel,
// retaining the best-scoring assignments.
package permute

import (
	"context"
	"runtime"
	"sort"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/perky/internal/fault"
	"github.com/verte-zerg/perky/internal/geometry"
	"github.com/verte-zerg/perky/internal/metric"
	"github.com/verte-zerg/perky/internal/ngram"
	"github.com/verte-zerg/perky/internal/progress"
	"github.com/verte-zerg/perky/internal/score"
)

// batchSize is the number of candidates scored between progress
// counter flushes, cancellation checks, and throttle sleeps.
const batchSize = 1000

// Region pairs the characters to substitute with the placeholder cells
// they fill, in row-major order.
type Region struct {
	Chars  []byte
	Coords [][2]int
}

// Options configures a permutation run.
type Options struct {
	Plan    *geometry.Plan
	Set     *ngram.Set
	Matrix  score.Matrix
	Regions [3]Region

	Metric metric.Metric
	Weight metric.Weight
	Goal   metric.Goal

	// Truncate bounds the number of retained candidates; 0 keeps all.
	Truncate int
	// MaxPermutations caps the candidates visited; 0 visits all.
	MaxPermutations uint64
	// Threads caps the worker count; 0 uses all logical CPUs.
	Threads int
	// Sleep yields workers to the OS between batches.
	Sleep time.Duration

	Sink progress.Sink
}

// Result is the retained candidate set, in enumeration-index order, with
// run statistics.
type Result struct {
	Candidates []Candidate
	Score      uint64
	Total      uint64
	Elapsed    time.Duration
	Truncated  bool
	Partial    bool
	Meta       progress.Metadata
}

// tupleRef is one tuple of the selected metric, flattened for the hot
// scoring loop.
type tupleRef struct {
	cells  [3][2]int
	arity  int
	effort float64
}

type driver struct {
	opts  Options
	table ngram.Table

	touching []tupleRef
	static   []tupleRef

	active     []int // region numbers with characters supplied
	factorials []uint64

	hotRegion  int // index into active, or -1
	hotCoords  [][2]int
	hotTouch   [][]int
	prefix     int
	suffixFact uint64

	total  uint64 // capped candidate count
	blocks uint64

	staticRaw uint64
	staticEW  uint64

	count atomic.Uint64
}

// Run drives the exhaustive search and returns the retained candidate
// set. Cancellation via ctx finishes the current batches and returns
// the partial retention.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Sink == nil {
		opts.Sink = progress.Discard{}
	}
	if opts.Threads < 0 {
		return nil, fault.New(fault.KindArgument, "negative thread count: %d", opts.Threads)
	}
	if opts.Threads == 0 {
		opts.Threads = runtime.NumCPU()
	}
	d := &driver{opts: opts, table: opts.Set.TableForArity(opts.Metric.Arity())}
	if err := d.prepare(); err != nil {
		return nil, err
	}

	start := time.Now()
	done := make(chan struct{})
	monitorDone := make(chan struct{})
	go func() {
		d.monitor(start, done)
		close(monitorDone)
	}()

	workers := opts.Threads
	if uint64(workers) > d.blocks {
		workers = int(d.blocks)
	}
	if workers < 1 {
		workers = 1
	}
	heaps := make([]*topK, workers)
	per := d.blocks / uint64(workers)
	extra := d.blocks % uint64(workers)
	var group errgroup.Group
	var next uint64
	for w := 0; w < workers; w++ {
		w := w
		lo := next
		hi := lo + per
		if uint64(w) < extra {
			hi++
		}
		next = hi
		group.Go(func() error {
			heaps[w] = d.worker(ctx, lo, hi)
			return nil
		})
	}
	// Worker funcs never fail; the group only orders the joins.
	_ = group.Wait()
	close(done)
	<-monitorDone
	elapsed := time.Since(start)

	merged := newTopK(opts.Goal, opts.Truncate)
	for _, h := range heaps {
		merged.merge(h)
	}
	candidates := append([]Candidate(nil), merged.entries...)
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Index < candidates[j].Index
	})

	result := &Result{
		Candidates: candidates,
		Total:      d.count.Load(),
		Elapsed:    elapsed,
		Truncated:  merged.dropped,
		Partial:    ctx.Err() != nil,
	}
	result.Score = bestScore(opts.Goal, candidates)
	opts.Sink.OnProgress(result.Total, d.total, elapsed)
	result.Meta = progress.Metadata{
		UnigramTableSum:   opts.Set.UnigramSum,
		BigramTableSum:    opts.Set.BigramSum,
		TrigramTableSum:   opts.Set.TrigramSum,
		Goal:              opts.Goal,
		Metric:            opts.Metric,
		Weight:            opts.Weight,
		TotalPermutations: result.Total,
		Elapsed:           elapsed,
		Score:             result.Score,
		Truncated:         result.Truncated,
		Partial:           result.Partial,
	}
	return result, nil
}

func bestScore(goal metric.Goal, candidates []Candidate) uint64 {
	if len(candidates) == 0 {
		if goal == metric.Max {
			return 0
		}
		return ^uint64(0)
	}
	best := candidates[0].Score
	for _, c := range candidates[1:] {
		if goal == metric.Max && c.Score > best || goal == metric.Min && c.Score < best {
			best = c.Score
		}
	}
	return best
}

func (d *driver) prepare() error {
	opts := &d.opts
	for i, region := range opts.Regions {
		if len(region.Chars) == 0 {
			continue
		}
		if len(region.Coords) == 0 {
			return fault.New(fault.KindStructural,
				"characters supplied for region %d, but the key table has no %d placeholders", i+1, i+1)
		}
		if len(region.Chars) != len(region.Coords) {
			return fault.New(fault.KindStructural,
				"there are %d placeholders for region %d, but %d characters were supplied",
				len(region.Coords), i+1, len(region.Chars))
		}
		d.active = append(d.active, i)
		d.factorials = append(d.factorials, factorial(len(region.Chars)))
	}

	d.splitTuples()
	d.staticRaw, d.staticEW = sumTuples(d.static, &opts.Matrix, d.table)

	total := uint64(1)
	for _, f := range d.factorials {
		if f != 0 && total > ^uint64(0)/f {
			total = ^uint64(0)
		} else {
			total *= f
		}
	}
	if opts.MaxPermutations != 0 && opts.MaxPermutations < total {
		total = opts.MaxPermutations
	}
	d.total = total

	d.hotRegion = -1
	if len(d.active) > 0 {
		d.hotRegion = len(d.active) - 1
	}

	// Pick the shortest unranked prefix of the hot region that yields
	// enough blocks to keep every worker busy. The target is a fixed
	// constant: block boundaries assign the candidate indexes that break
	// score ties, so they must not vary with the thread count.
	d.prefix = 0
	d.suffixFact = 1
	if d.hotRegion >= 0 {
		region := &opts.Regions[d.active[d.hotRegion]]
		d.hotCoords = region.Coords
		n := len(region.Chars)
		outer := uint64(1)
		for _, f := range d.factorials[:d.hotRegion] {
			outer *= f
		}
		const target = uint64(64)
		for p := 0; p <= n; p++ {
			suffixFact := factorial(n - p)
			blocks := outer * (d.factorials[d.hotRegion] / suffixFact)
			if blocks >= target || p == n {
				d.prefix = p
				d.suffixFact = suffixFact
				break
			}
		}
		d.buildHotTouch()
	}
	d.blocks = (d.total + d.suffixFact - 1) / d.suffixFact
	if d.blocks == 0 {
		d.blocks = 1
	}
	return nil
}

// splitTuples separates the selected metric's tuples into those that
// touch an active placeholder cell and the static remainder.
func (d *driver) splitTuples() {
	isDynamic := map[[2]int]bool{}
	for _, ri := range d.active {
		for _, coord := range d.opts.Regions[ri].Coords {
			isDynamic[coord] = true
		}
	}
	add := func(t tupleRef) {
		dynamic := false
		for i := 0; i < t.arity; i++ {
			if isDynamic[t.cells[i]] {
				dynamic = true
				break
			}
		}
		if dynamic {
			d.touching = append(d.touching, t)
		} else {
			d.static = append(d.static, t)
		}
	}
	switch d.opts.Metric.Arity() {
	case 1:
		for _, f := range d.opts.Plan.UnigramTuples(d.opts.Metric) {
			add(tupleRef{cells: [3][2]int{{f.A.Row, f.A.Col}}, arity: 1, effort: f.Effort})
		}
	case 2:
		for _, f := range d.opts.Plan.BigramTuples(d.opts.Metric) {
			add(tupleRef{cells: [3][2]int{{f.A.Row, f.A.Col}, {f.B.Row, f.B.Col}}, arity: 2, effort: f.Effort})
		}
	case 3:
		for _, f := range d.opts.Plan.TrigramTuples(d.opts.Metric) {
			add(tupleRef{
				cells: [3][2]int{{f.A.Row, f.A.Col}, {f.B.Row, f.B.Col}, {f.C.Row, f.C.Col}},
				arity: 3, effort: f.Effort,
			})
		}
	}
}

func (d *driver) buildHotTouch() {
	d.hotTouch = make([][]int, len(d.hotCoords))
	for pos, coord := range d.hotCoords {
		for ti, t := range d.touching {
			for i := 0; i < t.arity; i++ {
				if t.cells[i] == coord {
					d.hotTouch[pos] = append(d.hotTouch[pos], ti)
					break
				}
			}
		}
	}
}

func contribution(t *tupleRef, m *score.Matrix, table ngram.Table) (uint64, uint64) {
	var key int
	switch t.arity {
	case 1:
		key = int(m[t.cells[0][0]][t.cells[0][1]])
	case 2:
		key = int(m[t.cells[0][0]][t.cells[0][1]])<<8 | int(m[t.cells[1][0]][t.cells[1][1]])
	default:
		key = int(m[t.cells[0][0]][t.cells[0][1]])<<16 |
			int(m[t.cells[1][0]][t.cells[1][1]])<<8 |
			int(m[t.cells[2][0]][t.cells[2][1]])
	}
	value := table[key]
	return value, uint64(float64(value) * t.effort)
}

func sumTuples(tuples []tupleRef, m *score.Matrix, table ngram.Table) (uint64, uint64) {
	var raw, ew uint64
	for i := range tuples {
		value, valueEW := contribution(&tuples[i], m, table)
		raw += value
		ew += valueEW
	}
	return raw, ew
}

func (d *driver) worker(ctx context.Context, blockLo, blockHi uint64) *topK {
	retained := newTopK(d.opts.Goal, d.opts.Truncate)
	matrix := d.opts.Matrix
	stamp := make([]uint64, len(d.touching))
	var epoch uint64

	buffers := make([][]byte, len(d.active))
	for i, ri := range d.active {
		buffers[i] = make([]byte, len(d.opts.Regions[ri].Chars))
	}

	var batch uint64
	flush := func() {
		if batch != 0 {
			d.count.Add(batch)
			batch = 0
		}
	}
	cancelled := false

	for b := blockLo; b < blockHi && !cancelled; b++ {
		base := b * d.suffixFact
		if base >= d.total {
			break
		}
		d.substitute(base, buffers, &matrix)
		accRaw, accEW := sumTuples(d.touching, &matrix, d.table)

		limit := base + d.suffixFact
		if limit > d.total {
			limit = d.total
		}
		var hs *heapState
		if d.hotRegion >= 0 {
			hs = newHeapState(d.prefix, len(d.hotCoords))
		}
		for index := base; index < limit; index++ {
			if index > base {
				posA, posB, ok := hs.next()
				if !ok {
					break
				}
				accRaw, accEW = d.applySwap(&matrix, stamp, &epoch, posA, posB, accRaw, accEW)
			}
			scalar := d.staticRaw + accRaw
			if d.opts.Weight == metric.Effort {
				scalar = d.staticEW + accEW
			}
			if retained.wouldAdmit(scalar, index) {
				retained.add(Candidate{Matrix: matrix, Score: scalar, Index: index})
			} else {
				retained.dropped = true
			}
			batch++
			if batch == batchSize {
				flush()
				if ctx.Err() != nil {
					cancelled = true
					break
				}
				if d.opts.Sleep > 0 {
					time.Sleep(d.opts.Sleep)
				}
			}
		}
	}
	flush()
	return retained
}

// substitute unranks each active region's permutation at the global
// candidate index and writes it into the matrix.
func (d *driver) substitute(index uint64, buffers [][]byte, m *score.Matrix) {
	indices := make([]uint64, len(d.active))
	for i := len(d.active) - 1; i >= 0; i-- {
		indices[i] = index % d.factorials[i]
		index /= d.factorials[i]
	}
	for i, ri := range d.active {
		region := &d.opts.Regions[ri]
		unrank(indices[i], region.Chars, buffers[i])
		for pos, coord := range region.Coords {
			m[coord[0]][coord[1]] = buffers[i][pos]
		}
	}
}

// applySwap exchanges two hot-region cells and updates the accumulators
// incrementally: tuples touching either cell are subtracted under the
// old characters and re-added under the new ones.
func (d *driver) applySwap(m *score.Matrix, stamp []uint64, epoch *uint64, posA, posB int, accRaw, accEW uint64) (uint64, uint64) {
	*epoch++
	e := *epoch
	for _, ti := range d.hotTouch[posA] {
		stamp[ti] = e
		value, valueEW := contribution(&d.touching[ti], m, d.table)
		accRaw -= value
		accEW -= valueEW
	}
	for _, ti := range d.hotTouch[posB] {
		if stamp[ti] == e {
			continue
		}
		stamp[ti] = e
		value, valueEW := contribution(&d.touching[ti], m, d.table)
		accRaw -= value
		accEW -= valueEW
	}

	ca, cb := d.hotCoords[posA], d.hotCoords[posB]
	m[ca[0]][ca[1]], m[cb[0]][cb[1]] = m[cb[0]][cb[1]], m[ca[0]][ca[1]]

	*epoch++
	e = *epoch
	for _, ti := range d.hotTouch[posA] {
		stamp[ti] = e
		value, valueEW := contribution(&d.touching[ti], m, d.table)
		accRaw += value
		accEW += valueEW
	}
	for _, ti := range d.hotTouch[posB] {
		if stamp[ti] == e {
			continue
		}
		stamp[ti] = e
		value, valueEW := contribution(&d.touching[ti], m, d.table)
		accRaw += value
		accEW += valueEW
	}
	return accRaw, accEW
}

func (d *driver) monitor(start time.Time, done <-chan struct{}) {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			d.opts.Sink.OnProgress(d.count.Load(), d.total, time.Since(start))
		}
	}
}
