package permute

import "math"

// factorial saturates at MaxUint64 so region products stay comparable.
func factorial(n int) uint64 {
	result := uint64(1)
	for i := uint64(2); i <= uint64(n); i++ {
		if result > math.MaxUint64/i {
			return math.MaxUint64
		}
		result *= i
	}
	return result
}

// unrank writes the permutation of input at the given lexicographic
// index into output using the factorial number system. Both slices must
// have the same length and index must be below len(input)!.
func unrank(index uint64, input, output []byte) {
	n := len(input)
	if n == 0 {
		return
	}
	available := make([]byte, n)
	copy(available, input)
	f := factorial(n - 1)
	remaining := n
	for i := 0; i < n; i++ {
		pos := int(index / f)
		index %= f
		output[i] = available[pos]
		copy(available[pos:], available[pos+1:remaining])
		remaining--
		if remaining > 1 {
			f /= uint64(remaining)
		}
	}
}

// heapState drives Heap's algorithm over the suffix positions
// [prefix, n) of a buffer, yielding one swap per step.
type heapState struct {
	counters []int
	prefix   int
	i        int
}

func newHeapState(prefix, n int) *heapState {
	return &heapState{
		counters: make([]int, n-prefix),
		prefix:   prefix,
	}
}

// next returns the positions to swap for the next permutation, or
// ok=false when the suffix arrangements are exhausted. The first
// arrangement is the buffer as-is; next is called between candidates.
func (h *heapState) next() (int, int, bool) {
	for h.i < len(h.counters) {
		if h.counters[h.i] < h.i {
			a := 0
			if h.i%2 != 0 {
				a = h.counters[h.i]
			}
			h.counters[h.i]++
			swapA := h.prefix + a
			swapB := h.prefix + h.i
			h.i = 0
			return swapA, swapB, true
		}
		h.counters[h.i] = 0
		h.i++
	}
	return 0, 0, false
}
