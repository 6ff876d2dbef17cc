// Package ngram loads n-gram frequency tables from TSV files into
// dense arrays keyed by fixed-width byte strings.
package ngram

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/verte-zerg/perky/internal/fault"
)

// Dense table sizes per arity.
const (
	UnigramSize = 1 << 8
	BigramSize  = 1 << 16
	TrigramSize = 1 << 24
)

// Table maps an n-gram key index to its count. The index of an n-gram
// is its bytes packed big-endian, so lookup is a single slice access.
type Table []uint64

// Sum returns the total count across the table.
func (t Table) Sum() uint64 {
	var sum uint64
	for _, v := range t {
		sum += v
	}
	return sum
}

// Set bundles the three frequency tables with their cached sums, shared
// read-only across scoring workers.
type Set struct {
	Unigram Table
	Bigram  Table
	Trigram Table

	UnigramSum uint64
	BigramSum  uint64
	TrigramSum uint64
}

// NewSet caches per-arity sums for percentage denominators.
func NewSet(unigram, bigram, trigram Table) *Set {
	return &Set{
		Unigram:    unigram,
		Bigram:     bigram,
		Trigram:    trigram,
		UnigramSum: unigram.Sum(),
		BigramSum:  bigram.Sum(),
		TrigramSum: trigram.Sum(),
	}
}

// SumForArity returns the cached table sum of the given arity.
func (s *Set) SumForArity(arity int) uint64 {
	switch arity {
	case 1:
		return s.UnigramSum
	case 2:
		return s.BigramSum
	case 3:
		return s.TrigramSum
	}
	return 0
}

// TableForArity returns the table of the given arity.
func (s *Set) TableForArity(arity int) Table {
	switch arity {
	case 1:
		return s.Unigram
	case 2:
		return s.Bigram
	case 3:
		return s.Trigram
	}
	return nil
}

// ReadUnigramTable reads a 1-gram TSV table.
func ReadUnigramTable(r io.Reader) (Table, error) {
	return readTable(r, 1, UnigramSize)
}

// ReadBigramTable reads a 2-gram TSV table.
func ReadBigramTable(r io.Reader) (Table, error) {
	return readTable(r, 2, BigramSize)
}

// ReadTrigramTable reads a 3-gram TSV table.
func ReadTrigramTable(r io.Reader) (Table, error) {
	return readTable(r, 3, TrigramSize)
}

// ReadUnigramTableFromPath reads a 1-gram TSV file.
func ReadUnigramTableFromPath(path string) (Table, error) {
	return readTableFromPath(path, ReadUnigramTable)
}

// ReadBigramTableFromPath reads a 2-gram TSV file.
func ReadBigramTableFromPath(path string) (Table, error) {
	return readTableFromPath(path, ReadBigramTable)
}

// ReadTrigramTableFromPath reads a 3-gram TSV file.
func ReadTrigramTableFromPath(path string) (Table, error) {
	return readTableFromPath(path, ReadTrigramTable)
}

func readTableFromPath(path string, read func(io.Reader) (Table, error)) (Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open n-gram table: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for a read-only table file.
			_ = cerr
		}
	}()
	table, err := read(bufio.NewReader(file))
	if err != nil {
		return nil, fmt.Errorf("failed to load %q: %w", path, err)
	}
	return table, nil
}

// permittedByte reports whether a key byte may appear in an n-gram: every
// ASCII byte is allowed except the reserved control bytes SOH, STX, and
// ETX; anything outside ASCII is not.
func permittedByte(b byte) bool {
	return b == 0 || (b >= 0x04 && b <= 0x7f)
}

func readTable(r io.Reader, arity, size int) (Table, error) {
	table := make(Table, size)
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if text == "" {
			continue
		}
		columns := strings.SplitN(text, "\t", 3)
		if len(columns) < 2 {
			return nil, fault.New(fault.KindTable,
				"line %d: expected at least two tab-separated columns", line)
		}
		key, err := Unescape(columns[0])
		if err != nil {
			return nil, fault.Wrap(fault.KindTable, fmt.Errorf("line %d: %w", line, err))
		}
		if !permittedKey(key) {
			// N-grams with reserved or non-ASCII bytes are dropped.
			continue
		}
		if len(key) != arity {
			return nil, fault.New(fault.KindTable,
				"line %d: invalid %d-gram key %q", line, arity, columns[0])
		}
		value, err := strconv.ParseUint(columns[1], 10, 64)
		if err != nil {
			return nil, fault.Wrap(fault.KindTable, fmt.Errorf(
				"line %d: invalid value %q for key %q: %w", line, columns[1], columns[0], err))
		}
		index := keyIndex(key)
		if table[index] > math.MaxUint64-value {
			return nil, fault.New(fault.KindTable,
				"line %d: count overflow for key %q", line, columns[0])
		}
		table[index] += value
	}
	if err := scanner.Err(); err != nil {
		return nil, fault.Wrap(fault.KindTable, fmt.Errorf("failed to read table: %w", err))
	}
	return table, nil
}

func permittedKey(key string) bool {
	for i := 0; i < len(key); i++ {
		if !permittedByte(key[i]) {
			return false
		}
	}
	return true
}

func keyIndex(key string) int {
	index := 0
	for i := 0; i < len(key); i++ {
		index = index<<8 | int(key[i])
	}
	return index
}
