package ngram

import (
	"strings"
	"testing"

	"github.com/verte-zerg/perky/internal/fault"
)

func TestReadUnigramTable(t *testing.T) {
	input := "a\t10\nb\t20\textra-column\n"
	table, err := ReadUnigramTable(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadUnigramTable failed: %v", err)
	}
	if table['a'] != 10 || table['b'] != 20 {
		t.Fatalf("unexpected counts: a=%d b=%d", table['a'], table['b'])
	}
	if table.Sum() != 30 {
		t.Fatalf("expected sum 30, got %d", table.Sum())
	}
}

func TestReadBigramTableDuplicatesSum(t *testing.T) {
	input := "ab\t5\nab\t7\n"
	table, err := ReadBigramTable(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadBigramTable failed: %v", err)
	}
	index := int('a')<<8 | int('b')
	if table[index] != 12 {
		t.Fatalf("expected duplicate keys to sum to 12, got %d", table[index])
	}
}

func TestReadTableSkipsNonASCII(t *testing.T) {
	input := "\xc3\xa9\t5\na\t1\n"
	table, err := ReadUnigramTable(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadUnigramTable failed: %v", err)
	}
	if table.Sum() != 1 {
		t.Fatalf("expected non-ASCII line skipped, sum=%d", table.Sum())
	}
}

func TestReadTableEscapes(t *testing.T) {
	input := "\\t\t3\n\\x20\t4\n"
	table, err := ReadUnigramTable(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadUnigramTable failed: %v", err)
	}
	if table['\t'] != 3 || table[' '] != 4 {
		t.Fatalf("unexpected counts: tab=%d space=%d", table['\t'], table[' '])
	}
}

func TestReadTableErrors(t *testing.T) {
	cases := []string{
		"a\n",                       // missing value column
		"ab\t1\n",                   // wrong arity for unigram
		"a\t99999999999999999999\n", // count overflow
		"a\tx\n",                    // non-numeric value
	}
	for _, input := range cases {
		if _, err := ReadUnigramTable(strings.NewReader(input)); fault.KindOf(err) != fault.KindTable {
			t.Fatalf("input %q: expected table fault, got %v", input, err)
		}
	}
}

func TestUnescape(t *testing.T) {
	got, err := Unescape(`a\0b\\c\nd\re\tf\x41`)
	if err != nil {
		t.Fatalf("Unescape failed: %v", err)
	}
	want := "a\x00b\\c\nd\re\tfA"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestUnescapeErrors(t *testing.T) {
	for _, input := range []string{`\`, `\q`, `\x4`, `\xzz`, `\xff`} {
		if _, err := Unescape(input); err == nil {
			t.Fatalf("input %q: expected error", input)
		}
	}
}
