package tables

import (
	"strings"
	"testing"

	"github.com/verte-zerg/perky/internal/fault"
)

func TestReadLayoutTable(t *testing.T) {
	input := `{"data": [[null, "lp", "lr"], ["li"]], "version": 1}`
	table, err := ReadLayoutTable(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadLayoutTable failed: %v", err)
	}
	if table.Present[0][0] {
		t.Fatalf("expected cell (0,0) absent")
	}
	if !table.Present[0][1] || table.Digits[0][1] != (Digit{HandLeft, FingerPinky}) {
		t.Fatalf("unexpected cell (0,1): %+v", table.Digits[0][1])
	}
	if !table.Present[1][0] || table.Digits[1][0] != (Digit{HandLeft, FingerIndex}) {
		t.Fatalf("unexpected cell (1,0): %+v", table.Digits[1][0])
	}
	// Padding: everything else absent.
	if table.Present[7][15] {
		t.Fatalf("expected padded cell absent")
	}
}

func TestReadLayoutTableRejectsBadDigit(t *testing.T) {
	input := `{"data": [["xx"]], "version": 1}`
	if _, err := ReadLayoutTable(strings.NewReader(input)); fault.KindOf(err) != fault.KindSchema {
		t.Fatalf("expected schema fault, got %v", err)
	}
}

func TestReadLayoutTableRejectsWrongVersion(t *testing.T) {
	input := `{"data": [["lp"]], "version": 2}`
	if _, err := ReadLayoutTable(strings.NewReader(input)); fault.KindOf(err) != fault.KindSchema {
		t.Fatalf("expected schema fault, got %v", err)
	}
}

func TestReadKeyTable(t *testing.T) {
	input := `{"data": [["a", 1, null, 2]], "version": 1}`
	table, err := ReadKeyTable(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadKeyTable failed: %v", err)
	}
	if table.Matrix[0][0] != 'a' || table.Matrix[0][1] != Tag1 || table.Matrix[0][2] != KeyAbsent || table.Matrix[0][3] != Tag2 {
		t.Fatalf("unexpected row: %v", table.Matrix[0][:4])
	}
}

func TestReadKeyTableRejectsReservedAndBadCells(t *testing.T) {
	for _, input := range []string{
		`{"data": [[""]], "version": 1}`,
		`{"data": [[4]], "version": 1}`,
		`{"data": [["ab"]], "version": 1}`,
		`{"data": [[true]], "version": 1}`,
		`{"data": [["\u0001"]], "version": 1}`,
	} {
		if _, err := ReadKeyTable(strings.NewReader(input)); fault.KindOf(err) != fault.KindSchema {
			t.Fatalf("input %s: expected schema fault, got %v", input, err)
		}
	}
}

func TestRegionsRowMajor(t *testing.T) {
	input := `{"data": [[2, 1], [1, null, 2]], "version": 1}`
	table, err := ReadKeyTable(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadKeyTable failed: %v", err)
	}
	regions := table.Regions()
	if len(regions[0]) != 2 || regions[0][0] != [2]int{0, 1} || regions[0][1] != [2]int{1, 0} {
		t.Fatalf("unexpected region 1: %v", regions[0])
	}
	if len(regions[1]) != 2 || regions[1][0] != [2]int{0, 0} || regions[1][1] != [2]int{1, 2} {
		t.Fatalf("unexpected region 2: %v", regions[1])
	}
	if len(regions[2]) != 0 {
		t.Fatalf("unexpected region 3: %v", regions[2])
	}
}

func TestCheckAgainstLayout(t *testing.T) {
	layout, err := ReadLayoutTable(strings.NewReader(`{"data": [["lp", "lr"]], "version": 1}`))
	if err != nil {
		t.Fatalf("ReadLayoutTable failed: %v", err)
	}
	keys, err := ReadKeyTable(strings.NewReader(`{"data": [["a", "b"]], "version": 1}`))
	if err != nil {
		t.Fatalf("ReadKeyTable failed: %v", err)
	}
	if err := keys.CheckAgainstLayout(layout); err != nil {
		t.Fatalf("expected matching tables, got %v", err)
	}

	mismatched, err := ReadKeyTable(strings.NewReader(`{"data": [["a"]], "version": 1}`))
	if err != nil {
		t.Fatalf("ReadKeyTable failed: %v", err)
	}
	if err := mismatched.CheckAgainstLayout(layout); fault.KindOf(err) != fault.KindStructural {
		t.Fatalf("expected structural fault, got %v", err)
	}
}
