package tables

import (
	"encoding/json"
	"io"

	"github.com/verte-zerg/perky/internal/fault"
)

// Key cell byte values. 0 marks an absent cell; the reserved control
// bytes 1-3 double as the placeholder tags, which is safe because those
// bytes can never carry an assignable character.
const (
	KeyAbsent byte = 0
	Tag1      byte = 1
	Tag2      byte = 2
	Tag3      byte = 3
)

// KeyTable is the fixed grid assigning a character or placeholder tag
// to each physical key.
type KeyTable struct {
	Matrix [Rows][Cols]byte
}

// ReadKeyTable decodes a key table from its JSON envelope. Cells are
// null, a single ASCII character, or a placeholder tag 1-3.
func ReadKeyTable(r io.Reader) (*KeyTable, error) {
	env, err := readEnvelope(r)
	if err != nil {
		return nil, err
	}
	var table KeyTable
	for ri, row := range env.Data {
		for ci, cell := range row {
			b, err := parseKeyCell(cell)
			if err != nil {
				return nil, cellError(ri, ci, err)
			}
			table.Matrix[ri][ci] = b
		}
	}
	return &table, nil
}

// ReadKeyTableFromPath reads a key table file.
func ReadKeyTableFromPath(path string) (*KeyTable, error) {
	var table *KeyTable
	err := withTableFile(path, func(r io.Reader) error {
		var rerr error
		table, rerr = ReadKeyTable(r)
		return rerr
	})
	return table, err
}

func parseKeyCell(cell any) (byte, error) {
	switch v := cell.(type) {
	case nil:
		return KeyAbsent, nil
	case json.Number:
		n, err := v.Int64()
		if err != nil || n < 1 || n > 3 {
			return 0, fault.New(fault.KindSchema,
				"invalid key number: expected 1, 2, or 3")
		}
		return byte(n), nil
	case string:
		if len(v) != 1 || v[0] > 0x7f {
			return 0, fault.New(fault.KindSchema,
				"invalid key string %q: expected a single ASCII character", v)
		}
		if v[0] >= 0x01 && v[0] <= 0x03 {
			return 0, fault.New(fault.KindSchema,
				"invalid key string: the control characters SOH, STX, and ETX are reserved")
		}
		return v[0], nil
	default:
		return 0, fault.New(fault.KindSchema,
			"invalid type: expected 1, 2, 3, or a string of a single ASCII character")
	}
}

// Regions returns, for each placeholder tag, the row-major list of cell
// coordinates carrying that tag.
func (t *KeyTable) Regions() [3][][2]int {
	var regions [3][][2]int
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			switch t.Matrix[r][c] {
			case Tag1:
				regions[0] = append(regions[0], [2]int{r, c})
			case Tag2:
				regions[1] = append(regions[1], [2]int{r, c})
			case Tag3:
				regions[2] = append(regions[2], [2]int{r, c})
			}
		}
	}
	return regions
}

// CheckAgainstLayout enforces the structural invariant that a layout
// cell is present exactly where a key cell is present.
func (t *KeyTable) CheckAgainstLayout(layout *LayoutTable) error {
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			keyPresent := t.Matrix[r][c] != KeyAbsent
			if keyPresent != layout.Present[r][c] {
				return fault.New(fault.KindStructural,
					"layout/key cell presence mismatch at (%d, %d)", r, c)
			}
		}
	}
	return nil
}
