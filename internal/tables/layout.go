package tables

import (
	"io"

	"github.com/verte-zerg/perky/internal/fault"
)

// LayoutTable is the fixed grid assigning a digit to each physical key.
type LayoutTable struct {
	Digits  [Rows][Cols]Digit
	Present [Rows][Cols]bool
}

// ReadLayoutTable decodes a layout table from its JSON envelope.
func ReadLayoutTable(r io.Reader) (*LayoutTable, error) {
	env, err := readEnvelope(r)
	if err != nil {
		return nil, err
	}
	var table LayoutTable
	for ri, row := range env.Data {
		for ci, cell := range row {
			if cell == nil {
				continue
			}
			s, ok := cell.(string)
			if !ok {
				return nil, cellError(ri, ci, fault.New(fault.KindSchema,
					"expected a string of two ASCII characters"))
			}
			digit, err := ParseDigit(s)
			if err != nil {
				return nil, cellError(ri, ci, err)
			}
			table.Digits[ri][ci] = digit
			table.Present[ri][ci] = true
		}
	}
	return &table, nil
}

// ReadLayoutTableFromPath reads a layout table file.
func ReadLayoutTableFromPath(path string) (*LayoutTable, error) {
	var table *LayoutTable
	err := withTableFile(path, func(r io.Reader) error {
		var rerr error
		table, rerr = ReadLayoutTable(r)
		return rerr
	})
	return table, err
}
