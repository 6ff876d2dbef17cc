package tables

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/verte-zerg/perky/internal/fault"
)

// Grid dimensions shared by layout and key tables. Shorter input rows
// and tables are padded with absent cells.
const (
	Rows = 8
	Cols = 16
)

const expectedVersion = 1

type envelope struct {
	Data    [][]any `json:"data"`
	Version *uint64 `json:"version"`
}

func readEnvelope(r io.Reader) (*envelope, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var env envelope
	if err := dec.Decode(&env); err != nil {
		return nil, fault.Wrap(fault.KindSchema, fmt.Errorf("failed to decode table: %w", err))
	}
	if env.Version == nil {
		return nil, fault.New(fault.KindSchema, "missing 'version' field")
	}
	if *env.Version != expectedVersion {
		return nil, fault.New(fault.KindSchema, "unsupported version: %d", *env.Version)
	}
	if env.Data == nil {
		return nil, fault.New(fault.KindSchema, "missing 'data' field")
	}
	if len(env.Data) > Rows {
		return nil, fault.New(fault.KindSchema, "table has too many rows (maximum is %d)", Rows)
	}
	for r, row := range env.Data {
		if len(row) > Cols {
			return nil, fault.New(fault.KindSchema, "row %d has too many columns (maximum is %d)", r, Cols)
		}
	}
	return &env, nil
}

func withTableFile(path string, read func(io.Reader) error) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open table file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for a read-only table file.
			_ = cerr
		}
	}()
	if err := read(file); err != nil {
		return fmt.Errorf("failed to load %q: %w", path, err)
	}
	return nil
}
