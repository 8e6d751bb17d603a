package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Write encodes the table as CSV. The header's first cell is empty and the
// first column of every record carries the row index, matching the layout
// Read expects back.
func Write(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)

	header := append([]string{""}, t.columns...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	record := make([]string, 1+len(t.columns))
	for i := range t.rows {
		record[0] = strconv.Itoa(t.index[i])
		for j, v := range t.rows[i] {
			record[j+1] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Read decodes a CSV stream produced by Write.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) < 1 {
		return nil, fmt.Errorf("empty header")
	}

	t := New(header[1:])
	values := make([]float64, len(header)-1)
	for row := 0; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", row, err)
		}
		index, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: bad index %q: %w", row, record[0], err)
		}
		for j, cell := range record[1:] {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: bad value %q: %w", row, header[j+1], cell, err)
			}
			values[j] = v
		}
		if err := t.Append(index, values); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// WriteFile writes the table to path as CSV.
func WriteFile(path string, t *Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := Write(f, t); err != nil {
		return err
	}
	return f.Close()
}

// ReadFile reads a table previously written with WriteFile.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return Read(f)
}
