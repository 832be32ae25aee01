package data

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/swapneelpatil08/DiamondPricePrediction/pkg/errs"
)

// Table is an ordered set of raw records. Cells are kept as the strings read
// from disk; parsing is left to the transform so missing values survive.
// Index holds each row's position in the source file and identifies the record.
type Table struct {
	Columns []string
	Rows    [][]string
	Index   []int
}

// NewTable builds a table and assigns positional indices 0..n-1.
func NewTable(columns []string, rows [][]string) *Table {
	idx := make([]int, len(rows))
	for i := range idx {
		idx[i] = i
	}
	return &Table{Columns: columns, Rows: rows, Index: idx}
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// ColumnIndex returns the position of a named column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, c := range t.Columns {
		if c == name {
			return i, true
		}
	}
	return -1, false
}

// Column returns a copy of the named column's cells.
func (t *Table) Column(name string) ([]string, error) {
	j, ok := t.ColumnIndex(name)
	if !ok {
		return nil, errs.Configuration("column not found in table").WithColumn(name)
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		if j < len(row) {
			out[i] = row[j]
		}
	}
	return out, nil
}

// Select returns the named columns as a row-major slice of cells.
func (t *Table) Select(names []string) ([][]string, error) {
	pos := make([]int, len(names))
	for k, name := range names {
		j, ok := t.ColumnIndex(name)
		if !ok {
			return nil, errs.Configuration("column not found in table").WithColumn(name)
		}
		pos[k] = j
	}
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		cells := make([]string, len(pos))
		for k, j := range pos {
			if j < len(row) {
				cells[k] = row[j]
			}
		}
		out[i] = cells
	}
	return out, nil
}

// Subset returns the rows at the given positions, in that order.
// Row slices are shared with t; tables are treated as immutable.
func (t *Table) Subset(positions []int) *Table {
	out := &Table{
		Columns: t.Columns,
		Rows:    make([][]string, len(positions)),
		Index:   make([]int, len(positions)),
	}
	for k, p := range positions {
		out.Rows[k] = t.Rows[p]
		if t.Index != nil {
			out.Index[k] = t.Index[p]
		} else {
			out.Index[k] = p
		}
	}
	return out
}

// ReadCSV loads a CSV file with a header row into a Table.
func ReadCSV(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errs.IO(err, path, "open table")
	}
	defer file.Close()

	t, err := ReadCSVFrom(bufio.NewReader(file))
	if err != nil {
		var e *errs.Error
		if errors.As(err, &e) {
			e.Path = path
		}
		return nil, err
	}
	return t, nil
}

// ReadCSVFrom parses a header row followed by records.
func ReadCSVFrom(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err == io.EOF {
		return nil, errs.Configuration("table is empty, no header row")
	}
	if err != nil {
		return nil, errs.Wrap(errs.KindIO, err, "read header")
	}
	columns := append([]string(nil), header...)

	var rows [][]string
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errs.Wrap(errs.KindIO, err, "read record %d", len(rows)+1)
		}
		rows = append(rows, rec)
	}
	return NewTable(columns, rows), nil
}

// WriteCSV writes the table with a header row, creating parent directories.
func WriteCSV(path string, t *Table) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errs.IO(err, dir, "create directory")
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return errs.IO(err, path, "create table file")
	}

	if err := WriteCSVTo(file, t); err != nil {
		file.Close()
		return errs.IO(err, path, "write table")
	}
	if err := file.Close(); err != nil {
		return errs.IO(err, path, "close table file")
	}
	return nil
}

// WriteCSVTo writes the table with a header row to w.
func WriteCSVTo(w io.Writer, t *Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Columns); err != nil {
		return err
	}
	return writer.WriteAll(t.Rows)
}

// String summarises the table shape.
func (t *Table) String() string {
	return fmt.Sprintf("Table(%d rows x %d columns)", len(t.Rows), len(t.Columns))
}
