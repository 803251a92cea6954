// Package iotable reads and writes cleaned catalog tables stored as
// CSV files with a header line.
package iotable

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mdverse/mddb/pkg/catalog"
)

// Row is one record of a table.
type Row struct {
	// Line is the line number of the record in the file, the header
	// is line 1.
	Line int
	// Err is set when the record has a wrong number of fields.
	Err error

	values []string
	index  map[string]int
}

// Get returns the value of a column, or an empty string for columns
// that are absent.
func (r Row) Get(col string) string {
	i, ok := r.index[col]
	if !ok || i >= len(r.values) {
		return ""
	}
	return r.values[i]
}

// Table is a cleaned table loaded in memory.
type Table struct {
	Layout catalog.Layout
	Path   string
	Header []string
	Rows   []Row
}

// Load reads the table of a layout from dir. Extra columns are kept,
// missing layout columns are an error.
func Load(dir string, layout catalog.Layout) (*Table, error) {
	path := filepath.Join(dir, layout.File())
	f, err := os.Open(path)
	if err != nil {
		return nil, SourceReadError(path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, SourceReadError(path, errors.New("file is empty"))
	}
	if err != nil {
		return nil, SourceReadError(path, err)
	}

	index := make(map[string]int, len(header))
	for i, v := range header {
		index[v] = i
	}

	var missing []string
	for _, col := range layout.Columns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, MissingColumnsError(path, missing)
	}

	res := &Table{Layout: layout, Path: path, Header: header}
	for {
		values, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, SourceReadError(path, err)
		}

		line, _ := r.FieldPos(0)
		row := Row{Line: line, values: values, index: index}
		if len(values) != len(header) {
			row.Err = fmt.Errorf("expected %d fields, got %d",
				len(header), len(values))
		}
		res.Rows = append(res.Rows, row)
	}
	return res, nil
}

// Write stores rows of a layout in dir. Every row must follow the
// column order of the layout.
func Write(dir string, layout catalog.Layout, rows [][]string) error {
	path := filepath.Join(dir, layout.File())
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return WriteError(path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return WriteError(path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err = w.Write(layout.Columns); err != nil {
		return WriteError(path, err)
	}
	if err = w.WriteAll(rows); err != nil {
		return WriteError(path, err)
	}
	if err = f.Close(); err != nil {
		return WriteError(path, err)
	}
	return nil
}
