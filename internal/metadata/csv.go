// Package metadata implements the CSV bookkeeping utilities: filtering
// rows against a transcript folder, merging columns across files, seeded
// sampling, and subject-column statistics.
package metadata

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
)

// Table is an in-memory CSV with a header row. Metadata files top out in
// the low thousands of rows, so whole-file loading is fine.
type Table struct {
	Header []string
	Rows   [][]string
}

// filenameColumns are the column names recognized as the transcript
// filename key, in preference order.
var filenameColumns = []string{"filename", "file_name", "doc_id", "document_id"}

// ReadTable loads a CSV file with a header row.
func ReadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "metadata: open %s", path)
	}
	defer f.Close()

	t, err := ReadTableFrom(f)
	if err != nil {
		return nil, eris.Wrapf(err, "metadata: read %s", path)
	}
	return t, nil
}

// ReadTableFrom loads CSV data with a header row from a reader.
func ReadTableFrom(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // allow ragged rows

	header, err := reader.Read()
	if err == io.EOF {
		return nil, eris.New("empty csv")
	}
	if err != nil {
		return nil, eris.Wrap(err, "read header")
	}

	t := &Table{Header: header}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "read row")
		}
		// Pad ragged rows so column indexing stays safe.
		for len(record) < len(header) {
			record = append(record, "")
		}
		t.Rows = append(t.Rows, record)
	}
	return t, nil
}

// WriteTable writes the table as CSV to path.
func (t *Table) WriteTable(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "metadata: create %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Header); err != nil {
		return eris.Wrap(err, "metadata: write header")
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return eris.Wrap(err, "metadata: write rows")
	}
	w.Flush()
	return eris.Wrap(w.Error(), "metadata: flush")
}

// ColumnIndex returns the index of a column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// FilenameColumn finds the transcript-filename column, trying the common
// variants in order. Returns an error naming the available columns when
// none matches.
func (t *Table) FilenameColumn() (int, error) {
	for _, cand := range filenameColumns {
		if idx := t.ColumnIndex(cand); idx >= 0 {
			return idx, nil
		}
	}
	return -1, eris.Errorf(
		"metadata: no filename column found, expected one of [%s], have [%s]",
		strings.Join(filenameColumns, ", "), strings.Join(t.Header, ", "),
	)
}

// Get returns a cell by row index and column name, "" when missing.
func (t *Table) Get(row int, column string) string {
	idx := t.ColumnIndex(column)
	if idx < 0 || row < 0 || row >= len(t.Rows) || idx >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][idx]
}
