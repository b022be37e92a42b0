package metadata

import (
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// ColumnStats summarizes semicolon-delimited subject terms in one column.
type ColumnStats struct {
	Column            string
	TotalRows         int
	RowsWithTopics    int
	RowsWithoutTopics int
	TotalTopics       int
	AverageNonZero    float64
	MinTopics         int
	MaxTopics         int
	MedianNonZero     float64
}

// CountTopics counts the subject terms in a "; "-joined field: semicolons
// plus one, zero for a blank field.
func CountTopics(field string) int {
	if strings.TrimSpace(field) == "" {
		return 0
	}
	return strings.Count(field, ";") + 1
}

// SubjectColumns returns the columns holding subject/topical terms.
func (t *Table) SubjectColumns() []string {
	var cols []string
	for _, h := range t.Header {
		lower := strings.ToLower(h)
		if strings.Contains(lower, "topical") || strings.Contains(lower, "subject") {
			cols = append(cols, h)
		}
	}
	return cols
}

// TopicStats computes per-column term statistics over every subject column.
func TopicStats(t *Table) ([]ColumnStats, error) {
	cols := t.SubjectColumns()
	if len(cols) == 0 {
		return nil, eris.Errorf("metadata: no subject columns in [%s]", strings.Join(t.Header, ", "))
	}

	var out []ColumnStats
	for _, col := range cols {
		idx := t.ColumnIndex(col)

		stats := ColumnStats{Column: col, TotalRows: len(t.Rows)}
		var counts, nonZero []int
		for _, row := range t.Rows {
			c := CountTopics(row[idx])
			counts = append(counts, c)
			stats.TotalTopics += c
			if c > 0 {
				nonZero = append(nonZero, c)
			}
		}

		stats.RowsWithTopics = len(nonZero)
		stats.RowsWithoutTopics = stats.TotalRows - stats.RowsWithTopics
		if len(nonZero) > 0 {
			stats.AverageNonZero = float64(stats.TotalTopics) / float64(len(nonZero))
			sort.Ints(nonZero)
			mid := len(nonZero) / 2
			if len(nonZero)%2 == 0 {
				stats.MedianNonZero = float64(nonZero[mid-1]+nonZero[mid]) / 2
			} else {
				stats.MedianNonZero = float64(nonZero[mid])
			}
		}
		if len(counts) > 0 {
			sort.Ints(counts)
			stats.MinTopics = counts[0]
			stats.MaxTopics = counts[len(counts)-1]
		}

		out = append(out, stats)
	}
	return out, nil
}

// WithTopicCounts returns a copy of the table with a "<col>_topic_count"
// column appended per subject column, for per-row inspection.
func WithTopicCounts(t *Table) (*Table, error) {
	cols := t.SubjectColumns()
	if len(cols) == 0 {
		return nil, eris.New("metadata: no subject columns")
	}

	header := make([]string, len(t.Header))
	copy(header, t.Header)
	for _, col := range cols {
		header = append(header, col+"_topic_count")
	}

	out := &Table{Header: header}
	for _, row := range t.Rows {
		extended := make([]string, len(row), len(header))
		copy(extended, row)
		for _, col := range cols {
			extended = append(extended, strconv.Itoa(CountTopics(row[t.ColumnIndex(col)])))
		}
		out.Rows = append(out.Rows, extended)
	}
	return out, nil
}

// WriteXLSX writes the table as a single-sheet XLSX workbook.
func (t *Table) WriteXLSX(path, sheetName string) error {
	if sheetName == "" {
		sheetName = "metadata"
	}

	wb := xlsx.NewFile()
	sheet, err := wb.AddSheet(sheetName)
	if err != nil {
		return eris.Wrap(err, "metadata: add sheet")
	}

	headerRow := sheet.AddRow()
	for _, h := range t.Header {
		headerRow.AddCell().SetString(h)
	}
	for _, row := range t.Rows {
		r := sheet.AddRow()
		for _, cell := range row {
			r.AddCell().SetString(cell)
		}
	}

	return eris.Wrapf(wb.Save(path), "metadata: save %s", path)
}
