package metadata

import (
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// mergeKeys are the join-key columns tried in order when merging.
var mergeKeys = []string{"filename", "rg_number"}

// nullValue fills merge misses, matching the convention of the existing
// topic-model metadata files.
const nullValue = "NULL"

// MergeResult reports the outcome of a column merge.
type MergeResult struct {
	Table   *Table
	Key     string
	Merged  int // rows that found a source value
	Missing int // rows filled with NULL
	Renamed string // target column renamed to avoid a conflict, "" if none
}

// MergeColumn left-joins column from source into target on the first join
// key present in both tables. A pre-existing column of the same name in
// the target is renamed "<column>_orig" rather than clobbered.
func MergeColumn(target, source *Table, column string) (*MergeResult, error) {
	srcCol := source.ColumnIndex(column)
	if srcCol < 0 {
		return nil, eris.Errorf("metadata: source has no %q column", column)
	}

	key := ""
	for _, cand := range mergeKeys {
		if target.ColumnIndex(cand) >= 0 && source.ColumnIndex(cand) >= 0 {
			key = cand
			break
		}
	}
	if key == "" {
		return nil, eris.Errorf(
			"metadata: no common join key, target [%s] vs source [%s]",
			strings.Join(target.Header, ", "), strings.Join(source.Header, ", "),
		)
	}

	res := &MergeResult{Key: key}

	// Rename a conflicting target column before appending the merged one.
	header := make([]string, len(target.Header))
	copy(header, target.Header)
	if idx := target.ColumnIndex(column); idx >= 0 {
		header[idx] = column + "_orig"
		res.Renamed = header[idx]
	}
	header = append(header, column)

	srcKey := source.ColumnIndex(key)
	lookup := make(map[string]string, len(source.Rows))
	for _, row := range source.Rows {
		lookup[row[srcKey]] = row[srcCol]
	}

	tgtKey := target.ColumnIndex(key)
	merged := &Table{Header: header}
	for _, row := range target.Rows {
		out := make([]string, len(row), len(row)+1)
		copy(out, row)

		val, ok := lookup[row[tgtKey]]
		if !ok || val == "" {
			val = nullValue
			res.Missing++
		} else {
			res.Merged++
		}
		merged.Rows = append(merged.Rows, append(out, val))
	}
	res.Table = merged

	zap.L().Info("merged column",
		zap.String("column", column),
		zap.String("key", key),
		zap.Int("merged", res.Merged),
		zap.Int("missing", res.Missing),
	)
	return res, nil
}
