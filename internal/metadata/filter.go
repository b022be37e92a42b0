package metadata

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// FilterResult reports what a folder filter kept and dropped.
type FilterResult struct {
	Table     *Table
	Matched   int
	Removed   int
	Unmatched []string // files in the folder with no metadata row
}

// FilterByFolder keeps only metadata rows whose filename exists as a .txt
// file in dir. The returned result also lists folder files that have no
// metadata row, which usually signals a scrape gap.
func FilterByFolder(t *Table, dir string) (*FilterResult, error) {
	fnCol, err := t.FilenameColumn()
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "metadata: read dir %s", dir)
	}

	available := make(map[string]bool)
	for _, entry := range entries {
		if !entry.IsDir() && strings.EqualFold(filepath.Ext(entry.Name()), ".txt") {
			available[entry.Name()] = true
		}
	}

	filtered := &Table{Header: t.Header}
	matched := make(map[string]bool)
	for _, row := range t.Rows {
		name := row[fnCol]
		if available[name] {
			filtered.Rows = append(filtered.Rows, row)
			matched[name] = true
		}
	}

	var unmatched []string
	for name := range available {
		if !matched[name] {
			unmatched = append(unmatched, name)
		}
	}
	sort.Strings(unmatched)

	res := &FilterResult{
		Table:     filtered,
		Matched:   len(filtered.Rows),
		Removed:   len(t.Rows) - len(filtered.Rows),
		Unmatched: unmatched,
	}

	zap.L().Info("filtered metadata",
		zap.Int("matched", res.Matched),
		zap.Int("removed", res.Removed),
		zap.Int("files_without_metadata", len(res.Unmatched)),
	)
	return res, nil
}
