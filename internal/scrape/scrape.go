// Package scrape joins transcript files with their USHMM catalog
// records and writes the interview metadata CSV.
package scrape

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/oral-history-lab/transcript-cli/internal/metadata"
	"github.com/oral-history-lab/transcript-cli/internal/model"
	"github.com/oral-history-lab/transcript-cli/internal/store"
	"github.com/oral-history-lab/transcript-cli/pkg/ushmm"
)

// Scraper fetches catalog metadata for a folder of transcripts.
// RefreshCache skips cached records on read but still writes fresh
// lookups back, replacing stale entries.
type Scraper struct {
	Client       ushmm.Client
	Store        store.Store
	RefreshCache bool
}

// Result summarizes a scrape run.
type Result struct {
	Files    int
	Found    int
	NotFound int
	Cached   int
	Failed   int
	Rows     []model.MetadataRow
}

// Run looks up every .txt file in inputDir and writes one CSV row per
// file to outputCSV. Lookups that fail or find no catalog record still
// produce a row with empty metadata fields, so the output always covers
// the whole folder. Cached records skip the catalog entirely.
func (s *Scraper) Run(ctx context.Context, inputDir, outputCSV string) (*Result, error) {
	transcripts, err := listTranscripts(inputDir)
	if err != nil {
		return nil, err
	}
	if len(transcripts) == 0 {
		return nil, eris.Errorf("scrape: no .txt files in %s", inputDir)
	}

	res := &Result{Files: len(transcripts)}
	zap.L().Info("starting catalog scrape", zap.Int("files", res.Files))

	for i, tr := range transcripts {
		if err := ctx.Err(); err != nil {
			return res, eris.Wrap(err, "scrape: interrupted")
		}

		row := model.MetadataRow{
			Filename: tr.Filename,
			RGNumber: tr.RGNumber,
		}
		if row.RGNumber == "" {
			zap.L().Warn("no RG number in filename", zap.String("filename", tr.Filename))
			res.Failed++
			res.Rows = append(res.Rows, row)
			continue
		}

		record, cached, err := s.lookup(ctx, row.RGNumber)
		switch {
		case err != nil:
			zap.L().Warn("catalog lookup failed",
				zap.String("rg_number", row.RGNumber),
				zap.Error(err),
			)
			res.Failed++
		case record == nil:
			zap.L().Info("no catalog record",
				zap.String("rg_number", row.RGNumber),
			)
			res.NotFound++
		default:
			row.Record = *record
			res.Found++
			if cached {
				res.Cached++
			}
		}
		res.Rows = append(res.Rows, row)

		if (i+1)%50 == 0 {
			zap.L().Info("scrape progress",
				zap.Int("done", i+1),
				zap.Int("total", res.Files),
			)
		}
	}

	if err := writeMetadataCSV(outputCSV, res.Rows); err != nil {
		return res, err
	}

	zap.L().Info("catalog scrape complete",
		zap.Int("files", res.Files),
		zap.Int("found", res.Found),
		zap.Int("cached", res.Cached),
		zap.Int("not_found", res.NotFound),
		zap.Int("failed", res.Failed),
		zap.String("output", outputCSV),
	)
	return res, nil
}

// lookup serves a record from the store when possible, otherwise runs
// the two-step catalog search and caches the result. A (nil, false, nil)
// return means the catalog has no record for this RG number.
func (s *Scraper) lookup(ctx context.Context, rgNumber string) (*model.CatalogRecord, bool, error) {
	if s.Store != nil && !s.RefreshCache {
		record, found, err := s.Store.GetCachedRecord(ctx, rgNumber)
		if err != nil {
			zap.L().Warn("cache read failed", zap.String("rg_number", rgNumber), zap.Error(err))
		} else if found {
			return record, true, nil
		}
	}

	irn, found, err := s.Client.SearchIRN(ctx, rgNumber)
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}

	record, err := s.Client.Record(ctx, irn)
	if err != nil {
		return nil, false, err
	}

	if s.Store != nil {
		if err := s.Store.SetCachedRecord(ctx, rgNumber, irn, record); err != nil {
			zap.L().Warn("cache write failed", zap.String("rg_number", rgNumber), zap.Error(err))
		}
	}
	return record, false, nil
}

func writeMetadataCSV(path string, rows []model.MetadataRow) error {
	table := &metadata.Table{Header: model.MetadataHeader}
	for _, row := range rows {
		table.Rows = append(table.Rows, row.CSVRecord())
	}
	return table.WriteTable(path)
}

func listTranscripts(dir string) ([]model.Transcript, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "scrape: read dir %s", dir)
	}
	var transcripts []model.Transcript
	for _, entry := range entries {
		if !entry.IsDir() && strings.EqualFold(filepath.Ext(entry.Name()), ".txt") {
			transcripts = append(transcripts, model.NewTranscript(filepath.Join(dir, entry.Name()), entry.Name()))
		}
	}
	sort.Slice(transcripts, func(i, j int) bool {
		return transcripts[i].Filename < transcripts[j].Filename
	})
	return transcripts, nil
}
