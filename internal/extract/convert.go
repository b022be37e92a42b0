package extract

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ConvertResult summarizes a batch conversion.
type ConvertResult struct {
	Converted int
	Failed    int
}

// ConvertTree converts every *.pdf under inRoot to a *.txt under outRoot,
// mirroring the directory structure. Individual file failures are logged
// and counted, not fatal. Workers bounds file-level concurrency.
func ConvertTree(ctx context.Context, ex Extractor, inRoot, outRoot string, workers int) (ConvertResult, error) {
	if workers <= 0 {
		workers = 1
	}

	var pdfs []string
	err := filepath.WalkDir(inRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".pdf") {
			pdfs = append(pdfs, path)
		}
		return nil
	})
	if err != nil {
		return ConvertResult{}, eris.Wrapf(err, "extract: walk %s", inRoot)
	}
	if len(pdfs) == 0 {
		return ConvertResult{}, eris.Errorf("extract: no PDFs found in %s", inRoot)
	}

	zap.L().Info("converting pdfs",
		zap.Int("count", len(pdfs)),
		zap.String("input", inRoot),
		zap.String("output", outRoot),
	)

	var converted, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, pdfPath := range pdfs {
		pdfPath := pdfPath
		g.Go(func() error {
			rel, err := filepath.Rel(inRoot, pdfPath)
			if err != nil {
				return eris.Wrapf(err, "extract: rel %s", pdfPath)
			}
			txtPath := filepath.Join(outRoot, strings.TrimSuffix(rel, filepath.Ext(rel))+".txt")
			if err := os.MkdirAll(filepath.Dir(txtPath), 0o755); err != nil {
				return eris.Wrapf(err, "extract: mkdir for %s", txtPath)
			}

			text, err := ex.ExtractText(gctx, pdfPath)
			if err != nil {
				failed.Add(1)
				zap.L().Error("conversion failed", zap.String("pdf", rel), zap.Error(err))
				return nil // keep the batch going
			}
			if err := os.WriteFile(txtPath, []byte(text), 0o644); err != nil {
				return eris.Wrapf(err, "extract: write %s", txtPath)
			}

			converted.Add(1)
			zap.L().Info("converted", zap.String("pdf", rel))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return ConvertResult{}, err
	}

	res := ConvertResult{
		Converted: int(converted.Load()),
		Failed:    int(failed.Load()),
	}
	if res.Converted == 0 {
		return res, eris.New("extract: all conversions failed")
	}
	return res, nil
}

// StagePDFs copies transcript PDFs (filenames carrying a "trs" marker)
// from srcDir into dstDir. Returns total PDFs seen and number copied.
func StagePDFs(srcDir, dstDir string, isTranscript func(string) bool) (total, copied int, err error) {
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return 0, 0, eris.Wrapf(err, "extract: create staging dir %s", dstDir)
	}

	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return 0, 0, eris.Wrapf(err, "extract: read %s", srcDir)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		total++
		if !isTranscript(entry.Name()) {
			continue
		}

		data, err := os.ReadFile(filepath.Join(srcDir, entry.Name()))
		if err != nil {
			return total, copied, eris.Wrapf(err, "extract: read %s", entry.Name())
		}
		if err := os.WriteFile(filepath.Join(dstDir, entry.Name()), data, 0o644); err != nil {
			return total, copied, eris.Wrapf(err, "extract: copy %s", entry.Name())
		}
		copied++
		zap.L().Info("staged", zap.String("pdf", entry.Name()))
	}

	return total, copied, nil
}
