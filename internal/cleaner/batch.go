package cleaner

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

// BatchResult summarizes a batch clean: file count and byte totals, from
// which the size ratio is reported.
type BatchResult struct {
	Files    int
	BytesIn  int64
	BytesOut int64
}

// Ratio returns bytes-out over bytes-in, 1.0 for an empty batch.
func (r BatchResult) Ratio() float64 {
	if r.BytesIn == 0 {
		return 1.0
	}
	return float64(r.BytesOut) / float64(r.BytesIn)
}

// CleanTree cleans every *.txt under inRoot into outRoot, mirroring the
// directory structure. Workers bounds file-level concurrency.
func CleanTree(ctx context.Context, c *Cleaner, inRoot, outRoot string, workers int) (BatchResult, error) {
	if workers <= 0 {
		workers = 1
	}

	var txts []string
	err := filepath.WalkDir(inRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".txt") {
			txts = append(txts, path)
		}
		return nil
	})
	if err != nil {
		return BatchResult{}, eris.Wrapf(err, "cleaner: walk %s", inRoot)
	}
	if len(txts) == 0 {
		return BatchResult{}, eris.Errorf("cleaner: no .txt files found in %s", inRoot)
	}

	zap.L().Info("cleaning transcripts",
		zap.Int("count", len(txts)),
		zap.String("input", inRoot),
		zap.String("output", outRoot),
		zap.Int("workers", workers),
	)

	var files, bytesIn, bytesOut atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, path := range txts {
		path := path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			rel, err := filepath.Rel(inRoot, path)
			if err != nil {
				return eris.Wrapf(err, "cleaner: rel %s", path)
			}
			outPath := filepath.Join(outRoot, rel)
			if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
				return eris.Wrapf(err, "cleaner: mkdir for %s", outPath)
			}

			raw, err := os.ReadFile(path)
			if err != nil {
				return eris.Wrapf(err, "cleaner: read %s", path)
			}

			cleaned := c.Clean(string(raw))
			if err := os.WriteFile(outPath, []byte(cleaned), 0o644); err != nil {
				return eris.Wrapf(err, "cleaner: write %s", outPath)
			}

			files.Add(1)
			bytesIn.Add(int64(len(raw)))
			bytesOut.Add(int64(len(cleaned)))
			zap.L().Debug("cleaned", zap.String("file", rel))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return BatchResult{}, err
	}

	return BatchResult{
		Files:    int(files.Load()),
		BytesIn:  bytesIn.Load(),
		BytesOut: bytesOut.Load(),
	}, nil
}
