package metadata

import (
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// SampleFiles copies a seeded random sample of n .txt files from srcDir
// into dstDir and returns the chosen filenames. The same seed over the
// same folder always picks the same sample, so topic-model test sets are
// reproducible. When fewer than n files exist, all of them are taken.
func SampleFiles(srcDir, dstDir string, n int, seed int64) ([]string, error) {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return nil, eris.Wrapf(err, "metadata: read dir %s", srcDir)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.EqualFold(filepath.Ext(entry.Name()), ".txt") {
			names = append(names, entry.Name())
		}
	}
	if len(names) == 0 {
		return nil, eris.Errorf("metadata: no .txt files in %s", srcDir)
	}
	sort.Strings(names) // deterministic base order regardless of readdir order

	if n >= len(names) {
		zap.L().Warn("sample larger than population, taking all files",
			zap.Int("requested", n),
			zap.Int("available", len(names)),
		)
		n = len(names)
	} else {
		rng := rand.New(rand.NewSource(seed))
		rng.Shuffle(len(names), func(i, j int) {
			names[i], names[j] = names[j], names[i]
		})
		names = names[:n]
	}

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "metadata: create %s", dstDir)
	}

	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(srcDir, name))
		if err != nil {
			return nil, eris.Wrapf(err, "metadata: read %s", name)
		}
		if err := os.WriteFile(filepath.Join(dstDir, name), data, 0o644); err != nil {
			return nil, eris.Wrapf(err, "metadata: copy %s", name)
		}
	}

	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.Strings(sorted)

	zap.L().Info("sampled files",
		zap.Int("count", len(names)),
		zap.Int64("seed", seed),
		zap.String("output", dstDir),
	)
	return sorted, nil
}
