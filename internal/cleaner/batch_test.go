package cleaner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanTree(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()

	write := func(rel, content string) {
		path := filepath.Join(in, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	write("RG-50.233.0026_trs_en.txt", "Q: Where were\nyou born?\n\n\n\nA: In Lodz.\n")
	write("sub/RG-50.030.0148_trs.txt", "line one\nUSHMM Archives RG-50.030*0148\nline two\n")
	write("ignore.pdf", "%PDF")

	c := New(Options{JoinLines: true})
	res, err := CleanTree(context.Background(), c, in, out, 2)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Files)
	assert.Greater(t, res.BytesIn, res.BytesOut)
	assert.InDelta(t, float64(res.BytesOut)/float64(res.BytesIn), res.Ratio(), 1e-9)

	got, err := os.ReadFile(filepath.Join(out, "RG-50.233.0026_trs_en.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Q: Where were you born?\nA: In Lodz.\n", string(got))

	got, err = os.ReadFile(filepath.Join(out, "sub", "RG-50.030.0148_trs.txt"))
	require.NoError(t, err)
	assert.Equal(t, "line one\n\nline two\n", string(got))
}

func TestCleanTreeEmptyInput(t *testing.T) {
	_, err := CleanTree(context.Background(), New(Options{}), t.TempDir(), t.TempDir(), 1)
	assert.Error(t, err)
}

func TestBatchResultRatioEmpty(t *testing.T) {
	assert.Equal(t, 1.0, BatchResult{}.Ratio())
}
