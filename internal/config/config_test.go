package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "transcript-cli.db", cfg.Store.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "pdftotext", cfg.Convert.Extractor)
	assert.Equal(t, "pdftotext", cfg.Convert.PdfToTextPath)
	assert.Equal(t, 4, cfg.Convert.Workers)
	assert.Equal(t, 50, cfg.Clean.HeaderCutoffLines)
	assert.Equal(t, 4, cfg.Clean.HeaderLookahead)
	assert.Equal(t, "https://collections.ushmm.org", cfg.Catalog.BaseURL)
	assert.Equal(t, 2.0, cfg.Catalog.RequestsPerSecond)
	assert.Equal(t, 3, cfg.Catalog.MaxRetries)
	assert.Equal(t, 20, cfg.Annotate.SnippetLines)
	assert.Equal(t, 3, cfg.Annotate.VoteQueries)
	assert.Equal(t, 50, cfg.Annotate.CheckpointEvery)
	assert.Equal(t, 1000, cfg.Annotate.ChunkWords)
	assert.Equal(t, 200, cfg.Annotate.ChunkOverlap)
	assert.Equal(t, 8080, cfg.Report.Port)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
log:
  level: debug
  format: json
clean:
  header_cutoff_lines: 30
  workers: 2
catalog:
  requests_per_second: 0.5
annotate:
  vote_queries: 5
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 30, cfg.Clean.HeaderCutoffLines)
	assert.Equal(t, 2, cfg.Clean.Workers)
	assert.Equal(t, 0.5, cfg.Catalog.RequestsPerSecond)
	assert.Equal(t, 5, cfg.Annotate.VoteQueries)
	// Untouched keys keep defaults
	assert.Equal(t, 4, cfg.Clean.HeaderLookahead)
	assert.Equal(t, 20, cfg.Annotate.SnippetLines)
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	t.Setenv("TRANSCRIPT_LOG_LEVEL", "warn")
	t.Setenv("TRANSCRIPT_ANNOTATE_ANTHROPIC_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "sk-test", cfg.Annotate.AnthropicKey)
}

func TestInitLogger(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())

	err = InitLogger(LogConfig{Level: "nope", Format: "json"})
	assert.Error(t, err)
}
