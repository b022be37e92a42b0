package diffreport

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairRows(t *testing.T) {
	ops := []Op{
		{OpEqual, "same"},
		{OpDelete, "old"},
		{OpInsert, "new"},
		{OpInsert, "extra"},
		{OpEqual, "tail"},
	}

	rows := pairRows(ops)
	require.Len(t, rows, 4)

	assert.Equal(t, 1, rows[0].leftNo)
	assert.Equal(t, 1, rows[0].rightNo)
	assert.False(t, rows[0].changed)

	// Paired delete/insert renders as a change.
	assert.Equal(t, "old", rows[1].leftText)
	assert.Equal(t, "new", rows[1].rightText)
	assert.Equal(t, "diff_chg", rows[1].leftClass)
	assert.True(t, rows[1].changed)

	// Unpaired insert renders right-only.
	assert.Zero(t, rows[2].leftNo)
	assert.Equal(t, "extra", rows[2].rightText)
	assert.Equal(t, "diff_add", rows[2].rightClass)

	assert.Equal(t, 3, rows[3].leftNo)
	assert.Equal(t, 4, rows[3].rightNo)
}

func TestContextRows(t *testing.T) {
	var rows []row
	for i := 0; i < 20; i++ {
		rows = append(rows, row{leftNo: i + 1, rightNo: i + 1, changed: i == 10})
	}

	kept := contextRows(rows, 2)
	// Rows 9 through 13 survive; everything else is dropped.
	require.Len(t, kept, 5)
	assert.Equal(t, 9, kept[0].leftNo)
	assert.Equal(t, 13, kept[4].leftNo)
}

func TestContextRowsSkipMarkerBetweenGroups(t *testing.T) {
	var rows []row
	for i := 0; i < 30; i++ {
		rows = append(rows, row{leftNo: i + 1, rightNo: i + 1, changed: i == 2 || i == 20})
	}

	kept := contextRows(rows, 1)
	var markers int
	for _, r := range kept {
		if r.leftNo == -1 {
			markers++
		}
	}
	assert.Equal(t, 1, markers, "one separator between the two change groups")
}

func TestContextRowsNoChanges(t *testing.T) {
	rows := []row{{leftNo: 1, rightNo: 1}, {leftNo: 2, rightNo: 2}}
	assert.Empty(t, contextRows(rows, 3))
}

func TestRenderPageEscapesHTML(t *testing.T) {
	page := RenderPage(
		[]string{"<script>alert(1)</script>"},
		[]string{"safe"},
		"a.txt (pre)", "a.txt (post)", 3,
	)
	assert.NotContains(t, page, "<script>alert(1)</script>")
	assert.Contains(t, page, "&lt;script&gt;")
	assert.Contains(t, page, "table class='diff'")
}

func TestGenerate(t *testing.T) {
	left := t.TempDir()
	right := t.TempDir()
	out := filepath.Join(t.TempDir(), "report")

	require.NoError(t, os.WriteFile(filepath.Join(left, "a.txt"), []byte("header\nbody\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(right, "a.txt"), []byte("body\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(left, "only-left.txt"), []byte("x\n"), 0o644))

	res, err := Generate(left, right, out, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Compared)
	assert.Zero(t, res.Skipped, "one-sided files never make the name list")

	page, err := os.ReadFile(filepath.Join(out, "a.txt.diff.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "diff_sub")
	assert.Contains(t, string(page), "header")

	index, err := os.ReadFile(res.Index)
	require.NoError(t, err)
	assert.Contains(t, string(index), "a.txt.diff.html")
	assert.NotContains(t, string(index), "only-left")
}

func TestGenerateExplicitNamesSkipsMissing(t *testing.T) {
	left := t.TempDir()
	right := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(left, "a.txt"), []byte("x\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(right, "a.txt"), []byte("x\n"), 0o644))

	res, err := Generate(left, right, filepath.Join(t.TempDir(), "out"),
		Options{Names: []string{"a.txt", "missing.txt"}})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Compared)
	assert.Equal(t, 1, res.Skipped)
}

func TestGenerateNoMatches(t *testing.T) {
	_, err := Generate(t.TempDir(), t.TempDir(), t.TempDir(), Options{})
	assert.Error(t, err)
}

func TestHandlerServesReport(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"),
		[]byte("<h1>Transcript diffs</h1>"), 0o644))

	srv := httptest.NewServer(Handler(dir))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Transcript diffs")

	health, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	health.Body.Close()
	assert.Equal(t, http.StatusOK, health.StatusCode)
}
