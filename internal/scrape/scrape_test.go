package scrape

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oral-history-lab/transcript-cli/internal/metadata"
	"github.com/oral-history-lab/transcript-cli/internal/model"
)

// fakeCatalog serves canned records keyed by RG number.
type fakeCatalog struct {
	records  map[string]*model.CatalogRecord // rg -> record
	irns     map[string]string               // rg -> irn
	failRG   map[string]bool
	searches int
}

func (f *fakeCatalog) SearchIRN(_ context.Context, rgNumber string) (string, bool, error) {
	f.searches++
	if f.failRG[rgNumber] {
		return "", false, eris.New("catalog unreachable")
	}
	irn, ok := f.irns[rgNumber]
	return irn, ok, nil
}

func (f *fakeCatalog) Record(_ context.Context, irn string) (*model.CatalogRecord, error) {
	for rg, i := range f.irns {
		if i == irn {
			return f.records[rg], nil
		}
	}
	return nil, eris.Errorf("unknown irn %s", irn)
}

// cacheStore implements the catalog-cache half of store.Store.
type cacheStore struct {
	records map[string][]byte
}

func newCacheStore() *cacheStore {
	return &cacheStore{records: make(map[string][]byte)}
}

func (s *cacheStore) GetCachedRecord(_ context.Context, rgNumber string) (*model.CatalogRecord, bool, error) {
	data, ok := s.records[rgNumber]
	if !ok {
		return nil, false, nil
	}
	var rec model.CatalogRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, false, err
	}
	return &rec, true, nil
}

func (s *cacheStore) SetCachedRecord(_ context.Context, rgNumber, _ string, rec *model.CatalogRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	s.records[rgNumber] = data
	return nil
}

func (s *cacheStore) SaveAnnotation(context.Context, string, string, any) error { return nil }
func (s *cacheStore) GetAnnotation(context.Context, string, string, any) (bool, error) {
	return false, nil
}
func (s *cacheStore) ListAnnotated(context.Context, string) ([]string, error) { return nil, nil }
func (s *cacheStore) Migrate(context.Context) error                           { return nil }
func (s *cacheStore) Close() error                                            { return nil }

func writeTranscripts(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("text"), 0o644))
	}
	return dir
}

func TestScraperRun(t *testing.T) {
	dir := writeTranscripts(t,
		"RG-50.030.0001_trs_en.txt",
		"RG-50.030.0002_trs_en.txt", // not in catalog
		"noprefix.txt",              // no RG number
	)

	catalog := &fakeCatalog{
		irns: map[string]string{"RG-50.030.0001": "507634"},
		records: map[string]*model.CatalogRecord{
			"RG-50.030.0001": {
				Interviewee:    "Eva Stern",
				Interviewer:    "David Boder",
				InterviewDate:  "1946",
				SubjectTopical: "Ghettos; Camps",
			},
		},
	}

	outPath := filepath.Join(t.TempDir(), "metadata.csv")
	scraper := &Scraper{Client: catalog}
	res, err := scraper.Run(context.Background(), dir, outPath)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Files)
	assert.Equal(t, 1, res.Found)
	assert.Equal(t, 1, res.NotFound)
	assert.Equal(t, 1, res.Failed)

	out, err := metadata.ReadTable(outPath)
	require.NoError(t, err)
	assert.Equal(t, model.MetadataHeader, out.Header)
	require.Len(t, out.Rows, 3)

	assert.Equal(t, "RG-50.030.0001", out.Get(0, "rg_number"))
	assert.Equal(t, "Eva Stern", out.Get(0, "interviewee"))
	assert.Equal(t, "Ghettos; Camps", out.Get(0, "subject_topical"))

	// Missing record still yields a row, with empty metadata.
	assert.Equal(t, "RG-50.030.0002", out.Get(1, "rg_number"))
	assert.Equal(t, "", out.Get(1, "interviewee"))

	assert.Equal(t, "noprefix.txt", out.Get(2, "filename"))
	assert.Equal(t, "", out.Get(2, "rg_number"))
}

func TestScraperLookupFailureContinues(t *testing.T) {
	dir := writeTranscripts(t,
		"RG-50.030.0001_trs_en.txt",
		"RG-50.030.0002_trs_en.txt",
	)

	catalog := &fakeCatalog{
		irns: map[string]string{"RG-50.030.0002": "99"},
		records: map[string]*model.CatalogRecord{
			"RG-50.030.0002": {Interviewee: "Jakob Stern"},
		},
		failRG: map[string]bool{"RG-50.030.0001": true},
	}

	outPath := filepath.Join(t.TempDir(), "metadata.csv")
	res, err := (&Scraper{Client: catalog}).Run(context.Background(), dir, outPath)
	require.NoError(t, err, "lookup failures never abort the batch")

	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 1, res.Found)

	out, err := metadata.ReadTable(outPath)
	require.NoError(t, err)
	require.Len(t, out.Rows, 2)
	assert.Equal(t, "", out.Get(0, "interviewee"))
	assert.Equal(t, "Jakob Stern", out.Get(1, "interviewee"))
}

func TestScraperUsesCache(t *testing.T) {
	dir := writeTranscripts(t, "RG-50.030.0001_trs_en.txt")

	catalog := &fakeCatalog{
		irns: map[string]string{"RG-50.030.0001": "507634"},
		records: map[string]*model.CatalogRecord{
			"RG-50.030.0001": {Interviewee: "Eva Stern"},
		},
	}
	st := newCacheStore()

	scraper := &Scraper{Client: catalog, Store: st}
	outPath := filepath.Join(t.TempDir(), "metadata.csv")

	res, err := scraper.Run(context.Background(), dir, outPath)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Found)
	assert.Zero(t, res.Cached)
	assert.Equal(t, 1, catalog.searches)

	// Second run serves the record from the store.
	res, err = scraper.Run(context.Background(), dir, outPath)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Found)
	assert.Equal(t, 1, res.Cached)
	assert.Equal(t, 1, catalog.searches, "no second catalog hit")
}

func TestScraperRefreshCacheWritesThrough(t *testing.T) {
	dir := writeTranscripts(t, "RG-50.030.0001_trs_en.txt")

	catalog := &fakeCatalog{
		irns: map[string]string{"RG-50.030.0001": "507634"},
		records: map[string]*model.CatalogRecord{
			"RG-50.030.0001": {Interviewee: "Eva Stern"},
		},
	}
	st := newCacheStore()
	require.NoError(t, st.SetCachedRecord(context.Background(), "RG-50.030.0001", "507634",
		&model.CatalogRecord{Interviewee: "stale"}))

	scraper := &Scraper{Client: catalog, Store: st, RefreshCache: true}
	outPath := filepath.Join(t.TempDir(), "metadata.csv")

	res, err := scraper.Run(context.Background(), dir, outPath)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Found)
	assert.Zero(t, res.Cached, "cached record is bypassed")
	assert.Equal(t, 1, catalog.searches, "refresh hits the catalog")

	out, err := metadata.ReadTable(outPath)
	require.NoError(t, err)
	assert.Equal(t, "Eva Stern", out.Get(0, "interviewee"))

	// The fresh record replaces the stale cache entry.
	rec, found, err := st.GetCachedRecord(context.Background(), "RG-50.030.0001")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Eva Stern", rec.Interviewee)
}

func TestScraperEmptyDir(t *testing.T) {
	_, err := (&Scraper{Client: &fakeCatalog{}}).Run(
		context.Background(), t.TempDir(), filepath.Join(t.TempDir(), "out.csv"),
	)
	assert.Error(t, err)
}
