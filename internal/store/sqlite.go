package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/oral-history-lab/transcript-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS catalog_cache (
	rg_number  TEXT PRIMARY KEY,
	irn        TEXT NOT NULL,
	record     TEXT NOT NULL,
	fetched_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS annotations (
	id         TEXT PRIMARY KEY,
	kind       TEXT NOT NULL,
	filename   TEXT NOT NULL,
	payload    TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now')),
	UNIQUE (kind, filename)
);

CREATE INDEX IF NOT EXISTS idx_annotations_kind ON annotations(kind);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) GetCachedRecord(ctx context.Context, rgNumber string) (*model.CatalogRecord, bool, error) {
	var recordJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT record FROM catalog_cache WHERE rg_number = ?`, rgNumber,
	).Scan(&recordJSON)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, eris.Wrapf(err, "sqlite: get cached record %s", rgNumber)
	}

	var rec model.CatalogRecord
	if err := json.Unmarshal([]byte(recordJSON), &rec); err != nil {
		return nil, false, eris.Wrapf(err, "sqlite: unmarshal cached record %s", rgNumber)
	}
	return &rec, true, nil
}

func (s *SQLiteStore) SetCachedRecord(ctx context.Context, rgNumber, irn string, rec *model.CatalogRecord) error {
	recordJSON, err := json.Marshal(rec)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal record")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO catalog_cache (rg_number, irn, record, fetched_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (rg_number) DO UPDATE SET irn = excluded.irn, record = excluded.record, fetched_at = excluded.fetched_at`,
		rgNumber, irn, string(recordJSON), time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: cache record %s", rgNumber)
}

func (s *SQLiteStore) SaveAnnotation(ctx context.Context, kind, filename string, payload any) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal annotation")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO annotations (id, kind, filename, payload, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (kind, filename) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		uuid.New().String(), kind, filename, string(payloadJSON), time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: save annotation %s/%s", kind, filename)
}

func (s *SQLiteStore) GetAnnotation(ctx context.Context, kind, filename string, out any) (bool, error) {
	var payloadJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM annotations WHERE kind = ? AND filename = ?`, kind, filename,
	).Scan(&payloadJSON)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, eris.Wrapf(err, "sqlite: get annotation %s/%s", kind, filename)
	}

	if err := json.Unmarshal([]byte(payloadJSON), out); err != nil {
		return false, eris.Wrapf(err, "sqlite: unmarshal annotation %s/%s", kind, filename)
	}
	return true, nil
}

func (s *SQLiteStore) ListAnnotated(ctx context.Context, kind string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT filename FROM annotations WHERE kind = ? ORDER BY filename`, kind,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list annotations %s", kind)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan annotation filename")
		}
		names = append(names, name)
	}
	return names, eris.Wrap(rows.Err(), "sqlite: iterate annotations")
}
