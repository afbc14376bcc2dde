package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/roadwork/pkg/model"
)

// DefaultBlobKey is the key the single-roadmap tools read and write.
const DefaultBlobKey = "roadmap"

// BlobStore persists roadmap snapshots as versioned JSON blobs in a
// SQLite database. Every save bumps the version tag; loads return the
// stored version so callers can detect concurrent writers.
type BlobStore struct {
	db   *sql.DB
	path string
}

// OpenBlobStore opens (creating if needed) the blob database at path.
func OpenBlobStore(path string) (*BlobStore, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	const schema = `
		CREATE TABLE IF NOT EXISTS roadmap_blobs (
			key        TEXT PRIMARY KEY,
			version    INTEGER NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			data       BLOB NOT NULL
		)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &BlobStore{db: db, path: path}, nil
}

// Close closes the database connection.
func (s *BlobStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save writes the snapshot under key, bumping its version tag. The new
// version is returned.
func (s *BlobStore) Save(key string, snap model.Snapshot) (int64, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return 0, fmt.Errorf("encode snapshot: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var version int64
	err = tx.QueryRow(`SELECT version FROM roadmap_blobs WHERE key = ?`, key).Scan(&version)
	switch {
	case err == sql.ErrNoRows:
		version = 0
	case err != nil:
		return 0, fmt.Errorf("read version: %w", err)
	}
	version++

	_, err = tx.Exec(`
		INSERT INTO roadmap_blobs (key, version, updated_at, data) VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET version = excluded.version,
			updated_at = excluded.updated_at, data = excluded.data`,
		key, version, time.Now().UTC(), data)
	if err != nil {
		return 0, fmt.Errorf("write blob: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return version, nil
}

// Load reads the snapshot stored under key along with its version tag.
func (s *BlobStore) Load(key string) (model.Snapshot, int64, error) {
	var (
		version int64
		data    []byte
	)
	err := s.db.QueryRow(`SELECT version, data FROM roadmap_blobs WHERE key = ?`, key).
		Scan(&version, &data)
	if err == sql.ErrNoRows {
		return model.Snapshot{}, 0, fmt.Errorf("no roadmap stored under key %q", key)
	}
	if err != nil {
		return model.Snapshot{}, 0, fmt.Errorf("read blob: %w", err)
	}

	var snap model.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return model.Snapshot{}, 0, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, version, nil
}

// Version returns the current version tag for key, 0 when absent.
func (s *BlobStore) Version(key string) (int64, error) {
	var version int64
	err := s.db.QueryRow(`SELECT version FROM roadmap_blobs WHERE key = ?`, key).Scan(&version)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return version, nil
}
