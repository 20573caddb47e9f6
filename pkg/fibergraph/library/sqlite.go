package library

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/zeebo/blake3"
	_ "modernc.org/sqlite"

	"github.com/randalmurphal/fibergraph/pkg/fibergraph"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS graph_assets (
	id         TEXT PRIMARY KEY,
	format     TEXT NOT NULL,
	data       BLOB NOT NULL,
	checksum   TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);
`

// SQLite is a single-file persistent asset catalog. Rows keep the raw
// encoded asset plus a blake3 checksum; decoding happens on read so the
// catalog survives engine upgrades that change in-memory shapes.
type SQLite struct {
	db  *sql.DB
	reg *fibergraph.Registry

	mu     sync.RWMutex
	closed bool
}

var _ fibergraph.Library = (*SQLite)(nil)

// NewSQLite opens (creating if needed) the catalog at path. Use
// ":memory:" for an ephemeral catalog.
func NewSQLite(path string, reg *fibergraph.Registry) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open graph catalog: %w", err)
	}

	// Single writer keeps things simple under WAL.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set journal mode: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create catalog schema: %w", err)
	}

	return &SQLite{db: db, reg: reg}, nil
}

// Put validates and upserts an encoded asset. The stored row replaces
// any previous version of the same id.
func (s *SQLite) Put(ctx context.Context, data []byte, format Format) error {
	asset, err := DecodeAsset(data, format)
	if err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrLibraryClosed
	}

	sum := blake3.Sum256(data)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO graph_assets (id, format, data, checksum, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			format = excluded.format,
			data = excluded.data,
			checksum = excluded.checksum,
			updated_at = excluded.updated_at`,
		asset.ID, string(format), data, hex.EncodeToString(sum[:]), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("store asset %q: %w", asset.ID, err)
	}
	return nil
}

// PutAsset encodes and stores an asset as JSON.
func (s *SQLite) PutAsset(ctx context.Context, asset *fibergraph.GraphAsset) error {
	if asset == nil || asset.ID == "" {
		return errEmptyAsset
	}
	data, err := EncodeAsset(asset, FormatJSON)
	if err != nil {
		return err
	}
	return s.Put(ctx, data, FormatJSON)
}

// GetAsset reads and decodes the stored asset for id. A checksum
// mismatch reports the row as corrupt rather than decoding it.
func (s *SQLite) GetAsset(ctx context.Context, id string) (*fibergraph.GraphAsset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrLibraryClosed
	}

	var (
		format   string
		data     []byte
		checksum string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT format, data, checksum FROM graph_assets WHERE id = ?", id).
		Scan(&format, &data, &checksum)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("load asset %q: %w", id, err)
	}

	sum := blake3.Sum256(data)
	if hex.EncodeToString(sum[:]) != checksum {
		return nil, fmt.Errorf("asset %q failed checksum", id)
	}

	return DecodeAsset(data, Format(format))
}

// Instantiate hydrates the stored asset for id.
func (s *SQLite) Instantiate(ctx context.Context, id string) (*fibergraph.Graph, error) {
	return instantiate(ctx, s, s.reg, id)
}

// Delete removes the stored asset for id. Missing ids are not an
// error.
func (s *SQLite) Delete(ctx context.Context, id string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrLibraryClosed
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM graph_assets WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete asset %q: %w", id, err)
	}
	return nil
}

// IDs lists the stored asset ids in sorted order.
func (s *SQLite) IDs(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrLibraryClosed
	}

	rows, err := s.db.QueryContext(ctx, "SELECT id FROM graph_assets ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Close releases the underlying database. Close is idempotent.
func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
