package save

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"
)

// Index is the SQLite table of slot metadata.
type Index struct {
	db *sql.DB
}

// OpenIndex opens (creating if needed) the index database at path.
func OpenIndex(path string) (*Index, error) {
	if path == "" {
		return nil, errors.New("empty index path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Index{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS slots (
		slot INTEGER PRIMARY KEY,
		save_id TEXT NOT NULL,
		day INTEGER NOT NULL,
		turn INTEGER NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		saved_at TEXT NOT NULL,
		checksum TEXT NOT NULL
	);`)
	return err
}

// Close closes the database.
func (ix *Index) Close() error {
	return ix.db.Close()
}

// Put records the metadata of a slot, replacing any previous row.
func (ix *Index) Put(ctx context.Context, m Meta) error {
	_, err := ix.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO slots(slot,save_id,day,turn,x,y,saved_at,checksum) VALUES(?,?,?,?,?,?,?,?)`,
		m.Slot, m.SaveID, m.Day, m.Turn, m.X, m.Y,
		m.SavedAt.UTC().Format(time.RFC3339Nano),
		strconv.FormatUint(m.Checksum, 16),
	)
	if err != nil {
		return fmt.Errorf("indexing slot %d: %w", m.Slot, err)
	}
	return nil
}

// Get returns the metadata of a slot. The bool is false when the slot is empty.
func (ix *Index) Get(ctx context.Context, slot int) (Meta, bool, error) {
	row := ix.db.QueryRowContext(ctx,
		`SELECT slot,save_id,day,turn,x,y,saved_at,checksum FROM slots WHERE slot = ?`, slot)
	m, err := scanMeta(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Meta{}, false, nil
	}
	if err != nil {
		return Meta{}, false, err
	}
	return m, true, nil
}

// List returns every row in slot order.
func (ix *Index) List(ctx context.Context) ([]Meta, error) {
	rows, err := ix.db.QueryContext(ctx,
		`SELECT slot,save_id,day,turn,x,y,saved_at,checksum FROM slots ORDER BY slot`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var metas []Meta
	for rows.Next() {
		m, err := scanMeta(rows)
		if err != nil {
			return nil, err
		}
		metas = append(metas, m)
	}
	return metas, rows.Err()
}

// Delete removes a slot's row.
func (ix *Index) Delete(ctx context.Context, slot int) error {
	_, err := ix.db.ExecContext(ctx, `DELETE FROM slots WHERE slot = ?`, slot)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMeta(s scanner) (Meta, error) {
	var (
		m        Meta
		savedAt  string
		checksum string
	)
	if err := s.Scan(&m.Slot, &m.SaveID, &m.Day, &m.Turn, &m.X, &m.Y, &savedAt, &checksum); err != nil {
		return m, err
	}
	t, err := time.Parse(time.RFC3339Nano, savedAt)
	if err != nil {
		return m, fmt.Errorf("slot %d saved_at: %w", m.Slot, err)
	}
	m.SavedAt = t
	sum, err := strconv.ParseUint(checksum, 16, 64)
	if err != nil {
		return m, fmt.Errorf("slot %d checksum: %w", m.Slot, err)
	}
	m.Checksum = sum
	return m, nil
}
