package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the SQLite data access layer for indexed declaration trees.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database at dbPath with WAL mode enabled.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use in transactions.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Migrate creates all tables and indexes. Idempotent.
func (s *Store) Migrate() error {
	_, err := s.db.Exec(schemaDDL)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS files (
  id              INTEGER PRIMARY KEY,
  path            TEXT NOT NULL UNIQUE,
  language        TEXT NOT NULL,
  hash            TEXT,
  last_indexed    TIMESTAMP
);

CREATE TABLE IF NOT EXISTS declarations (
  id                  INTEGER PRIMARY KEY,
  file_id             INTEGER NOT NULL REFERENCES files(id),
  parent_id           INTEGER REFERENCES declarations(id),
  ordinal             INTEGER NOT NULL,
  language            TEXT NOT NULL,
  kind                TEXT,
  name                TEXT,
  type_name           TEXT,
  usr                 TEXT,
  declaration_text    TEXT,
  doc_comment         TEXT,
  accessibility       TEXT,
  loc_file            TEXT,
  loc_line            INTEGER,
  loc_column          INTEGER,
  loc_offset          INTEGER,
  extent_file         TEXT,
  extent_start_line   INTEGER,
  extent_start_column INTEGER,
  extent_start_offset INTEGER,
  extent_end_line     INTEGER,
  extent_end_column   INTEGER,
  extent_end_offset   INTEGER
);

CREATE TABLE IF NOT EXISTS metadata (
  key             TEXT PRIMARY KEY,
  value           TEXT
);

CREATE INDEX IF NOT EXISTS idx_files_language ON files(language);
CREATE INDEX IF NOT EXISTS idx_declarations_file ON declarations(file_id);
CREATE INDEX IF NOT EXISTS idx_declarations_parent ON declarations(parent_id);
CREATE INDEX IF NOT EXISTS idx_declarations_usr ON declarations(usr);
CREATE INDEX IF NOT EXISTS idx_declarations_location ON declarations(loc_file, loc_offset);
`

// DeleteFileData transactionally removes a file's declarations and the file
// record itself. Children are deleted before parents to respect FK
// constraints.
func (s *Store) DeleteFileData(fileID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.Query("SELECT id FROM declarations WHERE file_id = ? ORDER BY id DESC", fileID)
	if err != nil {
		return fmt.Errorf("query declarations: %w", err)
	}
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("scan declaration id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()

	// Parents are always inserted before their children, so descending IDs
	// delete leaves first.
	for _, chunk := range chunkIDs(ids, 500) {
		q := "DELETE FROM declarations WHERE id IN (" + placeholderList(len(chunk)) + ")"
		if _, err := tx.Exec(q, int64sToArgs(chunk)...); err != nil {
			return fmt.Errorf("delete declarations: %w", err)
		}
	}
	if _, err := tx.Exec("DELETE FROM files WHERE id = ?", fileID); err != nil {
		return fmt.Errorf("delete file record: %w", err)
	}
	return tx.Commit()
}

// GetMetadata returns the value stored under key, or "" when unset.
func (s *Store) GetMetadata(key string) (string, error) {
	var v sql.NullString
	err := s.db.QueryRow("SELECT value FROM metadata WHERE key = ?", key).Scan(&v)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get metadata %s: %w", key, err)
	}
	return v.String, nil
}

// SetMetadata upserts a metadata value.
func (s *Store) SetMetadata(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO metadata (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set metadata %s: %w", key, err)
	}
	return nil
}

// QueryReadOnly runs query on a connection with query_only set and hands
// the rows to fn. Every statement in query is refused a write, including
// statements after the first. The connection is switched back before it
// returns to the pool, or discarded when that fails.
func (s *Store) QueryReadOnly(ctx context.Context, fn func(*sql.Rows) error, query string, args ...any) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("read-only query: conn: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "PRAGMA query_only = ON"); err != nil {
		return fmt.Errorf("read-only query: %w", err)
	}
	defer func() {
		if _, err := conn.ExecContext(context.Background(), "PRAGMA query_only = OFF"); err != nil {
			_ = conn.Raw(func(any) error { return driver.ErrBadConn })
		}
	}()

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("read-only query: %w", err)
	}
	defer rows.Close()
	if err := fn(rows); err != nil {
		return err
	}
	return rows.Close()
}
