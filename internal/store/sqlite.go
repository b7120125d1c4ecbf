// internal/store/sqlite.go
//
// SQLite-backed Store. One row per user, JSON-encoded record, upserted on
// every save. WAL journaling and a busy timeout keep single-writer access
// well behaved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/asavelyev/ribalka/internal/game"
)

type SQLiteStore struct {
	db       *sql.DB
	saveStmt *sql.Stmt
}

// OpenSQLite opens (creating if missing) the database at path and
// prepares the schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	save, err := db.Prepare(`
		INSERT INTO users (id, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db, saveStmt: save}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id         TEXT PRIMARY KEY,
			data       TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Save(ctx context.Context, id string, u *game.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user %s: %w", id, err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.saveStmt.ExecContext(ctx, id, string(data), now); err != nil {
		return fmt.Errorf("save user %s: %w", id, err)
	}
	return nil
}

func (s *SQLiteStore) LoadAll(ctx context.Context) (map[string]*game.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, data FROM users`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]*game.User)
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, err
		}
		var u game.User
		if err := json.Unmarshal([]byte(data), &u); err != nil {
			return nil, fmt.Errorf("decode user %s: %w", id, err)
		}
		out[id] = &u
	}
	return out, rows.Err()
}

// Close releases the prepared statement and the database handle.
func (s *SQLiteStore) Close() error {
	_ = s.saveStmt.Close()
	return s.db.Close()
}
