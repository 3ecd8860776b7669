package content

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Mirror is a persistent key-value area a Store writes through to, so
// entries survive a restart.
type Mirror interface {
	Load(namespace string) (map[string][]byte, error)
	Put(namespace, key string, value []byte) error
	Delete(namespace, key string) error
}

// SQLiteMirror keeps store entries in a SQLite database.
type SQLiteMirror struct {
	db *sql.DB
}

// NewSQLiteMirror opens (or creates) the SQLite database at path, ensures the
// data directory exists, and creates the entries table.
func NewSQLiteMirror(path string) (*SQLiteMirror, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL with a busy timeout lets a second process read while the site
	// writes; synchronous=NORMAL is safe with WAL.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(1)
	m := &SQLiteMirror{db: db}
	if err := m.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return m, nil
}

// Close closes the underlying database connection.
func (m *SQLiteMirror) Close() error {
	return m.db.Close()
}

func (m *SQLiteMirror) ensureSchema() error {
	_, err := m.db.Exec(`
CREATE TABLE IF NOT EXISTS entries (
    namespace TEXT NOT NULL,
    key TEXT NOT NULL,
    value BLOB NOT NULL,
    updated_at TEXT NOT NULL,
    PRIMARY KEY (namespace, key)
);
`)
	return err
}

// Load returns every entry stored for namespace.
func (m *SQLiteMirror) Load(namespace string) (map[string][]byte, error) {
	rows, err := m.db.Query(`SELECT key, value FROM entries WHERE namespace = ?`, namespace)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]byte)
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		out[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Put upserts one entry.
func (m *SQLiteMirror) Put(namespace, key string, value []byte) error {
	_, err := m.db.Exec(`INSERT OR REPLACE INTO entries (namespace, key, value, updated_at) VALUES (?, ?, ?, ?)`,
		namespace, key, value, time.Now().UTC().Format(time.RFC3339))
	return err
}

// Delete removes one entry.
func (m *SQLiteMirror) Delete(namespace, key string) error {
	_, err := m.db.Exec(`DELETE FROM entries WHERE namespace = ? AND key = ?`, namespace, key)
	return err
}

// Clear removes every entry of namespace.
func (m *SQLiteMirror) Clear(namespace string) error {
	_, err := m.db.Exec(`DELETE FROM entries WHERE namespace = ?`, namespace)
	return err
}
