// Package memory provides append-only storage for durable notes about
// conversations. Entries are never updated or deleted: superseding
// information is recorded as a new entry.
package memory

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store provides SQLite-backed storage for memory entries.
type Store struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex
}

// DefaultDBPath returns the default path for the memory database.
func DefaultDBPath() string {
	return filepath.Join(".gala", "memory.db")
}

// NewStore creates a new Store with the given database path.
// It creates the parent directories if they don't exist.
func NewStore(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for concurrent reads
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	store := &Store{
		db:     conn,
		dbPath: dbPath,
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Path returns the path to the database file.
func (s *Store) Path() string {
	return s.dbPath
}

// Migrate creates the necessary tables and indexes if they don't exist.
func (s *Store) Migrate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Create schema version table
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS memory_schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return err
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM memory_schema_version")
	if err := row.Scan(&currentVersion); err != nil {
		return err
	}

	// Apply migrations
	migrations := []struct {
		version int
		sql     string
	}{
		{1, migrationV1Memories},
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}

		tx, err := s.db.Begin()
		if err != nil {
			return err
		}

		if _, err := tx.Exec(m.sql); err != nil {
			tx.Rollback()
			return err
		}

		if _, err := tx.Exec("INSERT INTO memory_schema_version (version) VALUES (?)", m.version); err != nil {
			tx.Rollback()
			return err
		}

		if err := tx.Commit(); err != nil {
			return err
		}
	}

	return nil
}

// Migration SQL statements
const migrationV1Memories = `
CREATE TABLE IF NOT EXISTS memories (
	id TEXT PRIMARY KEY,
	tenant_id TEXT NOT NULL DEFAULT '',
	conversation_id TEXT NOT NULL,
	memory_type TEXT NOT NULL,
	content TEXT NOT NULL,
	context TEXT,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_memories_conversation ON memories(tenant_id, conversation_id);
CREATE INDEX IF NOT EXISTS idx_memories_type ON memories(tenant_id, memory_type);
`

// Helper functions

// formatTime formats a time.Time for SQLite storage.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// parseTime parses a time string from SQLite.
func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// nullString converts a string to sql.NullString, treating empty as null.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
