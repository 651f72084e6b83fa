package memory

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/festwork/gala/pkg/models"
)

// Append records a new memory entry. It assigns an ID and timestamp when
// the caller left them empty. There is no corresponding update or delete.
func (s *Store) Append(entry *models.MemoryEntry) error {
	if entry == nil {
		return fmt.Errorf("append memory: entry is nil")
	}
	if !entry.MemoryType.Valid() {
		return fmt.Errorf("append memory: unknown memory type %q", entry.MemoryType)
	}
	if entry.ConversationID == "" {
		return fmt.Errorf("append memory: conversation id is required")
	}

	if entry.ID == "" {
		entry.ID = "mem-" + uuid.New().String()[:8]
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO memories (id, tenant_id, conversation_id, memory_type, content, context, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		entry.ID,
		entry.TenantID,
		entry.ConversationID,
		string(entry.MemoryType),
		entry.Content,
		nullString(entry.Context),
		formatTime(entry.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("insert memory: %w", err)
	}

	return nil
}

// ForConversation returns every entry recorded for the conversation under
// the tenant, in insertion order.
func (s *Store) ForConversation(tenantID, conversationID string) ([]models.MemoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, tenant_id, conversation_id, memory_type, content, context, created_at
		FROM memories
		WHERE tenant_id = ? AND conversation_id = ?
		ORDER BY rowid ASC
	`, tenantID, conversationID)
	if err != nil {
		return nil, fmt.Errorf("query memories: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Recent returns the most recent entries for the tenant, newest first.
func (s *Store) Recent(tenantID string, limit int) ([]models.MemoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, tenant_id, conversation_id, memory_type, content, context, created_at
		FROM memories
		WHERE tenant_id = ?
		ORDER BY rowid DESC
		LIMIT ?
	`, tenantID, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent memories: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// RecentByType returns the most recent entries of one type for the tenant,
// newest first.
func (s *Store) RecentByType(tenantID string, memoryType models.MemoryType, limit int) ([]models.MemoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, tenant_id, conversation_id, memory_type, content, context, created_at
		FROM memories
		WHERE tenant_id = ? AND memory_type = ?
		ORDER BY rowid DESC
		LIMIT ?
	`, tenantID, string(memoryType), limit)
	if err != nil {
		return nil, fmt.Errorf("query memories by type: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Global returns the most recent entries that are not scoped to any tenant,
// newest first.
func (s *Store) Global(limit int) ([]models.MemoryEntry, error) {
	return s.Recent("", limit)
}

// scanEntries reads memory rows into entries.
func scanEntries(rows *sql.Rows) ([]models.MemoryEntry, error) {
	var entries []models.MemoryEntry
	for rows.Next() {
		var (
			entry     models.MemoryEntry
			memType   string
			context   sql.NullString
			createdAt string
		)
		if err := rows.Scan(&entry.ID, &entry.TenantID, &entry.ConversationID, &memType, &entry.Content, &context, &createdAt); err != nil {
			return nil, fmt.Errorf("scan memory row: %w", err)
		}
		entry.MemoryType = models.MemoryType(memType)
		if context.Valid {
			entry.Context = context.String
		}
		if t, err := parseTime(createdAt); err == nil {
			entry.Timestamp = t
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
