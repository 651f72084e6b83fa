package state

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/festwork/gala/pkg/models"
)

// ErrNotFound is returned when no conversation exists for the requested
// tenant and conversation id.
var ErrNotFound = errors.New("conversation not found")

// SaveConversation persists the full conversation state. The document row
// and the assignments index are written in one transaction so a failed save
// leaves the previous state intact. Callers must treat an error as fatal to
// the turn: the in-memory state and the stored state have diverged.
func (db *DB) SaveConversation(state *models.ConversationState) error {
	if state == nil {
		return fmt.Errorf("save conversation: nil state")
	}
	if state.TenantID == "" || state.ConversationID == "" {
		return fmt.Errorf("save conversation: missing tenant or conversation id")
	}

	doc, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal conversation state: %w", err)
	}

	return db.Transaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO conversations (tenant_id, conversation_id, current_phase, state_json, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(tenant_id, conversation_id) DO UPDATE SET
				current_phase = excluded.current_phase,
				state_json = excluded.state_json,
				updated_at = excluded.updated_at
		`, state.TenantID, state.ConversationID, string(state.CurrentPhase), string(doc),
			formatTime(state.CreatedAt), formatTime(state.UpdatedAt))
		if err != nil {
			return fmt.Errorf("upsert conversation: %w", err)
		}

		// Rebuild the assignments index for this conversation.
		_, err = tx.Exec(`
			DELETE FROM assignments WHERE tenant_id = ? AND conversation_id = ?
		`, state.TenantID, state.ConversationID)
		if err != nil {
			return fmt.Errorf("clear assignments index: %w", err)
		}

		for i := range state.AgentAssignments {
			a := &state.AgentAssignments[i]
			_, err = tx.Exec(`
				INSERT INTO assignments (id, tenant_id, conversation_id, agent_type, task, status, created_at, completed_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			`, a.ID, state.TenantID, state.ConversationID, string(a.AgentType), a.Task,
				string(a.Status), formatTime(a.CreatedAt), formatNullableTime(a.CompletedAt))
			if err != nil {
				return fmt.Errorf("index assignment %s: %w", a.ID, err)
			}
		}

		return nil
	})
}

// LoadConversation retrieves the conversation state for the given tenant and
// conversation id. Returns ErrNotFound if no such conversation exists.
func (db *DB) LoadConversation(tenantID, conversationID string) (*models.ConversationState, error) {
	row := db.QueryRow(`
		SELECT state_json FROM conversations
		WHERE tenant_id = ? AND conversation_id = ?
	`, tenantID, conversationID)

	var doc string
	if err := row.Scan(&doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load conversation: %w", err)
	}

	state := &models.ConversationState{}
	if err := json.Unmarshal([]byte(doc), state); err != nil {
		return nil, fmt.Errorf("unmarshal conversation state: %w", err)
	}

	// Older documents may predate the always-initialized ledger.
	state.EnsureAssignments()

	return state, nil
}

// ConversationSummary is a reporting row for one stored conversation.
type ConversationSummary struct {
	// ConversationID identifies the conversation.
	ConversationID string
	// Phase is the stored lifecycle phase.
	Phase models.Phase
	// UpdatedAt is when the conversation last changed.
	UpdatedAt time.Time
	// Assignments counts ledger entries by status.
	Assignments map[models.AssignmentStatus]int
}

// ListConversations returns summaries for every conversation under the
// tenant, most recently updated first.
func (db *DB) ListConversations(tenantID string) ([]ConversationSummary, error) {
	rows, err := db.Query(`
		SELECT conversation_id, current_phase, updated_at
		FROM conversations
		WHERE tenant_id = ?
		ORDER BY updated_at DESC
	`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	var summaries []ConversationSummary
	for rows.Next() {
		var s ConversationSummary
		var phase, updated string
		if err := rows.Scan(&s.ConversationID, &phase, &updated); err != nil {
			return nil, fmt.Errorf("scan conversation row: %w", err)
		}
		s.Phase = models.Phase(phase)
		if t, err := parseTime(updated); err == nil {
			s.UpdatedAt = t
		}
		s.Assignments = make(map[models.AssignmentStatus]int)
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conversations: %w", err)
	}

	for i := range summaries {
		if err := db.fillAssignmentTally(tenantID, &summaries[i]); err != nil {
			return nil, err
		}
	}

	return summaries, nil
}

// fillAssignmentTally loads per-status assignment counts from the index.
func (db *DB) fillAssignmentTally(tenantID string, s *ConversationSummary) error {
	rows, err := db.Query(`
		SELECT status, COUNT(*) FROM assignments
		WHERE tenant_id = ? AND conversation_id = ?
		GROUP BY status
	`, tenantID, s.ConversationID)
	if err != nil {
		return fmt.Errorf("tally assignments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return fmt.Errorf("scan assignment tally: %w", err)
		}
		s.Assignments[models.AssignmentStatus(status)] = count
	}
	return rows.Err()
}

// PurgeCompleted deletes completed conversations that have not been updated
// within the given duration. Returns the number of conversations deleted.
func (db *DB) PurgeCompleted(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	cutoffStr := formatTime(cutoff)

	var purged int64
	err := db.Transaction(func(tx *sql.Tx) error {
		rows, err := tx.Query(`
			SELECT tenant_id, conversation_id FROM conversations
			WHERE current_phase = ? AND updated_at < ?
		`, string(models.PhaseCompleted), cutoffStr)
		if err != nil {
			return fmt.Errorf("find purgeable conversations: %w", err)
		}

		type key struct{ tenant, conv string }
		var keys []key
		for rows.Next() {
			var k key
			if err := rows.Scan(&k.tenant, &k.conv); err != nil {
				rows.Close()
				return fmt.Errorf("scan purgeable conversation: %w", err)
			}
			keys = append(keys, k)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterate purgeable conversations: %w", err)
		}

		for _, k := range keys {
			if _, err := tx.Exec(`DELETE FROM assignments WHERE tenant_id = ? AND conversation_id = ?`, k.tenant, k.conv); err != nil {
				return fmt.Errorf("purge assignments: %w", err)
			}
			if _, err := tx.Exec(`DELETE FROM conversations WHERE tenant_id = ? AND conversation_id = ?`, k.tenant, k.conv); err != nil {
				return fmt.Errorf("purge conversation: %w", err)
			}
			purged++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return purged, nil
}
