package models

import "time"

// MemoryType classifies a durable note about a conversation.
type MemoryType string

const (
	// MemoryPhaseChange records a phase transition.
	MemoryPhaseChange MemoryType = "phase_change"
	// MemoryProposal records proposal creation or a decision on it.
	MemoryProposal MemoryType = "proposal"
	// MemoryDelegation records the outcome of a delegated assignment.
	MemoryDelegation MemoryType = "delegation"
	// MemoryClosure records the conversation being closed.
	MemoryClosure MemoryType = "closure"
	// MemoryNote records any other durable observation.
	MemoryNote MemoryType = "note"
)

// Valid returns true if the memory type is a known value.
func (m MemoryType) Valid() bool {
	switch m {
	case MemoryPhaseChange, MemoryProposal, MemoryDelegation, MemoryClosure, MemoryNote:
		return true
	default:
		return false
	}
}

// MemoryEntry is a durable note about a conversation. Entries are append
// only: superseding information is stored as a new entry, never an edit.
type MemoryEntry struct {
	// ID is the unique identifier for this entry.
	ID string `json:"id"`
	// ConversationID is the conversation this entry belongs to.
	ConversationID string `json:"conversation_id"`
	// TenantID scopes the entry to a tenant. Empty means global.
	TenantID string `json:"tenant_id,omitempty"`
	// MemoryType classifies the entry.
	MemoryType MemoryType `json:"memory_type"`
	// Content is the note itself.
	Content string `json:"content"`
	// Context carries supporting detail (source phase, agent type, etc).
	Context string `json:"context,omitempty"`
	// Timestamp is when the entry was recorded.
	Timestamp time.Time `json:"timestamp"`
}
