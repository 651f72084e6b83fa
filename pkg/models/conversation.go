package models

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a conversation message.
type Role string

const (
	// RoleUser marks a message written by the end user.
	RoleUser Role = "user"
	// RoleAssistant marks a message written by the coordinator.
	RoleAssistant Role = "assistant"
	// RoleSystem marks an instruction record carried in history.
	RoleSystem Role = "system"
)

// Valid returns true if the role is a known value.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	default:
		return false
	}
}

// Message is a single entry in the conversation transcript.
type Message struct {
	// Role identifies who authored the message.
	Role Role `json:"role"`
	// Content is the message text.
	Content string `json:"content"`
	// Timestamp is when the message was recorded, if known.
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// ConversationState is the full state of one planning conversation. It is
// exclusively owned by the coordinator for the duration of a turn; the
// conversation store owns the durable copy between turns.
type ConversationState struct {
	// ConversationID is the unique identifier for this conversation.
	ConversationID string `json:"conversation_id"`
	// TenantID is the isolation boundary this conversation belongs to.
	TenantID string `json:"tenant_id"`
	// Messages is the ordered conversation transcript.
	Messages []Message `json:"messages"`
	// CurrentPhase is the lifecycle phase the conversation is in.
	CurrentPhase Phase `json:"current_phase"`
	// NextSteps lists pending action names for reporting.
	NextSteps []string `json:"next_steps,omitempty"`
	// EventDetails holds the event attributes gathered so far.
	EventDetails EventDetails `json:"event_details"`
	// Proposal is the drafted plan, once one has been generated.
	Proposal *Proposal `json:"proposal,omitempty"`
	// AgentAssignments is the ordered ledger of delegated work.
	AgentAssignments []Assignment `json:"agent_assignments"`
	// ResourcePlan is the structured plan folded from agent results.
	ResourcePlan *ResourcePlan `json:"resource_plan,omitempty"`
	// CreatedAt is when the conversation started.
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is when the conversation state last changed.
	UpdatedAt time.Time `json:"updated_at"`
}

// NewConversationID returns a fresh conversation identifier.
func NewConversationID() string {
	return "conv-" + uuid.New().String()[:8]
}

// NewConversationState constructs a conversation in the initial phase. This
// is the only construction path; it guarantees the assignment ledger starts
// as an empty list rather than absent.
func NewConversationState(tenantID, conversationID string) *ConversationState {
	now := time.Now().UTC()
	return &ConversationState{
		ConversationID:   conversationID,
		TenantID:         tenantID,
		Messages:         []Message{},
		CurrentPhase:     PhaseRequirements,
		AgentAssignments: []Assignment{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// AppendMessage adds a message to the transcript with the given timestamp.
func (s *ConversationState) AppendMessage(role Role, content string, at time.Time) {
	ts := at
	s.Messages = append(s.Messages, Message{Role: role, Content: content, Timestamp: &ts})
	s.UpdatedAt = at
}

// LastUserMessage returns the content of the most recent user message, or
// an empty string if the transcript has none.
func (s *ConversationState) LastUserMessage() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleUser {
			return s.Messages[i].Content
		}
	}
	return ""
}

// EnsureAssignments initializes the assignment ledger if a caller left it
// nil. Construction already guarantees a non-nil ledger; this keeps the
// invariant when states arrive from older stored documents.
func (s *ConversationState) EnsureAssignments() {
	if s.AgentAssignments == nil {
		s.AgentAssignments = []Assignment{}
	}
}

// HasOpenAssignment reports whether the ledger already holds a pending or
// in-progress assignment for the same agent type and task text.
func (s *ConversationState) HasOpenAssignment(agentType AgentType, task string) bool {
	for i := range s.AgentAssignments {
		a := &s.AgentAssignments[i]
		if a.AgentType == agentType && a.Task == task && a.Open() {
			return true
		}
	}
	return false
}

// AllAssignmentsTerminal returns true when every ledger entry has reached a
// terminal status. An empty ledger counts as not terminal so the phase
// machine does not skip implementation before anything was delegated.
func (s *ConversationState) AllAssignmentsTerminal() bool {
	if len(s.AgentAssignments) == 0 {
		return false
	}
	for i := range s.AgentAssignments {
		if s.AgentAssignments[i].Open() {
			return false
		}
	}
	return true
}

// AssignmentTally returns the number of assignments per status.
func (s *ConversationState) AssignmentTally() map[AssignmentStatus]int {
	tally := make(map[AssignmentStatus]int)
	for i := range s.AgentAssignments {
		tally[s.AgentAssignments[i].Status]++
	}
	return tally
}

// TurnResult summarizes one processed conversation turn.
type TurnResult struct {
	// Reply is the assistant message produced by the turn.
	Reply string `json:"reply"`
	// State is the conversation state after the turn persisted.
	State *ConversationState `json:"state"`
	// PhaseChanged is true if the turn moved the conversation to a new phase.
	PhaseChanged bool `json:"phase_changed"`
	// Delegated is the number of new assignments dispatched during the turn.
	Delegated int `json:"delegated"`
}
