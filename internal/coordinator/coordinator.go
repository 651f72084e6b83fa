// Package coordinator implements the orchestration core of the event
// planner: the phase state machine, intent classification, and the turn
// handler that ties detail extraction, proposal drafting, delegation, and
// persistence together.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/festwork/gala/internal/state"
	"github.com/festwork/gala/pkg/models"
)

// Generator is the narrow slice of the generation client the coordinator
// uses. *api.Client satisfies it; tests inject fakes.
type Generator interface {
	// Generate returns the assistant text for the given system preamble and
	// transcript.
	Generate(ctx context.Context, system string, msgs []models.Message) (string, error)
	// GenerateJSON decodes the first JSON object of the reply into out.
	GenerateJSON(ctx context.Context, system string, msgs []models.Message, out any) error
}

// Store persists conversation state between turns. *state.DB satisfies
// it.
type Store interface {
	// LoadConversation returns the stored state or state.ErrNotFound.
	LoadConversation(tenantID, conversationID string) (*models.ConversationState, error)
	// SaveConversation writes the state durably.
	SaveConversation(conv *models.ConversationState) error
}

// Memory records durable notes about conversations. *memory.Store
// satisfies it.
type Memory interface {
	// Append stores one note. Entries are never updated or deleted.
	Append(entry *models.MemoryEntry) error
}

// Delegation dispatches assignments for an approved proposal.
// *delegate.Delegator satisfies it.
type Delegation interface {
	// Delegate derives, dedupes, and runs assignments, mutating conv.
	Delegate(ctx context.Context, conv *models.ConversationState) error
}

// Config configures a Coordinator.
type Config struct {
	// Store persists conversation state between turns. Required.
	Store Store
	// Generator produces extractions and proposals. Required.
	Generator Generator
	// Delegator dispatches assignments when a proposal is approved.
	// Required.
	Delegator Delegation
	// Memory records durable notes about the conversation. Nil disables
	// notes.
	Memory Memory
	// StrictApproval refuses to act on an approval while required event
	// details are missing. The default accepts the approval anyway and
	// logs the bypassed fields.
	StrictApproval bool
	// EventBuffer sizes the event channel. Zero uses DefaultEventBuffer.
	EventBuffer int
	// Now supplies timestamps. Defaults to time.Now; tests override it.
	Now func() time.Time
}

// Coordinator processes conversation turns. One Coordinator serves many
// conversations; turns for the same conversation are serialized, turns for
// different conversations run independently.
type Coordinator struct {
	store     Store
	memory    Memory
	gen       Generator
	delegator Delegation
	strict    bool
	emitter   *Emitter
	locks     *conversationLocks
	now       func() time.Time
}

// New creates a Coordinator from the given config.
func New(cfg Config) (*Coordinator, error) {
	if cfg.Store == nil {
		return nil, errors.New("coordinator: store is required")
	}
	if cfg.Generator == nil {
		return nil, errors.New("coordinator: generator is required")
	}
	if cfg.Delegator == nil {
		return nil, errors.New("coordinator: delegator is required")
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Coordinator{
		store:     cfg.Store,
		memory:    cfg.Memory,
		gen:       cfg.Generator,
		delegator: cfg.Delegator,
		strict:    cfg.StrictApproval,
		emitter:   NewEmitter(cfg.EventBuffer),
		locks:     newConversationLocks(),
		now:       now,
	}, nil
}

// Events returns the channel coordinator events are emitted on.
func (c *Coordinator) Events() <-chan Event {
	return c.emitter.Events()
}

// Close closes the event channel. Call only after the last turn finished.
func (c *Coordinator) Close() {
	c.emitter.Close()
}

// Turn processes one user message for a conversation and returns the
// resulting reply and state snapshot. The state is loaded (or created),
// mutated according to the current phase, and persisted before returning;
// a persistence failure fails the whole turn because reporting an outcome
// the store never recorded would desynchronize the user from the ledger.
func (c *Coordinator) Turn(ctx context.Context, tenantID, conversationID, userText string) (*models.TurnResult, error) {
	if tenantID == "" {
		return nil, errors.New("turn: tenant id is required")
	}
	if conversationID == "" {
		return nil, errors.New("turn: conversation id is required")
	}
	if strings.TrimSpace(userText) == "" {
		return nil, errors.New("turn: message is empty")
	}

	unlock := c.locks.lock(tenantID + "/" + conversationID)
	defer unlock()

	conv, err := c.loadOrCreate(tenantID, conversationID)
	if err != nil {
		return nil, err
	}

	prevPhase := conv.CurrentPhase
	conv.AppendMessage(models.RoleUser, userText, c.now())

	reply, delegated := c.dispatch(ctx, conv, userText)
	conv.AppendMessage(models.RoleAssistant, reply, c.now())

	if conv.CurrentPhase != prevPhase {
		c.remember(conv, models.MemoryPhaseChange,
			fmt.Sprintf("moved from %s to %s", prevPhase, conv.CurrentPhase),
			string(prevPhase))
		c.emit(Event{
			Type:           EventPhaseChanged,
			TenantID:       tenantID,
			ConversationID: conversationID,
			Phase:          conv.CurrentPhase,
			Message:        fmt.Sprintf("%s -> %s", prevPhase, conv.CurrentPhase),
		})
	}

	if err := c.store.SaveConversation(conv); err != nil {
		return nil, fmt.Errorf("persist turn for %s: %w", conversationID, err)
	}

	c.emit(Event{
		Type:           EventTurnCompleted,
		TenantID:       tenantID,
		ConversationID: conversationID,
		Phase:          conv.CurrentPhase,
	})

	return &models.TurnResult{
		Reply:        reply,
		State:        conv,
		PhaseChanged: conv.CurrentPhase != prevPhase,
		Delegated:    delegated,
	}, nil
}

// loadOrCreate fetches the conversation from the store, starting a fresh
// one when the store has never seen it.
func (c *Coordinator) loadOrCreate(tenantID, conversationID string) (*models.ConversationState, error) {
	conv, err := c.store.LoadConversation(tenantID, conversationID)
	if errors.Is(err, state.ErrNotFound) {
		log.Printf("[Coordinator] starting conversation %s for tenant %s", conversationID, tenantID)
		return models.NewConversationState(tenantID, conversationID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load conversation %s: %w", conversationID, err)
	}
	conv.EnsureAssignments()
	return conv, nil
}

// setPhase applies a lifecycle transition, refusing moves the phase
// machine does not allow.
func (c *Coordinator) setPhase(conv *models.ConversationState, next models.Phase) {
	if !conv.CurrentPhase.CanTransition(next) {
		log.Printf("[Coordinator] refusing phase change %s -> %s for %s", conv.CurrentPhase, next, conv.ConversationID)
		return
	}
	conv.CurrentPhase = next
}

// remember appends a durable note, logging instead of failing the turn
// when the memory store has trouble.
func (c *Coordinator) remember(conv *models.ConversationState, mt models.MemoryType, content, context string) {
	if c.memory == nil {
		return
	}
	entry := &models.MemoryEntry{
		ConversationID: conv.ConversationID,
		TenantID:       conv.TenantID,
		MemoryType:     mt,
		Content:        content,
		Context:        context,
		Timestamp:      c.now(),
	}
	if err := c.memory.Append(entry); err != nil {
		log.Printf("[Coordinator] memory write failed for %s: %v", conv.ConversationID, err)
	}
}

// emit publishes an event, stamping the time if the caller did not.
func (c *Coordinator) emit(ev Event) {
	if c.emitter == nil {
		return
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = c.now()
	}
	c.emitter.Emit(ev)
}
