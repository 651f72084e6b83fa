package coordinator

import (
	"log"
	"sync/atomic"
	"time"

	"github.com/festwork/gala/pkg/models"
)

// EventType represents the kind of coordinator event.
type EventType string

const (
	// EventPhaseChanged indicates the conversation moved to a new phase.
	EventPhaseChanged EventType = "phase_changed"
	// EventProposalReady indicates a proposal was drafted for review.
	EventProposalReady EventType = "proposal_ready"
	// EventAssignmentStarted indicates an assignment was handed to an agent.
	EventAssignmentStarted EventType = "assignment_started"
	// EventAssignmentCompleted indicates an assignment finished successfully.
	EventAssignmentCompleted EventType = "assignment_completed"
	// EventAssignmentFailed indicates an assignment failed.
	EventAssignmentFailed EventType = "assignment_failed"
	// EventTurnCompleted indicates a turn was processed and persisted.
	EventTurnCompleted EventType = "turn_completed"
)

// Event is a progress notification emitted while a turn is processed.
// Subscribers (the chat REPL, logs) use these to show activity as it
// happens rather than only the final reply.
type Event struct {
	// Type is the kind of event.
	Type EventType
	// TenantID is the tenant of the conversation that produced the event.
	TenantID string
	// ConversationID is the conversation that produced the event.
	ConversationID string
	// Phase is the conversation phase after the event, where applicable.
	Phase models.Phase
	// AgentType is the related agent type for assignment events.
	AgentType models.AgentType
	// Message provides additional context about the event.
	Message string
	// Error carries failure detail for assignment_failed events.
	Error error
	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// DefaultEventBuffer is the event channel capacity used when a Config does
// not set one.
const DefaultEventBuffer = 64

// Emitter fans coordinator events out to a subscriber. Emission never
// blocks a turn: when the buffer is full the event is dropped and counted.
type Emitter struct {
	events  chan Event
	dropped atomic.Uint64
}

// NewEmitter creates an Emitter with the given buffer size.
func NewEmitter(bufferSize int) *Emitter {
	if bufferSize <= 0 {
		bufferSize = DefaultEventBuffer
	}
	return &Emitter{events: make(chan Event, bufferSize)}
}

// Emit sends an event without blocking. Events that do not fit in the
// buffer are dropped; drops are counted and logged sparsely.
func (e *Emitter) Emit(event Event) {
	select {
	case e.events <- event:
	default:
		count := e.dropped.Add(1)
		if count%10 == 1 {
			log.Printf("[Coordinator] event channel full, dropped event (total dropped: %d): type=%s", count, event.Type)
		}
	}
}

// Events returns the read-only channel subscribers receive on.
func (e *Emitter) Events() <-chan Event {
	return e.events
}

// DroppedCount returns how many events have been dropped so far.
func (e *Emitter) DroppedCount() uint64 {
	return e.dropped.Load()
}

// Close closes the event channel. Call only after the last turn finished.
func (e *Emitter) Close() {
	close(e.events)
}
