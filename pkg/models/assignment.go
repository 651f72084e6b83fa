package models

import "time"

// AgentType identifies a specialized planning agent category.
type AgentType string

const (
	// AgentResourcePlanning handles venues, equipment, and staffing research.
	AgentResourcePlanning AgentType = "resource_planning"
	// AgentFinancial handles budget breakdowns and cost estimates.
	AgentFinancial AgentType = "financial"
	// AgentStakeholderManagement handles attendee and sponsor coordination.
	AgentStakeholderManagement AgentType = "stakeholder_management"
	// AgentMarketingCommunications handles announcements and outreach copy.
	AgentMarketingCommunications AgentType = "marketing_communications"
	// AgentProjectManagement handles timelines and task sequencing.
	AgentProjectManagement AgentType = "project_management"
)

// Valid returns true if the agent type is a known value.
func (a AgentType) Valid() bool {
	switch a {
	case AgentResourcePlanning, AgentFinancial, AgentStakeholderManagement,
		AgentMarketingCommunications, AgentProjectManagement:
		return true
	default:
		return false
	}
}

// AllAgentTypes returns every known agent type in registry order.
func AllAgentTypes() []AgentType {
	return []AgentType{
		AgentResourcePlanning,
		AgentFinancial,
		AgentStakeholderManagement,
		AgentMarketingCommunications,
		AgentProjectManagement,
	}
}

// AssignmentStatus represents the current state of a delegated assignment.
type AssignmentStatus string

const (
	// AssignmentPending indicates the assignment has been created but not dispatched.
	AssignmentPending AssignmentStatus = "pending"
	// AssignmentInProgress indicates the agent capability is executing the task.
	AssignmentInProgress AssignmentStatus = "in_progress"
	// AssignmentCompleted indicates the agent finished and a result is recorded.
	AssignmentCompleted AssignmentStatus = "completed"
	// AssignmentFailed indicates the agent failed and an error is recorded.
	AssignmentFailed AssignmentStatus = "failed"
)

// Valid returns true if the status is a known value.
func (s AssignmentStatus) Valid() bool {
	switch s {
	case AssignmentPending, AssignmentInProgress, AssignmentCompleted, AssignmentFailed:
		return true
	default:
		return false
	}
}

// Terminal returns true if the status is final.
func (s AssignmentStatus) Terminal() bool {
	return s == AssignmentCompleted || s == AssignmentFailed
}

// AssignmentError describes why an assignment failed.
type AssignmentError struct {
	// ErrorType classifies the failure (e.g. Timeout, AgentError).
	ErrorType string `json:"error_type"`
	// ErrorMessage is the human-readable failure description.
	ErrorMessage string `json:"error_message"`
}

// TaskResult is the structured payload returned by a successful agent call.
type TaskResult struct {
	// Summary is a short description of what the agent produced.
	Summary string `json:"summary"`
	// Detail is the full agent output.
	Detail string `json:"detail,omitempty"`
	// Model is the model that produced the output, if known.
	Model string `json:"model,omitempty"`
	// ElapsedMS is the wall-clock duration of the agent call in milliseconds.
	ElapsedMS int64 `json:"elapsed_ms,omitempty"`
}

// Assignment is a tracked unit of work delegated to one specialized agent.
type Assignment struct {
	// ID is the unique identifier for this assignment.
	ID string `json:"id"`
	// AgentType is the specialized agent category the task was given to.
	AgentType AgentType `json:"agent_type"`
	// Task is the task description handed to the agent.
	Task string `json:"task"`
	// Status is the current state of the assignment.
	Status AssignmentStatus `json:"status"`
	// CreatedAt is when the assignment was created.
	CreatedAt time.Time `json:"created_at"`
	// CompletedAt is when the assignment reached a terminal status, if it has.
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	// Result holds the agent output when the assignment completed.
	Result *TaskResult `json:"result,omitempty"`
	// Error holds the failure details when the assignment failed.
	Error *AssignmentError `json:"error,omitempty"`
}

// Open returns true while the assignment has not reached a terminal status.
func (a *Assignment) Open() bool {
	return !a.Status.Terminal()
}
