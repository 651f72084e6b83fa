package models

// Phase represents a stage in the conversation lifecycle.
type Phase string

const (
	// PhaseRequirements indicates the coordinator is gathering event details.
	PhaseRequirements Phase = "requirements_analysis"
	// PhaseProposal indicates a proposal has been drafted and awaits a decision.
	PhaseProposal Phase = "proposal"
	// PhaseImplementation indicates approved work is being delegated to agents.
	PhaseImplementation Phase = "implementation"
	// PhaseMonitoring indicates delegated work has finished and is being tracked.
	PhaseMonitoring Phase = "monitoring"
	// PhaseCompleted indicates the conversation is closed.
	PhaseCompleted Phase = "completed"
)

// Valid returns true if the phase is a known value.
func (p Phase) Valid() bool {
	switch p {
	case PhaseRequirements, PhaseProposal, PhaseImplementation, PhaseMonitoring, PhaseCompleted:
		return true
	default:
		return false
	}
}

// Terminal returns true if no transition leaves this phase.
func (p Phase) Terminal() bool {
	return p == PhaseCompleted
}

// CanTransition returns true if the lifecycle allows moving from p to next.
// The forward path is requirements_analysis -> proposal -> implementation ->
// monitoring -> completed. A conversation may also return to
// requirements_analysis from any non-terminal phase when the user asks to
// revise the event details. Nothing leaves completed.
func (p Phase) CanTransition(next Phase) bool {
	if p == PhaseCompleted {
		return false
	}
	if next == PhaseRequirements {
		return p != PhaseRequirements
	}
	switch p {
	case PhaseRequirements:
		return next == PhaseProposal
	case PhaseProposal:
		return next == PhaseImplementation
	case PhaseImplementation:
		return next == PhaseMonitoring
	case PhaseMonitoring:
		return next == PhaseCompleted
	default:
		return false
	}
}
