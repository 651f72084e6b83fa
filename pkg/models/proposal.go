package models

import "time"

// ProposalStatus represents the decision state of a proposal.
type ProposalStatus string

const (
	// ProposalPending indicates the proposal awaits a user decision.
	ProposalPending ProposalStatus = "pending"
	// ProposalApproved indicates the user approved the proposal.
	ProposalApproved ProposalStatus = "approved"
	// ProposalRejected indicates the user rejected the proposal.
	ProposalRejected ProposalStatus = "rejected"
)

// Valid returns true if the status is a known value.
func (s ProposalStatus) Valid() bool {
	switch s {
	case ProposalPending, ProposalApproved, ProposalRejected:
		return true
	default:
		return false
	}
}

// Proposal is a drafted event plan presented to the user for a decision.
type Proposal struct {
	// Content is the full proposal text.
	Content string `json:"content"`
	// Status is the decision state of the proposal.
	Status ProposalStatus `json:"status"`
	// CreatedAt is when the proposal was generated.
	CreatedAt time.Time `json:"created_at"`
}

// Summary returns the proposal content for display. A nil or empty proposal
// renders as "Not yet generated" so reports never fail on its absence.
func (p *Proposal) Summary() string {
	if p == nil || p.Content == "" {
		return "Not yet generated"
	}
	return p.Content
}
