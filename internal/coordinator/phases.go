package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/festwork/gala/pkg/models"
)

// completedNotice is the absorbing reply once a conversation is closed.
const completedNotice = "This conversation has been closed. Start a new conversation whenever you want to plan another event."

// dispatch routes one turn to the handler for the current phase and returns
// the reply plus the number of assignments delegated during the turn.
func (c *Coordinator) dispatch(ctx context.Context, conv *models.ConversationState, userText string) (string, int) {
	intent := ClassifyIntent(userText)

	// An explicit revision request reopens requirements from any phase the
	// lifecycle allows it from.
	if intent == IntentRevise && conv.CurrentPhase.CanTransition(models.PhaseRequirements) {
		return c.revertToRequirements(conv), 0
	}

	switch conv.CurrentPhase {
	case models.PhaseRequirements:
		return c.handleRequirements(ctx, conv), 0
	case models.PhaseProposal:
		return c.handleProposal(ctx, conv, intent)
	case models.PhaseImplementation:
		return c.handleImplementation(conv), 0
	case models.PhaseMonitoring:
		return c.handleMonitoring(conv, intent), 0
	case models.PhaseCompleted:
		return completedNotice, 0
	default:
		log.Printf("[Coordinator] conversation %s carries unknown phase %q, restarting requirements", conv.ConversationID, conv.CurrentPhase)
		conv.CurrentPhase = models.PhaseRequirements
		return c.handleRequirements(ctx, conv), 0
	}
}

// handleProposal reacts to the user's decision on the pending proposal.
func (c *Coordinator) handleProposal(ctx context.Context, conv *models.ConversationState, intent Intent) (string, int) {
	switch intent {
	case IntentApprove:
		return c.approveProposal(ctx, conv)
	case IntentReject:
		if conv.Proposal != nil {
			conv.Proposal.Status = models.ProposalRejected
		}
		c.remember(conv, models.MemoryProposal, "proposal rejected", string(models.ProposalRejected))
		return "Understood, I won't move ahead with this plan. What should change? Tell me and I'll rework the proposal, or say \"change the requirements\" to start from the details again.", 0
	default:
		if conv.Proposal != nil && conv.Proposal.Status == models.ProposalRejected {
			return c.redraftProposal(ctx, conv), 0
		}
		return "The proposal is waiting on your decision. Say \"approve the proposal\" to move ahead, or tell me what you don't like about it.", 0
	}
}

// approveProposal marks the proposal approved, advances to implementation,
// and hands the approved work to the delegator within the same turn so the
// acknowledgment and the kickoff can never drift apart.
func (c *Coordinator) approveProposal(ctx context.Context, conv *models.ConversationState) (string, int) {
	if missing := conv.EventDetails.Missing(); len(missing) > 0 {
		if c.strict {
			return fmt.Sprintf("Before I act on that approval I still need %s. Could you share that first?", joinAnd(friendlyDetails(missing))), 0
		}
		log.Printf("[Coordinator] approval accepted for %s with missing details: %s",
			conv.ConversationID, strings.Join(missing, ", "))
	}

	if conv.Proposal != nil {
		conv.Proposal.Status = models.ProposalApproved
	}
	c.remember(conv, models.MemoryProposal, "proposal approved", string(models.ProposalApproved))
	c.setPhase(conv, models.PhaseImplementation)

	before := len(conv.AgentAssignments)
	if err := c.delegator.Delegate(ctx, conv); err != nil {
		log.Printf("[Coordinator] delegation failed for %s: %v", conv.ConversationID, err)
		return "The proposal is approved, but I couldn't hand the work to the team just now. I'll retry on your next message.", 0
	}
	fresh := conv.AgentAssignments[before:]
	c.reportAssignments(conv, fresh)

	return approvalReply(fresh), len(fresh)
}

// redraftProposal regenerates a rejected proposal using the feedback now in
// the transcript. The conversation stays in the proposal phase.
func (c *Coordinator) redraftProposal(ctx context.Context, conv *models.ConversationState) string {
	msgs := NormalizeMessages(conv.Messages, true)
	content, err := c.gen.Generate(ctx, proposalPreamble, msgs)
	if err != nil {
		log.Printf("[Coordinator] proposal redraft failed for %s: %v", conv.ConversationID, err)
		return generationApology
	}

	conv.Proposal = &models.Proposal{
		Content:   content,
		Status:    models.ProposalPending,
		CreatedAt: c.now(),
	}
	c.remember(conv, models.MemoryProposal, "proposal redrafted", string(models.ProposalPending))
	c.emit(Event{
		Type:           EventProposalReady,
		TenantID:       conv.TenantID,
		ConversationID: conv.ConversationID,
		Phase:          conv.CurrentPhase,
	})

	return content + "\n\nHow about this version? Say \"approve the proposal\" to move ahead, or tell me what else to change."
}

// handleImplementation reports delegation progress and advances to
// monitoring once every ledger entry is terminal.
func (c *Coordinator) handleImplementation(conv *models.ConversationState) string {
	if conv.AllAssignmentsTerminal() {
		c.setPhase(conv, models.PhaseMonitoring)
		return monitoringSummary(conv)
	}

	tally := conv.AssignmentTally()
	return fmt.Sprintf("The team is still working: %d in progress, %d pending, %d completed, %d failed so far. Ask again shortly for an update.",
		tally[models.AssignmentInProgress], tally[models.AssignmentPending],
		tally[models.AssignmentCompleted], tally[models.AssignmentFailed])
}

// handleMonitoring answers status questions and closes the conversation on
// an explicit closure request.
func (c *Coordinator) handleMonitoring(conv *models.ConversationState, intent Intent) string {
	if intent == IntentClose {
		c.setPhase(conv, models.PhaseCompleted)
		tally := conv.AssignmentTally()
		c.remember(conv, models.MemoryClosure,
			fmt.Sprintf("conversation closed with %d completed and %d failed assignments",
				tally[models.AssignmentCompleted], tally[models.AssignmentFailed]),
			string(models.PhaseMonitoring))
		return closingReply(conv)
	}

	tally := conv.AssignmentTally()
	reply := fmt.Sprintf("Everything delegated has wrapped up: %d completed, %d failed.",
		tally[models.AssignmentCompleted], tally[models.AssignmentFailed])
	return reply + " Say \"close the event planning\" when you're ready to wrap up, or \"change the requirements\" if something needs revisiting."
}

// revertToRequirements reopens requirements gathering. The proposal is
// dropped and the gathered details are reset; extraction reads the whole
// transcript again, so values the user does not change are re-collected
// while revised ones take their most recent statement.
func (c *Coordinator) revertToRequirements(conv *models.ConversationState) string {
	recap := detailRecap(conv.EventDetails)
	c.setPhase(conv, models.PhaseRequirements)
	conv.Proposal = nil
	conv.EventDetails = models.EventDetails{}
	return "Of course, let's revisit the requirements. " + recap + " Tell me what should change, and repeat anything that stays the same."
}

// reportAssignments emits events and memory notes for the assignments
// created during this turn. The delegator already appended the user-facing
// failure messages; this is the observability side of the same outcomes.
func (c *Coordinator) reportAssignments(conv *models.ConversationState, fresh []models.Assignment) {
	for i := range fresh {
		a := &fresh[i]
		c.emit(Event{
			Type:           EventAssignmentStarted,
			TenantID:       conv.TenantID,
			ConversationID: conv.ConversationID,
			AgentType:      a.AgentType,
			Message:        a.Task,
		})

		switch a.Status {
		case models.AssignmentCompleted:
			summary := ""
			if a.Result != nil {
				summary = a.Result.Summary
			}
			c.emit(Event{
				Type:           EventAssignmentCompleted,
				TenantID:       conv.TenantID,
				ConversationID: conv.ConversationID,
				AgentType:      a.AgentType,
				Message:        summary,
			})
			c.remember(conv, models.MemoryDelegation,
				fmt.Sprintf("%s completed: %s", a.AgentType, summary), string(a.AgentType))
		case models.AssignmentFailed:
			var failure error
			message := ""
			if a.Error != nil {
				message = a.Error.ErrorMessage
				failure = errors.New(a.Error.ErrorMessage)
			}
			c.emit(Event{
				Type:           EventAssignmentFailed,
				TenantID:       conv.TenantID,
				ConversationID: conv.ConversationID,
				AgentType:      a.AgentType,
				Message:        message,
				Error:          failure,
			})
			c.remember(conv, models.MemoryDelegation,
				fmt.Sprintf("%s failed: %s", a.AgentType, message), string(a.AgentType))
		}
	}
}

// approvalReply acknowledges the approval and summarizes what was just
// dispatched.
func approvalReply(fresh []models.Assignment) string {
	if len(fresh) == 0 {
		return "Great, the proposal is approved. The team already has all of this in hand, so there was nothing new to delegate."
	}

	var done, failed int
	for i := range fresh {
		switch fresh[i].Status {
		case models.AssignmentCompleted:
			done++
		case models.AssignmentFailed:
			failed++
		}
	}

	reply := fmt.Sprintf("Great, the proposal is approved. I delegated %d tasks to the team: %d came back complete", len(fresh), done)
	if failed > 0 {
		reply += fmt.Sprintf(" and %d ran into trouble (details above)", failed)
	}
	return reply + ". Ask me for a status update any time."
}

// monitoringSummary reports final delegation outcomes and the assembled
// resource plan when entering the monitoring phase.
func monitoringSummary(conv *models.ConversationState) string {
	tally := conv.AssignmentTally()

	var b strings.Builder
	fmt.Fprintf(&b, "All delegated work has finished: %d completed", tally[models.AssignmentCompleted])
	if tally[models.AssignmentFailed] > 0 {
		fmt.Fprintf(&b, ", %d failed", tally[models.AssignmentFailed])
	}
	b.WriteString(".")

	if plan := conv.ResourcePlan; plan != nil {
		b.WriteString("\n\nHere is where the plan stands:")
		if plan.Venue != "" {
			fmt.Fprintf(&b, "\n- Venue & logistics: %s", plan.Venue)
		}
		if plan.BudgetBreakdown != "" {
			fmt.Fprintf(&b, "\n- Budget: %s", plan.BudgetBreakdown)
		}
		if plan.Staffing != "" {
			fmt.Fprintf(&b, "\n- Staffing & vendors: %s", plan.Staffing)
		}
		if plan.Timeline != "" {
			fmt.Fprintf(&b, "\n- Timeline: %s", plan.Timeline)
		}
	}

	b.WriteString("\n\nI'll keep an eye on things. Say \"close the event planning\" when you're ready to wrap up.")
	return b.String()
}

// closingReply is the farewell appended when the conversation closes.
func closingReply(conv *models.ConversationState) string {
	what := "your event"
	if conv.EventDetails.EventType != "" {
		what = "the " + conv.EventDetails.EventType
	}
	return fmt.Sprintf("Planning for %s is wrapped up. The full transcript, assignments, and plan stay available under conversation %s. Thanks for planning with me!",
		what, conv.ConversationID)
}
