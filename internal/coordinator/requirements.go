package coordinator

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/festwork/gala/pkg/models"
)

// proposalPreamble drives proposal generation. The section names line up
// with the delegation playbook keywords so task derivation finds work in
// every section of the drafted text.
const proposalPreamble = `You are the lead coordinator of an event planning team. Draft a concise
event proposal grounded in the conversation so far. Structure it with these
sections: Venue & Logistics, Budget, Stakeholders & Vendors, Marketing &
Communications, Timeline. Keep each section to a few bullet points and base
every recommendation on the stated event details. Do not invent details the
user never gave.`

// generationApology is appended when a generation call fails mid-turn. The
// turn still persists, so the user can simply try again.
const generationApology = "I ran into a problem generating a response just now. Please try again in a moment."

// detailPrompts maps required attribute names to conversational phrasing.
var detailPrompts = map[string]string{
	models.DetailEventType:     "the type of event",
	models.DetailEventDate:     "the target date",
	models.DetailLocation:      "the location",
	models.DetailAttendeeCount: "the expected attendee count",
	models.DetailBudget:        "the budget",
}

// handleRequirements extracts details from the transcript, merges them into
// the gathered set, and either asks for what is still missing or drafts the
// proposal once everything required is present.
func (c *Coordinator) handleRequirements(ctx context.Context, conv *models.ConversationState) string {
	details, err := c.extractDetails(ctx, conv.Messages)
	if err != nil {
		log.Printf("[Coordinator] detail extraction failed for %s: %v", conv.ConversationID, err)
	} else {
		conv.EventDetails.Merge(details)
	}

	if missing := conv.EventDetails.Missing(); len(missing) > 0 {
		return missingDetailsPrompt(missing)
	}
	return c.draftProposal(ctx, conv)
}

// draftProposal generates a proposal from the transcript, stores it as
// pending, and advances the conversation to the proposal phase.
func (c *Coordinator) draftProposal(ctx context.Context, conv *models.ConversationState) string {
	msgs := NormalizeMessages(conv.Messages, true)
	content, err := c.gen.Generate(ctx, proposalPreamble, msgs)
	if err != nil {
		log.Printf("[Coordinator] proposal generation failed for %s: %v", conv.ConversationID, err)
		return generationApology
	}

	conv.Proposal = &models.Proposal{
		Content:   content,
		Status:    models.ProposalPending,
		CreatedAt: c.now(),
	}
	c.setPhase(conv, models.PhaseProposal)
	c.remember(conv, models.MemoryProposal, "proposal drafted", string(models.ProposalPending))
	c.emit(Event{
		Type:           EventProposalReady,
		TenantID:       conv.TenantID,
		ConversationID: conv.ConversationID,
		Phase:          conv.CurrentPhase,
	})

	return content + "\n\nDoes this work for you? Say \"approve the proposal\" to move ahead, or tell me what you would change."
}

// missingDetailsPrompt asks for the required attributes not gathered yet.
func missingDetailsPrompt(missing []string) string {
	return fmt.Sprintf("To draft a proposal I still need %s. Could you share that?", joinAnd(friendlyDetails(missing)))
}

// friendlyDetails maps attribute names to their conversational phrasing,
// passing unknown names through unchanged.
func friendlyDetails(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if p, ok := detailPrompts[name]; ok {
			out = append(out, p)
		} else {
			out = append(out, name)
		}
	}
	return out
}

// joinAnd renders a list as "a", "a and b", or "a, b, and c".
func joinAnd(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
	}
}

// detailRecap summarizes the details gathered so far in one sentence.
func detailRecap(d models.EventDetails) string {
	var parts []string
	if d.EventType != "" {
		parts = append(parts, "a "+d.EventType)
	}
	if d.EventDate != "" {
		parts = append(parts, "on "+d.EventDate)
	}
	if d.Location != "" {
		parts = append(parts, "in "+d.Location)
	}
	if d.AttendeeCount > 0 {
		parts = append(parts, fmt.Sprintf("for %d attendees", d.AttendeeCount))
	}
	if d.Budget != "" {
		parts = append(parts, "with a budget of "+d.Budget)
	}
	if len(parts) == 0 {
		return "I don't have any confirmed details yet."
	}
	return "So far I have " + strings.Join(parts, " ") + "."
}
