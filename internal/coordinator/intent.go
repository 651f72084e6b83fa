package coordinator

import "strings"

// Intent is the typed signal classified from a user message. The phase
// machine acts on intents, never on raw message text.
type Intent string

const (
	// IntentNone means no actionable keyword conjunction matched.
	IntentNone Intent = "none"
	// IntentApprove means the user accepted the pending proposal.
	IntentApprove Intent = "approve"
	// IntentReject means the user turned down the pending proposal.
	IntentReject Intent = "reject"
	// IntentRevise means the user wants to reopen requirements gathering.
	IntentRevise Intent = "revise"
	// IntentClose means the user wants to wrap up the conversation.
	IntentClose Intent = "close"
)

// IntentKeywords is the single source of truth for intent classification.
// Every intent requires a keyword AND a subject in the same message; the
// conjunction keeps casual mentions ("the proposal is long") from
// triggering actions.
type IntentKeywords struct {
	// Approval keywords signal acceptance of a proposal.
	Approval []string
	// Rejection keywords signal refusal of a proposal.
	Rejection []string
	// Revision keywords signal reopening the requirements.
	Revision []string
	// Closure keywords signal ending the conversation.
	Closure []string

	// ProposalSubjects must accompany an approval or rejection keyword.
	ProposalSubjects []string
	// RevisionSubjects must accompany a revision keyword.
	RevisionSubjects []string
	// ClosureSubjects must accompany a closure keyword.
	ClosureSubjects []string
}

// DefaultIntentKeywords returns the authoritative keyword tables.
var DefaultIntentKeywords = IntentKeywords{
	Approval: []string{
		"approve",
		"approved",
		"looks good",
		"sign off",
	},
	Rejection: []string{
		"reject",
		"rejected",
		"don't like",
		"do not like",
		"not good",
		"no good",
	},
	Revision: []string{
		"revise",
		"start over",
		"change",
	},
	Closure: []string{
		"close",
		"wrap up",
		"finished",
		"complete",
	},

	ProposalSubjects: []string{"proposal"},
	RevisionSubjects: []string{"requirements", "details"},
	ClosureSubjects:  []string{"event", "planning", "conversation"},
}

// ClassifyIntent classifies a user message into a typed intent. Matching is
// case-insensitive substring containment over the whole message.
func ClassifyIntent(text string) Intent {
	lower := strings.ToLower(text)

	// Rejection takes priority over approval so a message carrying both
	// signals never dispatches work the user just refused.
	if containsAny(lower, DefaultIntentKeywords.Rejection) &&
		containsAny(lower, DefaultIntentKeywords.ProposalSubjects) {
		return IntentReject
	}

	if containsAny(lower, DefaultIntentKeywords.Approval) &&
		containsAny(lower, DefaultIntentKeywords.ProposalSubjects) {
		return IntentApprove
	}

	if containsAny(lower, DefaultIntentKeywords.Revision) &&
		containsAny(lower, DefaultIntentKeywords.RevisionSubjects) {
		return IntentRevise
	}

	if containsAny(lower, DefaultIntentKeywords.Closure) &&
		containsAny(lower, DefaultIntentKeywords.ClosureSubjects) {
		return IntentClose
	}

	return IntentNone
}

// containsAny reports whether lower contains any of the given keywords.
func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
