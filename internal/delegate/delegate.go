// Package delegate derives tasks from an approved proposal and dispatches
// them to specialized agents, tracking each one as an assignment in the
// conversation's ledger.
package delegate

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/festwork/gala/pkg/models"
)

// DefaultTimeout bounds a single agent capability call.
const DefaultTimeout = 45 * time.Second

// Delegator creates and dispatches assignments. Individual assignment
// failures are recorded in the ledger and surfaced as conversation
// messages; they never abort the batch.
type Delegator struct {
	registry   *Registry
	playbook   *Playbook
	retry      RetryPolicy
	timeout    time.Duration
	concurrent bool
	snippets   SnippetSource

	now func() time.Time
}

// Config configures a Delegator.
type Config struct {
	// Registry resolves agent capabilities. Required.
	Registry *Registry
	// Playbook derives tasks from proposals. Nil uses DefaultPlaybook.
	Playbook *Playbook
	// Retry governs additional attempts per assignment. Nil means a
	// single attempt.
	Retry RetryPolicy
	// Timeout bounds each capability call. Zero uses DefaultTimeout.
	Timeout time.Duration
	// Concurrent dispatches assignments in parallel when true.
	Concurrent bool
	// Snippets optionally supplies ranked reference texts to agents.
	Snippets SnippetSource
}

// New creates a Delegator.
func New(cfg Config) *Delegator {
	d := &Delegator{
		registry:   cfg.Registry,
		playbook:   cfg.Playbook,
		retry:      cfg.Retry,
		timeout:    cfg.Timeout,
		concurrent: cfg.Concurrent,
		snippets:   cfg.Snippets,
		now:        time.Now,
	}
	if d.registry == nil {
		d.registry = NewRegistry()
	}
	if d.playbook == nil {
		d.playbook = DefaultPlaybook()
	}
	if d.retry == nil {
		d.retry = NoRetry{}
	}
	if d.timeout <= 0 {
		d.timeout = DefaultTimeout
	}
	return d
}

// outcome carries one assignment's dispatch result back to the collector.
type outcome struct {
	idx    int
	result *models.TaskResult
	err    error
}

// Delegate derives tasks from the state's proposal, appends new assignments
// to the ledger, and dispatches each to its agent capability. The state is
// mutated in place. Only a nil state is an error; per-assignment failures
// are folded into the ledger and the transcript.
func (d *Delegator) Delegate(ctx context.Context, state *models.ConversationState) error {
	if state == nil {
		return fmt.Errorf("delegate: state is nil")
	}
	state.EnsureAssignments()

	var proposalContent string
	if state.Proposal != nil {
		proposalContent = state.Proposal.Content
	}

	var fresh []int
	for _, dt := range d.playbook.Derive(proposalContent, state.EventDetails) {
		if state.HasOpenAssignment(dt.AgentType, dt.Task) {
			log.Printf("[Delegator] %s already has this task open, skipping", dt.AgentType)
			continue
		}
		state.AgentAssignments = append(state.AgentAssignments, models.Assignment{
			ID:        "asgn-" + uuid.New().String()[:8],
			AgentType: dt.AgentType,
			Task:      dt.Task,
			Status:    models.AssignmentPending,
			CreatedAt: d.now(),
		})
		fresh = append(fresh, len(state.AgentAssignments)-1)
	}

	if len(fresh) == 0 {
		log.Printf("[Delegator] nothing new to delegate for %s", state.ConversationID)
		return nil
	}

	tc := TaskContext{
		TenantID:        state.TenantID,
		ConversationID:  state.ConversationID,
		EventDetails:    state.EventDetails,
		ProposalContent: proposalContent,
	}
	if d.snippets != nil {
		tc.Snippets = d.lookupSnippets(ctx, state.EventDetails)
	}

	log.Printf("[Delegator] dispatching %d assignments for %s (concurrent=%t)",
		len(fresh), state.ConversationID, d.concurrent)

	if d.concurrent {
		d.dispatchConcurrent(ctx, state, fresh, tc)
	} else {
		d.dispatchSequential(ctx, state, fresh, tc)
	}
	return nil
}

// dispatchSequential runs each new assignment in order.
func (d *Delegator) dispatchSequential(ctx context.Context, state *models.ConversationState, fresh []int, tc TaskContext) {
	for _, idx := range fresh {
		state.AgentAssignments[idx].Status = models.AssignmentInProgress
		asgn := state.AgentAssignments[idx]

		c, ok := d.registry.Lookup(asgn.AgentType)
		if !ok {
			d.apply(state, outcome{idx: idx, err: fmt.Errorf("no capability registered for agent type %q", asgn.AgentType)})
			continue
		}

		result, err := d.perform(ctx, c, asgn.Task, tc)
		d.apply(state, outcome{idx: idx, result: result, err: err})
	}
}

// dispatchConcurrent fans out one goroutine per assignment. Goroutines only
// read their captured task; every ledger write happens on the collecting
// goroutine, so each assignment's update is applied whole.
func (d *Delegator) dispatchConcurrent(ctx context.Context, state *models.ConversationState, fresh []int, tc TaskContext) {
	results := make(chan outcome, len(fresh))
	var wg sync.WaitGroup

	for _, idx := range fresh {
		state.AgentAssignments[idx].Status = models.AssignmentInProgress
		asgn := state.AgentAssignments[idx]

		c, ok := d.registry.Lookup(asgn.AgentType)
		if !ok {
			results <- outcome{idx: idx, err: fmt.Errorf("no capability registered for agent type %q", asgn.AgentType)}
			continue
		}

		wg.Add(1)
		go func(idx int, task string, c Capability) {
			defer wg.Done()
			result, err := d.perform(ctx, c, task, tc)
			results <- outcome{idx: idx, result: result, err: err}
		}(idx, asgn.Task, c)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	for out := range results {
		d.apply(state, out)
	}
}

// perform invokes one capability with the configured timeout, retrying per
// the retry policy. The call context is detached from the caller's
// cancellation so an in-flight assignment can finish and still be recorded
// even when the surrounding turn is cancelled; cancellation only stops
// further retries.
func (d *Delegator) perform(ctx context.Context, c Capability, task string, tc TaskContext) (*models.TaskResult, error) {
	attempt := 1
	for {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		result, err := c.Perform(callCtx, task, tc)
		cancel()

		if err == nil && result == nil {
			err = errors.New("agent returned no result")
		}
		if err == nil {
			return result, nil
		}

		delay, again := d.retry.Next(attempt)
		if !again {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, err
		}

		log.Printf("[Delegator] attempt %d failed (%v), retrying in %s", attempt, err, delay)
		attempt++
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, err
		}
	}
}

// apply writes one outcome to the ledger. Failures also append the
// user-facing assistant message so they are visible in the transcript, not
// just the ledger.
func (d *Delegator) apply(state *models.ConversationState, out outcome) {
	asgn := &state.AgentAssignments[out.idx]
	done := d.now()
	asgn.CompletedAt = &done

	if out.err != nil {
		asgn.Status = models.AssignmentFailed
		asgn.Error = &models.AssignmentError{
			ErrorType:    classifyError(out.err),
			ErrorMessage: out.err.Error(),
		}
		state.AppendMessage(models.RoleAssistant,
			fmt.Sprintf("I encountered an issue while working with the %s agent: %s", asgn.AgentType, asgn.Error.ErrorMessage),
			done)
		log.Printf("[Delegator] assignment %s (%s) failed: %v", asgn.ID, asgn.AgentType, out.err)
		return
	}

	asgn.Status = models.AssignmentCompleted
	asgn.Result = out.result
	foldResult(state, asgn)
	log.Printf("[Delegator] assignment %s (%s) completed", asgn.ID, asgn.AgentType)
}

// classifyError maps a dispatch error to an assignment error type.
func classifyError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "Timeout"
	}
	return "AgentError"
}

// foldResult folds a completed result into the structured resource plan.
// Each agent type owns one section of the plan; marketing output stays in
// the ledger only.
func foldResult(state *models.ConversationState, asgn *models.Assignment) {
	if asgn.Result == nil {
		return
	}
	body := asgn.Result.Detail
	if body == "" {
		body = asgn.Result.Summary
	}

	switch asgn.AgentType {
	case models.AgentResourcePlanning:
		ensurePlan(state).Venue = body
	case models.AgentFinancial:
		ensurePlan(state).BudgetBreakdown = body
	case models.AgentStakeholderManagement:
		ensurePlan(state).Staffing = body
	case models.AgentProjectManagement:
		ensurePlan(state).Timeline = body
	}
}

func ensurePlan(state *models.ConversationState) *models.ResourcePlan {
	if state.ResourcePlan == nil {
		state.ResourcePlan = &models.ResourcePlan{}
	}
	return state.ResourcePlan
}

// lookupSnippets queries the snippet source for reference material. Lookup
// failures are logged and ignored; agents just run without references.
func (d *Delegator) lookupSnippets(ctx context.Context, details models.EventDetails) []string {
	query := strings.TrimSpace(details.EventType + " " + details.Location)
	if query == "" {
		query = "event planning"
	}

	snippets, err := d.snippets.Search(ctx, query, 3)
	if err != nil {
		log.Printf("[Delegator] snippet lookup failed: %v", err)
		return nil
	}
	return snippets
}
