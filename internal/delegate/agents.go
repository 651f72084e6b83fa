package delegate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/festwork/gala/internal/config"
	"github.com/festwork/gala/pkg/models"
)

// TaskContext is the slice of conversation state an agent capability sees.
type TaskContext struct {
	// TenantID and ConversationID locate the conversation being served.
	TenantID       string
	ConversationID string
	// EventDetails are the gathered requirements for the event.
	EventDetails models.EventDetails
	// ProposalContent is the approved proposal text, if any.
	ProposalContent string
	// Snippets are ranked reference texts supplied by a SnippetSource.
	Snippets []string
}

// Capability performs one delegated task for one agent type.
type Capability interface {
	Perform(ctx context.Context, task string, tc TaskContext) (*models.TaskResult, error)
}

// SnippetSource returns ranked text snippets for a query. The ranking
// semantics belong entirely to the external service behind it.
type SnippetSource interface {
	Search(ctx context.Context, query string, limit int) ([]string, error)
}

// Generator is the generation capability an LLM-backed agent needs.
// *api.Client satisfies it.
type Generator interface {
	GenerateWith(ctx context.Context, model anthropic.Model, maxTokens int64, system string, msgs []models.Message) (string, error)
}

// LLMAgent performs tasks by prompting a language model with the agent
// profile's system prompt.
type LLMAgent struct {
	profile *config.AgentProfile
	gen     Generator
}

// NewLLMAgent creates an agent from its profile and a generation client.
func NewLLMAgent(profile *config.AgentProfile, gen Generator) *LLMAgent {
	return &LLMAgent{profile: profile, gen: gen}
}

// Perform prompts the model with the task and context and packages the
// response as a task result.
func (a *LLMAgent) Perform(ctx context.Context, task string, tc TaskContext) (*models.TaskResult, error) {
	start := time.Now()

	msgs := []models.Message{
		{Role: models.RoleUser, Content: buildTaskPrompt(task, tc)},
	}

	text, err := a.gen.GenerateWith(ctx, anthropic.Model(a.profile.Model), int64(a.profile.MaxTokens), a.profile.SystemPrompt, msgs)
	if err != nil {
		return nil, err
	}

	return &models.TaskResult{
		Summary:   summarize(text),
		Detail:    text,
		Model:     a.profile.Model,
		ElapsedMS: time.Since(start).Milliseconds(),
	}, nil
}

// buildTaskPrompt assembles the user message an agent receives: the task,
// then whatever context the conversation has accumulated.
func buildTaskPrompt(task string, tc TaskContext) string {
	var b strings.Builder
	b.WriteString(task)

	if tc.ProposalContent != "" {
		b.WriteString("\n\nApproved proposal:\n")
		b.WriteString(tc.ProposalContent)
	}

	var details []string
	if tc.EventDetails.EventType != "" {
		details = append(details, "type: "+tc.EventDetails.EventType)
	}
	if tc.EventDetails.EventDate != "" {
		details = append(details, "date: "+tc.EventDetails.EventDate)
	}
	if tc.EventDetails.Location != "" {
		details = append(details, "location: "+tc.EventDetails.Location)
	}
	if tc.EventDetails.AttendeeCount > 0 {
		details = append(details, fmt.Sprintf("attendees: %d", tc.EventDetails.AttendeeCount))
	}
	if tc.EventDetails.Budget != "" {
		details = append(details, "budget: "+tc.EventDetails.Budget)
	}
	if len(details) > 0 {
		b.WriteString("\n\nEvent details:\n- ")
		b.WriteString(strings.Join(details, "\n- "))
	}

	if len(tc.Snippets) > 0 {
		b.WriteString("\n\nReference material:\n- ")
		b.WriteString(strings.Join(tc.Snippets, "\n- "))
	}

	return b.String()
}

// summarize returns the first non-empty line of text, truncated for use in
// status output.
func summarize(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "#*- "))
		if line == "" {
			continue
		}
		if len(line) > 140 {
			return line[:137] + "..."
		}
		return line
	}
	return "done"
}

// Registry maps agent types to their capabilities.
type Registry struct {
	caps map[models.AgentType]Capability
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{caps: make(map[models.AgentType]Capability)}
}

// Register binds a capability to an agent type, replacing any existing one.
func (r *Registry) Register(agentType models.AgentType, c Capability) {
	r.caps[agentType] = c
}

// Lookup returns the capability for an agent type.
func (r *Registry) Lookup(agentType models.AgentType) (Capability, bool) {
	c, ok := r.caps[agentType]
	return c, ok
}

// NewLLMRegistry builds a registry with one LLM-backed agent per profile.
func NewLLMRegistry(profiles *config.AgentProfiles, gen Generator) *Registry {
	reg := NewRegistry()
	for _, prof := range profiles.All() {
		reg.Register(models.AgentType(prof.AgentType), NewLLMAgent(prof, gen))
	}
	return reg
}

// watchedAgent resolves its profile from a snapshot source on every call, so
// profile edits picked up by a watcher apply to the next task without
// rebuilding the registry.
type watchedAgent struct {
	agentType models.AgentType
	source    func() *config.AgentProfiles
	gen       Generator
}

// Perform looks up the newest profile for the agent type and runs the task
// with it.
func (a *watchedAgent) Perform(ctx context.Context, task string, tc TaskContext) (*models.TaskResult, error) {
	prof := a.source().Get(a.agentType)
	if prof == nil {
		return nil, fmt.Errorf("no profile configured for agent type %s", a.agentType)
	}
	return NewLLMAgent(prof, a.gen).Perform(ctx, task, tc)
}

// NewWatchedRegistry builds a registry whose agents read the current profile
// snapshot from source before each task. source must be safe for concurrent
// use; *config.ProfileWatcher's Profiles method qualifies.
func NewWatchedRegistry(source func() *config.AgentProfiles, gen Generator) *Registry {
	reg := NewRegistry()
	for _, at := range models.AllAgentTypes() {
		reg.Register(at, &watchedAgent{agentType: at, source: source, gen: gen})
	}
	return reg
}
