package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/festwork/gala/pkg/models"
)

// AgentProfile holds the prompt and model settings for one specialized agent,
// loaded from a YAML file named after the agent type.
type AgentProfile struct {
	// AgentType is the agent category this profile configures.
	AgentType string `mapstructure:"agent_type"`
	// DisplayName is the human-readable agent name used in output.
	DisplayName string `mapstructure:"display_name"`
	// SystemPrompt is the instruction preamble for the agent's calls.
	SystemPrompt string `mapstructure:"system_prompt"`
	// Model overrides the default model for this agent, if set.
	Model string `mapstructure:"model"`
	// MaxTokens overrides the default response cap for this agent, if set.
	MaxTokens int `mapstructure:"max_tokens"`
}

// AgentProfiles holds the profile for every known agent type.
type AgentProfiles struct {
	byType map[models.AgentType]*AgentProfile
}

// Get returns the profile for the given agent type, or nil if unknown.
func (p *AgentProfiles) Get(agentType models.AgentType) *AgentProfile {
	if p == nil {
		return nil
	}
	return p.byType[agentType]
}

// All returns the profiles in registry order.
func (p *AgentProfiles) All() []*AgentProfile {
	var out []*AgentProfile
	for _, at := range models.AllAgentTypes() {
		if prof := p.Get(at); prof != nil {
			out = append(out, prof)
		}
	}
	return out
}

// LoadAgentProfiles loads agent profiles from the given directory.
// It expects one <agent_type>.yaml file per known agent type. If profilesDir
// is empty, it defaults to "configs/agents" relative to the current directory.
func LoadAgentProfiles(profilesDir string) (*AgentProfiles, error) {
	if profilesDir == "" {
		profilesDir = filepath.Join("configs", "agents")
	}

	profiles := &AgentProfiles{byType: make(map[models.AgentType]*AgentProfile)}

	for _, at := range models.AllAgentTypes() {
		path := filepath.Join(profilesDir, string(at)+".yaml")
		prof, err := loadAgentProfile(path)
		if err != nil {
			return nil, fmt.Errorf("load %s profile: %w", at, err)
		}
		if prof.AgentType == "" {
			prof.AgentType = string(at)
		}
		profiles.byType[at] = prof
	}

	return profiles, nil
}

// loadAgentProfile loads a single agent profile from a YAML file.
func loadAgentProfile(path string) (*AgentProfile, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	prof := &AgentProfile{}
	if err := v.Unmarshal(prof); err != nil {
		return nil, fmt.Errorf("unmarshaling %s: %w", path, err)
	}

	return prof, nil
}

// DefaultAgentProfiles returns hardcoded default agent profiles.
// This is used as a fallback when YAML files are not available.
func DefaultAgentProfiles() *AgentProfiles {
	return &AgentProfiles{byType: map[models.AgentType]*AgentProfile{
		models.AgentResourcePlanning: {
			AgentType:   string(models.AgentResourcePlanning),
			DisplayName: "Resource Planning",
			SystemPrompt: "You are a resource planning specialist for events. " +
				"Given a task about venues, equipment, catering, or staffing, produce a concrete plan: " +
				"candidate options with capacity and rough cost, what must be booked and in what order, " +
				"and the risks to flag. Be specific and practical; do not pad with generalities.",
		},
		models.AgentFinancial: {
			AgentType:   string(models.AgentFinancial),
			DisplayName: "Financial",
			SystemPrompt: "You are a financial analyst for event planning. " +
				"Given a task about budgets or costs, produce a line-item budget breakdown with estimates, " +
				"a contingency allocation, and the two or three largest cost drivers called out explicitly. " +
				"State every assumption you make about prices.",
		},
		models.AgentStakeholderManagement: {
			AgentType:   string(models.AgentStakeholderManagement),
			DisplayName: "Stakeholder Management",
			SystemPrompt: "You are a stakeholder coordinator for events. " +
				"Given a task about attendees, sponsors, or speakers, produce an outreach and coordination plan: " +
				"who must be contacted, in what sequence, what each group needs to confirm, " +
				"and a cadence for follow-ups.",
		},
		models.AgentMarketingCommunications: {
			AgentType:   string(models.AgentMarketingCommunications),
			DisplayName: "Marketing & Communications",
			SystemPrompt: "You are a marketing and communications specialist for events. " +
				"Given a task about promotion or announcements, produce a communications plan with channels, " +
				"timing, and draft copy for the key announcement. Match the tone to the event type.",
		},
		models.AgentProjectManagement: {
			AgentType:   string(models.AgentProjectManagement),
			DisplayName: "Project Management",
			SystemPrompt: "You are a project manager for events. " +
				"Given a task about scheduling or coordination, produce a milestone timeline working backward " +
				"from the event date, with owners, dependencies, and the critical path identified.",
		},
	}}
}
