package delegate

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/festwork/gala/pkg/models"
)

// TaskRule maps proposal content to one delegated task. A rule fires when
// any of its keywords appears in the proposal, case-insensitively.
type TaskRule struct {
	// AgentType is the specialist that receives the task.
	AgentType models.AgentType `yaml:"agent_type"`
	// Keywords trigger the rule when any one appears in the proposal.
	Keywords []string `yaml:"keywords"`
	// TaskTemplate is the task description. Placeholders like {event_type}
	// and {location} are filled from the gathered event details.
	TaskTemplate string `yaml:"task"`
}

// Playbook is the ordered rule set tasks are derived from. Rules are
// evaluated in order and each fires at most once per derivation, so the
// same proposal always yields the same task list.
type Playbook struct {
	Rules []TaskRule `yaml:"rules"`
}

// DerivedTask is one {agent type, task description} pair produced from a
// proposal.
type DerivedTask struct {
	AgentType models.AgentType
	Task      string
}

// defaultRules covers the five specialist categories. Keywords match the
// section vocabulary the proposal prompt asks the model to use.
var defaultRules = []TaskRule{
	{
		AgentType:    models.AgentResourcePlanning,
		Keywords:     []string{"venue", "catering", "equipment", "logistics", "space", "room"},
		TaskTemplate: "Research venue and logistics options for the {event_type} in {location} on {event_date} for {attendee_count} attendees",
	},
	{
		AgentType:    models.AgentFinancial,
		Keywords:     []string{"budget", "cost", "pricing", "payment", "expense", "sponsorship"},
		TaskTemplate: "Prepare a budget breakdown for the {event_type} within the stated budget of {budget}",
	},
	{
		AgentType:    models.AgentStakeholderManagement,
		Keywords:     []string{"stakeholder", "sponsor", "vendor", "partner", "speaker", "guest"},
		TaskTemplate: "Identify the stakeholders for the {event_type} and plan their coordination and confirmations",
	},
	{
		AgentType:    models.AgentMarketingCommunications,
		Keywords:     []string{"marketing", "promotion", "invitation", "announcement", "communication", "outreach"},
		TaskTemplate: "Draft the communications plan and key announcement copy for the {event_type} on {event_date}",
	},
	{
		AgentType:    models.AgentProjectManagement,
		Keywords:     []string{"timeline", "schedule", "milestone", "coordination", "deadline", "plan"},
		TaskTemplate: "Build a milestone timeline for the {event_type} working backward from {event_date}",
	},
}

// DefaultPlaybook returns the compiled-in rule set.
func DefaultPlaybook() *Playbook {
	return &Playbook{Rules: append([]TaskRule{}, defaultRules...)}
}

// LoadPlaybook reads a playbook from a YAML file.
func LoadPlaybook(path string) (*Playbook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var pb Playbook
	if err := yaml.Unmarshal(data, &pb); err != nil {
		return nil, fmt.Errorf("parse playbook: %w", err)
	}

	if len(pb.Rules) == 0 {
		return nil, fmt.Errorf("playbook %s has no rules", path)
	}
	for i, rule := range pb.Rules {
		if !rule.AgentType.Valid() {
			return nil, fmt.Errorf("playbook rule %d has unknown agent type %q", i, rule.AgentType)
		}
		if rule.TaskTemplate == "" {
			return nil, fmt.Errorf("playbook rule %d has no task", i)
		}
	}

	return &pb, nil
}

// Derive maps a proposal to its task list. When no rule matches at all, a
// single project_management coordination task is derived instead, so an
// approved proposal always produces at least one assignment.
func (p *Playbook) Derive(proposalContent string, details models.EventDetails) []DerivedTask {
	lower := strings.ToLower(proposalContent)

	var tasks []DerivedTask
	for _, rule := range p.Rules {
		if !rule.matches(lower) {
			continue
		}
		tasks = append(tasks, DerivedTask{
			AgentType: rule.AgentType,
			Task:      renderTask(rule.TaskTemplate, details),
		})
	}

	if len(tasks) == 0 {
		tasks = append(tasks, DerivedTask{
			AgentType: models.AgentProjectManagement,
			Task:      renderTask("Coordinate the execution of the approved plan for the {event_type}", details),
		})
	}

	return tasks
}

func (r TaskRule) matches(lowerProposal string) bool {
	for _, kw := range r.Keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lowerProposal, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// renderTask fills template placeholders from event details, substituting
// neutral wording for attributes the user never supplied.
func renderTask(template string, details models.EventDetails) string {
	eventType := details.EventType
	if eventType == "" {
		eventType = "event"
	}
	eventDate := details.EventDate
	if eventDate == "" {
		eventDate = "the planned date"
	}
	location := details.Location
	if location == "" {
		location = "the chosen location"
	}
	attendees := "the expected"
	if details.AttendeeCount > 0 {
		attendees = strconv.Itoa(details.AttendeeCount)
	}
	budget := details.Budget
	if budget == "" {
		budget = "the stated amount"
	}

	r := strings.NewReplacer(
		"{event_type}", eventType,
		"{event_date}", eventDate,
		"{location}", location,
		"{attendee_count}", attendees,
		"{budget}", budget,
	)
	return r.Replace(template)
}
