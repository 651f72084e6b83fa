package delegate

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/festwork/gala/pkg/models"
)

func testDetails() models.EventDetails {
	return models.EventDetails{
		EventType:     "conference",
		EventDate:     "2025-10-03",
		Location:      "Berlin",
		AttendeeCount: 120,
		Budget:        "50k EUR",
	}
}

func TestPlaybook_Derive(t *testing.T) {
	pb := DefaultPlaybook()
	proposal := "We will book a venue downtown, split the budget across catering and AV, " +
		"confirm speakers and sponsors, send invitations, and track milestones weekly."

	tasks := pb.Derive(proposal, testDetails())

	wantTypes := []models.AgentType{
		models.AgentResourcePlanning,
		models.AgentFinancial,
		models.AgentStakeholderManagement,
		models.AgentMarketingCommunications,
		models.AgentProjectManagement,
	}
	if len(tasks) != len(wantTypes) {
		t.Fatalf("Derive() returned %d tasks, want %d", len(tasks), len(wantTypes))
	}
	for i, want := range wantTypes {
		if tasks[i].AgentType != want {
			t.Errorf("tasks[%d].AgentType = %q, want %q", i, tasks[i].AgentType, want)
		}
		if tasks[i].Task == "" {
			t.Errorf("tasks[%d].Task is empty", i)
		}
	}
}

func TestPlaybook_Derive_Deterministic(t *testing.T) {
	pb := DefaultPlaybook()
	proposal := "venue and budget and timeline"

	first := pb.Derive(proposal, testDetails())
	second := pb.Derive(proposal, testDetails())

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Derive() is not deterministic:\nfirst:  %v\nsecond: %v", first, second)
	}
}

func TestPlaybook_Derive_RendersDetails(t *testing.T) {
	pb := DefaultPlaybook()

	tasks := pb.Derive("we need a venue", testDetails())

	if len(tasks) != 1 {
		t.Fatalf("Derive() returned %d tasks, want 1", len(tasks))
	}
	want := "Research venue and logistics options for the conference in Berlin on 2025-10-03 for 120 attendees"
	if tasks[0].Task != want {
		t.Errorf("Task = %q, want %q", tasks[0].Task, want)
	}
}

func TestPlaybook_Derive_MissingDetailsUseNeutralWording(t *testing.T) {
	pb := DefaultPlaybook()

	tasks := pb.Derive("we need a venue", models.EventDetails{})

	if len(tasks) != 1 {
		t.Fatalf("Derive() returned %d tasks, want 1", len(tasks))
	}
	want := "Research venue and logistics options for the event in the chosen location on the planned date for the expected attendees"
	if tasks[0].Task != want {
		t.Errorf("Task = %q, want %q", tasks[0].Task, want)
	}
}

func TestPlaybook_Derive_FallbackWhenNothingMatches(t *testing.T) {
	pb := DefaultPlaybook()

	tasks := pb.Derive("", testDetails())

	if len(tasks) != 1 {
		t.Fatalf("Derive() returned %d tasks, want 1", len(tasks))
	}
	if tasks[0].AgentType != models.AgentProjectManagement {
		t.Errorf("fallback AgentType = %q, want project_management", tasks[0].AgentType)
	}
}

func TestPlaybook_Derive_CaseInsensitive(t *testing.T) {
	pb := DefaultPlaybook()

	tasks := pb.Derive("THE VENUE IS BOOKED", testDetails())

	if len(tasks) != 1 || tasks[0].AgentType != models.AgentResourcePlanning {
		t.Errorf("uppercase proposal should still match the venue rule, got %v", tasks)
	}
}

func TestLoadPlaybook(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "playbook.yaml")
	content := `rules:
  - agent_type: financial
    keywords: ["budget", "cost"]
    task: "Prepare the budget for the {event_type}"
  - agent_type: project_management
    keywords: ["timeline"]
    task: "Plan the schedule"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write playbook: %v", err)
	}

	pb, err := LoadPlaybook(path)
	if err != nil {
		t.Fatalf("LoadPlaybook() error = %v, want nil", err)
	}
	if len(pb.Rules) != 2 {
		t.Fatalf("loaded %d rules, want 2", len(pb.Rules))
	}
	if pb.Rules[0].AgentType != models.AgentFinancial {
		t.Errorf("Rules[0].AgentType = %q, want financial", pb.Rules[0].AgentType)
	}

	tasks := pb.Derive("watch the budget", testDetails())
	if len(tasks) != 1 || tasks[0].Task != "Prepare the budget for the conference" {
		t.Errorf("Derive() from loaded playbook = %v", tasks)
	}
}

func TestLoadPlaybook_MissingFile(t *testing.T) {
	if _, err := LoadPlaybook(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("LoadPlaybook() should fail for a missing file")
	}
}

func TestLoadPlaybook_UnknownAgentType(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "playbook.yaml")
	content := `rules:
  - agent_type: astrology
    keywords: ["stars"]
    task: "Read the stars"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write playbook: %v", err)
	}

	if _, err := LoadPlaybook(path); err == nil {
		t.Error("LoadPlaybook() should reject an unknown agent type")
	}
}

func TestLoadPlaybook_EmptyRules(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "playbook.yaml")
	if err := os.WriteFile(path, []byte("rules: []\n"), 0644); err != nil {
		t.Fatalf("write playbook: %v", err)
	}

	if _, err := LoadPlaybook(path); err == nil {
		t.Error("LoadPlaybook() should reject an empty rule set")
	}
}
