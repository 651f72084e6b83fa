package coordinator

import (
	"testing"

	"github.com/festwork/gala/pkg/models"
)

func TestNormalizeMessages_DropsEmptyContent(t *testing.T) {
	msgs := []models.Message{
		{Role: models.RoleUser, Content: "plan a conference"},
		{Role: models.RoleAssistant, Content: ""},
		{Role: models.RoleUser, Content: "   \n\t"},
		{Role: models.RoleAssistant, Content: "sure"},
	}

	got := NormalizeMessages(msgs, false)

	if len(got) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got))
	}
	for _, m := range got {
		if m.Content == "" {
			t.Errorf("normalized output contains empty content")
		}
	}
	if got[0].Content != "plan a conference" || got[1].Content != "sure" {
		t.Errorf("unexpected order: %q then %q", got[0].Content, got[1].Content)
	}
}

func TestNormalizeMessages_DropsSystemWhenAsked(t *testing.T) {
	msgs := []models.Message{
		{Role: models.RoleSystem, Content: "you are a planner"},
		{Role: models.RoleUser, Content: "hello"},
		{Role: models.RoleSystem, Content: "be nice"},
		{Role: models.RoleAssistant, Content: "hi"},
	}

	got := NormalizeMessages(msgs, true)

	if len(got) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got))
	}
	for _, m := range got {
		if m.Role == models.RoleSystem {
			t.Errorf("system message survived dropSystem: %q", m.Content)
		}
	}
}

func TestNormalizeMessages_KeepsSystemByDefault(t *testing.T) {
	msgs := []models.Message{
		{Role: models.RoleSystem, Content: "you are a planner"},
		{Role: models.RoleUser, Content: "hello"},
	}

	got := NormalizeMessages(msgs, false)

	if len(got) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got))
	}
	if got[0].Role != models.RoleSystem {
		t.Errorf("expected system message kept, got role %q", got[0].Role)
	}
}

func TestNormalizeMessages_UnknownRolesPassThrough(t *testing.T) {
	msgs := []models.Message{
		{Role: models.Role("tool"), Content: "tool output"},
		{Role: models.RoleUser, Content: "hello"},
	}

	got := NormalizeMessages(msgs, true)

	if len(got) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got))
	}
	if got[0].Role != models.Role("tool") {
		t.Errorf("unknown role mangled: got %q", got[0].Role)
	}
}

func TestNormalizeMessages_EmptyInput(t *testing.T) {
	if got := NormalizeMessages(nil, true); len(got) != 0 {
		t.Errorf("expected empty output for nil input, got %d messages", len(got))
	}
}
