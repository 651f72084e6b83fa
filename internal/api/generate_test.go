package api

import (
	"testing"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/festwork/gala/pkg/models"
)

func TestBuildMessages_MapsRoles(t *testing.T) {
	msgs := []models.Message{
		{Role: models.RoleUser, Content: "plan a conference"},
		{Role: models.RoleAssistant, Content: "happy to help"},
		{Role: models.RoleUser, Content: "in Berlin"},
	}

	params := buildMessages(msgs)

	if len(params) != 3 {
		t.Fatalf("expected 3 params, got %d", len(params))
	}
	if params[0].Role != anthropic.MessageParamRoleUser {
		t.Errorf("params[0].Role = %q, want user", params[0].Role)
	}
	if params[1].Role != anthropic.MessageParamRoleAssistant {
		t.Errorf("params[1].Role = %q, want assistant", params[1].Role)
	}
	if params[2].Role != anthropic.MessageParamRoleUser {
		t.Errorf("params[2].Role = %q, want user", params[2].Role)
	}
}

func TestBuildMessages_IgnoresUnknownRoles(t *testing.T) {
	msgs := []models.Message{
		{Role: models.RoleSystem, Content: "you are helpful"},
		{Role: models.Role("tool"), Content: "tool output"},
		{Role: models.RoleUser, Content: "hello"},
	}

	params := buildMessages(msgs)

	if len(params) != 1 {
		t.Fatalf("expected 1 param, got %d", len(params))
	}
	if params[0].Role != anthropic.MessageParamRoleUser {
		t.Errorf("params[0].Role = %q, want user", params[0].Role)
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			"bare object",
			`{"event_type":"conference"}`,
			`{"event_type":"conference"}`,
			false,
		},
		{
			"prose around object",
			`Here are the details I found: {"event_type":"offsite","attendee_count":40} Let me know if anything is wrong.`,
			`{"event_type":"offsite","attendee_count":40}`,
			false,
		},
		{
			"fenced object",
			"```json\n{\"budget\":\"20k\"}\n```",
			`{"budget":"20k"}`,
			false,
		},
		{
			"nested braces",
			`{"notes":{"theme":"winter"},"location":"Oslo"}`,
			`{"notes":{"theme":"winter"},"location":"Oslo"}`,
			false,
		},
		{
			"brace inside string",
			`{"content":"use {placeholders} carefully"}`,
			`{"content":"use {placeholders} carefully"}`,
			false,
		},
		{
			"no object",
			"I could not extract anything.",
			"",
			true,
		},
		{
			"unbalanced object",
			`{"event_type":"conference"`,
			"",
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractJSON(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("extractJSON error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("extractJSON = %q, want %q", got, tt.want)
			}
		})
	}
}
