package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/festwork/gala/pkg/models"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Anthropic.Model != "claude-sonnet-4-20250514" {
		t.Errorf("expected default model claude-sonnet-4-20250514, got %q", cfg.Anthropic.Model)
	}

	if cfg.Anthropic.MaxTokens != 4096 {
		t.Errorf("expected default max_tokens 4096, got %d", cfg.Anthropic.MaxTokens)
	}

	if cfg.Coordinator.DefaultTenant != "default" {
		t.Errorf("expected default tenant 'default', got %q", cfg.Coordinator.DefaultTenant)
	}

	if cfg.Coordinator.StrictApproval {
		t.Error("expected strict_approval to default to false")
	}

	if cfg.Delegation.Concurrent {
		t.Error("expected delegation.concurrent to default to false")
	}

	if cfg.Delegation.AssignmentTimeout != 45*time.Second {
		t.Errorf("expected assignment timeout 45s, got %v", cfg.Delegation.AssignmentTimeout)
	}

	if cfg.Delegation.RetryPolicy != "none" {
		t.Errorf("expected retry policy 'none', got %q", cfg.Delegation.RetryPolicy)
	}

	if cfg.Storage.ConversationsPath != filepath.Join(".gala", "conversations.db") {
		t.Errorf("unexpected conversations path %q", cfg.Storage.ConversationsPath)
	}
}

func TestLoadFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `anthropic:
  api_key: sk-ant-from-file
  model: claude-opus-4-1-20250805
  max_tokens: 8192
coordinator:
  default_tenant: acme
  strict_approval: true
delegation:
  concurrent: true
  assignment_timeout: 90s
  retry_policy: fixed
  retry_attempts: 3
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.Anthropic.APIKey != "sk-ant-from-file" {
		t.Errorf("APIKey = %q, want sk-ant-from-file", cfg.Anthropic.APIKey)
	}
	if cfg.Anthropic.Model != "claude-opus-4-1-20250805" {
		t.Errorf("Model = %q, want claude-opus-4-1-20250805", cfg.Anthropic.Model)
	}
	if cfg.Anthropic.MaxTokens != 8192 {
		t.Errorf("MaxTokens = %d, want 8192", cfg.Anthropic.MaxTokens)
	}
	if cfg.Coordinator.DefaultTenant != "acme" {
		t.Errorf("DefaultTenant = %q, want acme", cfg.Coordinator.DefaultTenant)
	}
	if !cfg.Coordinator.StrictApproval {
		t.Error("StrictApproval should be true")
	}
	if !cfg.Delegation.Concurrent {
		t.Error("Concurrent should be true")
	}
	if cfg.Delegation.AssignmentTimeout != 90*time.Second {
		t.Errorf("AssignmentTimeout = %v, want 90s", cfg.Delegation.AssignmentTimeout)
	}
	if cfg.Delegation.RetryPolicy != "fixed" {
		t.Errorf("RetryPolicy = %q, want fixed", cfg.Delegation.RetryPolicy)
	}
	if cfg.Delegation.RetryAttempts != 3 {
		t.Errorf("RetryAttempts = %d, want 3", cfg.Delegation.RetryAttempts)
	}

	// Unset keys keep their defaults.
	if cfg.Storage.MemoryPath != filepath.Join(".gala", "memory.db") {
		t.Errorf("MemoryPath = %q, want default", cfg.Storage.MemoryPath)
	}
}

func TestLoadFromPath_MissingFile(t *testing.T) {
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadFromPath_ExpandsEnvInAPIKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	os.Setenv("GALA_TEST_KEY", "sk-ant-expanded")
	defer os.Unsetenv("GALA_TEST_KEY")

	content := "anthropic:\n  api_key: ${GALA_TEST_KEY}\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.Anthropic.APIKey != "sk-ant-expanded" {
		t.Errorf("APIKey = %q, want expanded env value", cfg.Anthropic.APIKey)
	}
}

func TestDefaultAgentProfiles_CoverAllTypes(t *testing.T) {
	profiles := DefaultAgentProfiles()

	for _, at := range models.AllAgentTypes() {
		prof := profiles.Get(at)
		if prof == nil {
			t.Errorf("missing default profile for %q", at)
			continue
		}
		if prof.SystemPrompt == "" {
			t.Errorf("default profile for %q has empty system prompt", at)
		}
		if prof.DisplayName == "" {
			t.Errorf("default profile for %q has empty display name", at)
		}
	}

	if got := len(profiles.All()); got != len(models.AllAgentTypes()) {
		t.Errorf("All() returned %d profiles, want %d", got, len(models.AllAgentTypes()))
	}
}

func TestLoadAgentProfiles(t *testing.T) {
	dir := t.TempDir()

	for _, at := range models.AllAgentTypes() {
		content := "agent_type: " + string(at) + "\n" +
			"display_name: Custom " + string(at) + "\n" +
			"system_prompt: You handle " + string(at) + " work.\n"
		path := filepath.Join(dir, string(at)+".yaml")
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("write profile: %v", err)
		}
	}

	profiles, err := LoadAgentProfiles(dir)
	if err != nil {
		t.Fatalf("LoadAgentProfiles failed: %v", err)
	}

	prof := profiles.Get(models.AgentFinancial)
	if prof == nil {
		t.Fatal("expected financial profile")
	}
	if prof.DisplayName != "Custom financial" {
		t.Errorf("DisplayName = %q, want %q", prof.DisplayName, "Custom financial")
	}
	if prof.SystemPrompt != "You handle financial work." {
		t.Errorf("SystemPrompt = %q", prof.SystemPrompt)
	}
}

func TestLoadAgentProfiles_MissingFileFails(t *testing.T) {
	dir := t.TempDir()

	// Only one of the five profile files exists.
	path := filepath.Join(dir, string(models.AgentFinancial)+".yaml")
	if err := os.WriteFile(path, []byte("display_name: Financial\n"), 0644); err != nil {
		t.Fatalf("write profile: %v", err)
	}

	if _, err := LoadAgentProfiles(dir); err == nil {
		t.Fatal("expected error when profile files are missing")
	}
}

func TestNewProfileWatcher_FallsBackToDefaults(t *testing.T) {
	pw, err := NewProfileWatcher(t.TempDir())
	if err != nil {
		t.Fatalf("NewProfileWatcher failed: %v", err)
	}
	defer pw.Close()

	profiles := pw.Profiles()
	if profiles == nil {
		t.Fatal("expected profiles snapshot")
	}
	if profiles.Get(models.AgentProjectManagement) == nil {
		t.Error("expected default project_management profile")
	}
}
