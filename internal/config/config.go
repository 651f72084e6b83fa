// Package config handles configuration loading and management for Gala.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for Gala.
type Config struct {
	Anthropic   AnthropicConfig   `mapstructure:"anthropic"`
	Storage     StorageConfig     `mapstructure:"storage"`
	Coordinator CoordinatorConfig `mapstructure:"coordinator"`
	Delegation  DelegationConfig  `mapstructure:"delegation"`
}

// AnthropicConfig holds generation model settings.
type AnthropicConfig struct {
	// APIKey is the Anthropic API key. ${VAR} references are expanded.
	APIKey string `mapstructure:"api_key"`
	// Model is the model identifier used for coordinator and agent calls.
	Model string `mapstructure:"model"`
	// MaxTokens caps the response length of a single generation call.
	MaxTokens int `mapstructure:"max_tokens"`
	// UseAWSBedrock routes calls through AWS Bedrock instead of the API.
	UseAWSBedrock bool `mapstructure:"use_aws_bedrock"`
	// AWSRegion is the Bedrock region when UseAWSBedrock is set.
	AWSRegion string `mapstructure:"aws_region"`
	// AWSProfile is the AWS credentials profile when UseAWSBedrock is set.
	AWSProfile string `mapstructure:"aws_profile"`
}

// StorageConfig holds database locations.
type StorageConfig struct {
	// ConversationsPath is the sqlite file holding conversation state.
	ConversationsPath string `mapstructure:"conversations_path"`
	// MemoryPath is the sqlite file holding the append-only memory ledger.
	MemoryPath string `mapstructure:"memory_path"`
}

// CoordinatorConfig holds turn-handling settings.
type CoordinatorConfig struct {
	// DefaultTenant is the tenant used when the CLI is given none.
	DefaultTenant string `mapstructure:"default_tenant"`
	// StrictApproval makes proposal approval wait for complete event details
	// instead of short-circuiting past the missing ones.
	StrictApproval bool `mapstructure:"strict_approval"`
}

// DelegationConfig holds task-delegation settings.
type DelegationConfig struct {
	// Concurrent dispatches assignments in parallel instead of sequentially.
	Concurrent bool `mapstructure:"concurrent"`
	// AssignmentTimeout bounds a single agent call.
	AssignmentTimeout time.Duration `mapstructure:"assignment_timeout"`
	// RetryPolicy selects the retry strategy: none, fixed, or backoff.
	RetryPolicy string `mapstructure:"retry_policy"`
	// RetryAttempts is the attempt budget for fixed and backoff policies.
	RetryAttempts int `mapstructure:"retry_attempts"`
	// RetryDelay is the base delay for fixed and backoff policies.
	RetryDelay time.Duration `mapstructure:"retry_delay"`
	// ProfilesDir is the directory holding per-agent YAML profiles.
	ProfilesDir string `mapstructure:"profiles_dir"`
	// PlaybookPath points at a YAML delegation playbook. Empty uses the
	// built-in playbook.
	PlaybookPath string `mapstructure:"playbook_path"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (ANTHROPIC_API_KEY, GALA_MODEL, GALA_DB_PATH)
// 2. Project config (.gala.yaml in current directory or parent)
// 3. User config (~/.config/gala/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	// Project config takes precedence over the user config.
	projectConfig := findProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("")

	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("anthropic.model", "GALA_MODEL")
	v.BindEnv("storage.conversations_path", "GALA_DB_PATH")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// Save writes the current configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath := filepath.Join(userConfigDir, "config.yaml")

	v := viper.New()
	v.SetConfigFile(configPath)

	v.Set("anthropic.api_key", cfg.Anthropic.APIKey)
	v.Set("anthropic.model", cfg.Anthropic.Model)
	v.Set("anthropic.max_tokens", cfg.Anthropic.MaxTokens)
	v.Set("anthropic.use_aws_bedrock", cfg.Anthropic.UseAWSBedrock)
	v.Set("anthropic.aws_region", cfg.Anthropic.AWSRegion)
	v.Set("anthropic.aws_profile", cfg.Anthropic.AWSProfile)
	v.Set("storage.conversations_path", cfg.Storage.ConversationsPath)
	v.Set("storage.memory_path", cfg.Storage.MemoryPath)
	v.Set("coordinator.default_tenant", cfg.Coordinator.DefaultTenant)
	v.Set("coordinator.strict_approval", cfg.Coordinator.StrictApproval)
	v.Set("delegation.concurrent", cfg.Delegation.Concurrent)
	v.Set("delegation.assignment_timeout", cfg.Delegation.AssignmentTimeout.String())
	v.Set("delegation.retry_policy", cfg.Delegation.RetryPolicy)
	v.Set("delegation.retry_attempts", cfg.Delegation.RetryAttempts)
	v.Set("delegation.retry_delay", cfg.Delegation.RetryDelay.String())
	v.Set("delegation.profiles_dir", cfg.Delegation.ProfilesDir)
	v.Set("delegation.playbook_path", cfg.Delegation.PlaybookPath)

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.model", "claude-sonnet-4-20250514")
	v.SetDefault("anthropic.max_tokens", 4096)
	v.SetDefault("anthropic.use_aws_bedrock", false)
	v.SetDefault("anthropic.aws_region", "")
	v.SetDefault("anthropic.aws_profile", "")

	v.SetDefault("storage.conversations_path", filepath.Join(".gala", "conversations.db"))
	v.SetDefault("storage.memory_path", filepath.Join(".gala", "memory.db"))

	v.SetDefault("coordinator.default_tenant", "default")
	v.SetDefault("coordinator.strict_approval", false)

	v.SetDefault("delegation.concurrent", false)
	v.SetDefault("delegation.assignment_timeout", "45s")
	v.SetDefault("delegation.retry_policy", "none")
	v.SetDefault("delegation.retry_attempts", 2)
	v.SetDefault("delegation.retry_delay", "2s")
	v.SetDefault("delegation.profiles_dir", filepath.Join("configs", "agents"))
	v.SetDefault("delegation.playbook_path", "")
}

// getUserConfigDir returns the XDG config directory for Gala.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "gala")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "gala")
	}
	return filepath.Join(home, ".config", "gala")
}

// findProjectConfig searches for .gala.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".gala.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// expandEnv expands ${VAR} references in a string.
func expandEnv(s string) string {
	return os.ExpandEnv(s)
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Anthropic: AnthropicConfig{
			APIKey:    "",
			Model:     "claude-sonnet-4-20250514",
			MaxTokens: 4096,
		},
		Storage: StorageConfig{
			ConversationsPath: filepath.Join(".gala", "conversations.db"),
			MemoryPath:        filepath.Join(".gala", "memory.db"),
		},
		Coordinator: CoordinatorConfig{
			DefaultTenant:  "default",
			StrictApproval: false,
		},
		Delegation: DelegationConfig{
			Concurrent:        false,
			AssignmentTimeout: 45 * time.Second,
			RetryPolicy:       "none",
			RetryAttempts:     2,
			RetryDelay:        2 * time.Second,
			ProfilesDir:       filepath.Join("configs", "agents"),
		},
	}
}
