package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/festwork/gala/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify Gala configuration.

Without arguments (or with "show"), displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.
"config init" writes a user config file with the defaults.

Configuration is stored at ~/.config/gala/config.yaml
Project-specific overrides can be placed in .gala.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		switch {
		case len(args) == 0:
			displayAllConfig(cfg)
		case len(args) == 1 && args[0] == "show":
			displayAllConfig(cfg)
		case len(args) == 1 && args[0] == "init":
			initUserConfig()
		case len(args) == 1:
			displayConfigKey(cfg, args[0])
		default:
			setConfigKey(cfg, args[0], args[1])
		}
	},
}

// displayAllConfig prints all configuration values.
func displayAllConfig(cfg *config.Config) {
	// Mask API key if set
	apiKeyDisplay := "(not set)"
	if cfg.Anthropic.APIKey != "" {
		apiKeyDisplay = "****"
	}

	fmt.Printf("anthropic.api_key: %s\n", apiKeyDisplay)
	fmt.Printf("anthropic.model: %s\n", cfg.Anthropic.Model)
	fmt.Printf("anthropic.max_tokens: %d\n", cfg.Anthropic.MaxTokens)
	fmt.Printf("anthropic.use_aws_bedrock: %t\n", cfg.Anthropic.UseAWSBedrock)
	fmt.Printf("storage.conversations_path: %s\n", cfg.Storage.ConversationsPath)
	fmt.Printf("storage.memory_path: %s\n", cfg.Storage.MemoryPath)
	fmt.Printf("coordinator.default_tenant: %s\n", cfg.Coordinator.DefaultTenant)
	fmt.Printf("coordinator.strict_approval: %t\n", cfg.Coordinator.StrictApproval)
	fmt.Printf("delegation.concurrent: %t\n", cfg.Delegation.Concurrent)
	fmt.Printf("delegation.assignment_timeout: %s\n", cfg.Delegation.AssignmentTimeout)
	fmt.Printf("delegation.retry_policy: %s\n", cfg.Delegation.RetryPolicy)
	fmt.Printf("delegation.retry_attempts: %d\n", cfg.Delegation.RetryAttempts)
	fmt.Printf("delegation.retry_delay: %s\n", cfg.Delegation.RetryDelay)
	fmt.Printf("delegation.profiles_dir: %s\n", cfg.Delegation.ProfilesDir)
	fmt.Printf("delegation.playbook_path: %s\n", cfg.Delegation.PlaybookPath)
}

// displayConfigKey prints a single configuration value.
func displayConfigKey(cfg *config.Config, key string) {
	value, err := getConfigValue(cfg, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(value)
}

// setConfigKey sets a configuration value and saves the config.
func setConfigKey(cfg *config.Config, key, value string) {
	if err := setConfigValue(cfg, key, value); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := config.Save(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Set %s = %s\n", key, value)
}

// initUserConfig writes the defaults to the user config file if absent.
func initUserConfig() {
	path := config.GetUserConfigPath()
	if _, err := os.Stat(path); err == nil {
		fmt.Printf("Config already exists at %s\n", path)
		return
	}

	if err := config.Save(config.Default()); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing config: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", path)
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch strings.ToLower(key) {
	case "anthropic.api_key":
		if cfg.Anthropic.APIKey == "" {
			return "(not set)", nil
		}
		return "****", nil
	case "anthropic.model":
		return cfg.Anthropic.Model, nil
	case "anthropic.max_tokens":
		return strconv.Itoa(cfg.Anthropic.MaxTokens), nil
	case "anthropic.use_aws_bedrock":
		return strconv.FormatBool(cfg.Anthropic.UseAWSBedrock), nil
	case "anthropic.aws_region":
		return cfg.Anthropic.AWSRegion, nil
	case "anthropic.aws_profile":
		return cfg.Anthropic.AWSProfile, nil
	case "storage.conversations_path":
		return cfg.Storage.ConversationsPath, nil
	case "storage.memory_path":
		return cfg.Storage.MemoryPath, nil
	case "coordinator.default_tenant":
		return cfg.Coordinator.DefaultTenant, nil
	case "coordinator.strict_approval":
		return strconv.FormatBool(cfg.Coordinator.StrictApproval), nil
	case "delegation.concurrent":
		return strconv.FormatBool(cfg.Delegation.Concurrent), nil
	case "delegation.assignment_timeout":
		return cfg.Delegation.AssignmentTimeout.String(), nil
	case "delegation.retry_policy":
		return cfg.Delegation.RetryPolicy, nil
	case "delegation.retry_attempts":
		return strconv.Itoa(cfg.Delegation.RetryAttempts), nil
	case "delegation.retry_delay":
		return cfg.Delegation.RetryDelay.String(), nil
	case "delegation.profiles_dir":
		return cfg.Delegation.ProfilesDir, nil
	case "delegation.playbook_path":
		return cfg.Delegation.PlaybookPath, nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.Config, key, value string) error {
	switch strings.ToLower(key) {
	case "anthropic.api_key":
		cfg.Anthropic.APIKey = value
	case "anthropic.model":
		cfg.Anthropic.Model = value
	case "anthropic.max_tokens":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid max_tokens %q: %w", value, err)
		}
		cfg.Anthropic.MaxTokens = n
	case "anthropic.use_aws_bedrock":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid use_aws_bedrock %q: %w", value, err)
		}
		cfg.Anthropic.UseAWSBedrock = b
	case "anthropic.aws_region":
		cfg.Anthropic.AWSRegion = value
	case "anthropic.aws_profile":
		cfg.Anthropic.AWSProfile = value
	case "storage.conversations_path":
		cfg.Storage.ConversationsPath = value
	case "storage.memory_path":
		cfg.Storage.MemoryPath = value
	case "coordinator.default_tenant":
		cfg.Coordinator.DefaultTenant = value
	case "coordinator.strict_approval":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid strict_approval %q: %w", value, err)
		}
		cfg.Coordinator.StrictApproval = b
	case "delegation.concurrent":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid concurrent %q: %w", value, err)
		}
		cfg.Delegation.Concurrent = b
	case "delegation.assignment_timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid assignment_timeout %q: %w", value, err)
		}
		cfg.Delegation.AssignmentTimeout = d
	case "delegation.retry_policy":
		switch value {
		case "none", "fixed", "backoff":
			cfg.Delegation.RetryPolicy = value
		default:
			return fmt.Errorf("invalid retry_policy %q (want none, fixed, or backoff)", value)
		}
	case "delegation.retry_attempts":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid retry_attempts %q: %w", value, err)
		}
		cfg.Delegation.RetryAttempts = n
	case "delegation.retry_delay":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid retry_delay %q: %w", value, err)
		}
		cfg.Delegation.RetryDelay = d
	case "delegation.profiles_dir":
		cfg.Delegation.ProfilesDir = value
	case "delegation.playbook_path":
		cfg.Delegation.PlaybookPath = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}
