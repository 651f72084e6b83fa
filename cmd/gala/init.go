package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/festwork/gala/internal/config"
)

var (
	initForce       bool
	initNoProfiles  bool
	initProfilesDir string
)

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Initialize a Gala project",
	Long: `Initialize a directory for use with Gala.

This command sets up everything needed to run Gala:
  - Creates the .gala directory that holds the sqlite databases
  - Creates a .gala.yaml configuration template
  - Creates editable agent profiles under configs/agents/

The directory argument is optional and defaults to the current directory.

Examples:
  gala init                # Initialize current directory
  gala init ./spring-gala  # Initialize specific directory
  gala init --force        # Overwrite existing templates
  gala init --no-profiles  # Skip the agent profile files`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing templates")
	initCmd.Flags().BoolVar(&initNoProfiles, "no-profiles", false, "Skip creating agent profile files")
	initCmd.Flags().StringVar(&initProfilesDir, "profiles-dir", filepath.Join("configs", "agents"), "Where to write agent profile files")
}

func runInit(cmd *cobra.Command, args []string) error {
	targetDir := "."
	if len(args) > 0 {
		targetDir = args[0]
	}

	absPath, err := filepath.Abs(targetDir)
	if err != nil {
		return fmt.Errorf("resolving absolute path: %w", err)
	}

	if err := os.MkdirAll(absPath, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", absPath, err)
	}

	fmt.Printf("Initializing Gala in %s...\n\n", absPath)

	if os.Getenv("ANTHROPIC_API_KEY") == "" {
		printStatus("!", "ANTHROPIC_API_KEY not set (you can set it later)", color.FgYellow)
	} else {
		printStatus("+", "ANTHROPIC_API_KEY is set", color.FgGreen)
	}

	galaDir := filepath.Join(absPath, ".gala")
	if err := os.MkdirAll(galaDir, 0755); err != nil {
		return fmt.Errorf("creating .gala directory: %w", err)
	}
	printStatus("+", "Created .gala directory", color.FgGreen)

	wrote, err := createProjectConfig(absPath)
	if err != nil {
		return fmt.Errorf("creating project config: %w", err)
	}
	if wrote {
		printStatus("+", "Created .gala.yaml template", color.FgGreen)
	} else {
		printStatus("=", ".gala.yaml already exists, left as is", color.FgYellow)
	}

	if !initNoProfiles {
		dir := initProfilesDir
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(absPath, dir)
		}
		n, err := createAgentProfiles(dir)
		if err != nil {
			return fmt.Errorf("creating agent profiles: %w", err)
		}
		if n > 0 {
			printStatus("+", fmt.Sprintf("Created %d agent profiles in %s", n, dir), color.FgGreen)
		} else {
			printStatus("=", "Agent profiles already exist, left as is", color.FgYellow)
		}
	}

	fmt.Printf("\n%s Gala initialization complete!\n\n", color.GreenString("+"))
	fmt.Println("Next steps:")
	if os.Getenv("ANTHROPIC_API_KEY") == "" {
		fmt.Println("  1. Set your API key:")
		fmt.Println("     export ANTHROPIC_API_KEY=your-key-here")
		fmt.Println()
	}
	fmt.Println("  2. Start planning:")
	fmt.Println("     gala chat")
	fmt.Println()
	fmt.Println("  3. Learn more:")
	fmt.Println("     gala --help")

	return nil
}

// createProjectConfig writes the .gala.yaml template. It reports whether a
// file was written; an existing file is left alone unless --force is set.
func createProjectConfig(dir string) (bool, error) {
	configPath := filepath.Join(dir, ".gala.yaml")

	if _, err := os.Stat(configPath); err == nil && !initForce {
		return false, nil
	}

	template := `# Gala Project Configuration
# This file overrides defaults from ~/.config/gala/config.yaml

# anthropic:
#   model: claude-sonnet-4-20250514
#   max_tokens: 4096

# storage:
#   conversations_path: .gala/conversations.db
#   memory_path: .gala/memory.db

# coordinator:
#   default_tenant: default
#   strict_approval: false

# delegation:
#   concurrent: false
#   assignment_timeout: 45s
#   retry_policy: none
#   profiles_dir: configs/agents
`

	if err := os.WriteFile(configPath, []byte(template), 0644); err != nil {
		return false, err
	}
	return true, nil
}

// profileFile is the on-disk shape of one agent profile.
type profileFile struct {
	AgentType    string `yaml:"agent_type"`
	DisplayName  string `yaml:"display_name"`
	SystemPrompt string `yaml:"system_prompt"`
	Model        string `yaml:"model,omitempty"`
	MaxTokens    int    `yaml:"max_tokens,omitempty"`
}

// createAgentProfiles writes one YAML file per built-in agent profile and
// returns how many files it wrote. Existing files are kept unless --force
// is set.
func createAgentProfiles(dir string) (int, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("creating %s: %w", dir, err)
	}

	wrote := 0
	for _, prof := range config.DefaultAgentProfiles().All() {
		path := filepath.Join(dir, prof.AgentType+".yaml")
		if _, err := os.Stat(path); err == nil && !initForce {
			continue
		}

		data, err := yaml.Marshal(profileFile{
			AgentType:    prof.AgentType,
			DisplayName:  prof.DisplayName,
			SystemPrompt: prof.SystemPrompt,
			Model:        prof.Model,
			MaxTokens:    prof.MaxTokens,
		})
		if err != nil {
			return wrote, fmt.Errorf("marshal profile %s: %w", prof.AgentType, err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return wrote, fmt.Errorf("write %s: %w", path, err)
		}
		wrote++
	}
	return wrote, nil
}

// printStatus prints a status line with a colored symbol
func printStatus(symbol, message string, colorAttr color.Attribute) {
	c := color.New(colorAttr)
	fmt.Printf("%s %s\n", c.Sprint(symbol), message)
}
