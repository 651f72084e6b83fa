package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/festwork/gala/internal/config"
	"github.com/festwork/gala/internal/state"
	"github.com/festwork/gala/pkg/models"
)

var (
	statusTenant string
	statusFormat string
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "List conversations and their delegation tallies",
	Long: `Display every stored conversation for a tenant.

Shows:
  - Conversation ID and current phase
  - When the conversation last changed
  - Assignment tallies from the delegation ledger`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusTenant, "tenant", "", "Tenant to list (default from config)")
	statusCmd.Flags().StringVar(&statusFormat, "format", "text", "Output format: text or yaml")
}

// statusRow is the YAML projection of one conversation summary.
type statusRow struct {
	ConversationID string         `yaml:"conversation_id"`
	Phase          string         `yaml:"phase"`
	UpdatedAt      time.Time      `yaml:"updated_at"`
	Assignments    map[string]int `yaml:"assignments,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	if statusFormat != "text" && statusFormat != "yaml" {
		return fmt.Errorf("unknown format %q (want text or yaml)", statusFormat)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	tenant := statusTenant
	if tenant == "" {
		tenant = cfg.Coordinator.DefaultTenant
	}

	// Check if any database exists before creating one just to read it
	dbPath := cfg.Storage.ConversationsPath
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Println("No conversations yet. Run 'gala chat' to start planning.")
		return nil
	}

	db, err := state.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open conversation store: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migrate conversation store: %w", err)
	}

	summaries, err := db.ListConversations(tenant)
	if err != nil {
		return fmt.Errorf("list conversations: %w", err)
	}

	if len(summaries) == 0 {
		fmt.Printf("No conversations for tenant %q. Run 'gala chat' to start planning.\n", tenant)
		return nil
	}

	if statusFormat == "yaml" {
		return writeStatusYAML(summaries)
	}
	displayConversations(tenant, summaries)
	return nil
}

func displayConversations(tenant string, summaries []state.ConversationSummary) {
	fmt.Printf("Conversations for tenant %q:\n", tenant)
	for _, s := range summaries {
		elapsed := formatDuration(time.Since(s.UpdatedAt))
		fmt.Printf("  %s: %s (updated %s ago)\n", s.ConversationID, s.Phase, elapsed)
		if line := tallyLine(s.Assignments); line != "" {
			fmt.Printf("    assignments: %s\n", line)
		}
	}
}

func writeStatusYAML(summaries []state.ConversationSummary) error {
	rows := make([]statusRow, 0, len(summaries))
	for _, s := range summaries {
		row := statusRow{
			ConversationID: s.ConversationID,
			Phase:          string(s.Phase),
			UpdatedAt:      s.UpdatedAt,
		}
		if len(s.Assignments) > 0 {
			row.Assignments = make(map[string]int, len(s.Assignments))
			for status, n := range s.Assignments {
				row.Assignments[string(status)] = n
			}
		}
		rows = append(rows, row)
	}

	data, err := yaml.Marshal(rows)
	if err != nil {
		return fmt.Errorf("marshal status: %w", err)
	}
	_, err = os.Stdout.Write(data)
	return err
}

// tallyLine renders the non-zero ledger tallies in a stable order.
func tallyLine(tally map[models.AssignmentStatus]int) string {
	order := []models.AssignmentStatus{
		models.AssignmentPending,
		models.AssignmentInProgress,
		models.AssignmentCompleted,
		models.AssignmentFailed,
	}
	var parts []string
	for _, status := range order {
		if n := tally[status]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, status))
		}
	}
	return strings.Join(parts, ", ")
}

// formatDuration formats a duration in human-readable form
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		h := int(d.Hours())
		m := int(d.Minutes()) % 60
		if m > 0 {
			return fmt.Sprintf("%dh%dm", h, m)
		}
		return fmt.Sprintf("%dh", h)
	}
	days := int(d.Hours()) / 24
	return fmt.Sprintf("%dd", days)
}
