package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/festwork/gala/internal/config"
	"github.com/festwork/gala/internal/memory"
	"github.com/festwork/gala/pkg/models"
)

var (
	memoryConversation string
	memoryTenant       string
	memoryFormat       string
	memoryLimit        int
)

var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Inspect durable memory notes",
	Long: `Display the durable notes the coordinator recorded.

With --conversation, shows that conversation's notes in order: phase
changes, drafted proposals, delegation outcomes, and closure summaries.
Without it, shows the tenant's most recent notes across conversations.`,
	RunE: runMemory,
}

func init() {
	memoryCmd.Flags().StringVar(&memoryConversation, "conversation", "", "Conversation whose notes to show")
	memoryCmd.Flags().StringVar(&memoryTenant, "tenant", "", "Tenant the notes belong to (default from config)")
	memoryCmd.Flags().StringVar(&memoryFormat, "format", "text", "Output format: text or yaml")
	memoryCmd.Flags().IntVar(&memoryLimit, "limit", 20, "Maximum notes to show without --conversation")
}

// memoryRow is the YAML projection of one memory entry.
type memoryRow struct {
	ConversationID string    `yaml:"conversation_id"`
	MemoryType     string    `yaml:"memory_type"`
	Content        string    `yaml:"content"`
	Context        string    `yaml:"context,omitempty"`
	Timestamp      time.Time `yaml:"timestamp"`
}

func runMemory(cmd *cobra.Command, args []string) error {
	if memoryFormat != "text" && memoryFormat != "yaml" {
		return fmt.Errorf("unknown format %q (want text or yaml)", memoryFormat)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	tenant := memoryTenant
	if tenant == "" {
		tenant = cfg.Coordinator.DefaultTenant
	}

	dbPath := cfg.Storage.MemoryPath
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Println("No memory yet. Notes accumulate as conversations run.")
		return nil
	}

	store, err := memory.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open memory store: %w", err)
	}
	defer store.Close()

	if err := store.Migrate(); err != nil {
		return fmt.Errorf("migrate memory store: %w", err)
	}

	var entries []models.MemoryEntry
	if memoryConversation != "" {
		entries, err = store.ForConversation(tenant, memoryConversation)
	} else {
		entries, err = store.Recent(tenant, memoryLimit)
	}
	if err != nil {
		return fmt.Errorf("read memory: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("No notes recorded yet.")
		return nil
	}

	if memoryFormat == "yaml" {
		return writeMemoryYAML(entries)
	}
	displayEntries(entries)
	return nil
}

func displayEntries(entries []models.MemoryEntry) {
	for _, e := range entries {
		elapsed := formatDuration(time.Since(e.Timestamp))
		fmt.Printf("  [%s] %s (%s ago)\n", e.MemoryType, e.Content, elapsed)
		if e.Context != "" {
			fmt.Printf("      %s\n", e.Context)
		}
	}
}

func writeMemoryYAML(entries []models.MemoryEntry) error {
	rows := make([]memoryRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, memoryRow{
			ConversationID: e.ConversationID,
			MemoryType:     string(e.MemoryType),
			Content:        e.Content,
			Context:        e.Context,
			Timestamp:      e.Timestamp,
		})
	}

	data, err := yaml.Marshal(rows)
	if err != nil {
		return fmt.Errorf("marshal memory: %w", err)
	}
	_, err = os.Stdout.Write(data)
	return err
}
