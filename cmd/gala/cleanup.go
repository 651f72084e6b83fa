package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/festwork/gala/internal/config"
	"github.com/festwork/gala/internal/state"
)

var (
	cleanupForce     bool
	cleanupOlderThan time.Duration
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Purge old completed conversations",
	Long: `Delete completed conversations that have not changed recently.

Only conversations in the completed phase are considered; active planning
is never touched. The assignment index rows for each purged conversation
are deleted with it. Memory notes are kept: they are the durable record
that outlives the conversation.

Examples:
  gala cleanup                    # Purge completed conversations older than 30 days
  gala cleanup --older-than 168h  # Purge those idle for a week
  gala cleanup --force            # Skip the confirmation prompt`,
	RunE: runCleanup,
}

func init() {
	cleanupCmd.Flags().BoolVarP(&cleanupForce, "force", "f", false, "Skip confirmation prompt")
	cleanupCmd.Flags().DurationVar(&cleanupOlderThan, "older-than", 30*24*time.Hour, "Purge completed conversations idle longer than this")
}

func runCleanup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	dbPath := cfg.Storage.ConversationsPath
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Println("No conversations yet; nothing to clean up.")
		return nil
	}

	if !cleanupForce {
		fmt.Printf("Purge completed conversations idle longer than %s? [y/N] ", cleanupOlderThan)
		reader := bufio.NewReader(os.Stdin)
		response, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("read confirmation: %w", err)
		}

		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Println("Cleanup cancelled.")
			return nil
		}
	}

	db, err := state.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open conversation store: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migrate conversation store: %w", err)
	}

	purged, err := db.PurgeCompleted(cleanupOlderThan)
	if err != nil {
		return fmt.Errorf("purge conversations: %w", err)
	}

	if purged == 0 {
		fmt.Println("Nothing to purge.")
		return nil
	}
	fmt.Printf("Purged %d completed conversation(s).\n", purged)
	return nil
}
