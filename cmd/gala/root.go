package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gala",
	Short: "Multi-agent event planning coordinator",
	Long: `Gala plans events through a phased conversation: it gathers your
requirements, drafts a proposal, and on approval delegates the work to a
team of specialized planning agents.

With no arguments, starts a chat session for a new conversation.

Core capabilities:
- Gathers event details across as many messages as it takes
- Drafts a proposal and waits for your explicit approval
- Delegates approved work to venue, budget, stakeholder, marketing, and
  timeline agents
- Records every assignment in a per-conversation ledger
- Keeps durable memory notes across sessions`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd, args)
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// The bare command starts a chat, so it takes the chat flags too
	addChatFlags(rootCmd)

	// Add subcommands
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(memoryCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(versionCmd)
}
