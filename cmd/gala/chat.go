package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/festwork/gala/internal/config"
	"github.com/festwork/gala/internal/coordinator"
	"github.com/festwork/gala/pkg/models"
)

var (
	chatTenant         string
	chatConversation   string
	chatConcurrent     bool
	chatStrictApproval bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start or resume a planning conversation",
	Long: `Start a line-based planning conversation with the coordinator.

Each message you send runs one full turn: the coordinator re-reads the
conversation, updates the gathered event details, and replies according
to the phase the conversation is in. Approving a proposal delegates the
work to the specialized agents in the same turn.

The conversation is persisted after every turn. Type "exit" or "quit"
(or press Ctrl-D) to leave; resume later with --conversation.`,
	RunE: runChat,
}

// addChatFlags registers the chat flags on cmd. The root command calls this
// too, so `gala` and `gala chat` accept the same flags.
func addChatFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&chatTenant, "tenant", "", "Tenant the conversation belongs to (default from config)")
	cmd.Flags().StringVar(&chatConversation, "conversation", "", "Conversation ID to resume (default: start a new one)")
	cmd.Flags().BoolVar(&chatConcurrent, "concurrent", false, "Dispatch delegated assignments in parallel")
	cmd.Flags().BoolVar(&chatStrictApproval, "strict-approval", false, "Refuse approvals while event details are still missing")
}

func init() {
	addChatFlags(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	tenant := chatTenant
	if tenant == "" {
		tenant = cfg.Coordinator.DefaultTenant
	}

	coord, cleanup, err := buildCoordinator(cfg, chatConcurrent || cfg.Delegation.Concurrent, chatStrictApproval || cfg.Coordinator.StrictApproval)
	if err != nil {
		return err
	}
	defer cleanup()

	conversationID := chatConversation
	resuming := conversationID != ""
	if conversationID == "" {
		conversationID = models.NewConversationID()
	}

	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println()
		cancel()
	}()

	go printEvents(ctx, coord.Events())

	header := color.New(color.Bold)
	if resuming {
		header.Printf("Resuming conversation %s (tenant %s)\n", conversationID, tenant)
	} else {
		header.Printf("Starting conversation %s (tenant %s)\n", conversationID, tenant)
	}
	fmt.Println("Tell me about the event you're planning. Type \"exit\" to leave.")
	fmt.Println()

	prompt := color.New(color.FgCyan, color.Bold)
	scanner := bufio.NewScanner(os.Stdin)
	for ctx.Err() == nil {
		prompt.Print("you> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		result, err := coord.Turn(ctx, tenant, conversationID, line)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			color.Red("error: %v", err)
			continue
		}

		if result.PhaseChanged {
			color.Yellow("-- phase: %s --", result.State.CurrentPhase)
		}
		fmt.Printf("\ngala> %s\n\n", result.Reply)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	fmt.Println("Conversation saved. Resume it with:")
	fmt.Printf("  gala chat --conversation %s\n", conversationID)
	return nil
}

// printEvents renders coordinator events as they arrive, so delegation
// progress is visible while a turn is still running.
func printEvents(ctx context.Context, events <-chan coordinator.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			switch ev.Type {
			case coordinator.EventAssignmentStarted:
				color.New(color.Faint).Printf("  . %s working: %s\n", ev.AgentType, ev.Message)
			case coordinator.EventAssignmentCompleted:
				color.Green("  + %s done", ev.AgentType)
			case coordinator.EventAssignmentFailed:
				color.Red("  x %s failed: %v", ev.AgentType, ev.Error)
			}
		}
	}
}
