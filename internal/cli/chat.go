package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kaimana/makeke/internal/chat"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the marketplace assistant",
	Long: `Start a conversation with the Mākeke assistant. Ask it to find items,
draft a listing, or write a message to a seller, then confirm the action
it proposes.

With a terminal attached this runs the interactive UI. When stdin is a
pipe, turns are read line by line and replies printed to stdout.`,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	convo, err := newOrchestrator(cmd.Context())
	if err != nil {
		return err
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		return RunChatTUI(convo, store)
	}
	return runChatPipe(cmd.Context(), convo)
}

// runChatPipe drives the conversation from stdin, one turn per line.
// "/confirm" dispatches the most recent proposed action.
func runChatPipe(ctx context.Context, convo *chat.Orchestrator) error {
	fmt.Println(chat.WelcomeText)

	var lastActionable string
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if line == "/confirm" {
			if lastActionable == "" {
				fmt.Println("Nothing to confirm yet.")
				continue
			}
			dispatch, err := convo.Confirm(ctx, lastActionable)
			if err != nil {
				fmt.Printf("Confirm failed: %v\n", err)
				continue
			}
			fmt.Println(describeDispatch(dispatch))
			continue
		}

		reply, err := convo.Submit(ctx, line, nil)
		if err != nil {
			fmt.Printf("Turn skipped: %v\n", err)
			continue
		}

		fmt.Println(reply.Text)
		if reply.Intent != nil {
			lastActionable = reply.ID
			fmt.Printf("[proposed: %s. Send /confirm to run it]\n", describeIntent(reply.Intent))
		}
	}
	return scanner.Err()
}
