package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/GregMSThompson/decision-backend/pkg/logger"
)

// chatFailureText is shown for any failed chat turn.
const chatFailureText = "Error communicating with logic core."

var chatSession string

func init() {
	chatCmd.Flags().StringVar(&chatSession, "session", "", "continue an existing chat session")
	rootCmd.AddCommand(chatCmd)
}

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Ask follow-up questions; without a message, start an interactive session",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		if len(args) == 1 {
			chatTurn(cmd.Context(), client, cmd.OutOrStdout(), args[0])
			return nil
		}
		return chatLoop(cmd.Context(), client, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func chatTurn(ctx context.Context, client *Client, out io.Writer, message string) {
	resp, err := client.Chat(ctx, chatSession, message)
	if err != nil {
		logger.FromContext(ctx).Debug("chat failed", "error", err)
		fmt.Fprintln(out, chatFailureText)
		return
	}
	chatSession = resp.SessionID
	fmt.Fprintln(out, resp.Reply)
}

func chatLoop(ctx context.Context, client *Client, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !sc.Scan() {
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())
		switch line {
		case "":
			continue
		case "exit", "quit":
			return nil
		}
		chatTurn(ctx, client, out, line)
		if ctx.Err() != nil {
			return nil
		}
	}
}
