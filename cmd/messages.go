// ABOUTME: Direct message commands for the howudoin CLI
// ABOUTME: Show a conversation with a friend and send messages to it

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/howudoin/howudoin-cli/internal/client"
	"github.com/howudoin/howudoin-cli/internal/viewmodel"
	"github.com/spf13/cobra"
)

var messagesCmd = &cobra.Command{
	Use:   "messages",
	Short: "Direct messages with a friend",
}

var messagesHistoryCmd = &cobra.Command{
	Use:   "history <peerId>",
	Short: "Show the conversation with a friend",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context, w io.Writer) int {
			return runMessagesHistory(ctx, w, args[0])
		})
	},
}

var messagesSendCmd = &cobra.Command{
	Use:   "send <peerId> <content>...",
	Short: "Send a direct message",
	Long: `Send a direct message. Remaining arguments are joined with spaces.

Example:
  howudoin messages send u2 see you at noon`,
	Args: cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context, w io.Writer) int {
			return runMessagesSend(ctx, w, args[0], strings.Join(args[1:], " "))
		})
	},
}

func init() {
	messagesCmd.AddCommand(messagesHistoryCmd, messagesSendCmd)
	rootCmd.AddCommand(messagesCmd)
}

func runMessagesHistory(ctx context.Context, w io.Writer, peerID string) int {
	d, err := loadDeps()
	if err != nil {
		return fail(w, err)
	}

	chat := viewmodel.NewDirectChat(d.api, d.store, peerID)
	if err := chat.Load(ctx); err != nil {
		return fail(w, err)
	}

	printConversation(w, chat.Messages(), d.store.UserID())
	return 0
}

func runMessagesSend(ctx context.Context, w io.Writer, peerID, content string) int {
	d, err := loadDeps()
	if err != nil {
		return fail(w, err)
	}

	chat := viewmodel.NewDirectChat(d.api, d.store, peerID)
	if err := chat.Send(ctx, content); err != nil && !delivered(w, err) {
		return fail(w, err)
	}

	printSent(w, chat.Messages(), d.store.UserID())
	return 0
}

// delivered reports whether a send error still means the message went out,
// warning in human output when the history behind it is stale
func delivered(w io.Writer, err error) bool {
	if !errors.Is(err, viewmodel.ErrHistoryStale) {
		return false
	}
	if !IsJSONOutput() {
		fmt.Fprintf(w, "Warning: %v\n", err)
	}
	return true
}

// printConversation writes a history in the requested format
func printConversation(w io.Writer, msgs []client.Message, selfID string) {
	if IsJSONOutput() {
		fmt.Fprintln(w, formatMessagesJSON(msgs))
	} else {
		fmt.Fprintln(w, formatMessagesHuman(msgs, selfID))
	}
}

// printSent writes the newest own message after a successful send
func printSent(w io.Writer, msgs []client.Message, selfID string) {
	var sent *client.Message
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].IsFrom(selfID) {
			sent = &msgs[i]
			break
		}
	}
	if sent == nil {
		printMessage(w, client.MsgMessageSent)
		return
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(sent, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintln(w, formatMessageLine(*sent, selfID))
	}
}

// formatMessagesHuman renders one line per message, oldest first
func formatMessagesHuman(msgs []client.Message, selfID string) string {
	if len(msgs) == 0 {
		return "No messages yet."
	}
	lines := make([]string, 0, len(msgs))
	for _, m := range msgs {
		lines = append(lines, formatMessageLine(m, selfID))
	}
	return strings.Join(lines, "\n")
}

// formatMessageLine renders "[HH:MM] Sender: content", naming own messages Me
func formatMessageLine(m client.Message, selfID string) string {
	sender := m.SenderID
	if m.IsFrom(selfID) {
		sender = viewmodel.SelfName
	}
	return fmt.Sprintf("[%s] %s: %s", m.Timestamp.Clock(), sender, m.Content)
}

// formatMessagesJSON formats a history as JSON
func formatMessagesJSON(msgs []client.Message) string {
	if msgs == nil {
		msgs = []client.Message{}
	}
	data, _ := json.MarshalIndent(msgs, "", "  ")
	return string(data)
}
