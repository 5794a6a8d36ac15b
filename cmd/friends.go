// ABOUTME: Friend commands for the howudoin CLI
// ABOUTME: List friends and send or accept friend requests

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/howudoin/howudoin-cli/internal/client"
	"github.com/howudoin/howudoin-cli/internal/viewmodel"
	"github.com/spf13/cobra"
)

var friendsCmd = &cobra.Command{
	Use:   "friends",
	Short: "Manage friends",
}

var friendsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your friends",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(runFriendsList)
	},
}

var friendsAddCmd = &cobra.Command{
	Use:   "add <receiverId>",
	Short: "Send a friend request",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context, w io.Writer) int {
			return runFriendsAdd(ctx, w, args[0])
		})
	},
}

var friendsAcceptCmd = &cobra.Command{
	Use:   "accept <senderId>",
	Short: "Accept a pending friend request",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context, w io.Writer) int {
			return runFriendsAccept(ctx, w, args[0])
		})
	},
}

func init() {
	friendsCmd.AddCommand(friendsListCmd, friendsAddCmd, friendsAcceptCmd)
	rootCmd.AddCommand(friendsCmd)
}

func runFriendsList(ctx context.Context, w io.Writer) int {
	d, err := loadDeps()
	if err != nil {
		return fail(w, err)
	}

	roster := viewmodel.NewRoster(d.api, d.store)
	if err := roster.Load(ctx); err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatFriendsJSON(roster.Friends()))
	} else {
		fmt.Fprintln(w, formatFriendsHuman(roster.Friends()))
	}
	return 0
}

func runFriendsAdd(ctx context.Context, w io.Writer, receiverID string) int {
	d, err := loadDeps()
	if err != nil {
		return fail(w, err)
	}

	msg, err := viewmodel.NewRoster(d.api, d.store).SendFriendRequest(ctx, receiverID)
	if err != nil {
		return fail(w, err)
	}
	printMessage(w, msg)
	return 0
}

func runFriendsAccept(ctx context.Context, w io.Writer, senderID string) int {
	d, err := loadDeps()
	if err != nil {
		return fail(w, err)
	}

	msg, err := viewmodel.NewRoster(d.api, d.store).AcceptFriendRequest(ctx, senderID)
	if err != nil {
		return fail(w, err)
	}
	printMessage(w, msg)
	return 0
}

// formatFriendsHuman renders the friend list as aligned columns
func formatFriendsHuman(friends []client.Friend) string {
	if len(friends) == 0 {
		return "No friends yet. Send a request with: howudoin friends add <userId>"
	}

	idWidth, nameWidth := len("ID"), len("NAME")
	for _, f := range friends {
		idWidth = max(idWidth, len(f.ID))
		nameWidth = max(nameWidth, len(f.FullName()))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-*s  %-*s  %s", idWidth, "ID", nameWidth, "NAME", "PENDING")
	for _, f := range friends {
		pending := "-"
		if len(f.PendingFriendRequests) > 0 {
			pending = strings.Join(f.PendingFriendRequests, ", ")
		}
		fmt.Fprintf(&b, "\n%-*s  %-*s  %s", idWidth, f.ID, nameWidth, f.FullName(), pending)
	}
	return b.String()
}

// formatFriendsJSON formats the friend list as JSON
func formatFriendsJSON(friends []client.Friend) string {
	if friends == nil {
		friends = []client.Friend{}
	}
	data, _ := json.MarshalIndent(friends, "", "  ")
	return string(data)
}

// printMessage prints a backend status message in the requested format
func printMessage(w io.Writer, msg string) {
	if IsJSONOutput() {
		fmt.Fprintln(w, formatMessageJSON(msg))
	} else {
		fmt.Fprintln(w, msg)
	}
}
