// ABOUTME: Group commands for the howudoin CLI
// ABOUTME: Create groups, manage members, and run group conversations

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/howudoin/howudoin-cli/internal/viewmodel"
	"github.com/spf13/cobra"
)

var (
	groupMemberIDs   []string
	groupMemberNames []string
)

var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "Group chats",
}

var groupsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known groups",
	Long: `List the groups known to this session: those reported at login plus
those created since.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context, w io.Writer) int {
			return runGroupsList(w)
		})
	},
}

var groupsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a group with friends",
	Long: `Create a group. You are always its first member.

Members are friends, selected by id or by "First Last" name.

Example:
  howudoin groups create "Book club" --member u2 --member-name "Grace Hopper"`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context, w io.Writer) int {
			return runGroupsCreate(ctx, w, args[0], groupMemberIDs, groupMemberNames)
		})
	},
}

var groupsMembersCmd = &cobra.Command{
	Use:   "members <groupId>",
	Short: "Show a group's members",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context, w io.Writer) int {
			return runGroupsMembers(ctx, w, args[0])
		})
	},
}

var groupsAddMemberCmd = &cobra.Command{
	Use:   "add-member <groupId> <memberId>",
	Short: "Add a user to a group",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context, w io.Writer) int {
			return runGroupsAddMember(ctx, w, args[0], args[1])
		})
	},
}

var groupsMessagesCmd = &cobra.Command{
	Use:   "messages <groupId>",
	Short: "Show a group conversation",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context, w io.Writer) int {
			return runGroupsMessages(ctx, w, args[0])
		})
	},
}

var groupsSendCmd = &cobra.Command{
	Use:   "send <groupId> <content>...",
	Short: "Send a message to a group",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context, w io.Writer) int {
			return runGroupsSend(ctx, w, args[0], strings.Join(args[1:], " "))
		})
	},
}

func init() {
	groupsCmd.AddCommand(groupsListCmd, groupsCreateCmd, groupsMembersCmd, groupsAddMemberCmd, groupsMessagesCmd, groupsSendCmd)
	rootCmd.AddCommand(groupsCmd)

	groupsCreateCmd.Flags().StringArrayVar(&groupMemberIDs, "member", nil, "Friend id to add (repeatable)")
	groupsCreateCmd.Flags().StringArrayVar(&groupMemberNames, "member-name", nil, `Friend "First Last" name to add (repeatable)`)
}

func runGroupsList(w io.Writer) int {
	d, err := loadDeps()
	if err != nil {
		return fail(w, err)
	}
	if _, ok := d.store.Current(); !ok {
		fmt.Fprintln(w, "Error: not logged in. Run howudoin login first.")
		return 2
	}

	groups := viewmodel.NewGroups(d.api, d.store, viewmodel.NewRoster(d.api, d.store)).List()
	if IsJSONOutput() {
		if groups == nil {
			groups = []string{}
		}
		data, _ := json.MarshalIndent(groups, "", "  ")
		fmt.Fprintln(w, string(data))
		return 0
	}

	if len(groups) == 0 {
		fmt.Fprintln(w, "No groups yet. Create one with: howudoin groups create <name>")
		return 0
	}
	fmt.Fprintln(w, strings.Join(groups, "\n"))
	return 0
}

func runGroupsCreate(ctx context.Context, w io.Writer, name string, ids, names []string) int {
	d, err := loadDeps()
	if err != nil {
		return fail(w, err)
	}

	refs := make([]viewmodel.MemberRef, 0, len(ids)+len(names))
	for _, id := range ids {
		refs = append(refs, viewmodel.ByID(id))
	}
	for _, n := range names {
		refs = append(refs, viewmodel.ParseName(n))
	}

	groups := viewmodel.NewGroups(d.api, d.store, viewmodel.NewRoster(d.api, d.store))
	groupID, err := groups.Create(ctx, name, refs)
	if err != nil {
		return fail(w, err)
	}
	if err := d.persist(); err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(map[string]string{"groupId": groupID}, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintf(w, "Group created successfully!\nGroup ID: %s\n", groupID)
	}
	return 0
}

func runGroupsMembers(ctx context.Context, w io.Writer, groupID string) int {
	d, err := loadDeps()
	if err != nil {
		return fail(w, err)
	}

	info, err := viewmodel.NewGroups(d.api, d.store, viewmodel.NewRoster(d.api, d.store)).Details(ctx, groupID)
	if err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(info, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintln(w, formatGroupHuman(info))
	}
	return 0
}

func runGroupsAddMember(ctx context.Context, w io.Writer, groupID, memberID string) int {
	d, err := loadDeps()
	if err != nil {
		return fail(w, err)
	}

	msg, err := viewmodel.NewGroups(d.api, d.store, viewmodel.NewRoster(d.api, d.store)).AddMember(ctx, groupID, memberID)
	if err != nil {
		return fail(w, err)
	}
	printMessage(w, msg)
	return 0
}

func runGroupsMessages(ctx context.Context, w io.Writer, groupID string) int {
	d, err := loadDeps()
	if err != nil {
		return fail(w, err)
	}

	chat := viewmodel.NewGroupChat(d.api, d.store, groupID)
	if err := chat.Load(ctx); err != nil {
		return fail(w, err)
	}

	printConversation(w, chat.Messages(), d.store.UserID())
	return 0
}

func runGroupsSend(ctx context.Context, w io.Writer, groupID, content string) int {
	d, err := loadDeps()
	if err != nil {
		return fail(w, err)
	}

	chat := viewmodel.NewGroupChat(d.api, d.store, groupID)
	if err := chat.Send(ctx, content); err != nil && !delivered(w, err) {
		return fail(w, err)
	}

	printSent(w, chat.Messages(), d.store.UserID())
	return 0
}

// formatGroupHuman renders group details with resolved member names
func formatGroupHuman(info *viewmodel.GroupInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Group:    %s\n", info.Name)
	fmt.Fprintf(&b, "ID:       %s\n", info.ID)
	fmt.Fprintf(&b, "Created:  %s\n", info.CreationTime)
	fmt.Fprintf(&b, "Members:  %d", len(info.Members))
	for _, m := range info.Members {
		if m.DisplayName == m.ID {
			fmt.Fprintf(&b, "\n  %s", m.ID)
		} else {
			fmt.Fprintf(&b, "\n  %s (%s)", m.DisplayName, m.ID)
		}
	}
	return b.String()
}
