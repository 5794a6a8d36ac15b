// ABOUTME: Account commands for the howudoin CLI
// ABOUTME: Register, log in, log out, and show the stored session

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/howudoin/howudoin-cli/internal/client"
	"github.com/howudoin/howudoin-cli/internal/session"
	"github.com/howudoin/howudoin-cli/internal/viewmodel"
	"github.com/spf13/cobra"
)

var (
	regName     string
	regLastName string
	regEmail    string
	regPassword string

	loginEmail    string
	loginPassword string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	Long: `Create a Howudoin account. This does not log you in.

Example:
  howudoin register --name Ada --last-name Lovelace --email ada@example.com --password secret`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context, w io.Writer) int {
			return runRegister(ctx, w, client.RegisterInput{
				Name:     regName,
				LastName: regLastName,
				Email:    regEmail,
				Password: regPassword,
			})
		})
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session",
	Long: `Log in and store the session in the config directory so later commands
run as this user.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context, w io.Writer) int {
			return runLogin(ctx, w, loginEmail, loginPassword)
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context, w io.Writer) int {
			return runLogout(w)
		})
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context, w io.Writer) int {
			return runWhoami(w)
		})
	},
}

func init() {
	rootCmd.AddCommand(registerCmd, loginCmd, logoutCmd, whoamiCmd)

	registerCmd.Flags().StringVar(&regName, "name", "", "First name")
	registerCmd.Flags().StringVar(&regLastName, "last-name", "", "Last name")
	registerCmd.Flags().StringVar(&regEmail, "email", "", "Email address")
	registerCmd.Flags().StringVar(&regPassword, "password", "", "Password")

	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Email address")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Password")
}

func runRegister(ctx context.Context, w io.Writer, in client.RegisterInput) int {
	d, err := loadDeps()
	if err != nil {
		return fail(w, err)
	}

	msg, err := viewmodel.NewAuth(d.api, d.store).Register(ctx, in)
	if err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatMessageJSON(msg))
	} else {
		fmt.Fprintln(w, msg)
	}
	return 0
}

func runLogin(ctx context.Context, w io.Writer, email, password string) int {
	d, err := loadDeps()
	if err != nil {
		return fail(w, err)
	}

	s, err := viewmodel.NewAuth(d.api, d.store).Login(ctx, email, password)
	if err != nil {
		return fail(w, err)
	}
	if err := d.persist(); err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatSessionJSON(GetAPIURL(), s))
	} else {
		fmt.Fprintf(w, "Logged in as %s\n", s.UserID)
	}
	return 0
}

func runLogout(w io.Writer) int {
	d, err := loadDeps()
	if err != nil {
		return fail(w, err)
	}

	viewmodel.NewAuth(d.api, d.store).Logout()
	if err := d.persist(); err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatMessageJSON("Logged out"))
	} else {
		fmt.Fprintln(w, "Logged out")
	}
	return 0
}

func runWhoami(w io.Writer) int {
	d, err := loadDeps()
	if err != nil {
		return fail(w, err)
	}

	s, ok := d.store.Current()
	if !ok {
		fmt.Fprintln(w, "Error: not logged in. Run howudoin login first.")
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatSessionJSON(GetAPIURL(), s))
	} else {
		fmt.Fprintln(w, formatSessionHuman(GetAPIURL(), s))
	}
	return 0
}

// formatSessionHuman formats a session for human readability. The token is never shown.
func formatSessionHuman(url string, s session.Session) string {
	groups := "none"
	if len(s.Groups) > 0 {
		groups = strings.Join(s.Groups, ", ")
	}
	return fmt.Sprintf(`Backend:  %s
User ID:  %s
Groups:   %s`, url, s.UserID, groups)
}

// formatSessionJSON formats a session as JSON without the token
func formatSessionJSON(url string, s session.Session) string {
	groups := s.Groups
	if groups == nil {
		groups = []string{}
	}
	output := map[string]interface{}{
		"backend": url,
		"user_id": s.UserID,
		"groups":  groups,
	}
	data, _ := json.MarshalIndent(output, "", "  ")
	return string(data)
}

// formatMessageJSON wraps a status message as JSON
func formatMessageJSON(msg string) string {
	data, _ := json.MarshalIndent(map[string]string{"message": msg}, "", "  ")
	return string(data)
}
